// Package console renders the sanity command-line surface: colored messages, the
// progress bar and the interactive prompt sequence.
package console

import (
	"os"

	"github.com/muesli/termenv"
	"golang.org/x/term"
)

const noColorEnvironmentVariable = "NO_COLOR"

// ColorOptions feeds DetectColorProfile.
type ColorOptions struct {
	// Disabled forces plain output, as --no-color or "color: false" do.
	Disabled bool
	Output   *os.File
}

// DetectColorProfile probes the terminal once. Plain output is selected when colors are
// disabled, NO_COLOR is set or the output is not a terminal.
func DetectColorProfile(options ColorOptions) termenv.Profile {
	if options.Disabled || options.Output == nil {
		return termenv.Ascii
	}
	if _, noColor := os.LookupEnv(noColorEnvironmentVariable); noColor {
		return termenv.Ascii
	}
	if !term.IsTerminal(int(options.Output.Fd())) {
		return termenv.Ascii
	}
	return termenv.NewOutput(options.Output).ColorProfile()
}

// IsInteractiveInput reports whether file is a terminal that can host line editing.
func IsInteractiveInput(file *os.File) bool {
	return file != nil && term.IsTerminal(int(file.Fd()))
}
