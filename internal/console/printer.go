package console

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/temirov/sanity/internal/types"
	"github.com/temirov/sanity/internal/utils"
)

const (
	progressBarWidth   = 20
	progressFilled     = "#"
	progressEmpty      = "-"
	progressLineFormat = "\rProgress: %s %d%% | %s"
	reportRuleWidth    = 60
	reportRule         = "~"

	successPrefixPlain = "[SUCCESS] "
	errorPrefixPlain   = "[ERROR] "
	successPrefixColor = "✓ "
	errorPrefixColor   = "✗ "
)

// Printer writes user-facing messages. Colors are decided once, at construction.
type Printer struct {
	stdout       io.Writer
	stderr       io.Writer
	colored      bool
	headerStyle  lipgloss.Style
	successStyle lipgloss.Style
	errorStyle   lipgloss.Style
	labelStyle   lipgloss.Style
	bar          progress.Model
	progressSeen bool
}

// NewPrinter returns a Printer using profile. termenv.Ascii selects the plain fallbacks.
func NewPrinter(stdout io.Writer, stderr io.Writer, profile termenv.Profile) *Printer {
	renderer := lipgloss.NewRenderer(stdout)
	renderer.SetColorProfile(profile)
	printer := &Printer{
		stdout:       stdout,
		stderr:       stderr,
		colored:      profile != termenv.Ascii,
		headerStyle:  renderer.NewStyle().Bold(true).Foreground(lipgloss.Color("13")),
		successStyle: renderer.NewStyle().Foreground(lipgloss.Color("42")),
		errorStyle:   renderer.NewStyle().Foreground(lipgloss.Color("196")),
		labelStyle:   renderer.NewStyle().Foreground(lipgloss.Color("245")),
	}
	if printer.colored {
		printer.bar = progress.New(
			progress.WithDefaultGradient(),
			progress.WithWidth(progressBarWidth),
			progress.WithoutPercentage(),
			progress.WithColorProfile(profile),
		)
	}
	return printer
}

// Colored reports whether ANSI styling is in effect.
func (printer *Printer) Colored() bool {
	return printer.colored
}

// Header styles text. Leading newlines are written unstyled so they are not padded.
func (printer *Printer) Header(text string) {
	trimmed := strings.TrimLeft(text, "\n")
	fmt.Fprint(printer.stdout, text[:len(text)-len(trimmed)])
	fmt.Fprintln(printer.stdout, printer.headerStyle.Render(trimmed))
}

func (printer *Printer) Success(text string) {
	if printer.colored {
		fmt.Fprintln(printer.stdout, printer.successStyle.Render(successPrefixColor+text))
		return
	}
	fmt.Fprintln(printer.stdout, successPrefixPlain+text)
}

// Error writes to stderr.
func (printer *Printer) Error(text string) {
	if printer.colored {
		fmt.Fprintln(printer.stderr, printer.errorStyle.Render(errorPrefixColor+text))
		return
	}
	fmt.Fprintln(printer.stderr, errorPrefixPlain+text)
}

// Warning writes a non-fatal notice to stderr.
func (printer *Printer) Warning(text string) {
	fmt.Fprintln(printer.stderr, printer.labelStyle.Render(text))
}

func (printer *Printer) Line(format string, arguments ...any) {
	fmt.Fprintf(printer.stdout, format+"\n", arguments...)
}

// Progress redraws the single progress line in place.
func (printer *Printer) Progress(event types.ProgressEvent) {
	printer.progressSeen = true
	fmt.Fprintf(printer.stdout, progressLineFormat, printer.renderBar(event.Percent), event.Percent, event.Message)
}

// ProgressFunc adapts Progress to the exporter callback.
func (printer *Printer) ProgressFunc() types.ProgressFunc {
	return printer.Progress
}

func (printer *Printer) renderBar(percent int) string {
	if printer.colored {
		return printer.bar.ViewAs(float64(percent) / 100)
	}
	filled := (progressBarWidth*percent + 50) / 100
	if filled > progressBarWidth {
		filled = progressBarWidth
	}
	if filled < 0 {
		filled = 0
	}
	return "[" + strings.Repeat(progressFilled, filled) + strings.Repeat(progressEmpty, progressBarWidth-filled) + "]"
}

// ReportSuccess prints the completion block.
func (printer *Printer) ReportSuccess(outputPath string, absoluteOutputPath string, elapsed time.Duration, absoluteSourceDirectory string) {
	printer.endProgressLine()
	rule := strings.Repeat(reportRule, reportRuleWidth)
	fmt.Fprintln(printer.stdout, "\n"+rule)
	printer.Success("    EXPORT COMPLETED SUCCESSFULLY!")
	printer.Line("• Output file: %s", outputPath)
	printer.Line("  (Full path: %s)", absoluteOutputPath)
	printer.Line("• Time taken: %s", utils.FormatElapsed(elapsed))
	printer.Line("• Source directory: %s", absoluteSourceDirectory)
	describedSize := utils.DescribeFileSize(absoluteOutputPath)
	if describedSize != "" {
		printer.Line("• Output size: %s", describedSize)
	}
	printer.Line("%s\n", rule)
}

func (printer *Printer) ReportFailure(message string, elapsed time.Duration) {
	printer.endProgressLine()
	printer.Error("Export failed: " + message)
	printer.Line("Time taken: %s", utils.FormatElapsed(elapsed))
}

// ListTemplates prints the available template names.
func (printer *Printer) ListTemplates(names []string) {
	printer.Header("AVAILABLE TEMPLATES:")
	for _, name := range names {
		printer.Line("- %s", name)
	}
}

func (printer *Printer) endProgressLine() {
	if printer.progressSeen {
		fmt.Fprintln(printer.stdout)
		printer.progressSeen = false
	}
}
