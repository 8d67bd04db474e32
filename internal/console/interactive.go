package console

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/temirov/sanity/internal/templates"
	"github.com/temirov/sanity/internal/types"
	"github.com/temirov/sanity/internal/utils"
)

const (
	choicePrompt            = "Your choice: "
	messageInvalidChoice    = "Invalid choice!"
	messageNotANumber       = "Please enter a number!"
	messageMissingDirectory = "Directory does not exist!"
	noneLabel               = "none"
)

type option[T any] struct {
	label string
	value T
}

var (
	modeOptions = []option[types.Mode]{
		{label: "Structure and Content", value: types.ModeBoth},
		{label: "Structure Only", value: types.ModeStructure},
		{label: "Content Only", value: types.ModeContent},
	}
	formatOptions = []option[types.Format]{
		{label: "TXT", value: types.FormatTXT},
		{label: "JSON", value: types.FormatJSON},
		{label: "HTML", value: types.FormatHTML},
	}
	yesNoOptions = []option[bool]{
		{label: "Yes", value: true},
		{label: "No", value: false},
	}
)

// SessionDefaults seeds the interactive flow with configured values.
type SessionDefaults struct {
	ExcludeDirs  []string
	ExcludeFiles []string
	ExactMatch   bool
}

// Session walks the user through the export settings.
type Session struct {
	printer  *Printer
	prompter Prompter
	registry *templates.Registry
	isDir    func(path string) bool
}

// NewSession returns a Session. isDirectory validates the entered project path.
func NewSession(printer *Printer, prompter Prompter, registry *templates.Registry, isDirectory func(path string) bool) *Session {
	return &Session{printer: printer, prompter: prompter, registry: registry, isDir: isDirectory}
}

// Run asks for every setting and returns the assembled configuration together with the
// user's final confirmation. Input errors, EOF included, abort the session.
func (session *Session) Run(defaults SessionDefaults) (types.ExportConfig, bool, error) {
	session.printer.Header("   ~$~ SANITY EXPORTER ~$~")

	mode, err := selectOption(session, "   Select export mode:", modeOptions)
	if err != nil {
		return types.ExportConfig{}, false, err
	}

	templateOptions := []option[string]{{label: "No", value: ""}}
	for _, name := range session.registry.Names() {
		templateOptions = append(templateOptions, option[string]{label: name, value: name})
	}
	templateName, err := selectOption(session, "   Use a template?", templateOptions)
	if err != nil {
		return types.ExportConfig{}, false, err
	}
	var selected templates.Template
	if templateName != "" {
		selected, _ = session.registry.Lookup(templateName)
		session.printer.Success("Template applied: " + templateName)
	}

	var projectDirectory string
	for {
		projectDirectory, err = session.input("\nProject directory path", "", "")
		if err != nil {
			return types.ExportConfig{}, false, err
		}
		if session.isDir(projectDirectory) {
			break
		}
		session.printer.Error(messageMissingDirectory)
	}

	extraDirs := append([]string{}, defaults.ExcludeDirs...)
	extraFiles := append([]string{}, defaults.ExcludeFiles...)
	addExclusions := true
	if templateName != "" {
		addExclusions, err = selectOption(session, "   Add exclusions?", yesNoOptions)
		if err != nil {
			return types.ExportConfig{}, false, err
		}
	}
	if addExclusions {
		directoriesInput, inputErr := session.input("\nExclude folders (comma separated)", "", "build, dist")
		if inputErr != nil {
			return types.ExportConfig{}, false, inputErr
		}
		extraDirs = append(extraDirs, utils.SplitCommaList(directoriesInput)...)
		filesInput, inputErr := session.input("Exclude files (comma separated)", "", "*.log, temp.*")
		if inputErr != nil {
			return types.ExportConfig{}, false, inputErr
		}
		extraFiles = append(extraFiles, utils.SplitCommaList(filesInput)...)
	}
	excludeDirs, excludeFiles := templates.Merge(selected, extraDirs, extraFiles)

	format, err := selectOption(session, "   Select export format:", formatOptions)
	if err != nil {
		return types.ExportConfig{}, false, err
	}
	outputName, err := session.input("\nOutput filename", "export"+format.Extension(), "project_export")
	if err != nil {
		return types.ExportConfig{}, false, err
	}

	config := types.ExportConfig{
		Root:         projectDirectory,
		ExcludeDirs:  excludeDirs,
		ExcludeFiles: excludeFiles,
		Mode:         mode,
		Format:       format,
		OutputPath:   outputName,
		ExactMatch:   defaults.ExactMatch,
	}
	session.printSummary(config)

	confirmed, err := selectOption(session, "   Start export?", yesNoOptions)
	if err != nil {
		return types.ExportConfig{}, false, err
	}
	return config, confirmed, nil
}

func (session *Session) printSummary(config types.ExportConfig) {
	session.printer.Header("\n        EXPORT SETTINGS:")
	session.printer.Line("    Mode: %s", labelFor(modeOptions, config.Mode))
	session.printer.Line("    Format: %s", labelFor(formatOptions, config.Format))
	session.printer.Line("    Directory: %s", config.Root)
	session.printer.Line("    Excluded folders: %s", joinOrNone(config.ExcludeDirs))
	session.printer.Line("    Excluded files: %s", joinOrNone(config.ExcludeFiles))
	session.printer.Line("    Output file: %s", config.OutputPath)
}

// input shows label with its default and example and returns the trimmed answer,
// or defaultValue when the answer is blank.
func (session *Session) input(label string, defaultValue string, example string) (string, error) {
	if defaultValue != "" {
		label = fmt.Sprintf("%s (default: %s)", label, defaultValue)
	}
	if example != "" {
		label = fmt.Sprintf("%s (e.g.: %s)", label, example)
	}
	answer, err := session.prompter.Prompt(label + ": ")
	if err != nil {
		return "", err
	}
	answer = strings.TrimSpace(answer)
	if answer == "" {
		return defaultValue, nil
	}
	return answer, nil
}

// selectOption lists options numbered from one and repeats until a valid number is entered.
func selectOption[T any](session *Session, label string, options []option[T]) (T, error) {
	session.printer.Line("\n%s", label)
	for index, candidate := range options {
		session.printer.Line("%d. %s", index+1, candidate.label)
	}
	for {
		answer, err := session.prompter.Prompt(choicePrompt)
		if err != nil {
			var zero T
			return zero, err
		}
		choice, parseErr := strconv.Atoi(strings.TrimSpace(answer))
		if parseErr != nil {
			session.printer.Error(messageNotANumber)
			continue
		}
		if choice < 1 || choice > len(options) {
			session.printer.Error(messageInvalidChoice)
			continue
		}
		return options[choice-1].value, nil
	}
}

func labelFor[T comparable](options []option[T], value T) string {
	for _, candidate := range options {
		if candidate.value == value {
			return candidate.label
		}
	}
	return fmt.Sprint(value)
}

func joinOrNone(values []string) string {
	if len(values) == 0 {
		return noneLabel
	}
	return strings.Join(values, ", ")
}
