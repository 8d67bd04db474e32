// Package cli provides the command line interface.
package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/sanity/internal/config"
	"github.com/temirov/sanity/internal/console"
	"github.com/temirov/sanity/internal/exporter"
	"github.com/temirov/sanity/internal/services/clipboard"
	"github.com/temirov/sanity/internal/templates"
	"github.com/temirov/sanity/internal/tokenizer"
	"github.com/temirov/sanity/internal/types"
	"github.com/temirov/sanity/internal/utils"
)

const (
	directoryFlagName     = "dir"
	outputFlagName        = "output"
	modeFlagName          = "mode"
	formatFlagName        = "format"
	templateFlagName      = "template"
	excludeDirsFlagName   = "exclude-dirs"
	excludeFilesFlagName  = "exclude-files"
	listTemplatesFlagName = "list-templates"
	configFlagName        = "config"
	exactFlagName         = "exact"
	copyFlagName          = "copy"
	tokensFlagName        = "tokens"
	modelFlagName         = "model"
	noColorFlagName       = "no-color"
	globalFlagName        = "global"
	forceFlagName         = "force"

	defaultOutputPath = "export.txt"
	versionTemplate   = "sanity version: {{.Version}}\n"
	rootUse           = "sanity"

	rootShortDescription = "export project structure and file contents"
	rootLongDescription  = `sanity walks a project directory and writes its structure and/or the
contents of its text files into a single TXT, JSON or HTML snapshot.
Run without --dir to be guided through the settings interactively.`
	rootUsageExample = `  # Export a Python project as JSON using the Python template
  sanity -d ./service -f json -t Python

  # Export only the tree, excluding extra folders and files
  sanity -d . -m structure --exclude-dirs "dist, coverage" --exclude-files "*.log"`

	initUse                   = "init"
	initShortDescription      = "write a default configuration file"
	templatesUse              = "templates"
	templatesShortDescription = "list available templates"

	directoryFlagDescription     = "project directory"
	outputFlagDescription        = "output file"
	modeFlagDescription          = "export mode (both, structure, content)"
	formatFlagDescription        = "output format (txt, json, html)"
	templateFlagDescription      = "template name"
	excludeDirsFlagDescription   = "exclude folders (comma separated)"
	excludeFilesFlagDescription  = "exclude files (comma separated)"
	listTemplatesFlagDescription = "show available templates"
	configFlagDescription        = "configuration file (default ./" + utils.ConfigFileName + ")"
	exactFlagDescription         = "match exclusion patterns verbatim, without wildcards"
	copyFlagDescription          = "copy the export to the clipboard"
	tokensFlagDescription        = "estimate the token count of the export"
	modelFlagDescription         = "tokenizer model to use for token counting"
	noColorFlagDescription       = "disable colored output"
	globalFlagDescription        = "write the configuration into ~/" + utils.GlobalConfigDirectoryName
	forceFlagDescription         = "overwrite an existing configuration file"

	messageTemplateNotFoundFormat = "Template %s not found!"
	messageInvalidDirectory       = "Invalid directory!"
	messageExportCancelled        = "Export cancelled."
	messageCopied                 = "Export copied to clipboard"
	messageConfigWrittenFormat    = "Configuration written to %s"
	warningCopyFailedFormat       = "Warning: failed to copy export to clipboard: %v"
	warningTokenCountFormat       = "Warning: failed to count tokens for %s: %v"
	tokenReportFormat             = "• Tokens (%s): %d"
	workingDirectoryErrorFormat   = "unable to determine working directory: %w"
)

var (
	errTemplateNotFound = errors.New("template not found")
	errInvalidDirectory = errors.New("invalid directory")
	errExportFailed     = errors.New("export failed")
)

// ExportRunner performs one export.
type ExportRunner interface {
	Export(config types.ExportConfig, progress types.ProgressFunc) types.ExportResult
}

// Dependencies are the collaborators of the command tree. Zero fields get defaults.
type Dependencies struct {
	Stdin            io.Reader
	Stdout           io.Writer
	Stderr           io.Writer
	Logger           *zap.Logger
	Exporter         ExportRunner
	Copier           clipboard.Copier
	WorkingDirectory string
	// ColorProfile resolves the console color profile; disabled reflects --no-color and config.
	ColorProfile func(disabled bool) termenv.Profile
}

func (dependencies Dependencies) withDefaults() (Dependencies, error) {
	if dependencies.Stdin == nil {
		dependencies.Stdin = os.Stdin
	}
	if dependencies.Stdout == nil {
		dependencies.Stdout = os.Stdout
	}
	if dependencies.Stderr == nil {
		dependencies.Stderr = os.Stderr
	}
	dependencies.Logger = utils.LoggerOrNop(dependencies.Logger)
	if dependencies.Exporter == nil {
		dependencies.Exporter = exporter.New(dependencies.Logger)
	}
	if dependencies.Copier == nil {
		dependencies.Copier = clipboard.NewService()
	}
	if dependencies.WorkingDirectory == "" {
		workingDirectory, err := os.Getwd()
		if err != nil {
			return dependencies, fmt.Errorf(workingDirectoryErrorFormat, err)
		}
		dependencies.WorkingDirectory = workingDirectory
	}
	if dependencies.ColorProfile == nil {
		dependencies.ColorProfile = func(disabled bool) termenv.Profile {
			return console.DetectColorProfile(console.ColorOptions{Disabled: disabled, Output: os.Stdout})
		}
	}
	return dependencies, nil
}

// Execute runs the sanity application against the process arguments.
func Execute(logger *zap.Logger) error {
	rootCommand := NewRootCommand(Dependencies{Logger: logger})
	rootCommand.SetArgs(normalizeBooleanFlagArguments(rootCommand, os.Args[1:]))
	return rootCommand.Execute()
}

// exportOptions stores the root command flags.
type exportOptions struct {
	directory     string
	output        string
	mode          string
	format        string
	template      string
	excludeDirs   string
	excludeFiles  string
	listTemplates bool
	configPath    string
	exact         bool
	copy          bool
	tokens        bool
	model         string
	noColor       bool
}

// NewRootCommand builds the root Cobra command.
func NewRootCommand(dependencies Dependencies) *cobra.Command {
	var options exportOptions

	rootCommand := &cobra.Command{
		Use:           rootUse,
		Short:         rootShortDescription,
		Long:          rootLongDescription,
		Example:       rootUsageExample,
		Version:       utils.GetApplicationVersion(),
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(command *cobra.Command, arguments []string) error {
			resolved, err := dependencies.withDefaults()
			if err != nil {
				return err
			}
			return runExportCommand(command, resolved, options)
		},
	}
	rootCommand.SetVersionTemplate(versionTemplate)

	flags := rootCommand.Flags()
	flags.StringVarP(&options.directory, directoryFlagName, "d", "", directoryFlagDescription)
	flags.StringVarP(&options.output, outputFlagName, "o", defaultOutputPath, outputFlagDescription)
	flags.StringVarP(&options.mode, modeFlagName, "m", string(types.ModeBoth), modeFlagDescription)
	flags.StringVarP(&options.format, formatFlagName, "f", string(types.FormatTXT), formatFlagDescription)
	flags.StringVarP(&options.template, templateFlagName, "t", "", templateFlagDescription)
	flags.StringVar(&options.excludeDirs, excludeDirsFlagName, "", excludeDirsFlagDescription)
	flags.StringVar(&options.excludeFiles, excludeFilesFlagName, "", excludeFilesFlagDescription)
	flags.BoolVar(&options.listTemplates, listTemplatesFlagName, false, listTemplatesFlagDescription)
	flags.StringVar(&options.model, modelFlagName, tokenizer.DefaultModel, modelFlagDescription)
	registerBooleanFlag(flags, &options.exact, exactFlagName, false, exactFlagDescription)
	registerBooleanFlag(flags, &options.copy, copyFlagName, false, copyFlagDescription)
	registerBooleanFlag(flags, &options.tokens, tokensFlagName, false, tokensFlagDescription)

	persistentFlags := rootCommand.PersistentFlags()
	persistentFlags.StringVar(&options.configPath, configFlagName, "", configFlagDescription)
	registerBooleanFlag(persistentFlags, &options.noColor, noColorFlagName, false, noColorFlagDescription)

	rootCommand.AddCommand(
		createInitCommand(dependencies),
		createTemplatesCommand(dependencies, &options),
	)
	return rootCommand
}

func createInitCommand(dependencies Dependencies) *cobra.Command {
	var global bool
	var force bool

	initCommand := &cobra.Command{
		Use:   initUse,
		Short: initShortDescription,
		Args:  cobra.NoArgs,
		RunE: func(command *cobra.Command, arguments []string) error {
			resolved, err := dependencies.withDefaults()
			if err != nil {
				return err
			}
			target := config.InitTargetLocal
			if global {
				target = config.InitTargetGlobal
			}
			writtenPath, initErr := config.InitializeConfiguration(config.InitOptions{
				Target:           target,
				Force:            force,
				WorkingDirectory: resolved.WorkingDirectory,
			})
			if initErr != nil {
				return initErr
			}
			newPrinter(resolved, false).Success(fmt.Sprintf(messageConfigWrittenFormat, writtenPath))
			return nil
		},
	}
	registerBooleanFlag(initCommand.Flags(), &global, globalFlagName, false, globalFlagDescription)
	registerBooleanFlag(initCommand.Flags(), &force, forceFlagName, false, forceFlagDescription)
	return initCommand
}

func createTemplatesCommand(dependencies Dependencies, options *exportOptions) *cobra.Command {
	return &cobra.Command{
		Use:   templatesUse,
		Short: templatesShortDescription,
		Args:  cobra.NoArgs,
		RunE: func(command *cobra.Command, arguments []string) error {
			resolved, err := dependencies.withDefaults()
			if err != nil {
				return err
			}
			applicationConfig, loadErr := loadConfiguration(resolved, options.configPath)
			if loadErr != nil {
				return loadErr
			}
			printer := newPrinter(resolved, colorDisabled(options.noColor, applicationConfig))
			printer.ListTemplates(templates.NewRegistry(applicationConfig.UserTemplates()).Names())
			return nil
		},
	}
}

func runExportCommand(command *cobra.Command, dependencies Dependencies, options exportOptions) error {
	applicationConfig, loadErr := loadConfiguration(dependencies, options.configPath)
	if loadErr != nil {
		return loadErr
	}
	printer := newPrinter(dependencies, colorDisabled(options.noColor, applicationConfig))
	registry := templates.NewRegistry(applicationConfig.UserTemplates())

	if options.listTemplates {
		printer.ListTemplates(registry.Names())
		return nil
	}

	settings := resolveSettings(command, options, applicationConfig)
	extraDirs := append(append([]string{}, applicationConfig.ExcludeDirs...), utils.SplitCommaList(options.excludeDirs)...)
	extraFiles := append(append([]string{}, applicationConfig.ExcludeFiles...), utils.SplitCommaList(options.excludeFiles)...)

	var exportConfig types.ExportConfig
	if options.directory == "" {
		prompter := console.NewPrompter(dependencies.Stdin, dependencies.Stdout)
		defer prompter.Close()
		session := console.NewSession(printer, prompter, registry, isDirectory)
		sessionConfig, confirmed, sessionErr := session.Run(console.SessionDefaults{
			ExcludeDirs:  extraDirs,
			ExcludeFiles: extraFiles,
			ExactMatch:   settings.exactMatch,
		})
		if sessionErr != nil {
			return sessionErr
		}
		if !confirmed {
			printer.Line(messageExportCancelled)
			return nil
		}
		exportConfig = sessionConfig
	} else {
		var selected templates.Template
		if options.template != "" {
			found := false
			selected, found = registry.Lookup(options.template)
			if !found {
				printer.Error(fmt.Sprintf(messageTemplateNotFoundFormat, options.template))
				return fmt.Errorf("%w: %s", errTemplateNotFound, options.template)
			}
		}
		if !isDirectory(options.directory) {
			printer.Error(messageInvalidDirectory)
			return fmt.Errorf("%w: %s", errInvalidDirectory, options.directory)
		}
		excludeDirs, excludeFiles := templates.Merge(selected, extraDirs, extraFiles)
		exportConfig = types.ExportConfig{
			Root:         options.directory,
			ExcludeDirs:  excludeDirs,
			ExcludeFiles: excludeFiles,
			Mode:         types.Mode(settings.mode),
			Format:       types.Format(settings.format),
			OutputPath:   settings.output,
			ExactMatch:   settings.exactMatch,
		}
	}

	return runExport(dependencies, printer, exportConfig, settings)
}

func runExport(dependencies Dependencies, printer *console.Printer, exportConfig types.ExportConfig, settings resolvedSettings) error {
	dependencies.Logger.Debug("resolved export configuration",
		zap.String("root", exportConfig.Root),
		zap.Strings("exclude_dirs", exportConfig.ExcludeDirs),
		zap.Strings("exclude_files", exportConfig.ExcludeFiles),
		zap.Bool("exact", exportConfig.ExactMatch))

	startTime := time.Now()
	result := dependencies.Exporter.Export(exportConfig, printer.ProgressFunc())
	elapsed := time.Since(startTime)
	if !result.Success {
		printer.ReportFailure(result.Message, elapsed)
		return fmt.Errorf("%w: %s", errExportFailed, result.Message)
	}

	printer.ReportSuccess(result.OutputPath, absolutePathOrSelf(result.OutputPath), elapsed, absolutePathOrSelf(exportConfig.Root))
	if settings.copy {
		if copyErr := clipboard.CopyFile(dependencies.Copier, result.OutputPath); copyErr != nil {
			printer.Warning(fmt.Sprintf(warningCopyFailedFormat, copyErr))
		} else {
			printer.Success(messageCopied)
		}
	}
	if settings.tokens {
		reportTokens(printer, result.OutputPath, settings.model)
	}
	return nil
}

func reportTokens(printer *console.Printer, outputPath string, model string) {
	counter, resolvedModel, counterErr := tokenizer.NewCounter(tokenizer.Config{Model: model})
	if counterErr != nil {
		printer.Warning(fmt.Sprintf(warningTokenCountFormat, outputPath, counterErr))
		return
	}
	countResult, countErr := tokenizer.CountFile(counter, outputPath)
	if countErr != nil {
		printer.Warning(fmt.Sprintf(warningTokenCountFormat, outputPath, countErr))
		return
	}
	if countResult.Counted {
		printer.Line(tokenReportFormat, resolvedModel, countResult.Tokens)
	}
}

// resolvedSettings holds values after applying flag > local > global > default precedence.
type resolvedSettings struct {
	output     string
	mode       string
	format     string
	exactMatch bool
	copy       bool
	tokens     bool
	model      string
}

func resolveSettings(command *cobra.Command, options exportOptions, applicationConfig config.ApplicationConfiguration) resolvedSettings {
	flags := command.Flags()
	settings := resolvedSettings{
		mode:       pickString(flags.Changed(modeFlagName), options.mode, applicationConfig.Mode),
		format:     pickString(flags.Changed(formatFlagName), options.format, applicationConfig.Format),
		exactMatch: applicationConfig.ExactMatch(),
		copy:       applicationConfig.Clipboard != nil && *applicationConfig.Clipboard,
		tokens:     applicationConfig.Tokens.Enabled != nil && *applicationConfig.Tokens.Enabled,
		model:      pickString(flags.Changed(modelFlagName), options.model, applicationConfig.Tokens.Model),
	}
	settings.mode = strings.ToLower(settings.mode)
	settings.format = strings.ToLower(settings.format)
	if flags.Changed(exactFlagName) {
		settings.exactMatch = options.exact
	}
	if flags.Changed(copyFlagName) {
		settings.copy = options.copy
	}
	if flags.Changed(tokensFlagName) {
		settings.tokens = options.tokens
	}

	// Without -o or a configured name the extension follows the format, e.g. export.json.
	settings.output = exporter.DefaultOutputBaseName
	if applicationConfig.Output != "" {
		settings.output = applicationConfig.Output
	}
	if flags.Changed(outputFlagName) {
		settings.output = options.output
	}
	return settings
}

// pickString prefers a changed flag, then the configured value, then the flag default.
func pickString(flagChanged bool, flagValue string, configuredValue string) string {
	if flagChanged || configuredValue == "" {
		return flagValue
	}
	return configuredValue
}

func loadConfiguration(dependencies Dependencies, explicitPath string) (config.ApplicationConfiguration, error) {
	return config.LoadApplicationConfiguration(config.LoadOptions{
		WorkingDirectory: dependencies.WorkingDirectory,
		ExplicitFilePath: explicitPath,
	})
}

func colorDisabled(noColorFlag bool, applicationConfig config.ApplicationConfiguration) bool {
	return noColorFlag || (applicationConfig.Color != nil && !*applicationConfig.Color)
}

func newPrinter(dependencies Dependencies, disabled bool) *console.Printer {
	return console.NewPrinter(dependencies.Stdout, dependencies.Stderr, dependencies.ColorProfile(disabled))
}

func isDirectory(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

func absolutePathOrSelf(path string) string {
	absolutePath, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	return absolutePath
}
