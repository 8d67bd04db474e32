// Package exporter validates an ExportConfig and runs the matching encoder.
package exporter

import (
	"fmt"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/temirov/sanity/internal/exclusion"
	"github.com/temirov/sanity/internal/output"
	"github.com/temirov/sanity/internal/textfile"
	"github.com/temirov/sanity/internal/types"
	"github.com/temirov/sanity/internal/utils"
	"github.com/temirov/sanity/internal/walker"
)

const (
	DefaultOutputBaseName = "export"

	messageDirectoryNotFound = "Directory not found"
	messageUnsupportedFormat = "Unsupported format: %s"
	messageUnsupportedMode   = "Unsupported mode: %s"
	messageUnexpectedError   = "unexpected error: %v"
	logExportStarted         = "export started"
	logExportFinished        = "export finished"
	logExportFailed          = "export failed"
	logExportPanicked        = "export panicked"
)

// EncoderFactory resolves the encoder for a format.
type EncoderFactory func(format types.Format) (output.Encoder, error)

// Exporter runs exports. The zero value is not usable; use New.
type Exporter struct {
	logger   *zap.Logger
	encoders EncoderFactory
	sniffer  textfile.Sniffer
}

// Option customizes an Exporter.
type Option func(*Exporter)

// WithEncoderFactory replaces the format to encoder mapping.
func WithEncoderFactory(factory EncoderFactory) Option {
	return func(exporter *Exporter) {
		exporter.encoders = factory
	}
}

// WithSniffer replaces the charset sniffer used for file contents.
func WithSniffer(sniffer textfile.Sniffer) Option {
	return func(exporter *Exporter) {
		exporter.sniffer = sniffer
	}
}

func New(logger *zap.Logger, options ...Option) *Exporter {
	exporter := &Exporter{logger: utils.LoggerOrNop(logger), encoders: output.NewEncoder}
	for _, option := range options {
		option(exporter)
	}
	return exporter
}

// Export runs one export with a default Exporter.
func Export(config types.ExportConfig, progress types.ProgressFunc) types.ExportResult {
	return New(nil).Export(config, progress)
}

// Export validates config, writes the artifact and always returns a result. Encoder
// errors and panics become failed results; nothing propagates to the caller.
func (exporter *Exporter) Export(config types.ExportConfig, progress types.ProgressFunc) (result types.ExportResult) {
	defer func() {
		if recovered := recover(); recovered != nil {
			exporter.logger.Error(logExportPanicked, zap.Any("panic", recovered))
			result = types.ExportResult{Message: fmt.Sprintf(messageUnexpectedError, recovered)}
		}
	}()

	if !isDirectory(config.Root) {
		return types.ExportResult{Message: messageDirectoryNotFound}
	}
	format := config.Format
	if format == "" {
		format = types.FormatTXT
	}
	if !format.IsValid() {
		return types.ExportResult{Message: fmt.Sprintf(messageUnsupportedFormat, format)}
	}
	mode := config.Mode
	if mode == "" {
		mode = types.ModeBoth
	}
	if !mode.IsValid() {
		return types.ExportResult{Message: fmt.Sprintf(messageUnsupportedMode, mode)}
	}
	encoder, encoderErr := exporter.encoders(format)
	if encoderErr != nil {
		return types.ExportResult{Message: encoderErr.Error()}
	}

	outputPath := ResolveOutputPath(config.OutputPath, format)
	matcher := exclusion.NewNameMatcher(exclusion.Options{
		ExcludeDirs:  config.ExcludeDirs,
		ExcludeFiles: config.ExcludeFiles,
		ExactMatch:   config.ExactMatch,
		Logger:       exporter.logger,
	})
	request := output.Request{
		Root:       config.Root,
		OutputPath: outputPath,
		Mode:       mode,
		Walker:     walker.New(matcher, exporter.logger),
		Classifier: textfile.NewClassifier(exporter.sniffer, exporter.logger),
		Progress:   progress,
	}

	exporter.logger.Info(logExportStarted,
		zap.String("root", config.Root),
		zap.String("output", outputPath),
		zap.String("mode", string(mode)),
		zap.String("format", string(format)))
	startTime := time.Now()
	stats, encodeErr := encoder.Encode(request)
	if encodeErr != nil {
		exporter.logger.Error(logExportFailed, zap.String("output", outputPath), zap.Error(encodeErr))
		return types.ExportResult{Message: encodeErr.Error(), OutputPath: outputPath}
	}
	exporter.logger.Info(logExportFinished,
		zap.String("output", outputPath),
		zap.Int("files", stats.FilesProcessed),
		zap.Int("failed", stats.FilesFailed),
		zap.Duration("elapsed", time.Since(startTime)))

	output.NewTracker(progress, 0).Completed()
	return types.ExportResult{
		Success:        true,
		OutputPath:     outputPath,
		FilesProcessed: stats.FilesProcessed,
	}
}

// ResolveOutputPath appends the canonical extension of format when outputPath lacks it.
func ResolveOutputPath(outputPath string, format types.Format) string {
	if strings.TrimSpace(outputPath) == "" {
		outputPath = DefaultOutputBaseName
	}
	extension := format.Extension()
	if strings.HasSuffix(outputPath, extension) {
		return outputPath
	}
	return outputPath + extension
}

func isDirectory(path string) bool {
	if path == "" {
		return false
	}
	info, statErr := os.Stat(path)
	return statErr == nil && info.IsDir()
}
