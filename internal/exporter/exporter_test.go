package exporter_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/temirov/sanity/internal/exporter"
	"github.com/temirov/sanity/internal/output"
	"github.com/temirov/sanity/internal/textfile"
	"github.com/temirov/sanity/internal/types"
)

type failingEncoder struct{}

func (failingEncoder) Encode(output.Request) (output.Stats, error) {
	return output.Stats{}, errors.New("disk full")
}

type panickingEncoder struct{}

func (panickingEncoder) Encode(output.Request) (output.Stats, error) {
	panic("boom")
}

func projectRoot(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "src"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "src", "a.py"), []byte("print(1)"), 0o644))
	return root
}

func TestExportMissingDirectoryTouchesNothing(t *testing.T) {
	outputPath := filepath.Join(t.TempDir(), "export.txt")

	result := exporter.Export(types.ExportConfig{
		Root:       filepath.Join(t.TempDir(), "missing"),
		Mode:       types.ModeBoth,
		Format:     types.FormatTXT,
		OutputPath: outputPath,
	}, nil)

	assert.False(t, result.Success)
	assert.Equal(t, "Directory not found", result.Message)
	assert.NoFileExists(t, outputPath)
}

func TestExportRejectsFileAsRoot(t *testing.T) {
	filePath := filepath.Join(t.TempDir(), "plain.txt")
	require.NoError(t, os.WriteFile(filePath, []byte("x"), 0o644))

	result := exporter.Export(types.ExportConfig{Root: filePath, OutputPath: filepath.Join(t.TempDir(), "out")}, nil)

	assert.False(t, result.Success)
	assert.Equal(t, "Directory not found", result.Message)
}

func TestExportAppendsCanonicalExtension(t *testing.T) {
	root := projectRoot(t)
	outputBase := filepath.Join(t.TempDir(), "snapshot")
	var events []types.ProgressEvent

	result := exporter.Export(types.ExportConfig{
		Root:       root,
		Mode:       types.ModeBoth,
		Format:     types.FormatJSON,
		OutputPath: outputBase,
	}, func(event types.ProgressEvent) { events = append(events, event) })

	require.True(t, result.Success, result.Message)
	assert.Empty(t, result.Message)
	assert.Equal(t, outputBase+".json", result.OutputPath)
	assert.FileExists(t, outputBase+".json")
	assert.NoFileExists(t, outputBase)
	assert.Equal(t, 1, result.FilesProcessed)
	require.NotEmpty(t, events)
	assert.Equal(t, types.ProgressEvent{Percent: 100, Message: "Export completed"}, events[len(events)-1])
}

func TestExportRejectsUnknownFormatAndMode(t *testing.T) {
	root := projectRoot(t)
	outputPath := filepath.Join(t.TempDir(), "export")

	formatResult := exporter.Export(types.ExportConfig{Root: root, Mode: types.ModeBoth, Format: "pdf", OutputPath: outputPath}, nil)
	modeResult := exporter.Export(types.ExportConfig{Root: root, Mode: "everything", Format: types.FormatTXT, OutputPath: outputPath}, nil)

	assert.False(t, formatResult.Success)
	assert.Equal(t, "Unsupported format: pdf", formatResult.Message)
	assert.False(t, modeResult.Success)
	assert.Equal(t, "Unsupported mode: everything", modeResult.Message)
	assert.NoFileExists(t, outputPath+".txt")
}

func TestExportReportsWriteFailure(t *testing.T) {
	root := projectRoot(t)

	result := exporter.Export(types.ExportConfig{
		Root:       root,
		Format:     types.FormatTXT,
		OutputPath: filepath.Join(t.TempDir(), "no", "such", "dir", "export.txt"),
	}, nil)

	assert.False(t, result.Success)
	assert.Contains(t, result.Message, "creating output file")
}

func TestExportTurnsEncoderErrorsIntoResults(t *testing.T) {
	testCases := []struct {
		name            string
		encoder         output.Encoder
		expectedMessage string
	}{
		{name: "error", encoder: failingEncoder{}, expectedMessage: "disk full"},
		{name: "panic", encoder: panickingEncoder{}, expectedMessage: "unexpected error: boom"},
	}
	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			instance := exporter.New(nil, exporter.WithEncoderFactory(func(types.Format) (output.Encoder, error) {
				return testCase.encoder, nil
			}))

			result := instance.Export(types.ExportConfig{Root: projectRoot(t), OutputPath: filepath.Join(t.TempDir(), "out")}, nil)

			assert.False(t, result.Success)
			assert.Equal(t, testCase.expectedMessage, result.Message)
		})
	}
}

func TestResolveOutputPath(t *testing.T) {
	testCases := []struct {
		outputPath string
		format     types.Format
		expected   string
	}{
		{outputPath: "export.txt", format: types.FormatTXT, expected: "export.txt"},
		{outputPath: "export.txt", format: types.FormatJSON, expected: "export.txt.json"},
		{outputPath: "report", format: types.FormatHTML, expected: "report.html"},
		{outputPath: "", format: types.FormatJSON, expected: "export.json"},
	}
	for _, testCase := range testCases {
		assert.Equal(t, testCase.expected, exporter.ResolveOutputPath(testCase.outputPath, testCase.format))
	}
}

func TestExportDecodesWithConfiguredSniffer(t *testing.T) {
	root := t.TempDir()
	windows1251 := []byte{0xCF, 0xF0, 0xE8, 0xE2, 0xE5, 0xF2}
	require.NoError(t, os.WriteFile(filepath.Join(root, "greeting.txt"), windows1251, 0o644))
	outputPath := filepath.Join(t.TempDir(), "export.json")
	var sniffed [][]byte
	sniffer := textfile.SnifferFunc(func(prefix []byte) string {
		sniffed = append(sniffed, prefix)
		return "windows-1251"
	})

	result := exporter.New(nil, exporter.WithSniffer(sniffer)).Export(types.ExportConfig{
		Root:       root,
		Mode:       types.ModeContent,
		Format:     types.FormatJSON,
		OutputPath: outputPath,
	}, nil)

	require.True(t, result.Success, result.Message)
	assert.Equal(t, [][]byte{windows1251}, sniffed)
	data, err := os.ReadFile(outputPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"greeting.txt": "Привет"`)
}
