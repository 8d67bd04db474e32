package console_test

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/temirov/sanity/internal/console"
	"github.com/temirov/sanity/internal/types"
)

func newPlainPrinter() (*console.Printer, *bytes.Buffer, *bytes.Buffer) {
	var stdout, stderr bytes.Buffer
	return console.NewPrinter(&stdout, &stderr, termenv.Ascii), &stdout, &stderr
}

func TestPlainPrinterFallbacks(t *testing.T) {
	printer, stdout, stderr := newPlainPrinter()

	printer.Header("\nAVAILABLE TEMPLATES:")
	printer.Success("Template applied: Web")
	printer.Error("Invalid directory!")

	assert.False(t, printer.Colored())
	assert.Equal(t, "\nAVAILABLE TEMPLATES:\n[SUCCESS] Template applied: Web\n", stdout.String())
	assert.Equal(t, "[ERROR] Invalid directory!\n", stderr.String())
}

func TestPlainProgressBar(t *testing.T) {
	testCases := []struct {
		event    types.ProgressEvent
		expected string
	}{
		{event: types.ProgressEvent{Percent: 0, Message: "Building structure..."}, expected: "\rProgress: [--------------------] 0% | Building structure..."},
		{event: types.ProgressEvent{Percent: 50, Message: "Processed: 1/2"}, expected: "\rProgress: [##########----------] 50% | Processed: 1/2"},
		{event: types.ProgressEvent{Percent: 100, Message: "Export completed"}, expected: "\rProgress: [####################] 100% | Export completed"},
	}
	for _, testCase := range testCases {
		printer, stdout, _ := newPlainPrinter()
		printer.ProgressFunc()(testCase.event)
		assert.Equal(t, testCase.expected, stdout.String())
	}
}

func TestColoredPrinterUsesStyledOutput(t *testing.T) {
	var stdout, stderr bytes.Buffer
	printer := console.NewPrinter(&stdout, &stderr, termenv.ANSI256)

	printer.Success("done")
	printer.Progress(types.ProgressEvent{Percent: 40, Message: "Processed: 2/5"})

	assert.True(t, printer.Colored())
	assert.Contains(t, stdout.String(), "✓ done")
	assert.Contains(t, stdout.String(), "\x1b[")
	assert.Contains(t, stdout.String(), "40% | Processed: 2/5")
	assert.NotContains(t, stdout.String(), "[SUCCESS]")
}

func TestReportSuccess(t *testing.T) {
	printer, stdout, _ := newPlainPrinter()
	outputPath := filepath.Join(t.TempDir(), "export.txt")
	require.NoError(t, os.WriteFile(outputPath, []byte("abc"), 0o644))

	printer.Progress(types.ProgressEvent{Percent: 100, Message: "Export completed"})
	printer.ReportSuccess("export.txt", outputPath, 1250*time.Millisecond, "/src/project")

	rendered := stdout.String()
	assert.Contains(t, rendered, "[SUCCESS]     EXPORT COMPLETED SUCCESSFULLY!")
	assert.Contains(t, rendered, "• Output file: export.txt\n")
	assert.Contains(t, rendered, "  (Full path: "+outputPath+")\n")
	assert.Contains(t, rendered, "• Time taken: 1.25 seconds\n")
	assert.Contains(t, rendered, "• Source directory: /src/project\n")
	assert.Contains(t, rendered, strings.Repeat("~", 60))
	assert.Contains(t, rendered, "Export completed\n")
}

func TestReportFailure(t *testing.T) {
	printer, stdout, stderr := newPlainPrinter()

	printer.ReportFailure("Directory not found", 0)

	assert.Equal(t, "[ERROR] Export failed: Directory not found\n", stderr.String())
	assert.Equal(t, "Time taken: 0.00 seconds\n", stdout.String())
}

func TestListTemplates(t *testing.T) {
	printer, stdout, _ := newPlainPrinter()

	printer.ListTemplates([]string{"Android", "Web"})

	assert.Equal(t, "AVAILABLE TEMPLATES:\n- Android\n- Web\n", stdout.String())
}
