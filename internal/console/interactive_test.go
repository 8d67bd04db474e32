package console_test

import (
	"bytes"
	"io"
	"os"
	"strings"
	"testing"

	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/temirov/sanity/internal/console"
	"github.com/temirov/sanity/internal/templates"
	"github.com/temirov/sanity/internal/types"
)

func isExistingDirectory(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

func newScriptedSession(script string, stdout *bytes.Buffer, stderr *bytes.Buffer) *console.Session {
	printer := console.NewPrinter(stdout, stderr, termenv.Ascii)
	prompter := console.NewLinePrompter(strings.NewReader(script), stdout)
	return console.NewSession(printer, prompter, templates.NewRegistry(nil), isExistingDirectory)
}

func TestSessionWithTemplateAndExtraExclusions(t *testing.T) {
	projectDirectory := t.TempDir()
	script := strings.Join([]string{
		"1",
		"2",
		"/definitely/not/here",
		projectDirectory,
		"yes",
		"1",
		"out, build",
		"*.log",
		"2",
		"",
		"1",
	}, "\n") + "\n"
	var stdout, stderr bytes.Buffer

	config, confirmed, err := newScriptedSession(script, &stdout, &stderr).Run(console.SessionDefaults{})

	require.NoError(t, err)
	assert.True(t, confirmed)
	assert.Equal(t, types.ModeBoth, config.Mode)
	assert.Equal(t, types.FormatJSON, config.Format)
	assert.Equal(t, "export.json", config.OutputPath)
	assert.Equal(t, projectDirectory, config.Root)
	assert.Equal(t, []string{"build", "gradle", ".gradle", ".idea", "captures", "out"}, config.ExcludeDirs)
	assert.Equal(t, []string{".DS_Store", ".gitignore", ".pro", "*.iml", "gradlew", "gradlew.bat", "*.log"}, config.ExcludeFiles)

	assert.Contains(t, stdout.String(), "[SUCCESS] Template applied: Android")
	assert.Contains(t, stdout.String(), "    Excluded folders: build, gradle, .gradle, .idea, captures, out\n")
	assert.Contains(t, stdout.String(), "Output filename (default: export.json) (e.g.: project_export): ")
	assert.Contains(t, stderr.String(), "Directory does not exist!")
	assert.Contains(t, stderr.String(), "Please enter a number!")
}

func TestSessionWithoutTemplateAsksForExclusionsDirectly(t *testing.T) {
	projectDirectory := t.TempDir()
	script := strings.Join([]string{"3", "1", projectDirectory, "", "", "9", "3", "snapshot", "2"}, "\n") + "\n"
	var stdout, stderr bytes.Buffer

	config, confirmed, err := newScriptedSession(script, &stdout, &stderr).Run(console.SessionDefaults{
		ExcludeDirs: []string{".git"},
		ExactMatch:  true,
	})

	require.NoError(t, err)
	assert.False(t, confirmed)
	assert.Equal(t, types.ModeContent, config.Mode)
	assert.Equal(t, types.FormatHTML, config.Format)
	assert.Equal(t, "snapshot", config.OutputPath)
	assert.Equal(t, []string{".git"}, config.ExcludeDirs)
	assert.Empty(t, config.ExcludeFiles)
	assert.True(t, config.ExactMatch)
	assert.Contains(t, stdout.String(), "    Excluded files: none\n")
	assert.Contains(t, stderr.String(), "Invalid choice!")
}

func TestSessionStopsAtEndOfInput(t *testing.T) {
	var stdout, stderr bytes.Buffer

	_, confirmed, err := newScriptedSession("1\n", &stdout, &stderr).Run(console.SessionDefaults{})

	assert.ErrorIs(t, err, io.EOF)
	assert.False(t, confirmed)
}

func TestLinePrompterAcceptsUnterminatedLastLine(t *testing.T) {
	var output bytes.Buffer
	prompter := console.NewLinePrompter(strings.NewReader("first\r\nsecond"), &output)

	first, firstErr := prompter.Prompt("> ")
	second, secondErr := prompter.Prompt("> ")
	_, thirdErr := prompter.Prompt("> ")

	require.NoError(t, firstErr)
	require.NoError(t, secondErr)
	assert.Equal(t, "first", first)
	assert.Equal(t, "second", second)
	assert.ErrorIs(t, thirdErr, io.EOF)
	assert.Equal(t, "> > > ", output.String())
	assert.NoError(t, prompter.Close())
}
