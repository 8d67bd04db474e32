package console

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/peterh/liner"
)

// ErrPromptAborted is returned when the user interrupts a prompt.
var ErrPromptAborted = errors.New("prompt aborted")

// Prompter reads one line of input per call.
type Prompter interface {
	Prompt(label string) (string, error)
	Close() error
}

// NewPrompter selects line editing when input is a terminal and a plain line reader
// otherwise, so scripted input and tests work unchanged.
func NewPrompter(input io.Reader, output io.Writer) Prompter {
	if file, isFile := input.(*os.File); isFile && file == os.Stdin && IsInteractiveInput(file) {
		state := liner.NewLiner()
		state.SetCtrlCAborts(true)
		return &linerPrompter{state: state}
	}
	return NewLinePrompter(input, output)
}

type linerPrompter struct {
	state *liner.State
}

func (prompter *linerPrompter) Prompt(label string) (string, error) {
	input, err := prompter.state.Prompt(label)
	if err != nil {
		if errors.Is(err, liner.ErrPromptAborted) {
			return "", ErrPromptAborted
		}
		return "", err
	}
	if strings.TrimSpace(input) != "" {
		prompter.state.AppendHistory(input)
	}
	return input, nil
}

func (prompter *linerPrompter) Close() error {
	return prompter.state.Close()
}

// LinePrompter reads newline-terminated answers from any reader.
type LinePrompter struct {
	reader *bufio.Reader
	output io.Writer
}

func NewLinePrompter(input io.Reader, output io.Writer) *LinePrompter {
	return &LinePrompter{reader: bufio.NewReader(input), output: output}
}

// Prompt returns io.EOF once input is exhausted without a final answer.
func (prompter *LinePrompter) Prompt(label string) (string, error) {
	fmt.Fprint(prompter.output, label)
	line, err := prompter.reader.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func (prompter *LinePrompter) Close() error {
	return nil
}
