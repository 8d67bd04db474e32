package output

import (
	"bufio"
	"fmt"

	"github.com/temirov/sanity/internal/types"
)

const (
	txtStructureHeader = "\n\n===== PROJECT STRUCTURE =====\n\n"
	txtContentHeader   = "\n\n===== FILE CONTENTS =====\n\n"
	txtSectionTrailer  = "\n\n"
	txtFileHeader      = "\n~~~~~ %s ~~~~~~\n\n"
	txtFileTrailer     = "\n\n"
)

// TextEncoder streams a plain-text artifact: an ASCII tree followed by file bodies.
type TextEncoder struct{}

func NewTextEncoder() *TextEncoder {
	return &TextEncoder{}
}

// Encode writes the artifact while walking; bytes written before a failure are kept.
func (encoder *TextEncoder) Encode(request Request) (Stats, error) {
	var stats Stats
	writeErr := writeArtifact(request.OutputPath, func(writer *bufio.Writer) error {
		var driveErr error
		stats, driveErr = drive(request, &textSink{writer: writer, path: request.OutputPath})
		return driveErr
	})
	return stats, writeErr
}

type textSink struct {
	writer *bufio.Writer
	path   string
}

func (sink *textSink) write(text string) error {
	if _, err := sink.writer.WriteString(text); err != nil {
		return fmt.Errorf(errorWriteOutputFormat, sink.path, err)
	}
	return nil
}

func (sink *textSink) beginStructure() error {
	return sink.write(txtStructureHeader)
}

func (sink *textSink) directory(node types.TreeNode) error {
	depth := node.Depth()
	if err := sink.write(directoryPrefix(treeBranchPadding, depth) + node.Name() + directorySuffix + "\n"); err != nil {
		return err
	}
	for index, fileName := range node.Files {
		if err := sink.write(filePrefix(treeBranchPadding, depth, index, len(node.Files)) + fileName + "\n"); err != nil {
			return err
		}
	}
	return nil
}

func (sink *textSink) endStructure() error {
	return sink.write(txtSectionTrailer)
}

func (sink *textSink) beginContent() error {
	return sink.write(txtContentHeader)
}

func (sink *textSink) file(record types.FileRecord) error {
	if err := sink.write(fmt.Sprintf(txtFileHeader, record.RelativePath)); err != nil {
		return err
	}
	if err := sink.write(record.Content); err != nil {
		return err
	}
	return sink.write(txtFileTrailer)
}

func (sink *textSink) endContent() error {
	return nil
}
