package output

import (
	"bufio"
	"fmt"
	"html"
	"path/filepath"
	"time"

	"github.com/temirov/sanity/internal/types"
	"github.com/temirov/sanity/internal/utils"
)

const (
	htmlBranchPadding = "│&nbsp;&nbsp;&nbsp;"

	htmlDocumentHeaderFormat = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>Project Export: %s</title>
    <style>
        body { font-family: Arial, sans-serif; line-height: 1.6; margin: 20px; }
        h1, h2 { color: #2c3e50; }
        .structure { background-color: #f9f9f9; padding: 15px; border-radius: 5px; }
        .file-content { margin-top: 20px; border-left: 3px solid #3498db; padding-left: 15px; }
        .file-header { font-weight: bold; color: #2980b9; }
        .content { white-space: pre-wrap; font-family: monospace; }
        .tree { font-family: monospace; }
    </style>
</head>
<body>
    <h1>Project Export: %s</h1>
    <p>Exported at: %s</p>
`
	htmlStructureOpen  = "<h2>Project Structure</h2>\n<div class='structure'>\n<div class='tree'>\n"
	htmlStructureClose = "</div>\n</div>\n"
	htmlTreeLineFormat = "<div>%s%s</div>\n"
	htmlContentOpen    = "<h2>File Contents</h2>\n"
	htmlFileFormat     = "<div class='file-content'>\n<div class='file-header'>%s</div>\n<div class='content'>%s</div>\n</div>\n"
	htmlDocumentClose  = "</body>\n</html>"
)

// HTMLEncoder streams a self-contained HTML document with an embedded stylesheet.
type HTMLEncoder struct {
	clock func() time.Time
}

// NewHTMLEncoder returns an HTMLEncoder stamping documents with clock. Nil selects time.Now.
func NewHTMLEncoder(clock func() time.Time) *HTMLEncoder {
	if clock == nil {
		clock = time.Now
	}
	return &HTMLEncoder{clock: clock}
}

func (encoder *HTMLEncoder) Encode(request Request) (Stats, error) {
	var stats Stats
	writeErr := writeArtifact(request.OutputPath, func(writer *bufio.Writer) error {
		sink := &htmlSink{textSink: textSink{writer: writer, path: request.OutputPath}}
		escapedTitle := html.EscapeString(filepath.Base(request.Root))
		if err := sink.write(fmt.Sprintf(htmlDocumentHeaderFormat, escapedTitle, escapedTitle, utils.FormatTimestamp(encoder.clock()))); err != nil {
			return err
		}
		var driveErr error
		stats, driveErr = drive(request, sink)
		if driveErr != nil {
			return driveErr
		}
		return sink.write(htmlDocumentClose)
	})
	return stats, writeErr
}

// htmlSink reuses the text sink's error-wrapping writer.
type htmlSink struct {
	textSink
}

func (sink *htmlSink) beginStructure() error {
	return sink.write(htmlStructureOpen)
}

func (sink *htmlSink) directory(node types.TreeNode) error {
	depth := node.Depth()
	line := fmt.Sprintf(htmlTreeLineFormat, directoryPrefix(htmlBranchPadding, depth), html.EscapeString(node.Name())+directorySuffix)
	if err := sink.write(line); err != nil {
		return err
	}
	for index, fileName := range node.Files {
		prefix := filePrefix(htmlBranchPadding, depth, index, len(node.Files))
		if err := sink.write(fmt.Sprintf(htmlTreeLineFormat, prefix, html.EscapeString(fileName))); err != nil {
			return err
		}
	}
	return nil
}

func (sink *htmlSink) endStructure() error {
	return sink.write(htmlStructureClose)
}

func (sink *htmlSink) beginContent() error {
	return sink.write(htmlContentOpen)
}

func (sink *htmlSink) file(record types.FileRecord) error {
	return sink.write(fmt.Sprintf(htmlFileFormat, html.EscapeString(record.RelativePath), html.EscapeString(record.Content)))
}

func (sink *htmlSink) endContent() error {
	return nil
}
