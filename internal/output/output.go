// Package output encodes a filtered project tree into TXT, JSON or HTML artifacts.
package output

import (
	"bufio"
	"fmt"
	"os"

	"github.com/temirov/sanity/internal/textfile"
	"github.com/temirov/sanity/internal/types"
	"github.com/temirov/sanity/internal/walker"
)

const (
	indentPrefix = ""
	indentSpacer = "  "

	treeBranchConnector = "├── "
	treeLastConnector   = "└── "
	treeBranchPadding   = "│   "

	directorySuffix = "/"

	errorCreateOutputFormat = "creating output file %s: %w"
	errorWriteOutputFormat  = "writing output file %s: %w"
	errorCloseOutputFormat  = "closing output file %s: %w"
	errorCountFilesFormat   = "counting files under %s: %w"
	errorUnsupportedFormat  = "Unsupported format: %s"
)

// Request carries everything an Encoder needs for one export run.
type Request struct {
	Root       string
	OutputPath string
	Mode       types.Mode
	Walker     *walker.Walker
	Classifier *textfile.Classifier
	Progress   types.ProgressFunc
}

// Stats summarizes the files an Encoder emitted.
type Stats struct {
	FilesProcessed int
	FilesFailed    int
}

// Encoder produces one artifact at Request.OutputPath.
type Encoder interface {
	Encode(request Request) (Stats, error)
}

// NewEncoder returns the encoder registered for format.
func NewEncoder(format types.Format) (Encoder, error) {
	switch format {
	case types.FormatTXT:
		return NewTextEncoder(), nil
	case types.FormatJSON:
		return NewJSONEncoder(), nil
	case types.FormatHTML:
		return NewHTMLEncoder(nil), nil
	default:
		return nil, fmt.Errorf(errorUnsupportedFormat, format)
	}
}

// sectionSink receives the walk in the order the artifact is assembled.
type sectionSink interface {
	beginStructure() error
	directory(node types.TreeNode) error
	endStructure() error
	beginContent() error
	file(record types.FileRecord) error
	endContent() error
}

// drive runs the counting pass and the working passes, feeding sink in traversal order.
func drive(request Request, sink sectionSink) (Stats, error) {
	var stats Stats
	// The artifact may live inside the root; it is listed in the tree but never read back.
	artifactPath := absolutePath(request.OutputPath)
	isContentFile := func(path string) bool {
		return request.Classifier.IsTextFile(path) && path != artifactPath
	}
	total := 0
	if request.Mode.IncludesContent() {
		counted, countErr := request.Walker.CountEligibleFiles(request.Root, isContentFile)
		if countErr != nil {
			return stats, fmt.Errorf(errorCountFilesFormat, request.Root, countErr)
		}
		total = counted
	}
	tracker := NewTracker(request.Progress, total)

	if request.Mode.IncludesStructure() {
		tracker.StructureStarted()
		if err := sink.beginStructure(); err != nil {
			return stats, err
		}
		if err := request.Walker.Walk(request.Root, sink.directory); err != nil {
			return stats, err
		}
		if err := sink.endStructure(); err != nil {
			return stats, err
		}
	}

	if request.Mode.IncludesContent() {
		if err := sink.beginContent(); err != nil {
			return stats, err
		}
		walkErr := request.Walker.Walk(request.Root, func(node types.TreeNode) error {
			for _, fileName := range node.Files {
				filePath := joinPath(node.Path, fileName)
				if !isContentFile(filePath) {
					continue
				}
				record := request.Classifier.ReadFile(filePath, joinRelative(node.RelativePath, fileName))
				if err := sink.file(record); err != nil {
					return err
				}
				if record.Err != nil {
					stats.FilesFailed++
					tracker.FileFailed(filePath)
					continue
				}
				stats.FilesProcessed++
				tracker.FileProcessed()
			}
			return nil
		})
		if walkErr != nil {
			return stats, walkErr
		}
		if err := sink.endContent(); err != nil {
			return stats, err
		}
	}
	return stats, nil
}

// writeArtifact creates path, hands a buffered writer to write and closes the file on
// every path. A close error is reported only when nothing failed earlier.
// #nosec G304
func writeArtifact(path string, write func(writer *bufio.Writer) error) (resultErr error) {
	fileHandle, createErr := os.Create(path)
	if createErr != nil {
		return fmt.Errorf(errorCreateOutputFormat, path, createErr)
	}
	defer func() {
		if closeErr := fileHandle.Close(); closeErr != nil && resultErr == nil {
			resultErr = fmt.Errorf(errorCloseOutputFormat, path, closeErr)
		}
	}()

	writer := bufio.NewWriter(fileHandle)
	if err := write(writer); err != nil {
		return err
	}
	if err := writer.Flush(); err != nil {
		return fmt.Errorf(errorWriteOutputFormat, path, err)
	}
	return nil
}
