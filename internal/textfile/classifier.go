// Package textfile decides which files are exported as text and decodes their bytes.
//
// Reading is a two-stage strategy: a Sniffer guesses the character encoding from a
// byte prefix, then DecodeFile decodes the whole file with that encoding, replacing
// undecodable sequences with U+FFFD.
package textfile

import (
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/temirov/sanity/internal/types"
	"github.com/temirov/sanity/internal/utils"
)

const (
	// SniffLength is the maximum number of bytes handed to the Sniffer.
	SniffLength = 4096

	readErrorMarkerFormat = "\n[FILE READ ERROR: %s]\n"
)

// textExtensions is the allow-list of suffixes exported as text.
var textExtensions = []string{
	".txt", ".py", ".js", ".java", ".kt", ".xml", ".gradle",
	".json", ".md", ".html", ".css", ".csv", ".ts", ".jsx",
	".tsx", ".yml", ".yaml", ".properties", ".c", ".cpp", ".h",
	".hpp", ".php", ".rb", ".go", ".swift", ".kts",
}

// IsTextFile reports whether the lowercased path ends with an allow-listed extension.
func IsTextFile(path string) bool {
	lowerPath := strings.ToLower(path)
	for _, extension := range textExtensions {
		if strings.HasSuffix(lowerPath, extension) {
			return true
		}
	}
	return false
}

// Classifier reads eligible files into FileRecords.
type Classifier struct {
	sniffer Sniffer
	logger  *zap.Logger
}

// NewClassifier returns a Classifier. A nil sniffer selects the chardet-backed default.
func NewClassifier(sniffer Sniffer, logger *zap.Logger) *Classifier {
	if sniffer == nil {
		sniffer = NewCharsetSniffer()
	}
	return &Classifier{sniffer: sniffer, logger: utils.LoggerOrNop(logger)}
}

// IsTextFile reports whether path is eligible for content export.
func (classifier *Classifier) IsTextFile(path string) bool {
	return IsTextFile(path)
}

// ReadFile decodes the file at path. Failures never propagate: the returned record
// carries an inline error marker as its content and the error itself in Err.
func (classifier *Classifier) ReadFile(path string, relativePath string) types.FileRecord {
	prefix, prefixErr := readPrefix(path, SniffLength)
	if prefixErr != nil {
		return classifier.failedRecord(path, relativePath, prefixErr)
	}

	encodingName := classifier.sniffer.SniffEncoding(prefix)
	content, decodeErr := DecodeFile(path, encodingName)
	if decodeErr != nil {
		return classifier.failedRecord(path, relativePath, decodeErr)
	}
	classifier.logger.Debug("decoded file", zap.String("path", path), zap.String("encoding", encodingName))
	return types.FileRecord{RelativePath: relativePath, Content: content}
}

func (classifier *Classifier) failedRecord(path string, relativePath string, readErr error) types.FileRecord {
	classifier.logger.Warn("error reading file", zap.String("path", path), zap.Error(readErr))
	return types.FileRecord{
		RelativePath: relativePath,
		Content:      readErrorMarker(readErr),
		Err:          readErr,
	}
}

// readErrorMarker renders the inline marker written in place of unreadable content.
func readErrorMarker(readErr error) string {
	return fmt.Sprintf(readErrorMarkerFormat, readErr.Error())
}

// #nosec G304
func readPrefix(path string, limit int) ([]byte, error) {
	fileHandle, openErr := os.Open(path)
	if openErr != nil {
		return nil, openErr
	}
	defer fileHandle.Close()

	buffer := make([]byte, limit)
	bytesRead, readErr := io.ReadFull(fileHandle, buffer)
	if readErr != nil && readErr != io.EOF && readErr != io.ErrUnexpectedEOF {
		return nil, readErr
	}
	return buffer[:bytesRead], nil
}
