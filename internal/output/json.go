package output

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/temirov/sanity/internal/types"
)

const (
	jsonStructureKey   = "structure"
	jsonContentKey     = "content"
	jsonDirectoriesKey = "directories"
	jsonFilesKey       = "files"

	errorIndentJSONFormat = "indenting json for %s: %w"
)

// JSONEncoder buffers every listing and record, then writes one indented document.
// Keys keep traversal order, which encoding/json would otherwise sort away.
type JSONEncoder struct{}

func NewJSONEncoder() *JSONEncoder {
	return &JSONEncoder{}
}

func (encoder *JSONEncoder) Encode(request Request) (Stats, error) {
	sink := &jsonSink{}
	stats, driveErr := drive(request, sink)
	if driveErr != nil {
		return stats, driveErr
	}

	var indented bytes.Buffer
	if err := json.Indent(&indented, sink.document(), indentPrefix, indentSpacer); err != nil {
		return stats, fmt.Errorf(errorIndentJSONFormat, request.OutputPath, err)
	}
	writeErr := writeArtifact(request.OutputPath, func(writer *bufio.Writer) error {
		if _, err := writer.Write(indented.Bytes()); err != nil {
			return fmt.Errorf(errorWriteOutputFormat, request.OutputPath, err)
		}
		return nil
	})
	return stats, writeErr
}

// jsonSink accumulates the compact members of the structure and content objects.
type jsonSink struct {
	structure      bytes.Buffer
	structureCount int
	content        bytes.Buffer
	contentCount   int
}

func (sink *jsonSink) beginStructure() error { return nil }
func (sink *jsonSink) endStructure() error   { return nil }
func (sink *jsonSink) beginContent() error   { return nil }
func (sink *jsonSink) endContent() error     { return nil }

func (sink *jsonSink) directory(node types.TreeNode) error {
	if sink.structureCount > 0 {
		sink.structure.WriteByte(',')
	}
	sink.structureCount++
	sink.structure.WriteString(encodeJSONString(node.RelativePath))
	sink.structure.WriteByte(':')
	sink.structure.WriteByte('{')
	sink.structure.WriteString(encodeJSONString(jsonDirectoriesKey))
	sink.structure.WriteByte(':')
	writeJSONStringArray(&sink.structure, node.Directories)
	sink.structure.WriteByte(',')
	sink.structure.WriteString(encodeJSONString(jsonFilesKey))
	sink.structure.WriteByte(':')
	writeJSONStringArray(&sink.structure, node.Files)
	sink.structure.WriteByte('}')
	return nil
}

func (sink *jsonSink) file(record types.FileRecord) error {
	if sink.contentCount > 0 {
		sink.content.WriteByte(',')
	}
	sink.contentCount++
	sink.content.WriteString(encodeJSONString(record.RelativePath))
	sink.content.WriteByte(':')
	sink.content.WriteString(encodeJSONString(record.Content))
	return nil
}

// document assembles the compact top-level object. Both keys are always present.
func (sink *jsonSink) document() []byte {
	var compact bytes.Buffer
	compact.Grow(sink.structure.Len() + sink.content.Len() + 32)
	compact.WriteByte('{')
	compact.WriteString(encodeJSONString(jsonStructureKey))
	compact.WriteString(":{")
	compact.Write(sink.structure.Bytes())
	compact.WriteString("},")
	compact.WriteString(encodeJSONString(jsonContentKey))
	compact.WriteString(":{")
	compact.Write(sink.content.Bytes())
	compact.WriteString("}}")
	return compact.Bytes()
}

func writeJSONStringArray(buffer *bytes.Buffer, values []string) {
	buffer.WriteByte('[')
	for index, value := range values {
		if index > 0 {
			buffer.WriteByte(',')
		}
		buffer.WriteString(encodeJSONString(value))
	}
	buffer.WriteByte(']')
}

// encodeJSONString quotes value without escaping <, > and &.
func encodeJSONString(value string) string {
	var buffer bytes.Buffer
	encoder := json.NewEncoder(&buffer)
	encoder.SetEscapeHTML(false)
	if err := encoder.Encode(value); err != nil {
		return "\"\""
	}
	return string(bytes.TrimSuffix(buffer.Bytes(), []byte("\n")))
}
