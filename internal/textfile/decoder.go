package textfile

import (
	"io"
	"os"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

const replacementCharacter = "\uFFFD"

// LookupEncoding resolves a charset name to a decoder, falling back to UTF-8 when the
// name is unknown or has no local implementation. The second result reports whether
// the requested name was honored.
func LookupEncoding(name string) (encoding.Encoding, bool) {
	trimmedName := strings.TrimSpace(name)
	if trimmedName == "" {
		return unicode.UTF8, false
	}
	if resolved, lookupErr := htmlindex.Get(trimmedName); lookupErr == nil && resolved != nil {
		return resolved, true
	}
	if resolved, lookupErr := ianaindex.IANA.Encoding(trimmedName); lookupErr == nil && resolved != nil {
		return resolved, true
	}
	return unicode.UTF8, false
}

// DecodeFile decodes the entire file at path with the named encoding. Malformed input
// never fails: undecodable sequences become U+FFFD. Only I/O errors are returned.
//
// #nosec G304
func DecodeFile(path string, encodingName string) (string, error) {
	fileHandle, openErr := os.Open(path)
	if openErr != nil {
		return "", openErr
	}
	defer fileHandle.Close()

	resolved, _ := LookupEncoding(encodingName)
	decodedBytes, readErr := io.ReadAll(transform.NewReader(fileHandle, resolved.NewDecoder()))
	if readErr != nil {
		return "", readErr
	}
	return strings.ToValidUTF8(string(decodedBytes), replacementCharacter), nil
}
