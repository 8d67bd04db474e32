package textfile

import (
	"unicode/utf8"

	"github.com/saintfish/chardet"
)

// DefaultEncoding is used whenever detection yields nothing usable.
const DefaultEncoding = "utf-8"

// Sniffer guesses the character encoding of a byte prefix.
type Sniffer interface {
	SniffEncoding(prefix []byte) string
}

// SnifferFunc adapts a function to the Sniffer interface.
type SnifferFunc func(prefix []byte) string

// SniffEncoding calls the wrapped function.
func (sniff SnifferFunc) SniffEncoding(prefix []byte) string {
	return sniff(prefix)
}

// CharsetSniffer accepts valid UTF-8 prefixes as UTF-8 and otherwise runs chardet's
// statistical detection.
type CharsetSniffer struct {
	detector *chardet.Detector
}

// NewCharsetSniffer constructs the default Sniffer.
func NewCharsetSniffer() *CharsetSniffer {
	return &CharsetSniffer{detector: chardet.NewTextDetector()}
}

// SniffEncoding returns the detected charset name, DefaultEncoding when undetermined.
func (sniffer *CharsetSniffer) SniffEncoding(prefix []byte) string {
	if len(prefix) == 0 || isUTF8Prefix(prefix) {
		return DefaultEncoding
	}
	result, detectErr := sniffer.detector.DetectBest(prefix)
	if detectErr != nil || result == nil || result.Charset == "" {
		return DefaultEncoding
	}
	return result.Charset
}

// isUTF8Prefix reports whether data is valid UTF-8, tolerating one rune cut off at the end
// of a truncated prefix.
func isUTF8Prefix(data []byte) bool {
	if utf8.Valid(data) {
		return true
	}
	for cut := 1; cut < utf8.UTFMax && cut < len(data); cut++ {
		tail := data[len(data)-cut:]
		if utf8.RuneStart(tail[0]) && !utf8.FullRune(tail) {
			return utf8.Valid(data[:len(data)-cut])
		}
	}
	return false
}

var _ Sniffer = (*CharsetSniffer)(nil)
