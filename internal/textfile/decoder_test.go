package textfile_test

import (
	"path/filepath"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/temirov/sanity/internal/textfile"
)

func TestDecodeFileReplacesInvalidSequences(t *testing.T) {
	directory := t.TempDir()
	path := writeFile(t, directory, "broken.txt", []byte("ab\xffcd\xc3"))

	decoded, decodeErr := textfile.DecodeFile(path, "utf-8")

	require.NoError(t, decodeErr)
	assert.True(t, utf8.ValidString(decoded))
	assert.Equal(t, "ab�cd�", decoded)
}

func TestDecodeFileMissingFile(t *testing.T) {
	_, decodeErr := textfile.DecodeFile(filepath.Join(t.TempDir(), "missing.txt"), "utf-8")
	assert.Error(t, decodeErr)
}

func TestLookupEncoding(t *testing.T) {
	testCases := []struct {
		name    string
		honored bool
	}{
		{name: "utf-8", honored: true},
		{name: "UTF-8", honored: true},
		{name: "windows-1252", honored: true},
		{name: "ISO-8859-5", honored: true},
		{name: "Shift_JIS", honored: true},
		{name: "definitely-not-a-charset", honored: false},
		{name: "", honored: false},
	}
	for _, testCase := range testCases {
		resolved, honored := textfile.LookupEncoding(testCase.name)
		assert.NotNilf(t, resolved, "encoding %q", testCase.name)
		assert.Equalf(t, testCase.honored, honored, "encoding %q", testCase.name)
	}
}
