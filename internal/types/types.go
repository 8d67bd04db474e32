// Package types defines every cross‑package data structure used by the sanity CLI.
package types

import (
	"path/filepath"
	"strings"
)

// Mode selects which sections an export includes.
type Mode string

// Format selects the encoding of the export artifact.
type Format string

const (
	ModeBoth      Mode = "both"
	ModeStructure Mode = "structure"
	ModeContent   Mode = "content"

	FormatTXT  Format = "txt"
	FormatJSON Format = "json"
	FormatHTML Format = "html"
)

// IncludesStructure reports whether the mode emits the project structure section.
func (mode Mode) IncludesStructure() bool {
	return mode == ModeBoth || mode == ModeStructure
}

// IncludesContent reports whether the mode emits the file contents section.
func (mode Mode) IncludesContent() bool {
	return mode == ModeBoth || mode == ModeContent
}

// IsValid reports whether the mode is one of the known modes.
func (mode Mode) IsValid() bool {
	switch mode {
	case ModeBoth, ModeStructure, ModeContent:
		return true
	default:
		return false
	}
}

// Extension returns the canonical file extension of the format including the dot.
func (format Format) Extension() string {
	return "." + string(format)
}

// IsValid reports whether the format has an encoder.
func (format Format) IsValid() bool {
	switch format {
	case FormatTXT, FormatJSON, FormatHTML:
		return true
	default:
		return false
	}
}

// ExportConfig describes one export run. It is not modified once an export starts.
type ExportConfig struct {
	Root         string
	ExcludeDirs  []string
	ExcludeFiles []string
	Mode         Mode
	Format       Format
	OutputPath   string
	// ExactMatch disables glob interpretation of exclusion patterns.
	ExactMatch bool
}

// TreeNode is one directory visited by the walker together with its filtered listing.
type TreeNode struct {
	Path         string
	RelativePath string
	Directories  []string
	Files        []string
}

// Depth returns the number of path components between the root and the node.
func (node TreeNode) Depth() int {
	if node.RelativePath == "" {
		return 0
	}
	return strings.Count(node.RelativePath, string(filepath.Separator)) + 1
}

// Name returns the base name of the visited directory.
func (node TreeNode) Name() string {
	return filepath.Base(node.Path)
}

// FileRecord holds the decoded text of one eligible file.
// When Err is set, Content carries the inline error marker instead.
type FileRecord struct {
	RelativePath string
	Content      string
	Err          error
}

// ProgressEvent is a best-effort progress notification.
type ProgressEvent struct {
	Percent int
	Message string
}

// ProgressFunc receives progress notifications inline during an export.
type ProgressFunc func(event ProgressEvent)

// ExportResult is the outcome of one export run.
type ExportResult struct {
	Success        bool
	// Message describes the failure; it is empty on success.
	Message        string
	OutputPath     string
	FilesProcessed int
}
