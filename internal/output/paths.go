package output

import (
	"path/filepath"
	"strings"
)

func joinPath(directoryPath string, name string) string {
	return filepath.Join(directoryPath, name)
}

// absolutePath makes path absolute so it compares with walked paths; it returns path
// unchanged when the working directory is unavailable.
func absolutePath(path string) string {
	absolute, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	return absolute
}

// joinRelative builds a root-relative path; the root itself is the empty string.
func joinRelative(relativeDirectory string, name string) string {
	if relativeDirectory == "" {
		return name
	}
	return filepath.Join(relativeDirectory, name)
}

// treePrefix renders the indentation that precedes a tree line at depth.
func treePrefix(padding string, depth int, connector string) string {
	return strings.Repeat(padding, depth) + connector
}

// directoryPrefix is empty for the root and connects every other directory to its parent.
func directoryPrefix(padding string, depth int) string {
	if depth == 0 {
		return ""
	}
	return treePrefix(padding, depth-1, treeBranchConnector)
}

// filePrefix picks the last-entry connector for the final file of a listing.
func filePrefix(padding string, depth int, index int, count int) string {
	if index == count-1 {
		return treePrefix(padding, depth, treeLastConnector)
	}
	return treePrefix(padding, depth, treeBranchConnector)
}
