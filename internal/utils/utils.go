// Package utils contains general helper functions used across the sanity exporter.
package utils

import (
	"path/filepath"
	"strings"
)

// Configuration file constants used across the project.
const (
	// ConfigFileName is the name of the project-local configuration file.
	ConfigFileName = ".sanity.yaml"
	// GlobalConfigDirectoryName is the directory under the user's home holding global configuration.
	GlobalConfigDirectoryName = ".sanity"
	// GlobalConfigFileName is the name of the global configuration file.
	GlobalConfigFileName = "config.yaml"
)

const listSeparator = ","

// DeduplicatePatterns removes duplicate patterns from a slice while preserving order.
// The first occurrence of each unique pattern is kept.
func DeduplicatePatterns(patterns []string) []string {
	encounteredPatterns := make(map[string]struct{})
	result := make([]string, 0, len(patterns))
	for _, pattern := range patterns {
		if _, exists := encounteredPatterns[pattern]; !exists {
			encounteredPatterns[pattern] = struct{}{}
			result = append(result, pattern)
		}
	}
	return result
}

// ContainsString checks if a slice of strings contains a specific target string.
func ContainsString(stringSlice []string, targetString string) bool {
	for _, currentString := range stringSlice {
		if currentString == targetString {
			return true
		}
	}
	return false
}

// SplitCommaList splits a comma separated list, trimming whitespace and dropping empty items.
func SplitCommaList(rawList string) []string {
	var items []string
	for _, item := range strings.Split(rawList, listSeparator) {
		trimmedItem := strings.TrimSpace(item)
		if trimmedItem == "" {
			continue
		}
		items = append(items, trimmedItem)
	}
	return items
}

// RelativePathOrEmpty calculates the path of fullPath relative to root using native separators.
// The root itself yields an empty string. The cleaned fullPath is returned when no relative
// path exists.
func RelativePathOrEmpty(fullPath, root string) string {
	cleanPath := filepath.Clean(fullPath)
	cleanRoot := filepath.Clean(root)
	if cleanPath == cleanRoot {
		return ""
	}
	relativePath, relErr := filepath.Rel(cleanRoot, cleanPath)
	if relErr != nil {
		return cleanPath
	}
	if relativePath == "." {
		return ""
	}
	return relativePath
}
