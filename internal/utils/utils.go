// Package utils contains general helper functions used across the snapshot tool.
package utils

import (
	"path/filepath"
	"strings"
)

// Configuration and repository file constants used across the project.
const (
	// ConfigFileName is the name of the local configuration file.
	ConfigFileName = ".snapshot.yaml"
	// GlobalConfigDirectoryName is the directory under the user home holding global configuration.
	GlobalConfigDirectoryName = ".snapshot"
	// GlobalConfigFileName is the name of the global configuration file.
	GlobalConfigFileName = "config.yaml"
	// GitIgnoreFileName is the name of the Git ignore file.
	GitIgnoreFileName = ".gitignore"
	// IgnoreFileName is the name of the tool-neutral ignore file read alongside .gitignore.
	IgnoreFileName = ".ignore"
	// GitDirectoryName is the name of the Git repository directory.
	GitDirectoryName = ".git"
)

const (
	pathSegmentSeparator = "/"
	parentDirectory      = ".."
	windowsSeparator     = "\\"
)

// DeduplicatePatterns removes duplicate patterns from a slice while preserving order.
// The first occurrence of each unique pattern is kept.
func DeduplicatePatterns(patterns []string) []string {
	encounteredPatterns := make(map[string]struct{})
	result := make([]string, 0, len(patterns))
	for _, pattern := range patterns {
		trimmedPattern := strings.TrimSpace(pattern)
		if trimmedPattern == "" {
			continue
		}
		if _, exists := encounteredPatterns[trimmedPattern]; !exists {
			encounteredPatterns[trimmedPattern] = struct{}{}
			result = append(result, trimmedPattern)
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

// RelativePath returns absolutePath relative to root using forward slashes.
// Root may carry a trailing separator. When the relative path cannot be computed
// or escapes root, the root prefix is stripped textually instead.
// Returns "." if both resolve to the same directory.
func RelativePath(root, absolutePath string) string {
	cleanRoot := filepath.Clean(root)
	cleanPath := filepath.Clean(absolutePath)
	if cleanRoot == cleanPath {
		return "."
	}

	relativePath, relativeError := filepath.Rel(cleanRoot, cleanPath)
	if relativeError != nil || relativePath == parentDirectory || strings.HasPrefix(relativePath, parentDirectory+string(filepath.Separator)) {
		return stripRootPrefix(root, absolutePath)
	}
	return filepath.ToSlash(relativePath)
}

// stripRootPrefix removes root from the front of absolutePath and trims leading separators.
func stripRootPrefix(root, absolutePath string) string {
	normalizedRoot := normalizeSeparators(root)
	normalizedPath := normalizeSeparators(absolutePath)
	trimmedPath := strings.TrimPrefix(normalizedPath, normalizedRoot)
	return strings.TrimLeft(trimmedPath, pathSegmentSeparator)
}

func normalizeSeparators(path string) string {
	return strings.ReplaceAll(filepath.ToSlash(path), windowsSeparator, pathSegmentSeparator)
}
