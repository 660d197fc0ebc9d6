// Package types defines every cross‑package data structure used by the snapshot CLI.
package types

import "strings"

const (
	CommandCreate = "create"
	CommandInit   = "init"
)

// Classification is the outcome of binary detection for a file.
type Classification int

const (
	ClassificationText Classification = iota
	ClassificationBinary
)

// String returns the lower-case label of the classification.
func (classification Classification) String() string {
	if classification == ClassificationBinary {
		return "binary"
	}
	return "text"
}

// FileEntry is a file system entry observed at enumeration time.
type FileEntry struct {
	AbsolutePath string
	SizeBytes    int64
	IsDir        bool
}

// ExclusionConfig holds the exclusion rules supplied once per run.
type ExclusionConfig struct {
	// ExcludedDirectories lists directory names matched against single path segments.
	ExcludedDirectories []string
	// ExcludedFilePatterns lists glob patterns matched against base file names.
	ExcludedFilePatterns []string
	// MaxFileSizeBytes bounds included files. Zero or less disables the bound.
	MaxFileSizeBytes int64
	// CaseInsensitive controls both directory name and glob comparisons.
	CaseInsensitive bool
}

// IsExcludedDirectory reports whether name equals one of the excluded directory names.
func (config ExclusionConfig) IsExcludedDirectory(name string) bool {
	for _, excludedName := range config.ExcludedDirectories {
		if config.CaseInsensitive {
			if strings.EqualFold(excludedName, name) {
				return true
			}
			continue
		}
		if excludedName == name {
			return true
		}
	}
	return false
}
