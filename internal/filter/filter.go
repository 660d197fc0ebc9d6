// Package filter decides which enumerated files contribute content to a snapshot.
package filter

import (
	"path/filepath"
	"strings"

	"github.com/temirov/snapshot/internal/types"
	"github.com/temirov/snapshot/internal/utils"
)

// Reason explains a filtering decision.
type Reason int

const (
	ReasonIncluded Reason = iota
	ReasonExcludedDirectory
	ReasonExcludedPattern
	ReasonTooLarge
	ReasonGitignored
)

var reasonLabels = map[Reason]string{
	ReasonIncluded:          "included",
	ReasonExcludedDirectory: "excluded directory",
	ReasonExcludedPattern:   "excluded pattern",
	ReasonTooLarge:          "exceeds maximum size",
	ReasonGitignored:        "gitignored",
}

// String returns a human-readable label for the reason.
func (reason Reason) String() string {
	return reasonLabels[reason]
}

// Decision is the outcome of evaluating one file.
type Decision struct {
	Reason  Reason
	Pattern string
}

// Included reports whether the file contributes content.
func (decision Decision) Included() bool {
	return decision.Reason == ReasonIncluded
}

// IgnoreMatcher reports whether a path is ignored by an external rule set.
// It is satisfied by gitignore.IgnoreMatcher.
type IgnoreMatcher interface {
	Match(path string, isDir bool) bool
}

// Option customizes a Filter.
type Option func(*Filter)

// WithIgnoreMatcher adds an ignore rule set evaluated after the size bound.
func WithIgnoreMatcher(matcher IgnoreMatcher) Option {
	return func(pathFilter *Filter) {
		pathFilter.ignoreMatcher = matcher
	}
}

// Filter evaluates exclusion rules for files under a fixed root.
type Filter struct {
	root          string
	config        types.ExclusionConfig
	globs         []Glob
	ignoreMatcher IgnoreMatcher
}

// New compiles the exclusion configuration for files under root.
func New(root string, config types.ExclusionConfig, options ...Option) *Filter {
	pathFilter := &Filter{
		root:   filepath.Clean(root),
		config: config,
	}
	for _, pattern := range config.ExcludedFilePatterns {
		pathFilter.globs = append(pathFilter.globs, CompileGlob(pattern, config.CaseInsensitive))
	}
	for _, option := range options {
		option(pathFilter)
	}
	return pathFilter
}

// ShouldInclude reports whether file participates in the file contents section.
func (pathFilter *Filter) ShouldInclude(file types.FileEntry) bool {
	return pathFilter.Decide(file).Included()
}

// Decide evaluates the rules in order: ancestor directory names, file name
// patterns, size bound and finally the optional ignore matcher.
func (pathFilter *Filter) Decide(file types.FileEntry) Decision {
	relativePath := utils.RelativePath(pathFilter.root, file.AbsolutePath)
	segments := strings.Split(relativePath, "/")
	baseName := segments[len(segments)-1]

	for _, directoryName := range segments[:len(segments)-1] {
		if pathFilter.config.IsExcludedDirectory(directoryName) {
			return Decision{Reason: ReasonExcludedDirectory, Pattern: directoryName}
		}
	}

	if glob, matched := pathFilter.MatchFileName(baseName); matched {
		return Decision{Reason: ReasonExcludedPattern, Pattern: glob.String()}
	}

	if pathFilter.config.MaxFileSizeBytes > 0 && file.SizeBytes > pathFilter.config.MaxFileSizeBytes {
		return Decision{Reason: ReasonTooLarge}
	}

	if pathFilter.ignoreMatcher != nil {
		if ignoredDirectory, ignored := pathFilter.ignoredAncestor(segments[:len(segments)-1]); ignored {
			return Decision{Reason: ReasonGitignored, Pattern: ignoredDirectory}
		}
		if pathFilter.ignoreMatcher.Match(file.AbsolutePath, file.IsDir) {
			return Decision{Reason: ReasonGitignored}
		}
	}

	return Decision{Reason: ReasonIncluded}
}

// ignoredAncestor reports the first ancestor directory, outermost first, that the
// ignore matcher excludes. Directory rules such as "logs/" only match the directory.
func (pathFilter *Filter) ignoredAncestor(directorySegments []string) (string, bool) {
	ancestorPath := pathFilter.root
	for index, directoryName := range directorySegments {
		ancestorPath = filepath.Join(ancestorPath, directoryName)
		if pathFilter.ignoreMatcher.Match(ancestorPath, true) {
			return strings.Join(directorySegments[:index+1], "/"), true
		}
	}
	return "", false
}

// MatchFileName returns the first exclusion glob matching name.
func (pathFilter *Filter) MatchFileName(name string) (Glob, bool) {
	for _, glob := range pathFilter.globs {
		if glob.Match(name) {
			return glob, true
		}
	}
	return Glob{}, false
}
