package filter

import (
	"path/filepath"
	"strings"
)

const (
	wildcard       = "*"
	slashSeparator = '/'
)

// Glob is a compiled file name pattern. A "*" matches any run of characters,
// including none, but never a path separator; every other character is literal.
type Glob struct {
	source          string
	segments        []string
	caseInsensitive bool
}

// CompileGlob compiles pattern. Consecutive wildcards collapse into one.
func CompileGlob(pattern string, caseInsensitive bool) Glob {
	normalized := pattern
	if caseInsensitive {
		normalized = strings.ToLower(pattern)
	}
	return Glob{
		source:          pattern,
		segments:        strings.Split(normalized, wildcard),
		caseInsensitive: caseInsensitive,
	}
}

// String returns the source pattern.
func (glob Glob) String() string {
	return glob.source
}

// Match reports whether name matches the pattern in full.
func (glob Glob) Match(name string) bool {
	if glob.caseInsensitive {
		name = strings.ToLower(name)
	}
	if len(glob.segments) == 1 {
		return name == glob.segments[0]
	}

	prefix := glob.segments[0]
	suffix := glob.segments[len(glob.segments)-1]
	if len(name) < len(prefix)+len(suffix) {
		return false
	}
	if !strings.HasPrefix(name, prefix) || !strings.HasSuffix(name, suffix) {
		return false
	}

	middle := name[len(prefix) : len(name)-len(suffix)]
	if containsSeparator(middle) {
		return false
	}
	for _, literal := range glob.segments[1 : len(glob.segments)-1] {
		position := strings.Index(middle, literal)
		if position < 0 {
			return false
		}
		middle = middle[position+len(literal):]
	}
	return true
}

func containsSeparator(value string) bool {
	return strings.IndexByte(value, slashSeparator) >= 0 || strings.IndexRune(value, filepath.Separator) >= 0
}
