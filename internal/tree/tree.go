// Package tree renders a directory hierarchy as indented, glyph-annotated text.
package tree

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/temirov/snapshot/internal/types"
	"github.com/temirov/snapshot/internal/utils"
)

const (
	// BranchConnector prefixes every sibling except the last.
	BranchConnector = "├── "
	// LastConnector prefixes the last sibling.
	LastConnector = "└── "
	// DirectoryTag marks directory lines.
	DirectoryTag = "[DIR] "
	// FileTag marks file lines.
	FileTag = "[FILE] "

	indentUnit = "  "

	errorReadDirectoryFormat = "reading directory %s: %w"
	warningSkipSubdirMessage = "skipping unreadable subdirectory"
)

// Options carries optional collaborators for Render.
type Options struct {
	// SkipPaths lists absolute paths that are never listed.
	SkipPaths []string
	Logger    *zap.Logger
}

// pendingLine is a child waiting on the explicit traversal stack.
type pendingLine struct {
	name   string
	path   string
	depth  int
	isDir  bool
	isLast bool
	// linked marks a symbolic link to a directory, listed but not descended.
	linked bool
}

// Render lists the children of path recursively, starting at the given depth.
// Children are ordered directories first, then by name. Directories whose name is
// excluded by config are neither listed nor descended; file rules are not applied.
// Symbolic links to directories are tagged as directories without being descended.
// Failure to read path itself is returned, while unreadable subdirectories are
// logged and render empty.
func Render(path string, config types.ExclusionConfig, depth int, options Options) (string, error) {
	logger := utils.LoggerOrNop(options.Logger)
	if depth < 0 {
		depth = 0
	}
	skipPaths := make(map[string]struct{}, len(options.SkipPaths))
	for _, skipPath := range options.SkipPaths {
		skipPaths[filepath.Clean(skipPath)] = struct{}{}
	}

	rootChildren, readError := listChildren(path, depth, config, skipPaths)
	if readError != nil {
		return "", readError
	}

	var builder strings.Builder
	stack := pushReversed(nil, rootChildren)
	for len(stack) > 0 {
		current := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		builder.WriteString(formatLine(current))

		if !current.isDir || current.linked {
			continue
		}
		children, childError := listChildren(current.path, current.depth+1, config, skipPaths)
		if childError != nil {
			logger.Warn(warningSkipSubdirMessage, zap.String("path", current.path), zap.Error(childError))
			continue
		}
		stack = pushReversed(stack, children)
	}
	return builder.String(), nil
}

// listChildren reads, filters and orders the direct children of directoryPath.
func listChildren(directoryPath string, depth int, config types.ExclusionConfig, skipPaths map[string]struct{}) ([]pendingLine, error) {
	directoryEntries, readError := os.ReadDir(directoryPath)
	if readError != nil {
		return nil, fmt.Errorf(errorReadDirectoryFormat, directoryPath, readError)
	}

	children := make([]pendingLine, 0, len(directoryEntries))
	for _, directoryEntry := range directoryEntries {
		childPath := filepath.Join(directoryPath, directoryEntry.Name())
		if _, skipped := skipPaths[childPath]; skipped {
			continue
		}
		isDir := directoryEntry.IsDir()
		linked := false
		if directoryEntry.Type()&os.ModeSymlink != 0 {
			if targetInfo, statError := os.Stat(childPath); statError == nil && targetInfo.IsDir() {
				isDir = true
				linked = true
			}
		}
		if isDir && config.IsExcludedDirectory(directoryEntry.Name()) {
			continue
		}
		children = append(children, pendingLine{
			name:   directoryEntry.Name(),
			path:   childPath,
			depth:  depth,
			isDir:  isDir,
			linked: linked,
		})
	}

	sort.SliceStable(children, func(left, right int) bool {
		if children[left].isDir != children[right].isDir {
			return children[left].isDir
		}
		return children[left].name < children[right].name
	})
	if len(children) > 0 {
		children[len(children)-1].isLast = true
	}
	return children, nil
}

// pushReversed appends children so that the first child is popped first.
func pushReversed(stack []pendingLine, children []pendingLine) []pendingLine {
	for index := len(children) - 1; index >= 0; index-- {
		stack = append(stack, children[index])
	}
	return stack
}

func formatLine(line pendingLine) string {
	connector := BranchConnector
	if line.isLast {
		connector = LastConnector
	}
	tag := FileTag
	if line.isDir {
		tag = DirectoryTag
	}
	return strings.Repeat(indentUnit, line.depth) + connector + tag + line.name + "\n"
}
