package filter

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	gitignore "github.com/monochromegane/go-gitignore"

	"github.com/temirov/snapshot/internal/types"
	"github.com/temirov/snapshot/internal/utils"
)

const (
	errorLoadGitignoreFormat = "loading %s from %s: %w"
	errorWalkIgnoreFormat    = "searching ignore files under %s: %w"
)

var ignoreFileNames = []string{utils.GitIgnoreFileName, utils.IgnoreFileName}

// scopedMatcher applies the rules of one ignore file to paths below its directory.
type scopedMatcher struct {
	directory string
	matcher   gitignore.IgnoreMatcher
}

// ignoreFileSet matches a path against every ignore file whose directory contains it.
type ignoreFileSet struct {
	scopes []scopedMatcher
}

func (set ignoreFileSet) Match(path string, isDir bool) bool {
	for _, scope := range set.scopes {
		if !strings.HasPrefix(path, scope.directory+string(filepath.Separator)) {
			continue
		}
		if scope.matcher.Match(path, isDir) {
			return true
		}
	}
	return false
}

// LoadGitignore collects .gitignore and .ignore files in rootDirectory and every
// directory below it that config does not exclude. Rules of a nested file are
// resolved against that file's directory. The .git directory is never searched.
// A tree without ignore files yields a nil matcher and no error.
func LoadGitignore(rootDirectory string, config types.ExclusionConfig) (IgnoreMatcher, error) {
	absoluteRoot, absoluteError := filepath.Abs(rootDirectory)
	if absoluteError != nil {
		return nil, fmt.Errorf(errorLoadGitignoreFormat, utils.GitIgnoreFileName, rootDirectory, absoluteError)
	}
	absoluteRoot = filepath.Clean(absoluteRoot)

	var set ignoreFileSet
	walkError := filepath.WalkDir(absoluteRoot, func(currentPath string, directoryEntry fs.DirEntry, accessError error) error {
		if accessError != nil {
			if currentPath == absoluteRoot {
				return accessError
			}
			if directoryEntry != nil && directoryEntry.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if !directoryEntry.IsDir() {
			return nil
		}
		if currentPath != absoluteRoot {
			name := directoryEntry.Name()
			if name == utils.GitDirectoryName || config.IsExcludedDirectory(name) {
				return filepath.SkipDir
			}
		}
		for _, ignoreFileName := range ignoreFileNames {
			scope, found, loadError := loadIgnoreFile(currentPath, ignoreFileName)
			if loadError != nil {
				return loadError
			}
			if found {
				set.scopes = append(set.scopes, scope)
			}
		}
		return nil
	})
	if walkError != nil {
		return nil, fmt.Errorf(errorWalkIgnoreFormat, absoluteRoot, walkError)
	}
	if len(set.scopes) == 0 {
		return nil, nil
	}
	return set, nil
}

func loadIgnoreFile(directory string, fileName string) (scopedMatcher, bool, error) {
	ignoreFilePath := filepath.Join(directory, fileName)
	fileInfo, statError := os.Stat(ignoreFilePath)
	if statError != nil {
		if os.IsNotExist(statError) {
			return scopedMatcher{}, false, nil
		}
		return scopedMatcher{}, false, fmt.Errorf(errorLoadGitignoreFormat, fileName, directory, statError)
	}
	if fileInfo.IsDir() {
		return scopedMatcher{}, false, nil
	}
	matcher, parseError := gitignore.NewGitIgnore(ignoreFilePath, directory)
	if parseError != nil {
		return scopedMatcher{}, false, fmt.Errorf(errorLoadGitignoreFormat, fileName, directory, parseError)
	}
	return scopedMatcher{directory: directory, matcher: matcher}, true, nil
}
