package snapshot

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/temirov/snapshot/internal/filter"
	"github.com/temirov/snapshot/internal/tree"
	"github.com/temirov/snapshot/internal/types"
	"github.com/temirov/snapshot/internal/utils"
)

const (
	errorAbsolutePathFormat = "getting absolute path for %s: %w"
	errorStatRootFormat     = "inspecting root %s: %w"
	errorEnumerateFormat    = "enumerating files under %s: %w"

	warningTreeMessage       = "directory structure could not be rendered"
	warningAccessMessage     = "skipping unreadable path"
	warningClassifyMessage   = "classification failed, treating file as binary"
	warningReadMessage       = "reading file failed"
	debugExcludedFileMessage = "file excluded from contents"

	replacementCharacter = "\uFFFD"
)

// ErrRootNotDirectory is returned when the snapshot root is not a directory.
var ErrRootNotDirectory = errors.New("snapshot root is not a directory")

// Counters aggregate per-file outcomes of one run.
type Counters struct {
	// TotalFiles counts every enumerated file, included or not.
	TotalFiles int
	// Processed counts files that produced a content block.
	Processed int
	// Excluded counts files dropped by the path filter.
	Excluded int
	// SkippedBinary counts blocks rendered with the binary placeholder.
	SkippedBinary int
	// Errored counts blocks rendered with the read error placeholder.
	Errored int
}

// Options carries optional collaborators for Assemble.
type Options struct {
	Logger *zap.Logger
	// Clock supplies the generation time. Defaults to time.Now.
	Clock func() time.Time
	// OutputPath is the snapshot destination; it is omitted from both sections.
	OutputPath string
	// IgnoreMatcher adds gitignore rules to the content filter.
	IgnoreMatcher filter.IgnoreMatcher
	// Workers bounds concurrent file processing. Values below 2 process sequentially.
	Workers int
}

// Assemble walks root and builds the snapshot document. Only a failure to
// enumerate root (or cancellation) is returned as an error; per-file problems
// become placeholders and counter increments.
func Assemble(ctx context.Context, root string, config types.ExclusionConfig, options Options) (*Document, Counters, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	logger := utils.LoggerOrNop(options.Logger)
	clock := options.Clock
	if clock == nil {
		clock = time.Now
	}

	absoluteRoot, absoluteError := filepath.Abs(root)
	if absoluteError != nil {
		return nil, Counters{}, fmt.Errorf(errorAbsolutePathFormat, root, absoluteError)
	}
	absoluteRoot = filepath.Clean(absoluteRoot)
	rootInfo, statError := os.Stat(absoluteRoot)
	if statError != nil {
		return nil, Counters{}, fmt.Errorf(errorStatRootFormat, absoluteRoot, statError)
	}
	if !rootInfo.IsDir() {
		return nil, Counters{}, fmt.Errorf(errorStatRootFormat, absoluteRoot, ErrRootNotDirectory)
	}

	var skipPaths []string
	if options.OutputPath != "" {
		absoluteOutput, outputError := filepath.Abs(options.OutputPath)
		if outputError == nil {
			skipPaths = append(skipPaths, filepath.Clean(absoluteOutput))
		}
	}

	document := &Document{
		GeneratedAt: utils.FormatTimestamp(clock()),
		RootPath:    absoluteRoot,
	}

	renderedTree, treeError := tree.Render(absoluteRoot, config, 0, tree.Options{SkipPaths: skipPaths, Logger: logger})
	if treeError != nil {
		logger.Warn(warningTreeMessage, zap.String("path", absoluteRoot), zap.Error(treeError))
		renderedTree = fmt.Sprintf(treeErrorPlaceholderFormat, treeError.Error()) + "\n"
	}
	document.DirectoryStructure = renderedTree

	entries, enumerateError := enumerateFiles(ctx, absoluteRoot, config, skipPaths, logger)
	if enumerateError != nil {
		return nil, Counters{}, enumerateError
	}

	counters := Counters{TotalFiles: len(entries)}
	pathFilter := filter.New(absoluteRoot, config, filter.WithIgnoreMatcher(options.IgnoreMatcher))
	included := make([]types.FileEntry, 0, len(entries))
	for _, entry := range entries {
		decision := pathFilter.Decide(entry)
		if !decision.Included() {
			counters.Excluded++
			logger.Debug(debugExcludedFileMessage, zap.String("path", entry.AbsolutePath), zap.Stringer("reason", decision.Reason))
			continue
		}
		included = append(included, entry)
	}

	blocks, processError := processFiles(ctx, absoluteRoot, included, options.Workers, logger)
	if processError != nil {
		return nil, Counters{}, processError
	}
	for _, block := range blocks {
		counters.Processed++
		switch block.Kind {
		case BlockBinary:
			counters.SkippedBinary++
		case BlockError:
			counters.Errored++
		}
	}
	document.Blocks = blocks
	return document, counters, nil
}

// enumerateFiles lists regular files under root in lexical order. Excluded
// directories are not descended. A failure at root itself is returned.
func enumerateFiles(ctx context.Context, root string, config types.ExclusionConfig, skipPaths []string, logger *zap.Logger) ([]types.FileEntry, error) {
	var entries []types.FileEntry
	walkError := filepath.WalkDir(root, func(walkedPath string, directoryEntry fs.DirEntry, accessError error) error {
		if contextError := ctx.Err(); contextError != nil {
			return contextError
		}
		if accessError != nil {
			if walkedPath == root {
				return accessError
			}
			logger.Warn(warningAccessMessage, zap.String("path", walkedPath), zap.Error(accessError))
			if directoryEntry != nil && directoryEntry.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if walkedPath == root {
			return nil
		}
		if directoryEntry.IsDir() {
			if config.IsExcludedDirectory(directoryEntry.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		if utils.ContainsString(skipPaths, walkedPath) {
			return nil
		}

		fileInfo, infoError := regularFileInfo(walkedPath, directoryEntry)
		if infoError != nil {
			logger.Warn(warningAccessMessage, zap.String("path", walkedPath), zap.Error(infoError))
			return nil
		}
		if fileInfo == nil {
			return nil
		}
		entries = append(entries, types.FileEntry{
			AbsolutePath: walkedPath,
			SizeBytes:    fileInfo.Size(),
		})
		return nil
	})
	if walkError != nil {
		if errors.Is(walkError, context.Canceled) || errors.Is(walkError, context.DeadlineExceeded) {
			return nil, walkError
		}
		return nil, fmt.Errorf(errorEnumerateFormat, root, walkError)
	}
	return entries, nil
}

// regularFileInfo returns file information for regular files, following
// symbolic links. Other entry types yield nil information and no error.
func regularFileInfo(path string, directoryEntry fs.DirEntry) (fs.FileInfo, error) {
	if directoryEntry.Type().IsRegular() {
		return directoryEntry.Info()
	}
	if directoryEntry.Type()&fs.ModeSymlink == 0 {
		return nil, nil
	}
	targetInfo, statError := os.Stat(path)
	if statError != nil {
		return nil, statError
	}
	if !targetInfo.Mode().IsRegular() {
		return nil, nil
	}
	return targetInfo, nil
}

// processFiles renders one block per entry, preserving entry order.
func processFiles(ctx context.Context, root string, entries []types.FileEntry, workers int, logger *zap.Logger) ([]FileBlock, error) {
	blocks := make([]FileBlock, len(entries))
	if workers < 2 {
		for index, entry := range entries {
			if contextError := ctx.Err(); contextError != nil {
				return nil, contextError
			}
			blocks[index] = buildBlock(root, entry, logger)
		}
		return blocks, nil
	}

	group, groupContext := errgroup.WithContext(ctx)
	group.SetLimit(workers)
	for index, entry := range entries {
		index, entry := index, entry
		group.Go(func() error {
			if contextError := groupContext.Err(); contextError != nil {
				return contextError
			}
			blocks[index] = buildBlock(root, entry, logger)
			return nil
		})
	}
	if waitError := group.Wait(); waitError != nil {
		return nil, waitError
	}
	return blocks, nil
}

// buildBlock classifies and reads one file. Failures never escape the block.
func buildBlock(root string, entry types.FileEntry, logger *zap.Logger) FileBlock {
	block := FileBlock{RelativePath: utils.RelativePath(root, entry.AbsolutePath)}

	classification, classifyError := utils.ClassifyFile(entry.AbsolutePath)
	if classifyError != nil {
		logger.Warn(warningClassifyMessage, zap.String("path", entry.AbsolutePath), zap.Error(classifyError))
	}
	if classification == types.ClassificationBinary {
		block.Kind = BlockBinary
		block.Body = BinaryPlaceholder + "\n" + sizeLabel + utils.FormatKilobytes(entry.SizeBytes) + "\n"
		return block
	}

	// #nosec G304
	fileBytes, readError := os.ReadFile(entry.AbsolutePath)
	if readError != nil {
		logger.Warn(warningReadMessage, zap.String("path", entry.AbsolutePath), zap.Error(readError))
		block.Kind = BlockError
		block.Body = fmt.Sprintf(readErrorPlaceholderFormat, readError.Error()) + "\n"
		return block
	}

	content := strings.ToValidUTF8(string(fileBytes), replacementCharacter)
	if strings.TrimSpace(content) == "" {
		block.Kind = BlockEmpty
		block.Body = EmptyPlaceholder + "\n"
		return block
	}
	block.Kind = BlockText
	block.Body = content
	return block
}
