package tree_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/temirov/snapshot/internal/tree"
	"github.com/temirov/snapshot/internal/types"
)

// writeTestFile creates a file with the specified content, creating parent directories.
func writeTestFile(testingHandle *testing.T, filePath string, content string) {
	testingHandle.Helper()
	if makeDirError := os.MkdirAll(filepath.Dir(filePath), 0o755); makeDirError != nil {
		testingHandle.Fatalf("failed to create %s: %v", filepath.Dir(filePath), makeDirError)
	}
	if writeError := os.WriteFile(filePath, []byte(content), 0o644); writeError != nil {
		testingHandle.Fatalf("failed to write %s: %v", filePath, writeError)
	}
}

func TestRenderOrdersDirectoriesFirst(testingHandle *testing.T) {
	rootDirectory := testingHandle.TempDir()
	writeTestFile(testingHandle, filepath.Join(rootDirectory, "README.md"), "readme")
	writeTestFile(testingHandle, filepath.Join(rootDirectory, "src", "Program.cs"), "using System;")
	writeTestFile(testingHandle, filepath.Join(rootDirectory, "src", "util", "helper.cs"), "")
	writeTestFile(testingHandle, filepath.Join(rootDirectory, "a.txt"), "a")

	rendered, renderError := tree.Render(rootDirectory, types.ExclusionConfig{}, 0, tree.Options{})
	if renderError != nil {
		testingHandle.Fatalf("Render error: %v", renderError)
	}

	expected := strings.Join([]string{
		"├── [DIR] src",
		"  ├── [DIR] util",
		"    └── [FILE] helper.cs",
		"  └── [FILE] Program.cs",
		"├── [FILE] README.md",
		"└── [FILE] a.txt",
	}, "\n") + "\n"
	if rendered != expected {
		testingHandle.Fatalf("unexpected tree:\n%s\nwant:\n%s", rendered, expected)
	}
}

func TestRenderAppliesOnlyDirectoryExclusions(testingHandle *testing.T) {
	rootDirectory := testingHandle.TempDir()
	writeTestFile(testingHandle, filepath.Join(rootDirectory, ".git", "HEAD"), "ref")
	writeTestFile(testingHandle, filepath.Join(rootDirectory, "node_modules", "pkg", "index.js"), "x")
	writeTestFile(testingHandle, filepath.Join(rootDirectory, "app.log"), "log line")
	writeTestFile(testingHandle, filepath.Join(rootDirectory, "big.txt"), strings.Repeat("b", 20))

	config := types.ExclusionConfig{
		ExcludedDirectories:  []string{".git", "node_modules"},
		ExcludedFilePatterns: []string{"*.log"},
		MaxFileSizeBytes:     10,
	}
	rendered, renderError := tree.Render(rootDirectory, config, 0, tree.Options{})
	if renderError != nil {
		testingHandle.Fatalf("Render error: %v", renderError)
	}
	for _, forbidden := range []string{".git", "HEAD", "node_modules", "index.js", "pkg"} {
		if strings.Contains(rendered, forbidden) {
			testingHandle.Fatalf("expected %q to be absent from tree:\n%s", forbidden, rendered)
		}
	}
	for _, required := range []string{"[FILE] app.log", "[FILE] big.txt"} {
		if !strings.Contains(rendered, required) {
			testingHandle.Fatalf("expected %q in tree:\n%s", required, rendered)
		}
	}
}

func TestRenderSkipPathsAndDepth(testingHandle *testing.T) {
	rootDirectory := testingHandle.TempDir()
	outputPath := filepath.Join(rootDirectory, "snapshot.txt")
	writeTestFile(testingHandle, outputPath, "previous run")
	writeTestFile(testingHandle, filepath.Join(rootDirectory, "main.go"), "package main")

	rendered, renderError := tree.Render(rootDirectory, types.ExclusionConfig{}, 2, tree.Options{SkipPaths: []string{outputPath}})
	if renderError != nil {
		testingHandle.Fatalf("Render error: %v", renderError)
	}
	if rendered != "    └── [FILE] main.go\n" {
		testingHandle.Fatalf("unexpected tree: %q", rendered)
	}
}

func TestRenderMissingRoot(testingHandle *testing.T) {
	missing := filepath.Join(testingHandle.TempDir(), "missing")
	if _, renderError := tree.Render(missing, types.ExclusionConfig{}, 0, tree.Options{}); renderError == nil {
		testingHandle.Fatalf("expected error for missing root")
	}
}

func TestRenderUnreadableSubdirectoryRendersEmpty(testingHandle *testing.T) {
	if os.Geteuid() == 0 {
		testingHandle.Skip("permission checks do not apply to root")
	}
	rootDirectory := testingHandle.TempDir()
	lockedDirectory := filepath.Join(rootDirectory, "locked")
	writeTestFile(testingHandle, filepath.Join(lockedDirectory, "secret.txt"), "s")
	writeTestFile(testingHandle, filepath.Join(rootDirectory, "open.txt"), "o")
	if chmodError := os.Chmod(lockedDirectory, 0o000); chmodError != nil {
		testingHandle.Fatalf("chmod: %v", chmodError)
	}
	testingHandle.Cleanup(func() { _ = os.Chmod(lockedDirectory, 0o755) })

	core, recorded := observer.New(zapcore.WarnLevel)
	rendered, renderError := tree.Render(rootDirectory, types.ExclusionConfig{}, 0, tree.Options{Logger: zap.New(core)})
	if renderError != nil {
		testingHandle.Fatalf("Render error: %v", renderError)
	}
	expected := "├── [DIR] locked\n└── [FILE] open.txt\n"
	if rendered != expected {
		testingHandle.Fatalf("unexpected tree: %q", rendered)
	}
	if recorded.Len() != 1 {
		testingHandle.Fatalf("expected one warning, got %d", recorded.Len())
	}
}

func TestRenderTagsLinkedDirectoryWithoutDescending(testingHandle *testing.T) {
	rootDirectory := testingHandle.TempDir()
	targetDirectory := testingHandle.TempDir()
	writeTestFile(testingHandle, filepath.Join(targetDirectory, "inside.txt"), "x")
	writeTestFile(testingHandle, filepath.Join(rootDirectory, "z.txt"), "z")
	if linkError := os.Symlink(targetDirectory, filepath.Join(rootDirectory, "linked")); linkError != nil {
		testingHandle.Skipf("symlinks unavailable: %v", linkError)
	}

	rendered, renderError := tree.Render(rootDirectory, types.ExclusionConfig{}, 0, tree.Options{})
	if renderError != nil {
		testingHandle.Fatalf("Render error: %v", renderError)
	}
	expected := "├── [DIR] linked\n└── [FILE] z.txt\n"
	if rendered != expected {
		testingHandle.Fatalf("unexpected tree:\n%s\nwant:\n%s", rendered, expected)
	}
}
