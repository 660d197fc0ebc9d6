package snapshot_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/temirov/snapshot/internal/snapshot"
)

func TestWriteReplacesExistingFile(testingHandle *testing.T) {
	outputDirectory := testingHandle.TempDir()
	destination := filepath.Join(outputDirectory, "project_snapshot.txt")
	writeTestFile(testingHandle, destination, []byte("stale content that is longer than the new one"))

	document := &snapshot.Document{GeneratedAt: "2024-03-04 05:06:07", RootPath: "/work"}
	written, writeError := snapshot.Write(document, destination)
	if writeError != nil {
		testingHandle.Fatalf("Write error: %v", writeError)
	}

	content, readError := os.ReadFile(destination)
	if readError != nil {
		testingHandle.Fatalf("read output: %v", readError)
	}
	if string(content) != document.String() {
		testingHandle.Fatalf("unexpected output content:\n%s", content)
	}
	if written != int64(len(content)) {
		testingHandle.Fatalf("expected %d bytes written, got %d", len(content), written)
	}
	if len(content) >= 3 && content[0] == 0xEF && content[1] == 0xBB && content[2] == 0xBF {
		testingHandle.Fatalf("output must not start with a byte-order mark")
	}

	entries, listError := os.ReadDir(outputDirectory)
	if listError != nil {
		testingHandle.Fatalf("list output directory: %v", listError)
	}
	if len(entries) != 1 {
		testingHandle.Fatalf("expected only the snapshot in the output directory, found %d entries", len(entries))
	}
}

func TestWriteMissingDirectory(testingHandle *testing.T) {
	destination := filepath.Join(testingHandle.TempDir(), "missing", "project_snapshot.txt")
	if _, writeError := snapshot.Write(&snapshot.Document{}, destination); writeError == nil {
		testingHandle.Fatalf("expected error when the destination directory does not exist")
	}
}
