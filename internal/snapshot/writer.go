package snapshot

import (
	"fmt"
	"os"
	"path/filepath"
)

const (
	temporaryFilePattern = ".snapshot-*.tmp"
	outputFileMode       = 0o644

	errorCreateTemporaryFormat = "creating temporary file for %s: %w"
	errorWriteOutputFormat     = "writing snapshot to %s: %w"
	errorReplaceOutputFormat   = "replacing %s: %w"
)

// Write serializes document to destination and returns the number of bytes written.
// The content goes to a temporary file beside destination which then replaces it,
// so destination holds either its previous content or the complete snapshot.
func Write(document *Document, destination string) (int64, error) {
	content := document.Bytes()
	destinationDirectory := filepath.Dir(destination)

	temporaryFile, createError := os.CreateTemp(destinationDirectory, temporaryFilePattern)
	if createError != nil {
		return 0, fmt.Errorf(errorCreateTemporaryFormat, destination, createError)
	}
	temporaryPath := temporaryFile.Name()
	committed := false
	defer func() {
		if !committed {
			_ = os.Remove(temporaryPath)
		}
	}()

	if _, writeError := temporaryFile.Write(content); writeError != nil {
		_ = temporaryFile.Close()
		return 0, fmt.Errorf(errorWriteOutputFormat, destination, writeError)
	}
	if closeError := temporaryFile.Close(); closeError != nil {
		return 0, fmt.Errorf(errorWriteOutputFormat, destination, closeError)
	}
	if chmodError := os.Chmod(temporaryPath, outputFileMode); chmodError != nil {
		return 0, fmt.Errorf(errorWriteOutputFormat, destination, chmodError)
	}
	if renameError := os.Rename(temporaryPath, destination); renameError != nil {
		return 0, fmt.Errorf(errorReplaceOutputFormat, destination, renameError)
	}
	committed = true
	return int64(len(content)), nil
}
