package utils

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/temirov/snapshot/internal/types"
)

const (
	// SampleLength defines the maximum number of bytes read when classifying a file.
	SampleLength = 8192
	// nonPrintableThreshold is the ratio of suspicious bytes above which a sample is binary.
	nonPrintableThreshold = 0.3

	asciiSpace     = 0x20
	asciiDelete    = 0x7F
	asciiTab       = 0x09
	asciiLineFeed  = 0x0A
	asciiCarriageR = 0x0D

	errorSampleFileFormat = "sampling %s: %w"
)

// ClassifyBytes classifies a leading sample of file content.
// An empty sample is text; any NUL byte is binary; otherwise the sample is binary
// when more than 30% of its bytes are control characters (other than tab, LF and CR)
// or above 0x7F.
func ClassifyBytes(sample []byte) types.Classification {
	if len(sample) == 0 {
		return types.ClassificationText
	}
	suspiciousBytes := 0
	for _, byteValue := range sample {
		if byteValue == 0 {
			return types.ClassificationBinary
		}
		if isSuspiciousByte(byteValue) {
			suspiciousBytes++
		}
	}
	if float64(suspiciousBytes)/float64(len(sample)) > nonPrintableThreshold {
		return types.ClassificationBinary
	}
	return types.ClassificationText
}

func isSuspiciousByte(byteValue byte) bool {
	if byteValue > asciiDelete {
		return true
	}
	if byteValue >= asciiSpace {
		return false
	}
	return byteValue != asciiTab && byteValue != asciiLineFeed && byteValue != asciiCarriageR
}

// ClassifyFile reads up to SampleLength bytes from the file at path and classifies them.
// Any I/O failure yields ClassificationBinary together with the failure.
//
// #nosec G304
func ClassifyFile(path string) (types.Classification, error) {
	fileHandle, openError := os.Open(path)
	if openError != nil {
		return types.ClassificationBinary, fmt.Errorf(errorSampleFileFormat, path, openError)
	}
	defer fileHandle.Close()

	buffer := make([]byte, SampleLength)
	bytesRead, readError := io.ReadFull(fileHandle, buffer)
	if readError != nil && !errors.Is(readError, io.EOF) && !errors.Is(readError, io.ErrUnexpectedEOF) {
		return types.ClassificationBinary, fmt.Errorf(errorSampleFileFormat, path, readError)
	}
	return ClassifyBytes(buffer[:bytesRead]), nil
}
