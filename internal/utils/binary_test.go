package utils_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/temirov/snapshot/internal/types"
	"github.com/temirov/snapshot/internal/utils"
)

func buildSample(total int, highBytes int) []byte {
	sample := bytes.Repeat([]byte("a"), total)
	for index := 0; index < highBytes; index++ {
		sample[index] = 0xC3
	}
	return sample
}

func TestClassifyBytes(t *testing.T) {
	testCases := []struct {
		name     string
		sample   []byte
		expected types.Classification
	}{
		{name: "empty sample", sample: nil, expected: types.ClassificationText},
		{name: "nul bytes", sample: []byte{0x00, 0x41, 0x42, 0x00}, expected: types.ClassificationBinary},
		{name: "printable letters", sample: bytes.Repeat([]byte("x"), 1000), expected: types.ClassificationText},
		{name: "forty percent high bytes", sample: buildSample(100, 40), expected: types.ClassificationBinary},
		{name: "twenty percent high bytes", sample: buildSample(100, 20), expected: types.ClassificationText},
		{name: "exactly thirty percent", sample: buildSample(100, 30), expected: types.ClassificationText},
		{name: "whitespace controls allowed", sample: []byte("a\tb\r\nc\n"), expected: types.ClassificationText},
		{name: "bell characters", sample: []byte{0x07, 0x07, 0x07, 'a'}, expected: types.ClassificationBinary},
	}
	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			result := utils.ClassifyBytes(testCase.sample)
			if result != testCase.expected {
				t.Fatalf("expected %s, got %s", testCase.expected, result)
			}
		})
	}
}

func TestClassifyFile(t *testing.T) {
	rootDirectory := t.TempDir()

	emptyPath := filepath.Join(rootDirectory, "empty.txt")
	if err := os.WriteFile(emptyPath, nil, 0o600); err != nil {
		t.Fatalf("write empty file: %v", err)
	}
	classification, classifyError := utils.ClassifyFile(emptyPath)
	if classifyError != nil || classification != types.ClassificationText {
		t.Fatalf("expected empty file to be text, got %s (%v)", classification, classifyError)
	}

	// A NUL beyond the sample window does not influence classification.
	largePath := filepath.Join(rootDirectory, "large.txt")
	largeContent := append(bytes.Repeat([]byte("z"), utils.SampleLength), 0x00)
	if err := os.WriteFile(largePath, largeContent, 0o600); err != nil {
		t.Fatalf("write large file: %v", err)
	}
	classification, classifyError = utils.ClassifyFile(largePath)
	if classifyError != nil || classification != types.ClassificationText {
		t.Fatalf("expected sampled prefix to be text, got %s (%v)", classification, classifyError)
	}

	missingPath := filepath.Join(rootDirectory, "missing.bin")
	classification, classifyError = utils.ClassifyFile(missingPath)
	if classifyError == nil {
		t.Fatalf("expected error for missing file")
	}
	if classification != types.ClassificationBinary {
		t.Fatalf("expected fail-safe binary classification, got %s", classification)
	}
}
