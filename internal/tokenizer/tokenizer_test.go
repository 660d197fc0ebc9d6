package tokenizer

import "testing"

type testCounter struct{}

func (testCounter) Name() string { return "stub" }

func (testCounter) CountString(input string) (int, error) { return len([]rune(input)), nil }

func TestCountDocumentNilCounter(t *testing.T) {
	if _, err := CountDocument(nil, "text"); err == nil {
		t.Fatalf("expected error for nil counter")
	}
}

func TestCountDocument(t *testing.T) {
	tokens, err := CountDocument(testCounter{}, "snapshot")
	if err != nil {
		t.Fatalf("CountDocument error: %v", err)
	}
	if tokens != len("snapshot") {
		t.Fatalf("expected %d tokens, got %d", len("snapshot"), tokens)
	}
}
