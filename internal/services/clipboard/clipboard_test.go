package clipboard

import (
	"errors"
	"testing"
)

func TestServiceCopyDelegates(t *testing.T) {
	var copied string
	service := &Service{writeAll: func(text string) error {
		copied = text
		return nil
	}}
	if err := service.Copy("snapshot"); err != nil {
		t.Fatalf("Copy error: %v", err)
	}
	if copied != "snapshot" {
		t.Fatalf("expected text to reach the clipboard, got %q", copied)
	}
}

func TestServiceCopyUnsupported(t *testing.T) {
	service := &Service{unsupported: true, writeAll: func(string) error {
		t.Fatalf("clipboard must not be written when unsupported")
		return nil
	}}
	if err := service.Copy("snapshot"); !errors.Is(err, ErrUnsupported) {
		t.Fatalf("expected ErrUnsupported, got %v", err)
	}
}

func TestServiceCopyWrapsErrors(t *testing.T) {
	failure := errors.New("xclip missing")
	service := &Service{writeAll: func(string) error { return failure }}
	if err := service.Copy("snapshot"); !errors.Is(err, failure) {
		t.Fatalf("expected wrapped failure, got %v", err)
	}
}
