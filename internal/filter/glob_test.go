package filter_test

import (
	"testing"

	"github.com/temirov/snapshot/internal/filter"
)

func TestGlobMatch(t *testing.T) {
	testCases := []struct {
		name            string
		pattern         string
		candidate       string
		caseInsensitive bool
		expected        bool
	}{
		{name: "extension", pattern: "*.log", candidate: "app.log", expected: true},
		{name: "extension mismatch", pattern: "*.log", candidate: "app.logs", expected: false},
		{name: "star matches empty run", pattern: "*.log", candidate: ".log", expected: true},
		{name: "literal only", pattern: "Makefile", candidate: "Makefile", expected: true},
		{name: "literal differs", pattern: "Makefile", candidate: "makefile", expected: false},
		{name: "case insensitive literal", pattern: "Makefile", candidate: "makefile", caseInsensitive: true, expected: true},
		{name: "case insensitive extension", pattern: "*.png", candidate: "LOGO.PNG", caseInsensitive: true, expected: true},
		{name: "case sensitive extension", pattern: "*.png", candidate: "LOGO.PNG", expected: false},
		{name: "inner wildcard", pattern: "test_*_data.json", candidate: "test_big_data.json", expected: true},
		{name: "multiple wildcards", pattern: "*.min.*", candidate: "app.min.js", expected: true},
		{name: "multiple wildcards ordered", pattern: "a*b*c", candidate: "acb", expected: false},
		{name: "question mark is literal", pattern: "file?.txt", candidate: "file1.txt", expected: false},
		{name: "brackets are literal", pattern: "[ab].txt", candidate: "[ab].txt", expected: true},
		{name: "star does not cross separator", pattern: "*.go", candidate: "dir/main.go", expected: false},
		{name: "bare star", pattern: "*", candidate: "anything", expected: true},
		{name: "double star collapses", pattern: "**.txt", candidate: "notes.txt", expected: true},
	}
	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			glob := filter.CompileGlob(testCase.pattern, testCase.caseInsensitive)
			if result := glob.Match(testCase.candidate); result != testCase.expected {
				t.Fatalf("pattern %q against %q: expected %v, got %v", testCase.pattern, testCase.candidate, testCase.expected, result)
			}
		})
	}
}
