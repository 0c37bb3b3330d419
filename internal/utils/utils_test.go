package utils_test

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/temirov/rcpack/internal/utils"
)

func TestDeduplicatePatterns(t *testing.T) {
	testCases := []struct {
		name     string
		input    []string
		expected []string
	}{
		{name: "empty", input: nil, expected: []string{}},
		{name: "keeps_first_occurrence", input: []string{"*.go", "docs/*", "*.go"}, expected: []string{"*.go", "docs/*"}},
		{name: "drops_blank_entries", input: []string{" ", "", "*.md "}, expected: []string{"*.md"}},
	}
	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			result := utils.DeduplicatePatterns(testCase.input)
			if !reflect.DeepEqual(result, testCase.expected) {
				t.Fatalf("expected %v, got %v", testCase.expected, result)
			}
		})
	}
}

func TestSplitPatternList(t *testing.T) {
	result := utils.SplitPatternList([]string{"*.py,*.md", " src/* ", ",,"})
	expected := []string{"*.py", "*.md", "src/*"}
	if !reflect.DeepEqual(result, expected) {
		t.Fatalf("expected %v, got %v", expected, result)
	}
}

func TestRelativePathOrSelf(t *testing.T) {
	rootDirectory := t.TempDir()
	testCases := []struct {
		name     string
		fullPath string
		expected string
	}{
		{name: "same_directory", fullPath: rootDirectory, expected: "."},
		{name: "nested_file", fullPath: filepath.Join(rootDirectory, "a", "b.py"), expected: "a/b.py"},
		{name: "sibling_directory", fullPath: filepath.Join(filepath.Dir(rootDirectory), "other"), expected: "../other"},
	}
	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			result := utils.RelativePathOrSelf(testCase.fullPath, rootDirectory)
			if result != testCase.expected {
				t.Fatalf("expected %s, got %s", testCase.expected, result)
			}
		})
	}
}

func TestIsWithinRoot(t *testing.T) {
	testCases := map[string]bool{
		"":          false,
		".":         false,
		"..":        false,
		"../a.go":   false,
		"a.go":      true,
		"..hidden":  true,
		"pkg/a.go":  true,
		"/abs/path": false,
	}
	for relativePath, expected := range testCases {
		if result := utils.IsWithinRoot(relativePath); result != expected {
			t.Fatalf("IsWithinRoot(%q): expected %t, got %t", relativePath, expected, result)
		}
	}
}

func TestFindRepositoryRoot(t *testing.T) {
	repositoryDirectory := t.TempDir()
	if err := os.Mkdir(filepath.Join(repositoryDirectory, utils.GitDirectoryName), 0o755); err != nil {
		t.Fatalf("create git directory: %v", err)
	}
	nestedDirectory := filepath.Join(repositoryDirectory, "internal", "pkg")
	if err := os.MkdirAll(nestedDirectory, 0o755); err != nil {
		t.Fatalf("create nested directory: %v", err)
	}

	foundRoot, lookupError := utils.FindRepositoryRoot(nestedDirectory)
	if lookupError != nil {
		t.Fatalf("FindRepositoryRoot error: %v", lookupError)
	}
	if foundRoot != repositoryDirectory {
		t.Fatalf("expected %s, got %s", repositoryDirectory, foundRoot)
	}
}
