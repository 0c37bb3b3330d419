package discover

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func writeWalkerFiles(t *testing.T, rootDirectory string, relativePaths ...string) {
	t.Helper()
	for _, relativePath := range relativePaths {
		fullPath := filepath.Join(rootDirectory, filepath.FromSlash(relativePath))
		if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
			t.Fatalf("create directory for %s: %v", relativePath, err)
		}
		if err := os.WriteFile(fullPath, []byte(relativePath+"\n"), 0o644); err != nil {
			t.Fatalf("write %s: %v", relativePath, err)
		}
	}
}

func findSkipped(skipped []SkippedEntry, path string, reason SkipReason) (SkippedEntry, bool) {
	for _, entry := range skipped {
		if entry.Path == path && entry.Reason == reason {
			return entry, true
		}
	}
	return SkippedEntry{}, false
}

func TestWalkerContinuesPastUnreadableDirectory(t *testing.T) {
	rootDirectory := CanonicalPath(t.TempDir())
	writeWalkerFiles(t, rootDirectory, "keep.go", "locked/hidden.go", "open/visible.go")
	lockedDirectory := filepath.Join(rootDirectory, "locked")

	state := newWalker(rootDirectory, nil)
	state.readDirectory = func(directoryPath string) ([]fs.DirEntry, error) {
		if directoryPath == lockedDirectory {
			return nil, fs.ErrPermission
		}
		return os.ReadDir(directoryPath)
	}
	result := state.run([]string{rootDirectory})

	expected := []string{
		filepath.Join(rootDirectory, "keep.go"),
		filepath.Join(rootDirectory, "open", "visible.go"),
	}
	if !reflect.DeepEqual(result.Files, expected) {
		t.Fatalf("expected %v, got %v", expected, result.Files)
	}
	entry, recorded := findSkipped(result.Skipped, lockedDirectory, SkipReasonUnreadable)
	if !recorded || !errors.Is(entry.Err, fs.ErrPermission) {
		t.Fatalf("expected unreadable entry for %s, got %+v", lockedDirectory, result.Skipped)
	}
}

func TestWalkerContinuesPastUnreadableSymlinkTarget(t *testing.T) {
	rootDirectory := CanonicalPath(t.TempDir())
	writeWalkerFiles(t, rootDirectory, "keep.go")
	linkPath := filepath.Join(rootDirectory, "alias.go")
	if err := os.Symlink(filepath.Join(rootDirectory, "keep.go"), linkPath); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}

	state := newWalker(rootDirectory, nil)
	state.statTarget = func(path string) (fs.FileInfo, error) {
		if path == linkPath {
			return nil, fs.ErrPermission
		}
		return os.Stat(path)
	}
	result := state.run([]string{rootDirectory})

	expected := []string{filepath.Join(rootDirectory, "keep.go")}
	if !reflect.DeepEqual(result.Files, expected) {
		t.Fatalf("expected %v, got %v", expected, result.Files)
	}
	if _, recorded := findSkipped(result.Skipped, linkPath, SkipReasonUnreadable); !recorded {
		t.Fatalf("expected unreadable entry for %s, got %+v", linkPath, result.Skipped)
	}
}

func TestWalkerSkipsDirectoryWithoutPermissions(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("permission bits do not restrict root")
	}
	rootDirectory := CanonicalPath(t.TempDir())
	writeWalkerFiles(t, rootDirectory, "keep.go", "locked/hidden.go")
	lockedDirectory := filepath.Join(rootDirectory, "locked")
	if err := os.Chmod(lockedDirectory, 0); err != nil {
		t.Fatalf("chmod: %v", err)
	}
	t.Cleanup(func() { _ = os.Chmod(lockedDirectory, 0o755) })

	result := Discover([]string{rootDirectory}, rootDirectory, nil)

	expected := []string{filepath.Join(rootDirectory, "keep.go")}
	if !reflect.DeepEqual(result.Files, expected) {
		t.Fatalf("expected %v, got %v", expected, result.Files)
	}
	if _, recorded := findSkipped(result.Skipped, lockedDirectory, SkipReasonUnreadable); !recorded {
		t.Fatalf("expected unreadable entry for %s, got %+v", lockedDirectory, result.Skipped)
	}
}
