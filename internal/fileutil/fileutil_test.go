package fileutil

import (
	"os"
	"path/filepath"
	"testing"
)

func TestNonEmptyFile(t *testing.T) {
	dir := t.TempDir()

	empty := filepath.Join(dir, "empty.mp4")
	if err := os.WriteFile(empty, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	full := filepath.Join(dir, "full.mp4")
	if err := os.WriteFile(full, []byte("data"), 0o644); err != nil {
		t.Fatal(err)
	}

	if NonEmptyFile(empty) {
		t.Fatal("zero-byte file reported as non-empty")
	}
	if !NonEmptyFile(full) {
		t.Fatal("non-empty file reported as empty")
	}
	if NonEmptyFile(filepath.Join(dir, "missing.mp4")) {
		t.Fatal("missing file reported as non-empty")
	}
	if NonEmptyFile(dir) {
		t.Fatal("directory reported as non-empty file")
	}
}

func TestRemoveIfExists(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "victim.txt")
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := RemoveIfExists(path); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatal("file still exists after removal")
	}

	// Removing again is a no-op.
	if err := RemoveIfExists(path); err != nil {
		t.Fatalf("remove missing file: %v", err)
	}
	if err := RemoveIfExists(""); err != nil {
		t.Fatalf("remove empty path: %v", err)
	}
}
