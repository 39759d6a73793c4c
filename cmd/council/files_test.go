package main

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFiles(t *testing.T, root string, paths ...string) {
	t.Helper()
	for _, p := range paths {
		full := filepath.Join(root, p)
		if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(full, []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
}

func TestResolveFilesExpandsDirectory(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, "a.go", "sub/b.go", "sub/deep/c.go")

	got, err := resolveFiles([]string{root})
	if err != nil {
		t.Fatalf("resolveFiles: %v", err)
	}
	if len(got.paths) != 3 {
		t.Errorf("got %d files, want 3: %v", len(got.paths), got.paths)
	}
}

func TestResolveFilesGlob(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, "a.go", "b.go", "c.txt")

	got, err := resolveFiles([]string{filepath.Join(root, "*.go")})
	if err != nil {
		t.Fatalf("resolveFiles: %v", err)
	}
	if len(got.paths) != 2 {
		t.Errorf("got %d files, want 2: %v", len(got.paths), got.paths)
	}
}

func TestResolveFilesDeduplicatesAndSorts(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, "a.go", "b.go")
	a := filepath.Join(root, "a.go")
	b := filepath.Join(root, "b.go")

	got, err := resolveFiles([]string{b, a, a})
	if err != nil {
		t.Fatalf("resolveFiles: %v", err)
	}
	if len(got.paths) != 2 || got.paths[0] != a || got.paths[1] != b {
		t.Errorf("paths = %v, want sorted [%s %s]", got.paths, a, b)
	}
}

func TestResolveFilesMissingPath(t *testing.T) {
	if _, err := resolveFiles([]string{filepath.Join(t.TempDir(), "nope.go")}); err == nil {
		t.Error("missing path accepted")
	}
}

func TestResolveFilesEmptyGlobIsEmptyResult(t *testing.T) {
	got, err := resolveFiles([]string{filepath.Join(t.TempDir(), "*.go")})
	if err != nil {
		t.Fatalf("resolveFiles: %v", err)
	}
	if len(got.paths) != 0 {
		t.Errorf("expected empty result, got %v", got.paths)
	}
}

func TestResolveFilesSymlinkCycleWarns(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, "dir/a.go")
	cycle := filepath.Join(root, "dir", "loop")
	if err := os.Symlink(filepath.Join(root, "dir"), cycle); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}

	got, err := resolveFiles([]string{root})
	if err != nil {
		t.Fatalf("resolveFiles: %v", err)
	}
	if len(got.paths) != 1 {
		t.Errorf("got %d files, want 1: %v", len(got.paths), got.paths)
	}
	if len(got.warnings) == 0 {
		t.Error("symlink cycle produced no warning")
	}
}
