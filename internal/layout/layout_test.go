package layout

import (
	"os"
	"path/filepath"
	"testing"
)

func TestInitNonBareCreatesExpectedSkeleton(t *testing.T) {
	dir := t.TempDir()

	result, err := Init(dir, false)
	if err != nil {
		t.Fatalf("Init: %v", err)
	}
	if result.Bare {
		t.Fatal("result.Bare = true, want false")
	}

	gitDir := filepath.Join(dir, ".git")
	if result.MetaDir != gitDir {
		t.Fatalf("MetaDir = %q, want %q", result.MetaDir, gitDir)
	}

	for _, sub := range []string{"objects", "refs/heads", "refs/tags"} {
		if info, err := os.Stat(filepath.Join(gitDir, sub)); err != nil || !info.IsDir() {
			t.Fatalf("expected directory %s to exist: %v", sub, err)
		}
	}

	head, err := os.ReadFile(filepath.Join(gitDir, "HEAD"))
	if err != nil {
		t.Fatalf("read HEAD: %v", err)
	}
	if string(head) != "ref: refs/heads/master\n" {
		t.Fatalf("HEAD = %q", head)
	}

	cfg, err := os.ReadFile(filepath.Join(gitDir, "config"))
	if err != nil {
		t.Fatalf("read config: %v", err)
	}
	want := "[core]\n\trepositoryformatversion = 0\n\tfilemode = true\n\tbare = false\n"
	if string(cfg) != want {
		t.Fatalf("config = %q, want %q", cfg, want)
	}
}

func TestInitBarePlacesFilesDirectlyInDir(t *testing.T) {
	dir := t.TempDir()

	result, err := Init(dir, true)
	if err != nil {
		t.Fatalf("Init: %v", err)
	}
	if result.MetaDir != result.TargetAbs {
		t.Fatalf("bare MetaDir = %q, want equal to TargetAbs %q", result.MetaDir, result.TargetAbs)
	}

	if _, err := os.Stat(filepath.Join(dir, "HEAD")); err != nil {
		t.Fatalf("expected HEAD directly under %s: %v", dir, err)
	}
	if _, err := os.Stat(filepath.Join(dir, ".git")); err == nil {
		t.Fatal("bare init should not create a .git subdirectory")
	}
}

func TestInitReinitializationFails(t *testing.T) {
	dir := t.TempDir()

	if _, err := Init(dir, false); err != nil {
		t.Fatalf("first Init: %v", err)
	}
	if _, err := Init(dir, false); err == nil {
		t.Fatal("expected reinitialization to fail, got nil error")
	}
}
