package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaultsWhenNoFilesExist(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Core.Verbose {
		t.Fatal("expected default Verbose = false")
	}
}

func TestRepoConfigOverridesGlobal(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	global := DefaultConfig()
	global.Core.Verbose = true
	global.User.Name = "Global User"
	if err := SaveGlobal(global); err != nil {
		t.Fatalf("SaveGlobal: %v", err)
	}

	metaDir := t.TempDir()
	repo := DefaultConfig()
	repo.User.Name = "Repo User"
	if err := SaveRepo(metaDir, repo); err != nil {
		t.Fatalf("SaveRepo: %v", err)
	}

	cfg, err := Load(metaDir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.User.Name != "Repo User" {
		t.Fatalf("User.Name = %q, want %q (repo should override global)", cfg.User.Name, "Repo User")
	}
}

func TestSaveRepoWritesUnderMetaDir(t *testing.T) {
	metaDir := t.TempDir()
	cfg := DefaultConfig()
	cfg.Core.PackCacheDir = "/tmp/cache"

	if err := SaveRepo(metaDir, cfg); err != nil {
		t.Fatalf("SaveRepo: %v", err)
	}
	if _, err := os.Stat(filepath.Join(metaDir, "rakke.json")); err != nil {
		t.Fatalf("expected rakke.json under metaDir: %v", err)
	}
}
