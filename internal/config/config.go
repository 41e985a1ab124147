// Package config layers operator-facing preferences: a global
// "~/.rakkeconfig" JSON file overridden by a repository-local
// ".git/rakke.json". It never touches the Git-compatible on-disk files
// (HEAD, config, description) that internal/layout writes with fixed,
// spec-mandated contents — those are repository format, not operator
// preference.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Config holds operator preferences that influence how rakke commands
// behave, never what they write to the object store or staging area.
type Config struct {
	User UserConfig `json:"user"`
	Core CoreConfig `json:"core"`
}

// UserConfig is author identity, carried for parity with the teacher's
// config surface; no current command consumes it.
type UserConfig struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// CoreConfig holds the preferences commands actually read.
type CoreConfig struct {
	// Verbose sets the default for commands with a --verbose flag, such as
	// count-objects, when the flag isn't passed explicitly.
	Verbose bool `json:"verbose"`
	// PackCacheDir overrides the default location of the pack-index cache
	// bbolt database (see internal/packcache). Empty means use the default
	// under the repository's metadata directory.
	PackCacheDir string `json:"pack_cache_dir,omitempty"`
}

// DefaultConfig returns the preferences used when neither config file
// exists or sets a given field.
func DefaultConfig() *Config {
	return &Config{
		Core: CoreConfig{
			Verbose: false,
		},
	}
}

func globalConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".rakkeconfig"), nil
}

// repoConfigPath returns the repository-local override path given the
// repository's metadata directory (the ".git"-equivalent directory
// returned by layout.Init / resolved by locating an existing one).
func repoConfigPath(metaDir string) string {
	return filepath.Join(metaDir, "rakke.json")
}

// Load reads global then repository config, merging repo values over
// global ones field by field. metaDir may be empty when no repository is
// open yet, in which case only the global file is consulted.
func Load(metaDir string) (*Config, error) {
	cfg := DefaultConfig()

	if globalPath, err := globalConfigPath(); err == nil {
		if data, err := os.ReadFile(globalPath); err == nil {
			var globalCfg Config
			if err := json.Unmarshal(data, &globalCfg); err == nil {
				merge(cfg, &globalCfg)
			}
		}
	}

	if metaDir != "" {
		if data, err := os.ReadFile(repoConfigPath(metaDir)); err == nil {
			var repoCfg Config
			if err := json.Unmarshal(data, &repoCfg); err == nil {
				merge(cfg, &repoCfg)
			}
		}
	}

	return cfg, nil
}

// SaveGlobal writes cfg to the global config file.
func SaveGlobal(cfg *Config) error {
	path, err := globalConfigPath()
	if err != nil {
		return err
	}
	return writeJSON(path, cfg)
}

// SaveRepo writes cfg to the repository-local override file.
func SaveRepo(metaDir string, cfg *Config) error {
	return writeJSON(repoConfigPath(metaDir), cfg)
}

func writeJSON(path string, cfg *Config) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// merge overlays non-zero fields of src onto dst.
func merge(dst, src *Config) {
	if src.User.Name != "" {
		dst.User.Name = src.User.Name
	}
	if src.User.Email != "" {
		dst.User.Email = src.User.Email
	}
	if src.Core.Verbose {
		dst.Core.Verbose = true
	}
	if src.Core.PackCacheDir != "" {
		dst.Core.PackCacheDir = src.Core.PackCacheDir
	}
}
