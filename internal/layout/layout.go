// Package layout creates the on-disk repository skeleton for the init
// gesture (spec §6): the ".git"-equivalent directory tree, HEAD, config,
// and description files.
//
// Unlike the original Rust source this was distilled from, Init never
// changes the process's working directory — it computes every path it needs
// up front and operates on absolute paths throughout. The observable output
// (file contents, returned path, reinitialization error) is identical; see
// DESIGN.md for why the chdir side effect was dropped.
package layout

import (
	"os"
	"path/filepath"

	"github.com/yellow-footed-honeyguide/rakke/internal/rakkeerr"
)

const (
	headContent = "ref: refs/heads/master\n"
	descContent = "Unnamed repository; edit this file 'description' to name the repository.\n"
)

func configContent(bare bool) string {
	b := "false"
	if bare {
		b = "true"
	}
	return "[core]\n\trepositoryformatversion = 0\n\tfilemode = true\n\tbare = " + b + "\n"
}

// Result describes a completed (or about-to-fail) initialization.
type Result struct {
	// TargetAbs is the absolute path of the directory the repository lives
	// in (the working tree root for a non-bare repo, or the repository
	// itself for a bare one).
	TargetAbs string
	// MetaDir is the absolute path of the metadata root (".git" for
	// non-bare, equal to TargetAbs for bare).
	MetaDir string
	Bare    bool
}

// Init creates a fresh repository skeleton under dir (default "." meaning
// the current directory). Reinitialization — HEAD already present — is a
// fatal error reporting "Reinitialization of existing Git repository".
func Init(dir string, bare bool) (*Result, error) {
	if dir == "" {
		dir = "."
	}

	targetAbs, err := filepath.Abs(dir)
	if err != nil {
		return nil, rakkeerr.NewIoError(dir, err)
	}

	if dir != "." {
		if _, err := os.Stat(targetAbs); os.IsNotExist(err) {
			if err := os.MkdirAll(targetAbs, 0o755); err != nil {
				return nil, rakkeerr.NewIoError(targetAbs, err)
			}
		}
	}

	metaDir := targetAbs
	if !bare {
		metaDir = filepath.Join(targetAbs, ".git")
	}

	headPath := filepath.Join(metaDir, "HEAD")
	if _, err := os.Stat(headPath); err == nil {
		return nil, &reinitError{path: targetAbs}
	}

	if !bare {
		if err := os.MkdirAll(metaDir, 0o755); err != nil {
			return nil, rakkeerr.NewIoError(metaDir, err)
		}
	}

	for _, sub := range []string{"objects", "refs", "refs/heads", "refs/tags"} {
		p := filepath.Join(metaDir, sub)
		if err := os.MkdirAll(p, 0o755); err != nil {
			return nil, rakkeerr.NewIoError(p, err)
		}
	}

	if err := writeFile(filepath.Join(metaDir, "HEAD"), headContent); err != nil {
		return nil, err
	}
	if err := writeFile(filepath.Join(metaDir, "config"), configContent(bare)); err != nil {
		return nil, err
	}
	if err := writeFile(filepath.Join(metaDir, "description"), descContent); err != nil {
		return nil, err
	}

	return &Result{TargetAbs: targetAbs, MetaDir: metaDir, Bare: bare}, nil
}

func writeFile(path, content string) error {
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return rakkeerr.NewIoError(path, err)
	}
	return nil
}

type reinitError struct {
	path string
}

func (e *reinitError) Error() string {
	return "Reinitialization of existing Git repository in " + e.path + "/"
}
