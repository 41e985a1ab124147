// Package objectstore implements the content-addressed object store (C3):
// given a (type, payload), it formats the envelope, hashes it, and writes
// the compressed envelope at its canonical fan-out path; it also enumerates
// and loads every loose object already on disk.
package objectstore

import (
	"log"
	"os"
	"path/filepath"

	"github.com/yellow-footed-honeyguide/rakke/internal/codec"
	"github.com/yellow-footed-honeyguide/rakke/internal/rakkeerr"
)

// Store is a loose-object store rooted at a repository metadata directory
// (e.g. ".git"). Objects live under Root/objects/<h[0:2]>/<h[2:]>.
type Store struct {
	Root string
}

// New returns a Store rooted at metaDir (the ".git"-equivalent directory).
func New(metaDir string) *Store {
	return &Store{Root: metaDir}
}

func (s *Store) objectsDir() string {
	return filepath.Join(s.Root, "objects")
}

func (s *Store) pathFor(hexHash string) string {
	return filepath.Join(s.objectsDir(), hexHash[:2], hexHash[2:])
}

// Put writes (type, payload) to the store and returns its hex hash. Writing
// is idempotent (spec I6): if the canonical path already exists, Put returns
// the hash without rewriting. The write itself is temp-file-then-rename so a
// concurrent writer targeting the same path can never observe a partial
// file.
func (s *Store) Put(t Type, payload []byte) (string, error) {
	envelope := Envelope(t, payload)
	hexHash := HashEnvelope(t, payload)
	path := s.pathFor(hexHash)

	if _, err := os.Stat(path); err == nil {
		return hexHash, nil
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", rakkeerr.NewIoError(dir, err)
	}

	compressed, err := codec.Compress(envelope)
	if err != nil {
		return "", err
	}

	f, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return "", rakkeerr.NewIoError(dir, err)
	}
	tmp := f.Name()
	if err := f.Chmod(0o644); err != nil {
		f.Close()
		os.Remove(tmp)
		return "", rakkeerr.NewIoError(tmp, err)
	}
	_, writeErr := f.Write(compressed)
	closeErr := f.Close()
	if writeErr != nil {
		os.Remove(tmp)
		return "", rakkeerr.NewIoError(tmp, writeErr)
	}
	if closeErr != nil {
		os.Remove(tmp)
		return "", rakkeerr.NewIoError(tmp, closeErr)
	}

	if err := os.Rename(tmp, path); err != nil {
		// Another writer may have raced us to the same canonical path with
		// identical bytes (spec §4.3); treat that as success.
		if _, statErr := os.Stat(path); statErr == nil {
			os.Remove(tmp)
			return hexHash, nil
		}
		os.Remove(tmp)
		return "", rakkeerr.NewIoError(path, err)
	}

	return hexHash, nil
}

// LooseObject is a loose object discovered during enumeration: its hex hash
// and the raw (still zlib-compressed) bytes on disk.
type LooseObject struct {
	Hash string
	Raw  []byte
}

// IterLoose scans objects/ for loose object files, skipping the "info" and
// "pack" directories. Entries that fail to read, or whose combined prefix and
// file name is not exactly the canonical 40-character hash length, are
// skipped with a logged warning;
// enumeration continues (spec §4.3).
func (s *Store) IterLoose() ([]LooseObject, error) {
	dirEntries, err := os.ReadDir(s.objectsDir())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, rakkeerr.NewIoError(s.objectsDir(), err)
	}

	var out []LooseObject
	for _, prefixEntry := range dirEntries {
		name := prefixEntry.Name()
		if !prefixEntry.IsDir() || len(name) != 2 || name == "info" || name == "pack" {
			continue
		}

		prefixDir := filepath.Join(s.objectsDir(), name)
		fileEntries, err := os.ReadDir(prefixDir)
		if err != nil {
			log.Printf("warning: cannot read object prefix directory %s: %v", prefixDir, err)
			continue
		}

		for _, fe := range fileEntries {
			fullHash := name + fe.Name()
			if len(fullHash) != 40 {
				log.Printf("warning: skipping malformed loose object name %q", fullHash)
				continue
			}
			path := filepath.Join(prefixDir, fe.Name())
			raw, err := os.ReadFile(path)
			if err != nil {
				log.Printf("warning: cannot read loose object %s: %v", path, err)
				continue
			}
			out = append(out, LooseObject{Hash: fullHash, Raw: raw})
		}
	}
	return out, nil
}

// Parse decompresses a loose object's raw bytes and splits its envelope into
// (type, payload). The payload length is not validated against the decoded
// size header here (spec §4.3) — that mirrors existing behavior for loose
// objects; the pack reader enforces sizes on its own path.
func Parse(raw []byte) (Type, []byte, error) {
	decompressed, _, err := codec.DecompressPrefix(raw)
	if err != nil {
		return Unknown, nil, err
	}
	return SplitEnvelope(decompressed)
}

// Load reads a loose object file by hex hash directly from disk, for
// callers that already know the hash (as opposed to enumerating).
func (s *Store) Load(hexHash string) (Type, []byte, error) {
	path := s.pathFor(hexHash)
	raw, err := os.ReadFile(path)
	if err != nil {
		return Unknown, nil, rakkeerr.NewIoError(path, err)
	}
	return Parse(raw)
}
