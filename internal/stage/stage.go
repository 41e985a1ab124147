// Package stage implements the staging-area writer (C5): an in-memory
// mapping from working-tree path to staged-object descriptor, serialized to
// disk in a stable, sorted, checksummed binary layout (spec §4.5).
//
// There is deliberately no reader here — per spec.md §9's open question,
// this implementation keeps the existing "write-only" behavior: each
// `rakke add` invocation starts from an empty map (New), so a second one
// overwrites rather
// than merges with whatever a previous invocation wrote. A real reader
// mirroring Serialize would be a natural follow-up but is out of scope for
// this core.
package stage

import (
	"bytes"
	"encoding/binary"
	"sort"

	"github.com/yellow-footed-honeyguide/rakke/internal/hash"
)

const (
	// ModeRegular is the mode recorded for a non-executable regular file.
	ModeRegular = 0o100644
	// ModeExecutable is the mode recorded when any execute bit is set.
	ModeExecutable = 0o100755
)

// Entry is a single staged file (spec's Staged entry S).
type Entry struct {
	Path  string
	Hash  [hash.Size]byte
	Mode  uint32
	Size  uint32
	Mtime uint32
}

// Map is the in-memory staging map: working-tree path -> staged entry
// (spec I5: paths are unique by construction, since it's a Go map).
type Map map[string]Entry

// New returns an empty staging map.
func New() Map {
	return make(Map)
}

// Put inserts or replaces the entry for e.Path.
func (m Map) Put(e Entry) {
	m[e.Path] = e
}

const (
	magic     = "DIRC"
	formatVer = 2
)

// Serialize writes the map to its documented on-disk layout: a 12-byte
// header, entries in ascending byte-lexicographic path order, and a
// trailing 20-byte SHA-1 over everything preceding it (I3, I4).
func (m Map) Serialize() []byte {
	paths := make([]string, 0, len(m))
	for p := range m {
		paths = append(paths, p)
	}
	sort.Strings(paths) // Go string comparison is byte-lexicographic.

	var buf bytes.Buffer
	buf.WriteString(magic)
	writeU32(&buf, formatVer)
	writeU32(&buf, uint32(len(paths)))

	for _, p := range paths {
		e := m[p]
		writeEntry(&buf, e)
	}

	sum := hash.Sum1(buf.Bytes())
	raw, _ := hash.HexToBytes(sum)
	buf.Write(raw[:])

	return buf.Bytes()
}

func writeEntry(buf *bytes.Buffer, e Entry) {
	writeU32(buf, e.Mtime) // ctime_sec := mtime_sec
	writeU32(buf, 0)       // ctime_nsec
	writeU32(buf, e.Mtime) // mtime_sec
	writeU32(buf, 0)       // mtime_nsec
	writeU32(buf, 0)       // dev
	writeU32(buf, 0)       // ino
	writeU32(buf, e.Mode)
	writeU32(buf, 0) // uid
	writeU32(buf, 0) // gid
	writeU32(buf, e.Size)
	buf.Write(e.Hash[:])

	pathLen := len(e.Path)
	if pathLen > 0xFFF {
		pathLen = 0xFFF
	}
	writeU16(buf, uint16(pathLen))

	buf.WriteString(e.Path)
	buf.WriteByte(0)

	// Pad to the next 8-byte boundary, counted against the entry's absolute
	// offset in the file (spec §4.5: padding is on cumulative length, not
	// the entry's internal offset — the header's 12 bytes mean the first
	// entry starts unaligned).
	for buf.Len()%8 != 0 {
		buf.WriteByte(0)
	}
}

func writeU32(buf *bytes.Buffer, v uint32) {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], v)
	buf.Write(b[:])
}

func writeU16(buf *bytes.Buffer, v uint16) {
	var b [2]byte
	binary.BigEndian.PutUint16(b[:], v)
	buf.Write(b[:])
}
