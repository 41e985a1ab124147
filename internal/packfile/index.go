// Package packfile implements the pack reader (C4): it decodes the
// companion (.pack, .idx) pair — index v1/v2 and pack v2/v3 — recognizing
// but not resolving delta-encoded objects, and recovering from per-record
// corruption by advancing one byte at a time rather than aborting the whole
// walk.
package packfile

import (
	"encoding/binary"
	"fmt"
	"log"
)

var magicV2 = [4]byte{0xFF, 0x74, 0x4F, 0x63}

const fanoutEntries = 256

// ParseIndex decodes an index file's offset table into offset -> hex hash.
// Parsing is best-effort per spec §4.4.1: any read failure logs a warning
// and the reader returns whatever offsets it had already collected — an
// empty map is not treated as fatal by callers, since the pack can still be
// walked sequentially with synthetic "unknown_<offset>" hashes.
func ParseIndex(data []byte) map[uint32]string {
	cur := &cursor{data: data}

	isV2 := len(data) >= 4 && [4]byte(data[:4]) == magicV2
	if isV2 {
		cur.pos = 4
		version, ok := cur.readU32BE()
		if !ok {
			log.Printf("warning: pack index: cannot read version")
			return nil
		}
		if version != 2 {
			log.Printf("warning: pack index: unsupported version %d", version)
			return nil
		}
	}

	fanout, ok := readFanout(cur)
	if !ok {
		log.Printf("warning: pack index: cannot read fanout table")
		return nil
	}
	n := fanout[fanoutEntries-1]

	out := make(map[uint32]string, n)

	if isV2 {
		// N x 20-byte hashes, then N x 4-byte CRC32 (ignored), then N x
		// 4-byte big-endian offsets — three parallel arrays, same index i.
		hashes := make([]string, 0, n)
		for i := uint32(0); i < n; i++ {
			h, ok := cur.readBytes(20)
			if !ok {
				log.Printf("warning: pack index: cannot read hash %d of %d", i, n)
				break
			}
			hashes = append(hashes, fmt.Sprintf("%x", h))
		}
		if !cur.skip(len(hashes) * 4) {
			log.Printf("warning: pack index: cannot skip CRC table")
		}
		for _, h := range hashes {
			off, ok := cur.readU32BE()
			if !ok {
				log.Printf("warning: pack index: cannot read offset for %s", h)
				break
			}
			out[off] = h
		}
		return out
	}

	// Version 1: the fanout table is immediately followed by N records of
	// (4-byte offset, 20-byte hash).
	for i := uint32(0); i < n; i++ {
		off, ok := cur.readU32BE()
		if !ok {
			log.Printf("warning: pack index v1: cannot read offset %d of %d", i, n)
			break
		}
		h, ok := cur.readBytes(20)
		if !ok {
			log.Printf("warning: pack index v1: cannot read hash %d of %d", i, n)
			break
		}
		out[off] = fmt.Sprintf("%x", h)
	}
	return out
}

// readFanout reads the 256-entry big-endian fanout table. For v1 indexes it
// must be read via the same cursor that is about to read (offset, hash)
// records, so the caller is responsible for not having consumed anything
// from cur yet (v1) or having consumed exactly the 8-byte header (v2).
func readFanout(cur *cursor) ([fanoutEntries]uint32, bool) {
	var fanout [fanoutEntries]uint32
	for i := 0; i < fanoutEntries; i++ {
		v, ok := cur.readU32BE()
		if !ok {
			return fanout, false
		}
		fanout[i] = v
	}
	return fanout, true
}

// cursor is a forward-only byte reader over a fixed buffer that reports
// success/failure instead of panicking or erroring, matching the "emit a
// diagnostic and continue" parsing policy for index files.
type cursor struct {
	data []byte
	pos  int
}

func (c *cursor) readU32BE() (uint32, bool) {
	b, ok := c.readBytes(4)
	if !ok {
		return 0, false
	}
	return binary.BigEndian.Uint32(b), true
}

func (c *cursor) readBytes(n int) ([]byte, bool) {
	if c.pos+n > len(c.data) || n < 0 {
		return nil, false
	}
	b := c.data[c.pos : c.pos+n]
	c.pos += n
	return b, true
}

func (c *cursor) skip(n int) bool {
	if c.pos+n > len(c.data) || n < 0 {
		c.pos = len(c.data)
		return false
	}
	c.pos += n
	return true
}
