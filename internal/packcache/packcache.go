// Package packcache caches a pack's parsed offset->hash index (spec
// §4.4.1's ParseIndex output) keyed by a blake3 fingerprint of the raw
// index bytes, so repeated EnumerateDir calls over an unchanged pack
// directory skip re-parsing every .idx file.
//
// The cache is purely an accelerator: a miss, a corrupt cache file, or any
// bbolt error falls back to re-parsing from the .idx bytes directly. Nothing
// here ever substitutes for the SHA-1 object identity computed by
// internal/hash — blake3 is used only as a fast content fingerprint.
package packcache

import (
	"encoding/binary"
	"encoding/hex"

	"go.etcd.io/bbolt"
	"lukechampine.com/blake3"
)

var bucketIndex = []byte("packindex")

// Cache is a handle to the bbolt database backing the pack-index cache.
type Cache struct {
	db *bbolt.DB
}

// Open opens (creating if absent) the cache database at path.
func Open(path string) (*Cache, error) {
	db, err := bbolt.Open(path, 0o666, nil)
	if err != nil {
		return nil, err
	}
	if err := db.Update(func(tx *bbolt.Tx) error {
		_, e := tx.CreateBucketIfNotExists(bucketIndex)
		return e
	}); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Cache{db: db}, nil
}

// Close closes the underlying database.
func (c *Cache) Close() error {
	return c.db.Close()
}

// Fingerprint returns the cache key for a given .idx file's raw bytes.
func Fingerprint(idxData []byte) string {
	sum := blake3.Sum256(idxData)
	return hex.EncodeToString(sum[:])
}

// Lookup returns the cached offset->hash map for fingerprint, or ok=false on
// a miss or any decode error.
func (c *Cache) Lookup(fingerprint string) (m map[uint32]string, ok bool) {
	_ = c.db.View(func(tx *bbolt.Tx) error {
		raw := tx.Bucket(bucketIndex).Get([]byte(fingerprint))
		if raw == nil {
			return nil
		}
		decoded, derr := decode(raw)
		if derr != nil {
			return nil
		}
		m, ok = decoded, true
		return nil
	})
	return m, ok
}

// Store saves the offset->hash map under fingerprint, overwriting any
// previous entry.
func (c *Cache) Store(fingerprint string, m map[uint32]string) error {
	return c.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketIndex).Put([]byte(fingerprint), encode(m))
	})
}

// encode serializes the map as a flat sequence of (4-byte big-endian
// offset, 20-byte hash) records. Entries whose hash isn't valid 40-char hex
// are skipped — ParseIndex never produces those, but the format doesn't
// need to represent them.
func encode(m map[uint32]string) []byte {
	buf := make([]byte, 0, len(m)*24)
	for off, h := range m {
		raw, err := hex.DecodeString(h)
		if err != nil || len(raw) != 20 {
			continue
		}
		var offBytes [4]byte
		binary.BigEndian.PutUint32(offBytes[:], off)
		buf = append(buf, offBytes[:]...)
		buf = append(buf, raw...)
	}
	return buf
}

func decode(raw []byte) (map[uint32]string, error) {
	const recordLen = 24
	if len(raw)%recordLen != 0 {
		return nil, errMalformedCache
	}
	m := make(map[uint32]string, len(raw)/recordLen)
	for pos := 0; pos < len(raw); pos += recordLen {
		off := binary.BigEndian.Uint32(raw[pos : pos+4])
		m[off] = hex.EncodeToString(raw[pos+4 : pos+recordLen])
	}
	return m, nil
}

var errMalformedCache = malformedCacheError{}

type malformedCacheError struct{}

func (malformedCacheError) Error() string { return "packcache: malformed cache record" }
