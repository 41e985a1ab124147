// Package hash implements the content-addressing primitive (C1): SHA-1 over
// arbitrary byte sequences, and hex <-> raw conversion for the resulting
// 20-byte digest. Git object identity is always the SHA-1 of the typed
// envelope, never of the compressed form, so this package has no knowledge
// of compression or envelopes at all.
package hash

import (
	"crypto/sha1" //nolint:gosec // object identity format, not a security boundary
	"encoding/hex"

	"github.com/yellow-footed-honeyguide/rakke/internal/rakkeerr"
)

// Size is the length in bytes of a raw SHA-1 digest.
const Size = 20

// HexSize is the length of the lowercase hex encoding of a digest.
const HexSize = Size * 2

// Sum1 returns the 40-character lowercase hex SHA-1 of b.
func Sum1(b []byte) string {
	sum := sha1.Sum(b)
	return hex.EncodeToString(sum[:])
}

// BytesToHex lowercase-hex-encodes a raw 20-byte digest.
func BytesToHex(raw [Size]byte) string {
	return hex.EncodeToString(raw[:])
}

// HexToBytes decodes a 40-character lowercase hex string into a raw 20-byte
// digest. It fails with MalformedHex if h is not even-length lowercase hex,
// or does not decode to exactly 20 bytes.
func HexToBytes(h string) ([Size]byte, error) {
	var out [Size]byte
	if len(h) != HexSize {
		return out, rakkeerr.NewMalformedHex(h)
	}
	for _, c := range h {
		if !isLowerHexDigit(c) {
			return out, rakkeerr.NewMalformedHex(h)
		}
	}
	decoded, err := hex.DecodeString(h)
	if err != nil || len(decoded) != Size {
		return out, rakkeerr.NewMalformedHex(h)
	}
	copy(out[:], decoded)
	return out, nil
}

func isLowerHexDigit(c rune) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f')
}
