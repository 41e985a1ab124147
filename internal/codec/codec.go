// Package codec implements the zlib-based compressor (C2): encoding a byte
// sequence into a zlib stream and decoding a zlib stream that begins at
// offset zero of a larger buffer, reporting how many input bytes were
// consumed so callers (the pack reader in particular) can advance a cursor
// without copying the remainder of the buffer.
//
// Both directions are backed by github.com/klauspost/compress/zlib rather
// than the standard library's compress/zlib: it speaks the exact same wire
// format (RFC 1950 zlib framing over RFC 1951 deflate), so object hashes and
// on-disk compatibility are unaffected, but it is measurably faster for the
// repeated small-object encode/decode this store does.
package codec

import (
	"bytes"
	"errors"
	"io"

	"github.com/klauspost/compress/zlib"

	"github.com/yellow-footed-honeyguide/rakke/internal/rakkeerr"
)

// Compress zlib-encodes b at the package's default compression level.
func Compress(b []byte) ([]byte, error) {
	var buf bytes.Buffer
	w := zlib.NewWriter(&buf)
	if _, err := w.Write(b); err != nil {
		return nil, rakkeerr.NewCompressionError(err)
	}
	if err := w.Close(); err != nil {
		return nil, rakkeerr.NewCompressionError(err)
	}
	return buf.Bytes(), nil
}

// DecompressPrefix decodes a zlib stream starting at offset 0 of data. data
// may have trailing bytes belonging to the caller (e.g. the next record in a
// pack file) that must not be consumed. It returns the decoded payload and
// the number of leading bytes of data the zlib stream actually occupied.
//
// An unexpected-EOF that nevertheless produced payload bytes is treated as a
// success, returning whatever was decoded before the stream was cut off —
// this tolerance is what lets the pack reader's skip/recovery path make
// forward progress over truncated or misidentified streams.
func DecompressPrefix(data []byte) ([]byte, int, error) {
	r := bytes.NewReader(data)
	zr, err := zlib.NewReader(r)
	if err != nil {
		return nil, 0, rakkeerr.NewDecompressionError(err)
	}
	defer zr.Close()

	payload, err := io.ReadAll(zr)
	consumed := len(data) - r.Len()
	if err != nil {
		if errors.Is(err, io.ErrUnexpectedEOF) && len(payload) > 0 {
			return payload, consumed, nil
		}
		return payload, consumed, rakkeerr.NewDecompressionError(err)
	}
	return payload, consumed, nil
}
