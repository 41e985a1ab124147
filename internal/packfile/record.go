package packfile

import (
	"errors"

	"github.com/yellow-footed-honeyguide/rakke/internal/codec"
	"github.com/yellow-footed-honeyguide/rakke/internal/rakkeerr"
)

// packType is the 3-bit type nibble from a record's first header byte.
type packType byte

const (
	typeCommit   packType = 1
	typeTree     packType = 2
	typeBlob     packType = 3
	typeTag      packType = 4
	typeOfsDelta packType = 6
	typeRefDelta packType = 7
)

const maxObjectSize = 100 * 1024 * 1024 // spec §4.4.2 allocation ceiling
const maxSizeContinuationBytes = 9      // 1 leading + 9 continuation = 10 bytes max

var errEOF = errors.New("unexpected end of pack data")

// readRecordHeader decodes a record's variable-length type+size header
// starting at data[pos]. It returns the new cursor position alongside the
// type and declared size.
func readRecordHeader(data []byte, pos int) (packType, uint64, int, error) {
	if pos >= len(data) {
		return 0, 0, pos, errEOF
	}
	b := data[pos]
	pos++

	t := packType((b >> 4) & 0x7)
	switch t {
	case typeCommit, typeTree, typeBlob, typeTag, typeOfsDelta, typeRefDelta:
	default:
		return 0, 0, pos, &rakkeerr.UnknownPackType{Got: byte(t)}
	}

	size := uint64(b & 0x0F)
	shift := uint(4)
	more := b&0x80 != 0

	continuationBytes := 0
	for more {
		if continuationBytes >= maxSizeContinuationBytes {
			return 0, 0, pos, errors.New("pack object size header too long")
		}
		if pos >= len(data) {
			return 0, 0, pos, errEOF
		}
		c := data[pos]
		pos++
		size |= uint64(c&0x7F) << shift
		shift += 7
		more = c&0x80 != 0
		continuationBytes++
	}

	if size > maxObjectSize {
		return 0, 0, pos, &rakkeerr.PackRecordTooLarge{Size: size}
	}

	return t, size, pos, nil
}

// readOfsDeltaOffset decodes an OFS_DELTA base offset: little-endian 7-bit
// groups with the +1 inter-byte accumulation rule. The returned offset value
// itself is unused by this reader (deltas are skipped, not resolved) but
// must still be consumed correctly to find the end of the header.
func readOfsDeltaOffset(data []byte, pos int) (int, error) {
	if pos >= len(data) {
		return pos, errEOF
	}
	b := data[pos]
	pos++
	offset := uint64(b & 0x7F)
	for b&0x80 != 0 {
		if pos >= len(data) {
			return pos, errEOF
		}
		b = data[pos]
		pos++
		offset = ((offset + 1) << 7) | uint64(b&0x7F)
	}
	return pos, nil
}

const (
	zlibSkipStart = 1024
	zlibSkipMax   = 1024 * 1024
)

// skipZlibPrefix implements the §4.4.3 zlib-skip heuristic: probe growing
// prefixes of data[pos:] for a successfully decompressing zlib stream,
// doubling the probe size from 1 KiB up to 1 MiB. On first success it
// advances past exactly the bytes the decoder consumed. If nothing
// decompresses within the cap, it advances by a single byte and reports
// success anyway — forward progress is guaranteed either way. The only hard
// failure is an invalid zlib header at pos, which is not guessed past.
func skipZlibPrefix(data []byte, pos int) (int, error) {
	if pos+2 > len(data) {
		return pos, errEOF
	}
	b0, b1 := data[pos], data[pos+1]
	if (b0&0x0F) != 0x08 || (b0&0xF0) > 0x70 || (int(b0)*256+int(b1))%31 != 0 {
		return pos, &rakkeerr.InvalidZlibHeader{B0: b0, B1: b1}
	}

	for m := zlibSkipStart; m <= zlibSkipMax; m *= 2 {
		end := pos + m
		if end > len(data) {
			end = len(data)
		}
		if _, consumed, err := codec.DecompressPrefix(data[pos:end]); err == nil {
			return pos + consumed, nil
		}
		if end == len(data) {
			break
		}
	}
	return pos + 1, nil
}
