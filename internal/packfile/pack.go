package packfile

import (
	"encoding/binary"
	"fmt"
	"log"

	"github.com/yellow-footed-honeyguide/rakke/internal/codec"
	"github.com/yellow-footed-honeyguide/rakke/internal/objectstore"
	"github.com/yellow-footed-honeyguide/rakke/internal/rakkeerr"
)

var magicPack = [4]byte{'P', 'A', 'C', 'K'}

// Object is a fully materialized, non-delta object recovered from a pack.
type Object struct {
	Hash    string
	Type    objectstore.Type
	Payload []byte
	// KnownHash records that this object's hash was resolved from the index
	// at its starting offset. It is false exactly when Hash is a placeholder
	// of the form "unknown_<offset>"; kept here explicitly so callers don't
	// need to re-derive it from the string.
	KnownHash bool
}

func typeName(t packType) objectstore.Type {
	switch t {
	case typeCommit:
		return objectstore.Commit
	case typeTree:
		return objectstore.Tree
	case typeBlob:
		return objectstore.Blob
	case typeTag:
		return objectstore.Tag
	default:
		return objectstore.Unknown
	}
}

// ParsePack walks a pack file's concatenated records, materializing every
// base-type object and skipping delta objects (spec §4.4.2-§4.4.4). Header
// errors (bad magic, unsupported version) are fatal; every per-record error
// thereafter is recovered from by advancing the cursor one byte and
// retrying, so the walk always returns whatever it could, never an error.
func ParsePack(data []byte, offsetToHash map[uint32]string) ([]Object, error) {
	if len(data) < 4 || [4]byte(data[:4]) != magicPack {
		got := data
		if len(got) > 4 {
			got = got[:4]
		}
		return nil, &rakkeerr.InvalidPackMagic{Got: got}
	}
	if len(data) < 12 {
		return nil, &rakkeerr.InvalidPackMagic{Got: data}
	}

	version := binary.BigEndian.Uint32(data[4:8])
	if version != 2 && version != 3 {
		return nil, &rakkeerr.UnsupportedPackVersion{Got: version}
	}
	count := binary.BigEndian.Uint32(data[8:12])
	ceiling := uint64(count) * 2

	var objects []Object
	pos := 12
	var processed uint64

	for processed < uint64(count) && pos < len(data) && processed < ceiling {
		startOffset := uint32(pos)
		hexHash, known := offsetToHash[startOffset]
		if !known {
			hexHash = fmt.Sprintf("unknown_%d", startOffset)
		}

		t, size, next, err := readRecordHeader(data, pos)
		if err != nil {
			log.Printf("warning: pack record at offset %d: %v", startOffset, err)
			pos++
			processed++
			continue
		}
		pos = next

		switch t {
		case typeCommit, typeTree, typeBlob, typeTag:
			payload, consumed, err := codec.DecompressPrefix(data[pos:])
			if err != nil {
				log.Printf("warning: pack object body at offset %d: %v", startOffset, err)
				pos++
				processed++
				continue
			}
			pos += consumed

			if uint64(len(payload)) != size {
				log.Printf("warning: pack object at offset %d: decoded %d bytes, header declares %d", startOffset, len(payload), size)
				processed++
				continue
			}

			// Envelope uses the declared size header, not len(payload)
			// (spec §4.4.2: "builds the envelope ... for ingestion via
			// C3's parser").
			envelope := []byte(fmt.Sprintf("%s %d\x00", typeName(t), size))
			envelope = append(envelope, payload...)
			parsedType, parsedPayload, err := objectstore.SplitEnvelope(envelope)
			if err != nil {
				log.Printf("warning: malformed pack object at offset %d: %v", startOffset, err)
				processed++
				continue
			}

			objects = append(objects, Object{Hash: hexHash, Type: parsedType, Payload: parsedPayload, KnownHash: known})

		case typeOfsDelta:
			afterOffset, err := readOfsDeltaOffset(data, pos)
			if err != nil {
				log.Printf("warning: ofs-delta offset at %d: %v", startOffset, err)
				pos++
				processed++
				continue
			}
			next, err := skipZlibPrefix(data, afterOffset)
			if err != nil {
				log.Printf("warning: ofs-delta body at %d: %v", startOffset, err)
				pos++
				processed++
				continue
			}
			pos = next

		case typeRefDelta:
			if pos+20 > len(data) {
				log.Printf("warning: ref-delta base hash at %d: truncated", startOffset)
				pos++
				processed++
				continue
			}
			next, err := skipZlibPrefix(data, pos+20)
			if err != nil {
				log.Printf("warning: ref-delta body at %d: %v", startOffset, err)
				pos++
				processed++
				continue
			}
			pos = next
		}

		processed++
	}

	return objects, nil
}
