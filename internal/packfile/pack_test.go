package packfile

import (
	"encoding/binary"
	"testing"

	"github.com/yellow-footed-honeyguide/rakke/internal/codec"
	"github.com/yellow-footed-honeyguide/rakke/internal/objectstore"
)

func packHeader(count uint32) []byte {
	out := make([]byte, 12)
	copy(out[0:4], magicPack[:])
	binary.BigEndian.PutUint32(out[4:8], 2)
	binary.BigEndian.PutUint32(out[8:12], count)
	return out
}

func blobRecord(t *testing.T, payload []byte) []byte {
	t.Helper()
	rec := encodeHeader(typeBlob, uint64(len(payload)))
	compressed, err := codec.Compress(payload)
	if err != nil {
		t.Fatalf("Compress: %v", err)
	}
	return append(rec, compressed...)
}

func TestParsePackSingleBlob(t *testing.T) {
	payload := []byte("hello\n")
	data := append(packHeader(1), blobRecord(t, payload)...)

	objs, err := ParsePack(data, nil)
	if err != nil {
		t.Fatalf("ParsePack: %v", err)
	}
	if len(objs) != 1 {
		t.Fatalf("got %d objects, want 1", len(objs))
	}
	if objs[0].Type != objectstore.Blob || string(objs[0].Payload) != "hello\n" {
		t.Fatalf("object = %+v", objs[0])
	}
}

func TestParsePackUsesIndexHash(t *testing.T) {
	payload := []byte("tree-ish")
	rec := encodeHeader(typeTree, uint64(len(payload)))
	compressed, err := codec.Compress(payload)
	if err != nil {
		t.Fatalf("Compress: %v", err)
	}
	body := append(rec, compressed...)
	data := append(packHeader(1), body...)

	offsetToHash := map[uint32]string{12: "deadbeef00000000000000000000000000000000"}
	objs, err := ParsePack(data, offsetToHash)
	if err != nil {
		t.Fatalf("ParsePack: %v", err)
	}
	if len(objs) != 1 || !objs[0].KnownHash || objs[0].Hash != offsetToHash[12] {
		t.Fatalf("object = %+v", objs[0])
	}
}

func TestParsePackRecoversFromCorruptRecord(t *testing.T) {
	good1 := blobRecord(t, []byte("first\n"))
	good2 := blobRecord(t, []byte("second\n"))

	corrupt := []byte{0x3F, 0xFF, 0xFF, 0xFF} // blob type, size 15, body that is not a zlib stream

	data := packHeader(3)
	data = append(data, good1...)
	data = append(data, corrupt...)
	data = append(data, good2...)

	objs, err := ParsePack(data, nil)
	if err != nil {
		t.Fatalf("ParsePack: %v", err)
	}
	// The corrupt record should not abort the walk; at least the first
	// well-formed blob must still be recovered.
	if len(objs) == 0 {
		t.Fatal("expected at least one recovered object, got none")
	}
	foundFirst := false
	for _, o := range objs {
		if string(o.Payload) == "first\n" {
			foundFirst = true
		}
	}
	if !foundFirst {
		t.Fatalf("did not recover the leading well-formed object: %+v", objs)
	}
}

func TestParsePackRejectsBadMagic(t *testing.T) {
	data := append([]byte("XXXX"), make([]byte, 8)...)
	if _, err := ParsePack(data, nil); err == nil {
		t.Fatal("expected error for bad magic, got nil")
	}
}

func TestParsePackRejectsUnsupportedVersion(t *testing.T) {
	data := packHeader(0)
	binary.BigEndian.PutUint32(data[4:8], 9)
	if _, err := ParsePack(data, nil); err == nil {
		t.Fatal("expected error for unsupported version, got nil")
	}
}

func TestParsePackSkipsOfsDelta(t *testing.T) {
	deltaHeader := encodeHeader(typeOfsDelta, 4)
	offsetByte := []byte{0x05}
	body, err := codec.Compress([]byte("delta body"))
	if err != nil {
		t.Fatalf("Compress: %v", err)
	}
	rec := append(append(deltaHeader, offsetByte...), body...)

	data := append(packHeader(1), rec...)

	objs, err := ParsePack(data, nil)
	if err != nil {
		t.Fatalf("ParsePack: %v", err)
	}
	if len(objs) != 0 {
		t.Fatalf("expected ofs-delta to be skipped with no object, got %+v", objs)
	}
}
