package codec

import (
	"bytes"
	"testing"
)

func TestCompressDecompressRoundTrip(t *testing.T) {
	original := []byte("blob 6\x00hello\n")

	compressed, err := Compress(original)
	if err != nil {
		t.Fatalf("Compress: %v", err)
	}

	decoded, consumed, err := DecompressPrefix(compressed)
	if err != nil {
		t.Fatalf("DecompressPrefix: %v", err)
	}
	if !bytes.Equal(decoded, original) {
		t.Fatalf("decoded = %q, want %q", decoded, original)
	}
	if consumed != len(compressed) {
		t.Fatalf("consumed = %d, want %d", consumed, len(compressed))
	}
}

func TestDecompressPrefixIgnoresTrailingBytes(t *testing.T) {
	original := []byte("tree 0\x00")
	compressed, err := Compress(original)
	if err != nil {
		t.Fatalf("Compress: %v", err)
	}

	withTrailer := append(append([]byte{}, compressed...), []byte("next-record-bytes")...)

	decoded, consumed, err := DecompressPrefix(withTrailer)
	if err != nil {
		t.Fatalf("DecompressPrefix: %v", err)
	}
	if !bytes.Equal(decoded, original) {
		t.Fatalf("decoded = %q, want %q", decoded, original)
	}
	if consumed != len(compressed) {
		t.Fatalf("consumed = %d, want %d (should not include trailing bytes)", consumed, len(compressed))
	}
}

func TestDecompressPrefixRejectsGarbage(t *testing.T) {
	if _, _, err := DecompressPrefix([]byte{0x00, 0x01, 0x02}); err == nil {
		t.Fatal("expected error decoding non-zlib data, got nil")
	}
}
