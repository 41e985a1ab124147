package objectstore

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/yellow-footed-honeyguide/rakke/internal/codec"
)

func TestHashEnvelopeEmptyBlob(t *testing.T) {
	got := HashEnvelope(Blob, nil)
	want := "e69de29bb2d1d6434b8b29ae775ad8c2e48c5391"
	if got != want {
		t.Fatalf("HashEnvelope(blob, \"\") = %q, want %q", got, want)
	}
}

func TestHashEnvelopeHelloBlob(t *testing.T) {
	got := HashEnvelope(Blob, []byte("hello\n"))
	want := "ce013625030ba8dba906f756967f9e9ca394464a"
	if got != want {
		t.Fatalf("HashEnvelope(blob, \"hello\\n\") = %q, want %q", got, want)
	}
}

func TestSplitEnvelopeRoundTrip(t *testing.T) {
	env := Envelope(Tree, []byte("payload"))
	typ, payload, err := SplitEnvelope(env)
	if err != nil {
		t.Fatalf("SplitEnvelope: %v", err)
	}
	if typ != Tree {
		t.Fatalf("type = %q, want tree", typ)
	}
	if string(payload) != "payload" {
		t.Fatalf("payload = %q, want %q", payload, "payload")
	}
}

func TestSplitEnvelopeMissingNul(t *testing.T) {
	if _, _, err := SplitEnvelope([]byte("blob 5 nonul")); err == nil {
		t.Fatal("expected error for envelope missing NUL, got nil")
	}
}

func TestSplitEnvelopeNonNumericSize(t *testing.T) {
	if _, _, err := SplitEnvelope([]byte("blob five\x00hello")); err == nil {
		t.Fatal("expected error for non-numeric size, got nil")
	}
}

func TestParseTypeUnknownFallback(t *testing.T) {
	if got := ParseType("bogus"); got != Unknown {
		t.Fatalf("ParseType(bogus) = %q, want unknown", got)
	}
}

func TestStorePutIsIdempotentAndRoundTrips(t *testing.T) {
	dir := t.TempDir()
	s := New(filepath.Join(dir, ".git"))

	h1, err := s.Put(Blob, []byte("hello\n"))
	if err != nil {
		t.Fatalf("Put: %v", err)
	}
	if h1 != "ce013625030ba8dba906f756967f9e9ca394464a" {
		t.Fatalf("Put hash = %q", h1)
	}

	path := s.pathFor(h1)
	info1, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat object file: %v", err)
	}

	h2, err := s.Put(Blob, []byte("hello\n"))
	if err != nil {
		t.Fatalf("second Put: %v", err)
	}
	if h2 != h1 {
		t.Fatalf("second Put hash = %q, want %q", h2, h1)
	}
	info2, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat object file after second put: %v", err)
	}
	if info1.ModTime() != info2.ModTime() {
		t.Fatal("second Put rewrote the object file; expected a no-op")
	}

	typ, payload, err := s.Load(h1)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if typ != Blob || string(payload) != "hello\n" {
		t.Fatalf("Load = (%q, %q), want (blob, \"hello\\n\")", typ, payload)
	}
}

func TestStoreIterLooseSkipsMalformedEntries(t *testing.T) {
	dir := t.TempDir()
	s := New(filepath.Join(dir, ".git"))

	h, err := s.Put(Tree, []byte("treedata"))
	if err != nil {
		t.Fatalf("Put: %v", err)
	}

	// A too-short name under a valid-looking prefix directory should be
	// skipped, not abort enumeration.
	badDir := filepath.Join(s.objectsDir(), "zz")
	if err := os.MkdirAll(badDir, 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	if err := os.WriteFile(filepath.Join(badDir, "short"), []byte("x"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	loose, err := s.IterLoose()
	if err != nil {
		t.Fatalf("IterLoose: %v", err)
	}
	if len(loose) != 1 || loose[0].Hash != h {
		t.Fatalf("IterLoose = %+v, want single entry for %q", loose, h)
	}
}

func TestParseDecodesCompressedEnvelope(t *testing.T) {
	env := Envelope(Commit, []byte("commit body"))
	compressed, err := codec.Compress(env)
	if err != nil {
		t.Fatalf("Compress: %v", err)
	}
	typ, payload, err := Parse(compressed)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if typ != Commit || string(payload) != "commit body" {
		t.Fatalf("Parse = (%q, %q)", typ, payload)
	}
}
