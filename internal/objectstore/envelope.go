package objectstore

import (
	"fmt"
	"strconv"

	"github.com/yellow-footed-honeyguide/rakke/internal/hash"
	"github.com/yellow-footed-honeyguide/rakke/internal/rakkeerr"
)

// Envelope formats the typed, size-prefixed, NUL-separated byte string that
// is hashed to produce an object's identity: "<type> <size>\0<payload>".
func Envelope(t Type, payload []byte) []byte {
	header := fmt.Sprintf("%s %d\x00", t, len(payload))
	out := make([]byte, 0, len(header)+len(payload))
	out = append(out, header...)
	out = append(out, payload...)
	return out
}

// HashEnvelope returns the hex SHA-1 of the envelope for (t, payload) — the
// object's canonical hash.
func HashEnvelope(t Type, payload []byte) string {
	return hash.Sum1(Envelope(t, payload))
}

// SplitEnvelope decomposes a fully decompressed envelope into its type and
// payload. A missing NUL or a non-numeric size is a MalformedObject error.
// The returned payload's length is NOT checked against the decoded size
// header here — loose-object callers mirror existing behavior and skip that
// check (spec §4.3); pack callers enforce it themselves via the size they
// already declared before decompression.
func SplitEnvelope(raw []byte) (Type, []byte, error) {
	nul := -1
	for i, b := range raw {
		if b == 0 {
			nul = i
			break
		}
	}
	if nul < 0 {
		return Unknown, nil, rakkeerr.NewMalformedObject("envelope missing NUL separator")
	}
	header := string(raw[:nul])
	payload := raw[nul+1:]

	sp := -1
	for i, c := range header {
		if c == ' ' {
			sp = i
			break
		}
	}
	if sp < 0 {
		return Unknown, nil, rakkeerr.NewMalformedObject(fmt.Sprintf("bad envelope header %q", header))
	}
	typeName := header[:sp]
	sizeStr := header[sp+1:]
	if _, err := strconv.Atoi(sizeStr); err != nil {
		return Unknown, nil, rakkeerr.NewMalformedObject(fmt.Sprintf("non-numeric size in header %q", header))
	}

	return ParseType(typeName), payload, nil
}
