package ledger

import (
	"github.com/cespare/xxhash/v2"
	gojson "github.com/goccy/go-json"

	"github.com/23skdu/resonant/internal/core"
)

// canonical serializes a snapshot deterministically: struct fields in
// declaration order, payload map keys sorted by the encoder. The same
// logical snapshot always produces the same bytes, so the hash is a
// pure function of content.
func canonical(s core.Snapshot) ([]byte, error) {
	return gojson.Marshal(s)
}

// SnapshotID derives the content id for s together with the canonical
// bytes it was computed over. xxhash64 over the canonical serialization
// replaces the original's unstable built-in object hash: it is
// well-specified, stable across runs, and yields the integer id the
// filename format encodes.
func SnapshotID(s core.Snapshot) (uint64, []byte, error) {
	data, err := canonical(s)
	if err != nil {
		return 0, nil, err
	}
	return xxhash.Sum64(data), data, nil
}
