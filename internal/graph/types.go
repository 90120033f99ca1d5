package graph

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

// ID is the 16-byte identifier shared by accounts and vertices. It is
// defined as uuid.UUID rather than a fresh [16]byte so that ID
// generation and string formatting reuse the well-tested uuid package
// instead of being hand-rolled.
type ID = uuid.UUID

// NewID generates a fresh random (v4) ID.
func NewID() (ID, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return ID{}, unexpectedf("generating id: %v", err)
	}
	return id, nil
}

// maxID is the all-0xFF sentinel used to seek to the end of a
// (firstID, type) adjacency slice before reverse-iterating it.
func maxID() ID {
	var id ID
	for i := range id {
		id[i] = 0xFF
	}
	return id
}

// Type is an edge or vertex type name: a short, non-empty UTF-8 string
// no longer than 255 bytes (the ShortSizedString codec's own limit; see
// DESIGN.md's Open Question decision on the exact charset).
type Type string

// Validate checks Type against the length constraint the key codec can
// actually encode. It does not further restrict the character set (see
// DESIGN.md).
func (t Type) Validate() error {
	if len(t) == 0 {
		return unexpected("type must not be empty")
	}
	if len(t) > maxShortStringLen {
		return unexpectedf("type exceeds %d bytes", maxShortStringLen)
	}
	return nil
}

// MetadataValue is an opaque JSON-shaped value. It is stored and
// returned as raw bytes so that round-tripping a write through a read
// is byte-identical, including number precision — there is no
// intermediate re-marshal through interface{}.
type MetadataValue = json.RawMessage

// Account is an authentication principal owning vertices and
// account-scoped metadata. Salt and Digest are never re-derived on
// read; Secret is never persisted (see secret.go).
type Account struct {
	ID     ID
	Salt   []byte
	Digest []byte
	Email  []byte
}

// Vertex is a graph node with an immutable Type and an owning Account.
type Vertex struct {
	ID      ID
	OwnerID ID
	Type    Type
}

// Edge is a directed, typed, weighted connection between two vertices.
// Weight must be a finite value in [-1.0, 1.0]; UpdateTimestamp is
// seconds since the epoch.
type Edge struct {
	OutboundID      ID
	Type            Type
	InboundID       ID
	Weight          float64
	UpdateTimestamp int64
}

func (e Edge) String() string {
	return fmt.Sprintf("Edge(%s, %q, %s, w=%v, ts=%d)", e.OutboundID, e.Type, e.InboundID, e.Weight, e.UpdateTimestamp)
}

// MaxTimestamp is the "end of time" sentinel: math.MaxInt32 seconds,
// not math.MaxInt64. This caps representable timestamps at
// 2038-01-19T03:14:07Z. The cap exists because the reference
// implementation's calendar library rejected i64::MAX as an invalid
// time; the key schema itself (signed 64-bit big-endian) already
// accommodates the wider range, so an implementation that doesn't
// share that restriction may raise the cap without a schema change.
const MaxTimestamp int64 = 1<<31 - 1
