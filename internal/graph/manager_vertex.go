package graph

import (
	"encoding/json"
)

// vertexRecord is the on-disk value for the vertices column family:
// (ownerID, type).
type vertexRecord struct {
	OwnerID ID     `json:"ownerId"`
	Type    Type   `json:"type"`
}

func encodeVertex(ownerID ID, t Type) ([]byte, error) {
	data, err := json.Marshal(vertexRecord{OwnerID: ownerID, Type: t})
	if err != nil {
		return nil, unexpectedf("encoding vertex: %v", err)
	}
	return data, nil
}

func decodeVertex(data []byte) (vertexRecord, error) {
	var rec vertexRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return vertexRecord{}, unexpectedf("decoding vertex: %v", err)
	}
	return rec, nil
}

// VertexManager owns the vertices column family.
type VertexManager struct {
	store *store
}

func newVertexManager(s *store) *VertexManager {
	return &VertexManager{store: s}
}

func (m *VertexManager) exists(id ID) (bool, error) {
	found, err := m.store.exists(cfVertices, vertexKey(id))
	return found, wrapStoreError("vertex exists", err)
}

// get returns (ownerID, type) for id, or (zero, zero, false) if absent.
func (m *VertexManager) get(id ID) (ownerID ID, t Type, found bool, err error) {
	data, found, err := m.store.get(cfVertices, vertexKey(id))
	if err != nil {
		return ID{}, "", false, wrapStoreError("vertex get", err)
	}
	if !found {
		return ID{}, "", false, nil
	}
	rec, err := decodeVertex(data)
	if err != nil {
		return ID{}, "", false, err
	}
	return rec.OwnerID, rec.Type, true, nil
}

// create inserts a fresh vertex with value (ownerID, type).
func (m *VertexManager) create(t Type, ownerID ID) (ID, error) {
	if err := t.Validate(); err != nil {
		return ID{}, err
	}

	id, err := NewID()
	if err != nil {
		return ID{}, err
	}

	data, err := encodeVertex(ownerID, t)
	if err != nil {
		return ID{}, err
	}

	err = m.store.update(func(b *Batch) error {
		return b.put(cfVertices, vertexKey(id), data)
	})
	if err != nil {
		return ID{}, wrapStoreError("vertex create", err)
	}

	return id, nil
}

// update overwrites the vertex's (ownerID, type) value. It does not
// touch edges.
func (m *VertexManager) update(b *Batch, id ID, ownerID ID, t Type) error {
	if err := t.Validate(); err != nil {
		return err
	}
	data, err := encodeVertex(ownerID, t)
	if err != nil {
		return err
	}
	return b.put(cfVertices, vertexKey(id), data)
}

// delete enqueues, into batch, the full deletion cascade for a vertex:
// every incident edge in both directions (found
// via the forward and reverse adjacency indexes under id, across all
// edge types), all VertexMetadata rows, and the vertex row itself.
//
// The adjacency-index entries are collected into slices before any
// delete is enqueued, rather than deleted while iterating: badger's own
// documentation discourages mutating keys a live iterator is currently
// walking. A self-loop (outbound == inbound == id) appears in both the
// forward and reverse scans, so its deletes are enqueued twice; the
// second set deletes keys already deleted in the same batch and
// changes nothing.
func (m *VertexManager) delete(b *Batch, id ID) error {
	type incident struct {
		t      Type
		peerID ID
		ts     int64
	}

	var forward, reverse []incident

	prefix := appendID(nil, id)

	if err := b.iterateCF(cfEdgeRanges, prefix, func(schemaKey, _ []byte) error {
		_, t, ts, peerID, err := decodeEdgeRangeKey(schemaKey)
		if err != nil {
			return err
		}
		forward = append(forward, incident{t: t, peerID: peerID, ts: ts})
		return nil
	}); err != nil {
		return err
	}

	if err := b.iterateCF(cfReversedEdgeRanges, prefix, func(schemaKey, _ []byte) error {
		_, t, ts, peerID, err := decodeEdgeRangeKey(schemaKey)
		if err != nil {
			return err
		}
		reverse = append(reverse, incident{t: t, peerID: peerID, ts: ts})
		return nil
	}); err != nil {
		return err
	}

	em := newEdgeManager(m.store)

	for _, e := range forward {
		if err := em.delete(b, id, e.t, e.peerID, e.ts); err != nil {
			return err
		}
	}
	for _, e := range reverse {
		if err := em.delete(b, e.peerID, e.t, id, e.ts); err != nil {
			return err
		}
	}

	meta := newMetadataManager(m.store, cfVertexMetadata)
	if err := meta.deletePrefix(b, vertexMetadataPrefix(id)); err != nil {
		return err
	}

	return b.delete(cfVertices, vertexKey(id))
}
