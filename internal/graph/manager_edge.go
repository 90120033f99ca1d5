package graph

import (
	"encoding/binary"
	"math"
)

// Edge values are small, fixed-width, and written three times per
// write (the edges row plus both adjacency-index entries), so they're
// encoded as plain fixed-width binary rather than JSON, unlike the
// owner-facing Account/Vertex records — the hot path for a graph this
// shape is edge writes, and the value itself, (updateTimestamp,
// weight), is already fixed-width.

// encodeEdgeRow encodes the edges column family's value:
// (updateTimestamp, weight) as 8+8 bytes.
func encodeEdgeRow(ts int64, weight float64) []byte {
	buf := make([]byte, 16)
	binary.BigEndian.PutUint64(buf[0:8], uint64(ts))
	binary.BigEndian.PutUint64(buf[8:16], math.Float64bits(weight))
	return buf
}

func decodeEdgeRow(data []byte) (ts int64, weight float64, err error) {
	if len(data) != 16 {
		return 0, 0, unexpected("malformed edge row value")
	}
	ts = int64(binary.BigEndian.Uint64(data[0:8]))
	weight = math.Float64frombits(binary.BigEndian.Uint64(data[8:16]))
	return ts, weight, nil
}

// encodeWeight encodes an adjacency-index entry's value: just the
// weight, as 8 bytes.
func encodeWeight(weight float64) []byte {
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, math.Float64bits(weight))
	return buf
}

func decodeWeight(data []byte) (float64, error) {
	if len(data) != 8 {
		return 0, unexpected("malformed adjacency-index weight value")
	}
	return math.Float64frombits(binary.BigEndian.Uint64(data)), nil
}

// EdgeManager owns the edges column family and keeps the edge_ranges /
// reversed_edge_ranges adjacency indexes consistent with it.
type EdgeManager struct {
	store *store
}

func newEdgeManager(s *store) *EdgeManager {
	return &EdgeManager{store: s}
}

func (m *EdgeManager) exists(o ID, t Type, i ID) (bool, error) {
	found, err := m.store.exists(cfEdges, edgeKey(o, t, i))
	return found, wrapStoreError("edge exists", err)
}

func (m *EdgeManager) get(o ID, t Type, i ID) (ts int64, weight float64, found bool, err error) {
	data, found, err := m.store.get(cfEdges, edgeKey(o, t, i))
	if err != nil {
		return 0, 0, false, wrapStoreError("edge get", err)
	}
	if !found {
		return 0, 0, false, nil
	}
	ts, weight, err = decodeEdgeRow(data)
	return ts, weight, true, err
}

// set overwrites the edge (o, t, i) with (timestamp, weight). If a
// prior value exists, the stale adjacency-index entries under its
// timestamp are removed first — the delete-then-write ordering matters
// only in that both happen inside the same atomic batch, so no reader
// ever observes both old and new entries.
func (m *EdgeManager) set(b *Batch, o ID, t Type, i ID, ts int64, weight float64) error {
	if err := t.Validate(); err != nil {
		return err
	}

	key := edgeKey(o, t, i)
	prior, found, err := b.get(cfEdges, key)
	if err != nil {
		return err
	}
	if found {
		priorTs, _, err := decodeEdgeRow(prior)
		if err != nil {
			return err
		}
		if err := b.delete(cfEdgeRanges, edgeRangeKey(o, t, priorTs, i)); err != nil {
			return err
		}
		if err := b.delete(cfReversedEdgeRanges, edgeRangeKey(i, t, priorTs, o)); err != nil {
			return err
		}
	}

	if err := b.put(cfEdges, key, encodeEdgeRow(ts, weight)); err != nil {
		return err
	}
	if err := b.put(cfEdgeRanges, edgeRangeKey(o, t, ts, i), encodeWeight(weight)); err != nil {
		return err
	}
	return b.put(cfReversedEdgeRanges, edgeRangeKey(i, t, ts, o), encodeWeight(weight))
}

// delete removes the edge (o, t, i), its adjacency-index entries under
// priorTimestamp, and all EdgeMetadata rows under its prefix.
func (m *EdgeManager) delete(b *Batch, o ID, t Type, i ID, priorTimestamp int64) error {
	if err := b.delete(cfEdges, edgeKey(o, t, i)); err != nil {
		return err
	}
	if err := b.delete(cfEdgeRanges, edgeRangeKey(o, t, priorTimestamp, i)); err != nil {
		return err
	}
	if err := b.delete(cfReversedEdgeRanges, edgeRangeKey(i, t, priorTimestamp, o)); err != nil {
		return err
	}

	meta := newMetadataManager(m.store, cfEdgeMetadata)
	return meta.deletePrefix(b, edgeMetadataPrefix(o, t, i))
}
