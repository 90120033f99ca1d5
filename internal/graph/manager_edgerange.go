package graph

import (
	"github.com/dgraph-io/badger/v4"
)

// RangeEntry is one adjacency-index entry, decoded.
type RangeEntry struct {
	FirstID ID
	Type    Type
	Ts      int64
	PeerID  ID
	Weight  float64
}

// EdgeRangeManager reads one of the two adjacency-index families.
// Constructing it with cfEdgeRanges gives the forward (outbound-keyed)
// view; cfReversedEdgeRanges gives the reversed (inbound-keyed) view.
// Both families share the same (firstID, type, timestamp, peerID)
// schema, so one implementation serves both, configured by which
// column family it reads.
type EdgeRangeManager struct {
	store *store
	cf    columnFamily
}

func newEdgeRangeManager(s *store, cf columnFamily) *EdgeRangeManager {
	return &EdgeRangeManager{store: s, cf: cf}
}

// iterateForRange walks every entry under (firstID, type) in ascending
// key order — ascending timestamp, peerID as tiebreak — stopping at
// the first key whose (firstID, type) prefix no longer matches.
func (m *EdgeRangeManager) iterateForRange(firstID ID, t Type, fn func(RangeEntry) error) error {
	prefix := edgeRangeTypePrefix(firstID, t)
	return m.store.view(func(b *Batch) error {
		return b.iterateCF(m.cf, prefix, func(schemaKey, value []byte) error {
			entry, err := m.decode(schemaKey, value)
			if err != nil {
				return err
			}
			return fn(entry)
		})
	})
}

// reverseIterateForRange walks entries under (firstID, type) in
// descending key order, starting at or just before
// (firstID, type, upperTimestamp, 0xFF...), stopping when the
// (firstID, type) prefix no longer matches or fn returns
// errStopIteration.
func (m *EdgeRangeManager) reverseIterateForRange(firstID ID, t Type, upperTimestamp int64, fn func(RangeEntry) error) error {
	prefix := edgeRangeTypePrefix(firstID, t)
	seek := edgeRangeSeekKey(firstID, t, upperTimestamp)

	return m.store.view(func(b *Batch) error {
		full := cfKey(m.cf, prefix)
		fullSeek := cfKey(m.cf, seek)

		opts := badger.DefaultIteratorOptions
		opts.Reverse = true
		opts.Prefix = full
		it := b.txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(fullSeek); it.ValidForPrefix(full); it.Next() {
			item := it.Item()
			key := append([]byte(nil), item.Key()...)
			var value []byte
			if err := item.Value(func(val []byte) error {
				value = append([]byte(nil), val...)
				return nil
			}); err != nil {
				return err
			}
			entry, err := m.decode(stripCFPrefix(key), value)
			if err != nil {
				return err
			}
			if err := fn(entry); err != nil {
				if err == errStopIteration {
					return nil
				}
				return err
			}
		}
		return nil
	})
}

func (m *EdgeRangeManager) decode(schemaKey, value []byte) (RangeEntry, error) {
	firstID, t, ts, peerID, err := decodeEdgeRangeKey(schemaKey)
	if err != nil {
		return RangeEntry{}, err
	}
	weight, err := decodeWeight(value)
	if err != nil {
		return RangeEntry{}, err
	}
	return RangeEntry{FirstID: firstID, Type: t, Ts: ts, PeerID: peerID, Weight: weight}, nil
}

// count does a full scan of the (firstID, type) slice. A cached
// counter could substitute for this scan; the contract that matters is
// the exact count of live edges in that slice, not how it's computed.
func (m *EdgeRangeManager) count(firstID ID, t Type) (uint64, error) {
	var n uint64
	err := m.iterateForRange(firstID, t, func(RangeEntry) error {
		n++
		return nil
	})
	return n, err
}

// errStopIteration is a sentinel fn can return from
// reverseIterateForRange to stop early without propagating an error.
var errStopIteration = unexpected("stop iteration")
