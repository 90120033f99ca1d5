package graph

import (
	"math"
	"time"
)

// Transaction composes the managers into the public graph operations
// an account-scoped caller uses. It is bound to one accountID for its
// whole lifetime. There is nothing to buffer: every mutating method
// opens and commits its own atomic write batch before returning, so a
// Transaction value itself holds no live badger.Txn and is cheap to
// construct and discard.
type Transaction struct {
	accountID ID

	store *store

	accounts  *AccountManager
	vertices  *VertexManager
	edges     *EdgeManager
	fwdRanges *EdgeRangeManager
	revRanges *EdgeRangeManager
	globalMD  *MetadataManager
	accountMD *MetadataManager
	vertexMD  *MetadataManager
	edgeMD    *MetadataManager
}

// AccountID returns the account this transaction is scoped to.
func (tx *Transaction) AccountID() ID {
	return tx.accountID
}

// Commit is a no-op: every operation is already durable when it
// returns.
func (tx *Transaction) Commit() error {
	return nil
}

// Rollback is permanently unsupported: it always fails with an
// *Unexpected wrapping ErrRollbackUnsupported.
func (tx *Transaction) Rollback() error {
	return &Unexpected{Message: "rollback", Cause: ErrRollbackUnsupported}
}

// ---------------------------------------------------------------------
// Authorization helpers.
// ---------------------------------------------------------------------

// checkOwnership fetches vertexID and requires it to exist and be
// owned by this transaction's account. A missing vertex and a vertex
// owned by someone else are both reported as ErrVertexNotFound — the
// caller cannot distinguish "doesn't exist" from "exists but isn't
// yours".
func (tx *Transaction) checkOwnership(vertexID ID) error {
	ownerID, _, found, err := tx.vertices.get(vertexID)
	if err != nil {
		return err
	}
	if !found || ownerID != tx.accountID {
		return ErrVertexNotFound
	}
	return nil
}

// checkExists requires vertexID to exist, with no ownership
// constraint — the check setEdge applies to the inbound vertex.
func (tx *Transaction) checkExists(vertexID ID) error {
	found, err := tx.vertices.exists(vertexID)
	if err != nil {
		return err
	}
	if !found {
		return ErrVertexNotFound
	}
	return nil
}

// ---------------------------------------------------------------------
// Vertex operations.
// ---------------------------------------------------------------------

// CreateVertex inserts a fresh vertex of type t, owned by this
// transaction's account.
func (tx *Transaction) CreateVertex(t Type) (ID, error) {
	return tx.vertices.create(t, tx.accountID)
}

// GetVertex returns the (ownerID, type) of id. Ownership is not
// checked on read.
func (tx *Transaction) GetVertex(id ID) (ownerID ID, t Type, err error) {
	ownerID, t, found, err := tx.vertices.get(id)
	if err != nil {
		return ID{}, "", err
	}
	if !found {
		return ID{}, "", ErrVertexNotFound
	}
	return ownerID, t, nil
}

// SetVertex overwrites id's type. The caller must own id; ownership
// itself never changes.
func (tx *Transaction) SetVertex(id ID, t Type) error {
	if err := tx.checkOwnership(id); err != nil {
		return err
	}
	return tx.store.update(func(b *Batch) error {
		return tx.vertices.update(b, id, tx.accountID, t)
	})
}

// DeleteVertex removes id and cascades its incident edges and
// metadata. The caller must own id.
func (tx *Transaction) DeleteVertex(id ID) error {
	if err := tx.checkOwnership(id); err != nil {
		return err
	}
	return tx.store.update(func(b *Batch) error {
		return tx.vertices.delete(b, id)
	})
}

// ---------------------------------------------------------------------
// Edge operations.
// ---------------------------------------------------------------------

// SetEdge writes or overwrites the edge (o, t, i), stamping it with
// the current time. The caller must own o; i must exist (the caller
// need not own it). The timestamp is always "now" at write time — it
// is not caller-supplied.
func (tx *Transaction) SetEdge(o ID, t Type, i ID, weight float64) error {
	if math.IsNaN(weight) || math.IsInf(weight, 0) || weight < -1.0 || weight > 1.0 {
		return unexpected("weight must be a finite value in [-1.0, 1.0]")
	}
	if err := tx.checkOwnership(o); err != nil {
		return err
	}
	if err := tx.checkExists(i); err != nil {
		return err
	}
	ts := time.Now().Unix()
	if ts > MaxTimestamp {
		ts = MaxTimestamp
	}
	return tx.store.update(func(b *Batch) error {
		return tx.edges.set(b, o, t, i, ts, weight)
	})
}

// GetEdge returns the current (updateTimestamp, weight) for (o, t, i).
func (tx *Transaction) GetEdge(o ID, t Type, i ID) (Edge, error) {
	ts, weight, found, err := tx.edges.get(o, t, i)
	if err != nil {
		return Edge{}, err
	}
	if !found {
		return Edge{}, ErrEdgeNotFound
	}
	return Edge{OutboundID: o, Type: t, InboundID: i, Weight: weight, UpdateTimestamp: ts}, nil
}

// DeleteEdge removes (o, t, i). The caller must own o; the edge must
// exist.
func (tx *Transaction) DeleteEdge(o ID, t Type, i ID) error {
	if err := tx.checkOwnership(o); err != nil {
		return err
	}
	priorTs, _, found, err := tx.edges.get(o, t, i)
	if err != nil {
		return err
	}
	if !found {
		return ErrEdgeNotFound
	}
	return tx.store.update(func(b *Batch) error {
		return tx.edges.delete(b, o, t, i, priorTs)
	})
}

// GetEdgeCount returns the exact number of live edges in the forward
// adjacency slice (o, t).
func (tx *Transaction) GetEdgeCount(o ID, t Type) (uint64, error) {
	return tx.fwdRanges.count(o, t)
}

// GetReversedEdgeCount is GetEdgeCount's symmetric counterpart,
// counting the reverse adjacency slice (i, t).
func (tx *Transaction) GetReversedEdgeCount(i ID, t Type) (uint64, error) {
	return tx.revRanges.count(i, t)
}

// GetEdgeRange reverse-iterates the forward adjacency slice (o, t)
// from the maximum timestamp sentinel, skipping offset entries and
// returning up to limit.
func (tx *Transaction) GetEdgeRange(o ID, t Type, offset, limit int) ([]Edge, error) {
	return rangeScan(tx.fwdRanges, o, t, offset, limit, func(e RangeEntry) Edge {
		return Edge{OutboundID: e.FirstID, Type: e.Type, InboundID: e.PeerID, Weight: e.Weight, UpdateTimestamp: e.Ts}
	})
}

// GetReversedEdgeRange is GetEdgeRange's symmetric counterpart over
// the reversed_edge_ranges family, keyed by inboundID i.
func (tx *Transaction) GetReversedEdgeRange(i ID, t Type, offset, limit int) ([]Edge, error) {
	return rangeScan(tx.revRanges, i, t, offset, limit, func(e RangeEntry) Edge {
		return Edge{OutboundID: e.PeerID, Type: e.Type, InboundID: e.FirstID, Weight: e.Weight, UpdateTimestamp: e.Ts}
	})
}

func rangeScan(m *EdgeRangeManager, firstID ID, t Type, offset, limit int, project func(RangeEntry) Edge) ([]Edge, error) {
	if offset < 0 {
		return nil, unexpected("offset must be non-negative")
	}
	if limit < 0 {
		return nil, unexpected("limit must be non-negative")
	}

	var results []Edge
	skipped := 0
	err := m.reverseIterateForRange(firstID, t, MaxTimestamp, func(e RangeEntry) error {
		if skipped < offset {
			skipped++
			return nil
		}
		if len(results) >= limit {
			return errStopIteration
		}
		results = append(results, project(e))
		if len(results) >= limit {
			return errStopIteration
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return results, nil
}

// GetEdgeTimeRange reverse-iterates the forward adjacency slice (o, t)
// starting at high (or MaxTimestamp if nil), taking up to limit
// entries, stopping early at the first entry whose timestamp is below
// low (if low is non-nil).
func (tx *Transaction) GetEdgeTimeRange(o ID, t Type, high, low *int64, limit int) ([]Edge, error) {
	return timeRangeScan(tx.fwdRanges, o, t, high, low, limit, func(e RangeEntry) Edge {
		return Edge{OutboundID: e.FirstID, Type: e.Type, InboundID: e.PeerID, Weight: e.Weight, UpdateTimestamp: e.Ts}
	})
}

// GetReversedEdgeTimeRange is GetEdgeTimeRange's symmetric counterpart
// over the reversed_edge_ranges family, keyed by inboundID i.
func (tx *Transaction) GetReversedEdgeTimeRange(i ID, t Type, high, low *int64, limit int) ([]Edge, error) {
	return timeRangeScan(tx.revRanges, i, t, high, low, limit, func(e RangeEntry) Edge {
		return Edge{OutboundID: e.PeerID, Type: e.Type, InboundID: e.FirstID, Weight: e.Weight, UpdateTimestamp: e.Ts}
	})
}

func timeRangeScan(m *EdgeRangeManager, firstID ID, t Type, high, low *int64, limit int, project func(RangeEntry) Edge) ([]Edge, error) {
	if limit < 0 {
		return nil, unexpected("limit must be non-negative")
	}

	upper := MaxTimestamp
	if high != nil {
		upper = *high
	}

	var results []Edge
	err := m.reverseIterateForRange(firstID, t, upper, func(e RangeEntry) error {
		if low != nil && e.Ts < *low {
			return errStopIteration
		}
		if len(results) >= limit {
			return errStopIteration
		}
		results = append(results, project(e))
		if len(results) >= limit {
			return errStopIteration
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return results, nil
}

// ---------------------------------------------------------------------
// Metadata operations. Four scopes, each with get/set/delete, sharing
// the same MetadataNotFound semantics on absence. Set methods (other
// than global, which has no owning entity) require the owner to exist
// first, returning its not-found error rather than writing an orphan
// metadata row a cascade delete could never reach.
// ---------------------------------------------------------------------

func (tx *Transaction) GetGlobalMetadata(key string) (MetadataValue, error) {
	return getMetadata(tx.globalMD, globalMetadataKey(key))
}

func (tx *Transaction) SetGlobalMetadata(key string, value MetadataValue) error {
	return tx.store.update(func(b *Batch) error {
		return tx.globalMD.set(b, globalMetadataKey(key), value)
	})
}

func (tx *Transaction) DeleteGlobalMetadata(key string) error {
	return tx.store.update(func(b *Batch) error {
		return tx.globalMD.delete(b, globalMetadataKey(key))
	})
}

func (tx *Transaction) GetAccountMetadata(accountID ID, key string) (MetadataValue, error) {
	return getMetadata(tx.accountMD, accountMetadataKey(accountID, key))
}

func (tx *Transaction) SetAccountMetadata(accountID ID, key string, value MetadataValue) error {
	exists, err := tx.accounts.exists(accountID)
	if err != nil {
		return err
	}
	if !exists {
		return ErrAccountNotFound
	}
	return tx.store.update(func(b *Batch) error {
		return tx.accountMD.set(b, accountMetadataKey(accountID, key), value)
	})
}

func (tx *Transaction) DeleteAccountMetadata(accountID ID, key string) error {
	return tx.store.update(func(b *Batch) error {
		return tx.accountMD.delete(b, accountMetadataKey(accountID, key))
	})
}

func (tx *Transaction) GetVertexMetadata(vertexID ID, key string) (MetadataValue, error) {
	return getMetadata(tx.vertexMD, vertexMetadataKey(vertexID, key))
}

func (tx *Transaction) SetVertexMetadata(vertexID ID, key string, value MetadataValue) error {
	if err := tx.checkExists(vertexID); err != nil {
		return err
	}
	return tx.store.update(func(b *Batch) error {
		return tx.vertexMD.set(b, vertexMetadataKey(vertexID, key), value)
	})
}

func (tx *Transaction) DeleteVertexMetadata(vertexID ID, key string) error {
	return tx.store.update(func(b *Batch) error {
		return tx.vertexMD.delete(b, vertexMetadataKey(vertexID, key))
	})
}

func (tx *Transaction) GetEdgeMetadata(o ID, t Type, i ID, key string) (MetadataValue, error) {
	return getMetadata(tx.edgeMD, edgeMetadataKey(o, t, i, key))
}

func (tx *Transaction) SetEdgeMetadata(o ID, t Type, i ID, key string, value MetadataValue) error {
	exists, err := tx.edges.exists(o, t, i)
	if err != nil {
		return err
	}
	if !exists {
		return ErrEdgeNotFound
	}
	return tx.store.update(func(b *Batch) error {
		return tx.edgeMD.set(b, edgeMetadataKey(o, t, i, key), value)
	})
}

func (tx *Transaction) DeleteEdgeMetadata(o ID, t Type, i ID, key string) error {
	return tx.store.update(func(b *Batch) error {
		return tx.edgeMD.delete(b, edgeMetadataKey(o, t, i, key))
	})
}

func getMetadata(m *MetadataManager, key []byte) (MetadataValue, error) {
	value, found, err := m.get(key)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, ErrMetadataNotFound
	}
	return value, nil
}
