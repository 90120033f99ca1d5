package graph

import (
	"github.com/dgraph-io/badger/v4"
)

// store is the shared handle every manager holds: a thin wrapper over
// *badger.DB providing unbatched reads (db.View) and a way to open one
// atomic batch per public mutating call (db.Update).
type store struct {
	db *badger.DB
}

func newStore(db *badger.DB) *store {
	return &store{db: db}
}

// view runs fn against a read-only snapshot.
func (s *store) view(fn func(b *Batch) error) error {
	return s.db.View(func(txn *badger.Txn) error {
		return fn(&Batch{txn: txn})
	})
}

// update runs fn inside one atomic write batch: every put/delete fn
// performs (directly, or via a manager it calls into) commits together
// or not at all. Each public call forms one atomic write batch that is
// committed before it returns.
func (s *store) update(fn func(b *Batch) error) error {
	return s.db.Update(func(txn *badger.Txn) error {
		return fn(&Batch{txn: txn})
	})
}

// get is a convenience unbatched point read.
func (s *store) get(cf columnFamily, key []byte) (value []byte, found bool, err error) {
	err = s.view(func(b *Batch) error {
		v, ok, gerr := b.get(cf, key)
		value, found = v, ok
		return gerr
	})
	return
}

// exists is a convenience unbatched existence check.
func (s *store) exists(cf columnFamily, key []byte) (bool, error) {
	_, found, err := s.get(cf, key)
	return found, err
}
