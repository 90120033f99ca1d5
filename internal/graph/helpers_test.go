package graph

import (
	"testing"

	"github.com/dgraph-io/badger/v4"
)

// openBadgerForTest opens an in-memory BadgerDB instance for
// manager-level tests that need a *store directly, bypassing
// Datastore/StoreOptions.
func openBadgerForTest(t *testing.T) (*badger.DB, error) {
	t.Helper()
	opts := badger.DefaultOptions("").WithInMemory(true).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}
	t.Cleanup(func() { db.Close() })
	return db, nil
}
