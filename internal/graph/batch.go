package graph

import (
	"github.com/dgraph-io/badger/v4"
)

// Batch is the write-batch abstraction every mutating manager
// operation takes, so a Transaction method can compose several
// managers' writes into one atomic unit. It wraps a single badger.Txn
// opened via db.Update (or via db.View for store.view's read-only
// scans): badger's transactions are already atomic write
// batches with snapshot-isolated reads, so no separate WriteBatch type
// is needed the way a RocksDB-backed store would (rocksdb::WriteBatch
// is not itself a read-capable transaction; badger.Txn is both at
// once).
type Batch struct {
	txn *badger.Txn
}

func (b *Batch) put(cf columnFamily, key, value []byte) error {
	return b.txn.Set(cfKey(cf, key), value)
}

func (b *Batch) delete(cf columnFamily, key []byte) error {
	return b.txn.Delete(cfKey(cf, key))
}

// get reads within the same in-flight transaction, so a manager can
// look up a prior value (e.g. EdgeManager.set reading the edge it's
// about to overwrite) and have that read be consistent with writes
// staged earlier in the same batch.
func (b *Batch) get(cf columnFamily, key []byte) ([]byte, bool, error) {
	item, err := b.txn.Get(cfKey(cf, key))
	if err == badger.ErrKeyNotFound {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	var value []byte
	err = item.Value(func(val []byte) error {
		value = append([]byte(nil), val...)
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	return value, true, nil
}

// iteratePrefix runs fn over every key/value pair under a raw
// (already column-family-qualified) prefix, within the batch's
// transaction, in ascending key order. fn returning an error stops
// iteration and is propagated.
func (b *Batch) iteratePrefix(prefix []byte, fn func(key, value []byte) error) error {
	opts := badger.DefaultIteratorOptions
	opts.Prefix = prefix
	it := b.txn.NewIterator(opts)
	defer it.Close()

	for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
		item := it.Item()
		key := append([]byte(nil), item.Key()...)
		var value []byte
		if err := item.Value(func(val []byte) error {
			value = append([]byte(nil), val...)
			return nil
		}); err != nil {
			return err
		}
		if err := fn(key, value); err != nil {
			return err
		}
	}
	return nil
}

// iterateCF is iteratePrefix scoped to one column family: schemaPrefix
// is a prefix in that family's own key schema (nil/empty scans the
// whole family), and fn receives keys with the column-family prefix
// already stripped.
func (b *Batch) iterateCF(cf columnFamily, schemaPrefix []byte, fn func(schemaKey, value []byte) error) error {
	full := cfKey(cf, schemaPrefix)
	return b.iteratePrefix(full, func(key, value []byte) error {
		return fn(stripCFPrefix(key), value)
	})
}
