package graph

import (
	"github.com/dgraph-io/badger/v4"
)

// columnFamily identifies one of the nine logical keyspaces this store
// partitions its data into. BadgerDB has no native column-family
// concept, so each family is projected onto badger's single flat
// keyspace as a one-byte prefix. The versioned family name each
// family carries is preserved as a version byte (cfVersion) rather
// than a string suffix. Nothing compares the version byte of stored
// keys; keys written under another version are simply not matched by
// this version's prefixes.
type columnFamily byte

const (
	cfVersion = 1

	cfAccounts            columnFamily = 0x01
	cfVertices            columnFamily = 0x02
	cfEdges               columnFamily = 0x03
	cfEdgeRanges          columnFamily = 0x04
	cfReversedEdgeRanges  columnFamily = 0x05
	cfGlobalMetadata      columnFamily = 0x06
	cfAccountMetadata     columnFamily = 0x07
	cfVertexMetadata      columnFamily = 0x08
	cfEdgeMetadata        columnFamily = 0x09
)

// cfKey prepends a column family's prefix (family byte + version byte)
// to a schema-encoded key.
func cfKey(cf columnFamily, key []byte) []byte {
	out := make([]byte, 0, 2+len(key))
	out = append(out, byte(cf), cfVersion)
	out = append(out, key...)
	return out
}

// cfPrefix returns the two-byte prefix alone, for building iterator
// prefixes.
func cfPrefix(cf columnFamily) []byte {
	return []byte{byte(cf), cfVersion}
}

// stripCFPrefix removes the two-byte column-family prefix from a raw
// badger key, returning the schema-encoded remainder.
func stripCFPrefix(key []byte) []byte {
	if len(key) < 2 {
		return nil
	}
	return key[2:]
}

// StoreOptions configures the underlying BadgerDB instance. The field
// names and defaults mirror a conventional LSM store tuning table,
// mapped onto badger's own tuning knobs where BadgerDB's LSM design
// offers a direct equivalent (see DESIGN.md's options.go ledger entry
// for the ones that don't translate 1:1, e.g. per-level
// slowdown/stop-writes triggers vs. badger's flatter level model).
type StoreOptions struct {
	// DataDir is the directory BadgerDB stores its files in. Ignored
	// if InMemory is set.
	DataDir string

	// InMemory runs entirely in RAM; data does not survive process
	// exit. Used by tests.
	InMemory bool

	// SyncWrites forces an fsync after every write batch. Off by
	// default, favoring throughput over per-write durability.
	SyncWrites bool

	// LowMemory trims badger's in-memory table and cache sizes for
	// constrained environments, at some write-throughput cost.
	LowMemory bool

	// MaxOpenFiles is accepted for configuration parity only:
	// badgerOptions does not apply it, so it has no effect on the
	// opened store.
	MaxOpenFiles int

	// Logger receives badger's internal log output. Nil uses a
	// discarding logger.
	Logger badger.Logger
}

// DefaultStoreOptions returns persistent, levelled-compaction-style
// options with 64MiB write buffers.
func DefaultStoreOptions(dataDir string) StoreOptions {
	return StoreOptions{DataDir: dataDir}
}

// badgerOptions translates StoreOptions into badger's own Options,
// applying the write-buffer/compaction tuning this store targets.
func (o StoreOptions) badgerOptions() badger.Options {
	dir := o.DataDir
	if o.InMemory {
		dir = "" // badger refuses in-memory mode when a directory is set
	}
	opts := badger.DefaultOptions(dir)

	if o.InMemory {
		opts = opts.WithInMemory(true)
	}
	if o.SyncWrites {
		opts = opts.WithSyncWrites(true)
	}
	opts = opts.WithLogger(o.Logger) // nil is a valid badger.Logger value (disables logging)

	// writeBufferSize=64MiB, maxWriteBufferNumber=3 map to badger's
	// memtable size and count.
	opts = opts.
		WithMemTableSize(64 << 20).
		WithNumMemtables(3).
		// targetFileSizeBase=64MiB -> badger's value-log file size.
		WithValueLogFileSize(64 << 20).
		// maxBackgroundCompactions=4 -> badger's compactor count.
		WithNumCompactors(4).
		// levelZeroSlowdownWritesTrigger / levelZeroStopWritesTrigger
		// have no badger equivalent (badger's level-0 backpressure is
		// governed by NumLevelZeroTables / NumLevelZeroTablesStall
		// instead of separate slowdown/stop triggers); the nearest
		// mapping keeps their relative spacing (24/17 ~= 1.4x).
		WithNumLevelZeroTables(17).
		WithNumLevelZeroTablesStall(24)

	if o.LowMemory {
		opts = opts.
			WithMemTableSize(16 << 20).
			WithValueLogFileSize(64 << 20).
			WithNumMemtables(2).
			WithNumLevelZeroTables(2).
			WithNumLevelZeroTablesStall(4).
			WithBlockCacheSize(32 << 20).
			WithIndexCacheSize(16 << 20)
	}

	return opts
}
