package graph

import (
	"crypto/subtle"

	"github.com/dgraph-io/badger/v4"
)

// Datastore is the top-level handle on a store: it owns the BadgerDB
// instance and the nine column families projected onto it, and is the
// factory for account lifecycle operations and account-scoped
// Transactions.
type Datastore struct {
	db  *badger.DB
	st  *store
	acc *AccountManager
	vtx *VertexManager
	edg *EdgeManager
	fwd *EdgeRangeManager
	rev *EdgeRangeManager
	gmd *MetadataManager
	amd *MetadataManager
	vmd *MetadataManager
	emd *MetadataManager
}

// Open creates or opens a BadgerDB instance under opts and wires up
// the nine column families' managers. This never writes a schema
// version marker row of its own — the column-family version byte
// (options.go's cfVersion) is the only version marker. Open does not
// inspect existing keys for their version byte: keys written under
// another version are not matched by this version's prefixes and so
// are invisible to every manager, rather than rejected.
func Open(opts StoreOptions) (*Datastore, error) {
	db, err := badger.Open(opts.badgerOptions())
	if err != nil {
		return nil, unexpectedf("opening store: %v", err)
	}

	s := newStore(db)
	return &Datastore{
		db:  db,
		st:  s,
		acc: newAccountManager(s),
		vtx: newVertexManager(s),
		edg: newEdgeManager(s),
		fwd: newEdgeRangeManager(s, cfEdgeRanges),
		rev: newEdgeRangeManager(s, cfReversedEdgeRanges),
		gmd: newMetadataManager(s, cfGlobalMetadata),
		amd: newMetadataManager(s, cfAccountMetadata),
		vmd: newMetadataManager(s, cfVertexMetadata),
		emd: newMetadataManager(s, cfEdgeMetadata),
	}, nil
}

// Close releases the underlying BadgerDB handle.
func (d *Datastore) Close() error {
	return d.db.Close()
}

// AccountExists reports whether id has an account row.
func (d *Datastore) AccountExists(id ID) (bool, error) {
	return d.acc.exists(id)
}

// Account returns the account row for id, or nil if absent.
func (d *Datastore) Account(id ID) (*Account, error) {
	return d.acc.get(id)
}

// CreateAccount provisions a fresh account and returns its id and the
// one-time plaintext secret.
func (d *Datastore) CreateAccount(email []byte) (ID, string, error) {
	return d.acc.create(email)
}

// DeleteAccount cascades the delete (owned vertices, their incident
// edges, all metadata) inside one atomic batch. id must exist.
func (d *Datastore) DeleteAccount(id ID) error {
	exists, err := d.acc.exists(id)
	if err != nil {
		return err
	}
	if !exists {
		return ErrAccountNotFound
	}
	err = d.st.update(func(b *Batch) error {
		return d.acc.delete(b, id)
	})
	return wrapStoreError("account delete", err)
}

// Authenticate reports whether secret matches the stored digest for
// id. A missing account and a wrong secret are indistinguishable to
// the caller — both yield false, nil — so the returned values can't be
// used to enumerate account IDs. A missing account returns before any
// hash is computed, so the two cases can differ in timing.
func (d *Datastore) Authenticate(id ID, secret []byte) (bool, error) {
	account, err := d.acc.get(id)
	if err != nil {
		return false, err
	}
	if account == nil {
		return false, nil
	}
	digest, err := saltedHash(account.Salt, nil, secret)
	if err != nil {
		return false, err
	}
	return subtle.ConstantTimeCompare(digest, account.Digest) == 1, nil
}

// Transaction opens a new account-scoped Transaction. Nothing is
// allocated beyond a struct holding accountID and the Datastore's
// manager handles: every public operation forms and commits its own
// atomic write batch, so there is no live badger.Txn held across the
// Transaction's lifetime.
func (d *Datastore) Transaction(accountID ID) (*Transaction, error) {
	exists, err := d.acc.exists(accountID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrAccountNotFound
	}
	return &Transaction{
		accountID: accountID,
		store:     d.st,
		accounts:  d.acc,
		vertices:  d.vtx,
		edges:     d.edg,
		fwdRanges: d.fwd,
		revRanges: d.rev,
		globalMD:  d.gmd,
		accountMD: d.amd,
		vertexMD:  d.vmd,
		edgeMD:    d.emd,
	}, nil
}
