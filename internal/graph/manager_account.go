package graph

import (
	"encoding/json"
)

// accountRecord is the on-disk value for the accounts column family:
// (salt, digest, email), JSON-encoded. []byte fields round-trip through
// JSON as base64, so this needs no custom binary framing — the same
// "JSON-encode a small serializable struct" approach vertexRecord uses.
type accountRecord struct {
	Salt   []byte `json:"salt"`
	Digest []byte `json:"digest"`
	Email  []byte `json:"email"`
}

func encodeAccount(a Account) ([]byte, error) {
	data, err := json.Marshal(accountRecord{Salt: a.Salt, Digest: a.Digest, Email: a.Email})
	if err != nil {
		return nil, unexpectedf("encoding account: %v", err)
	}
	return data, nil
}

func decodeAccount(id ID, data []byte) (Account, error) {
	var rec accountRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return Account{}, unexpectedf("decoding account: %v", err)
	}
	return Account{ID: id, Salt: rec.Salt, Digest: rec.Digest, Email: rec.Email}, nil
}

// AccountManager owns the accounts column family.
type AccountManager struct {
	store *store
}

func newAccountManager(s *store) *AccountManager {
	return &AccountManager{store: s}
}

func (m *AccountManager) exists(id ID) (bool, error) {
	found, err := m.store.exists(cfAccounts, accountKey(id))
	return found, wrapStoreError("account exists", err)
}

func (m *AccountManager) get(id ID) (*Account, error) {
	data, found, err := m.store.get(cfAccounts, accountKey(id))
	if err != nil {
		return nil, wrapStoreError("account get", err)
	}
	if !found {
		return nil, nil
	}
	account, err := decodeAccount(id, data)
	if err != nil {
		return nil, err
	}
	return &account, nil
}

// create generates a fresh ID, a cryptographically random salt and
// secret, stores digest = saltedHash(salt, nil, secret), and returns
// (id, secret). The raw secret is never persisted; it is returned to
// the caller exactly once.
func (m *AccountManager) create(email []byte) (ID, string, error) {
	id, err := NewID()
	if err != nil {
		return ID{}, "", err
	}

	salt, err := randomSalt()
	if err != nil {
		return ID{}, "", err
	}

	_, secretText, err := randomSecret()
	if err != nil {
		return ID{}, "", err
	}

	// Hash the exact bytes returned to the caller: Authenticate hashes
	// the text secret handed back to a user, so digest must be computed
	// over that same byte form, not the raw entropy it was derived from.
	digest, err := saltedHash(salt, nil, []byte(secretText))
	if err != nil {
		return ID{}, "", err
	}

	data, err := encodeAccount(Account{Salt: salt, Digest: digest, Email: email})
	if err != nil {
		return ID{}, "", err
	}

	err = m.store.update(func(b *Batch) error {
		return b.put(cfAccounts, accountKey(id), data)
	})
	if err != nil {
		return ID{}, "", wrapStoreError("account create", err)
	}

	return id, secretText, nil
}

// delete enqueues, into batch, the full deletion cascade: every vertex
// the account owns (found by a full scan of the vertices family —
// there is no owner secondary index; only the explicitly maintained
// adjacency and range indexes exist), all AccountMetadata rows under
// the account's prefix, and finally the account row itself.
func (m *AccountManager) delete(b *Batch, id ID) error {
	vm := newVertexManager(m.store)

	var owned []ID
	err := b.iterateCF(cfVertices, nil, func(schemaKey, value []byte) error {
		var vid ID
		copy(vid[:], schemaKey)
		rec, err := decodeVertex(value)
		if err != nil {
			return err
		}
		if rec.OwnerID == id {
			owned = append(owned, vid)
		}
		return nil
	})
	if err != nil {
		return err
	}

	for _, vid := range owned {
		if err := vm.delete(b, vid); err != nil {
			return err
		}
	}

	meta := newMetadataManager(m.store, cfAccountMetadata)
	if err := meta.deletePrefix(b, accountMetadataPrefix(id)); err != nil {
		return err
	}

	return b.delete(cfAccounts, accountKey(id))
}
