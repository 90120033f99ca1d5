package graph

// MetadataManager implements get/set/delete over one of the four
// metadata column families. The value is stored and returned as an
// opaque JSON blob (MetadataValue = json.RawMessage) whose structure
// the engine never inspects — so there is nothing to encode/decode
// beyond the raw bytes themselves, unlike Account/Vertex/Edge which
// have a fixed shape.
type MetadataManager struct {
	store *store
	cf    columnFamily
}

func newMetadataManager(s *store, cf columnFamily) *MetadataManager {
	return &MetadataManager{store: s, cf: cf}
}

func (m *MetadataManager) get(key []byte) (MetadataValue, bool, error) {
	data, found, err := m.store.get(m.cf, key)
	if err != nil {
		return nil, false, wrapStoreError("metadata get", err)
	}
	if !found {
		return nil, false, nil
	}
	return MetadataValue(data), true, nil
}

func (m *MetadataManager) set(b *Batch, key []byte, value MetadataValue) error {
	return b.put(m.cf, key, []byte(value))
}

func (m *MetadataManager) delete(b *Batch, key []byte) error {
	return b.delete(m.cf, key)
}

// deletePrefix removes every row under prefix, used by cascading
// deletes in AccountManager/VertexManager/EdgeManager.
func (m *MetadataManager) deletePrefix(b *Batch, prefix []byte) error {
	var keys [][]byte
	err := b.iterateCF(m.cf, prefix, func(schemaKey, _ []byte) error {
		keys = append(keys, append([]byte(nil), schemaKey...))
		return nil
	})
	if err != nil {
		return err
	}
	for _, k := range keys {
		if err := b.delete(m.cf, k); err != nil {
			return err
		}
	}
	return nil
}
