package graph

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// TestMetadataManagerRoundTrip checks that a written value is returned
// byte-identical after a read.
func TestMetadataManagerRoundTrip(t *testing.T) {
	s := newTestStore(t)
	mm := newMetadataManager(s, cfGlobalMetadata)

	key := globalMetadataKey("retention_days")
	value := MetadataValue(`{"days":30,"enabled":true}`)

	require.NoError(t, s.update(func(b *Batch) error {
		return mm.set(b, key, value)
	}))

	got, found, err := mm.get(key)
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, value, got)
}

func TestMetadataManagerDeletePrefix(t *testing.T) {
	s := newTestStore(t)
	mm := newMetadataManager(s, cfVertexMetadata)

	vid := mustNewID(t)
	other := mustNewID(t)

	require.NoError(t, s.update(func(b *Batch) error {
		if err := mm.set(b, vertexMetadataKey(vid, "a"), []byte(`1`)); err != nil {
			return err
		}
		if err := mm.set(b, vertexMetadataKey(vid, "b"), []byte(`2`)); err != nil {
			return err
		}
		return mm.set(b, vertexMetadataKey(other, "a"), []byte(`3`))
	}))

	require.NoError(t, s.update(func(b *Batch) error {
		return mm.deletePrefix(b, vertexMetadataPrefix(vid))
	}))

	_, found, err := mm.get(vertexMetadataKey(vid, "a"))
	require.NoError(t, err)
	require.False(t, found)
	_, found, err = mm.get(vertexMetadataKey(vid, "b"))
	require.NoError(t, err)
	require.False(t, found)

	_, found, err = mm.get(vertexMetadataKey(other, "a"))
	require.NoError(t, err)
	require.True(t, found, "deletePrefix must not touch a different owner's metadata")
}
