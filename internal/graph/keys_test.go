package graph

import (
	"bytes"
	"sort"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEdgeKeyRoundTrip(t *testing.T) {
	o, err := NewID()
	require.NoError(t, err)
	i, err := NewID()
	require.NoError(t, err)

	key := edgeKey(o, "likes", i)
	gotO, gotT, gotI, err := decodeEdgeKey(key)
	require.NoError(t, err)
	require.Equal(t, o, gotO)
	require.Equal(t, Type("likes"), gotT)
	require.Equal(t, i, gotI)
}

func TestEdgeRangeKeyRoundTrip(t *testing.T) {
	first, err := NewID()
	require.NoError(t, err)
	peer, err := NewID()
	require.NoError(t, err)

	key := edgeRangeKey(first, "follows", 1234, peer)
	gotFirst, gotT, gotTs, gotPeer, err := decodeEdgeRangeKey(key)
	require.NoError(t, err)
	require.Equal(t, first, gotFirst)
	require.Equal(t, Type("follows"), gotT)
	require.Equal(t, int64(1234), gotTs)
	require.Equal(t, peer, gotPeer)
}

// TestEdgeRangeKeyOrdering checks the property ascending/reverse range
// scans rely on: within an (firstID, type) slice, lexicographic byte
// order on the encoded key matches ascending timestamp order.
func TestEdgeRangeKeyOrdering(t *testing.T) {
	first, err := NewID()
	require.NoError(t, err)
	peer, err := NewID()
	require.NoError(t, err)

	timestamps := []int64{0, 1, 1000, 1 << 20, MaxTimestamp}
	keys := make([][]byte, len(timestamps))
	for idx, ts := range timestamps {
		keys[idx] = edgeRangeKey(first, "likes", ts, peer)
	}

	sorted := make([][]byte, len(keys))
	copy(sorted, keys)
	sort.Slice(sorted, func(a, b int) bool { return bytes.Compare(sorted[a], sorted[b]) < 0 })

	require.Equal(t, keys, sorted, "keys built from ascending timestamps must already be in lexicographic order")
}

// TestEdgeRangeTypePrefix checks that the type prefix selects exactly
// the entries for that (firstID, type) pair and stops matching once
// either component changes.
func TestEdgeRangeTypePrefix(t *testing.T) {
	first, err := NewID()
	require.NoError(t, err)
	other, err := NewID()
	require.NoError(t, err)
	peer, err := NewID()
	require.NoError(t, err)

	prefix := edgeRangeTypePrefix(first, "likes")

	matching := edgeRangeKey(first, "likes", 42, peer)
	require.True(t, bytes.HasPrefix(matching, prefix))

	wrongType := edgeRangeKey(first, "follows", 42, peer)
	require.False(t, bytes.HasPrefix(wrongType, prefix))

	wrongFirst := edgeRangeKey(other, "likes", 42, peer)
	require.False(t, bytes.HasPrefix(wrongFirst, prefix))
}

func TestShortStringRejectsTruncatedBuffer(t *testing.T) {
	r := newKeyReader([]byte{5, 'h', 'i'}) // length prefix says 5, only 2 bytes follow
	_, err := r.readShortString()
	require.Error(t, err)
}

func TestMetadataKeyPrefixes(t *testing.T) {
	vid, err := NewID()
	require.NoError(t, err)

	key := vertexMetadataKey(vid, "display_name")
	prefix := vertexMetadataPrefix(vid)
	require.True(t, bytes.HasPrefix(key, prefix))

	otherID, err := NewID()
	require.NoError(t, err)
	require.False(t, bytes.HasPrefix(vertexMetadataKey(otherID, "display_name"), prefix))
}
