package graph

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestVertexManagerCreateGetUpdate(t *testing.T) {
	s := newTestStore(t)
	vm := newVertexManager(s)

	owner := mustNewID(t)
	id, err := vm.create("person", owner)
	require.NoError(t, err)

	gotOwner, gotType, found, err := vm.get(id)
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, owner, gotOwner)
	require.Equal(t, Type("person"), gotType)

	require.NoError(t, s.update(func(b *Batch) error {
		return vm.update(b, id, owner, "robot")
	}))

	_, gotType, _, err = vm.get(id)
	require.NoError(t, err)
	require.Equal(t, Type("robot"), gotType)
}

func TestVertexManagerCreateRejectsEmptyType(t *testing.T) {
	s := newTestStore(t)
	vm := newVertexManager(s)

	_, err := vm.create("", mustNewID(t))
	require.Error(t, err)
}

// TestVertexManagerDeleteCascadesSelfLoop exercises the self-loop case
// VertexManager.delete's doc comment calls out explicitly: an edge
// where outbound == inbound == the vertex being deleted is found by
// both the forward and reverse scans and must not be left dangling.
func TestVertexManagerDeleteCascadesSelfLoop(t *testing.T) {
	s := newTestStore(t)
	vm := newVertexManager(s)
	em := newEdgeManager(s)

	owner := mustNewID(t)
	id, err := vm.create("person", owner)
	require.NoError(t, err)

	require.NoError(t, s.update(func(b *Batch) error {
		return em.set(b, id, "knows", id, 100, 0.5)
	}))

	require.NoError(t, s.update(func(b *Batch) error {
		return vm.delete(b, id)
	}))

	exists, err := vm.exists(id)
	require.NoError(t, err)
	require.False(t, exists)

	edgeExists, err := em.exists(id, "knows", id)
	require.NoError(t, err)
	require.False(t, edgeExists)
}
