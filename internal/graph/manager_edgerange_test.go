package graph

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEdgeRangeManagerIterateForRangeAscending(t *testing.T) {
	s := newTestStore(t)
	em := newEdgeManager(s)
	fwd := newEdgeRangeManager(s, cfEdgeRanges)

	o := mustNewID(t)
	i1, i2, i3 := mustNewID(t), mustNewID(t), mustNewID(t)

	require.NoError(t, s.update(func(b *Batch) error {
		if err := em.set(b, o, "likes", i1, 300, 0.1); err != nil {
			return err
		}
		if err := em.set(b, o, "likes", i2, 100, 0.2); err != nil {
			return err
		}
		return em.set(b, o, "likes", i3, 200, 0.3)
	}))

	var order []int64
	err := fwd.iterateForRange(o, "likes", func(e RangeEntry) error {
		order = append(order, e.Ts)
		return nil
	})
	require.NoError(t, err)
	require.Equal(t, []int64{100, 200, 300}, order, "ascending key order within a slice is ascending timestamp order")
}

func TestEdgeRangeManagerReverseIterateStopsAtPrefix(t *testing.T) {
	s := newTestStore(t)
	em := newEdgeManager(s)
	fwd := newEdgeRangeManager(s, cfEdgeRanges)

	o1, o2 := mustNewID(t), mustNewID(t)
	i := mustNewID(t)

	require.NoError(t, s.update(func(b *Batch) error {
		if err := em.set(b, o1, "likes", i, 100, 0.1); err != nil {
			return err
		}
		return em.set(b, o2, "likes", i, 200, 0.2)
	}))

	var seen []ID
	err := fwd.reverseIterateForRange(o1, "likes", MaxTimestamp, func(e RangeEntry) error {
		seen = append(seen, e.FirstID)
		return nil
	})
	require.NoError(t, err)
	require.Len(t, seen, 1, "the scan must not cross into o2's slice")
	require.Equal(t, o1, seen[0])
}

func TestEdgeRangeManagerCount(t *testing.T) {
	s := newTestStore(t)
	em := newEdgeManager(s)
	fwd := newEdgeRangeManager(s, cfEdgeRanges)

	o := mustNewID(t)
	i1, i2 := mustNewID(t), mustNewID(t)

	count, err := fwd.count(o, "likes")
	require.NoError(t, err)
	require.Zero(t, count)

	require.NoError(t, s.update(func(b *Batch) error {
		if err := em.set(b, o, "likes", i1, 100, 0.1); err != nil {
			return err
		}
		return em.set(b, o, "likes", i2, 200, 0.2)
	}))

	count, err = fwd.count(o, "likes")
	require.NoError(t, err)
	require.EqualValues(t, 2, count)
}
