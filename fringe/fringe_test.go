package fringe_test

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/waypath/core"
	"github.com/katalvlaran/waypath/fringe"
)

func TestFringe_EmptyPop(t *testing.T) {
	var f fringe.Fringe
	_, err := f.PopMin()
	require.ErrorIs(t, err, fringe.ErrEmptyFringe)
	_, err = f.Peek()
	require.ErrorIs(t, err, fringe.ErrEmptyFringe)
	require.Zero(t, f.Len())
}

func TestFringe_PopsInDistanceOrder(t *testing.T) {
	f := fringe.New(4)
	for i, d := range []float64{5, 1, 4, 2, 3} {
		f.Insert(fringe.Entry{Node: core.NodeID(i), Dist: d, Prev: core.NoNode})
	}
	require.Equal(t, 5, f.Len())

	top, err := f.Peek()
	require.NoError(t, err)
	require.Equal(t, core.NodeID(1), top.Node)

	var got []float64
	for f.Len() > 0 {
		e, err := f.PopMin()
		require.NoError(t, err)
		got = append(got, e.Dist)
	}
	require.Equal(t, []float64{1, 2, 3, 4, 5}, got)
}

func TestFringe_EqualDistancesKeepInsertionOrder(t *testing.T) {
	f := fringe.New(0)
	f.Insert(fringe.Entry{Node: 10, Dist: 2})
	f.Insert(fringe.Entry{Node: 20, Dist: 1})
	f.Insert(fringe.Entry{Node: 30, Dist: 2})
	f.Insert(fringe.Entry{Node: 40, Dist: 1})
	f.Insert(fringe.Entry{Node: 50, Dist: 2})

	var got []core.NodeID
	for f.Len() > 0 {
		e, err := f.PopMin()
		require.NoError(t, err)
		got = append(got, e.Node)
	}
	require.Equal(t, []core.NodeID{20, 40, 10, 30, 50}, got)
}

// TestFringe_RandomInterleaving mixes inserts and pops and checks that every
// pop is non-decreasing relative to what is still queued, and that ties come
// out in insertion order.
func TestFringe_RandomInterleaving(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	f := fringe.New(8)
	seq := 0
	last := fringe.Entry{Dist: -1, Node: -1}

	for step := 0; step < 2000; step++ {
		if rng.Intn(3) > 0 || f.Len() == 0 {
			// Small integer distances force plenty of ties.
			d := float64(rng.Intn(6)) + last.Dist + 1
			if last.Dist < 0 {
				d = float64(rng.Intn(6))
			}
			f.Insert(fringe.Entry{Node: core.NodeID(seq), Dist: d})
			seq++
			continue
		}

		e, err := f.PopMin()
		require.NoError(t, err)
		require.GreaterOrEqual(t, e.Dist, last.Dist, "step %d", step)
		if e.Dist == last.Dist {
			require.Greater(t, e.Node, last.Node, "tie order at step %d", step)
		}
		last = e
	}
}

func TestFringe_Reset(t *testing.T) {
	f := fringe.New(2)
	f.Insert(fringe.Entry{Node: 1, Dist: 1})
	f.Insert(fringe.Entry{Node: 2, Dist: 2})
	_, _ = f.PopMin()
	f.Reset()
	require.Zero(t, f.Len())

	f.Insert(fringe.Entry{Node: 3, Dist: 0.5})
	e, err := f.PopMin()
	require.NoError(t, err)
	require.Equal(t, core.NodeID(3), e.Node)
}
