package chord

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCreatePostcondition(t *testing.T) {
	ring := newFakeRing()
	a := newTestNode(ring, 10)
	a.Create()

	snap := a.Snapshot()
	require.True(t, snap.Predecessor.Absent())
	require.True(t, snap.Successor.Equal(a.Self()))
	require.Len(t, snap.Successors, 1)
	require.True(t, snap.Successors[0].Equal(a.Self()))
	for _, f := range snap.Fingers {
		require.True(t, f.Equal(a.Self()))
	}
	require.True(t, snap.Joined)
}

func TestFingerZeroAlwaysEqualsSuccessorAfterStabilize(t *testing.T) {
	ring := newFakeRing()
	a := newTestNode(ring, 10)
	b := newTestNode(ring, 20)

	a.Create()
	b.Join(context.Background(), a.Self())

	for i := 0; i < 3; i++ {
		a.Stabilize(context.Background())
		b.Stabilize(context.Background())

		require.True(t, a.Snapshot().Fingers[0].Equal(a.GetSuccessor()))
		require.True(t, b.Snapshot().Fingers[0].Equal(b.GetSuccessor()))
	}
}

func TestSuccessorListHeadAlwaysEqualsSuccessor(t *testing.T) {
	ring := newFakeRing()
	a := newTestNode(ring, 10)
	b := newTestNode(ring, 20)
	c := newTestNode(ring, 30)

	a.Create()
	b.Join(context.Background(), a.Self())
	c.Join(context.Background(), a.Self())

	for i := 0; i < 5; i++ {
		for _, n := range []*Router{a, b, c} {
			n.Stabilize(context.Background())
			snap := n.Snapshot()
			if len(snap.Successors) > 0 {
				require.True(t, snap.Successors[0].Equal(snap.Successor))
			}
		}
	}
}

func TestFindSuccessorReturnsSelfWhenResponsible(t *testing.T) {
	ring := newFakeRing()
	a := newTestNode(ring, 10)
	b := newTestNode(ring, 20)
	c := newTestNode(ring, 30)

	a.Create()
	b.Join(context.Background(), a.Self())
	c.Join(context.Background(), a.Self())

	for i := 0; i < 5; i++ {
		a.Stabilize(context.Background())
		b.Stabilize(context.Background())
		c.Stabilize(context.Background())
	}

	// b is responsible for (10, 20]: key 15.
	got := b.FindSuccessor(context.Background(), 15)
	require.True(t, got.Equal(b.Self()))
}

func TestFixFingersIdempotentAtQuiescence(t *testing.T) {
	ring := newFakeRing()
	a := newTestNode(ring, 10)
	b := newTestNode(ring, 20)
	c := newTestNode(ring, 30)

	a.Create()
	b.Join(context.Background(), a.Self())
	c.Join(context.Background(), a.Self())

	for i := 0; i < 5; i++ {
		a.Stabilize(context.Background())
		b.Stabilize(context.Background())
		c.Stabilize(context.Background())
	}

	// Drive fix_fingers to convergence (throttled 1-in-3, M entries).
	for i := 0; i < 3*M*2; i++ {
		a.FixFingers(context.Background())
	}
	converged := a.Snapshot().Fingers

	for i := 0; i < 3*M*2; i++ {
		a.FixFingers(context.Background())
	}
	require.Equal(t, converged, a.Snapshot().Fingers)
}

func TestInRangeAgreesWithFullRingProperty(t *testing.T) {
	for s := uint32(0); s < 50; s++ {
		require.True(t, inRange(s, s, s))
	}
}
