package chord

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestInRangeFullRing(t *testing.T) {
	// in_range(id, s, s) == true for every s and id (full-ring case).
	for _, s := range []uint32{0, 1, 42, 1 << 31} {
		for _, id := range []uint32{0, 1, 42, 1 << 31, ^uint32(0)} {
			require.True(t, inRange(id, s, s))
		}
	}
}

func TestInRangeNonWrapping(t *testing.T) {
	require.True(t, inRange(15, 10, 20))
	require.True(t, inRange(20, 10, 20))
	require.False(t, inRange(10, 10, 20))
	require.False(t, inRange(21, 10, 20))
	require.False(t, inRange(5, 10, 20))
}

func TestInRangeWrapping(t *testing.T) {
	// Ring wraps past zero: arc (250, 5].
	require.True(t, inRange(255, 250, 5))
	require.True(t, inRange(0, 250, 5))
	require.True(t, inRange(5, 250, 5))
	require.False(t, inRange(6, 250, 5))
	require.False(t, inRange(200, 250, 5))
}

func TestFingerTargetUsesRingModulusMinusOne(t *testing.T) {
	// Preserved verbatim from the source: modulus is 2^32-1, not 2^32.
	var self uint32 = 0
	got := fingerTarget(self, 0)
	require.Equal(t, uint32(1), got)

	// self + 2^0 wraps against 2^32-1, not 2^32.
	self = ringModulus32(t) - 1
	got = fingerTarget(self, 0)
	require.Equal(t, uint32(0), got)
}

// ringModulus32 returns ringModulus truncated to uint32 for tests that
// need to probe the boundary.
func ringModulus32(t *testing.T) uint32 {
	t.Helper()
	return uint32(ringModulus)
}

func TestNodeRefAbsentAndEqual(t *testing.T) {
	var absent NodeRef
	require.True(t, absent.Absent())

	present := NodeRef{ID: 7, IP: "10.0.0.1", Port: 9000}
	require.False(t, present.Absent())

	other := NodeRef{ID: 7, IP: "10.0.0.2", Port: 1}
	require.True(t, present.Equal(other))

	different := NodeRef{ID: 8, IP: "10.0.0.1", Port: 9000}
	require.False(t, present.Equal(different))
}
