// Package chord implements the routing core of a Chord ring node: the
// identifier arithmetic, the per-node routing state, the lookup engine,
// and the stabilize / fix_fingers / check_predecessor maintenance
// procedures. The RPC transport, the periodic-task driver, and any
// application storage built on top of routing are deliberately kept
// out of this package.
package chord

import "fmt"

// M is the number of entries in the finger table. The source this ring
// was distilled from truncates from the textbook log2(2^32) = 32 down
// to 4 entries for cost reasons; lookups stay correct but take more
// hops in the worst case.
const M = 4

// L is the length of the successor list used for failover.
const L = 5

// ringModulus is the modulus finger-target arithmetic is computed
// against. It is 2^32-1, not 2^32, preserved verbatim from the source
// this protocol was distilled from (see id_test.go and DESIGN.md for
// the off-by-one discussion).
const ringModulus uint64 = 1<<32 - 1

// NodeRef is the minimal descriptor used everywhere in the ring: an
// identifier and the network address to reach it at. Equality between
// two NodeRefs is by ID alone. NodeRef is a plain value: freely
// copyable, never owning.
type NodeRef struct {
	ID   uint32
	IP   string
	Port uint16
}

// Absent reports whether n denotes "no such node". The zero NodeRef is
// absent, matching the wire convention that an empty IP means absent.
func (n NodeRef) Absent() bool {
	return n.IP == ""
}

// Equal compares two NodeRefs by ID alone.
func (n NodeRef) Equal(o NodeRef) bool {
	return n.ID == o.ID
}

func (n NodeRef) String() string {
	if n.Absent() {
		return "<absent>"
	}
	return fmt.Sprintf("%d@%s:%d", n.ID, n.IP, n.Port)
}

// inRange decides whether id lies in the half-open arc (start, end] on
// the modular ring. Direct numeric comparison of identifiers elsewhere
// in this package is forbidden; every ring comparison goes through
// this predicate.
func inRange(id, start, end uint32) bool {
	if start == end {
		// The arc spans the entire ring.
		return true
	}
	if start < end {
		return id > start && id <= end
	}
	// Wrapping past zero.
	return id > start || id <= end
}

// fingerTarget computes the identifier (self + 2^i) mod (2^32 - 1),
// the target for finger table entry i.
func fingerTarget(self uint32, i int) uint32 {
	offset := uint64(1) << uint(i)
	return uint32((uint64(self) + offset) % ringModulus)
}
