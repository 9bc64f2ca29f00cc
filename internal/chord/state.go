package chord

import (
	"sync"

	"github.com/sirupsen/logrus"
)

// Router holds the routing state of exactly one Chord node: self,
// predecessor, successor, successor list, and finger table. It is
// owned exclusively by the node's own process; remote nodes only ever
// observe or mutate it indirectly, through the RPC handlers in
// internal/node.
//
// A single mutex guards every field below mu. This is the
// synchronization discipline the design calls for: simple, and
// sufficient, since no outbound RPC is ever held while the lock is
// taken (see lookup.go, stabilize.go, fingers.go, predecessor.go).
type Router struct {
	mu sync.Mutex

	self        NodeRef
	predecessor NodeRef
	successor   NodeRef
	successors  []NodeRef
	fingers     [M]NodeRef
	nextFinger  int
	joined      bool

	stabilizeTicks int
	fingerTicks    int

	caller RemoteCaller
	log    *logrus.Entry
}

// NewRouter constructs a node's routing state, unjoined, pointing at
// nothing but itself. Call Create or Join to put it into a usable
// state.
func NewRouter(self NodeRef, caller RemoteCaller, log *logrus.Entry) *Router {
	if log == nil {
		log = logrus.NewEntry(logrus.New())
	}
	r := &Router{
		self:   self,
		caller: caller,
		log:    log.WithField("node", self.ID),
	}
	for i := range r.fingers {
		r.fingers[i] = self
	}
	r.successor = self
	r.successors = []NodeRef{self}
	return r
}

// Self returns the node's own NodeRef.
func (r *Router) Self() NodeRef {
	return r.self
}

// Snapshot is a consistent point-in-time copy of the routing state,
// used both by the read-only RPC handlers and by the persistence
// layer in internal/store.
type Snapshot struct {
	Self        NodeRef
	Predecessor NodeRef
	Successor   NodeRef
	Successors  []NodeRef
	Fingers     [M]NodeRef
	NextFinger  int
	Joined      bool
}

// Snapshot returns a copy of the current routing state.
func (r *Router) Snapshot() Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.snapshotLocked()
}

func (r *Router) snapshotLocked() Snapshot {
	successors := make([]NodeRef, len(r.successors))
	copy(successors, r.successors)
	return Snapshot{
		Self:        r.self,
		Predecessor: r.predecessor,
		Successor:   r.successor,
		Successors:  successors,
		Fingers:     r.fingers,
		NextFinger:  r.nextFinger,
		Joined:      r.joined,
	}
}

// GetPredecessor is the pure-read RPC handler contract: returns the
// current predecessor, possibly absent.
func (r *Router) GetPredecessor() NodeRef {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.predecessor
}

// GetSuccessor is the pure-read RPC handler contract: the successor
// is never absent.
func (r *Router) GetSuccessor() NodeRef {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.successor
}

// Joined reports whether the node currently believes it has a valid
// place in a ring (solo or joined).
func (r *Router) Joined() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.joined
}

// Create bootstraps a brand-new, singleton ring: predecessor absent,
// successor and every finger pointing at self, successor list
// containing only self.
func (r *Router) Create() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.predecessor = NodeRef{}
	r.successor = r.self
	r.successors = []NodeRef{r.self}
	for i := range r.fingers {
		r.fingers[i] = r.self
	}
	r.joined = true

	r.log.Debug("created new ring")
}

// resetToSoloLocked collapses the node back to a solo ring. Called
// from the stabilizer's recovery path when every candidate successor
// has failed, and from Join's fallback when the bootstrap node is
// unreachable. The node remains joined: this keeps it available for
// future joins rather than making it unusable.
func (r *Router) resetToSoloLocked() {
	r.successor = r.self
	r.successors = []NodeRef{r.self}
	for i := range r.fingers {
		r.fingers[i] = r.self
	}
}
