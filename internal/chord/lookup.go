package chord

import "context"

// closestPrecedingNodeLocked scans the finger table from the highest
// index down and returns the first finger that lies strictly between
// self (exclusive) and id (exclusive) on the ring, skipping empty
// entries and entries equal to self. Falls back to self if none
// qualifies. Must be called with mu held.
func (r *Router) closestPrecedingNodeLocked(id uint32) NodeRef {
	for i := M - 1; i >= 0; i-- {
		f := r.fingers[i]
		if f.Absent() || f.Equal(r.self) {
			continue
		}
		if inRange(f.ID, r.self.ID, id) && f.ID != id {
			return f
		}
	}
	return r.self
}

// FindSuccessor is the core routing operation: find the node currently
// believed responsible for id, recursing across the ring through
// closer and closer predecessors when necessary.
func (r *Router) FindSuccessor(ctx context.Context, id uint32) NodeRef {
	r.mu.Lock()
	self := r.self
	predecessor := r.predecessor
	successor := r.successor

	// Solo ring: we are the only node, so we answer for everything.
	if successor.Equal(self) {
		r.mu.Unlock()
		return self
	}

	if !predecessor.Absent() && inRange(id, predecessor.ID, self.ID) {
		r.mu.Unlock()
		return self
	}

	if inRange(id, self.ID, successor.ID) {
		r.mu.Unlock()
		return successor
	}

	n := r.closestPrecedingNodeLocked(id)
	r.mu.Unlock()

	if n.Equal(self) {
		// Avoid a self-call; fall back to our successor.
		return successor
	}

	reply, err := r.caller.FindSuccessor(ctx, n, id)
	if err != nil {
		r.log.WithError(err).WithField("via", n.ID).Debug("find_successor forward failed, answering with successor")
		return successor
	}
	return reply
}
