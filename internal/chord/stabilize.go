package chord

import "context"

// rebuildSuccessorListLocked rebuilds the successor list starting from
// the current successor: [successor, successor.get_successor(),
// ...], stopping early if the ring closes (next == successor) or
// wraps back to self, and truncating silently on transport failure.
// Must be called with mu held; releases and re-acquires it around the
// outbound RPCs.
func (r *Router) rebuildSuccessorListLocked(ctx context.Context) {
	successor := r.successor
	self := r.self

	list := []NodeRef{successor}
	current := successor

	r.mu.Unlock()
	for i := 1; i < L; i++ {
		next, err := r.caller.GetSuccessor(ctx, current)
		if err != nil {
			break
		}
		if next.Equal(successor) || next.Equal(self) {
			break
		}
		list = append(list, next)
		current = next
	}
	r.mu.Lock()

	r.successors = list
}

// Stabilize is the periodic stabilization procedure. It is a no-op
// when the node has not joined a ring.
func (r *Router) Stabilize(ctx context.Context) {
	r.mu.Lock()
	if !r.joined {
		r.mu.Unlock()
		return
	}
	self := r.self
	successor := r.successor
	r.mu.Unlock()

	x, err := r.caller.GetPredecessor(ctx, successor)
	if err != nil {
		r.log.WithError(err).WithField("successor", successor.ID).Warn("stabilize: successor unreachable, entering recovery")
		r.recover(ctx, successor)
		return
	}

	r.mu.Lock()
	changed := false
	if !x.Absent() && x.ID != self.ID {
		shouldAdopt := r.successor.Equal(self) || inRange(x.ID, self.ID, r.successor.ID)
		if shouldAdopt {
			r.successor = x
			r.fingers[0] = x
			changed = true
			r.log.WithField("successor", x.ID).Debug("stabilize: adopted new successor")
		}
	}
	notifyTarget := r.successor
	if changed {
		r.rebuildSuccessorListLocked(ctx)
	}
	r.mu.Unlock()

	if err := r.caller.Notify(ctx, notifyTarget, self); err != nil {
		r.log.WithError(err).WithField("successor", notifyTarget.ID).Warn("stabilize: notify failed, entering recovery")
		r.recover(ctx, notifyTarget)
		return
	}

	r.mu.Lock()
	r.stabilizeTicks++
	if r.stabilizeTicks >= 3 {
		r.stabilizeTicks = 0
		r.rebuildSuccessorListLocked(ctx)
	}
	r.mu.Unlock()
}

// recover implements the stabilizer's recovery path: walk the
// successor list, then the finger table, probing each candidate with
// get_info; promote the first one that answers. If nothing answers,
// collapse to a solo ring.
func (r *Router) recover(ctx context.Context, failedSuccessor NodeRef) {
	r.mu.Lock()
	candidates := make([]NodeRef, len(r.successors))
	copy(candidates, r.successors)
	self := r.self
	fingers := r.fingers
	r.mu.Unlock()

	// a. Walk the successor list from index 1 onward.
	for i := 1; i < len(candidates); i++ {
		c := candidates[i]
		if c.Absent() {
			continue
		}
		if _, err := r.caller.GetInfo(ctx, c); err == nil {
			r.promote(ctx, c, "successor-list")
			return
		}
	}

	// b. Walk the finger table, skipping empty entries, self, and the
	// failed successor.
	for _, f := range fingers {
		if f.Absent() || f.Equal(self) || f.Equal(failedSuccessor) {
			continue
		}
		if _, err := r.caller.GetInfo(ctx, f); err == nil {
			r.promote(ctx, f, "finger-table")
			return
		}
	}

	// c. Everything failed: collapse to a solo ring. The node stays
	// joined, available for future joins.
	r.mu.Lock()
	r.resetToSoloLocked()
	r.mu.Unlock()
	r.log.Warn("stabilize: all recovery candidates failed, reverted to solo ring")
}

func (r *Router) promote(ctx context.Context, n NodeRef, via string) {
	r.mu.Lock()
	r.successor = n
	r.fingers[0] = n
	r.rebuildSuccessorListLocked(ctx)
	r.mu.Unlock()
	r.log.WithFields(map[string]interface{}{"successor": n.ID, "via": via}).Debug("stabilize: recovered successor")
}

// Notify is the notify(n) RPC handler. The receiver accepts n as its
// predecessor whenever its current predecessor is absent, or n falls
// in the arc strictly after the current predecessor, up to and
// including self — it never rejects an otherwise-valid predecessor.
func (r *Router) Notify(n NodeRef) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.predecessor.Absent() || inRange(n.ID, r.predecessor.ID, r.self.ID) {
		r.predecessor = n
		r.log.WithField("predecessor", n.ID).Debug("notify: updated predecessor")
	}
}
