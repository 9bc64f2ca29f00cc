package chord

import "context"

// Join enters an existing ring through the bootstrap node n. The
// source this protocol was distilled from marks the node joined even
// when the bootstrap lookup fails entirely, yielding a solo ring
// rather than an error — preserved here verbatim (see DESIGN.md).
func (r *Router) Join(ctx context.Context, n NodeRef) {
	r.mu.Lock()
	r.predecessor = NodeRef{}
	r.joined = false
	self := r.self
	r.mu.Unlock()

	r.log.WithField("via", n.ID).Debug("joining ring")

	successor, err := r.caller.FindSuccessor(ctx, n, self.ID)
	if err != nil {
		r.mu.Lock()
		r.resetToSoloLocked()
		r.joined = true
		r.mu.Unlock()
		r.log.WithError(err).Warn("join: bootstrap lookup failed, becoming solo ring")
		return
	}

	r.mu.Lock()
	r.successor = successor
	r.fingers[0] = successor
	r.mu.Unlock()

	for i := 1; i < M; i++ {
		start := fingerTarget(self.ID, i)
		f, err := r.caller.FindSuccessor(ctx, n, start)
		r.mu.Lock()
		if err != nil {
			r.fingers[i] = r.successor
		} else {
			r.fingers[i] = f
		}
		r.mu.Unlock()
	}

	r.mu.Lock()
	r.rebuildSuccessorListLocked(ctx)
	r.joined = true
	notifyTarget := r.successor
	r.mu.Unlock()

	r.log.WithField("successor", successor.ID).Debug("joined ring")

	// Best-effort: failure to notify does not affect join outcome.
	if err := r.caller.Notify(ctx, notifyTarget, self); err != nil {
		r.log.WithError(err).Debug("join: notify of new successor failed")
	}
}
