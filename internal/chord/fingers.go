package chord

import "context"

// FixFingers refreshes one finger table entry per invocation,
// round-robin, throttled to fire on every third call to amortize RPC
// cost. It is a no-op when unjoined or when the ring is solo.
func (r *Router) FixFingers(ctx context.Context) {
	r.mu.Lock()
	if !r.joined || r.successor.Equal(r.self) {
		r.mu.Unlock()
		return
	}

	r.fingerTicks++
	if r.fingerTicks < 3 {
		r.mu.Unlock()
		return
	}
	r.fingerTicks = 0

	self := r.self
	idx := r.nextFinger
	start := fingerTarget(self.ID, idx)

	// Choose a dispatch node: the highest finger whose id lies in
	// (self, start), falling back to the successor.
	dispatch := r.successor
	for i := M - 1; i >= 0; i-- {
		f := r.fingers[i]
		if !f.Absent() && inRange(f.ID, self.ID, start) && f.ID != start {
			dispatch = f
			break
		}
	}
	successor := r.successor
	r.mu.Unlock()

	reply, err := r.caller.FindSuccessor(ctx, dispatch, start)

	r.mu.Lock()
	if err != nil {
		r.fingers[idx] = successor
		r.log.WithError(err).WithField("finger", idx).Debug("fix_fingers: RPC failed, fell back to successor")
	} else {
		r.fingers[idx] = reply
	}
	r.nextFinger = (idx + 1) % M
	r.mu.Unlock()
}
