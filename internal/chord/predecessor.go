package chord

import "context"

// CheckPredecessor is the predecessor liveness monitor. It is a no-op
// when unjoined or when there is no predecessor to probe. On failure
// it clears the predecessor; it never searches for a replacement —
// the next successful Notify from some node repopulates it.
func (r *Router) CheckPredecessor(ctx context.Context) {
	r.mu.Lock()
	if !r.joined || r.predecessor.Absent() {
		r.mu.Unlock()
		return
	}
	predecessor := r.predecessor
	r.mu.Unlock()

	if _, err := r.caller.GetInfo(ctx, predecessor); err != nil {
		r.mu.Lock()
		if r.predecessor.Equal(predecessor) {
			r.predecessor = NodeRef{}
		}
		r.mu.Unlock()
		r.log.WithError(err).WithField("predecessor", predecessor.ID).Debug("check_predecessor: cleared unreachable predecessor")
	}
}
