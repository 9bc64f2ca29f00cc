package chord

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
)

// fakeRing is an in-process RemoteCaller that dispatches directly to
// other Router instances, simulating an RPC transport without opening
// real sockets. Nodes can be "killed" to simulate unreachability,
// exercising the same recovery paths a real transport failure would.
type fakeRing struct {
	nodes map[uint32]*Router
	dead  map[uint32]bool
}

func newFakeRing() *fakeRing {
	return &fakeRing{
		nodes: make(map[uint32]*Router),
		dead:  make(map[uint32]bool),
	}
}

func (f *fakeRing) add(r *Router) {
	f.nodes[r.Self().ID] = r
}

func (f *fakeRing) kill(id uint32) {
	f.dead[id] = true
}

func (f *fakeRing) resolve(target NodeRef) (*Router, error) {
	if f.dead[target.ID] {
		return nil, fmt.Errorf("node %d: connection refused", target.ID)
	}
	n, ok := f.nodes[target.ID]
	if !ok {
		return nil, fmt.Errorf("node %d: no such node", target.ID)
	}
	return n, nil
}

func (f *fakeRing) GetInfo(ctx context.Context, target NodeRef) (NodeRef, error) {
	n, err := f.resolve(target)
	if err != nil {
		return NodeRef{}, err
	}
	return n.Self(), nil
}

func (f *fakeRing) GetPredecessor(ctx context.Context, target NodeRef) (NodeRef, error) {
	n, err := f.resolve(target)
	if err != nil {
		return NodeRef{}, err
	}
	return n.GetPredecessor(), nil
}

func (f *fakeRing) GetSuccessor(ctx context.Context, target NodeRef) (NodeRef, error) {
	n, err := f.resolve(target)
	if err != nil {
		return NodeRef{}, err
	}
	return n.GetSuccessor(), nil
}

func (f *fakeRing) FindSuccessor(ctx context.Context, target NodeRef, id uint32) (NodeRef, error) {
	n, err := f.resolve(target)
	if err != nil {
		return NodeRef{}, err
	}
	return n.FindSuccessor(ctx, id), nil
}

func (f *fakeRing) Notify(ctx context.Context, target NodeRef, self NodeRef) error {
	n, err := f.resolve(target)
	if err != nil {
		return err
	}
	n.Notify(self)
	return nil
}

func newTestNode(ring *fakeRing, id uint32) *Router {
	self := NodeRef{ID: id, IP: "127.0.0.1", Port: uint16(10000 + id)}
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	r := NewRouter(self, ring, logrus.NewEntry(log))
	ring.add(r)
	return r
}
