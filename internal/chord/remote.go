package chord

import "context"

// RemoteCaller is the contract the routing core needs from whatever
// sits underneath it to reach other nodes. It is implemented by
// internal/transport.Client. Every method is a single blocking
// request/response RPC, bounded by whatever timeout the caller's
// context carries; a transport error is reported back as err and is
// never distinguished from a timeout: both are treated as ordinary
// transport failure.
type RemoteCaller interface {
	GetInfo(ctx context.Context, target NodeRef) (NodeRef, error)
	GetPredecessor(ctx context.Context, target NodeRef) (NodeRef, error)
	GetSuccessor(ctx context.Context, target NodeRef) (NodeRef, error)
	FindSuccessor(ctx context.Context, target NodeRef, id uint32) (NodeRef, error)
	Notify(ctx context.Context, target NodeRef, self NodeRef) error
}
