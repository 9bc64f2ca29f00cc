package node

import (
	"context"
	"fmt"
	"net"
	"strconv"

	"github.com/ringkeep/chordnode/internal/transport"
)

func splitHostPort(addr string) (string, uint16, error) {
	host, portStr, err := net.SplitHostPort(addr)
	if err != nil {
		return "", 0, err
	}
	port, err := strconv.ParseUint(portStr, 10, 16)
	if err != nil {
		return "", 0, fmt.Errorf("node: bad port in %q: %w", addr, err)
	}
	return host, uint16(port), nil
}

// serveRPCs drains the transport's Consumer channel and dispatches
// each inbound command to the matching Router method. Handlers never
// surface routing-internal errors to the remote caller: a failed
// outbound RPC made during handling is absorbed by the Router itself,
// never returned here.
func (n *Node) serveRPCs() {
	for rpc := range n.server.Consumer() {
		rpc.Respond(n.dispatch(rpc.Command), nil)
	}
}

func (n *Node) dispatch(cmd interface{}) interface{} {
	ctx, cancel := context.WithTimeout(context.Background(), n.cfg.RPCTimeout)
	defer cancel()

	switch c := cmd.(type) {
	case *transport.GetInfoRequest:
		return transport.ToWire(n.router.Self())

	case *transport.CreateRequest:
		n.router.Create()
		return struct{}{}

	case *transport.JoinRequest:
		n.router.Join(ctx, transport.FromWire(c.Bootstrap))
		return struct{}{}

	case *transport.FindSuccessorRequest:
		successor := n.router.FindSuccessor(ctx, c.ID)
		return transport.FindSuccessorResponse{Successor: transport.ToWire(successor)}

	case *transport.NotifyRequest:
		n.router.Notify(transport.FromWire(c.Node))
		return struct{}{}

	case *transport.GetPredecessorRequest:
		return transport.GetPredecessorResponse{Predecessor: transport.ToWire(n.router.GetPredecessor())}

	case *transport.GetSuccessorRequest:
		return transport.GetSuccessorResponse{Successor: transport.ToWire(n.router.GetSuccessor())}

	case *transport.GetSuccessorListRequest:
		snap := n.router.Snapshot()
		wire := make([]transport.NodeRefWire, len(snap.Successors))
		for i, s := range snap.Successors {
			wire[i] = transport.ToWire(s)
		}
		return transport.GetSuccessorListResponse{Successors: wire}

	case *transport.GetFingerTableRequest:
		snap := n.router.Snapshot()
		wire := make([]transport.NodeRefWire, len(snap.Fingers))
		for i, f := range snap.Fingers {
			wire[i] = transport.ToWire(f)
		}
		return transport.GetFingerTableResponse{Fingers: wire}

	default:
		n.log.WithField("type", fmt.Sprintf("%T", cmd)).Warn("node: unhandled rpc command")
		return struct{}{}
	}
}
