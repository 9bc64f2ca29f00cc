package transport

import "github.com/ringkeep/chordnode/internal/chord"

// rpcType tags the frame so the server knows which request type
// follows on the wire; every frame is prefixed with a one-byte
// rpcType.
type rpcType uint8

const (
	rpcGetInfo rpcType = iota
	rpcCreate
	rpcJoin
	rpcFindSuccessor
	rpcNotify
	rpcGetPredecessor
	rpcGetSuccessor
	rpcGetSuccessorList
	rpcGetFingerTable
)

// NodeRefWire is the wire encoding of a chord.NodeRef:
// {id: u32, ip: string, port: u16}. Absence is encoded as ip == "".
type NodeRefWire struct {
	ID   uint32 `codec:"id"`
	IP   string `codec:"ip"`
	Port uint16 `codec:"port"`
}

// ToWire translates the internal NodeRef representation to its wire
// form.
func ToWire(n chord.NodeRef) NodeRefWire {
	return NodeRefWire{ID: n.ID, IP: n.IP, Port: n.Port}
}

// FromWire translates a wire NodeRef back to the internal
// representation.
func FromWire(w NodeRefWire) chord.NodeRef {
	return chord.NodeRef{ID: w.ID, IP: w.IP, Port: w.Port}
}

// GetInfoRequest carries no arguments; reply is a NodeRefWire (self).
type GetInfoRequest struct{}

// CreateRequest carries no arguments; there is no reply payload.
type CreateRequest struct{}

// JoinRequest names the bootstrap node to join through.
type JoinRequest struct {
	Bootstrap NodeRefWire `codec:"bootstrap"`
}

// FindSuccessorRequest asks the target who is responsible for ID.
type FindSuccessorRequest struct {
	ID uint32 `codec:"id"`
}

// FindSuccessorResponse answers a FindSuccessorRequest.
type FindSuccessorResponse struct {
	Successor NodeRefWire `codec:"successor"`
}

// NotifyRequest tells the target it may be our successor, so it
// should consider us as its predecessor.
type NotifyRequest struct {
	Node NodeRefWire `codec:"node"`
}

// GetPredecessorRequest carries no arguments.
type GetPredecessorRequest struct{}

// GetPredecessorResponse answers a get_predecessor request; the
// NodeRefWire may be absent (IP == "").
type GetPredecessorResponse struct {
	Predecessor NodeRefWire `codec:"predecessor"`
}

// GetSuccessorRequest carries no arguments.
type GetSuccessorRequest struct{}

// GetSuccessorResponse answers a get_successor request.
type GetSuccessorResponse struct {
	Successor NodeRefWire `codec:"successor"`
}

// GetSuccessorListRequest carries no arguments.
type GetSuccessorListRequest struct{}

// GetFingerTableRequest carries no arguments.
type GetFingerTableRequest struct{}

// GetSuccessorListResponse is additive, read-only introspection
// surface letting an operator observe ring convergence; it never
// mutates state.
type GetSuccessorListResponse struct {
	Successors []NodeRefWire `codec:"successors"`
}

// GetFingerTableResponse is additive, read-only introspection surface
// mirroring GetSuccessorListResponse.
type GetFingerTableResponse struct {
	Fingers []NodeRefWire `codec:"fingers"`
}
