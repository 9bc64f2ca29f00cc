// Package transport implements the RPC surface a Chord node exposes
// and consumes: a blocking, connect-by-(ip,port) request/response
// protocol, with a fresh client scoped to each outbound call.
package transport

// RPCResponse captures both a response and a potential error.
type RPCResponse struct {
	Response interface{}
	Error    error
}

// RPC represents one inbound request and the channel its handler uses
// to reply.
type RPC struct {
	Command  interface{}
	RespChan chan<- RPCResponse
}

// Respond sends a response or error back to whatever is waiting on
// this RPC.
func (r *RPC) Respond(resp interface{}, err error) {
	r.RespChan <- RPCResponse{Response: resp, Error: err}
}

// Server is the inbound half of a transport: it accepts connections
// and hands each decoded command to Consumer for a handler to answer.
type Server interface {
	// Consumer returns the channel inbound RPCs are delivered on.
	Consumer() <-chan RPC

	// LocalAddr is the address this server is bound to.
	LocalAddr() string

	// Listen starts accepting connections; it blocks until Close is
	// called or a fatal accept error occurs.
	Listen() error

	// Close stops the server and releases its listening socket.
	Close() error
}
