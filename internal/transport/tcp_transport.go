package transport

import (
	"bufio"
	"errors"
	"fmt"
	"net"
	"sync"

	"github.com/sirupsen/logrus"
)

// ErrServerShutdown is returned from operations invoked on a server
// that has already been closed.
var ErrServerShutdown = errors.New("transport: server shutdown")

// TCPServer accepts inbound Chord RPCs over plain TCP. Each connection
// is framed as a one-byte rpcType followed by a msgpack-encoded
// request; the reply is an error string (empty on success) followed
// by the msgpack-encoded response.
type TCPServer struct {
	log       *logrus.Entry
	listener  *net.TCPListener
	consumeCh chan RPC

	shutdownOnce sync.Once
	shutdownCh   chan struct{}
}

// NewTCPServer binds addr and returns a server ready to Listen.
func NewTCPServer(addr string, log *logrus.Entry) (*TCPServer, error) {
	resolved, err := net.ResolveTCPAddr("tcp", addr)
	if err != nil {
		return nil, err
	}
	listener, err := net.ListenTCP("tcp", resolved)
	if err != nil {
		return nil, err
	}
	if log == nil {
		log = logrus.NewEntry(logrus.New())
	}
	return &TCPServer{
		log:        log,
		listener:   listener,
		consumeCh:  make(chan RPC, 16),
		shutdownCh: make(chan struct{}),
	}, nil
}

// Consumer implements Server.
func (t *TCPServer) Consumer() <-chan RPC {
	return t.consumeCh
}

// LocalAddr implements Server.
func (t *TCPServer) LocalAddr() string {
	return t.listener.Addr().String()
}

// Close implements Server.
func (t *TCPServer) Close() error {
	var err error
	t.shutdownOnce.Do(func() {
		close(t.shutdownCh)
		err = t.listener.Close()
	})
	return err
}

func (t *TCPServer) isShutdown() bool {
	select {
	case <-t.shutdownCh:
		return true
	default:
		return false
	}
}

// Listen accepts connections until Close is called.
func (t *TCPServer) Listen() error {
	for {
		conn, err := t.listener.Accept()
		if err != nil {
			if t.isShutdown() {
				return nil
			}
			t.log.WithError(err).Error("transport: accept failed")
			continue
		}
		go t.handleConn(conn)
	}
}

func (t *TCPServer) handleConn(conn net.Conn) {
	defer conn.Close()

	r := bufio.NewReader(conn)
	w := bufio.NewWriter(conn)

	if err := t.handleCommand(r, w); err != nil {
		if err != ErrServerShutdown {
			t.log.WithError(err).Debug("transport: command failed")
		}
		return
	}
	if err := w.Flush(); err != nil {
		t.log.WithError(err).Debug("transport: flush failed")
	}
}

func (t *TCPServer) handleCommand(r *bufio.Reader, w *bufio.Writer) error {
	kind, err := r.ReadByte()
	if err != nil {
		return err
	}

	dec := newDecoder(r)

	var cmd interface{}
	switch rpcType(kind) {
	case rpcGetInfo:
		cmd = &GetInfoRequest{}
	case rpcCreate:
		cmd = &CreateRequest{}
	case rpcJoin:
		cmd = &JoinRequest{}
	case rpcFindSuccessor:
		cmd = &FindSuccessorRequest{}
	case rpcNotify:
		cmd = &NotifyRequest{}
	case rpcGetPredecessor:
		cmd = &GetPredecessorRequest{}
	case rpcGetSuccessor:
		cmd = &GetSuccessorRequest{}
	case rpcGetSuccessorList:
		cmd = &GetSuccessorListRequest{}
	case rpcGetFingerTable:
		cmd = &GetFingerTableRequest{}
	default:
		return fmt.Errorf("transport: unknown rpc type %d", kind)
	}

	if err := dec.Decode(cmd); err != nil {
		return err
	}

	respCh := make(chan RPCResponse, 1)
	select {
	case t.consumeCh <- RPC{Command: cmd, RespChan: respCh}:
	case <-t.shutdownCh:
		return ErrServerShutdown
	}

	select {
	case resp := <-respCh:
		errStr := ""
		if resp.Error != nil {
			errStr = resp.Error.Error()
		}
		enc := newEncoder(w)
		if err := enc.Encode(errStr); err != nil {
			return err
		}
		return enc.Encode(resp.Response)
	case <-t.shutdownCh:
		return ErrServerShutdown
	}
}
