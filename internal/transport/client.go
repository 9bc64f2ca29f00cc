package transport

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/ringkeep/chordnode/internal/chord"
	"github.com/rs/xid"
	"github.com/sirupsen/logrus"
	"golang.org/x/xerrors"
)

// Client implements chord.RemoteCaller over TCP. Every outbound call
// dials, sends, waits for the reply, and closes — one client scoped to
// that single call, released on every exit path (success, failure, or
// timeout). There is deliberately no connection pool: see DESIGN.md
// for why pooling was dropped for this concern.
type Client struct {
	Timeout time.Duration
	Log     *logrus.Entry
}

var _ chord.RemoteCaller = (*Client)(nil)

func target(n chord.NodeRef) string {
	return fmt.Sprintf("%s:%d", n.IP, n.Port)
}

func (c *Client) logger() *logrus.Entry {
	if c.Log != nil {
		return c.Log
	}
	return logrus.NewEntry(logrus.New())
}

// call dials target, sends kind+req, and decodes the reply into resp.
// The request ID is only used for log correlation.
func (c *Client) call(ctx context.Context, n chord.NodeRef, kind rpcType, req, resp interface{}) error {
	reqID := xid.New().String()
	log := c.logger().WithFields(logrus.Fields{"target": n.ID, "req": reqID})

	timeout := c.Timeout
	if timeout <= 0 {
		timeout = time.Second
	}
	if deadline, ok := ctx.Deadline(); ok {
		if d := time.Until(deadline); d < timeout {
			timeout = d
		}
	}

	conn, err := net.DialTimeout("tcp", target(n), timeout)
	if err != nil {
		log.WithError(err).Debug("transport: dial failed")
		return xerrors.Errorf("dial %s: %w", target(n), err)
	}
	defer conn.Close()

	conn.SetDeadline(time.Now().Add(timeout))

	w := bufio.NewWriter(conn)
	if _, err := w.Write([]byte{byte(kind)}); err != nil {
		return xerrors.Errorf("write rpc type: %w", err)
	}
	if err := newEncoder(w).Encode(req); err != nil {
		return xerrors.Errorf("encode request: %w", err)
	}
	if err := w.Flush(); err != nil {
		return xerrors.Errorf("flush request: %w", err)
	}

	r := bufio.NewReader(conn)
	dec := newDecoder(r)

	var rpcErr string
	if err := dec.Decode(&rpcErr); err != nil {
		return xerrors.Errorf("decode error frame: %w", err)
	}
	if rpcErr != "" {
		return errors.New(rpcErr)
	}
	if err := dec.Decode(resp); err != nil {
		return xerrors.Errorf("decode response: %w", err)
	}
	return nil
}

// GetInfo implements chord.RemoteCaller.
func (c *Client) GetInfo(ctx context.Context, n chord.NodeRef) (chord.NodeRef, error) {
	var resp NodeRefWire
	if err := c.call(ctx, n, rpcGetInfo, &GetInfoRequest{}, &resp); err != nil {
		return chord.NodeRef{}, err
	}
	return FromWire(resp), nil
}

// GetPredecessor implements chord.RemoteCaller.
func (c *Client) GetPredecessor(ctx context.Context, n chord.NodeRef) (chord.NodeRef, error) {
	var resp GetPredecessorResponse
	if err := c.call(ctx, n, rpcGetPredecessor, &GetPredecessorRequest{}, &resp); err != nil {
		return chord.NodeRef{}, err
	}
	return FromWire(resp.Predecessor), nil
}

// GetSuccessor implements chord.RemoteCaller.
func (c *Client) GetSuccessor(ctx context.Context, n chord.NodeRef) (chord.NodeRef, error) {
	var resp GetSuccessorResponse
	if err := c.call(ctx, n, rpcGetSuccessor, &GetSuccessorRequest{}, &resp); err != nil {
		return chord.NodeRef{}, err
	}
	return FromWire(resp.Successor), nil
}

// FindSuccessor implements chord.RemoteCaller.
func (c *Client) FindSuccessor(ctx context.Context, n chord.NodeRef, id uint32) (chord.NodeRef, error) {
	var resp FindSuccessorResponse
	if err := c.call(ctx, n, rpcFindSuccessor, &FindSuccessorRequest{ID: id}, &resp); err != nil {
		return chord.NodeRef{}, err
	}
	return FromWire(resp.Successor), nil
}

// Notify implements chord.RemoteCaller.
func (c *Client) Notify(ctx context.Context, n chord.NodeRef, self chord.NodeRef) error {
	var resp struct{}
	return c.call(ctx, n, rpcNotify, &NotifyRequest{Node: ToWire(self)}, &resp)
}
