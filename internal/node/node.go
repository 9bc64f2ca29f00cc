// Package node wires the routing core (internal/chord), the TCP RPC
// transport (internal/transport), and the badger snapshot store
// (internal/store) into one runnable Chord process, and drives the
// periodic maintenance loop. Identifier assignment and process
// supervision are deliberately kept out of the routing core itself;
// this package is the glue a runnable binary needs around it.
package node

import (
	"context"
	"hash/crc32"
	"sync"
	"time"

	"github.com/ringkeep/chordnode/internal/chord"
	"github.com/ringkeep/chordnode/internal/logging"
	"github.com/ringkeep/chordnode/internal/store"
	"github.com/ringkeep/chordnode/internal/transport"
	"github.com/sirupsen/logrus"
)

// DeriveID assigns a default 32-bit identifier from an address when
// none is configured explicitly. This is a convenience default only:
// assigning identifiers is explicitly out of the routing core's scope,
// and nothing in the ring's correctness depends on how an id was
// chosen.
func DeriveID(addr string) uint32 {
	return crc32.ChecksumIEEE([]byte(addr))
}

// Node is a single running Chord process: routing state, RPC server,
// RPC client, and (optionally) a persisted snapshot store.
type Node struct {
	cfg    *Config
	router *chord.Router
	server *transport.TCPServer
	client *transport.Client
	store  *store.SnapshotStore
	log    *logrus.Entry

	shutdownOnce sync.Once
	shutdownCh   chan struct{}
	doneCh       chan struct{}
}

// New constructs a Node bound to cfg.BindAddr, ready to Run. id is the
// node's own identifier; self.IP/Port are derived from cfg.Advertise().
func New(cfg *Config, id uint32, logger *logrus.Logger) (*Node, error) {
	server, err := transport.NewTCPServer(cfg.BindAddr, logging.Entry(logger, id))
	if err != nil {
		return nil, err
	}

	advertise := cfg.Advertise()
	if advertise == cfg.BindAddr {
		// BindAddr may use port 0 to let the OS pick a free port; once
		// bound, the server's actual LocalAddr is the correct address to
		// advertise, same host or otherwise.
		advertise = server.LocalAddr()
	}
	advIP, advPort, err := splitHostPort(advertise)
	if err != nil {
		server.Close()
		return nil, err
	}

	self := chord.NodeRef{ID: id, IP: advIP, Port: advPort}
	log := logging.Entry(logger, id)

	client := &transport.Client{Timeout: cfg.RPCTimeout, Log: log}
	router := chord.NewRouter(self, client, log)

	var snapStore *store.SnapshotStore
	if cfg.Store {
		snapStore, err = store.Open(cfg.DatabaseDir)
		if err != nil {
			server.Close()
			return nil, err
		}
	}

	return &Node{
		cfg:        cfg,
		router:     router,
		server:     server,
		client:     client,
		store:      snapStore,
		log:        log,
		shutdownCh: make(chan struct{}),
		doneCh:     make(chan struct{}),
	}, nil
}

// Self returns this node's own NodeRef.
func (n *Node) Self() chord.NodeRef {
	return n.router.Self()
}

// LocalAddr returns the address the RPC server is actually bound to.
func (n *Node) LocalAddr() string {
	return n.server.LocalAddr()
}

// Bootstrap either creates a new ring (bootstrap absent, i.e. an empty
// IP) or joins an existing one through the node at bootstrap.
func (n *Node) Bootstrap(ctx context.Context, bootstrap chord.NodeRef) {
	if bootstrap.Absent() {
		n.router.Create()
		return
	}
	n.router.Join(ctx, bootstrap)
}

// Run starts serving RPCs and the maintenance loop, blocking until
// Shutdown is called.
func (n *Node) Run() {
	go func() {
		if err := n.server.Listen(); err != nil {
			n.log.WithError(err).Error("node: listener exited")
		}
	}()
	go n.serveRPCs()
	go n.maintain()

	<-n.shutdownCh
	n.server.Close()
	close(n.doneCh)
}

// Shutdown stops the RPC server and the maintenance loop. It does not
// block; call Wait to block until Run has returned.
func (n *Node) Shutdown() {
	n.shutdownOnce.Do(func() {
		close(n.shutdownCh)
	})
}

// Wait blocks until a prior Run call has fully stopped.
func (n *Node) Wait() {
	<-n.doneCh
}

// maintain runs the periodic check_predecessor / stabilize /
// fix_fingers sequence on a fixed cadence via a single ticking
// goroutine, stoppable through shutdownCh.
func (n *Node) maintain() {
	interval := n.cfg.StabilizeInterval
	if interval <= 0 {
		interval = DefaultStabilizeInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), n.cfg.RPCTimeout*3)
			n.router.CheckPredecessor(ctx)
			n.router.Stabilize(ctx)
			n.router.FixFingers(ctx)
			cancel()

			if n.store != nil {
				if err := n.store.Save(n.router.Snapshot()); err != nil {
					n.log.WithError(err).Debug("node: snapshot save failed")
				}
			}
		case <-n.shutdownCh:
			return
		}
	}
}
