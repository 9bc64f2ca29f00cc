package node

import (
	"context"
	"testing"
	"time"

	"github.com/ringkeep/chordnode/internal/chord"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.Level = logrus.ErrorLevel
	return logger
}

func newTestNode(t *testing.T, id uint32) *Node {
	t.Helper()
	cfg := NewDefaultConfig()
	cfg.BindAddr = "127.0.0.1:0"
	cfg.RPCTimeout = time.Second
	cfg.StabilizeInterval = 20 * time.Millisecond

	n, err := New(cfg, id, testLogger())
	require.NoError(t, err)
	return n
}

func TestNode_CreateSolo(t *testing.T) {
	n := newTestNode(t, 100)
	go n.Run()
	defer func() {
		n.Shutdown()
		n.Wait()
	}()

	n.Bootstrap(context.Background(), chord.NodeRef{})

	require.Equal(t, n.Self().ID, n.router.GetSuccessor().ID)
}

func TestNode_JoinConverges(t *testing.T) {
	n1 := newTestNode(t, 1000)
	go n1.Run()
	defer func() { n1.Shutdown(); n1.Wait() }()
	n1.Bootstrap(context.Background(), chord.NodeRef{})

	bootstrapRef := n1.Self()

	n2 := newTestNode(t, 2000)
	go n2.Run()
	defer func() { n2.Shutdown(); n2.Wait() }()

	n2.Bootstrap(context.Background(), bootstrapRef)

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if n2.router.GetSuccessor().ID == n1.Self().ID &&
			n1.router.GetPredecessor().ID == n2.Self().ID {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("ring did not converge: n1 successor=%v predecessor=%v, n2 successor=%v",
		n1.router.GetSuccessor(), n1.router.GetPredecessor(), n2.router.GetSuccessor())
}
