package store

import (
	"io/ioutil"
	"os"
	"testing"

	"github.com/ringkeep/chordnode/internal/chord"
)

func initSnapshotStore(t *testing.T) *SnapshotStore {
	os.RemoveAll("test_data")
	os.Mkdir("test_data", os.ModeDir|0777)
	dir, err := ioutil.TempDir("test_data", "badger")
	if err != nil {
		t.Fatal(err)
	}

	s, err := Open(dir)
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func removeSnapshotStore(s *SnapshotStore, t *testing.T) {
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}
}

func TestSnapshotStore_LoadEmpty(t *testing.T) {
	s := initSnapshotStore(t)
	defer removeSnapshotStore(s, t)

	_, ok, err := s.Load()
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Fatalf("expected no snapshot to be present yet")
	}
}

func TestSnapshotStore_SaveLoadRoundTrip(t *testing.T) {
	s := initSnapshotStore(t)
	defer removeSnapshotStore(s, t)

	self := chord.NodeRef{ID: 10, IP: "127.0.0.1", Port: 4000}
	successor := chord.NodeRef{ID: 20, IP: "127.0.0.1", Port: 4001}

	want := chord.Snapshot{
		Self:       self,
		Successor:  successor,
		Successors: []chord.NodeRef{successor},
		NextFinger: 2,
		Joined:     true,
	}
	want.Fingers[0] = successor

	if err := s.Save(want); err != nil {
		t.Fatal(err)
	}

	got, ok, err := s.Load()
	if err != nil {
		t.Fatal(err)
	}
	if !ok {
		t.Fatalf("expected a snapshot to be present")
	}

	if got.Self != want.Self {
		t.Fatalf("self mismatch: got %#v want %#v", got.Self, want.Self)
	}
	if got.Successor != want.Successor {
		t.Fatalf("successor mismatch: got %#v want %#v", got.Successor, want.Successor)
	}
	if got.NextFinger != want.NextFinger {
		t.Fatalf("next finger mismatch: got %d want %d", got.NextFinger, want.NextFinger)
	}
	if got.Fingers[0] != successor {
		t.Fatalf("finger[0] mismatch: got %#v want %#v", got.Fingers[0], successor)
	}
}

func TestSnapshotStore_SaveOverwrites(t *testing.T) {
	s := initSnapshotStore(t)
	defer removeSnapshotStore(s, t)

	first := chord.Snapshot{Self: chord.NodeRef{ID: 1, IP: "127.0.0.1", Port: 1}}
	second := chord.Snapshot{Self: chord.NodeRef{ID: 2, IP: "127.0.0.1", Port: 2}}

	if err := s.Save(first); err != nil {
		t.Fatal(err)
	}
	if err := s.Save(second); err != nil {
		t.Fatal(err)
	}

	got, ok, err := s.Load()
	if err != nil {
		t.Fatal(err)
	}
	if !ok {
		t.Fatalf("expected a snapshot to be present")
	}
	if got.Self != second.Self {
		t.Fatalf("expected overwritten snapshot, got %#v", got.Self)
	}
}
