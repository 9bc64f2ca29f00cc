// Package store persists a node's own routing-state snapshot to a
// local badger database, so a restarted process can log its last
// known neighborhood before rejoining. It never stores application
// key/value data; that layer lives elsewhere, if it exists at all.
package store

import (
	"github.com/dgraph-io/badger"
	"github.com/ringkeep/chordnode/internal/chord"
	"github.com/ugorji/go/codec"
)

const snapshotKey = "routing-snapshot"

var mh codec.MsgpackHandle

// SnapshotStore wraps a badger database dedicated to one node's
// routing-state checkpoint.
type SnapshotStore struct {
	db *badger.DB
}

// Open opens (creating if absent) a badger database rooted at path.
func Open(path string) (*SnapshotStore, error) {
	opts := badger.DefaultOptions(path)
	opts.SyncWrites = false

	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}
	return &SnapshotStore{db: db}, nil
}

// Close releases the underlying database handle.
func (s *SnapshotStore) Close() error {
	return s.db.Close()
}

// wireSnapshot is the encode-friendly shape of chord.Snapshot: fixed
// arrays are easier to get wrong in msgpack than slices, so the finger
// table travels as a slice on disk.
type wireSnapshot struct {
	Self        chord.NodeRef
	Predecessor chord.NodeRef
	Successor   chord.NodeRef
	Successors  []chord.NodeRef
	Fingers     []chord.NodeRef
	NextFinger  int
	Joined      bool
}

// Save persists snap, overwriting any previous checkpoint.
func (s *SnapshotStore) Save(snap chord.Snapshot) error {
	w := wireSnapshot{
		Self:        snap.Self,
		Predecessor: snap.Predecessor,
		Successor:   snap.Successor,
		Successors:  snap.Successors,
		Fingers:     snap.Fingers[:],
		NextFinger:  snap.NextFinger,
		Joined:      snap.Joined,
	}

	var buf []byte
	enc := codec.NewEncoderBytes(&buf, &mh)
	if err := enc.Encode(w); err != nil {
		return err
	}

	tx := s.db.NewTransaction(true)
	defer tx.Discard()
	if err := tx.Set([]byte(snapshotKey), buf); err != nil {
		return err
	}
	return tx.Commit()
}

// Load returns the last persisted snapshot, or ok=false if none exists
// yet.
func (s *SnapshotStore) Load() (chord.Snapshot, bool, error) {
	var buf []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(snapshotKey))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			buf = append([]byte(nil), val...)
			return nil
		})
	})
	if err == badger.ErrKeyNotFound {
		return chord.Snapshot{}, false, nil
	}
	if err != nil {
		return chord.Snapshot{}, false, err
	}

	var w wireSnapshot
	dec := codec.NewDecoderBytes(buf, &mh)
	if err := dec.Decode(&w); err != nil {
		return chord.Snapshot{}, false, err
	}

	snap := chord.Snapshot{
		Self:        w.Self,
		Predecessor: w.Predecessor,
		Successor:   w.Successor,
		Successors:  w.Successors,
		NextFinger:  w.NextFinger,
		Joined:      w.Joined,
	}
	copy(snap.Fingers[:], w.Fingers)
	return snap, true, nil
}
