package client

import (
	"sync/atomic"

	"github.com/netpong/tui/internal/protocol"
)

// Store holds the latest snapshot received on a session. The receive loop is
// the only writer; the render loop and the state machine read it every tick.
// Each Write swaps a fresh immutable entry, so a reader sees either the old
// or the new snapshot, never a mix.
type Store struct {
	cur atomic.Pointer[entry]
	seq atomic.Uint64
}

type entry struct {
	snap protocol.Snapshot
	seq  uint64
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{}
}

// Write replaces the stored snapshot wholesale.
func (s *Store) Write(snap protocol.Snapshot) {
	if snap == nil {
		return
	}
	s.cur.Store(&entry{snap: snap, seq: s.seq.Add(1)})
}

// Read returns the current snapshot and its sequence number. ok is false
// until the first Write. It never blocks.
func (s *Store) Read() (snap protocol.Snapshot, seq uint64, ok bool) {
	e := s.cur.Load()
	if e == nil {
		return nil, 0, false
	}
	return e.snap, e.seq, true
}

// Reset clears the store back to "no snapshot yet".
func (s *Store) Reset() {
	s.cur.Store(nil)
}
