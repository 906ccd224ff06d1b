// Package dataset loads the CDA snapshot from static JSON files and
// publishes it to the rest of the service as an immutable in-memory
// collection. A refresh of the files out-of-band results in a brand new
// snapshot being swapped in atomically; records are never mutated.
package dataset

import (
	"sync/atomic"

	"github.com/lamdec/cda-insights-go/internal/domain"
)

// Store holds the snapshot currently being served. Reads are lock-free;
// Publish atomically replaces the whole snapshot, so in-flight requests
// keep the one they grabbed.
type Store struct {
	current atomic.Pointer[domain.RecordSnapshot]
}

// NewStore creates a store serving the given snapshot.
func NewStore(snap *domain.RecordSnapshot) *Store {
	s := &Store{}
	s.current.Store(snap)
	return s
}

// Snapshot returns the snapshot currently being served.
func (s *Store) Snapshot() *domain.RecordSnapshot {
	return s.current.Load()
}

// Publish swaps in a new fully-formed snapshot.
func (s *Store) Publish(snap *domain.RecordSnapshot) {
	s.current.Store(snap)
}
