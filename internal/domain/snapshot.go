package domain

import "time"

// RecordSnapshot is one fully-formed, immutable load of the CDA dataset.
// A reload publishes a brand new snapshot; records are never mutated in
// place, so unsynchronized concurrent reads are safe. Iteration order of
// Records equals file order.
type RecordSnapshot struct {
	ID       string
	LoadedAt time.Time
	Records  []CDARecord
}

// Info summarizes the snapshot for health and metrics endpoints.
func (s *RecordSnapshot) Info() *SnapshotInfo {
	return &SnapshotInfo{
		ID:       s.ID,
		Records:  len(s.Records),
		LoadedAt: s.LoadedAt.UTC().Format(time.RFC3339),
	}
}
