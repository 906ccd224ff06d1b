// Package port defines the interfaces (ports) between the query/aggregation
// core and its collaborators. Following hexagonal architecture, these ports
// decouple the service layer from concrete implementations.
package port

import (
	"github.com/lamdec/cda-insights-go/internal/domain"
)

// RecordSource provides the CDA snapshot currently being served.
// Implementations must return a fully-formed, immutable snapshot; callers
// grab it once per request so a concurrent reload never changes the data
// mid-computation.
type RecordSource interface {
	Snapshot() *domain.RecordSnapshot
}

// Cache provides generic caching with TTL.
type Cache[T any] interface {
	Get(key string) (T, bool)
	Set(key string, value T)
	Delete(key string)
}
