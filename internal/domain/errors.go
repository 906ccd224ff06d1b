package domain

import "fmt"

// Error types for consistent error handling across the API.

// ErrNotFound indicates a resource was not found.
type ErrNotFound struct {
	Resource string
	ID       string
}

func (e *ErrNotFound) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

// ErrValidation indicates a validation error (bad input).
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error on '%s': %s", e.Field, e.Message)
}

// ErrDataIntegrity indicates a snapshot record is missing a required field.
// Records like this are rejected at load time; if one ever reaches a
// computation, the single request fails rather than corrupting output.
type ErrDataIntegrity struct {
	NumCDA string
	Field  string
}

func (e *ErrDataIntegrity) Error() string {
	return fmt.Sprintf("data integrity fault on CDA '%s': missing or invalid %s", e.NumCDA, e.Field)
}

// ErrSnapshotUnavailable indicates no dataset snapshot has been published.
type ErrSnapshotUnavailable struct {
	Path string
}

func (e *ErrSnapshotUnavailable) Error() string {
	return fmt.Sprintf("dataset snapshot unavailable: %s", e.Path)
}
