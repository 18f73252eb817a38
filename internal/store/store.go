// Package store is the record store the assistant writes bookings to: collections of
// JSON records addressed by id and queried by field equality.
package store

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Get and Update when no record has the id.
var ErrNotFound = errors.New("record not found")

// Collection names used by the assistant.
const (
	Users         = "users"
	Jobs          = "jobs"
	Matches       = "matches"
	Messages      = "messages"
	Interviews    = "interviews"
	Notifications = "notifications"
)

// IDField is the key under which Get and Query expose a record's id.
const IDField = "id"

// Record is one stored document. Keys are camelCase field names.
type Record map[string]any

// Store is the collaborator interface. Implementations must be safe for concurrent
// use.
type Store interface {
	Get(ctx context.Context, collection, id string) (Record, error)
	// Query returns every record in collection whose top-level fields equal all of
	// where, ordered by id.
	Query(ctx context.Context, collection string, where Record) ([]Record, error)
	Create(ctx context.Context, collection string, rec Record) (string, error)
	// Update merges fields into the record, failing with ErrNotFound when it is missing.
	Update(ctx context.Context, collection, id string, fields Record) error
}
