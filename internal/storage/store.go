// Package storage implements the expense store over PostgreSQL, SQLite, or
// process memory.
package storage

import (
	"context"

	"outlay/internal/core"
)

// ListLimit caps how many rows List returns; listing never paginates beyond
// the most recent entries.
const ListLimit = 200

// Store is the persistence surface for expenses. Implementations must make
// Delete idempotent: removing an id that does not exist is a success.
type Store interface {
	// List returns up to ListLimit expenses, newest created first. An empty
	// store yields an empty slice, not an error.
	List(ctx context.Context) ([]core.Expense, error)

	// Create assigns a fresh id and creation timestamp to the candidate and
	// persists it, returning the stored record.
	Create(ctx context.Context, expense core.Expense) (core.Expense, error)

	// Delete removes the expense with the given id if present.
	Delete(ctx context.Context, id string) error

	Close() error
}
