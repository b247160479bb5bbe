// Package events publishes expense lifecycle notifications over AMQP.
// Publishing is fire-and-forget from the caller's point of view: a failed
// publish never fails the request that triggered it.
package events

import (
	"context"

	"outlay/internal/core"
)

// Publisher emits expense lifecycle events.
type Publisher interface {
	ExpenseCreated(ctx context.Context, expense core.Expense) error
	ExpenseDeleted(ctx context.Context, id string) error
	Close() error
}

// NoopPublisher is used when no broker is configured.
type NoopPublisher struct{}

func (NoopPublisher) ExpenseCreated(ctx context.Context, expense core.Expense) error { return nil }
func (NoopPublisher) ExpenseDeleted(ctx context.Context, id string) error            { return nil }
func (NoopPublisher) Close() error                                                   { return nil }
