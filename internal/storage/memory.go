package storage

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"outlay/internal/core"
)

// MemoryStore keeps expenses in process memory. It is the zero-configuration
// default backend and the double the HTTP tests run against. Semantics match
// the relational stores: newest first, capped list, idempotent delete.
type MemoryStore struct {
	mu       sync.Mutex
	expenses []core.Expense // newest first
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) List(ctx context.Context) ([]core.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := len(s.expenses)
	if n > ListLimit {
		n = ListLimit
	}
	out := make([]core.Expense, n)
	copy(out, s.expenses[:n])
	return out, nil
}

func (s *MemoryStore) Create(ctx context.Context, expense core.Expense) (core.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	expense.ID = uuid.NewString()
	expense.Amount = expense.Amount.Round(2)
	expense.CreatedAt = time.Now().UTC()
	s.expenses = append([]core.Expense{expense}, s.expenses...)
	return expense, nil
}

func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, e := range s.expenses {
		if e.ID == id {
			s.expenses = append(s.expenses[:i], s.expenses[i+1:]...)
			break
		}
	}
	return nil
}

func (s *MemoryStore) Close() error {
	return nil
}
