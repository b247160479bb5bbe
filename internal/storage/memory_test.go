package storage

import (
	"context"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"

	"outlay/internal/core"
)

func testExpense(title string) core.Expense {
	return core.Expense{
		Title:      title,
		Amount:     decimal.NewFromFloat(4.5),
		Currency:   "USD",
		Country:    "United States",
		OccurredAt: core.NewDate(2026, 2, 1),
	}
}

func TestMemoryStoreCreateAssignsIdentity(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	first, err := store.Create(ctx, testExpense("Coffee"))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	second, err := store.Create(ctx, testExpense("Lunch"))
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if first.ID == "" || second.ID == "" {
		t.Fatal("expected generated ids")
	}
	if first.ID == second.ID {
		t.Fatalf("ids must be unique, both %q", first.ID)
	}
	if first.CreatedAt.IsZero() {
		t.Fatal("expected a creation timestamp")
	}
}

func TestMemoryStoreListNewestFirst(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	for i := 0; i < 3; i++ {
		if _, err := store.Create(ctx, testExpense(fmt.Sprintf("expense %d", i))); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	expenses, err := store.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(expenses) != 3 {
		t.Fatalf("len = %d, want 3", len(expenses))
	}
	if expenses[0].Title != "expense 2" || expenses[2].Title != "expense 0" {
		t.Errorf("not newest first: %q .. %q", expenses[0].Title, expenses[2].Title)
	}
}

func TestMemoryStoreListCapped(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	for i := 0; i < ListLimit+15; i++ {
		if _, err := store.Create(ctx, testExpense(fmt.Sprintf("expense %d", i))); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	expenses, err := store.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(expenses) != ListLimit {
		t.Fatalf("len = %d, want %d", len(expenses), ListLimit)
	}
	// The newest insert leads; the oldest rows fall off the end.
	if expenses[0].Title != fmt.Sprintf("expense %d", ListLimit+14) {
		t.Errorf("head = %q", expenses[0].Title)
	}
}

func TestMemoryStoreDeleteIdempotent(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	created, err := store.Create(ctx, testExpense("Coffee"))
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := store.Delete(ctx, created.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := store.Delete(ctx, created.ID); err != nil {
		t.Fatalf("second delete: %v", err)
	}
	if err := store.Delete(ctx, "never-existed"); err != nil {
		t.Fatalf("delete absent: %v", err)
	}

	expenses, err := store.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(expenses) != 0 {
		t.Fatalf("len = %d, want 0", len(expenses))
	}
}

func TestMemoryStoreAmountRounded(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	e := testExpense("Coffee")
	e.Amount = decimal.NewFromFloat(4.555)
	created, err := store.Create(ctx, e)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.Amount.String() != "4.56" {
		t.Errorf("Amount = %s, want 4.56", created.Amount)
	}
}
