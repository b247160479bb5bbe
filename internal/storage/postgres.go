package storage

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"outlay/internal/core"
)

// schemaStatements is the idempotent schema for the expense table. Each
// statement is safe to re-run, so concurrent ensure attempts are harmless.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS expenses (
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		amount NUMERIC(12,2) NOT NULL,
		currency TEXT NOT NULL,
		country TEXT NOT NULL,
		category TEXT,
		note TEXT,
		occurred_at DATE NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,

	`CREATE INDEX IF NOT EXISTS idx_expenses_created_at ON expenses (created_at DESC)`,
}

// PostgresStore persists expenses in PostgreSQL through a shared pgx pool.
type PostgresStore struct {
	pool *pgxpool.Pool

	// ready flips to true after the schema has been ensured once. A failed
	// attempt leaves it false so the next operation retries. The check-then-act
	// race is benign: the DDL itself is idempotent.
	ready atomic.Bool
}

// NewPostgresStore builds a store from a connection string. It does not ping:
// the backend may not be reachable at process start, and every operation
// ensures the schema before touching the table.
func NewPostgresStore(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}

	// Managed Postgres offerings commonly present certificates that do not
	// verify; certificate checks are skipped for non-local hosts.
	if tlsConfig := cfg.ConnConfig.TLSConfig; tlsConfig != nil && !isLocalHost(cfg.ConnConfig.Host) {
		tlsConfig.InsecureSkipVerify = true
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}

	return &PostgresStore{pool: pool}, nil
}

func isLocalHost(host string) bool {
	return host == "localhost" || host == "127.0.0.1" || host == "::1" ||
		strings.HasPrefix(host, "/") // unix socket
}

// EnsureSchema creates the expense table and its index if they do not exist.
// Safe to call repeatedly and concurrently; only a successful run is cached.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	if s.ready.Load() {
		return nil
	}
	for _, stmt := range schemaStatements {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	s.ready.Store(true)
	slog.InfoContext(ctx, "Expense schema ensured")
	return nil
}

func (s *PostgresStore) List(ctx context.Context) ([]core.Expense, error) {
	if err := s.EnsureSchema(ctx); err != nil {
		return nil, err
	}

	rows, err := s.pool.Query(ctx, `
		SELECT id, title, amount, currency, country, category, note, occurred_at, created_at
		FROM expenses
		ORDER BY created_at DESC
		LIMIT $1
	`, ListLimit)
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	defer rows.Close()

	expenses := []core.Expense{}
	for rows.Next() {
		var (
			e          core.Expense
			occurredAt time.Time
		)
		if err := rows.Scan(&e.ID, &e.Title, &e.Amount, &e.Currency, &e.Country,
			&e.Category, &e.Note, &occurredAt, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan expense: %w", err)
		}
		e.OccurredAt = core.DateOf(occurredAt)
		expenses = append(expenses, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate expenses: %w", err)
	}

	return expenses, nil
}

func (s *PostgresStore) Create(ctx context.Context, expense core.Expense) (core.Expense, error) {
	if err := s.EnsureSchema(ctx); err != nil {
		return core.Expense{}, err
	}

	expense.ID = uuid.NewString()
	expense.Amount = expense.Amount.Round(2)

	err := s.pool.QueryRow(ctx, `
		INSERT INTO expenses (id, title, amount, currency, country, category, note, occurred_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at
	`, expense.ID, expense.Title, expense.Amount, expense.Currency, expense.Country,
		expense.Category, expense.Note, expense.OccurredAt.Time,
	).Scan(&expense.CreatedAt)
	if err != nil {
		return core.Expense{}, fmt.Errorf("create expense: %w", err)
	}

	return expense, nil
}

func (s *PostgresStore) Delete(ctx context.Context, id string) error {
	if err := s.EnsureSchema(ctx); err != nil {
		return err
	}

	// Rows affected is deliberately ignored: deleting an absent id succeeds.
	if _, err := s.pool.Exec(ctx, `DELETE FROM expenses WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete expense: %w", err)
	}
	return nil
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}
