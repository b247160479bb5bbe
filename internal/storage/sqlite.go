package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"outlay/internal/core"
)

// sqliteTimeLayout is fixed width so that lexicographic ordering of the
// created_at column matches chronological ordering.
const sqliteTimeLayout = "2006-01-02 15:04:05.000000000Z07:00"

// SQLiteStore keeps expenses in a local SQLite file. It backs local and dev
// setups where no external PostgreSQL is available. Amounts are stored as
// integer cents.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (creating if needed) the database file and brings the
// schema up to date. Unlike the PostgreSQL store, migrations run eagerly: the
// file is local, so availability at startup is a given.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if dir := filepath.Dir(dbPath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) List(ctx context.Context) ([]core.Expense, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, title, amount_cents, currency, country, category, note, occurred_at, created_at
		FROM expenses
		ORDER BY created_at DESC
		LIMIT ?
	`, ListLimit)
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	defer rows.Close()

	expenses := []core.Expense{}
	for rows.Next() {
		var (
			e          core.Expense
			cents      int64
			occurredAt string
			createdAt  string
		)
		if err := rows.Scan(&e.ID, &e.Title, &cents, &e.Currency, &e.Country,
			&e.Category, &e.Note, &occurredAt, &createdAt); err != nil {
			return nil, fmt.Errorf("scan expense: %w", err)
		}
		e.Amount = core.FromCents(cents)
		if e.OccurredAt, err = core.ParseDate(occurredAt); err != nil {
			return nil, fmt.Errorf("parse occurred_at %q: %w", occurredAt, err)
		}
		if e.CreatedAt, err = time.Parse(sqliteTimeLayout, createdAt); err != nil {
			return nil, fmt.Errorf("parse created_at %q: %w", createdAt, err)
		}
		expenses = append(expenses, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate expenses: %w", err)
	}

	return expenses, nil
}

func (s *SQLiteStore) Create(ctx context.Context, expense core.Expense) (core.Expense, error) {
	cents := core.Cents(expense.Amount)
	expense.ID = uuid.NewString()
	expense.Amount = core.FromCents(cents)
	expense.CreatedAt = time.Now().UTC()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO expenses (id, title, amount_cents, currency, country, category, note, occurred_at, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, expense.ID, expense.Title, cents, expense.Currency, expense.Country,
		expense.Category, expense.Note, expense.OccurredAt.String(),
		expense.CreatedAt.Format(sqliteTimeLayout))
	if err != nil {
		return core.Expense{}, fmt.Errorf("create expense: %w", err)
	}

	return expense, nil
}

func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM expenses WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete expense: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
