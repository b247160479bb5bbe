// Package core holds the expense domain model shared by the stores, the HTTP
// layer, and the Go client.
package core

import (
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrEmptyTitle      = errors.New("empty title")
	ErrInvalidAmount   = errors.New("invalid amount")
	ErrMissingCurrency = errors.New("missing currency")
	ErrMissingCountry  = errors.New("missing country")
	ErrMissingDate     = errors.New("missing occurred date")
)

// Date is a calendar date with no time-of-day and no zone. It marshals as
// YYYY-MM-DD and accepts both date-only and RFC 3339 input, since database
// drivers hand back DATE columns as midnight timestamps.
type Date struct {
	time.Time
}

// NewDate creates a Date from year, month, day.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates a timestamp to its calendar date in UTC.
func DateOf(t time.Time) Date {
	y, m, d := t.UTC().Date()
	return NewDate(y, int(m), d)
}

// ParseDate parses a date string. Date-only form is preferred; a full
// RFC 3339 timestamp is accepted and truncated.
func ParseDate(s string) (Date, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Date{}, ErrMissingDate
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return Date{Time: t}, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return Date{}, ErrMissingDate
	}
	return DateOf(t), nil
}

func (d Date) String() string {
	return d.Format("2006-01-02")
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Expense is the sole persisted entity: one spending event. An expense is
// immutable once created; the only lifecycle transitions are create and
// delete.
type Expense struct {
	ID         string          `json:"id"`
	Title      string          `json:"title"`
	Amount     decimal.Decimal `json:"amount"`
	Currency   string          `json:"currency"`
	Country    string          `json:"country"`
	Category   *string         `json:"category"`
	Note       *string         `json:"note"`
	OccurredAt Date            `json:"occurredAt"`
	CreatedAt  time.Time       `json:"createdAt"`
}

// expenseJSON is the wire shape. Amount travels as a plain JSON number, the
// way the relational backend surfaces NUMERIC(12,2) through a float8 cast.
type expenseJSON struct {
	ID         string      `json:"id"`
	Title      string      `json:"title"`
	Amount     json.Number `json:"amount"`
	Currency   string      `json:"currency"`
	Country    string      `json:"country"`
	Category   *string     `json:"category"`
	Note       *string     `json:"note"`
	OccurredAt Date        `json:"occurredAt"`
	CreatedAt  time.Time   `json:"createdAt"`
}

func (e Expense) MarshalJSON() ([]byte, error) {
	return json.Marshal(expenseJSON{
		ID:         e.ID,
		Title:      e.Title,
		Amount:     json.Number(e.Amount.String()),
		Currency:   e.Currency,
		Country:    e.Country,
		Category:   e.Category,
		Note:       e.Note,
		OccurredAt: e.OccurredAt,
		CreatedAt:  e.CreatedAt,
	})
}

func (e *Expense) UnmarshalJSON(data []byte) error {
	var w expenseJSON
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	amount := decimal.Zero
	if w.Amount != "" {
		parsed, err := decimal.NewFromString(w.Amount.String())
		if err != nil {
			return ErrInvalidAmount
		}
		amount = parsed
	}
	*e = Expense{
		ID:         w.ID,
		Title:      w.Title,
		Amount:     amount,
		Currency:   w.Currency,
		Country:    w.Country,
		Category:   w.Category,
		Note:       w.Note,
		OccurredAt: w.OccurredAt,
		CreatedAt:  w.CreatedAt,
	}
	return nil
}

// Validate checks the candidate record before it reaches a store.
func (e Expense) Validate() error {
	if strings.TrimSpace(e.Title) == "" {
		return ErrEmptyTitle
	}
	if !e.Amount.IsPositive() {
		return ErrInvalidAmount
	}
	if strings.TrimSpace(e.Currency) == "" {
		return ErrMissingCurrency
	}
	if strings.TrimSpace(e.Country) == "" {
		return ErrMissingCountry
	}
	if e.OccurredAt.IsZero() {
		return ErrMissingDate
	}
	return nil
}

// OptionalText trims s and maps an empty result to absent.
func OptionalText(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
