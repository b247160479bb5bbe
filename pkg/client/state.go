package client

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"outlay/internal/core"
)

// CurrencyOption pairs a currency code with the country submitted alongside it.
type CurrencyOption struct {
	Code    string
	Country string
}

// CurrencyOptions are the currencies the tracker offers.
var CurrencyOptions = []CurrencyOption{
	{Code: "USD", Country: "United States"},
	{Code: "INR", Country: "India"},
	{Code: "CAD", Country: "Canada"},
}

// CountryFor maps a currency code to its country, "Unknown" when the code is
// not one of CurrencyOptions.
func CountryFor(code string) string {
	for _, option := range CurrencyOptions {
		if option.Code == code {
			return option.Country
		}
	}
	return "Unknown"
}

// Form holds the add-expense inputs as the user typed them. Validation stays
// on the server.
type Form struct {
	Title    string
	Amount   string
	Date     string
	Category string
	Note     string
}

// AppState is the client-side view of the tracker: the fetched expense list,
// the active currency, the pending form, and the last error. The visible
// subset and its total are derived from the list on demand and never require
// a refetch.
type AppState struct {
	api *Client

	mu       sync.Mutex
	expenses []core.Expense
	currency string
	form     Form
	errMsg   string
	loading  bool
}

func NewAppState(api *Client) *AppState {
	return &AppState{
		api:      api,
		expenses: []core.Expense{},
		currency: CurrencyOptions[0].Code,
		form:     Form{Date: time.Now().Format("2006-01-02")},
	}
}

// Load replaces the expense list with the server's. On failure the list is
// left as it was and Err reports the server message.
func (s *AppState) Load(ctx context.Context) error {
	s.mu.Lock()
	s.loading = true
	s.errMsg = ""
	s.mu.Unlock()

	expenses, err := s.api.List(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false
	if err != nil {
		s.errMsg = messageOf(err, "Unable to load expenses.")
		return err
	}
	if expenses == nil {
		expenses = []core.Expense{}
	}
	s.expenses = expenses
	return nil
}

// Add submits the current form under the active currency. On success the
// created expense is prepended and the form is cleared except for the date,
// which a run of entries usually shares.
func (s *AppState) Add(ctx context.Context) (core.Expense, error) {
	s.mu.Lock()
	input := CreateInput{
		Title:      s.form.Title,
		Amount:     s.form.Amount,
		Currency:   s.currency,
		Country:    CountryFor(s.currency),
		Category:   s.form.Category,
		Note:       s.form.Note,
		OccurredAt: s.form.Date,
	}
	s.mu.Unlock()

	created, err := s.api.Create(ctx, input)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.errMsg = messageOf(err, "Save failed.")
		return core.Expense{}, err
	}
	s.expenses = append([]core.Expense{created}, s.expenses...)
	s.form = Form{Date: s.form.Date}
	s.errMsg = ""
	return created, nil
}

// Remove deletes optimistically: the expense leaves the list before the
// request, and a failed request restores the previous list.
func (s *AppState) Remove(ctx context.Context, id string) error {
	s.mu.Lock()
	previous := s.expenses
	kept := make([]core.Expense, 0, len(s.expenses))
	for _, expense := range s.expenses {
		if expense.ID != id {
			kept = append(kept, expense)
		}
	}
	s.expenses = kept
	s.mu.Unlock()

	if err := s.api.Delete(ctx, id); err != nil {
		s.mu.Lock()
		s.expenses = previous
		s.errMsg = messageOf(err, "Delete failed.")
		s.mu.Unlock()
		return err
	}
	return nil
}

// SetCurrency switches the filter. Visible and Total change immediately.
func (s *AppState) SetCurrency(code string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.currency = code
}

func (s *AppState) Currency() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.currency
}

// Visible returns the expenses in the active currency, preserving list order.
func (s *AppState) Visible() []core.Expense {
	s.mu.Lock()
	defer s.mu.Unlock()

	visible := make([]core.Expense, 0, len(s.expenses))
	for _, expense := range s.expenses {
		if expense.Currency == s.currency {
			visible = append(visible, expense)
		}
	}
	return visible
}

// Total sums the visible expenses.
func (s *AppState) Total() decimal.Decimal {
	total := decimal.Zero
	for _, expense := range s.Visible() {
		total = total.Add(expense.Amount)
	}
	return total
}

func (s *AppState) Expenses() []core.Expense {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.Expense, len(s.expenses))
	copy(out, s.expenses)
	return out
}

func (s *AppState) SetForm(form Form) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.form = form
}

func (s *AppState) Form() Form {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.form
}

func (s *AppState) Err() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.errMsg
}

func (s *AppState) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

func messageOf(err error, fallback string) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}
