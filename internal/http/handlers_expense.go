package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/shopspring/decimal"

	"outlay/internal/core"
	"outlay/internal/events"
	"outlay/internal/storage"
)

// Fixed user-facing failure messages. List and Create share one; Delete's is
// deliberately distinct. Backend failures are never differentiated further.
const (
	msgDatabaseUnavailable = "Database connection failed. Configure DATABASE_URL for an external PostgreSQL database."
	msgInvalidPayload      = "Invalid payload"
	msgMissingID           = "Missing id"
	msgDeleteFailed        = "Delete failed."
)

// Handler carries the three expense endpoints.
type Handler struct {
	store     storage.Store
	publisher events.Publisher
}

func NewHandler(store storage.Store, publisher events.Publisher) *Handler {
	return &Handler{store: store, publisher: publisher}
}

type errorResponse struct {
	Message string `json:"message"`
}

type deleteResponse struct {
	OK bool `json:"ok"`
}

// ListExpenses returns the most recent expenses as a JSON array. Filtering by
// currency happens entirely client-side.
func (h *Handler) ListExpenses(w http.ResponseWriter, r *http.Request) {
	expenses, err := h.store.List(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "List expenses failed", "error", err)
		respondJSON(w, http.StatusInternalServerError, errorResponse{Message: msgDatabaseUnavailable})
		return
	}

	respondJSON(w, http.StatusOK, expenses)
}

// createExpenseRequest is the create payload. Amount is kept raw so both
// JSON numbers and numeric strings are accepted.
type createExpenseRequest struct {
	Title      string          `json:"title"`
	Amount     json.RawMessage `json:"amount"`
	Currency   string          `json:"currency"`
	Country    string          `json:"country"`
	Category   string          `json:"category"`
	Note       string          `json:"note"`
	OccurredAt string          `json:"occurredAt"`
}

// toExpense validates the payload and builds the candidate record. Any
// violation collapses to a single invalid-payload rejection.
func (req createExpenseRequest) toExpense() (core.Expense, error) {
	amount, err := parseAmount(req.Amount)
	if err != nil {
		return core.Expense{}, err
	}

	occurredAt, err := core.ParseDate(req.OccurredAt)
	if err != nil {
		return core.Expense{}, err
	}

	expense := core.Expense{
		Title:      strings.TrimSpace(req.Title),
		Amount:     amount,
		Currency:   strings.TrimSpace(req.Currency),
		Country:    strings.TrimSpace(req.Country),
		Category:   core.OptionalText(req.Category),
		Note:       core.OptionalText(req.Note),
		OccurredAt: occurredAt,
	}
	if err := expense.Validate(); err != nil {
		return core.Expense{}, err
	}
	return expense, nil
}

func parseAmount(raw json.RawMessage) (decimal.Decimal, error) {
	if len(raw) == 0 {
		return decimal.Zero, core.ErrInvalidAmount
	}
	s := strings.TrimSpace(string(raw))
	if strings.HasPrefix(s, `"`) {
		if err := json.Unmarshal(raw, &s); err != nil {
			return decimal.Zero, core.ErrInvalidAmount
		}
	}
	return core.ParseAmount(s)
}

// CreateExpense validates the payload and persists a new expense, returning
// the stored record including its generated id and creation timestamp.
func (h *Handler) CreateExpense(w http.ResponseWriter, r *http.Request) {
	var req createExpenseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Message: msgInvalidPayload})
		return
	}

	candidate, err := req.toExpense()
	if err != nil {
		slog.WarnContext(r.Context(), "Rejected expense payload", "error", err)
		respondJSON(w, http.StatusBadRequest, errorResponse{Message: msgInvalidPayload})
		return
	}

	created, err := h.store.Create(r.Context(), candidate)
	if err != nil {
		slog.ErrorContext(r.Context(), "Create expense failed", "error", err, "title", candidate.Title)
		respondJSON(w, http.StatusInternalServerError, errorResponse{Message: msgDatabaseUnavailable})
		return
	}

	if err := h.publisher.ExpenseCreated(r.Context(), created); err != nil {
		slog.WarnContext(r.Context(), "Publish expense created event failed", "error", err, "id", created.ID)
	}

	respondJSON(w, http.StatusCreated, created)
}

// DeleteExpense removes the expense named by the id query parameter. Deleting
// an id that does not exist is acknowledged as success.
func (h *Handler) DeleteExpense(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	if id == "" {
		respondJSON(w, http.StatusBadRequest, errorResponse{Message: msgMissingID})
		return
	}

	if err := h.store.Delete(r.Context(), id); err != nil {
		slog.ErrorContext(r.Context(), "Delete expense failed", "error", err, "id", id)
		respondJSON(w, http.StatusInternalServerError, errorResponse{Message: msgDeleteFailed})
		return
	}

	if err := h.publisher.ExpenseDeleted(r.Context(), id); err != nil {
		slog.WarnContext(r.Context(), "Publish expense deleted event failed", "error", err, "id", id)
	}

	respondJSON(w, http.StatusOK, deleteResponse{OK: true})
}

func respondJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("Encode response failed", "error", err)
	}
}
