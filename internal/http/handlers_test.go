package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"outlay/internal/core"
	"outlay/internal/events"
	"outlay/internal/storage"
)

func newTestServer(t *testing.T, store storage.Store) *httptest.Server {
	t.Helper()
	srv := NewServer(":0", store, events.NoopPublisher{})
	ts := httptest.NewServer(srv.Handler)
	t.Cleanup(ts.Close)
	return ts
}

func doJSON(t *testing.T, method, url, body string) (*http.Response, map[string]any) {
	t.Helper()
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, url, reader)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	t.Cleanup(func() { resp.Body.Close() })

	var decoded map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		// List responses are arrays; callers decode those themselves.
		decoded = nil
	}
	return resp, decoded
}

func TestExpenseLifecycle(t *testing.T) {
	ts := newTestServer(t, storage.NewMemoryStore())

	// Start empty.
	resp, err := http.Get(ts.URL + "/api/expenses")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	var listed []core.Expense
	if err := json.NewDecoder(resp.Body).Decode(&listed); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	resp.Body.Close()
	if len(listed) != 0 {
		t.Fatalf("initial list len = %d, want 0", len(listed))
	}

	// Create a valid expense.
	resp, created := doJSON(t, http.MethodPost, ts.URL+"/api/expenses", `{
		"title": "Coffee",
		"amount": 4.5,
		"currency": "USD",
		"country": "United States",
		"occurredAt": "2026-02-01"
	}`)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create status = %d, want 201", resp.StatusCode)
	}
	id, _ := created["id"].(string)
	if id == "" {
		t.Fatal("expected generated id in create response")
	}
	if created["amount"] != 4.5 {
		t.Errorf("amount = %v, want 4.5", created["amount"])
	}
	if created["createdAt"] == nil || created["createdAt"] == "" {
		t.Error("expected createdAt in create response")
	}

	// The new expense shows up first in the list.
	resp, err = http.Get(ts.URL + "/api/expenses")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if err := json.NewDecoder(resp.Body).Decode(&listed); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	resp.Body.Close()
	if len(listed) != 1 || listed[0].ID != id {
		t.Fatalf("list after create = %+v", listed)
	}

	// Delete it and confirm the acknowledgement shape.
	resp, ack := doJSON(t, http.MethodDelete, ts.URL+"/api/expenses?id="+id, "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("delete status = %d, want 200", resp.StatusCode)
	}
	if ack["ok"] != true {
		t.Errorf("delete ack = %v, want {ok:true}", ack)
	}

	// Deleting the same id again still succeeds.
	resp, _ = doJSON(t, http.MethodDelete, ts.URL+"/api/expenses?id="+id, "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("repeat delete status = %d, want 200", resp.StatusCode)
	}

	resp, err = http.Get(ts.URL + "/api/expenses")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if err := json.NewDecoder(resp.Body).Decode(&listed); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	resp.Body.Close()
	if len(listed) != 0 {
		t.Fatalf("list after delete len = %d, want 0", len(listed))
	}
}

func TestCreateExpenseRejectsInvalidPayload(t *testing.T) {
	store := storage.NewMemoryStore()
	ts := newTestServer(t, store)

	tests := []struct {
		name string
		body string
	}{
		{"malformed json", `{"title": `},
		{"empty title", `{"title":"  ","amount":4.5,"currency":"USD","country":"US","occurredAt":"2026-02-01"}`},
		{"zero amount", `{"title":"Coffee","amount":0,"currency":"USD","country":"US","occurredAt":"2026-02-01"}`},
		{"negative amount", `{"title":"Coffee","amount":-2,"currency":"USD","country":"US","occurredAt":"2026-02-01"}`},
		{"non numeric amount", `{"title":"Coffee","amount":"abc","currency":"USD","country":"US","occurredAt":"2026-02-01"}`},
		{"missing currency", `{"title":"Coffee","amount":4.5,"country":"US","occurredAt":"2026-02-01"}`},
		{"missing country", `{"title":"Coffee","amount":4.5,"currency":"USD","occurredAt":"2026-02-01"}`},
		{"missing date", `{"title":"Coffee","amount":4.5,"currency":"USD","country":"US"}`},
		{"bad date", `{"title":"Coffee","amount":4.5,"currency":"USD","country":"US","occurredAt":"yesterday"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, body := doJSON(t, http.MethodPost, ts.URL+"/api/expenses", tt.body)
			if resp.StatusCode != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400", resp.StatusCode)
			}
			if body["message"] != msgInvalidPayload {
				t.Errorf("message = %v, want %q", body["message"], msgInvalidPayload)
			}
		})
	}

	// Rejected payloads must not touch the store.
	expenses, err := store.List(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(expenses) != 0 {
		t.Fatalf("store len = %d after rejected creates, want 0", len(expenses))
	}
}

func TestCreateExpenseAcceptsStringAmount(t *testing.T) {
	ts := newTestServer(t, storage.NewMemoryStore())

	resp, created := doJSON(t, http.MethodPost, ts.URL+"/api/expenses", `{
		"title": "Lunch",
		"amount": "12,30",
		"currency": "INR",
		"country": "India",
		"occurredAt": "2026-02-01"
	}`)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("status = %d, want 201", resp.StatusCode)
	}
	if created["amount"] != 12.3 {
		t.Errorf("amount = %v, want 12.3", created["amount"])
	}
}

func TestDeleteExpenseRequiresID(t *testing.T) {
	ts := newTestServer(t, storage.NewMemoryStore())

	resp, body := doJSON(t, http.MethodDelete, ts.URL+"/api/expenses", "")
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
	if body["message"] != msgMissingID {
		t.Errorf("message = %v, want %q", body["message"], msgMissingID)
	}
}

// failingStore simulates an unreachable backend.
type failingStore struct{}

var errBackendDown = errors.New("backend down")

func (failingStore) List(ctx context.Context) ([]core.Expense, error) {
	return nil, errBackendDown
}

func (failingStore) Create(ctx context.Context, expense core.Expense) (core.Expense, error) {
	return core.Expense{}, errBackendDown
}

func (failingStore) Delete(ctx context.Context, id string) error {
	return errBackendDown
}

func (failingStore) Close() error { return nil }

func TestBackendFailureMessages(t *testing.T) {
	ts := newTestServer(t, failingStore{})

	resp, body := doJSON(t, http.MethodGet, ts.URL+"/api/expenses", "")
	if resp.StatusCode != http.StatusInternalServerError {
		t.Fatalf("list status = %d, want 500", resp.StatusCode)
	}
	if body["message"] != msgDatabaseUnavailable {
		t.Errorf("list message = %v, want %q", body["message"], msgDatabaseUnavailable)
	}

	resp, body = doJSON(t, http.MethodPost, ts.URL+"/api/expenses",
		`{"title":"Coffee","amount":4.5,"currency":"USD","country":"US","occurredAt":"2026-02-01"}`)
	if resp.StatusCode != http.StatusInternalServerError {
		t.Fatalf("create status = %d, want 500", resp.StatusCode)
	}
	if body["message"] != msgDatabaseUnavailable {
		t.Errorf("create message = %v, want %q", body["message"], msgDatabaseUnavailable)
	}

	resp, body = doJSON(t, http.MethodDelete, ts.URL+"/api/expenses?id=e1", "")
	if resp.StatusCode != http.StatusInternalServerError {
		t.Fatalf("delete status = %d, want 500", resp.StatusCode)
	}
	if body["message"] != msgDeleteFailed {
		t.Errorf("delete message = %v, want %q", body["message"], msgDeleteFailed)
	}
}

func TestHealthEndpoints(t *testing.T) {
	ts := newTestServer(t, storage.NewMemoryStore())

	for _, path := range []string{"/healthz", "/readyz"} {
		resp, err := http.Get(ts.URL + path)
		if err != nil {
			t.Fatalf("get %s: %v", path, err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Errorf("%s status = %d, want 200", path, resp.StatusCode)
		}
	}
}

func TestServeIndex(t *testing.T) {
	ts := newTestServer(t, storage.NewMemoryStore())

	resp, err := http.Get(ts.URL + "/")
	if err != nil {
		t.Fatalf("get /: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); !strings.Contains(ct, "text/html") {
		t.Errorf("Content-Type = %q, want html", ct)
	}
}
