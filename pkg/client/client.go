// Package client is a typed Go client for the expense API, plus an AppState
// that mirrors the browser client's in-memory state.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"outlay/internal/core"
)

// Client talks to the three expense endpoints.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func New(baseURL string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

// NewWithHTTPClient allows callers to supply their own http.Client.
func NewWithHTTPClient(baseURL string, httpClient *http.Client) *Client {
	c := New(baseURL)
	c.httpClient = httpClient
	return c
}

// APIError is a non-2xx response: the HTTP status plus the server's
// user-facing message.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("server returned %d: %s", e.StatusCode, e.Message)
}

// CreateInput is the create payload. Amount travels as a string; the server
// accepts both numeric and string amounts and is the validation authority,
// exactly as for the browser client.
type CreateInput struct {
	Title      string `json:"title"`
	Amount     string `json:"amount"`
	Currency   string `json:"currency"`
	Country    string `json:"country"`
	Category   string `json:"category,omitempty"`
	Note       string `json:"note,omitempty"`
	OccurredAt string `json:"occurredAt"`
}

// List fetches the most recent expenses.
func (c *Client) List(ctx context.Context) ([]core.Expense, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/expenses", nil)
	if err != nil {
		return nil, err
	}

	var expenses []core.Expense
	if err := c.do(req, http.StatusOK, &expenses); err != nil {
		return nil, err
	}
	return expenses, nil
}

// Create submits a candidate expense and returns the stored record.
func (c *Client) Create(ctx context.Context, input CreateInput) (core.Expense, error) {
	body, err := json.Marshal(input)
	if err != nil {
		return core.Expense{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/expenses", bytes.NewReader(body))
	if err != nil {
		return core.Expense{}, err
	}
	req.Header.Set("Content-Type", "application/json")

	var created core.Expense
	if err := c.do(req, http.StatusCreated, &created); err != nil {
		return core.Expense{}, err
	}
	return created, nil
}

// Delete removes an expense by id. The server acknowledges deletes of absent
// ids as success.
func (c *Client) Delete(ctx context.Context, id string) error {
	u := c.baseURL + "/api/expenses?id=" + url.QueryEscape(id)
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, u, nil)
	if err != nil {
		return err
	}

	var ack struct {
		OK bool `json:"ok"`
	}
	return c.do(req, http.StatusOK, &ack)
}

func (c *Client) do(req *http.Request, wantStatus int, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != wantStatus {
		var apiErr struct {
			Message string `json:"message"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&apiErr); err != nil || apiErr.Message == "" {
			apiErr.Message = http.StatusText(resp.StatusCode)
		}
		return &APIError{StatusCode: resp.StatusCode, Message: apiErr.Message}
	}

	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
