package events

import (
	"encoding/json"
	"time"

	"outlay/internal/core"
)

// Actions carried by expense messages.
const (
	ActionCreated = "created"
	ActionDeleted = "deleted"
)

// ExpenseMessage notifies downstream consumers that an expense was created or
// deleted. Deleted messages carry only the id.
type ExpenseMessage struct {
	Action    string        `json:"action"`
	ID        string        `json:"id"`
	Expense   *core.Expense `json:"expense,omitempty"`
	Timestamp time.Time     `json:"timestamp"`
}

// NewCreatedMessage builds the message for a freshly stored expense.
func NewCreatedMessage(expense core.Expense) *ExpenseMessage {
	return &ExpenseMessage{
		Action:    ActionCreated,
		ID:        expense.ID,
		Expense:   &expense,
		Timestamp: time.Now(),
	}
}

// NewDeletedMessage builds the message for a removed expense id.
func NewDeletedMessage(id string) *ExpenseMessage {
	return &ExpenseMessage{
		Action:    ActionDeleted,
		ID:        id,
		Timestamp: time.Now(),
	}
}

// ToJSON converts the message to JSON bytes.
func (m *ExpenseMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// ExpenseMessageFromJSON creates a message from JSON bytes.
func ExpenseMessageFromJSON(data []byte) (*ExpenseMessage, error) {
	var msg ExpenseMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
