// Package events announces committed ledger changes to other systems.
package events

import (
	"context"
	"encoding/json"
	"time"
)

// Kind names a ledger event. It doubles as the AMQP routing key.
type Kind string

const (
	KindExpenseRecorded         Kind = "expense.recorded"
	KindExpenseDeleted          Kind = "expense.deleted"
	KindShareSettled            Kind = "share.settled"
	KindGroupSplitsRecalculated Kind = "group.splits_recalculated"
)

// Event is a lightweight notification. Consumers fetch full records from the
// ledger by ID; amounts are carried as fixed two-place strings.
type Event struct {
	Kind      Kind      `json:"kind"`
	GroupID   string    `json:"group_id,omitempty"`
	ExpenseID string    `json:"expense_id,omitempty"`
	ShareID   string    `json:"share_id,omitempty"`
	Actor     string    `json:"actor,omitempty"`
	Members   []string  `json:"members,omitempty"`
	Amount    string    `json:"amount,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// ToJSON converts the event to JSON bytes.
func (e *Event) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// EventFromJSON decodes an event published by a Publisher.
func EventFromJSON(data []byte) (*Event, error) {
	var e Event
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, err
	}
	return &e, nil
}

// Publisher delivers events after the change they describe has committed.
// Delivery is best effort; a failed publish never undoes a ledger change.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
	Close() error
}

// NopPublisher discards every event. It is used when no broker is configured.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Event) error { return nil }
func (NopPublisher) Close() error                         { return nil }
