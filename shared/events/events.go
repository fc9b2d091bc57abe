package events

import (
	"encoding/json"
	"fmt"
	"time"
)

// Event types
const (
	CustomerCreated = "customer.created"
	CustomerUpdated = "customer.updated"
	CustomerDeleted = "customer.deleted"
	// CustomerTransactionsPurged reports transactions removed by a
	// deletion whose customer row survived.
	CustomerTransactionsPurged = "customer.transactions_purged"

	TransactionCreated = "transaction.created"
	TransactionDeleted = "transaction.deleted"
)

// Stream names
const (
	CustomerEventsStream    = "customer.events"
	TransactionEventsStream = "transaction.events"
)

// Base event structure
type Event struct {
	Type      string          `json:"type"`
	Timestamp time.Time       `json:"timestamp"`
	Data      json.RawMessage `json:"data"`
}

// Decode unmarshals the event payload into T.
func Decode[T any](e Event) (T, error) {
	var v T
	if err := json.Unmarshal(e.Data, &v); err != nil {
		return v, fmt.Errorf("failed to decode %s payload: %w", e.Type, err)
	}
	return v, nil
}

// Customer events
type CustomerCreatedEvent struct {
	CustomerID string `json:"customerId"`
	Name       string `json:"name"`
}

type CustomerUpdatedEvent struct {
	CustomerID string `json:"customerId"`
	Name       string `json:"name"`
}

// CustomerDeletedEvent is published once the customer row and its
// transactions are gone.
type CustomerDeletedEvent struct {
	CustomerID          string `json:"customerId"`
	TransactionsRemoved int64  `json:"transactionsRemoved"`
}

type CustomerTransactionsPurgedEvent struct {
	CustomerID          string `json:"customerId"`
	TransactionsRemoved int64  `json:"transactionsRemoved"`
}

// Transaction events
type TransactionCreatedEvent struct {
	TransactionID string `json:"transactionId"`
	CustomerID    string `json:"customerId"`
	Type          string `json:"type"`
	Amount        string `json:"amount"`
}

type TransactionDeletedEvent struct {
	TransactionID string `json:"transactionId"`
	CustomerID    string `json:"customerId"`
}
