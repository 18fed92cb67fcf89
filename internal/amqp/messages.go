package amqp

import (
	"encoding/json"
	"fmt"
	"time"
)

// Message kinds on the sync queue.
const (
	MessageKindSync   = "sync"
	MessageKindDelete = "delete"
)

// TransactionMessage is the lightweight notification published when a raw
// transaction changes. It carries the source type and id only; the export
// worker reloads the full collections from storage before rebuilding the
// ledger.
type TransactionMessage struct {
	Kind      string    `json:"kind"` // sync or delete
	Type      string    `json:"type"` // invoice, expense or sale
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
}

// NewSyncMessage creates a message for a created or updated transaction.
func NewSyncMessage(txType, id string) *TransactionMessage {
	return &TransactionMessage{
		Kind:      MessageKindSync,
		Type:      txType,
		ID:        id,
		Timestamp: time.Now(),
	}
}

// NewDeleteMessage creates a message for a removed transaction.
func NewDeleteMessage(txType, id string) *TransactionMessage {
	return &TransactionMessage{
		Kind:      MessageKindDelete,
		Type:      txType,
		ID:        id,
		Timestamp: time.Now(),
	}
}

// ToJSON converts the message to JSON bytes.
func (m *TransactionMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// TransactionMessageFromJSON parses a message from JSON bytes.
func TransactionMessageFromJSON(data []byte) (*TransactionMessage, error) {
	var msg TransactionMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	if msg.Kind != MessageKindSync && msg.Kind != MessageKindDelete {
		return nil, fmt.Errorf("unknown message kind %q", msg.Kind)
	}
	return &msg, nil
}
