package amqp

import (
	"encoding/json"
	"time"
)

// Ledger event operations.
const (
	OpAdd    = "add"
	OpUpdate = "update"
	OpRemove = "remove"
)

// LedgerEventMessage announces one applied ledger mutation. It carries
// only the operation, the transaction id and the ledger revision after
// the mutation; the mirror worker reads the current list from storage,
// so the message never duplicates record data.
type LedgerEventMessage struct {
	Op        string    `json:"op"`
	TxID      string    `json:"tx_id"`
	Revision  uint64    `json:"revision"`
	Timestamp time.Time `json:"timestamp"`
}

func NewLedgerEventMessage(op, txID string, revision uint64) *LedgerEventMessage {
	return &LedgerEventMessage{
		Op:        op,
		TxID:      txID,
		Revision:  revision,
		Timestamp: time.Now(),
	}
}

// ToJSON converts the message to JSON bytes.
func (m *LedgerEventMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// LedgerEventMessageFromJSON decodes a message from JSON bytes.
func LedgerEventMessageFromJSON(data []byte) (*LedgerEventMessage, error) {
	var msg LedgerEventMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
