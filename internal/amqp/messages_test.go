package amqp

import (
	"testing"
	"time"
)

func TestNewLedgerEventMessage(t *testing.T) {
	msg := NewLedgerEventMessage(OpAdd, "tx-1", 7)
	if msg.Op != OpAdd || msg.TxID != "tx-1" || msg.Revision != 7 {
		t.Fatalf("unexpected message: %+v", msg)
	}
	if msg.Timestamp.IsZero() {
		t.Fatal("timestamp should be set")
	}
}

func TestLedgerEventMessage_JSON(t *testing.T) {
	msg := &LedgerEventMessage{
		Op:        OpRemove,
		TxID:      "tx-9",
		Revision:  42,
		Timestamp: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC),
	}
	b, err := msg.ToJSON()
	if err != nil {
		t.Fatalf("ToJSON() error = %v", err)
	}
	parsed, err := LedgerEventMessageFromJSON(b)
	if err != nil {
		t.Fatalf("LedgerEventMessageFromJSON() error = %v", err)
	}
	if parsed.Op != msg.Op || parsed.TxID != msg.TxID || parsed.Revision != msg.Revision {
		t.Fatalf("round trip changed the message: %+v", parsed)
	}
	if !parsed.Timestamp.Equal(msg.Timestamp) {
		t.Fatalf("timestamp changed: %v", parsed.Timestamp)
	}
}

func TestLedgerEventMessage_InvalidJSON(t *testing.T) {
	if _, err := LedgerEventMessageFromJSON([]byte(`{"revision": "nope"}`)); err == nil {
		t.Fatal("expected error for invalid JSON")
	}
}
