package amqp

import (
	"testing"
	"time"
)

func TestNewTransactionPostedMessage(t *testing.T) {
	msg := NewTransactionPostedMessage(12345)

	if msg.TransactionID != 12345 {
		t.Errorf("TransactionID = %d, want 12345", msg.TransactionID)
	}
	if msg.EventID == "" {
		t.Error("EventID should not be empty")
	}
	if msg.Timestamp.IsZero() {
		t.Error("Timestamp should not be zero")
	}
	if time.Since(msg.Timestamp) > time.Second {
		t.Error("Timestamp should be recent")
	}

	// Every event gets its own ID.
	other := NewTransactionPostedMessage(12345)
	if other.EventID == msg.EventID {
		t.Error("EventID should be unique per message")
	}
}

func TestTransactionPostedMessage_JSON(t *testing.T) {
	msg := &TransactionPostedMessage{
		EventID:       "evt-1",
		TransactionID: 42,
		Timestamp:     time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC),
	}

	jsonBytes, err := msg.ToJSON()
	if err != nil {
		t.Fatalf("ToJSON() error = %v", err)
	}

	parsed, err := TransactionPostedMessageFromJSON(jsonBytes)
	if err != nil {
		t.Fatalf("TransactionPostedMessageFromJSON() error = %v", err)
	}

	if parsed.EventID != msg.EventID {
		t.Errorf("EventID = %q, want %q", parsed.EventID, msg.EventID)
	}
	if parsed.TransactionID != msg.TransactionID {
		t.Errorf("TransactionID = %d, want %d", parsed.TransactionID, msg.TransactionID)
	}
	if !parsed.Timestamp.Equal(msg.Timestamp) {
		t.Errorf("Timestamp = %v, want %v", parsed.Timestamp, msg.Timestamp)
	}
}

func TestTransactionPostedMessage_InvalidJSON(t *testing.T) {
	if _, err := TransactionPostedMessageFromJSON([]byte(`{"transaction_id": "nope"}`)); err == nil {
		t.Error("TransactionPostedMessageFromJSON() should fail with invalid JSON")
	}
}
