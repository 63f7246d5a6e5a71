package amqp

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// TransactionPostedMessage announces a newly committed ledger row. It
// carries only the ID; the export worker reads the full row from the
// database, so a stale or duplicated message is harmless.
type TransactionPostedMessage struct {
	EventID       string    `json:"event_id"`
	TransactionID int64     `json:"transaction_id"`
	Timestamp     time.Time `json:"timestamp"`
}

func NewTransactionPostedMessage(transactionID int64) *TransactionPostedMessage {
	return &TransactionPostedMessage{
		EventID:       uuid.NewString(),
		TransactionID: transactionID,
		Timestamp:     time.Now(),
	}
}

func (m *TransactionPostedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func TransactionPostedMessageFromJSON(data []byte) (*TransactionPostedMessage, error) {
	var msg TransactionPostedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
