package amqp

import (
	"encoding/json"
	"time"

	"grocer/internal/core"
)

// SaleRecordedMessage announces one recorded sale.
type SaleRecordedMessage struct {
	GroceryID string    `json:"grocery_id"`
	Quantity  int       `json:"quantity"`
	Payment   string    `json:"payment"`
	Date      string    `json:"date"`
	Time      string    `json:"time"`
	Timestamp time.Time `json:"timestamp"`
}

func NewSaleRecordedMessage(tx core.Transaction) *SaleRecordedMessage {
	return &SaleRecordedMessage{
		GroceryID: tx.GroceryID,
		Quantity:  tx.Quantity,
		Payment:   core.FormatMoney(tx.Payment),
		Date:      tx.Date,
		Time:      tx.Time,
		Timestamp: time.Now().UTC(),
	}
}

func (m *SaleRecordedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}
