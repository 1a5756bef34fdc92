package order

import (
	"encoding/json"
	"time"
)

// Event types published to the notification topic.
const (
	EventOrderCreated       = "order.created"
	EventOrderStatusChanged = "order.status_changed"
)

// Event is the wire envelope for order notifications.
type Event struct {
	Type       string          `json:"type"`
	OrderID    string          `json:"order_id"`
	OccurredAt time.Time       `json:"occurred_at"`
	Data       json.RawMessage `json:"data"`
}

type OrderCreated struct {
	Order     Order  `json:"order"`
	UserEmail string `json:"user_email"`
	UserName  string `json:"user_name"`
}

type OrderStatusChanged struct {
	Order     Order  `json:"order"`
	UserEmail string `json:"user_email"`
	UserName  string `json:"user_name"`
	OldStatus Status `json:"old_status"`
	NewStatus Status `json:"new_status"`
}

// NewEvent wraps a payload into the envelope.
func NewEvent(eventType, orderID string, payload any) (Event, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return Event{}, err
	}
	return Event{
		Type:       eventType,
		OrderID:    orderID,
		OccurredAt: time.Now(),
		Data:       data,
	}, nil
}
