package amqp

import (
	"encoding/json"
	"time"
)

// NotificationMessage carries a reminder about an upcoming automatic
// contribution. Consumers render it however they deliver notifications.
type NotificationMessage struct {
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	Timestamp time.Time `json:"timestamp"`
}

// NewNotificationMessage creates a notification message stamped with now
func NewNotificationMessage(title, body string) *NotificationMessage {
	return &NotificationMessage{
		Title:     title,
		Body:      body,
		Timestamp: time.Now(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *NotificationMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// NotificationMessageFromJSON creates a message from JSON bytes
func NotificationMessageFromJSON(data []byte) (*NotificationMessage, error) {
	var msg NotificationMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
