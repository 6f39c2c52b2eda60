package entities

import "time"

// Message is a notification record held by the messaging service
type Message struct {
	ID         int64     `json:"id"`
	From       string    `json:"from"`
	Subject    string    `json:"subject"`
	Body       string    `json:"body"`
	ReceivedAt time.Time `json:"receivedAt"`
	Read       bool      `json:"read"`
}
