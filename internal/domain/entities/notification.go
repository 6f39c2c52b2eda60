package entities

import "time"

// NotificationOutcome is the observable result of a best-effort delivery
type NotificationOutcome string

const (
	NotificationDelivered NotificationOutcome = "delivered"
	NotificationFailed    NotificationOutcome = "failed"
	NotificationSkipped   NotificationOutcome = "skipped"
)

// Notification is one outbound message to the messaging service
type Notification struct {
	From    string `json:"from"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// DeliveryReport records how a best-effort delivery went
type DeliveryReport struct {
	Target   string              `json:"target"`
	Outcome  NotificationOutcome `json:"outcome"`
	Error    string              `json:"error,omitempty"`
	Duration time.Duration       `json:"duration"`
	// RemoteID is the id the downstream service assigned, when it returned one.
	RemoteID string `json:"remoteId,omitempty"`
}

// Delivered reports whether the downstream accepted the delivery
func (r DeliveryReport) Delivered() bool {
	return r.Outcome == NotificationDelivered
}
