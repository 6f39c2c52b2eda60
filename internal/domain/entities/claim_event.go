package entities

import "time"

// ClaimEventType identifies what happened to a claim
type ClaimEventType string

const (
	ClaimEventCreated       ClaimEventType = "claim.created"
	ClaimEventStatusChanged ClaimEventType = "claim.status_changed"
	ClaimEventNoteAdded     ClaimEventType = "claim.note_added"
)

// ClaimEvent is published after a claim mutation is stored
type ClaimEvent struct {
	ID             string         `json:"id"`
	Type           ClaimEventType `json:"type"`
	ClaimID        string         `json:"claimId"`
	Status         ClaimStatus    `json:"status"`
	PreviousStatus ClaimStatus    `json:"previousStatus,omitempty"`
	Timestamp      time.Time      `json:"timestamp"`
}
