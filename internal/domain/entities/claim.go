package entities

import (
	"strings"
	"time"
)

// ClaimStatus represents where a claim is in review
type ClaimStatus string

const (
	ClaimStatusPending  ClaimStatus = "pending"
	ClaimStatusAccepted ClaimStatus = "accepted"
	ClaimStatusRejected ClaimStatus = "rejected"
)

// ClaimDateLayout is the calendar date format used for Claim.Date
const ClaimDateLayout = "2006-01-02"

// Claim represents one submitted insurance claim
type Claim struct {
	ID           string      `json:"id" db:"id"`
	PolicyNumber string      `json:"policyNumber" db:"policy_number"`
	Description  string      `json:"description" db:"description"`
	Amount       float64     `json:"amount" db:"amount"`
	Date         string      `json:"date" db:"claim_date"`
	Status       ClaimStatus `json:"status" db:"status"`
	SubmittedAt  time.Time   `json:"submittedAt" db:"submitted_at"`
	UpdatedAt    time.Time   `json:"updatedAt" db:"updated_at"`
	Notes        []ClaimNote `json:"notes" db:"notes"`
}

// ClaimNote is a free-text annotation left on a claim by a reviewer
type ClaimNote struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	Author    string    `json:"author"`
	CreatedAt time.Time `json:"createdAt"`
}

// ParseClaimStatus normalizes s and reports whether it is a recognized status.
func ParseClaimStatus(s string) (ClaimStatus, bool) {
	status := ClaimStatus(strings.ToLower(strings.TrimSpace(s)))
	switch status {
	case ClaimStatusPending, ClaimStatusAccepted, ClaimStatusRejected:
		return status, true
	}
	return "", false
}

// IsTerminal reports whether no other status may follow s.
func (s ClaimStatus) IsTerminal() bool {
	return s == ClaimStatusAccepted || s == ClaimStatusRejected
}

// CanTransitionTo reports whether a claim in status s may move to next.
// Re-applying the current status is always allowed.
func (s ClaimStatus) CanTransitionTo(next ClaimStatus) bool {
	if s == next {
		return true
	}
	return !s.IsTerminal()
}

// Clone returns a deep copy so stores never hand out their own notes slice.
func (c *Claim) Clone() *Claim {
	if c == nil {
		return nil
	}
	out := *c
	if c.Notes != nil {
		out.Notes = make([]ClaimNote, len(c.Notes))
		copy(out.Notes, c.Notes)
	}
	return &out
}
