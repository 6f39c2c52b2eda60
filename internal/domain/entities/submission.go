package entities

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ClaimSubmission is the claim form accepted by the submission service.
// The management webhook accepts the same shape.
type ClaimSubmission struct {
	PolicyNumber string      `json:"policyNumber"`
	Description  string      `json:"description"`
	ClaimAmount  AmountInput `json:"claimAmount"`
	ClaimDate    string      `json:"claimDate"`
}

// WebhookClaim is the payload pushed to the management webhook
type WebhookClaim = ClaimSubmission

// AmountInput holds an amount supplied either as a JSON number or as a
// numeric string. The zero value means the field was absent.
type AmountInput string

// UnmarshalJSON implements json.Unmarshaler
func (a *AmountInput) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*a = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*a = AmountInput(strings.TrimSpace(s))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("amount must be a number: %w", err)
	}
	*a = AmountInput(n.String())
	return nil
}

// MarshalJSON echoes numeric amounts as JSON numbers
func (a AmountInput) MarshalJSON() ([]byte, error) {
	if a == "" {
		return []byte("null"), nil
	}
	if _, err := strconv.ParseFloat(string(a), 64); err == nil {
		return []byte(a), nil
	}
	return json.Marshal(string(a))
}

// Float parses the amount
func (a AmountInput) Float() (float64, error) {
	return strconv.ParseFloat(strings.TrimSpace(string(a)), 64)
}

// Positive parses the amount and reports whether it is a finite value above zero
func (a AmountInput) Positive() (float64, bool) {
	amount, err := a.Float()
	if err != nil || math.IsNaN(amount) || math.IsInf(amount, 0) || amount <= 0 {
		return 0, false
	}
	return amount, true
}

// Missing reports which of the four required fields are empty
func (s ClaimSubmission) Missing() []string {
	var missing []string
	if strings.TrimSpace(s.PolicyNumber) == "" {
		missing = append(missing, "policyNumber")
	}
	if strings.TrimSpace(s.Description) == "" {
		missing = append(missing, "description")
	}
	if strings.TrimSpace(string(s.ClaimAmount)) == "" {
		missing = append(missing, "claimAmount")
	}
	if strings.TrimSpace(s.ClaimDate) == "" {
		missing = append(missing, "claimDate")
	}
	return missing
}
