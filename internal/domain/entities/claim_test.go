package entities_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/zatekoja/claimsflow/internal/domain/entities"
)

func TestParseClaimStatus(t *testing.T) {
	tests := []struct {
		in   string
		want entities.ClaimStatus
		ok   bool
	}{
		{"pending", entities.ClaimStatusPending, true},
		{" Accepted ", entities.ClaimStatusAccepted, true},
		{"REJECTED", entities.ClaimStatusRejected, true},
		{"approved", "", false},
		{"processing", "", false},
		{"completed", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := entities.ParseClaimStatus(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestClaimStatus_CanTransitionTo(t *testing.T) {
	pending := entities.ClaimStatusPending
	accepted := entities.ClaimStatusAccepted
	rejected := entities.ClaimStatusRejected

	assert.True(t, pending.CanTransitionTo(accepted))
	assert.True(t, pending.CanTransitionTo(rejected))
	assert.True(t, pending.CanTransitionTo(pending))

	assert.True(t, accepted.CanTransitionTo(accepted))
	assert.False(t, accepted.CanTransitionTo(pending))
	assert.False(t, accepted.CanTransitionTo(rejected))

	assert.True(t, rejected.CanTransitionTo(rejected))
	assert.False(t, rejected.CanTransitionTo(pending))
	assert.False(t, rejected.CanTransitionTo(accepted))
}

func TestClaim_CloneCopiesNotes(t *testing.T) {
	c := &entities.Claim{ID: "c1", Notes: []entities.ClaimNote{{ID: "n1", Text: "a"}}}
	cp := c.Clone()
	cp.Notes[0].Text = "changed"

	assert.Equal(t, "a", c.Notes[0].Text)
}

func TestPolicy_Summary(t *testing.T) {
	p := entities.Policy{PolicyID: "POL-100000", TotalLimit: 5000, ClaimedAmount: 1000}

	assert.Equal(t, entities.PolicySummary{
		PolicyID:             "POL-100000",
		TotalPolicyLimit:     5000,
		TotalClaimedAmount:   1000,
		RemainingPolicyLimit: 4000,
	}, p.Summary())
}
