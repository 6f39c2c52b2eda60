package entities

// Policy is a row of the static policy ledger
type Policy struct {
	PolicyID      string `json:"policyId"`
	TotalLimit    int64  `json:"totalPolicyLimit"`
	ClaimedAmount int64  `json:"totalClaimedAmount"`
}

// RemainingLimit is the part of the limit not yet claimed
func (p Policy) RemainingLimit() int64 {
	return p.TotalLimit - p.ClaimedAmount
}

// PolicySummary is the wire shape returned by policy lookups
type PolicySummary struct {
	PolicyID             string `json:"policyId"`
	TotalPolicyLimit     int64  `json:"totalPolicyLimit"`
	TotalClaimedAmount   int64  `json:"totalClaimedAmount"`
	RemainingPolicyLimit int64  `json:"remainingPolicyLimit"`
}

// Summary converts a ledger row to its lookup response
func (p Policy) Summary() PolicySummary {
	return PolicySummary{
		PolicyID:             p.PolicyID,
		TotalPolicyLimit:     p.TotalLimit,
		TotalClaimedAmount:   p.ClaimedAmount,
		RemainingPolicyLimit: p.RemainingLimit(),
	}
}
