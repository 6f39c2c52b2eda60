package services

import (
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/zatekoja/claimsflow/internal/domain/entities"
)

const (
	minPolicyLimit = 1000
	maxPolicyLimit = 100000
	policyIDSpace  = 900000
)

// GeneratePolicies returns n distinct POL-dddddd policies. Limits are whole
// thousands between 1,000 and 100,000; the claimed amount never exceeds 90%
// of the limit.
func GeneratePolicies(rng *rand.Rand, n int) ([]entities.Policy, error) {
	if n < 0 || n > policyIDSpace {
		return nil, fmt.Errorf("policy count must be between 0 and %d, got %d", policyIDSpace, n)
	}

	used := make(map[int]struct{}, n)
	policies := make([]entities.Policy, 0, n)
	for len(policies) < n {
		number := 100000 + rng.IntN(policyIDSpace)
		if _, dup := used[number]; dup {
			continue
		}
		used[number] = struct{}{}

		raw := minPolicyLimit + rng.IntN(maxPolicyLimit-minPolicyLimit+1)
		limit := int64(math.Round(float64(raw)/1000) * 1000)
		maxClaimed := int64(math.Floor(float64(limit) * 0.9))

		policies = append(policies, entities.Policy{
			PolicyID:      fmt.Sprintf("POL-%d", number),
			TotalLimit:    limit,
			ClaimedAmount: rng.Int64N(maxClaimed + 1),
		})
	}
	return policies, nil
}
