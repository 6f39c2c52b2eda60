package providers

import (
	"context"

	"github.com/zatekoja/claimsflow/internal/domain/entities"
)

// PolicyLookup fetches policy limits from the policy service
type PolicyLookup interface {
	// GetPolicy returns a NotFound AppError for unknown ids and an
	// External AppError when the policy service cannot be reached.
	GetPolicy(ctx context.Context, policyID string) (*entities.PolicySummary, error)
}
