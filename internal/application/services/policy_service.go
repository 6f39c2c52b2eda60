package services

import (
	"context"

	"github.com/zatekoja/claimsflow/internal/domain/entities"
	"github.com/zatekoja/claimsflow/internal/domain/repositories"
)

// PolicyService answers lookups against the loaded ledger
type PolicyService struct {
	repo repositories.PolicyRepository
}

// NewPolicyService creates a new policy service
func NewPolicyService(repo repositories.PolicyRepository) *PolicyService {
	return &PolicyService{repo: repo}
}

// Get returns the summary for policyID, matched case-insensitively
func (s *PolicyService) Get(ctx context.Context, policyID string) (*entities.PolicySummary, error) {
	policy, err := s.repo.GetByID(ctx, policyID)
	if err != nil {
		return nil, err
	}
	summary := policy.Summary()
	return &summary, nil
}

// List returns every policy summary sorted by id
func (s *PolicyService) List(ctx context.Context) ([]entities.PolicySummary, error) {
	policies, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]entities.PolicySummary, 0, len(policies))
	for _, p := range policies {
		out = append(out, p.Summary())
	}
	return out, nil
}
