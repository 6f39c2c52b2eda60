package repositories

import (
	"context"

	"github.com/zatekoja/claimsflow/internal/domain/entities"
)

// PolicyRepository answers lookups against the policy ledger
type PolicyRepository interface {
	// GetByID retrieves a policy by its normalized id
	GetByID(ctx context.Context, policyID string) (*entities.Policy, error)

	// List returns every policy sorted by id
	List(ctx context.Context) ([]*entities.Policy, error)
}
