package repositories

import (
	"context"

	"github.com/zatekoja/claimsflow/internal/domain/entities"
)

// ClaimMutation edits a claim in place. Returning an error aborts the update
// and leaves the stored claim untouched.
type ClaimMutation func(claim *entities.Claim) error

// ClaimRepository defines the interface for claim storage
type ClaimRepository interface {
	// Create stores a new claim
	Create(ctx context.Context, claim *entities.Claim) error

	// GetByID retrieves a claim by ID
	GetByID(ctx context.Context, id string) (*entities.Claim, error)

	// List returns every claim, newest first
	List(ctx context.Context) ([]*entities.Claim, error)

	// Update applies mutate to the stored claim and persists the result.
	// Implementations serialize concurrent updates to the same claim.
	Update(ctx context.Context, id string, mutate ClaimMutation) (*entities.Claim, error)
}
