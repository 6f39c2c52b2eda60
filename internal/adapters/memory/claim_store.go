// Package memory holds process-local stores used for development and tests.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/zatekoja/claimsflow/internal/domain/entities"
	"github.com/zatekoja/claimsflow/internal/domain/repositories"
	apperrors "github.com/zatekoja/claimsflow/pkg/errors"
)

// ClaimStore is a mutex-guarded in-memory ClaimRepository
type ClaimStore struct {
	mu     sync.RWMutex
	claims map[string]*entities.Claim
}

// NewClaimStore creates an empty claim store
func NewClaimStore() *ClaimStore {
	return &ClaimStore{claims: make(map[string]*entities.Claim)}
}

var _ repositories.ClaimRepository = (*ClaimStore)(nil)

// Create stores a new claim
func (s *ClaimStore) Create(ctx context.Context, claim *entities.Claim) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.claims[claim.ID]; exists {
		return apperrors.NewConflictError("claim " + claim.ID + " already exists")
	}
	s.claims[claim.ID] = claim.Clone()
	return nil
}

// GetByID retrieves a claim by ID
func (s *ClaimStore) GetByID(ctx context.Context, id string) (*entities.Claim, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	claim, ok := s.claims[id]
	if !ok {
		return nil, apperrors.NewNotFoundError("Claim not found")
	}
	return claim.Clone(), nil
}

// List returns every claim, newest first
func (s *ClaimStore) List(ctx context.Context) ([]*entities.Claim, error) {
	s.mu.RLock()
	out := make([]*entities.Claim, 0, len(s.claims))
	for _, claim := range s.claims {
		out = append(out, claim.Clone())
	}
	s.mu.RUnlock()

	sortNewestFirst(out)
	return out, nil
}

// Update applies mutate under the write lock
func (s *ClaimStore) Update(ctx context.Context, id string, mutate repositories.ClaimMutation) (*entities.Claim, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.claims[id]
	if !ok {
		return nil, apperrors.NewNotFoundError("Claim not found")
	}

	next := current.Clone()
	if err := mutate(next); err != nil {
		return nil, err
	}
	s.claims[id] = next
	return next.Clone(), nil
}

func sortNewestFirst(claims []*entities.Claim) {
	sort.SliceStable(claims, func(i, j int) bool {
		if claims[i].SubmittedAt.Equal(claims[j].SubmittedAt) {
			return claims[i].ID > claims[j].ID
		}
		return claims[i].SubmittedAt.After(claims[j].SubmittedAt)
	})
}
