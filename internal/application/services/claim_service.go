package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"

	"github.com/zatekoja/claimsflow/internal/domain/entities"
	"github.com/zatekoja/claimsflow/internal/domain/providers"
	"github.com/zatekoja/claimsflow/internal/domain/repositories"
	"github.com/zatekoja/claimsflow/internal/infrastructure/observability"
	apperrors "github.com/zatekoja/claimsflow/pkg/errors"
)

// DefaultNoteAuthor is used when a note arrives without an author
const DefaultNoteAuthor = "reviewer"

// NewClaim holds the fields a reviewer enters to create a claim
type NewClaim struct {
	PolicyNumber string               `json:"policyNumber"`
	Description  string               `json:"description"`
	Amount       entities.AmountInput `json:"amount"`
	Date         string               `json:"date"`
}

// PolicyCheck compares a claim against its policy's remaining limit
type PolicyCheck struct {
	Claim       *entities.Claim         `json:"claim"`
	Policy      *entities.PolicySummary `json:"policy"`
	WithinLimit bool                    `json:"withinLimit"`
}

// ClaimServiceConfig wires the optional collaborators of ClaimService
type ClaimServiceConfig struct {
	// StoreName labels store metrics, e.g. "csv"
	StoreName string
	Metrics   *observability.Metrics
	// Publisher receives lifecycle events; nil disables them
	Publisher providers.EventPublisher
	// Policies backs CheckPolicy; nil makes it fail as unavailable
	Policies providers.PolicyLookup
}

// ClaimService owns the claim lifecycle
type ClaimService struct {
	repo repositories.ClaimRepository
	cfg  ClaimServiceConfig
	now  func() time.Time
}

// NewClaimService creates a new claim service
func NewClaimService(repo repositories.ClaimRepository, cfg ClaimServiceConfig) *ClaimService {
	return &ClaimService{repo: repo, cfg: cfg, now: time.Now}
}

// Create validates input and stores a new pending claim
func (s *ClaimService) Create(ctx context.Context, in NewClaim) (*entities.Claim, error) {
	policyNumber := strings.TrimSpace(in.PolicyNumber)
	if policyNumber == "" {
		return nil, apperrors.NewValidationError("policyNumber is required")
	}
	description := strings.TrimSpace(in.Description)
	if description == "" {
		return nil, apperrors.NewValidationError("description is required")
	}
	date, err := normalizeClaimDate(in.Date)
	if err != nil {
		return nil, err
	}
	amount, ok := in.Amount.Positive()
	if !ok {
		return nil, apperrors.NewValidationError("amount must be a positive number")
	}

	now := s.now().UTC()
	claim := &entities.Claim{
		ID:           uuid.New().String(),
		PolicyNumber: policyNumber,
		Description:  description,
		Amount:       amount,
		Date:         date,
		Status:       entities.ClaimStatusPending,
		SubmittedAt:  now,
		UpdatedAt:    now,
		Notes:        []entities.ClaimNote{},
	}

	start := time.Now()
	err = s.repo.Create(ctx, claim)
	s.observe(ctx, "create", start)
	if err != nil {
		return nil, err
	}

	s.publish(ctx, entities.ClaimEventCreated, claim, "")
	return claim, nil
}

// Ingest creates a claim from a webhook payload
func (s *ClaimService) Ingest(ctx context.Context, payload entities.WebhookClaim) (*entities.Claim, error) {
	if missing := payload.Missing(); len(missing) > 0 {
		return nil, apperrors.NewValidationError("All fields are required")
	}
	return s.Create(ctx, NewClaim{
		PolicyNumber: payload.PolicyNumber,
		Description:  payload.Description,
		Amount:       payload.ClaimAmount,
		Date:         payload.ClaimDate,
	})
}

// List returns every claim, newest first
func (s *ClaimService) List(ctx context.Context) ([]*entities.Claim, error) {
	start := time.Now()
	claims, err := s.repo.List(ctx)
	s.observe(ctx, "list", start)
	return claims, err
}

// Get returns one claim
func (s *ClaimService) Get(ctx context.Context, id string) (*entities.Claim, error) {
	start := time.Now()
	claim, err := s.repo.GetByID(ctx, id)
	s.observe(ctx, "get", start)
	return claim, err
}

// UpdateStatus moves a claim to rawStatus. Unknown statuses are rejected
// before the store is touched; moves out of a terminal status conflict.
func (s *ClaimService) UpdateStatus(ctx context.Context, id, rawStatus string) (*entities.Claim, error) {
	next, ok := entities.ParseClaimStatus(rawStatus)
	if !ok {
		return nil, apperrors.NewValidationError("Invalid status")
	}

	var previous entities.ClaimStatus
	start := time.Now()
	claim, err := s.repo.Update(ctx, id, func(c *entities.Claim) error {
		if !c.Status.CanTransitionTo(next) {
			return apperrors.NewConflictError(fmt.Sprintf("Claim is already %s and cannot become %s", c.Status, next))
		}
		previous = c.Status
		c.Status = next
		c.UpdatedAt = s.now().UTC()
		return nil
	})
	s.observe(ctx, "update_status", start)
	if err != nil {
		return nil, err
	}

	s.publish(ctx, entities.ClaimEventStatusChanged, claim, previous)
	return claim, nil
}

// AddNote appends a reviewer note to a claim
func (s *ClaimService) AddNote(ctx context.Context, id, text, author string) (*entities.Claim, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, apperrors.NewValidationError("Note text is required")
	}
	author = orDefault(strings.TrimSpace(author), DefaultNoteAuthor)

	start := time.Now()
	claim, err := s.repo.Update(ctx, id, func(c *entities.Claim) error {
		now := s.now().UTC()
		c.Notes = append(c.Notes, entities.ClaimNote{
			ID:        ulid.Make().String(),
			Text:      text,
			Author:    author,
			CreatedAt: now,
		})
		c.UpdatedAt = now
		return nil
	})
	s.observe(ctx, "add_note", start)
	if err != nil {
		return nil, err
	}

	s.publish(ctx, entities.ClaimEventNoteAdded, claim, "")
	return claim, nil
}

// CheckPolicy looks up the claim's policy and reports whether the claim
// amount fits in the remaining limit.
func (s *ClaimService) CheckPolicy(ctx context.Context, id string) (*PolicyCheck, error) {
	claim, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if s.cfg.Policies == nil {
		return nil, apperrors.NewUpstreamError("Policy service unavailable", fmt.Errorf("no policy service configured"))
	}

	policy, err := s.cfg.Policies.GetPolicy(ctx, claim.PolicyNumber)
	if err != nil {
		return nil, err
	}
	return &PolicyCheck{
		Claim:       claim,
		Policy:      policy,
		WithinLimit: claim.Amount <= float64(policy.RemainingPolicyLimit),
	}, nil
}

func (s *ClaimService) observe(ctx context.Context, operation string, start time.Time) {
	observability.RecordStoreMetric(ctx, s.cfg.Metrics, s.cfg.StoreName, operation, time.Since(start))
}

// publish is best effort: a failed publish is logged, never returned.
func (s *ClaimService) publish(ctx context.Context, eventType entities.ClaimEventType, claim *entities.Claim, previous entities.ClaimStatus) {
	if s.cfg.Publisher == nil {
		return
	}
	event := &entities.ClaimEvent{
		ID:             uuid.New().String(),
		Type:           eventType,
		ClaimID:        claim.ID,
		Status:         claim.Status,
		PreviousStatus: previous,
		Timestamp:      s.now().UTC(),
	}
	if err := s.cfg.Publisher.Publish(ctx, providers.EventChannelClaims, event); err != nil {
		observability.LoggerFromContext(ctx).Warn().
			Err(err).
			Str("claim_id", claim.ID).
			Str("type", string(eventType)).
			Msg("Failed to publish claim event")
	}
}

// normalizeClaimDate accepts YYYY-MM-DD or an RFC 3339 timestamp and returns
// the calendar date.
func normalizeClaimDate(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", apperrors.NewValidationError("date is required")
	}
	if t, err := time.Parse(entities.ClaimDateLayout, raw); err == nil {
		return t.Format(entities.ClaimDateLayout), nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t.Format(entities.ClaimDateLayout), nil
	}
	return "", apperrors.NewValidationError("date must be formatted as YYYY-MM-DD")
}
