package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	"github.com/doug-martin/goqu/v9/exp"
	"github.com/lib/pq"

	"github.com/zatekoja/claimsflow/internal/domain/entities"
	"github.com/zatekoja/claimsflow/internal/domain/repositories"
	"github.com/zatekoja/claimsflow/internal/infrastructure/clients/postgres"
	apperrors "github.com/zatekoja/claimsflow/pkg/errors"
)

const claimsTable = "claims"

// ClaimsSchema creates the claims table when it does not exist yet
const ClaimsSchema = `CREATE TABLE IF NOT EXISTS claims (
	id            TEXT PRIMARY KEY,
	policy_number TEXT NOT NULL,
	description   TEXT NOT NULL,
	amount        DOUBLE PRECISION NOT NULL,
	claim_date    TEXT NOT NULL,
	status        TEXT NOT NULL,
	submitted_at  TIMESTAMPTZ NOT NULL,
	updated_at    TIMESTAMPTZ NOT NULL,
	notes         JSONB NOT NULL DEFAULT '[]'::jsonb
)`

// pq error code for unique_violation
const uniqueViolation = "23505"

var claimColumns = []interface{}{
	"id", "policy_number", "description", "amount", "claim_date",
	"status", "submitted_at", "updated_at", "notes",
}

// ClaimAdapter implements the ClaimRepository interface on PostgreSQL
type ClaimAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

var _ repositories.ClaimRepository = (*ClaimAdapter)(nil)

// NewClaimAdapter creates a new claim adapter
func NewClaimAdapter(client *postgres.Client) *ClaimAdapter {
	return &ClaimAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// EnsureSchema creates the claims table if needed
func (a *ClaimAdapter) EnsureSchema(ctx context.Context) error {
	if _, err := a.client.DB().ExecContext(ctx, ClaimsSchema); err != nil {
		return apperrors.NewStorageError("failed to create claims table", err)
	}
	return nil
}

// Create creates a new claim
func (a *ClaimAdapter) Create(ctx context.Context, claim *entities.Claim) error {
	notes, err := encodeNotes(claim.Notes)
	if err != nil {
		return apperrors.NewStorageError("failed to encode notes", err)
	}

	query, args, err := a.db.Insert(claimsTable).Rows(goqu.Record{
		"id":            claim.ID,
		"policy_number": claim.PolicyNumber,
		"description":   claim.Description,
		"amount":        claim.Amount,
		"claim_date":    claim.Date,
		"status":        string(claim.Status),
		"submitted_at":  claim.SubmittedAt,
		"updated_at":    claim.UpdatedAt,
		"notes":         notes,
	}).ToSQL()
	if err != nil {
		return apperrors.NewStorageError("failed to build insert query", err)
	}

	if _, err := a.client.DB().ExecContext(ctx, query, args...); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return apperrors.NewConflictError(fmt.Sprintf("claim %s already exists", claim.ID))
		}
		return apperrors.NewStorageError("failed to create claim", err)
	}
	return nil
}

// GetByID retrieves a claim by ID
func (a *ClaimAdapter) GetByID(ctx context.Context, id string) (*entities.Claim, error) {
	query, args, err := a.db.Select(claimColumns...).
		From(claimsTable).
		Where(goqu.Ex{"id": id}).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewStorageError("failed to build query", err)
	}

	claim, err := scanClaim(a.client.DB().QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError("Claim not found")
	}
	if err != nil {
		return nil, apperrors.NewStorageError("failed to get claim", err)
	}
	return claim, nil
}

// List returns every claim, newest first
func (a *ClaimAdapter) List(ctx context.Context) ([]*entities.Claim, error) {
	query, args, err := a.db.Select(claimColumns...).
		From(claimsTable).
		Order(goqu.I("submitted_at").Desc(), goqu.I("id").Desc()).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewStorageError("failed to build query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewStorageError("failed to list claims", err)
	}
	defer rows.Close()

	claims := []*entities.Claim{}
	for rows.Next() {
		claim, err := scanClaim(rows)
		if err != nil {
			return nil, apperrors.NewStorageError("failed to scan claim", err)
		}
		claims = append(claims, claim)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewStorageError("failed to iterate claims", err)
	}
	return claims, nil
}

// Update locks the row, applies mutate and writes the result in one transaction
func (a *ClaimAdapter) Update(ctx context.Context, id string, mutate repositories.ClaimMutation) (*entities.Claim, error) {
	tx, err := a.client.BeginTx(ctx)
	if err != nil {
		return nil, apperrors.NewStorageError("failed to begin transaction", err)
	}
	defer tx.Rollback()

	query, args, err := a.db.Select(claimColumns...).
		From(claimsTable).
		Where(goqu.Ex{"id": id}).
		ForUpdate(exp.Wait).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewStorageError("failed to build query", err)
	}

	claim, err := scanClaim(tx.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError("Claim not found")
	}
	if err != nil {
		return nil, apperrors.NewStorageError("failed to lock claim", err)
	}

	if err := mutate(claim); err != nil {
		return nil, err
	}

	notes, err := encodeNotes(claim.Notes)
	if err != nil {
		return nil, apperrors.NewStorageError("failed to encode notes", err)
	}

	update, args, err := a.db.Update(claimsTable).
		Set(goqu.Record{
			"policy_number": claim.PolicyNumber,
			"description":   claim.Description,
			"amount":        claim.Amount,
			"claim_date":    claim.Date,
			"status":        string(claim.Status),
			"updated_at":    claim.UpdatedAt,
			"notes":         notes,
		}).
		Where(goqu.Ex{"id": id}).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewStorageError("failed to build update query", err)
	}

	if _, err := tx.ExecContext(ctx, update, args...); err != nil {
		return nil, apperrors.NewStorageError("failed to update claim", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, apperrors.NewStorageError("failed to commit claim update", err)
	}
	return claim, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanClaim(row rowScanner) (*entities.Claim, error) {
	claim := &entities.Claim{}
	var status string
	var notes []byte

	if err := row.Scan(
		&claim.ID,
		&claim.PolicyNumber,
		&claim.Description,
		&claim.Amount,
		&claim.Date,
		&status,
		&claim.SubmittedAt,
		&claim.UpdatedAt,
		&notes,
	); err != nil {
		return nil, err
	}

	claim.Status = entities.ClaimStatus(status)
	claim.SubmittedAt = claim.SubmittedAt.UTC()
	claim.UpdatedAt = claim.UpdatedAt.UTC()
	if len(notes) > 0 {
		if err := json.Unmarshal(notes, &claim.Notes); err != nil {
			return nil, fmt.Errorf("notes: %w", err)
		}
	}
	return claim, nil
}

func encodeNotes(notes []entities.ClaimNote) (string, error) {
	if notes == nil {
		notes = []entities.ClaimNote{}
	}
	data, err := json.Marshal(notes)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
