// Package filestore keeps claims and the policy ledger in flat CSV files.
package filestore

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/zatekoja/claimsflow/internal/domain/entities"
	"github.com/zatekoja/claimsflow/internal/domain/repositories"
	apperrors "github.com/zatekoja/claimsflow/pkg/errors"
)

// claimColumns is the header written on every rewrite. Files carrying only
// the first seven columns are still readable.
var claimColumns = []string{"id", "policyNumber", "description", "date", "amount", "status", "submittedAt", "updatedAt", "notes"}

var requiredClaimColumns = claimColumns[:7]

// ClaimCSVStore is a ClaimRepository over one CSV file. Every mutation
// re-reads and rewrites the whole file; a mutex serializes that cycle so two
// updates from this process cannot overwrite each other. Other processes
// writing the same file are not coordinated.
type ClaimCSVStore struct {
	path string
	mu   sync.Mutex
}

var _ repositories.ClaimRepository = (*ClaimCSVStore)(nil)

// NewClaimCSVStore opens path, creating it with a header when missing, and
// checks that it parses.
func NewClaimCSVStore(path string) (*ClaimCSVStore, error) {
	s := &ClaimCSVStore{path: path}

	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if err := s.writeAll(nil); err != nil {
			return nil, err
		}
		return s, nil
	} else if err != nil {
		return nil, apperrors.NewStorageError("failed to stat claims file", err)
	}

	if _, err := s.readAll(); err != nil {
		return nil, err
	}
	return s, nil
}

// Create appends a claim
func (s *ClaimCSVStore) Create(ctx context.Context, claim *entities.Claim) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	claims, err := s.readAll()
	if err != nil {
		return err
	}
	for _, existing := range claims {
		if existing.ID == claim.ID {
			return apperrors.NewConflictError("claim " + claim.ID + " already exists")
		}
	}
	return s.writeAll(append(claims, claim.Clone()))
}

// GetByID retrieves a claim by ID
func (s *ClaimCSVStore) GetByID(ctx context.Context, id string) (*entities.Claim, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	claims, err := s.readAll()
	if err != nil {
		return nil, err
	}
	for _, claim := range claims {
		if claim.ID == id {
			return claim, nil
		}
	}
	return nil, apperrors.NewNotFoundError("Claim not found")
}

// List returns every claim, newest first
func (s *ClaimCSVStore) List(ctx context.Context) ([]*entities.Claim, error) {
	s.mu.Lock()
	claims, err := s.readAll()
	s.mu.Unlock()
	if err != nil {
		return nil, err
	}

	sort.SliceStable(claims, func(i, j int) bool {
		return claims[i].SubmittedAt.After(claims[j].SubmittedAt)
	})
	return claims, nil
}

// Update runs the full read-mutate-rewrite cycle under the file mutex
func (s *ClaimCSVStore) Update(ctx context.Context, id string, mutate repositories.ClaimMutation) (*entities.Claim, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	claims, err := s.readAll()
	if err != nil {
		return nil, err
	}

	for i, claim := range claims {
		if claim.ID != id {
			continue
		}
		next := claim.Clone()
		if err := mutate(next); err != nil {
			return nil, err
		}
		claims[i] = next
		if err := s.writeAll(claims); err != nil {
			return nil, err
		}
		return next.Clone(), nil
	}
	return nil, apperrors.NewNotFoundError("Claim not found")
}

func (s *ClaimCSVStore) readAll() ([]*entities.Claim, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, apperrors.NewStorageError("failed to open claims file", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, apperrors.NewStorageError("failed to read claims header", err)
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.TrimSpace(name)] = i
	}
	for _, name := range requiredClaimColumns {
		if _, ok := index[name]; !ok {
			return nil, apperrors.NewStorageError("claims file is missing column "+name, nil)
		}
	}

	var claims []*entities.Claim
	for line := 2; ; line++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, apperrors.NewStorageError("failed to read claims file", err)
		}
		claim, err := decodeClaim(record, index)
		if err != nil {
			return nil, apperrors.NewStorageError(fmt.Sprintf("malformed claim on line %d", line), err)
		}
		claims = append(claims, claim)
	}
	return claims, nil
}

// writeAll replaces the file through a temp file and rename, so readers
// never observe a half-written set.
func (s *ClaimCSVStore) writeAll(claims []*entities.Claim) error {
	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, ".claims-*.csv")
	if err != nil {
		return apperrors.NewStorageError("failed to create temp claims file", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	writer := csv.NewWriter(tmp)
	if err := writer.Write(claimColumns); err != nil {
		tmp.Close()
		return apperrors.NewStorageError("failed to write claims header", err)
	}
	for _, claim := range claims {
		record, err := encodeClaim(claim)
		if err != nil {
			tmp.Close()
			return apperrors.NewStorageError("failed to encode claim "+claim.ID, err)
		}
		if err := writer.Write(record); err != nil {
			tmp.Close()
			return apperrors.NewStorageError("failed to write claim "+claim.ID, err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		tmp.Close()
		return apperrors.NewStorageError("failed to flush claims file", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return apperrors.NewStorageError("failed to sync claims file", err)
	}
	if err := tmp.Close(); err != nil {
		return apperrors.NewStorageError("failed to close claims file", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return apperrors.NewStorageError("failed to replace claims file", err)
	}
	return nil
}

func encodeClaim(c *entities.Claim) ([]string, error) {
	notes := ""
	if len(c.Notes) > 0 {
		data, err := json.Marshal(c.Notes)
		if err != nil {
			return nil, err
		}
		notes = string(data)
	}
	return []string{
		c.ID,
		c.PolicyNumber,
		c.Description,
		c.Date,
		strconv.FormatFloat(c.Amount, 'f', -1, 64),
		string(c.Status),
		c.SubmittedAt.UTC().Format(time.RFC3339Nano),
		c.UpdatedAt.UTC().Format(time.RFC3339Nano),
		notes,
	}, nil
}

func decodeClaim(record []string, index map[string]int) (*entities.Claim, error) {
	field := func(name string) string {
		i, ok := index[name]
		if !ok || i >= len(record) {
			return ""
		}
		return record[i]
	}

	amount, err := strconv.ParseFloat(field("amount"), 64)
	if err != nil {
		return nil, fmt.Errorf("amount: %w", err)
	}
	submittedAt, err := time.Parse(time.RFC3339Nano, field("submittedAt"))
	if err != nil {
		return nil, fmt.Errorf("submittedAt: %w", err)
	}
	updatedAt := submittedAt
	if raw := field("updatedAt"); raw != "" {
		if updatedAt, err = time.Parse(time.RFC3339Nano, raw); err != nil {
			return nil, fmt.Errorf("updatedAt: %w", err)
		}
	}

	claim := &entities.Claim{
		ID:           field("id"),
		PolicyNumber: field("policyNumber"),
		Description:  field("description"),
		Date:         field("date"),
		Amount:       amount,
		Status:       entities.ClaimStatus(field("status")),
		SubmittedAt:  submittedAt,
		UpdatedAt:    updatedAt,
		Notes:        []entities.ClaimNote{},
	}
	if raw := field("notes"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &claim.Notes); err != nil {
			return nil, fmt.Errorf("notes: %w", err)
		}
		if claim.Notes == nil {
			claim.Notes = []entities.ClaimNote{}
		}
	}
	return claim, nil
}
