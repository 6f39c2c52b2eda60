package filestore

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/zatekoja/claimsflow/internal/domain/entities"
	"github.com/zatekoja/claimsflow/internal/domain/repositories"
	apperrors "github.com/zatekoja/claimsflow/pkg/errors"
)

var ledgerHeader = []string{"policy_id", "total_policy_limit", "total_claimed_amount"}

// PolicyLedger is the policy table held in memory after one load
type PolicyLedger struct {
	policies map[string]*entities.Policy
}

var _ repositories.PolicyRepository = (*PolicyLedger)(nil)

// LoadLedger reads the ledger file at path. Any read or parse failure is
// returned; callers must not serve without a ledger.
func LoadLedger(path string) (*PolicyLedger, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, apperrors.NewStorageError("failed to open policy ledger", err)
	}
	defer f.Close()

	return ParseLedger(f)
}

// ParseLedger reads a ledger from r. The first row is the header.
func ParseLedger(r io.Reader) (*PolicyLedger, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	if _, err := reader.Read(); err == io.EOF {
		return nil, apperrors.NewStorageError("policy ledger is empty", nil)
	} else if err != nil {
		return nil, apperrors.NewStorageError("failed to read policy ledger header", err)
	}

	ledger := &PolicyLedger{policies: make(map[string]*entities.Policy)}
	for line := 2; ; line++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, apperrors.NewStorageError("failed to read policy ledger", err)
		}

		policy, err := parsePolicy(record)
		if err != nil {
			return nil, apperrors.NewStorageError(fmt.Sprintf("malformed policy on line %d", line), err)
		}
		ledger.policies[policy.PolicyID] = policy
	}
	return ledger, nil
}

func parsePolicy(record []string) (*entities.Policy, error) {
	if len(record) < 3 {
		return nil, fmt.Errorf("expected 3 fields, got %d", len(record))
	}
	id := NormalizePolicyID(record[0])
	if id == "" {
		return nil, fmt.Errorf("empty policy id")
	}
	limit, err := strconv.ParseInt(strings.TrimSpace(record[1]), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("total_policy_limit: %w", err)
	}
	claimed, err := strconv.ParseInt(strings.TrimSpace(record[2]), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("total_claimed_amount: %w", err)
	}
	return &entities.Policy{PolicyID: id, TotalLimit: limit, ClaimedAmount: claimed}, nil
}

// NormalizePolicyID applies the case folding lookups rely on
func NormalizePolicyID(id string) string {
	return strings.ToUpper(strings.TrimSpace(id))
}

// Len returns the number of loaded policies
func (l *PolicyLedger) Len() int {
	return len(l.policies)
}

// GetByID retrieves a policy by id, case-insensitively
func (l *PolicyLedger) GetByID(ctx context.Context, policyID string) (*entities.Policy, error) {
	policy, ok := l.policies[NormalizePolicyID(policyID)]
	if !ok {
		return nil, apperrors.NewNotFoundError("Policy not found")
	}
	out := *policy
	return &out, nil
}

// List returns every policy sorted by id
func (l *PolicyLedger) List(ctx context.Context) ([]*entities.Policy, error) {
	out := make([]*entities.Policy, 0, len(l.policies))
	for _, p := range l.policies {
		cp := *p
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PolicyID < out[j].PolicyID })
	return out, nil
}

// WriteLedger writes policies in ledger format
func WriteLedger(w io.Writer, policies []entities.Policy) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(ledgerHeader); err != nil {
		return err
	}
	for _, p := range policies {
		if err := writer.Write([]string{
			p.PolicyID,
			strconv.FormatInt(p.TotalLimit, 10),
			strconv.FormatInt(p.ClaimedAmount, 10),
		}); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}
