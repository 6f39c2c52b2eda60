package entities_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zatekoja/claimsflow/internal/domain/entities"
)

func TestAmountInput_AcceptsNumberOrString(t *testing.T) {
	var fromNumber, fromString, fromNull entities.ClaimSubmission

	require.NoError(t, json.Unmarshal([]byte(`{"claimAmount": 1250.5}`), &fromNumber))
	require.NoError(t, json.Unmarshal([]byte(`{"claimAmount": " 300 "}`), &fromString))
	require.NoError(t, json.Unmarshal([]byte(`{"claimAmount": null}`), &fromNull))

	v, err := fromNumber.ClaimAmount.Float()
	require.NoError(t, err)
	assert.Equal(t, 1250.5, v)

	v, err = fromString.ClaimAmount.Float()
	require.NoError(t, err)
	assert.Equal(t, 300.0, v)

	assert.Equal(t, entities.AmountInput(""), fromNull.ClaimAmount)
}

func TestAmountInput_RejectsNonNumericJSON(t *testing.T) {
	var s entities.ClaimSubmission
	assert.Error(t, json.Unmarshal([]byte(`{"claimAmount": true}`), &s))
}

func TestAmountInput_MarshalsNumericAsNumber(t *testing.T) {
	out, err := json.Marshal(entities.ClaimSubmission{ClaimAmount: "500"})
	require.NoError(t, err)
	assert.Contains(t, string(out), `"claimAmount":500`)
}

func TestClaimSubmission_Missing(t *testing.T) {
	s := entities.ClaimSubmission{PolicyNumber: "POL-1", ClaimDate: "2024-01-01"}
	assert.Equal(t, []string{"description", "claimAmount"}, s.Missing())
}

func TestAmountInput_Positive(t *testing.T) {
	tests := []struct {
		in   entities.AmountInput
		want bool
	}{
		{"1200", true},
		{"0.01", true},
		{"0", false},
		{"-5", false},
		{"abc", false},
		{"NaN", false},
		{"Inf", false},
		{"", false},
	}

	for _, tt := range tests {
		_, ok := tt.in.Positive()
		assert.Equal(t, tt.want, ok, string(tt.in))
	}
}
