package handlers_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zatekoja/claimsflow/internal/adapters/memory"
	"github.com/zatekoja/claimsflow/internal/api/handlers"
	"github.com/zatekoja/claimsflow/internal/application/services"
	"github.com/zatekoja/claimsflow/internal/domain/entities"
	apperrors "github.com/zatekoja/claimsflow/pkg/errors"
)

type stubPolicyLookup struct {
	summary *entities.PolicySummary
	err     error
}

func (s stubPolicyLookup) GetPolicy(ctx context.Context, policyID string) (*entities.PolicySummary, error) {
	return s.summary, s.err
}

func newClaimMux(lookup stubPolicyLookup) *http.ServeMux {
	service := services.NewClaimService(memory.NewClaimStore(), services.ClaimServiceConfig{Policies: lookup})
	handler := handlers.NewClaimHandler(service)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/claims", handler.ListClaims)
	mux.HandleFunc("POST /api/claims", handler.CreateClaim)
	mux.HandleFunc("GET /api/claims/{id}", handler.GetClaim)
	mux.HandleFunc("PUT /api/claims/{id}", handler.UpdateStatus)
	mux.HandleFunc("PATCH /api/claims/{id}/status", handler.UpdateStatus)
	mux.HandleFunc("POST /api/claims/{id}/notes", handler.AddNote)
	mux.HandleFunc("GET /api/claims/{id}/policy-check", handler.CheckPolicy)
	mux.HandleFunc("POST /api/webhook/claims", handler.IngestWebhook)
	return mux
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func createClaim(t *testing.T, h http.Handler) entities.Claim {
	t.Helper()
	w := do(t, h, "POST", "/api/claims", `{"policyNumber":"POL-1","description":"x","date":"2024-01-01","amount":500}`)
	require.Equal(t, http.StatusCreated, w.Code)

	var claim entities.Claim
	require.NoError(t, json.NewDecoder(w.Body).Decode(&claim))
	return claim
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	return body["error"]
}

func TestClaimHandler_CreateAndList(t *testing.T) {
	mux := newClaimMux(stubPolicyLookup{})

	claim := createClaim(t, mux)
	assert.NotEmpty(t, claim.ID)
	assert.Equal(t, entities.ClaimStatusPending, claim.Status)

	w := do(t, mux, "GET", "/api/claims", "")
	require.Equal(t, http.StatusOK, w.Code)
	var list []entities.Claim
	require.NoError(t, json.NewDecoder(w.Body).Decode(&list))
	require.Len(t, list, 1)
	assert.Equal(t, claim.ID, list[0].ID)
}

func TestClaimHandler_ListEmptyIsArray(t *testing.T) {
	w := do(t, newClaimMux(stubPolicyLookup{}), "GET", "/api/claims", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())
}

func TestClaimHandler_CreateValidation(t *testing.T) {
	w := do(t, newClaimMux(stubPolicyLookup{}), "POST", "/api/claims", `{"policyNumber":"POL-1"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.NotEmpty(t, decodeError(t, w))
}

func TestClaimHandler_UpdateStatus(t *testing.T) {
	mux := newClaimMux(stubPolicyLookup{})
	claim := createClaim(t, mux)

	t.Run("invalid status leaves the claim unchanged", func(t *testing.T) {
		w := do(t, mux, "PATCH", "/api/claims/"+claim.ID+"/status", `{"status":"approved"}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "Invalid status", decodeError(t, w))

		w = do(t, mux, "GET", "/api/claims/"+claim.ID, "")
		var stored entities.Claim
		require.NoError(t, json.NewDecoder(w.Body).Decode(&stored))
		assert.Equal(t, entities.ClaimStatusPending, stored.Status)
	})

	t.Run("unknown id", func(t *testing.T) {
		w := do(t, mux, "PUT", "/api/claims/nope", `{"status":"accepted"}`)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("accept via PUT", func(t *testing.T) {
		w := do(t, mux, "PUT", "/api/claims/"+claim.ID, `{"status":"accepted"}`)
		require.Equal(t, http.StatusOK, w.Code)
		var updated entities.Claim
		require.NoError(t, json.NewDecoder(w.Body).Decode(&updated))
		assert.Equal(t, entities.ClaimStatusAccepted, updated.Status)
	})

	t.Run("leaving a terminal status conflicts", func(t *testing.T) {
		w := do(t, mux, "PATCH", "/api/claims/"+claim.ID+"/status", `{"status":"pending"}`)
		assert.Equal(t, http.StatusConflict, w.Code)
	})
}

func TestClaimHandler_AddNote(t *testing.T) {
	mux := newClaimMux(stubPolicyLookup{})
	claim := createClaim(t, mux)

	w := do(t, mux, "POST", "/api/claims/"+claim.ID+"/notes", `{"text":"called the customer","author":"kim"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	var updated entities.Claim
	require.NoError(t, json.NewDecoder(w.Body).Decode(&updated))
	require.Len(t, updated.Notes, 1)
	assert.Equal(t, "kim", updated.Notes[0].Author)

	w = do(t, mux, "POST", "/api/claims/"+claim.ID+"/notes", `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestClaimHandler_Webhook(t *testing.T) {
	mux := newClaimMux(stubPolicyLookup{})

	w := do(t, mux, "POST", "/api/webhook/claims", `{"policyNumber":"POL-9","description":"fire","claimAmount":"1500","claimDate":"2024-04-04"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	var claim entities.Claim
	require.NoError(t, json.NewDecoder(w.Body).Decode(&claim))
	assert.Equal(t, 1500.0, claim.Amount)

	w = do(t, mux, "POST", "/api/webhook/claims", `{"policyNumber":"POL-9"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "All fields are required", decodeError(t, w))
}

func TestClaimHandler_CheckPolicy(t *testing.T) {
	t.Run("within limit", func(t *testing.T) {
		mux := newClaimMux(stubPolicyLookup{summary: &entities.PolicySummary{PolicyID: "POL-1", RemainingPolicyLimit: 4000}})
		claim := createClaim(t, mux)

		w := do(t, mux, "GET", "/api/claims/"+claim.ID+"/policy-check", "")
		require.Equal(t, http.StatusOK, w.Code)
		var check services.PolicyCheck
		require.NoError(t, json.NewDecoder(w.Body).Decode(&check))
		assert.True(t, check.WithinLimit)
	})

	t.Run("policy service unreachable", func(t *testing.T) {
		mux := newClaimMux(stubPolicyLookup{err: apperrors.NewUpstreamError("Policy service unavailable", errors.New("refused"))})
		claim := createClaim(t, mux)

		w := do(t, mux, "GET", "/api/claims/"+claim.ID+"/policy-check", "")
		assert.Equal(t, http.StatusBadGateway, w.Code)
		assert.Equal(t, "Policy service unavailable", decodeError(t, w))
	})
}
