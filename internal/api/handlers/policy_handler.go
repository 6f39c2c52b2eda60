package handlers

import (
	"context"
	"net/http"

	"github.com/zatekoja/claimsflow/internal/domain/entities"
	apperrors "github.com/zatekoja/claimsflow/pkg/errors"
)

// PolicyService defines the ledger operations used by the handler.
type PolicyService interface {
	Get(ctx context.Context, policyID string) (*entities.PolicySummary, error)
	List(ctx context.Context) ([]entities.PolicySummary, error)
}

// PolicyHandler serves policy lookups. Its error bodies use the
// {success:false, message} shape rather than {error}.
type PolicyHandler struct {
	service PolicyService
}

// NewPolicyHandler creates a new policy handler
func NewPolicyHandler(service PolicyService) *PolicyHandler {
	return &PolicyHandler{service: service}
}

// GetPolicy handles GET /api/policy/{policyId}
func (h *PolicyHandler) GetPolicy(w http.ResponseWriter, r *http.Request) {
	summary, err := h.service.Get(r.Context(), r.PathValue("policyId"))
	if err != nil {
		h.respondWithFailure(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data":    summary,
	})
}

// ListPolicies handles GET /api/policies
func (h *PolicyHandler) ListPolicies(w http.ResponseWriter, r *http.Request) {
	policies, err := h.service.List(r.Context())
	if err != nil {
		h.respondWithFailure(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data":    policies,
		"count":   len(policies),
	})
}

func (h *PolicyHandler) respondWithFailure(w http.ResponseWriter, err error) {
	respondWithJSON(w, apperrors.HTTPStatus(err), map[string]interface{}{
		"success": false,
		"message": apperrors.PublicMessage(err),
	})
}
