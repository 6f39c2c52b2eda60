package handlers

import (
	"context"
	"net/http"

	"github.com/zatekoja/claimsflow/internal/application/services"
	"github.com/zatekoja/claimsflow/internal/domain/entities"
)

// SubmissionService defines the submission operations used by the handler.
type SubmissionService interface {
	SubmitClaim(ctx context.Context, form entities.ClaimSubmission) (*services.SubmissionResult, error)
}

// SubmissionHandler handles the public claim form
type SubmissionHandler struct {
	service SubmissionService
}

// NewSubmissionHandler creates a new submission handler
func NewSubmissionHandler(service SubmissionService) *SubmissionHandler {
	return &SubmissionHandler{service: service}
}

// SubmitClaim handles POST /submit-claim
func (h *SubmissionHandler) SubmitClaim(w http.ResponseWriter, r *http.Request) {
	var form entities.ClaimSubmission
	if err := decodeJSON(r, &form); err != nil {
		respondWithError(w, http.StatusBadRequest, "All fields are required")
		return
	}

	result, err := h.service.SubmitClaim(r.Context(), form)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": result.Message,
		"data":    result.Data,
	})
}
