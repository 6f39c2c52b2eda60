package handlers

import (
	"context"
	"net/http"

	"github.com/zatekoja/claimsflow/internal/application/services"
	"github.com/zatekoja/claimsflow/internal/domain/entities"
)

// ClaimService defines the claim lifecycle operations used by the handler.
type ClaimService interface {
	Create(ctx context.Context, in services.NewClaim) (*entities.Claim, error)
	Ingest(ctx context.Context, payload entities.WebhookClaim) (*entities.Claim, error)
	List(ctx context.Context) ([]*entities.Claim, error)
	Get(ctx context.Context, id string) (*entities.Claim, error)
	UpdateStatus(ctx context.Context, id, status string) (*entities.Claim, error)
	AddNote(ctx context.Context, id, text, author string) (*entities.Claim, error)
	CheckPolicy(ctx context.Context, id string) (*services.PolicyCheck, error)
}

// ClaimHandler handles the reviewer-facing claim API
type ClaimHandler struct {
	service ClaimService
}

// NewClaimHandler creates a new claim handler
func NewClaimHandler(service ClaimService) *ClaimHandler {
	return &ClaimHandler{service: service}
}

type statusRequest struct {
	Status string `json:"status"`
}

type noteRequest struct {
	Text   string `json:"text"`
	Author string `json:"author"`
}

// ListClaims handles GET /api/claims
func (h *ClaimHandler) ListClaims(w http.ResponseWriter, r *http.Request) {
	claims, err := h.service.List(r.Context())
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	if claims == nil {
		claims = []*entities.Claim{}
	}
	respondWithJSON(w, http.StatusOK, claims)
}

// GetClaim handles GET /api/claims/{id}
func (h *ClaimHandler) GetClaim(w http.ResponseWriter, r *http.Request) {
	claim, err := h.service.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, claim)
}

// CreateClaim handles POST /api/claims
func (h *ClaimHandler) CreateClaim(w http.ResponseWriter, r *http.Request) {
	var in services.NewClaim
	if err := decodeJSON(r, &in); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	claim, err := h.service.Create(r.Context(), in)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, claim)
}

// UpdateStatus handles PUT /api/claims/{id} and PATCH /api/claims/{id}/status
func (h *ClaimHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req statusRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid status")
		return
	}

	claim, err := h.service.UpdateStatus(r.Context(), r.PathValue("id"), req.Status)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, claim)
}

// AddNote handles POST /api/claims/{id}/notes
func (h *ClaimHandler) AddNote(w http.ResponseWriter, r *http.Request) {
	var req noteRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	claim, err := h.service.AddNote(r.Context(), r.PathValue("id"), req.Text, req.Author)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, claim)
}

// CheckPolicy handles GET /api/claims/{id}/policy-check
func (h *ClaimHandler) CheckPolicy(w http.ResponseWriter, r *http.Request) {
	check, err := h.service.CheckPolicy(r.Context(), r.PathValue("id"))
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, check)
}

// IngestWebhook handles POST /api/webhook/claims
func (h *ClaimHandler) IngestWebhook(w http.ResponseWriter, r *http.Request) {
	var payload entities.WebhookClaim
	if err := decodeJSON(r, &payload); err != nil {
		respondWithError(w, http.StatusBadRequest, "All fields are required")
		return
	}

	claim, err := h.service.Ingest(r.Context(), payload)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, claim)
}
