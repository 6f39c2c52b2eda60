package routes

import (
	"net/http"

	"github.com/zatekoja/claimsflow/internal/api/handlers"
	"github.com/zatekoja/claimsflow/internal/api/middleware"
	"github.com/zatekoja/claimsflow/internal/infrastructure/observability"
)

// Router holds the route handlers of one service. Handlers left nil are
// not mounted, so each binary sets only its own.
type Router struct {
	mux *http.ServeMux

	submissionHandler *handlers.SubmissionHandler
	messageHandler    *handlers.MessageHandler
	policyHandler     *handlers.PolicyHandler
	claimHandler      *handlers.ClaimHandler

	metrics *observability.Metrics
}

// Handlers groups the handlers a service mounts
type Handlers struct {
	Submission *handlers.SubmissionHandler
	Messages   *handlers.MessageHandler
	Policies   *handlers.PolicyHandler
	Claims     *handlers.ClaimHandler
}

// NewRouter creates a new router
func NewRouter(h Handlers, metrics *observability.Metrics) *Router {
	return &Router{
		mux:               http.NewServeMux(),
		submissionHandler: h.Submission,
		messageHandler:    h.Messages,
		policyHandler:     h.Policies,
		claimHandler:      h.Claims,
		metrics:           metrics,
	}
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes() http.Handler {
	// Health check endpoint
	r.mux.HandleFunc("GET /health", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			return
		}
	})

	// Submission endpoint
	if r.submissionHandler != nil {
		r.mux.HandleFunc("POST /submit-claim", r.submissionHandler.SubmitClaim)
	}

	// Messaging endpoints; /api/emails is kept for older callers
	if r.messageHandler != nil {
		for _, base := range []string{"/api/messages", "/api/emails"} {
			r.mux.HandleFunc("POST "+base, r.messageHandler.PostMessage)
			r.mux.HandleFunc("GET "+base, r.messageHandler.ListMessages)
			r.mux.HandleFunc("GET "+base+"/unread-count", r.messageHandler.UnreadCount)
			r.mux.HandleFunc("GET "+base+"/{id}", r.messageHandler.GetMessage)
			r.mux.HandleFunc("PATCH "+base+"/{id}/read", r.messageHandler.MarkRead)
			r.mux.HandleFunc("DELETE "+base+"/{id}", r.messageHandler.DeleteMessage)
		}
	}

	// Policy endpoints
	if r.policyHandler != nil {
		r.mux.HandleFunc("GET /api/policy/{policyId}", r.policyHandler.GetPolicy)
		r.mux.HandleFunc("GET /api/policies", r.policyHandler.ListPolicies)
	}

	// Claim management endpoints
	if r.claimHandler != nil {
		r.mux.HandleFunc("GET /api/claims", r.claimHandler.ListClaims)
		r.mux.HandleFunc("POST /api/claims", r.claimHandler.CreateClaim)
		r.mux.HandleFunc("GET /api/claims/{id}", r.claimHandler.GetClaim)
		r.mux.HandleFunc("PUT /api/claims/{id}", r.claimHandler.UpdateStatus)
		r.mux.HandleFunc("PATCH /api/claims/{id}/status", r.claimHandler.UpdateStatus)
		r.mux.HandleFunc("POST /api/claims/{id}/notes", r.claimHandler.AddNote)
		r.mux.HandleFunc("GET /api/claims/{id}/policy-check", r.claimHandler.CheckPolicy)
		r.mux.HandleFunc("POST /api/webhook/claims", r.claimHandler.IngestWebhook)
	}

	// Apply middleware in reverse order (last middleware wraps first)
	var handler http.Handler = r.mux
	handler = middleware.Compression(handler)
	handler = middleware.LoggingMiddleware(handler)
	handler = middleware.ObservabilityMiddleware(r.metrics, r.mux)(handler)

	// CORS wraps everything so preflights never reach the mux
	handler = middleware.CORSMiddleware(handler)

	return handler
}
