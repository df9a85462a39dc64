package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"sahaay/internal/eligibility"
	id "sahaay/pkg/domain"
	"sahaay/pkg/platform/httputil"
	"sahaay/pkg/requestcontext"
)

// Service defines the interface for eligibility operations.
type Service interface {
	Evaluate(ctx context.Context, programID id.ProgramID, profile eligibility.Profile) eligibility.Result
}

// Handler wires eligibility endpoints to the eligibility service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New constructs an eligibility handler with its dependencies.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts eligibility endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/eligibility/evaluate", h.HandleEvaluate)
}

// HandleEvaluate handles POST /eligibility/evaluate requests.
func (h *Handler) HandleEvaluate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	start := time.Now()

	req, ok := httputil.DecodeAndPrepare[EvaluateRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	result := h.service.Evaluate(ctx, req.ParsedProgramID(), req.DomainProfile())

	h.logger.InfoContext(ctx, "eligibility request served",
		"request_id", requestID,
		"program_id", req.ProgramID,
		"decision", result.Decision,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	httputil.WriteJSON(w, http.StatusOK, FromResult(result))
}
