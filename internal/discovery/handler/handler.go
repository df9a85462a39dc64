package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"sahaay/internal/discovery"
	"sahaay/internal/eligibility"
	"sahaay/pkg/platform/httputil"
	"sahaay/pkg/requestcontext"
)

// Service defines the interface for discovery operations.
type Service interface {
	Recommend(ctx context.Context, query string, topK int, profile eligibility.Profile) (discovery.Result, error)
}

// Handler wires the recommend endpoint to the discovery service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New constructs a discovery handler with its dependencies.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts discovery endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/programs/recommend", h.HandleRecommend)
}

// HandleRecommend handles POST /programs/recommend requests.
func (h *Handler) HandleRecommend(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	start := time.Now()

	req, ok := httputil.DecodeAndPrepare[RecommendRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	result, err := h.service.Recommend(ctx, req.Query, req.TopK, req.DomainProfile())
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to recommend programs",
			"request_id", requestID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "recommend request served",
		"request_id", requestID,
		"eligible", len(result.Eligible),
		"rejected", len(result.Rejected),
		"duration_ms", time.Since(start).Milliseconds(),
	)

	httputil.WriteJSON(w, http.StatusOK, result)
}
