package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"sahaay/internal/documents"
	"sahaay/internal/rules"
	id "sahaay/pkg/domain"
	dErrors "sahaay/pkg/domain-errors"
	"sahaay/pkg/platform/httputil"
	"sahaay/pkg/requestcontext"
)

// Service defines the interface for document operations.
type Service interface {
	Requirements(ctx context.Context, sessionID id.SessionID, programID id.ProgramID) (map[string]rules.Requirement, error)
	Submit(ctx context.Context, sessionID id.SessionID, programID id.ProgramID, docType string, payload documents.Payload) (documents.Verdict, error)
	Status(ctx context.Context, sessionID id.SessionID, programID id.ProgramID) (documents.ValidationMatrix, error)
}

// Handler wires document endpoints to the documents service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New constructs a documents handler with its dependencies.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts document endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/programs/{programID}/documents", h.HandleRequirements)
	r.Get("/programs/{programID}/documents/status", h.HandleStatus)
	r.Post("/programs/{programID}/documents/{docType}", h.HandleSubmit)
}

// HandleRequirements handles GET /programs/{programID}/documents.
func (h *Handler) HandleRequirements(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	programID, ok := h.programID(w, r)
	if !ok {
		return
	}

	reqs, err := h.service.Requirements(ctx, requestcontext.SessionID(ctx), programID)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to resolve document requirements",
			"request_id", requestcontext.RequestID(ctx),
			"program_id", programID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, FromRequirements(programID.String(), reqs))
}

// HandleSubmit handles POST /programs/{programID}/documents/{docType}.
// Validation outcomes are domain verdicts: a failing document is still a 200.
func (h *Handler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	start := time.Now()

	programID, ok := h.programID(w, r)
	if !ok {
		return
	}
	docType := chi.URLParam(r, "docType")
	if docType == "" {
		httputil.WriteError(w, dErrors.New(dErrors.CodeValidation, "document type is required"))
		return
	}

	req, ok := httputil.DecodeAndPrepare[SubmitRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	verdict, err := h.service.Submit(ctx, requestcontext.SessionID(ctx), programID, docType, req.Payload())
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to record document submission",
			"request_id", requestID,
			"program_id", programID,
			"doc_type", docType,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "document submission served",
		"request_id", requestID,
		"program_id", programID,
		"doc_type", docType,
		"status", verdict.Status,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	httputil.WriteJSON(w, http.StatusOK, verdict)
}

// HandleStatus handles GET /programs/{programID}/documents/status.
func (h *Handler) HandleStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	programID, ok := h.programID(w, r)
	if !ok {
		return
	}

	matrix, err := h.service.Status(ctx, requestcontext.SessionID(ctx), programID)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to compute document status",
			"request_id", requestcontext.RequestID(ctx),
			"program_id", programID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, matrix)
}

func (h *Handler) programID(w http.ResponseWriter, r *http.Request) (id.ProgramID, bool) {
	programID, err := id.ParseProgramID(chi.URLParam(r, "programID"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeValidation, err.Error()))
		return "", false
	}
	return programID, true
}
