package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"originate/internal/decision"
	"originate/internal/decision/models"
	"originate/internal/decision/orchestrator"
	"originate/internal/report"
	"originate/pkg/platform/httputil"
	"originate/pkg/requestcontext"
)

// Service defines the decision operations exposed over HTTP.
type Service interface {
	Originate(ctx context.Context, req orchestrator.Request) (*models.DecisionPack, error)
	Get(ctx context.Context, requestID string) (*models.DecisionPack, error)
	Replay(ctx context.Context, pack *models.DecisionPack) (*decision.ReplayResult, error)
	ReplayStored(ctx context.Context, requestID string) (*decision.ReplayResult, error)
}

// Handler wires decision endpoints to the orchestrator.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New constructs a decision handler. A nil logger discards output.
func New(service Service, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Register mounts decision endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/decision/originate", h.HandleOriginate)
	r.Post("/decision/replay", h.HandleReplay)
	r.Get("/decision/{request_id}", h.HandleGet)
	r.Get("/decision/{request_id}/report", h.HandleReport)
}

// HandleOriginate handles POST /decision/originate.
func (h *Handler) HandleOriginate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	start := time.Now()

	req, err := httputil.DecodeJSON[OriginateRequest](r)
	if err == nil {
		err = req.Validate()
	}
	if err != nil {
		h.logger.WarnContext(ctx, "invalid originate request",
			"request_id", requestID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	pack, err := h.service.Originate(ctx, req.ToDomain(requestID))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "originate request served",
		"request_id", pack.RequestID,
		"client_id", pack.ClientID,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	httputil.WriteJSON(w, http.StatusOK, FromPack(pack))
}

// HandleGet handles GET /decision/{request_id}.
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	pack, err := h.service.Get(r.Context(), chi.URLParam(r, "request_id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, pack)
}

// HandleReport handles GET /decision/{request_id}/report.
func (h *Handler) HandleReport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	pack, err := h.service.Get(ctx, chi.URLParam(r, "request_id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	rep, err := report.Build(pack, requestcontext.Now(ctx))
	if err != nil {
		h.logger.ErrorContext(ctx, "report build failed",
			"request_id", pack.RequestID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, rep)
}

// HandleReplay handles POST /decision/replay.
func (h *Handler) HandleReplay(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req, err := httputil.DecodeJSON[ReplayRequest](r)
	if err == nil {
		err = req.Validate()
	}
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	var (
		result    *decision.ReplayResult
		requestID = req.RequestID
	)
	if req.Pack != nil {
		requestID = req.Pack.RequestID
		result, err = h.service.Replay(ctx, req.Pack)
	} else {
		result, err = h.service.ReplayStored(ctx, req.RequestID)
	}
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "decision replayed",
		"request_id", requestID,
		"match", result.Match,
	)
	httputil.WriteJSON(w, http.StatusOK, FromReplay(requestID, result))
}
