package rest

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/fortuna/crossice/internal/cache"
	"github.com/fortuna/crossice/internal/reconciliation"
	"github.com/fortuna/crossice/internal/scheduler"
	"github.com/fortuna/crossice/internal/store"
	"github.com/fortuna/crossice/internal/store/repository"
)

// Handler contains dependencies for HTTP handlers.
type Handler struct {
	db            *store.Database
	cache         *cache.RedisCache
	orchestrator  *scheduler.Orchestrator
	runs          *repository.RunRepository
	defaultSeason string
	logger        *zap.Logger
}

// NewHandler creates a new handler.
func NewHandler(
	db *store.Database,
	redisCache *cache.RedisCache,
	orchestrator *scheduler.Orchestrator,
	runs *repository.RunRepository,
	defaultSeason string,
	logger *zap.Logger,
) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		db:            db,
		cache:         redisCache,
		orchestrator:  orchestrator,
		runs:          runs,
		defaultSeason: defaultSeason,
		logger:        logger,
	}
}

// HealthCheck handles health check requests.
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	status := "healthy"
	code := http.StatusOK
	if err := h.db.HealthCheck(); err != nil {
		status = "degraded"
		code = http.StatusServiceUnavailable
	}

	respondJSON(w, code, map[string]string{
		"status":  status,
		"service": "crossice",
	})
}

type reconcileRequest struct {
	SeasonID string   `json:"season_id"`
	Phases   []string `json:"phases"`
	DryRun   bool     `json:"dry_run"`
}

// TriggerReconcile handles POST /api/v1/reconcile: it runs the engine
// synchronously (full, single-phase, or dry run) and returns the report.
func (h *Handler) TriggerReconcile(w http.ResponseWriter, r *http.Request) {
	var req reconcileRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondError(w, http.StatusBadRequest, "Invalid request body", err)
			return
		}
	}

	opts := reconciliation.Options{
		SeasonID: req.SeasonID,
		DryRun:   req.DryRun,
	}
	if opts.SeasonID == "" {
		opts.SeasonID = h.defaultSeason
	}
	for _, p := range req.Phases {
		opts.Phases = append(opts.Phases, reconciliation.Phase(p))
	}

	report, err := h.orchestrator.Trigger(r.Context(), opts)
	if err != nil {
		if errors.Is(err, reconciliation.ErrUnknownPhase) || errors.Is(err, reconciliation.ErrNoSeason) {
			respondError(w, http.StatusBadRequest, "Invalid reconcile request", err)
			return
		}
		respondError(w, http.StatusInternalServerError, "Reconciliation failed", err)
		return
	}

	respondJSON(w, http.StatusOK, report)
}

// GetLatestReport handles GET /api/v1/reconcile/latest. The cache is
// consulted first; the runs table is the durable fallback.
func (h *Handler) GetLatestReport(w http.ResponseWriter, r *http.Request) {
	seasonID := r.URL.Query().Get("season")
	if seasonID == "" {
		seasonID = h.defaultSeason
	}

	if h.cache != nil {
		if report, err := h.cache.LatestReport(r.Context(), seasonID); err == nil && report != nil {
			respondJSON(w, http.StatusOK, report)
			return
		}
	}

	report, err := h.runs.LatestRun(r.Context(), seasonID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch latest report", err)
		return
	}
	if report == nil {
		respondError(w, http.StatusNotFound, "Season has not been reconciled yet", nil)
		return
	}

	respondJSON(w, http.StatusOK, report)
}

// ListRuns handles GET /api/v1/reconcile/runs.
func (h *Handler) ListRuns(w http.ResponseWriter, r *http.Request) {
	seasonID := r.URL.Query().Get("season")
	if seasonID == "" {
		seasonID = h.defaultSeason
	}

	limit := 20
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			respondError(w, http.StatusBadRequest, "Invalid limit", err)
			return
		}
		limit = parsed
	}

	reports, err := h.runs.ListRuns(r.Context(), seasonID, limit)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch runs", err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"season_id": seasonID,
		"runs":      reports,
	})
}

// respondJSON writes a JSON response.
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// respondError writes an error response.
func respondError(w http.ResponseWriter, status int, message string, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	response := map[string]interface{}{
		"error":  message,
		"status": status,
	}

	if err != nil {
		response["details"] = err.Error()
	}

	json.NewEncoder(w).Encode(response)
}
