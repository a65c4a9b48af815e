package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"booking-sync-service/internal/domain/entity"
	"booking-sync-service/internal/usecase"
	"booking-sync-service/pkg/logger"
)

// SyncHandler exposes the sync engine over HTTP.
type SyncHandler struct {
	sync    *usecase.SyncUsecase
	checker *usecase.UpdateCheckUsecase
	logger  logger.Logger
}

// NewSyncHandler creates a new sync handler.
func NewSyncHandler(sync *usecase.SyncUsecase, checker *usecase.UpdateCheckUsecase, log logger.Logger) *SyncHandler {
	return &SyncHandler{
		sync:    sync,
		checker: checker,
		logger:  log,
	}
}

// syncRequest is the trigger payload. BookingIDs distinguishes absent (sync
// everything) from an explicit empty list (create-only run), so it must stay
// a plain slice that json leaves nil when the key is missing.
type syncRequest struct {
	Status          string              `json:"status"`
	BookingIDs      []string            `json:"booking_ids"`
	FieldsByBooking map[string][]string `json:"fields_by_booking"`
}

// Register wires the handler's routes into the mux.
func (h *SyncHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/v1/sync", h.TriggerSync)
	mux.HandleFunc("GET /api/v1/sync/check-updates", h.CheckUpdates)
	mux.HandleFunc("GET /api/v1/sync/runs", h.RecentRuns)
}

// TriggerSync runs one pull reconciliation and returns its summary.
func (h *SyncHandler) TriggerSync(w http.ResponseWriter, r *http.Request) {
	var req syncRequest
	body, err := io.ReadAll(r.Body)
	if err == nil && len(body) > 0 {
		if err := json.Unmarshal(body, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
	}

	summary, err := h.sync.Run(r.Context(), usecase.RunOptions{
		Status:        req.Status,
		ExternalIDs:   req.BookingIDs,
		AllowedFields: req.FieldsByBooking,
	})
	if err != nil {
		h.logger.Error("Sync run failed", "error", err)
		status := http.StatusInternalServerError
		if errors.Is(err, entity.ErrSourceUnreachable) || errors.Is(err, entity.ErrEmptySource) {
			status = http.StatusServiceUnavailable
		}
		writeJSON(w, status, summary)
		return
	}

	writeJSON(w, http.StatusOK, summary)
}

// CheckUpdates returns the read-only diff against the upstream source.
func (h *SyncHandler) CheckUpdates(w http.ResponseWriter, r *http.Request) {
	check, err := h.checker.Check(r.Context(), r.URL.Query().Get("status"))
	if err != nil {
		h.logger.Error("Update check failed", "error", err)
		status := http.StatusInternalServerError
		if errors.Is(err, entity.ErrSourceUnreachable) {
			status = http.StatusServiceUnavailable
		}
		writeError(w, status, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, check)
}

// RecentRuns returns the latest audit entries.
func (h *SyncHandler) RecentRuns(w http.ResponseWriter, r *http.Request) {
	limit := 20
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = parsed
	}

	runs, err := h.sync.RecentRuns(r.Context(), limit)
	if err != nil {
		h.logger.Error("Failed to load recent runs", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load recent runs")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"runs": runs})
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
