package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"
)

// Pinger is satisfied by *sql.DB.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type HealthHandler struct {
	db      Pinger
	timeout time.Duration
	log     *slog.Logger
}

func NewHealthHandler(db Pinger, log *slog.Logger) *HealthHandler {
	return &HealthHandler{db: db, timeout: 2 * time.Second, log: log}
}

type statusResponse struct {
	Status string `json:"status"`
}

func (h *HealthHandler) Live(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, statusResponse{Status: "ok"})
}

func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	if err := h.db.PingContext(ctx); err != nil {
		h.log.WarnContext(r.Context(), "health.db_unreachable", "err", err)
		writeJSON(w, http.StatusServiceUnavailable, statusResponse{Status: "db_unreachable"})
		return
	}
	writeJSON(w, http.StatusOK, statusResponse{Status: "ready"})
}
