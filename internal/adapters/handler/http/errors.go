package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/vncsmyrnk/accounts/internal/core/domain"
)

type errorResponse struct {
	Error string `json:"error"`
}

var errorKinds = []struct {
	kind   error
	status int
}{
	{domain.ErrBadRequest, http.StatusBadRequest},
	{domain.ErrConflict, http.StatusConflict},
	{domain.ErrUnauthorized, http.StatusUnauthorized},
	{domain.ErrNotFound, http.StatusNotFound},
	{domain.ErrServiceUnavailable, http.StatusServiceUnavailable},
}

// writeError renders err as {"error": "..."} with the status of its kind. Anything outside
// the domain taxonomy is an internal failure; its details are logged, never returned.
func writeError(w http.ResponseWriter, r *http.Request, log *slog.Logger, err error) {
	for _, k := range errorKinds {
		if errors.Is(err, k.kind) {
			writeJSON(w, k.status, errorResponse{Error: publicMessage(err, k.kind)})
			return
		}
	}

	log.ErrorContext(r.Context(), "http.internal_error",
		"method", r.Method,
		"path", r.URL.Path,
		"err", err,
	)
	writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal server error"})
}

func publicMessage(err, kind error) string {
	msg := err.Error()
	if i := strings.LastIndex(msg, kind.Error()+": "); i >= 0 {
		return msg[i+len(kind.Error())+2:]
	}
	return msg
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
