package http

import (
	"log/slog"
	"net/http"

	"github.com/vncsmyrnk/accounts/internal/core/ports"
)

type UserHandler struct {
	service ports.UserService
	log     *slog.Logger
}

func NewUserHandler(service ports.UserService, log *slog.Logger) *UserHandler {
	return &UserHandler{
		service: service,
		log:     log,
	}
}

func (h *UserHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFrom(r)
	if !ok {
		http.Error(w, "Unauthorized: missing user context", http.StatusUnauthorized)
		return
	}

	user, err := h.service.GetByID(r.Context(), userID)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, user)
}

func (h *UserHandler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFrom(r)
	if !ok {
		http.Error(w, "Unauthorized: missing user context", http.StatusUnauthorized)
		return
	}

	var req updateUserRequest
	if err := decode(w, r, &req, true); err != nil {
		writeError(w, r, h.log, err)
		return
	}
	update, err := req.toUpdate()
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}

	user, err := h.service.Update(r.Context(), userID, update)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, user)
}

func (h *UserHandler) DeleteMe(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFrom(r)
	if !ok {
		http.Error(w, "Unauthorized: missing user context", http.StatusUnauthorized)
		return
	}

	if err := h.service.Delete(r.Context(), userID); err != nil {
		writeError(w, r, h.log, err)
		return
	}

	h.log.InfoContext(r.Context(), "user.delete", "user_id", userID)
	w.WriteHeader(http.StatusNoContent)
}

func (h *UserHandler) ListAddresses(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFrom(r)
	if !ok {
		http.Error(w, "Unauthorized: missing user context", http.StatusUnauthorized)
		return
	}

	addresses, err := h.service.ListAddresses(r.Context(), userID)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, addresses)
}

func (h *UserHandler) AddAddress(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFrom(r)
	if !ok {
		http.Error(w, "Unauthorized: missing user context", http.StatusUnauthorized)
		return
	}

	var req addressRequest
	if err := decode(w, r, &req, false); err != nil {
		writeError(w, r, h.log, err)
		return
	}

	address, err := h.service.AddAddress(r.Context(), userID, req.toInput())
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusCreated, address)
}
