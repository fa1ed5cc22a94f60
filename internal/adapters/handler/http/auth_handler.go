package http

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/accounts/internal/core/domain"
	"github.com/vncsmyrnk/accounts/internal/core/ports"
)

// AuthEventRecorder counts authentication outcomes.
type AuthEventRecorder interface {
	AuthEvent(event string, err error)
}

type AuthHandler struct {
	authService ports.AuthService
	events      AuthEventRecorder
	log         *slog.Logger
}

func NewAuthHandler(authService ports.AuthService, events AuthEventRecorder, log *slog.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		events:      events,
		log:         log,
	}
}

type registerResponse struct {
	ID string `json:"id"`
}

type refreshResponse struct {
	AccessToken string `json:"access_token"`
}

type messageResponse struct {
	Message string `json:"message"`
}

type profileResponse struct {
	Subject string `json:"sub"`
	Email   string `json:"email"`
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decode(w, r, &req, false); err != nil {
		writeError(w, r, h.log, err)
		return
	}

	user, err := h.authService.Register(r.Context(), req.toInput())
	h.events.AuthEvent("register", err)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}

	h.log.InfoContext(r.Context(), "auth.register", "user_id", user.ID)
	writeJSON(w, http.StatusCreated, registerResponse{ID: user.ID.String()})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decode(w, r, &req, false); err != nil {
		writeError(w, r, h.log, err)
		return
	}

	pair, err := h.authService.Login(r.Context(), req.Email, req.Password)
	h.events.AuthEvent("login", err)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, pair)
}

// RefreshToken issues a new access token. The refresh token is not rotated.
func (h *AuthHandler) RefreshToken(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if err := decode(w, r, &req, false); err != nil {
		writeError(w, r, h.log, err)
		return
	}
	if _, err := uuid.Parse(req.UserID); err != nil {
		writeError(w, r, h.log, domain.ErrInvalidUserID)
		return
	}

	accessToken, err := h.authService.Refresh(r.Context(), req.UserID, req.RefreshToken)
	h.events.AuthEvent("refresh", err)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, refreshResponse{AccessToken: accessToken})
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	var req logoutRequest
	if err := decode(w, r, &req, false); err != nil {
		writeError(w, r, h.log, err)
		return
	}

	err := h.authService.Logout(r.Context(), req.RefreshToken)
	h.events.AuthEvent("logout", err)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, messageResponse{Message: "Logged out successfully"})
}

// Profile echoes the claims of the bearer token.
func (h *AuthHandler) Profile(w http.ResponseWriter, r *http.Request) {
	claims, ok := r.Context().Value(ClaimsKey).(*ports.TokenClaims)
	if !ok {
		http.Error(w, "Unauthorized: missing user context", http.StatusUnauthorized)
		return
	}

	writeJSON(w, http.StatusOK, profileResponse{Subject: claims.Subject, Email: claims.Email})
}
