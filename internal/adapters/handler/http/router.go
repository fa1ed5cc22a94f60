package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/vncsmyrnk/accounts/internal/core/ports"
	"github.com/vncsmyrnk/accounts/internal/metrics"
)

type RouterConfig struct {
	AuthService   ports.AuthService
	AuthHandler   *AuthHandler
	UserHandler   *UserHandler
	HealthHandler *HealthHandler
	Metrics       *metrics.Metrics
	Logger        *slog.Logger
}

func NewHandler(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(AccessLog(cfg.Logger))
	r.Use(middleware.Recoverer)
	r.Use(cfg.Metrics.Middleware)

	r.Get("/healthz", cfg.HealthHandler.Live)
	r.Get("/readyz", cfg.HealthHandler.Ready)
	r.Method(http.MethodGet, "/metrics", cfg.Metrics.Handler())

	bearer := RequireBearer(cfg.AuthService, cfg.Logger)

	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", cfg.AuthHandler.Register)
		r.Post("/login", cfg.AuthHandler.Login)
		r.Post("/refresh-token", cfg.AuthHandler.RefreshToken)
		r.Post("/logout", cfg.AuthHandler.Logout)
		r.With(bearer).Post("/profile", cfg.AuthHandler.Profile)
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(bearer)

		r.Route("/users/me", func(r chi.Router) {
			r.Get("/", cfg.UserHandler.GetMe)
			r.Patch("/", cfg.UserHandler.UpdateMe)
			r.Delete("/", cfg.UserHandler.DeleteMe)
			r.Get("/addresses", cfg.UserHandler.ListAddresses)
			r.Post("/addresses", cfg.UserHandler.AddAddress)
		})
	})

	return r
}
