package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	stdhttp "net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/vncsmyrnk/accounts/internal/adapters/emailverify/zerobounce"
	"github.com/vncsmyrnk/accounts/internal/adapters/handler/http"
	"github.com/vncsmyrnk/accounts/internal/adapters/repository/postgres"
	"github.com/vncsmyrnk/accounts/internal/adapters/repository/redis"
	"github.com/vncsmyrnk/accounts/internal/adapters/security/bcrypt"
	"github.com/vncsmyrnk/accounts/internal/adapters/token"
	"github.com/vncsmyrnk/accounts/internal/config"
	"github.com/vncsmyrnk/accounts/internal/core/ports"
	"github.com/vncsmyrnk/accounts/internal/core/services"
	"github.com/vncsmyrnk/accounts/internal/logging"
	"github.com/vncsmyrnk/accounts/internal/metrics"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("config.load", "err", err)
		os.Exit(1)
	}
	log := logging.New(cfg.LogLevel, os.Stdout)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("server.exit", "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, log *slog.Logger) error {
	db, err := postgres.Open(ctx, cfg.Postgres)
	if err != nil {
		return err
	}
	defer db.Close()

	handler, closeDeps, err := newHandler(ctx, cfg, db, log)
	if err != nil {
		return err
	}
	defer closeDeps()

	server := &stdhttp.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           handler,
		ReadHeaderTimeout: cfg.HTTP.ReadHeaderTimeout,
		ReadTimeout:       cfg.HTTP.ReadTimeout,
		WriteTimeout:      cfg.HTTP.WriteTimeout,
		IdleTimeout:       cfg.HTTP.IdleTimeout,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info("server.listen", "addr", cfg.HTTP.Addr, "ledger", cfg.LedgerBackend, "email_verification", cfg.Email.VerificationEnabled)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, stdhttp.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		return err
	case <-ctx.Done():
	}

	log.Info("server.shutdown")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	return server.Shutdown(shutdownCtx)
}

// newHandler wires the adapters and services behind the HTTP router. The returned func
// releases the connections it opened; db stays owned by the caller.
func newHandler(ctx context.Context, cfg config.Config, db *sql.DB, log *slog.Logger) (stdhttp.Handler, func(), error) {
	ledger, closeLedger, err := newLedger(ctx, cfg, db)
	if err != nil {
		return nil, nil, err
	}
	ok := false
	defer func() {
		if !ok {
			closeLedger()
		}
	}()

	hasher, err := bcrypt.NewHasher(cfg.BcryptCost)
	if err != nil {
		return nil, nil, err
	}
	signer, err := token.NewSigner(token.Config{
		Secret:     []byte(cfg.JWT.Secret),
		Issuer:     cfg.JWT.Issuer,
		AccessTTL:  cfg.JWT.AccessTTL,
		RefreshTTL: cfg.JWT.RefreshTTL,
	})
	if err != nil {
		return nil, nil, err
	}

	// nil switches the deliverability gate off
	var verifier ports.EmailVerifier
	if cfg.Email.VerificationEnabled {
		verifier = zerobounce.NewVerifier(cfg.Email.ZeroBounceBaseURL, cfg.Email.ZeroBounceAPIKey, cfg.Email.Timeout, log)
	}

	userRepo := postgres.NewUserRepository(db)
	identityValidator := services.NewIdentityValidator(userRepo, verifier)
	authService, err := services.NewAuthService(userRepo, ledger, hasher, signer, identityValidator)
	if err != nil {
		return nil, nil, err
	}
	userService := services.NewUserService(userRepo)

	m := metrics.New()
	handler := http.NewHandler(http.RouterConfig{
		AuthService:   authService,
		AuthHandler:   http.NewAuthHandler(authService, m, log),
		UserHandler:   http.NewUserHandler(userService, log),
		HealthHandler: http.NewHealthHandler(db, log),
		Metrics:       m,
		Logger:        log,
	})

	ok = true
	return handler, closeLedger, nil
}

func newLedger(ctx context.Context, cfg config.Config, db *sql.DB) (ports.RevocationLedger, func(), error) {
	if cfg.LedgerBackend != config.LedgerRedis {
		return postgres.NewRevocationRepository(db), func() {}, nil
	}

	client, err := redis.NewClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, cfg.Redis.DialTimeout)
	if err != nil {
		return nil, nil, err
	}
	ledger, err := redis.NewRevocationRepository(client, cfg.Redis.KeyPrefix)
	if err != nil {
		client.Close()
		return nil, nil, err
	}
	return ledger, func() { client.Close() }, nil
}
