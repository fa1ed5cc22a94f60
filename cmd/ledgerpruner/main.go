package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/vncsmyrnk/accounts/internal/adapters/repository/postgres"
	"github.com/vncsmyrnk/accounts/internal/config"
	"github.com/vncsmyrnk/accounts/internal/core/services"
	"github.com/vncsmyrnk/accounts/internal/logging"
)

// ledgerpruner deletes revocation entries whose tokens have expired on their own. Only the
// Postgres ledger needs it; Redis entries carry a TTL.
func main() {
	cfg, err := config.LoadPostgres()
	if err != nil {
		slog.Error("config.load", "err", err)
		os.Exit(1)
	}
	log := logging.New(cfg.LogLevel, os.Stdout)

	if _, err := run(cfg, log); err != nil {
		log.Error("ledger.prune", "err", err)
		os.Exit(1)
	}
}

func run(cfg config.Config, log *slog.Logger) (int64, error) {
	// Use a timeout for the job execution to prevent it from hanging indefinitely
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	db, err := postgres.Open(ctx, cfg.Postgres)
	if err != nil {
		return 0, err
	}
	defer db.Close()

	pruner := services.NewLedgerPruner(postgres.NewRevocationRepository(db), log)

	log.Info("ledger.prune.start")
	return pruner.Prune(ctx)
}
