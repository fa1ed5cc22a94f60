package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/vncsmyrnk/accounts/internal/adapters/repository/postgres"
	"github.com/vncsmyrnk/accounts/internal/config"
	"github.com/vncsmyrnk/accounts/internal/logging"
)

// Usage:
//
//	migrations create_users.up     applies one migration, matched by name suffix
//	migrations -all                applies every forward migration in order
func main() {
	all := flag.Bool("all", false, "apply every forward migration")
	flag.Parse()

	cfg, err := config.LoadPostgres()
	if err != nil {
		slog.Error("config.load", "err", err)
		os.Exit(1)
	}
	log := logging.New(cfg.LogLevel, os.Stdout)

	if err := run(cfg, log, *all, flag.Arg(0)); err != nil {
		log.Error("migrations.apply", "err", err)
		os.Exit(1)
	}
}

func run(cfg config.Config, log *slog.Logger, all bool, name string) error {
	if !all && name == "" {
		return errors.New("a migration name is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	db, err := postgres.Open(ctx, cfg.Postgres)
	if err != nil {
		return err
	}
	defer db.Close()

	if all {
		if err := postgres.ApplyMigrations(ctx, db); err != nil {
			return err
		}
		log.Info("migrations.apply", "result", "all forward migrations executed")
		return nil
	}

	fileName, err := postgres.FindMigration(name)
	if err != nil {
		return err
	}
	if err := postgres.ApplyMigration(ctx, db, fileName); err != nil {
		return err
	}

	log.Info("migrations.apply", "file", fileName)
	return nil
}
