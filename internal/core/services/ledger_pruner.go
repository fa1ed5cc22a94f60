package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/vncsmyrnk/accounts/internal/core/ports"
)

type ledgerPruner struct {
	ledger ports.RevocationLedger
	log    *slog.Logger
	now    func() time.Time
}

// NewLedgerPruner removes revocation entries whose tokens have expired on their own.
// Such tokens fail signature verification anyway, so the entry no longer protects anything.
func NewLedgerPruner(ledger ports.RevocationLedger, log *slog.Logger) ports.LedgerPruner {
	if log == nil {
		log = slog.Default()
	}
	return &ledgerPruner{
		ledger: ledger,
		log:    log,
		now:    time.Now,
	}
}

func (p *ledgerPruner) Prune(ctx context.Context) (int64, error) {
	n, err := p.ledger.PruneExpired(ctx, p.now())
	if err != nil {
		return 0, fmt.Errorf("failed to prune revocation ledger: %w", err)
	}
	p.log.Info("ledger.prune", "removed", n)
	return n, nil
}
