package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/vncsmyrnk/accounts/internal/core/domain"
	"github.com/vncsmyrnk/accounts/internal/core/ports"
)

type RevocationRepository struct {
	db *sql.DB
}

func NewRevocationRepository(db *sql.DB) ports.RevocationLedger {
	return &RevocationRepository{db: db}
}

// Revoke appends a ledger entry. Revoking an already revoked token is a no-op.
func (r *RevocationRepository) Revoke(ctx context.Context, token string, expiresAt time.Time) error {
	query := `
		INSERT INTO revoked_tokens (token_digest, expires_at)
		VALUES ($1, $2)
		ON CONFLICT (token_digest) DO NOTHING
	`
	if _, err := r.db.ExecContext(ctx, query, domain.TokenDigest(token), expiresAt); err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}
	return nil
}

func (r *RevocationRepository) IsRevoked(ctx context.Context, token string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM revoked_tokens WHERE token_digest = $1)`
	var revoked bool
	if err := r.db.QueryRowContext(ctx, query, domain.TokenDigest(token)).Scan(&revoked); err != nil {
		return false, fmt.Errorf("failed to check revoked token: %w", err)
	}
	return revoked, nil
}

func (r *RevocationRepository) PruneExpired(ctx context.Context, now time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM revoked_tokens WHERE expires_at < $1`, now)
	if err != nil {
		return 0, fmt.Errorf("failed to prune revoked tokens: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to read affected rows: %w", err)
	}
	return n, nil
}
