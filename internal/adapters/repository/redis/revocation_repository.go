// Package redis keeps the revocation ledger in Redis. Each entry lives exactly as long as
// the token it revokes, so the ledger never needs an explicit prune.
package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/vncsmyrnk/accounts/internal/core/domain"
	"github.com/vncsmyrnk/accounts/internal/core/ports"
)

const defaultPrefix = "revoked"

// minTTL keeps already-expired tokens listed briefly instead of skipping the write,
// so Revoke always leaves an entry behind.
const minTTL = time.Minute

type RevocationRepository struct {
	client *goredis.Client
	prefix string
	now    func() time.Time
}

func NewRevocationRepository(client *goredis.Client, prefix string) (ports.RevocationLedger, error) {
	if client == nil {
		return nil, errors.New("redis client cannot be nil")
	}
	if prefix == "" {
		prefix = defaultPrefix
	}
	return &RevocationRepository{
		client: client,
		prefix: prefix,
		now:    time.Now,
	}, nil
}

// NewClient connects and pings, failing fast when redis is unreachable.
func NewClient(ctx context.Context, addr, password string, db int, dialTimeout time.Duration) (*goredis.Client, error) {
	client := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		Password:    password,
		DB:          db,
		DialTimeout: dialTimeout,
	})

	pingCtx, cancel := context.WithTimeout(ctx, dialTimeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis connection failed: %w", err)
	}
	return client, nil
}

func (r *RevocationRepository) key(token string) string {
	return r.prefix + ":" + domain.TokenDigest(token)
}

func (r *RevocationRepository) Revoke(ctx context.Context, token string, expiresAt time.Time) error {
	now := r.now()
	ttl := expiresAt.Sub(now)
	if ttl < minTTL {
		ttl = minTTL
	}

	// SETNX keeps the first revocation timestamp.
	value := strconv.FormatInt(now.Unix(), 10)
	if err := r.client.SetNX(ctx, r.key(token), value, ttl).Err(); err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}
	return nil
}

func (r *RevocationRepository) IsRevoked(ctx context.Context, token string) (bool, error) {
	n, err := r.client.Exists(ctx, r.key(token)).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check revoked token: %w", err)
	}
	return n > 0, nil
}

// PruneExpired is a no-op: redis evicts entries on their own TTL.
func (r *RevocationRepository) PruneExpired(context.Context, time.Time) (int64, error) {
	return 0, nil
}
