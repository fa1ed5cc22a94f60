package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// RevokedToken is a ledger entry. Digest is the hex SHA-256 of the refresh token value;
// ExpiresAt is the token's own expiry, after which the entry can be pruned.
type RevokedToken struct {
	Digest    string    `json:"digest"`
	RevokedAt time.Time `json:"revoked_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// TokenDigest is the ledger key for a token value.
func TokenDigest(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
