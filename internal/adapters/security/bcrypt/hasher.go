// Package bcrypt hashes passwords and refresh tokens with a salted, cost-parameterized bcrypt.
package bcrypt

import (
	"crypto/sha256"
	"encoding/base64"
	"fmt"

	"github.com/vncsmyrnk/accounts/internal/core/ports"
	"golang.org/x/crypto/bcrypt"
)

// bcrypt only looks at the first 72 bytes of its input.
const maxInputLen = 72

type Hasher struct {
	cost int
}

func NewHasher(cost int) (ports.CredentialHasher, error) {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		return nil, fmt.Errorf("bcrypt cost %d out of range [%d..%d]", cost, bcrypt.MinCost, bcrypt.MaxCost)
	}
	return &Hasher{cost: cost}, nil
}

func (h *Hasher) Hash(secret string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword(prepare(secret), h.cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash secret: %w", err)
	}
	return string(digest), nil
}

func (h *Hasher) Verify(secret, digest string) bool {
	if digest == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(digest), prepare(secret)) == nil
}

// prepare reduces long secrets such as signed tokens to a fixed-size input so that
// no part of them is silently ignored.
func prepare(secret string) []byte {
	if len(secret) <= maxInputLen {
		return []byte(secret)
	}
	sum := sha256.Sum256([]byte(secret))
	return []byte(base64.StdEncoding.EncodeToString(sum[:]))
}
