package ports

import (
	"context"
	"time"

	"github.com/vncsmyrnk/accounts/internal/core/domain"
)

type CredentialHasher interface {
	Hash(secret string) (string, error)
	// Verify fails closed: a malformed digest reports false.
	Verify(secret, digest string) bool
}

type TokenClaims struct {
	Subject   string    `json:"sub"`
	Email     string    `json:"email"`
	TokenType string    `json:"typ"`
	ID        string    `json:"jti"`
	IssuedAt  time.Time `json:"iat"`
	ExpiresAt time.Time `json:"exp"`
}

type TokenSigner interface {
	IssueAccess(subject, email string) (string, error)
	IssueRefresh(subject, email string) (string, error)
	VerifyAccess(token string) (*TokenClaims, error)
	VerifyRefresh(token string) (*TokenClaims, error)
	// ExpiresAt reads the exp claim of a correctly signed token, skipping expiry checks.
	ExpiresAt(token string) (time.Time, bool)
	RefreshTTL() time.Duration
}

// RevocationLedger is the append-only denylist of refresh tokens.
type RevocationLedger interface {
	Revoke(ctx context.Context, token string, expiresAt time.Time) error
	IsRevoked(ctx context.Context, token string) (bool, error)
	PruneExpired(ctx context.Context, now time.Time) (int64, error)
}

type RegisterInput struct {
	Email           string
	Password        string
	ConfirmPassword string
	FirstName       string
	LastName        string
	BirthDate       string
	PhoneNumber     string
	TaxID           string
	Address         *AddressInput
}

type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (*domain.User, error)
	Login(ctx context.Context, email, password string) (*domain.TokenPair, error)
	Refresh(ctx context.Context, userID, refreshToken string) (string, error)
	Logout(ctx context.Context, refreshToken string) error
	Authenticate(ctx context.Context, accessToken string) (*TokenClaims, error)
}

type LedgerPruner interface {
	Prune(ctx context.Context) (int64, error)
}
