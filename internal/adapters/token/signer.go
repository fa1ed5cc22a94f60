// Package token issues and verifies the HS256-signed access and refresh tokens.
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/vncsmyrnk/accounts/internal/core/domain"
	"github.com/vncsmyrnk/accounts/internal/core/ports"
)

const (
	TypeAccess  = "access"
	TypeRefresh = "refresh"

	minSecretLen = 32
)

type Config struct {
	Secret     []byte
	Issuer     string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

type claims struct {
	Email     string `json:"email"`
	TokenType string `json:"typ"`
	jwt.RegisteredClaims
}

type Signer struct {
	cfg    Config
	parser *jwt.Parser
	// checks the signature only, so expired tokens still report their exp
	sigParser *jwt.Parser
	now       func() time.Time
}

func NewSigner(cfg Config) (*Signer, error) {
	if len(cfg.Secret) < minSecretLen {
		return nil, fmt.Errorf("jwt secret too short (min %d bytes)", minSecretLen)
	}
	if cfg.AccessTTL <= 0 || cfg.RefreshTTL <= 0 {
		return nil, errors.New("token ttl must be positive")
	}
	if cfg.RefreshTTL <= cfg.AccessTTL {
		return nil, errors.New("refresh ttl must be longer than access ttl")
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
	}
	if cfg.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(cfg.Issuer))
	}

	return &Signer{
		cfg:    cfg,
		parser: jwt.NewParser(opts...),
		sigParser: jwt.NewParser(
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
			jwt.WithoutClaimsValidation(),
		),
		now: time.Now,
	}, nil
}

var _ ports.TokenSigner = (*Signer)(nil)

func (s *Signer) IssueAccess(subject, email string) (string, error) {
	return s.issue(subject, email, TypeAccess, s.cfg.AccessTTL)
}

func (s *Signer) IssueRefresh(subject, email string) (string, error) {
	return s.issue(subject, email, TypeRefresh, s.cfg.RefreshTTL)
}

func (s *Signer) RefreshTTL() time.Duration {
	return s.cfg.RefreshTTL
}

func (s *Signer) issue(subject, email, tokenType string, ttl time.Duration) (string, error) {
	now := s.now()
	c := claims{
		Email:     email,
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			Issuer:    s.cfg.Issuer,
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	signed, err := token.SignedString(s.cfg.Secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign %s token: %w", tokenType, err)
	}
	return signed, nil
}

func (s *Signer) VerifyAccess(token string) (*ports.TokenClaims, error) {
	c, err := s.verify(token, TypeAccess)
	if err != nil {
		return nil, domain.ErrInvalidAccessToken
	}
	return c, nil
}

func (s *Signer) VerifyRefresh(token string) (*ports.TokenClaims, error) {
	c, err := s.verify(token, TypeRefresh)
	if err != nil {
		return nil, domain.ErrInvalidToken
	}
	return c, nil
}

func (s *Signer) verify(token, tokenType string) (*ports.TokenClaims, error) {
	var c claims
	_, err := s.parser.ParseWithClaims(token, &c, func(t *jwt.Token) (any, error) {
		return s.cfg.Secret, nil
	})
	if err != nil {
		return nil, err
	}
	if c.TokenType != tokenType {
		return nil, fmt.Errorf("unexpected token type %q", c.TokenType)
	}
	if c.Subject == "" {
		return nil, errors.New("token missing sub claim")
	}

	out := &ports.TokenClaims{
		Subject:   c.Subject,
		Email:     c.Email,
		TokenType: c.TokenType,
		ID:        c.ID,
		ExpiresAt: c.ExpiresAt.Time,
	}
	if c.IssuedAt != nil {
		out.IssuedAt = c.IssuedAt.Time
	}
	return out, nil
}

// ExpiresAt reports the exp claim of a token signed with our key, expired or not. Tokens
// that fail the signature check report false.
func (s *Signer) ExpiresAt(token string) (time.Time, bool) {
	var c claims
	_, err := s.sigParser.ParseWithClaims(token, &c, func(t *jwt.Token) (any, error) {
		return s.cfg.Secret, nil
	})
	if err != nil || c.ExpiresAt == nil {
		return time.Time{}, false
	}
	return c.ExpiresAt.Time, true
}
