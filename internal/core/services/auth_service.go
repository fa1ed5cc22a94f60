package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/accounts/internal/core/domain"
	"github.com/vncsmyrnk/accounts/internal/core/ports"
	"golang.org/x/sync/errgroup"
)

// AuthService drives the session lifecycle: register, login, refresh and logout.
// A session is the hashed refresh token stored on the user plus the revocation ledger;
// the user holds at most one active refresh token at a time.
type AuthService struct {
	userRepo  ports.UserRepository
	ledger    ports.RevocationLedger
	hasher    ports.CredentialHasher
	signer    ports.TokenSigner
	validator ports.IdentityValidator

	// compared against when the email is unknown so both login failures cost the same
	dummyHash string
	now       func() time.Time
}

func NewAuthService(
	userRepo ports.UserRepository,
	ledger ports.RevocationLedger,
	hasher ports.CredentialHasher,
	signer ports.TokenSigner,
	validator ports.IdentityValidator,
) (*AuthService, error) {
	dummy, err := hasher.Hash(uuid.NewString())
	if err != nil {
		return nil, fmt.Errorf("failed to prepare auth service: %w", err)
	}

	return &AuthService{
		userRepo:  userRepo,
		ledger:    ledger,
		hasher:    hasher,
		signer:    signer,
		validator: validator,
		dummyHash: dummy,
		now:       time.Now,
	}, nil
}

var _ ports.AuthService = (*AuthService)(nil)

func (s *AuthService) Register(ctx context.Context, input ports.RegisterInput) (*domain.User, error) {
	if input.Password != input.ConfirmPassword {
		return nil, domain.ErrPasswordMismatch
	}

	birthDate, err := domain.ParseBirthDate(input.BirthDate)
	if err != nil {
		return nil, err
	}

	var address *domain.Address
	if input.Address != nil {
		address = newAddress(*input.Address)
		if err := address.Validate(); err != nil {
			return nil, err
		}
	}

	// Both checks must pass before anything is written.
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return s.validator.ValidateEmail(gctx, input.Email)
	})
	g.Go(func() error {
		return s.validator.ValidateTaxID(gctx, input.TaxID)
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	passwordHash, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, err
	}

	taxID := input.TaxID
	user := &domain.User{
		ID:           uuid.New(),
		Email:        input.Email,
		PasswordHash: passwordHash,
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		BirthDate:    birthDate,
		PhoneNumber:  input.PhoneNumber,
		TaxID:        &taxID,
	}
	if address != nil {
		address.UserID = user.ID
	}

	if err := s.userRepo.Create(ctx, user, address); err != nil {
		return nil, err
	}
	if address != nil {
		user.Addresses = []domain.Address{*address}
	}

	return user, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.TokenPair, error) {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if user == nil {
		s.hasher.Verify(password, s.dummyHash)
		return nil, domain.ErrInvalidCredentials
	}
	if !s.hasher.Verify(password, user.PasswordHash) {
		return nil, domain.ErrInvalidCredentials
	}

	subject := user.ID.String()
	accessToken, err := s.signer.IssueAccess(subject, user.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	refreshToken, err := s.signer.IssueRefresh(subject, user.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	refreshTokenHash, err := s.hasher.Hash(refreshToken)
	if err != nil {
		return nil, err
	}

	// Overwrites the previous session, if any.
	if err := s.userRepo.SetRefreshTokenHash(ctx, user.ID, &refreshTokenHash); err != nil {
		return nil, fmt.Errorf("failed to store refresh token: %w", err)
	}

	return &domain.TokenPair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

// Refresh issues a new access token. The refresh token is not rotated: it stays valid
// until it expires or is revoked through Logout.
func (s *AuthService) Refresh(ctx context.Context, userID, refreshToken string) (string, error) {
	revoked, err := s.ledger.IsRevoked(ctx, refreshToken)
	if err != nil {
		return "", fmt.Errorf("failed to check revocation: %w", err)
	}
	if revoked {
		return "", domain.ErrTokenRevoked
	}

	claims, err := s.signer.VerifyRefresh(refreshToken)
	if err != nil {
		return "", err
	}
	if claims.Subject != userID {
		return "", domain.ErrInvalidToken
	}

	id, err := uuid.Parse(userID)
	if err != nil {
		return "", domain.ErrInvalidToken
	}

	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return "", err
	}
	if user.RefreshTokenHash == nil || !s.hasher.Verify(refreshToken, *user.RefreshTokenHash) {
		return "", domain.ErrInvalidToken
	}

	accessToken, err := s.signer.IssueAccess(user.ID.String(), user.Email)
	if err != nil {
		return "", fmt.Errorf("failed to generate access token: %w", err)
	}
	return accessToken, nil
}

// Logout revokes the token whether or not it was ever valid. The stored hash is left in
// place; the ledger alone keeps the token from being used again.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	expiresAt, ok := s.signer.ExpiresAt(refreshToken)
	if !ok {
		expiresAt = s.now().Add(s.signer.RefreshTTL())
	}

	if err := s.ledger.Revoke(ctx, refreshToken, expiresAt); err != nil {
		return fmt.Errorf("failed to revoke refresh token: %w", err)
	}
	return nil
}

func (s *AuthService) Authenticate(_ context.Context, accessToken string) (*ports.TokenClaims, error) {
	return s.signer.VerifyAccess(accessToken)
}

func newAddress(in ports.AddressInput) *domain.Address {
	a := &domain.Address{
		ID:           uuid.New(),
		PostalCode:   in.PostalCode,
		Street:       in.Street,
		Number:       in.Number,
		Neighborhood: in.Neighborhood,
		City:         in.City,
		State:        in.State,
	}
	if in.Complement != "" {
		complement := in.Complement
		a.Complement = &complement
	}
	return a
}
