package services

import (
	"context"
	"fmt"

	"github.com/vncsmyrnk/accounts/internal/core/domain"
	"github.com/vncsmyrnk/accounts/internal/core/ports"
)

type identityValidator struct {
	userRepo      ports.UserRepository
	emailVerifier ports.EmailVerifier
}

// NewIdentityValidator builds the registration identity checks. A nil emailVerifier
// disables the deliverability gate.
func NewIdentityValidator(userRepo ports.UserRepository, emailVerifier ports.EmailVerifier) ports.IdentityValidator {
	return &identityValidator{
		userRepo:      userRepo,
		emailVerifier: emailVerifier,
	}
}

func (v *identityValidator) ValidateEmail(ctx context.Context, email string) error {
	existing, err := v.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("failed to get user: %w", err)
	}
	if existing != nil {
		return domain.ErrEmailTaken
	}

	if v.emailVerifier == nil {
		return nil
	}

	deliverable, err := v.emailVerifier.IsDeliverable(ctx, email)
	if err != nil {
		return err
	}
	if !deliverable {
		return domain.ErrEmailUndeliverable
	}
	return nil
}

func (v *identityValidator) ValidateTaxID(ctx context.Context, taxID string) error {
	if err := domain.ValidateTaxIDFormat(taxID); err != nil {
		return err
	}

	taken, err := v.userRepo.ExistsByTaxID(ctx, taxID)
	if err != nil {
		return fmt.Errorf("failed to check tax id: %w", err)
	}
	if taken {
		return domain.ErrTaxIDTaken
	}
	return nil
}
