package ports

import (
	"context"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/accounts/internal/core/domain"
)

type AddressInput struct {
	PostalCode   string
	Street       string
	Number       string
	Complement   string
	Neighborhood string
	City         string
	State        string
}

type UserService interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	Update(ctx context.Context, id uuid.UUID, update domain.UpdateUser) (*domain.User, error)
	Delete(ctx context.Context, id uuid.UUID) error
	AddAddress(ctx context.Context, userID uuid.UUID, input AddressInput) (*domain.Address, error)
	ListAddresses(ctx context.Context, userID uuid.UUID) ([]domain.Address, error)
}

// IdentityValidator checks registration identity fields before anything is persisted.
type IdentityValidator interface {
	ValidateEmail(ctx context.Context, email string) error
	ValidateTaxID(ctx context.Context, taxID string) error
}

// EmailVerifier asks an external provider whether an address can receive mail.
type EmailVerifier interface {
	IsDeliverable(ctx context.Context, email string) (bool, error)
}
