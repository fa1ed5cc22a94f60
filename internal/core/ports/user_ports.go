package ports

import (
	"context"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/accounts/internal/core/domain"
)

// UserRepository is the account store. Uniqueness of email and tax id is enforced by the
// storage layer; Create reports violations as domain.ErrEmailTaken / domain.ErrTaxIDTaken.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User, address *domain.Address) error
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	ExistsByTaxID(ctx context.Context, taxID string) (bool, error)
	Update(ctx context.Context, id uuid.UUID, update domain.UpdateUser) (*domain.User, error)
	Delete(ctx context.Context, id uuid.UUID) error
	SetRefreshTokenHash(ctx context.Context, id uuid.UUID, hash *string) error
	AddAddress(ctx context.Context, address *domain.Address) error
	ListAddresses(ctx context.Context, userID uuid.UUID) ([]domain.Address, error)
}
