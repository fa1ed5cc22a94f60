package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/accounts/internal/core/domain"
	"github.com/vncsmyrnk/accounts/internal/core/ports"
)

type UserService struct {
	repo ports.UserRepository
}

func NewUserService(repo ports.UserRepository) ports.UserService {
	return &UserService{
		repo: repo,
	}
}

func (s *UserService) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

func (s *UserService) Update(ctx context.Context, id uuid.UUID, update domain.UpdateUser) (*domain.User, error) {
	if update.IsEmpty() {
		return s.GetByID(ctx, id)
	}
	if update.BirthDate != nil && update.BirthDate.After(time.Now()) {
		return nil, domain.ErrInvalidBirthDate
	}

	user, err := s.repo.Update(ctx, id, update)
	if err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	return user, nil
}

func (s *UserService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	return nil
}

func (s *UserService) AddAddress(ctx context.Context, userID uuid.UUID, input ports.AddressInput) (*domain.Address, error) {
	address := newAddress(input)
	address.UserID = userID
	if err := address.Validate(); err != nil {
		return nil, err
	}

	if err := s.repo.AddAddress(ctx, address); err != nil {
		return nil, fmt.Errorf("failed to add address: %w", err)
	}
	return address, nil
}

func (s *UserService) ListAddresses(ctx context.Context, userID uuid.UUID) ([]domain.Address, error) {
	addresses, err := s.repo.ListAddresses(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list addresses: %w", err)
	}
	return addresses, nil
}
