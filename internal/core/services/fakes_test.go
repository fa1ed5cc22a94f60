package services

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/accounts/internal/core/domain"
)

// memoryUserRepo mimics the storage constraints of the postgres repository:
// unique email, unique tax id, cascade of addresses.
type memoryUserRepo struct {
	mu        sync.Mutex
	users     map[uuid.UUID]*domain.User
	addresses map[uuid.UUID][]domain.Address
	failNext  error
}

func newMemoryUserRepo() *memoryUserRepo {
	return &memoryUserRepo{
		users:     make(map[uuid.UUID]*domain.User),
		addresses: make(map[uuid.UUID][]domain.Address),
	}
}

func (r *memoryUserRepo) Create(_ context.Context, user *domain.User, address *domain.Address) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.failNext != nil {
		err := r.failNext
		r.failNext = nil
		return err
	}
	for _, u := range r.users {
		if u.Email == user.Email {
			return domain.ErrEmailTaken
		}
		if u.TaxID != nil && user.TaxID != nil && *u.TaxID == *user.TaxID {
			return domain.ErrTaxIDTaken
		}
	}

	now := time.Now()
	user.CreatedAt, user.UpdatedAt = now, now
	stored := *user
	r.users[user.ID] = &stored
	if address != nil {
		address.CreatedAt = now
		r.addresses[user.ID] = append(r.addresses[user.ID], *address)
	}
	return nil
}

func (r *memoryUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *memoryUserRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	cp := *u
	cp.Addresses = append([]domain.Address(nil), r.addresses[id]...)
	return &cp, nil
}

func (r *memoryUserRepo) ExistsByTaxID(_ context.Context, taxID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if u.TaxID != nil && *u.TaxID == taxID {
			return true, nil
		}
	}
	return false, nil
}

func (r *memoryUserRepo) Update(_ context.Context, id uuid.UUID, update domain.UpdateUser) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	if update.FirstName != nil {
		u.FirstName = *update.FirstName
	}
	if update.LastName != nil {
		u.LastName = *update.LastName
	}
	if update.BirthDate != nil {
		u.BirthDate = update.BirthDate
	}
	if update.PhoneNumber != nil {
		u.PhoneNumber = *update.PhoneNumber
	}
	u.UpdatedAt = time.Now()
	cp := *u
	return &cp, nil
}

func (r *memoryUserRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[id]; !ok {
		return domain.ErrUserNotFound
	}
	delete(r.users, id)
	delete(r.addresses, id)
	return nil
}

func (r *memoryUserRepo) SetRefreshTokenHash(_ context.Context, id uuid.UUID, hash *string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.RefreshTokenHash = hash
	return nil
}

func (r *memoryUserRepo) AddAddress(_ context.Context, address *domain.Address) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[address.UserID]; !ok {
		return domain.ErrUserNotFound
	}
	address.CreatedAt = time.Now()
	r.addresses[address.UserID] = append(r.addresses[address.UserID], *address)
	return nil
}

func (r *memoryUserRepo) ListAddresses(_ context.Context, userID uuid.UUID) ([]domain.Address, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[userID]; !ok {
		return nil, domain.ErrUserNotFound
	}
	return append([]domain.Address(nil), r.addresses[userID]...), nil
}

func (r *memoryUserRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.users)
}

func (r *memoryUserRepo) refreshHash(id uuid.UUID) *string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.users[id].RefreshTokenHash
}

type memoryLedger struct {
	mu      sync.Mutex
	entries map[string]time.Time
}

func newMemoryLedger() *memoryLedger {
	return &memoryLedger{entries: make(map[string]time.Time)}
}

func (l *memoryLedger) Revoke(_ context.Context, token string, expiresAt time.Time) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	digest := domain.TokenDigest(token)
	if _, ok := l.entries[digest]; !ok {
		l.entries[digest] = expiresAt
	}
	return nil
}

func (l *memoryLedger) IsRevoked(_ context.Context, token string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	_, ok := l.entries[domain.TokenDigest(token)]
	return ok, nil
}

func (l *memoryLedger) PruneExpired(_ context.Context, now time.Time) (int64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	var n int64
	for digest, exp := range l.entries {
		if exp.Before(now) {
			delete(l.entries, digest)
			n++
		}
	}
	return n, nil
}

type stubVerifier struct {
	deliverable bool
	err         error
	calls       int
	mu          sync.Mutex
}

func (v *stubVerifier) IsDeliverable(context.Context, string) (bool, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.calls++
	return v.deliverable, v.err
}
