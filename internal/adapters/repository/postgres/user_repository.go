package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/accounts/internal/core/domain"
	"github.com/vncsmyrnk/accounts/internal/core/ports"
)

const userColumns = `id, email, password_hash, refresh_token_hash, first_name, last_name,
		birth_date, phone_number, tax_id, created_at, updated_at`

type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) ports.UserRepository {
	return &UserRepository{db: db}
}

// Create inserts the user and, when given, its first address in one transaction.
func (r *UserRepository) Create(ctx context.Context, user *domain.User, address *domain.Address) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	queryUser := `
		INSERT INTO users (id, email, password_hash, first_name, last_name, birth_date, phone_number, tax_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at, updated_at
	`
	err = tx.QueryRowContext(ctx, queryUser,
		user.ID, user.Email, user.PasswordHash, user.FirstName, user.LastName,
		user.BirthDate, user.PhoneNumber, user.TaxID,
	).Scan(&user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if translated := translateError(err); translated != err {
			return translated
		}
		return fmt.Errorf("failed to insert user: %w", err)
	}

	if address != nil {
		address.UserID = user.ID
		if err := insertAddress(ctx, tx, address); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", translateError(err))
	}

	return nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	user, err := scanUser(r.db.QueryRowContext(ctx, query, email))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}
	return user, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	user, err := scanUser(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	addresses, err := r.fetchAddresses(ctx, id)
	if err != nil {
		return nil, err
	}
	user.Addresses = addresses

	return user, nil
}

func (r *UserRepository) ExistsByTaxID(ctx context.Context, taxID string) (bool, error) {
	query := `SELECT 1 FROM users WHERE tax_id = $1 LIMIT 1`
	var exists int
	err := r.db.QueryRowContext(ctx, query, taxID).Scan(&exists)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("failed to check tax id: %w", err)
	}
	return true, nil
}

// Update only touches the allow-listed profile columns; a NULL parameter keeps the stored value.
func (r *UserRepository) Update(ctx context.Context, id uuid.UUID, update domain.UpdateUser) (*domain.User, error) {
	query := `
		UPDATE users SET
			first_name   = COALESCE($2, first_name),
			last_name    = COALESCE($3, last_name),
			birth_date   = COALESCE($4, birth_date),
			phone_number = COALESCE($5, phone_number),
			updated_at   = NOW()
		WHERE id = $1
	`
	res, err := r.db.ExecContext(ctx, query, id, update.FirstName, update.LastName, update.BirthDate, update.PhoneNumber)
	if err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	if err := requireAffected(res); err != nil {
		return nil, err
	}

	return r.GetByID(ctx, id)
}

func (r *UserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	return requireAffected(res)
}

func (r *UserRepository) SetRefreshTokenHash(ctx context.Context, id uuid.UUID, hash *string) error {
	query := `UPDATE users SET refresh_token_hash = $2, updated_at = NOW() WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, id, hash)
	if err != nil {
		return fmt.Errorf("failed to store refresh token hash: %w", err)
	}
	return requireAffected(res)
}

func (r *UserRepository) AddAddress(ctx context.Context, address *domain.Address) error {
	return insertAddress(ctx, r.db, address)
}

func (r *UserRepository) ListAddresses(ctx context.Context, userID uuid.UUID) ([]domain.Address, error) {
	var exists int
	err := r.db.QueryRowContext(ctx, `SELECT 1 FROM users WHERE id = $1`, userID).Scan(&exists)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return r.fetchAddresses(ctx, userID)
}

func (r *UserRepository) fetchAddresses(ctx context.Context, userID uuid.UUID) ([]domain.Address, error) {
	query := `
		SELECT id, user_id, postal_code, street, number, complement, neighborhood, city, state, created_at
		FROM addresses
		WHERE user_id = $1
		ORDER BY created_at, id
	`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get addresses: %w", err)
	}
	defer rows.Close()

	addresses := []domain.Address{}
	for rows.Next() {
		var a domain.Address
		if err := rows.Scan(
			&a.ID, &a.UserID, &a.PostalCode, &a.Street, &a.Number, &a.Complement,
			&a.Neighborhood, &a.City, &a.State, &a.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan address: %w", err)
		}
		addresses = append(addresses, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating addresses: %w", err)
	}
	return addresses, nil
}

type queryRower interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func insertAddress(ctx context.Context, db queryRower, a *domain.Address) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	query := `
		INSERT INTO addresses (id, user_id, postal_code, street, number, complement, neighborhood, city, state)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at
	`
	err := db.QueryRowContext(ctx, query,
		a.ID, a.UserID, a.PostalCode, a.Street, a.Number, a.Complement, a.Neighborhood, a.City, a.State,
	).Scan(&a.CreatedAt)
	if err != nil {
		if translated := translateError(err); translated != err {
			return translated
		}
		return fmt.Errorf("failed to insert address: %w", err)
	}
	return nil
}

func scanUser(row *sql.Row) (*domain.User, error) {
	user := &domain.User{}
	err := row.Scan(
		&user.ID,
		&user.Email,
		&user.PasswordHash,
		&user.RefreshTokenHash,
		&user.FirstName,
		&user.LastName,
		&user.BirthDate,
		&user.PhoneNumber,
		&user.TaxID,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return user, nil
}

func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}
