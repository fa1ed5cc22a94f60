package domain

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID               uuid.UUID  `json:"id"`
	Email            string     `json:"email"`
	PasswordHash     string     `json:"-"`
	RefreshTokenHash *string    `json:"-"`
	FirstName        string     `json:"first_name"`
	LastName         string     `json:"last_name"`
	BirthDate        *time.Time `json:"birth_date,omitempty"`
	PhoneNumber      string     `json:"phone_number,omitempty"`
	TaxID            *string    `json:"tax_id,omitempty"`
	Addresses        []Address  `json:"addresses"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

type Address struct {
	ID           uuid.UUID `json:"id"`
	UserID       uuid.UUID `json:"user_id"`
	PostalCode   string    `json:"postal_code"`
	Street       string    `json:"street"`
	Number       string    `json:"number"`
	Complement   *string   `json:"complement,omitempty"`
	Neighborhood string    `json:"neighborhood"`
	City         string    `json:"city"`
	State        string    `json:"state"`
	CreatedAt    time.Time `json:"created_at"`
}

// Validate reports ErrInvalidAddress when a mandatory field is blank.
func (a *Address) Validate() error {
	for _, v := range []string{a.PostalCode, a.Street, a.Number, a.Neighborhood, a.City, a.State} {
		if v == "" {
			return ErrInvalidAddress
		}
	}
	return nil
}

// UpdateUser lists the profile fields a user may change after registration.
// A nil field is left untouched.
type UpdateUser struct {
	FirstName   *string
	LastName    *string
	BirthDate   *time.Time
	PhoneNumber *string
}

func (u UpdateUser) IsEmpty() bool {
	return u.FirstName == nil && u.LastName == nil && u.BirthDate == nil && u.PhoneNumber == nil
}
