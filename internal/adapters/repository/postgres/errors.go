package postgres

import (
	"errors"

	"github.com/lib/pq"
	"github.com/vncsmyrnk/accounts/internal/core/domain"
)

const (
	uniqueViolation     = "23505"
	foreignKeyViolation = "23503"
	checkViolation      = "23514"
)

// translateError maps constraint violations onto domain errors and leaves anything else as is.
func translateError(err error) error {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return err
	}

	switch pqErr.Code {
	case uniqueViolation:
		switch pqErr.Constraint {
		case "users_email_key":
			return domain.ErrEmailTaken
		case "users_tax_id_key":
			return domain.ErrTaxIDTaken
		}
	case foreignKeyViolation:
		if pqErr.Constraint == "addresses_user_id_fkey" {
			return domain.ErrUserNotFound
		}
	case checkViolation:
		if pqErr.Constraint == "users_tax_id_format" {
			return domain.ErrInvalidTaxIDFormat
		}
	}
	return err
}
