package domain

import (
	"time"
)

const (
	cpfLength  = 11
	cnpjLength = 14

	// BirthDateLayout is the day/month/year layout accepted at registration.
	BirthDateLayout = "02/01/2006"
)

// ValidateTaxIDFormat accepts a CPF (11 digits) or a CNPJ (14 digits).
// Punctuation is not stripped: "123.456.789-01" is rejected.
func ValidateTaxIDFormat(taxID string) error {
	if len(taxID) != cpfLength && len(taxID) != cnpjLength {
		return ErrInvalidTaxIDFormat
	}
	for i := 0; i < len(taxID); i++ {
		if taxID[i] < '0' || taxID[i] > '9' {
			return ErrInvalidTaxIDFormat
		}
	}
	return nil
}

// ParseBirthDate parses a dd/mm/yyyy date. An empty string yields nil.
func ParseBirthDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(BirthDateLayout, s)
	if err != nil {
		return nil, ErrInvalidBirthDate
	}
	if t.After(time.Now()) {
		return nil, ErrInvalidBirthDate
	}
	return &t, nil
}
