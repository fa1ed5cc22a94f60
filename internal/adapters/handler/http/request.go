package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/vncsmyrnk/accounts/internal/core/domain"
	"github.com/vncsmyrnk/accounts/internal/core/ports"
)

const maxBodyBytes = 1 << 20

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// decode reads a JSON body into dst and runs its validate tags. Every failure is a
// domain.ErrBadRequest.
func decode(w http.ResponseWriter, r *http.Request, dst any, strict bool) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if strict {
		dec.DisallowUnknownFields()
	}

	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("%w: request body is empty", domain.ErrBadRequest)
		}
		return fmt.Errorf("%w: invalid request body: %s", domain.ErrBadRequest, err.Error())
	}

	if err := validate.Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			return fmt.Errorf("%w: %s", domain.ErrBadRequest, describe(verrs))
		}
		return fmt.Errorf("%w: %s", domain.ErrBadRequest, err.Error())
	}
	return nil
}

func describe(verrs validator.ValidationErrors) string {
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		field := fe.Namespace()
		if _, rest, ok := strings.Cut(field, "."); ok {
			field = rest
		}
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, field+" is required")
		case "email":
			msgs = append(msgs, field+" must be a valid email address")
		default:
			msgs = append(msgs, fmt.Sprintf("%s failed on %s", field, fe.Tag()))
		}
	}
	return strings.Join(msgs, "; ")
}

type addressRequest struct {
	PostalCode   string `json:"postalCode" validate:"required"`
	Street       string `json:"street" validate:"required"`
	Number       string `json:"number" validate:"required"`
	Complement   string `json:"complement"`
	Neighborhood string `json:"neighborhood" validate:"required"`
	City         string `json:"city" validate:"required"`
	State        string `json:"state" validate:"required"`
}

func (a addressRequest) toInput() ports.AddressInput {
	return ports.AddressInput{
		PostalCode:   a.PostalCode,
		Street:       a.Street,
		Number:       a.Number,
		Complement:   a.Complement,
		Neighborhood: a.Neighborhood,
		City:         a.City,
		State:        a.State,
	}
}

type registerRequest struct {
	Email           string          `json:"email" validate:"required,email"`
	Password        string          `json:"password" validate:"required"`
	ConfirmPassword string          `json:"confirmPassword" validate:"required"`
	FirstName       string          `json:"firstName" validate:"required"`
	LastName        string          `json:"lastName" validate:"required"`
	BirthDate       string          `json:"birthDate"`
	PhoneNumber     string          `json:"phoneNumber"`
	TaxID           string          `json:"taxId" validate:"required"`
	Address         *addressRequest `json:"address"`
}

func (req registerRequest) toInput() ports.RegisterInput {
	in := ports.RegisterInput{
		Email:           req.Email,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
		FirstName:       req.FirstName,
		LastName:        req.LastName,
		BirthDate:       req.BirthDate,
		PhoneNumber:     req.PhoneNumber,
		TaxID:           req.TaxID,
	}
	if req.Address != nil {
		addr := req.Address.toInput()
		in.Address = &addr
	}
	return in
}

type loginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type refreshRequest struct {
	UserID       string `json:"userId" validate:"required"`
	RefreshToken string `json:"refreshToken" validate:"required"`
}

type logoutRequest struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

// updateUserRequest only carries the fields a user may change. It is decoded strictly, so
// attempts to send email, password or tax id are rejected instead of ignored.
type updateUserRequest struct {
	FirstName   *string `json:"firstName" validate:"omitnil,min=1"`
	LastName    *string `json:"lastName" validate:"omitnil,min=1"`
	BirthDate   *string `json:"birthDate"`
	PhoneNumber *string `json:"phoneNumber"`
}

func (req updateUserRequest) toUpdate() (domain.UpdateUser, error) {
	update := domain.UpdateUser{
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		PhoneNumber: req.PhoneNumber,
	}
	if req.BirthDate != nil {
		bd, err := domain.ParseBirthDate(*req.BirthDate)
		if err != nil {
			return domain.UpdateUser{}, err
		}
		update.BirthDate = bd
	}
	return update, nil
}
