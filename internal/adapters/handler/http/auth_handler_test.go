package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vncsmyrnk/accounts/internal/core/domain"
	"github.com/vncsmyrnk/accounts/internal/core/ports"
)

const registerBody = `{
	"email": "ada@example.com",
	"password": "s3cret!",
	"confirmPassword": "s3cret!",
	"firstName": "Ada",
	"lastName": "Lovelace",
	"birthDate": "10/12/1990",
	"taxId": "52998224725",
	"address": {
		"postalCode": "01001-000",
		"street": "Praça da Sé",
		"number": "1",
		"neighborhood": "Sé",
		"city": "São Paulo",
		"state": "SP"
	}
}`

func decodeBody[T any](t *testing.T, body []byte) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(body, &v))
	return v
}

func TestRegister(t *testing.T) {
	s := newTestServer(t)
	newID := uuid.New()

	var got ports.RegisterInput
	s.auth.registerFn = func(in ports.RegisterInput) (*domain.User, error) {
		got = in
		return &domain.User{ID: newID}, nil
	}

	rec := s.do(http.MethodPost, "/auth/register", registerBody)

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, newID.String(), decodeBody[registerResponse](t, rec.Body.Bytes()).ID)
	assert.Equal(t, "ada@example.com", got.Email)
	assert.Equal(t, "s3cret!", got.ConfirmPassword)
	assert.Equal(t, "10/12/1990", got.BirthDate)
	assert.Equal(t, "52998224725", got.TaxID)
	require.NotNil(t, got.Address)
	assert.Equal(t, "São Paulo", got.Address.City)
}

func TestRegister_ErrorMapping(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		status  int
		message string
	}{
		{"password mismatch", domain.ErrPasswordMismatch, http.StatusBadRequest, "password and confirmation do not match"},
		{"email taken", domain.ErrEmailTaken, http.StatusConflict, "email is already in use"},
		{"tax id taken", domain.ErrTaxIDTaken, http.StatusConflict, "CPF or CNPJ is already in use"},
		{"invalid tax id", domain.ErrInvalidTaxIDFormat, http.StatusBadRequest, "invalid CPF or CNPJ format"},
		{"undeliverable email", domain.ErrEmailUndeliverable, http.StatusBadRequest, "invalid email address"},
		{"provider down", domain.ErrEmailVerifierUnavailable, http.StatusServiceUnavailable, "email validation failed"},
		{"storage failure", errors.New("failed to create user: connection reset"), http.StatusInternalServerError, "internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(t)
			s.auth.registerFn = func(ports.RegisterInput) (*domain.User, error) { return nil, tt.err }

			rec := s.do(http.MethodPost, "/auth/register", registerBody)

			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, tt.message, decodeBody[errorResponse](t, rec.Body.Bytes()).Error)
		})
	}
}

func TestRegister_RejectsInvalidBodies(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"empty body", ""},
		{"malformed json", `{"email":`},
		{"missing fields", `{"email":"ada@example.com"}`},
		{"bad email", `{"email":"nope","password":"a","confirmPassword":"a","firstName":"A","lastName":"L","taxId":"52998224725"}`},
		{"incomplete address", `{"email":"ada@example.com","password":"a","confirmPassword":"a","firstName":"A","lastName":"L","taxId":"52998224725","address":{"street":"x"}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(t)
			called := false
			s.auth.registerFn = func(ports.RegisterInput) (*domain.User, error) {
				called = true
				return &domain.User{ID: uuid.New()}, nil
			}

			rec := s.do(http.MethodPost, "/auth/register", tt.body)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.NotEmpty(t, decodeBody[errorResponse](t, rec.Body.Bytes()).Error)
			assert.False(t, called)
		})
	}
}

func TestRegister_DescribesMissingFields(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(http.MethodPost, "/auth/register", `{"email":"ada@example.com","password":"a","confirmPassword":"a","firstName":"A","lastName":"L"}`)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "taxId is required", decodeBody[errorResponse](t, rec.Body.Bytes()).Error)
}

func TestLogin(t *testing.T) {
	s := newTestServer(t)
	s.auth.loginFn = func(email, password string) (*domain.TokenPair, error) {
		if email == "ada@example.com" && password == "s3cret!" {
			return &domain.TokenPair{AccessToken: "a", RefreshToken: "r"}, nil
		}
		return nil, domain.ErrInvalidCredentials
	}

	rec := s.do(http.MethodPost, "/auth/login", `{"email":"ada@example.com","password":"s3cret!"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	pair := decodeBody[domain.TokenPair](t, rec.Body.Bytes())
	assert.Equal(t, "a", pair.AccessToken)
	assert.Equal(t, "r", pair.RefreshToken)

	wrong := s.do(http.MethodPost, "/auth/login", `{"email":"ada@example.com","password":"nope"}`)
	unknown := s.do(http.MethodPost, "/auth/login", `{"email":"ghost@example.com","password":"s3cret!"}`)

	assert.Equal(t, http.StatusUnauthorized, wrong.Code)
	assert.Equal(t, http.StatusUnauthorized, unknown.Code)
	assert.Equal(t, wrong.Body.String(), unknown.Body.String())

	exposition := s.do(http.MethodGet, "/metrics", "").Body.String()
	assert.Contains(t, exposition, `accounts_auth_events_total{event="login",result="success"} 1`)
	assert.Contains(t, exposition, `accounts_auth_events_total{event="login",result="failure"} 2`)
}

func TestRefreshToken(t *testing.T) {
	s := newTestServer(t)
	s.auth.refreshFn = func(userID, token string) (string, error) {
		switch {
		case token == "revoked":
			return "", domain.ErrTokenRevoked
		case userID != s.userID.String():
			return "", domain.ErrInvalidToken
		}
		return "new-access", nil
	}

	rec := s.do(http.MethodPost, "/auth/refresh-token", `{"userId":"`+s.userID.String()+`","refreshToken":"r"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "new-access", decodeBody[refreshResponse](t, rec.Body.Bytes()).AccessToken)
	assert.NotContains(t, rec.Body.String(), "refresh_token")

	rec = s.do(http.MethodPost, "/auth/refresh-token", `{"userId":"`+s.userID.String()+`","refreshToken":"revoked"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "refresh token has been revoked", decodeBody[errorResponse](t, rec.Body.Bytes()).Error)

	rec = s.do(http.MethodPost, "/auth/refresh-token", `{"userId":"`+uuid.NewString()+`","refreshToken":"r"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = s.do(http.MethodPost, "/auth/refresh-token", `{"refreshToken":"r"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(http.MethodPost, "/auth/refresh-token", `{"userId":"not-a-uuid","refreshToken":"r"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid user id", decodeBody[errorResponse](t, rec.Body.Bytes()).Error)
}

func TestLogout(t *testing.T) {
	s := newTestServer(t)
	var revoked []string
	s.auth.logoutFn = func(token string) error {
		revoked = append(revoked, token)
		return nil
	}

	rec := s.do(http.MethodPost, "/auth/logout", `{"refreshToken":"r"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Logged out successfully", decodeBody[messageResponse](t, rec.Body.Bytes()).Message)
	assert.Equal(t, []string{"r"}, revoked)
}

func TestProfile(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(http.MethodPost, "/auth/profile", "", bearer()...)
	require.Equal(t, http.StatusOK, rec.Code)
	profile := decodeBody[profileResponse](t, rec.Body.Bytes())
	assert.Equal(t, s.userID.String(), profile.Subject)
	assert.Equal(t, "ada@example.com", profile.Email)

	for _, header := range []string{"", "Bearer", "Bearer wrong", "Basic " + validAccessToken} {
		rec := s.do(http.MethodPost, "/auth/profile", "", "Authorization", header)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, "header %q", header)
	}
}
