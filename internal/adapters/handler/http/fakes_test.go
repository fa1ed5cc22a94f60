package http

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/vncsmyrnk/accounts/internal/core/domain"
	"github.com/vncsmyrnk/accounts/internal/core/ports"
	"github.com/vncsmyrnk/accounts/internal/logging"
	"github.com/vncsmyrnk/accounts/internal/metrics"
)

const validAccessToken = "valid-access-token"

type fakeAuthService struct {
	userID uuid.UUID

	registerFn func(ports.RegisterInput) (*domain.User, error)
	loginFn    func(email, password string) (*domain.TokenPair, error)
	refreshFn  func(userID, token string) (string, error)
	logoutFn   func(token string) error
}

func (f *fakeAuthService) Register(_ context.Context, in ports.RegisterInput) (*domain.User, error) {
	return f.registerFn(in)
}

func (f *fakeAuthService) Login(_ context.Context, email, password string) (*domain.TokenPair, error) {
	return f.loginFn(email, password)
}

func (f *fakeAuthService) Refresh(_ context.Context, userID, token string) (string, error) {
	return f.refreshFn(userID, token)
}

func (f *fakeAuthService) Logout(_ context.Context, token string) error {
	return f.logoutFn(token)
}

func (f *fakeAuthService) Authenticate(_ context.Context, token string) (*ports.TokenClaims, error) {
	if token != validAccessToken {
		return nil, domain.ErrInvalidAccessToken
	}
	return &ports.TokenClaims{Subject: f.userID.String(), Email: "ada@example.com", TokenType: "access"}, nil
}

type fakeUserService struct {
	users     map[uuid.UUID]*domain.User
	addresses map[uuid.UUID][]domain.Address
	lastInput ports.AddressInput
	updates   []domain.UpdateUser
}

func newFakeUserService(users ...*domain.User) *fakeUserService {
	f := &fakeUserService{
		users:     map[uuid.UUID]*domain.User{},
		addresses: map[uuid.UUID][]domain.Address{},
	}
	for _, u := range users {
		f.users[u.ID] = u
	}
	return f
}

func (f *fakeUserService) GetByID(_ context.Context, id uuid.UUID) (*domain.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return u, nil
}

func (f *fakeUserService) Update(_ context.Context, id uuid.UUID, update domain.UpdateUser) (*domain.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	f.updates = append(f.updates, update)
	if update.FirstName != nil {
		u.FirstName = *update.FirstName
	}
	return u, nil
}

func (f *fakeUserService) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := f.users[id]; !ok {
		return domain.ErrUserNotFound
	}
	delete(f.users, id)
	return nil
}

func (f *fakeUserService) AddAddress(_ context.Context, userID uuid.UUID, in ports.AddressInput) (*domain.Address, error) {
	f.lastInput = in
	if _, ok := f.users[userID]; !ok {
		return nil, domain.ErrUserNotFound
	}
	a := domain.Address{ID: uuid.New(), UserID: userID, PostalCode: in.PostalCode, Street: in.Street}
	f.addresses[userID] = append(f.addresses[userID], a)
	return &a, nil
}

func (f *fakeUserService) ListAddresses(_ context.Context, userID uuid.UUID) ([]domain.Address, error) {
	if _, ok := f.users[userID]; !ok {
		return nil, domain.ErrUserNotFound
	}
	return f.addresses[userID], nil
}

type stubPinger struct{ err error }

func (p stubPinger) PingContext(context.Context) error { return p.err }

type testServer struct {
	handler http.Handler
	auth    *fakeAuthService
	users   *fakeUserService
	metrics *metrics.Metrics
	userID  uuid.UUID
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	userID := uuid.New()
	auth := &fakeAuthService{
		userID: userID,
		registerFn: func(ports.RegisterInput) (*domain.User, error) {
			return nil, errors.New("register not stubbed")
		},
		loginFn: func(string, string) (*domain.TokenPair, error) {
			return nil, errors.New("login not stubbed")
		},
		refreshFn: func(string, string) (string, error) {
			return "", errors.New("refresh not stubbed")
		},
		logoutFn: func(string) error { return nil },
	}
	users := newFakeUserService(&domain.User{ID: userID, Email: "ada@example.com", FirstName: "Ada", LastName: "Lovelace"})
	m := metrics.New()
	log := logging.Discard()

	handler := NewHandler(RouterConfig{
		AuthService:   auth,
		AuthHandler:   NewAuthHandler(auth, m, log),
		UserHandler:   NewUserHandler(users, log),
		HealthHandler: NewHealthHandler(stubPinger{}, log),
		Metrics:       m,
		Logger:        log,
	})
	require.NotNil(t, handler)

	return &testServer{handler: handler, auth: auth, users: users, metrics: m, userID: userID}
}

func (s *testServer) do(method, path, body string, headers ...string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}

	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

func bearer() []string {
	return []string{"Authorization", "Bearer " + validAccessToken}
}
