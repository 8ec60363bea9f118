package auth

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	pkgAuth "github.com/invenpos/invenpos-backend/pkg/auth"
	"github.com/invenpos/invenpos-backend/pkg/config"
	"github.com/invenpos/invenpos-backend/pkg/db/models"
	"github.com/invenpos/invenpos-backend/pkg/enums"
	pkgerrors "github.com/invenpos/invenpos-backend/pkg/errors"
	"github.com/invenpos/invenpos-backend/pkg/logger"
	"github.com/invenpos/invenpos-backend/pkg/security"
)

var (
	testJWT = config.JWTConfig{
		Secret:            "secret",
		Issuer:            "invenpos",
		ExpirationMinutes: 30,
	}
	testPassword = config.PasswordConfig{
		ArgonMemoryKB:    8192,
		ArgonTime:        1,
		ArgonParallelism: 1,
		ArgonSaltLen:     16,
		ArgonKeyLen:      32,
	}
)

type stubUserRepo struct {
	users     map[string]*models.User
	lastLogin map[uuid.UUID]time.Time
	rehashed  map[uuid.UUID]string
	err       error
}

func (s *stubUserRepo) FindByEmail(_ context.Context, email string) (*models.User, error) {
	if s.err != nil {
		return nil, s.err
	}
	u, ok := s.users[email]
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
	}
	clone := *u
	return &clone, nil
}

func (s *stubUserRepo) UpdateLastLogin(_ context.Context, id uuid.UUID, at time.Time) error {
	s.lastLogin[id] = at
	return nil
}

func (s *stubUserRepo) UpdatePasswordHash(_ context.Context, id uuid.UUID, hash string) error {
	s.rehashed[id] = hash
	return nil
}

type stubSessions struct {
	mu      sync.Mutex
	open    map[string]uuid.UUID
	openErr error
}

func (s *stubSessions) Open(_ context.Context, accessID string, userID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.openErr != nil {
		return s.openErr
	}
	s.open[accessID] = userID
	return nil
}

func (s *stubSessions) Revoke(_ context.Context, accessID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.open, accessID)
	return nil
}

type outcomes []string

func (o *outcomes) IncLogin(outcome string) { *o = append(*o, outcome) }

type fixture struct {
	svc      Service
	repo     *stubUserRepo
	sessions *stubSessions
	outcomes *outcomes
}

func newFixture(t *testing.T, role enums.UserRole, active bool) (fixture, *models.User) {
	t.Helper()
	hash, err := security.HashPassword("password", testPassword)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	user := &models.User{
		ID:           uuid.New(),
		Email:        "cashier@example.com",
		Name:         "Cashier User",
		PasswordHash: hash,
		Role:         role,
		IsActive:     active,
	}
	f := fixture{
		repo: &stubUserRepo{
			users:     map[string]*models.User{user.Email: user},
			lastLogin: map[uuid.UUID]time.Time{},
			rehashed:  map[uuid.UUID]string{},
		},
		sessions: &stubSessions{open: map[string]uuid.UUID{}},
		outcomes: &outcomes{},
	}
	svc, err := NewService(ServiceParams{
		UserRepo:       f.repo,
		SessionManager: f.sessions,
		JWTConfig:      testJWT,
		PasswordConfig: testPassword,
		Logger:         logger.Nop(),
		Metrics:        f.outcomes,
		Now:            func() time.Time { return time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC) },
	})
	if err != nil {
		t.Fatalf("build service: %v", err)
	}
	f.svc = svc
	return f, user
}

func TestServiceLoginCashier(t *testing.T) {
	f, user := newFixture(t, enums.UserRoleCashier, true)

	resp, err := f.svc.Login(context.Background(), LoginRequest{Email: "cashier@example.com", Password: "password"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	if resp.AccessToken == "" || resp.TokenType != "Bearer" {
		t.Fatalf("unexpected token response %+v", resp)
	}
	if resp.User == nil || resp.User.ID != user.ID {
		t.Fatalf("unexpected user in response %+v", resp.User)
	}
	if len(resp.Screens) != 2 || resp.Screens[0] != enums.ScreenDashboard || resp.Screens[1] != enums.ScreenPOS {
		t.Fatalf("unexpected screens %v", resp.Screens)
	}
	if resp.Landing != enums.ScreenDashboard {
		t.Fatalf("unexpected landing %q", resp.Landing)
	}
	if len(f.sessions.open) != 1 {
		t.Fatalf("expected one open session, got %d", len(f.sessions.open))
	}
	for _, owner := range f.sessions.open {
		if owner != user.ID {
			t.Fatalf("session owner mismatch")
		}
	}
	if _, ok := f.repo.lastLogin[user.ID]; !ok {
		t.Fatal("expected last login recorded")
	}
	if len(*f.outcomes) != 1 || (*f.outcomes)[0] != outcomeSuccess {
		t.Fatalf("unexpected outcomes %v", *f.outcomes)
	}
	if !resp.ExpiresAt.Equal(time.Date(2026, 5, 1, 9, 30, 0, 0, time.UTC)) {
		t.Fatalf("unexpected expiry %v", resp.ExpiresAt)
	}
}

func TestServiceLoginTokenCarriesRoleAndSession(t *testing.T) {
	f, user := newFixture(t, enums.UserRoleAdmin, true)
	svc := f.svc.(*service)
	svc.now = time.Now

	resp, err := svc.Login(context.Background(), LoginRequest{Email: "cashier@example.com", Password: "password"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	claims, err := pkgAuth.ParseAccessToken(testJWT, resp.AccessToken)
	if err != nil {
		t.Fatalf("parse access token: %v", err)
	}
	if claims.Role != enums.UserRoleAdmin || claims.UserID != user.ID {
		t.Fatalf("unexpected claims %+v", claims)
	}
	if _, ok := f.sessions.open[claims.ID]; !ok {
		t.Fatalf("expected session keyed by jti %q", claims.ID)
	}
	if len(resp.Screens) != len(enums.AllScreens()) {
		t.Fatalf("admin should see every screen, got %v", resp.Screens)
	}
}

func TestServiceLoginRejects(t *testing.T) {
	cases := map[string]struct {
		active bool
		req    LoginRequest
	}{
		"wrong password": {true, LoginRequest{Email: "cashier@example.com", Password: "nope"}},
		"unknown email":  {true, LoginRequest{Email: "ghost@example.com", Password: "password"}},
		"blank email":    {true, LoginRequest{Email: " ", Password: "password"}},
		"inactive user":  {false, LoginRequest{Email: "cashier@example.com", Password: "password"}},
	}
	for name, tc := range cases {
		f, _ := newFixture(t, enums.UserRoleCashier, tc.active)
		_, err := f.svc.Login(context.Background(), tc.req)
		if !pkgerrors.IsCode(err, pkgerrors.CodeUnauthorized) {
			t.Fatalf("%s: expected unauthorized, got %v", name, err)
		}
		if len(f.sessions.open) != 0 {
			t.Fatalf("%s: no session expected", name)
		}
		if len(*f.outcomes) != 1 || (*f.outcomes)[0] != outcomeFailure {
			t.Fatalf("%s: unexpected outcomes %v", name, *f.outcomes)
		}
	}
}

func TestServiceLoginDependencyFailures(t *testing.T) {
	f, _ := newFixture(t, enums.UserRoleCashier, true)
	f.sessions.openErr = errors.New("redis down")
	_, err := f.svc.Login(context.Background(), LoginRequest{Email: "cashier@example.com", Password: "password"})
	if !pkgerrors.IsCode(err, pkgerrors.CodeDependency) {
		t.Fatalf("expected dependency error, got %v", err)
	}

	f, _ = newFixture(t, enums.UserRoleCashier, true)
	f.repo.err = errors.New("db down")
	_, err = f.svc.Login(context.Background(), LoginRequest{Email: "cashier@example.com", Password: "password"})
	if !pkgerrors.IsCode(err, pkgerrors.CodeDependency) {
		t.Fatalf("expected dependency error, got %v", err)
	}
	if (*f.outcomes)[0] != outcomeError {
		t.Fatalf("expected error outcome, got %v", *f.outcomes)
	}
}

func TestServiceLoginRehashesWeakHash(t *testing.T) {
	f, user := newFixture(t, enums.UserRoleCashier, true)
	svc := f.svc.(*service)
	svc.pwCfg.ArgonTime = 2

	if _, err := svc.Login(context.Background(), LoginRequest{Email: "cashier@example.com", Password: "password"}); err != nil {
		t.Fatalf("login: %v", err)
	}
	hash, ok := f.repo.rehashed[user.ID]
	if !ok {
		t.Fatal("expected password to be rehashed")
	}
	if valid, err := security.VerifyPassword("password", hash); err != nil || !valid {
		t.Fatalf("rehashed password must still verify: %v %v", valid, err)
	}
}

func TestServiceLogout(t *testing.T) {
	f, user := newFixture(t, enums.UserRoleCashier, true)
	f.sessions.open["jti-1"] = user.ID

	if err := f.svc.Logout(context.Background(), "jti-1"); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if _, ok := f.sessions.open["jti-1"]; ok {
		t.Fatal("expected session revoked")
	}
	if err := f.svc.Logout(context.Background(), ""); !pkgerrors.IsCode(err, pkgerrors.CodeUnauthorized) {
		t.Fatalf("expected unauthorized for blank session, got %v", err)
	}
}
