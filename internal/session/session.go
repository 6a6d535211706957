// Package session owns the client's durable identity: signup, login,
// email verification, logout, current-user lookup and the auth-health
// probe. There is exactly one writer of the stored record (login and
// logout); everything else only reads.
package session

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"sitewatch/internal/api"
	"sitewatch/internal/domain"
)

// AuthAPI is the slice of the engine API the manager needs.
// *api.Client satisfies it.
type AuthAPI interface {
	Signup(ctx context.Context, name, email, password string) (*api.AuthResponse, error)
	Login(ctx context.Context, email, password string) (*api.AuthResponse, error)
	VerifyEmail(ctx context.Context, email, otp string) (*api.AuthResponse, error)
	AuthHealth(ctx context.Context) domain.HealthStatus
}

type Manager struct {
	store  Store
	auth   AuthAPI
	logger *zap.Logger
}

func NewManager(store Store, auth AuthAPI, logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{store: store, auth: auth, logger: logger}
}

// Signup registers a new account. No session is created; the account
// stays pending until the emailed code is verified.
func (m *Manager) Signup(ctx context.Context, name, email, password string) (*api.AuthResponse, error) {
	name = strings.TrimSpace(name)
	if len(name) < 2 {
		return nil, domain.Invalid("Name must be at least 2 characters")
	}
	if !strings.Contains(email, "@") {
		return nil, domain.Invalid("Please enter a valid email address")
	}
	if len(password) < 6 {
		return nil, domain.Invalid("Password must be at least 6 characters")
	}
	resp, err := m.auth.Signup(ctx, name, email, password)
	if err != nil {
		return nil, err
	}
	m.logger.Info("signup_ok", zap.String("email", email))
	return resp, nil
}

// VerifyEmail submits the 6-digit code. Malformed codes are rejected
// locally without a network call.
func (m *Manager) VerifyEmail(ctx context.Context, email, otp string) (*api.AuthResponse, error) {
	if err := ValidateOTP(otp); err != nil {
		return nil, err
	}
	resp, err := m.auth.VerifyEmail(ctx, email, otp)
	if err != nil {
		return nil, err
	}
	m.logger.Info("email_verified", zap.String("email", email))
	return resp, nil
}

// Login authenticates and, on success, persists the returned user and
// the authenticated flag. A failed call leaves stored state untouched.
func (m *Manager) Login(ctx context.Context, email, password string) (*domain.User, error) {
	resp, err := m.auth.Login(ctx, email, password)
	if err != nil {
		return nil, err
	}
	if !resp.Success || resp.User == nil {
		return nil, &domain.AuthError{Msg: "Login failed"}
	}
	if err := m.store.SaveUser(ctx, resp.User); err != nil {
		return nil, err
	}
	if err := m.store.SetAuthenticated(ctx, true); err != nil {
		return nil, err
	}
	m.logger.Info("login_ok", zap.Int64("user_id", resp.User.ID))
	return resp.User, nil
}

// Logout clears both persisted entries unconditionally.
func (m *Manager) Logout(ctx context.Context) {
	if err := m.store.Clear(ctx); err != nil {
		m.logger.Warn("logout_clear_failed", zap.Error(err))
	}
}

// CurrentUser returns the persisted user, or nil if the entry is
// absent or unparseable. It never fails outward.
func (m *Manager) CurrentUser(ctx context.Context) *domain.User {
	u, err := m.store.LoadUser(ctx)
	if err != nil {
		m.logger.Warn("session_read_failed", zap.Error(err))
		return nil
	}
	return u
}

// IsAuthenticated reads the persisted flag. Store errors degrade to
// false.
func (m *Manager) IsAuthenticated(ctx context.Context) bool {
	ok, err := m.store.Authenticated(ctx)
	if err != nil {
		return false
	}
	return ok
}

// CheckHealth probes the auth service. Failures come back as an
// unhealthy status, never an error.
func (m *Manager) CheckHealth(ctx context.Context) domain.HealthStatus {
	return m.auth.AuthHealth(ctx)
}

// ValidateOTP enforces the 6-digit numeric shape before any network
// call.
func ValidateOTP(otp string) error {
	otp = strings.TrimSpace(otp)
	if otp == "" {
		return domain.Invalid("Please enter the verification code")
	}
	if len(otp) != 6 {
		return domain.Invalid("Verification code must be 6 digits")
	}
	for _, r := range otp {
		if r < '0' || r > '9' {
			return domain.Invalid("Verification code must contain only numbers")
		}
	}
	return nil
}

// FilterOTP strips non-digits and caps the code at 6 characters, the
// way the verification input behaves while typing.
func FilterOTP(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
		if b.Len() == 6 {
			break
		}
	}
	return b.String()
}
