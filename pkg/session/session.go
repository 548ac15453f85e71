// Package session handles authentication against the QuizDesk backend: the
// login and password-recovery flows, persistence of the bearer token and
// identity record, and the guard that gates the dashboard behind a valid
// session.
//
// The identity record is the only cross-component shared state in the SDK.
// It is owned here: stores read it through Identity, and every write goes
// through UpdateIdentity so readers always observe a consistent snapshot.
package session

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"sync"

	"github.com/quizdesk/quizdesk-go/pkg/api"
	"github.com/quizdesk/quizdesk-go/pkg/logger"
	"github.com/quizdesk/quizdesk-go/pkg/models"
)

// ValidationError is a client-side validation failure raised before any
// network call. It surfaces exactly like a server error message but never
// consumes a request.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func validationErr(format string, args ...any) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

var otpPattern = regexp.MustCompile(`^[0-9]{6}$`)

// ValidOTP reports whether code has the six-digit one-time-password shape.
func ValidOTP(code string) bool { return otpPattern.MatchString(code) }

// LoginResult is the backend's login payload.
type LoginResult struct {
	Access  string          `json:"access"`
	Refresh string          `json:"refresh"`
	User    *models.Account `json:"user"`
}

// Session owns credentials and the shared identity.
type Session struct {
	client  *api.Client
	storage Storage
	log     logger.Logger

	mu   sync.Mutex
	user *models.Account
}

// New creates a Session over the given client and storage.
func New(client *api.Client, storage Storage, log logger.Logger) *Session {
	if log == nil {
		log = logger.Nop()
	}
	return &Session{client: client, storage: storage, log: log}
}

// Token returns the persisted access token, or "". Wire this as the
// client's TokenSource so token changes apply immediately.
func (s *Session) Token() string {
	tok, _ := s.storage.Get(KeyAccessToken)
	return tok
}

// Identity returns a copy of the shared identity record, or nil when no
// identity is hydrated.
func (s *Session) Identity() *models.Account {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

// UpdateIdentity applies fn to the shared identity and persists the result,
// so a profile edit is reflected everywhere the identity is displayed. A
// no-op when no identity is hydrated.
func (s *Session) UpdateIdentity(fn func(*models.Account)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return
	}
	fn(s.user)
	s.persistIdentityLocked()
}

func (s *Session) persistIdentityLocked() {
	raw, err := json.Marshal(s.user)
	if err != nil {
		return
	}
	if err := s.storage.Set(KeyUser, string(raw)); err != nil {
		s.log.Warn("persisting identity failed", "err", err)
	}
}

func (s *Session) setIdentity(u *models.Account) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = u
	if u != nil {
		s.persistIdentityLocked()
	}
}

// Login authenticates with email and password. On success the tokens and
// identity are persisted and the shared identity set.
func (s *Session) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	if email == "" || password == "" {
		return nil, validationErr("Please fill in all fields")
	}
	resp, err := s.client.Post(ctx, "/auth/login/", map[string]string{
		"email":    email,
		"password": password,
	})
	if err != nil {
		return nil, err
	}
	if err := api.AsError(resp); err != nil {
		return nil, err
	}
	var result LoginResult
	if err := resp.Decode(&result); err != nil {
		return nil, err
	}
	if err := s.storage.Set(KeyAccessToken, result.Access); err != nil {
		return nil, fmt.Errorf("persisting access token: %w", err)
	}
	if err := s.storage.Set(KeyRefreshToken, result.Refresh); err != nil {
		return nil, fmt.Errorf("persisting refresh token: %w", err)
	}
	s.setIdentity(result.User)
	s.log.Info("logged in", "email", email)
	return &result, nil
}

// Logout invalidates the session server-side on a best-effort basis and
// always clears persisted credentials.
func (s *Session) Logout(ctx context.Context) {
	if refresh, ok := s.storage.Get(KeyRefreshToken); ok && refresh != "" {
		if _, err := s.client.Post(ctx, "/auth/logout/", map[string]string{"refresh": refresh}); err != nil {
			s.log.Warn("server-side logout failed", "err", err)
		}
	}
	s.ClearCredentials()
}

// ClearCredentials removes every persisted auth key and drops the shared
// identity.
func (s *Session) ClearCredentials() {
	_ = s.storage.Delete(KeyAccessToken)
	_ = s.storage.Delete(KeyRefreshToken)
	_ = s.storage.Delete(KeyUser)
	s.mu.Lock()
	s.user = nil
	s.mu.Unlock()
}

// ForgotPassword starts the password-recovery flow by requesting an OTP for
// the given address.
func (s *Session) ForgotPassword(ctx context.Context, email string) error {
	if email == "" {
		return validationErr("Please enter your email address")
	}
	resp, err := s.client.Post(ctx, "/auth/forgot-password/", map[string]string{"email": email})
	if err != nil {
		return err
	}
	return api.AsError(resp)
}

// VerifyOTP checks the recovery code. The six-digit shape is validated
// locally first; an incomplete code never reaches the network.
func (s *Session) VerifyOTP(ctx context.Context, email, code string) error {
	if !ValidOTP(code) {
		return validationErr("Please enter the 6-digit code")
	}
	resp, err := s.client.Post(ctx, "/auth/verify-otp/", map[string]string{
		"email": email,
		"otp":   code,
	})
	if err != nil {
		return err
	}
	return api.AsError(resp)
}

// ResetPassword completes the recovery flow. Password length and the
// confirmation match are validated locally.
func (s *Session) ResetPassword(ctx context.Context, email, password, confirm string) error {
	if len(password) < 6 {
		return validationErr("Password must be at least 6 characters")
	}
	if password != confirm {
		return validationErr("Passwords do not match")
	}
	resp, err := s.client.Post(ctx, "/auth/reset-password/", map[string]string{
		"email":    email,
		"password": password,
	})
	if err != nil {
		return err
	}
	return api.AsError(resp)
}
