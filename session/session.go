// Package session owns the client-side authentication lifecycle: the bearer
// token, the verified profile, and the derived status. All mutations funnel
// through Bootstrap, Login, Logout and Invalidate, so the session is never
// half-authenticated (token without profile, or the other way around).
//
// Responses from concurrent in-flight requests are applied in completion
// order; the last write wins.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"

	"github.com/pkittipat/feedloop/api"
	"github.com/pkittipat/feedloop/models"
	"github.com/pkittipat/feedloop/store"
)

// Status is the session lifecycle state.
type Status string

const (
	// StatusBootstrapping is the initial state, before the persisted token
	// has been checked.
	StatusBootstrapping   Status = "bootstrapping"
	StatusAuthenticated   Status = "authenticated"
	StatusUnauthenticated Status = "unauthenticated"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

type Store struct {
	api    *api.Client
	creds  store.CredentialStore
	logger *slog.Logger

	mu     sync.RWMutex
	status Status
	token  string
	user   *models.User
}

// NewStore wires the session store to the API client. It subscribes to the
// client's 401 notifications so any unauthorized response, from any endpoint,
// invalidates the session before the error surfaces.
func NewStore(client *api.Client, creds store.CredentialStore, logger *slog.Logger) *Store {
	s := &Store{
		api:    client,
		creds:  creds,
		logger: logger,
		status: StatusBootstrapping,
	}
	client.OnUnauthorized(s.Invalidate)
	return s
}

// Status returns the current lifecycle state.
func (s *Store) Status() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status
}

// User returns the verified profile, or nil unless the session is
// authenticated.
func (s *Store) User() *models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

// Token returns the active bearer token, or "" when unauthenticated.
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// Bootstrap restores the session from the persisted token. Without a
// persisted token it settles to unauthenticated with no network traffic.
// With one, the profile endpoint verifies it; a rejected token is cleared,
// while a transient failure leaves it in place for the next start.
func (s *Store) Bootstrap(ctx context.Context) Status {
	token, err := s.creds.Token(ctx)
	if err != nil {
		s.logger.Warn("reading persisted token failed", "error", err)
	}
	if token == "" {
		s.settle(StatusUnauthenticated, "", nil)
		return StatusUnauthenticated
	}

	// Tokens issued by the backend are JWTs. If the expiry claim has already
	// passed there is no point asking the server; opaque or unparsable
	// tokens fall through to network verification.
	if tokenExpired(token) {
		s.logger.Debug("persisted token expired, skipping verification")
		s.clearPersisted(ctx)
		s.settle(StatusUnauthenticated, "", nil)
		return StatusUnauthenticated
	}

	s.apply(token)

	user, err := s.api.Me(ctx)
	if err != nil {
		s.logger.Info("token verification failed", "error", err)
		if api.KindOf(err) == api.KindInvalidCredentials {
			s.reset(ctx)
		} else {
			// transient failure; keep the persisted token and cached
			// profile so the next start can retry verification
			s.api.SetToken("")
			s.settle(StatusUnauthenticated, "", nil)
		}
		return StatusUnauthenticated
	}

	s.settle(StatusAuthenticated, token, user)
	if err := s.creds.SaveProfile(ctx, *user); err != nil {
		s.logger.Warn("caching profile failed", "error", err)
	}
	s.logger.Debug("session restored", "user", user.Email, "role", user.Role)
	return StatusAuthenticated
}

// Login exchanges credentials for a fresh token and verifies it by fetching
// the profile. Any stale token is cleared first. On profile-fetch failure the
// session reverts to unauthenticated and the returned error distinguishes
// authentication failures from generic fetch failures.
func (s *Store) Login(ctx context.Context, email, password string) error {
	s.reset(ctx)

	token, err := s.api.Login(ctx, email, password)
	if err != nil {
		return err
	}
	if token.AccessToken == "" {
		return &api.Error{
			Kind:    api.KindServerError,
			Message: "invalid response from server: no access token",
		}
	}

	s.apply(token.AccessToken)
	if err := s.creds.SaveToken(ctx, token.AccessToken); err != nil {
		s.reset(ctx)
		return &api.Error{
			Kind:    api.KindServerError,
			Message: fmt.Sprintf("persisting token failed: %v", err),
		}
	}

	user, err := s.api.Me(ctx)
	if err != nil {
		s.reset(ctx)
		if authShaped(err) {
			return &api.Error{
				Kind:    api.KindInvalidCredentials,
				Message: "authentication failed: please try again with correct credentials",
			}
		}
		return &api.Error{
			Kind:    api.KindOf(err),
			Message: fmt.Sprintf("authentication succeeded but fetching your profile failed: %v", err),
		}
	}

	s.settle(StatusAuthenticated, token.AccessToken, user)
	if err := s.creds.SaveProfile(ctx, *user); err != nil {
		s.logger.Warn("caching profile failed", "error", err)
	}
	s.logger.Info("logged in", "user", user.Email, "role", user.Role)
	return nil
}

// Logout clears the persisted token, the default header and the profile.
// It is unconditional and always leaves the session unauthenticated.
func (s *Store) Logout(ctx context.Context) {
	s.reset(ctx)
	s.logger.Info("logged out")
}

// Register creates a new account. It never touches session state; server
// errors propagate to the caller. The payload is checked locally first so
// an obviously malformed form never reaches the network.
func (s *Store) Register(ctx context.Context, payload models.UserCreate) (*models.User, error) {
	if err := validate.Struct(payload); err != nil {
		return nil, &api.Error{
			Kind:    api.KindValidationError,
			Message: formatFieldErrors(err),
		}
	}
	return s.api.Register(ctx, payload)
}

// Invalidate drops the session in response to a 401 seen anywhere. It is the
// callback the API client fires, and is safe to call repeatedly.
func (s *Store) Invalidate() {
	s.reset(context.Background())
}

// CachedProfile returns the last verified profile from durable storage,
// regardless of current session state. Useful when the backend is down.
func (s *Store) CachedProfile(ctx context.Context) (*models.User, error) {
	return s.creds.Profile(ctx)
}

// apply sets the active token on the session and the API client together.
func (s *Store) apply(token string) {
	s.mu.Lock()
	s.token = token
	s.api.SetToken(token)
	s.mu.Unlock()
}

// settle records a final lifecycle state.
func (s *Store) settle(status Status, token string, user *models.User) {
	s.mu.Lock()
	s.status = status
	s.token = token
	s.user = user
	s.mu.Unlock()
}

// reset drops every trace of authentication: persisted token, cached
// profile, default header and in-memory state.
func (s *Store) reset(ctx context.Context) {
	s.clearPersisted(ctx)
	s.mu.Lock()
	s.status = StatusUnauthenticated
	s.token = ""
	s.user = nil
	s.api.SetToken("")
	s.mu.Unlock()
}

func (s *Store) clearPersisted(ctx context.Context) {
	if err := s.creds.DeleteToken(ctx); err != nil {
		s.logger.Warn("deleting persisted token failed", "error", err)
	}
	if err := s.creds.DeleteProfile(ctx); err != nil {
		s.logger.Warn("deleting cached profile failed", "error", err)
	}
}

// tokenExpired reports whether token is a JWT whose exp claim has passed.
// The signature is not checked; the server remains the authority and an
// unexpired or unparsable token still goes through online verification.
func tokenExpired(token string) bool {
	claims := jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return false
	}
	if claims.ExpiresAt == nil {
		return false
	}
	return claims.ExpiresAt.Before(time.Now())
}

// authShaped reports whether a profile-fetch error looks like an
// authentication problem rather than a generic failure.
func authShaped(err error) bool {
	var apiErr *api.Error
	if errors.As(err, &apiErr) && apiErr.Kind == api.KindInvalidCredentials {
		return true
	}
	msg := strings.ToLower(err.Error())
	for _, marker := range []string{"credential", "token", "unauthorized", "401"} {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}

// formatFieldErrors renders validator errors as "field: rule" pairs joined
// the same way server validation messages are.
func formatFieldErrors(err error) string {
	fieldErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err.Error()
	}
	parts := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		parts = append(parts, fmt.Sprintf("%s: failed %s validation", strings.ToLower(fe.Field()), fe.Tag()))
	}
	return strings.Join(parts, "; ")
}
