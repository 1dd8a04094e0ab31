// Package session holds the client-side authentication state: the bearer
// token, the cached user and the flags derived from them.
//
// A Session is owned by the application and passed explicitly to the route
// gate, the HTTP adapter and the commands. Failures from the remote auth
// collaborator never escape as errors: Login and Register report a boolean
// and keep a human-readable message in LastError.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/b3uf/backoffice/internal/storage"
)

// adminClaim is the JWT claim the API uses to mark administrators
const adminClaim = "admin"

var validate = validator.New()

// Session is the single process-wide authentication state
type Session struct {
	mu      sync.RWMutex
	token   string
	user    *User
	isAdmin bool
	lastErr string

	store  storage.Store
	auth   Authenticator
	logger zerolog.Logger
}

// New creates an empty session. Call Initialize to adopt a stored session.
func New(store storage.Store, auth Authenticator, zlog zerolog.Logger) *Session {
	return &Session{
		store:  store,
		auth:   auth,
		logger: zlog.With().Str("component", "session").Logger(),
	}
}

// Initialize adopts the stored token and user when both are present. It is
// a no-op when the session is already authenticated. A corrupted user
// record leaves the session unauthenticated.
func (s *Session) Initialize() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.token != "" {
		return
	}

	rec, err := s.store.Load()
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			s.logger.Warn().Err(err).Msg("Failed to read stored session")
		}
		return
	}

	if rec.User == "" || rec.User == "null" {
		s.logger.Debug().Msg("Stored token has no user record, staying signed out")
		return
	}

	var user User
	if err := json.Unmarshal([]byte(rec.User), &user); err != nil {
		s.logger.Warn().Err(err).Msg("Stored user record is corrupted, staying signed out")
		return
	}

	s.setLocked(rec.Token, &user)
	s.logger.Debug().Int64("user_id", user.ID).Bool("admin", s.isAdmin).Msg("Session restored from storage")
}

// Login authenticates against the remote API. On success token and user are
// set together and persisted; on failure the session is left unchanged.
func (s *Session) Login(ctx context.Context, creds Credentials) bool {
	creds.Email = strings.TrimSpace(creds.Email)
	if err := validate.Struct(creds); err != nil {
		s.fail("Login", fmt.Errorf("invalid credentials: %s", describeValidation(err)))
		return false
	}

	resp, err := s.auth.Login(ctx, creds)
	if err == nil {
		err = ctx.Err()
	}
	if err != nil {
		s.fail("Login", err)
		return false
	}
	if resp == nil || resp.Token == "" || resp.User == nil {
		s.fail("Login", errors.New("server response did not contain a token and user"))
		return false
	}

	userJSON, err := json.Marshal(resp.User)
	if err != nil {
		s.fail("Login", fmt.Errorf("failed to encode user: %w", err))
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store.Save(storage.Record{Token: resp.Token, User: string(userJSON)}); err != nil {
		s.lastErr = fmt.Sprintf("Login failed: could not persist session: %v", err)
		s.logger.Error().Err(err).Msg("Failed to persist session")
		return false
	}

	user := *resp.User
	s.setLocked(resp.Token, &user)
	s.lastErr = ""
	s.logger.Info().Int64("user_id", user.ID).Str("email", user.Email).Bool("admin", s.isAdmin).Msg("User logged in")
	return true
}

// Register creates an account. It never signs the user in; callers must
// Login afterwards.
func (s *Session) Register(ctx context.Context, newUser NewUser) bool {
	newUser = newUser.normalize()
	if err := validate.Struct(newUser); err != nil {
		s.fail("Registration", fmt.Errorf("invalid registration: %s", describeValidation(err)))
		return false
	}

	_, err := s.auth.Register(ctx, newUser)
	if err == nil {
		err = ctx.Err()
	}
	if err != nil {
		s.fail("Registration", err)
		return false
	}

	s.mu.Lock()
	s.lastErr = ""
	s.mu.Unlock()

	s.logger.Info().Str("email", newUser.Email).Msg("User registered")
	return true
}

// Logout clears the in-memory session and both storage entries. It always
// succeeds and makes no network call.
func (s *Session) Logout() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.token = ""
	s.user = nil
	s.isAdmin = false
	s.lastErr = ""

	if err := s.store.Clear(); err != nil {
		s.logger.Warn().Err(err).Msg("Failed to clear stored session")
	}
	s.logger.Debug().Msg("Session cleared")
}

// Token returns the bearer token, or "" when signed out
func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// User returns a copy of the cached user, or nil when signed out
func (s *Session) User() *User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

func (s *Session) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token != ""
}

// IsAdmin reports the admin claim decoded from the token. The claim is not
// verified and must only drive UI decisions.
func (s *Session) IsAdmin() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isAdmin
}

// HasStoredToken reports whether durable storage holds a token
func (s *Session) HasStoredToken() bool {
	rec, err := s.store.Load()
	return err == nil && rec.Token != ""
}

// LastError returns the message of the last failed Login or Register
func (s *Session) LastError() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastErr
}

// setLocked sets token and user together and re-derives the admin flag.
// Callers hold s.mu.
func (s *Session) setLocked(token string, user *User) {
	s.token = token
	s.user = user
	s.isAdmin = decodeAdmin(token)
}

func (s *Session) fail(op string, err error) {
	msg := fmt.Sprintf("%s failed: %s", op, userMessage(err))

	s.mu.Lock()
	s.lastErr = msg
	s.mu.Unlock()

	s.logger.Warn().Err(err).Msg(msg)
}

// decodeAdmin reads the admin claim without verifying the signature.
// Malformed tokens resolve to false.
func decodeAdmin(token string) bool {
	if token == "" {
		return false
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return false
	}

	admin, ok := claims[adminClaim].(bool)
	return ok && admin
}

// userMessage turns a collaborator error into something fit for display
func userMessage(err error) string {
	switch {
	case errors.Is(err, context.Canceled):
		return "request cancelled"
	case errors.Is(err, context.DeadlineExceeded):
		return "request timed out"
	}

	var um interface{ UserMessage() string }
	if errors.As(err, &um) {
		return um.UserMessage()
	}
	return err.Error()
}

func describeValidation(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}

	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		switch fe.Tag() {
		case "required":
			parts = append(parts, fmt.Sprintf("%s is required", strings.ToLower(fe.Field())))
		case "email":
			parts = append(parts, "email is not a valid address")
		default:
			parts = append(parts, fmt.Sprintf("%s is invalid", strings.ToLower(fe.Field())))
		}
	}
	return strings.Join(parts, ", ")
}
