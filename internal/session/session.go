package session

import (
	"errors"
	"log/slog"
	"sync"
	"time"

	"classpick/internal/model"
	"classpick/pkg/apierror"
)

// Session is the process-wide sign-in state. It is initialised once at start-up, handed to every
// screen, and torn down on logout; nothing else reads the token from storage.
type Session struct {
	store *Store
	now   func() time.Time

	mu     sync.RWMutex
	token  string
	claims model.TokenClaims
}

type Option func(*Session)

// WithClock replaces time.Now for expiry checks.
func WithClock(now func() time.Time) Option {
	return func(s *Session) {
		s.now = now
	}
}

func New(store *Store, opts ...Option) *Session {
	s := &Session{store: store, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Init loads the persisted token. A token that cannot be decoded or has expired is discarded and
// the matching error returned, leaving the session signed out; storage failures are returned as-is.
func (s *Session) Init() error {
	token, found, err := s.store.Load()
	switch {
	case errors.Is(err, apierror.ErrMalformedToken):
	case err != nil:
		return err
	case !found:
		return nil
	default:
		claims, decodeErr := Decode(token)
		if decodeErr == nil && !claims.Expired(s.now()) {
			s.set(token, claims)
			slog.Debug("session restored", "username", claims.Username)
			return nil
		}
		err = decodeErr
		if err == nil {
			err = apierror.SessionExpired()
		}
	}

	slog.Info("discarding stored session", "reason", apierror.KindOf(err))
	if clearErr := s.store.Clear(); clearErr != nil {
		return clearErr
	}

	return err
}

// SignIn decodes and persists a freshly issued token, replacing any previous one.
func (s *Session) SignIn(token string) (model.TokenClaims, error) {
	claims, err := Decode(token)
	if err != nil {
		return model.TokenClaims{}, err
	}

	if err := s.store.Save(token); err != nil {
		return model.TokenClaims{}, err
	}

	s.set(token, claims)
	slog.Debug("signed in", "username", claims.Username)
	return claims, nil
}

// SignOut forgets the session in memory and in storage. The in-memory state is dropped even when
// storage fails.
func (s *Session) SignOut() error {
	s.set("", model.TokenClaims{})
	return s.store.Clear()
}

// Current returns the token and claims for an authenticated call.
func (s *Session) Current() (string, model.TokenClaims, error) {
	s.mu.RLock()
	token, claims := s.token, s.claims
	s.mu.RUnlock()

	if token == "" {
		return "", model.TokenClaims{}, apierror.Unauthenticated()
	}

	if claims.Expired(s.now()) {
		return "", model.TokenClaims{}, apierror.SessionExpired()
	}

	return token, claims, nil
}

// Claims returns the decoded claims for display, whether or not they have expired.
func (s *Session) Claims() (model.TokenClaims, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.claims, s.token != ""
}

func (s *Session) Authenticated() bool {
	_, _, err := s.Current()
	return err == nil
}

func (s *Session) set(token string, claims model.TokenClaims) {
	s.mu.Lock()
	s.token = token
	s.claims = claims
	s.mu.Unlock()
}
