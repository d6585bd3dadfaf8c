// Package session manages the signed-in user's token and profile.
package session

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/jacksmith/mkt/internal/api"
	"github.com/jacksmith/mkt/internal/model"
	"github.com/jacksmith/mkt/internal/storage"
	"github.com/sirupsen/logrus"
)

// ErrInvalidCredentials is returned by Login when the backend response does
// not carry both a token and a user.
var ErrInvalidCredentials = api.ErrInvalidCredentials

// Session is an authenticated token with the user it belongs to.
// Token and User are always set together.
type Session struct {
	Token string
	User  model.User
}

// Authenticator exchanges credentials for a token and user object.
// *api.Client implements it.
type Authenticator interface {
	Login(ctx context.Context, creds api.Credentials) (token string, user json.RawMessage, err error)
}

// Provider holds the current session and keeps it in sync with the store.
type Provider struct {
	store storage.Store
	auth  Authenticator
	log   logrus.FieldLogger

	mu      sync.RWMutex
	current *Session
}

// New returns a signed-out Provider. Call Load to restore a persisted session.
func New(store storage.Store, auth Authenticator, log logrus.FieldLogger) *Provider {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Provider{store: store, auth: auth, log: log}
}

// Load restores the session from ACCESS_TOKEN and USER_DATA.
// A half-present or unreadable pair is discarded and both keys are cleared.
func (p *Provider) Load() error {
	token, hasToken, err := p.store.Get(storage.KeyAccessToken)
	if err != nil {
		return fmt.Errorf("failed to load session: %w", err)
	}
	userData, hasUser, err := p.store.Get(storage.KeyUserData)
	if err != nil {
		return fmt.Errorf("failed to load session: %w", err)
	}

	if !hasToken && !hasUser {
		p.set(nil)
		return nil
	}

	user, uerr := model.ParseUser([]byte(userData))
	if !hasToken || !hasUser || token == "" || uerr != nil {
		p.log.Warn("discarding incomplete persisted session")
		p.set(nil)
		if err := p.store.Remove(storage.KeyAccessToken, storage.KeyUserData); err != nil {
			return fmt.Errorf("failed to clear incomplete session: %w", err)
		}
		return nil
	}

	p.set(&Session{Token: token, User: user})
	return nil
}

// Login authenticates and persists the resulting session.
// On any failure neither the store nor the in-memory session changes.
func (p *Provider) Login(ctx context.Context, creds api.Credentials) (*Session, error) {
	token, rawUser, err := p.auth.Login(ctx, creds)
	if err != nil {
		return nil, err
	}
	if token == "" {
		return nil, ErrInvalidCredentials
	}
	user, err := model.ParseUser(rawUser)
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	if err := p.persist(token, user); err != nil {
		return nil, err
	}

	s := &Session{Token: token, User: user}
	p.set(s)
	p.log.WithField("user", user.Email()).Info("signed in")
	return s, nil
}

// persist writes both keys, or neither: a failed second write rolls back the first.
func (p *Provider) persist(token string, user model.User) error {
	prevToken, hadToken, err := p.store.Get(storage.KeyAccessToken)
	if err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	prevUser, hadUser, err := p.store.Get(storage.KeyUserData)
	if err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}

	restore := func() {
		if err := p.restore(storage.KeyUserData, prevUser, hadUser); err != nil {
			p.log.WithError(err).Error("failed to roll back user data")
		}
		if err := p.restore(storage.KeyAccessToken, prevToken, hadToken); err != nil {
			p.log.WithError(err).Error("failed to roll back access token")
		}
	}

	if err := p.store.Set(storage.KeyUserData, string(user.Raw())); err != nil {
		restore()
		return fmt.Errorf("failed to save session: %w", err)
	}
	if err := p.store.Set(storage.KeyAccessToken, token); err != nil {
		restore()
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

func (p *Provider) restore(key, value string, present bool) error {
	if present {
		return p.store.Set(key, value)
	}
	return p.store.Remove(key)
}

// Logout clears the persisted and in-memory session. It always succeeds;
// store errors are logged.
func (p *Provider) Logout() {
	p.set(nil)
	if err := p.store.Remove(storage.KeyAccessToken, storage.KeyUserData); err != nil {
		p.log.WithError(err).Error("failed to clear persisted session")
	}
}

// Current returns the active session, or nil when signed out.
func (p *Provider) Current() *Session {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.current == nil {
		return nil
	}
	s := *p.current
	return &s
}

// Token returns the bearer token, or "" when signed out.
func (p *Provider) Token() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.current == nil {
		return ""
	}
	return p.current.Token
}

// IsAuthenticated reports whether a token is held. Tokens are trusted until
// the backend rejects one.
func (p *Provider) IsAuthenticated() bool {
	return p.Token() != ""
}

func (p *Provider) set(s *Session) {
	p.mu.Lock()
	p.current = s
	p.mu.Unlock()
}
