// Package session holds the current user and session token, persisted in a
// local SQLite database so a login survives across invocations.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/taskdeck/taskdeck/internal/api"
	"github.com/taskdeck/taskdeck/internal/models"
)

// Service is the auth session store. It is constructed explicitly at startup
// and handed to whatever needs it; there is no package-level state.
//
// Resume, Login and Logout run in command goroutines while the event loop
// reads the accessors on every tick, so all session state sits behind a
// mutex. The lock is never held across a network or store call.
type Service struct {
	store  *Store
	client *api.Client

	mu      sync.Mutex
	token   string
	user    *models.User
	loading bool
}

// NewService creates a session service backed by store. The API client is
// attached separately because the client in turn reads its bearer token from
// this service.
func NewService(store *Store) *Service {
	return &Service{store: store, loading: true}
}

// UseClient attaches the API client used for login, logout and user
// resolution.
func (s *Service) UseClient(client *api.Client) {
	s.client = client
}

// Token returns the current session token, or "" when logged out. It is the
// api.TokenFunc for the client.
func (s *Service) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

// CurrentUser returns the resolved user, or nil when not authenticated.
func (s *Service) CurrentUser() *models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user
}

// Authenticated reports whether a user is resolved.
func (s *Service) Authenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user != nil
}

// Loading reports whether session resolution is still pending.
func (s *Service) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

func (s *Service) set(token string, user *models.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	s.user = user
}

func (s *Service) setLoading(loading bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = loading
}

// Resume restores the session from local storage. With no stored token it is
// a no-op. A stored token is confirmed against /api/auth/me; an invalid or
// expired token is treated as "not authenticated" and cleared silently.
func (s *Service) Resume(ctx context.Context) error {
	defer s.setLoading(false)

	token, _, err := s.store.Load()
	if err != nil {
		return fmt.Errorf("failed to read stored session: %w", err)
	}
	if token == "" {
		return nil
	}

	if tokenExpired(token) {
		return s.store.Clear()
	}

	s.set(token, nil)
	user, err := s.client.Me(ctx)
	if err != nil {
		// 401 means the token is dead; anything else we also treat as "no
		// session" rather than blocking startup. Either way the token goes.
		s.set("", nil)
		if clearErr := s.store.Clear(); clearErr != nil && !errors.Is(err, api.ErrUnauthenticated) {
			return clearErr
		}
		return nil
	}

	s.set(token, user)
	return nil
}

// Login exchanges credentials for a session. On failure local state is left
// unchanged.
func (s *Service) Login(ctx context.Context, username, password string) (*models.User, error) {
	resp, err := s.client.Login(ctx, username, password)
	if err != nil {
		return nil, err
	}
	if resp.Token == "" {
		return nil, errors.New("invalid response from server")
	}

	user := resp.User
	if err := s.store.Save(resp.Token, &user); err != nil {
		return nil, fmt.Errorf("failed to persist session: %w", err)
	}
	s.set(resp.Token, &user)
	return &user, nil
}

// Logout notifies the server on a best-effort basis and then clears local
// state unconditionally. A failing or timed-out server call never keeps the
// user logged in.
func (s *Service) Logout(ctx context.Context) error {
	if s.Token() != "" {
		_ = s.client.Logout(ctx)
	}

	s.set("", nil)
	return s.store.Clear()
}
