package session

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskdeck/taskdeck/internal/api"
	"github.com/taskdeck/taskdeck/internal/models"
)

func mintToken(t *testing.T, expiresAt time.Time) string {
	t.Helper()
	claims := jwt.RegisteredClaims{Subject: "u1"}
	if !expiresAt.IsZero() {
		claims.ExpiresAt = jwt.NewNumericDate(expiresAt)
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return token
}

func newTestService(t *testing.T, handler http.Handler) (*Service, *Store, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	store, err := OpenStore(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	svc := NewService(store)
	svc.UseClient(api.NewClient(server.URL, svc.Token))
	return svc, store, server
}

func TestLoginPersistsSession(t *testing.T) {
	token := mintToken(t, time.Now().Add(time.Hour))
	mux := http.NewServeMux()
	mux.HandleFunc("/api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(api.LoginResponse{
			Token: token,
			User:  models.User{ID: "u1", Name: "Alice", Role: models.RoleManager},
		})
	})

	svc, store, _ := newTestService(t, mux)

	assert.True(t, svc.Loading())
	require.NoError(t, svc.Resume(context.Background()))
	assert.False(t, svc.Loading())
	assert.False(t, svc.Authenticated())

	user, err := svc.Login(context.Background(), "alice", "secret")
	require.NoError(t, err)
	assert.Equal(t, "Alice", user.Name)
	assert.True(t, svc.Authenticated())
	assert.Equal(t, token, svc.Token())

	storedToken, storedUser, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, token, storedToken)
	assert.Equal(t, "u1", storedUser.ID)
}

func TestLoginFailureLeavesStateUnchanged(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	svc, store, _ := newTestService(t, mux)
	require.NoError(t, svc.Resume(context.Background()))

	_, err := svc.Login(context.Background(), "alice", "wrong")
	assert.ErrorIs(t, err, api.ErrUnauthenticated)
	assert.False(t, svc.Authenticated())
	assert.Empty(t, svc.Token())

	storedToken, _, err := store.Load()
	require.NoError(t, err)
	assert.Empty(t, storedToken)
}

func TestResumeRestoresStoredSession(t *testing.T) {
	token := mintToken(t, time.Now().Add(time.Hour))
	mux := http.NewServeMux()
	mux.HandleFunc("/api/auth/me", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer "+token, r.Header.Get("Authorization"))
		_ = json.NewEncoder(w).Encode(models.User{ID: "u1", Name: "Alice", Role: models.RoleAdmin})
	})

	svc, store, _ := newTestService(t, mux)
	require.NoError(t, store.Save(token, &models.User{ID: "u1"}))

	require.NoError(t, svc.Resume(context.Background()))
	assert.True(t, svc.Authenticated())
	assert.Equal(t, "Alice", svc.CurrentUser().Name)
}

func TestResumeSkipsServerForExpiredToken(t *testing.T) {
	meCalls := 0
	mux := http.NewServeMux()
	mux.HandleFunc("/api/auth/me", func(w http.ResponseWriter, r *http.Request) {
		meCalls++
		w.WriteHeader(http.StatusUnauthorized)
	})

	svc, store, _ := newTestService(t, mux)
	require.NoError(t, store.Save(mintToken(t, time.Now().Add(-time.Hour)), &models.User{ID: "u1"}))

	require.NoError(t, svc.Resume(context.Background()))
	assert.False(t, svc.Authenticated())
	assert.Zero(t, meCalls, "an expired token must be rejected locally")

	storedToken, _, err := store.Load()
	require.NoError(t, err)
	assert.Empty(t, storedToken, "the expired token must be cleared")
}

func TestResumeClearsRejectedToken(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/auth/me", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	svc, store, _ := newTestService(t, mux)
	require.NoError(t, store.Save(mintToken(t, time.Now().Add(time.Hour)), &models.User{ID: "u1"}))

	require.NoError(t, svc.Resume(context.Background()))
	assert.False(t, svc.Authenticated())
	assert.Empty(t, svc.Token())

	storedToken, _, err := store.Load()
	require.NoError(t, err)
	assert.Empty(t, storedToken)
}

func TestLogoutClearsStateEvenWhenServerFails(t *testing.T) {
	token := mintToken(t, time.Now().Add(time.Hour))
	mux := http.NewServeMux()
	mux.HandleFunc("/api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(api.LoginResponse{Token: token, User: models.User{ID: "u1"}})
	})
	mux.HandleFunc("/api/auth/logout", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	svc, store, _ := newTestService(t, mux)
	require.NoError(t, svc.Resume(context.Background()))

	_, err := svc.Login(context.Background(), "alice", "secret")
	require.NoError(t, err)

	require.NoError(t, svc.Logout(context.Background()))
	assert.False(t, svc.Authenticated())
	assert.Empty(t, svc.Token())

	storedToken, _, err := store.Load()
	require.NoError(t, err)
	assert.Empty(t, storedToken)
}

// The TUI resolves the session in a command goroutine while the event loop
// polls the accessors on every spinner tick. Run with -race.
func TestConcurrentReadsDuringResume(t *testing.T) {
	token := mintToken(t, time.Now().Add(time.Hour))
	mux := http.NewServeMux()
	mux.HandleFunc("/api/auth/me", func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(5 * time.Millisecond) // keep resolution in flight while we poll
		_ = json.NewEncoder(w).Encode(models.User{ID: "u1", Name: "Alice"})
	})

	svc, store, _ := newTestService(t, mux)
	require.NoError(t, store.Save(token, &models.User{ID: "u1"}))

	done := make(chan error, 1)
	go func() { done <- svc.Resume(context.Background()) }()

	for {
		select {
		case err := <-done:
			require.NoError(t, err)
			assert.False(t, svc.Loading())
			assert.True(t, svc.Authenticated())
			assert.Equal(t, token, svc.Token())
			return
		default:
			_ = svc.Loading()
			_ = svc.Authenticated()
			_ = svc.CurrentUser()
			_ = svc.Token()
		}
	}
}

func TestConcurrentReadsDuringLogin(t *testing.T) {
	token := mintToken(t, time.Now().Add(time.Hour))
	mux := http.NewServeMux()
	mux.HandleFunc("/api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(5 * time.Millisecond)
		_ = json.NewEncoder(w).Encode(api.LoginResponse{Token: token, User: models.User{ID: "u1"}})
	})

	svc, _, _ := newTestService(t, mux)
	require.NoError(t, svc.Resume(context.Background()))

	done := make(chan error, 1)
	go func() {
		_, err := svc.Login(context.Background(), "alice", "secret")
		done <- err
	}()

	for {
		select {
		case err := <-done:
			require.NoError(t, err)
			assert.True(t, svc.Authenticated())
			assert.Equal(t, token, svc.Token())
			return
		default:
			_ = svc.Authenticated()
			_ = svc.CurrentUser()
			_ = svc.Token()
		}
	}
}

func TestTokenExpired(t *testing.T) {
	assert.True(t, tokenExpired("not-a-jwt"))
	assert.True(t, tokenExpired(mintToken(t, time.Now().Add(-time.Minute))))
	assert.False(t, tokenExpired(mintToken(t, time.Now().Add(time.Minute))))
	assert.False(t, tokenExpired(mintToken(t, time.Time{})), "no exp claim leaves the decision to the server")
}
