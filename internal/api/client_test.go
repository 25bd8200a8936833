package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskdeck/taskdeck/internal/models"
)

func staticToken(token string) TokenFunc {
	return func() string { return token }
}

func TestClientAttachesBearerToken(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_ = json.NewEncoder(w).Encode([]models.Task{})
	}))
	defer server.Close()

	client := NewClient(server.URL, staticToken("tok-123"))
	_, err := client.ListTasks(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Bearer tok-123", gotAuth)
}

func TestClientOmitsAuthorizationWhenLoggedOut(t *testing.T) {
	var hasAuth bool
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, hasAuth = r.Header["Authorization"]
		_ = json.NewEncoder(w).Encode(&LoginResponse{Token: "t", User: models.User{ID: "1"}})
	}))
	defer server.Close()

	client := NewClient(server.URL, staticToken(""))
	_, err := client.Login(context.Background(), "alice", "secret")
	require.NoError(t, err)
	assert.False(t, hasAuth)
}

func TestClientSendsJSONBody(t *testing.T) {
	var gotContentType string
	var gotBody loginRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotContentType = r.Header.Get("Content-Type")
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		_ = json.NewEncoder(w).Encode(&LoginResponse{Token: "t"})
	}))
	defer server.Close()

	client := NewClient(server.URL, staticToken(""))
	_, err := client.Login(context.Background(), "alice", "secret")
	require.NoError(t, err)

	assert.Equal(t, "application/json", gotContentType)
	assert.Equal(t, loginRequest{Username: "alice", Password: "secret"}, gotBody)
}

func TestClientMapsUnauthorized(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	client := NewClient(server.URL, staticToken("expired"))
	_, err := client.Me(context.Background())
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestClientExtractsServerErrorMessage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]string{"message": "title is too short"})
	}))
	defer server.Close()

	client := NewClient(server.URL, staticToken("t"))
	_, err := client.CreateTask(context.Background(), TaskPayload{})
	require.Error(t, err)

	var reqErr *RequestError
	require.ErrorAs(t, err, &reqErr)
	assert.Equal(t, http.StatusBadRequest, reqErr.StatusCode)
	assert.Contains(t, reqErr.Message, "title is too short")
}

func TestClientFallsBackToHTTPStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("not json"))
	}))
	defer server.Close()

	client := NewClient(server.URL, staticToken("t"))
	err := client.DeleteTask(context.Background(), "42")
	require.Error(t, err)

	var reqErr *RequestError
	require.ErrorAs(t, err, &reqErr)
	assert.Equal(t, http.StatusInternalServerError, reqErr.StatusCode)
}

func TestClientRoutes(t *testing.T) {
	var gotMethod, gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		_, _ = w.Write([]byte("{}"))
	}))
	defer server.Close()

	client := NewClient(server.URL+"/", staticToken("t")) // trailing slash is trimmed
	ctx := context.Background()

	_, _ = client.UpdateTask(ctx, "7", TaskPayload{})
	assert.Equal(t, http.MethodPut, gotMethod)
	assert.Equal(t, "/api/tasks/7", gotPath)

	_ = client.DeleteUser(ctx, "9")
	assert.Equal(t, http.MethodDelete, gotMethod)
	assert.Equal(t, "/api/users/9", gotPath)

	_ = client.Logout(ctx)
	assert.Equal(t, http.MethodPost, gotMethod)
	assert.Equal(t, "/api/auth/logout", gotPath)
}
