package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/cbodonnell/bullseye/pkg/api/handlers"
	authproviders "github.com/cbodonnell/bullseye/pkg/auth/providers"
	"github.com/cbodonnell/bullseye/pkg/game/leaderboard"
	"github.com/cbodonnell/bullseye/pkg/repositories"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type staticLeaderboard []leaderboard.Entry

func (l staticLeaderboard) Leaderboard() []leaderboard.Entry {
	return l
}

type testServer struct {
	*httptest.Server
	repository repositories.Repository
}

func newTestServer(t *testing.T, authProvider authproviders.AuthProvider) *testServer {
	t.Helper()
	staticDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(staticDir, "index.html"), []byte("<h1>bullseye</h1>"), 0o644))

	repository := repositories.NewMemoryRepository()
	server := httptest.NewServer(NewRouter(NewAPIServerOptions{
		AuthProvider: authProvider,
		Repository:   repository,
		Leaderboard:  staticLeaderboard{{Username: "alice", Score: 12}, {Username: "bob", Score: 4}},
		WebSocketHandler: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTeapot)
		}),
		StaticDir:        staticDir,
		AllowedOrigins:   []string{"http://example.com"},
		PasswordHashCost: bcrypt.MinCost,
	}))
	t.Cleanup(server.Close)
	return &testServer{Server: server, repository: repository}
}

func (s *testServer) postCredentials(t *testing.T, path, username, password string) (*http.Response, *handlers.AccountResponse) {
	t.Helper()
	body, err := json.Marshal(&handlers.Credentials{Username: username, Password: password})
	require.NoError(t, err)
	resp, err := http.Post(s.URL+path, "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	account := &handlers.AccountResponse{}
	if resp.StatusCode == http.StatusOK {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(account))
	}
	return resp, account
}

func TestRegisterValidation(t *testing.T) {
	s := newTestServer(t, authproviders.NewNoAuthProvider())

	tests := []struct {
		name        string
		username    string
		password    string
		wantSuccess bool
		wantMessage string
	}{
		{name: "valid", username: "alice", password: "secret", wantSuccess: true, wantMessage: "Registration successful"},
		{name: "missing password", username: "alice", password: "", wantMessage: "Username and password are required"},
		{name: "username too short", username: "a", password: "secret", wantMessage: "Username must be between 2 and 20 characters"},
		{name: "username too long", username: "abcdefghijklmnopqrstu", password: "secret", wantMessage: "Username must be between 2 and 20 characters"},
		{name: "password too short", username: "carol", password: "abc", wantMessage: "Password must be between 4 and 16 characters"},
		{name: "password too long", username: "carol", password: "abcdefghijklmnopq", wantMessage: "Password must be between 4 and 16 characters"},
		{name: "duplicate", username: "alice", password: "other", wantMessage: "Username already exists"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, account := s.postCredentials(t, "/api/register", tt.username, tt.password)
			require.Equal(t, http.StatusOK, resp.StatusCode)
			assert.Equal(t, tt.wantSuccess, account.Success)
			assert.Equal(t, tt.wantMessage, account.Message)
		})
	}

	user, err := s.repository.GetUser(context.Background(), "alice")
	require.NoError(t, err)
	assert.NotEqual(t, "secret", user.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("secret")))
}

func TestRegisterInvalidBody(t *testing.T) {
	s := newTestServer(t, authproviders.NewNoAuthProvider())

	resp, err := http.Post(s.URL+"/api/register", "application/json", bytes.NewBufferString("{"))
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestLogin(t *testing.T) {
	s := newTestServer(t, authproviders.NewNoAuthProvider())
	_, account := s.postCredentials(t, "/api/register", "alice", "secret")
	require.True(t, account.Success)
	_, err := s.repository.RecordBestScore(context.Background(), "alice", 42)
	require.NoError(t, err)

	_, account = s.postCredentials(t, "/api/login", "alice", "secret")
	assert.True(t, account.Success)
	assert.Empty(t, account.Token, "no token without a token issuing provider")
	assert.Equal(t, &handlers.UserData{Username: "alice", BestScore: 42}, account.UserData)

	_, account = s.postCredentials(t, "/api/login", "alice", "wrong")
	assert.False(t, account.Success)
	assert.Equal(t, "Incorrect password", account.Message)

	_, account = s.postCredentials(t, "/api/login", "nobody", "secret")
	assert.False(t, account.Success)
	assert.Equal(t, "User does not exist", account.Message)
}

func TestLoginIssuesTokenForMe(t *testing.T) {
	s := newTestServer(t, authproviders.NewLocalAuthProvider(time.Hour))
	s.postCredentials(t, "/api/register", "alice", "secret")

	_, account := s.postCredentials(t, "/api/login", "alice", "secret")
	require.True(t, account.Success)
	require.NotEmpty(t, account.Token)

	req, err := http.NewRequest(http.MethodGet, s.URL+"/api/me", nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+account.Token)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	me := &handlers.UserData{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(me))
	assert.Equal(t, "alice", me.Username)
}

func TestMeRequiresToken(t *testing.T) {
	s := newTestServer(t, authproviders.NewLocalAuthProvider(time.Hour))

	for _, header := range []string{"", "Bearer", "Bearer unknown"} {
		req, err := http.NewRequest(http.MethodGet, s.URL+"/api/me", nil)
		require.NoError(t, err)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, "header %q", header)
	}
}

func TestLeaderboard(t *testing.T) {
	s := newTestServer(t, authproviders.NewNoAuthProvider())

	resp, err := http.Get(s.URL + "/api/leaderboard")
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
	assert.JSONEq(t, `{"data":[{"username":"alice","score":12},{"username":"bob","score":4}]}`, string(body))
}

func TestCORS(t *testing.T) {
	s := newTestServer(t, authproviders.NewNoAuthProvider())

	req, err := http.NewRequest(http.MethodOptions, s.URL+"/api/login", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "http://example.com")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Equal(t, "http://example.com", resp.Header.Get("Access-Control-Allow-Origin"))

	req, err = http.NewRequest(http.MethodGet, s.URL+"/api/leaderboard", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "http://evil.example")
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Empty(t, resp.Header.Get("Access-Control-Allow-Origin"))
}

func TestWebSocketRoutes(t *testing.T) {
	s := newTestServer(t, authproviders.NewNoAuthProvider())

	resp, err := http.Get(s.URL + "/ws")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusTeapot, resp.StatusCode)

	req, err := http.NewRequest(http.MethodGet, s.URL+"/", nil)
	require.NoError(t, err)
	req.Header.Set("Connection", "Upgrade")
	req.Header.Set("Upgrade", "websocket")
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusTeapot, resp.StatusCode)
}

func TestStaticFiles(t *testing.T) {
	s := newTestServer(t, authproviders.NewNoAuthProvider())

	resp, err := http.Get(s.URL + "/")
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "<h1>bullseye</h1>", string(body))
}
