package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/backdeskhq/backdesk/internal/backoffice/domain"
	httpapi "github.com/backdeskhq/backdesk/internal/backoffice/http"
	"github.com/backdeskhq/backdesk/internal/backoffice/service"
	"github.com/backdeskhq/backdesk/internal/backoffice/store/drivers/sqlite"
	"github.com/backdeskhq/backdesk/pkg/cryptox"
	"github.com/stretchr/testify/require"
)

type testServer struct {
	*httptest.Server
	users *service.UserService
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.ApplyMigrations())

	key, err := cryptox.DeriveKey([]byte("test-secret"), []byte("test-salt"))
	require.NoError(t, err)
	sealer, err := cryptox.NewSealer(key)
	require.NoError(t, err)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	router := httpapi.NewRouter("test", false, st, logger)
	router.AuthService = &service.AuthService{Store: st, SessionTTL: time.Hour}
	router.UserService = &service.UserService{Store: st}
	router.NoteService = &service.NoteService{Store: st, Sealer: sealer}
	router.TaskService = &service.TaskService{Store: st}
	router.ProjectService = &service.ProjectService{Store: st}
	router.TicketService = &service.TicketService{Store: st}
	router.DocumentService = &service.DocumentService{Store: st}
	router.StatsService = &service.StatsService{Store: st}
	router.ApplyRoutes()

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	users := &service.UserService{Store: st}
	return &testServer{Server: srv, users: users}
}

func (ts *testServer) createUser(t *testing.T, username, password, role string) {
	t.Helper()
	_, err := ts.users.CreateUser(context.Background(), service.CreateUserParams{
		Username: username,
		Password: password,
		Role:     domain.Role(role),
	})
	require.NoError(t, err)
}

func (ts *testServer) login(t *testing.T, username, password string) string {
	t.Helper()
	token, status := ts.tryLogin(t, username, password)
	require.Equal(t, http.StatusOK, status)
	return token
}

func (ts *testServer) tryLogin(t *testing.T, username, password string) (string, int) {
	t.Helper()
	body, _ := json.Marshal(map[string]string{"username": username, "password": password})
	resp, err := http.Post(ts.URL+"/v1/auth/login", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", resp.StatusCode
	}
	var out struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	require.NotEmpty(t, out.Token)
	return out.Token, resp.StatusCode
}

// do issues a request with an optional bearer token and decodes the JSON
// response into out when it is non-nil.
func (ts *testServer) do(t *testing.T, method, path, token string, body, out any) int {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, ts.URL+path, reader)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	if out != nil && resp.StatusCode < 300 {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func TestLoginAndWhoAmI(t *testing.T) {
	ts := newTestServer(t)
	ts.createUser(t, "alice", "correct-horse-battery", "staff")

	token := ts.login(t, "alice", "correct-horse-battery")

	var me struct {
		Username string `json:"username"`
		Role     string `json:"role"`
	}
	status := ts.do(t, http.MethodGet, "/v1/me", token, nil, &me)
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, "alice", me.Username)
	require.Equal(t, "staff", me.Role)

	// Bad credentials and unknown users fail identically.
	_, badStatus := ts.tryLogin(t, "alice", "wrong")
	_, unknownStatus := ts.tryLogin(t, "nobody", "wrong")
	require.Equal(t, http.StatusUnauthorized, badStatus)
	require.Equal(t, badStatus, unknownStatus)
}

func TestRoleGates(t *testing.T) {
	ts := newTestServer(t)
	ts.createUser(t, "root", "admin-password-1", "admin")
	ts.createUser(t, "carol", "staff-password-1", "staff")
	ts.createUser(t, "alice", "client-password-1", "client")

	adminToken := ts.login(t, "root", "admin-password-1")
	staffToken := ts.login(t, "carol", "staff-password-1")
	clientToken := ts.login(t, "alice", "client-password-1")

	// Anonymous callers get 401 everywhere behind the gate.
	require.Equal(t, http.StatusUnauthorized, ts.do(t, http.MethodGet, "/v1/admin/users", "", nil, nil))
	require.Equal(t, http.StatusUnauthorized, ts.do(t, http.MethodGet, "/v1/staff/tasks", "", nil, nil))

	// Each role passes exactly its own gate. No hierarchy: admin is turned
	// away from staff and client routes like anyone else.
	require.Equal(t, http.StatusOK, ts.do(t, http.MethodGet, "/v1/admin/users", adminToken, nil, nil))
	require.Equal(t, http.StatusForbidden, ts.do(t, http.MethodGet, "/v1/admin/users", staffToken, nil, nil))
	require.Equal(t, http.StatusForbidden, ts.do(t, http.MethodGet, "/v1/admin/users", clientToken, nil, nil))

	require.Equal(t, http.StatusOK, ts.do(t, http.MethodGet, "/v1/staff/tasks", staffToken, nil, nil))
	require.Equal(t, http.StatusForbidden, ts.do(t, http.MethodGet, "/v1/staff/tasks", adminToken, nil, nil))
	require.Equal(t, http.StatusForbidden, ts.do(t, http.MethodGet, "/v1/staff/tasks", clientToken, nil, nil))

	require.Equal(t, http.StatusOK, ts.do(t, http.MethodGet, "/v1/client/projects", clientToken, nil, nil))
	require.Equal(t, http.StatusForbidden, ts.do(t, http.MethodGet, "/v1/client/projects", adminToken, nil, nil))
	require.Equal(t, http.StatusForbidden, ts.do(t, http.MethodGet, "/v1/client/projects", staffToken, nil, nil))
}

func TestNoteOverHTTP(t *testing.T) {
	ts := newTestServer(t)
	ts.createUser(t, "alice", "client-password-1", "client")
	token := ts.login(t, "alice", "client-password-1")

	// Empty until first written.
	var note struct {
		Note string `json:"note"`
	}
	require.Equal(t, http.StatusOK, ts.do(t, http.MethodGet, "/v1/me/note", token, nil, &note))
	require.Empty(t, note.Note)

	status := ts.do(t, http.MethodPut, "/v1/me/note", token, map[string]string{"note": "PIN 9988"}, nil)
	require.Equal(t, http.StatusNoContent, status)

	require.Equal(t, http.StatusOK, ts.do(t, http.MethodGet, "/v1/me/note", token, nil, &note))
	require.Equal(t, "PIN 9988", note.Note)
}

func TestDocumentOwnershipOverHTTP(t *testing.T) {
	ts := newTestServer(t)
	ts.createUser(t, "root", "admin-password-1", "admin")
	ts.createUser(t, "alice", "client-password-1", "client")
	ts.createUser(t, "bob", "client-password-2", "client")

	adminToken := ts.login(t, "root", "admin-password-1")
	aliceToken := ts.login(t, "alice", "client-password-1")
	bobToken := ts.login(t, "bob", "client-password-2")

	var alice struct {
		UserID string `json:"user_id"`
	}
	require.Equal(t, http.StatusOK, ts.do(t, http.MethodGet, "/v1/me", aliceToken, nil, &alice))

	var doc struct {
		DocumentID string `json:"document_id"`
	}
	status := ts.do(t, http.MethodPost, "/v1/admin/documents", adminToken,
		map[string]string{"title": "Contract", "client_id": alice.UserID}, &doc)
	require.Equal(t, http.StatusCreated, status)

	// The owner reads it; another client gets the same 404 as a bogus id.
	require.Equal(t, http.StatusOK, ts.do(t, http.MethodGet, "/v1/client/documents/"+doc.DocumentID, aliceToken, nil, nil))
	require.Equal(t, http.StatusNotFound, ts.do(t, http.MethodGet, "/v1/client/documents/"+doc.DocumentID, bobToken, nil, nil))
	require.Equal(t, http.StatusNotFound, ts.do(t, http.MethodGet, "/v1/client/documents/no-such-id", aliceToken, nil, nil))
}

func TestLogoutRevokesSession(t *testing.T) {
	ts := newTestServer(t)
	ts.createUser(t, "alice", "client-password-1", "client")
	token := ts.login(t, "alice", "client-password-1")

	require.Equal(t, http.StatusOK, ts.do(t, http.MethodGet, "/v1/me", token, nil, nil))
	require.Equal(t, http.StatusNoContent, ts.do(t, http.MethodPost, "/v1/auth/logout", token, nil, nil))
	require.Equal(t, http.StatusUnauthorized, ts.do(t, http.MethodGet, "/v1/me", token, nil, nil))

	// Logout again with the dead token: still fine.
	require.Equal(t, http.StatusNoContent, ts.do(t, http.MethodPost, "/v1/auth/logout", token, nil, nil))
}

func TestSessionBoundToClientCharacteristics(t *testing.T) {
	ts := newTestServer(t)
	ts.createUser(t, "alice", "client-password-1", "client")
	token := ts.login(t, "alice", "client-password-1")

	req, err := http.NewRequest(http.MethodGet, ts.URL+"/v1/me", nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("User-Agent", "different-browser/2.0")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()

	// The fingerprint no longer matches, so the stolen token is useless and
	// the session is gone for the original client too.
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	require.Equal(t, http.StatusUnauthorized, ts.do(t, http.MethodGet, "/v1/me", token, nil, nil))
}

func TestHealthEndpoints(t *testing.T) {
	ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/livez")
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "nosniff", resp.Header.Get("X-Content-Type-Options"))

	resp, err = http.Get(ts.URL + "/readyz")
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
}
