package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"

	"github.com/b3uf/backoffice/internal/client"
	"github.com/b3uf/backoffice/internal/router"
	"github.com/b3uf/backoffice/internal/session"
	"github.com/b3uf/backoffice/internal/storage"
)

const testSecret = "commands-test-secret"

type mockAccount struct {
	password string
	user     session.User
}

// mockAPI is an in-process stand-in for the b3uf REST API
type mockAPI struct {
	mu       sync.Mutex
	accounts map[string]mockAccount
	cats     []client.Cat
	nextID   int64

	// authHeaders records the Authorization header of every request
	authHeaders []string
}

func newMockAPI() *mockAPI {
	m := &mockAPI{accounts: make(map[string]mockAccount), nextID: 1}
	m.add("admin@b3uf.fr", "adminpass1", "Admin", true)
	m.add("breeder@b3uf.fr", "breederpass", "Marie Curie", false)
	m.cats = []client.Cat{
		{ID: 1, Name: "Olympe", Surname: "du Bois", IsFemale: true, PedigreeNumber: "LOOF 123"},
		{ID: 2, Name: "Gaston", IsNeutered: true, IsDeceased: true},
	}
	return m
}

func (m *mockAPI) add(email, password, name string, admin bool) {
	m.accounts[email] = mockAccount{
		password: password,
		user:     session.User{ID: m.nextID, Email: email, DisplayName: name, Admin: admin},
	}
	m.nextID++
}

func tokenFor(u session.User) string {
	claims := jwt.MapClaims{"user_id": u.ID, "email": u.Email, "admin": u.Admin}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	if err != nil {
		panic(err)
	}
	return token
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// bearer returns the account behind the request's token, if any
func (m *mockAPI) bearer(r *http.Request) (session.User, bool) {
	raw, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
	if !ok {
		return session.User{}, false
	}
	for _, acct := range m.accounts {
		if tokenFor(acct.user) == raw {
			return acct.user, true
		}
	}
	return session.User{}, false
}

func (m *mockAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.authHeaders = append(m.authHeaders, r.Header.Get("Authorization"))

	switch {
	case r.Method == http.MethodPost && r.URL.Path == "/auth/login":
		var creds session.Credentials
		_ = json.NewDecoder(r.Body).Decode(&creds)
		acct, ok := m.accounts[creds.Email]
		if !ok || acct.password != creds.Password {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Invalid email or password"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"user": acct.user, "token": tokenFor(acct.user)})

	case r.Method == http.MethodPost && r.URL.Path == "/auth/register":
		var nu session.NewUser
		_ = json.NewDecoder(r.Body).Decode(&nu)
		if _, exists := m.accounts[nu.Email]; exists {
			writeJSON(w, http.StatusConflict, map[string]string{"error": "Email already registered"})
			return
		}
		m.add(nu.Email, nu.Password, nu.DisplayName, false)
		acct := m.accounts[nu.Email]
		writeJSON(w, http.StatusCreated, map[string]any{"user": acct.user, "token": tokenFor(acct.user)})

	case r.Method == http.MethodGet && r.URL.Path == "/users":
		u, ok := m.bearer(r)
		if !ok {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Authorization header required"})
			return
		}
		if !u.Admin {
			writeJSON(w, http.StatusForbidden, map[string]string{"error": "Admin access required"})
			return
		}
		users := make([]session.User, 0, len(m.accounts))
		for _, acct := range m.accounts {
			users = append(users, acct.user)
		}
		writeJSON(w, http.StatusOK, users)

	case r.Method == http.MethodGet && r.URL.Path == "/cats":
		if _, ok := m.bearer(r); !ok {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Authorization header required"})
			return
		}
		writeJSON(w, http.StatusOK, m.cats)

	default:
		http.NotFound(w, r)
	}
}

// scriptedPrompter answers prompts from fixed queues
type scriptedPrompter struct {
	interactive bool
	answers     []string
	secrets     []string
	selection   int

	asked []string
}

func (p *scriptedPrompter) Interactive() bool { return p.interactive }

func (p *scriptedPrompter) Ask(label string) (string, error) {
	p.asked = append(p.asked, label)
	if len(p.answers) == 0 {
		return "", errors.New("unexpected prompt: " + label)
	}
	a := p.answers[0]
	p.answers = p.answers[1:]
	return a, nil
}

func (p *scriptedPrompter) AskSecret(label string) (string, error) {
	p.asked = append(p.asked, label)
	if len(p.secrets) == 0 {
		return "", errors.New("unexpected secret prompt: " + label)
	}
	s := p.secrets[0]
	p.secrets = p.secrets[1:]
	return s, nil
}

func (p *scriptedPrompter) Select(label string, items []string) (int, error) {
	p.asked = append(p.asked, label)
	if p.selection < 0 || p.selection >= len(items) {
		return 0, errors.New("selection out of range")
	}
	return p.selection, nil
}

type testEnv struct {
	app    *App
	api    *mockAPI
	store  *storage.MemoryStore
	out    *bytes.Buffer
	prompt *scriptedPrompter
}

// newTestEnv wires an App exactly like the binary does, against a mock API
// and in-memory storage
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	api := newMockAPI()
	srv := httptest.NewServer(api)
	t.Cleanup(srv.Close)

	store := storage.NewMemoryStore()
	var sess *session.Session
	apiClient := client.New(srv.URL, client.TokenFunc(func() string { return sess.Token() }))
	sess = session.New(store, apiClient, zerolog.Nop())
	sess.Initialize()

	gate := router.NewGate(router.Default(), sess, zerolog.Nop())
	out := &bytes.Buffer{}
	prompt := &scriptedPrompter{}

	app := NewApp(sess, apiClient, gate, prompt, out, zerolog.Nop())
	app.Getenv = func(string) string { return "" }

	return &testEnv{app: app, api: api, store: store, out: out, prompt: prompt}
}

func (e *testEnv) signIn(t *testing.T, email, password string) {
	t.Helper()
	require.True(t, e.app.Session.Login(context.Background(), session.Credentials{Email: email, Password: password}),
		"sign-in failed: %s", e.app.Session.LastError())
}

func execute(t *testing.T, newCmd func(*App) *cobra.Command, app *App, args ...string) error {
	t.Helper()
	cmd := newCmd(app)
	cmd.SetArgs(args)
	cmd.SetOut(app.Out)
	cmd.SetErr(app.Out)
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true
	return cmd.ExecuteContext(context.Background())
}
