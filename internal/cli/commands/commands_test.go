package commands

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/b3uf/backoffice/internal/router"
	"github.com/b3uf/backoffice/internal/storage"
)

func TestLogin_WithFlags(t *testing.T) {
	env := newTestEnv(t)

	err := execute(t, NewLoginCmd, env.app, "--email", "breeder@b3uf.fr", "--password", "breederpass")
	require.NoError(t, err)

	assert.Contains(t, env.out.String(), "✓ Login successful!")
	assert.Contains(t, env.out.String(), "User: Marie Curie (breeder@b3uf.fr)")
	assert.NotContains(t, env.out.String(), "Role: Admin")
	assert.True(t, env.app.Session.IsAuthenticated())

	rec, err := env.store.Load()
	require.NoError(t, err)
	assert.NotEmpty(t, rec.Token)
	assert.Contains(t, rec.User, "breeder@b3uf.fr")
}

func TestLogin_Admin(t *testing.T) {
	env := newTestEnv(t)

	require.NoError(t, execute(t, NewLoginCmd, env.app, "--email", "admin@b3uf.fr", "--password", "adminpass1"))

	assert.Contains(t, env.out.String(), "Role: Admin")
	assert.True(t, env.app.Session.IsAdmin())
}

func TestLogin_FromEnvironment(t *testing.T) {
	env := newTestEnv(t)
	vars := map[string]string{"B3UF_EMAIL": "breeder@b3uf.fr", "B3UF_PASSWORD": "breederpass"}
	env.app.Getenv = func(k string) string { return vars[k] }

	require.NoError(t, execute(t, NewLoginCmd, env.app))
	assert.True(t, env.app.Session.IsAuthenticated())
}

func TestLogin_Prompts(t *testing.T) {
	env := newTestEnv(t)
	env.prompt.interactive = true
	env.prompt.answers = []string{"breeder@b3uf.fr"}
	env.prompt.secrets = []string{"breederpass"}

	require.NoError(t, execute(t, NewLoginCmd, env.app))

	assert.Equal(t, []string{"Email", "Password"}, env.prompt.asked)
	assert.True(t, env.app.Session.IsAuthenticated())
}

func TestLogin_NonInteractiveMissingEmail(t *testing.T) {
	env := newTestEnv(t)

	err := execute(t, NewLoginCmd, env.app)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "email is required")
	assert.Empty(t, env.api.authHeaders, "no request should be sent")
}

func TestLogin_InvalidCredentials(t *testing.T) {
	env := newTestEnv(t)

	err := execute(t, NewLoginCmd, env.app, "--email", "breeder@b3uf.fr", "--password", "wrong")
	require.Error(t, err)
	assert.Equal(t, "Login failed: Invalid email or password", err.Error())
	assert.False(t, env.app.Session.IsAuthenticated())
	assert.Equal(t, 0, env.store.Len())
}

func TestLogin_AlreadySignedInRedirectsHome(t *testing.T) {
	env := newTestEnv(t)
	env.signIn(t, "breeder@b3uf.fr", "breederpass")

	require.NoError(t, execute(t, NewLoginCmd, env.app, "--email", "admin@b3uf.fr", "--password", "adminpass1"))

	out := env.out.String()
	assert.Contains(t, out, "Already signed in, redirecting to Home.")
	assert.Contains(t, out, "Signed in as Marie Curie (breeder@b3uf.fr)")
	assert.False(t, env.app.Session.IsAdmin(), "login screen must not run")
}

func TestRegister_DoesNotSignIn(t *testing.T) {
	env := newTestEnv(t)

	err := execute(t, NewRegisterCmd, env.app,
		"--email", "new@b3uf.fr", "--password", "newpass123", "--first-name", "Ada", "--last-name", "Lovelace")
	require.NoError(t, err)

	assert.Contains(t, env.out.String(), "✓ Account created!")
	assert.False(t, env.app.Session.IsAuthenticated())
	assert.Equal(t, 0, env.store.Len())

	acct, ok := env.api.accounts["new@b3uf.fr"]
	require.True(t, ok)
	assert.Equal(t, "Ada Lovelace", acct.user.DisplayName)
}

func TestRegister_Duplicate(t *testing.T) {
	env := newTestEnv(t)

	err := execute(t, NewRegisterCmd, env.app,
		"--email", "breeder@b3uf.fr", "--password", "whatever1", "--display-name", "Copy")
	require.Error(t, err)
	assert.Equal(t, "Registration failed: Email already registered", err.Error())
}

func TestRegister_PasswordMismatch(t *testing.T) {
	env := newTestEnv(t)
	env.prompt.interactive = true
	env.prompt.secrets = []string{"onepassword", "another"}

	err := execute(t, NewRegisterCmd, env.app, "--email", "new@b3uf.fr", "--display-name", "New")
	require.Error(t, err)
	assert.Equal(t, "passwords do not match", err.Error())
}

func TestRegister_SignedInRedirectsHome(t *testing.T) {
	env := newTestEnv(t)
	env.signIn(t, "breeder@b3uf.fr", "breederpass")

	require.NoError(t, execute(t, NewRegisterCmd, env.app, "--email", "x@b3uf.fr", "--password", "x1234567"))

	assert.Contains(t, env.out.String(), "Already signed in, redirecting to Home.")
	_, created := env.api.accounts["x@b3uf.fr"]
	assert.False(t, created)
}

func TestUsers_AnonymousRedirectsToLogin(t *testing.T) {
	env := newTestEnv(t)

	err := execute(t, NewUsersCmd, env.app)
	require.Error(t, err, "login screen needs credentials")

	assert.Contains(t, env.out.String(), "Authentication required, redirecting to Login.")
	for _, h := range env.api.authHeaders {
		assert.Empty(t, h)
	}
}

func TestUsers_NonAdminRedirectsHome(t *testing.T) {
	env := newTestEnv(t)
	env.signIn(t, "breeder@b3uf.fr", "breederpass")
	env.api.authHeaders = nil

	require.NoError(t, execute(t, NewUsersCmd, env.app))

	out := env.out.String()
	assert.Contains(t, out, "Admin access required, redirecting to Home.")
	assert.Contains(t, out, "Signed in as Marie Curie")
	assert.Empty(t, env.api.authHeaders, "users endpoint must not be called")
}

func TestUsers_AdminListsAccounts(t *testing.T) {
	env := newTestEnv(t)
	env.signIn(t, "admin@b3uf.fr", "adminpass1")

	require.NoError(t, execute(t, NewUsersCmd, env.app))

	out := env.out.String()
	assert.Contains(t, out, "EMAIL")
	assert.Contains(t, out, "admin@b3uf.fr")
	assert.Contains(t, out, "breeder@b3uf.fr")
	assert.Contains(t, out, "member")
}

func TestCats_SendsBearerToken(t *testing.T) {
	env := newTestEnv(t)
	env.signIn(t, "breeder@b3uf.fr", "breederpass")
	env.api.authHeaders = nil

	require.NoError(t, execute(t, NewCatsCmd, env.app))

	out := env.out.String()
	assert.Contains(t, out, "Olympe du Bois")
	assert.Contains(t, out, "Gaston †")
	assert.Contains(t, out, "LOOF 123")

	require.Len(t, env.api.authHeaders, 1)
	assert.Equal(t, "Bearer "+env.app.Session.Token(), env.api.authHeaders[0])
}

func TestCats_Empty(t *testing.T) {
	env := newTestEnv(t)
	env.api.cats = nil
	env.signIn(t, "breeder@b3uf.fr", "breederpass")

	require.NoError(t, execute(t, NewCatsCmd, env.app))
	assert.Contains(t, env.out.String(), "No cats found.")
}

func TestHome_ListsReachableScreens(t *testing.T) {
	env := newTestEnv(t)
	env.signIn(t, "breeder@b3uf.fr", "breederpass")

	require.NoError(t, execute(t, NewHomeCmd, env.app))

	out := env.out.String()
	assert.Contains(t, out, "Cats")
	assert.NotContains(t, out, "/users")
	assert.NotContains(t, out, "/login")
}

func TestHome_HidesChildrenOfAdminRoutes(t *testing.T) {
	env := newTestEnv(t)
	table, err := router.Parse([]byte(`
home: Home
login: Login
routes:
  - {name: Home, path: /, requires_auth: true}
  - name: Users
    path: /users
    requires_auth: true
    requires_admin: true
    children:
      - {name: Cats, path: cats}
  - {name: Login, path: /login, requires_auth: false}
`))
	require.NoError(t, err)
	env.app.Gate = router.NewGate(table, env.app.Session, zerolog.Nop())
	env.signIn(t, "breeder@b3uf.fr", "breederpass")

	require.NoError(t, execute(t, NewHomeCmd, env.app))
	assert.NotContains(t, env.out.String(), "/users/cats")

	env.out.Reset()
	env.app.Session.Logout()
	env.signIn(t, "admin@b3uf.fr", "adminpass1")
	require.NoError(t, execute(t, NewHomeCmd, env.app))
	assert.Contains(t, env.out.String(), "/users/cats")
}

func TestHome_AdminSeesUsers(t *testing.T) {
	env := newTestEnv(t)
	env.signIn(t, "admin@b3uf.fr", "adminpass1")

	require.NoError(t, execute(t, NewHomeCmd, env.app))
	assert.Contains(t, env.out.String(), "/users")
	assert.Contains(t, env.out.String(), "Role: Admin")
}

func TestLogout(t *testing.T) {
	env := newTestEnv(t)
	env.signIn(t, "breeder@b3uf.fr", "breederpass")

	require.NoError(t, execute(t, NewLogoutCmd, env.app))
	assert.Contains(t, env.out.String(), "✓ Logged out.")
	assert.False(t, env.app.Session.IsAuthenticated())
	assert.Equal(t, 0, env.store.Len())

	env.out.Reset()
	require.NoError(t, execute(t, NewLogoutCmd, env.app))
	assert.Contains(t, env.out.String(), "Not signed in.")
}

func TestNav_ByPath(t *testing.T) {
	env := newTestEnv(t)
	env.signIn(t, "breeder@b3uf.fr", "breederpass")

	require.NoError(t, execute(t, NewNavCmd, env.app, "/cats"))
	assert.Contains(t, env.out.String(), "Olympe")
}

func TestNav_UnknownRoute(t *testing.T) {
	env := newTestEnv(t)

	err := execute(t, NewNavCmd, env.app, "/nowhere")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "route not found")
}

func TestNav_Interactive(t *testing.T) {
	env := newTestEnv(t)
	env.prompt.interactive = true
	env.prompt.answers = []string{"breeder@b3uf.fr"}
	env.prompt.secrets = []string{"breederpass"}
	// Home is the first route; signed out it lands on Login
	env.prompt.selection = 0

	require.NoError(t, execute(t, NewNavCmd, env.app))

	assert.Contains(t, env.out.String(), "Authentication required, redirecting to Login.")
	assert.True(t, env.app.Session.IsAuthenticated())
}

func TestSessionSurvivesRestart(t *testing.T) {
	env := newTestEnv(t)
	env.signIn(t, "breeder@b3uf.fr", "breederpass")

	// A fresh process reading the same storage
	restarted := newTestEnv(t)
	rec, err := env.store.Load()
	require.NoError(t, err)
	restarted.store.Set(storage.TokenKey, rec.Token)
	restarted.store.Set(storage.UserKey, rec.User)

	require.NoError(t, execute(t, NewHomeCmd, restarted.app))
	assert.Contains(t, restarted.out.String(), "Signed in as Marie Curie")
	assert.NotContains(t, restarted.out.String(), "redirecting")
}
