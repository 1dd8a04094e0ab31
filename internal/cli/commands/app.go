package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"

	"github.com/b3uf/backoffice/internal/client"
	"github.com/b3uf/backoffice/internal/router"
	"github.com/b3uf/backoffice/internal/session"
)

// API is the part of the REST client the screens use
type API interface {
	ListUsers(ctx context.Context) ([]session.User, error)
	ListCats(ctx context.Context) ([]client.Cat, error)
}

// Screen renders one route
type Screen func(ctx context.Context) error

// App wires the session, the gate and the API client into the commands.
// It is built once per process and passed to every command.
type App struct {
	Session *session.Session
	API     API
	Gate    *router.Gate
	Prompt  Prompter
	Out     io.Writer
	Logger  zerolog.Logger

	// Getenv is os.Getenv outside tests
	Getenv func(string) string

	screens map[string]Screen
	login   loginInput
	signup  registerInput
}

// NewApp builds an App and registers the screen of every route
func NewApp(sess *session.Session, api API, gate *router.Gate, prompt Prompter, out io.Writer, zlog zerolog.Logger) *App {
	a := &App{
		Session: sess,
		API:     api,
		Gate:    gate,
		Prompt:  prompt,
		Out:     out,
		Logger:  zlog,
		Getenv:  os.Getenv,
	}

	a.screens = map[string]Screen{
		"Home":     a.homeScreen,
		"Cats":     a.catsScreen,
		"Users":    a.usersScreen,
		"Login":    a.loginScreen,
		"Register": a.registerScreen,
	}
	return a
}

// Open navigates to a route through the gate and renders wherever the
// navigation settles.
func (a *App) Open(ctx context.Context, nameOrPath string) error {
	nav, err := a.Gate.Navigate(nameOrPath)
	if err != nil {
		return err
	}

	for _, step := range nav.Steps {
		if step.Outcome == router.Proceed {
			continue
		}
		fmt.Fprintf(a.Out, "%s, redirecting to %s.\n", capitalize(step.Reason), step.Redirect.Name)
	}

	screen, ok := a.screens[nav.Final.Name]
	if !ok {
		return fmt.Errorf("no screen for route %s", nav.Final.Name)
	}
	return screen(ctx)
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
