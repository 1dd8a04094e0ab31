// Package router declares the back-office routes and the authorization gate
// evaluated before every navigation.
package router

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog"
)

// maxRedirects bounds how many gate redirects a single navigation follows.
// A validated table settles in at most two.
const maxRedirects = 4

// ErrRedirectLoop is returned when a navigation does not settle
var ErrRedirectLoop = errors.New("too many redirects")

// SessionView is what the gate needs to know about the session
type SessionView interface {
	IsAuthenticated() bool
	IsAdmin() bool
	HasStoredToken() bool
	Initialize()
}

// Outcome of a single gate evaluation
type Outcome int

const (
	Proceed Outcome = iota
	RedirectLogin
	RedirectHome
)

func (o Outcome) String() string {
	switch o {
	case Proceed:
		return "proceed"
	case RedirectLogin:
		return "redirect-login"
	case RedirectHome:
		return "redirect-home"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// Decision is the gate's verdict for one navigation attempt
type Decision struct {
	Outcome  Outcome
	Target   *Route
	Redirect *Route
	Reason   string
}

// Navigation is the result of following gate redirects to a settled route
type Navigation struct {
	Requested *Route
	Final     *Route
	Steps     []Decision
}

// Redirected reports whether the navigation ended somewhere else
func (n Navigation) Redirected() bool {
	return n.Final != n.Requested
}

// Gate evaluates route metadata against the session
type Gate struct {
	table   *Table
	session SessionView
	logger  zerolog.Logger
}

func NewGate(table *Table, session SessionView, zlog zerolog.Logger) *Gate {
	return &Gate{
		table:   table,
		session: session,
		logger:  zlog.With().Str("component", "gate").Logger(),
	}
}

// Table returns the route table the gate consults
func (g *Gate) Table() *Table {
	return g.table
}

// Check evaluates one navigation attempt. The order matters: the session is
// hydrated before the auth check so a stored token is honored, and the
// admin check only runs once the user is known to be signed in.
func (g *Gate) Check(m Match) Decision {
	d := Decision{Outcome: Proceed, Target: m.Route}

	if !g.session.IsAuthenticated() && g.session.HasStoredToken() {
		g.session.Initialize()
	}

	authenticated := g.session.IsAuthenticated()
	needsAdmin := requiresAdmin(m.Chain)

	switch {
	case (requiresAuth(m.Chain) || needsAdmin) && !authenticated:
		d.Outcome = RedirectLogin
		d.Reason = "authentication required"
	case needsAdmin && !g.session.IsAdmin():
		d.Outcome = RedirectHome
		d.Reason = "admin access required"
	case authenticated && anonymousOnly(m.Chain):
		d.Outcome = RedirectHome
		d.Reason = "already signed in"
	default:
		return d
	}

	switch d.Outcome {
	case RedirectLogin:
		d.Redirect = g.mustLookup(g.table.LoginName)
	case RedirectHome:
		d.Redirect = g.mustLookup(g.table.HomeName)
	}
	return d
}

// Navigate resolves nameOrPath and follows redirects until a route is
// allowed.
func (g *Gate) Navigate(nameOrPath string) (Navigation, error) {
	m, err := g.table.Resolve(nameOrPath)
	if err != nil {
		return Navigation{}, err
	}

	nav := Navigation{Requested: m.Route}
	for i := 0; i <= maxRedirects; i++ {
		d := g.Check(m)
		nav.Steps = append(nav.Steps, d)

		if d.Outcome == Proceed {
			nav.Final = d.Target
			return nav, nil
		}

		g.logger.Debug().
			Str("from", d.Target.Name).
			Str("to", d.Redirect.Name).
			Str("reason", d.Reason).
			Msg("Navigation redirected")

		m, err = g.table.Lookup(d.Redirect.Name)
		if err != nil {
			return nav, err
		}
	}

	return nav, fmt.Errorf("%w navigating to %s", ErrRedirectLoop, nameOrPath)
}

func (g *Gate) mustLookup(name string) *Route {
	m, err := g.table.Lookup(name)
	if err != nil {
		// Parse guarantees the home and login routes exist
		panic(err)
	}
	return m.Route
}
