package router

import (
	_ "embed"
	"errors"
	"fmt"
	"path"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed routes.yaml
var defaultRoutes []byte

// ErrRouteNotFound is returned when no route matches a name or path
var ErrRouteNotFound = errors.New("route not found")

// Route is a navigable screen with its access-control metadata. Routes are
// immutable once the table is built.
type Route struct {
	Name string `yaml:"name"`
	Path string `yaml:"path"`
	// RequiresAuth is tri-state: nil means undeclared, false marks an
	// anonymous-only route.
	RequiresAuth  *bool    `yaml:"requires_auth"`
	RequiresAdmin bool     `yaml:"requires_admin"`
	Children      []*Route `yaml:"children"`

	fullPath string
}

// FullPath is the route path joined with its ancestors' paths
func (r *Route) FullPath() string {
	return r.fullPath
}

// Match is a resolved route and its ancestor chain, root first
type Match struct {
	Route *Route
	Chain []*Route
}

// Table is the static route table
type Table struct {
	HomeName  string   `yaml:"home"`
	LoginName string   `yaml:"login"`
	Roots     []*Route `yaml:"routes"`

	byName map[string][]*Route
	byPath map[string][]*Route
	order  []*Route
}

// Default returns the table compiled into the binary
func Default() *Table {
	t, err := Parse(defaultRoutes)
	if err != nil {
		panic(fmt.Sprintf("invalid embedded route table: %v", err))
	}
	return t
}

// Parse decodes and validates a YAML route table
func Parse(data []byte) (*Table, error) {
	var t Table
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("failed to parse route table: %w", err)
	}
	if err := t.build(); err != nil {
		return nil, err
	}
	return &t, nil
}

func (t *Table) build() error {
	t.byName = make(map[string][]*Route)
	t.byPath = make(map[string][]*Route)

	var walk func(routes []*Route, parentPath string, chain []*Route) error
	walk = func(routes []*Route, parentPath string, chain []*Route) error {
		for _, r := range routes {
			if r.Name == "" {
				return fmt.Errorf("route with path %q has no name", r.Path)
			}
			if _, dup := t.byName[r.Name]; dup {
				return fmt.Errorf("duplicate route name %q", r.Name)
			}

			r.fullPath = joinPath(parentPath, r.Path)
			if _, dup := t.byPath[r.fullPath]; dup {
				return fmt.Errorf("duplicate route path %q", r.fullPath)
			}

			c := append(append([]*Route(nil), chain...), r)
			t.byName[r.Name] = c
			t.byPath[r.fullPath] = c
			t.order = append(t.order, r)

			if err := walk(r.Children, r.fullPath, c); err != nil {
				return err
			}
		}
		return nil
	}
	if err := walk(t.Roots, "/", nil); err != nil {
		return err
	}

	home, ok := t.byName[t.HomeName]
	if !ok {
		return fmt.Errorf("home route %q is not declared", t.HomeName)
	}
	if requiresAdmin(home) {
		return fmt.Errorf("home route %q must not require admin", t.HomeName)
	}
	if anonymousOnly(home) {
		return fmt.Errorf("home route %q must be reachable while signed in", t.HomeName)
	}

	login, ok := t.byName[t.LoginName]
	if !ok {
		return fmt.Errorf("login route %q is not declared", t.LoginName)
	}
	if requiresAuth(login) || requiresAdmin(login) {
		return fmt.Errorf("login route %q must be reachable while signed out", t.LoginName)
	}
	return nil
}

// Lookup finds a route by name
func (t *Table) Lookup(name string) (Match, error) {
	chain, ok := t.byName[name]
	if !ok {
		return Match{}, fmt.Errorf("%w: %s", ErrRouteNotFound, name)
	}
	return Match{Route: chain[len(chain)-1], Chain: chain}, nil
}

// Match finds a route by exact path
func (t *Table) Match(p string) (Match, error) {
	chain, ok := t.byPath[joinPath("/", p)]
	if !ok {
		return Match{}, fmt.Errorf("%w: %s", ErrRouteNotFound, p)
	}
	return Match{Route: chain[len(chain)-1], Chain: chain}, nil
}

// Resolve accepts either a path (leading slash) or a route name
func (t *Table) Resolve(nameOrPath string) (Match, error) {
	if strings.HasPrefix(nameOrPath, "/") {
		return t.Match(nameOrPath)
	}
	return t.Lookup(nameOrPath)
}

// Routes returns every route in declaration order, parents before children
func (t *Table) Routes() []*Route {
	return append([]*Route(nil), t.order...)
}

func joinPath(parent, p string) string {
	if !strings.HasPrefix(p, "/") {
		p = path.Join(parent, p)
	}
	return path.Clean("/" + p)
}

// requiresAuth reports whether any route in the chain requires auth
func requiresAuth(chain []*Route) bool {
	for _, r := range chain {
		if r.RequiresAuth != nil && *r.RequiresAuth {
			return true
		}
	}
	return false
}

// requiresAdmin reports whether any route in the chain requires admin
func requiresAdmin(chain []*Route) bool {
	for _, r := range chain {
		if r.RequiresAdmin {
			return true
		}
	}
	return false
}

// anonymousOnly reports whether the merged metadata of the chain explicitly
// declares requires_auth: false. The deepest declaration wins.
func anonymousOnly(chain []*Route) bool {
	var declared *bool
	for _, r := range chain {
		if r.RequiresAuth != nil {
			declared = r.RequiresAuth
		}
	}
	return declared != nil && !*declared
}
