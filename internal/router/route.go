// Package router resolves console locations, applies the login-gated
// navigation guard and the root redirect, and commits navigations.
package router

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"path"
	"sort"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/goodsone/console/internal/ability"
)

var (
	// ErrRouteNotFound is returned when no route matches a path or name.
	ErrRouteNotFound = errors.New("route not found")
	// ErrRedirectLoop is returned when a navigation keeps redirecting.
	ErrRedirectLoop = errors.New("too many redirects")
)

// Route is one entry of the route table. Child paths are relative to the
// parent; parameters use the :name form.
type Route struct {
	Name               string
	Path               string
	Capability         ability.Capability
	RedirectIfLoggedIn bool
	Children           []Route
}

// Location is a resolved navigation target.
type Location struct {
	Name     string            `json:"name"`
	Path     string            `json:"path"`
	FullPath string            `json:"fullPath"`
	Query    url.Values        `json:"query,omitempty"`
	Params   map[string]string `json:"params,omitempty"`
	// Matched holds the capabilities of the route and its ancestors,
	// outermost first.
	Matched            []ability.Capability `json:"matched"`
	RedirectIfLoggedIn bool                 `json:"redirectIfLoggedIn,omitempty"`
}

// IsRoot reports whether the location is the root path, which is always
// redirected.
func (l *Location) IsRoot() bool {
	return l.Path == "/"
}

// record is a flattened route.
type record struct {
	name               string
	pattern            string // :param form
	matched            []ability.Capability
	redirectIfLoggedIn bool
}

// Table is an immutable route table. Paths are matched through chi's radix
// tree, so the console resolves :param segments the same way the gateway
// routes them.
type Table struct {
	mux       *chi.Mux
	byPattern map[string]*record
	byName    map[string]*record
	records   []*record
}

// NewTable flattens routes into a table. Names must be unique.
func NewTable(routes []Route) (*Table, error) {
	t := &Table{
		mux:       chi.NewMux(),
		byPattern: map[string]*record{},
		byName:    map[string]*record{},
	}
	if err := t.add(routes, "/", nil, false); err != nil {
		return nil, err
	}
	return t, nil
}

// MustTable is NewTable for static tables.
func MustTable(routes []Route) *Table {
	t, err := NewTable(routes)
	if err != nil {
		panic(err)
	}
	return t
}

func (t *Table) add(routes []Route, base string, parents []ability.Capability, inherited bool) error {
	for _, r := range routes {
		if r.Name == "" {
			return fmt.Errorf("route %q has no name", r.Path)
		}
		if _, dup := t.byName[r.Name]; dup {
			return fmt.Errorf("duplicate route name %q", r.Name)
		}

		pattern := r.Path
		if !strings.HasPrefix(pattern, "/") {
			pattern = path.Join(base, pattern)
		}
		if _, dup := t.byPattern[pattern]; dup {
			return fmt.Errorf("duplicate route path %q", pattern)
		}

		matched := append(parents[:len(parents):len(parents)], r.Capability)
		rec := &record{
			name:               r.Name,
			pattern:            pattern,
			matched:            matched,
			redirectIfLoggedIn: r.RedirectIfLoggedIn || inherited,
		}
		t.byName[r.Name] = rec
		t.byPattern[pattern] = rec
		t.records = append(t.records, rec)
		t.mux.Get(chiPattern(pattern), http.NotFound)

		if err := t.add(r.Children, pattern, matched, rec.redirectIfLoggedIn); err != nil {
			return err
		}
	}
	return nil
}

// Has reports whether name is a route of the table.
func (t *Table) Has(name string) bool {
	_, ok := t.byName[name]
	return ok
}

// Capabilities returns the capabilities of a named route and its
// ancestors, outermost first.
func (t *Table) Capabilities(name string) ([]ability.Capability, bool) {
	rec, ok := t.byName[name]
	if !ok {
		return nil, false
	}
	return append([]ability.Capability(nil), rec.matched...), true
}

// Viewable returns a predicate granting a menu link when a may navigate to
// its route. Links to routes outside the table need the wildcard rules.
func (t *Table) Viewable(a *ability.Ability) func(route string) bool {
	return func(route string) bool {
		matched, ok := t.Capabilities(route)
		if !ok {
			matched = []ability.Capability{{}}
		}
		return a.CanNavigate(matched)
	}
}

// Pattern returns the :param path pattern of a named route.
func (t *Table) Pattern(name string) (string, bool) {
	rec, ok := t.byName[name]
	if !ok {
		return "", false
	}
	return rec.pattern, true
}

// Names lists the route names, sorted.
func (t *Table) Names() []string {
	names := make([]string, 0, len(t.byName))
	for name := range t.byName {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Resolve matches a path with optional query ("/vendors/view/3?tab=2").
func (t *Table) Resolve(target string) (*Location, error) {
	u, err := url.Parse(target)
	if err != nil {
		return nil, fmt.Errorf("invalid location %q: %w", target, err)
	}
	p := u.Path
	if p == "" {
		p = "/"
	}
	if len(p) > 1 {
		p = strings.TrimRight(p, "/")
	}

	rctx := chi.NewRouteContext()
	if !t.mux.Match(rctx, http.MethodGet, p) {
		return nil, fmt.Errorf("%w: %s", ErrRouteNotFound, p)
	}
	rec, ok := t.byPattern[vuePattern(rctx.RoutePattern())]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrRouteNotFound, p)
	}

	params := map[string]string{}
	for i, key := range rctx.URLParams.Keys {
		params[key] = rctx.URLParams.Values[i]
	}
	return rec.location(p, u.Query(), params), nil
}

// ResolveName builds the location of a named route.
func (t *Table) ResolveName(name string, params map[string]string, query url.Values) (*Location, error) {
	rec, ok := t.byName[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrRouteNotFound, name)
	}

	segments := strings.Split(rec.pattern, "/")
	for i, seg := range segments {
		if !strings.HasPrefix(seg, ":") {
			continue
		}
		v, ok := params[seg[1:]]
		if !ok || v == "" {
			return nil, fmt.Errorf("route %s: missing param %s", name, seg[1:])
		}
		segments[i] = url.PathEscape(v)
	}
	p := strings.Join(segments, "/")
	if p == "" {
		p = "/"
	}
	return rec.location(p, query, params), nil
}

// Target resolves a redirect target against the table.
func (t *Table) Target(to Target) (*Location, error) {
	if to.Name != "" {
		return t.ResolveName(to.Name, to.Params, to.Query)
	}
	target := to.Path
	if len(to.Query) > 0 {
		target += "?" + to.Query.Encode()
	}
	return t.Resolve(target)
}

func (r *record) location(p string, query url.Values, params map[string]string) *Location {
	if query == nil {
		query = url.Values{}
	}
	full := p
	if len(query) > 0 {
		full += "?" + query.Encode()
	}
	if len(params) == 0 {
		params = nil
	}
	return &Location{
		Name:               r.name,
		Path:               p,
		FullPath:           full,
		Query:              query,
		Params:             params,
		Matched:            append([]ability.Capability(nil), r.matched...),
		RedirectIfLoggedIn: r.redirectIfLoggedIn,
	}
}

// chiPattern turns /vendors/view/:id into /vendors/view/{id}.
func chiPattern(p string) string {
	segments := strings.Split(p, "/")
	for i, seg := range segments {
		if strings.HasPrefix(seg, ":") {
			segments[i] = "{" + seg[1:] + "}"
		}
	}
	return strings.Join(segments, "/")
}

func vuePattern(p string) string {
	segments := strings.Split(p, "/")
	for i, seg := range segments {
		if strings.HasPrefix(seg, "{") && strings.HasSuffix(seg, "}") {
			segments[i] = ":" + seg[1:len(seg)-1]
		}
	}
	return strings.Join(segments, "/")
}
