package router

import (
	"net/url"

	"github.com/goodsone/console/internal/ability"
	"github.com/goodsone/console/pkg/sdk"
)

// Target is where a redirect points: a route name (with params) or a path.
type Target struct {
	Name   string
	Path   string
	Params map[string]string
	Query  url.Values
}

func (t Target) String() string {
	s := t.Name
	if s == "" {
		s = t.Path
	}
	if len(t.Query) > 0 {
		s += "?" + t.Query.Encode()
	}
	return s
}

// AbilitySource builds the ability of a session. ability.FromSession and
// (*ability.Cache).ForSession both fit.
type AbilitySource func(*sdk.Session) (*ability.Ability, error)

// Guard decides, before a navigation commits, whether it proceeds or
// redirects.
type Guard struct {
	abilities AbilitySource
}

func NewGuard(abilities AbilitySource) *Guard {
	if abilities == nil {
		abilities = ability.FromSession
	}
	return &Guard{abilities: abilities}
}

// Evaluate returns nil when the navigation to `to` may proceed, or the
// redirect to take instead:
//   - allowed, but the route is for guests and the user is logged in: "/"
//   - not allowed and logged in: not-authorized
//   - not allowed and logged out: login, carrying the intended path in
//     ?to= unless the target is the index route
func (g *Guard) Evaluate(to *Location, s *sdk.Session) (*Target, error) {
	loggedIn := s.IsLoggedIn()

	ab, err := g.abilities(s)
	if err != nil {
		return nil, err
	}

	if ab.CanNavigate(to.Matched) {
		if to.RedirectIfLoggedIn && loggedIn {
			return &Target{Path: "/"}, nil
		}
		return nil, nil
	}

	if loggedIn {
		return &Target{Name: RouteNotAuthorized}, nil
	}

	query := url.Values{}
	if to.Name != RouteIndex {
		query.Set("to", to.FullPath)
	}
	return &Target{Name: RouteLogin, Query: query}, nil
}
