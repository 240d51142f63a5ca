package router

import (
	"net/url"

	"github.com/goodsone/console/pkg/sdk"
)

// RootRedirect is applied to every visit of "/". Users holding one of the
// privileged roles land on the approval dashboard; everyone else goes to
// the login page with the original query forwarded.
func RootRedirect(to *Location, s *sdk.Session, privileged []string) Target {
	roles := s.RoleNames()
	for _, want := range privileged {
		for _, have := range roles {
			if have == want {
				return Target{Name: RouteDashboardsApproval}
			}
		}
	}

	query := url.Values{}
	for k, v := range to.Query {
		query[k] = append([]string(nil), v...)
	}
	return Target{Name: RouteAuthLogin, Query: query}
}
