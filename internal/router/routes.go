package router

import "github.com/goodsone/console/internal/ability"

// Route names the guard and the root redirect rely on.
const (
	RouteIndex              = "index"
	RouteAuthLogin          = "auth-login"
	RouteLogin              = "login"
	RouteNotAuthorized      = "not-authorized"
	RouteDashboardsApproval = "dashboards-waiting-approval"
)

// DefaultPrivilegedRole is sent to the approval dashboard from the root
// path.
const DefaultPrivilegedRole = "Super Admin"

func read(subject string) ability.Capability {
	return ability.Capability{Action: "read", Subject: subject}
}

var authPage = read("Auth")

// DefaultRoutes is the admin console's route table. Names follow the page
// files: pages/vendors/view/[id].vue is vendors-view-id at /vendors/view/:id.
func DefaultRoutes() []Route {
	return []Route{
		{Name: RouteIndex, Path: "/", Capability: read("Dashboard")},
		{Name: RouteAuthLogin, Path: "/auth/login", Capability: authPage, RedirectIfLoggedIn: true},
		{Name: RouteLogin, Path: "/login", Capability: authPage, RedirectIfLoggedIn: true},
		{Name: "auth-forgot-password", Path: "/auth/forgot-password", Capability: authPage, RedirectIfLoggedIn: true},
		{Name: RouteNotAuthorized, Path: "/not-authorized", Capability: authPage},

		{Name: RouteDashboardsApproval, Path: "/dashboards/waiting-approval", Capability: read("Dashboard")},

		{Name: "leads-list", Path: "/leads/list", Capability: read("Leads")},
		{Name: "leads-view-id", Path: "/leads/view/:id", Capability: read("Leads")},

		{Name: "vendors-list", Path: "/vendors/list", Capability: read("Vendors")},
		{Name: "vendors-limit", Path: "/vendors/limit", Capability: read("Vendors")},
		{Name: "vendors-grade", Path: "/vendors/grade", Capability: read("Vendors")},
		{Name: "vendors-view-id", Path: "/vendors/view/:id", Capability: read("Vendors")},

		{Name: "products-list", Path: "/products/list", Capability: read("Products")},
		{Name: "products-add-on", Path: "/products/add-on", Capability: read("Products")},
		{Name: "products-checklist-item", Path: "/products/checklist-item", Capability: read("Products")},

		{Name: "employee-list", Path: "/employee/list", Capability: read("Employee")},
		{Name: "employee-department", Path: "/employee/department", Capability: read("Employee")},
		{Name: "employee-position", Path: "/employee/position", Capability: read("Employee")},
		{Name: "employee-team", Path: "/employee/team", Capability: read("Employee")},
		{Name: "employee-allowance", Path: "/employee/allowance", Capability: read("Employee")},

		{Name: "attendance-summary", Path: "/attendance/summary", Capability: read("Attendance")},
		{Name: "attendance-form", Path: "/attendance/form", Capability: read("Attendance")},

		{Name: "users-list", Path: "/users/list", Capability: read("Users")},
		{Name: "users-view-id", Path: "/users/view/:id", Capability: read("Users")},
		{Name: "roles-permissions-list", Path: "/roles-permissions/list", Capability: read("Roles")},

		{Name: "vendor-membership-level-settings", Path: "/vendor-membership/level-settings", Capability: read("Loyalty")},
		{Name: "employee-rank-rank-settings", Path: "/employee-rank/rank-settings", Capability: read("Loyalty")},

		{
			Name:       "settings",
			Path:       "/settings",
			Capability: read("Settings"),
			Children: []Route{
				{Name: "settings-bank-account", Path: "bank-account", Capability: read("Bank Account")},
				{Name: "settings-installment", Path: "installment", Capability: read("Installment")},
				{Name: "settings-sales", Path: "sales", Capability: read("Sales Settings")},
				{Name: "settings-vehicle", Path: "vehicle", Capability: read("Vehicle")},
			},
		},
	}
}

// DefaultTable is the table built from DefaultRoutes.
func DefaultTable() *Table {
	return MustTable(DefaultRoutes())
}
