package navigation

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func labels(nodes []Node) []string {
	out := make([]string, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, n.Label())
	}
	return out
}

func TestVerticalTree(t *testing.T) {
	nodes := Vertical()

	assert.Equal(t, []string{
		"Dashboards",
		"Web Apps", "Leads", "Vendors", "Products", "Employee", "Attendance",
		"Loan Management", "Payroll", "Users", "Roles & Permissions",
		"Loyalty System", "Vendor Membership", "Employee Rank", "Rewards & Redeem",
		"Settings", "Settings",
	}, labels(nodes))

	assert.Equal(t, "bg-primary", nodes[0].BadgeClass)
	assert.Equal(t, "tabler-smart-home", nodes[0].Icon.Icon)
	assert.True(t, nodes[1].IsHeading())
	assert.Contains(t, Routes(nodes), "vendors-list")
	assert.Contains(t, Routes(nodes), "employee-rank-rank-settings")
}

func TestHorizontalTree(t *testing.T) {
	nodes := Horizontal()
	require.Len(t, nodes, 1)
	assert.Equal(t, []string{"dashboards-waiting-approval", "dashboards-reviewsssssss", "dashboards-wedding"}, Routes(nodes))
}

func TestDefaultReturnsCopies(t *testing.T) {
	a := Default()
	a.Vertical[0].Title = "changed"
	assert.Equal(t, "Dashboards", Default().Vertical[0].Title)

	v, ok := a.Layout("horizontal")
	assert.True(t, ok)
	assert.Len(t, v, 1)
	_, ok = a.Layout("diagonal")
	assert.False(t, ok)
}

func TestVisible(t *testing.T) {
	allowed := map[string]bool{"vendors-list": true, "settings-sales": true}
	got := Visible(Vertical(), func(route string) bool { return allowed[route] })

	assert.Equal(t, []string{"Web Apps", "Vendors", "Settings", "Settings"}, labels(got))
	assert.Equal(t, []string{"Vendor List"}, labels(got[1].Children))
	assert.Equal(t, []string{"Sales"}, labels(got[3].Children))
}

func TestVisibleEverything(t *testing.T) {
	all := Visible(Vertical(), func(string) bool { return true })
	assert.Equal(t, Vertical(), all)
}

func TestVisibleNothing(t *testing.T) {
	assert.Empty(t, Visible(Vertical(), func(string) bool { return false }))
}

func TestFilter(t *testing.T) {
	got, err := Filter(Vertical(), `to matches "^vendors-"`)
	require.NoError(t, err)
	assert.Equal(t, []string{"Web Apps", "Vendors"}, labels(got))
	assert.Len(t, got[1].Children, 3)

	got, err = Filter(Vertical(), `title == "Employee Rank"`)
	require.NoError(t, err)
	assert.Equal(t, []string{"Loyalty System", "Employee Rank"}, labels(got))
	assert.Len(t, got[1].Children, 1, "a matching group keeps its children")

	got, err = Filter(Vertical(), `parent == "Settings" and title != "Vehicle"`)
	require.NoError(t, err)
	require.Equal(t, []string{"Settings", "Settings"}, labels(got))
	assert.Equal(t, []string{"Bank Account", "Installment", "Sales"}, labels(got[1].Children))

	got, err = Filter(Vertical(), `depth == 0 and heading == "Loyalty System"`)
	require.NoError(t, err)
	assert.Equal(t, []string{"Loyalty System"}, labels(got))

	got, err = Filter(Vertical(), "")
	require.NoError(t, err)
	assert.Equal(t, Vertical(), got)

	_, err = Filter(Vertical(), `title ==`)
	assert.Error(t, err)
}

func TestCheck(t *testing.T) {
	known := map[string]bool{"dashboards-waiting-approval": true}
	problems := Check(Horizontal(), func(route string) bool { return known[route] })

	require.Len(t, problems, 2)
	assert.Equal(t, []string{"Dashboards", "Reviews"}, problems[0].Path)
	assert.Equal(t, "dashboards-reviewsssssss", problems[0].To)
	assert.Equal(t, "dashboards-wedding", problems[1].To)
	assert.Contains(t, problems[0].String(), "Dashboards / Reviews")
}

func TestParseOverride(t *testing.T) {
	menus, err := Parse([]byte(`{
		"horizontal": [
			{"title": "Vendors", "icon": {"icon": "tabler-box"}, "children": [
				{"title": "Vendor List", "to": "vendors-list"}
			]}
		]
	}`))
	require.NoError(t, err)

	assert.Equal(t, []string{"Vendors"}, labels(menus.Horizontal))
	assert.Equal(t, Vertical(), menus.Vertical, "missing layout keeps the built-in tree")
}

func TestParseRejectsInvalid(t *testing.T) {
	tests := map[string]string{
		"unknown field":  `{"vertical": [{"title": "x", "url": "/x"}]}`,
		"bad route name": `{"vertical": [{"title": "x", "to": "Not A Route"}]}`,
		"no label":       `{"vertical": [{"to": "users-list"}]}`,
		"not json":       `{`,
		"bad icon":       `{"vertical": [{"title": "x", "icon": "tabler-box"}]}`,
	}
	for name, doc := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(doc))
			assert.Error(t, err)
		})
	}
}

func TestLoad(t *testing.T) {
	menus, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), menus)

	path := filepath.Join(t.TempDir(), "nav.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"vertical": [{"heading": "Only"}]}`), 0o600))
	menus, err = Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"Only"}, labels(menus.Vertical))

	_, err = Load(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}
