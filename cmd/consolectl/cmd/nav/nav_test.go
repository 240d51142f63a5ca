package nav

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goodsone/console/internal/navigation"
	"github.com/goodsone/console/internal/router"
)

func TestLeveledList(t *testing.T) {
	nodes := []navigation.Node{
		{Heading: "Web Apps"},
		{Title: "Vendors", Children: []navigation.Node{
			{Title: "List", To: "vendors-list"},
			{Title: "Grade", To: "vendors-grade"},
		}},
	}

	list := leveledList(nodes)
	require.Len(t, list, 4)
	assert.Equal(t, 0, list[0].Level)
	assert.Contains(t, list[0].Text, "Web Apps")
	assert.Equal(t, 0, list[1].Level)
	assert.Equal(t, "Vendors", list[1].Text)
	assert.Equal(t, 1, list[2].Level)
	assert.Contains(t, list[2].Text, "vendors-list")
}

func TestCheckMenus(t *testing.T) {
	problems := checkMenus(navigation.Default(), router.DefaultTable())
	require.Len(t, problems, 2)
	for _, p := range problems {
		assert.Equal(t, "horizontal", p.layout)
	}
	assert.Equal(t, "dashboards-reviewsssssss", problems[0].To)

	menus := &navigation.Menus{Vertical: []navigation.Node{{Title: "Leads", To: "leads-list"}}}
	assert.Empty(t, checkMenus(menus, router.DefaultTable()))
}
