package nav

import (
	"fmt"
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/goodsone/console/internal/navigation"
	"github.com/goodsone/console/internal/router"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Report menu links that point at unknown routes",
	RunE: func(cmd *cobra.Command, args []string) error {
		menus, err := loadMenus()
		if err != nil {
			return err
		}

		problems := checkMenus(menus, router.DefaultTable())
		if len(problems) == 0 {
			pterm.Success.Println("Every menu link resolves to a route")
			return nil
		}

		data := pterm.TableData{{"LAYOUT", "MENU PATH", "ROUTE"}}
		for _, p := range problems {
			data = append(data, []string{p.layout, strings.Join(p.Path, " / "), p.To})
		}
		if err := pterm.DefaultTable.WithHasHeader().WithData(data).Render(); err != nil {
			return err
		}
		return fmt.Errorf("%d menu links point at unknown routes", len(problems))
	},
}

type layoutProblem struct {
	layout string
	navigation.Problem
}

func checkMenus(menus *navigation.Menus, table *router.Table) []layoutProblem {
	var out []layoutProblem
	for _, name := range []string{"vertical", "horizontal"} {
		nodes, _ := menus.Layout(name)
		for _, p := range navigation.Check(nodes, table.Has) {
			out = append(out, layoutProblem{layout: name, Problem: p})
		}
	}
	return out
}
