package cmd

import (
	"fmt"
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/goodsone/console/internal/navigation"
	"github.com/goodsone/console/internal/router"
)

var routesStrict bool

var routesCmd = &cobra.Command{
	Use:   "routes",
	Short: "List the route table and check the menus against it",
	RunE: func(cmd *cobra.Command, args []string) error {
		table := router.DefaultTable()
		menus := navigation.Default()
		if cfg.NavigationFile != "" {
			var err error
			if menus, err = navigation.Load(cfg.NavigationFile); err != nil {
				return err
			}
		}

		data := pterm.TableData{{"NAME", "PATH", "REQUIRES"}}
		for _, name := range table.Names() {
			pattern, _ := table.Pattern(name)
			caps, _ := table.Capabilities(name)
			required := make([]string, 0, len(caps))
			for _, c := range caps {
				required = append(required, strings.TrimSpace(c.Action+" "+c.Subject))
			}
			data = append(data, []string{name, pattern, strings.Join(required, " > ")})
		}
		if err := pterm.DefaultTable.WithHasHeader().WithData(data).Render(); err != nil {
			return err
		}

		problems := 0
		for _, layout := range []string{"vertical", "horizontal"} {
			nodes, _ := menus.Layout(layout)
			for _, p := range navigation.Check(nodes, table.Has) {
				pterm.Warning.Printf("%s menu: %s\n", layout, p)
				problems++
			}
		}
		if problems == 0 {
			pterm.Success.Println("Every menu link resolves to a route")
			return nil
		}
		if routesStrict {
			return fmt.Errorf("%d menu links point at unknown routes", problems)
		}
		return nil
	},
}

func init() {
	routesCmd.Flags().BoolVar(&routesStrict, "strict", false, "Fail when a menu links to an unknown route")
}
