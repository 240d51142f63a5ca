package nav

import (
	"fmt"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/goodsone/console/cmd/consolectl/internal/config"
	"github.com/goodsone/console/internal/ability"
	"github.com/goodsone/console/internal/navigation"
	"github.com/goodsone/console/internal/router"
	"github.com/goodsone/console/pkg/sdk"
)

var (
	layout   string
	filter   string
	showAll  bool
	menuFile string
)

var treeCmd = &cobra.Command{
	Use:   "tree",
	Short: "Print the menu the stored session may see",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.MustFromContext(cmd.Context())

		menus, err := loadMenus()
		if err != nil {
			return err
		}
		nodes, ok := menus.Layout(layout)
		if !ok {
			return fmt.Errorf("unknown layout %q (want vertical or horizontal)", layout)
		}

		if !showAll {
			store, err := cfg.SessionStore()
			if err != nil {
				return err
			}
			s, err := sdk.LoadSession(cmd.Context(), store)
			if err != nil {
				return fmt.Errorf("failed to load session: %w", err)
			}
			ab, err := ability.FromSession(s)
			if err != nil {
				return err
			}
			nodes = navigation.Visible(nodes, router.DefaultTable().Viewable(ab))
		}

		nodes, err = navigation.Filter(nodes, filter)
		if err != nil {
			return err
		}
		if len(nodes) == 0 {
			pterm.Warning.Println("Nothing to show")
			return nil
		}

		root := pterm.NewTreeFromLeveledList(leveledList(nodes))
		return pterm.DefaultTree.WithRoot(root).Render()
	},
}

func loadMenus() (*navigation.Menus, error) {
	if menuFile == "" {
		return navigation.Default(), nil
	}
	return navigation.Load(menuFile)
}

// leveledList flattens nodes depth-first for pterm's tree printer.
func leveledList(nodes []navigation.Node) pterm.LeveledList {
	var list pterm.LeveledList
	navigation.Walk(nodes, func(n navigation.Node, parents []string) {
		list = append(list, pterm.LeveledListItem{Level: len(parents), Text: nodeText(n)})
	})
	return list
}

func nodeText(n navigation.Node) string {
	switch {
	case n.IsHeading():
		return pterm.Bold.Sprint(n.Heading)
	case n.To != "":
		return fmt.Sprintf("%s %s", n.Title, pterm.Gray("-> "+n.To))
	default:
		return n.Title
	}
}

func init() {
	treeCmd.Flags().StringVar(&layout, "layout", "vertical", "Menu layout: vertical or horizontal")
	treeCmd.Flags().StringVar(&filter, "filter", "", `Expression over title, heading, to, icon, badge, parent and depth (e.g. 'to matches "^vendors-"')`)
	treeCmd.Flags().BoolVar(&showAll, "all", false, "Ignore the session's abilities")
	NavCmd.PersistentFlags().StringVar(&menuFile, "file", "", "JSON file replacing the built-in menus")
}
