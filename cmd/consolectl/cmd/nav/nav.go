package nav

import (
	"github.com/spf13/cobra"
)

// NavCmd is the parent command for navigation menu operations
var NavCmd = &cobra.Command{
	Use:   "nav",
	Short: "Inspect the navigation menus",
	Long:  `Commands for printing the menus the stored session may see and checking menu links against the route table.`,
}

func init() {
	NavCmd.AddCommand(treeCmd)
	NavCmd.AddCommand(checkCmd)
}
