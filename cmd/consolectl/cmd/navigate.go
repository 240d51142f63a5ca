package cmd

import (
	"encoding/json"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/goodsone/console/cmd/consolectl/internal/config"
	"github.com/goodsone/console/internal/router"
)

var navigateJSON bool

var navigateCmd = &cobra.Command{
	Use:   "navigate <path>",
	Short: "Walk a navigation through the guard with the stored session",
	Long: `Resolves <path> against the console route table and applies the root
redirect and the navigation guard the way the console does, printing every
redirect and the location the navigation settles on.`,
	Example: `  consolectl navigate /vendors/view/12
  consolectl navigate "/leads/list?page=2"`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.MustFromContext(cmd.Context())
		store, err := cfg.SessionStore()
		if err != nil {
			return err
		}

		opts := router.Options{OnRedirect: printRedirect}
		if !navigateJSON {
			opts.Progress = spinnerProgress{}
		}
		loc, err := cfg.Router(store, opts).Navigate(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		if navigateJSON {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(loc)
		}
		data := pterm.TableData{
			{"Name", loc.Name},
			{"Path", loc.FullPath},
		}
		for k, v := range loc.Params {
			data = append(data, []string{"Param " + k, v})
		}
		return pterm.DefaultTable.WithData(data).Render()
	},
}

func init() {
	navigateCmd.Flags().BoolVar(&navigateJSON, "json", false, "Print the final location as JSON")
}
