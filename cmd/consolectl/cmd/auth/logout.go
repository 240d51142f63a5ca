package auth

import (
	"fmt"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/goodsone/console/cmd/consolectl/internal/config"
	"github.com/goodsone/console/pkg/sdk"
)

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Remove the stored session",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := config.MustFromContext(cmd.Context()).SessionStore()
		if err != nil {
			return err
		}

		if err := sdk.DestroySession(cmd.Context(), store); err != nil {
			return fmt.Errorf("failed to delete session: %w", err)
		}

		pterm.Success.Println("Logged out successfully")
		return nil
	},
}
