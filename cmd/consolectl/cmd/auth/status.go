package auth

import (
	"fmt"
	"strings"
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/goodsone/console/cmd/consolectl/internal/config"
	"github.com/goodsone/console/internal/ability"
	"github.com/goodsone/console/pkg/sdk"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display the stored session",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := config.MustFromContext(cmd.Context()).SessionStore()
		if err != nil {
			return err
		}

		s, err := sdk.LoadSession(cmd.Context(), store)
		if err != nil {
			return fmt.Errorf("failed to load session: %w", err)
		}

		pterm.DefaultSection.Println("Session")
		if !s.IsLoggedIn() {
			pterm.Warning.Println("Not logged in")
			if s.Role != "" {
				pterm.Info.Printf("Last role: %s\n", s.Role)
			}
			return nil
		}

		pterm.Info.Printf("User: %s\n", displayName(s.UserData))
		pterm.Info.Printf("Role: %s\n", s.Role)
		if roles := s.RoleNames(); len(roles) > 0 {
			pterm.Info.Printf("Profile roles: %s\n", strings.Join(roles, ", "))
		}
		printToken(sdk.InspectToken(s.AccessToken, time.Now()))

		pterm.DefaultSection.Println("Abilities")
		data := pterm.TableData{{"ACTION", "SUBJECT"}}
		for _, r := range ability.RulesFor(s) {
			data = append(data, []string{r.Action, r.Subject})
		}
		return pterm.DefaultTable.WithHasHeader().WithData(data).Render()
	},
}

func printToken(info *sdk.TokenInfo) {
	if info == nil {
		pterm.Info.Println("Token: opaque")
		return
	}
	if info.Subject != "" {
		pterm.Info.Printf("Token subject: %s\n", info.Subject)
	}
	if info.ExpiresAt == nil {
		pterm.Info.Println("Token: no expiry")
		return
	}
	if info.Expired {
		pterm.Warning.Printf("Token expired at: %s\n", info.ExpiresAt.Format(time.RFC1123))
		return
	}
	pterm.Info.Printf("Token expires at: %s\n", info.ExpiresAt.Format(time.RFC1123))
}
