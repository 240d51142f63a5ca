package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/goodsone/console/cmd/consolectl/cmd/auth"
	"github.com/goodsone/console/cmd/consolectl/cmd/nav"
	"github.com/goodsone/console/cmd/consolectl/internal/config"
	"github.com/goodsone/console/pkg/sdk"
)

var rootCmd = &cobra.Command{
	Use:   "consolectl",
	Short: "Goodsone admin console CLI",
	Long: `consolectl drives the Goodsone admin console from a terminal. It keeps a
session in ~/.goodsone, prints the navigation menus the session may see,
walks navigations through the console's guard, runs the form validators and
sends authenticated requests to the backend API.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := globalConfig(newViper(cmd))
		if err != nil {
			return err
		}
		cmd.SetContext(config.InjectConfig(cmd.Context(), cfg))
		return nil
	},
}

// newViper reads the persistent flags with CONSOLE_ variables as fallback.
func newViper(cmd *cobra.Command) *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix("CONSOLE")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	v.SetDefault("api-base-url", sdk.DefaultBaseURL)
	v.SetDefault("login-path", sdk.DefaultLoginPath)
	v.SetDefault("max-redirects", 10)
	v.SetDefault("privileged-roles", []string{"Super Admin"})
	_ = v.BindPFlags(cmd.Flags())
	return v
}

func globalConfig(v *viper.Viper) (*config.GlobalConfig, error) {
	cfg := &config.GlobalConfig{
		APIBaseURL:      v.GetString("api-base-url"),
		LoginPath:       v.GetString("login-path"),
		SessionDir:      v.GetString("session-dir"),
		PrivilegedRoles: v.GetStringSlice("privileged-roles"),
		MaxRedirects:    v.GetInt("max-redirects"),
		NonInteractive:  v.GetBool("non-interactive"),
	}
	if cfg.MaxRedirects <= 0 {
		return nil, fmt.Errorf("max-redirects must be positive, got %d", cfg.MaxRedirects)
	}
	return cfg, nil
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.String("api-base-url", sdk.DefaultBaseURL, "Backend API base URL (env: CONSOLE_API_BASE_URL)")
	flags.String("login-path", sdk.DefaultLoginPath, "Page a 401 redirects to (env: CONSOLE_LOGIN_PATH)")
	flags.String("session-dir", "", "Directory holding session.json (default ~/.goodsone)")
	flags.StringSlice("privileged-roles", []string{"Super Admin"}, "Roles sent from / to the approval dashboard")
	flags.Int("max-redirects", 10, "Redirect hops allowed per navigation")
	flags.Bool("non-interactive", false, "Disable interactive prompts (env: CONSOLE_NON_INTERACTIVE)")

	rootCmd.AddCommand(auth.AuthCmd)
	rootCmd.AddCommand(nav.NavCmd)
	rootCmd.AddCommand(navigateCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(apiCmd)
}
