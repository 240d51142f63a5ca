package cmd

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/goodsone/console/internal/config"
)

var (
	cfgFile string
	cfg     *config.Config
)

// flag name -> config key
var boundFlags = map[string]string{
	"server-addr":    "server_addr",
	"api-base-url":   "api_base_url",
	"login-path":     "login_path",
	"navigation":     "navigation_file",
	"session-driver": "session.driver",
	"session-dsn":    "session.dsn",
	"debug":          "debug",
}

var rootCmd = &cobra.Command{
	Use:   "consoleapi",
	Short: "Goodsone admin console gateway",
	Long: `consoleapi serves the Goodsone admin console: it keeps the user session,
guards page navigation with the user's abilities, builds the navigation menus
and forwards /backend requests to the Goodsone API with the session's token.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = loadConfig(viper.GetViper(), cfgFile)
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		if cfg.Debug {
			log.SetFlags(log.LstdFlags | log.Lshortfile)
		}
		return nil
	},
}

// loadConfig layers defaults, the config file and CONSOLE_ variables in v.
func loadConfig(v *viper.Viper, path string) (*config.Config, error) {
	config.Setup(v)
	if err := config.ReadFile(v, path); err != nil {
		return nil, err
	}
	return config.LoadFrom(v)
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "Config file (default ./consoleapi.yaml, then ~/.goodsone/consoleapi.yaml)")
	flags.String("server-addr", "", "Server bind address (env: CONSOLE_SERVER_ADDR)")
	flags.String("api-base-url", "", "Backend API base URL (env: CONSOLE_API_BASE_URL)")
	flags.String("login-path", "", "Page a backend 401 redirects to (env: CONSOLE_LOGIN_PATH)")
	flags.String("navigation", "", "JSON file replacing the built-in menus (env: CONSOLE_NAVIGATION_FILE)")
	flags.String("session-driver", "", "Session driver: memory, sql, redis or cookie (env: CONSOLE_SESSION_DRIVER)")
	flags.String("session-dsn", "", "Database DSN for the sql session driver (env: CONSOLE_SESSION_DSN)")
	flags.Bool("debug", false, "Enable debug logging (env: CONSOLE_DEBUG)")

	for name, key := range boundFlags {
		if err := viper.BindPFlag(key, flags.Lookup(name)); err != nil {
			panic(err)
		}
	}

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(sessionsCmd)
	rootCmd.AddCommand(routesCmd)
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
