package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/goodsone/console/cmd/consolectl/internal/config"
	"github.com/goodsone/console/pkg/sdk"
	"github.com/goodsone/console/pkg/validators"
)

var (
	email         string
	password      string
	loginEndpoint string
	token         string
	userDataFile  string
	abilitiesFile string
	role          string
)

// LoginRequest is the body sent to the backend login endpoint.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse is what the backend login endpoint answers. Older backends
// send the rules as userAbilityRules.
type LoginResponse struct {
	AccessToken      string            `json:"accessToken"`
	UserData         *sdk.UserData     `json:"userData"`
	UserAbilities    []sdk.AbilityRule `json:"userAbilities"`
	UserAbilityRules []sdk.AbilityRule `json:"userAbilityRules"`
}

// Session converts the response into the session to store. role overrides
// the first role of the profile.
func (r *LoginResponse) Session(role string) (*sdk.Session, error) {
	if r.AccessToken == "" || r.UserData == nil {
		return nil, fmt.Errorf("login response has no accessToken or userData")
	}
	s := &sdk.Session{
		Role:        role,
		UserData:    r.UserData,
		AccessToken: r.AccessToken,
		Abilities:   r.UserAbilities,
	}
	if len(s.Abilities) == 0 {
		s.Abilities = r.UserAbilityRules
	}
	if s.Role == "" {
		if names := s.RoleNames(); len(names) > 0 {
			s.Role = names[0]
		}
	}
	return s, nil
}

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in to the console",
	Long: `Stores a console session in the session directory.

Two methods are supported:
1. Credentials (default): --email and --password are posted to the backend
   login endpoint. The password is prompted for when omitted.
2. Token: --token together with --user-data (a JSON profile file) stores a
   session obtained elsewhere. --abilities adds a JSON file of
   {"action","subject"} rules.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.MustFromContext(cmd.Context())

		store, err := cfg.SessionStore()
		if err != nil {
			return err
		}

		var s *sdk.Session
		if token != "" {
			s, err = tokenSession()
		} else {
			s, err = credentialSession(cmd.Context(), cfg, store)
		}
		if err != nil {
			return err
		}

		if err := sdk.DestroySession(cmd.Context(), store); err != nil {
			return fmt.Errorf("failed to clear previous session: %w", err)
		}
		if err := sdk.SaveSession(cmd.Context(), store, s); err != nil {
			return fmt.Errorf("failed to save session: %w", err)
		}

		pterm.Success.Println("Login successful")
		pterm.Info.Printf("Logged in as: %s (role %s)\n", displayName(s.UserData), s.Role)
		pterm.Info.Printf("Session stored in %s\n", store.Path())
		return nil
	},
}

func credentialSession(ctx context.Context, cfg *config.GlobalConfig, store sdk.SessionStore) (*sdk.Session, error) {
	if email == "" {
		return nil, fmt.Errorf("--email is required (or use --token)")
	}
	if password == "" {
		if cfg.NonInteractive {
			return nil, fmt.Errorf("--password is required in non-interactive mode")
		}
		var err error
		password, err = pterm.DefaultInteractiveTextInput.WithMask("*").Show("Password")
		if err != nil {
			return nil, err
		}
	}

	// a stale token must not ride along on the login call
	if err := sdk.ClearSession(ctx, store); err != nil {
		return nil, err
	}
	client, err := cfg.Client(store, nil)
	if err != nil {
		return nil, err
	}

	spinner, _ := pterm.DefaultSpinner.Start("Logging in to " + client.BaseURL())
	var resp LoginResponse
	err = client.Post(ctx, loginEndpoint, LoginRequest{Email: email, Password: password}, &resp)
	if err != nil {
		spinner.Fail("Login failed")
		if msgs, ok := validationMessages(err); ok {
			return nil, fmt.Errorf("login rejected: %s", msgs)
		}
		return nil, err
	}
	if resp.AccessToken == "" {
		// a 401 comes back as an empty response
		spinner.Fail("Login failed")
		return nil, fmt.Errorf("login rejected: invalid credentials")
	}
	spinner.Success("Authenticated")
	return resp.Session(role)
}

func tokenSession() (*sdk.Session, error) {
	if userDataFile == "" {
		return nil, fmt.Errorf("--user-data is required with --token")
	}
	resp := LoginResponse{AccessToken: token}
	if err := readJSON(userDataFile, &resp.UserData); err != nil {
		return nil, err
	}
	if abilitiesFile != "" {
		if err := readJSON(abilitiesFile, &resp.UserAbilities); err != nil {
			return nil, err
		}
	}
	return resp.Session(role)
}

func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return nil
}

func validationMessages(err error) (string, bool) {
	var apiErr *sdk.APIError
	if !errors.As(err, &apiErr) {
		return "", false
	}
	errs, ok := apiErr.ValidationErrors()
	if !ok {
		return "", false
	}
	return validators.JoinMessages(errs), true
}

func displayName(u *sdk.UserData) string {
	switch {
	case u == nil:
		return "unknown"
	case u.FullName != "":
		return u.FullName
	case u.Username != "":
		return u.Username
	default:
		return u.Email
	}
}

func init() {
	loginCmd.Flags().StringVar(&email, "email", "", "Account email")
	loginCmd.Flags().StringVar(&password, "password", "", "Account password (prompted when omitted)")
	loginCmd.Flags().StringVar(&loginEndpoint, "endpoint", "auth/login", "Login endpoint, relative to the API base URL")
	loginCmd.Flags().StringVar(&token, "token", "", "Access token obtained elsewhere")
	loginCmd.Flags().StringVar(&userDataFile, "user-data", "", "JSON file with the user profile (with --token)")
	loginCmd.Flags().StringVar(&abilitiesFile, "abilities", "", "JSON file with the ability rules (with --token)")
	loginCmd.Flags().StringVar(&role, "role", "", "Role to store (default: first role of the profile)")
}
