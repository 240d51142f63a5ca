package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/goodsone/console/cmd/consolectl/internal/config"
	"github.com/goodsone/console/internal/router"
	"github.com/goodsone/console/pkg/sdk"
	"github.com/goodsone/console/pkg/validators"
)

// ErrSessionExpired is returned when the backend rejected the stored token.
var ErrSessionExpired = errors.New("session expired, log in again")

var apiData string

var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "Send authenticated requests to the backend API",
	Long: `Sends requests to the backend with the stored session's bearer token.
Paths are relative to the API base URL. A 401 clears the session and prints
the login page the console would redirect to.`,
}

var apiGetCmd = &cobra.Command{
	Use:     "get <path>",
	Short:   "GET a backend path",
	Example: `  consolectl api get "leads?page=2"`,
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return callAPI(cmd, http.MethodGet, args[0], nil)
	},
}

var apiPostCmd = &cobra.Command{
	Use:     "post <path>",
	Short:   "POST a JSON body to a backend path",
	Example: `  consolectl api post vendors --data '{"name":"Toko Sinar"}'`,
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var body any
		if apiData != "" {
			if !json.Valid([]byte(apiData)) {
				return fmt.Errorf("--data is not valid JSON")
			}
			body = json.RawMessage(apiData)
		}
		return callAPI(cmd, http.MethodPost, args[0], body)
	},
}

var apiDeleteCmd = &cobra.Command{
	Use:   "delete <path>",
	Short: "DELETE a backend path",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return callAPI(cmd, http.MethodDelete, args[0], nil)
	},
}

func callAPI(cmd *cobra.Command, method, path string, body any) error {
	cfg := config.MustFromContext(cmd.Context())
	store, err := cfg.SessionStore()
	if err != nil {
		return err
	}
	rt := cfg.Router(store, router.Options{OnRedirect: printRedirect})
	client, err := cfg.Client(store, rt)
	if err != nil {
		return err
	}

	out, err := sendAPI(cmd.Context(), client, method, path, body)
	if errors.Is(err, ErrSessionExpired) {
		if loc := rt.Current(); loc != nil {
			pterm.Warning.Printf("Backend rejected the token, console would show %s\n", loc.FullPath)
		}
	}
	if err != nil {
		return err
	}
	_, err = cmd.OutOrStdout().Write(out)
	return err
}

// sendAPI returns the response body, indented when it is JSON.
func sendAPI(ctx context.Context, client *sdk.Client, method, path string, body any) ([]byte, error) {
	req, err := client.NewRequest(ctx, method, path, body)
	if err != nil {
		return nil, err
	}

	resp, err := client.Do(req)
	var apiErr *sdk.APIError
	switch {
	case errors.As(err, &apiErr):
		if errs, ok := apiErr.ValidationErrors(); ok {
			return nil, fmt.Errorf("%s: %s", apiErr.Status, validators.JoinMessages(errs))
		}
		return nil, err
	case err != nil:
		return nil, err
	case resp == nil:
		return nil, ErrSessionExpired
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	var pretty bytes.Buffer
	if json.Indent(&pretty, data, "", "  ") == nil {
		pretty.WriteByte('\n')
		return pretty.Bytes(), nil
	}
	return data, nil
}

func init() {
	apiPostCmd.Flags().StringVar(&apiData, "data", "", "JSON request body")
	apiCmd.AddCommand(apiGetCmd)
	apiCmd.AddCommand(apiPostCmd)
	apiCmd.AddCommand(apiDeleteCmd)
}
