package cmd

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/goodsone/console/pkg/validators"
)

var (
	validateJSON bool
	listRules    bool
)

var validateCmd = &cobra.Command{
	Use:   "validate <rule> <value> [params...]",
	Short: "Run a form validator against a value",
	Example: `  consolectl validate email someone@goodsone.id
  consolectl validate between 12 1 10
  consolectl validate --json required '[]'
  consolectl validate --list`,
	Args: func(cmd *cobra.Command, args []string) error {
		if listRules {
			return nil
		}
		return cobra.MinimumNArgs(2)(cmd, args)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		if listRules {
			pterm.DefaultSection.Println("Rules")
			pterm.Println(strings.Join(validators.Names(), "\n"))
			return nil
		}

		res, err := runRule(args[0], args[1], args[2:], validateJSON)
		if err != nil {
			return err
		}
		if res.OK() {
			pterm.Success.Println("valid")
			return nil
		}
		pterm.Error.Println(failureMessage(args[0], args[2:], res))
		return fmt.Errorf("%s rejected the value", args[0])
	},
}

// runRule looks the rule up and applies it. With asJSON the raw value is
// decoded first, so numbers, lists and null can be checked.
func runRule(name, raw string, params []string, asJSON bool) (validators.Result, error) {
	rule, err := validators.Lookup(name, params...)
	if err != nil {
		return validators.Result{}, err
	}
	var value any = raw
	if asJSON {
		if err := json.Unmarshal([]byte(raw), &value); err != nil {
			return validators.Result{}, fmt.Errorf("value is not JSON: %w", err)
		}
	}
	return rule(value), nil
}

// failureMessage is the rule's message, or a wording of our own for rules
// such as between that fail without one.
func failureMessage(name string, params []string, res validators.Result) string {
	if msg := res.Message(); msg != "" {
		return msg
	}
	if name == "between" && len(params) == 2 {
		return fmt.Sprintf("value is not between %s and %s", params[0], params[1])
	}
	return fmt.Sprintf("value rejected by %s", name)
}

func init() {
	validateCmd.Flags().BoolVar(&validateJSON, "json", false, "Decode the value as JSON")
	validateCmd.Flags().BoolVar(&listRules, "list", false, "List the rule names")
}
