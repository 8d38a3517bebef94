package cmd

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"crdb-admin/feature/parameter"
)

var (
	paramSet          []string
	paramReset        []string
	paramProfile      string
	paramProfilesJSON string
	paramScope        string
	paramResetAll     bool
)

var parameterCmd = &cobra.Command{
	Use:   "parameter",
	Short: "Reconcile cluster settings and session variables",
	RunE: func(cmd *cobra.Command, args []string) error {
		req := parameter.Request{
			Profile:  paramProfile,
			Scope:    parameter.Scope(paramScope),
			ResetAll: paramResetAll,
		}

		if len(paramSet) > 0 || len(paramReset) > 0 {
			req.Parameters = map[string]any{}
		}
		for _, kv := range paramSet {
			name, value, ok := strings.Cut(kv, "=")
			if !ok {
				return fmt.Errorf("invalid --set %q, want name=value", kv)
			}
			req.Parameters[name] = coerceValue(value)
		}
		for _, name := range paramReset {
			req.Parameters[name] = nil
		}
		if paramProfilesJSON != "" {
			if err := json.Unmarshal([]byte(paramProfilesJSON), &req.CustomProfiles); err != nil {
				return fmt.Errorf("invalid --custom-profiles: %w", err)
			}
		}

		conn, log, _, err := setup()
		if err != nil {
			return err
		}
		defer conn.Close()

		result, err := parameter.NewService(conn, log).Reconcile(cmd.Context(), req, checkMode)
		if err != nil {
			return err
		}
		return printResult(result)
	},
}

// coerceValue keeps booleans typed so they render unquoted in SET.
func coerceValue(s string) any {
	switch strings.ToLower(s) {
	case "true":
		return true
	case "false":
		return false
	}
	return s
}

func init() {
	parameterCmd.Flags().StringSliceVar(&paramSet, "set", nil, "desired setting as name=value, repeatable")
	parameterCmd.Flags().StringSliceVar(&paramReset, "reset", nil, "setting to reset to default, repeatable")
	parameterCmd.Flags().StringVar(&paramProfile, "profile", "", "workload profile to apply")
	parameterCmd.Flags().StringVar(&paramProfilesJSON, "custom-profiles", "", "custom profiles as JSON")
	parameterCmd.Flags().StringVar(&paramScope, "scope", "cluster", "cluster or session")
	parameterCmd.Flags().BoolVar(&paramResetAll, "reset-all", false, "reset every setting in scope")
	RootCmd.AddCommand(parameterCmd)
}
