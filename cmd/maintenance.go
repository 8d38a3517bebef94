package cmd

import (
	"github.com/spf13/cobra"

	"crdb-admin/feature/maintenance"
)

var (
	maintOperation string
	maintTarget    string
	maintTTL       int
	maintID        string
)

var maintenanceCmd = &cobra.Command{
	Use:   "maintenance",
	Short: "Run maintenance operations: gc_ttl, node_status, cancel_query, cancel_session",
	RunE: func(cmd *cobra.Command, args []string) error {
		conn, log, _, err := setup()
		if err != nil {
			return err
		}
		defer conn.Close()

		result, err := maintenance.NewService(conn, log).Run(cmd.Context(), maintenance.Request{
			Operation:  maintOperation,
			Target:     maintTarget,
			TTLSeconds: maintTTL,
			ID:         maintID,
		}, checkMode)
		if err != nil {
			return err
		}
		return printResult(result)
	},
}

func init() {
	maintenanceCmd.Flags().StringVar(&maintOperation, "operation", "", "gc_ttl, node_status, cancel_query or cancel_session (required)")
	maintenanceCmd.Flags().StringVar(&maintTarget, "target", "", "table for gc_ttl")
	maintenanceCmd.Flags().IntVar(&maintTTL, "ttl-seconds", 0, "desired gc.ttlseconds")
	maintenanceCmd.Flags().StringVar(&maintID, "id", "", "query or session id to cancel")
	_ = maintenanceCmd.MarkFlagRequired("operation")
	RootCmd.AddCommand(maintenanceCmd)
}
