package cmd

import (
	"github.com/spf13/cobra"

	"crdb-admin/feature/db"
)

var (
	dbName  string
	dbState string
	dbOwner string
)

var dbCmd = &cobra.Command{
	Use:   "db",
	Short: "Reconcile database existence and ownership",
	RunE: func(cmd *cobra.Command, args []string) error {
		conn, log, _, err := setup()
		if err != nil {
			return err
		}
		defer conn.Close()

		result, err := db.NewService(conn, log).Reconcile(cmd.Context(), db.Request{
			Name:  dbName,
			State: dbState,
			Owner: dbOwner,
		}, checkMode)
		if err != nil {
			return err
		}
		return printResult(result)
	},
}

func init() {
	dbCmd.Flags().StringVar(&dbName, "name", "", "database name (required)")
	dbCmd.Flags().StringVar(&dbState, "state", "present", "present or absent")
	dbCmd.Flags().StringVar(&dbOwner, "owner", "", "owning role")
	_ = dbCmd.MarkFlagRequired("name")
	RootCmd.AddCommand(dbCmd)
}
