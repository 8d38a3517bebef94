package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"crdb-admin/feature/table"
)

var (
	tableName          string
	tableSchema        string
	tableState         string
	tableColumnsJSON   string
	tablePartitionJSON string
)

var tableCmd = &cobra.Command{
	Use:   "table",
	Short: "Reconcile table existence",
	RunE: func(cmd *cobra.Command, args []string) error {
		req := table.Request{
			Name:   tableName,
			Schema: tableSchema,
			State:  tableState,
		}
		if tableColumnsJSON != "" {
			if err := json.Unmarshal([]byte(tableColumnsJSON), &req.Columns); err != nil {
				return fmt.Errorf("invalid --columns: %w", err)
			}
		}
		if tablePartitionJSON != "" {
			if err := json.Unmarshal([]byte(tablePartitionJSON), &req.Partition); err != nil {
				return fmt.Errorf("invalid --partition: %w", err)
			}
		}

		conn, log, _, err := setup()
		if err != nil {
			return err
		}
		defer conn.Close()

		result, err := table.NewService(conn, log).Reconcile(cmd.Context(), req, checkMode)
		if err != nil {
			return err
		}
		return printResult(result)
	},
}

func init() {
	tableCmd.Flags().StringVar(&tableName, "name", "", "table name (required)")
	tableCmd.Flags().StringVar(&tableSchema, "schema", "public", "schema name")
	tableCmd.Flags().StringVar(&tableState, "state", "present", "present or absent")
	tableCmd.Flags().StringVar(&tableColumnsJSON, "columns", "",
		`column definitions as JSON, e.g. '[{"name":"id","type":"UUID","primary_key":true}]'`)
	tableCmd.Flags().StringVar(&tablePartitionJSON, "partition", "",
		`partition definition as JSON, e.g. '{"kind":"hash","columns":["id"],"buckets":8}'`)
	_ = tableCmd.MarkFlagRequired("name")
	RootCmd.AddCommand(tableCmd)
}
