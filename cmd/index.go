package cmd

import (
	"github.com/spf13/cobra"

	"crdb-admin/feature/index"
)

var (
	indexName    string
	indexTable   string
	indexState   string
	indexColumns []string
	indexUnique  bool
	indexStoring []string
	indexWhere   string
)

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Reconcile secondary indexes",
	RunE: func(cmd *cobra.Command, args []string) error {
		conn, log, _, err := setup()
		if err != nil {
			return err
		}
		defer conn.Close()

		result, err := index.NewService(conn, log).Reconcile(cmd.Context(), index.Request{
			Name:    indexName,
			Table:   indexTable,
			State:   indexState,
			Columns: indexColumns,
			Unique:  indexUnique,
			Storing: indexStoring,
			Where:   indexWhere,
		}, checkMode)
		if err != nil {
			return err
		}
		return printResult(result)
	},
}

func init() {
	indexCmd.Flags().StringVar(&indexName, "name", "", "index name (required)")
	indexCmd.Flags().StringVar(&indexTable, "table", "", "table the index belongs to (required)")
	indexCmd.Flags().StringVar(&indexState, "state", "present", "present or absent")
	indexCmd.Flags().StringSliceVar(&indexColumns, "columns", nil, "indexed columns")
	indexCmd.Flags().BoolVar(&indexUnique, "unique", false, "create a unique index")
	indexCmd.Flags().StringSliceVar(&indexStoring, "storing", nil, "covered (stored) columns")
	indexCmd.Flags().StringVar(&indexWhere, "where", "", "partial index predicate")
	_ = indexCmd.MarkFlagRequired("name")
	_ = indexCmd.MarkFlagRequired("table")
	RootCmd.AddCommand(indexCmd)
}
