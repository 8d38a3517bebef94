package cmd

import (
	"github.com/spf13/cobra"

	"crdb-admin/feature/statistics"
)

var (
	statsName       string
	statsTable      string
	statsColumns    []string
	statsAOST       string
	statsThrottling float64
	statsBuckets    int
)

var statisticsCmd = &cobra.Command{
	Use:   "statistics",
	Short: "Reconcile optimizer table statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		conn, log, _, err := setup()
		if err != nil {
			return err
		}
		defer conn.Close()

		result, err := statistics.NewService(conn, log).Reconcile(cmd.Context(), statistics.Request{
			Name:             statsName,
			Table:            statsTable,
			Columns:          statsColumns,
			AsOfSystemTime:   statsAOST,
			Throttling:       statsThrottling,
			HistogramBuckets: statsBuckets,
		}, checkMode)
		if err != nil {
			return err
		}
		return printResult(result)
	},
}

func init() {
	statisticsCmd.Flags().StringVar(&statsName, "name", "", "statistics name (required)")
	statisticsCmd.Flags().StringVar(&statsTable, "table", "", "table to collect from (required)")
	statisticsCmd.Flags().StringSliceVar(&statsColumns, "columns", nil, "columns to collect over")
	statisticsCmd.Flags().StringVar(&statsAOST, "as-of", "", "AS OF SYSTEM TIME timestamp")
	statisticsCmd.Flags().Float64Var(&statsThrottling, "throttling", 0, "collection throttling, 0..1")
	statisticsCmd.Flags().IntVar(&statsBuckets, "histogram-buckets", 0, "histogram bucket count")
	_ = statisticsCmd.MarkFlagRequired("name")
	_ = statisticsCmd.MarkFlagRequired("table")
	RootCmd.AddCommand(statisticsCmd)
}
