package cmd

import (
	"github.com/spf13/cobra"

	"crdb-admin/feature/info"
)

var (
	infoGather []string
	infoSizes  bool
)

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Gather read-only cluster facts",
	RunE: func(cmd *cobra.Command, args []string) error {
		conn, log, _, err := setup()
		if err != nil {
			return err
		}
		defer conn.Close()

		req := info.Request{IncludeSizes: infoSizes}
		for _, s := range infoGather {
			req.Gather = append(req.Gather, info.Subset(s))
		}

		result, err := info.NewService(conn, log).Gather(cmd.Context(), req)
		if err != nil {
			return err
		}
		return printResult(result)
	},
}

func init() {
	infoCmd.Flags().StringSliceVar(&infoGather, "gather", nil,
		"subsets to gather: cluster, databases, tables, roles, settings, indexes (default all)")
	infoCmd.Flags().BoolVar(&infoSizes, "sizes", false, "include approximate table sizes")
	RootCmd.AddCommand(infoCmd)
}
