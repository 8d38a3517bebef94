package cmd

import (
	"github.com/spf13/cobra"

	"crdb-admin/feature/query"
)

var (
	queryStatement string
	queryArgs      []string
)

var queryCmd = &cobra.Command{
	Use:   "query",
	Short: "Run an ad-hoc SQL statement",
	RunE: func(cmd *cobra.Command, args []string) error {
		conn, log, _, err := setup()
		if err != nil {
			return err
		}
		defer conn.Close()

		req := query.Request{Query: queryStatement}
		for _, a := range queryArgs {
			req.Args = append(req.Args, a)
		}

		result, err := query.NewService(conn, log).Run(cmd.Context(), req, checkMode)
		if err != nil {
			return err
		}
		return printResult(result)
	},
}

func init() {
	queryCmd.Flags().StringVar(&queryStatement, "sql", "", "statement to run (required)")
	queryCmd.Flags().StringSliceVar(&queryArgs, "arg", nil, "positional argument, repeatable")
	_ = queryCmd.MarkFlagRequired("sql")
	RootCmd.AddCommand(queryCmd)
}
