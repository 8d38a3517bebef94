package cmd

import (
	"github.com/spf13/cobra"

	"crdb-admin/feature/user"
)

var (
	userName     string
	userState    string
	userLogin    bool
	userPassword string
	userPriv     string
)

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Reconcile roles and their database grants",
	RunE: func(cmd *cobra.Command, args []string) error {
		conn, log, _, err := setup()
		if err != nil {
			return err
		}
		defer conn.Close()

		result, err := user.NewService(conn, log).Reconcile(cmd.Context(), user.Request{
			Name:     userName,
			State:    userState,
			Login:    userLogin,
			Password: userPassword,
			Priv:     userPriv,
		}, checkMode)
		if err != nil {
			return err
		}
		return printResult(result)
	},
}

func init() {
	userCmd.Flags().StringVar(&userName, "name", "", "role name (required)")
	userCmd.Flags().StringVar(&userState, "state", "present", "present or absent")
	userCmd.Flags().BoolVar(&userLogin, "login", false, "allow the role to log in")
	userCmd.Flags().StringVar(&userPassword, "password", "", "role password")
	userCmd.Flags().StringVar(&userPriv, "priv", "", "database grant shorthand, db:priv1,priv2")
	_ = userCmd.MarkFlagRequired("name")
	RootCmd.AddCommand(userCmd)
}
