package cmd

import (
	"github.com/spf13/cobra"

	"crdb-admin/feature/privilege"
)

var (
	privState       string
	privPrivileges  []string
	privObjectType  string
	privObjectName  string
	privSchema      string
	privRoles       []string
	privGrantOption bool
	privCascade     bool
)

var privilegeCmd = &cobra.Command{
	Use:   "privilege",
	Short: "Reconcile grants on databases, schemas, tables and other objects",
	RunE: func(cmd *cobra.Command, args []string) error {
		conn, log, _, err := setup()
		if err != nil {
			return err
		}
		defer conn.Close()

		result, err := privilege.NewService(conn, log).Reconcile(cmd.Context(), privilege.Request{
			State:           privilege.State(privState),
			Privileges:      privPrivileges,
			ObjectType:      privilege.ObjectType(privObjectType),
			ObjectName:      privObjectName,
			Schema:          privSchema,
			Roles:           privRoles,
			WithGrantOption: privGrantOption,
			Cascade:         privCascade,
		}, checkMode)
		if err != nil {
			return err
		}
		return printResult(result)
	},
}

func init() {
	privilegeCmd.Flags().StringVar(&privState, "state", "grant", "grant or revoke")
	privilegeCmd.Flags().StringSliceVar(&privPrivileges, "privileges", nil, "privileges to reconcile (required)")
	privilegeCmd.Flags().StringVar(&privObjectType, "type", "table", "object type: database, schema, table, view, sequence, type, function")
	privilegeCmd.Flags().StringVar(&privObjectName, "name", "", "object name (required)")
	privilegeCmd.Flags().StringVar(&privSchema, "schema", "", "schema of the object, default public")
	privilegeCmd.Flags().StringSliceVar(&privRoles, "roles", nil, "roles to reconcile (required)")
	privilegeCmd.Flags().BoolVar(&privGrantOption, "grant-option", false, "require WITH GRANT OPTION")
	privilegeCmd.Flags().BoolVar(&privCascade, "cascade", false, "revoke with CASCADE")
	_ = privilegeCmd.MarkFlagRequired("privileges")
	_ = privilegeCmd.MarkFlagRequired("name")
	_ = privilegeCmd.MarkFlagRequired("roles")
	RootCmd.AddCommand(privilegeCmd)
}
