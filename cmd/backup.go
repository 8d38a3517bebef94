package cmd

import (
	"github.com/spf13/cobra"

	"crdb-admin/core/storage"
	"crdb-admin/feature/backup"
)

var (
	backupOperation  string
	backupURI        string
	backupDatabases  []string
	backupTables     []string
	backupAOST       string
	backupIncrement  []string
	backupKMS        string
	backupPassphrase string
	backupDetached   bool
	backupUniquePath bool
	backupVerify     bool
)

var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Run backup, restore and backup listing",
	RunE: func(cmd *cobra.Command, args []string) error {
		conn, log, cfg, err := setup()
		if err != nil {
			return err
		}
		defer conn.Close()

		var store storage.Client
		if cfg.Storage.Enabled() {
			if store, err = storage.NewClient(cfg.Storage); err != nil {
				return err
			}
		}

		result, err := backup.NewService(conn, store, log).Run(cmd.Context(), backup.Request{
			Operation:            backupOperation,
			URI:                  backupURI,
			Databases:            backupDatabases,
			Tables:               backupTables,
			AsOfSystemTime:       backupAOST,
			IncrementalFrom:      backupIncrement,
			KMSURI:               backupKMS,
			EncryptionPassphrase: backupPassphrase,
			Detached:             backupDetached,
			UniqueSubPath:        backupUniquePath,
			VerifyDestination:    backupVerify,
		}, checkMode)
		if err != nil {
			return err
		}
		return printResult(result)
	},
}

func init() {
	backupCmd.Flags().StringVar(&backupOperation, "operation", "backup", "backup, restore or list")
	backupCmd.Flags().StringVar(&backupURI, "uri", "", "destination or source URI (required)")
	backupCmd.Flags().StringSliceVar(&backupDatabases, "databases", nil, "databases to back up or restore")
	backupCmd.Flags().StringSliceVar(&backupTables, "tables", nil, "tables to back up or restore")
	backupCmd.Flags().StringVar(&backupAOST, "as-of", "", "AS OF SYSTEM TIME timestamp")
	backupCmd.Flags().StringSliceVar(&backupIncrement, "incremental-from", nil, "prior backup URIs")
	backupCmd.Flags().StringVar(&backupKMS, "kms", "", "KMS URI for encryption")
	backupCmd.Flags().StringVar(&backupPassphrase, "passphrase", "", "encryption passphrase")
	backupCmd.Flags().BoolVar(&backupDetached, "detached", false, "run as a background job")
	backupCmd.Flags().BoolVar(&backupUniquePath, "unique-sub-path", false, "append a timestamped sub-path")
	backupCmd.Flags().BoolVar(&backupVerify, "verify-destination", false, "verify the s3 bucket exists first")
	_ = backupCmd.MarkFlagRequired("uri")
	RootCmd.AddCommand(backupCmd)
}
