package cmd

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"crdb-admin/core/config"
	"crdb-admin/core/database"
	"crdb-admin/core/logger"
)

// checkMode evaluates every module without executing writes.
var checkMode bool

// RootCmd is the base command all modules hang off.
var RootCmd = &cobra.Command{
	Use:          "crdb-admin",
	Short:        "Declarative administration modules for CockroachDB",
	Long:         "crdb-admin reconciles desired state against a CockroachDB cluster: databases, tables, indexes, roles, privileges, cluster settings, backups and more. Each subcommand prints a JSON result on stdout.",
	SilenceUsage: true,
}

func init() {
	RootCmd.PersistentFlags().BoolVar(&checkMode, "check", false,
		"evaluate what would change without executing anything")
}

// Execute runs the root command. Errors are reported through a console
// logger so failures are visible even when config loading itself broke.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		fallback, buildErr := logger.New(logger.Config{Level: "info", Format: "console"})
		if buildErr != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		fallback.Error("command failed", zap.Error(err))
		os.Exit(1)
	}
}

// setup loads configuration, builds the logger and connects to the
// cluster. Every module command starts here.
func setup() (*sql.DB, *zap.Logger, *config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, nil, err
	}
	log, err := logger.New(cfg.Logger)
	if err != nil {
		return nil, nil, nil, err
	}
	db, err := database.Connect(cfg.Database)
	if err != nil {
		return nil, nil, nil, err
	}
	return db, log, cfg, nil
}

// printResult writes the module result as indented JSON on stdout,
// the contract the orchestration side parses.
func printResult(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
