package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/huangsam/taskrecon/internal/contract"
	"github.com/huangsam/taskrecon/internal/source"
	"github.com/huangsam/taskrecon/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// sourceCmd manages the SQL staging source.
//
// Note: source subcommands use minimal initialization (sourceDBSetup) instead of
// the full sharedSetup used by the report commands. They only need a database
// backend and its connection string.
var sourceCmd = &cobra.Command{
	Use:   "source",
	Short: "Manage the SQL staging source",
	Long: `Manage the staging tables that let taskrecon read its six collections from a database.

Supported backends: SQLite (default path ~/.taskrecon_source.db), MySQL, PostgreSQL.

Subcommands:
  migrate - Create or upgrade the staging tables
  status  - Show schema version and row counts
  import  - Replace the staging tables with a directory of CSV or JSON exports

Examples:
  TASKRECON_SOURCE_BACKEND=sqlite taskrecon source migrate
  TASKRECON_SOURCE_BACKEND=sqlite taskrecon source import ./exports
  TASKRECON_SOURCE_BACKEND=sqlite taskrecon report`,
}

// sourceMigrateCmd runs database migrations for the staging tables.
var sourceMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run staging schema migrations (upgrades/downgrades)",
	Long: `Manage schema versions of the staging tables.

By default, migrates to the latest version. Use --target-version for specific versions.

Examples:
  # Migrate to latest version (default)
  taskrecon source migrate --source-backend sqlite

  # Rollback to initial state
  taskrecon source migrate --source-backend sqlite --target-version 0`,
	PreRunE: sourceDBSetup,
	Run: func(_ *cobra.Command, _ []string) {
		targetVersion := viper.GetInt("target-version")
		if err := source.Migrate(cfg.SourceBackend, cfg.SourceDBConnect, targetVersion); err != nil {
			contract.LogFatal("Failed to run migrations", err)
		}
	},
}

// sourceStatusCmd shows staging status.
var sourceStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display staging schema version and table sizes",
	Long: `Show the staging database connection state, schema version and the number
of rows in each staging table.

Examples:
  taskrecon source status --source-backend sqlite`,
	PreRunE: sourceDBSetup,
	Run: func(_ *cobra.Command, _ []string) {
		status, err := source.Status(rootCtx, cfg.SourceBackend, cfg.SourceDBConnect)
		if err != nil {
			contract.LogFatal("Failed to get source status", err)
		}
		source.PrintSourceStatus(os.Stdout, status)
	},
}

// sourceImportCmd loads file exports into the staging tables.
var sourceImportCmd = &cobra.Command{
	Use:   "import [source-dir]",
	Short: "Replace the staging tables with file exports",
	Long: `Read the six collections from a directory of CSV or JSON exports and write
them into the staging tables in one transaction. Existing staging rows are replaced.

The files are validated the same way a file-backed report validates them, so a
missing file or key column leaves the staging tables untouched.

Examples:
  taskrecon source import ./exports --source-backend sqlite
  taskrecon source import ./exports --from json --source-backend postgresql --source-db-connect "host=... dbname=..."`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sourceDBSetup,
	Run: func(_ *cobra.Command, args []string) {
		from := schema.SourceBackend(strings.ToLower(viper.GetString("from")))
		if from != schema.CSVBackend && from != schema.JSONBackend {
			contract.LogFatal("Invalid import format", fmt.Errorf("--from must be csv or json (received %q)", from))
		}

		dirArg := ""
		if len(args) == 1 {
			dirArg = args[0]
		}
		dir, err := contract.ResolveSourceDir(dirArg)
		if err != nil {
			contract.LogFatal("Invalid source directory", err)
		}

		counts, err := source.Import(rootCtx, cfg.SourceBackend, cfg.SourceDBConnect, dir, contract.ResolveSourceFiles(from, input))
		if err != nil {
			contract.LogFatal("Failed to import source files", err)
		}
		fmt.Printf("Imported %s exports from %s:\n", from, dir)
		source.PrintImportSummary(os.Stdout, counts)
	},
}
