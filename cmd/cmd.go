// Package cmd defines the command-line interface for taskrecon.
package cmd

import (
	"github.com/huangsam/taskrecon/internal/contract"
	"github.com/huangsam/taskrecon/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	// Call initConfig on Cobra's initialization
	cobra.OnInitialize(initConfig)

	// Add primary subcommands to the root command
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(screenOpenCmd)
	rootCmd.AddCommand(taskCmd)
	rootCmd.AddCommand(sourceCmd)
	rootCmd.AddCommand(mcpCmd)
	rootCmd.AddCommand(versionCmd)

	// Add the staging subcommands to the parent source command
	sourceCmd.AddCommand(sourceMigrateCmd)
	sourceCmd.AddCommand(sourceStatusCmd)
	sourceCmd.AddCommand(sourceImportCmd)

	// Bind all persistent flags of rootCmd to Viper
	rootCmd.PersistentFlags().String("source-backend", string(schema.CSVBackend), "Source backend: csv or json or sqlite or mysql or postgresql")
	rootCmd.PersistentFlags().String("source-db-connect", "", "Database connection string for mysql/postgresql (e.g., user:pass@tcp(host:port)/dbname)")
	rootCmd.PersistentFlags().String("task-actions-file", "", "Task actions file name or path (default per backend)")
	rootCmd.PersistentFlags().String("task-history-file", "", "Task history file name or path")
	rootCmd.PersistentFlags().String("users-file", "", "Users file name or path")
	rootCmd.PersistentFlags().String("auto-assignment-file", "", "Auto-assignment log file name or path")
	rootCmd.PersistentFlags().String("open-time-file", "", "Open-time telemetry file name or path")
	rootCmd.PersistentFlags().String("screen-open-file", "", "Screen-open telemetry file name or path")
	rootCmd.PersistentFlags().String("status-field", string(schema.MCStatusField), "History status column used for phases: mc or work")
	rootCmd.PersistentFlags().String("mode", string(schema.AllFilter), "Assignment mode filter: all or auto or manual or unknown")
	rootCmd.PersistentFlags().IntP("limit", "l", contract.DefaultResultLimit, "Number of rows to display (0 = all)")
	rootCmd.PersistentFlags().String("output", string(schema.TextOut), "Output format: text or csv or json or parquet")
	rootCmd.PersistentFlags().String("output-file", "", "Optional path to write output to")
	rootCmd.PersistentFlags().String("profile", "", "Enable profiling and write profiles to files with this prefix")
	rootCmd.PersistentFlags().Int("width", 0, "Terminal width override (0 = auto-detect)")
	rootCmd.PersistentFlags().String("color", "yes", "Enable colored labels in output (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().String("log-level", contract.DefaultLogLevel, "Log level: debug or info or warn or error")
	rootCmd.PersistentFlags().String("log-file", "", "Also write logs to this file, rotated by size")
	rootCmd.PersistentFlags().String("config", "", "Path to config file")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding root flags", err)
	}

	// Bind all flags of sourceMigrateCmd to Viper
	sourceMigrateCmd.Flags().Int("target-version", -1, "Target migration version (-1 means latest, 0 means rollback to initial state)")
	if err := viper.BindPFlags(sourceMigrateCmd.Flags()); err != nil {
		contract.LogFatal("Error binding source migrate flags", err)
	}

	// Bind all flags of sourceImportCmd to Viper
	sourceImportCmd.Flags().String("from", string(schema.CSVBackend), "Format of the files to import: csv or json")
	if err := viper.BindPFlags(sourceImportCmd.Flags()); err != nil {
		contract.LogFatal("Error binding source import flags", err)
	}
}
