// Package cmd defines the command-line interface for chartscope.
package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/huangsam/chartscope/internal/contract"
	"github.com/huangsam/chartscope/schema"
)

func init() {
	// Call initConfig on Cobra's initialization
	cobra.OnInitialize(initConfig)

	// Add primary subcommands to the root command
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(inspectCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(viewCmd)
	rootCmd.AddCommand(spanCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(stateCmd)
	rootCmd.AddCommand(snapshotsCmd)
	rootCmd.AddCommand(mcpCmd)

	// Add the state subcommands to the parent state command
	stateCmd.AddCommand(stateStatusCmd)
	stateCmd.AddCommand(stateClearCmd)
	stateCmd.AddCommand(stateForgetCmd)

	// Add the snapshots subcommands to the parent snapshots command
	snapshotsCmd.AddCommand(snapshotsListCmd)
	snapshotsCmd.AddCommand(snapshotsExportCmd)
	snapshotsCmd.AddCommand(snapshotsClearCmd)
	snapshotsCmd.AddCommand(snapshotsMigrateCmd)

	// Bind all persistent flags of rootCmd to Viper
	rootCmd.PersistentFlags().String("data", "", "Path to chart_data.json (the positional argument wins)")
	rootCmd.PersistentFlags().IntP("chart", "c", 0, "Index of the chart in the dataset")
	rootCmd.PersistentFlags().Float64("left", 0, "Left viewport limit in [0, 1]")
	rootCmd.PersistentFlags().Float64("right", 1, "Right viewport limit in [0, 1]")
	rootCmd.PersistentFlags().String("debounce", contract.DefaultDebounce.String(), "Delay before a viewport change is normalized (0 = immediate)")
	rootCmd.PersistentFlags().String("throttle", contract.DefaultThrottle.String(), "Minimum interval between time label refreshes in the viewer")
	rootCmd.PersistentFlags().String("output", string(schema.TextOut), "Output format: text or csv or json or yaml or parquet")
	rootCmd.PersistentFlags().String("output-file", "", "Optional path to write output to")
	rootCmd.PersistentFlags().Int("precision", contract.DefaultPrecision, "Decimal precision for numeric columns")
	rootCmd.PersistentFlags().Int("width", 0, "Terminal width override (0 = auto-detect)")
	rootCmd.PersistentFlags().String("color", "yes", "Enable colored labels in output (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().String("log-level", string(contract.DefaultLogLevel), "Log level: debug or info or warn or error")
	rootCmd.PersistentFlags().Bool("restore", true, "Start from the saved view of the chart")
	rootCmd.PersistentFlags().Bool("save", true, "Save the final view of the chart")
	rootCmd.PersistentFlags().Bool("record", false, "Record a snapshot of the final view (needs --snapshot-backend)")
	rootCmd.PersistentFlags().String("state-backend", string(schema.SQLiteBackend), "View state backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("state-db-connect", "", "Database connection string for mysql/postgresql (e.g., user:pass@tcp(host:port)/dbname)")
	rootCmd.PersistentFlags().String("snapshot-backend", "", "Snapshot history backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("snapshot-db-connect", "", "Database connection string for snapshot history (must differ from state-db-connect)")
	rootCmd.PersistentFlags().String("config", "", "Path to config file")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding root flags", err)
	}

	// Bind all flags of inspectCmd to Viper
	inspectCmd.Flags().Bool("points", false, "Include the normalized points of the viewport")
	if err := viper.BindPFlags(inspectCmd.Flags()); err != nil {
		contract.LogFatal("Error binding inspect flags", err)
	}

	// Bind all persistent flags of snapshotsCmd to Viper
	snapshotsCmd.PersistentFlags().IntP("limit", "l", contract.DefaultLimit, "Maximum number of snapshots (0 = no limit)")
	snapshotsCmd.PersistentFlags().String("chart-key", "", "Only snapshots of this chart key (a data path with --chart also selects one)")
	if err := viper.BindPFlags(snapshotsCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding snapshots flags", err)
	}

	// Bind all flags of snapshotsMigrateCmd to Viper
	snapshotsMigrateCmd.Flags().Int("target-version", -1, "Target migration version (-1 means latest, 0 means rollback to initial state)")
	if err := viper.BindPFlags(snapshotsMigrateCmd.Flags()); err != nil {
		contract.LogFatal("Error binding snapshots migrate flags", err)
	}
}
