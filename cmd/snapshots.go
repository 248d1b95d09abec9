package cmd

import (
	"errors"
	"fmt"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/huangsam/chartscope/internal/contract"
	"github.com/huangsam/chartscope/internal/outwriter"
	"github.com/huangsam/chartscope/internal/runner"
	"github.com/huangsam/chartscope/internal/viewstore"
	"github.com/huangsam/chartscope/schema"
)

// errNoSnapshotBackend is returned by snapshot commands without a backend.
var errNoSnapshotBackend = errors.New("snapshot history is disabled: set --snapshot-backend")

// snapshotsSetup validates the configuration and opens the snapshot store only.
func snapshotsSetup(cmd *cobra.Command, args []string) error {
	if err := setupConfig(cmd, args); err != nil {
		return err
	}
	if cfg.SnapshotBackend == "" {
		return errNoSnapshotBackend
	}
	if err := viewstore.InitStores("", "", cfg.SnapshotBackend, cfg.SnapshotDBConnect); err != nil {
		return fmt.Errorf("failed to initialize snapshots: %w", err)
	}
	return nil
}

// snapshotsMigrateSetup validates the configuration without opening the store,
// allowing migrations to run on a fresh database.
func snapshotsMigrateSetup(cmd *cobra.Command, args []string) error {
	if err := setupConfig(cmd, args); err != nil {
		return err
	}
	if cfg.SnapshotBackend == "" {
		return errNoSnapshotBackend
	}
	return nil
}

// snapshotsCmd focused on the snapshot history.
var snapshotsCmd = &cobra.Command{
	Use:   "snapshots",
	Short: "Manage recorded chart views",
	Long: `Manage the snapshot history. A snapshot records the viewport, the visible
series and the y axis span of a chart at one point in time. Chart commands
record one with --record.

Supported backends: SQLite, MySQL, PostgreSQL, or None (disabled by default)

Subcommands:
  list    - Show recorded snapshots, newest first
  export  - Write snapshots to Parquet, CSV or JSON
  clear   - Remove every snapshot
  migrate - Run schema migrations`,
	Example: heredoc.Doc(`
		# Recent snapshots of every chart
		chartscope snapshots list --snapshot-backend sqlite

		# Snapshots of one chart
		chartscope snapshots list chart_data.json --chart 1 --snapshot-backend sqlite
	`),
}

// snapshotsListCmd prints recorded snapshots.
var snapshotsListCmd = &cobra.Command{
	Use:   "list [data]",
	Short: "Show recorded snapshots, newest first",
	Long: `List recorded snapshots, newest first.

With a data path, only snapshots of the chart selected with --chart are shown.
--chart-key selects a chart without loading its dataset.`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: snapshotsSetup,
	Run: func(_ *cobra.Command, _ []string) {
		snapshots, err := listSnapshots()
		if err != nil {
			contract.LogFatal("Failed to list snapshots", err)
		}
		if err := outwriter.PrintHistory(snapshots, cfg); err != nil {
			contract.LogFatal("Failed to print snapshots", err)
		}
	},
}

// snapshotsExportCmd exports recorded snapshots.
var snapshotsExportCmd = &cobra.Command{
	Use:   "export [data]",
	Short: "Export recorded snapshots for BI tools and analytics",
	Long: `Export recorded snapshots in any output format. Parquet output requires --output-file.

Parquet format enables fast querying with DuckDB, Apache Spark or pandas.`,
	Example: heredoc.Doc(`
		# Export every snapshot
		chartscope snapshots export --snapshot-backend sqlite --limit 0 --output parquet --output-file snapshots.parquet

		# Use with DuckDB for analysis
		duckdb -c "SELECT chart_name, count(*) FROM read_parquet('snapshots.parquet') GROUP BY 1"
	`),
	Args:    cobra.MaximumNArgs(1),
	PreRunE: snapshotsSetup,
	Run: func(_ *cobra.Command, _ []string) {
		snapshots, err := listSnapshots()
		if err != nil {
			contract.LogFatal("Failed to list snapshots", err)
		}
		if err := outwriter.PrintHistory(snapshots, cfg); err != nil {
			contract.LogFatal("Failed to export snapshots", err)
		}
	},
}

// snapshotsClearCmd clears the snapshot history.
var snapshotsClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove every recorded snapshot",
	Long: `Delete all snapshots from the configured backend together with their schema version.

For SQLite: Deletes the database file
For MySQL/PostgreSQL: Drops the snapshot and migration tables`,
	Example: heredoc.Doc(`
		chartscope snapshots clear --snapshot-backend sqlite
	`),
	Args:    cobra.NoArgs,
	PreRunE: snapshotsMigrateSetup,
	Run: func(_ *cobra.Command, _ []string) {
		path := sqlitePath(cfg.SnapshotDBConnect, contract.GetSnapshotDBFilePath())
		if err := viewstore.ClearSnapshots(cfg.SnapshotBackend, path, cfg.SnapshotDBConnect); err != nil {
			contract.LogFatal("Failed to clear snapshots", err)
		}
		fmt.Println("Snapshots cleared successfully.")
	},
}

// snapshotsMigrateCmd runs the snapshot store migrations.
var snapshotsMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database schema migrations (upgrades/downgrades)",
	Long: `Manage database schema versions for the snapshot store.

By default, migrates to the latest version. Use --target-version for specific versions.`,
	Example: heredoc.Doc(`
		# Migrate to latest version (default)
		chartscope snapshots migrate --snapshot-backend sqlite

		# Rollback to the initial state
		chartscope snapshots migrate --snapshot-backend sqlite --target-version 0
	`),
	Args:    cobra.NoArgs,
	PreRunE: snapshotsMigrateSetup,
	Run: func(_ *cobra.Command, _ []string) {
		targetVersion := viper.GetInt("target-version")
		result, err := viewstore.MigrateSnapshots(cfg.SnapshotBackend, cfg.SnapshotDBConnect, targetVersion)
		if err != nil {
			contract.LogFatal("Failed to run migrations", err)
		}
		if !result.Changed {
			fmt.Printf("Snapshot schema already at version %d.\n", result.To)
			return
		}
		fmt.Printf("Migrated snapshot schema from version %d to %d.\n", result.From, result.To)
	},
}

// listSnapshots applies the chart selection of the snapshot commands.
func listSnapshots() ([]schema.ViewSnapshot, error) {
	key := cfg.ChartKey
	if key == "" && cfg.DataPath != "" {
		var err error
		if key, err = runner.ChartKey(cfg); err != nil {
			return nil, err
		}
	}
	return storeManager.GetSnapshotStore().ListSnapshots(key, cfg.Limit)
}
