package cmd

import (
	"fmt"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"

	"github.com/huangsam/chartscope/internal/contract"
	"github.com/huangsam/chartscope/internal/outwriter"
	"github.com/huangsam/chartscope/internal/runner"
	"github.com/huangsam/chartscope/internal/viewstore"
	"github.com/huangsam/chartscope/schema"
)

// stateSetup validates the configuration and opens the view state store only.
func stateSetup(cmd *cobra.Command, args []string) error {
	if err := setupConfig(cmd, args); err != nil {
		return err
	}
	if err := viewstore.InitStores(cfg.StateBackend, cfg.StateDBConnect, "", ""); err != nil {
		return fmt.Errorf("failed to initialize view state: %w", err)
	}
	return nil
}

// stateCmd focused on saved chart views.
//
// Note: The clear subcommand only validates the configuration. Opening the
// store first would recreate the table it is about to drop.
var stateCmd = &cobra.Command{
	Use:   "state",
	Short: "Manage saved chart views",
	Long: `Manage the view state store. Chart commands restore the last viewport and
series visibility of a chart from it and save them back when they finish.

Supported backends: SQLite (default), MySQL, PostgreSQL, or None (nothing is kept)

Subcommands:
  status - Show store statistics and connection info
  clear  - Remove every saved view
  forget - Remove the saved view of one chart`,
	Example: heredoc.Doc(`
		# Check store status
		chartscope state status

		# Start over with every chart
		chartscope state clear
	`),
}

// stateStatusCmd shows the status of the stores.
var stateStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display store statistics and connection details",
	Long: `Show the backend, connection status, number of entries and size of the view
state store. The snapshot store is included when --snapshot-backend is set.`,
	Example: heredoc.Doc(`
		# Status of both stores
		chartscope state status --snapshot-backend sqlite
	`),
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		status, err := collectStatus(storeManager)
		if err != nil {
			contract.LogFatal("Failed to get store status", err)
		}
		if err := outwriter.PrintStatus(status, cfg); err != nil {
			contract.LogFatal("Failed to print store status", err)
		}
	},
}

// stateClearCmd clears every saved view.
var stateClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove every saved chart view",
	Long: `Delete all saved views from the configured backend.

For SQLite: Deletes the database file
For MySQL/PostgreSQL: Drops the view state table`,
	Example: heredoc.Doc(`
		# Clear SQLite state (default)
		chartscope state clear

		# Clear MySQL state (set connection string via env variable)
		CHARTSCOPE_STATE_BACKEND=mysql CHARTSCOPE_STATE_DB_CONNECT="..." chartscope state clear
	`),
	Args:    cobra.NoArgs,
	PreRunE: setupConfig,
	Run: func(_ *cobra.Command, _ []string) {
		path := sqlitePath(cfg.StateDBConnect, contract.GetStateDBFilePath())
		if err := viewstore.ClearState(cfg.StateBackend, path, cfg.StateDBConnect); err != nil {
			contract.LogFatal("Failed to clear view state", err)
		}
		fmt.Println("View state cleared successfully.")
	},
}

// stateForgetCmd removes the saved view of one chart.
var stateForgetCmd = &cobra.Command{
	Use:   "forget [data]",
	Short: "Remove the saved view of one chart",
	Long:  `Delete the saved view of the chart selected with --chart, so the next command starts from the full range.`,
	Example: heredoc.Doc(`
		# Forget the view of the third chart
		chartscope state forget chart_data.json --chart 2
	`),
	Args:    cobra.MaximumNArgs(1),
	PreRunE: stateSetup,
	Run: func(_ *cobra.Command, _ []string) {
		key, err := runner.ChartKey(cfg)
		if err != nil {
			contract.LogFatal("Cannot select chart", err)
		}
		store := storeManager.GetStateStore()
		if store == nil {
			contract.LogFatal("Cannot forget view", fmt.Errorf("view state is disabled"))
		}
		if err := store.Delete(key); err != nil {
			contract.LogFatal("Failed to forget view", err)
		}
		fmt.Printf("Forgot the saved view of %s.\n", key)
	},
}

// collectStatus reads the status of the state store and, when enabled, the snapshot store.
func collectStatus(mgr contract.StoreManager) (schema.StoreStatus, error) {
	var status schema.StoreStatus
	if store := mgr.GetStateStore(); store != nil {
		st, err := store.GetStatus()
		if err != nil {
			return status, fmt.Errorf("view state: %w", err)
		}
		status.State = st
	}
	if store := mgr.GetSnapshotStore(); store != nil {
		st, err := store.GetStatus()
		if err != nil {
			return status, fmt.Errorf("snapshots: %w", err)
		}
		status.Snapshots = &st
	}
	return status, nil
}

// sqlitePath is the database file a SQLite store uses for connStr.
func sqlitePath(connStr, defaultPath string) string {
	if connStr != "" {
		return connStr
	}
	return defaultPath
}
