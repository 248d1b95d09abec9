package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/huangsam/chartscope/internal/contract"
	"github.com/huangsam/chartscope/internal/viewstore"
	"github.com/huangsam/chartscope/schema"
)

// All linker flags will be set by goreleaser infra at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// rootCtx is the root context for all operations.
var rootCtx = context.Background()

// cfg will hold the validated, final configuration.
var cfg = &contract.Config{}

// input holds the raw, unvalidated configuration from all sources (file, env, flags).
// Viper will unmarshal into this struct.
var input = &contract.ConfigRawInput{}

// storeManager is the global persistence manager instance.
var storeManager contract.StoreManager = viewstore.Manager

// rootCmd is the command-line entrypoint for all other commands.
var rootCmd = &cobra.Command{
	Use:                "chartscope",
	Short:              "Explore time series charts with adaptive axes.",
	Long:               `Chartscope loads chart_data.json files and shows how a chart's viewport, series and y axis spans move together.`,
	Version:            version,
	SilenceErrors:      true,
	SilenceUsage:       true,
	DisableSuggestions: true,
	Run: func(cmd *cobra.Command, _ []string) {
		_ = cmd.Help()
	},
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	setConfigSource()

	// Set environment variable prefix
	viper.SetEnvPrefix("CHARTSCOPE")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv() // Read in environment variables that match

	// Set defaults in Viper. left and right have none so that IsSet only
	// reports limits given by flag, env or file.
	viper.SetDefault("chart", 0)
	viper.SetDefault("debounce", contract.DefaultDebounce.String())
	viper.SetDefault("throttle", contract.DefaultThrottle.String())
	viper.SetDefault("precision", contract.DefaultPrecision)
	viper.SetDefault("output", schema.TextOut)
	viper.SetDefault("log-level", contract.DefaultLogLevel)
	viper.SetDefault("restore", true)
	viper.SetDefault("save", true)
	viper.SetDefault("limit", contract.DefaultLimit)
	viper.SetDefault("state-backend", schema.SQLiteBackend)
	viper.SetDefault("state-db-connect", "")
	viper.SetDefault("snapshot-backend", "")
	viper.SetDefault("snapshot-db-connect", "")
	viper.SetDefault("color", "yes")
}

// setConfigSource points Viper at --config or at .chartscope.yaml in the
// current or home directory.
func setConfigSource() {
	if configFile := viper.GetString("config"); configFile != "" {
		viper.SetConfigFile(configFile)
		return
	}
	viper.SetConfigName(".chartscope") // Name of config file (without extension)
	viper.SetConfigType("yaml")        // We'll use YAML format
	viper.AddConfigPath(".")           // Look in the current directory
	viper.AddConfigPath("$HOME")       // Look in the home directory
}

// loadConfigFile handles config file loading logic common to all setup functions.
func loadConfigFile() error {
	setConfigSource()
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			// Config file was found but another error was produced
			return fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found, which is fine; we'll use defaults/env/flags.
	}
	return nil
}

// setupConfig unmarshals config and runs validation without touching the stores.
func setupConfig(_ *cobra.Command, args []string) error {
	// 1. Read config file. This merges defaults, file, env, and flags.
	if err := loadConfigFile(); err != nil {
		return err
	}

	// 2. Unmarshal all resolved values from Viper into our raw input struct.
	if err := viper.Unmarshal(input); err != nil {
		return fmt.Errorf("unable to unmarshal config: %w", err)
	}

	// 3. Handle positional arguments and flag state (which Viper doesn't do).
	input.DataPathStr = ""
	if len(args) == 1 {
		input.DataPathStr = args[0]
	}
	input.HasLeft = viper.IsSet("left")
	input.HasRight = viper.IsSet("right")

	// 4. Run all validation and complex parsing.
	// This function populates the global 'cfg' from 'input'.
	if err := contract.ProcessAndValidate(cfg, input); err != nil {
		return err
	}
	return contract.SetLogLevel(string(cfg.LogLevel))
}

// sharedSetup runs setupConfig and initializes the stores.
func sharedSetup(_ context.Context, cmd *cobra.Command, args []string) error {
	if err := setupConfig(cmd, args); err != nil {
		return err
	}

	// 5. Initialize persistence layer with validated config
	if err := viewstore.InitStores(cfg.StateBackend, cfg.StateDBConnect, cfg.SnapshotBackend, cfg.SnapshotDBConnect); err != nil {
		return fmt.Errorf("failed to initialize persistence: %w", err)
	}
	return nil
}

// sharedSetupWrapper wraps sharedSetup to provide context for Cobra's PreRunE.
func sharedSetupWrapper(cmd *cobra.Command, args []string) error {
	return sharedSetup(rootCtx, cmd, args)
}

// Execute runs the root command.
func Execute() error {
	defer viewstore.CloseStores()
	return rootCmd.ExecuteContext(rootCtx)
}
