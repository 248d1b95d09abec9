package contract

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/huangsam/chartscope/schema"
)

// Default values for configuration.
const (
	DefaultDebounce  = 120 * time.Millisecond
	DefaultThrottle  = 250 * time.Millisecond
	DefaultPrecision = 1
	DefaultLogLevel  = schema.WarnLevel
	DefaultLimit     = 20
	MaxChartWidth    = 1000
)

// DateTimeFormat is the default date time representation.
var DateTimeFormat = time.RFC3339

// Config holds the runtime configuration for a chart session.
// This struct remains the "final, validated" config.
type Config struct {
	DataPath   string // Absolute path to chart_data.json, empty when not needed
	ChartIndex int
	Left       float64
	Right      float64
	HasLeft    bool          // True when --left was given explicitly
	HasRight   bool          // True when --right was given explicitly
	Debounce   time.Duration // Zero means every viewport change is normalized right away
	Throttle   time.Duration
	Precision  int
	Output     schema.OutputMode
	OutputFile string
	Width      int // Terminal width override (0 = auto-detect)
	LogLevel   schema.LogLevel

	Restore    bool // Apply the saved view before explicit limits
	Save       bool // Save the view state after the command
	Record     bool // Record a snapshot of the final view
	WithPoints bool // Include normalized points in inspect output
	Limit      int  // Maximum number of snapshots to list, 0 = no limit
	ChartKey   string

	StateBackend   schema.DatabaseBackend
	StateDBConnect string // Please use env var as this is plaintext

	SnapshotBackend   schema.DatabaseBackend
	SnapshotDBConnect string // Please use env var as this is plaintext

	UseColors bool // Enable colored labels in table output
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	// These are set manually from positional args and flag state, so no tag
	DataPathStr string
	HasLeft     bool
	HasRight    bool

	// --- Fields from rootCmd.PersistentFlags() ---
	Data              string  `mapstructure:"data"`
	Chart             int     `mapstructure:"chart"`
	Left              float64 `mapstructure:"left"`
	Right             float64 `mapstructure:"right"`
	Debounce          string  `mapstructure:"debounce"`
	Throttle          string  `mapstructure:"throttle"`
	Precision         int     `mapstructure:"precision"`
	Output            string  `mapstructure:"output"`
	OutputFile        string  `mapstructure:"output-file"`
	Width             int     `mapstructure:"width"`
	Color             string  `mapstructure:"color"`
	LogLevel          string  `mapstructure:"log-level"`
	Restore           bool    `mapstructure:"restore"`
	Save              bool    `mapstructure:"save"`
	Record            bool    `mapstructure:"record"`
	Points            bool    `mapstructure:"points"`
	Limit             int     `mapstructure:"limit"`
	ChartKey          string  `mapstructure:"chart-key"`
	StateBackend      string  `mapstructure:"state-backend"`
	StateDBConnect    string  `mapstructure:"state-db-connect"`
	SnapshotBackend   string  `mapstructure:"snapshot-backend"`
	SnapshotDBConnect string  `mapstructure:"snapshot-db-connect"`
}

// Clone returns a copy of the Config struct.
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}

// ProcessAndValidate performs all parsing and validation on the raw inputs
// and updates the final Config struct.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput) error {
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	if err := processViewport(cfg, input); err != nil {
		return err
	}
	if err := processDurations(cfg, input); err != nil {
		return err
	}
	if err := validateBackendConfigs(cfg, input); err != nil {
		return err
	}
	return resolveDataPath(cfg, input)
}

// ValidateDatabaseConnectionString validates the format of database connection strings
// for MySQL and PostgreSQL backends. flag names the option the string came from.
func ValidateDatabaseConnectionString(backend schema.DatabaseBackend, flag, connStr string) error {
	switch backend {
	case schema.SQLiteBackend, schema.NoneBackend:
		return nil
	case schema.MySQLBackend:
		if connStr == "" {
			return fmt.Errorf("%s is required when using %s backend", flag, backend)
		}
		if !strings.Contains(connStr, "@tcp(") {
			return fmt.Errorf("MySQL connection string must contain '@tcp(' for host:port specification")
		}
		if !strings.Contains(connStr, "/") {
			return fmt.Errorf("MySQL connection string must contain '/' followed by database name")
		}
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("%s is required when using %s backend", flag, backend)
		}
		if !strings.Contains(connStr, "host=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'host=' parameter")
		}
		if !strings.Contains(connStr, "dbname=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'dbname=' parameter")
		}
	}
	return nil
}

// validateSimpleInputs processes and validates the output related fields.
func validateSimpleInputs(cfg *Config, input *ConfigRawInput) error {
	cfg.OutputFile = input.OutputFile
	cfg.Width = input.Width
	cfg.Restore = input.Restore
	cfg.Save = input.Save
	cfg.Record = input.Record
	cfg.WithPoints = input.Points
	cfg.ChartKey = strings.TrimSpace(input.ChartKey)

	if input.Limit < 0 {
		return fmt.Errorf("limit must not be negative (received %d)", input.Limit)
	}
	cfg.Limit = input.Limit

	colors, err := ParseBoolString(input.Color)
	if err != nil {
		return fmt.Errorf("invalid --color value: %w", err)
	}
	cfg.UseColors = colors

	if input.Precision < 1 || input.Precision > 2 {
		return fmt.Errorf("precision must be 1 or 2 (received %d)", input.Precision)
	}
	cfg.Precision = input.Precision

	cfg.Output = schema.OutputMode(strings.ToLower(input.Output))
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return fmt.Errorf("invalid output format '%s'. must be text, csv, json, yaml, parquet", input.Output)
	}

	if input.Width < 0 || input.Width > MaxChartWidth {
		return fmt.Errorf("width must be between 0 and %d (received %d)", MaxChartWidth, input.Width)
	}

	level := input.LogLevel
	if level == "" {
		level = string(DefaultLogLevel)
	}
	cfg.LogLevel = schema.LogLevel(strings.ToLower(level))
	if _, ok := schema.ValidLogLevels[cfg.LogLevel]; !ok {
		return fmt.Errorf("invalid log level '%s'. must be debug, info, warn, error", input.LogLevel)
	}
	return nil
}

// processViewport validates the chart selection and the initial limits.
func processViewport(cfg *Config, input *ConfigRawInput) error {
	if input.Chart < 0 {
		return fmt.Errorf("chart must not be negative (received %d)", input.Chart)
	}
	cfg.ChartIndex = input.Chart

	for _, v := range []struct {
		flag  string
		value float64
	}{{"left", input.Left}, {"right", input.Right}} {
		if math.IsNaN(v.value) || v.value < 0 || v.value > 1 {
			return fmt.Errorf("%s must be between 0 and 1 (received %v)", v.flag, v.value)
		}
	}
	if input.Left >= input.Right {
		return fmt.Errorf("left must be less than right (received %v >= %v)", input.Left, input.Right)
	}
	cfg.Left = input.Left
	cfg.Right = input.Right
	cfg.HasLeft = input.HasLeft
	cfg.HasRight = input.HasRight
	return nil
}

// processDurations parses the debounce and throttle windows.
func processDurations(cfg *Config, input *ConfigRawInput) error {
	debounce, err := parseDuration(input.Debounce, DefaultDebounce)
	if err != nil {
		return fmt.Errorf("invalid --debounce value: %w", err)
	}
	cfg.Debounce = debounce

	throttle, err := parseDuration(input.Throttle, DefaultThrottle)
	if err != nil {
		return fmt.Errorf("invalid --throttle value: %w", err)
	}
	cfg.Throttle = throttle
	return nil
}

// parseDuration accepts Go durations and a bare "0". Negative values are rejected.
func parseDuration(s string, fallback time.Duration) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return fallback, nil
	}
	if s == "0" {
		return 0, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, err
	}
	if d < 0 {
		return 0, fmt.Errorf("duration must not be negative: %s", s)
	}
	return d, nil
}

// validateBackendConfigs validates state and snapshot backend configurations.
func validateBackendConfigs(cfg *Config, input *ConfigRawInput) error {
	// --- State Backend Validation ---
	cfg.StateBackend = schema.DatabaseBackend(strings.ToLower(input.StateBackend))
	if _, ok := schema.ValidDatabaseBackends[cfg.StateBackend]; !ok {
		return fmt.Errorf("invalid state backend '%s'. must be sqlite, mysql, postgresql, none", input.StateBackend)
	}
	cfg.StateDBConnect = input.StateDBConnect
	if err := ValidateDatabaseConnectionString(cfg.StateBackend, "state-db-connect", cfg.StateDBConnect); err != nil {
		return err
	}

	// --- Snapshot Backend Validation ---
	cfg.SnapshotBackend = schema.DatabaseBackend(strings.ToLower(input.SnapshotBackend))
	if cfg.SnapshotBackend == "" {
		return nil
	}
	if _, ok := schema.ValidDatabaseBackends[cfg.SnapshotBackend]; !ok {
		return fmt.Errorf("invalid snapshot backend '%s'. must be sqlite, mysql, postgresql, none", input.SnapshotBackend)
	}
	cfg.SnapshotDBConnect = input.SnapshotDBConnect
	if err := ValidateDatabaseConnectionString(cfg.SnapshotBackend, "snapshot-db-connect", cfg.SnapshotDBConnect); err != nil {
		return err
	}

	// Both stores create their own tables, so SQLite files must differ
	if cfg.StateBackend == schema.SQLiteBackend && cfg.SnapshotBackend == schema.SQLiteBackend {
		statePath := cfg.StateDBConnect
		if statePath == "" {
			statePath = GetStateDBFilePath()
		}
		snapshotPath := cfg.SnapshotDBConnect
		if snapshotPath == "" {
			snapshotPath = GetSnapshotDBFilePath()
		}
		if statePath == snapshotPath {
			return fmt.Errorf("state and snapshot storage must use different SQLite database files. Both resolve to %q", statePath)
		}
	}
	return nil
}

// resolveDataPath picks the positional path over the flag and resolves it.
func resolveDataPath(cfg *Config, input *ConfigRawInput) error {
	path := input.DataPathStr
	if path == "" {
		path = input.Data
	}
	if path == "" {
		cfg.DataPath = ""
		return nil
	}
	return ProcessDataPath(cfg, path)
}

// ProcessDataPath turns path into an absolute path to a regular file and
// stores it in cfg.DataPath.
func ProcessDataPath(cfg *Config, path string) error {
	expanded, err := ExpandPath(path)
	if err != nil {
		return err
	}
	absPath, err := filepath.Abs(expanded)
	if err != nil {
		return fmt.Errorf("failed to resolve data path %q: %w", path, err)
	}
	info, err := os.Stat(absPath)
	if err != nil {
		return fmt.Errorf("failed to read data path %q: %w", path, err)
	}
	if info.IsDir() {
		return fmt.Errorf("data path %q is a directory, expected a chart_data.json file", path)
	}
	cfg.DataPath = absPath
	return nil
}
