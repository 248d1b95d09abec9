package contract

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/huangsam/chartscope/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// validInput returns raw input that passes validation and can be tweaked per case.
func validInput() *ConfigRawInput {
	return &ConfigRawInput{
		Left:         0,
		Right:        1,
		Precision:    1,
		Output:       "text",
		Color:        "yes",
		StateBackend: "none",
	}
}

func writeDataFile(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "chart_data.json")
	require.NoError(t, os.WriteFile(path, []byte("[]"), 0o644))
	return path
}

func TestProcessAndValidate(t *testing.T) {
	tests := []struct {
		name        string
		modify      func(*ConfigRawInput)
		expectError string
	}{
		{name: "valid minimal config", modify: func(*ConfigRawInput) {}},
		{
			name:        "invalid precision",
			modify:      func(in *ConfigRawInput) { in.Precision = 3 },
			expectError: "precision must be 1 or 2",
		},
		{
			name:        "invalid output",
			modify:      func(in *ConfigRawInput) { in.Output = "xml" },
			expectError: "invalid output format",
		},
		{
			name:        "invalid color",
			modify:      func(in *ConfigRawInput) { in.Color = "sometimes" },
			expectError: "invalid --color value",
		},
		{
			name:        "negative limit",
			modify:      func(in *ConfigRawInput) { in.Limit = -5 },
			expectError: "limit must not be negative",
		},
		{
			name:        "negative chart",
			modify:      func(in *ConfigRawInput) { in.Chart = -1 },
			expectError: "chart must not be negative",
		},
		{
			name:        "left out of range",
			modify:      func(in *ConfigRawInput) { in.Left = -0.1 },
			expectError: "left must be between 0 and 1",
		},
		{
			name:        "right out of range",
			modify:      func(in *ConfigRawInput) { in.Right = 1.5 },
			expectError: "right must be between 0 and 1",
		},
		{
			name:        "inverted limits",
			modify:      func(in *ConfigRawInput) { in.Left, in.Right = 0.6, 0.4 },
			expectError: "left must be less than right",
		},
		{
			name:        "bad debounce",
			modify:      func(in *ConfigRawInput) { in.Debounce = "soon" },
			expectError: "invalid --debounce value",
		},
		{
			name:        "negative throttle",
			modify:      func(in *ConfigRawInput) { in.Throttle = "-1s" },
			expectError: "invalid --throttle value",
		},
		{
			name:        "invalid log level",
			modify:      func(in *ConfigRawInput) { in.LogLevel = "trace" },
			expectError: "invalid log level",
		},
		{
			name:        "invalid width",
			modify:      func(in *ConfigRawInput) { in.Width = -5 },
			expectError: "width must be between",
		},
		{
			name:        "invalid state backend",
			modify:      func(in *ConfigRawInput) { in.StateBackend = "redis" },
			expectError: "invalid state backend",
		},
		{
			name:        "mysql without connection string",
			modify:      func(in *ConfigRawInput) { in.StateBackend = "mysql" },
			expectError: "state-db-connect is required",
		},
		{
			name:        "invalid snapshot backend",
			modify:      func(in *ConfigRawInput) { in.SnapshotBackend = "mongo" },
			expectError: "invalid snapshot backend",
		},
		{
			name: "sqlite stores sharing a file",
			modify: func(in *ConfigRawInput) {
				in.StateBackend = "sqlite"
				in.SnapshotBackend = "sqlite"
				in.StateDBConnect = "/tmp/same.db"
				in.SnapshotDBConnect = "/tmp/same.db"
			},
			expectError: "must use different SQLite database files",
		},
		{
			name:        "missing data file",
			modify:      func(in *ConfigRawInput) { in.DataPathStr = "/does/not/exist.json" },
			expectError: "failed to read data path",
		},
		{
			name:        "data path is a directory",
			modify:      func(in *ConfigRawInput) { in.DataPathStr = os.TempDir() },
			expectError: "is a directory",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := validInput()
			tt.modify(input)
			cfg := &Config{}
			err := ProcessAndValidate(cfg, input)
			if tt.expectError == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.expectError)
		})
	}
}

func TestProcessAndValidateValues(t *testing.T) {
	dataPath := writeDataFile(t)
	input := &ConfigRawInput{
		DataPathStr:     dataPath,
		Chart:           3,
		Left:            0.25,
		Right:           0.75,
		Debounce:        "0",
		Throttle:        "1s",
		Precision:       2,
		Output:          "JSON",
		OutputFile:      "out.json",
		Width:           120,
		Color:           "no",
		LogLevel:        "DEBUG",
		StateBackend:    "postgresql",
		StateDBConnect:  "host=localhost dbname=charts",
		SnapshotBackend: "sqlite",
		HasLeft:         true,
		Restore:         true,
		Record:          true,
		Points:          true,
		Limit:           5,
		ChartKey:        " abc:1 ",
	}

	cfg := &Config{}
	require.NoError(t, ProcessAndValidate(cfg, input))

	assert.Equal(t, dataPath, cfg.DataPath)
	assert.Equal(t, 3, cfg.ChartIndex)
	assert.Equal(t, 0.25, cfg.Left)
	assert.Equal(t, 0.75, cfg.Right)
	assert.Zero(t, cfg.Debounce)
	assert.Equal(t, time.Second, cfg.Throttle)
	assert.Equal(t, 2, cfg.Precision)
	assert.Equal(t, schema.JSONOut, cfg.Output)
	assert.Equal(t, "out.json", cfg.OutputFile)
	assert.Equal(t, 120, cfg.Width)
	assert.False(t, cfg.UseColors)
	assert.Equal(t, schema.DebugLevel, cfg.LogLevel)
	assert.Equal(t, schema.PostgreSQLBackend, cfg.StateBackend)
	assert.Equal(t, schema.SQLiteBackend, cfg.SnapshotBackend)
	assert.True(t, cfg.HasLeft)
	assert.False(t, cfg.HasRight)
	assert.True(t, cfg.Restore)
	assert.False(t, cfg.Save)
	assert.True(t, cfg.Record)
	assert.True(t, cfg.WithPoints)
	assert.Equal(t, 5, cfg.Limit)
	assert.Equal(t, "abc:1", cfg.ChartKey)

	t.Run("defaults", func(t *testing.T) {
		cfg := &Config{}
		require.NoError(t, ProcessAndValidate(cfg, validInput()))
		assert.Equal(t, DefaultDebounce, cfg.Debounce)
		assert.Equal(t, DefaultThrottle, cfg.Throttle)
		assert.Equal(t, DefaultLogLevel, cfg.LogLevel)
		assert.Empty(t, cfg.DataPath)
		assert.Empty(t, cfg.SnapshotBackend)
	})

	t.Run("data flag is used without positional arg", func(t *testing.T) {
		in := validInput()
		in.Data = dataPath
		cfg := &Config{}
		require.NoError(t, ProcessAndValidate(cfg, in))
		assert.Equal(t, dataPath, cfg.DataPath)
	})
}

func TestValidateDatabaseConnectionString(t *testing.T) {
	tests := []struct {
		name    string
		backend schema.DatabaseBackend
		connStr string
		wantErr bool
	}{
		{"sqlite empty", schema.SQLiteBackend, "", false},
		{"none", schema.NoneBackend, "", false},
		{"mysql valid", schema.MySQLBackend, "root:pw@tcp(localhost:3306)/charts", false},
		{"mysql missing tcp", schema.MySQLBackend, "root:pw@localhost/charts", true},
		{"mysql missing db", schema.MySQLBackend, "root:pw@tcp(localhost:3306)", true},
		{"postgres valid", schema.PostgreSQLBackend, "host=localhost dbname=charts", false},
		{"postgres missing host", schema.PostgreSQLBackend, "dbname=charts", true},
		{"postgres missing dbname", schema.PostgreSQLBackend, "host=localhost", true},
		{"postgres empty", schema.PostgreSQLBackend, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDatabaseConnectionString(tt.backend, "state-db-connect", tt.connStr)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestConfigClone(t *testing.T) {
	cfg := &Config{DataPath: "/data.json", Left: 0.2}
	clone := cfg.Clone()
	clone.Left = 0.4
	assert.Equal(t, 0.2, cfg.Left)
	assert.Equal(t, "/data.json", clone.DataPath)
}
