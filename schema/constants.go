package schema

// Custom string types for type safety.
type (
	// OutputMode represents the format of the output.
	OutputMode string

	// DatabaseBackend represents the database backend for view state and snapshots.
	DatabaseBackend string

	// LogLevel represents the verbosity of the logger.
	LogLevel string

	// ColumnType represents the type of a column in an imported dataset.
	ColumnType string
)

// All output modes supported.
const (
	CSVOut     OutputMode = "csv"
	TextOut    OutputMode = "text" // default
	JSONOut    OutputMode = "json"
	YAMLOut    OutputMode = "yaml"
	ParquetOut OutputMode = "parquet"
)

// All database backends supported.
const (
	SQLiteBackend     DatabaseBackend = "sqlite" // default
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
	NoneBackend       DatabaseBackend = "none"
)

// All log levels supported.
const (
	DebugLevel LogLevel = "debug"
	InfoLevel  LogLevel = "info"
	WarnLevel  LogLevel = "warn" // default
	ErrorLevel LogLevel = "error"
)

// Column types found in chart_data.json files.
const (
	LineColumn ColumnType = "line"
	XColumn    ColumnType = "x"
)

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	CSVOut:     {},
	TextOut:    {},
	JSONOut:    {},
	YAMLOut:    {},
	ParquetOut: {},
}

// ValidDatabaseBackends lists all valid database backends.
var ValidDatabaseBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	NoneBackend:       {},
}

// ValidLogLevels lists all valid log levels.
var ValidLogLevels = map[LogLevel]struct{}{
	DebugLevel: {},
	InfoLevel:  {},
	WarnLevel:  {},
	ErrorLevel: {},
}
