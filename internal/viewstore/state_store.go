package viewstore

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/go-sql-driver/mysql"

	"github.com/huangsam/chartscope/internal/contract"
	"github.com/huangsam/chartscope/schema"
)

// StateStoreImpl keeps the last view of every chart as a keyed blob.
type StateStoreImpl struct {
	db        *sql.DB
	tableName string
	backend   schema.DatabaseBackend
	connStr   string
}

var _ contract.ViewStore = &StateStoreImpl{} // Compile-time check

// NewStateStore initializes a state store on the given backend and creates
// its table when missing.
func NewStateStore(tableName string, backend schema.DatabaseBackend, connStr string) (contract.ViewStore, error) {
	if err := validateTableName(tableName); err != nil {
		return nil, err
	}

	if backend == schema.NoneBackend {
		return &StateStoreImpl{tableName: tableName, backend: backend, connStr: connStr}, nil
	}

	db, err := openDB(backend, connStr, GetStateDBFilePath())
	if err != nil {
		return nil, err
	}

	query := getCreateTableQuery(tableName, backend)
	if _, err := db.Exec(query); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create table %s: %w", tableName, err)
	}

	return &StateStoreImpl{
		db:        db,
		tableName: tableName,
		backend:   backend,
		connStr:   connStr,
	}, nil
}

// getCreateTableQuery returns the CREATE TABLE query for the given backend.
func getCreateTableQuery(tableName string, backend schema.DatabaseBackend) string {
	quoted := quoteTableName(tableName, backend)
	switch backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				state_key VARCHAR(255) PRIMARY KEY,
				state_value BLOB NOT NULL,
				state_version INT NOT NULL,
				state_timestamp BIGINT NOT NULL
			);
		`, quoted)

	case schema.PostgreSQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				state_key TEXT PRIMARY KEY,
				state_value BYTEA NOT NULL,
				state_version INTEGER NOT NULL,
				state_timestamp BIGINT NOT NULL
			);
		`, quoted)

	default: // SQLite
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				state_key TEXT PRIMARY KEY,
				state_value BLOB NOT NULL,
				state_version INTEGER NOT NULL,
				state_timestamp INTEGER NOT NULL
			);
		`, quoted)
	}
}

// Get retrieves a value by key. Missing keys return sql.ErrNoRows.
func (ss *StateStoreImpl) Get(key string) ([]byte, int, int64, error) {
	if ss.backend == schema.NoneBackend || ss.db == nil {
		return nil, 0, 0, sql.ErrNoRows
	}

	var value []byte
	var version int
	var ts int64

	query := fmt.Sprintf(`SELECT state_value, state_version, state_timestamp FROM %s WHERE state_key = %s`,
		quoteTableName(ss.tableName, ss.backend), placeholder(ss.backend, 1))
	if err := ss.db.QueryRow(query, key).Scan(&value, &version, &ts); err != nil {
		return nil, 0, 0, err
	}
	return value, version, ts, nil
}

// Set inserts or replaces a key/value pair.
func (ss *StateStoreImpl) Set(key string, value []byte, version int, timestamp int64) error {
	if ss.backend == schema.NoneBackend || ss.db == nil {
		return nil
	}
	_, err := ss.db.Exec(ss.getUpsertQuery(), key, value, version, timestamp)
	return err
}

// Delete removes a key. Missing keys are not an error.
func (ss *StateStoreImpl) Delete(key string) error {
	if ss.backend == schema.NoneBackend || ss.db == nil {
		return nil
	}
	query := fmt.Sprintf(`DELETE FROM %s WHERE state_key = %s`,
		quoteTableName(ss.tableName, ss.backend), placeholder(ss.backend, 1))
	_, err := ss.db.Exec(query, key)
	return err
}

// getUpsertQuery returns the UPSERT query for the backend.
func (ss *StateStoreImpl) getUpsertQuery() string {
	quoted := quoteTableName(ss.tableName, ss.backend)
	switch ss.backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`INSERT INTO %s (state_key, state_value, state_version, state_timestamp) VALUES (?, ?, ?, ?) AS new
			ON DUPLICATE KEY UPDATE state_value = new.state_value, state_version = new.state_version, state_timestamp = new.state_timestamp`, quoted)

	case schema.PostgreSQLBackend:
		return fmt.Sprintf(`INSERT INTO %s (state_key, state_value, state_version, state_timestamp) VALUES ($1, $2, $3, $4)
			ON CONFLICT (state_key) DO UPDATE SET state_value = EXCLUDED.state_value, state_version = EXCLUDED.state_version, state_timestamp = EXCLUDED.state_timestamp`, quoted)

	default: // SQLite
		return fmt.Sprintf(`INSERT OR REPLACE INTO %s (state_key, state_value, state_version, state_timestamp) VALUES (?, ?, ?, ?)`, quoted)
	}
}

// Close closes the underlying DB connection.
func (ss *StateStoreImpl) Close() error {
	if ss.db != nil {
		return ss.db.Close()
	}
	return nil
}

// GetStatus returns status information about the state store.
func (ss *StateStoreImpl) GetStatus() (schema.StateStatus, error) {
	status := schema.StateStatus{
		Backend:   string(ss.backend),
		Connected: ss.db != nil,
	}
	if ss.backend == schema.NoneBackend || ss.db == nil {
		return status, nil
	}

	quoted := quoteTableName(ss.tableName, ss.backend)

	row := ss.db.QueryRow(fmt.Sprintf("SELECT COUNT(*) FROM %s", quoted))
	if err := row.Scan(&status.TotalEntries); err != nil {
		return status, fmt.Errorf("failed to get total entries: %w", err)
	}
	if status.TotalEntries == 0 {
		return status, nil
	}

	var lastTs, oldestTs int64
	row = ss.db.QueryRow(fmt.Sprintf("SELECT MAX(state_timestamp), MIN(state_timestamp) FROM %s", quoted))
	if err := row.Scan(&lastTs, &oldestTs); err != nil {
		return status, fmt.Errorf("failed to get entry times: %w", err)
	}
	status.LastEntryTime = time.Unix(lastTs, 0)
	status.OldestEntryTime = time.Unix(oldestTs, 0)

	status.TableSizeBytes = ss.tableSize(status.TotalEntries)
	return status, nil
}

// tableSize asks the backend for the on-disk size and falls back to a rough
// estimate of 1KB per entry.
func (ss *StateStoreImpl) tableSize(entries int) int64 {
	estimate := int64(entries) * 1000
	var size int64

	switch ss.backend {
	case schema.SQLiteBackend:
		row := ss.db.QueryRow("SELECT page_count * page_size FROM pragma_page_count(), pragma_page_size()")
		if err := row.Scan(&size); err != nil {
			return 0
		}
		return size

	case schema.MySQLBackend:
		cfg, err := mysql.ParseDSN(ss.connStr)
		if err != nil || cfg.DBName == "" {
			return estimate
		}
		row := ss.db.QueryRow("SELECT data_length + index_length FROM information_schema.tables WHERE table_schema = ? AND table_name = ?",
			cfg.DBName, ss.tableName)
		if err := row.Scan(&size); err != nil {
			return estimate
		}
		return size

	case schema.PostgreSQLBackend:
		row := ss.db.QueryRow("SELECT pg_total_relation_size($1)", ss.tableName)
		if err := row.Scan(&size); err != nil {
			return estimate
		}
		return size
	}
	return estimate
}
