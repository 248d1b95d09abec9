package viewstore

import (
	"database/sql"
	"fmt"
	"os"
	"sync"

	"github.com/huangsam/chartscope/internal/contract"
	"github.com/huangsam/chartscope/schema"
)

// stateTable is the name of the table for view state.
const stateTable = "chartscope_view_state"

// Global Manager instance for main logic.
var (
	Manager   = &StoreManager{}
	initOnce  sync.Once
	closeOnce sync.Once
)

// GetStateDBFilePath returns the path to the SQLite DB file for view state.
func GetStateDBFilePath() string {
	return contract.GetStateDBFilePath()
}

// GetSnapshotDBFilePath returns the path to the SQLite DB file for snapshots.
func GetSnapshotDBFilePath() string {
	return contract.GetSnapshotDBFilePath()
}

// InitStores initializes the global manager. An empty backend leaves the
// matching store disabled.
func InitStores(stateBackend schema.DatabaseBackend, stateConnStr string, snapshotBackend schema.DatabaseBackend, snapshotConnStr string) error {
	var initErr error

	initOnce.Do(func() {
		var err error

		var stateStore contract.ViewStore
		if stateBackend != "" {
			stateStore, err = NewStateStore(stateTable, stateBackend, stateConnStr)
			if err != nil {
				initErr = fmt.Errorf("failed to initialize view state store: %w", err)
				return
			}
		}

		var snapshotStore contract.SnapshotStore
		if snapshotBackend != "" {
			snapshotStore, err = NewSnapshotStore(snapshotBackend, snapshotConnStr)
			if err != nil {
				if stateStore != nil {
					_ = stateStore.Close()
				}
				initErr = fmt.Errorf("failed to initialize snapshot store: %w", err)
				return
			}
		}

		Manager.Lock()
		defer Manager.Unlock()
		Manager.state = stateStore
		Manager.snapshots = snapshotStore
	})

	return initErr
}

// CloseStores should be called on application shutdown.
func CloseStores() {
	closeOnce.Do(func() {
		Manager.Lock()
		defer Manager.Unlock()
		if Manager.state != nil {
			_ = Manager.state.Close()
		}
		if Manager.snapshots != nil {
			_ = Manager.snapshots.Close()
		}
	})
}

// ClearState clears the view state for the specified backend.
// For SQLite, it deletes the database file.
// For MySQL and PostgreSQL, it drops the table.
func ClearState(backend schema.DatabaseBackend, dbFilePath, connStr string) error {
	return clearBackend(backend, dbFilePath, connStr, stateTable)
}

// ClearSnapshots clears recorded snapshots together with their schema version.
func ClearSnapshots(backend schema.DatabaseBackend, dbFilePath, connStr string) error {
	return clearBackend(backend, dbFilePath, connStr, snapshotsTable, migrationsTable)
}

func clearBackend(backend schema.DatabaseBackend, dbFilePath, connStr string, tables ...string) error {
	switch backend {
	case schema.SQLiteBackend:
		if dbFilePath == "" {
			return fmt.Errorf("dbFilePath cannot be empty for SQLite backend")
		}
		// Remove the file; ignore if it doesn't exist
		if err := os.Remove(dbFilePath); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to remove SQLite database file %s: %w", dbFilePath, err)
		}
		return nil

	case schema.MySQLBackend, schema.PostgreSQLBackend:
		for _, table := range tables {
			if err := clearSQLTable(backend, connStr, table); err != nil {
				return err
			}
		}
		return nil

	case schema.NoneBackend:
		return nil

	default:
		return fmt.Errorf("unsupported backend for clearing: %s", backend)
	}
}

// clearSQLTable connects to the SQL database and drops the table if it exists.
func clearSQLTable(backend schema.DatabaseBackend, connStr, tableName string) error {
	driver, err := driverName(backend)
	if err != nil {
		return err
	}
	db, err := sql.Open(driver, connStr)
	if err != nil {
		return fmt.Errorf("failed to connect to %s database: %w", backend, err)
	}
	defer func() { _ = db.Close() }()

	if err := db.Ping(); err != nil {
		return fmt.Errorf("failed to ping %s database: %w", backend, err)
	}

	query := fmt.Sprintf("DROP TABLE IF EXISTS %s", quoteTableName(tableName, backend))
	if _, err := db.Exec(query); err != nil {
		return fmt.Errorf("failed to drop table %s: %w", tableName, err)
	}
	return nil
}
