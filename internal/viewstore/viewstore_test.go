package viewstore

import (
	"database/sql"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/huangsam/chartscope/schema"
)

func resetStores(t *testing.T) {
	t.Helper()
	initOnce = sync.Once{}  // Reset for test
	closeOnce = sync.Once{} // Reset for test
	Manager = &StoreManager{}
}

func TestInitStores(t *testing.T) {
	t.Run("sqlite state and snapshots", func(t *testing.T) {
		resetStores(t)
		dir := t.TempDir()
		statePath := filepath.Join(dir, "state.db")
		snapshotPath := filepath.Join(dir, "snapshots.db")

		err := InitStores(schema.SQLiteBackend, statePath, schema.SQLiteBackend, snapshotPath)
		require.NoError(t, err)
		assert.NotNil(t, Manager.GetStateStore())
		assert.NotNil(t, Manager.GetSnapshotStore())

		CloseStores()
		CloseStores()

		_, err = os.Stat(statePath)
		assert.NoError(t, err, "state database file should be created")
		_, err = os.Stat(snapshotPath)
		assert.NoError(t, err, "snapshot database file should be created")
	})

	t.Run("idempotent setup", func(t *testing.T) {
		resetStores(t)
		statePath := filepath.Join(t.TempDir(), "state.db")

		assert.NoError(t, InitStores(schema.SQLiteBackend, statePath, "", ""))
		first := Manager.GetStateStore()
		assert.NoError(t, InitStores(schema.SQLiteBackend, statePath, "", ""))
		assert.Same(t, first, Manager.GetStateStore())
		assert.Nil(t, Manager.GetSnapshotStore(), "snapshots stay disabled without a backend")
		CloseStores()
	})

	t.Run("unsupported backend", func(t *testing.T) {
		resetStores(t)
		err := InitStores("oracle", "", "", "")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to initialize view state store")
	})

	t.Run("none backend", func(t *testing.T) {
		resetStores(t)
		require.NoError(t, InitStores(schema.NoneBackend, "", schema.NoneBackend, ""))
		status, err := Manager.GetStateStore().GetStatus()
		require.NoError(t, err)
		assert.Equal(t, "none", status.Backend)
		assert.False(t, status.Connected)
		CloseStores()
	})
}

func TestValidateTableName(t *testing.T) {
	tests := []struct {
		name      string
		tableName string
		wantErr   bool
	}{
		{name: "valid simple name", tableName: "view_state"},
		{name: "valid name with numbers", tableName: "view_state_2"},
		{name: "valid name starting with underscore", tableName: "_view_state"},
		{name: "valid mixed case", tableName: "ViewState_1"},
		{name: "empty name", tableName: "", wantErr: true},
		{name: "starts with number", tableName: "1_state", wantErr: true},
		{name: "contains dash", tableName: "view-state", wantErr: true},
		{name: "contains space", tableName: "view state", wantErr: true},
		{name: "contains dot", tableName: "view.state", wantErr: true},
		{name: "sql injection attempt", tableName: "state'; DROP TABLE users; --", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateTableName(tt.tableName)
			if tt.wantErr {
				assert.Error(t, err, "validateTableName should error for %q", tt.tableName)
			} else {
				assert.NoError(t, err, "validateTableName should not error for %q", tt.tableName)
			}
		})
	}
}

func TestQuoteTableName(t *testing.T) {
	tests := []struct {
		backend schema.DatabaseBackend
		want    string
	}{
		{schema.SQLiteBackend, `"view_state"`},
		{schema.MySQLBackend, "`view_state`"},
		{schema.PostgreSQLBackend, `"view_state"`},
		{schema.NoneBackend, `"view_state"`},
	}
	for _, tt := range tests {
		t.Run(string(tt.backend), func(t *testing.T) {
			assert.Equal(t, tt.want, quoteTableName("view_state", tt.backend))
		})
	}
}

func TestPlaceholder(t *testing.T) {
	assert.Equal(t, "?", placeholder(schema.SQLiteBackend, 3))
	assert.Equal(t, "?", placeholder(schema.MySQLBackend, 1))
	assert.Equal(t, "$3", placeholder(schema.PostgreSQLBackend, 3))

	ss := &SnapshotStoreImpl{backend: schema.PostgreSQLBackend}
	assert.Equal(t, "$1, $2, $3", ss.placeholders(3))
	ss.backend = schema.MySQLBackend
	assert.Equal(t, "?, ?", ss.placeholders(2))
}

func TestGetUpsertQuery(t *testing.T) {
	tests := []struct {
		backend schema.DatabaseBackend
		want    string
	}{
		{schema.SQLiteBackend, "INSERT OR REPLACE INTO"},
		{schema.MySQLBackend, "ON DUPLICATE KEY UPDATE"},
		{schema.PostgreSQLBackend, "ON CONFLICT (state_key) DO UPDATE"},
	}
	for _, tt := range tests {
		t.Run(string(tt.backend), func(t *testing.T) {
			ss := &StateStoreImpl{tableName: stateTable, backend: tt.backend}
			assert.Contains(t, ss.getUpsertQuery(), tt.want)
		})
	}
}

func TestGetCreateTableQuery(t *testing.T) {
	assert.Contains(t, getCreateTableQuery(stateTable, schema.MySQLBackend), "state_value BLOB NOT NULL")
	assert.Contains(t, getCreateTableQuery(stateTable, schema.PostgreSQLBackend), "state_value BYTEA NOT NULL")
	assert.Contains(t, getCreateTableQuery(stateTable, schema.SQLiteBackend), "state_timestamp INTEGER NOT NULL")
}

func TestNewStateStoreErrors(t *testing.T) {
	_, err := NewStateStore("bad-name", schema.SQLiteBackend, ":memory:")
	assert.Error(t, err)

	_, err = NewStateStore(stateTable, "oracle", "")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported backend")
}

func TestStateStoreSQLite(t *testing.T) {
	store, err := NewStateStore(stateTable, schema.SQLiteBackend, ":memory:")
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	t.Run("empty status", func(t *testing.T) {
		status, err := store.GetStatus()
		require.NoError(t, err)
		assert.Equal(t, "sqlite", status.Backend)
		assert.True(t, status.Connected)
		assert.Equal(t, 0, status.TotalEntries)
	})

	t.Run("set, get and upsert", func(t *testing.T) {
		require.NoError(t, store.Set("abc:0", []byte("first"), 1, 1000))
		require.NoError(t, store.Set("abc:0", []byte("second"), 2, 2000))

		value, version, ts, err := store.Get("abc:0")
		require.NoError(t, err)
		assert.Equal(t, "second", string(value))
		assert.Equal(t, 2, version)
		assert.Equal(t, int64(2000), ts)
	})

	t.Run("missing key", func(t *testing.T) {
		_, _, _, err := store.Get("nope")
		assert.Equal(t, sql.ErrNoRows, err)
	})

	t.Run("status with entries", func(t *testing.T) {
		require.NoError(t, store.Set("abc:1", []byte("x"), 1, 500))
		status, err := store.GetStatus()
		require.NoError(t, err)
		assert.Equal(t, 2, status.TotalEntries)
		assert.Equal(t, time.Unix(2000, 0), status.LastEntryTime)
		assert.Equal(t, time.Unix(500, 0), status.OldestEntryTime)
		assert.Positive(t, status.TableSizeBytes)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, store.Delete("abc:1"))
		require.NoError(t, store.Delete("abc:1"))
		_, _, _, err := store.Get("abc:1")
		assert.Equal(t, sql.ErrNoRows, err)
	})
}

func TestStateStoreNoneBackend(t *testing.T) {
	store, err := NewStateStore(stateTable, schema.NoneBackend, "")
	require.NoError(t, err)

	assert.NoError(t, store.Set("k", []byte("v"), 1, 1))
	_, _, _, err = store.Get("k")
	assert.Equal(t, sql.ErrNoRows, err)
	assert.NoError(t, store.Delete("k"))
	assert.NoError(t, store.Close())
}

func TestViewState(t *testing.T) {
	want := schema.ViewState{
		Limits:  schema.ViewportLimits{Left: 0.25, Right: 0.75},
		Enabled: []bool{true, false},
	}

	t.Run("round trip", func(t *testing.T) {
		store, err := NewStateStore(stateTable, schema.SQLiteBackend, ":memory:")
		require.NoError(t, err)
		defer func() { _ = store.Close() }()

		_, ok, err := LoadViewState(store, "fp:0")
		require.NoError(t, err)
		assert.False(t, ok)

		require.NoError(t, SaveViewState(store, "fp:0", want))
		got, ok, err := LoadViewState(store, "fp:0")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, want, got)
	})

	t.Run("nil store", func(t *testing.T) {
		assert.NoError(t, SaveViewState(nil, "fp:0", want))
		_, ok, err := LoadViewState(nil, "fp:0")
		assert.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("old version is ignored", func(t *testing.T) {
		store := &MockViewStore{}
		store.On("Get", "fp:0").Return([]byte(`{}`), stateVersion+1, int64(0), nil)
		_, ok, err := LoadViewState(store, "fp:0")
		assert.NoError(t, err)
		assert.False(t, ok)
		store.AssertExpectations(t)
	})

	t.Run("corrupt payload is ignored", func(t *testing.T) {
		store := &MockViewStore{}
		store.On("Get", "fp:0").Return([]byte(`{`), stateVersion, int64(0), nil)
		_, ok, err := LoadViewState(store, "fp:0")
		assert.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("read error", func(t *testing.T) {
		store := &MockViewStore{}
		store.On("Get", "fp:0").Return(nil, 0, int64(0), assert.AnError)
		_, _, err := LoadViewState(store, "fp:0")
		assert.ErrorIs(t, err, assert.AnError)
	})

	t.Run("write error", func(t *testing.T) {
		store := &MockViewStore{}
		store.On("Set", "fp:0", mock.Anything, stateVersion, mock.Anything).Return(assert.AnError)
		err := SaveViewState(store, "fp:0", want)
		assert.ErrorIs(t, err, assert.AnError)
	})
}

func TestClearState(t *testing.T) {
	t.Run("sqlite removes file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "state.db")
		store, err := NewStateStore(stateTable, schema.SQLiteBackend, path)
		require.NoError(t, err)
		require.NoError(t, store.Close())

		require.NoError(t, ClearState(schema.SQLiteBackend, path, ""))
		_, err = os.Stat(path)
		assert.True(t, os.IsNotExist(err))

		assert.NoError(t, ClearState(schema.SQLiteBackend, path, ""), "missing file is fine")
	})

	t.Run("sqlite needs a path", func(t *testing.T) {
		assert.Error(t, ClearState(schema.SQLiteBackend, "", ""))
	})

	t.Run("none backend", func(t *testing.T) {
		assert.NoError(t, ClearSnapshots(schema.NoneBackend, "", ""))
	})

	t.Run("unsupported backend", func(t *testing.T) {
		assert.Error(t, ClearSnapshots("oracle", "", ""))
	})
}

func TestMockStoreManager(t *testing.T) {
	state := &MockViewStore{}
	mgr := &MockStoreManager{}
	mgr.On("GetStateStore").Return(state)
	mgr.On("GetSnapshotStore").Return(nil)

	assert.Same(t, state, mgr.GetStateStore())
	assert.Nil(t, mgr.GetSnapshotStore())
	mgr.AssertExpectations(t)
}
