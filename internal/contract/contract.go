// Package contract provides interfaces and shared utilities for internal architecture.
package contract

import "github.com/huangsam/chartscope/schema"

// StoreManager defines the interface for managing the persistence stores.
// This allows the storage layer to be mocked for testing.
type StoreManager interface {
	GetStateStore() ViewStore
	GetSnapshotStore() SnapshotStore
}

// ViewStore defines the interface for the per-chart view state storage.
// Values are opaque bytes keyed by chart key.
type ViewStore interface {
	Get(key string) ([]byte, int, int64, error)
	Set(key string, value []byte, version int, timestamp int64) error
	Delete(key string) error
	GetStatus() (schema.StateStatus, error)
	Close() error
}

// SnapshotStore defines the interface for recording view snapshots.
type SnapshotStore interface {
	// RecordSnapshot stores a snapshot and returns its ID
	RecordSnapshot(snapshot schema.ViewSnapshot) (string, error)

	// ListSnapshots returns the newest snapshots first. An empty chart key lists all charts.
	ListSnapshots(chartKey string, limit int) ([]schema.ViewSnapshot, error)

	// GetStatus returns status information about the snapshot store
	GetStatus() (schema.SnapshotStatus, error)

	// Close closes the underlying connection
	Close() error
}
