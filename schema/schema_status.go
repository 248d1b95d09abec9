package schema

import "time"

// StateStatus represents the status of the view state store.
type StateStatus struct {
	Backend         string    `json:"backend"`
	Connected       bool      `json:"connected"`
	TotalEntries    int       `json:"total_entries"`
	LastEntryTime   time.Time `json:"last_entry_time"`
	OldestEntryTime time.Time `json:"oldest_entry_time"`
	TableSizeBytes  int64     `json:"table_size_bytes"`
}

// SnapshotStatus represents the status of the snapshot store.
type SnapshotStatus struct {
	Backend          string    `json:"backend"`
	Connected        bool      `json:"connected"`
	TotalSnapshots   int       `json:"total_snapshots"`
	DistinctCharts   int       `json:"distinct_charts"`
	LastSnapshotTime time.Time `json:"last_snapshot_time"`
	SchemaVersion    uint      `json:"schema_version"`
}

// StoreStatus combines the status of both stores.
type StoreStatus struct {
	State     StateStatus     `json:"state"`
	Snapshots *SnapshotStatus `json:"snapshots,omitempty"`
}
