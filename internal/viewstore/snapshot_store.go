package viewstore

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/huangsam/chartscope/internal/contract"
	"github.com/huangsam/chartscope/schema"
)

// snapshotsTable holds one row per recorded view.
const snapshotsTable = "chartscope_snapshots"

// SnapshotStoreImpl implements the SnapshotStore interface.
type SnapshotStoreImpl struct {
	db      *sql.DB
	backend schema.DatabaseBackend
}

var _ contract.SnapshotStore = &SnapshotStoreImpl{} // Compile-time check

// NewSnapshotStore opens the snapshot store and migrates it to the latest schema.
func NewSnapshotStore(backend schema.DatabaseBackend, connStr string) (contract.SnapshotStore, error) {
	if backend == schema.NoneBackend {
		return &SnapshotStoreImpl{backend: backend}, nil
	}

	db, err := openDB(backend, connStr, GetSnapshotDBFilePath())
	if err != nil {
		return nil, err
	}

	// The migrate instance is left open on purpose: closing it closes db.
	m, err := newMigrate(db, backend)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	if _, err := runMigration(m, -1); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to migrate snapshot store: %w", err)
	}

	return &SnapshotStoreImpl{db: db, backend: backend}, nil
}

// RecordSnapshot stores a snapshot and returns its id. A missing id is
// generated and a zero RecordedAt becomes the current time.
func (ss *SnapshotStoreImpl) RecordSnapshot(snap schema.ViewSnapshot) (string, error) {
	if snap.SnapshotID == "" {
		snap.SnapshotID = uuid.NewString()
	}
	if ss.backend == schema.NoneBackend || ss.db == nil {
		return snap.SnapshotID, nil
	}
	if snap.RecordedAt.IsZero() {
		snap.RecordedAt = time.Now()
	}

	enabled, err := json.Marshal(snap.EnabledSeries)
	if err != nil {
		return "", fmt.Errorf("failed to encode enabled series: %w", err)
	}

	query := fmt.Sprintf(`INSERT INTO %s (snapshot_id, chart_key, chart_name, left_limit, right_limit, left_index, right_index,
		span_min, span_max, span_step, enabled_series, recorded_at) VALUES (%s)`,
		quoteTableName(snapshotsTable, ss.backend), ss.placeholders(12))
	_, err = ss.db.Exec(query,
		snap.SnapshotID, snap.ChartKey, snap.ChartName,
		snap.Limits.Left, snap.Limits.Right,
		snap.Indices.Left, snap.Indices.Right,
		snap.SegmentSpan.Min, snap.SegmentSpan.Max, snap.SegmentSpan.Step,
		string(enabled), snap.RecordedAt.UnixMilli(),
	)
	if err != nil {
		return "", fmt.Errorf("failed to record snapshot: %w", err)
	}
	return snap.SnapshotID, nil
}

// ListSnapshots returns the snapshots of a chart, newest first. An empty
// chartKey lists every chart and a limit of zero or less means no limit.
func (ss *SnapshotStoreImpl) ListSnapshots(chartKey string, limit int) ([]schema.ViewSnapshot, error) {
	if ss.backend == schema.NoneBackend || ss.db == nil {
		return nil, nil
	}

	query := fmt.Sprintf(`SELECT snapshot_id, chart_key, chart_name, left_limit, right_limit, left_index, right_index,
		span_min, span_max, span_step, enabled_series, recorded_at FROM %s`, quoteTableName(snapshotsTable, ss.backend))
	var args []any
	if chartKey != "" {
		args = append(args, chartKey)
		query += " WHERE chart_key = " + placeholder(ss.backend, len(args))
	}
	query += " ORDER BY recorded_at DESC, snapshot_id"
	if limit > 0 {
		args = append(args, limit)
		query += " LIMIT " + placeholder(ss.backend, len(args))
	}

	rows, err := ss.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query snapshots: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var snapshots []schema.ViewSnapshot
	for rows.Next() {
		var snap schema.ViewSnapshot
		var enabled string
		var recordedAt int64
		if err := rows.Scan(
			&snap.SnapshotID, &snap.ChartKey, &snap.ChartName,
			&snap.Limits.Left, &snap.Limits.Right,
			&snap.Indices.Left, &snap.Indices.Right,
			&snap.SegmentSpan.Min, &snap.SegmentSpan.Max, &snap.SegmentSpan.Step,
			&enabled, &recordedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan snapshot: %w", err)
		}
		if err := json.Unmarshal([]byte(enabled), &snap.EnabledSeries); err != nil {
			return nil, fmt.Errorf("failed to decode enabled series of %s: %w", snap.SnapshotID, err)
		}
		snap.RecordedAt = time.UnixMilli(recordedAt)
		snapshots = append(snapshots, snap)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate snapshots: %w", err)
	}
	return snapshots, nil
}

// GetStatus returns status information about the snapshot store.
func (ss *SnapshotStoreImpl) GetStatus() (schema.SnapshotStatus, error) {
	status := schema.SnapshotStatus{
		Backend:   string(ss.backend),
		Connected: ss.db != nil,
	}
	if ss.backend == schema.NoneBackend || ss.db == nil {
		return status, nil
	}

	// Unreadable version info leaves SchemaVersion at zero
	row := ss.db.QueryRow(fmt.Sprintf("SELECT version FROM %s LIMIT 1", quoteTableName(migrationsTable, ss.backend)))
	var version int64
	if err := row.Scan(&version); err == nil && version > 0 {
		status.SchemaVersion = uint(version)
	}

	quoted := quoteTableName(snapshotsTable, ss.backend)
	row = ss.db.QueryRow(fmt.Sprintf("SELECT COUNT(*), COUNT(DISTINCT chart_key) FROM %s", quoted))
	if err := row.Scan(&status.TotalSnapshots, &status.DistinctCharts); err != nil {
		return status, fmt.Errorf("failed to count snapshots: %w", err)
	}
	if status.TotalSnapshots == 0 {
		return status, nil
	}

	var last int64
	row = ss.db.QueryRow(fmt.Sprintf("SELECT MAX(recorded_at) FROM %s", quoted))
	if err := row.Scan(&last); err != nil {
		return status, fmt.Errorf("failed to get last snapshot time: %w", err)
	}
	status.LastSnapshotTime = time.UnixMilli(last)
	return status, nil
}

// Close closes the underlying DB connection.
func (ss *SnapshotStoreImpl) Close() error {
	if ss.db != nil {
		return ss.db.Close()
	}
	return nil
}

func (ss *SnapshotStoreImpl) placeholders(n int) string {
	out := ""
	for i := 1; i <= n; i++ {
		if i > 1 {
			out += ", "
		}
		out += placeholder(ss.backend, i)
	}
	return out
}
