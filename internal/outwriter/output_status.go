package outwriter

import (
	"fmt"
	"io"
	"strconv"

	"github.com/huangsam/chartscope/internal/contract"
	"github.com/huangsam/chartscope/schema"
)

const statusTimeFormat = "2006-01-02 15:04:05"

// PrintStatus outputs the store status, dispatching based on the output format configured.
func PrintStatus(status schema.StoreStatus, cfg *contract.Config) error {
	return dispatch(cfg, output{
		what: "store status",
		data: status,
		csv: func() ([]string, [][]string) {
			return statusCSV(status)
		},
		table: func(w io.Writer) error {
			writeStateStatus(w, status.State)
			if status.Snapshots != nil {
				fmt.Fprintln(w)
				writeSnapshotStatus(w, *status.Snapshots)
			}
			return nil
		},
	})
}

func statusCSV(status schema.StoreStatus) ([]string, [][]string) {
	header := []string{"store", "key", "value"}
	rows := [][]string{
		{"state", "backend", status.State.Backend},
		{"state", "connected", strconv.FormatBool(status.State.Connected)},
		{"state", "total_entries", strconv.Itoa(status.State.TotalEntries)},
		{"state", "table_size_bytes", strconv.FormatInt(status.State.TableSizeBytes, 10)},
	}
	if s := status.Snapshots; s != nil {
		rows = append(rows,
			[]string{"snapshots", "backend", s.Backend},
			[]string{"snapshots", "connected", strconv.FormatBool(s.Connected)},
			[]string{"snapshots", "total_snapshots", strconv.Itoa(s.TotalSnapshots)},
			[]string{"snapshots", "distinct_charts", strconv.Itoa(s.DistinctCharts)},
			[]string{"snapshots", "schema_version", strconv.FormatUint(uint64(s.SchemaVersion), 10)},
		)
	}
	return header, rows
}

func writeStateStatus(w io.Writer, status schema.StateStatus) {
	fmt.Fprintf(w, "State Backend: %s\n", status.Backend)
	fmt.Fprintf(w, "Connected: %t\n", status.Connected)
	if !status.Connected {
		return
	}
	fmt.Fprintf(w, "Total Entries: %d\n", status.TotalEntries)
	if status.TotalEntries > 0 {
		fmt.Fprintf(w, "Last Entry: %s\n", status.LastEntryTime.Format(statusTimeFormat))
		fmt.Fprintf(w, "Oldest Entry: %s\n", status.OldestEntryTime.Format(statusTimeFormat))
	}
	fmt.Fprintf(w, "Table Size: %d bytes\n", status.TableSizeBytes)
}

func writeSnapshotStatus(w io.Writer, status schema.SnapshotStatus) {
	fmt.Fprintf(w, "Snapshot Backend: %s\n", status.Backend)
	fmt.Fprintf(w, "Connected: %t\n", status.Connected)
	if !status.Connected {
		return
	}
	fmt.Fprintf(w, "Schema Version: %d\n", status.SchemaVersion)
	fmt.Fprintf(w, "Total Snapshots: %d\n", status.TotalSnapshots)
	if status.TotalSnapshots > 0 {
		fmt.Fprintf(w, "Charts: %d\n", status.DistinctCharts)
		fmt.Fprintf(w, "Last Snapshot: %s\n", status.LastSnapshotTime.Format(statusTimeFormat))
	}
}
