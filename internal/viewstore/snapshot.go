package viewstore

import (
	"github.com/huangsam/chartscope/core"
	"github.com/huangsam/chartscope/internal/contract"
	"github.com/huangsam/chartscope/schema"
)

// CaptureSnapshot describes the current view of model under key. The id and
// the time are left for the snapshot store to fill in.
func CaptureSnapshot(model *core.ChartModel, key string) schema.ViewSnapshot {
	span, _ := model.CurrentSegmentSpan(0)
	var enabled []string
	for _, s := range model.Series() {
		if s.Enabled {
			enabled = append(enabled, s.Name)
		}
	}
	return schema.ViewSnapshot{
		ChartKey:      key,
		ChartName:     model.Name(),
		Limits:        model.ViewportLimits(),
		Indices:       model.ViewportIndices(),
		SegmentSpan:   span,
		EnabledSeries: enabled,
	}
}

// RecordView captures model and records it in store. A nil store records
// nothing and returns an empty id.
func RecordView(store contract.SnapshotStore, model *core.ChartModel, key string) (string, error) {
	if store == nil {
		return "", nil
	}
	return store.RecordSnapshot(CaptureSnapshot(model, key))
}
