package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"math"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/huangsam/chartscope/core"
	"github.com/huangsam/chartscope/core/algo"
	"github.com/huangsam/chartscope/internal/contract"
	"github.com/huangsam/chartscope/internal/dataset"
	"github.com/huangsam/chartscope/internal/viewstore"
	"github.com/huangsam/chartscope/schema"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg  *contract.Config
	mgr      contract.StoreManager
	sessions *sessionTable
}

func newToolHandler(baseCfg *contract.Config, mgr contract.StoreManager) *toolHandler {
	return &toolHandler{
		baseCfg:  baseCfg,
		mgr:      mgr,
		sessions: newSessionTable(maxSessions),
	}
}

// openResult is returned by open_chart.
type openResult struct {
	Session  string               `json:"session"`
	ChartKey string               `json:"chart_key"`
	Restored bool                 `json:"restored"`
	View     schema.InspectResult `json:"view"`
}

// toggleResult is returned by toggle_series.
type toggleResult struct {
	Series  int                  `json:"series"`
	Enabled bool                 `json:"enabled"`
	View    schema.InspectResult `json:"view"`
}

func (h *toolHandler) handleListCharts(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ds, err := h.loadDataset(request.GetString("data_path", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(ds.Summaries())
}

func (h *toolHandler) handleOpenChart(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	index := request.GetInt("chart", -1)
	if index < 0 {
		return mcp.NewToolResultError("chart must be a non-negative index"), nil
	}
	ds, err := h.loadDataset(request.GetString("data_path", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	chart, err := ds.Chart(index)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to open chart: %v", err)), nil
	}

	// Every call answers with the normalized view, so nothing is debounced here
	model, err := chart.NewModel(core.WithImmediateNormalization(), core.WithLogger(contract.Logger()))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to build chart: %v", err)), nil
	}

	key := ds.Key(index)
	restored := false
	if request.GetBool("restore", true) {
		state, ok, err := viewstore.LoadViewState(h.stateStore(), key)
		if err != nil {
			contract.Logger().Warn("could not restore view state", "key", key, "err", err)
		}
		if ok {
			model.ApplyViewState(state)
			restored = true
		}
	}

	id, err := h.sessions.add(&session{key: key, model: model})
	if err != nil {
		model.Close()
		return mcp.NewToolResultError(err.Error()), nil
	}
	contract.Logger().Debug("opened chart", "session", id, "key", key, "restored", restored)

	return jsonResult(openResult{
		Session:  id,
		ChartKey: key,
		Restored: restored,
		View:     model.Inspect(false),
	})
}

func (h *toolHandler) handleSetViewport(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sess, errResult := h.lookup(request)
	if errResult != nil {
		return errResult, nil
	}
	left := request.GetFloat("left", math.NaN())
	right := request.GetFloat("right", math.NaN())
	if err := validateLimits(left, right); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	sess.model.SetBothLimits(left, right)
	return jsonResult(sess.model.Inspect(false))
}

func (h *toolHandler) handleToggleSeries(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sess, errResult := h.lookup(request)
	if errResult != nil {
		return errResult, nil
	}
	idx := request.GetInt("series", -1)
	series := sess.model.Series()
	if idx < 0 || idx >= len(series) {
		return mcp.NewToolResultError(fmt.Sprintf("series must be between 0 and %d (received %d)", len(series)-1, idx)), nil
	}
	if !sess.model.ToggleSeries(idx) {
		return mcp.NewToolResultError(fmt.Sprintf("cannot hide %s: it is the last visible series", series[idx].Name)), nil
	}

	view := sess.model.Inspect(false)
	return jsonResult(toggleResult{
		Series:  idx,
		Enabled: view.Series[idx].Enabled,
		View:    view,
	})
}

func (h *toolHandler) handleGetSegment(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sess, errResult := h.lookup(request)
	if errResult != nil {
		return errResult, nil
	}
	return jsonResult(sess.model.Inspect(request.GetBool("points", false)))
}

func (h *toolHandler) handleGetPoint(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sess, errResult := h.lookup(request)
	if errResult != nil {
		return errResult, nil
	}
	p := request.GetFloat("position", math.NaN())
	if math.IsNaN(p) || p < 0 || p > 1 {
		return mcp.NewToolResultError("position must be between 0 and 1"), nil
	}
	reading, ok := sess.model.PointAt(p)
	if !ok {
		return mcp.NewToolResultError(fmt.Sprintf("no point at or after %v", p)), nil
	}
	return jsonResult(reading)
}

func (h *toolHandler) handleCalculateSpan(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	lo := request.GetFloat("min", math.NaN())
	hi := request.GetFloat("max", math.NaN())
	for _, v := range []float64{lo, hi} {
		if math.IsNaN(v) || math.IsInf(v, 0) || v != math.Trunc(v) {
			return mcp.NewToolResultError("min and max must be whole numbers"), nil
		}
		if math.Abs(v) > algo.MaxAxisValue {
			return mcp.NewToolResultError(fmt.Sprintf("min and max must be within ±%d", algo.MaxAxisValue)), nil
		}
	}
	if lo > hi {
		return mcp.NewToolResultError(fmt.Sprintf("min must not exceed max (received %v > %v)", lo, hi)), nil
	}
	return jsonResult(algo.DescribeSpan(int(lo), int(hi)))
}

func (h *toolHandler) handleRecordSnapshot(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sess, errResult := h.lookup(request)
	if errResult != nil {
		return errResult, nil
	}
	store := h.snapshotStore()
	if store == nil {
		return mcp.NewToolResultError("snapshot history is disabled: configure --snapshot-backend"), nil
	}

	snap := viewstore.CaptureSnapshot(sess.model, sess.key)
	id, err := store.RecordSnapshot(snap)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to record snapshot: %v", err)), nil
	}
	snap.SnapshotID = id
	return jsonResult(snap)
}

func (h *toolHandler) handleCloseChart(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := request.GetString("session", "")
	sess, ok := h.sessions.remove(id)
	if !ok {
		return mcp.NewToolResultError(fmt.Sprintf("unknown session %q", id)), nil
	}
	h.release(sess)
	return mcp.NewToolResultText(fmt.Sprintf("closed %s", sess.model.Name())), nil
}

// closeAll saves and closes every open chart.
func (h *toolHandler) closeAll() {
	for _, sess := range h.sessions.drain() {
		h.release(sess)
	}
}

// release saves the view of sess and closes its model.
func (h *toolHandler) release(sess *session) {
	if err := viewstore.SaveViewState(h.stateStore(), sess.key, sess.model.ViewState()); err != nil {
		contract.Logger().Warn("could not save view state", "key", sess.key, "err", err)
	}
	sess.model.Close()
}

// lookup resolves the session argument. The returned result is non-nil when
// the session is missing.
func (h *toolHandler) lookup(request mcp.CallToolRequest) (*session, *mcp.CallToolResult) {
	id := request.GetString("session", "")
	if id == "" {
		return nil, mcp.NewToolResultError("session is required")
	}
	sess, ok := h.sessions.get(id)
	if !ok {
		return nil, mcp.NewToolResultError(fmt.Sprintf("unknown session %q", id))
	}
	return sess, nil
}

// loadDataset loads path, or the configured dataset when path is empty.
func (h *toolHandler) loadDataset(path string) (*dataset.Dataset, error) {
	cfg := h.baseCfg.Clone()
	if path != "" {
		if err := contract.ProcessDataPath(cfg, path); err != nil {
			return nil, err
		}
	}
	if cfg.DataPath == "" {
		return nil, fmt.Errorf("no dataset configured: pass data_path")
	}
	ds, err := dataset.Load(cfg.DataPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load dataset: %w", err)
	}
	return ds, nil
}

func (h *toolHandler) stateStore() contract.ViewStore {
	if h.mgr == nil {
		return nil
	}
	return h.mgr.GetStateStore()
}

func (h *toolHandler) snapshotStore() contract.SnapshotStore {
	if h.mgr == nil {
		return nil
	}
	return h.mgr.GetSnapshotStore()
}

func validateLimits(left, right float64) error {
	if math.IsNaN(left) || math.IsNaN(right) {
		return fmt.Errorf("left and right are required")
	}
	if left < 0 || right > 1 {
		return fmt.Errorf("limits must be between 0 and 1 (received %v, %v)", left, right)
	}
	if left >= right {
		return fmt.Errorf("left must be less than right (received %v >= %v)", left, right)
	}
	return nil
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	jsonData, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to encode result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(jsonData)), nil
}
