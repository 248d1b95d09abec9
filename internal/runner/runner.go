// Package runner has the entry points behind the chart commands. Each one
// loads the configured dataset, drives a chart model and prints the result.
package runner

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/huangsam/chartscope/core"
	"github.com/huangsam/chartscope/core/algo"
	"github.com/huangsam/chartscope/internal/contract"
	"github.com/huangsam/chartscope/internal/dataset"
	"github.com/huangsam/chartscope/internal/outwriter"
	"github.com/huangsam/chartscope/internal/parquet"
	"github.com/huangsam/chartscope/internal/tui"
	"github.com/huangsam/chartscope/internal/viewstore"
)

// ExecutorFunc defines the function signature for executing the chart commands.
type ExecutorFunc func(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) error

// errNoDataset is returned when a chart command runs without a data path.
var errNoDataset = errors.New("a chart_data.json path is required (positional argument or --data)")

// session is one chart opened from the configured dataset.
type session struct {
	key      string
	model    *core.ChartModel
	restored bool
}

// ExecuteList prints a summary of every chart in the dataset.
func ExecuteList(_ context.Context, cfg *contract.Config, _ contract.StoreManager) error {
	ds, err := loadDataset(cfg)
	if err != nil {
		return err
	}
	return outwriter.PrintCharts(ds.Summaries(), cfg)
}

// ExecuteInspect opens the configured chart, applies the saved and explicit
// viewport, and prints the normalized segment.
func ExecuteInspect(_ context.Context, cfg *contract.Config, mgr contract.StoreManager) error {
	start := time.Now()
	sess, err := openChart(cfg, mgr, core.WithDebounce(cfg.Debounce))
	if err != nil {
		return err
	}
	defer sess.model.Close()

	// The pending normalization runs now instead of after the debounce window
	sess.model.FlushNormalization()
	result := sess.model.Inspect(cfg.WithPoints)
	duration := time.Since(start)

	if err := outwriter.PrintInspect(result, cfg, duration); err != nil {
		return err
	}
	return finish(cfg, mgr, sess)
}

// ExecuteExport prints or exports every normalized point of the configured chart.
func ExecuteExport(_ context.Context, cfg *contract.Config, mgr contract.StoreManager) error {
	sess, err := openChart(cfg, mgr, core.WithImmediateNormalization())
	if err != nil {
		return err
	}
	defer sess.model.Close()

	if err := outwriter.PrintPoints(parquet.ConvertChartPoints(sess.model), cfg); err != nil {
		return err
	}
	return finish(cfg, mgr, sess)
}

// ExecuteView opens the configured chart in the interactive viewer and
// keeps the final view when the viewer exits.
func ExecuteView(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) error {
	sess, err := openChart(cfg, mgr, core.WithDebounce(cfg.Debounce))
	if err != nil {
		return err
	}
	defer sess.model.Close()

	if err := tui.Run(ctx, sess.model, tui.Options{Throttle: cfg.Throttle}); err != nil {
		return err
	}
	return finish(cfg, mgr, sess)
}

// ExecuteSpan prints the axis span and gridlines for a value range.
func ExecuteSpan(cfg *contract.Config, minValue, maxValue int) error {
	if minValue > maxValue {
		return fmt.Errorf("min must not exceed max (received %d > %d)", minValue, maxValue)
	}
	for _, v := range []int{minValue, maxValue} {
		if v < -algo.MaxAxisValue || v > algo.MaxAxisValue {
			return fmt.Errorf("span values must be within ±%d (received %d)", algo.MaxAxisValue, v)
		}
	}
	return outwriter.PrintSpan(algo.DescribeSpan(minValue, maxValue), cfg)
}

// ChartKey returns the state key of the configured chart.
func ChartKey(cfg *contract.Config) (string, error) {
	ds, err := loadDataset(cfg)
	if err != nil {
		return "", err
	}
	if _, err := ds.Chart(cfg.ChartIndex); err != nil {
		return "", err
	}
	return ds.Key(cfg.ChartIndex), nil
}

func loadDataset(cfg *contract.Config) (*dataset.Dataset, error) {
	if cfg.DataPath == "" {
		return nil, errNoDataset
	}
	ds, err := dataset.Load(cfg.DataPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load dataset: %w", err)
	}
	return ds, nil
}

// openChart builds the configured chart. The saved view is applied first
// when restoring, then the explicit limits on top of it.
func openChart(cfg *contract.Config, mgr contract.StoreManager, opts ...core.Option) (*session, error) {
	ds, err := loadDataset(cfg)
	if err != nil {
		return nil, err
	}
	chart, err := ds.Chart(cfg.ChartIndex)
	if err != nil {
		return nil, err
	}
	model, err := chart.NewModel(append(opts, core.WithLogger(contract.Logger()))...)
	if err != nil {
		return nil, fmt.Errorf("failed to build chart %d: %w", cfg.ChartIndex, err)
	}

	sess := &session{key: ds.Key(cfg.ChartIndex), model: model}
	if cfg.Restore {
		state, ok, err := viewstore.LoadViewState(stateStore(mgr), sess.key)
		if err != nil {
			contract.LogWarn("Could not restore view state", err)
		}
		if ok {
			model.ApplyViewState(state)
			sess.restored = true
		}
	}
	applyLimits(cfg, sess)
	contract.Logger().Debug("opened chart", "key", sess.key, "name", model.Name(), "restored", sess.restored)
	return sess, nil
}

// applyLimits sets the configured limits. On top of a restored view only the
// limits given explicitly are applied.
func applyLimits(cfg *contract.Config, sess *session) {
	switch {
	case !sess.restored, cfg.HasLeft && cfg.HasRight:
		sess.model.SetBothLimits(cfg.Left, cfg.Right)
	case cfg.HasLeft:
		sess.model.SetLeftLimit(cfg.Left)
	case cfg.HasRight:
		sess.model.SetRightLimit(cfg.Right)
	}
}

// finish saves the view state and records a snapshot as configured.
func finish(cfg *contract.Config, mgr contract.StoreManager, sess *session) error {
	if cfg.Save {
		if err := viewstore.SaveViewState(stateStore(mgr), sess.key, sess.model.ViewState()); err != nil {
			contract.LogWarn("Could not save view state", err)
		}
	}
	if !cfg.Record {
		return nil
	}
	store := snapshotStore(mgr)
	if store == nil {
		return errors.New("--record needs a snapshot store: configure --snapshot-backend")
	}
	id, err := viewstore.RecordView(store, sess.model, sess.key)
	if err != nil {
		return fmt.Errorf("failed to record snapshot: %w", err)
	}
	contract.Logger().Info("recorded snapshot", "id", id, "key", sess.key)
	return nil
}

func stateStore(mgr contract.StoreManager) contract.ViewStore {
	if mgr == nil {
		return nil
	}
	return mgr.GetStateStore()
}

func snapshotStore(mgr contract.StoreManager) contract.SnapshotStore {
	if mgr == nil {
		return nil
	}
	return mgr.GetSnapshotStore()
}
