package mcp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/huangsam/chartscope/core"
	"github.com/huangsam/chartscope/internal/contract"
)

func newTestModel(t *testing.T) *core.ChartModel {
	t.Helper()
	model, err := core.NewChartModel("test", []int64{1, 2, 3}, []core.SeriesInput{
		{Name: "a", ColorTag: "#000000", Values: []int{1, 2, 3}},
	}, core.WithImmediateNormalization())
	require.NoError(t, err)
	return model
}

func TestSessionTable(t *testing.T) {
	table := newSessionTable(2)

	first, err := table.add(&session{key: "k1", model: newTestModel(t)})
	require.NoError(t, err)
	second, err := table.add(&session{key: "k2", model: newTestModel(t)})
	require.NoError(t, err)
	assert.NotEqual(t, first, second)

	_, err = table.add(&session{key: "k3", model: newTestModel(t)})
	assert.ErrorContains(t, err, "too many open charts (limit 2)")

	sess, ok := table.get(first)
	require.True(t, ok)
	assert.Equal(t, "k1", sess.key)

	removed, ok := table.remove(first)
	require.True(t, ok)
	assert.Same(t, sess, removed)
	_, ok = table.remove(first)
	assert.False(t, ok)

	drained := table.drain()
	require.Len(t, drained, 1)
	assert.Equal(t, "k2", drained[0].key)
	assert.Equal(t, 0, table.len())
}

func TestCloseAll(t *testing.T) {
	h := newToolHandler(&contract.Config{}, nil)
	model := newTestModel(t)
	_, err := h.sessions.add(&session{key: "k", model: model})
	require.NoError(t, err)

	h.closeAll()
	assert.Equal(t, 0, h.sessions.len())

	model.SetBothLimits(0.5, 1)
	assert.Equal(t, 0.0, model.ViewportLimits().Left, "closed models ignore mutations")
}
