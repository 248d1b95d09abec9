// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/huangsam/chartscope/internal/contract"
)

// NewMCPServer initializes and configures the chartscope MCP server without starting it.
// This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config, mgr contract.StoreManager) *server.MCPServer {
	s, _ := newServer(baseCfg, mgr)
	return s
}

func newServer(baseCfg *contract.Config, mgr contract.StoreManager) (*server.MCPServer, *toolHandler) {
	s := server.NewMCPServer(
		"Chartscope Axis Server",
		"1.0.0",
		server.WithLogging(),
	)

	h := newToolHandler(baseCfg, mgr)

	// --- 1. Tool: list_charts ---
	s.AddTool(mcp.NewTool("list_charts",
		mcp.WithDescription("List the charts of a chart_data.json dataset with their series and global span."),
		mcp.WithString("data_path", mcp.Description("Path to chart_data.json (defaults to the configured dataset).")),
	), h.handleListCharts)

	// --- 2. Tool: open_chart ---
	s.AddTool(mcp.NewTool("open_chart",
		mcp.WithDescription("Open a chart and return a session id used by the other chart tools."),
		mcp.WithNumber("chart", mcp.Description("Index of the chart in the dataset."), mcp.Required()),
		mcp.WithString("data_path", mcp.Description("Path to chart_data.json (defaults to the configured dataset).")),
		mcp.WithBoolean("restore", mcp.Description("Restore the last saved view of the chart. Defaults to true.")),
	), h.handleOpenChart)

	// --- 3. Tool: set_viewport ---
	s.AddTool(mcp.NewTool("set_viewport",
		mcp.WithDescription("Move both viewport limits of an open chart. Limits are normalized positions between 0 and 1."),
		mcp.WithString("session", mcp.Description("Session id returned by open_chart."), mcp.Required()),
		mcp.WithNumber("left", mcp.Description("Left limit."), mcp.Required()),
		mcp.WithNumber("right", mcp.Description("Right limit."), mcp.Required()),
	), h.handleSetViewport)

	// --- 4. Tool: toggle_series ---
	s.AddTool(mcp.NewTool("toggle_series",
		mcp.WithDescription("Show or hide one series of an open chart. The last visible series cannot be hidden."),
		mcp.WithString("session", mcp.Description("Session id returned by open_chart."), mcp.Required()),
		mcp.WithNumber("series", mcp.Description("Index of the series."), mcp.Required()),
	), h.handleToggleSeries)

	// --- 5. Tool: get_segment ---
	s.AddTool(mcp.NewTool("get_segment",
		mcp.WithDescription("Describe the current viewport of an open chart: dates, gridlines and per-series spans."),
		mcp.WithString("session", mcp.Description("Session id returned by open_chart."), mcp.Required()),
		mcp.WithBoolean("points", mcp.Description("Include the normalized points inside the viewport.")),
	), h.handleGetSegment)

	// --- 6. Tool: get_point ---
	s.AddTool(mcp.NewTool("get_point",
		mcp.WithDescription("Read the data point of an open chart at a normalized position: its date and the raw value of every series."),
		mcp.WithString("session", mcp.Description("Session id returned by open_chart."), mcp.Required()),
		mcp.WithNumber("position", mcp.Description("Normalized position between 0 and 1. The first point at or after it is read."), mcp.Required()),
	), h.handleGetPoint)

	// --- 7. Tool: calculate_span ---
	s.AddTool(mcp.NewTool("calculate_span",
		mcp.WithDescription("Compute the nice axis span and gridline labels for a value range."),
		mcp.WithNumber("min", mcp.Description("Smallest value."), mcp.Required()),
		mcp.WithNumber("max", mcp.Description("Largest value."), mcp.Required()),
	), h.handleCalculateSpan)

	// --- 8. Tool: record_snapshot ---
	s.AddTool(mcp.NewTool("record_snapshot",
		mcp.WithDescription("Record the current view of an open chart in the snapshot history."),
		mcp.WithString("session", mcp.Description("Session id returned by open_chart."), mcp.Required()),
	), h.handleRecordSnapshot)

	// --- 9. Tool: close_chart ---
	s.AddTool(mcp.NewTool("close_chart",
		mcp.WithDescription("Close an open chart and save its view for the next open_chart."),
		mcp.WithString("session", mcp.Description("Session id returned by open_chart."), mcp.Required()),
	), h.handleCloseChart)

	return s, h
}

// StartMCPServer starts the chartscope MCP server on stdio.
// Charts still open when the client disconnects are saved and closed.
func StartMCPServer(_ context.Context, baseCfg *contract.Config, mgr contract.StoreManager) error {
	s, h := newServer(baseCfg, mgr)
	defer h.closeAll()
	return server.ServeStdio(s)
}
