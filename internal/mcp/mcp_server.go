// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/huangsam/gauge/internal/contract"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// NewMCPServer initializes and configures the Gauge MCP server without starting it.
// This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config, mgr contract.StoreManager) *server.MCPServer {
	s := server.NewMCPServer(
		"Gauge Measure Server",
		"1.0.0",
		server.WithLogging(),
	)

	h := &toolHandler{
		baseCfg: baseCfg,
		mgr:     mgr,
	}

	// --- 1. Tool: analyze_report ---
	s.AddTool(mcp.NewTool("analyze_report",
		mcp.WithDescription("Aggregate the raw measures of a report over its component tree, compute variations against past analyses and evaluate the quality gate."),
		mcp.WithString("report_path", mcp.Description("Path to the JSON measure report."), mcp.Required()),
		mcp.WithString("periods", mcp.Description("Comparison periods, e.g. '1:previous_analysis,2:days:30'. Defaults to the server configuration.")),
		mcp.WithBoolean("persist", mcp.Description("Record the analysis in the archive. Defaults to false.")),
	), h.handleAnalyzeReport)

	// --- 2. Tool: check_quality_gate ---
	s.AddTool(mcp.NewTool("check_quality_gate",
		mcp.WithDescription("Evaluate the quality gate of the configured profile against a report without recording it."),
		mcp.WithString("report_path", mcp.Description("Path to the JSON measure report."), mcp.Required()),
		mcp.WithString("periods", mcp.Description("Comparison periods used by conditions on variations.")),
	), h.handleCheckQualityGate)

	// --- 3. Tool: get_measure_history ---
	s.AddTool(mcp.NewTool("get_measure_history",
		mcp.WithDescription("List the archived values of one metric for one component across analyses."),
		mcp.WithString("project", mcp.Description("Project key."), mcp.Required()),
		mcp.WithString("metric", mcp.Description("Metric key, e.g. 'coverage'."), mcp.Required()),
		mcp.WithString("component", mcp.Description("Component key. Defaults to the project itself.")),
	), h.handleGetMeasureHistory)

	// --- 4. Tool: list_metrics ---
	s.AddTool(mcp.NewTool("list_metrics",
		mcp.WithDescription("List the metric catalog: built-in metrics plus the ones declared by the profile."),
	), h.handleListMetrics)

	return s
}

// StartMCPServer starts the Gauge MCP server.
func StartMCPServer(_ context.Context, baseCfg *contract.Config, mgr contract.StoreManager) error {
	s := NewMCPServer(baseCfg, mgr)
	return server.ServeStdio(s)
}
