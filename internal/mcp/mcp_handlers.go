package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/huangsam/gauge/core"
	"github.com/huangsam/gauge/internal/contract"
	"github.com/mark3labs/mcp-go/mcp"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg *contract.Config
	mgr     contract.StoreManager
}

// reportConfig derives the per request configuration of the report based tools.
func (h *toolHandler) reportConfig(request mcp.CallToolRequest) (*contract.Config, error) {
	cfg := h.baseCfg.Clone()
	path := request.GetString("report_path", "")
	if path == "" {
		return nil, errors.New("report_path is required")
	}
	cfg.ReportPaths = []string{path}
	if p := request.GetString("periods", ""); p != "" {
		if err := contract.RevalidatePeriods(cfg, p); err != nil {
			return nil, err
		}
	}
	cfg.Persist = false
	return cfg, nil
}

func textResult(data any) *mcp.CallToolResult {
	jsonData, _ := json.MarshalIndent(data, "", "  ")
	return mcp.NewToolResultText(string(jsonData))
}

func (h *toolHandler) handleAnalyzeReport(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, err := h.reportConfig(request)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid analysis parameters: %v", err)), nil
	}
	cfg.Persist = request.GetBool("persist", false)

	results, err := core.GetAnalysisResults(core.WithSuppressHeader(ctx), cfg, h.mgr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("analysis failed: %v", err)), nil
	}
	return textResult(results[0]), nil
}

func (h *toolHandler) handleCheckQualityGate(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, err := h.reportConfig(request)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid gate parameters: %v", err)), nil
	}

	results, err := core.GetAnalysisResults(core.WithSuppressHeader(ctx), cfg, h.mgr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("analysis failed: %v", err)), nil
	}
	res := results[0]
	if res.Gate == nil {
		return mcp.NewToolResultError("no quality gate configured in the profile"), nil
	}
	return textResult(res.Gate), nil
}

func (h *toolHandler) handleGetMeasureHistory(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	project := request.GetString("project", "")
	metric := request.GetString("metric", "")
	component := request.GetString("component", "")

	result, err := core.LoadHistory(ctx, h.baseCfg, h.mgr, project, component, metric)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("history failed: %v", err)), nil
	}
	return textResult(result), nil
}

func (h *toolHandler) handleListMetrics(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	model, err := core.MetricsModel(h.baseCfg)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to load metrics: %v", err)), nil
	}
	return textResult(model), nil
}
