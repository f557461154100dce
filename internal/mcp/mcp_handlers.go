package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/huangsam/taskrecon/core"
	"github.com/huangsam/taskrecon/internal/contract"
	"github.com/huangsam/taskrecon/schema"
	"github.com/mark3labs/mcp-go/mcp"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg *contract.Config
	engine  *core.Engine
}

func (h *toolHandler) handleGetTaskReport(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	filter := h.baseCfg.ModeFilter
	if m := request.GetString("mode", ""); m != "" {
		filter = schema.ModeFilter(strings.ToLower(m))
		if _, ok := schema.ValidModeFilters[filter]; !ok {
			return mcp.NewToolResultError(fmt.Sprintf("invalid mode %q", m)), nil
		}
	}
	limit := h.baseCfg.ResultLimit
	if l := request.GetInt("limit", 0); l > 0 {
		limit = l
	}

	return jsonResult(h.engine.Report(filter, limit))
}

func (h *toolHandler) handleGetTaskPhases(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := strings.TrimSpace(request.GetString("task_id", ""))
	if id == "" {
		return mcp.NewToolResultError("task_id is required"), nil
	}

	exp, err := h.engine.Explain(id)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("explain failed: %v", err)), nil
	}
	return jsonResult(exp)
}

func (h *toolHandler) handleGetScreenOpenAnalysis(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	rows := h.engine.ScreenOpen(request.GetString("email", ""))
	if l := request.GetInt("limit", 0); l > 0 && len(rows) > l {
		rows = rows[:l]
	}
	return jsonResult(rows)
}

func (h *toolHandler) handleGetDiagnostics(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return jsonResult(h.engine.Diagnostics())
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	jsonData, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to encode result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(jsonData)), nil
}
