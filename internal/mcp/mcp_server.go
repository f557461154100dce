// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/huangsam/taskrecon/core"
	"github.com/huangsam/taskrecon/internal/contract"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// NewMCPServer initializes and configures the taskrecon MCP server without starting it.
// This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config, engine *core.Engine) *server.MCPServer {
	s := server.NewMCPServer(
		"Task Reconciliation Server",
		"1.0.0",
		server.WithLogging(),
	)

	h := &toolHandler{
		baseCfg: baseCfg,
		engine:  engine,
	}

	// --- 1. Tool: get_task_report ---
	s.AddTool(mcp.NewTool("get_task_report",
		mcp.WithDescription("Reconcile task events into one row per task with phase timestamps, waiting and productive minutes."),
		mcp.WithString("mode", mcp.Description("Assignment mode filter (all, auto, manual, unknown). Defaults to 'all'."), mcp.Enum("all", "auto", "manual", "unknown")),
		mcp.WithNumber("limit", mcp.Description("Limit the number of results returned.")),
	), h.handleGetTaskReport)

	// --- 2. Tool: get_task_phases ---
	s.AddTool(mcp.NewTool("get_task_phases",
		mcp.WithDescription("Explain how one task's phases, assignee and mode were derived."),
		mcp.WithString("task_id", mcp.Description("The task id to explain."), mcp.Required()),
	), h.handleGetTaskPhases)

	// --- 3. Tool: get_screen_open_analysis ---
	s.AddTool(mcp.NewTool("get_screen_open_analysis",
		mcp.WithDescription("Measure how long auto-assigned users took to open the work screen."),
		mcp.WithString("email", mcp.Description("Only include assignments to this user.")),
		mcp.WithNumber("limit", mcp.Description("Limit the number of results.")),
	), h.handleGetScreenOpenAnalysis)

	// --- 4. Tool: get_diagnostics ---
	s.AddTool(mcp.NewTool("get_diagnostics",
		mcp.WithDescription("Report dropped rows, malformed payloads and unparsable dates seen in the loaded source."),
	), h.handleGetDiagnostics)

	return s
}

// StartMCPServer loads the source once and serves tools over stdio.
func StartMCPServer(ctx context.Context, baseCfg *contract.Config, loader contract.SourceLoader) error {
	engine, err := core.LoadEngine(ctx, loader, baseCfg.StatusField)
	if err != nil {
		return err
	}
	s := NewMCPServer(baseCfg, engine)
	return server.ServeStdio(s)
}
