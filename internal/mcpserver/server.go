// Package mcpserver provides an MCP (Model Context Protocol) server that
// exposes the organizer to LLM agents via stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/broomkit/broom/internal/engine"
	"github.com/broomkit/broom/internal/executor"
	"github.com/broomkit/broom/internal/scan"
)

// Server wraps the MCP server with organizer tools.
type Server struct {
	mcp    *server.MCPServer
	engine *engine.Engine
}

// New creates an MCP server with all organizer tools registered. Calls run
// against the given engine and are never interactive: organize_directory
// applies its plan without confirmation unless dry_run is set.
func New(eng *engine.Engine, version string) *Server {
	s := &Server{engine: eng}

	s.mcp = server.NewMCPServer(
		"Broom",
		version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("scan_directory",
		mcp.WithDescription("Inventory a directory exactly as organize_directory would see it. "+
			"Nothing is moved and no model is consulted."),
		mcp.WithString("path", mcp.Required(), mcp.Description("Directory to inventory")),
		mcp.WithString("mode", mcp.Description("'files' (default) or 'folders'")),
		mcp.WithBoolean("recursive", mcp.Description("Include files in subdirectories (files mode only)")),
	), s.scanDirectory)

	s.mcp.AddTool(mcp.NewTool("organize_directory",
		mcp.WithDescription("Organize a directory: scan it, ask the configured model for a "+
			"categorization plan, and apply it. Existing files are never overwritten and an "+
			"undo record is written next to the directory. Set dry_run to preview the plan "+
			"without moving anything."),
		mcp.WithString("path", mcp.Required(), mcp.Description("Directory to organize")),
		mcp.WithString("mode", mcp.Description("'files' sorts files into category folders (default), 'folders' groups top-level folders")),
		mcp.WithBoolean("recursive", mcp.Description("Organize files in subdirectories too (files mode only)")),
		mcp.WithBoolean("dry_run", mcp.Description("Compile and return the plan without moving anything")),
	), s.organizeDirectory)

	s.mcp.AddTool(mcp.NewTool("undo_last",
		mcp.WithDescription("Reverse the last organize run recorded for a directory. Entries whose "+
			"organized location has since changed are skipped, emptied category folders are "+
			"removed, and a redo record is written."),
		mcp.WithString("path", mcp.Required(), mcp.Description("Directory whose last run to reverse")),
	), s.undoLast)

	s.mcp.AddTool(mcp.NewTool("redo_last",
		mcp.WithDescription("Re-apply the last undone organize run for a directory using its redo record."),
		mcp.WithString("path", mcp.Required(), mcp.Description("Directory whose undone run to re-apply")),
	), s.redoLast)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

func (s *Server) scanDirectory(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := req.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	mode, err := scan.ParseMode(optionalString(req, "mode", "files"))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result, err := s.engine.Scan(ctx, &engine.ScanRequest{
		Root:      path,
		Mode:      mode,
		Recursive: optionalBool(req, "recursive"),
	})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	inv := result.Inventory

	entries := make([]map[string]any, 0, len(inv.Entries))
	for _, entry := range inv.Entries {
		entries = append(entries, map[string]any{
			"path": entry.RelPath,
			"kind": string(entry.Kind),
			"size": entry.Size,
		})
	}
	warnings := make([]string, 0, len(inv.Warnings))
	for _, w := range inv.Warnings {
		warnings = append(warnings, w.RelPath+": "+w.Reason)
	}
	return jsonResult(map[string]any{
		"root":     inv.Root,
		"mode":     string(inv.Mode),
		"entries":  entries,
		"warnings": warnings,
	}), nil
}

func (s *Server) organizeDirectory(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := req.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	mode, err := scan.ParseMode(optionalString(req, "mode", "files"))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result, err := s.engine.Organize(ctx, &engine.OrganizeRequest{
		Root:      path,
		Mode:      mode,
		Recursive: optionalBool(req, "recursive"),
		DryRun:    optionalBool(req, "dry_run"),
	})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	payload := reportPayload(result.Report)
	if result.JournalPath != "" {
		payload["journalPath"] = result.JournalPath
	}
	if len(result.Plan.Decisions) > 0 {
		decisions := make([]map[string]string, 0, len(result.Plan.Decisions))
		for _, d := range result.Plan.Decisions {
			decisions = append(decisions, map[string]string{"path": d.Path, "note": d.Note})
		}
		payload["decisions"] = decisions
	}
	return jsonResult(payload), nil
}

func (s *Server) undoLast(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := req.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result, err := s.engine.Undo(ctx, &engine.UndoRequest{Root: path})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	payload := reportPayload(result.Report)
	payload["prunedDirs"] = result.PrunedDirs
	payload["warnings"] = result.Warnings
	return jsonResult(payload), nil
}

func (s *Server) redoLast(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := req.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result, err := s.engine.Redo(ctx, &engine.RedoRequest{Root: path})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(reportPayload(result.Report)), nil
}

func reportPayload(report *executor.Report) map[string]any {
	return map[string]any{
		"runId":   report.RunID,
		"root":    report.Root,
		"mode":    string(report.Mode),
		"dryRun":  report.DryRun,
		"applied": report.Applied(),
		"skipped": report.Skipped(),
		"failed":  report.Failed(),
		"results": report.Results,
	}
}

func jsonResult(data any) *mcp.CallToolResult {
	out, _ := json.MarshalIndent(data, "", "  ")
	return mcp.NewToolResultText(string(out))
}

func optionalString(req mcp.CallToolRequest, key, fallback string) string {
	if v, ok := req.GetArguments()[key].(string); ok && v != "" {
		return v
	}
	return fallback
}

func optionalBool(req mcp.CallToolRequest, key string) bool {
	v, ok := req.GetArguments()[key].(bool)
	return ok && v
}
