// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes the plan operations to LLM clients via stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/braindump/internal/apperr"
	"github.com/starford/braindump/internal/index"
	"github.com/starford/braindump/internal/planservice"
)

const formatURI = "braindump://plan-format"

// Server wraps the MCP server with plan tools.
type Server struct {
	mcp     *server.MCPServer
	svc     *planservice.Service
	history index.HistoryIndex
}

// New creates a new MCP server with all plan tools registered.
func New(svc *planservice.Service, history index.HistoryIndex) *Server {
	s := &Server{svc: svc, history: history}

	s.mcp = server.NewMCPServer(
		"Braindump",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("get_plan",
		mcp.WithDescription("Return the current plan: today's tasks, parking lot, extra items and the done archive. "+
			"Task IDs change whenever the plan is rewritten."),
	), s.getPlan)

	s.mcp.AddTool(mcp.NewTool("capture",
		mcp.WithDescription("Capture a brain-dump note and replan. Phrases like \"finished X\" come back "+
			"as pending confirmations; \"all done\" returns the open tasks instead of writing."),
		mcp.WithString("text", mcp.Required(), mcp.Description("Free-form note text")),
	), s.capture)

	s.mcp.AddTool(mcp.NewTool("complete_task",
		mcp.WithDescription("Mark a Today task done and replan."),
		mcp.WithString("task", mcp.Required(), mcp.Description("Task ID from get_plan, or part of its name")),
		mcp.WithString("note", mcp.Description("Optional note to record with the completion")),
	), s.completeTask)

	s.mcp.AddTool(mcp.NewTool("complete_all",
		mcp.WithDescription("Archive tasks as done today and reset the plan without a replan. "+
			"With no tasks given, every Today task is archived."),
		mcp.WithString("tasks", mcp.Description("Newline-separated Today task names")),
		mcp.WithString("parking_tasks", mcp.Description("Newline-separated parking item names")),
	), s.completeAll)

	s.mcp.AddTool(mcp.NewTool("get_weekly_summary",
		mcp.WithDescription("Read the weekly summary of completed items."),
		mcp.WithString("week", mcp.Description("ISO week key YYYY-Www (default: current week)")),
	), s.getWeeklySummary)

	s.mcp.AddTool(mcp.NewTool("search_done",
		mcp.WithDescription("Search the done archive, newest first."),
		mcp.WithString("query", mcp.Required(), mcp.Description("Search query string")),
	), s.searchDone)

	s.mcp.AddTool(mcp.NewTool("get_plan_format",
		mcp.WithDescription("Returns the plan document format. Read this before interpreting state.md."),
	), s.getPlanFormat)

	s.mcp.AddResource(
		mcp.NewResource(formatURI, "Plan Format",
			mcp.WithResourceDescription("Layout of the plan document and its sections."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readPlanFormatResource,
	)

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

func (s *Server) getPlan(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	st, err := s.svc.State(ctx)
	return jsonResult(st, err)
}

func (s *Server) capture(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text, err := req.RequireString("text")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	res, err := s.svc.Capture(ctx, text)
	return jsonResult(res, err)
}

func (s *Server) completeTask(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	task, err := req.RequireString("task")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	res, err := s.svc.CompleteTask(ctx, task, optional(req, "note"))
	return jsonResult(res, err)
}

func (s *Server) completeAll(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	tasks := splitLines(optional(req, "tasks"))
	parking := splitLines(optional(req, "parking_tasks"))
	res, err := s.svc.CompleteAll(ctx, tasks, parking)
	return jsonResult(res, err)
}

func (s *Server) getWeeklySummary(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	week := optional(req, "week")
	if week == "" {
		week = s.svc.CurrentWeek()
	}
	text, err := s.svc.Summary(ctx, week)
	if errors.Is(err, apperr.ErrNotFound) {
		return mcp.NewToolResultText("no summary for " + week), nil
	}
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(text), nil
}

func (s *Server) searchDone(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := req.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	results, err := s.history.SearchCompletions(query, 20)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if len(results) == 0 {
		return mcp.NewToolResultText("no completions found"), nil
	}
	lines := make([]string, len(results))
	for i, r := range results {
		lines[i] = r.Line
	}
	return mcp.NewToolResultText(strings.Join(lines, "\n")), nil
}

func (s *Server) getPlanFormat(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(PlanFormatContract), nil
}

func (s *Server) readPlanFormatResource(context.Context, mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      formatURI,
			MIMEType: "text/markdown",
			Text:     PlanFormatContract,
		},
	}, nil
}

func jsonResult(v any, err error) (*mcp.CallToolResult, error) {
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(v, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func optional(req mcp.CallToolRequest, key string) string {
	v, err := req.RequireString(key)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(v)
}

func splitLines(s string) []string {
	var out []string
	for _, l := range strings.Split(s, "\n") {
		if l = strings.TrimSpace(l); l != "" {
			out = append(out, l)
		}
	}
	return out
}
