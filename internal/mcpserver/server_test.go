package mcpserver

import (
	"context"
	"log/slog"
	"os"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/starford/braindump/internal/index"
	"github.com/starford/braindump/internal/planservice"
	"github.com/starford/braindump/internal/planstore"
	"github.com/starford/braindump/internal/reconcile"
	"github.com/starford/braindump/internal/storage"
	"github.com/starford/braindump/internal/testutil"
)

func testServer(t *testing.T) (*Server, *storage.FS, *index.DB) {
	t.Helper()
	_, fs := testutil.Workspace(t, testutil.Plan)
	db := testutil.TestDB(t)

	gen := &testutil.Generator{Outputs: []string{testutil.Plan}}
	store := planstore.New(fs, planstore.WithClock(testutil.Clock()))
	rec := reconcile.New(gen, reconcile.WithClock(testutil.Clock()))
	svc := planservice.New(store, rec, planservice.WithPicker(func(int) int { return 0 }))
	return New(svc, db), fs, db
}

func callTool(t *testing.T, srv *Server, name string, args map[string]interface{}) *mcp.CallToolResult {
	t.Helper()
	ctx := context.Background()
	req := mcp.CallToolRequest{}
	req.Method = "tools/call"
	req.Params.Name = name
	req.Params.Arguments = args

	var result *mcp.CallToolResult
	var err error

	switch name {
	case "get_plan":
		result, err = srv.getPlan(ctx, req)
	case "capture":
		result, err = srv.capture(ctx, req)
	case "complete_task":
		result, err = srv.completeTask(ctx, req)
	case "complete_all":
		result, err = srv.completeAll(ctx, req)
	case "get_weekly_summary":
		result, err = srv.getWeeklySummary(ctx, req)
	case "search_done":
		result, err = srv.searchDone(ctx, req)
	case "get_plan_format":
		result, err = srv.getPlanFormat(ctx, req)
	default:
		t.Fatalf("unknown tool: %s", name)
	}

	if err != nil {
		t.Fatalf("tool %s error: %v", name, err)
	}
	return result
}

func resultText(r *mcp.CallToolResult) string {
	if len(r.Content) > 0 {
		if tc, ok := r.Content[0].(mcp.TextContent); ok {
			return tc.Text
		}
	}
	return ""
}

func TestGetPlan(t *testing.T) {
	srv, _, _ := testServer(t)
	text := resultText(callTool(t, srv, "get_plan", map[string]interface{}{}))
	if !strings.Contains(text, `"name": "Write report"`) {
		t.Errorf("plan = %s", text)
	}
	if !strings.Contains(text, `"praise_style": "neutral"`) {
		t.Errorf("missing style in %s", text)
	}
}

func TestCaptureRequiresText(t *testing.T) {
	srv, _, _ := testServer(t)
	r := callTool(t, srv, "capture", map[string]interface{}{})
	if !r.IsError {
		t.Error("expected error for missing text")
	}
}

func TestCapturePrependsNote(t *testing.T) {
	srv, fs, _ := testServer(t)
	r := callTool(t, srv, "capture", map[string]interface{}{"text": "buy stamps"})
	if r.IsError {
		t.Fatalf("capture failed: %s", resultText(r))
	}
	data, _ := fs.Read(planstore.StatePath)
	if !strings.Contains(string(data), "Write report") {
		t.Errorf("state = %s", data)
	}
}

func TestCompleteTask(t *testing.T) {
	srv, fs, _ := testServer(t)

	r := callTool(t, srv, "complete_task", map[string]interface{}{"task": "nope"})
	if !r.IsError {
		t.Error("expected error for unknown task")
	}

	r = callTool(t, srv, "complete_task", map[string]interface{}{"task": "report", "note": "sent it"})
	if r.IsError {
		t.Fatalf("complete_task failed: %s", resultText(r))
	}
	if !strings.Contains(resultText(r), `"safety_note"`) {
		t.Errorf("result = %s", resultText(r))
	}
	data, _ := fs.Read(planstore.StatePath)
	if !strings.Contains(string(data), "- [x] 2026-10-14 — Write report") {
		t.Errorf("task not archived: %s", data)
	}
}

func TestCompleteAllAndSearch(t *testing.T) {
	srv, fs, db := testServer(t)

	r := callTool(t, srv, "complete_all", map[string]interface{}{})
	if r.IsError {
		t.Fatalf("complete_all failed: %s", resultText(r))
	}
	if !strings.Contains(resultText(r), `"completed_count": 2`) {
		t.Errorf("result = %s", resultText(r))
	}

	if err := index.Sync(db, fs, slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))); err != nil {
		t.Fatal(err)
	}
	text := resultText(callTool(t, srv, "search_done", map[string]interface{}{"query": "dentist"}))
	if text != "- [x] 2026-10-14 — Call dentist" {
		t.Errorf("search = %q", text)
	}
	text = resultText(callTool(t, srv, "search_done", map[string]interface{}{"query": "zebra"}))
	if text != "no completions found" {
		t.Errorf("empty search = %q", text)
	}
}

func TestWeeklySummary(t *testing.T) {
	srv, _, _ := testServer(t)

	r := callTool(t, srv, "get_weekly_summary", map[string]interface{}{"week": "2026-W42"})
	if resultText(r) != "no summary for 2026-W42" {
		t.Errorf("missing summary = %q", resultText(r))
	}

	r = callTool(t, srv, "get_weekly_summary", map[string]interface{}{"week": "last week"})
	if !r.IsError {
		t.Error("expected error for malformed week")
	}

	_ = callTool(t, srv, "complete_all", map[string]interface{}{"tasks": "Write report"})
	r = callTool(t, srv, "get_weekly_summary", map[string]interface{}{})
	if !strings.Contains(resultText(r), "Write report") {
		t.Errorf("summary = %q", resultText(r))
	}
}

func TestPlanFormat(t *testing.T) {
	srv, _, _ := testServer(t)
	text := resultText(callTool(t, srv, "get_plan_format", map[string]interface{}{}))
	if text != PlanFormatContract {
		t.Error("format tool should return the contract")
	}

	contents, err := srv.readPlanFormatResource(context.Background(), mcp.ReadResourceRequest{})
	if err != nil || len(contents) != 1 {
		t.Fatalf("resource = %v, %v", contents, err)
	}
	if tc, ok := contents[0].(mcp.TextResourceContents); !ok || tc.URI != formatURI {
		t.Errorf("resource = %+v", contents[0])
	}
}

func TestSplitLines(t *testing.T) {
	got := splitLines(" a \n\n b\n")
	if len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Errorf("splitLines = %q", got)
	}
}
