package acktools

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/hhgops/ackbot/internal/identity"
	"github.com/hhgops/ackbot/internal/store"
)

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.Open(filepath.Join(t.TempDir(), "ackbot.db"))
	if err != nil {
		t.Fatalf("opening store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// makeReq builds a mcp.CallToolRequest with the given arguments.
func makeReq(args map[string]interface{}) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Arguments = args
	return req
}

// resultText extracts the text content from a tool result.
func resultText(r *mcp.CallToolResult) string {
	if r == nil || len(r.Content) == 0 {
		return ""
	}
	for _, c := range r.Content {
		if tc, ok := c.(mcp.TextContent); ok {
			return tc.Text
		}
	}
	return ""
}

func seedEmployee(t *testing.T, s *store.Store, name string) *store.Employee {
	t.Helper()
	emp, err := s.CreateEmployee(context.Background(), store.CreateEmployeeParams{
		FullName: name,
		Status:   store.StatusActive,
	})
	if err != nil {
		t.Fatalf("creating employee: %v", err)
	}
	return emp
}

func seedAck(t *testing.T, s *store.Store, employeeID int64, version string) {
	t.Helper()
	_, err := s.RecordAcknowledgment(context.Background(), store.RecordAckParams{
		EmployeeID:  employeeID,
		Version:     version,
		Text:        "I, Jane Doe, acknowledge and agree to the HHG Employee Handbook " + version,
		ChatID:      -100123,
		MessageID:   42,
		MessageDate: 1768900000,
		Raw:         []byte(`{}`),
	})
	if err != nil {
		t.Fatalf("recording acknowledgment: %v", err)
	}
}

// ─── StatusTool Tests ────────────────────────────────────────────────────────

func TestStatusTool_Definition(t *testing.T) {
	tool := NewStatusTool(newTestStore(t))
	def := tool.Definition()

	if def.Name != "ack_status" {
		t.Errorf("name = %q, want ack_status", def.Name)
	}
}

func TestStatusTool_ShowsHistory(t *testing.T) {
	s := newTestStore(t)
	emp := seedEmployee(t, s, "Jane Doe")
	seedAck(t, s, emp.ID, "v2026-01-20")
	seedAck(t, s, emp.ID, "v2026-03-01")

	tool := NewStatusTool(s)
	res, err := tool.Handle(context.Background(), makeReq(map[string]interface{}{
		"full_name": "jane doe",
	}))
	if err != nil {
		t.Fatalf("handle: %v", err)
	}

	text := resultText(res)
	if !strings.Contains(text, "## Jane Doe") {
		t.Errorf("missing header: %q", text)
	}
	if !strings.Contains(text, "**Acknowledgments**: 2") {
		t.Errorf("missing count: %q", text)
	}
	if !strings.Contains(text, "v2026-01-20") || !strings.Contains(text, "v2026-03-01") {
		t.Errorf("missing versions: %q", text)
	}
}

func TestStatusTool_UnknownName(t *testing.T) {
	s := newTestStore(t)
	seedEmployee(t, s, "Jane Doe")

	tool := NewStatusTool(s)
	res, err := tool.Handle(context.Background(), makeReq(map[string]interface{}{
		"full_name": "Nobody Here",
	}))
	if err != nil {
		t.Fatalf("handle: %v", err)
	}
	if !strings.Contains(resultText(res), "No employee named") {
		t.Errorf("unexpected text: %q", resultText(res))
	}
}

func TestStatusTool_MissingName(t *testing.T) {
	tool := NewStatusTool(newTestStore(t))
	res, err := tool.Handle(context.Background(), makeReq(map[string]interface{}{}))
	if err != nil {
		t.Fatalf("handle: %v", err)
	}
	if !res.IsError {
		t.Error("expected an error result for missing full_name")
	}
}

// ─── ReportTool Tests ────────────────────────────────────────────────────────

func TestReportTool_SplitsAcknowledgedAndOutstanding(t *testing.T) {
	s := newTestStore(t)
	jane := seedEmployee(t, s, "Jane Doe")
	seedEmployee(t, s, "John Smith")
	seedAck(t, s, jane.ID, "v2026-01-20")

	tool := NewReportTool(s)
	res, err := tool.Handle(context.Background(), makeReq(map[string]interface{}{
		"version": "v2026-01-20",
	}))
	if err != nil {
		t.Fatalf("handle: %v", err)
	}

	text := resultText(res)
	if !strings.Contains(text, "**Acknowledged**: 1") {
		t.Errorf("missing acknowledged count: %q", text)
	}
	if !strings.Contains(text, "**Outstanding**: 1") {
		t.Errorf("missing outstanding count: %q", text)
	}
	if !strings.Contains(text, "| Jane Doe |") {
		t.Errorf("missing acknowledged row: %q", text)
	}
	if !strings.Contains(text, "- John Smith") {
		t.Errorf("missing outstanding entry: %q", text)
	}
}

func TestReportTool_MissingVersion(t *testing.T) {
	tool := NewReportTool(newTestStore(t))
	res, err := tool.Handle(context.Background(), makeReq(map[string]interface{}{}))
	if err != nil {
		t.Fatalf("handle: %v", err)
	}
	if !res.IsError {
		t.Error("expected an error result for missing version")
	}
}

// ─── RosterSearchTool Tests ──────────────────────────────────────────────────

func TestRosterSearchTool_FindsNearMatches(t *testing.T) {
	s := newTestStore(t)
	seedEmployee(t, s, "John Doe")
	seedEmployee(t, s, "Zelda Quartz")

	tool := NewRosterSearchTool(s, identity.DefaultScoring())
	res, err := tool.Handle(context.Background(), makeReq(map[string]interface{}{
		"query": "Jhn Doe",
	}))
	if err != nil {
		t.Fatalf("handle: %v", err)
	}

	text := resultText(res)
	if !strings.Contains(text, "John Doe") {
		t.Errorf("missing near match: %q", text)
	}
	if strings.Contains(text, "Zelda Quartz") {
		t.Errorf("unrelated name surfaced: %q", text)
	}
}

func TestRosterSearchTool_NoMatches(t *testing.T) {
	s := newTestStore(t)
	seedEmployee(t, s, "John Doe")

	tool := NewRosterSearchTool(s, identity.DefaultScoring())
	res, err := tool.Handle(context.Background(), makeReq(map[string]interface{}{
		"query": "Xqwzy Vrbtk",
	}))
	if err != nil {
		t.Fatalf("handle: %v", err)
	}
	if !strings.Contains(resultText(res), "No roster names") {
		t.Errorf("unexpected text: %q", resultText(res))
	}
}

func TestRosterSearchTool_LimitOverride(t *testing.T) {
	s := newTestStore(t)
	seedEmployee(t, s, "John Smith")
	seedEmployee(t, s, "Jon Smith")
	seedEmployee(t, s, "Joan Smith")

	tool := NewRosterSearchTool(s, identity.DefaultScoring())
	res, err := tool.Handle(context.Background(), makeReq(map[string]interface{}{
		"query": "John Smith",
		"limit": float64(1),
	}))
	if err != nil {
		t.Fatalf("handle: %v", err)
	}

	text := resultText(res)
	lines := 0
	for _, l := range strings.Split(text, "\n") {
		if strings.HasPrefix(l, "- ") {
			lines++
		}
	}
	if lines != 1 {
		t.Errorf("got %d match lines, want 1", lines)
	}
}
