package acktools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/hhgops/ackbot/internal/store"
)

// ReportTool handles the ack_report MCP tool.
type ReportTool struct {
	store *store.Store
}

// NewReportTool creates a ReportTool.
func NewReportTool(s *store.Store) *ReportTool {
	return &ReportTool{store: s}
}

// Definition returns the MCP tool definition for ack_report.
func (t *ReportTool) Definition() mcp.Tool {
	return mcp.NewTool("ack_report",
		mcp.WithDescription(
			"Compliance report for one handbook version: who has acknowledged it "+
				"and which named roster members are still outstanding.",
		),
		mcp.WithString("version",
			mcp.Required(),
			mcp.Description("Handbook version token, e.g. v2026-01-20"),
		),
	)
}

// Handle processes the ack_report tool call.
func (t *ReportTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	version := req.GetString("version", "")
	if version == "" {
		return mcp.NewToolResultError("'version' is required"), nil
	}

	report, err := t.store.ReportForVersion(ctx, version)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("building report failed: %v", err)), nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "## Handbook %s\n\n", report.Version)
	fmt.Fprintf(&sb, "- **Acknowledged**: %d\n", len(report.Acknowledged))
	fmt.Fprintf(&sb, "- **Outstanding**: %d\n", len(report.Outstanding))

	if len(report.Acknowledged) > 0 {
		sb.WriteString("\n### Acknowledged\n\n| Employee | When |\n|---|---|\n")
		for _, e := range report.Acknowledged {
			fmt.Fprintf(&sb, "| %s | %s |\n", e.FullName, e.AcknowledgedAt)
		}
	}

	if len(report.Outstanding) > 0 {
		sb.WriteString("\n### Outstanding\n\n")
		for _, name := range report.Outstanding {
			fmt.Fprintf(&sb, "- %s\n", name)
		}
	}

	return mcp.NewToolResultText(sb.String()), nil
}
