// Package acktools implements the MCP tools of the compliance reporting
// surface: read-only views over the roster and the acknowledgment ledger.
// The bot remains the only writer.
package acktools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/hhgops/ackbot/internal/store"
)

// StatusTool handles the ack_status MCP tool.
type StatusTool struct {
	store *store.Store
}

// NewStatusTool creates a StatusTool.
func NewStatusTool(s *store.Store) *StatusTool {
	return &StatusTool{store: s}
}

// Definition returns the MCP tool definition for ack_status.
func (t *StatusTool) Definition() mcp.Tool {
	return mcp.NewTool("ack_status",
		mcp.WithDescription(
			"Show one employee's handbook acknowledgment history: every version "+
				"they acknowledged and when. Lookup is by exact full name (case-insensitive).",
		),
		mcp.WithString("full_name",
			mcp.Required(),
			mcp.Description("Employee full name, exactly as registered"),
		),
	)
}

// Handle processes the ack_status tool call.
func (t *StatusTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	fullName := req.GetString("full_name", "")
	if fullName == "" {
		return mcp.NewToolResultError("'full_name' is required"), nil
	}

	emp, err := t.store.FindEmployeeByName(ctx, fullName)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("lookup failed: %v", err)), nil
	}
	if emp == nil {
		return mcp.NewToolResultText(fmt.Sprintf("No employee named %q. Try roster_search for near matches.", fullName)), nil
	}

	acks, err := t.store.AcknowledgmentsByEmployee(ctx, emp.ID)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("loading acknowledgments failed: %v", err)), nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "## %s\n\n", emp.FullName)
	fmt.Fprintf(&sb, "- **Status**: %s\n", emp.Status)
	if emp.ChannelUsername != "" {
		fmt.Fprintf(&sb, "- **Channel username**: @%s\n", emp.ChannelUsername)
	}
	fmt.Fprintf(&sb, "- **Acknowledgments**: %d\n", len(acks))

	if len(acks) > 0 {
		sb.WriteString("\n| Version | Acknowledged at |\n|---|---|\n")
		for _, a := range acks {
			fmt.Fprintf(&sb, "| %s | %s |\n", a.HandbookVersion, a.AcknowledgedAt)
		}
	}

	return mcp.NewToolResultText(sb.String()), nil
}
