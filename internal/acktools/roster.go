package acktools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/hhgops/ackbot/internal/identity"
	"github.com/hhgops/ackbot/internal/store"
)

// RosterSearchTool handles the roster_search MCP tool. It reuses the
// pipeline's similarity scorer, so its suggestions match what the bot
// would tell a typo'd sender.
type RosterSearchTool struct {
	store   *store.Store
	scoring identity.Scoring
}

// NewRosterSearchTool creates a RosterSearchTool with the given scoring
// knobs.
func NewRosterSearchTool(s *store.Store, scoring identity.Scoring) *RosterSearchTool {
	return &RosterSearchTool{store: s, scoring: scoring}
}

// Definition returns the MCP tool definition for roster_search.
func (t *RosterSearchTool) Definition() mcp.Tool {
	return mcp.NewTool("roster_search",
		mcp.WithDescription(
			"Fuzzy-search the employee roster by name. Uses the same similarity "+
				"scoring the bot uses for its suggestion replies.",
		),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("Name or partial name to search for"),
		),
		mcp.WithNumber("limit",
			mcp.Description("Max results (default: scoring cap)"),
		),
	)
}

// Handle processes the roster_search tool call.
func (t *RosterSearchTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query := req.GetString("query", "")
	if query == "" {
		return mcp.NewToolResultError("'query' is required"), nil
	}

	sc := t.scoring
	if limit := intArg(req, "limit", 0); limit > 0 {
		sc.MaxSuggestions = limit
	}

	pool, err := t.store.ListNamedEmployees(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("listing roster failed: %v", err)), nil
	}

	candidates := identity.Rank(query, pool, sc)
	if len(candidates) == 0 {
		return mcp.NewToolResultText(fmt.Sprintf("No roster names score ≥ %.2f against %q.", sc.MinScore, query)), nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "## Matches for %q\n\n", query)
	for _, c := range candidates {
		fmt.Fprintf(&sb, "- %s (score %.2f)\n", c.FullName, c.Score)
	}
	return mcp.NewToolResultText(sb.String()), nil
}
