// Package server wires the MCP reporting surface and creates the server
// instance.
//
// This is the composition root for the "mcp" command: it opens the store
// and injects it into the tools. No business logic lives here — only
// wiring. The MCP surface is read-only; the bot stays the sole writer.
package server

import (
	"fmt"

	"github.com/mark3labs/mcp-go/server"

	"github.com/hhgops/ackbot/internal/acktools"
	"github.com/hhgops/ackbot/internal/config"
	"github.com/hhgops/ackbot/internal/identity"
	"github.com/hhgops/ackbot/internal/store"
)

// Version is set at build time via ldflags.
var Version = "dev"

// New creates and configures the MCP server with the reporting tools
// registered against the configured storage backend.
//
// The returned cleanup function closes the store's database connection
// and must be called on shutdown (typically via defer). It is always
// non-nil and safe to call.
func New(cfg config.Config) (*server.MCPServer, func(), error) {
	st, err := store.Open(cfg.Storage.URL)
	if err != nil {
		return nil, noop, fmt.Errorf("opening store: %w", err)
	}
	cleanup := func() { _ = st.Close() }

	s := server.NewMCPServer(
		"ackbot",
		Version,
		server.WithToolCapabilities(true),
		server.WithRecovery(),
		server.WithInstructions(serverInstructions()),
	)

	scoring := identity.Scoring{
		MinScore:       cfg.Resolution.MinScore,
		TokenBonus:     cfg.Resolution.TokenBonus,
		TokenThreshold: cfg.Resolution.TokenThreshold,
		MaxSuggestions: cfg.Resolution.MaxSuggestions,
	}

	statusTool := acktools.NewStatusTool(st)
	s.AddTool(statusTool.Definition(), statusTool.Handle)

	reportTool := acktools.NewReportTool(st)
	s.AddTool(reportTool.Definition(), reportTool.Handle)

	rosterTool := acktools.NewRosterSearchTool(st, scoring)
	s.AddTool(rosterTool.Definition(), rosterTool.Handle)

	return s, cleanup, nil
}

// noop is the cleanup returned on failed construction.
func noop() {}

// serverInstructions returns the system instructions sent to MCP clients.
func serverInstructions() string {
	return `ackbot exposes read-only views over the handbook acknowledgment ledger.

Tools:
- ack_status: one employee's acknowledgment history, looked up by exact full name.
- ack_report: per-version compliance report (acknowledged vs. outstanding).
- roster_search: fuzzy roster lookup, using the same scoring the bot uses for suggestions.

Acknowledgments are recorded only by the chat bot; these tools never write.`
}
