// Ackbot: Employee Handbook Acknowledgment Bot
//
// Watches a Telegram group for handbook acknowledgment phrases, resolves
// the claimed name against the employee roster, and records each
// acknowledgment at most once per employee and handbook version.
//
// Usage:
//
//	ackbot serve [config.yaml]   # Start the Telegram bot
//	ackbot mcp [config.yaml]     # Start the MCP reporting server (stdio)
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/hhgops/ackbot/internal/config"
	"github.com/hhgops/ackbot/internal/identity"
	"github.com/hhgops/ackbot/internal/phrase"
	"github.com/hhgops/ackbot/internal/pipeline"
	ackserver "github.com/hhgops/ackbot/internal/server"
	"github.com/hhgops/ackbot/internal/store"
	"github.com/hhgops/ackbot/internal/telegram"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	// Optional positional config file after the command.
	configPath := ""
	if len(os.Args) > 2 {
		configPath = os.Args[2]
	}

	switch os.Args[1] {
	case "serve":
		if err := runServe(configPath); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "mcp":
		if err := runMCP(configPath); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "--help", "-h", "help":
		printUsage()
		os.Exit(0)
	case "--version", "-v", "version":
		fmt.Printf("ackbot v%s\n", ackserver.Version)
		os.Exit(0)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

// runServe starts the Telegram bot and blocks until interrupted.
func runServe(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if cfg.Telegram.Token == "" {
		return fmt.Errorf("telegram token is required (set telegram.token or %s)", config.EnvBotToken)
	}

	log, err := zap.NewProduction()
	if err != nil {
		return fmt.Errorf("creating logger: %w", err)
	}
	defer log.Sync()

	st, err := store.Open(cfg.Storage.URL)
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}
	defer st.Close()

	resolver, err := buildResolver(cfg, st)
	if err != nil {
		return err
	}

	extractor := phrase.NewExtractor(cfg.Handbook.Organization)
	pipe := pipeline.New(extractor, resolver, st, cfg.Chat.AllowedChatID, log)

	bot, err := telegram.New(cfg.Telegram.Token, pipe, log)
	if err != nil {
		return fmt.Errorf("creating bot: %w", err)
	}

	// Graceful shutdown on interrupt.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info("ackbot starting",
		zap.String("version", ackserver.Version),
		zap.String("bot", bot.Username()),
		zap.String("policy", cfg.Resolution.Policy),
		zap.Int64("allowed_chat_id", cfg.Chat.AllowedChatID),
	)

	if err := bot.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	log.Info("ackbot stopped")
	return nil
}

// runMCP starts the read-only MCP reporting server on stdio.
func runMCP(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	s, cleanup, err := ackserver.New(cfg)
	if err != nil {
		return fmt.Errorf("creating server: %w", err)
	}
	defer cleanup()

	return server.ServeStdio(s)
}

// buildResolver selects the identity resolution policy from config.
func buildResolver(cfg config.Config, st *store.Store) (identity.Resolver, error) {
	scoring := identity.Scoring{
		MinScore:       cfg.Resolution.MinScore,
		TokenBonus:     cfg.Resolution.TokenBonus,
		TokenThreshold: cfg.Resolution.TokenThreshold,
		MaxSuggestions: cfg.Resolution.MaxSuggestions,
	}

	switch cfg.Resolution.Policy {
	case config.PolicyExactMatch:
		return identity.NewExactMatchResolver(st, scoring), nil
	case config.PolicyFindOrCreate:
		return identity.NewFindOrCreateResolver(st), nil
	default:
		return nil, fmt.Errorf("unknown resolution policy %q", cfg.Resolution.Policy)
	}
}

func printUsage() {
	fmt.Fprintf(os.Stderr, `Ackbot v%s — Employee Handbook Acknowledgment Bot

Usage:
  ackbot serve [config.yaml]   Start the Telegram bot
  ackbot mcp [config.yaml]     Start the MCP reporting server (stdio transport)

Environment:
  %-20s Telegram bot token (overrides telegram.token)
  %-20s Storage URL: postgres://... or a SQLite path (overrides storage.url)
  %-20s Restrict processing to one chat id (overrides chat.allowed_chat_id)
`, ackserver.Version, config.EnvBotToken, config.EnvDatabaseURL, config.EnvAllowedChatID)
}
