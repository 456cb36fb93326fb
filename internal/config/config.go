// Package config defines the immutable runtime configuration for the bot.
//
// Configuration is resolved once at startup — defaults, then an optional
// YAML file, then environment variables — and the resulting value is
// injected into constructors. Business logic never reads ambient state.
package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Resolution policies. Exactly one is active per deployment.
const (
	// PolicyExactMatch requires the claimed name to equal a registered
	// employee name; near misses get ranked suggestions.
	PolicyExactMatch = "exact"
	// PolicyFindOrCreate provisions an employee on first contact, keyed
	// by the sender's stable channel user id.
	PolicyFindOrCreate = "find_or_create"
)

// Environment variables recognized by Load. They match the original
// deployment and override any file-provided values.
const (
	EnvBotToken      = "TELEGRAM_BOT_TOKEN"
	EnvDatabaseURL   = "DATABASE_URL"
	EnvAllowedChatID = "ALLOWED_CHAT_ID"
)

// Config is the full runtime configuration.
type Config struct {
	Telegram   Telegram   `yaml:"telegram"`
	Storage    Storage    `yaml:"storage"`
	Chat       Chat       `yaml:"chat"`
	Resolution Resolution `yaml:"resolution"`
	Handbook   Handbook   `yaml:"handbook"`
}

// Telegram holds the bot credential. The token is opaque to the core.
type Telegram struct {
	Token string `yaml:"token"`
}

// Storage holds the storage connection target. URLs starting with
// postgres:// (or postgresql://) select the Postgres backend; anything
// else is treated as a SQLite database path.
type Storage struct {
	URL string `yaml:"url"`
}

// Chat restricts processing to a single chat. Zero means unrestricted.
type Chat struct {
	AllowedChatID int64 `yaml:"allowed_chat_id"`
}

// Resolution selects the identity resolution policy and its scoring knobs.
// The thresholds are a product decision, not an architectural one, so they
// are configurable with the historical values as defaults.
type Resolution struct {
	Policy         string  `yaml:"policy"`
	MinScore       float64 `yaml:"min_score"`
	TokenBonus     float64 `yaml:"token_bonus"`
	TokenThreshold float64 `yaml:"token_threshold"`
	MaxSuggestions int     `yaml:"max_suggestions"`
}

// Handbook holds the organization name embedded in the trigger phrase.
type Handbook struct {
	Organization string `yaml:"organization"`
}

// Default returns the configuration defaults: exact-match resolution with
// the historical scoring constants, unrestricted chat scope, HHG handbook.
func Default() Config {
	return Config{
		Resolution: Resolution{
			Policy:         PolicyExactMatch,
			MinScore:       0.6,
			TokenBonus:     0.15,
			TokenThreshold: 0.8,
			MaxSuggestions: 3,
		},
		Handbook: Handbook{Organization: "HHG"},
	}
}

// Load resolves the effective configuration. path may be empty, in which
// case only defaults and environment variables apply. A non-empty path
// must name a readable YAML file.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("config: reading %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("config: parsing %s: %w", path, err)
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// applyEnv overlays the recognized environment variables onto cfg.
func applyEnv(cfg *Config) error {
	if v := os.Getenv(EnvBotToken); v != "" {
		cfg.Telegram.Token = v
	}
	if v := os.Getenv(EnvDatabaseURL); v != "" {
		cfg.Storage.URL = v
	}
	if v := os.Getenv(EnvAllowedChatID); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("config: %s=%q is not an integer: %w", EnvAllowedChatID, v, err)
		}
		cfg.Chat.AllowedChatID = id
	}
	return nil
}

// Validate checks invariants that would otherwise surface as confusing
// runtime failures. The Telegram token is deliberately not required here:
// the reporting server runs without one.
func (c Config) Validate() error {
	if c.Storage.URL == "" {
		return fmt.Errorf("config: storage url is required (set storage.url or %s)", EnvDatabaseURL)
	}
	switch c.Resolution.Policy {
	case PolicyExactMatch, PolicyFindOrCreate:
	default:
		return fmt.Errorf("config: unknown resolution policy %q (want %q or %q)",
			c.Resolution.Policy, PolicyExactMatch, PolicyFindOrCreate)
	}
	if c.Resolution.MinScore < 0 || c.Resolution.MinScore > 1 {
		return fmt.Errorf("config: min_score %v out of range [0,1]", c.Resolution.MinScore)
	}
	if c.Resolution.TokenThreshold < 0 || c.Resolution.TokenThreshold > 1 {
		return fmt.Errorf("config: token_threshold %v out of range [0,1]", c.Resolution.TokenThreshold)
	}
	if c.Resolution.MaxSuggestions < 0 {
		return fmt.Errorf("config: max_suggestions must not be negative")
	}
	if c.Handbook.Organization == "" {
		return fmt.Errorf("config: handbook organization is required")
	}
	return nil
}
