package runtimeconfig

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrCorpusBasePathRequired indicates the corpus root directory is missing.
var ErrCorpusBasePathRequired = errors.New("corpus config: corpus base path is required when the module is enabled")

// ErrStorageProviderUnknown rejects storage providers other than bun or memory.
var ErrStorageProviderUnknown = errors.New("corpus config: storage provider is invalid")

// ErrStorageDriverUnknown rejects drivers the bun provider cannot open.
var ErrStorageDriverUnknown = errors.New("corpus config: storage driver is invalid")

// ErrStorageDSNRequired ensures the bun provider always receives a DSN.
var ErrStorageDSNRequired = errors.New("corpus config: storage DSN is required when the bun provider is selected")

// ErrCommandsCronRequiresIndexing ensures automatic cron wiring only runs when indexing is enabled.
var ErrCommandsCronRequiresIndexing = errors.New("corpus config: command cron auto-registration requires indexing to be enabled")
var ErrSearchLimitInvalid = errors.New("corpus config: search limits must be zero or positive")
var ErrSearchMaxBelowDefault = errors.New("corpus config: search max limit must not be below the default limit")
var ErrCacheTTLInvalid = errors.New("corpus config: cache TTL must be zero or positive")
var ErrLoggingProviderRequired = errors.New("corpus config: logging provider is required when logging feature is enabled")
var ErrLoggingProviderUnknown = errors.New("corpus config: logging provider is invalid")
var ErrLoggingLevelInvalid = errors.New("corpus config: logging level is invalid")
var ErrLoggingFormatInvalid = errors.New("corpus config: logging format is invalid")

// Config aggregates feature flags and adapter bindings for the corpus module.
// Fields intentionally use simple types so host applications can extend them later.
type Config struct {
	Enabled  bool
	Corpus   CorpusConfig
	Lint     LintConfig
	Search   SearchConfig
	Storage  StorageConfig
	Cache    CacheConfig
	Features Features
	Commands CommandsConfig
	Logging  LoggingConfig
}

// CorpusConfig captures filesystem and parser behaviour for document loading.
type CorpusConfig struct {
	BasePath      string
	Pattern       string
	Recursive     bool
	DefaultTopic  string
	TopicDepth    int
	TopicPatterns map[string]string
	Parser        ParserConfig
}

// ParserConfig mirrors interfaces.ParseOptions for runtime configuration.
type ParserConfig struct {
	Extensions []string
	Sanitize   bool
	HardWraps  bool
	SafeMode   bool
}

// LintConfig selects default lint behaviour. Rules listed in Disabled are
// skipped unless a run explicitly re-enables them.
type LintConfig struct {
	Disabled []string
	// FrontMatterSchema holds a JSON schema applied to document frontmatter.
	// A nil map disables the schema rule.
	FrontMatterSchema map[string]any
}

// SearchConfig captures result paging defaults.
type SearchConfig struct {
	DefaultLimit int
	MaxLimit     int
}

// StorageConfig selects the persistence backend for the index.
type StorageConfig struct {
	// Provider is "bun" for SQL-backed storage or "memory" for the in-process fallback.
	Provider string
	// Driver selects the bun dialect, "sqlite" or "postgres".
	Driver string
	DSN    string
}

// CacheConfig captures repository cache behaviour toggles.
type CacheConfig struct {
	Enabled    bool
	DefaultTTL time.Duration
}

// Features toggles module functionality.
type Features struct {
	Indexing bool
	Linting  bool
	Search   bool
	Logger   bool
}

// LoggingConfig captures provider-specific options for runtime logging.
type LoggingConfig struct {
	Provider  string
	Level     string
	Format    string
	AddSource bool
	Focus     []string
}

// CommandsConfig captures optional command-layer behaviour.
type CommandsConfig struct {
	Enabled          bool
	AutoRegisterCron bool
	// SyncCron holds the cron expression used when sync runs are auto-scheduled.
	SyncCron string
}

// DefaultConfig returns opinionated defaults: sqlite-backed index over a
// ./content corpus with every feature enabled.
func DefaultConfig() Config {
	return Config{
		Enabled: true,
		Corpus: CorpusConfig{
			BasePath:      "content",
			Pattern:       "*.md",
			Recursive:     true,
			DefaultTopic:  "general",
			TopicDepth:    1,
			TopicPatterns: map[string]string{},
		},
		Lint: LintConfig{},
		Search: SearchConfig{
			DefaultLimit: 20,
			MaxLimit:     100,
		},
		Storage: StorageConfig{
			Provider: "bun",
			Driver:   "sqlite",
			DSN:      "file:corpus.db?cache=shared",
		},
		Cache: CacheConfig{
			Enabled:    true,
			DefaultTTL: time.Minute,
		},
		Features: Features{
			Indexing: true,
			Linting:  true,
			Search:   true,
		},
		Commands: CommandsConfig{
			SyncCron: "@hourly",
		},
		Logging: LoggingConfig{
			Provider: "console",
			Level:    "info",
			Format:   "",
		},
	}
}

// Validate performs high-level consistency checks.
func (cfg Config) Validate() error {
	if cfg.Enabled && strings.TrimSpace(cfg.Corpus.BasePath) == "" {
		return ErrCorpusBasePathRequired
	}
	if provider := normalizeToken(cfg.Storage.Provider); provider != "" {
		switch provider {
		case "bun":
			driver := normalizeToken(cfg.Storage.Driver)
			if driver != "" && driver != "sqlite" && driver != "postgres" {
				return fmt.Errorf("%w: %s", ErrStorageDriverUnknown, driver)
			}
			if strings.TrimSpace(cfg.Storage.DSN) == "" {
				return ErrStorageDSNRequired
			}
		case "memory":
		default:
			return fmt.Errorf("%w: %s", ErrStorageProviderUnknown, provider)
		}
	}
	if cfg.Commands.AutoRegisterCron && !cfg.Features.Indexing {
		return ErrCommandsCronRequiresIndexing
	}
	if cfg.Search.DefaultLimit < 0 || cfg.Search.MaxLimit < 0 {
		return ErrSearchLimitInvalid
	}
	if cfg.Search.MaxLimit > 0 && cfg.Search.DefaultLimit > cfg.Search.MaxLimit {
		return ErrSearchMaxBelowDefault
	}
	if cfg.Cache.DefaultTTL < 0 {
		return ErrCacheTTLInvalid
	}
	if cfg.Features.Logger {
		provider := normalizeToken(cfg.Logging.Provider)
		if provider == "" {
			return ErrLoggingProviderRequired
		}
		if !isSupportedProvider(provider) {
			return fmt.Errorf("%w: %s", ErrLoggingProviderUnknown, provider)
		}
		if level := strings.TrimSpace(cfg.Logging.Level); level != "" && !isSupportedLevel(level) {
			return fmt.Errorf("%w: %s", ErrLoggingLevelInvalid, level)
		}
		if provider == "gologger" {
			if format := strings.TrimSpace(cfg.Logging.Format); format != "" && !isSupportedFormat(format) {
				return fmt.Errorf("%w: %s", ErrLoggingFormatInvalid, format)
			}
		}
	}
	return nil
}

func normalizeToken(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}

func isSupportedProvider(provider string) bool {
	switch provider {
	case "console", "gologger":
		return true
	default:
		return false
	}
}

func isSupportedLevel(level string) bool {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal":
		return true
	default:
		return false
	}
}

func isSupportedFormat(format string) bool {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "json", "console", "pretty":
		return true
	default:
		return false
	}
}
