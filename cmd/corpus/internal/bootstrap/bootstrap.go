package bootstrap

import (
	"context"
	"fmt"
	"strings"

	corpus "github.com/goliatone/go-corpus"
	"github.com/goliatone/go-corpus/internal/di"
	"github.com/goliatone/go-corpus/internal/logging"
	"github.com/goliatone/go-corpus/pkg/interfaces"
)

// Options captures configuration shared by the corpus CLI entry points.
type Options struct {
	ContentDir     string
	Pattern        string
	Recursive      bool
	DefaultTopic   string
	TopicDepth     int
	StorageDriver  string
	StorageDSN     string
	LoggerProvider interfaces.LoggerProvider
}

// Module wraps the corpus module plus the services and logger the CLIs use.
type Module struct {
	Module *corpus.Module
	Corpus interfaces.CorpusService
	Lint   interfaces.LintService
	Index  interfaces.IndexService
	Search interfaces.SearchService
	Stats  interfaces.StatsService
	Logger interfaces.Logger
}

// BuildModule constructs a corpus module configured for CLI operations. An
// empty StorageDSN selects the in-process memory backend; otherwise sqlite is
// opened at the DSN and the index schema is created.
func BuildModule(opts Options) (*Module, error) {
	cfg := corpus.DefaultConfig()

	cfg.Corpus.BasePath = strings.TrimSpace(opts.ContentDir)
	if cfg.Corpus.BasePath == "" {
		cfg.Corpus.BasePath = "content"
	}
	if trimmed := strings.TrimSpace(opts.Pattern); trimmed != "" {
		cfg.Corpus.Pattern = trimmed
	}
	cfg.Corpus.Recursive = opts.Recursive
	if trimmed := strings.TrimSpace(opts.DefaultTopic); trimmed != "" {
		cfg.Corpus.DefaultTopic = trimmed
	}
	if opts.TopicDepth > 0 {
		cfg.Corpus.TopicDepth = opts.TopicDepth
	}

	if strings.TrimSpace(opts.StorageDSN) == "" {
		cfg.Storage.Provider = "memory"
		cfg.Storage.Driver = ""
		cfg.Storage.DSN = ""
	} else {
		cfg.Storage.Provider = "bun"
		cfg.Storage.DSN = strings.TrimSpace(opts.StorageDSN)
		if trimmed := strings.TrimSpace(opts.StorageDriver); trimmed != "" {
			cfg.Storage.Driver = trimmed
		}
	}

	diOpts := []di.Option{}
	if opts.LoggerProvider != nil {
		diOpts = append(diOpts, di.WithLoggerProvider(opts.LoggerProvider))
	}

	module, err := corpus.New(cfg, diOpts...)
	if err != nil {
		return nil, fmt.Errorf("initialise corpus module: %w", err)
	}

	if err := module.EnsureSchema(context.Background()); err != nil {
		_ = module.Close()
		return nil, fmt.Errorf("ensure index schema: %w", err)
	}

	logger := logging.ModuleLogger(module.Container().LoggerProvider(), "corpus.cli")

	return &Module{
		Module: module,
		Corpus: module.Corpus(),
		Lint:   module.Lint(),
		Index:  module.Index(),
		Search: module.Search(),
		Stats:  module.Stats(),
		Logger: logger,
	}, nil
}

// Close releases module resources; safe on nil receivers for stubbed tests.
func (m *Module) Close() error {
	if m == nil || m.Module == nil {
		return nil
	}
	return m.Module.Close()
}

// SplitList parses a comma separated flag value into a trimmed slice.
func SplitList(value string) []string {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
