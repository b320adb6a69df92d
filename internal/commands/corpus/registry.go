package corpuscmd

import (
	"context"
	"errors"

	"github.com/goliatone/go-corpus/internal/commands"
	"github.com/goliatone/go-corpus/pkg/interfaces"
	command "github.com/goliatone/go-command"
)

// CommandRegistry is the minimal registration contract expected when wiring
// command handlers.
type CommandRegistry interface {
	RegisterCommand(handler any) error
}

// CronRegistrar matches the function signature used by go-command registries.
type CronRegistrar func(command.HandlerConfig, any) error

// HandlerSet groups the corpus command handlers produced by RegisterCorpusCommands.
type HandlerSet struct {
	Index *IndexDirectoryHandler
	Sync  *SyncDirectoryHandler
	Lint  *LintDirectoryHandler
}

// Option customises handler wiring during registration.
type Option func(*options)

type options struct {
	indexHandlerOpts []commands.HandlerOption[IndexDirectoryCommand]
	syncHandlerOpts  []commands.HandlerOption[SyncDirectoryCommand]
	lintHandlerOpts  []commands.HandlerOption[LintDirectoryCommand]
}

// WithIndexHandlerOptions forwards options to the IndexDirectoryHandler constructor.
func WithIndexHandlerOptions(opts ...commands.HandlerOption[IndexDirectoryCommand]) Option {
	return func(cfg *options) {
		cfg.indexHandlerOpts = append(cfg.indexHandlerOpts, opts...)
	}
}

// WithSyncHandlerOptions forwards options to the SyncDirectoryHandler constructor.
func WithSyncHandlerOptions(opts ...commands.HandlerOption[SyncDirectoryCommand]) Option {
	return func(cfg *options) {
		cfg.syncHandlerOpts = append(cfg.syncHandlerOpts, opts...)
	}
}

// WithLintHandlerOptions forwards options to the LintDirectoryHandler constructor.
func WithLintHandlerOptions(opts ...commands.HandlerOption[LintDirectoryCommand]) Option {
	return func(cfg *options) {
		cfg.lintHandlerOpts = append(cfg.lintHandlerOpts, opts...)
	}
}

// RegisterCorpusCommands builds corpus command handlers and registers them
// with the provided registry. The returned HandlerSet lets callers wire
// additional integrations (dispatcher, cron) as needed.
func RegisterCorpusCommands(reg CommandRegistry, indexService interfaces.IndexService, lintService interfaces.LintService, provider interfaces.LoggerProvider, gates FeatureGates, opts ...Option) (*HandlerSet, error) {
	if indexService == nil {
		return nil, errors.New("corpus command registration: index service is nil")
	}
	if lintService == nil {
		return nil, errors.New("corpus command registration: lint service is nil")
	}

	cfg := options{}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	logger := commands.CommandLogger(provider, "corpus")

	indexHandler := NewIndexDirectoryHandler(indexService, logger, gates, cfg.indexHandlerOpts...)
	syncHandler := NewSyncDirectoryHandler(indexService, logger, gates, cfg.syncHandlerOpts...)
	lintHandler := NewLintDirectoryHandler(lintService, logger, gates, cfg.lintHandlerOpts...)

	if reg != nil {
		if err := reg.RegisterCommand(indexHandler); err != nil {
			return nil, err
		}
		if err := reg.RegisterCommand(syncHandler); err != nil {
			return nil, err
		}
		if err := reg.RegisterCommand(lintHandler); err != nil {
			return nil, err
		}
	}

	return &HandlerSet{
		Index: indexHandler,
		Sync:  syncHandler,
		Lint:  lintHandler,
	}, nil
}

// RegisterSyncCron wires the provided sync handler into a cron registrar so
// repeated synchronisation runs can be scheduled. The handler executes with a
// background context.
func RegisterSyncCron(reg CronRegistrar, handler *SyncDirectoryHandler, cfg command.HandlerConfig, msg SyncDirectoryCommand) error {
	if reg == nil || handler == nil {
		return nil
	}
	return reg(cfg, func() error {
		return handler.Execute(context.Background(), msg)
	})
}
