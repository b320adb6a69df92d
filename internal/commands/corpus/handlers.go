package corpuscmd

import (
	"context"
	"errors"

	"github.com/goliatone/go-corpus/internal/commands"
	"github.com/goliatone/go-corpus/internal/logging"
	"github.com/goliatone/go-corpus/pkg/interfaces"
	command "github.com/goliatone/go-command"
)

const (
	indexOperation = "corpus.index_directory"
	syncOperation  = "corpus.sync_directory"
	lintOperation  = "corpus.lint_directory"
)

var (
	// ErrIndexingDisabled is returned when the indexing feature flag is off at runtime.
	ErrIndexingDisabled = errors.New("corpus command: indexing disabled")
	// ErrLintingDisabled is returned when the linting feature flag is off at runtime.
	ErrLintingDisabled = errors.New("corpus command: linting disabled")
)

var (
	_ command.Commander[IndexDirectoryCommand] = (*IndexDirectoryHandler)(nil)
	_ command.Commander[SyncDirectoryCommand]  = (*SyncDirectoryHandler)(nil)
	_ command.Commander[LintDirectoryCommand]  = (*LintDirectoryHandler)(nil)
)

// IndexDirectoryHandler runs directory index operations via the shared
// command handler foundation.
type IndexDirectoryHandler struct {
	inner *commands.Handler[IndexDirectoryCommand]
}

// NewIndexDirectoryHandler creates a handler bound to the supplied index service.
func NewIndexDirectoryHandler(service interfaces.IndexService, logger interfaces.Logger, gates FeatureGates, opts ...commands.HandlerOption[IndexDirectoryCommand]) *IndexDirectoryHandler {
	baseLogger := logger
	if baseLogger == nil {
		baseLogger = logging.NoOp()
	}

	exec := func(ctx context.Context, msg IndexDirectoryCommand) error {
		if !gates.indexingEnabled() {
			return ErrIndexingDisabled
		}

		result, err := service.IndexDirectory(ctx, msg.Directory, interfaces.IndexOptions{
			DryRun:        msg.DryRun,
			IncludeDrafts: msg.IncludeDrafts,
		})
		if err != nil {
			return err
		}
		if result != nil {
			logging.WithFields(baseLogger, map[string]any{
				"created_count": len(result.CreatedIDs),
				"updated_count": len(result.UpdatedIDs),
				"skipped_count": len(result.SkippedIDs),
				"error_count":   len(result.Errors),
				"dry_run":       msg.DryRun,
			}).Info("corpus.command.index_directory.completed")
		}
		return nil
	}

	handlerOpts := []commands.HandlerOption[IndexDirectoryCommand]{
		commands.WithLogger[IndexDirectoryCommand](baseLogger),
		commands.WithOperation[IndexDirectoryCommand](indexOperation),
		commands.WithMessageFields(func(msg IndexDirectoryCommand) map[string]any {
			fields := map[string]any{
				"directory": msg.Directory,
			}
			if msg.DryRun {
				fields["dry_run"] = true
			}
			if msg.IncludeDrafts {
				fields["include_drafts"] = true
			}
			return fields
		}),
		commands.WithTelemetry(commands.DefaultTelemetry[IndexDirectoryCommand](baseLogger)),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &IndexDirectoryHandler{
		inner: commands.NewHandler(exec, handlerOpts...),
	}
}

// Execute satisfies command.Commander[IndexDirectoryCommand].
func (h *IndexDirectoryHandler) Execute(ctx context.Context, msg IndexDirectoryCommand) error {
	return h.inner.Execute(ctx, msg)
}

// SyncDirectoryHandler runs full synchronisation workflows via the shared
// command handler foundation.
type SyncDirectoryHandler struct {
	inner *commands.Handler[SyncDirectoryCommand]
}

// NewSyncDirectoryHandler creates a handler bound to the supplied index service.
func NewSyncDirectoryHandler(service interfaces.IndexService, logger interfaces.Logger, gates FeatureGates, opts ...commands.HandlerOption[SyncDirectoryCommand]) *SyncDirectoryHandler {
	baseLogger := logger
	if baseLogger == nil {
		baseLogger = logging.NoOp()
	}

	exec := func(ctx context.Context, msg SyncDirectoryCommand) error {
		if !gates.indexingEnabled() {
			return ErrIndexingDisabled
		}

		result, err := service.Sync(ctx, msg.Directory, interfaces.SyncOptions{
			IndexOptions: interfaces.IndexOptions{
				DryRun:        msg.DryRun,
				IncludeDrafts: msg.IncludeDrafts,
			},
			DeleteOrphaned: msg.DeleteOrphaned,
		})
		if err != nil {
			return err
		}
		if result != nil {
			logging.WithFields(baseLogger, map[string]any{
				"created_count":  result.Created,
				"updated_count":  result.Updated,
				"deleted_count":  result.Deleted,
				"skipped_count":  result.Skipped,
				"error_count":    len(result.Errors),
				"dry_run":        msg.DryRun,
				"delete_orphans": msg.DeleteOrphaned,
			}).Info("corpus.command.sync_directory.completed")
		}
		return nil
	}

	handlerOpts := []commands.HandlerOption[SyncDirectoryCommand]{
		commands.WithLogger[SyncDirectoryCommand](baseLogger),
		commands.WithOperation[SyncDirectoryCommand](syncOperation),
		commands.WithMessageFields(func(msg SyncDirectoryCommand) map[string]any {
			fields := map[string]any{
				"directory": msg.Directory,
			}
			if msg.DryRun {
				fields["dry_run"] = true
			}
			if msg.IncludeDrafts {
				fields["include_drafts"] = true
			}
			if msg.DeleteOrphaned {
				fields["delete_orphaned"] = true
			}
			return fields
		}),
		commands.WithTelemetry(commands.DefaultTelemetry[SyncDirectoryCommand](baseLogger)),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &SyncDirectoryHandler{
		inner: commands.NewHandler(exec, handlerOpts...),
	}
}

// Execute satisfies command.Commander[SyncDirectoryCommand].
func (h *SyncDirectoryHandler) Execute(ctx context.Context, msg SyncDirectoryCommand) error {
	return h.inner.Execute(ctx, msg)
}

// LintDirectoryHandler runs lint passes via the shared command handler foundation.
type LintDirectoryHandler struct {
	inner *commands.Handler[LintDirectoryCommand]
}

// NewLintDirectoryHandler creates a handler bound to the supplied lint service.
func NewLintDirectoryHandler(service interfaces.LintService, logger interfaces.Logger, gates FeatureGates, opts ...commands.HandlerOption[LintDirectoryCommand]) *LintDirectoryHandler {
	baseLogger := logger
	if baseLogger == nil {
		baseLogger = logging.NoOp()
	}

	exec := func(ctx context.Context, msg LintDirectoryCommand) error {
		if !gates.lintingEnabled() {
			return ErrLintingDisabled
		}

		report, err := service.LintDirectory(ctx, msg.Directory, interfaces.LintOptions{
			Disabled: msg.Disabled,
			Pattern:  msg.Pattern,
		})
		if err != nil {
			return err
		}
		if report != nil {
			logging.WithFields(baseLogger, map[string]any{
				"document_count": report.Documents,
				"finding_count":  len(report.Findings),
				"has_errors":     report.HasErrors(),
			}).Info("corpus.command.lint_directory.completed")
		}
		return nil
	}

	handlerOpts := []commands.HandlerOption[LintDirectoryCommand]{
		commands.WithLogger[LintDirectoryCommand](baseLogger),
		commands.WithOperation[LintDirectoryCommand](lintOperation),
		commands.WithMessageFields(func(msg LintDirectoryCommand) map[string]any {
			fields := map[string]any{
				"directory": msg.Directory,
			}
			if len(msg.Disabled) > 0 {
				fields["disabled_rules"] = len(msg.Disabled)
			}
			if msg.Pattern != "" {
				fields["pattern"] = msg.Pattern
			}
			return fields
		}),
		commands.WithTelemetry(commands.DefaultTelemetry[LintDirectoryCommand](baseLogger)),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &LintDirectoryHandler{
		inner: commands.NewHandler(exec, handlerOpts...),
	}
}

// Execute satisfies command.Commander[LintDirectoryCommand].
func (h *LintDirectoryHandler) Execute(ctx context.Context, msg LintDirectoryCommand) error {
	return h.inner.Execute(ctx, msg)
}
