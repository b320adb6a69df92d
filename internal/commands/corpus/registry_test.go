package corpuscmd

import (
	"testing"

	"github.com/goliatone/go-corpus/internal/commands"
	"github.com/goliatone/go-corpus/internal/commands/fixtures"
	"github.com/goliatone/go-corpus/internal/logging"
	"github.com/goliatone/go-corpus/pkg/interfaces"
	command "github.com/goliatone/go-command"
)

func TestRegisterCorpusCommandsHandlerOptionsApplied(t *testing.T) {
	indexService := &stubIndexService{}
	lintService := &stubLintService{}
	indexApplied := false
	syncApplied := false
	lintApplied := false

	_, err := RegisterCorpusCommands(nil, indexService, lintService, nil, FeatureGates{},
		WithIndexHandlerOptions(func(h *commands.Handler[IndexDirectoryCommand]) {
			indexApplied = true
		}),
		WithSyncHandlerOptions(func(h *commands.Handler[SyncDirectoryCommand]) {
			syncApplied = true
		}),
		WithLintHandlerOptions(func(h *commands.Handler[LintDirectoryCommand]) {
			lintApplied = true
		}),
	)
	if err != nil {
		t.Fatalf("register corpus commands: %v", err)
	}
	if !indexApplied || !syncApplied || !lintApplied {
		t.Fatalf("expected all handler options applied: index=%v sync=%v lint=%v", indexApplied, syncApplied, lintApplied)
	}
}

func TestRegisterCorpusCommandsRegistersHandlers(t *testing.T) {
	reg := fixtures.NewRecordingRegistry()
	indexService := &stubIndexService{}
	lintService := &stubLintService{}

	set, err := RegisterCorpusCommands(reg, indexService, lintService, nil, FeatureGates{})
	if err != nil {
		t.Fatalf("register corpus commands: %v", err)
	}
	if set == nil || set.Index == nil || set.Sync == nil || set.Lint == nil {
		t.Fatalf("expected full handler set, got %#v", set)
	}
	if len(reg.Handlers) != 3 {
		t.Fatalf("expected three handlers registered, got %d", len(reg.Handlers))
	}
	if reg.Handlers[0] != set.Index {
		t.Fatalf("expected index handler registered first, got %#v", reg.Handlers[0])
	}
}

func TestRegisterCorpusCommandsNilServiceError(t *testing.T) {
	if _, err := RegisterCorpusCommands(nil, nil, &stubLintService{}, nil, FeatureGates{}); err == nil {
		t.Fatal("expected error when index service nil")
	}
	if _, err := RegisterCorpusCommands(nil, &stubIndexService{}, nil, nil, FeatureGates{}); err == nil {
		t.Fatal("expected error when lint service nil")
	}
}

func TestRegisterSyncCronRegistersHandler(t *testing.T) {
	service := &stubIndexService{
		syncResult: &interfaces.SyncResult{},
	}
	handler := NewSyncDirectoryHandler(service, logging.NoOp(), FeatureGates{})
	recorder := fixtures.NewCronRecorder()

	cfg := command.HandlerConfig{Expression: "@daily"}
	msg := SyncDirectoryCommand{Directory: "docs"}

	if err := RegisterSyncCron(recorder.Registrar(), handler, cfg, msg); err != nil {
		t.Fatalf("register sync cron: %v", err)
	}

	if len(recorder.Registrations) != 1 {
		t.Fatalf("expected one cron registration, got %d", len(recorder.Registrations))
	}
	reg := recorder.Registrations[0]
	if reg.Config.Expression != cfg.Expression {
		t.Fatalf("expected cron expression %q, got %q", cfg.Expression, reg.Config.Expression)
	}
	if reg.Handler == nil {
		t.Fatal("expected cron handler function recorded")
	}
	if err := reg.Handler(); err != nil {
		t.Fatalf("executing cron handler: %v", err)
	}
	if len(service.syncCalls) != 1 {
		t.Fatalf("expected sync call executed, got %d", len(service.syncCalls))
	}
}

func TestRegisterSyncCronNoOpWhenRegistrarNil(t *testing.T) {
	service := &stubIndexService{}
	handler := NewSyncDirectoryHandler(service, logging.NoOp(), FeatureGates{})
	if err := RegisterSyncCron(nil, handler, command.HandlerConfig{}, SyncDirectoryCommand{Directory: "docs"}); err != nil {
		t.Fatalf("expected nil error when registrar nil, got %v", err)
	}
	if len(service.syncCalls) != 0 {
		t.Fatalf("expected no sync calls when registrar nil, got %d", len(service.syncCalls))
	}
}
