package corpuscmd

import (
	"context"
	"errors"
	"testing"

	"github.com/goliatone/go-corpus/internal/logging"
	"github.com/goliatone/go-corpus/pkg/interfaces"
	goerrors "github.com/goliatone/go-errors"
	"github.com/google/uuid"
)

type indexCall struct {
	directory string
	options   interfaces.IndexOptions
}

type syncCall struct {
	directory string
	options   interfaces.SyncOptions
}

type stubIndexService struct {
	indexCalls []indexCall
	syncCalls  []syncCall

	indexResult *interfaces.IndexResult
	syncResult  *interfaces.SyncResult

	indexErr error
	syncErr  error
}

func (s *stubIndexService) Index(context.Context, *interfaces.Document, interfaces.IndexOptions) (*interfaces.IndexResult, error) {
	return nil, nil
}

func (s *stubIndexService) IndexDirectory(ctx context.Context, directory string, opts interfaces.IndexOptions) (*interfaces.IndexResult, error) {
	s.indexCalls = append(s.indexCalls, indexCall{directory: directory, options: opts})
	if s.indexErr != nil {
		return nil, s.indexErr
	}
	return s.indexResult, nil
}

func (s *stubIndexService) Sync(ctx context.Context, directory string, opts interfaces.SyncOptions) (*interfaces.SyncResult, error) {
	s.syncCalls = append(s.syncCalls, syncCall{directory: directory, options: opts})
	if s.syncErr != nil {
		return nil, s.syncErr
	}
	return s.syncResult, nil
}

type lintCall struct {
	directory string
	options   interfaces.LintOptions
}

type stubLintService struct {
	lintCalls  []lintCall
	lintReport *interfaces.LintReport
	lintErr    error
}

func (s *stubLintService) LintDirectory(ctx context.Context, directory string, opts interfaces.LintOptions) (*interfaces.LintReport, error) {
	s.lintCalls = append(s.lintCalls, lintCall{directory: directory, options: opts})
	if s.lintErr != nil {
		return nil, s.lintErr
	}
	return s.lintReport, nil
}

type captureLogger struct {
	fields       []map[string]any
	infoMessages []string
}

var _ interfaces.Logger = (*captureLogger)(nil)

func (c *captureLogger) Trace(string, ...any) {}
func (c *captureLogger) Debug(string, ...any) {}
func (c *captureLogger) Info(msg string, _ ...any) {
	c.infoMessages = append(c.infoMessages, msg)
}
func (c *captureLogger) Warn(string, ...any)  {}
func (c *captureLogger) Error(string, ...any) {}
func (c *captureLogger) Fatal(string, ...any) {}

func (c *captureLogger) WithFields(fields map[string]any) interfaces.Logger {
	if fields == nil {
		c.fields = append(c.fields, map[string]any{})
		return c
	}
	copied := make(map[string]any, len(fields))
	for k, v := range fields {
		copied[k] = v
	}
	c.fields = append(c.fields, copied)
	return c
}

func (c *captureLogger) WithContext(context.Context) interfaces.Logger {
	return c
}

func TestIndexDirectoryHandlerInvokesService(t *testing.T) {
	service := &stubIndexService{
		indexResult: &interfaces.IndexResult{
			CreatedIDs: []uuid.UUID{uuid.New()},
			UpdatedIDs: []uuid.UUID{},
			SkippedIDs: []uuid.UUID{uuid.New(), uuid.New()},
			Errors:     []error{},
		},
	}
	logger := &captureLogger{}
	handler := NewIndexDirectoryHandler(service, logger, FeatureGates{
		IndexingEnabled: func() bool { return true },
	})

	cmd := IndexDirectoryCommand{
		Directory:     "docs",
		DryRun:        true,
		IncludeDrafts: true,
	}

	if err := handler.Execute(context.Background(), cmd); err != nil {
		t.Fatalf("execute index directory: %v", err)
	}

	if len(service.indexCalls) != 1 {
		t.Fatalf("expected index call, got %d", len(service.indexCalls))
	}
	call := service.indexCalls[0]
	if call.directory != cmd.Directory {
		t.Fatalf("expected directory %q, got %q", cmd.Directory, call.directory)
	}
	if !call.options.DryRun || !call.options.IncludeDrafts {
		t.Fatalf("expected options forwarded, got %+v", call.options)
	}

	if len(logger.infoMessages) == 0 {
		t.Fatal("expected summary log emitted")
	}
	found := false
	for _, fields := range logger.fields {
		if _, ok := fields["created_count"]; ok {
			found = true
			if fields["created_count"] != len(service.indexResult.CreatedIDs) {
				t.Fatalf("expected created count %d, got %v", len(service.indexResult.CreatedIDs), fields["created_count"])
			}
			break
		}
	}
	if !found {
		t.Fatalf("expected summary fields recorded, got %#v", logger.fields)
	}
}

func TestIndexDirectoryHandlerFeatureDisabled(t *testing.T) {
	service := &stubIndexService{}
	handler := NewIndexDirectoryHandler(service, logging.NoOp(), FeatureGates{
		IndexingEnabled: func() bool { return false },
	})

	err := handler.Execute(context.Background(), IndexDirectoryCommand{Directory: "docs"})
	if !errors.Is(err, ErrIndexingDisabled) {
		t.Fatalf("expected indexing disabled error, got %v", err)
	}
	if len(service.indexCalls) != 0 {
		t.Fatalf("expected no index calls, got %d", len(service.indexCalls))
	}
}

func TestIndexDirectoryHandlerContextCancellation(t *testing.T) {
	service := &stubIndexService{}
	handler := NewIndexDirectoryHandler(service, logging.NoOp(), FeatureGates{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := handler.Execute(ctx, IndexDirectoryCommand{Directory: "docs"})
	if err == nil {
		t.Fatal("expected context cancellation error")
	}
	if !goerrors.IsCategory(err, goerrors.CategoryCommand) {
		t.Fatalf("expected command error category, got %v", err)
	}
	if len(service.indexCalls) != 0 {
		t.Fatalf("expected no index calls, got %d", len(service.indexCalls))
	}
}

func TestSyncDirectoryHandlerInvokesService(t *testing.T) {
	service := &stubIndexService{
		syncResult: &interfaces.SyncResult{
			Created: 2,
			Updated: 1,
			Deleted: 1,
			Skipped: 3,
			Errors:  []error{},
		},
	}
	logger := &captureLogger{}
	handler := NewSyncDirectoryHandler(service, logger, FeatureGates{})

	cmd := SyncDirectoryCommand{
		Directory:      "docs",
		DryRun:         true,
		DeleteOrphaned: true,
	}

	if err := handler.Execute(context.Background(), cmd); err != nil {
		t.Fatalf("execute sync directory: %v", err)
	}

	if len(service.syncCalls) != 1 {
		t.Fatalf("expected sync call, got %d", len(service.syncCalls))
	}
	call := service.syncCalls[0]
	if !call.options.DryRun || !call.options.DeleteOrphaned {
		t.Fatalf("expected options forwarded, got %+v", call.options)
	}

	found := false
	for _, fields := range logger.fields {
		if _, ok := fields["deleted_count"]; ok {
			found = true
			if fields["deleted_count"] != service.syncResult.Deleted {
				t.Fatalf("expected deleted count %d, got %v", service.syncResult.Deleted, fields["deleted_count"])
			}
			break
		}
	}
	if !found {
		t.Fatalf("expected sync summary fields recorded, got %#v", logger.fields)
	}
}

func TestLintDirectoryHandlerInvokesService(t *testing.T) {
	service := &stubLintService{
		lintReport: &interfaces.LintReport{
			Documents: 4,
			Findings: []interfaces.Finding{
				{Rule: "fence/closed", Severity: interfaces.SeverityError, Path: "a.md", Line: 3},
			},
		},
	}
	logger := &captureLogger{}
	handler := NewLintDirectoryHandler(service, logger, FeatureGates{})

	cmd := LintDirectoryCommand{
		Directory: "docs",
		Disabled:  []string{"doc/title"},
	}

	if err := handler.Execute(context.Background(), cmd); err != nil {
		t.Fatalf("execute lint directory: %v", err)
	}

	if len(service.lintCalls) != 1 {
		t.Fatalf("expected lint call, got %d", len(service.lintCalls))
	}
	call := service.lintCalls[0]
	if len(call.options.Disabled) != 1 || call.options.Disabled[0] != "doc/title" {
		t.Fatalf("expected disabled rules forwarded, got %+v", call.options)
	}

	found := false
	for _, fields := range logger.fields {
		if _, ok := fields["finding_count"]; ok {
			found = true
			if fields["has_errors"] != true {
				t.Fatalf("expected has_errors true, got %v", fields["has_errors"])
			}
			break
		}
	}
	if !found {
		t.Fatalf("expected lint summary fields recorded, got %#v", logger.fields)
	}
}

func TestLintDirectoryHandlerFeatureDisabled(t *testing.T) {
	service := &stubLintService{}
	handler := NewLintDirectoryHandler(service, logging.NoOp(), FeatureGates{
		LintingEnabled: func() bool { return false },
	})

	err := handler.Execute(context.Background(), LintDirectoryCommand{Directory: "docs"})
	if !errors.Is(err, ErrLintingDisabled) {
		t.Fatalf("expected linting disabled error, got %v", err)
	}
	if len(service.lintCalls) != 0 {
		t.Fatalf("expected no lint calls, got %d", len(service.lintCalls))
	}
}
