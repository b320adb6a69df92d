package di

import (
	"context"
	"testing"

	"github.com/goliatone/go-corpus/internal/logging/gologger"
	"github.com/goliatone/go-corpus/pkg/interfaces"
)

type recordingProvider struct {
	requested []string
}

func (r *recordingProvider) GetLogger(name string) interfaces.Logger {
	r.requested = append(r.requested, name)
	return recordingLogger{}
}

type recordingLogger struct{}

func (recordingLogger) Trace(string, ...any) {}
func (recordingLogger) Debug(string, ...any) {}
func (recordingLogger) Info(string, ...any)  {}
func (recordingLogger) Warn(string, ...any)  {}
func (recordingLogger) Error(string, ...any) {}
func (recordingLogger) Fatal(string, ...any) {}

func (l recordingLogger) WithFields(map[string]any) interfaces.Logger {
	return l
}

func (l recordingLogger) WithContext(context.Context) interfaces.Logger {
	return l
}

func TestNewContainerUsesInjectedLoggerProvider(t *testing.T) {
	cfg := testConfig(t)
	rec := &recordingProvider{}

	container, err := NewContainer(cfg, WithLoggerProvider(rec))
	if err != nil {
		t.Fatalf("NewContainer: %v", err)
	}
	defer container.Close()

	if container.LoggerProvider() != rec {
		t.Fatal("expected injected logger provider")
	}
	if len(rec.requested) == 0 {
		t.Fatal("expected module loggers requested from provider")
	}
}

func TestNewContainerSelectsGoLoggerProvider(t *testing.T) {
	cfg := testConfig(t)
	cfg.Features.Logger = true
	cfg.Logging.Provider = "gologger"
	cfg.Logging.Level = "debug"

	container, err := NewContainer(cfg)
	if err != nil {
		t.Fatalf("NewContainer: %v", err)
	}
	defer container.Close()

	if _, ok := container.LoggerProvider().(*gologger.Provider); !ok {
		t.Fatalf("expected gologger provider, got %T", container.LoggerProvider())
	}
}

func TestNewContainerDefaultsToConsoleProvider(t *testing.T) {
	cfg := testConfig(t)

	container, err := NewContainer(cfg)
	if err != nil {
		t.Fatalf("NewContainer: %v", err)
	}
	defer container.Close()

	if container.LoggerProvider() == nil {
		t.Fatal("expected console provider fallback")
	}
}
