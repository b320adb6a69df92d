package logging

import (
	"context"
	"strings"

	"github.com/goliatone/go-corpus/pkg/interfaces"
)

const (
	rootModule   = "corpus"
	loaderModule = "corpus.loader"
	lintModule   = "corpus.lint"
	indexModule  = "corpus.index"
	searchModule = "corpus.search"
)

const (
	fieldDocumentPath  = "document_path"
	fieldDocumentTopic = "topic"
	fieldSyncAction    = "sync_action"
)

// ModuleLogger returns a module-scoped logger, defaulting to a no-op
// implementation when no provider is supplied. The returned logger attaches
// the module identifier as structured context so downstream entries can be
// filtered predictably.
func ModuleLogger(provider interfaces.LoggerProvider, module string) interfaces.Logger {
	if module == "" {
		module = rootModule
	}

	logger := NoOp()
	if provider != nil {
		if provided := provider.GetLogger(module); provided != nil {
			logger = provided
		}
	}

	if fieldsLogger, ok := logger.(interfaces.FieldsLogger); ok {
		return fieldsLogger.WithFields(map[string]any{
			"module": module,
		})
	}

	return WithFields(logger, map[string]any{
		"module": module,
	})
}

// LoaderLogger returns the logger namespace reserved for corpus loading.
func LoaderLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, loaderModule)
}

// LintLogger returns the logger namespace reserved for lint runs.
func LintLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, lintModule)
}

// IndexLogger returns the logger namespace reserved for index workflows.
func IndexLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, indexModule)
}

// SearchLogger returns the logger namespace reserved for search queries.
func SearchLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, searchModule)
}

// WithDocumentContext enriches the provided logger with common document fields
// such as file path, topic, and sync action. Empty values are ignored.
func WithDocumentContext(logger interfaces.Logger, path, topic, action string) interfaces.Logger {
	fields := map[string]any{}
	if trimmed := strings.TrimSpace(path); trimmed != "" {
		fields[fieldDocumentPath] = trimmed
	}
	if trimmed := strings.TrimSpace(topic); trimmed != "" {
		fields[fieldDocumentTopic] = trimmed
	}
	if trimmed := strings.TrimSpace(action); trimmed != "" {
		fields[fieldSyncAction] = trimmed
	}
	return WithFields(logger, fields)
}

// NoOp returns a logger that drops every log entry. It satisfies the Logger
// contract so services can safely operate when logging is disabled.
func NoOp() interfaces.Logger {
	return noopLogger{}
}

type noopLogger struct{}

var _ interfaces.Logger = noopLogger{}

func (noopLogger) Trace(string, ...any) {}
func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}
func (noopLogger) Fatal(string, ...any) {}

func (n noopLogger) WithFields(map[string]any) interfaces.Logger {
	return n
}

func (n noopLogger) WithContext(context.Context) interfaces.Logger {
	return n
}
