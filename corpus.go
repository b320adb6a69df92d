package corpus

import (
	"context"

	"github.com/goliatone/go-corpus/internal/di"
	"github.com/goliatone/go-corpus/pkg/interfaces"
)

// CorpusService exports the document loading contract for consumers of the corpus package.
type CorpusService = interfaces.CorpusService

// LintService exports the lint service contract.
type LintService = interfaces.LintService

// IndexService exports the index service contract.
type IndexService = interfaces.IndexService

// SearchService exports the search service contract.
type SearchService = interfaces.SearchService

// StatsService exports the stats service contract.
type StatsService = interfaces.StatsService

// Document exports the shared document model.
type Document = interfaces.Document

// FrontMatter exports the document metadata model.
type FrontMatter = interfaces.FrontMatter

// Finding exports a single lint finding.
type Finding = interfaces.Finding

// LintOptions exports per-run lint configuration.
type LintOptions = interfaces.LintOptions

// IndexOptions exports per-run index configuration.
type IndexOptions = interfaces.IndexOptions

// SyncOptions exports per-run sync configuration.
type SyncOptions = interfaces.SyncOptions

// IndexResult exports the index run outcome.
type IndexResult = interfaces.IndexResult

// SyncResult exports the sync run outcome.
type SyncResult = interfaces.SyncResult

// LintReport exports the aggregate lint outcome.
type LintReport = interfaces.LintReport

// SearchQuery exports the search request shape.
type SearchQuery = interfaces.SearchQuery

// SearchResult exports the search response shape.
type SearchResult = interfaces.SearchResult

// CorpusStats exports the aggregate statistics shape.
type CorpusStats = interfaces.CorpusStats

// Module represents the top level corpus runtime façade.
type Module struct {
	container *di.Container
}

// New constructs a corpus module using the provided configuration and optional DI overrides.
func New(cfg Config, opts ...di.Option) (*Module, error) {
	container, err := di.NewContainer(cfg, opts...)
	if err != nil {
		return nil, err
	}
	return &Module{container: container}, nil
}

// Container exposes the underlying DI container for advanced integrations.
func (m *Module) Container() *di.Container {
	return m.container
}

// Corpus returns the configured document loading service.
func (m *Module) Corpus() CorpusService {
	if m == nil || m.container == nil {
		return nil
	}
	return m.container.CorpusService()
}

// Lint returns the configured lint service.
func (m *Module) Lint() LintService {
	if m == nil || m.container == nil {
		return nil
	}
	return m.container.LintService()
}

// Index returns the configured index service.
func (m *Module) Index() IndexService {
	if m == nil || m.container == nil {
		return nil
	}
	return m.container.IndexService()
}

// Search returns the configured search service.
func (m *Module) Search() SearchService {
	if m == nil || m.container == nil {
		return nil
	}
	return m.container.SearchService()
}

// Stats returns the configured stats service.
func (m *Module) Stats() StatsService {
	if m == nil || m.container == nil {
		return nil
	}
	return m.container.StatsService()
}

// EnsureSchema creates the index tables when a SQL backend is configured.
func (m *Module) EnsureSchema(ctx context.Context) error {
	if m == nil || m.container == nil {
		return nil
	}
	return m.container.EnsureSchema(ctx)
}

// Close releases resources the module opened, such as the sqlite handle.
func (m *Module) Close() error {
	if m == nil || m.container == nil {
		return nil
	}
	return m.container.Close()
}
