package interfaces

import (
	"context"

	"github.com/google/uuid"
)

// SearchService answers term queries against the persistent index.
type SearchService interface {
	Search(ctx context.Context, query SearchQuery) (*SearchResult, error)
}

// SearchQuery describes a single search request. Term is required; the
// remaining fields narrow or page the result set.
type SearchQuery struct {
	Term          string
	Topic         string
	Tag           string
	IncludeDrafts bool
	Limit         int
	Offset        int
}

// SearchHit is a single matched document with ranking context.
type SearchHit struct {
	ID      uuid.UUID
	Path    string
	Topic   string
	Slug    string
	Title   string
	Summary string
	// Snippet holds body context around the first match, empty when the
	// match occurred only in title or summary.
	Snippet string
	Rank    int
}

// SearchResult carries the ordered hits plus the total match count before
// paging was applied.
type SearchResult struct {
	Hits  []SearchHit
	Total int
}

// StatsService aggregates read-only statistics over the index.
type StatsService interface {
	Collect(ctx context.Context) (*CorpusStats, error)
}

// CorpusStats summarises the indexed corpus.
type CorpusStats struct {
	Documents       int
	Words           int
	Topics          []TopicStats
	FenceLanguages  map[string]int
	UnresolvedLinks int
}

// TopicStats reports per-topic document and word counts.
type TopicStats struct {
	Topic     string
	Documents int
	Words     int
}
