package search

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/uptrace/bun"

	"github.com/goliatone/go-corpus/internal/index"
	"github.com/goliatone/go-corpus/internal/logging"
	"github.com/goliatone/go-corpus/pkg/interfaces"
)

var (
	ErrTermRequired       = errors.New("search: term is required")
	ErrRepositoryRequired = errors.New("search: document repository is required")
)

const (
	defaultLimit  = 20
	maxLimit      = 100
	snippetRadius = 80
)

// Config tunes result paging defaults.
type Config struct {
	// DefaultLimit applies when a query omits Limit (defaults to 20).
	DefaultLimit int
	// MaxLimit caps any requested page size (defaults to 100).
	MaxLimit int
}

// Service implements interfaces.SearchService. When a bun handle is present
// the candidate set is narrowed in SQL; ranking and snippets always happen
// in process so both storage modes behave identically.
type Service struct {
	cfg       Config
	db        *bun.DB
	documents index.DocumentRepository
	logger    interfaces.Logger
}

// NewService constructs a search service. db may be nil, in which case
// candidates come from the document repository.
func NewService(cfg Config, documents index.DocumentRepository, db *bun.DB, provider interfaces.LoggerProvider) (*Service, error) {
	if documents == nil {
		return nil, ErrRepositoryRequired
	}
	if cfg.DefaultLimit <= 0 {
		cfg.DefaultLimit = defaultLimit
	}
	if cfg.MaxLimit <= 0 {
		cfg.MaxLimit = maxLimit
	}
	return &Service{
		cfg:       cfg,
		db:        db,
		documents: documents,
		logger:    logging.SearchLogger(provider),
	}, nil
}

// Search ranks matching documents for the supplied term. Title matches
// outrank summary matches, which outrank body matches.
func (s *Service) Search(ctx context.Context, query interfaces.SearchQuery) (*interfaces.SearchResult, error) {
	term := strings.TrimSpace(query.Term)
	if term == "" {
		return nil, ErrTermRequired
	}

	candidates, err := s.candidates(ctx, term, query)
	if err != nil {
		return nil, err
	}

	hits := make([]interfaces.SearchHit, 0, len(candidates))
	for _, doc := range candidates {
		rank := rankDocument(doc, term)
		if rank == 0 {
			continue
		}
		hits = append(hits, interfaces.SearchHit{
			ID:      doc.ID,
			Path:    doc.Path,
			Topic:   doc.TopicKey,
			Slug:    doc.Slug,
			Title:   doc.Title,
			Summary: stringValue(doc.Summary),
			Snippet: snippet(doc.Body, term),
			Rank:    rank,
		})
	}

	sort.Slice(hits, func(i, j int) bool {
		if hits[i].Rank != hits[j].Rank {
			return hits[i].Rank > hits[j].Rank
		}
		return hits[i].Path < hits[j].Path
	})

	total := len(hits)
	hits = page(hits, query.Offset, s.limit(query.Limit))

	s.logger.Debug("search.completed", "term", term, "total", total, "returned", len(hits))

	return &interfaces.SearchResult{
		Hits:  hits,
		Total: total,
	}, nil
}

func (s *Service) candidates(ctx context.Context, term string, query interfaces.SearchQuery) ([]*index.Document, error) {
	if s.db == nil {
		return s.scanCandidates(ctx, term, query)
	}

	pattern := "%" + escapeLike(term) + "%"

	var docs []*index.Document
	q := s.db.NewSelect().
		Model(&docs).
		WhereGroup(" AND ", func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.
				Where("title LIKE ? ESCAPE '\\'", pattern).
				WhereOr("summary LIKE ? ESCAPE '\\'", pattern).
				WhereOr("body LIKE ? ESCAPE '\\'", pattern)
		})

	if topic := strings.TrimSpace(query.Topic); topic != "" {
		q = q.Where("topic_key = ?", topic)
	}
	if tag := strings.TrimSpace(query.Tag); tag != "" {
		q = q.Where("tags LIKE ? ESCAPE '\\'", "%\""+escapeLike(tag)+"\"%")
	}
	if !query.IncludeDrafts {
		q = q.Where("draft = ?", false)
	}

	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("search: query candidates: %w", err)
	}
	return docs, nil
}

func (s *Service) scanCandidates(ctx context.Context, term string, query interfaces.SearchQuery) ([]*index.Document, error) {
	docs, err := s.documents.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("search: list documents: %w", err)
	}

	lowered := strings.ToLower(term)
	topic := strings.TrimSpace(query.Topic)
	tag := strings.TrimSpace(query.Tag)

	out := make([]*index.Document, 0, len(docs))
	for _, doc := range docs {
		if doc.Draft && !query.IncludeDrafts {
			continue
		}
		if topic != "" && doc.TopicKey != topic {
			continue
		}
		if tag != "" && !hasTag(doc.Tags, tag) {
			continue
		}
		if !strings.Contains(strings.ToLower(doc.Title), lowered) &&
			!strings.Contains(strings.ToLower(stringValue(doc.Summary)), lowered) &&
			!strings.Contains(strings.ToLower(doc.Body), lowered) {
			continue
		}
		out = append(out, doc)
	}
	return out, nil
}

func (s *Service) limit(requested int) int {
	if requested <= 0 {
		return s.cfg.DefaultLimit
	}
	if requested > s.cfg.MaxLimit {
		return s.cfg.MaxLimit
	}
	return requested
}

func rankDocument(doc *index.Document, term string) int {
	lowered := strings.ToLower(term)
	titleHits := strings.Count(strings.ToLower(doc.Title), lowered)
	summaryHits := strings.Count(strings.ToLower(stringValue(doc.Summary)), lowered)
	bodyHits := strings.Count(strings.ToLower(doc.Body), lowered)
	return titleHits*100 + summaryHits*10 + bodyHits
}

// snippet extracts body context around the first term occurrence. Returns
// empty when the term only matched title or summary.
func snippet(body, term string) string {
	lowered := strings.ToLower(body)
	idx := strings.Index(lowered, strings.ToLower(term))
	if idx < 0 {
		return ""
	}

	start := idx - snippetRadius
	if start < 0 {
		start = 0
	}
	end := idx + len(term) + snippetRadius
	if end > len(body) {
		end = len(body)
	}

	excerpt := body[start:end]
	// Trim partial words at the cut points.
	if start > 0 {
		if cut := strings.IndexAny(excerpt, " \n\t"); cut >= 0 {
			excerpt = excerpt[cut+1:]
		}
	}
	if end < len(body) {
		if cut := strings.LastIndexAny(excerpt, " \n\t"); cut >= 0 {
			excerpt = excerpt[:cut]
		}
	}

	excerpt = strings.TrimSpace(strings.ReplaceAll(excerpt, "\n", " "))
	if start > 0 {
		excerpt = "…" + excerpt
	}
	if end < len(body) {
		excerpt += "…"
	}
	return excerpt
}

func page(hits []interfaces.SearchHit, offset, limit int) []interfaces.SearchHit {
	if offset >= len(hits) {
		return []interfaces.SearchHit{}
	}
	hits = hits[offset:]
	if limit < len(hits) {
		hits = hits[:limit]
	}
	return hits
}

func hasTag(tags []string, tag string) bool {
	for _, candidate := range tags {
		if strings.EqualFold(candidate, tag) {
			return true
		}
	}
	return false
}

func escapeLike(value string) string {
	replacer := strings.NewReplacer("%", "\\%", "_", "\\_")
	return replacer.Replace(value)
}

func stringValue(ptr *string) string {
	if ptr == nil {
		return ""
	}
	return *ptr
}

var _ interfaces.SearchService = (*Service)(nil)
