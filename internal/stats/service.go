package stats

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/goliatone/go-corpus/internal/index"
	"github.com/goliatone/go-corpus/internal/logging"
	"github.com/goliatone/go-corpus/pkg/interfaces"
)

var ErrRepositoryRequired = errors.New("stats: document repository is required")

// Service aggregates read-only statistics over the index. It implements
// interfaces.StatsService.
type Service struct {
	documents index.DocumentRepository
	links     index.LinkRepository
	logger    interfaces.Logger
}

// NewService constructs a stats service over the supplied repositories.
// links may be nil, in which case unresolved link counts are omitted.
func NewService(documents index.DocumentRepository, links index.LinkRepository, provider interfaces.LoggerProvider) (*Service, error) {
	if documents == nil {
		return nil, ErrRepositoryRequired
	}
	return &Service{
		documents: documents,
		links:     links,
		logger:    logging.ModuleLogger(provider, "corpus.stats"),
	}, nil
}

// Collect walks the indexed corpus and returns aggregate counts.
func (s *Service) Collect(ctx context.Context) (*interfaces.CorpusStats, error) {
	docs, err := s.documents.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("stats: list documents: %w", err)
	}

	stats := &interfaces.CorpusStats{
		Documents:      len(docs),
		FenceLanguages: map[string]int{},
	}

	perTopic := map[string]*interfaces.TopicStats{}
	for _, doc := range docs {
		stats.Words += doc.WordCount

		topic := perTopic[doc.TopicKey]
		if topic == nil {
			topic = &interfaces.TopicStats{Topic: doc.TopicKey}
			perTopic[doc.TopicKey] = topic
		}
		topic.Documents++
		topic.Words += doc.WordCount

		for lang, count := range doc.FenceLanguages {
			stats.FenceLanguages[lang] += count
		}
	}

	keys := make([]string, 0, len(perTopic))
	for key := range perTopic {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		stats.Topics = append(stats.Topics, *perTopic[key])
	}

	if s.links != nil {
		links, err := s.links.List(ctx)
		if err != nil {
			return nil, fmt.Errorf("stats: list links: %w", err)
		}
		for _, link := range links {
			if link.Resolved {
				continue
			}
			if !strings.EqualFold(link.Kind, string(interfaces.LinkExternal)) {
				stats.UnresolvedLinks++
			}
		}
	}

	s.logger.Debug("stats.collected", "documents", stats.Documents, "topics", len(stats.Topics))

	return stats, nil
}

var _ interfaces.StatsService = (*Service)(nil)
