package index

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/goliatone/go-corpus/internal/identity"
	"github.com/goliatone/go-corpus/internal/logging"
	"github.com/goliatone/go-corpus/internal/markdown"
	"github.com/goliatone/go-corpus/pkg/interfaces"
)

var (
	ErrCorpusRequired     = errors.New("indexer: corpus service is required")
	ErrRepositoryRequired = errors.New("indexer: document repository is required")
)

const defaultTopicKey = "general"

// Service persists corpus documents into the index. It implements
// interfaces.IndexService.
type Service struct {
	corpus    *markdown.Service
	documents DocumentRepository
	topics    TopicRepository
	links     LinkRepository
	logger    interfaces.Logger
}

// NewService constructs an indexer over the supplied repositories.
func NewService(corpus *markdown.Service, documents DocumentRepository, topics TopicRepository, links LinkRepository, provider interfaces.LoggerProvider) (*Service, error) {
	if corpus == nil {
		return nil, ErrCorpusRequired
	}
	if documents == nil || topics == nil || links == nil {
		return nil, ErrRepositoryRequired
	}
	return &Service{
		corpus:    corpus,
		documents: documents,
		topics:    topics,
		links:     links,
		logger:    logging.IndexLogger(provider),
	}, nil
}

// Index persists a single already-loaded document.
func (s *Service) Index(ctx context.Context, doc *interfaces.Document, opts interfaces.IndexOptions) (*interfaces.IndexResult, error) {
	acc := newIndexAccumulator()
	if err := s.indexDocument(ctx, doc, opts, nil, acc); err != nil {
		acc.addError(err)
	}
	return acc.result(), firstError(acc.errors)
}

// IndexDirectory loads every document under dir and indexes each one.
// Individual document failures are accumulated rather than aborting the run.
func (s *Service) IndexDirectory(ctx context.Context, dir string, opts interfaces.IndexOptions) (*interfaces.IndexResult, error) {
	docs, err := s.corpus.LoadDirectory(ctx, dir, interfaces.LoadOptions{})
	if err != nil {
		return nil, fmt.Errorf("indexer: load %s: %w", dir, err)
	}

	present := presentPaths(docs)
	acc := newIndexAccumulator()
	for _, doc := range docs {
		if err := s.indexDocument(ctx, doc, opts, present, acc); err != nil {
			acc.addError(err)
		}
	}
	return acc.result(), firstError(acc.errors)
}

// Sync indexes the directory and optionally removes rows whose source file
// no longer exists.
func (s *Service) Sync(ctx context.Context, dir string, opts interfaces.SyncOptions) (*interfaces.SyncResult, error) {
	docs, err := s.corpus.LoadDirectory(ctx, dir, interfaces.LoadOptions{})
	if err != nil {
		return nil, fmt.Errorf("indexer: load %s: %w", dir, err)
	}

	present := presentPaths(docs)
	indexAcc := newIndexAccumulator()
	for _, doc := range docs {
		if err := s.indexDocument(ctx, doc, opts.IndexOptions, present, indexAcc); err != nil {
			indexAcc.addError(err)
		}
	}

	acc := newSyncAccumulator()
	acc.merge(indexAcc.result())

	if opts.DeleteOrphaned {
		if err := s.deleteOrphaned(ctx, present, opts, acc); err != nil {
			acc.addError(err)
		}
	}

	return acc.result(), firstError(acc.errors)
}

func (s *Service) indexDocument(ctx context.Context, doc *interfaces.Document, opts interfaces.IndexOptions, present map[string]struct{}, acc *indexAccumulator) error {
	if doc == nil {
		return errors.New("indexer: nil document")
	}
	if strings.TrimSpace(doc.Path) == "" {
		return errors.New("indexer: document path is required")
	}

	id := identity.DocumentUUID(doc.Path)

	if doc.FrontMatter.Draft && !opts.IncludeDrafts {
		acc.skip(id)
		return nil
	}

	checksum := hex.EncodeToString(doc.Checksum)

	existing, err := s.documents.GetByPath(ctx, doc.Path)
	if err != nil {
		var notFound *NotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("indexer: lookup %s: %w", doc.Path, err)
		}
		existing = nil
	}

	if existing != nil && existing.Checksum == checksum && checksum != "" {
		acc.skip(existing.ID)
		return nil
	}

	if opts.DryRun {
		if existing == nil {
			acc.created(id)
		} else {
			acc.updated(existing.ID)
		}
		return nil
	}

	topic, err := s.ensureTopic(ctx, doc.Topic)
	if err != nil {
		return err
	}

	record := s.buildRecord(doc, topic, checksum)

	if existing == nil {
		stored, createErr := s.documents.Create(ctx, record)
		if createErr != nil {
			return fmt.Errorf("indexer: create %s: %w", doc.Path, createErr)
		}
		acc.created(stored.ID)
		record = stored
	} else {
		record.ID = existing.ID
		record.CreatedAt = existing.CreatedAt
		stored, updateErr := s.documents.Update(ctx, record)
		if updateErr != nil {
			return fmt.Errorf("indexer: update %s: %w", doc.Path, updateErr)
		}
		acc.updated(stored.ID)
		record = stored
	}

	if err := s.links.ReplaceForDocument(ctx, record.ID, s.buildLinks(ctx, doc, record.ID, present)); err != nil {
		return fmt.Errorf("indexer: links %s: %w", doc.Path, err)
	}

	logging.WithDocumentContext(s.logger, doc.Path, doc.Topic, "").
		Info("document.indexed", "document_id", record.ID, "indexed_at", record.IndexedAt)

	return nil
}

func (s *Service) ensureTopic(ctx context.Context, key string) (*Topic, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		key = defaultTopicKey
	}

	topic, err := s.topics.GetByKey(ctx, key)
	if err == nil {
		return topic, nil
	}
	var notFound *NotFoundError
	if !errors.As(err, &notFound) {
		return nil, fmt.Errorf("indexer: topic lookup %s: %w", key, err)
	}

	created, err := s.topics.Create(ctx, &Topic{
		ID:        identity.TopicUUID(key),
		Key:       key,
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		return nil, fmt.Errorf("indexer: topic create %s: %w", key, err)
	}
	return created, nil
}

func (s *Service) buildRecord(doc *interfaces.Document, topic *Topic, checksum string) *Document {
	now := time.Now().UTC()
	slug := markdown.DeriveSlug(doc)

	return &Document{
		ID:             identity.DocumentUUID(doc.Path),
		Path:           doc.Path,
		TopicID:        topic.ID,
		TopicKey:       topic.Key,
		Slug:           slug,
		Title:          documentTitle(doc, slug),
		Summary:        optionalString(doc.FrontMatter.Summary),
		Author:         optionalString(doc.FrontMatter.Author),
		Tags:           append([]string(nil), doc.FrontMatter.Tags...),
		Draft:          doc.FrontMatter.Draft,
		Body:           string(doc.Body),
		BodyHTML:       string(doc.BodyHTML),
		WordCount:      doc.Outline.WordCount,
		FenceLanguages: fenceLanguages(doc.Outline.CodeFences),
		Checksum:       checksum,
		ModifiedAt:     doc.LastModified,
		IndexedAt:      now,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

func (s *Service) buildLinks(ctx context.Context, doc *interfaces.Document, documentID uuid.UUID, present map[string]struct{}) []*Link {
	links := make([]*Link, 0, len(doc.Outline.Links))
	for _, link := range doc.Outline.Links {
		links = append(links, &Link{
			ID:         identity.LinkUUID(documentID, link.Target, link.Line),
			DocumentID: documentID,
			Target:     link.Target,
			Kind:       string(link.Kind),
			Line:       link.Line,
			Resolved:   s.linkResolved(ctx, doc, link, present),
			CreatedAt:  time.Now().UTC(),
		})
	}
	return links
}

// linkResolved answers whether a link can be satisfied by the corpus. Anchor
// targets resolve within the owning document; internal targets resolve
// against the current run's file set, falling back to previously indexed
// rows. Deep anchor verification on cross-document links is the linter's
// job, not the indexer's.
func (s *Service) linkResolved(ctx context.Context, doc *interfaces.Document, link interfaces.Link, present map[string]struct{}) bool {
	switch link.Kind {
	case interfaces.LinkExternal:
		return true
	case interfaces.LinkAnchor:
		anchor := strings.TrimPrefix(link.Target, "#")
		for _, heading := range doc.Outline.Headings {
			if heading.Anchor == anchor {
				return true
			}
		}
		return false
	case interfaces.LinkInternal:
		target, _, _ := strings.Cut(link.Target, "#")
		target = strings.TrimSpace(target)
		if target == "" {
			return true
		}
		if !strings.HasSuffix(strings.ToLower(target), ".md") {
			return true
		}
		resolved := path.Clean(path.Join(path.Dir(doc.Path), target))
		if _, ok := present[resolved]; ok {
			return true
		}
		if _, err := s.documents.GetByPath(ctx, resolved); err == nil {
			return true
		}
		return false
	}
	return true
}

func (s *Service) deleteOrphaned(ctx context.Context, present map[string]struct{}, opts interfaces.SyncOptions, acc *syncAccumulator) error {
	existing, err := s.documents.List(ctx)
	if err != nil {
		return fmt.Errorf("indexer: list documents: %w", err)
	}

	for _, record := range existing {
		if _, ok := present[record.Path]; ok {
			continue
		}
		if opts.DryRun {
			acc.deleted++
			continue
		}
		if err := s.links.DeleteForDocument(ctx, record.ID); err != nil {
			return err
		}
		if err := s.documents.Delete(ctx, record.ID); err != nil {
			return fmt.Errorf("indexer: delete %s: %w", record.Path, err)
		}
		logging.WithDocumentContext(s.logger, record.Path, record.TopicKey, "delete").
			Info("document.removed", "document_id", record.ID)
		acc.deleted++
	}
	return nil
}

func presentPaths(docs []*interfaces.Document) map[string]struct{} {
	present := make(map[string]struct{}, len(docs))
	for _, doc := range docs {
		if doc == nil {
			continue
		}
		present[doc.Path] = struct{}{}
	}
	return present
}

func documentTitle(doc *interfaces.Document, slug string) string {
	if title := strings.TrimSpace(doc.FrontMatter.Title); title != "" {
		return title
	}
	for _, heading := range doc.Outline.Headings {
		if heading.Level == 1 && strings.TrimSpace(heading.Text) != "" {
			return strings.TrimSpace(heading.Text)
		}
	}
	return fallbackTitle(slug)
}

func fallbackTitle(slug string) string {
	if slug == "" {
		return "Untitled"
	}
	words := strings.FieldsFunc(slug, func(r rune) bool {
		return r == '-' || r == '_'
	})
	for i, word := range words {
		if word == "" {
			continue
		}
		words[i] = strings.ToUpper(word[:1]) + word[1:]
	}
	return strings.Join(words, " ")
}

func fenceLanguages(fences []interfaces.CodeFence) map[string]int {
	if len(fences) == 0 {
		return nil
	}
	out := make(map[string]int, len(fences))
	for _, fence := range fences {
		lang := strings.ToLower(strings.TrimSpace(fence.Language))
		if lang == "" {
			lang = "plain"
		}
		out[lang]++
	}
	return out
}

func optionalString(value string) *string {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	return &value
}

type indexAccumulator struct {
	createdIDs []uuid.UUID
	updatedIDs []uuid.UUID
	skippedIDs []uuid.UUID
	errors     []error
}

func newIndexAccumulator() *indexAccumulator {
	return &indexAccumulator{
		createdIDs: []uuid.UUID{},
		updatedIDs: []uuid.UUID{},
		skippedIDs: []uuid.UUID{},
		errors:     []error{},
	}
}

func (a *indexAccumulator) created(id uuid.UUID) {
	if id != uuid.Nil {
		a.createdIDs = append(a.createdIDs, id)
	}
}

func (a *indexAccumulator) updated(id uuid.UUID) {
	if id != uuid.Nil {
		a.updatedIDs = append(a.updatedIDs, id)
	}
}

func (a *indexAccumulator) skip(id uuid.UUID) {
	if id != uuid.Nil {
		a.skippedIDs = append(a.skippedIDs, id)
	}
}

func (a *indexAccumulator) addError(err error) {
	if err != nil {
		a.errors = append(a.errors, err)
	}
}

func (a *indexAccumulator) result() *interfaces.IndexResult {
	return &interfaces.IndexResult{
		CreatedIDs: a.createdIDs,
		UpdatedIDs: a.updatedIDs,
		SkippedIDs: a.skippedIDs,
		Errors:     a.errors,
	}
}

type syncAccumulator struct {
	created int
	updated int
	deleted int
	skipped int
	errors  []error
}

func newSyncAccumulator() *syncAccumulator {
	return &syncAccumulator{
		errors: []error{},
	}
}

func (s *syncAccumulator) merge(res *interfaces.IndexResult) {
	if res == nil {
		return
	}
	s.created += len(res.CreatedIDs)
	s.updated += len(res.UpdatedIDs)
	s.skipped += len(res.SkippedIDs)
	s.errors = append(s.errors, res.Errors...)
}

func (s *syncAccumulator) addError(err error) {
	if err != nil {
		s.errors = append(s.errors, err)
	}
}

func (s *syncAccumulator) result() *interfaces.SyncResult {
	return &interfaces.SyncResult{
		Created: s.created,
		Updated: s.updated,
		Deleted: s.deleted,
		Skipped: s.skipped,
		Errors:  s.errors,
	}
}

func firstError(errs []error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

var _ interfaces.IndexService = (*Service)(nil)
