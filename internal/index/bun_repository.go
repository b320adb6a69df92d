package index

import (
	"context"
	"fmt"

	goerrors "github.com/goliatone/go-errors"
	repository "github.com/goliatone/go-repository-bun"
	cache "github.com/goliatone/go-repository-cache/cache"
	repositorycache "github.com/goliatone/go-repository-cache/repositorycache"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// BunDocumentRepository implements DocumentRepository with optional caching.
type BunDocumentRepository struct {
	repo repository.Repository[*Document]
}

// NewBunDocumentRepository creates a document repository without caching.
func NewBunDocumentRepository(db *bun.DB) *BunDocumentRepository {
	return NewBunDocumentRepositoryWithCache(db, nil, nil)
}

// NewBunDocumentRepositoryWithCache creates a document repository with caching services.
func NewBunDocumentRepositoryWithCache(db *bun.DB, cacheService cache.CacheService, serializer cache.KeySerializer) *BunDocumentRepository {
	base := NewDocumentRecordRepository(db)
	return &BunDocumentRepository{repo: wrapWithCache(base, cacheService, serializer)}
}

func (r *BunDocumentRepository) Create(ctx context.Context, doc *Document) (*Document, error) {
	record, err := r.repo.Create(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("document repository create %s: %w", doc.Path, err)
	}
	return record, nil
}

func (r *BunDocumentRepository) GetByID(ctx context.Context, id uuid.UUID) (*Document, error) {
	record, err := r.repo.GetByID(ctx, id.String())
	if err != nil {
		return nil, mapRepositoryError(err, "document", id.String())
	}
	return record, nil
}

func (r *BunDocumentRepository) GetByPath(ctx context.Context, path string) (*Document, error) {
	record, err := r.repo.GetByIdentifier(ctx, path)
	if err != nil {
		return nil, mapRepositoryError(err, "document", path)
	}
	return record, nil
}

func (r *BunDocumentRepository) List(ctx context.Context) ([]*Document, error) {
	records, _, err := r.repo.List(ctx)
	return records, err
}

func (r *BunDocumentRepository) Update(ctx context.Context, doc *Document) (*Document, error) {
	record, err := r.repo.Update(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("document repository update %s: %w", doc.Path, err)
	}
	return record, nil
}

func (r *BunDocumentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.repo.Delete(ctx, &Document{ID: id})
}

// BunTopicRepository implements TopicRepository with optional caching.
type BunTopicRepository struct {
	repo repository.Repository[*Topic]
}

// NewBunTopicRepository creates a topic repository without caching.
func NewBunTopicRepository(db *bun.DB) *BunTopicRepository {
	return NewBunTopicRepositoryWithCache(db, nil, nil)
}

// NewBunTopicRepositoryWithCache creates a topic repository with caching services.
func NewBunTopicRepositoryWithCache(db *bun.DB, cacheService cache.CacheService, serializer cache.KeySerializer) *BunTopicRepository {
	base := NewTopicRecordRepository(db)
	return &BunTopicRepository{repo: wrapWithCache(base, cacheService, serializer)}
}

func (r *BunTopicRepository) Create(ctx context.Context, topic *Topic) (*Topic, error) {
	record, err := r.repo.Create(ctx, topic)
	if err != nil {
		return nil, fmt.Errorf("topic repository create %s: %w", topic.Key, err)
	}
	return record, nil
}

func (r *BunTopicRepository) GetByKey(ctx context.Context, key string) (*Topic, error) {
	record, err := r.repo.GetByIdentifier(ctx, key)
	if err != nil {
		return nil, mapRepositoryError(err, "topic", key)
	}
	return record, nil
}

func (r *BunTopicRepository) List(ctx context.Context) ([]*Topic, error) {
	records, _, err := r.repo.List(ctx)
	return records, err
}

func (r *BunTopicRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.repo.Delete(ctx, &Topic{ID: id})
}

// BunLinkRepository implements LinkRepository. Link rows are replaced
// wholesale per document, so the repository keeps a db handle for the bulk
// delete alongside the generic record repository.
type BunLinkRepository struct {
	db   *bun.DB
	repo repository.Repository[*Link]
}

// NewBunLinkRepository creates a link repository.
func NewBunLinkRepository(db *bun.DB) *BunLinkRepository {
	return &BunLinkRepository{
		db:   db,
		repo: NewLinkRecordRepository(db),
	}
}

func (r *BunLinkRepository) ReplaceForDocument(ctx context.Context, documentID uuid.UUID, links []*Link) error {
	if err := r.DeleteForDocument(ctx, documentID); err != nil {
		return err
	}
	for _, link := range links {
		if link == nil {
			continue
		}
		link.DocumentID = documentID
		if _, err := r.repo.Create(ctx, link); err != nil {
			return fmt.Errorf("link repository create %s: %w", link.Target, err)
		}
	}
	return nil
}

func (r *BunLinkRepository) ListByDocument(ctx context.Context, documentID uuid.UUID) ([]*Link, error) {
	var links []*Link
	err := r.db.NewSelect().
		Model(&links).
		Where("document_id = ?", documentID).
		Order("line ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("link repository list %s: %w", documentID, err)
	}
	return links, nil
}

func (r *BunLinkRepository) List(ctx context.Context) ([]*Link, error) {
	records, _, err := r.repo.List(ctx)
	return records, err
}

func (r *BunLinkRepository) DeleteForDocument(ctx context.Context, documentID uuid.UUID) error {
	_, err := r.db.NewDelete().
		Model((*Link)(nil)).
		Where("document_id = ?", documentID).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("link repository delete %s: %w", documentID, err)
	}
	return nil
}

func mapRepositoryError(err error, resource, key string) error {
	if err == nil {
		return nil
	}
	if goerrors.IsCategory(err, repository.CategoryDatabaseNotFound) {
		return &NotFoundError{
			Resource: resource,
			Key:      key,
		}
	}
	return fmt.Errorf("%s repository error: %w", resource, err)
}

func wrapWithCache[T any](base repository.Repository[T], cacheService cache.CacheService, keySerializer cache.KeySerializer) repository.Repository[T] {
	if cacheService == nil || keySerializer == nil {
		return base
	}
	return repositorycache.New(base, cacheService, keySerializer)
}
