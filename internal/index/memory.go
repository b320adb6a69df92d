package index

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
)

// MemoryDocumentRepository is an in-memory implementation for scaffolding and tests.
type MemoryDocumentRepository struct {
	mu        sync.RWMutex
	documents map[uuid.UUID]*Document
	pathIndex map[string]uuid.UUID
}

// NewMemoryDocumentRepository creates an empty in-memory document repository.
func NewMemoryDocumentRepository() *MemoryDocumentRepository {
	return &MemoryDocumentRepository{
		documents: make(map[uuid.UUID]*Document),
		pathIndex: make(map[string]uuid.UUID),
	}
}

func (m *MemoryDocumentRepository) Create(_ context.Context, doc *Document) (*Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	copied := cloneDocument(doc)
	m.documents[copied.ID] = copied
	m.pathIndex[copied.Path] = copied.ID
	return cloneDocument(copied), nil
}

func (m *MemoryDocumentRepository) GetByID(_ context.Context, id uuid.UUID) (*Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rec, ok := m.documents[id]
	if !ok {
		return nil, &NotFoundError{Resource: "document", Key: id.String()}
	}
	return cloneDocument(rec), nil
}

func (m *MemoryDocumentRepository) GetByPath(_ context.Context, path string) (*Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	id, ok := m.pathIndex[path]
	if !ok {
		return nil, &NotFoundError{Resource: "document", Key: path}
	}
	return cloneDocument(m.documents[id]), nil
}

func (m *MemoryDocumentRepository) List(_ context.Context) ([]*Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*Document, 0, len(m.documents))
	for _, rec := range m.documents {
		out = append(out, cloneDocument(rec))
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Path < out[j].Path
	})
	return out, nil
}

func (m *MemoryDocumentRepository) Update(_ context.Context, doc *Document) (*Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	existing, ok := m.documents[doc.ID]
	if !ok {
		return nil, &NotFoundError{Resource: "document", Key: doc.ID.String()}
	}
	delete(m.pathIndex, existing.Path)

	copied := cloneDocument(doc)
	m.documents[copied.ID] = copied
	m.pathIndex[copied.Path] = copied.ID
	return cloneDocument(copied), nil
}

func (m *MemoryDocumentRepository) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	existing, ok := m.documents[id]
	if !ok {
		return nil
	}
	delete(m.pathIndex, existing.Path)
	delete(m.documents, id)
	return nil
}

func cloneDocument(src *Document) *Document {
	if src == nil {
		return nil
	}
	copied := *src
	if len(src.Tags) > 0 {
		copied.Tags = append([]string(nil), src.Tags...)
	}
	if len(src.FenceLanguages) > 0 {
		copied.FenceLanguages = make(map[string]int, len(src.FenceLanguages))
		for lang, count := range src.FenceLanguages {
			copied.FenceLanguages[lang] = count
		}
	}
	copied.Links = nil
	return &copied
}

// MemoryTopicRepository stores topics keyed by their path prefix.
type MemoryTopicRepository struct {
	mu     sync.RWMutex
	topics map[string]*Topic
}

// NewMemoryTopicRepository constructs the repository.
func NewMemoryTopicRepository() *MemoryTopicRepository {
	return &MemoryTopicRepository{
		topics: make(map[string]*Topic),
	}
}

func (m *MemoryTopicRepository) Create(_ context.Context, topic *Topic) (*Topic, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	copied := *topic
	m.topics[topic.Key] = &copied
	result := copied
	return &result, nil
}

func (m *MemoryTopicRepository) GetByKey(_ context.Context, key string) (*Topic, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	topic, ok := m.topics[key]
	if !ok {
		return nil, &NotFoundError{Resource: "topic", Key: key}
	}
	copied := *topic
	return &copied, nil
}

func (m *MemoryTopicRepository) List(_ context.Context) ([]*Topic, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*Topic, 0, len(m.topics))
	for _, topic := range m.topics {
		copied := *topic
		out = append(out, &copied)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Key < out[j].Key
	})
	return out, nil
}

func (m *MemoryTopicRepository) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for key, topic := range m.topics {
		if topic.ID == id {
			delete(m.topics, key)
			return nil
		}
	}
	return nil
}

// MemoryLinkRepository stores extracted links grouped by document.
type MemoryLinkRepository struct {
	mu    sync.RWMutex
	links map[uuid.UUID][]*Link
}

// NewMemoryLinkRepository constructs the repository.
func NewMemoryLinkRepository() *MemoryLinkRepository {
	return &MemoryLinkRepository{
		links: make(map[uuid.UUID][]*Link),
	}
}

func (m *MemoryLinkRepository) ReplaceForDocument(_ context.Context, documentID uuid.UUID, links []*Link) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	copied := make([]*Link, 0, len(links))
	for _, link := range links {
		if link == nil {
			continue
		}
		local := *link
		local.DocumentID = documentID
		copied = append(copied, &local)
	}
	m.links[documentID] = copied
	return nil
}

func (m *MemoryLinkRepository) ListByDocument(_ context.Context, documentID uuid.UUID) ([]*Link, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*Link, 0, len(m.links[documentID]))
	for _, link := range m.links[documentID] {
		copied := *link
		out = append(out, &copied)
	}
	return out, nil
}

func (m *MemoryLinkRepository) List(_ context.Context) ([]*Link, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []*Link
	for _, group := range m.links {
		for _, link := range group {
			copied := *link
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (m *MemoryLinkRepository) DeleteForDocument(_ context.Context, documentID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.links, documentID)
	return nil
}
