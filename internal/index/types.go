package index

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Topic groups indexed documents under a shared path prefix.
type Topic struct {
	bun.BaseModel `bun:"table:topics,alias:t"`

	ID        uuid.UUID `bun:",pk,type:uuid"                json:"id"`
	Key       string    `bun:"key,notnull,unique"           json:"key"`
	CreatedAt time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
}

// Document is the canonical index row for a corpus file. Path is the
// slash-normalised location relative to the corpus root and uniquely
// identifies the row across runs.
type Document struct {
	bun.BaseModel `bun:"table:documents,alias:d"`

	ID             uuid.UUID      `bun:",pk,type:uuid"              json:"id"`
	Path           string         `bun:"path,notnull,unique"        json:"path"`
	TopicID        uuid.UUID      `bun:"topic_id,notnull,type:uuid" json:"topic_id"`
	TopicKey       string         `bun:"topic_key,notnull"          json:"topic_key"`
	Slug           string         `bun:"slug,notnull"               json:"slug"`
	Title          string         `bun:"title,notnull"              json:"title"`
	Summary        *string        `bun:"summary"                    json:"summary,omitempty"`
	Author         *string        `bun:"author"                     json:"author,omitempty"`
	Tags           []string       `bun:"tags,type:jsonb"            json:"tags,omitempty"`
	Draft          bool           `bun:"draft,notnull,default:false" json:"draft"`
	Body           string         `bun:"body,notnull"               json:"body"`
	BodyHTML       string         `bun:"body_html"                  json:"body_html,omitempty"`
	WordCount      int            `bun:"word_count,notnull,default:0" json:"word_count"`
	FenceLanguages map[string]int `bun:"fence_languages,type:jsonb" json:"fence_languages,omitempty"`
	Checksum       string         `bun:"checksum,notnull"           json:"checksum"`
	ModifiedAt     time.Time      `bun:"modified_at,nullzero"       json:"modified_at"`
	IndexedAt      time.Time      `bun:"indexed_at,nullzero,default:current_timestamp" json:"indexed_at"`
	CreatedAt      time.Time      `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
	UpdatedAt      time.Time      `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at"`

	Topic *Topic  `bun:"rel:belongs-to,join:topic_id=id" json:"topic,omitempty"`
	Links []*Link `bun:"rel:has-many,join:id=document_id" json:"links,omitempty"`
}

// Link records an outbound reference extracted from a document body.
type Link struct {
	bun.BaseModel `bun:"table:links,alias:lk"`

	ID         uuid.UUID `bun:",pk,type:uuid"                 json:"id"`
	DocumentID uuid.UUID `bun:"document_id,notnull,type:uuid" json:"document_id"`
	Target     string    `bun:"target,notnull"                json:"target"`
	Kind       string    `bun:"kind,notnull"                  json:"kind"`
	Line       int       `bun:"line,notnull,default:0"        json:"line"`
	Resolved   bool      `bun:"resolved,notnull,default:true" json:"resolved"`
	CreatedAt  time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
}

// DocumentRepository exposes persistence operations for index rows.
type DocumentRepository interface {
	Create(ctx context.Context, doc *Document) (*Document, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Document, error)
	GetByPath(ctx context.Context, path string) (*Document, error)
	List(ctx context.Context) ([]*Document, error)
	Update(ctx context.Context, doc *Document) (*Document, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// TopicRepository exposes persistence operations for topics.
type TopicRepository interface {
	Create(ctx context.Context, topic *Topic) (*Topic, error)
	GetByKey(ctx context.Context, key string) (*Topic, error)
	List(ctx context.Context) ([]*Topic, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// LinkRepository exposes persistence operations for extracted links.
type LinkRepository interface {
	ReplaceForDocument(ctx context.Context, documentID uuid.UUID, links []*Link) error
	ListByDocument(ctx context.Context, documentID uuid.UUID) ([]*Link, error)
	List(ctx context.Context) ([]*Link, error)
	DeleteForDocument(ctx context.Context, documentID uuid.UUID) error
}

// NotFoundError is returned when an index resource cannot be located.
type NotFoundError struct {
	Resource string
	Key      string
}

func (e *NotFoundError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("%s not found", e.Resource)
	}
	return fmt.Sprintf("%s %q not found", e.Resource, e.Key)
}
