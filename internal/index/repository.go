package index

import (
	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

func NewDocumentRecordRepository(db *bun.DB) repository.Repository[*Document] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*Document]{
		NewRecord: func() *Document { return &Document{} },
		GetID: func(d *Document) uuid.UUID {
			return d.ID
		},
		SetID: func(d *Document, id uuid.UUID) {
			d.ID = id
		},
		GetIdentifier: func() string {
			return "path"
		},
		GetIdentifierValue: func(d *Document) string {
			return d.Path
		},
	})
}

func NewTopicRecordRepository(db *bun.DB) repository.Repository[*Topic] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*Topic]{
		NewRecord: func() *Topic { return &Topic{} },
		GetID: func(t *Topic) uuid.UUID {
			return t.ID
		},
		SetID: func(t *Topic, id uuid.UUID) {
			t.ID = id
		},
		GetIdentifier: func() string {
			return "key"
		},
		GetIdentifierValue: func(t *Topic) string {
			return t.Key
		},
	})
}

func NewLinkRecordRepository(db *bun.DB) repository.Repository[*Link] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*Link]{
		NewRecord: func() *Link { return &Link{} },
		GetID: func(l *Link) uuid.UUID {
			return l.ID
		},
		SetID: func(l *Link, id uuid.UUID) {
			l.ID = id
		},
		GetIdentifier: func() string {
			return "id"
		},
		GetIdentifierValue: func(l *Link) string {
			if l == nil {
				return ""
			}
			return l.ID.String()
		},
	})
}
