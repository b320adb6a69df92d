package index

import (
	"context"
	"errors"
	"testing"

	"github.com/goliatone/go-corpus/internal/identity"
	"github.com/goliatone/go-corpus/internal/markdown"
	"github.com/goliatone/go-corpus/pkg/interfaces"
	"github.com/goliatone/go-corpus/pkg/testsupport"
	"github.com/uptrace/bun"
)

func newBunFixture(t *testing.T, files map[string]string) (*Service, *BunDocumentRepository, *BunLinkRepository, *bun.DB) {
	t.Helper()

	db, err := testsupport.NewBunSQLiteDB()
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := EnsureSchema(context.Background(), db); err != nil {
		t.Fatalf("EnsureSchema: %v", err)
	}

	dir := t.TempDir()
	writeFixtureFiles(t, dir, files)

	corpus, err := markdown.NewService(markdown.Config{BasePath: dir, Recursive: true}, nil)
	if err != nil {
		t.Fatalf("markdown.NewService: %v", err)
	}

	documents := NewBunDocumentRepository(db)
	topics := NewBunTopicRepository(db)
	links := NewBunLinkRepository(db)

	svc, err := NewService(corpus, documents, topics, links, nil)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc, documents, links, db
}

func TestBunIndexRoundTrip(t *testing.T) {
	svc, documents, links, _ := newBunFixture(t, corpusFiles())
	ctx := context.Background()

	result, err := svc.IndexDirectory(ctx, ".", interfaces.IndexOptions{})
	if err != nil {
		t.Fatalf("IndexDirectory: %v", err)
	}
	if len(result.CreatedIDs) != 3 {
		t.Fatalf("expected 3 created, got %+v", result)
	}

	record, err := documents.GetByPath(ctx, "aws/s3-internals.md")
	if err != nil {
		t.Fatalf("GetByPath: %v", err)
	}
	if record.Title != "S3 Internals" || record.TopicKey != "aws" {
		t.Fatalf("unexpected record %+v", record)
	}
	if len(record.Tags) != 2 {
		t.Fatalf("expected tags to round-trip, got %v", record.Tags)
	}

	stored, err := links.ListByDocument(ctx, identity.DocumentUUID("aws/s3-internals.md"))
	if err != nil {
		t.Fatalf("ListByDocument: %v", err)
	}
	if len(stored) != 1 || !stored[0].Resolved {
		t.Fatalf("expected one resolved link, got %v", stored)
	}

	// Re-running against an unchanged corpus only skips.
	result, err = svc.IndexDirectory(ctx, ".", interfaces.IndexOptions{})
	if err != nil {
		t.Fatalf("re-IndexDirectory: %v", err)
	}
	if len(result.SkippedIDs) != 3 {
		t.Fatalf("expected 3 skipped, got %+v", result)
	}
}

func TestBunRepositoryNotFound(t *testing.T) {
	_, documents, _, _ := newBunFixture(t, corpusFiles())

	_, err := documents.GetByPath(context.Background(), "missing/doc.md")
	var notFound *NotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
	if notFound.Resource != "document" {
		t.Fatalf("expected document resource, got %s", notFound.Resource)
	}
}
