package index

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/goliatone/go-corpus/internal/identity"
	"github.com/goliatone/go-corpus/internal/markdown"
	"github.com/goliatone/go-corpus/pkg/interfaces"
)

type indexFixture struct {
	svc       *Service
	corpus    *markdown.Service
	documents *MemoryDocumentRepository
	topics    *MemoryTopicRepository
	links     *MemoryLinkRepository
	dir       string
}

func newIndexFixture(tb testing.TB, files map[string]string) *indexFixture {
	tb.Helper()

	dir := tb.TempDir()
	writeFixtureFiles(tb, dir, files)

	corpus, err := markdown.NewService(markdown.Config{BasePath: dir, Recursive: true}, nil)
	if err != nil {
		tb.Fatalf("markdown.NewService: %v", err)
	}

	documents := NewMemoryDocumentRepository()
	topics := NewMemoryTopicRepository()
	links := NewMemoryLinkRepository()

	svc, err := NewService(corpus, documents, topics, links, nil)
	if err != nil {
		tb.Fatalf("NewService: %v", err)
	}

	return &indexFixture{
		svc:       svc,
		corpus:    corpus,
		documents: documents,
		topics:    topics,
		links:     links,
		dir:       dir,
	}
}

func writeFixtureFiles(tb testing.TB, dir string, files map[string]string) {
	tb.Helper()
	for name, content := range files {
		full := filepath.Join(dir, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
			tb.Fatalf("mkdir %s: %v", name, err)
		}
		if err := os.WriteFile(full, []byte(content), 0o644); err != nil {
			tb.Fatalf("write %s: %v", name, err)
		}
	}
}

func corpusFiles() map[string]string {
	return map[string]string{
		"aws/s3-internals.md": "---\ntitle: S3 Internals\nsummary: How S3 stores objects\ntags: [aws, storage]\n---\n\n# S3 Internals\n\nObjects live in buckets. See [signing](./request-signing.md).\n\n```js\nconst s3 = new S3Client()\n```\n",
		"aws/request-signing.md": "---\ntitle: Request Signing\n---\n\n# Request Signing\n\nSigV4 explained.\n",
		"node_js/event-loop.md": "---\ntitle: The Event Loop\n---\n\n# The Event Loop\n\nPhases and timers.\n",
	}
}

func TestIndexDirectoryCreates(t *testing.T) {
	fx := newIndexFixture(t, corpusFiles())
	ctx := context.Background()

	result, err := fx.svc.IndexDirectory(ctx, ".", interfaces.IndexOptions{})
	if err != nil {
		t.Fatalf("IndexDirectory: %v", err)
	}
	if len(result.CreatedIDs) != 3 {
		t.Fatalf("expected 3 created, got %+v", result)
	}
	if len(result.UpdatedIDs) != 0 || len(result.SkippedIDs) != 0 {
		t.Fatalf("expected no updates or skips on first run, got %+v", result)
	}

	record, err := fx.documents.GetByPath(ctx, "aws/s3-internals.md")
	if err != nil {
		t.Fatalf("GetByPath: %v", err)
	}
	if record.ID != identity.DocumentUUID("aws/s3-internals.md") {
		t.Fatalf("expected deterministic document ID, got %s", record.ID)
	}
	if record.Title != "S3 Internals" {
		t.Fatalf("expected frontmatter title, got %q", record.Title)
	}
	if record.Slug != "s3-internals" {
		t.Fatalf("expected slug from title, got %q", record.Slug)
	}
	if record.TopicKey != "aws" {
		t.Fatalf("expected topic aws, got %q", record.TopicKey)
	}
	if record.Checksum == "" {
		t.Fatal("expected checksum to be stored")
	}
	if record.WordCount == 0 {
		t.Fatal("expected word count to be recorded")
	}
	if record.FenceLanguages["js"] != 1 {
		t.Fatalf("expected one js fence, got %v", record.FenceLanguages)
	}

	topics, err := fx.topics.List(ctx)
	if err != nil {
		t.Fatalf("topics.List: %v", err)
	}
	if len(topics) != 2 {
		t.Fatalf("expected topics aws and node_js, got %v", topics)
	}
}

func TestIndexDirectorySkipsUnchanged(t *testing.T) {
	fx := newIndexFixture(t, corpusFiles())
	ctx := context.Background()

	if _, err := fx.svc.IndexDirectory(ctx, ".", interfaces.IndexOptions{}); err != nil {
		t.Fatalf("first IndexDirectory: %v", err)
	}
	result, err := fx.svc.IndexDirectory(ctx, ".", interfaces.IndexOptions{})
	if err != nil {
		t.Fatalf("second IndexDirectory: %v", err)
	}
	if len(result.SkippedIDs) != 3 {
		t.Fatalf("expected 3 skipped on unchanged corpus, got %+v", result)
	}
	if len(result.CreatedIDs) != 0 || len(result.UpdatedIDs) != 0 {
		t.Fatalf("expected no writes on unchanged corpus, got %+v", result)
	}
}

func TestIndexDirectoryUpdatesOnChange(t *testing.T) {
	fx := newIndexFixture(t, corpusFiles())
	ctx := context.Background()

	if _, err := fx.svc.IndexDirectory(ctx, ".", interfaces.IndexOptions{}); err != nil {
		t.Fatalf("first IndexDirectory: %v", err)
	}

	writeFixtureFiles(t, fx.dir, map[string]string{
		"node_js/event-loop.md": "---\ntitle: The Event Loop\n---\n\n# The Event Loop\n\nPhases, timers, and microtasks.\n",
	})

	result, err := fx.svc.IndexDirectory(ctx, ".", interfaces.IndexOptions{})
	if err != nil {
		t.Fatalf("second IndexDirectory: %v", err)
	}
	if len(result.UpdatedIDs) != 1 {
		t.Fatalf("expected 1 update, got %+v", result)
	}
	if len(result.SkippedIDs) != 2 {
		t.Fatalf("expected 2 skipped, got %+v", result)
	}
}

func TestIndexSkipsDraftsByDefault(t *testing.T) {
	files := corpusFiles()
	files["aws/wip.md"] = "---\ntitle: WIP\ndraft: true\n---\n\n# WIP\n\nNot ready.\n"
	fx := newIndexFixture(t, files)
	ctx := context.Background()

	result, err := fx.svc.IndexDirectory(ctx, ".", interfaces.IndexOptions{})
	if err != nil {
		t.Fatalf("IndexDirectory: %v", err)
	}
	if len(result.CreatedIDs) != 3 || len(result.SkippedIDs) != 1 {
		t.Fatalf("expected draft skipped, got %+v", result)
	}
	if _, err := fx.documents.GetByPath(ctx, "aws/wip.md"); err == nil {
		t.Fatal("draft should not be persisted by default")
	}

	result, err = fx.svc.IndexDirectory(ctx, ".", interfaces.IndexOptions{IncludeDrafts: true})
	if err != nil {
		t.Fatalf("IndexDirectory with drafts: %v", err)
	}
	if len(result.CreatedIDs) != 1 {
		t.Fatalf("expected draft created with IncludeDrafts, got %+v", result)
	}

	record, err := fx.documents.GetByPath(ctx, "aws/wip.md")
	if err != nil {
		t.Fatalf("GetByPath: %v", err)
	}
	if !record.Draft {
		t.Fatal("expected draft flag persisted")
	}
}

func TestIndexDryRunDoesNotPersist(t *testing.T) {
	fx := newIndexFixture(t, corpusFiles())
	ctx := context.Background()

	result, err := fx.svc.IndexDirectory(ctx, ".", interfaces.IndexOptions{DryRun: true})
	if err != nil {
		t.Fatalf("IndexDirectory: %v", err)
	}
	if len(result.CreatedIDs) != 3 {
		t.Fatalf("expected dry run to report creates, got %+v", result)
	}

	records, err := fx.documents.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(records) != 0 {
		t.Fatalf("dry run should not persist, got %d records", len(records))
	}
}

func TestSyncDeletesOrphans(t *testing.T) {
	fx := newIndexFixture(t, corpusFiles())
	ctx := context.Background()

	if _, err := fx.svc.IndexDirectory(ctx, ".", interfaces.IndexOptions{}); err != nil {
		t.Fatalf("IndexDirectory: %v", err)
	}

	if err := os.Remove(filepath.Join(fx.dir, "node_js", "event-loop.md")); err != nil {
		t.Fatalf("remove file: %v", err)
	}

	result, err := fx.svc.Sync(ctx, ".", interfaces.SyncOptions{DeleteOrphaned: true})
	if err != nil {
		t.Fatalf("Sync: %v", err)
	}
	if result.Deleted != 1 {
		t.Fatalf("expected 1 deleted, got %+v", result)
	}
	if result.Skipped != 2 {
		t.Fatalf("expected 2 skipped, got %+v", result)
	}
	if _, err := fx.documents.GetByPath(ctx, "node_js/event-loop.md"); err == nil {
		t.Fatal("orphaned row should be deleted")
	}
}

func TestSyncDryRunKeepsOrphans(t *testing.T) {
	fx := newIndexFixture(t, corpusFiles())
	ctx := context.Background()

	if _, err := fx.svc.IndexDirectory(ctx, ".", interfaces.IndexOptions{}); err != nil {
		t.Fatalf("IndexDirectory: %v", err)
	}
	if err := os.Remove(filepath.Join(fx.dir, "node_js", "event-loop.md")); err != nil {
		t.Fatalf("remove file: %v", err)
	}

	result, err := fx.svc.Sync(ctx, ".", interfaces.SyncOptions{
		IndexOptions:   interfaces.IndexOptions{DryRun: true},
		DeleteOrphaned: true,
	})
	if err != nil {
		t.Fatalf("Sync: %v", err)
	}
	if result.Deleted != 1 {
		t.Fatalf("expected dry run to count the orphan, got %+v", result)
	}
	if _, err := fx.documents.GetByPath(ctx, "node_js/event-loop.md"); err != nil {
		t.Fatal("dry run should keep the orphaned row")
	}
}

func TestIndexRecordsLinks(t *testing.T) {
	files := corpusFiles()
	files["aws/broken.md"] = "---\ntitle: Broken\n---\n\n# Broken\n\nSee [gone](./gone.md) and [docs](https://docs.aws.amazon.com/s3/).\n"
	fx := newIndexFixture(t, files)
	ctx := context.Background()

	if _, err := fx.svc.IndexDirectory(ctx, ".", interfaces.IndexOptions{}); err != nil {
		t.Fatalf("IndexDirectory: %v", err)
	}

	docID := identity.DocumentUUID("aws/broken.md")
	links, err := fx.links.ListByDocument(ctx, docID)
	if err != nil {
		t.Fatalf("ListByDocument: %v", err)
	}
	if len(links) != 2 {
		t.Fatalf("expected 2 links, got %v", links)
	}

	byTarget := map[string]*Link{}
	for _, link := range links {
		byTarget[link.Target] = link
	}
	if link := byTarget["./gone.md"]; link == nil || link.Resolved {
		t.Fatalf("expected ./gone.md unresolved, got %+v", link)
	}
	if link := byTarget["https://docs.aws.amazon.com/s3/"]; link == nil || !link.Resolved {
		t.Fatalf("expected external link resolved, got %+v", link)
	}

	resolvedID := identity.DocumentUUID("aws/s3-internals.md")
	resolvedLinks, err := fx.links.ListByDocument(ctx, resolvedID)
	if err != nil {
		t.Fatalf("ListByDocument: %v", err)
	}
	if len(resolvedLinks) != 1 || !resolvedLinks[0].Resolved {
		t.Fatalf("expected ./request-signing.md resolved, got %v", resolvedLinks)
	}
}

func TestIndexSingleDocument(t *testing.T) {
	fx := newIndexFixture(t, corpusFiles())
	ctx := context.Background()

	doc, err := fx.corpus.Load(ctx, "aws/s3-internals.md", interfaces.LoadOptions{})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	result, err := fx.svc.Index(ctx, doc, interfaces.IndexOptions{})
	if err != nil {
		t.Fatalf("Index: %v", err)
	}
	if len(result.CreatedIDs) != 1 {
		t.Fatalf("expected 1 created, got %+v", result)
	}

	// Indexing the same unchanged document again is a no-op.
	result, err = fx.svc.Index(ctx, doc, interfaces.IndexOptions{})
	if err != nil {
		t.Fatalf("re-Index: %v", err)
	}
	if len(result.SkippedIDs) != 1 {
		t.Fatalf("expected skip on unchanged document, got %+v", result)
	}
}

func TestNewServiceValidation(t *testing.T) {
	if _, err := NewService(nil, nil, nil, nil, nil); err != ErrCorpusRequired {
		t.Fatalf("expected ErrCorpusRequired, got %v", err)
	}
	corpus, err := markdown.NewService(markdown.Config{BasePath: t.TempDir()}, nil)
	if err != nil {
		t.Fatalf("markdown.NewService: %v", err)
	}
	if _, err := NewService(corpus, nil, nil, nil, nil); err != ErrRepositoryRequired {
		t.Fatalf("expected ErrRepositoryRequired, got %v", err)
	}
}
