package corpus_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	corpus "github.com/goliatone/go-corpus"
)

func writeCorpusFile(tb testing.TB, dir, rel, content string) {
	tb.Helper()
	path := filepath.Join(dir, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		tb.Fatalf("mkdir fixture: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		tb.Fatalf("write fixture: %v", err)
	}
}

func newTestModule(tb testing.TB) (*corpus.Module, string) {
	tb.Helper()

	dir := tb.TempDir()
	writeCorpusFile(tb, dir, "aws/s3-internals.md", `---
title: Understanding S3 Internals
summary: How Amazon S3 stores and serves objects.
tags: [aws, s3]
---

# Understanding S3 Internals

S3 keeps object data and metadata on separate subsystems.

## Request Path

`+"```js"+`
const client = new S3Client({});
`+"```"+`

See [request signing](./request-signing.md#overview) for auth details.
`)
	writeCorpusFile(tb, dir, "aws/request-signing.md", `---
title: Request Signing
---

# Request Signing

## Overview

Every request carries a SigV4 signature.
`)
	writeCorpusFile(tb, dir, "node_js/event-loop.md", `---
title: The Node.js Event Loop
tags: [node, runtime]
---

# The Node.js Event Loop

Timers, microtasks, and the poll phase.
`)

	cfg := corpus.DefaultConfig()
	cfg.Corpus.BasePath = dir
	cfg.Storage.Provider = "memory"
	cfg.Storage.Driver = ""
	cfg.Storage.DSN = ""

	module, err := corpus.New(cfg)
	if err != nil {
		tb.Fatalf("corpus.New: %v", err)
	}
	tb.Cleanup(func() {
		_ = module.Close()
	})
	return module, dir
}

func TestModuleLintCleanCorpus(t *testing.T) {
	module, _ := newTestModule(t)

	report, err := module.Lint().LintDirectory(context.Background(), ".", corpus.LintOptions{})
	if err != nil {
		t.Fatalf("LintDirectory: %v", err)
	}
	if report.HasErrors() {
		t.Fatalf("expected clean corpus, got findings: %+v", report.Findings)
	}
	if report.Documents != 3 {
		t.Fatalf("expected three documents linted, got %d", report.Documents)
	}
}

func TestModuleIndexAndSearch(t *testing.T) {
	module, _ := newTestModule(t)
	ctx := context.Background()

	result, err := module.Index().IndexDirectory(ctx, ".", corpus.IndexOptions{})
	if err != nil {
		t.Fatalf("IndexDirectory: %v", err)
	}
	if len(result.CreatedIDs) != 3 {
		t.Fatalf("expected three documents indexed, got %d", len(result.CreatedIDs))
	}

	hits, err := module.Search().Search(ctx, corpus.SearchQuery{Term: "event loop"})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if hits.Total != 1 {
		t.Fatalf("expected one hit, got %d", hits.Total)
	}
	if hits.Hits[0].Path != "node_js/event-loop.md" {
		t.Fatalf("expected event loop document, got %s", hits.Hits[0].Path)
	}
}

func TestModuleStatsAfterIndex(t *testing.T) {
	module, _ := newTestModule(t)
	ctx := context.Background()

	if _, err := module.Index().IndexDirectory(ctx, ".", corpus.IndexOptions{}); err != nil {
		t.Fatalf("IndexDirectory: %v", err)
	}

	stats, err := module.Stats().Collect(ctx)
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}
	if stats.Documents != 3 {
		t.Fatalf("expected three documents, got %d", stats.Documents)
	}
	if len(stats.Topics) != 2 {
		t.Fatalf("expected two topics, got %d", len(stats.Topics))
	}
	if stats.FenceLanguages["js"] != 1 {
		t.Fatalf("expected one js fence, got %d", stats.FenceLanguages["js"])
	}
	if stats.UnresolvedLinks != 0 {
		t.Fatalf("expected no unresolved links, got %d", stats.UnresolvedLinks)
	}
}

func TestModuleSQLiteRoundTrip(t *testing.T) {
	dir := t.TempDir()
	writeCorpusFile(t, dir, "aws/s3-internals.md", `---
title: Understanding S3 Internals
---

# Understanding S3 Internals

Object storage request handling.
`)

	cfg := corpus.DefaultConfig()
	cfg.Corpus.BasePath = dir
	cfg.Storage.DSN = "file:" + filepath.Join(t.TempDir(), "corpus.db")

	module, err := corpus.New(cfg)
	if err != nil {
		t.Fatalf("corpus.New: %v", err)
	}
	defer module.Close()

	ctx := context.Background()
	if err := module.EnsureSchema(ctx); err != nil {
		t.Fatalf("EnsureSchema: %v", err)
	}

	first, err := module.Index().IndexDirectory(ctx, ".", corpus.IndexOptions{})
	if err != nil {
		t.Fatalf("IndexDirectory: %v", err)
	}
	if len(first.CreatedIDs) != 1 {
		t.Fatalf("expected one created document, got %d", len(first.CreatedIDs))
	}

	second, err := module.Index().IndexDirectory(ctx, ".", corpus.IndexOptions{})
	if err != nil {
		t.Fatalf("IndexDirectory rerun: %v", err)
	}
	if len(second.SkippedIDs) != 1 {
		t.Fatalf("expected unchanged document skipped, got %+v", second)
	}
}
