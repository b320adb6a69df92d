package interfaces

import (
	"context"

	"github.com/google/uuid"
)

// IndexService persists corpus documents into the search index. Re-indexing
// an unchanged corpus is a no-op: documents whose checksum matches the stored
// row are skipped.
type IndexService interface {
	Index(ctx context.Context, doc *Document, opts IndexOptions) (*IndexResult, error)
	IndexDirectory(ctx context.Context, dir string, opts IndexOptions) (*IndexResult, error)
	Sync(ctx context.Context, dir string, opts SyncOptions) (*SyncResult, error)
}

// IndexOptions controls how documents are written into the index.
type IndexOptions struct {
	// DryRun previews the run without persisting changes.
	DryRun bool
	// IncludeDrafts indexes documents marked draft in frontmatter.
	IncludeDrafts bool
}

// SyncOptions extends IndexOptions with delete semantics for repeated
// synchronisation runs.
type SyncOptions struct {
	IndexOptions
	// DeleteOrphaned removes index rows whose source file no longer exists.
	DeleteOrphaned bool
}

// IndexResult reports the outcome of an index run, exposing IDs so callers
// can audit behaviour or trigger follow-up actions.
type IndexResult struct {
	CreatedIDs []uuid.UUID
	UpdatedIDs []uuid.UUID
	SkippedIDs []uuid.UUID
	Errors     []error
}

// SyncResult summarises a bulk sync run across many files.
type SyncResult struct {
	Created int
	Updated int
	Deleted int
	Skipped int
	Errors  []error
}
