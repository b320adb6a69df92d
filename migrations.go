package corpus

import (
	"context"

	"github.com/uptrace/bun"

	"github.com/goliatone/go-corpus/internal/index"
)

// RunMigrations creates the index schema on the supplied bun handle. Hosts
// that manage their own database lifecycle can call this instead of
// Module.EnsureSchema.
func RunMigrations(ctx context.Context, db *bun.DB) error {
	return index.EnsureSchema(ctx, db)
}
