package index

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"
)

// EnsureSchema creates the index tables when they are missing. Safe to call
// on every startup.
func EnsureSchema(ctx context.Context, db *bun.DB) error {
	models := []any{
		(*Topic)(nil),
		(*Document)(nil),
		(*Link)(nil),
	}
	for _, model := range models {
		if _, err := db.NewCreateTable().Model(model).IfNotExists().Exec(ctx); err != nil {
			return fmt.Errorf("index schema: create table %T: %w", model, err)
		}
	}
	return nil
}
