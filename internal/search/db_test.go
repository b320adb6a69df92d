package search

import (
	"github.com/goliatone/go-corpus/pkg/testsupport"
	"github.com/uptrace/bun"
)

func newTestDB() (*bun.DB, error) {
	return testsupport.NewBunSQLiteDB()
}
