package testsupport

import (
	"database/sql"

	_ "github.com/mattn/go-sqlite3"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
)

// NewBunSQLiteDB opens a private in-memory SQLite database wrapped in a bun
// handle. Each call returns an isolated database so tests cannot leak state
// into one another.
func NewBunSQLiteDB() (*bun.DB, error) {
	sqldb, err := sql.Open("sqlite3", "file::memory:")
	if err != nil {
		return nil, err
	}
	return bun.NewDB(sqldb, sqlitedialect.New()), nil
}
