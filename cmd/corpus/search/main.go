package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/goliatone/go-corpus/cmd/corpus/internal/bootstrap"
	"github.com/goliatone/go-corpus/pkg/interfaces"
)

var moduleBuilder = bootstrap.BuildModule

func main() {
	if err := runSearch(os.Args[1:], os.Stdout); err != nil {
		log.Fatalf("corpus search: %v", err)
	}
}

func runSearch(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("corpus-search", flag.ExitOnError)
	contentDir := fs.String("content-dir", "content", "Path to the corpus content root")
	dsn := fs.String("dsn", "file:corpus.db", "Index database DSN")
	driver := fs.String("driver", "sqlite", "Index database driver")
	topic := fs.String("topic", "", "Restrict results to a topic key")
	tag := fs.String("tag", "", "Restrict results to documents carrying a tag")
	limit := fs.Int("limit", 0, "Maximum number of hits to return")
	offset := fs.Int("offset", 0, "Number of ranked hits to skip")
	includeDrafts := fs.Bool("include-drafts", false, "Include documents marked draft")

	if err := fs.Parse(args); err != nil {
		return err
	}

	term := strings.TrimSpace(strings.Join(fs.Args(), " "))
	if term == "" {
		return fmt.Errorf("search term is required")
	}

	module, err := moduleBuilder(bootstrap.Options{
		ContentDir:    *contentDir,
		Recursive:     true,
		StorageDriver: *driver,
		StorageDSN:    *dsn,
	})
	if err != nil {
		return fmt.Errorf("bootstrap module: %w", err)
	}
	defer module.Close()

	result, err := module.Search.Search(context.Background(), interfaces.SearchQuery{
		Term:          term,
		Topic:         *topic,
		Tag:           *tag,
		Limit:         *limit,
		Offset:        *offset,
		IncludeDrafts: *includeDrafts,
	})
	if err != nil {
		return fmt.Errorf("search: %w", err)
	}

	for _, hit := range result.Hits {
		fmt.Fprintf(out, "%s\t%s\t%s\n", hit.Path, hit.Title, hit.Snippet)
	}
	fmt.Fprintf(out, "%d of %d matches\n", len(result.Hits), result.Total)

	return nil
}
