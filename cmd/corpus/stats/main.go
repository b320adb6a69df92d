package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/goliatone/go-corpus/cmd/corpus/internal/bootstrap"
)

var moduleBuilder = bootstrap.BuildModule

func main() {
	if err := runStats(os.Args[1:], os.Stdout); err != nil {
		log.Fatalf("corpus stats: %v", err)
	}
}

func runStats(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("corpus-stats", flag.ExitOnError)
	contentDir := fs.String("content-dir", "content", "Path to the corpus content root")
	dsn := fs.String("dsn", "file:corpus.db", "Index database DSN")
	driver := fs.String("driver", "sqlite", "Index database driver")

	if err := fs.Parse(args); err != nil {
		return err
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

	stats, err := module.Stats.Collect(context.Background())
	if err != nil {
		return fmt.Errorf("collect stats: %w", err)
	}

	fmt.Fprintf(out, "documents: %d\n", stats.Documents)
	fmt.Fprintf(out, "words: %d\n", stats.Words)
	fmt.Fprintf(out, "unresolved links: %d\n", stats.UnresolvedLinks)
	for _, topic := range stats.Topics {
		fmt.Fprintf(out, "topic %s: %d documents, %d words\n", topic.Topic, topic.Documents, topic.Words)
	}
	for lang, count := range stats.FenceLanguages {
		fmt.Fprintf(out, "fence %s: %d\n", lang, count)
	}

	return nil
}
