package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/goliatone/go-corpus/cmd/corpus/internal/bootstrap"
	corpuscmd "github.com/goliatone/go-corpus/internal/commands/corpus"
)

var moduleBuilder = bootstrap.BuildModule

func main() {
	if err := runSync(os.Args[1:]); err != nil {
		log.Fatalf("corpus sync: %v", err)
	}
}

func runSync(args []string) error {
	fs := flag.NewFlagSet("corpus-sync", flag.ExitOnError)
	contentDir := fs.String("content-dir", "content", "Path to the corpus content root")
	pattern := fs.String("pattern", "*.md", "Glob pattern applied when discovering documents")
	dsn := fs.String("dsn", "file:corpus.db", "Index database DSN (empty for in-process memory)")
	driver := fs.String("driver", "sqlite", "Index database driver")
	directory := fs.String("directory", ".", "Directory to sync, relative to the content root")
	dryRun := fs.Bool("dry-run", false, "Preview changes without persisting index rows")
	includeDrafts := fs.Bool("include-drafts", false, "Index documents marked draft in frontmatter")
	deleteOrphans := fs.Bool("delete-orphans", true, "Remove index rows whose source file no longer exists")

	if err := fs.Parse(args); err != nil {
		return err
	}

	module, err := moduleBuilder(bootstrap.Options{
		ContentDir:    *contentDir,
		Pattern:       *pattern,
		Recursive:     true,
		StorageDriver: *driver,
		StorageDSN:    *dsn,
	})
	if err != nil {
		return fmt.Errorf("bootstrap module: %w", err)
	}
	defer module.Close()

	handler := corpuscmd.NewSyncDirectoryHandler(module.Index, module.Logger, corpuscmd.FeatureGates{})
	cmd := corpuscmd.SyncDirectoryCommand{
		Directory:      *directory,
		DryRun:         *dryRun,
		IncludeDrafts:  *includeDrafts,
		DeleteOrphaned: *deleteOrphans,
	}
	if err := handler.Execute(context.Background(), cmd); err != nil {
		return fmt.Errorf("execute sync command: %w", err)
	}
	fmt.Fprintln(os.Stdout, "corpus sync command executed successfully")

	return nil
}
