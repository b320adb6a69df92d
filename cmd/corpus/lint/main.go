package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/goliatone/go-corpus/cmd/corpus/internal/bootstrap"
	"github.com/goliatone/go-corpus/pkg/interfaces"
)

var moduleBuilder = bootstrap.BuildModule

func main() {
	hasErrors, err := runLint(os.Args[1:], os.Stdout)
	if err != nil {
		log.Fatalf("corpus lint: %v", err)
	}
	if hasErrors {
		os.Exit(1)
	}
}

func runLint(args []string, out io.Writer) (bool, error) {
	fs := flag.NewFlagSet("corpus-lint", flag.ExitOnError)
	contentDir := fs.String("content-dir", "content", "Path to the corpus content root")
	pattern := fs.String("pattern", "*.md", "Glob pattern applied when discovering documents")
	directory := fs.String("directory", ".", "Directory to lint, relative to the content root")
	disabled := fs.String("disable", "", "Comma separated list of rule identifiers to skip")

	if err := fs.Parse(args); err != nil {
		return false, err
	}

	module, err := moduleBuilder(bootstrap.Options{
		ContentDir: *contentDir,
		Pattern:    *pattern,
		Recursive:  true,
	})
	if err != nil {
		return false, fmt.Errorf("bootstrap module: %w", err)
	}
	defer module.Close()

	report, err := module.Lint.LintDirectory(context.Background(), *directory, interfaces.LintOptions{
		Disabled: bootstrap.SplitList(*disabled),
	})
	if err != nil {
		return false, fmt.Errorf("lint directory: %w", err)
	}

	for _, finding := range report.Findings {
		fmt.Fprintf(out, "%s:%d %s [%s] %s\n", finding.Path, finding.Line, finding.Severity, finding.Rule, finding.Message)
	}
	fmt.Fprintf(out, "linted %d documents, %d findings\n", report.Documents, len(report.Findings))

	return report.HasErrors(), nil
}
