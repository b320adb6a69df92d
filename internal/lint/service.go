package lint

import (
	"context"
	"errors"
	"fmt"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/goliatone/go-corpus/internal/logging"
	"github.com/goliatone/go-corpus/internal/markdown"
	"github.com/goliatone/go-corpus/pkg/interfaces"
)

var ErrCorpusRequired = errors.New("lint service: corpus service is required")

// Config supplies lint defaults. Call-level LintOptions override these.
type Config struct {
	// Disabled lists rule identifiers that never run.
	Disabled []string
	// FrontMatterSchema is the default schema for the frontmatter/schema
	// rule. Nil leaves the rule dormant unless a call supplies one.
	FrontMatterSchema map[string]any
}

// Service implements interfaces.LintService over a filesystem corpus.
type Service struct {
	cfg    Config
	corpus *markdown.Service
	parser interfaces.MarkdownParser
	logger interfaces.Logger
}

// NewService constructs a lint service bound to the supplied corpus service.
func NewService(cfg Config, corpus *markdown.Service, provider interfaces.LoggerProvider) (*Service, error) {
	if corpus == nil {
		return nil, ErrCorpusRequired
	}
	return &Service{
		cfg:    cfg,
		corpus: corpus,
		parser: markdown.NewGoldmarkParser(interfaces.ParseOptions{}),
		logger: logging.LintLogger(provider),
	}, nil
}

// LintDirectory loads every Markdown document under dir and applies the
// enabled rules, returning findings ordered by path then line.
func (s *Service) LintDirectory(ctx context.Context, dir string, opts interfaces.LintOptions) (*interfaces.LintReport, error) {
	results, err := s.corpus.Loader().LoadDirectory(ctx, dir, markdown.LoadParams{
		Pattern:   opts.Pattern,
		Recursive: opts.Recursive,
	})
	if err != nil {
		return nil, fmt.Errorf("lint load %s: %w", dir, err)
	}

	entries := make([]*documentEntry, 0, len(results))
	for _, result := range results {
		entries = append(entries, newDocumentEntry(result.Document, result.Source))
	}

	disabled := disabledSet(s.cfg.Disabled, opts.Disabled)

	compiled, err := s.compileFrontMatterSchema(opts, disabled)
	if err != nil {
		return nil, err
	}

	index := buildCorpusIndex(entries)

	var findings []interfaces.Finding
	for _, entry := range entries {
		if !disabled[RuleMarkdownParse] {
			findings = append(findings, checkParse(entry, s.parser, interfaces.ParseOptions{})...)
		}
		if !disabled[RuleFenceClosed] {
			findings = append(findings, checkFences(entry)...)
		}
		if !disabled[RuleLinkInternal] {
			findings = append(findings, checkLinks(entry, index)...)
		}
		if !disabled[RuleFrontMatterSchema] {
			findings = append(findings, checkFrontMatter(entry, compiled)...)
		}
		if !disabled[RuleDocTitle] {
			findings = append(findings, checkTitle(entry)...)
		}
		if !disabled[RuleHeadingSequence] {
			findings = append(findings, checkHeadingSequence(entry)...)
		}
	}
	if !disabled[RuleSlugUnique] {
		findings = append(findings, checkSlugs(entries, markdown.DeriveSlug)...)
	}

	sortFindings(findings)

	report := &interfaces.LintReport{
		Documents: len(entries),
		Findings:  findings,
	}

	s.logger.Info("lint.completed",
		"documents", report.Documents,
		"findings", len(report.Findings),
		"errors", report.HasErrors(),
	)

	return report, nil
}

func (s *Service) compileFrontMatterSchema(opts interfaces.LintOptions, disabled map[string]bool) (*jsonschema.Schema, error) {
	if disabled[RuleFrontMatterSchema] {
		return nil, nil
	}
	schema := opts.FrontMatterSchema
	if schema == nil {
		schema = s.cfg.FrontMatterSchema
	}
	if schema == nil {
		return nil, nil
	}
	compiled, err := compileSchema(schema)
	if err != nil {
		return nil, err
	}
	return compiled, nil
}

func disabledSet(groups ...[]string) map[string]bool {
	set := map[string]bool{}
	for _, group := range groups {
		for _, rule := range group {
			set[rule] = true
		}
	}
	return set
}

var _ interfaces.LintService = (*Service)(nil)
