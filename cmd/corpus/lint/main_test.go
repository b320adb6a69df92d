package main

import (
	"context"
	"strings"
	"testing"

	"github.com/goliatone/go-corpus/cmd/corpus/internal/bootstrap"
	"github.com/goliatone/go-corpus/pkg/interfaces"
)

type stubLintService struct {
	lintCalls int
	lintDir   string
	options   interfaces.LintOptions
	report    *interfaces.LintReport
}

func (s *stubLintService) LintDirectory(_ context.Context, dir string, opts interfaces.LintOptions) (*interfaces.LintReport, error) {
	s.lintCalls++
	s.lintDir = dir
	s.options = opts
	return s.report, nil
}

func TestRunLintReportsFindings(t *testing.T) {
	original := moduleBuilder
	defer func() { moduleBuilder = original }()

	svc := &stubLintService{
		report: &interfaces.LintReport{
			Documents: 2,
			Findings: []interfaces.Finding{
				{
					Rule:     "fence/closed",
					Severity: interfaces.SeverityError,
					Path:     "aws/s3-internals.md",
					Line:     12,
					Message:  "code fence opened and never closed",
				},
			},
		},
	}
	moduleBuilder = func(bootstrap.Options) (*bootstrap.Module, error) {
		return &bootstrap.Module{Lint: svc}, nil
	}

	out := &strings.Builder{}
	hasErrors, err := runLint([]string{
		"-directory", "aws",
		"-disable", "doc/title,heading/sequence",
	}, out)
	if err != nil {
		t.Fatalf("runLint returned error: %v", err)
	}
	if !hasErrors {
		t.Fatal("expected error findings to be reported")
	}
	if svc.lintCalls != 1 {
		t.Fatalf("expected lint to be called once, got %d", svc.lintCalls)
	}
	if svc.lintDir != "aws" {
		t.Fatalf("expected lint directory aws, got %s", svc.lintDir)
	}
	if len(svc.options.Disabled) != 2 {
		t.Fatalf("expected two disabled rules, got %v", svc.options.Disabled)
	}
	if !strings.Contains(out.String(), "aws/s3-internals.md:12") {
		t.Fatalf("expected finding location in output, got %q", out.String())
	}
}

func TestRunLintCleanCorpus(t *testing.T) {
	original := moduleBuilder
	defer func() { moduleBuilder = original }()

	svc := &stubLintService{
		report: &interfaces.LintReport{Documents: 3},
	}
	moduleBuilder = func(bootstrap.Options) (*bootstrap.Module, error) {
		return &bootstrap.Module{Lint: svc}, nil
	}

	out := &strings.Builder{}
	hasErrors, err := runLint(nil, out)
	if err != nil {
		t.Fatalf("runLint returned error: %v", err)
	}
	if hasErrors {
		t.Fatal("expected clean lint run")
	}
	if !strings.Contains(out.String(), "linted 3 documents") {
		t.Fatalf("expected summary line, got %q", out.String())
	}
}
