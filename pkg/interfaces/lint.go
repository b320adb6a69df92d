package interfaces

import "context"

// Severity grades lint findings. Error findings fail a lint run; warnings and
// info findings are reported without affecting the outcome.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// Finding reports a single lint rule violation at a document location.
type Finding struct {
	Rule     string
	Severity Severity
	Path     string
	Line     int
	Message  string
}

// LintOptions selects which rules run and supplies rule configuration.
// Rules absent from Disabled run by default.
type LintOptions struct {
	Disabled []string
	// FrontMatterSchema holds a JSON schema document applied by the
	// frontmatter/schema rule. A nil map disables the rule.
	FrontMatterSchema map[string]any
	Pattern           string
	Recursive         *bool
}

// LintReport aggregates the findings of a lint run across the corpus.
type LintReport struct {
	Documents int
	Findings  []Finding
}

// HasErrors reports whether any finding carries error severity.
func (r *LintReport) HasErrors() bool {
	if r == nil {
		return false
	}
	for _, f := range r.Findings {
		if f.Severity == SeverityError {
			return true
		}
	}
	return false
}

// LintService validates a corpus subtree and reports findings ordered by
// path then line.
type LintService interface {
	LintDirectory(ctx context.Context, dir string, opts LintOptions) (*LintReport, error)
}
