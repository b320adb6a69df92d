package lint

import (
	"fmt"
	"path"
	"sort"
	"strings"

	"github.com/goliatone/go-corpus/pkg/interfaces"
)

// Rule identifiers. Rules run by default; callers opt out via
// LintOptions.Disabled.
const (
	RuleMarkdownParse     = "markdown/parse"
	RuleFenceClosed       = "fence/closed"
	RuleLinkInternal      = "link/internal"
	RuleFrontMatterSchema = "frontmatter/schema"
	RuleDocTitle          = "doc/title"
	RuleHeadingSequence   = "heading/sequence"
	RuleSlugUnique        = "slug/unique"
)

// documentEntry pairs a parsed document with the raw source it came from.
// Outline positions are body-relative, so lineOffset records how many
// frontmatter lines were stripped ahead of the body.
type documentEntry struct {
	doc        *interfaces.Document
	source     []byte
	lineOffset int
	anchors    map[string]struct{}
}

func newDocumentEntry(doc *interfaces.Document, source []byte) *documentEntry {
	anchors := make(map[string]struct{}, len(doc.Outline.Headings))
	for _, heading := range doc.Outline.Headings {
		anchors[heading.Anchor] = struct{}{}
	}
	return &documentEntry{
		doc:        doc,
		source:     source,
		lineOffset: countLines(source) - countLines(doc.Body),
		anchors:    anchors,
	}
}

func (e *documentEntry) bodyLine(line int) int {
	if line <= 0 {
		return line
	}
	return line + e.lineOffset
}

// corpusIndex is the cross-document view the link and slug rules need.
type corpusIndex struct {
	entries map[string]*documentEntry
}

func buildCorpusIndex(entries []*documentEntry) *corpusIndex {
	index := &corpusIndex{entries: make(map[string]*documentEntry, len(entries))}
	for _, entry := range entries {
		index.entries[entry.doc.Path] = entry
	}
	return index
}

func (c *corpusIndex) lookup(path string) (*documentEntry, bool) {
	entry, ok := c.entries[path]
	return entry, ok
}

func checkParse(entry *documentEntry, parser interfaces.MarkdownParser, opts interfaces.ParseOptions) []interfaces.Finding {
	if parser == nil {
		return nil
	}
	if _, err := parser.ParseWithOptions(entry.doc.Body, opts); err != nil {
		return []interfaces.Finding{{
			Rule:     RuleMarkdownParse,
			Severity: interfaces.SeverityError,
			Path:     entry.doc.Path,
			Line:     1,
			Message:  fmt.Sprintf("markdown failed to parse: %v", err),
		}}
	}
	return nil
}

// checkFences scans the raw body line by line because the renderer silently
// closes dangling fences, hiding exactly the defect this rule reports.
func checkFences(entry *documentEntry) []interfaces.Finding {
	var findings []interfaces.Finding

	var openLine int
	var openMarker byte
	var openLen int
	open := false

	lines := strings.Split(string(entry.doc.Body), "\n")
	for i, raw := range lines {
		line := strings.TrimLeft(raw, " ")
		if len(raw)-len(line) > 3 {
			// Indented four or more spaces: a code block, not a fence.
			continue
		}
		marker, length := fenceMarker(line)
		if length < 3 {
			continue
		}
		if !open {
			open = true
			openLine = i + 1
			openMarker = marker
			openLen = length
			continue
		}
		// A closing fence must reuse the opening character and be at least
		// as long; anything else is content inside the fence.
		rest := strings.TrimSpace(line[length:])
		if marker == openMarker && length >= openLen && rest == "" {
			open = false
		}
	}

	if open {
		findings = append(findings, interfaces.Finding{
			Rule:     RuleFenceClosed,
			Severity: interfaces.SeverityError,
			Path:     entry.doc.Path,
			Line:     entry.bodyLine(openLine),
			Message:  "code fence opened here is never closed",
		})
	}
	return findings
}

func fenceMarker(line string) (byte, int) {
	if line == "" {
		return 0, 0
	}
	marker := line[0]
	if marker != '`' && marker != '~' {
		return 0, 0
	}
	length := 0
	for length < len(line) && line[length] == marker {
		length++
	}
	return marker, length
}

func checkLinks(entry *documentEntry, index *corpusIndex) []interfaces.Finding {
	var findings []interfaces.Finding

	for _, link := range entry.doc.Outline.Links {
		switch link.Kind {
		case interfaces.LinkAnchor:
			anchor := strings.TrimPrefix(link.Target, "#")
			if anchor == "" {
				continue
			}
			if _, ok := entry.anchors[anchor]; !ok {
				findings = append(findings, interfaces.Finding{
					Rule:     RuleLinkInternal,
					Severity: interfaces.SeverityError,
					Path:     entry.doc.Path,
					Line:     entry.bodyLine(link.Line),
					Message:  fmt.Sprintf("anchor %q not found in document", anchor),
				})
			}
		case interfaces.LinkInternal:
			findings = append(findings, checkInternalLink(entry, index, link)...)
		}
	}
	return findings
}

func checkInternalLink(entry *documentEntry, index *corpusIndex, link interfaces.Link) []interfaces.Finding {
	target, fragment, _ := strings.Cut(link.Target, "#")
	target = strings.TrimSpace(target)
	if target == "" {
		return nil
	}
	// The corpus only loads Markdown; other assets are outside its view.
	if !strings.HasSuffix(strings.ToLower(target), ".md") {
		return nil
	}

	resolved := path.Clean(path.Join(path.Dir(entry.doc.Path), target))
	dest, ok := index.lookup(resolved)
	if !ok {
		return []interfaces.Finding{{
			Rule:     RuleLinkInternal,
			Severity: interfaces.SeverityError,
			Path:     entry.doc.Path,
			Line:     entry.bodyLine(link.Line),
			Message:  fmt.Sprintf("link target %q does not resolve within the corpus", link.Target),
		}}
	}
	if fragment == "" {
		return nil
	}
	if _, ok := dest.anchors[fragment]; !ok {
		return []interfaces.Finding{{
			Rule:     RuleLinkInternal,
			Severity: interfaces.SeverityError,
			Path:     entry.doc.Path,
			Line:     entry.bodyLine(link.Line),
			Message:  fmt.Sprintf("anchor %q not found in %s", fragment, resolved),
		}}
	}
	return nil
}

func checkTitle(entry *documentEntry) []interfaces.Finding {
	if strings.TrimSpace(entry.doc.FrontMatter.Title) != "" {
		return nil
	}
	for _, heading := range entry.doc.Outline.Headings {
		if heading.Level == 1 {
			return nil
		}
	}
	return []interfaces.Finding{{
		Rule:     RuleDocTitle,
		Severity: interfaces.SeverityWarning,
		Path:     entry.doc.Path,
		Line:     1,
		Message:  "document has neither a frontmatter title nor a level-1 heading",
	}}
}

func checkHeadingSequence(entry *documentEntry) []interfaces.Finding {
	var findings []interfaces.Finding

	previous := 0
	for _, heading := range entry.doc.Outline.Headings {
		if previous > 0 && heading.Level > previous+1 {
			findings = append(findings, interfaces.Finding{
				Rule:     RuleHeadingSequence,
				Severity: interfaces.SeverityInfo,
				Path:     entry.doc.Path,
				Line:     entry.bodyLine(heading.Line),
				Message:  fmt.Sprintf("heading level jumps from %d to %d", previous, heading.Level),
			})
		}
		previous = heading.Level
	}
	return findings
}

// checkSlugs flags documents within the same topic whose derived slugs
// collide. entries must be sorted by path so the first document keeps the
// slug and later ones are reported.
func checkSlugs(entries []*documentEntry, deriveSlug func(*interfaces.Document) string) []interfaces.Finding {
	var findings []interfaces.Finding

	seen := map[string]string{}
	for _, entry := range entries {
		slug := deriveSlug(entry.doc)
		if slug == "" {
			continue
		}
		key := entry.doc.Topic + "\x00" + slug
		if first, ok := seen[key]; ok {
			findings = append(findings, interfaces.Finding{
				Rule:     RuleSlugUnique,
				Severity: interfaces.SeverityError,
				Path:     entry.doc.Path,
				Line:     1,
				Message:  fmt.Sprintf("slug %q already used by %s", slug, first),
			})
			continue
		}
		seen[key] = entry.doc.Path
	}
	return findings
}

func sortFindings(findings []interfaces.Finding) {
	sort.Slice(findings, func(i, j int) bool {
		if findings[i].Path != findings[j].Path {
			return findings[i].Path < findings[j].Path
		}
		if findings[i].Line != findings[j].Line {
			return findings[i].Line < findings[j].Line
		}
		return findings[i].Rule < findings[j].Rule
	})
}

func countLines(data []byte) int {
	count := 0
	for _, b := range data {
		if b == '\n' {
			count++
		}
	}
	return count
}
