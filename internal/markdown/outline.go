package markdown

import (
	"sort"
	"strconv"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"

	"github.com/goliatone/go-corpus/pkg/interfaces"
)

// ExtractOutline parses the Markdown body and collects the structural
// inventory consumed by lint rules and the indexer: headings with derived
// anchors, fenced code blocks, links, and the prose word count.
//
// Extraction is a pure function of the body bytes; the same input always
// yields the same outline.
func ExtractOutline(body []byte) interfaces.Outline {
	outline := interfaces.Outline{}
	if len(body) == 0 {
		return outline
	}

	engine := goldmark.New(goldmark.WithExtensions(extension.GFM))
	root := engine.Parser().Parse(text.NewReader(body))
	lines := newLineIndex(body)
	anchors := map[string]int{}

	words := 0

	_ = ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		switch node := n.(type) {
		case *ast.Heading:
			headingText := nodeText(node, body)
			outline.Headings = append(outline.Headings, interfaces.Heading{
				Level:  node.Level,
				Text:   headingText,
				Anchor: uniqueAnchor(anchors, Anchorize(headingText)),
				Line:   blockLine(node, lines),
			})
		case *ast.FencedCodeBlock:
			outline.CodeFences = append(outline.CodeFences, interfaces.CodeFence{
				Language: string(node.Language(body)),
				Line:     fenceLine(node, lines),
			})
		case *ast.Link:
			target := string(node.Destination)
			outline.Links = append(outline.Links, interfaces.Link{
				Target: target,
				Kind:   ClassifyLink(target),
				Line:   inlineLine(node, lines),
			})
		case *ast.AutoLink:
			outline.Links = append(outline.Links, interfaces.Link{
				Target: string(node.URL(body)),
				Kind:   interfaces.LinkExternal,
				Line:   inlineLine(node, lines),
			})
		case *ast.Image:
			target := string(node.Destination)
			outline.Links = append(outline.Links, interfaces.Link{
				Target: target,
				Kind:   ClassifyLink(target),
				Line:   inlineLine(node, lines),
			})
		case *ast.Text:
			segment := node.Segment
			words += len(strings.Fields(string(segment.Value(body))))
		}

		return ast.WalkContinue, nil
	})

	outline.WordCount = words
	return outline
}

// ClassifyLink buckets a link destination for resolution purposes. External
// links carry a scheme, anchor links reference a fragment within the same
// document, and everything else is treated as a corpus-internal path.
func ClassifyLink(target string) interfaces.LinkKind {
	trimmed := strings.TrimSpace(target)
	switch {
	case trimmed == "":
		return interfaces.LinkInternal
	case strings.HasPrefix(trimmed, "#"):
		return interfaces.LinkAnchor
	case strings.Contains(trimmed, "://"), strings.HasPrefix(trimmed, "mailto:"):
		return interfaces.LinkExternal
	case strings.HasPrefix(trimmed, "//"):
		return interfaces.LinkExternal
	default:
		return interfaces.LinkInternal
	}
}

// Anchorize derives the fragment identifier for a heading, matching the
// convention applied by goldmark's auto heading IDs closely enough for
// corpus-internal anchor checks.
func Anchorize(heading string) string {
	var builder strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(heading)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			builder.WriteRune(r)
		case r == ' ' || r == '-' || r == '_':
			builder.WriteByte('-')
		}
	}
	return builder.String()
}

func uniqueAnchor(seen map[string]int, anchor string) string {
	count := seen[anchor]
	seen[anchor] = count + 1
	if count == 0 {
		return anchor
	}
	return anchor + "-" + strconv.Itoa(count)
}

// lineIndex maps byte offsets to 1-based line numbers.
type lineIndex []int

func newLineIndex(source []byte) lineIndex {
	starts := lineIndex{0}
	for i, b := range source {
		if b == '\n' {
			starts = append(starts, i+1)
		}
	}
	return starts
}

func (idx lineIndex) lineAt(offset int) int {
	if offset < 0 {
		return 1
	}
	return sort.Search(len(idx), func(i int) bool { return idx[i] > offset })
}

func blockLine(node ast.Node, lines lineIndex) int {
	if node == nil {
		return 0
	}
	segments := node.Lines()
	if segments != nil && segments.Len() > 0 {
		return lines.lineAt(segments.At(0).Start)
	}
	return 0
}

// fenceLine returns the line of the opening fence. The info segment sits on
// the fence line itself; empty fences without an info string fall back to the
// first content line.
func fenceLine(node *ast.FencedCodeBlock, lines lineIndex) int {
	if node == nil {
		return 0
	}
	if node.Info != nil {
		return lines.lineAt(node.Info.Segment.Start)
	}
	if node.Lines().Len() > 0 {
		return lines.lineAt(node.Lines().At(0).Start) - 1
	}
	return 0
}

// inlineLine approximates an inline node's position from its nearest block
// ancestor with recorded lines.
func inlineLine(node ast.Node, lines lineIndex) int {
	for current := node; current != nil; current = current.Parent() {
		if current.Type() != ast.TypeBlock {
			continue
		}
		if segments := current.Lines(); segments != nil && segments.Len() > 0 {
			return lines.lineAt(segments.At(0).Start)
		}
	}
	return 0
}

func nodeText(node ast.Node, source []byte) string {
	var builder strings.Builder
	collectText(node, source, &builder)
	return strings.TrimSpace(builder.String())
}

func collectText(node ast.Node, source []byte, builder *strings.Builder) {
	for child := node.FirstChild(); child != nil; child = child.NextSibling() {
		switch typed := child.(type) {
		case *ast.Text:
			builder.Write(typed.Segment.Value(source))
		case *ast.String:
			builder.Write(typed.Value)
		default:
			collectText(child, source, builder)
		}
	}
}
