package interfaces

import (
	"context"
	"time"
)

// MarkdownParser defines how raw Markdown bytes are converted into HTML.
// Implementations should be safe for reuse across calls so hosts can share a
// single instance without additional locking.
type MarkdownParser interface {
	// Parse converts Markdown into HTML using the parser's default settings.
	Parse(markdown []byte) ([]byte, error)
	// ParseWithOptions converts Markdown into HTML using the supplied overrides.
	ParseWithOptions(markdown []byte, opts ParseOptions) ([]byte, error)
}

// ParseOptions customises Markdown parsing behaviour, keeping option names
// readable for configuration unmarshalling and CLI flags.
type ParseOptions struct {
	Extensions []string
	Sanitize   bool
	HardWraps  bool
	SafeMode   bool
}

// CorpusService exposes the file workflows for a Markdown documentation
// corpus: loading documents from a topic-organised directory tree and
// rendering their bodies on demand.
type CorpusService interface {
	Load(ctx context.Context, path string, opts LoadOptions) (*Document, error)
	LoadDirectory(ctx context.Context, dir string, opts LoadOptions) ([]*Document, error)
	Render(ctx context.Context, markdown []byte, opts ParseOptions) ([]byte, error)
	RenderDocument(ctx context.Context, doc *Document, opts ParseOptions) ([]byte, error)
}

// Document represents a Markdown file with parsed metadata and content. The
// struct is shared between the interfaces package and internal implementations
// so consumers can depend on a stable contract.
//
// Path is the document's identity: the slash-normalised location relative to
// the corpus root. Documents are immutable; loading never mutates the source
// tree.
type Document struct {
	Path         string
	Topic        string
	FrontMatter  FrontMatter
	Body         []byte
	BodyHTML     []byte
	LastModified time.Time
	// Checksum stores a digest of the original file content (SHA-256) so
	// index workflows can detect changes without re-reading unchanged files.
	Checksum []byte
	Outline  Outline
}

// FrontMatter models metadata extracted from Markdown files. Fields stay
// flexible thanks to the Custom map for topic- or domain-specific values.
type FrontMatter struct {
	Title   string         `yaml:"title" json:"title"`
	Slug    string         `yaml:"slug" json:"slug"`
	Summary string         `yaml:"summary" json:"summary"`
	Tags    []string       `yaml:"tags" json:"tags"`
	Author  string         `yaml:"author" json:"author"`
	Date    time.Time      `yaml:"date" json:"date"`
	Draft   bool           `yaml:"draft" json:"draft"`
	Custom  map[string]any `yaml:",inline" json:"custom"`
	Raw     map[string]any `yaml:"-" json:"raw"`
}

// Outline captures the structural inventory of a document body: headings,
// fenced code blocks, links, and the prose word count. It is derived once at
// load time so lint rules and the indexer share a single extraction pass.
type Outline struct {
	Headings   []Heading
	CodeFences []CodeFence
	Links      []Link
	WordCount  int
}

// Heading describes a single heading with its derived anchor.
type Heading struct {
	Level  int
	Text   string
	Anchor string
	Line   int
}

// CodeFence describes a fenced code block.
type CodeFence struct {
	Language string
	Line     int
}

// LinkKind classifies link targets for resolution purposes.
type LinkKind string

const (
	// LinkInternal targets another file inside the corpus tree.
	LinkInternal LinkKind = "internal"
	// LinkExternal targets a URL outside the corpus (never fetched).
	LinkExternal LinkKind = "external"
	// LinkAnchor targets a heading fragment within the same document.
	LinkAnchor LinkKind = "anchor"
)

// Link describes a link found in a document body.
type Link struct {
	Target string
	Kind   LinkKind
	Line   int
}

// LoadOptions fine-tunes how documents are discovered and parsed from disk.
type LoadOptions struct {
	Recursive     *bool
	Pattern       string
	TopicPatterns map[string]string
	Parser        ParseOptions
}
