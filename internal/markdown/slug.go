package markdown

import (
	"path"
	"strings"

	slug "github.com/goliatone/go-slug"

	"github.com/goliatone/go-corpus/pkg/interfaces"
)

// DeriveSlug returns the canonical slug for a document: the explicit
// frontmatter slug when present, otherwise the normalised title, otherwise
// the file name without extension.
func DeriveSlug(doc *interfaces.Document) string {
	if doc == nil {
		return ""
	}
	if explicit := strings.TrimSpace(doc.FrontMatter.Slug); explicit != "" {
		return explicit
	}
	if title := strings.TrimSpace(doc.FrontMatter.Title); title != "" {
		if normalized, err := slug.Normalize(title); err == nil && normalized != "" {
			return normalized
		}
	}
	base := path.Base(doc.Path)
	base = strings.TrimSuffix(base, path.Ext(base))
	if normalized, err := slug.Normalize(base); err == nil && normalized != "" {
		return normalized
	}
	return base
}

// IsValidSlug reports whether the slug matches the default rules.
func IsValidSlug(value string) bool {
	return slug.IsValid(value)
}
