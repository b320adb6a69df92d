// Package markdown implements the corpus loading workflows: filesystem
// discovery, frontmatter extraction, goldmark parsing, and the structural
// outline (headings, fences, links) shared by the lint and index services.
package markdown
