package corpuscmd

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

const (
	indexDirectoryMessageType = "corpus.index.index_directory"
	syncDirectoryMessageType  = "corpus.index.sync_directory"
	lintDirectoryMessageType  = "corpus.lint.lint_directory"
)

// IndexDirectoryCommand triggers an index run over the Markdown tree rooted
// at Directory. Options map directly onto interfaces.IndexOptions.
type IndexDirectoryCommand struct {
	// Directory selects the filesystem path (relative or absolute) to index.
	Directory string `json:"directory"`
	// DryRun previews the run without persisting changes.
	DryRun bool `json:"dry_run,omitempty"`
	// IncludeDrafts indexes documents marked draft in frontmatter.
	IncludeDrafts bool `json:"include_drafts,omitempty"`
}

// Type implements command.Message.
func (IndexDirectoryCommand) Type() string { return indexDirectoryMessageType }

// Validate ensures directory input is present before handlers execute.
func (cmd IndexDirectoryCommand) Validate() error {
	return validation.ValidateStruct(&cmd,
		validation.Field(&cmd.Directory, validation.Required, validation.By(requireDirectory(indexDirectoryMessageType))),
	)
}

// SyncDirectoryCommand orchestrates a full synchronisation run: index every
// document under Directory and optionally prune rows whose source file is
// gone.
type SyncDirectoryCommand struct {
	// Directory selects the filesystem path (relative or absolute) to sync.
	Directory string `json:"directory"`
	// DryRun previews the run without persisting changes.
	DryRun bool `json:"dry_run,omitempty"`
	// IncludeDrafts indexes documents marked draft in frontmatter.
	IncludeDrafts bool `json:"include_drafts,omitempty"`
	// DeleteOrphaned removes index rows without a matching Markdown file.
	DeleteOrphaned bool `json:"delete_orphaned,omitempty"`
}

// Type implements command.Message.
func (SyncDirectoryCommand) Type() string { return syncDirectoryMessageType }

// Validate ensures directory input is present before handlers execute.
func (cmd SyncDirectoryCommand) Validate() error {
	return validation.ValidateStruct(&cmd,
		validation.Field(&cmd.Directory, validation.Required, validation.By(requireDirectory(syncDirectoryMessageType))),
	)
}

// LintDirectoryCommand runs the lint rule set over the Markdown tree rooted
// at Directory.
type LintDirectoryCommand struct {
	// Directory selects the filesystem path (relative or absolute) to lint.
	Directory string `json:"directory"`
	// Disabled lists rule identifiers excluded from the run.
	Disabled []string `json:"disabled,omitempty"`
	// Pattern narrows the run to files matching the supplied glob.
	Pattern string `json:"pattern,omitempty"`
}

// Type implements command.Message.
func (LintDirectoryCommand) Type() string { return lintDirectoryMessageType }

// Validate ensures directory input is present before handlers execute.
func (cmd LintDirectoryCommand) Validate() error {
	return validation.ValidateStruct(&cmd,
		validation.Field(&cmd.Directory, validation.Required, validation.By(requireDirectory(lintDirectoryMessageType))),
	)
}

func requireDirectory(messageType string) func(any) error {
	return func(value any) error {
		if strings.TrimSpace(value.(string)) == "" {
			return validation.NewError(messageType+".directory_required", "directory is required")
		}
		return nil
	}
}
