package corpuscmd

// FeatureGates exposes runtime feature toggles required by corpus command
// handlers. Callers supply closures that read from corpus.Config.Features so
// handlers stay decoupled from configuration.
type FeatureGates struct {
	IndexingEnabled func() bool
	LintingEnabled  func() bool
}

func (g FeatureGates) indexingEnabled() bool {
	if g.IndexingEnabled == nil {
		return true
	}
	return g.IndexingEnabled()
}

func (g FeatureGates) lintingEnabled() bool {
	if g.LintingEnabled == nil {
		return true
	}
	return g.LintingEnabled()
}
