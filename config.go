package corpus

import "github.com/goliatone/go-corpus/internal/runtimeconfig"

var (
	ErrCorpusBasePathRequired       = runtimeconfig.ErrCorpusBasePathRequired
	ErrStorageProviderUnknown       = runtimeconfig.ErrStorageProviderUnknown
	ErrStorageDriverUnknown         = runtimeconfig.ErrStorageDriverUnknown
	ErrStorageDSNRequired           = runtimeconfig.ErrStorageDSNRequired
	ErrCommandsCronRequiresIndexing = runtimeconfig.ErrCommandsCronRequiresIndexing
	ErrSearchLimitInvalid           = runtimeconfig.ErrSearchLimitInvalid
	ErrSearchMaxBelowDefault        = runtimeconfig.ErrSearchMaxBelowDefault
	ErrLoggingProviderRequired      = runtimeconfig.ErrLoggingProviderRequired
	ErrLoggingProviderUnknown       = runtimeconfig.ErrLoggingProviderUnknown
	ErrLoggingLevelInvalid          = runtimeconfig.ErrLoggingLevelInvalid
	ErrLoggingFormatInvalid         = runtimeconfig.ErrLoggingFormatInvalid
)

type (
	Config         = runtimeconfig.Config
	CorpusConfig   = runtimeconfig.CorpusConfig
	ParserConfig   = runtimeconfig.ParserConfig
	LintConfig     = runtimeconfig.LintConfig
	SearchConfig   = runtimeconfig.SearchConfig
	StorageConfig  = runtimeconfig.StorageConfig
	CacheConfig    = runtimeconfig.CacheConfig
	Features       = runtimeconfig.Features
	CommandsConfig = runtimeconfig.CommandsConfig
	LoggingConfig  = runtimeconfig.LoggingConfig
)

func DefaultConfig() Config {
	return runtimeconfig.DefaultConfig()
}
