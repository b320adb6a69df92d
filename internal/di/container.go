package di

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	repocache "github.com/goliatone/go-repository-cache/cache"
	_ "github.com/mattn/go-sqlite3"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"

	corpuscmd "github.com/goliatone/go-corpus/internal/commands/corpus"
	"github.com/goliatone/go-corpus/internal/index"
	"github.com/goliatone/go-corpus/internal/lint"
	"github.com/goliatone/go-corpus/internal/logging/console"
	"github.com/goliatone/go-corpus/internal/logging/gologger"
	"github.com/goliatone/go-corpus/internal/markdown"
	"github.com/goliatone/go-corpus/internal/runtimeconfig"
	"github.com/goliatone/go-corpus/internal/search"
	"github.com/goliatone/go-corpus/internal/stats"
	"github.com/goliatone/go-corpus/pkg/interfaces"
)

// ErrPostgresHandleRequired signals that postgres storage needs a host-managed
// database handle. The container opens sqlite itself but will not guess at
// postgres connection mechanics.
var ErrPostgresHandleRequired = errors.New("di: postgres storage requires an injected database handle")

// Container wires module dependencies: storage, repositories, services, and
// the logger provider shared across them.
type Container struct {
	Config runtimeconfig.Config

	loggerProvider interfaces.LoggerProvider

	bunDB  *bun.DB
	sqlDB  *sql.DB
	ownsDB bool

	cacheTTL      time.Duration
	cacheService  repocache.CacheService
	keySerializer repocache.KeySerializer

	documentRepo index.DocumentRepository
	topicRepo    index.TopicRepository
	linkRepo     index.LinkRepository

	corpusSvc *markdown.Service
	lintSvc   interfaces.LintService
	indexSvc  interfaces.IndexService
	searchSvc interfaces.SearchService
	statsSvc  interfaces.StatsService
}

// Option mutates the container before it is finalised.
type Option func(*Container)

// WithLoggerProvider overrides the provider derived from the logging config.
func WithLoggerProvider(provider interfaces.LoggerProvider) Option {
	return func(c *Container) {
		c.loggerProvider = provider
	}
}

// WithBunDB injects a ready bun handle, bypassing the storage bootstrap.
func WithBunDB(db *bun.DB) Option {
	return func(c *Container) {
		c.bunDB = db
	}
}

// WithSQLDB injects a raw database handle. The container wraps it with the
// bun dialect matching the configured storage driver.
func WithSQLDB(db *sql.DB) Option {
	return func(c *Container) {
		c.sqlDB = db
	}
}

// WithCache overrides the default repository cache service.
func WithCache(service repocache.CacheService, serializer repocache.KeySerializer) Option {
	return func(c *Container) {
		c.cacheService = service
		c.keySerializer = serializer
	}
}

// WithDocumentRepository overrides the document repository binding.
func WithDocumentRepository(repo index.DocumentRepository) Option {
	return func(c *Container) {
		c.documentRepo = repo
	}
}

// WithTopicRepository overrides the topic repository binding.
func WithTopicRepository(repo index.TopicRepository) Option {
	return func(c *Container) {
		c.topicRepo = repo
	}
}

// WithLinkRepository overrides the link repository binding.
func WithLinkRepository(repo index.LinkRepository) Option {
	return func(c *Container) {
		c.linkRepo = repo
	}
}

// WithCorpusService overrides the default corpus service binding.
func WithCorpusService(svc *markdown.Service) Option {
	return func(c *Container) {
		c.corpusSvc = svc
	}
}

// WithLintService overrides the default lint service binding.
func WithLintService(svc interfaces.LintService) Option {
	return func(c *Container) {
		c.lintSvc = svc
	}
}

// WithIndexService overrides the default index service binding.
func WithIndexService(svc interfaces.IndexService) Option {
	return func(c *Container) {
		c.indexSvc = svc
	}
}

// WithSearchService overrides the default search service binding.
func WithSearchService(svc interfaces.SearchService) Option {
	return func(c *Container) {
		c.searchSvc = svc
	}
}

// WithStatsService overrides the default stats service binding.
func WithStatsService(svc interfaces.StatsService) Option {
	return func(c *Container) {
		c.statsSvc = svc
	}
}

// NewContainer creates a container with the provided configuration.
func NewContainer(cfg runtimeconfig.Config, opts ...Option) (*Container, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	cacheTTL := cfg.Cache.DefaultTTL
	if cacheTTL <= 0 {
		cacheTTL = time.Minute
	}

	c := &Container{
		Config:       cfg,
		cacheTTL:     cacheTTL,
		documentRepo: index.NewMemoryDocumentRepository(),
		topicRepo:    index.NewMemoryTopicRepository(),
		linkRepo:     index.NewMemoryLinkRepository(),
	}

	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}

	if err := c.configureLoggerProvider(); err != nil {
		return nil, err
	}
	if err := c.configureStorage(); err != nil {
		return nil, err
	}
	c.configureCacheDefaults()
	c.configureRepositories()

	if cfg.Enabled {
		if err := c.configureServices(); err != nil {
			c.Close()
			return nil, err
		}
	}

	return c, nil
}

func (c *Container) configureLoggerProvider() error {
	if c.loggerProvider != nil {
		return nil
	}

	switch strings.ToLower(strings.TrimSpace(c.Config.Logging.Provider)) {
	case "gologger":
		provider, err := gologger.NewProvider(gologger.Config{
			Level:     c.Config.Logging.Level,
			Format:    c.Config.Logging.Format,
			AddSource: c.Config.Logging.AddSource,
			Focus:     c.Config.Logging.Focus,
		})
		if err != nil {
			return err
		}
		c.loggerProvider = provider
	default:
		minLevel := consoleLevel(c.Config.Logging.Level)
		c.loggerProvider = console.NewProvider(console.Options{
			MinLevel: &minLevel,
		})
	}
	return nil
}

func (c *Container) configureStorage() error {
	if c.bunDB != nil {
		return nil
	}

	driver := strings.ToLower(strings.TrimSpace(c.Config.Storage.Driver))

	if c.sqlDB != nil {
		switch driver {
		case "postgres":
			c.bunDB = bun.NewDB(c.sqlDB, pgdialect.New())
		default:
			c.bunDB = bun.NewDB(c.sqlDB, sqlitedialect.New())
		}
		return nil
	}

	if strings.ToLower(strings.TrimSpace(c.Config.Storage.Provider)) != "bun" {
		return nil
	}

	switch driver {
	case "", "sqlite":
		sqldb, err := sql.Open("sqlite3", c.Config.Storage.DSN)
		if err != nil {
			return fmt.Errorf("di: open sqlite storage: %w", err)
		}
		c.sqlDB = sqldb
		c.bunDB = bun.NewDB(sqldb, sqlitedialect.New())
		c.ownsDB = true
	case "postgres":
		return ErrPostgresHandleRequired
	}
	return nil
}

func (c *Container) configureCacheDefaults() {
	if !c.Config.Cache.Enabled {
		return
	}

	if c.cacheService == nil {
		cfg := repocache.DefaultConfig()
		if c.cacheTTL > 0 {
			cfg.TTL = c.cacheTTL
		}
		service, err := repocache.NewCacheService(cfg)
		if err == nil {
			c.cacheService = service
		}
	}

	if c.cacheService != nil && c.keySerializer == nil {
		c.keySerializer = repocache.NewDefaultKeySerializer()
	}
}

func (c *Container) configureRepositories() {
	if c.bunDB == nil {
		return
	}
	c.documentRepo = index.NewBunDocumentRepositoryWithCache(c.bunDB, c.cacheService, c.keySerializer)
	c.topicRepo = index.NewBunTopicRepositoryWithCache(c.bunDB, c.cacheService, c.keySerializer)
	c.linkRepo = index.NewBunLinkRepository(c.bunDB)
}

func (c *Container) configureServices() error {
	if c.corpusSvc == nil {
		svc, err := markdown.NewService(markdown.Config{
			BasePath:      c.Config.Corpus.BasePath,
			DefaultTopic:  c.Config.Corpus.DefaultTopic,
			TopicDepth:    c.Config.Corpus.TopicDepth,
			TopicPatterns: c.Config.Corpus.TopicPatterns,
			Pattern:       c.Config.Corpus.Pattern,
			Recursive:     c.Config.Corpus.Recursive,
			Parser: interfaces.ParseOptions{
				Extensions: c.Config.Corpus.Parser.Extensions,
				Sanitize:   c.Config.Corpus.Parser.Sanitize,
				HardWraps:  c.Config.Corpus.Parser.HardWraps,
				SafeMode:   c.Config.Corpus.Parser.SafeMode,
			},
		}, nil)
		if err != nil {
			return err
		}
		c.corpusSvc = svc
	}

	if c.lintSvc == nil {
		svc, err := lint.NewService(lint.Config{
			Disabled:          c.Config.Lint.Disabled,
			FrontMatterSchema: c.Config.Lint.FrontMatterSchema,
		}, c.corpusSvc, c.loggerProvider)
		if err != nil {
			return err
		}
		c.lintSvc = svc
	}

	if c.indexSvc == nil {
		svc, err := index.NewService(c.corpusSvc, c.documentRepo, c.topicRepo, c.linkRepo, c.loggerProvider)
		if err != nil {
			return err
		}
		c.indexSvc = svc
	}

	if c.searchSvc == nil {
		svc, err := search.NewService(search.Config{
			DefaultLimit: c.Config.Search.DefaultLimit,
			MaxLimit:     c.Config.Search.MaxLimit,
		}, c.documentRepo, c.bunDB, c.loggerProvider)
		if err != nil {
			return err
		}
		c.searchSvc = svc
	}

	if c.statsSvc == nil {
		svc, err := stats.NewService(c.documentRepo, c.linkRepo, c.loggerProvider)
		if err != nil {
			return err
		}
		c.statsSvc = svc
	}

	return nil
}

// EnsureSchema creates index tables when a SQL backend is configured.
func (c *Container) EnsureSchema(ctx context.Context) error {
	if c.bunDB == nil {
		return nil
	}
	return index.EnsureSchema(ctx, c.bunDB)
}

// Close releases the database handle when the container opened it.
func (c *Container) Close() error {
	if !c.ownsDB || c.bunDB == nil {
		return nil
	}
	err := c.bunDB.Close()
	c.bunDB = nil
	c.sqlDB = nil
	c.ownsDB = false
	return err
}

// LoggerProvider exposes the configured logger provider.
func (c *Container) LoggerProvider() interfaces.LoggerProvider {
	return c.loggerProvider
}

// DB exposes the bun handle, nil when running on memory storage.
func (c *Container) DB() *bun.DB {
	return c.bunDB
}

// DocumentRepository exposes the configured document repository.
func (c *Container) DocumentRepository() index.DocumentRepository {
	return c.documentRepo
}

// TopicRepository exposes the configured topic repository.
func (c *Container) TopicRepository() index.TopicRepository {
	return c.topicRepo
}

// LinkRepository exposes the configured link repository.
func (c *Container) LinkRepository() index.LinkRepository {
	return c.linkRepo
}

// CorpusService returns the configured corpus loader service.
func (c *Container) CorpusService() *markdown.Service {
	return c.corpusSvc
}

// LintService returns the configured lint service.
func (c *Container) LintService() interfaces.LintService {
	return c.lintSvc
}

// IndexService returns the configured index service.
func (c *Container) IndexService() interfaces.IndexService {
	return c.indexSvc
}

// SearchService returns the configured search service.
func (c *Container) SearchService() interfaces.SearchService {
	return c.searchSvc
}

// StatsService returns the configured stats service.
func (c *Container) StatsService() interfaces.StatsService {
	return c.statsSvc
}

// FeatureGates derives runtime feature checks from the configuration so
// command handlers honour flag changes without rewiring.
func (c *Container) FeatureGates() corpuscmd.FeatureGates {
	return corpuscmd.FeatureGates{
		IndexingEnabled: func() bool { return c.Config.Features.Indexing },
		LintingEnabled:  func() bool { return c.Config.Features.Linting },
	}
}

func consoleLevel(level string) console.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace":
		return console.LevelTrace
	case "debug":
		return console.LevelDebug
	case "warn", "warning":
		return console.LevelWarn
	case "error":
		return console.LevelError
	case "fatal":
		return console.LevelFatal
	default:
		return console.LevelInfo
	}
}
