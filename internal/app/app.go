package app

import (
	"errors"
	"fmt"
	"io"

	"github.com/hutsix/hutsixassets-go/internal/assets"
	"github.com/hutsix/hutsixassets-go/internal/cache"
	"github.com/hutsix/hutsixassets-go/internal/config"
	"github.com/hutsix/hutsixassets-go/internal/domain"
	"github.com/hutsix/hutsixassets-go/internal/fetcher"
	"github.com/hutsix/hutsixassets-go/internal/templatefuncs"
	"github.com/hutsix/hutsixassets-go/internal/utils"
)

// App wires the resolver and its collaborators from configuration
type App struct {
	config   *config.Config
	logger   *utils.Logger
	cache    domain.Cache
	fetcher  domain.Fetcher
	resolver *assets.Resolver
	funcs    *templatefuncs.Funcs
}

// Options contains options for creating an App
type Options struct {
	Config  *config.Config
	Verbose bool
	// LogOutput defaults to stderr
	LogOutput io.Writer
	// Fetcher replaces the HTTP client, mainly for tests
	Fetcher domain.Fetcher
}

// New creates an App with the given configuration
func New(opts Options) (*App, error) {
	cfg := opts.Config
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}

	logLevel := "info"
	logFormat := utils.FormatPretty
	if cfg.Logging.Level != "" {
		logLevel = cfg.Logging.Level
	}
	if cfg.Logging.Format != "" {
		logFormat = cfg.Logging.Format
	}

	logger := utils.NewLogger(utils.LoggerOptions{
		Level:   logLevel,
		Format:  logFormat,
		Output:  opts.LogOutput,
		Verbose: opts.Verbose,
	})

	a := &App{
		config: cfg,
		logger: logger,
	}

	a.fetcher = opts.Fetcher
	if a.fetcher == nil {
		if cfg.Cache.Enabled {
			a.cache = openCache(cfg.Cache, logger)
		}

		client, err := fetcher.NewClient(clientOptions(cfg, a.cache, logger))
		if err != nil {
			a.closeCache()
			return nil, fmt.Errorf("failed to create fetcher: %w", err)
		}
		a.fetcher = client
	}

	resolver, err := assets.NewResolver(assets.Options{
		BasePath:       cfg.Site.BasePath,
		WebPath:        cfg.Site.WebPath,
		BaseURL:        cfg.Site.BaseURL,
		ManifestPath:   cfg.Manifest.Path,
		ManifestReload: cfg.Manifest.Reload,
		Logger:         logger,
	}, a.fetcher)
	if err != nil {
		a.closeCache()
		return nil, err
	}
	a.resolver = resolver

	a.funcs = templatefuncs.New(resolver, templatefuncs.Options{
		Missing: cfg.Render.Missing,
		Timeout: cfg.Render.Timeout,
	}, logger)

	logger.Debug().
		Str("web_root", resolver.WebRoot()).
		Str("manifest", resolver.Manifest().Path()).
		Bool("cache", a.cache != nil).
		Msg("Asset resolver ready")

	return a, nil
}

// clientOptions overlays the remote and cache settings on the fetcher defaults
func clientOptions(cfg *config.Config, c domain.Cache, logger *utils.Logger) fetcher.ClientOptions {
	opts := fetcher.DefaultClientOptions()
	if cfg.Remote.Timeout > 0 {
		opts.Timeout = cfg.Remote.Timeout
	}
	if cfg.Cache.TTL > 0 {
		opts.CacheTTL = cfg.Cache.TTL
	}
	opts.MaxRetries = cfg.Remote.MaxRetries
	opts.InsecureSkipVerify = cfg.Remote.InsecureSkipVerify
	opts.EnableCache = c != nil
	opts.Cache = c
	opts.UserAgent = cfg.Remote.UserAgent
	opts.ProxyURL = cfg.Remote.ProxyURL
	opts.Logger = logger
	return opts
}

// openCache opens the body cache. Failure is not fatal: remote assets are
// then fetched every time.
func openCache(cfg config.CacheConfig, logger *utils.Logger) domain.Cache {
	c, err := cache.NewBadgerCache(cache.Options{
		Directory: utils.ExpandPath(cfg.Directory),
		InMemory:  cfg.InMemory,
	})
	if err != nil {
		logger.Warn().Err(err).Msg("Cache unavailable, continuing without it")
		return nil
	}
	return c
}

func (a *App) closeCache() error {
	if a.cache == nil {
		return nil
	}
	return a.cache.Close()
}

// Config returns the configuration the App was built from
func (a *App) Config() *config.Config {
	return a.config
}

// Logger returns the application logger
func (a *App) Logger() *utils.Logger {
	return a.logger
}

// Resolver returns the asset resolver
func (a *App) Resolver() *assets.Resolver {
	return a.resolver
}

// Funcs returns the template functions
func (a *App) Funcs() *templatefuncs.Funcs {
	return a.funcs
}

// Close releases the fetcher and the cache
func (a *App) Close() error {
	var errs []error
	if a.fetcher != nil {
		errs = append(errs, a.fetcher.Close())
	}
	errs = append(errs, a.closeCache())
	return errors.Join(errs...)
}
