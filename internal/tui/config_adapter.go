package tui

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/hutsix/hutsixassets-go/internal/config"
)

// ConfigValues holds form values that map to the Config struct.
// Numeric and duration fields are stored as strings for form editing.
type ConfigValues struct {
	BasePath string
	WebPath  string
	BaseURL  string

	ManifestPath   string
	ManifestReload bool

	RemoteTimeout      string
	RemoteMaxRetries   string
	InsecureSkipVerify bool
	UserAgent          string
	ProxyURL           string

	CacheEnabled   bool
	CacheTTL       string
	CacheDirectory string
	CacheInMemory  bool

	Missing       string
	RenderTimeout string

	LogLevel  string
	LogFormat string
}

// FromConfig converts a Config to ConfigValues for form editing
func FromConfig(cfg *config.Config) *ConfigValues {
	return &ConfigValues{
		BasePath: cfg.Site.BasePath,
		WebPath:  cfg.Site.WebPath,
		BaseURL:  cfg.Site.BaseURL,

		ManifestPath:   cfg.Manifest.Path,
		ManifestReload: cfg.Manifest.Reload,

		RemoteTimeout:      formatDuration(cfg.Remote.Timeout),
		RemoteMaxRetries:   strconv.Itoa(cfg.Remote.MaxRetries),
		InsecureSkipVerify: cfg.Remote.InsecureSkipVerify,
		UserAgent:          cfg.Remote.UserAgent,
		ProxyURL:           cfg.Remote.ProxyURL,

		CacheEnabled:   cfg.Cache.Enabled,
		CacheTTL:       formatDuration(cfg.Cache.TTL),
		CacheDirectory: cfg.Cache.Directory,
		CacheInMemory:  cfg.Cache.InMemory,

		Missing:       cfg.Render.Missing,
		RenderTimeout: formatDuration(cfg.Render.Timeout),

		LogLevel:  cfg.Logging.Level,
		LogFormat: cfg.Logging.Format,
	}
}

// ToConfig converts ConfigValues back to a validated Config
func (v *ConfigValues) ToConfig() (*config.Config, error) {
	remoteTimeout, err := parseDurationOrDefault(v.RemoteTimeout, config.DefaultRemoteTimeout)
	if err != nil {
		return nil, fmt.Errorf("invalid remote.timeout: %w", err)
	}

	maxRetries, err := parseIntOrDefault(v.RemoteMaxRetries, config.DefaultRemoteMaxRetries)
	if err != nil {
		return nil, fmt.Errorf("invalid remote.max_retries: %w", err)
	}

	cacheTTL, err := parseDurationOrDefault(v.CacheTTL, config.DefaultCacheTTL)
	if err != nil {
		return nil, fmt.Errorf("invalid cache.ttl: %w", err)
	}

	renderTimeout, err := parseDurationOrDefault(v.RenderTimeout, config.DefaultRenderTimeout)
	if err != nil {
		return nil, fmt.Errorf("invalid render.timeout: %w", err)
	}

	cfg := &config.Config{
		Site: config.SiteConfig{
			BasePath: strings.TrimSpace(v.BasePath),
			WebPath:  strings.TrimSpace(v.WebPath),
			BaseURL:  strings.TrimSpace(v.BaseURL),
		},
		Manifest: config.ManifestConfig{
			Path:   strings.TrimSpace(v.ManifestPath),
			Reload: v.ManifestReload,
		},
		Remote: config.RemoteConfig{
			Timeout:            remoteTimeout,
			MaxRetries:         maxRetries,
			InsecureSkipVerify: v.InsecureSkipVerify,
			UserAgent:          v.UserAgent,
			ProxyURL:           strings.TrimSpace(v.ProxyURL),
		},
		Cache: config.CacheConfig{
			Enabled:   v.CacheEnabled,
			TTL:       cacheTTL,
			Directory: v.CacheDirectory,
			InMemory:  v.CacheInMemory,
		},
		Render: config.RenderConfig{
			Missing: v.Missing,
			Timeout: renderTimeout,
		},
		Logging: config.LoggingConfig{
			Level:  v.LogLevel,
			Format: v.LogFormat,
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func formatDuration(d time.Duration) string {
	if d == 0 {
		return ""
	}
	return d.String()
}

func parseDurationOrDefault(s string, defaultVal time.Duration) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return defaultVal, nil
	}
	return time.ParseDuration(s)
}

func parseIntOrDefault(s string, defaultVal int) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return defaultVal, nil
	}
	return strconv.Atoi(s)
}
