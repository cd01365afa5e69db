package config

import (
	"fmt"
	"strings"
	"time"
)

// Missing-asset policies for template functions
const (
	MissingError = "error"
	MissingSkip  = "skip"
)

// Config represents the application configuration
type Config struct {
	Site     SiteConfig     `mapstructure:"site" yaml:"site"`
	Manifest ManifestConfig `mapstructure:"manifest" yaml:"manifest"`
	Remote   RemoteConfig   `mapstructure:"remote" yaml:"remote"`
	Cache    CacheConfig    `mapstructure:"cache" yaml:"cache"`
	Render   RenderConfig   `mapstructure:"render" yaml:"render"`
	Logging  LoggingConfig  `mapstructure:"logging" yaml:"logging"`
}

// SiteConfig replaces the host framework's globals: where the application
// lives on disk, which sub-directory is served, and the public base URL.
type SiteConfig struct {
	BasePath string `mapstructure:"base_path" yaml:"base_path"`
	WebPath  string `mapstructure:"web_path" yaml:"web_path"`
	BaseURL  string `mapstructure:"base_url" yaml:"base_url"`
}

// ManifestConfig contains asset manifest settings
type ManifestConfig struct {
	// Path is relative to the web root
	Path string `mapstructure:"path" yaml:"path"`
	// Reload re-reads the manifest when its modification time changes
	Reload bool `mapstructure:"reload" yaml:"reload"`
}

// RemoteConfig contains settings for remote asset checks and fetches
type RemoteConfig struct {
	Timeout            time.Duration `mapstructure:"timeout" yaml:"timeout"`
	MaxRetries         int           `mapstructure:"max_retries" yaml:"max_retries"`
	InsecureSkipVerify bool          `mapstructure:"insecure_skip_verify" yaml:"insecure_skip_verify"`
	UserAgent          string        `mapstructure:"user_agent" yaml:"user_agent"`
	ProxyURL           string        `mapstructure:"proxy_url" yaml:"proxy_url"`
}

// CacheConfig contains settings for the remote content cache
type CacheConfig struct {
	Enabled   bool          `mapstructure:"enabled" yaml:"enabled"`
	TTL       time.Duration `mapstructure:"ttl" yaml:"ttl"`
	Directory string        `mapstructure:"directory" yaml:"directory"`
	InMemory  bool          `mapstructure:"in_memory" yaml:"in_memory"`
}

// RenderConfig contains template function settings
type RenderConfig struct {
	// Missing is either "error" or "skip"
	Missing string `mapstructure:"missing" yaml:"missing"`
	// Timeout bounds each template function call
	Timeout time.Duration `mapstructure:"timeout" yaml:"timeout"`
}

// LoggingConfig contains logging settings
type LoggingConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

// WebRoot returns the directory assets are served from
func (s SiteConfig) WebRoot() string {
	if s.WebPath == "" {
		return strings.TrimRight(s.BasePath, "/")
	}
	return strings.TrimRight(s.BasePath, "/") + "/" + strings.Trim(s.WebPath, "/")
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Site.BasePath == "" {
		c.Site.BasePath = DefaultBasePath
	}
	if c.Manifest.Path == "" {
		c.Manifest.Path = DefaultManifestPath
	}
	if c.Remote.Timeout < time.Second {
		c.Remote.Timeout = DefaultRemoteTimeout
	}
	if c.Remote.MaxRetries < 0 {
		c.Remote.MaxRetries = 0
	}
	if c.Cache.TTL < time.Minute {
		c.Cache.TTL = DefaultCacheTTL
	}
	if c.Render.Timeout < time.Second {
		c.Render.Timeout = DefaultRenderTimeout
	}

	switch c.Render.Missing {
	case "":
		c.Render.Missing = DefaultMissingPolicy
	case MissingError, MissingSkip:
	default:
		return fmt.Errorf("invalid render.missing %q (use %q or %q)", c.Render.Missing, MissingError, MissingSkip)
	}

	if c.Site.BaseURL != "" && !strings.Contains(c.Site.BaseURL, "://") {
		return fmt.Errorf("invalid site.base_url %q: must be an absolute URL", c.Site.BaseURL)
	}

	return nil
}
