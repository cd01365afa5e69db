package config

import (
	"os"
	"path/filepath"
	"time"
)

// Default values
const (
	// Site defaults
	DefaultBasePath = "."
	DefaultWebPath  = "web"

	// Manifest defaults
	DefaultManifestPath = "assets/manifest.json"

	// Remote defaults
	DefaultRemoteTimeout    = 10 * time.Second
	DefaultRemoteMaxRetries = 2

	// Cache defaults
	DefaultCacheEnabled = true
	DefaultCacheTTL     = 24 * time.Hour

	// Render defaults
	DefaultMissingPolicy = MissingError
	DefaultRenderTimeout = 15 * time.Second

	// Logging defaults
	DefaultLogLevel  = "info"
	DefaultLogFormat = "pretty"

	// EnvPrefix prefixes every environment override, e.g. HUTSIXASSETS_SITE_BASE_URL
	EnvPrefix = "HUTSIXASSETS"
)

// ConfigDir returns the config directory path
func ConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".hutsixassets"
	}
	return filepath.Join(home, ".hutsixassets")
}

// CacheDir returns the cache directory path
func CacheDir() string {
	return filepath.Join(ConfigDir(), "cache")
}

// ConfigFilePath returns the config file path
func ConfigFilePath() string {
	return filepath.Join(ConfigDir(), "hutsixassets.yaml")
}

// Default returns the default configuration
func Default() *Config {
	return &Config{
		Site: SiteConfig{
			BasePath: DefaultBasePath,
			WebPath:  DefaultWebPath,
		},
		Manifest: ManifestConfig{
			Path: DefaultManifestPath,
		},
		Remote: RemoteConfig{
			Timeout:    DefaultRemoteTimeout,
			MaxRetries: DefaultRemoteMaxRetries,
		},
		Cache: CacheConfig{
			Enabled:   DefaultCacheEnabled,
			TTL:       DefaultCacheTTL,
			Directory: CacheDir(),
		},
		Render: RenderConfig{
			Missing: DefaultMissingPolicy,
			Timeout: DefaultRenderTimeout,
		},
		Logging: LoggingConfig{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
	}
}
