package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestConfig_Validate tests configuration validation
func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		check   func(*testing.T, *Config)
		wantErr bool
	}{
		{
			name: "valid config",
			modify: func(c *Config) {
				c.Site.BasePath = "/site"
				c.Site.BaseURL = "https://example.com"
				c.Remote.Timeout = 5 * time.Second
				c.Cache.TTL = time.Hour
				c.Render.Missing = MissingSkip
				c.Render.Timeout = 2 * time.Second
			},
			check: func(t *testing.T, c *Config) {
				assert.Equal(t, MissingSkip, c.Render.Missing)
				assert.Equal(t, 5*time.Second, c.Remote.Timeout)
			},
		},
		{
			name:   "empty base path defaults to cwd",
			modify: func(c *Config) {},
			check: func(t *testing.T, c *Config) {
				assert.Equal(t, DefaultBasePath, c.Site.BasePath)
				assert.Equal(t, DefaultManifestPath, c.Manifest.Path)
			},
		},
		{
			name: "remote timeout below minimum defaults",
			modify: func(c *Config) {
				c.Remote.Timeout = 10 * time.Millisecond
			},
			check: func(t *testing.T, c *Config) {
				assert.Equal(t, DefaultRemoteTimeout, c.Remote.Timeout)
			},
		},
		{
			name: "negative retries clamp to zero",
			modify: func(c *Config) {
				c.Remote.MaxRetries = -3
			},
			check: func(t *testing.T, c *Config) {
				assert.Equal(t, 0, c.Remote.MaxRetries)
			},
		},
		{
			name: "cache TTL below minimum defaults",
			modify: func(c *Config) {
				c.Cache.TTL = 30 * time.Second
			},
			check: func(t *testing.T, c *Config) {
				assert.Equal(t, DefaultCacheTTL, c.Cache.TTL)
			},
		},
		{
			name:   "empty missing policy defaults to error",
			modify: func(c *Config) {},
			check: func(t *testing.T, c *Config) {
				assert.Equal(t, MissingError, c.Render.Missing)
				assert.Equal(t, DefaultRenderTimeout, c.Render.Timeout)
			},
		},
		{
			name: "unknown missing policy rejected",
			modify: func(c *Config) {
				c.Render.Missing = "ignore"
			},
			wantErr: true,
		},
		{
			name: "relative base URL rejected",
			modify: func(c *Config) {
				c.Site.BaseURL = "example.com"
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{}
			tt.modify(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			if tt.check != nil {
				tt.check(t, cfg)
			}
		})
	}
}

func TestSiteConfig_WebRoot(t *testing.T) {
	tests := []struct {
		name     string
		site     SiteConfig
		expected string
	}{
		{"default web path", SiteConfig{BasePath: "/site", WebPath: "web"}, "/site/web"},
		{"trailing slashes", SiteConfig{BasePath: "/site/", WebPath: "/web/"}, "/site/web"},
		{"no web path", SiteConfig{BasePath: "/site/public"}, "/site/public"},
		{"nested web path", SiteConfig{BasePath: "/srv/app", WebPath: "public/static"}, "/srv/app/public/static"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.site.WebRoot())
		})
	}
}

// TestDefault tests default configuration
func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, DefaultBasePath, cfg.Site.BasePath)
	assert.Equal(t, "web", cfg.Site.WebPath)
	assert.Empty(t, cfg.Site.BaseURL)

	assert.Equal(t, "assets/manifest.json", cfg.Manifest.Path)
	assert.False(t, cfg.Manifest.Reload)

	assert.Equal(t, DefaultRemoteTimeout, cfg.Remote.Timeout)
	assert.Equal(t, DefaultRemoteMaxRetries, cfg.Remote.MaxRetries)
	assert.False(t, cfg.Remote.InsecureSkipVerify, "TLS verification must be on by default")

	assert.True(t, cfg.Cache.Enabled)
	assert.Equal(t, DefaultCacheTTL, cfg.Cache.TTL)
	assert.Contains(t, cfg.Cache.Directory, "cache")

	assert.Equal(t, MissingError, cfg.Render.Missing)
	assert.Equal(t, DefaultLogLevel, cfg.Logging.Level)
	assert.Equal(t, DefaultLogFormat, cfg.Logging.Format)

	assert.NoError(t, cfg.Validate())
}

func TestConfigPaths(t *testing.T) {
	assert.Contains(t, ConfigDir(), ".hutsixassets")
	assert.True(t, strings.HasSuffix(CacheDir(), "cache"))
	assert.Contains(t, ConfigFilePath(), "hutsixassets.yaml")
}

func TestLoadFrom_MissingConfig(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Chdir(t.TempDir())

	v := viper.New()
	cfg, err := LoadFrom(v)
	require.NoError(t, err)
	assert.Empty(t, v.ConfigFileUsed())
	assert.Equal(t, DefaultWebPath, cfg.Site.WebPath)
	assert.Equal(t, DefaultManifestPath, cfg.Manifest.Path)
}

func TestLoadFrom_InvalidConfigFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "hutsixassets.yaml"), []byte("site: [unclosed"), 0644))
	t.Chdir(dir)

	cfg, err := LoadFrom(viper.New())
	assert.Error(t, err)
	assert.Nil(t, cfg)
}

func TestLoadFrom_ValidConfigFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	dir := t.TempDir()
	content := `
site:
  base_path: /srv/site
  web_path: public
  base_url: https://example.com/
manifest:
  reload: true
remote:
  insecure_skip_verify: true
render:
  missing: skip
logging:
  level: debug
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "hutsixassets.yaml"), []byte(content), 0644))
	t.Chdir(dir)

	cfg, err := LoadFrom(viper.New())
	require.NoError(t, err)

	assert.Equal(t, "/srv/site", cfg.Site.BasePath)
	assert.Equal(t, "public", cfg.Site.WebPath)
	assert.Equal(t, "https://example.com/", cfg.Site.BaseURL)
	assert.True(t, cfg.Manifest.Reload)
	assert.True(t, cfg.Remote.InsecureSkipVerify)
	assert.Equal(t, MissingSkip, cfg.Render.Missing)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoadFrom_Environment(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Chdir(t.TempDir())
	t.Setenv("HUTSIXASSETS_SITE_BASE_URL", "https://env.example.com")
	t.Setenv("HUTSIXASSETS_SITE_WEB_PATH", "htdocs")

	cfg, err := LoadFrom(viper.New())
	require.NoError(t, err)

	assert.Equal(t, "https://env.example.com", cfg.Site.BaseURL)
	assert.Equal(t, "htdocs", cfg.Site.WebPath)
}

func TestLoadFrom_ExplicitFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Chdir(t.TempDir())

	path := filepath.Join(t.TempDir(), "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte("site:\n  web_path: public\n"), 0644))

	v := viper.New()
	v.SetConfigFile(path)

	cfg, err := LoadFrom(v)
	require.NoError(t, err)
	assert.Equal(t, "public", cfg.Site.WebPath)
	assert.Equal(t, path, v.ConfigFileUsed())
}
