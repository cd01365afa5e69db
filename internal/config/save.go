package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Marshal renders cfg as YAML in the layout the loader reads back.
// Durations are written as strings like "10s".
func Marshal(cfg *Config) ([]byte, error) {
	doc := map[string]any{
		"site": map[string]any{
			"base_path": cfg.Site.BasePath,
			"web_path":  cfg.Site.WebPath,
			"base_url":  cfg.Site.BaseURL,
		},
		"manifest": map[string]any{
			"path":   cfg.Manifest.Path,
			"reload": cfg.Manifest.Reload,
		},
		"remote": map[string]any{
			"timeout":              cfg.Remote.Timeout.String(),
			"max_retries":          cfg.Remote.MaxRetries,
			"insecure_skip_verify": cfg.Remote.InsecureSkipVerify,
			"user_agent":           cfg.Remote.UserAgent,
			"proxy_url":            cfg.Remote.ProxyURL,
		},
		"cache": map[string]any{
			"enabled":   cfg.Cache.Enabled,
			"ttl":       cfg.Cache.TTL.String(),
			"directory": cfg.Cache.Directory,
			"in_memory": cfg.Cache.InMemory,
		},
		"render": map[string]any{
			"missing": cfg.Render.Missing,
			"timeout": cfg.Render.Timeout.String(),
		},
		"logging": map[string]any{
			"level":  cfg.Logging.Level,
			"format": cfg.Logging.Format,
		},
	}
	return yaml.Marshal(doc)
}

// Save writes cfg to path, creating parent directories as needed
func Save(cfg *Config, path string) error {
	data, err := Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}
