package config

import (
	"errors"
	"strings"

	"github.com/spf13/viper"
)

// LoadFrom loads configuration through v from file, environment and
// defaults, honouring any flags bound to it
func LoadFrom(v *viper.Viper) (*Config, error) {
	setDefaults(v)

	// An explicit SetConfigFile (from --config) wins over the search path
	if v.ConfigFileUsed() == "" {
		v.SetConfigName("hutsixassets")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath(ConfigDir())
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	// Environment variables (HUTSIXASSETS_*)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("site.base_path", DefaultBasePath)
	v.SetDefault("site.web_path", DefaultWebPath)
	v.SetDefault("site.base_url", "")

	v.SetDefault("manifest.path", DefaultManifestPath)
	v.SetDefault("manifest.reload", false)

	v.SetDefault("remote.timeout", DefaultRemoteTimeout)
	v.SetDefault("remote.max_retries", DefaultRemoteMaxRetries)
	v.SetDefault("remote.insecure_skip_verify", false)
	v.SetDefault("remote.user_agent", "")
	v.SetDefault("remote.proxy_url", "")

	v.SetDefault("cache.enabled", DefaultCacheEnabled)
	v.SetDefault("cache.ttl", DefaultCacheTTL)
	v.SetDefault("cache.directory", CacheDir())
	v.SetDefault("cache.in_memory", false)

	v.SetDefault("render.missing", DefaultMissingPolicy)
	v.SetDefault("render.timeout", DefaultRenderTimeout)

	v.SetDefault("logging.level", DefaultLogLevel)
	v.SetDefault("logging.format", DefaultLogFormat)
}
