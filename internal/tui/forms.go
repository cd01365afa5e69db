package tui

import (
	"github.com/charmbracelet/huh"

	"github.com/hutsix/hutsixassets-go/internal/config"
)

func CreateSiteForm(values *ConfigValues) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("base_path").
				Title("Base Path").
				Description("Application directory on disk").
				Value(&values.BasePath).
				Placeholder(config.DefaultBasePath).
				Validate(ValidateRequired),

			huh.NewInput().
				Key("web_path").
				Title("Web Path").
				Description("Directory below the base path that is served to browsers").
				Value(&values.WebPath).
				Placeholder(config.DefaultWebPath),

			huh.NewInput().
				Key("base_url").
				Title("Base URL").
				Description("Public site URL used for absolute asset paths (optional)").
				Value(&values.BaseURL).
				Placeholder("https://example.com").
				Validate(ValidateAbsoluteURL),
		),
	).WithTheme(GetTheme())
}

func CreateManifestForm(values *ConfigValues) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("path").
				Title("Manifest Path").
				Description("JSON manifest location relative to the web root").
				Value(&values.ManifestPath).
				Placeholder(config.DefaultManifestPath),

			huh.NewConfirm().
				Key("reload").
				Title("Reload On Change").
				Description("Re-read the manifest when its modification time changes").
				Value(&values.ManifestReload),
		),
	).WithTheme(GetTheme())
}

func CreateRemoteForm(values *ConfigValues) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("timeout").
				Title("Request Timeout").
				Description("Timeout for remote HEAD checks and downloads (e.g., 10s)").
				Value(&values.RemoteTimeout).
				Placeholder("10s").
				Validate(ValidateDuration),

			huh.NewInput().
				Key("max_retries").
				Title("Max Retries").
				Description("Retries for transient remote failures (0-10)").
				Value(&values.RemoteMaxRetries).
				Placeholder("2").
				Validate(ValidateIntRange(0, 10)),

			huh.NewConfirm().
				Key("insecure_skip_verify").
				Title("Skip TLS Verification").
				Description("Accept invalid certificates on remote asset hosts").
				Value(&values.InsecureSkipVerify),
		),
		huh.NewGroup(
			huh.NewInput().
				Key("user_agent").
				Title("User-Agent").
				Description("Custom User-Agent (leave empty for default)").
				Value(&values.UserAgent),

			huh.NewInput().
				Key("proxy_url").
				Title("Proxy URL").
				Description("HTTP proxy for remote requests (optional)").
				Value(&values.ProxyURL).
				Placeholder("http://127.0.0.1:8080").
				Validate(ValidateAbsoluteURL),
		),
	).WithTheme(GetTheme())
}

func CreateCacheForm(values *ConfigValues) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Key("enabled").
				Title("Enable Cache").
				Description("Cache downloaded remote assets between runs").
				Value(&values.CacheEnabled),

			huh.NewInput().
				Key("ttl").
				Title("Cache TTL").
				Description("How long to keep cached assets (e.g., 24h)").
				Value(&values.CacheTTL).
				Placeholder("24h").
				Validate(ValidateDuration),

			huh.NewInput().
				Key("directory").
				Title("Cache Directory").
				Description("Where the cache database lives").
				Value(&values.CacheDirectory).
				Placeholder("~/.hutsixassets/cache"),

			huh.NewConfirm().
				Key("in_memory").
				Title("In-Memory Only").
				Description("Keep the cache in memory and never write it to disk").
				Value(&values.CacheInMemory),
		),
	).WithTheme(GetTheme())
}

func CreateRenderForm(values *ConfigValues) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Key("missing").
				Title("Missing Assets").
				Description("What template functions do when an asset cannot be found").
				Options(
					huh.NewOption("Fail the render", config.MissingError),
					huh.NewOption("Skip and log a warning", config.MissingSkip),
				).
				Value(&values.Missing).
				Validate(ValidateMissingPolicy),

			huh.NewInput().
				Key("timeout").
				Title("Call Timeout").
				Description("Upper bound for a single template function call").
				Value(&values.RenderTimeout).
				Placeholder("15s").
				Validate(ValidateDuration),
		),
	).WithTheme(GetTheme())
}

func CreateLoggingForm(values *ConfigValues) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Key("level").
				Title("Log Level").
				Description("Minimum log level to display").
				Options(
					huh.NewOption("Debug", "debug"),
					huh.NewOption("Info", "info"),
					huh.NewOption("Warn", "warn"),
					huh.NewOption("Error", "error"),
				).
				Value(&values.LogLevel).
				Validate(ValidateLogLevel),

			huh.NewSelect[string]().
				Key("format").
				Title("Log Format").
				Description("Output format for logs").
				Options(
					huh.NewOption("Pretty (human-readable)", "pretty"),
					huh.NewOption("JSON (structured)", "json"),
				).
				Value(&values.LogFormat).
				Validate(ValidateLogFormat),
		),
	).WithTheme(GetTheme())
}

func GetFormForCategory(category string, values *ConfigValues) *huh.Form {
	switch category {
	case "site":
		return CreateSiteForm(values)
	case "manifest":
		return CreateManifestForm(values)
	case "remote":
		return CreateRemoteForm(values)
	case "cache":
		return CreateCacheForm(values)
	case "render":
		return CreateRenderForm(values)
	case "logging":
		return CreateLoggingForm(values)
	default:
		return nil
	}
}
