package tui

type Category struct {
	ID          string
	Name        string
	Description string
}

var Categories = []Category{
	{ID: "site", Name: "Site", Description: "Base path, web root and public base URL"},
	{ID: "manifest", Name: "Manifest", Description: "Build manifest location and reload behavior"},
	{ID: "remote", Name: "Remote Assets", Description: "Timeout, retries, TLS and proxy for remote requests"},
	{ID: "cache", Name: "Cache", Description: "Caching of downloaded remote assets"},
	{ID: "render", Name: "Templates", Description: "Missing asset policy and call timeout"},
	{ID: "logging", Name: "Logging", Description: "Log level and format"},
}
