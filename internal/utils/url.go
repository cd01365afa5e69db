package utils

import (
	"net/url"
	"strings"
)

// IsURL reports whether ref is an absolute URL with both a scheme and a host.
// Site-relative paths, protocol-relative references and bare hostnames are not URLs.
func IsURL(ref string) bool {
	if ref == "" || strings.ContainsAny(ref, " \t\r\n") {
		return false
	}

	u, err := url.Parse(ref)
	if err != nil {
		return false
	}
	return u.Scheme != "" && u.Host != ""
}

// IsHTTPURL checks if a URL uses HTTP or HTTPS scheme
func IsHTTPURL(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// JoinBaseURL appends a site-relative path to a base URL without doubling the separator
func JoinBaseURL(baseURL, relPath string) string {
	if baseURL == "" {
		return relPath
	}
	return strings.TrimRight(baseURL, "/") + "/" + strings.TrimLeft(relPath, "/")
}
