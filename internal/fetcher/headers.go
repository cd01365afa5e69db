package fetcher

import (
	"github.com/hutsix/hutsixassets-go/pkg/version"
)

// RequestHeaders returns the headers sent with every remote asset request
func RequestHeaders(userAgent string) map[string]string {
	if userAgent == "" {
		userAgent = version.UserAgent()
	}

	return map[string]string{
		"User-Agent":      userAgent,
		"Accept":          "image/svg+xml,image/*;q=0.9,*/*;q=0.8",
		"Accept-Encoding": "gzip, deflate, br",
		"Cache-Control":   "no-cache",
	}
}
