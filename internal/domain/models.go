package domain

import "net/http"

// Kind tells whether a resolved asset lives on disk or on a remote host
type Kind string

const (
	KindLocal  Kind = "local"
	KindRemote Kind = "remote"
)

// Status is the outcome of resolving an asset reference
type Status string

const (
	StatusFound    Status = "found"
	StatusNotFound Status = "not_found"
	// StatusRemoteUnknown means the remote check failed or was not made, so existence
	// could not be decided
	StatusRemoteUnknown Status = "remote_unknown"
)

// Resolution is the result of resolving one asset reference
type Resolution struct {
	// File is the reference as the caller gave it
	File string `json:"file"`
	// Path is the absolute filesystem path or the absolute URL
	Path         string `json:"path"`
	Kind         Kind   `json:"kind"`
	Status       Status `json:"status"`
	FromManifest bool   `json:"from_manifest"`
}

// Found reports whether the resolution produced a usable path
func (r Resolution) Found() bool {
	return r.Status == StatusFound
}

// IsRemote reports whether the resolved candidate is a URL
func (r Resolution) IsRemote() bool {
	return r.Kind == KindRemote
}

// Response represents an HTTP response
type Response struct {
	StatusCode  int
	Body        []byte
	Headers     http.Header
	ContentType string
	URL         string
	FromCache   bool
}

// NotFound reports whether the response status is 404
func (r *Response) NotFound() bool {
	return r != nil && r.StatusCode == http.StatusNotFound
}
