// Package assets resolves logical asset references to web-servable paths.
//
// A reference is either a path relative to the web root ("images/logo.svg")
// or an absolute URL. Local references are checked on disk first, then looked
// up in the build manifest; URLs skip the filesystem and are checked with HEAD.
// SVG content can be embedded inline, wrapped in a span carrying the caller's
// CSS classes.
package assets
