// Package manifest reads the asset manifest a front-end build tool writes
// next to its output, typically web/assets/manifest.json:
//
//	{
//	  "main.js": "main.a1b2c3.js",
//	  "images/logo.svg": "images/logo.5f4e3d.svg"
//	}
//
// Keys are logical asset names and values are the paths of the emitted
// (usually content-hashed) files, both relative to the web root. A leading
// slash on a lookup key is ignored.
//
// The package never writes manifests. A Store parses the file lazily on first
// use and keeps the result for its own lifetime; with reload enabled it
// re-parses when the file's modification time changes.
//
// # Error Handling
//
// The package defines sentinel errors for common failure cases:
//   - ErrFileNotFound: manifest file does not exist
//   - ErrInvalidFormat: file is not a flat JSON (or YAML) object of strings
//   - ErrUnsupportedExt: unsupported file extension
package manifest
