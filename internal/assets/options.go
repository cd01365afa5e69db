package assets

import (
	"path/filepath"

	"github.com/hutsix/hutsixassets-go/internal/utils"
)

// Default locations, relative to the base path and the web root respectively
const (
	DefaultWebPath      = "web"
	DefaultManifestPath = "assets/manifest.json"
)

// Options configures a Resolver
type Options struct {
	// BasePath is the application root on disk
	BasePath string
	// WebPath is the web root below BasePath
	WebPath string
	// BaseURL is the site URL prefixed to absolute asset paths
	BaseURL string
	// ManifestPath is relative to the web root unless absolute
	ManifestPath string
	// ManifestReload re-parses the manifest when its modification time changes
	ManifestReload bool
	Logger         *utils.Logger
}

func (o Options) withDefaults() Options {
	if o.BasePath == "" {
		o.BasePath = "."
	}
	if o.ManifestPath == "" {
		o.ManifestPath = DefaultManifestPath
	}
	if o.Logger == nil {
		o.Logger = utils.NewNopLogger()
	}
	return o
}

func (o Options) webRoot() (string, error) {
	base, err := filepath.Abs(utils.ExpandPath(o.BasePath))
	if err != nil {
		return "", err
	}
	return filepath.Clean(filepath.Join(base, o.WebPath)), nil
}
