package assets

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/hutsix/hutsixassets-go/internal/domain"
	"github.com/hutsix/hutsixassets-go/internal/manifest"
	"github.com/hutsix/hutsixassets-go/internal/utils"
)

// Resolver maps asset references to files under a web root, a build
// manifest, or remote URLs. It is safe for concurrent use.
type Resolver struct {
	webRoot  string
	baseURL  string
	manifest *manifest.Store
	fetcher  domain.Fetcher
	logger   *utils.Logger
}

// NewResolver creates a Resolver. fetcher may be nil, in which case remote
// references are never checked and resolve as remote_unknown.
func NewResolver(opts Options, fetcher domain.Fetcher) (*Resolver, error) {
	opts = opts.withDefaults()

	webRoot, err := opts.webRoot()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve web root: %w", err)
	}

	manifestPath := opts.ManifestPath
	if !filepath.IsAbs(manifestPath) {
		manifestPath = filepath.Join(webRoot, manifestPath)
	}

	return &Resolver{
		webRoot: webRoot,
		baseURL: opts.BaseURL,
		manifest: manifest.NewStore(manifest.StoreOptions{
			Path:   manifestPath,
			Reload: opts.ManifestReload,
			Logger: opts.Logger,
		}),
		fetcher: fetcher,
		logger:  opts.Logger.WithComponent("assets"),
	}, nil
}

// WebRoot returns the absolute web root directory
func (r *Resolver) WebRoot() string {
	return r.webRoot
}

// BaseURL returns the configured site base URL
func (r *Resolver) BaseURL() string {
	return r.baseURL
}

// Manifest returns the manifest store backing this resolver
func (r *Resolver) Manifest() *manifest.Store {
	return r.manifest
}

// HasManifest reports whether the manifest file is present
func (r *Resolver) HasManifest() bool {
	return r.manifest.Exists()
}

// Resolve finds the candidate for file. Local references are checked on
// disk, then in the manifest; URLs are checked with a HEAD request.
//
// A reference found nowhere returns a NotFound resolution together with an
// error wrapping domain.ErrNotFound. A remote check that fails at the
// transport level is not an error: the resolution carries StatusRemoteUnknown.
// Manifest values that are URLs are returned unchecked.
func (r *Resolver) Resolve(ctx context.Context, file string) (domain.Resolution, error) {
	if utils.IsURL(file) {
		return r.remote(ctx, file, file)
	}

	path, err := r.localPath(file)
	if err != nil {
		return notFound(file, "", domain.KindLocal), domain.NewResolveError("resolve", file, err)
	}

	log := r.logger.WithFile(file)

	if utils.IsRegularFile(path) {
		log.Debug().Str("path", path).Msg("Resolved from disk")
		return domain.Resolution{File: file, Path: path, Kind: domain.KindLocal, Status: domain.StatusFound}, nil
	}

	if r.manifest.Exists() {
		mapped, ok, err := r.manifest.Lookup(file)
		if err != nil {
			return notFound(file, path, domain.KindLocal),
				domain.NewResolveError("resolve", file, fmt.Errorf("%w: %v", domain.ErrInvalidManifest, err))
		}
		if ok {
			return r.resolveMapped(log, file, mapped)
		}
	}

	return notFound(file, path, domain.KindLocal), domain.NewResolveError("resolve", file, domain.ErrNotFound)
}

// resolveMapped turns a manifest value into a candidate without checking it
func (r *Resolver) resolveMapped(log *utils.Logger, file, mapped string) (domain.Resolution, error) {
	if utils.IsURL(mapped) {
		log.Debug().Str("url", mapped).Msg("Resolved from manifest to URL")
		return domain.Resolution{
			File:         file,
			Path:         mapped,
			Kind:         domain.KindRemote,
			Status:       domain.StatusRemoteUnknown,
			FromManifest: true,
		}, nil
	}

	path, err := r.localPath(mapped)
	if err != nil {
		return notFound(file, "", domain.KindLocal), domain.NewResolveError("resolve", file, err)
	}

	log.Debug().Str("path", path).Msg("Resolved from manifest")

	return domain.Resolution{
		File:         file,
		Path:         path,
		Kind:         domain.KindLocal,
		Status:       domain.StatusFound,
		FromManifest: true,
	}, nil
}

// remote decides existence by status code: only 404 means absent.
// Schemes other than http and https are never fetched.
func (r *Resolver) remote(ctx context.Context, file, rawURL string) (domain.Resolution, error) {
	res := domain.Resolution{
		File:   file,
		Path:   rawURL,
		Kind:   domain.KindRemote,
		Status: domain.StatusRemoteUnknown,
	}

	if r.fetcher == nil || !utils.IsHTTPURL(rawURL) {
		return res, nil
	}

	log := r.logger.WithURL(rawURL)

	resp, err := r.fetcher.Head(ctx, rawURL)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return res, domain.NewResolveError("resolve", file, ctxErr)
		}
		log.Warn().Err(err).Msg("Remote check failed")
		return res, nil
	}

	if resp.NotFound() {
		log.Debug().Int("status", resp.StatusCode).Msg("Remote asset missing")
		res.Status = domain.StatusNotFound
		return res, domain.NewResolveError("resolve", file, domain.ErrNotFound)
	}

	res.Status = domain.StatusFound
	return res, nil
}

// localPath joins file onto the web root and rejects results outside it
func (r *Resolver) localPath(file string) (string, error) {
	joined := utils.CollapseSlashes(r.webRoot + "/" + filepath.ToSlash(file))
	path := filepath.Clean(filepath.FromSlash(joined))
	if !utils.IsWithin(r.webRoot, path) {
		return "", domain.ErrOutsideWebRoot
	}
	return path, nil
}

// Asset resolves file to its servable form. Local paths are returned
// relative to the web root with a leading slash, or prefixed with the base
// URL when absolute is set. URLs are returned unchanged.
func (r *Resolver) Asset(ctx context.Context, file string, absolute bool) (string, error) {
	res, err := r.Resolve(ctx, file)
	if err != nil {
		return "", err
	}

	if res.IsRemote() {
		return res.Path, nil
	}

	return r.WebPath(res.Path, absolute), nil
}

// WebPath converts a filesystem path under the web root to its URL path
func (r *Resolver) WebPath(path string, absolute bool) string {
	rel := filepath.ToSlash(strings.TrimPrefix(path, r.webRoot))
	if !strings.HasPrefix(rel, "/") {
		rel = "/" + rel
	}

	if absolute {
		return utils.JoinBaseURL(r.baseURL, rel)
	}
	return rel
}

// Exists reports whether file resolves to something that exists. URLs are
// decided by the remote check; local candidates, manifest-mapped ones
// included, by the filesystem.
func (r *Resolver) Exists(ctx context.Context, file string) (bool, error) {
	res, err := r.Resolve(ctx, file)
	if err != nil {
		if domain.IsNotFound(err) {
			return false, nil
		}
		return false, err
	}

	if res.IsRemote() {
		if res.FromManifest {
			return r.EntryExists(ctx, res.Path)
		}
		return res.Found(), nil
	}

	return utils.IsRegularFile(res.Path), nil
}

// EntryExists reports whether a manifest value points at an existing asset.
// The value is checked as is and never looked up in the manifest again.
func (r *Resolver) EntryExists(ctx context.Context, value string) (bool, error) {
	if utils.IsURL(value) {
		res, err := r.remote(ctx, value, value)
		if err != nil && !domain.IsNotFound(err) {
			return false, err
		}
		return res.Found(), nil
	}

	path, err := r.localPath(value)
	if err != nil {
		return false, nil
	}
	return utils.IsRegularFile(path), nil
}

func notFound(file, path string, kind domain.Kind) domain.Resolution {
	return domain.Resolution{File: file, Path: path, Kind: kind, Status: domain.StatusNotFound}
}
