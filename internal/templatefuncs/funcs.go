// Package templatefuncs exposes the asset resolver to html/template.
package templatefuncs

import (
	"context"
	"html/template"
	"io"
	"time"

	"github.com/hutsix/hutsixassets-go/internal/assets"
	"github.com/hutsix/hutsixassets-go/internal/config"
	"github.com/hutsix/hutsixassets-go/internal/domain"
	"github.com/hutsix/hutsixassets-go/internal/utils"
)

// Resolver is the part of assets.Resolver the template functions call
type Resolver interface {
	Asset(ctx context.Context, file string, absolute bool) (string, error)
	Exists(ctx context.Context, file string) (bool, error)
	HasManifest() bool
	EmbedSvg(ctx context.Context, file, class string) (string, error)
	EmbedSvgIcon(ctx context.Context, file, class string) (string, error)
}

var _ Resolver = (*assets.Resolver)(nil)

// Options configures the template functions
type Options struct {
	// Missing is config.MissingError or config.MissingSkip
	Missing string
	// Timeout bounds each call; zero means no limit beyond the parent context
	Timeout time.Duration
}

// Funcs holds the template functions bound to one resolver
type Funcs struct {
	resolver Resolver
	opts     Options
	ctx      context.Context
	logger   *utils.Logger
}

// New creates template functions backed by resolver
func New(resolver Resolver, opts Options, logger *utils.Logger) *Funcs {
	if opts.Missing == "" {
		opts.Missing = config.MissingError
	}
	if logger == nil {
		logger = utils.NewNopLogger()
	}
	return &Funcs{
		resolver: resolver,
		opts:     opts,
		ctx:      context.Background(),
		logger:   logger.WithComponent("templatefuncs"),
	}
}

// WithContext returns a copy whose calls derive from ctx, e.g. an HTTP request context
func (f *Funcs) WithContext(ctx context.Context) *Funcs {
	c := *f
	c.ctx = ctx
	return &c
}

// FuncMap returns the functions keyed by their template names
func (f *Funcs) FuncMap() template.FuncMap {
	return template.FuncMap{
		"asset":        f.Asset,
		"asset_exists": f.AssetExists,
		"embedSvg":     f.EmbedSvg,
		"embedSvgIcon": f.EmbedSvgIcon,
		"has_manifest": f.HasManifest,
	}
}

func (f *Funcs) callContext() (context.Context, context.CancelFunc) {
	if f.opts.Timeout > 0 {
		return context.WithTimeout(f.ctx, f.opts.Timeout)
	}
	return context.WithCancel(f.ctx)
}

// missing applies the missing-asset policy to err. Under "skip" a not-found
// error is logged and dropped; every other error is returned as is.
func (f *Funcs) missing(fn, file string, err error) error {
	if f.opts.Missing == config.MissingSkip && domain.IsNotFound(err) {
		f.logger.WithFile(file).Warn().
			Str("func", fn).
			Msg("Asset not found, skipping")
		return nil
	}
	return err
}

// Asset implements {{ asset "file" [absolute] }}
func (f *Funcs) Asset(file string, absolute ...bool) (string, error) {
	ctx, cancel := f.callContext()
	defer cancel()

	abs := len(absolute) > 0 && absolute[0]
	path, err := f.resolver.Asset(ctx, file, abs)
	if err != nil {
		return "", f.missing("asset", file, err)
	}
	return path, nil
}

// AssetExists implements {{ asset_exists "file" }}
func (f *Funcs) AssetExists(file string) (bool, error) {
	ctx, cancel := f.callContext()
	defer cancel()

	return f.resolver.Exists(ctx, file)
}

// EmbedSvg implements {{ embedSvg "file" ["class"...] }}.
// The markup is trusted and inserted without escaping.
func (f *Funcs) EmbedSvg(file string, class ...string) (template.HTML, error) {
	ctx, cancel := f.callContext()
	defer cancel()

	markup, err := f.resolver.EmbedSvg(ctx, file, assets.JoinClasses(class...))
	if err != nil {
		return "", f.missing("embedSvg", file, err)
	}
	return template.HTML(markup), nil
}

// EmbedSvgIcon implements {{ embedSvgIcon "file" ["class"...] }}
func (f *Funcs) EmbedSvgIcon(file string, class ...string) (template.HTML, error) {
	ctx, cancel := f.callContext()
	defer cancel()

	markup, err := f.resolver.EmbedSvgIcon(ctx, file, assets.JoinClasses(class...))
	if err != nil {
		return "", f.missing("embedSvgIcon", file, err)
	}
	return template.HTML(markup), nil
}

// HasManifest implements {{ has_manifest }}
func (f *Funcs) HasManifest() bool {
	return f.resolver.HasManifest()
}

// Parse parses text as a named template with the functions installed
func (f *Funcs) Parse(name, text string) (*template.Template, error) {
	return template.New(name).Funcs(f.FuncMap()).Parse(text)
}

// Render parses text and executes it with data into w
func (f *Funcs) Render(w io.Writer, name, text string, data any) error {
	tmpl, err := f.Parse(name, text)
	if err != nil {
		return err
	}
	return tmpl.Execute(w, data)
}
