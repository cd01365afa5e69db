package assets

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/hutsix/hutsixassets-go/internal/domain"
)

const (
	svgClass     = "svg"
	svgIconClass = "svg-icon"
)

// SvgMarkup wraps content in the inline SVG span. The output is
// <span class="svg {class}">{content}</span>, byte for byte.
func SvgMarkup(content []byte, class string) string {
	return fmt.Sprintf(`<span class="%s %s">%s</span>`, svgClass, class, content)
}

// IconClass returns the class list used by the icon variant
func IconClass(class string) string {
	return svgIconClass + " " + class
}

// Content reads the resolved asset: from disk for local candidates, with a
// GET request for URLs
func (r *Resolver) Content(ctx context.Context, file string) ([]byte, error) {
	res, err := r.Resolve(ctx, file)
	if err != nil {
		return nil, err
	}

	if res.IsRemote() {
		if r.fetcher == nil {
			return nil, domain.NewResolveError("embed", file, fmt.Errorf("no fetcher configured for %s", res.Path))
		}
		resp, err := r.fetcher.Get(ctx, res.Path)
		if err != nil {
			return nil, domain.NewResolveError("embed", file, err)
		}
		return resp.Body, nil
	}

	data, err := os.ReadFile(res.Path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, domain.NewResolveError("embed", file, domain.ErrNotFound)
		}
		return nil, domain.NewResolveError("embed", file, err)
	}
	return data, nil
}

// EmbedSvg returns the asset content wrapped for inline use
func (r *Resolver) EmbedSvg(ctx context.Context, file, class string) (string, error) {
	content, err := r.Content(ctx, file)
	if err != nil {
		return "", err
	}

	r.logger.WithFile(file).Debug().Int("bytes", len(content)).Msg("Embedding SVG")

	return SvgMarkup(content, class), nil
}

// EmbedSvgIcon is EmbedSvg with the svg-icon class added
func (r *Resolver) EmbedSvgIcon(ctx context.Context, file, class string) (string, error) {
	return r.EmbedSvg(ctx, file, IconClass(class))
}

// JoinClasses joins optional class arguments into one class list
func JoinClasses(classes ...string) string {
	parts := make([]string, 0, len(classes))
	for _, c := range classes {
		if c = strings.TrimSpace(c); c != "" {
			parts = append(parts, c)
		}
	}
	return strings.Join(parts, " ")
}
