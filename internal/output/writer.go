package output

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hutsix/hutsixassets-go/internal/utils"
)

// Template extensions stripped from output names
var templateExts = []string{".tmpl", ".tpl", ".gotmpl"}

// ErrOutsideBaseDir is returned for page names that escape the output directory
var ErrOutsideBaseDir = errors.New("path escapes output directory")

// Write outcomes
const (
	StatusWritten = "written"
	StatusSkipped = "skipped"
	StatusDryRun  = "dry-run"
)

// Page is one rendered template
type Page struct {
	// Source is the template file the page came from
	Source string
	// Name is the output path relative to the base directory, slash separated
	Name    string
	Content []byte
}

// Writer handles writing rendered pages to the filesystem
type Writer struct {
	baseDir   string
	force     bool
	dryRun    bool
	collector *Collector
}

// WriterOptions contains options for the writer
type WriterOptions struct {
	BaseDir   string
	Force     bool
	DryRun    bool
	Collector *Collector
}

// NewWriter creates a new output writer
func NewWriter(opts WriterOptions) *Writer {
	if opts.BaseDir == "" {
		opts.BaseDir = "./public"
	}

	return &Writer{
		baseDir:   opts.BaseDir,
		force:     opts.Force,
		dryRun:    opts.DryRun,
		collector: opts.Collector,
	}
}

// OutputName maps a template path to the page name, dropping a template
// extension such as .tmpl
func OutputName(templatePath string) string {
	name := filepath.ToSlash(templatePath)
	for _, ext := range templateExts {
		if strings.HasSuffix(name, ext) && len(name) > len(ext) {
			return strings.TrimSuffix(name, ext)
		}
	}
	return name
}

// IsTemplate reports whether path carries a template extension
func IsTemplate(path string) bool {
	for _, ext := range templateExts {
		if strings.HasSuffix(path, ext) {
			return true
		}
	}
	return false
}

// Path returns the filesystem path for a page name
func (w *Writer) Path(name string) (string, error) {
	base, err := filepath.Abs(w.baseDir)
	if err != nil {
		return "", err
	}
	path := filepath.Join(base, filepath.FromSlash(name))
	if !utils.IsWithin(base, path) || path == base {
		return "", fmt.Errorf("%w: %s", ErrOutsideBaseDir, name)
	}
	return path, nil
}

// Write saves a page and reports what happened to it.
// Existing files are left alone unless force is set.
func (w *Writer) Write(ctx context.Context, page *Page) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	path, err := w.Path(page.Name)
	if err != nil {
		return "", err
	}

	status := StatusWritten
	switch {
	case !w.force && utils.PathExists(path):
		status = StatusSkipped
	case w.dryRun:
		status = StatusDryRun
	default:
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return "", err
		}
		if err := os.WriteFile(path, page.Content, 0644); err != nil {
			return "", err
		}
	}

	if w.collector != nil {
		w.collector.Add(page, path, status)
	}

	return status, nil
}

// WriteMultiple writes pages in order and stops at the first error. The
// statuses of the pages handled before the error are returned with it.
func (w *Writer) WriteMultiple(ctx context.Context, pages []*Page) ([]string, error) {
	statuses := make([]string, 0, len(pages))
	for _, page := range pages {
		status, err := w.Write(ctx, page)
		if err != nil {
			return statuses, fmt.Errorf("failed to write %s: %w", page.Name, err)
		}
		statuses = append(statuses, status)
	}
	return statuses, nil
}

// EnsureBaseDir creates the base directory if it doesn't exist
func (w *Writer) EnsureBaseDir() error {
	if w.dryRun {
		return nil
	}
	return os.MkdirAll(w.baseDir, 0755)
}

// Stats returns the number and total size of files below the base directory
func (w *Writer) Stats() (int, int64, error) {
	var count int
	var size int64

	err := filepath.Walk(w.baseDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() {
			count++
			size += info.Size()
		}
		return nil
	})

	return count, size, err
}
