package output

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// DefaultIndexFile is the name of the render index written by Flush
const DefaultIndexFile = "render-index.json"

// PageRecord describes one page handled by the writer
type PageRecord struct {
	Source string `json:"source"`
	Output string `json:"output"`
	Bytes  int    `json:"bytes"`
	Status string `json:"status"`
}

// Index is the JSON document written by Flush
type Index struct {
	GeneratedAt time.Time    `json:"generated_at"`
	WebRoot     string       `json:"web_root,omitempty"`
	TotalPages  int          `json:"total_pages"`
	Pages       []PageRecord `json:"pages"`
}

// Collector records rendered pages and writes them as an index file
type Collector struct {
	mu       sync.RWMutex
	pages    []PageRecord
	webRoot  string
	baseDir  string
	filename string
	enabled  bool
}

type CollectorOptions struct {
	BaseDir  string
	Filename string
	WebRoot  string
	Enabled  bool
}

func NewCollector(opts CollectorOptions) *Collector {
	filename := opts.Filename
	if filename == "" {
		filename = DefaultIndexFile
	}
	return &Collector{
		pages:    make([]PageRecord, 0),
		webRoot:  opts.WebRoot,
		baseDir:  opts.BaseDir,
		filename: filename,
		enabled:  opts.Enabled,
	}
}

func (c *Collector) Add(page *Page, filePath, status string) {
	if !c.enabled || page == nil {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	relPath := filePath
	if base, err := filepath.Abs(c.baseDir); err == nil {
		if rel, err := filepath.Rel(base, filePath); err == nil {
			relPath = rel
		}
	}

	c.pages = append(c.pages, PageRecord{
		Source: page.Source,
		Output: filepath.ToSlash(relPath),
		Bytes:  len(page.Content),
		Status: status,
	})
}

// Flush writes the index file. Nothing is written when the collector is
// disabled or empty.
func (c *Collector) Flush() error {
	if !c.enabled {
		return nil
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	if len(c.pages) == 0 {
		return nil
	}

	data, err := json.MarshalIndent(c.buildIndex(), "", "  ")
	if err != nil {
		return err
	}

	if err := os.MkdirAll(c.baseDir, 0755); err != nil {
		return err
	}
	return os.WriteFile(c.Path(), data, 0644)
}

func (c *Collector) buildIndex() *Index {
	pages := make([]PageRecord, len(c.pages))
	copy(pages, c.pages)

	return &Index{
		GeneratedAt: time.Now(),
		WebRoot:     c.webRoot,
		TotalPages:  len(pages),
		Pages:       pages,
	}
}

// Count returns the number of pages recorded so far
func (c *Collector) Count() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.pages)
}

// IsEnabled reports whether pages are being recorded
func (c *Collector) IsEnabled() bool {
	return c.enabled
}

// Path returns where Flush writes the index
func (c *Collector) Path() string {
	return filepath.Join(c.baseDir, c.filename)
}
