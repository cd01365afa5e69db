package manifest

import (
	"os"
	"sync"
	"time"

	"github.com/hutsix/hutsixassets-go/internal/utils"
)

// Store lazily loads one manifest file and caches the parsed result
type Store struct {
	path   string
	reload bool
	loader *Loader
	logger *utils.Logger

	mu      sync.Mutex
	data    Manifest
	modTime time.Time
	loaded  bool
	loads   int
}

// StoreOptions contains options for creating a Store
type StoreOptions struct {
	Path string
	// Reload re-parses the file when its modification time changes
	Reload bool
	Logger *utils.Logger
}

// NewStore creates a Store for the manifest at opts.Path. Nothing is read yet.
func NewStore(opts StoreOptions) *Store {
	logger := opts.Logger
	if logger == nil {
		logger = utils.NewNopLogger()
	}
	return &Store{
		path:   opts.Path,
		reload: opts.Reload,
		loader: NewLoader(),
		logger: logger.WithComponent("manifest"),
	}
}

// Path returns the manifest file path
func (s *Store) Path() string {
	return s.path
}

// Exists reports whether the manifest file is present
func (s *Store) Exists() bool {
	return utils.IsRegularFile(s.path)
}

// Data returns the parsed manifest, parsing the file on first use.
// A failed parse is not cached, so a fixed file is picked up on the next call.
func (s *Store) Data() (Manifest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.loaded && !s.reload {
		return s.data, nil
	}

	var modTime time.Time
	if s.reload {
		info, err := os.Stat(s.path)
		if err == nil {
			modTime = info.ModTime()
			if s.loaded && modTime.Equal(s.modTime) {
				return s.data, nil
			}
		}
	}

	data, err := s.loader.Load(s.path)
	if err != nil {
		return nil, err
	}

	s.data = data
	s.modTime = modTime
	s.loaded = true
	s.loads++

	s.logger.Debug().
		Str("path", s.path).
		Int("entries", data.Len()).
		Msg("Manifest loaded")

	return data, nil
}

// Lookup resolves file through the manifest
func (s *Store) Lookup(file string) (string, bool, error) {
	data, err := s.Data()
	if err != nil {
		return "", false, err
	}
	v, ok := data.Lookup(file)
	return v, ok, nil
}

// Loads returns how many times the file has been parsed
func (s *Store) Loads() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loads
}
