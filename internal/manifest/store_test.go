package manifest

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeManifest(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestStore_Exists(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "assets", "manifest.json")

	store := NewStore(StoreOptions{Path: path})
	assert.False(t, store.Exists())
	assert.Equal(t, path, store.Path())

	writeManifest(t, path, `{}`)
	assert.True(t, store.Exists())

	// A directory at the manifest path is not a manifest
	dirStore := NewStore(StoreOptions{Path: dir})
	assert.False(t, dirStore.Exists())
}

func TestStore_ParsesOnce(t *testing.T) {
	path := filepath.Join(t.TempDir(), "manifest.json")
	writeManifest(t, path, `{"main.js": "main.a1b2c3.js", "app.css": "app.ff00.css"}`)

	store := NewStore(StoreOptions{Path: path})
	assert.Equal(t, 0, store.Loads())

	v, ok, err := store.Lookup("main.js")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "main.a1b2c3.js", v)

	v, ok, err = store.Lookup("/app.css")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "app.ff00.css", v)

	_, ok, err = store.Lookup("missing.js")
	require.NoError(t, err)
	assert.False(t, ok)

	assert.Equal(t, 1, store.Loads())

	// Without reload, changes on disk are not seen
	writeManifest(t, path, `{"main.js": "main.zzzz.js"}`)
	v, _, err = store.Lookup("main.js")
	require.NoError(t, err)
	assert.Equal(t, "main.a1b2c3.js", v)
	assert.Equal(t, 1, store.Loads())
}

func TestStore_ConcurrentFirstUse(t *testing.T) {
	path := filepath.Join(t.TempDir(), "manifest.json")
	writeManifest(t, path, `{"main.js": "main.a1b2c3.js"}`)

	store := NewStore(StoreOptions{Path: path})

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _, _ = store.Lookup("main.js")
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, store.Loads())
}

func TestStore_ReloadOnModTimeChange(t *testing.T) {
	path := filepath.Join(t.TempDir(), "manifest.json")
	writeManifest(t, path, `{"main.js": "main.v1.js"}`)

	store := NewStore(StoreOptions{Path: path, Reload: true})

	v, _, err := store.Lookup("main.js")
	require.NoError(t, err)
	assert.Equal(t, "main.v1.js", v)

	// Unchanged file is not re-parsed
	_, _, err = store.Lookup("main.js")
	require.NoError(t, err)
	assert.Equal(t, 1, store.Loads())

	writeManifest(t, path, `{"main.js": "main.v2.js"}`)
	future := time.Now().Add(time.Hour)
	require.NoError(t, os.Chtimes(path, future, future))

	v, _, err = store.Lookup("main.js")
	require.NoError(t, err)
	assert.Equal(t, "main.v2.js", v)
	assert.Equal(t, 2, store.Loads())
}

func TestStore_InvalidManifest(t *testing.T) {
	path := filepath.Join(t.TempDir(), "manifest.json")
	writeManifest(t, path, `{"main.js": `)

	store := NewStore(StoreOptions{Path: path})

	_, _, err := store.Lookup("main.js")
	assert.ErrorIs(t, err, ErrInvalidFormat)
	assert.Equal(t, 0, store.Loads())

	// Fixing the file recovers without a restart
	writeManifest(t, path, `{"main.js": "main.a1.js"}`)
	v, ok, err := store.Lookup("main.js")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "main.a1.js", v)
}

func TestStore_MissingFile(t *testing.T) {
	store := NewStore(StoreOptions{Path: filepath.Join(t.TempDir(), "manifest.json")})

	_, err := store.Data()
	assert.ErrorIs(t, err, ErrFileNotFound)
}
