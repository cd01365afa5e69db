package testutil

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// TempSite creates a site directory with an empty "web" root inside it.
// It returns the base path and the web root.
func TempSite(t *testing.T) (basePath, webRoot string) {
	t.Helper()

	basePath = t.TempDir()
	webRoot = filepath.Join(basePath, "web")
	require.NoError(t, os.MkdirAll(webRoot, 0755))

	return basePath, webRoot
}

// WriteFile writes content to rel below dir, creating parent directories
func WriteFile(t *testing.T, dir, rel, content string) string {
	t.Helper()

	path := filepath.Join(dir, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	return path
}

// WriteFiles writes every rel path → content pair below dir
func WriteFiles(t *testing.T, dir string, files map[string]string) {
	t.Helper()

	for rel, content := range files {
		WriteFile(t, dir, rel, content)
	}
}

// WriteManifest writes entries as JSON to assets/manifest.json below webRoot
func WriteManifest(t *testing.T, webRoot string, entries map[string]string) string {
	t.Helper()

	data, err := json.Marshal(entries)
	require.NoError(t, err)

	return WriteFile(t, webRoot, "assets/manifest.json", string(data))
}
