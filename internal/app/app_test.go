package app

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/hutsix/hutsixassets-go/internal/config"
	"github.com/hutsix/hutsixassets-go/internal/fetcher"
	"github.com/hutsix/hutsixassets-go/internal/manifest"
	"github.com/hutsix/hutsixassets-go/tests/mocks"
	"github.com/hutsix/hutsixassets-go/tests/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func testConfig(t *testing.T, basePath string) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.Site.BasePath = basePath
	cfg.Site.BaseURL = "https://example.com"
	cfg.Cache.InMemory = true
	require.NoError(t, cfg.Validate())
	return cfg
}

func newTestApp(t *testing.T, cfg *config.Config, opts Options) *App {
	t.Helper()
	opts.Config = cfg
	if opts.LogOutput == nil {
		opts.LogOutput = io.Discard
	}
	a, err := New(opts)
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })
	return a
}

func TestNew_RequiresConfig(t *testing.T) {
	_, err := New(Options{})
	assert.Error(t, err)
}

func TestNew_WiresComponents(t *testing.T) {
	base, webRoot := testutil.TempSite(t)
	a := newTestApp(t, testConfig(t, base), Options{})

	assert.NotNil(t, a.Logger())
	assert.NotNil(t, a.Funcs())
	assert.NotNil(t, a.cache, "in-memory cache should open")
	assert.Equal(t, webRoot, a.Resolver().WebRoot())
	assert.Equal(t, "https://example.com", a.Resolver().BaseURL())
	assert.Equal(t, "https://example.com", a.Config().Site.BaseURL)
}

func TestNew_CacheDisabled(t *testing.T) {
	base, _ := testutil.TempSite(t)
	cfg := testConfig(t, base)
	cfg.Cache.Enabled = false

	a := newTestApp(t, cfg, Options{})
	assert.Nil(t, a.cache)
}

func TestClientOptions(t *testing.T) {
	base, _ := testutil.TempSite(t)
	cfg := testConfig(t, base)
	cfg.Remote.Timeout = 3 * time.Second
	cfg.Remote.MaxRetries = 0
	cfg.Remote.UserAgent = "hutsixassets-test"
	cfg.Cache.TTL = 0

	opts := clientOptions(cfg, nil, nil)
	assert.Equal(t, 3*time.Second, opts.Timeout)
	assert.Equal(t, 0, opts.MaxRetries)
	assert.Equal(t, "hutsixassets-test", opts.UserAgent)
	assert.False(t, opts.EnableCache)
	assert.Equal(t, fetcher.DefaultClientOptions().CacheTTL, opts.CacheTTL, "zero TTL keeps the default")
}

func TestNew_RendersTemplates(t *testing.T) {
	base, webRoot := testutil.TempSite(t)
	testutil.WriteFile(t, webRoot, "app.4f2a.css", "body{}")
	testutil.WriteManifest(t, webRoot, map[string]string{"app.css": "app.4f2a.css"})

	a := newTestApp(t, testConfig(t, base), Options{})

	var buf bytes.Buffer
	err := a.Funcs().Render(&buf, "page", `<link href="{{ asset "app.css" true }}">`, nil)
	require.NoError(t, err)
	assert.Equal(t, `<link href="https://example.com/app.4f2a.css">`, buf.String())
}

func TestVerify(t *testing.T) {
	base, webRoot := testutil.TempSite(t)
	testutil.WriteFiles(t, webRoot, map[string]string{
		"main.1.js":   "1",
		"css/a.2.css": "2",
	})
	testutil.WriteManifest(t, webRoot, map[string]string{
		"main.js":   "main.1.js",
		"a.css":     "/css/a.2.css",
		"gone.js":   "gone.3.js",
		"remote.js": "https://cdn.invalid/remote.js",
	})

	ctrl := gomock.NewController(t)
	fetcher := mocks.NewMockFetcher(ctrl)
	fetcher.EXPECT().Head(gomock.Any(), "https://cdn.invalid/remote.js").
		Return(testutil.NewResponse(http.StatusNotFound, "", ""), nil)
	fetcher.EXPECT().Close().Return(nil)

	a := newTestApp(t, testConfig(t, base), Options{Fetcher: fetcher})

	var progress bytes.Buffer
	report, err := a.Verify(context.Background(), VerifyOptions{Workers: 2, Progress: &progress})
	require.NoError(t, err)

	assert.False(t, report.OK())
	assert.Equal(t, 2, report.Missing)
	require.Len(t, report.Results, 4)

	byKey := make(map[string]VerifyResult)
	for _, r := range report.Results {
		byKey[r.Key] = r
	}
	assert.True(t, byKey["main.js"].Exists)
	assert.True(t, byKey["a.css"].Exists)
	assert.False(t, byKey["gone.js"].Exists)
	assert.False(t, byKey["remote.js"].Exists)
	assert.Contains(t, progress.String(), "Verifying")
}

func TestVerify_ValuesNotLookedUp(t *testing.T) {
	base, webRoot := testutil.TempSite(t)
	testutil.WriteFile(t, webRoot, "b.2.js", "b")
	// a.js points at b.js, which is a key but not a file
	testutil.WriteManifest(t, webRoot, map[string]string{
		"a.js": "b.js",
		"b.js": "b.2.js",
	})

	a := newTestApp(t, testConfig(t, base), Options{})

	report, err := a.Verify(context.Background(), VerifyOptions{})
	require.NoError(t, err)
	assert.Equal(t, 1, report.Missing)
	assert.Equal(t, []VerifyResult{
		{Key: "a.js", Value: "b.js", Exists: false},
		{Key: "b.js", Value: "b.2.js", Exists: true},
	}, report.Results)
}

func TestVerify_NoManifest(t *testing.T) {
	base, _ := testutil.TempSite(t)
	a := newTestApp(t, testConfig(t, base), Options{})

	_, err := a.Verify(context.Background(), VerifyOptions{})
	assert.ErrorIs(t, err, manifest.ErrFileNotFound)
}

func TestVerify_AllPresent(t *testing.T) {
	base, webRoot := testutil.TempSite(t)
	testutil.WriteFile(t, webRoot, "x.1.js", "x")
	testutil.WriteManifest(t, webRoot, map[string]string{"x.js": "x.1.js"})

	a := newTestApp(t, testConfig(t, base), Options{})

	report, err := a.Verify(context.Background(), VerifyOptions{})
	require.NoError(t, err)
	assert.True(t, report.OK())
	assert.Equal(t, []VerifyResult{{Key: "x.js", Value: "x.1.js", Exists: true}}, report.Results)
}
