package fetcher

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/hutsix/hutsixassets-go/internal/cache"
	"github.com/hutsix/hutsixassets-go/internal/domain"
	"github.com/hutsix/hutsixassets-go/tests/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func newTestClient(t *testing.T, opts ClientOptions) *Client {
	t.Helper()
	client, err := NewClient(opts)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestDefaultClientOptions(t *testing.T) {
	opts := DefaultClientOptions()

	assert.Equal(t, 10*time.Second, opts.Timeout)
	assert.Equal(t, 2, opts.MaxRetries)
	assert.False(t, opts.InsecureSkipVerify)
	assert.True(t, opts.EnableCache)
	assert.Equal(t, 24*time.Hour, opts.CacheTTL)
	assert.Empty(t, opts.UserAgent)
	assert.Empty(t, opts.ProxyURL)
}

func TestNewClient(t *testing.T) {
	tests := []struct {
		name  string
		opts  ClientOptions
		check func(t *testing.T, c *Client)
	}{
		{
			name: "with default options",
			opts: DefaultClientOptions(),
			check: func(t *testing.T, c *Client) {
				assert.NotNil(t, c.tlsClient)
				assert.NotNil(t, c.retrier)
				assert.NotNil(t, c.logger)
			},
		},
		{
			name: "with zero timeout",
			opts: ClientOptions{},
			check: func(t *testing.T, c *Client) {
				assert.NotNil(t, c)
			},
		},
		{
			name: "retrier uses default backoff",
			opts: ClientOptions{MaxRetries: 5},
			check: func(t *testing.T, c *Client) {
				defaults := DefaultRetrierOptions()
				assert.Equal(t, 5, c.retrier.maxRetries)
				assert.Equal(t, defaults.InitialInterval, c.retrier.initialInterval)
				assert.Equal(t, defaults.MaxInterval, c.retrier.maxInterval)
				assert.Equal(t, defaults.Multiplier, c.retrier.multiplier)
			},
		},
		{
			name: "with custom user agent",
			opts: ClientOptions{UserAgent: "TestAgent/1.0"},
			check: func(t *testing.T, c *Client) {
				assert.Equal(t, "TestAgent/1.0", c.userAgent)
			},
		},
		{
			name: "with insecure TLS",
			opts: ClientOptions{InsecureSkipVerify: true},
			check: func(t *testing.T, c *Client) {
				assert.NotNil(t, c.tlsClient)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.check(t, newTestClient(t, tt.opts))
		})
	}
}

func TestClient_Head(t *testing.T) {
	t.Run("existing asset", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodHead, r.Method)
			w.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		client := newTestClient(t, ClientOptions{})
		resp, err := client.Head(context.Background(), server.URL+"/logo.svg")
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.False(t, resp.NotFound())
		assert.Empty(t, resp.Body)
	})

	t.Run("missing asset is a response, not an error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))
		defer server.Close()

		client := newTestClient(t, ClientOptions{})
		resp, err := client.Head(context.Background(), server.URL+"/missing.svg")
		require.NoError(t, err)
		assert.True(t, resp.NotFound())
	})

	t.Run("redirect is not followed", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/moved.svg" {
				http.Redirect(w, r, "/gone.svg", http.StatusMovedPermanently)
				return
			}
			w.WriteHeader(http.StatusNotFound)
		}))
		defer server.Close()

		client := newTestClient(t, ClientOptions{})
		resp, err := client.Head(context.Background(), server.URL+"/moved.svg")
		require.NoError(t, err)
		assert.Equal(t, http.StatusMovedPermanently, resp.StatusCode)
	})

	t.Run("retryable status retried then returned", func(t *testing.T) {
		var hits atomic.Int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			hits.Add(1)
			w.WriteHeader(http.StatusServiceUnavailable)
		}))
		defer server.Close()

		client := newTestClient(t, ClientOptions{MaxRetries: 1})
		resp, err := client.Head(context.Background(), server.URL)
		require.NoError(t, err)
		assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
		assert.Equal(t, int32(2), hits.Load())
	})

	t.Run("unreachable host is an error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		addr := server.URL
		server.Close()

		client := newTestClient(t, ClientOptions{Timeout: 2 * time.Second})
		resp, err := client.Head(context.Background(), addr+"/logo.svg")
		assert.Error(t, err)
		assert.Nil(t, resp)

		var fetchErr *domain.FetchError
		assert.True(t, errors.As(err, &fetchErr))
	})

	t.Run("untrusted certificate rejected by default", func(t *testing.T) {
		server := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		client := newTestClient(t, ClientOptions{Timeout: 2 * time.Second})
		_, err := client.Head(context.Background(), server.URL)
		assert.Error(t, err)
	})
}

func TestClient_Get(t *testing.T) {
	t.Run("successful fetch", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "image/svg+xml")
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte("<svg/>"))
		}))
		defer server.Close()

		client := newTestClient(t, ClientOptions{EnableCache: false})
		resp, err := client.Get(context.Background(), server.URL+"/icon.svg")
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, []byte("<svg/>"), resp.Body)
		assert.Equal(t, "image/svg+xml", resp.ContentType)
		assert.False(t, resp.FromCache)
	})

	t.Run("not found error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))
		defer server.Close()

		client := newTestClient(t, ClientOptions{EnableCache: false})
		resp, err := client.Get(context.Background(), server.URL)
		assert.Nil(t, resp)

		var fetchErr *domain.FetchError
		require.True(t, errors.As(err, &fetchErr))
		assert.Equal(t, http.StatusNotFound, fetchErr.StatusCode)
	})

	t.Run("rate limited error", func(t *testing.T) {
		var hits atomic.Int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			hits.Add(1)
			w.WriteHeader(http.StatusTooManyRequests)
		}))
		defer server.Close()

		client := newTestClient(t, ClientOptions{MaxRetries: 1})
		_, err := client.Get(context.Background(), server.URL)
		assert.ErrorIs(t, err, domain.ErrRateLimited)
		assert.Equal(t, int32(2), hits.Load())
	})

	t.Run("recovers after retryable status", func(t *testing.T) {
		var hits atomic.Int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if hits.Add(1) == 1 {
				w.WriteHeader(http.StatusBadGateway)
				return
			}
			_, _ = w.Write([]byte("ok"))
		}))
		defer server.Close()

		client := newTestClient(t, ClientOptions{MaxRetries: 2})
		resp, err := client.Get(context.Background(), server.URL)
		require.NoError(t, err)
		assert.Equal(t, "ok", string(resp.Body))
		assert.Equal(t, int32(2), hits.Load())
	})

	t.Run("sends user agent", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "TestAgent/1.0", r.Header.Get("User-Agent"))
			_, _ = w.Write([]byte("ok"))
		}))
		defer server.Close()

		client := newTestClient(t, ClientOptions{UserAgent: "TestAgent/1.0"})
		_, err := client.Get(context.Background(), server.URL)
		require.NoError(t, err)
	})
}

func TestClient_GetCache(t *testing.T) {
	t.Run("cache hit skips network", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		mockCache := mocks.NewMockCache(ctrl)

		url := "https://cdn.invalid/icon.svg"
		mockCache.EXPECT().
			Get(gomock.Any(), cache.AssetKey(url)).
			Return([]byte("<svg>cached</svg>"), nil)

		client := newTestClient(t, ClientOptions{EnableCache: true, Cache: mockCache})
		resp, err := client.Get(context.Background(), url)
		require.NoError(t, err)
		assert.True(t, resp.FromCache)
		assert.Equal(t, "<svg>cached</svg>", string(resp.Body))
		assert.Equal(t, "image/svg+xml", resp.ContentType)
	})

	t.Run("cache miss stores body", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("<svg/>"))
		}))
		defer server.Close()

		ctrl := gomock.NewController(t)
		mockCache := mocks.NewMockCache(ctrl)

		url := server.URL + "/icon.svg"
		key := cache.AssetKey(url)
		mockCache.EXPECT().Get(gomock.Any(), key).Return(nil, domain.ErrCacheMiss)
		mockCache.EXPECT().Set(gomock.Any(), key, []byte("<svg/>"), time.Hour).Return(nil)

		client := newTestClient(t, ClientOptions{EnableCache: true, Cache: mockCache, CacheTTL: time.Hour})
		resp, err := client.Get(context.Background(), url)
		require.NoError(t, err)
		assert.False(t, resp.FromCache)
	})

	t.Run("cache disabled", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("fresh"))
		}))
		defer server.Close()

		ctrl := gomock.NewController(t)
		mockCache := mocks.NewMockCache(ctrl)

		client := newTestClient(t, ClientOptions{Cache: mockCache, EnableCache: false})
		resp, err := client.Get(context.Background(), server.URL)
		require.NoError(t, err)
		assert.Equal(t, "fresh", string(resp.Body))
	})
}

type timeoutError struct{}

func (timeoutError) Error() string   { return "i/o timeout" }
func (timeoutError) Timeout() bool   { return true }
func (timeoutError) Temporary() bool { return true }

func TestTransportError(t *testing.T) {
	const url = "https://cdn.invalid/logo.svg"

	tests := []struct {
		name        string
		err         error
		wantTimeout bool
	}{
		{"net timeout", timeoutError{}, true},
		{"deadline exceeded", context.DeadlineExceeded, true},
		{"connection refused", errors.New("dial tcp: connection refused"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := transportError(url, tt.err)

			var fetchErr *domain.FetchError
			require.True(t, errors.As(err, &fetchErr))
			assert.Equal(t, url, fetchErr.URL)
			assert.Equal(t, tt.wantTimeout, errors.Is(err, domain.ErrTimeout))
			assert.Equal(t, tt.wantTimeout, domain.IsRetryable(err))
		})
	}
}

func TestStatusError(t *testing.T) {
	err := statusError("https://cdn.invalid/a.svg", http.StatusTooManyRequests)
	assert.ErrorIs(t, err, domain.ErrRateLimited)

	err = statusError("https://cdn.invalid/a.svg", http.StatusForbidden)
	assert.NotErrorIs(t, err, domain.ErrRateLimited)
	assert.Contains(t, err.Error(), "HTTP 403")
}

func TestDefaultRetrierOptions(t *testing.T) {
	opts := DefaultRetrierOptions()
	assert.Equal(t, 2, opts.MaxRetries)
	assert.Equal(t, 250*time.Millisecond, opts.InitialInterval)
	assert.Equal(t, 5*time.Second, opts.MaxInterval)
	assert.Equal(t, 2.0, opts.Multiplier)
}

func TestNewRetrier(t *testing.T) {
	r := NewRetrier(RetrierOptions{MaxRetries: -1})
	assert.Equal(t, 0, r.maxRetries)
	assert.Equal(t, 250*time.Millisecond, r.initialInterval)
	assert.Equal(t, 5*time.Second, r.maxInterval)
	assert.Equal(t, 2.0, r.multiplier)
}

func TestRetrier_Retry(t *testing.T) {
	fast := RetrierOptions{
		MaxRetries:      3,
		InitialInterval: 5 * time.Millisecond,
		MaxInterval:     20 * time.Millisecond,
		Multiplier:      2.0,
	}
	retryable := &domain.RetryableError{
		Err: &domain.FetchError{StatusCode: 503, Err: http.ErrHandlerTimeout},
	}

	t.Run("succeeds on first attempt", func(t *testing.T) {
		attempts := 0
		err := NewRetrier(fast).Retry(context.Background(), func() error {
			attempts++
			return nil
		})
		assert.NoError(t, err)
		assert.Equal(t, 1, attempts)
	})

	t.Run("retries on retryable error", func(t *testing.T) {
		attempts := 0
		err := NewRetrier(fast).Retry(context.Background(), func() error {
			attempts++
			if attempts < 3 {
				return retryable
			}
			return nil
		})
		assert.NoError(t, err)
		assert.Equal(t, 3, attempts)
	})

	t.Run("permanent error stops immediately", func(t *testing.T) {
		attempts := 0
		err := NewRetrier(fast).Retry(context.Background(), func() error {
			attempts++
			return domain.NewFetchError("https://cdn.invalid", 404, errors.New("HTTP 404"))
		})
		assert.Error(t, err)
		assert.Equal(t, 1, attempts)
	})

	t.Run("zero retries means one attempt", func(t *testing.T) {
		opts := fast
		opts.MaxRetries = 0
		attempts := 0
		err := NewRetrier(opts).Retry(context.Background(), func() error {
			attempts++
			return retryable
		})
		assert.Error(t, err)
		assert.Equal(t, 1, attempts)
	})
}

func TestRetryWithValue(t *testing.T) {
	r := NewRetrier(RetrierOptions{MaxRetries: 2, InitialInterval: 5 * time.Millisecond})

	attempts := 0
	result, err := RetryWithValue(context.Background(), r, func() (string, error) {
		attempts++
		if attempts < 2 {
			return "", &domain.RetryableError{Err: domain.ErrRateLimited}
		}
		return "success", nil
	})

	assert.NoError(t, err)
	assert.Equal(t, "success", result)
	assert.Equal(t, 2, attempts)
}

func TestShouldRetryStatus(t *testing.T) {
	tests := []struct {
		statusCode int
		expected   bool
	}{
		{429, true},
		{502, true},
		{503, true},
		{504, true},
		{520, true},
		{530, true},
		{400, false},
		{404, false},
		{500, false},
		{200, false},
	}

	for _, tt := range tests {
		t.Run(http.StatusText(tt.statusCode), func(t *testing.T) {
			assert.Equal(t, tt.expected, ShouldRetryStatus(tt.statusCode))
		})
	}
}

func TestParseRetryAfter(t *testing.T) {
	tests := []struct {
		name     string
		header   string
		expected time.Duration
	}{
		{"seconds value", "120", 120 * time.Second},
		{"empty string", "", 0},
		{"zero value", "0", 0},
		{"garbage", "soon", 0},
		{"past date", "Wed, 21 Oct 2015 07:28:00 GMT", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParseRetryAfter(tt.header))
		})
	}

	future := time.Now().Add(time.Hour).UTC().Format(http.TimeFormat)
	d := ParseRetryAfter(future)
	assert.Greater(t, d, 58*time.Minute)
}

func TestRequestHeaders(t *testing.T) {
	h := RequestHeaders("")
	assert.Contains(t, h["User-Agent"], "hutsixassets/")
	assert.Contains(t, h["Accept"], "image/svg+xml")

	assert.Equal(t, "Custom/2.0", RequestHeaders("Custom/2.0")["User-Agent"])
}
