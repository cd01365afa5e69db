package fetcher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"mime"
	"net"
	"net/http"
	"net/url"
	"path"
	"time"

	fhttp "github.com/bogdanfinn/fhttp"
	tls_client "github.com/bogdanfinn/tls-client"
	"github.com/bogdanfinn/tls-client/profiles"
	"github.com/hutsix/hutsixassets-go/internal/cache"
	"github.com/hutsix/hutsixassets-go/internal/domain"
	"github.com/hutsix/hutsixassets-go/internal/utils"
)

// Client checks and downloads remote assets using tls-client
type Client struct {
	tlsClient    tls_client.HttpClient
	userAgent    string
	retrier      *Retrier
	cache        domain.Cache
	cacheEnabled bool
	cacheTTL     time.Duration
	logger       *utils.Logger
}

// Ensure Client implements domain.Fetcher
var _ domain.Fetcher = (*Client)(nil)

// ClientOptions contains options for creating a Client
type ClientOptions struct {
	Timeout    time.Duration
	MaxRetries int
	// InsecureSkipVerify disables TLS certificate verification
	InsecureSkipVerify bool
	EnableCache        bool
	CacheTTL           time.Duration
	Cache              domain.Cache
	UserAgent          string
	ProxyURL           string
	Logger             *utils.Logger
}

// DefaultClientOptions returns default client options
func DefaultClientOptions() ClientOptions {
	return ClientOptions{
		Timeout:     10 * time.Second,
		MaxRetries:  2,
		EnableCache: true,
		CacheTTL:    24 * time.Hour,
	}
}

// NewClient creates a new remote asset client
func NewClient(opts ClientOptions) (*Client, error) {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultClientOptions().Timeout
	}
	if opts.Logger == nil {
		opts.Logger = utils.NewNopLogger()
	}

	timeoutSeconds := int(math.Ceil(opts.Timeout.Seconds()))
	if timeoutSeconds < 1 {
		timeoutSeconds = 1
	}

	// Redirects are not followed: a HEAD check reports the first status line.
	tlsOpts := []tls_client.HttpClientOption{
		tls_client.WithTimeoutSeconds(timeoutSeconds),
		tls_client.WithClientProfile(profiles.Chrome_131),
		tls_client.WithRandomTLSExtensionOrder(),
		tls_client.WithNotFollowRedirects(),
	}

	if opts.InsecureSkipVerify {
		opts.Logger.Warn().Msg("TLS certificate verification disabled for remote assets")
		tlsOpts = append(tlsOpts, tls_client.WithInsecureSkipVerify())
	}

	if opts.ProxyURL != "" {
		tlsOpts = append(tlsOpts, tls_client.WithProxyUrl(opts.ProxyURL))
	}

	tlsClient, err := tls_client.NewHttpClient(tls_client.NewNoopLogger(), tlsOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create tls client: %w", err)
	}

	retryOpts := DefaultRetrierOptions()
	retryOpts.MaxRetries = opts.MaxRetries
	retrier := NewRetrier(retryOpts)

	return &Client{
		tlsClient:    tlsClient,
		userAgent:    opts.UserAgent,
		retrier:      retrier,
		cache:        opts.Cache,
		cacheEnabled: opts.EnableCache,
		cacheTTL:     opts.CacheTTL,
		logger:       opts.Logger.WithComponent("fetcher"),
	}, nil
}

// Head checks a URL. Any HTTP status is returned as a response; only
// transport failures are errors. Retryable statuses are retried and the
// last such response is returned once retries run out.
func (c *Client) Head(ctx context.Context, rawURL string) (*domain.Response, error) {
	var last *domain.Response

	resp, err := RetryWithValue(ctx, c.retrier, func() (*domain.Response, error) {
		last = nil
		resp, err := c.doRequest(ctx, fhttp.MethodHead, rawURL)
		if err != nil {
			return nil, err
		}
		if ShouldRetryStatus(resp.StatusCode) {
			last = resp
			return nil, retryableStatus(rawURL, resp)
		}
		return resp, nil
	})
	if err != nil {
		if last != nil && ctx.Err() == nil {
			return last, nil
		}
		return nil, err
	}

	c.logger.Debug().
		Str("url", rawURL).
		Int("status", resp.StatusCode).
		Msg("Checked remote asset")

	return resp, nil
}

// Get downloads a URL. Statuses of 400 and above are returned as errors.
func (c *Client) Get(ctx context.Context, rawURL string) (*domain.Response, error) {
	if c.cacheEnabled && c.cache != nil {
		cached, err := c.getFromCache(ctx, rawURL)
		if err == nil && cached != nil {
			c.logger.Debug().Str("url", rawURL).Msg("Cache hit")
			return cached, nil
		}
	}

	resp, err := RetryWithValue(ctx, c.retrier, func() (*domain.Response, error) {
		resp, err := c.doRequest(ctx, fhttp.MethodGet, rawURL)
		if err != nil {
			return nil, err
		}
		if resp.StatusCode >= 400 {
			if ShouldRetryStatus(resp.StatusCode) {
				return nil, retryableStatus(rawURL, resp)
			}
			return nil, statusError(rawURL, resp.StatusCode)
		}
		return resp, nil
	})
	if err != nil {
		return nil, err
	}

	if c.cacheEnabled && c.cache != nil {
		if err := c.saveToCache(ctx, rawURL, resp); err != nil {
			c.logger.Warn().Err(err).Str("url", rawURL).Msg("Failed to cache remote asset")
		}
	}

	return resp, nil
}

func retryableStatus(rawURL string, resp *domain.Response) error {
	return &domain.RetryableError{
		Err:        statusError(rawURL, resp.StatusCode),
		RetryAfter: int(ParseRetryAfter(resp.Headers.Get("Retry-After")).Seconds()),
	}
}

// statusError builds the FetchError for an HTTP error status
func statusError(rawURL string, status int) error {
	if status == http.StatusTooManyRequests {
		return domain.NewFetchError(rawURL, status, domain.ErrRateLimited)
	}
	return domain.NewFetchError(rawURL, status, fmt.Errorf("HTTP %d", status))
}

// transportError wraps a failed round trip, marking timeouts with domain.ErrTimeout
func transportError(rawURL string, err error) error {
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return domain.NewFetchError(rawURL, 0, fmt.Errorf("%w: %v", domain.ErrTimeout, err))
	}
	return domain.NewFetchError(rawURL, 0, fmt.Errorf("request failed: %w", err))
}

// doRequest performs a single request and returns the response whatever its status
func (c *Client) doRequest(ctx context.Context, method, targetURL string) (*domain.Response, error) {
	req, err := fhttp.NewRequestWithContext(ctx, method, targetURL, nil)
	if err != nil {
		return nil, domain.NewFetchError(targetURL, 0, fmt.Errorf("%w: %v", domain.ErrInvalidURL, err))
	}

	for k, v := range RequestHeaders(c.userAgent) {
		req.Header.Set(k, v)
	}

	resp, err := c.tlsClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, transportError(targetURL, err)
	}
	defer resp.Body.Close()

	var body []byte
	if method != fhttp.MethodHead {
		body, err = io.ReadAll(resp.Body)
		if err != nil {
			return nil, domain.NewFetchError(targetURL, resp.StatusCode, fmt.Errorf("failed to read response body: %w", err))
		}
	}

	// fhttp.Header has the same shape as http.Header
	httpHeaders := make(http.Header, len(resp.Header))
	for k, v := range resp.Header {
		httpHeaders[k] = v
	}

	return &domain.Response{
		StatusCode:  resp.StatusCode,
		Body:        body,
		Headers:     httpHeaders,
		ContentType: resp.Header.Get("Content-Type"),
		URL:         targetURL,
	}, nil
}

// Close releases client resources
func (c *Client) Close() error {
	// tls-client holds no resources that need releasing
	return nil
}

func (c *Client) getFromCache(ctx context.Context, rawURL string) (*domain.Response, error) {
	data, err := c.cache.Get(ctx, cache.AssetKey(rawURL))
	if err != nil {
		return nil, err
	}

	return &domain.Response{
		StatusCode:  http.StatusOK,
		Body:        data,
		Headers:     make(http.Header),
		ContentType: contentTypeFor(rawURL),
		URL:         rawURL,
		FromCache:   true,
	}, nil
}

func (c *Client) saveToCache(ctx context.Context, rawURL string, resp *domain.Response) error {
	return c.cache.Set(ctx, cache.AssetKey(rawURL), resp.Body, c.cacheTTL)
}

// contentTypeFor guesses a content type from the URL's file extension
func contentTypeFor(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return mime.TypeByExtension(path.Ext(u.Path))
}
