package httputil

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/dwestra/quill/pkg/buildinfo"
	"github.com/dwestra/quill/pkg/cache"
	"github.com/dwestra/quill/pkg/errors"
	"github.com/dwestra/quill/pkg/observability"
)

const fetchTimeout = 30 * time.Second

var (
	// ErrNotFound is returned when the requested document does not exist.
	ErrNotFound = stderrors.New("resource not found")

	// ErrNetwork is returned for HTTP failures (timeouts, connection errors, 5xx responses).
	ErrNetwork = stderrors.New("network error")
)

// Client fetches source documents over HTTP.
// It handles caching, retry logic, and common request headers.
type Client struct {
	http  *http.Client
	cache cache.Cache
	keyer cache.Keyer
}

// NewClient creates a Client backed by the given cache and keyer.
// A nil cache disables caching; a nil keyer falls back to the default.
func NewClient(c cache.Cache, keyer cache.Keyer) *Client {
	if c == nil {
		c = cache.NewNullCache()
	}
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	return &Client{
		http:  &http.Client{Timeout: fetchTimeout},
		cache: c,
		keyer: keyer,
	}
}

// Fetch retrieves the document at url, consulting the cache first.
// If refresh is true, the cache is bypassed and the document is always
// refetched. Transient failures are retried with exponential backoff.
func (c *Client) Fetch(ctx context.Context, url string, refresh bool) ([]byte, error) {
	if err := errors.ValidateURL(url); err != nil {
		return nil, err
	}

	key := c.keyer.FetchKey(url)
	if !refresh {
		if data, ok, _ := c.cache.Get(ctx, key); ok {
			observability.Cache().OnCacheHit(ctx, "fetch")
			return data, nil
		}
		observability.Cache().OnCacheMiss(ctx, "fetch")
	}

	var data []byte
	err := RetryWithBackoff(ctx, func() error {
		var ferr error
		data, ferr = c.doRequest(ctx, url)
		return ferr
	})
	if err != nil {
		return nil, err
	}

	if err := c.cache.Set(ctx, key, data, cache.TTLFetch); err == nil {
		observability.Cache().OnCacheSet(ctx, "fetch", len(data))
	}
	return data, nil
}

func (c *Client) doRequest(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", buildinfo.UserAgent())

	hooks := observability.HTTP()
	hooks.OnRequest(ctx, req.Method, req.URL.Host, req.URL.Path)
	start := time.Now()

	resp, err := c.http.Do(req)
	if err != nil {
		hooks.OnError(ctx, req.Method, req.URL.Host, req.URL.Path, err)
		return nil, &RetryableError{Err: fmt.Errorf("%w: %v", ErrNetwork, err)}
	}
	defer resp.Body.Close()
	hooks.OnResponse(ctx, req.Method, req.URL.Host, req.URL.Path, resp.StatusCode, time.Since(start))

	if err := checkStatus(resp); err != nil {
		return nil, err
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &RetryableError{Err: fmt.Errorf("%w: %v", ErrNetwork, err)}
	}
	return data, nil
}

func checkStatus(resp *http.Response) error {
	switch {
	case resp.StatusCode == http.StatusOK:
		return nil
	case resp.StatusCode == http.StatusNotFound:
		return ErrNotFound
	case resp.StatusCode == http.StatusTooManyRequests:
		retryAfter, _ := strconv.Atoi(resp.Header.Get("Retry-After"))
		return &errors.RateLimitedError{
			RetryAfter: retryAfter,
			Message:    "document host rate limited the request",
		}
	case resp.StatusCode >= 500:
		return &RetryableError{Err: fmt.Errorf("%w: status %d", ErrNetwork, resp.StatusCode)}
	default:
		return fmt.Errorf("%w: status %d", ErrNetwork, resp.StatusCode)
	}
}
