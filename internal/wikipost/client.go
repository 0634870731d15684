package wikipost

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/thaigeo/postal/internal/observability"
)

// SourceURL is the Thai Wikipedia postal-code index page.
const SourceURL = "https://th.wikipedia.org/wiki/%E0%B8%A3%E0%B8%B2%E0%B8%A2%E0%B8%81%E0%B8%B2%E0%B8%A3%E0%B8%A3%E0%B8%AB%E0%B8%B1%E0%B8%AA%E0%B9%84%E0%B8%9B%E0%B8%A3%E0%B8%A9%E0%B8%93%E0%B8%B5%E0%B8%A2%E0%B9%8C%E0%B9%84%E0%B8%97%E0%B8%A2"

// CachePrefix names the cached copy of the source page.
const CachePrefix = "wikipedia-postal-codes"

// ErrFetchFailure marks a non-success response from the source. Fatal: a
// partial or error page must never be parsed as data.
var ErrFetchFailure = errors.New("wikipost: fetch failed")

// Client fetches the source document, preferring the on-disk cache. With
// Offline set it never touches the network and fails on a cache miss.
type Client struct {
	http    *http.Client
	cache   *Cache
	url     string
	offline bool
	logger  *observability.Logger
}

// ClientOptions configures a Client.
type ClientOptions struct {
	URL     string
	Offline bool
	Timeout time.Duration
}

// NewClient creates a client over the given cache.
func NewClient(cache *Cache, opts ClientOptions, logger *observability.Logger) *Client {
	url := opts.URL
	if url == "" {
		url = SourceURL
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		http:    &http.Client{Timeout: timeout},
		cache:   cache,
		url:     url,
		offline: opts.Offline,
		logger:  logger.WithComponent("wikipost"),
	}
}

// FetchHTML returns the source document, from cache when a valid copy
// exists, otherwise fetched and persisted.
func (c *Client) FetchHTML(ctx context.Context) ([]byte, error) {
	data, ok, err := c.cache.Get(CachePrefix)
	if err != nil {
		return nil, err
	}
	if ok {
		c.logger.Info().Int("bytes", len(data)).Msg("using cached document")
		return data, nil
	}

	if c.offline {
		return nil, fmt.Errorf("%w: no valid cached copy and offline mode is on", ErrFetchFailure)
	}

	c.logger.Info().Str("url", c.url).Msg("fetching source document")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetchFailure, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: status %s", ErrFetchFailure, resp.Status)
	}

	data, err = io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if err := c.cache.Put(CachePrefix, data); err != nil {
		return nil, err
	}
	return data, nil
}
