// ABOUTME: HTTP client implementation built on go-retryablehttp with exponential backoff
// ABOUTME: Adds conditional-request support carrying ETag and Last-Modified validators

package retryable

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/hashicorp/go-retryablehttp"

	"digests-app-cache/core/interfaces"
)

const (
	defaultRetryMax = 3
	userAgent       = "DigestsCache/1.0"
)

// Client implements interfaces.HTTPClient on top of retryablehttp,
// which retries transient failures with exponential backoff.
type Client struct {
	inner *retryablehttp.Client
}

// NewClient creates a retrying HTTP client with the specified timeout
func NewClient(timeout time.Duration) *Client {
	r := retryablehttp.NewClient()
	r.RetryMax = defaultRetryMax
	r.HTTPClient.Timeout = timeout
	r.Logger = nil

	return &Client{inner: r}
}

// Get performs an HTTP GET request
func (c *Client) Get(ctx context.Context, url string) (interfaces.Response, error) {
	return c.do(ctx, url, "", "")
}

// ConditionalGet performs an HTTP GET request carrying cache validators
// so the origin can answer 304 Not Modified.
func (c *Client) ConditionalGet(ctx context.Context, url, etag, lastModified string) (interfaces.Response, error) {
	return c.do(ctx, url, etag, lastModified)
}

func (c *Client) do(ctx context.Context, url, etag, lastModified string) (interfaces.Response, error) {
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	req.Header.Set("User-Agent", userAgent)
	if etag != "" {
		req.Header.Set("If-None-Match", etag)
	}
	if lastModified != "" {
		req.Header.Set("If-Modified-Since", lastModified)
	}

	resp, err := c.inner.Do(req)
	if err != nil {
		return nil, err
	}

	return &httpResponse{resp: resp}, nil
}

// httpResponse wraps http.Response to implement the Response interface
type httpResponse struct {
	resp *http.Response
}

// StatusCode returns the HTTP status code
func (r *httpResponse) StatusCode() int {
	return r.resp.StatusCode
}

// Body returns the response body
func (r *httpResponse) Body() io.ReadCloser {
	return r.resp.Body
}

// Header returns the value of the specified header
func (r *httpResponse) Header(key string) string {
	return r.resp.Header.Get(key)
}
