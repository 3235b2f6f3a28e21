package warmer

import (
	"context"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"digests-app-cache/core/cache"
	"digests-app-cache/core/interfaces"
	"digests-app-cache/core/services"
)

const testFeedURL = "https://example.com/feed.xml"

const testFeedXML = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
  <channel>
    <title>Example Feed</title>
    <link>https://example.com</link>
    <item>
      <title>With thumbnail</title>
      <link>https://example.com/with-thumb</link>
      <enclosure url="https://example.com/thumb.png" type="image/png" length="9"/>
    </item>
    <item>
      <title>Without thumbnail</title>
      <link>https://example.com/without-thumb</link>
    </item>
  </channel>
</rss>`

type nopLogger struct{}

func (nopLogger) Debug(msg string, fields map[string]interface{}) {}
func (nopLogger) Info(msg string, fields map[string]interface{})  {}
func (nopLogger) Warn(msg string, fields map[string]interface{})  {}
func (nopLogger) Error(msg string, fields map[string]interface{}) {}

type fakeResponse struct {
	status  int
	body    string
	headers map[string]string
}

func (r *fakeResponse) StatusCode() int     { return r.status }
func (r *fakeResponse) Body() io.ReadCloser { return io.NopCloser(strings.NewReader(r.body)) }
func (r *fakeResponse) Header(key string) string {
	return r.headers[key]
}

// fakeHTTPClient serves the test feed and a single image with ETag
// revalidation, mimicking an origin that answers 304 on a match.
type fakeHTTPClient struct {
	imageETag        string
	imageBody        string
	imageFetches     int
	notModifiedHits  int
	scrapeResponses  map[string]*fakeResponse
}

func (c *fakeHTTPClient) Get(ctx context.Context, url string) (interfaces.Response, error) {
	if url == testFeedURL {
		return &fakeResponse{status: http.StatusOK, body: testFeedXML}, nil
	}
	if resp, ok := c.scrapeResponses[url]; ok {
		return resp, nil
	}
	return &fakeResponse{status: http.StatusNotFound}, nil
}

func (c *fakeHTTPClient) ConditionalGet(ctx context.Context, url, etag, lastModified string) (interfaces.Response, error) {
	if url != "https://example.com/thumb.png" {
		return &fakeResponse{status: http.StatusNotFound}, nil
	}
	if etag != "" && etag == c.imageETag {
		c.notModifiedHits++
		return &fakeResponse{status: http.StatusNotModified}, nil
	}
	c.imageFetches++
	return &fakeResponse{
		status: http.StatusOK,
		body:   c.imageBody,
		headers: map[string]string{
			"ETag":         c.imageETag,
			"Content-Type": "image/png",
		},
	}, nil
}

func newTestWarmer(t *testing.T, client *fakeHTTPClient) (*Warmer, *cache.DiskCache) {
	t.Helper()

	diskCache, err := cache.NewDiskCache(t.TempDir(), cache.Options{}, nopLogger{})
	require.NoError(t, err)
	t.Cleanup(func() { diskCache.Close() })

	deps := interfaces.Dependencies{
		Cache:      diskCache,
		HTTPClient: client,
		Logger:     nopLogger{},
	}
	thumbnails := services.NewThumbnailService(deps)

	// High rate so tests do not sleep on the limiter.
	w := New(deps, thumbnails, nil, Config{RequestsPerSecond: 1000})
	return w, diskCache
}

func TestWarmFeed_CachesThumbnails(t *testing.T) {
	client := &fakeHTTPClient{imageETag: `"v1"`, imageBody: "png-bytes"}
	w, diskCache := newTestWarmer(t, client)

	stats, err := w.WarmFeed(context.Background(), testFeedURL)

	require.NoError(t, err)
	assert.Equal(t, 2, stats.Articles)
	assert.Equal(t, 1, stats.Fetched)
	assert.Equal(t, 1, stats.Skipped)
	assert.Equal(t, 0, stats.Failed)

	p := diskCache.CachedPath("https://example.com/thumb.png")
	require.NotEmpty(t, p)
	assert.True(t, strings.HasSuffix(p, ".png"))
}

func TestWarmFeed_RevalidatesWith304(t *testing.T) {
	client := &fakeHTTPClient{imageETag: `"v1"`, imageBody: "png-bytes"}
	w, diskCache := newTestWarmer(t, client)
	ctx := context.Background()

	_, err := w.WarmFeed(ctx, testFeedURL)
	require.NoError(t, err)

	stats, err := w.WarmFeed(ctx, testFeedURL)
	require.NoError(t, err)

	assert.Equal(t, 1, stats.NotModified, "second run should revalidate")
	assert.Equal(t, 0, stats.Fetched)
	assert.Equal(t, 1, client.imageFetches, "image body should be downloaded once")
	assert.Equal(t, 1, client.notModifiedHits)

	// The cached copy survives the 304.
	assert.NotEmpty(t, diskCache.CachedPath("https://example.com/thumb.png"))
}

func TestWarmFeed_FeedFetchFailure(t *testing.T) {
	client := &fakeHTTPClient{}
	w, _ := newTestWarmer(t, client)

	_, err := w.WarmFeed(context.Background(), "https://example.com/missing.xml")

	assert.Error(t, err)
}

func TestWarmFeed_UnparsableFeed(t *testing.T) {
	client := &fakeHTTPClient{scrapeResponses: map[string]*fakeResponse{
		"https://example.com/bad.xml": {status: http.StatusOK, body: "not a feed"},
	}}
	w, _ := newTestWarmer(t, client)

	_, err := w.WarmFeed(context.Background(), "https://example.com/bad.xml")

	assert.Error(t, err)
}
