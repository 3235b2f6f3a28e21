// ABOUTME: Thumbnail discovery service resolves a thumbnail URL for a feed item
// ABOUTME: Checks enclosures, inline content, then scrapes the article page for og:image

package services

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"
	gocache "github.com/patrickmn/go-cache"

	"digests-app-cache/core/interfaces"
)

const (
	thumbnailMemoTTL     = 24 * time.Hour
	thumbnailMemoCleanup = 10 * time.Minute
)

// ThumbnailService resolves the thumbnail image URL for an article.
// Results are memoized per article link so repeated warm runs do not
// re-scrape unchanged pages.
type ThumbnailService struct {
	deps interfaces.Dependencies
	memo *gocache.Cache
}

// NewThumbnailService creates a new thumbnail discovery service
func NewThumbnailService(deps interfaces.Dependencies) *ThumbnailService {
	return &ThumbnailService{
		deps: deps,
		memo: gocache.New(thumbnailMemoTTL, thumbnailMemoCleanup),
	}
}

// FindThumbnail resolves the thumbnail URL for a feed item. Sources are
// tried in order: image enclosures, the item's declared image, the
// first inline image in the item content, and finally the article page
// itself (og:image, twitter:image, then the first content image).
// Returns an empty string when no thumbnail can be found.
func (s *ThumbnailService) FindThumbnail(ctx context.Context, item *gofeed.Item) string {
	if item == nil {
		return ""
	}

	if item.Link != "" {
		if cached, ok := s.memo.Get(item.Link); ok {
			return cached.(string)
		}
	}

	thumbnail := thumbnailFromEnclosures(item.Enclosures)

	if thumbnail == "" && item.Image != nil {
		thumbnail = item.Image.URL
	}

	if thumbnail == "" {
		thumbnail = thumbnailFromContent(item.Content)
	}

	if thumbnail == "" && item.Link != "" {
		scraped, err := s.scrapeArticlePage(ctx, item.Link)
		if err != nil {
			s.deps.Logger.Debug("Failed to scrape article page for thumbnail", map[string]interface{}{
				"url":   item.Link,
				"error": err.Error(),
			})
		}
		thumbnail = scraped
	}

	if item.Link != "" && thumbnail != "" {
		s.memo.Set(item.Link, thumbnail, gocache.DefaultExpiration)
	}

	return thumbnail
}

// thumbnailFromEnclosures returns the first image enclosure URL.
func thumbnailFromEnclosures(enclosures []*gofeed.Enclosure) string {
	for _, e := range enclosures {
		if e != nil && strings.HasPrefix(e.Type, "image/") {
			return e.URL
		}
	}
	return ""
}

// thumbnailFromContent returns the src of the first inline image in an
// HTML fragment.
func thumbnailFromContent(content string) string {
	if content == "" {
		return ""
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(content))
	if err != nil {
		return ""
	}

	if src, ok := doc.Find("img").First().Attr("src"); ok {
		return src
	}
	return ""
}

// scrapeArticlePage fetches the article and looks for a declared share
// image, falling back to the first image inside the article body.
func (s *ThumbnailService) scrapeArticlePage(ctx context.Context, pageURL string) (string, error) {
	resp, err := s.deps.HTTPClient.Get(ctx, pageURL)
	if err != nil {
		return "", err
	}
	body := resp.Body()
	defer body.Close()

	if resp.StatusCode() != http.StatusOK {
		return "", fmt.Errorf("unexpected status code: %d", resp.StatusCode())
	}

	doc, err := goquery.NewDocumentFromReader(body)
	if err != nil {
		return "", err
	}

	var found string
	doc.Find("meta").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		content, _ := sel.Attr("content")
		if content == "" {
			return true
		}
		property, _ := sel.Attr("property")
		name, _ := sel.Attr("name")
		switch {
		case property == "og:image", name == "twitter:image", name == "image":
			found = content
			return false
		}
		return true
	})

	if found == "" {
		if src, ok := doc.Find("article img, .content img").First().Attr("src"); ok {
			found = src
		}
	}

	if found == "" {
		return "", nil
	}
	return resolveURL(pageURL, found), nil
}

// resolveURL resolves a possibly relative image reference against the
// page it was found on.
func resolveURL(base, ref string) string {
	if strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") {
		return ref
	}

	baseURL, err := url.Parse(base)
	if err != nil {
		return ref
	}
	refURL, err := url.Parse(ref)
	if err != nil {
		return ref
	}
	return baseURL.ResolveReference(refURL).String()
}
