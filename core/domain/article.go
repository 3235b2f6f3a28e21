// ABOUTME: Article domain model represents one article tracked by the cache
// ABOUTME: Provides validation to ensure an article has required fields

package domain

import "time"

// Article represents a single article whose thumbnail and viewed state
// the cache tracks
type Article struct {
	// Title is the article's headline
	Title string

	// Link is the URL to the full article
	Link string

	// Thumbnail is the resolved thumbnail image URL, if any
	Thumbnail string

	// Published is when the article was published
	Published *time.Time
}

// IsValid checks if the article has all required fields
func (a *Article) IsValid() bool {
	if a.Title == "" {
		return false
	}

	if a.Link == "" {
		return false
	}

	return true
}

// RGBColor represents an RGB color value
type RGBColor struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
}
