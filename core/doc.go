// Package core contains the business logic for the Digests article cache.
// It is designed to be framework-agnostic and can be used independently
// of any UI framework or infrastructure concerns.
//
// The core package is organized into several sub-packages:
//
// - domain: Contains pure domain models (Article, RGBColor)
// - cache: Disk-backed article cache (metadata, images, viewed state)
// - services: Thumbnail discovery and dominant color extraction
// - warmer: Feed-driven cache warming with conditional requests
// - errors: Custom error types for better error handling
// - interfaces: Contracts for external dependencies (cache, HTTP, logger)
//
// # Design Principles
//
// The core package follows clean architecture principles:
// - No external framework dependencies
// - All external dependencies are injected via interfaces
// - Business logic is testable in isolation
// - Domain models are free from persistence concerns
//
// # Usage Example
//
//	import (
//	    "digests-app-cache/core/cache"
//	    "digests-app-cache/core/interfaces"
//	)
//
//	// Open the cache once per process
//	articleCache, err := cache.NewDiskCache(dir, cache.DefaultOptions(), myLogger)
//	if err != nil {
//	    // handle error
//	}
//	defer articleCache.Close()
//
//	// Create dependencies
//	deps := interfaces.Dependencies{
//	    Cache:      articleCache, // implements interfaces.ArticleCache
//	    HTTPClient: myHTTPClient, // implements interfaces.HTTPClient
//	    Logger:     myLogger,     // implements interfaces.Logger
//	}
//
//	// Mark and query viewed state
//	err = articleCache.MarkViewed(ctx, "https://example.com/article")
//	seen := articleCache.IsViewed("https://example.com/article")
//
package core
