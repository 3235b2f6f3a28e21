// Package infrastructure provides concrete implementations of the interfaces
// defined in the core package. These implementations handle external concerns
// such as HTTP communication and logging.
//
// The infrastructure package is organized by technical concern:
//
// - http/retryable: HTTP client with retry logic and conditional requests
// - logger/logrus: Structured logger implementation backed by logrus
//
// # Design Philosophy
//
// Infrastructure components are designed to be:
// - Pluggable: Easy to swap implementations
// - Configurable: Accept configuration objects
// - Testable: Include unit tests against local test servers
// - Production-ready: Include retries, timeouts, and error handling
//
// # HTTP Client
//
// The HTTP client includes automatic retry logic for transient failures
// and can carry cache validators so unchanged resources cost a 304
// instead of a download:
//
//	client := retryable.NewClient(30 * time.Second)
//	resp, err := client.ConditionalGet(ctx, url, etag, lastModified)
//	if err != nil {
//	    // Handle error
//	}
//	defer resp.Body().Close()
//
// # Logger
//
// The logger supports structured logging with fields:
//
//	logger := logrus.NewLogger("info")
//	logger.Info("Cached thumbnail", map[string]interface{}{
//	    "url":  "https://example.com/article",
//	    "size": 48213,
//	})
//
package infrastructure
