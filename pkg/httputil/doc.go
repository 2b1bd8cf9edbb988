// Package httputil fetches remote source documents for the conversion
// pipeline.
//
// # Overview
//
// This package provides the HTTP infrastructure behind `quill convert <url>`:
//
//   - [Client]: cached, retrying document fetches
//   - [Retry]: automatic retry with exponential backoff
//
// # Fetching
//
// [Client.Fetch] retrieves a document by URL, consulting the configured
// [cache.Cache] first. Responses are cached under keys from the configured
// [cache.Keyer], so repeated conversions of the same URL skip the network:
//
//	client := httputil.NewClient(fileCache, nil)
//	data, err := client.Fetch(ctx, "https://example.com/config.toml", false)
//
// Pass refresh=true to bypass the cache, as `quill convert --refresh` does.
//
// # Retry
//
// [Retry] re-runs an operation for transient failures:
//
//   - Network errors
//   - 5xx server errors
//
// Only errors wrapped in [RetryableError] trigger retries; 404s and rate
// limits fail immediately so the caller can report them. The delay doubles
// after each failed attempt.
//
// # Configuration
//
// Default settings are suitable for most use cases:
//
//   - Request timeout: 30 seconds
//   - Max retries: 3
//   - Base backoff: 1 second
//
// [cache.Cache] and [cache.Keyer] are defined in pkg/cache; pass nil to
// NewClient to fetch without caching.
package httputil
