// Package catalog provides the remote fetch gateway for the product catalog.
//
// # Overview
//
// The package defines the Item record shared by every other layer and a
// small HTTP client that loads the full product list with one GET. The state
// container never sees HTTP: it consumes the Fetcher interface, which
// *Client implements and tests replace with FetcherFunc.
//
// # Endpoint
//
//   - GET <api_base>/products: JSON array of product records
//
// The default api_base is https://fakestoreapi.com. A bare host such as
// "localhost:8080" is promoted to https://; pass an explicit http:// URL for
// plain-text test servers.
//
// # Error Handling
//
// Every failure is returned as a wrapped error, never a panic:
//
//   - "rate limit: context canceled" when the caller gives up while throttled
//   - "execute request: dial tcp: connection refused"
//   - "api /products returned status 503"
//   - "decode response: record 3: missing id"
//
// The state container turns these strings into the rejected action's reason.
//
// # Record Decoding
//
// DecodeItems is strict about identity (id, title and price must be present)
// and lenient about ranges: negative prices become 0 and rating scores are
// clamped to [0,5]. Category and rating are optional.
//
// # Throttling
//
// Requests pass through a golang.org/x/time/rate limiter (2 rps, burst 2) so
// a held-down refresh key cannot hammer the public API.
package catalog
