// Package http provides the shared HTTP client used by all catalog adapters.
//
// The Client in this package handles:
//   - The browser User-Agent the catalogs expect
//   - Per-request Referer/Origin headers (several catalogs reject requests
//     without them)
//   - A shared cookie jar (Kugou hands out session cookies on first contact)
//   - A rate limiter gating every outgoing request
//   - Timeout handling via per-call contexts
//
// # Basic Usage
//
//	client := http.NewClient(rate.NewLimiter(rate.Limit(10), 5))
//
//	// Fetch a JSON API response
//	result, err := client.GetJSON(ctx, searchURL, http.Headers{"Referer": "https://music.163.com/"})
//	songs := result.Get("result.songs").Array()
//
//	// Download an audio payload into memory
//	audio, err := client.DownloadBytes(ctx, mp3URL, nil)
//
// Responses are parsed with gjson because the catalog payloads are deeply
// nested and loosely structured; adapters pick out the handful of fields
// they need without mirroring the whole schema in Go types.
package http
