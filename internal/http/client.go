package http

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/tidwall/gjson"
	"golang.org/x/time/rate"
)

// userAgent imitates a desktop browser; the catalogs block obvious bots.
const userAgent = "Mozilla/5.0"

// Headers carries per-request headers such as Referer or Range.
type Headers map[string]string

// Client wraps HTTP operations with catalog-friendly configuration: browser
// User-Agent, shared cookie jar, request rate limiting and a hard timeout.
//
// A single Client is shared by every adapter and worker; it is safe for
// concurrent use.
type Client struct {
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewClient creates a client with a fresh cookie jar. A nil limiter disables
// rate limiting.
func NewClient(limiter *rate.Limiter) *Client {
	jar, _ := cookiejar.New(nil)
	return &Client{
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
			Jar:     jar,
		},
		limiter: limiter,
	}
}

func (c *Client) do(ctx context.Context, method, rawURL string, body io.Reader, headers Headers) (*http.Response, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, rawURL, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	return c.httpClient.Do(req)
}

// Get performs a GET request and returns the response body as bytes.
func (c *Client) Get(ctx context.Context, url string, headers Headers) ([]byte, error) {
	resp, err := c.do(ctx, http.MethodGet, url, nil, headers)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP %d: %s", resp.StatusCode, resp.Status)
	}
	return io.ReadAll(resp.Body)
}

// GetString performs a GET request and returns the response body as a
// string. Useful for callback-wrapped (JSONP) payloads that need unwrapping
// before parsing.
func (c *Client) GetString(ctx context.Context, url string, headers Headers) (string, error) {
	body, err := c.Get(ctx, url, headers)
	if err != nil {
		return "", err
	}
	return string(body), nil
}

// GetJSON performs a GET request and parses the body as JSON.
func (c *Client) GetJSON(ctx context.Context, url string, headers Headers) (gjson.Result, error) {
	body, err := c.Get(ctx, url, headers)
	if err != nil {
		return gjson.Result{}, err
	}
	if !gjson.ValidBytes(body) {
		return gjson.Result{}, fmt.Errorf("invalid JSON from %s", url)
	}
	return gjson.ParseBytes(body), nil
}

// PostForm sends an application/x-www-form-urlencoded POST and parses the
// response as JSON.
func (c *Client) PostForm(ctx context.Context, rawURL string, form url.Values, headers Headers) (gjson.Result, error) {
	if headers == nil {
		headers = Headers{}
	}
	headers["Content-Type"] = "application/x-www-form-urlencoded"

	resp, err := c.do(ctx, http.MethodPost, rawURL, strings.NewReader(form.Encode()), headers)
	if err != nil {
		return gjson.Result{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return gjson.Result{}, fmt.Errorf("HTTP %d: %s", resp.StatusCode, resp.Status)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return gjson.Result{}, err
	}
	if !gjson.ValidBytes(body) {
		return gjson.Result{}, fmt.Errorf("invalid JSON from %s", rawURL)
	}
	return gjson.ParseBytes(body), nil
}

// DownloadBytes downloads a file into memory, following redirects. Audio
// payloads flow through tagging and archiving in memory, so there is no
// stream-to-disk variant.
func (c *Client) DownloadBytes(ctx context.Context, url string, headers Headers) ([]byte, error) {
	return c.Get(ctx, url, headers)
}

// ProbeResult describes the outcome of a lightweight retrievability probe.
type ProbeResult struct {
	// FinalURL is where the request landed after redirects.
	FinalURL string

	// ContentType is the response Content-Type, lower-cased.
	ContentType string

	// OK is true when the response status was 2xx.
	OK bool
}

// Probe issues a GET with a 2-byte Range, following redirects, and reports
// where the request ended up. Catalogs signal "not playable" by redirecting
// to an error page or answering with an HTML body instead of audio, so
// callers inspect FinalURL and ContentType rather than the payload.
func (c *Client) Probe(ctx context.Context, url string, headers Headers) (ProbeResult, error) {
	if headers == nil {
		headers = Headers{}
	}
	headers["Range"] = "bytes=0-1"

	resp, err := c.do(ctx, http.MethodGet, url, nil, headers)
	if err != nil {
		return ProbeResult{}, err
	}
	defer func() {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 1024))
		resp.Body.Close()
	}()

	return ProbeResult{
		FinalURL:    resp.Request.URL.String(),
		ContentType: strings.ToLower(resp.Header.Get("Content-Type")),
		OK:          resp.StatusCode >= 200 && resp.StatusCode < 300,
	}, nil
}

// StripJSONP removes a JSONP callback wrapper like "jsonp4(...)" and returns
// the inner JSON. Some legacy catalog endpoints only speak JSONP.
func StripJSONP(payload string) (string, error) {
	open := strings.Index(payload, "(")
	end := strings.LastIndex(payload, ")")
	if open < 0 || end <= open {
		return "", fmt.Errorf("no JSONP wrapper in payload")
	}
	inner := payload[open+1 : end]
	if !gjson.Valid(inner) {
		return "", fmt.Errorf("JSONP payload is not valid JSON")
	}
	return inner, nil
}
