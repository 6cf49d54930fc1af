package output

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/tidwall/gjson"
)

// StorageGateway is the remote store consumed by upload mode. Upload
// returns the retrieval location of the stored payload; Fetch retrieves
// a previously uploaded payload by that location.
type StorageGateway interface {
	Upload(ctx context.Context, payload []byte, filename string) (string, error)
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// Uploader delivers each completed item individually through a storage
// gateway. A rejected upload fails only the row that produced it.
type Uploader struct {
	gateway StorageGateway
}

// NewUploader creates an Uploader backed by the given gateway.
func NewUploader(gateway StorageGateway) *Uploader {
	return &Uploader{gateway: gateway}
}

// Deliver uploads the item and returns its retrieval location.
func (u *Uploader) Deliver(ctx context.Context, item Item) (string, error) {
	return u.gateway.Upload(ctx, item.Payload, item.FileName)
}

// Close is a no-op: uploads are not buffered.
func (u *Uploader) Close(context.Context) error {
	return nil
}

// HTTPGateway talks to a storage endpoint over plain HTTP: a multipart
// POST per upload, a GET per fetch. The endpoint's JSON response must
// carry the retrieval location in a top-level "url" field.
type HTTPGateway struct {
	endpoint string
	client   *http.Client
}

// NewHTTPGateway creates a gateway for the given upload endpoint.
func NewHTTPGateway(endpoint string) *HTTPGateway {
	return &HTTPGateway{
		endpoint: endpoint,
		client:   &http.Client{Timeout: 120 * time.Second},
	}
}

// Upload POSTs the payload as a multipart file field named "file".
func (g *HTTPGateway) Upload(ctx context.Context, payload []byte, filename string) (string, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return "", err
	}
	if _, err := part.Write(payload); err != nil {
		return "", err
	}
	if err := mw.Close(); err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.endpoint, &body)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := g.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("output: upload %s: unexpected status %d", filename, resp.StatusCode)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	location := gjson.GetBytes(raw, "url").String()
	if location == "" {
		return "", fmt.Errorf("output: upload %s: response carries no url", filename)
	}
	return location, nil
}

// Fetch retrieves a previously uploaded payload.
func (g *HTTPGateway) Fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := g.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("output: fetch %s: unexpected status %d", url, resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}
