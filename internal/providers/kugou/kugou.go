// Package kugou implements the Kugou catalog adapter.
//
// Kugou identifies tracks by file hash rather than a numeric ID. Playback
// URLs come from the mobile play-info endpoint, which answers an empty URL
// for restricted tracks. Lyrics take two hops: a krcs search for an
// (id, accesskey) pair, then a download call that returns base64 LRC. The
// session cookies Kugou sets on first contact live in the shared client's
// cookie jar.
package kugou

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/url"
	"strings"

	httpx "github.com/fyxsky/songfetch/internal/http"
	"github.com/fyxsky/songfetch/internal/model"
	"github.com/fyxsky/songfetch/internal/provider"
)

const (
	searchURL    = "http://mobilecdn.kugou.com/api/v3/search/song"
	playInfoURL  = "http://m.kugou.com/app/i/getSongInfo.php"
	lyricSearch  = "http://krcs.kugou.com/search"
	lyricGet     = "http://lyrics.kugou.com/download"

	idPrefix   = "kgtrack_"
	searchSize = 30
)

var headers = httpx.Headers{"Referer": "http://m.kugou.com/"}

// Provider is the Kugou adapter.
type Provider struct {
	client *httpx.Client
}

// New creates the adapter on a shared HTTP client.
func New(client *httpx.Client) *Provider {
	return &Provider{client: client}
}

func (p *Provider) Name() string { return model.SourceKugou }

// Search queries the mobile search endpoint.
func (p *Provider) Search(ctx context.Context, keyword string) ([]model.Candidate, error) {
	u := fmt.Sprintf("%s?format=json&page=1&pagesize=%d&keyword=%s",
		searchURL, searchSize, url.QueryEscape(keyword))
	res, err := p.client.GetJSON(ctx, u, headers)
	if err != nil {
		return nil, err
	}

	var candidates []model.Candidate
	for _, song := range res.Get("data.info").Array() {
		hash := song.Get("hash").String()
		if hash == "" {
			continue
		}
		candidates = append(candidates, model.Candidate{
			ID:           idPrefix + hash,
			Title:        song.Get("songname").String(),
			Artists:      splitSingers(song.Get("singername").String()),
			Album:        song.Get("album_name").String(),
			Source:       model.SourceKugou,
			SourceURL:    "https://www.kugou.com/song/#hash=" + hash,
			PlayableHint: song.Get("privilege").Int() < 10,
		})
	}
	return candidates, nil
}

// splitSingers breaks Kugou's single "A、B" singer field into names.
func splitSingers(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.FieldsFunc(s, func(r rune) bool {
		return r == '、' || r == ','
	})
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

// Lyric resolves the (id, accesskey) pair for the track hash, then downloads
// the base64-encoded LRC content.
func (p *Provider) Lyric(ctx context.Context, trackID string) (string, error) {
	hash := rawOf(trackID)
	u := fmt.Sprintf("%s?ver=1&man=yes&client=mobi&hash=%s", lyricSearch, url.QueryEscape(hash))
	res, err := p.client.GetJSON(ctx, u, headers)
	if err != nil {
		return "", err
	}
	best := res.Get("candidates.0")
	if !best.Exists() {
		return "", nil
	}

	u = fmt.Sprintf("%s?ver=1&client=pc&fmt=lrc&charset=utf8&id=%s&accesskey=%s",
		lyricGet, best.Get("id").String(), best.Get("accesskey").String())
	res, err = p.client.GetJSON(ctx, u, headers)
	if err != nil {
		return "", err
	}
	encoded := res.Get("content").String()
	if encoded == "" {
		return "", nil
	}
	decoded, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", fmt.Errorf("kugou: lyric decode: %w", err)
	}
	return string(decoded), nil
}

// ResolveDownloadURL asks the play-info endpoint for the track's URL. An
// empty URL means the track is restricted.
func (p *Provider) ResolveDownloadURL(ctx context.Context, trackID string) (string, error) {
	u := fmt.Sprintf("%s?cmd=playInfo&hash=%s", playInfoURL, url.QueryEscape(rawOf(trackID)))
	res, err := p.client.GetJSON(ctx, u, headers)
	if err != nil {
		return "", err
	}
	playURL := res.Get("url").String()
	if playURL == "" {
		return "", provider.ErrNotPlayable
	}
	return playURL, nil
}

// Detail re-queries play info for album name and cover art; the search
// response has no usable cover URL.
func (p *Provider) Detail(ctx context.Context, trackID string) (model.Candidate, error) {
	u := fmt.Sprintf("%s?cmd=playInfo&hash=%s", playInfoURL, url.QueryEscape(rawOf(trackID)))
	res, err := p.client.GetJSON(ctx, u, headers)
	if err != nil {
		return model.Candidate{}, err
	}
	imgURL := res.Get("imgUrl").String()
	imgURL = strings.ReplaceAll(imgURL, "{size}", "400")
	return model.Candidate{
		ID:          trackID,
		Title:       res.Get("songName").String(),
		Artists:     splitSingers(res.Get("singerName").String()),
		Album:       res.Get("albumName").String(),
		AlbumArtURL: imgURL,
		Source:      model.SourceKugou,
	}, nil
}

// FetchAudio downloads the audio payload from the resolved play URL.
func (p *Provider) FetchAudio(ctx context.Context, trackID string) ([]byte, error) {
	u, err := p.ResolveDownloadURL(ctx, trackID)
	if err != nil {
		return nil, err
	}
	return p.client.DownloadBytes(ctx, u, headers)
}

func rawOf(trackID string) string {
	return strings.TrimPrefix(trackID, idPrefix)
}
