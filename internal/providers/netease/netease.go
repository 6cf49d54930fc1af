// Package netease implements the NetEase Cloud Music catalog adapter.
//
// NetEase exposes plain JSON endpoints but requires a music.163.com Referer
// and signals restricted tracks indirectly: the public "outer" audio URL
// redirects to a 404 page, or answers with an HTML body instead of audio.
// The playability probe inspects exactly those two signals.
package netease

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/tidwall/gjson"

	httpx "github.com/fyxsky/songfetch/internal/http"
	"github.com/fyxsky/songfetch/internal/model"
	"github.com/fyxsky/songfetch/internal/provider"
)

const (
	searchURL = "https://music.163.com/api/search/get/"
	detailURL = "https://music.163.com/api/song/detail/"
	lyricURL  = "https://music.163.com/api/song/lyric"
	outerURL  = "https://music.163.com/song/media/outer/url"

	idPrefix    = "netrack_"
	searchLimit = 50
)

var headers = httpx.Headers{"Referer": "https://music.163.com/"}

// Provider is the NetEase adapter. It implements provider.Provider plus the
// optional playability-check and detail capabilities.
type Provider struct {
	client *httpx.Client
}

// New creates the adapter on a shared HTTP client.
func New(client *httpx.Client) *Provider {
	return &Provider{client: client}
}

func (p *Provider) Name() string { return model.SourceNetease }

// Search queries the keyword search endpoint and converts the songs to
// candidates.
func (p *Provider) Search(ctx context.Context, keyword string) ([]model.Candidate, error) {
	u := fmt.Sprintf("%s?s=%s&type=1&limit=%d", searchURL, url.QueryEscape(keyword), searchLimit)
	res, err := p.client.GetJSON(ctx, u, headers)
	if err != nil {
		return nil, err
	}

	var candidates []model.Candidate
	for _, song := range res.Get("result.songs").Array() {
		candidates = append(candidates, convertSong(song))
	}
	return candidates, nil
}

func convertSong(song gjson.Result) model.Candidate {
	rawID := song.Get("id").String()
	var artists []string
	for _, a := range song.Get("artists").Array() {
		if name := a.Get("name").String(); name != "" {
			artists = append(artists, name)
		}
	}
	return model.Candidate{
		ID:           idPrefix + rawID,
		Title:        song.Get("name").String(),
		Artists:      artists,
		Album:        song.Get("album.name").String(),
		AlbumArtURL:  song.Get("album.picUrl").String(),
		Source:       model.SourceNetease,
		SourceURL:    "https://music.163.com/#/song?id=" + rawID,
		PlayableHint: true,
	}
}

// Detail fetches album name and cover URL for a track; the search response
// often omits picUrl.
func (p *Provider) Detail(ctx context.Context, trackID string) (model.Candidate, error) {
	rawID := rawOf(trackID)
	u := fmt.Sprintf("%s?ids=%s&id=%s", detailURL, url.QueryEscape("["+rawID+"]"), rawID)
	res, err := p.client.GetJSON(ctx, u, headers)
	if err != nil {
		return model.Candidate{}, err
	}
	song := res.Get("songs.0")
	if !song.Exists() {
		return model.Candidate{}, fmt.Errorf("netease: no detail for %s", trackID)
	}
	return convertSong(song), nil
}

// Lyric fetches the LRC lyric text, "" when the track has none.
func (p *Provider) Lyric(ctx context.Context, trackID string) (string, error) {
	u := fmt.Sprintf("%s?id=%s&lv=1&kv=1&tv=-1", lyricURL, rawOf(trackID))
	res, err := p.client.GetJSON(ctx, u, headers)
	if err != nil {
		return "", err
	}
	return res.Get("lrc.lyric").String(), nil
}

// IsPlayable probes the outer audio URL with a tiny Range request. A
// redirect to the 404 page or an HTML content type means the track is
// restricted; some edge nodes answer audio/mp3, audio/mpeg or octet-stream,
// all of which count as playable.
func (p *Provider) IsPlayable(ctx context.Context, trackID string) (bool, error) {
	probe, err := p.client.Probe(ctx, p.audioURL(trackID), headers)
	if err != nil {
		return false, err
	}
	if !probe.OK {
		return false, nil
	}
	if strings.Contains(probe.FinalURL, "music.163.com/404") {
		return false, nil
	}
	if strings.Contains(probe.ContentType, "text/html") {
		return false, nil
	}
	return true, nil
}

// ResolveDownloadURL returns the outer audio URL after verifying the track
// is actually retrievable through it.
func (p *Provider) ResolveDownloadURL(ctx context.Context, trackID string) (string, error) {
	playable, err := p.IsPlayable(ctx, trackID)
	if err != nil {
		return "", err
	}
	if !playable {
		return "", provider.ErrNotPlayable
	}
	return p.audioURL(trackID), nil
}

// FetchAudio downloads the track audio. The outer URL only answers when the
// music.163.com Referer is present, so the download stays inside the adapter.
func (p *Provider) FetchAudio(ctx context.Context, trackID string) ([]byte, error) {
	u, err := p.ResolveDownloadURL(ctx, trackID)
	if err != nil {
		return nil, err
	}
	return p.client.DownloadBytes(ctx, u, headers)
}

func (p *Provider) audioURL(trackID string) string {
	return fmt.Sprintf("%s?id=%s.mp3", outerURL, rawOf(trackID))
}

func rawOf(trackID string) string {
	return strings.TrimPrefix(trackID, idPrefix)
}
