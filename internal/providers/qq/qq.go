// Package qq implements the QQ Music catalog adapter.
//
// QQ's legacy endpoints only speak JSONP: every payload arrives wrapped in a
// callback like "jsonp4(...)" and must be unwrapped before parsing. Search
// results carry a bitfield ("switch") describing what the viewer may do with
// the track; download URLs are short-lived signed URLs obtained from the
// vkey service, trying the 320kbps file first and falling back to 128kbps.
// All of that stays inside this package.
package qq

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/tidwall/gjson"

	httpx "github.com/fyxsky/songfetch/internal/http"
	"github.com/fyxsky/songfetch/internal/model"
	"github.com/fyxsky/songfetch/internal/provider"
)

const (
	searchURL = "http://i.y.qq.com/s.music/fcgi-bin/search_for_qq_cp"
	lyricURL  = "https://c.y.qq.com/lyric/fcgi-bin/fcg_query_lyric_new.fcg"
	vkeyURL   = "https://u.y.qq.com/cgi-bin/musicu.fcg"

	idPrefix = "qqtrack_"
)

var headers = httpx.Headers{"Referer": "https://y.qq.com/"}

// Provider is the QQ Music adapter.
type Provider struct {
	client *httpx.Client
}

// New creates the adapter on a shared HTTP client.
func New(client *httpx.Client) *Provider {
	return &Provider{client: client}
}

func (p *Provider) Name() string { return model.SourceQQ }

// Search queries the legacy JSONP search endpoint.
func (p *Provider) Search(ctx context.Context, keyword string) ([]model.Candidate, error) {
	u := searchURL +
		"?g_tk=938407465&uin=0&format=jsonp&inCharset=utf-8&outCharset=utf-8" +
		"&notice=0&platform=h5&needNewCode=1&zhidaqu=1&catZhida=1" +
		"&t=0&flag=1&ie=utf-8&sem=1&aggr=0&perpage=20&n=20&p=1" +
		"&remoteplace=txt.mqq.all&jsonpCallback=jsonp4&w=" + url.QueryEscape(keyword)

	raw, err := p.client.GetString(ctx, u, headers)
	if err != nil {
		return nil, err
	}
	inner, err := httpx.StripJSONP(raw)
	if err != nil {
		return nil, fmt.Errorf("qq: search payload: %w", err)
	}

	var candidates []model.Candidate
	for _, song := range gjson.Get(inner, "data.song.list").Array() {
		candidates = append(candidates, convertSong(song))
	}
	return candidates, nil
}

func convertSong(song gjson.Result) model.Candidate {
	mid := song.Get("songmid").String()
	var artists []string
	for _, s := range song.Get("singer").Array() {
		if name := s.Get("name").String(); name != "" {
			artists = append(artists, name)
		}
	}
	return model.Candidate{
		ID:           idPrefix + mid,
		Title:        song.Get("songname").String(),
		Artists:      artists,
		Album:        song.Get("albumname").String(),
		AlbumArtURL:  albumArtURL(song.Get("albummid").String()),
		Source:       model.SourceQQ,
		SourceURL:    "http://y.qq.com/#type=song&mid=" + mid + "&tpl=yqq_song_detail",
		PlayableHint: playableFromSwitch(song.Get("switch").Int()),
	}
}

// albumArtURL derives the cover URL from the album mid: the image host
// shards by the mid's last two characters.
func albumArtURL(albumMid string) string {
	if len(albumMid) < 2 {
		return ""
	}
	return fmt.Sprintf("http://imgcache.qq.com/music/photo/mid_album_300/%c/%c/%s.jpg",
		albumMid[len(albumMid)-2], albumMid[len(albumMid)-1], albumMid)
}

// playableFromSwitch reads the play flag out of the permission bitfield.
// Bit 0 (after dropping the lowest marker bit) is "play_lq"; a track the
// viewer cannot even low-quality-play is certainly not downloadable.
func playableFromSwitch(sw int64) bool {
	return (sw>>1)&1 == 1
}

// Lyric fetches the base64-encoded LRC lyric.
func (p *Provider) Lyric(ctx context.Context, trackID string) (string, error) {
	u := lyricURL + "?format=json&nobase64=0&songmid=" + url.QueryEscape(rawOf(trackID))
	res, err := p.client.GetJSON(ctx, u, headers)
	if err != nil {
		return "", err
	}
	encoded := res.Get("lyric").String()
	if encoded == "" {
		return "", nil
	}
	decoded, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", fmt.Errorf("qq: lyric decode: %w", err)
	}
	return string(decoded), nil
}

// vkeyRequest is the musicu.fcg envelope asking for signed URLs of the
// 320kbps and 128kbps files of one song.
func vkeyRequest(mid string) string {
	req := map[string]any{
		"req_0": map[string]any{
			"module": "vkey.GetVkeyServer",
			"method": "CgiGetVkey",
			"param": map[string]any{
				"guid":     "10000",
				"songmid":  []string{mid, mid},
				"songtype": []int{0, 0},
				"uin":      "0",
				"loginflag": 1,
				"platform": "20",
				"filename": []string{
					"M800" + mid + mid + ".mp3",
					"M500" + mid + mid + ".mp3",
				},
			},
		},
		"comm": map[string]any{"uin": 0, "format": "json", "ct": 20, "cv": 0},
	}
	data, _ := json.Marshal(req)
	return string(data)
}

// ResolveDownloadURL asks the vkey service for a signed URL. An empty purl
// for both qualities means the track is VIP-restricted.
func (p *Provider) ResolveDownloadURL(ctx context.Context, trackID string) (string, error) {
	mid := rawOf(trackID)
	u := vkeyURL + "?loginUin=0&hostUin=0&format=json&inCharset=utf8&outCharset=utf-8&data=" +
		url.QueryEscape(vkeyRequest(mid))

	res, err := p.client.GetJSON(ctx, u, headers)
	if err != nil {
		return "", err
	}

	host := res.Get("req_0.data.sip.0").String()
	if host == "" {
		host = "http://dl.stream.qqmusic.qq.com/"
	}
	for _, info := range res.Get("req_0.data.midurlinfo").Array() {
		if purl := info.Get("purl").String(); purl != "" {
			return host + purl, nil
		}
	}
	return "", provider.ErrNotPlayable
}

// FetchAudio downloads the audio from the signed URL.
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
