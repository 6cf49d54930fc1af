package audio

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/fyxsky/songfetch/internal/model"
)

// PlaylistCreator generates an M3U playlist for the tracks a run wrote
// to the local downloads directory.
//
// Track paths in the playlist are relative (just the filename), assuming
// the playlist file is written into the downloads directory itself.
//
// Example:
//
//	creator := NewPlaylistCreator(true)
//	content := creator.CreatePlaylist(rows)
//	os.WriteFile(filepath.Join(dir, "songfetch.m3u"), []byte(content), 0o644)
//
//	// Result:
//	// #EXTM3U
//	// #EXTINF:-1,周杰伦 - 晴天
//	// 晴天-周杰伦.mp3
type PlaylistCreator struct {
	extended bool // include #EXTINF lines with artist/title info
}

// NewPlaylistCreator creates a new PlaylistCreator.
//
// When extended is true the playlist carries #EXTINF lines. Catalog
// search results do not expose a reliable duration, so the duration
// field is written as -1 (unknown) per the extended M3U convention.
func NewPlaylistCreator(extended bool) *PlaylistCreator {
	return &PlaylistCreator{extended: extended}
}

// CreatePlaylist generates M3U content listing every row that finished
// with a local result file. Rows that failed, were skipped, or were
// delivered to an archive or upload endpoint are left out.
func (p *PlaylistCreator) CreatePlaylist(rows []model.QueryRow) string {
	var sb strings.Builder

	if p.extended {
		sb.WriteString("#EXTM3U\n")
	}

	for _, row := range rows {
		if row.Status != model.StatusDone || row.ResultLocation == "" {
			continue
		}
		if p.extended {
			sb.WriteString(fmt.Sprintf("#EXTINF:-1,%s - %s\n", row.Artist, row.Title))
		}
		sb.WriteString(filepath.Base(row.ResultLocation) + "\n")
	}

	return sb.String()
}
