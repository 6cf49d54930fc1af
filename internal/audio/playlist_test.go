package audio

import (
	"strings"
	"testing"

	"github.com/fyxsky/songfetch/internal/model"
)

func TestPlaylistCreator_M3U(t *testing.T) {
	rows := createTestRows()
	creator := NewPlaylistCreator(false)

	content := creator.CreatePlaylist(rows)

	if !strings.Contains(content, "晴天-周杰伦.mp3") {
		t.Error("M3U should contain the completed track filename")
	}
	if strings.Contains(content, "#EXTM3U") {
		t.Error("plain M3U should not carry the extended header")
	}
}

func TestPlaylistCreator_M3UExtended(t *testing.T) {
	rows := createTestRows()
	creator := NewPlaylistCreator(true)

	content := creator.CreatePlaylist(rows)

	if !strings.HasPrefix(content, "#EXTM3U") {
		t.Error("Extended M3U should start with #EXTM3U")
	}
	if !strings.Contains(content, "#EXTINF:-1,周杰伦 - 晴天") {
		t.Error("Extended M3U should contain #EXTINF with artist and title")
	}
}

func TestPlaylistCreator_SkipsNonLocalRows(t *testing.T) {
	rows := createTestRows()
	creator := NewPlaylistCreator(false)

	content := creator.CreatePlaylist(rows)

	if strings.Contains(content, "失败的歌") {
		t.Error("failed rows should not appear in the playlist")
	}
	if strings.Contains(content, "无路径") {
		t.Error("done rows without a result location should not appear")
	}
}

func TestPlaylistCreator_RelativePaths(t *testing.T) {
	rows := createTestRows()
	creator := NewPlaylistCreator(false)

	content := creator.CreatePlaylist(rows)

	if strings.Contains(content, "/music/") {
		t.Error("playlist entries should be relative to the downloads directory")
	}
}

func createTestRows() []model.QueryRow {
	return []model.QueryRow{
		{
			Index:          0,
			Title:          "晴天",
			Artist:         "周杰伦",
			Status:         model.StatusDone,
			ResultLocation: "/music/晴天-周杰伦.mp3",
		},
		{
			Index:   1,
			Title:   "失败的歌",
			Artist:  "某人",
			Status:  model.StatusFailed,
			Message: "搜索不到同名歌曲",
		},
		{
			Index:  2,
			Title:  "无路径",
			Artist: "某人",
			Status: model.StatusDone,
		},
	}
}
