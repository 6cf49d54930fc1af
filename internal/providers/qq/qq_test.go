package qq

import (
	"strings"
	"testing"

	"github.com/tidwall/gjson"

	"github.com/fyxsky/songfetch/internal/model"
)

const mockSong = `{
	"songmid": "0039MnYb0qxYhV",
	"songname": "晴天",
	"singer": [{"name": "周杰伦", "mid": "0025NhlN2yWrP4"}],
	"albumname": "叶惠美",
	"albummid": "000MkMni19ClKG",
	"switch": 17413955
}`

func TestConvertSong(t *testing.T) {
	c := convertSong(gjson.Parse(mockSong))

	if c.ID != "qqtrack_0039MnYb0qxYhV" {
		t.Errorf("ID = %q", c.ID)
	}
	if c.Title != "晴天" || c.Album != "叶惠美" {
		t.Errorf("Title/Album = %q/%q", c.Title, c.Album)
	}
	if c.Source != model.SourceQQ {
		t.Errorf("Source = %q", c.Source)
	}
	if !c.PlayableHint {
		t.Error("switch 17413955 has the play bit set")
	}
	if !strings.HasSuffix(c.AlbumArtURL, "/K/G/000MkMni19ClKG.jpg") {
		t.Errorf("AlbumArtURL = %q, want imgcache shard by last two chars", c.AlbumArtURL)
	}
}

func TestPlayableFromSwitch(t *testing.T) {
	tests := []struct {
		sw   int64
		want bool
	}{
		{0b10, true},   // play_lq set
		{0b01, false},  // only the marker bit
		{0, false},
		{17413955, true},
	}
	for _, tt := range tests {
		if got := playableFromSwitch(tt.sw); got != tt.want {
			t.Errorf("playableFromSwitch(%d) = %v, want %v", tt.sw, got, tt.want)
		}
	}
}

func TestAlbumArtURL(t *testing.T) {
	if got := albumArtURL(""); got != "" {
		t.Errorf("empty mid should yield no URL, got %q", got)
	}
}

func TestVkeyRequest(t *testing.T) {
	req := gjson.Parse(vkeyRequest("0039MnYb0qxYhV"))

	if got := req.Get("req_0.module").String(); got != "vkey.GetVkeyServer" {
		t.Errorf("module = %q", got)
	}
	files := req.Get("req_0.param.filename").Array()
	if len(files) != 2 {
		t.Fatalf("want 320k and 128k filenames, got %v", files)
	}
	if !strings.HasPrefix(files[0].String(), "M800") {
		t.Errorf("first filename should be the 320k variant, got %q", files[0])
	}
	if !strings.HasPrefix(files[1].String(), "M500") {
		t.Errorf("second filename should be the 128k fallback, got %q", files[1])
	}
}
