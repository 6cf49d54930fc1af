package audio

import (
	"bytes"
	"testing"

	"github.com/bogem/id3v2"
)

var mp3Frames = []byte{0xFF, 0xFB, 0x90, 0x00, 0x01, 0x02, 0x03, 0x04}

func TestTaggerTag(t *testing.T) {
	tagger := NewTagger(DefaultTagConfig())

	tagged, err := tagger.Tag(mp3Frames, TagData{
		Title:   "晴天",
		Artist:  "周杰伦",
		Album:   "叶惠美",
		Lyrics:  "[00:00.00]故事的小黄花",
		Comment: "netrack_186016",
		Cover:   []byte{0xFF, 0xD8, 0xFF, 0xE0},
	})
	if err != nil {
		t.Fatalf("Tag: %v", err)
	}

	if !bytes.HasPrefix(tagged, []byte("ID3")) {
		t.Fatal("tagged payload should start with an ID3v2 header")
	}
	if !bytes.HasSuffix(tagged, mp3Frames) {
		t.Error("audio frames should follow the tag unchanged")
	}

	parsed, err := id3v2.ParseReader(bytes.NewReader(tagged), id3v2.Options{Parse: true})
	if err != nil {
		t.Fatalf("ParseReader: %v", err)
	}
	if got := parsed.Title(); got != "晴天" {
		t.Errorf("Title = %q, want 晴天", got)
	}
	if got := parsed.Artist(); got != "周杰伦" {
		t.Errorf("Artist = %q, want 周杰伦", got)
	}
	if got := parsed.Album(); got != "叶惠美" {
		t.Errorf("Album = %q, want 叶惠美", got)
	}
}

func TestTaggerReplacesExistingTag(t *testing.T) {
	tagger := NewTagger(DefaultTagConfig())

	first, err := tagger.Tag(mp3Frames, TagData{Title: "旧标题"})
	if err != nil {
		t.Fatalf("Tag: %v", err)
	}
	second, err := tagger.Tag(first, TagData{Title: "新标题"})
	if err != nil {
		t.Fatalf("Tag: %v", err)
	}

	if !bytes.HasSuffix(second, mp3Frames) {
		t.Error("retagging should not duplicate or truncate audio frames")
	}
	parsed, err := id3v2.ParseReader(bytes.NewReader(second), id3v2.Options{Parse: true})
	if err != nil {
		t.Fatalf("ParseReader: %v", err)
	}
	if got := parsed.Title(); got != "新标题" {
		t.Errorf("Title = %q, want 新标题", got)
	}
}

func TestTaggerConfigDisablesOptionalFrames(t *testing.T) {
	tagger := NewTagger(&TagConfig{EmbedLyrics: false, EmbedCover: false})

	tagged, err := tagger.Tag(mp3Frames, TagData{
		Title:  "晴天",
		Lyrics: "[00:00.00]歌词",
		Cover:  []byte{0xFF, 0xD8},
	})
	if err != nil {
		t.Fatalf("Tag: %v", err)
	}

	parsed, err := id3v2.ParseReader(bytes.NewReader(tagged), id3v2.Options{Parse: true})
	if err != nil {
		t.Fatalf("ParseReader: %v", err)
	}
	if frames := parsed.GetFrames(parsed.CommonID("Attached picture")); len(frames) != 0 {
		t.Error("cover frame should be absent when embedding is disabled")
	}
	if frames := parsed.GetFrames(parsed.CommonID("Unsynchronised lyrics/text transcription")); len(frames) != 0 {
		t.Error("lyrics frame should be absent when embedding is disabled")
	}
}

func TestAudioBody(t *testing.T) {
	tests := []struct {
		name    string
		payload []byte
		want    []byte
	}{
		{"no tag", mp3Frames, mp3Frames},
		{"too short", []byte("ID3"), []byte("ID3")},
		{
			"tag stripped",
			append([]byte{'I', 'D', '3', 4, 0, 0, 0, 0, 0, 2, 0xAA, 0xBB}, mp3Frames...),
			mp3Frames,
		},
		{
			"size past end",
			[]byte{'I', 'D', '3', 4, 0, 0, 0, 0, 0x7F, 0x7F},
			[]byte{'I', 'D', '3', 4, 0, 0, 0, 0, 0x7F, 0x7F},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := AudioBody(tt.payload); !bytes.Equal(got, tt.want) {
				t.Errorf("AudioBody = %v, want %v", got, tt.want)
			}
		})
	}
}
