package audio

import (
	"bytes"

	"github.com/bogem/id3v2"
)

// TagData carries the metadata embedded into a downloaded track.
//
// All string fields are optional; empty values simply leave the
// corresponding frame out. Cover holds JPEG bytes for the APIC frame.
type TagData struct {
	// Title is written to the TIT2 (Title) frame.
	Title string

	// Artist is written to the TPE1 (Lead artist) frame.
	Artist string

	// Album is written to the TALB (Album title) frame.
	Album string

	// Lyrics is written to a USLT (Unsynchronized lyrics) frame.
	Lyrics string

	// Comment is written to a COMM frame. The download pipeline puts
	// the catalog track identifier here so a re-run can recognize
	// files it already produced.
	Comment string

	// Cover holds JPEG image bytes for the APIC (Attached picture)
	// frame. Nil skips the frame.
	Cover []byte
}

// TagConfig controls which optional frames the Tagger embeds.
type TagConfig struct {
	// EmbedLyrics enables the USLT frame when lyrics are available.
	EmbedLyrics bool

	// EmbedCover enables the APIC frame when cover bytes are available.
	EmbedCover bool
}

// DefaultTagConfig returns the default tag configuration with lyrics
// and cover art embedding enabled.
func DefaultTagConfig() *TagConfig {
	return &TagConfig{
		EmbedLyrics: true,
		EmbedCover:  true,
	}
}

// Tagger writes ID3v2 tags onto in-memory MP3 payloads.
//
// Unlike a file-based tagger, Tag never touches the filesystem: the
// download pipeline holds audio as a byte slice so the same payload can
// flow to a local file, a zip archive, or an upload. Any ID3v2 header
// already present on the payload is replaced wholesale, because catalog
// downloads frequently ship junk or empty tags.
//
// Example:
//
//	tagger := NewTagger(DefaultTagConfig())
//	tagged, err := tagger.Tag(payload, TagData{
//	    Title:  "晴天",
//	    Artist: "周杰伦",
//	    Album:  "叶惠美",
//	})
type Tagger struct {
	config *TagConfig
}

// NewTagger creates a new Tagger with the given configuration.
//
// If config is nil, DefaultTagConfig() is used.
func NewTagger(config *TagConfig) *Tagger {
	if config == nil {
		config = DefaultTagConfig()
	}
	return &Tagger{config: config}
}

// Tag returns a copy of payload with a fresh ID3v2 tag prepended.
//
// An existing ID3v2 header on the payload is stripped first so the
// result carries exactly one tag. The original payload is not modified.
func (t *Tagger) Tag(payload []byte, data TagData) ([]byte, error) {
	tag := id3v2.NewEmptyTag()
	tag.SetDefaultEncoding(id3v2.EncodingUTF8)

	if data.Title != "" {
		tag.SetTitle(data.Title)
	}
	if data.Artist != "" {
		tag.SetArtist(data.Artist)
	}
	if data.Album != "" {
		tag.SetAlbum(data.Album)
	}

	if t.config.EmbedLyrics && data.Lyrics != "" {
		tag.AddUnsynchronisedLyricsFrame(id3v2.UnsynchronisedLyricsFrame{
			Encoding:          id3v2.EncodingUTF8,
			Language:          "chi",
			ContentDescriptor: "",
			Lyrics:            data.Lyrics,
		})
	}

	if data.Comment != "" {
		tag.AddCommentFrame(id3v2.CommentFrame{
			Encoding:    id3v2.EncodingUTF8,
			Language:    "chi",
			Description: "",
			Text:        data.Comment,
		})
	}

	if t.config.EmbedCover && data.Cover != nil {
		tag.AddAttachedPicture(id3v2.PictureFrame{
			Encoding:    id3v2.EncodingUTF8,
			MimeType:    "image/jpeg",
			PictureType: id3v2.PTFrontCover,
			Description: "Cover",
			Picture:     data.Cover,
		})
	}

	var buf bytes.Buffer
	if _, err := tag.WriteTo(&buf); err != nil {
		return nil, err
	}
	buf.Write(AudioBody(payload))
	return buf.Bytes(), nil
}

// AudioBody returns the audio frames of an MP3 payload, skipping a
// leading ID3v2 tag if one is present.
//
// A malformed header (declared size past the end of the payload) is
// left untouched rather than truncating audio data.
func AudioBody(payload []byte) []byte {
	if len(payload) < 10 || !bytes.HasPrefix(payload, []byte("ID3")) {
		return payload
	}
	size := syncSafeSize(payload[6:10])
	offset := 10 + size
	// Bit 4 of the flags byte signals a 10-byte footer after the frames.
	if payload[5]&0x10 != 0 {
		offset += 10
	}
	if offset > len(payload) {
		return payload
	}
	return payload[offset:]
}

// syncSafeSize decodes the 28-bit synchsafe integer used by ID3v2
// header size fields.
func syncSafeSize(b []byte) int {
	return int(b[0]&0x7F)<<21 | int(b[1]&0x7F)<<14 | int(b[2]&0x7F)<<7 | int(b[3]&0x7F)
}
