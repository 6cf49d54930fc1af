// Package audio provides audio payload manipulation services including
// ID3 tag writing and playlist generation.
//
// # ID3 Tagging
//
// Use the Tagger to write ID3 tags onto an in-memory MP3 payload:
//
//	tagger := audio.NewTagger(audio.DefaultTagConfig())
//	tagged, err := tagger.Tag(payload, audio.TagData{
//	    Title:  row.Title,
//	    Artist: row.Artist,
//	    Album:  detail.Album,
//	    Lyrics: lyric,
//	    Cover:  coverJPEG,
//	})
//
// The tagger supports:
//   - Title, Artist, Album
//   - Lyrics (unsynchronized, LRC text)
//   - Cover Art (embedded JPEG)
//   - Comment (catalog track identifier)
//
// # Playlist Generation
//
// Generate an M3U playlist of the run's completed local downloads:
//
//	creator := audio.NewPlaylistCreator(true) // extended M3U
//	content := creator.CreatePlaylist(rows)
//	os.WriteFile("songfetch.m3u", []byte(content), 0644)
package audio
