package model

import (
	"regexp"
	"strings"
)

// invalidFileChars covers the characters rejected by at least one target
// filesystem, plus ASCII control characters.
var invalidFileChars = regexp.MustCompile(`[<>:"/\\|?*\x00-\x1f]`)

var (
	trailingDots    = regexp.MustCompile(`\.+$`)
	multiWhitespace = regexp.MustCompile(`\s+`)
)

// OutputFileName builds the sanitized output name for a resolved track:
// "{title}-{artist}.mp3" with filesystem-unsafe characters replaced by
// underscores.
//
// Example:
//
//	OutputFileName("晴天", "周杰伦")        // "晴天-周杰伦.mp3"
//	OutputFileName("A/B", "X?Y")           // "A_B-X_Y.mp3"
func OutputFileName(title, artist string) string {
	title = strings.TrimSpace(title)
	artist = strings.TrimSpace(artist)
	if title == "" {
		title = "未知歌曲"
	}
	if artist == "" {
		artist = "未知歌手"
	}
	return SanitizeFileName(title+"-"+artist) + ".mp3"
}

// SanitizeFileName makes a string safe to use as a file or folder name.
//
// Transformations applied:
//   - invalid characters (<>:"/\|?* and control chars) become underscores
//   - trailing dots are removed (a Windows restriction)
//   - runs of whitespace collapse to a single space
//   - trailing whitespace is removed
func SanitizeFileName(name string) string {
	name = invalidFileChars.ReplaceAllString(name, "_")
	name = trailingDots.ReplaceAllString(name, "")
	name = multiWhitespace.ReplaceAllString(name, " ")
	return strings.TrimRight(name, " ")
}
