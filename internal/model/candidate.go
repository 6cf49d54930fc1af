package model

import "strings"

// Candidate source identifiers. A candidate's Source names the catalog that
// produced it; its ID carries a matching prefix so any component can route a
// bare track ID back to the right adapter.
const (
	SourceNetease = "netease"
	SourceQQ      = "qq"
	SourceKugou   = "kugou"
)

// idPrefixes maps candidate ID prefixes to their source catalog. The prefixes
// come with the IDs from each adapter and are stable across a run.
var idPrefixes = map[string]string{
	"netrack_": SourceNetease,
	"qqtrack_": SourceQQ,
	"kgtrack_": SourceKugou,
}

// Candidate is a provider-supplied track record considered as a possible
// match for a query row. Candidates are immutable after creation.
type Candidate struct {
	// ID is the provider-qualified track identifier, e.g. "netrack_186016".
	// IDs are globally unique across catalogs.
	ID string

	// Title is the track title as reported by the catalog.
	Title string

	// Artists lists the performing artist names in catalog order.
	Artists []string

	// Album is the album title, empty if unknown.
	Album string

	// AlbumArtURL points at the cover image, empty if none.
	AlbumArtURL string

	// Source is the catalog that produced this candidate.
	Source string

	// SourceURL is the track's public page on the catalog, for reference only.
	SourceURL string

	// PlayableHint is the catalog's own claim about playability, when the
	// search response carries one. False does not prove the track is
	// restricted; the resolver still verifies before trusting a candidate.
	PlayableHint bool
}

// ArtistLine joins the artist names for display and tagging, matching the
// "A / B" convention used by the catalogs themselves.
func (c Candidate) ArtistLine() string {
	return strings.Join(c.Artists, " / ")
}

// SourceOfID returns the catalog a provider-qualified track ID belongs to,
// or "" if the prefix is unknown.
func SourceOfID(id string) string {
	for prefix, source := range idPrefixes {
		if strings.HasPrefix(id, prefix) {
			return source
		}
	}
	return ""
}
