package provider

import (
	"context"

	"github.com/fyxsky/songfetch/internal/model"
)

// Provider is the contract every catalog adapter implements. All
// catalog-specific wire behavior (signed URLs, callback-wrapped payloads,
// cookie handling) lives inside the adapter; callers only see candidates,
// lyrics and download URLs.
//
// Implementations must be safe for concurrent use: multiple workers call the
// same adapter at once.
type Provider interface {
	// Name returns the catalog identifier, e.g. "netease". Lowercase,
	// stable, used for configuration and logging.
	Name() string

	// Search returns candidate tracks for a free-text keyword query.
	// Failures are reported as *UpstreamError.
	Search(ctx context.Context, keyword string) ([]model.Candidate, error)

	// Lyric returns the LRC lyric text for a track, or "" when the catalog
	// has none.
	Lyric(ctx context.Context, trackID string) (string, error)

	// ResolveDownloadURL returns a fetchable audio URL for a track. It
	// returns ErrNotPlayable when the catalog restricts the track.
	ResolveDownloadURL(ctx context.Context, trackID string) (string, error)
}

// PlayabilityChecker is an optional capability: adapters that can cheaply
// verify playability implement it. For adapters that don't, playability is
// assumed and only verified when the download URL is resolved.
type PlayabilityChecker interface {
	IsPlayable(ctx context.Context, trackID string) (bool, error)
}

// AudioFetcher is an optional capability: adapters whose audio hosts demand
// catalog-specific headers or cookies implement it to keep those quirks out
// of the orchestrator. Adapters without it have their resolved download URL
// fetched generically.
type AudioFetcher interface {
	FetchAudio(ctx context.Context, trackID string) ([]byte, error)
}

// DetailProvider is an optional capability: adapters that can fetch extra
// track metadata (album name, cover URL) beyond the search result implement
// it. Absence degrades tagging, never the row.
type DetailProvider interface {
	Detail(ctx context.Context, trackID string) (model.Candidate, error)
}

// Descriptor summarizes a registered adapter and its capability set. The
// registry builds descriptors at registration time by type-asserting the
// optional interfaces once, instead of probing at every call site.
type Descriptor struct {
	Name         string
	Priority     int
	CanPlayCheck bool
	CanDetail    bool
}

// CheckPlayable verifies a candidate is actually retrievable. It prefers the
// adapter's explicit playability check; otherwise it falls back to resolving
// the download URL, treating ErrNotPlayable as a clean "no" and any other
// upstream failure as the candidate being unusable.
func CheckPlayable(ctx context.Context, p Provider, trackID string) bool {
	if pc, ok := p.(PlayabilityChecker); ok {
		playable, err := pc.IsPlayable(ctx, trackID)
		return err == nil && playable
	}
	_, err := p.ResolveDownloadURL(ctx, trackID)
	return err == nil
}
