package provider

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	httpx "github.com/fyxsky/songfetch/internal/http"
	"github.com/fyxsky/songfetch/internal/model"
)

// DefaultTimeout bounds every individual adapter call. A catalog that does
// not answer in time is treated the same as one that errored: skipped.
const DefaultTimeout = 12 * time.Second

// Registry holds the ordered set of catalog adapters for a run. The order of
// registration is the priority order used when merging search results.
//
// A Registry is immutable after the last Register call and safe for
// concurrent use.
type Registry struct {
	providers []Provider
	byName    map[string]Provider
	client    *httpx.Client
	timeout   time.Duration
	logger    *log.Logger
}

// NewRegistry creates an empty registry. The client is only used as the
// generic fallback for adapters without the AudioFetcher capability and may
// be nil in tests. A nil logger disables registry logging. A non-positive
// timeout falls back to DefaultTimeout.
func NewRegistry(client *httpx.Client, timeout time.Duration, logger *log.Logger) *Registry {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Registry{
		byName:  make(map[string]Provider),
		client:  client,
		timeout: timeout,
		logger:  logger,
	}
}

// Register appends an adapter at the lowest remaining priority. Registering
// two adapters with the same name is a programming error.
func (r *Registry) Register(p Provider) {
	if _, dup := r.byName[p.Name()]; dup {
		panic(fmt.Sprintf("provider %q registered twice", p.Name()))
	}
	r.providers = append(r.providers, p)
	r.byName[p.Name()] = p
}

// Descriptors returns the registered adapters in priority order with their
// capability sets.
func (r *Registry) Descriptors() []Descriptor {
	ds := make([]Descriptor, 0, len(r.providers))
	for i, p := range r.providers {
		_, canPlay := p.(PlayabilityChecker)
		_, canDetail := p.(DetailProvider)
		ds = append(ds, Descriptor{
			Name:         p.Name(),
			Priority:     i,
			CanPlayCheck: canPlay,
			CanDetail:    canDetail,
		})
	}
	return ds
}

// resolveOrder maps a requested source subset onto the registered priority
// order. Unknown names are dropped; an empty or fully-unknown request means
// "all registered providers".
func (r *Registry) resolveOrder(sources []string) []Provider {
	if len(sources) == 0 {
		return r.providers
	}
	requested := make(map[string]bool, len(sources))
	for _, s := range sources {
		requested[s] = true
	}
	var order []Provider
	for _, p := range r.providers {
		if requested[p.Name()] {
			order = append(order, p)
		}
	}
	if len(order) == 0 {
		return r.providers
	}
	return order
}

// SearchAll queries the selected catalogs in priority order and merges their
// results into one list, deduplicated by candidate ID with first occurrence
// winning. One catalog failing or timing out contributes zero candidates and
// never fails the merged call.
func (r *Registry) SearchAll(ctx context.Context, keyword string, sources []string) []model.Candidate {
	var merged []model.Candidate
	seen := make(map[string]bool)

	for _, p := range r.resolveOrder(sources) {
		candidates, err := r.search(ctx, p, keyword)
		if err != nil {
			r.logger.Warn("catalog search failed, skipping", "source", p.Name(), "err", err)
			continue
		}
		for _, c := range candidates {
			if c.ID == "" || seen[c.ID] {
				continue
			}
			seen[c.ID] = true
			merged = append(merged, c)
		}
	}
	return merged
}

func (r *Registry) search(ctx context.Context, p Provider, keyword string) ([]model.Candidate, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()
	candidates, err := p.Search(ctx, keyword)
	if err != nil {
		return nil, &UpstreamError{Source: p.Name(), Err: err}
	}
	return candidates, nil
}

// ByTrackID returns the adapter owning a provider-qualified track ID.
func (r *Registry) ByTrackID(trackID string) (Provider, error) {
	source := model.SourceOfID(trackID)
	if source == "" {
		return nil, fmt.Errorf("%w: track id %q", ErrUnknownSource, trackID)
	}
	p, ok := r.byName[source]
	if !ok {
		return nil, fmt.Errorf("%w: %q not registered", ErrUnknownSource, source)
	}
	return p, nil
}

// Lyric fetches the lyric for a track from its owning catalog. Unknown
// sources and upstream failures yield ""; a missing lyric is never fatal.
func (r *Registry) Lyric(ctx context.Context, trackID string) string {
	p, err := r.ByTrackID(trackID)
	if err != nil {
		return ""
	}
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()
	lyric, err := p.Lyric(ctx, trackID)
	if err != nil {
		r.logger.Debug("lyric fetch failed", "source", p.Name(), "track", trackID, "err", err)
		return ""
	}
	return lyric
}

// Detail fetches extra track metadata from the owning catalog if it supports
// the capability. The second return value reports whether a detail was
// obtained.
func (r *Registry) Detail(ctx context.Context, trackID string) (model.Candidate, bool) {
	p, err := r.ByTrackID(trackID)
	if err != nil {
		return model.Candidate{}, false
	}
	dp, ok := p.(DetailProvider)
	if !ok {
		return model.Candidate{}, false
	}
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()
	detail, err := dp.Detail(ctx, trackID)
	if err != nil {
		r.logger.Debug("detail fetch failed", "source", p.Name(), "track", trackID, "err", err)
		return model.Candidate{}, false
	}
	return detail, true
}

// ResolveDownloadURL resolves a fetchable audio URL via the owning catalog.
func (r *Registry) ResolveDownloadURL(ctx context.Context, trackID string) (string, error) {
	p, err := r.ByTrackID(trackID)
	if err != nil {
		return "", err
	}
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()
	return p.ResolveDownloadURL(ctx, trackID)
}

// FetchAudio downloads the audio payload for a track. Adapters with the
// AudioFetcher capability handle the download themselves (their hosts often
// require specific headers); for the rest the resolved download URL is
// fetched generically. No extra timeout is applied; audio downloads
// legitimately exceed the per-call API timeout.
func (r *Registry) FetchAudio(ctx context.Context, trackID string) ([]byte, error) {
	p, err := r.ByTrackID(trackID)
	if err != nil {
		return nil, err
	}
	if af, ok := p.(AudioFetcher); ok {
		return af.FetchAudio(ctx, trackID)
	}
	url, err := p.ResolveDownloadURL(ctx, trackID)
	if err != nil {
		return nil, err
	}
	if r.client == nil {
		return nil, fmt.Errorf("provider %s: no audio client configured", p.Name())
	}
	return r.client.DownloadBytes(ctx, url, nil)
}

// IsPlayable verifies a candidate through its owning catalog, using the
// cheap playability check when the adapter has one.
func (r *Registry) IsPlayable(ctx context.Context, trackID string) bool {
	p, err := r.ByTrackID(trackID)
	if err != nil {
		return false
	}
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()
	return CheckPlayable(ctx, p, trackID)
}
