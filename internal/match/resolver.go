package match

import (
	"context"
	"errors"

	"github.com/fyxsky/songfetch/internal/config"
	"github.com/fyxsky/songfetch/internal/model"
)

// Typed resolver failures. All are row-scoped: the owning worker marks the
// row failed and moves on.
var (
	// ErrNoTitleMatch means no candidate shares the query's normalized
	// title. Artist matching alone never recovers from this.
	ErrNoTitleMatch = errors.New("match: 搜索不到同名歌曲")

	// ErrNoExactArtistMatch means precise mode found same-title candidates
	// but none with an exactly matching artist.
	ErrNoExactArtistMatch = errors.New("match: 精确匹配失败")

	// ErrNoPlayableCandidate means every ordered candidate failed the
	// playability probe.
	ErrNoPlayableCandidate = errors.New("match: 候选均不可播放")

	// ErrManualPickNotPlayable means neither the user's pick nor any other
	// offered candidate was playable.
	ErrManualPickNotPlayable = errors.New("match: 手动选择的歌曲不可播放")

	// ErrSelectionCancelled means the user aborted the manual selection.
	ErrSelectionCancelled = errors.New("match: 手动选择取消")
)

// manualOfferLimit caps how many candidates a manual selection offers.
const manualOfferLimit = 10

// Prober verifies that audio for a candidate is actually retrievable.
// provider.Registry satisfies it.
type Prober interface {
	IsPlayable(ctx context.Context, trackID string) bool
}

// SelectionPort is the external manual-selection collaborator: given the
// offered candidates it returns the chosen candidate's ID, or
// ErrSelectionCancelled. The calling worker blocks until the decision lands.
type SelectionPort interface {
	Choose(ctx context.Context, title, artist string, candidates []model.Candidate) (string, error)
}

// Resolver selects the single best verified-playable candidate for a query.
type Resolver struct {
	mode      string
	prober    Prober
	selection SelectionPort
}

// NewResolver creates a resolver for the given match mode. The selection
// port may be nil unless mode is config.MatchManual.
func NewResolver(mode string, prober Prober, selection SelectionPort) *Resolver {
	return &Resolver{mode: mode, prober: prober, selection: selection}
}

// Choose picks exactly one verified-playable candidate for (title, artist)
// from the merged candidate list, or returns a typed failure.
//
// The scan is first-match, not best-match: within the mode's candidate
// ordering, the first candidate that proves playable wins. Order, not score,
// is the tie-break.
func (r *Resolver) Choose(ctx context.Context, title, artist string, candidates []model.Candidate) (model.Candidate, error) {
	sameName := filterSameTitle(title, candidates)
	if len(sameName) == 0 {
		return model.Candidate{}, ErrNoTitleMatch
	}

	exact, rest := partitionByArtist(artist, sameName)

	switch r.mode {
	case config.MatchPrecise:
		if len(exact) == 0 {
			return model.Candidate{}, ErrNoExactArtistMatch
		}
		return r.firstPlayable(ctx, exact, ErrNoPlayableCandidate)

	case config.MatchManual:
		return r.manual(ctx, title, artist, append(exact, rest...))

	default: // config.MatchAuto
		return r.firstPlayable(ctx, append(exact, rest...), ErrNoPlayableCandidate)
	}
}

// firstPlayable scans the ordered candidates and returns the first one the
// prober verifies.
func (r *Resolver) firstPlayable(ctx context.Context, ordered []model.Candidate, exhausted error) (model.Candidate, error) {
	for _, c := range ordered {
		if r.prober.IsPlayable(ctx, c.ID) {
			return c, nil
		}
	}
	return model.Candidate{}, exhausted
}

// manual offers the top candidates to the selection port. If the user's pick
// is playable it wins outright; otherwise the remaining offered candidates
// are scanned in order for the first playable one.
func (r *Resolver) manual(ctx context.Context, title, artist string, ordered []model.Candidate) (model.Candidate, error) {
	if r.selection == nil {
		return model.Candidate{}, ErrSelectionCancelled
	}

	offered := ordered
	if len(offered) > manualOfferLimit {
		offered = offered[:manualOfferLimit]
	}

	chosenID, err := r.selection.Choose(ctx, title, artist, offered)
	if err != nil {
		return model.Candidate{}, err
	}

	var chosen model.Candidate
	found := false
	for _, c := range offered {
		if c.ID == chosenID {
			chosen = c
			found = true
			break
		}
	}
	if !found {
		return model.Candidate{}, ErrSelectionCancelled
	}

	if r.prober.IsPlayable(ctx, chosen.ID) {
		return chosen, nil
	}

	var fallback []model.Candidate
	for _, c := range offered {
		if c.ID != chosen.ID {
			fallback = append(fallback, c)
		}
	}
	return r.firstPlayable(ctx, fallback, ErrManualPickNotPlayable)
}

func filterSameTitle(title string, candidates []model.Candidate) []model.Candidate {
	var out []model.Candidate
	for _, c := range candidates {
		if SameTitle(title, c.Title) {
			out = append(out, c)
		}
	}
	return out
}

// partitionByArtist splits same-title candidates into those with an exactly
// matching artist name and the rest, preserving relative order in both.
func partitionByArtist(artist string, candidates []model.Candidate) (exact, rest []model.Candidate) {
	want := Normalize(artist)
	for _, c := range candidates {
		matched := false
		for _, name := range c.Artists {
			if Normalize(name) == want {
				matched = true
				break
			}
		}
		if matched {
			exact = append(exact, c)
		} else {
			rest = append(rest, c)
		}
	}
	return exact, rest
}
