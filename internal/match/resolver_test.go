package match

import (
	"context"
	"errors"
	"testing"

	"github.com/fyxsky/songfetch/internal/config"
	"github.com/fyxsky/songfetch/internal/model"
)

// fakeProber marks a fixed set of track IDs playable and records probe order.
type fakeProber struct {
	playable map[string]bool
	probed   []string
}

func (f *fakeProber) IsPlayable(ctx context.Context, trackID string) bool {
	f.probed = append(f.probed, trackID)
	return f.playable[trackID]
}

// fakeSelection is a scripted SelectionPort.
type fakeSelection struct {
	pick string
	err  error
}

func (f fakeSelection) Choose(ctx context.Context, title, artist string, candidates []model.Candidate) (string, error) {
	return f.pick, f.err
}

func c(id, title string, artists ...string) model.Candidate {
	return model.Candidate{ID: id, Title: title, Artists: artists}
}

func TestChooseNoTitleMatch(t *testing.T) {
	r := NewResolver(config.MatchAuto, &fakeProber{}, nil)
	_, err := r.Choose(context.Background(), "晴天", "周杰伦", []model.Candidate{
		c("x1", "阴天", "周杰伦"),
	})
	if !errors.Is(err, ErrNoTitleMatch) {
		t.Fatalf("err = %v, want ErrNoTitleMatch", err)
	}
}

func TestChoosePreciseRequiresExactArtist(t *testing.T) {
	prober := &fakeProber{playable: map[string]bool{"x2": true}}
	r := NewResolver(config.MatchPrecise, prober, nil)

	candidates := []model.Candidate{
		c("x1", "A", "X"),
		c("x2", "A", "Y"),
	}

	got, err := r.Choose(context.Background(), "A", "Y", candidates)
	if err != nil {
		t.Fatal(err)
	}
	if got.ID != "x2" {
		t.Errorf("precise mode picked %q, want x2", got.ID)
	}

	_, err = r.Choose(context.Background(), "A", "Z", candidates)
	if !errors.Is(err, ErrNoExactArtistMatch) {
		t.Errorf("err = %v, want ErrNoExactArtistMatch", err)
	}
}

func TestChooseAutoPromotesExactArtist(t *testing.T) {
	// Same candidates, reordered so the exact-artist match comes second:
	// auto mode must still probe it first.
	prober := &fakeProber{playable: map[string]bool{"x1": true, "x2": true}}
	r := NewResolver(config.MatchAuto, prober, nil)

	got, err := r.Choose(context.Background(), "A", "Y", []model.Candidate{
		c("x1", "A", "X"),
		c("x2", "A", "Y"),
	})
	if err != nil {
		t.Fatal(err)
	}
	if got.ID != "x2" {
		t.Errorf("auto mode picked %q, want exact-artist candidate x2", got.ID)
	}
	if prober.probed[0] != "x2" {
		t.Errorf("first probe = %q, exact-artist candidates must be probed first", prober.probed[0])
	}
}

func TestChooseFirstPlayableWins(t *testing.T) {
	// Only the 3rd candidate is playable; exactly that one must win.
	prober := &fakeProber{playable: map[string]bool{"x3": true}}
	r := NewResolver(config.MatchAuto, prober, nil)

	got, err := r.Choose(context.Background(), "A", "Y", []model.Candidate{
		c("x1", "A", "Y"),
		c("x2", "A", "Y"),
		c("x3", "A", "Y"),
		c("x4", "A", "Y"),
	})
	if err != nil {
		t.Fatal(err)
	}
	if got.ID != "x3" {
		t.Errorf("picked %q, want first playable x3", got.ID)
	}
	if len(prober.probed) != 3 {
		t.Errorf("probed %d candidates, want scan to stop at the first playable", len(prober.probed))
	}
}

func TestChooseNoPlayableCandidate(t *testing.T) {
	r := NewResolver(config.MatchAuto, &fakeProber{}, nil)
	_, err := r.Choose(context.Background(), "A", "Y", []model.Candidate{
		c("x1", "A", "Y"),
		c("x2", "A", "X"),
	})
	if !errors.Is(err, ErrNoPlayableCandidate) {
		t.Fatalf("err = %v, want ErrNoPlayableCandidate", err)
	}
}

func TestChooseQingTianScenario(t *testing.T) {
	prober := &fakeProber{playable: map[string]bool{"p1:2": true}}
	r := NewResolver(config.MatchAuto, prober, nil)

	got, err := r.Choose(context.Background(), "晴天", "周杰伦", []model.Candidate{
		c("p1:1", "晴天", "周杰伦"),
		c("p1:2", "晴天", "周杰伦"),
	})
	if err != nil {
		t.Fatal(err)
	}
	if got.ID != "p1:2" {
		t.Errorf("picked %q, want p1:2", got.ID)
	}
}

func TestChooseManualPickPlayable(t *testing.T) {
	prober := &fakeProber{playable: map[string]bool{"x2": true}}
	r := NewResolver(config.MatchManual, prober, fakeSelection{pick: "x2"})

	got, err := r.Choose(context.Background(), "A", "Y", []model.Candidate{
		c("x1", "A", "Y"),
		c("x2", "A", "X"),
	})
	if err != nil {
		t.Fatal(err)
	}
	if got.ID != "x2" {
		t.Errorf("picked %q, want the user's choice x2", got.ID)
	}
}

func TestChooseManualFallsBackToOfferedCandidates(t *testing.T) {
	// User picks an unplayable candidate; the scan falls back to the rest
	// of the offered list.
	prober := &fakeProber{playable: map[string]bool{"x3": true}}
	r := NewResolver(config.MatchManual, prober, fakeSelection{pick: "x1"})

	got, err := r.Choose(context.Background(), "A", "Y", []model.Candidate{
		c("x1", "A", "Y"),
		c("x2", "A", "Y"),
		c("x3", "A", "Y"),
	})
	if err != nil {
		t.Fatal(err)
	}
	if got.ID != "x3" {
		t.Errorf("picked %q, want fallback x3", got.ID)
	}
}

func TestChooseManualNothingPlayable(t *testing.T) {
	r := NewResolver(config.MatchManual, &fakeProber{}, fakeSelection{pick: "x1"})
	_, err := r.Choose(context.Background(), "A", "Y", []model.Candidate{
		c("x1", "A", "Y"),
		c("x2", "A", "Y"),
	})
	if !errors.Is(err, ErrManualPickNotPlayable) {
		t.Fatalf("err = %v, want ErrManualPickNotPlayable", err)
	}
}

func TestChooseManualCancelled(t *testing.T) {
	r := NewResolver(config.MatchManual, &fakeProber{}, fakeSelection{err: ErrSelectionCancelled})
	_, err := r.Choose(context.Background(), "A", "Y", []model.Candidate{
		c("x1", "A", "Y"),
	})
	if !errors.Is(err, ErrSelectionCancelled) {
		t.Fatalf("err = %v, want ErrSelectionCancelled", err)
	}
}

func TestChooseManualOffersAtMostTen(t *testing.T) {
	var offeredCount int
	sel := selectionFunc(func(ctx context.Context, title, artist string, candidates []model.Candidate) (string, error) {
		offeredCount = len(candidates)
		return candidates[0].ID, nil
	})
	prober := &fakeProber{playable: map[string]bool{"x0a": true}}
	r := NewResolver(config.MatchManual, prober, sel)

	var candidates []model.Candidate
	for i := 0; i < 15; i++ {
		candidates = append(candidates, c(itoa(i), "A", "Y"))
	}
	if _, err := r.Choose(context.Background(), "A", "Y", candidates); err != nil {
		t.Fatal(err)
	}
	if offeredCount != manualOfferLimit {
		t.Errorf("offered %d candidates, want %d", offeredCount, manualOfferLimit)
	}
}

type selectionFunc func(context.Context, string, string, []model.Candidate) (string, error)

func (f selectionFunc) Choose(ctx context.Context, title, artist string, candidates []model.Candidate) (string, error) {
	return f(ctx, title, artist, candidates)
}

func itoa(i int) string {
	return "x" + string(rune('0'+i%10)) + string(rune('a'+i/10))
}
