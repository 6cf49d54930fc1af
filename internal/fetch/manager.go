package fetch

import (
	"context"
	"errors"
	"fmt"
	"math"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/fyxsky/songfetch/internal/audio"
	"github.com/fyxsky/songfetch/internal/config"
	httpx "github.com/fyxsky/songfetch/internal/http"
	ioutils "github.com/fyxsky/songfetch/internal/io"
	"github.com/fyxsky/songfetch/internal/match"
	"github.com/fyxsky/songfetch/internal/model"
	"github.com/fyxsky/songfetch/internal/output"
	"github.com/fyxsky/songfetch/internal/provider"
)

// ProgressLevel indicates the severity of a progress message.
type ProgressLevel int

const (
	LevelInfo ProgressLevel = iota
	LevelVerbose
	LevelWarning
	LevelError
	LevelSuccess
)

// ProgressEvent is one row-status update pushed to the presentation
// layer. RowIndex is -1 for run-level messages.
type ProgressEvent struct {
	RowIndex int
	Status   model.RowStatus
	Message  string
	Level    ProgressLevel
}

// Options wires a Manager's collaborators.
type Options struct {
	Settings   *config.Settings
	Registry   *provider.Registry
	Resolver   *match.Resolver
	Aggregator output.Aggregator

	// Client downloads cover art. Nil disables the cover leg.
	Client *httpx.Client

	Logger     *log.Logger
	OnProgress func(ProgressEvent)
}

// Manager runs the download pipeline over a list of query rows.
//
// It spawns the configured number of workers; each worker loops claiming
// the next row index and driving that row through
// search → resolve → fetch → tag → deliver. A failing row is marked
// Failed and the worker moves on; no row failure aborts the run.
type Manager struct {
	settings   *config.Settings
	registry   *provider.Registry
	resolver   *match.Resolver
	aggregator output.Aggregator
	client     *httpx.Client
	tagger     *audio.Tagger
	covers     *ioutils.CoverProcessor
	logger     *log.Logger
	onProgress func(ProgressEvent)

	// state is published atomically so observers may poll State while
	// Run installs it from another goroutine.
	state atomic.Pointer[RunState]
}

// NewManager creates a Manager from its options.
func NewManager(opts Options) *Manager {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	var covers *ioutils.CoverProcessor
	if opts.Settings.SaveCoverArtInTags {
		maxSize := 0
		if opts.Settings.CoverArtResize {
			maxSize = opts.Settings.CoverArtMaxSize
		}
		covers = ioutils.NewCoverProcessor(maxSize, opts.Settings.ConvertCoverArtToJPG)
	}
	return &Manager{
		settings:   opts.Settings,
		registry:   opts.Registry,
		resolver:   opts.Resolver,
		aggregator: opts.Aggregator,
		client:     opts.Client,
		tagger:     audio.NewTagger(audio.DefaultTagConfig()),
		covers:     covers,
		logger:     logger,
		onProgress: opts.OnProgress,
	}
}

// State exposes the live run state for observers. Nil before Run.
func (m *Manager) State() *RunState {
	return m.state.Load()
}

// Run processes every row and returns the final row snapshot. The run
// ends when all rows reached a terminal status and the aggregator
// flushed; the returned error reports delivery-side failures (a failed
// final archive flush), never individual row failures.
func (m *Manager) Run(ctx context.Context, rows []model.QueryRow) ([]model.QueryRow, error) {
	state := NewRunState(rows)
	m.state.Store(state)

	workers := m.settings.EffectiveConcurrency()
	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < workers; i++ {
		g.Go(func() error {
			for {
				idx, ok := state.Claim()
				if !ok {
					return nil
				}
				m.processRow(gctx, idx)
			}
		})
	}
	err := g.Wait()

	if cerr := m.aggregator.Close(ctx); err == nil {
		err = cerr
	}
	if err == nil {
		err = m.writePlaylist()
	}

	sum := state.Summary()
	m.progress(ProgressEvent{
		RowIndex: -1,
		Message:  fmt.Sprintf("完成 %d / 失败 %d / 共 %d", sum.Done, sum.Failed, sum.Total),
		Level:    LevelInfo,
	})
	return state.Rows(), err
}

// processRow drives one row through the pipeline. All failures are
// absorbed here: the row ends Done or Failed and the worker moves on.
func (m *Manager) processRow(ctx context.Context, idx int) {
	row := m.state.Load().Row(idx)
	if ctx.Err() != nil {
		m.fail(idx, fmt.Errorf("运行中止: %w", ctx.Err()))
		return
	}

	m.setStatus(idx, model.StatusSearching, "")
	candidates := m.search(ctx, row)

	m.setStatus(idx, model.StatusResolving, "")
	chosen, err := m.resolver.Choose(ctx, row.Title, row.Artist, candidates)
	if errors.Is(err, match.ErrNoTitleMatch) {
		// Widened queries sometimes surface candidates the combined
		// title+artist keyword misses.
		if widened := m.searchWidened(ctx, row, candidates); len(widened) > len(candidates) {
			chosen, err = m.resolver.Choose(ctx, row.Title, row.Artist, widened)
		}
	}
	if err != nil {
		m.fail(idx, err)
		return
	}
	m.logger.Debug("candidate chosen", "row", idx, "track", chosen.ID, "source", chosen.Source)

	m.setStatus(idx, model.StatusFetching, "")
	payload, data, err := m.fetchRow(ctx, idx, chosen)
	if err != nil {
		m.fail(idx, err)
		return
	}

	tagged, err := m.tagger.Tag(payload, data)
	if err != nil {
		m.logger.Warn("tagging failed, delivering raw audio", "row", idx, "err", err)
		tagged = payload
	}

	if m.settings.OutputMode == config.OutputUpload {
		m.setStatus(idx, model.StatusUploading, "")
	}
	location, err := m.aggregator.Deliver(ctx, output.Item{
		FileName: model.OutputFileName(row.Title, row.Artist),
		Payload:  tagged,
	})
	if err != nil {
		m.fail(idx, fmt.Errorf("输出失败: %w", err))
		return
	}
	m.state.Load().SetResult(idx, location)
	m.state.Load().SetStatus(idx, model.StatusDone, location)
	m.progress(ProgressEvent{RowIndex: idx, Status: model.StatusDone, Message: location, Level: LevelSuccess})
}

// search queries the catalogs with the row's combined keyword.
func (m *Manager) search(ctx context.Context, row model.QueryRow) []model.Candidate {
	keyword := strings.TrimSpace(row.Title + " " + row.Artist)
	return m.registry.SearchAll(ctx, keyword, m.settings.Sources)
}

// searchWidened re-queries the catalogs with the row's alternate
// keywords and merges the results with the already-known candidates,
// first occurrence winning.
func (m *Manager) searchWidened(ctx context.Context, row model.QueryRow, known []model.Candidate) []model.Candidate {
	seen := make(map[string]bool, len(known))
	merged := make([]model.Candidate, len(known))
	copy(merged, known)
	for _, c := range known {
		seen[c.ID] = true
	}
	for _, keyword := range match.Widen(row.Title, row.Artist) {
		for _, c := range m.registry.SearchAll(ctx, keyword, m.settings.Sources) {
			if seen[c.ID] {
				continue
			}
			seen[c.ID] = true
			merged = append(merged, c)
		}
	}
	return merged
}

// fetchRow runs the three retrieval legs for the chosen candidate in
// parallel: audio payload, lyric, and detail+cover. Only the audio leg
// can fail the row; lyric and cover degrade to absent.
func (m *Manager) fetchRow(ctx context.Context, idx int, chosen model.Candidate) ([]byte, audio.TagData, error) {
	data := audio.TagData{
		Title:   chosen.Title,
		Artist:  chosen.ArtistLine(),
		Album:   chosen.Album,
		Comment: chosen.ID,
	}

	var payload []byte
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		payload, err = m.fetchAudio(gctx, chosen.ID)
		if err != nil {
			return fmt.Errorf("音频下载失败: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		lyric := m.registry.Lyric(gctx, chosen.ID)
		if lyric == "" {
			m.state.Load().SetLyricStatus(idx, model.FieldMissing)
			return nil
		}
		data.Lyrics = lyric
		m.state.Load().SetLyricStatus(idx, model.FieldOK)
		return nil
	})

	g.Go(func() error {
		artURL := chosen.AlbumArtURL
		if detail, ok := m.registry.Detail(gctx, chosen.ID); ok {
			if detail.Album != "" {
				data.Album = detail.Album
			}
			if detail.AlbumArtURL != "" {
				artURL = detail.AlbumArtURL
			}
		}
		cover, status := m.fetchCover(gctx, artURL)
		data.Cover = cover
		m.state.Load().SetCoverStatus(idx, status)
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, audio.TagData{}, err
	}
	return payload, data, nil
}

// fetchAudio downloads the candidate's audio with the configured retry
// policy.
func (m *Manager) fetchAudio(ctx context.Context, trackID string) ([]byte, error) {
	attempts := m.settings.DownloadMaxRetries
	if attempts < 1 {
		attempts = 1
	}
	var payload []byte
	var err error
	for tries := 0; tries < attempts; tries++ {
		payload, err = m.registry.FetchAudio(ctx, trackID)
		if err == nil {
			return payload, nil
		}
		if errors.Is(err, provider.ErrNotPlayable) || ctx.Err() != nil {
			break
		}
		m.logger.Warn("audio fetch retry", "track", trackID, "attempt", tries+1, "err", err)
		m.waitForRetry(ctx, tries)
	}
	return nil, err
}

// fetchCover downloads and normalizes cover art. A missing URL or any
// failure degrades the row's cover, never fails it.
func (m *Manager) fetchCover(ctx context.Context, artURL string) ([]byte, model.FieldStatus) {
	if m.covers == nil || m.client == nil || artURL == "" {
		return nil, model.FieldMissing
	}
	raw, err := m.client.DownloadBytes(ctx, artURL, nil)
	if err != nil {
		m.logger.Warn("cover download failed", "url", artURL, "err", err)
		return nil, model.FieldFailed
	}
	cover, err := m.covers.Process(raw)
	if err != nil {
		m.logger.Warn("cover processing failed", "url", artURL, "err", err)
		return nil, model.FieldFailed
	}
	return cover, model.FieldOK
}

// writePlaylist emits the optional M3U for local runs.
func (m *Manager) writePlaylist() error {
	if !m.settings.CreatePlaylist || m.settings.OutputMode != config.OutputLocal {
		return nil
	}
	content := audio.NewPlaylistCreator(true).CreatePlaylist(m.state.Load().Rows())
	if content == "" {
		return nil
	}
	path := filepath.Join(m.settings.DownloadsPath, "songfetch.m3u")
	return ioutils.WriteFile(path, []byte(content))
}

func (m *Manager) waitForRetry(ctx context.Context, tries int) {
	cooldown := m.settings.DownloadRetryCooldown * math.Pow(m.settings.DownloadRetryExponent, float64(tries))
	select {
	case <-ctx.Done():
	case <-time.After(time.Duration(cooldown * float64(time.Second))):
	}
}

// fail marks a row Failed with a human-readable reason.
func (m *Manager) fail(idx int, err error) {
	msg := strings.TrimPrefix(err.Error(), "match: ")
	m.state.Load().SetStatus(idx, model.StatusFailed, msg)
	m.logger.Info("row failed", "row", idx, "reason", msg)
	m.progress(ProgressEvent{RowIndex: idx, Status: model.StatusFailed, Message: msg, Level: LevelError})
}

func (m *Manager) setStatus(idx int, status model.RowStatus, message string) {
	m.state.Load().SetStatus(idx, status, message)
	m.progress(ProgressEvent{RowIndex: idx, Status: status, Message: message, Level: LevelVerbose})
}

func (m *Manager) progress(event ProgressEvent) {
	if m.onProgress != nil {
		m.onProgress(event)
	}
}
