package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/urfave/cli/v3"
	"golang.org/x/time/rate"

	"github.com/fyxsky/songfetch/internal/config"
	"github.com/fyxsky/songfetch/internal/fetch"
	httpx "github.com/fyxsky/songfetch/internal/http"
	"github.com/fyxsky/songfetch/internal/match"
	"github.com/fyxsky/songfetch/internal/model"
	"github.com/fyxsky/songfetch/internal/output"
	"github.com/fyxsky/songfetch/internal/providers"
	"github.com/fyxsky/songfetch/internal/songlist"
)

func main() {
	app := &cli.Command{
		Name:  "songfetch",
		Usage: "Download a CSV song list from the NetEase, QQ and Kugou catalogs",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "list",
				Aliases:  []string{"l"},
				Usage:    "CSV file with 歌曲名 and 歌手 columns",
				Required: true,
			},
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to TOML config file",
				Value:   defaultConfigPath(),
			},
			&cli.StringFlag{
				Name:  "mode",
				Usage: "Match mode: auto, precise or manual",
			},
			&cli.IntFlag{
				Name:  "concurrency",
				Usage: "Number of parallel workers (manual mode always runs with 1)",
			},
			&cli.StringFlag{
				Name:  "output",
				Usage: "Output mode: local, archive or upload",
			},
			&cli.IntFlag{
				Name:  "batch-size",
				Usage: "Songs per zip archive (archive mode)",
			},
			&cli.StringFlag{
				Name:  "out-dir",
				Usage: "Directory for downloaded files and archives",
			},
			&cli.StringFlag{
				Name:  "upload-endpoint",
				Usage: "Storage gateway URL (upload mode)",
			},
			&cli.StringSliceFlag{
				Name:  "sources",
				Usage: "Catalog priority order, e.g. --sources qq --sources netease",
			},
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "Log per-row pipeline detail",
			},
		},
		Action: run,
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "songfetch:", err)
		os.Exit(1)
	}
}

func defaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "songfetch.toml"
	}
	return filepath.Join(home, ".config", "songfetch", "config.toml")
}

func run(ctx context.Context, cmd *cli.Command) error {
	settings, err := loadSettings(cmd)
	if err != nil {
		return err
	}

	logger := log.NewWithOptions(os.Stderr, log.Options{ReportTimestamp: true})
	if cmd.Bool("verbose") {
		logger.SetLevel(log.DebugLevel)
	} else if level, err := log.ParseLevel(settings.LogLevel); err == nil {
		logger.SetLevel(level)
	}

	rows, err := readList(cmd.String("list"))
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		logger.Warn("song list is empty, nothing to do")
		return nil
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		<-sigCh
		logger.Warn("interrupted, finishing in-flight rows")
		cancel()
	}()

	client := httpx.NewClient(rate.NewLimiter(rate.Limit(8), 16))
	registry := providers.BuildRegistry(client, settings, logger)

	var selection match.SelectionPort
	if settings.MatchMode == config.MatchManual {
		selection = match.TerminalSelection{}
	}
	resolver := match.NewResolver(settings.MatchMode, registry, selection)

	runID := uuid.NewString()[:8]
	aggregator, err := output.ForSettings(settings, runID, logger)
	if err != nil {
		return err
	}

	manager := fetch.NewManager(fetch.Options{
		Settings:   settings,
		Registry:   registry,
		Resolver:   resolver,
		Aggregator: aggregator,
		Client:     client,
		Logger:     logger,
		OnProgress: func(e fetch.ProgressEvent) {
			if e.RowIndex < 0 || !e.Status.Terminal() {
				return
			}
			if e.Status == model.StatusDone {
				logger.Info("done", "row", e.RowIndex, "result", e.Message)
			} else {
				logger.Error("failed", "row", e.RowIndex, "reason", e.Message)
			}
		},
	})

	logger.Info("run starting", "run", runID, "songs", len(rows),
		"mode", settings.MatchMode, "output", settings.OutputMode,
		"workers", settings.EffectiveConcurrency())

	final, err := manager.Run(ctx, rows)
	if err != nil {
		return err
	}
	printSummary(final)
	return nil
}

// loadSettings loads the config file and layers explicit flags on top.
func loadSettings(cmd *cli.Command) (*config.Settings, error) {
	settings, err := config.Load(cmd.String("config"))
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if cmd.IsSet("mode") {
		settings.MatchMode = cmd.String("mode")
	}
	if cmd.IsSet("concurrency") {
		settings.Concurrency = int(cmd.Int("concurrency"))
	}
	if cmd.IsSet("output") {
		settings.OutputMode = cmd.String("output")
	}
	if cmd.IsSet("batch-size") {
		settings.ArchiveBatchSize = int(cmd.Int("batch-size"))
	}
	if cmd.IsSet("out-dir") {
		settings.DownloadsPath = cmd.String("out-dir")
	}
	if cmd.IsSet("upload-endpoint") {
		settings.UploadEndpoint = cmd.String("upload-endpoint")
	}
	if cmd.IsSet("sources") {
		settings.Sources = cmd.StringSlice("sources")
	}
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	return settings, nil
}

func readList(path string) ([]model.QueryRow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open song list: %w", err)
	}
	defer f.Close()
	rows, err := songlist.Parse(f)
	if err != nil {
		return nil, fmt.Errorf("parse song list: %w", err)
	}
	return rows, nil
}

func printSummary(rows []model.QueryRow) {
	done, failed := 0, 0
	for _, row := range rows {
		if row.Status == model.StatusDone {
			done++
		} else {
			failed++
		}
	}
	fmt.Printf("\n完成 %d 首，失败 %d 首，共 %d 首\n", done, failed, len(rows))
	for _, row := range rows {
		if row.Status != model.StatusDone {
			fmt.Printf("  ✗ %s - %s: %s\n", row.Title, row.Artist, row.Message)
		}
	}
}
