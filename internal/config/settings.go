package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Match modes. See Settings.MatchMode.
const (
	MatchAuto    = "auto"
	MatchPrecise = "precise"
	MatchManual  = "manual"
)

// Output modes. See Settings.OutputMode.
const (
	OutputLocal   = "local"
	OutputArchive = "archive"
	OutputUpload  = "upload"
)

// Settings holds all configuration options. A Settings value is immutable
// for the duration of a run.
type Settings struct {
	// Match settings
	MatchMode string `toml:"match_mode"` // auto, precise, manual

	// Run settings
	Concurrency        int      `toml:"concurrency"`
	ProviderTimeoutSec float64  `toml:"provider_timeout_sec"`
	Sources            []string `toml:"sources"` // ordered catalog subset, e.g. ["qq", "kugou", "netease"]

	// Output settings
	OutputMode       string `toml:"output_mode"` // local, archive, upload
	ArchiveBatchSize int    `toml:"archive_batch_size"`
	DownloadsPath    string `toml:"downloads_path"`
	UploadEndpoint   string `toml:"upload_endpoint"`

	// Retry settings
	DownloadMaxRetries    int     `toml:"download_max_retries"`
	DownloadRetryCooldown float64 `toml:"download_retry_cooldown"`
	DownloadRetryExponent float64 `toml:"download_retry_exponent"`

	// Cover art settings
	SaveCoverArtInTags   bool `toml:"save_cover_art_in_tags"`
	CoverArtResize       bool `toml:"cover_art_resize"`
	CoverArtMaxSize      int  `toml:"cover_art_max_size"`
	ConvertCoverArtToJPG bool `toml:"convert_cover_art_to_jpg"`

	// Playlist settings (local output mode only)
	CreatePlaylist bool `toml:"create_playlist"`

	// Logging
	LogLevel string `toml:"log_level"` // debug, info, warn, error
}

// DefaultSettings returns settings with default values.
//
// The default source order mirrors the catalogs' historical reliability for
// this workload: qq, then kugou, then netease.
func DefaultSettings() *Settings {
	homeDir, _ := os.UserHomeDir()
	return &Settings{
		MatchMode: MatchAuto,

		Concurrency:        4,
		ProviderTimeoutSec: 12,
		Sources:            []string{"qq", "kugou", "netease"},

		OutputMode:       OutputLocal,
		ArchiveBatchSize: 20,
		DownloadsPath:    filepath.Join(homeDir, "Music", "songfetch"),

		DownloadMaxRetries:    3,
		DownloadRetryCooldown: 0.2,
		DownloadRetryExponent: 4.0,

		SaveCoverArtInTags:   true,
		CoverArtResize:       true,
		CoverArtMaxSize:      1000,
		ConvertCoverArtToJPG: true,

		CreatePlaylist: false,

		LogLevel: "info",
	}
}

// Load reads settings from a TOML file. A missing file is not an error:
// defaults are returned so a first run works without any setup.
func Load(path string) (*Settings, error) {
	settings := DefaultSettings()
	if _, err := toml.DecodeFile(path, settings); err != nil {
		if os.IsNotExist(err) {
			return DefaultSettings(), nil
		}
		return nil, err
	}
	return settings, nil
}

// Save writes settings to a TOML file, creating parent directories as needed.
func (s *Settings) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return toml.NewEncoder(f).Encode(s)
}

// Validate checks the run-affecting options and returns the first problem
// found.
func (s *Settings) Validate() error {
	switch s.MatchMode {
	case MatchAuto, MatchPrecise, MatchManual:
	default:
		return fmt.Errorf("invalid match_mode %q (want auto, precise or manual)", s.MatchMode)
	}
	switch s.OutputMode {
	case OutputLocal, OutputArchive, OutputUpload:
	default:
		return fmt.Errorf("invalid output_mode %q (want local, archive or upload)", s.OutputMode)
	}
	if s.Concurrency < 1 {
		return fmt.Errorf("concurrency must be >= 1, got %d", s.Concurrency)
	}
	if s.OutputMode == OutputArchive && s.ArchiveBatchSize < 1 {
		return fmt.Errorf("archive_batch_size must be >= 1, got %d", s.ArchiveBatchSize)
	}
	if s.OutputMode == OutputUpload && s.UploadEndpoint == "" {
		return fmt.Errorf("upload_endpoint is required for output_mode=upload")
	}
	return nil
}

// EffectiveConcurrency is the worker-pool size actually used for the run.
// Manual candidate selection prompts the user per row and therefore cannot
// run in parallel; manual mode always runs with a single worker.
func (s *Settings) EffectiveConcurrency() int {
	if s.MatchMode == MatchManual {
		return 1
	}
	if s.Concurrency < 1 {
		return 1
	}
	return s.Concurrency
}
