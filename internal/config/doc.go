// Package config provides configuration management for songfetch.
//
// This package handles:
//   - Loading and saving settings from TOML files
//   - Default configuration values
//   - Validation of the run-affecting options (match mode, output mode,
//     concurrency, archive batch size)
//
// # Default Settings
//
// Use DefaultSettings() to get sensible defaults:
//
//	settings := config.DefaultSettings()
//	// Downloads to ~/Music/songfetch
//	// auto match mode, 4 workers, local output
//	// ID3 tagging with embedded cover art enabled
//
// # Loading from File
//
//	settings, err := config.Load("/path/to/config.toml")
//	if err != nil {
//	    // Uses defaults if file doesn't exist
//	}
//
// # Saving Settings
//
//	settings.Concurrency = 8
//	err := settings.Save("/path/to/config.toml")
//
// # Manual mode
//
// MatchMode "manual" asks the user to pick a candidate per row, which cannot
// be parallelized: EffectiveConcurrency() forces the worker count to 1 in
// that mode regardless of the configured Concurrency.
package config
