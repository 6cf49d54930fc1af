package output

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/fyxsky/songfetch/internal/config"
)

// Item is one completed download ready for delivery.
type Item struct {
	// FileName is the sanitized output name, e.g. "晴天-周杰伦.mp3".
	FileName string

	// Payload is the tagged audio.
	Payload []byte
}

// Aggregator delivers completed items. Implementations are safe for
// concurrent Deliver calls from the worker pool.
//
// Deliver returns the item's result location: a file path, an archive
// label, or a retrieval URL. Close flushes anything still buffered and
// must be called exactly once after the last Deliver; Deliver after
// Close is a programming error.
type Aggregator interface {
	Deliver(ctx context.Context, item Item) (string, error)
	Close(ctx context.Context) error
}

// ForSettings builds the aggregator for the configured output mode.
//
// A destination that cannot be written is reported here, before any row
// is processed, so a bad output directory fails the run at startup.
func ForSettings(settings *config.Settings, runID string, logger *log.Logger) (Aggregator, error) {
	switch settings.OutputMode {
	case config.OutputLocal:
		return NewLocalWriter(settings.DownloadsPath)
	case config.OutputArchive:
		return NewArchiver(settings.DownloadsPath, runID, settings.ArchiveBatchSize, logger)
	case config.OutputUpload:
		return NewUploader(NewHTTPGateway(settings.UploadEndpoint)), nil
	default:
		return nil, fmt.Errorf("output: unknown mode %q", settings.OutputMode)
	}
}
