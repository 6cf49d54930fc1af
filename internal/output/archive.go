package output

import (
	"archive/zip"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	ioutils "github.com/fyxsky/songfetch/internal/io"
)

// Archiver collects completed items into fixed-size zip batches.
//
// Items are appended to a shared buffer in arrival order. The moment
// the buffer reaches the batch size, the full batch is handed to the
// packaging queue and a fresh buffer starts; the remainder is flushed
// once more at Close. Packaging (the expensive compression step) runs
// on a single background goroutine, so at most one zip is being built
// at any time, while appends from workers never wait on an in-flight
// build.
//
// Batch membership is completion order, not row order: whichever rows
// finish first share the first archive.
type Archiver struct {
	dir    string
	runID  string
	batch  int
	logger *log.Logger

	// packFn builds one batch; indirection for tests.
	packFn func(archiveBatch) (string, error)

	mu      sync.Mutex
	cond    *sync.Cond
	pending []Item
	queue   []archiveBatch
	nextSeq int
	packing bool
	closed  bool
	err     error // first packaging failure, surfaced at Close
}

type archiveBatch struct {
	seq   int
	items []Item
}

// NewArchiver creates an Archiver writing zips into dir. A directory
// that cannot be written is reported here and is fatal for the run:
// archive mode without a working destination cannot deliver anything.
//
// runID distinguishes this run's archives from earlier ones in the same
// directory; when empty a random ID is generated.
func NewArchiver(dir, runID string, batchSize int, logger *log.Logger) (*Archiver, error) {
	if batchSize < 1 {
		return nil, fmt.Errorf("output: archive batch size must be >= 1, got %d", batchSize)
	}
	if err := ioutils.CheckWritable(dir); err != nil {
		return nil, fmt.Errorf("output: archive destination unusable: %w", err)
	}
	if runID == "" {
		runID = uuid.NewString()[:8]
	}
	if logger == nil {
		logger = log.Default()
	}
	a := &Archiver{
		dir:     dir,
		runID:   runID,
		batch:   batchSize,
		logger:  logger,
		nextSeq: 1,
	}
	a.cond = sync.NewCond(&a.mu)
	a.packFn = a.pack
	return a, nil
}

// Deliver appends the item to the current batch and returns the label
// of the archive the item will ship in. The final zip file name extends
// the label with the item count, which is only known when the batch
// flushes.
func (a *Archiver) Deliver(_ context.Context, item Item) (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed {
		return "", fmt.Errorf("output: deliver after close")
	}

	a.pending = append(a.pending, item)
	label := a.label(a.nextSeq)
	if len(a.pending) >= a.batch {
		a.flushLocked()
	}
	return label, nil
}

// Close flushes any partial batch, waits for the packaging queue to
// drain, and reports the first packaging failure of the run.
func (a *Archiver) Close(context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed {
		return nil
	}
	a.closed = true
	if len(a.pending) > 0 {
		a.flushLocked()
	}
	for a.packing || len(a.queue) > 0 {
		a.cond.Wait()
	}
	return a.err
}

// flushLocked moves the pending buffer onto the packaging queue.
// Callers hold a.mu.
func (a *Archiver) flushLocked() {
	a.queue = append(a.queue, archiveBatch{seq: a.nextSeq, items: a.pending})
	a.nextSeq++
	a.pending = nil
	if !a.packing {
		a.packing = true
		go a.drain()
	}
}

// drain builds archives one at a time until the queue is empty.
func (a *Archiver) drain() {
	a.mu.Lock()
	for len(a.queue) > 0 {
		batch := a.queue[0]
		a.queue = a.queue[1:]
		a.mu.Unlock()

		path, err := a.packFn(batch)
		a.mu.Lock()
		if err != nil {
			if a.err == nil {
				a.err = err
			}
			a.logger.Error("archive packaging failed", "seq", batch.seq, "err", err)
		} else {
			a.logger.Info("archive written", "path", path, "songs", len(batch.items))
		}
	}
	a.packing = false
	a.cond.Broadcast()
	a.mu.Unlock()
}

// pack writes one batch as a zip file and returns its path.
func (a *Archiver) pack(batch archiveBatch) (string, error) {
	name := fmt.Sprintf("%s-%dsongs.zip", a.label(batch.seq), len(batch.items))
	path := filepath.Join(a.dir, name)

	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	zw := zip.NewWriter(f)
	for _, item := range batch.items {
		w, err := zw.Create(item.FileName)
		if err == nil {
			_, err = w.Write(item.Payload)
		}
		if err != nil {
			zw.Close()
			f.Close()
			return "", err
		}
	}
	if err := zw.Close(); err != nil {
		f.Close()
		return "", err
	}
	return path, f.Close()
}

func (a *Archiver) label(seq int) string {
	return fmt.Sprintf("songfetch-%s-%03d", a.runID, seq)
}
