package output

import (
	"context"
	"path/filepath"

	ioutils "github.com/fyxsky/songfetch/internal/io"
)

// LocalWriter delivers each item as an independent file under a
// downloads directory. Writes from concurrent workers never contend:
// each item goes to its own file.
type LocalWriter struct {
	dir string
}

// NewLocalWriter creates a LocalWriter, verifying up front that the
// directory exists and is writable.
func NewLocalWriter(dir string) (*LocalWriter, error) {
	if err := ioutils.CheckWritable(dir); err != nil {
		return nil, err
	}
	return &LocalWriter{dir: dir}, nil
}

// Deliver writes the item to <dir>/<FileName> and returns the full path.
func (w *LocalWriter) Deliver(_ context.Context, item Item) (string, error) {
	path := filepath.Join(w.dir, item.FileName)
	if err := ioutils.WriteFile(path, item.Payload); err != nil {
		return "", err
	}
	return path, nil
}

// Close is a no-op: local delivery buffers nothing.
func (w *LocalWriter) Close(context.Context) error {
	return nil
}
