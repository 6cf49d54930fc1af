package provider

import (
	"errors"
	"fmt"
)

var (
	// ErrNotPlayable means the catalog marks the track as restricted
	// (typically VIP-only) and no download URL can be resolved for it.
	ErrNotPlayable = errors.New("provider: track not playable")

	// ErrNotFound means the track does not exist on the catalog.
	ErrNotFound = errors.New("provider: not found")

	// ErrUnknownSource means no registered adapter owns the given track ID.
	ErrUnknownSource = errors.New("provider: unknown source")
)

func IsNotPlayable(err error) bool { return errors.Is(err, ErrNotPlayable) }
func IsNotFound(err error) bool    { return errors.Is(err, ErrNotFound) }

// UpstreamError wraps a failure of one catalog's API, keeping the source name
// so the registry can log and skip it without failing the merged call.
type UpstreamError struct {
	Source string
	Err    error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("provider %s: %v", e.Source, e.Err)
}

func (e *UpstreamError) Unwrap() error { return e.Err }
