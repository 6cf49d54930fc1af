// Package fetch orchestrates a download run.
//
// A Manager spawns a bounded pool of workers over the run's query rows.
// Each worker claims the next row index from the shared RunState cursor
// and drives that row through the full pipeline: catalog search,
// candidate resolution, parallel retrieval of audio/lyric/cover, ID3
// tagging, and delivery through the configured output aggregator.
//
// Failure isolation is the package's core property: a row that cannot
// be matched, fetched, or delivered is marked Failed with a readable
// reason and the worker claims the next row. Nothing a single row does
// stops its siblings; the run ends when the cursor is exhausted and all
// in-flight rows settled.
package fetch
