package model

// RowStatus describes where a query row currently is in the pipeline.
//
// Statuses progress monotonically: a row never moves backwards, and once it
// reaches StatusDone or StatusFailed it is terminal.
type RowStatus int

const (
	// StatusPending means the row has not been claimed by a worker yet.
	StatusPending RowStatus = iota

	// StatusSearching means the row's query is being searched across catalogs.
	StatusSearching

	// StatusResolving means candidates are being matched and probed for playability.
	StatusResolving

	// StatusFetching means detail, lyric and audio retrieval are in flight.
	StatusFetching

	// StatusUploading means the finished payload is being sent to the storage gateway.
	StatusUploading

	// StatusDone means the row completed and its output was delivered.
	StatusDone

	// StatusFailed means the row failed; Err holds the reason.
	StatusFailed
)

// String returns a short human-readable label for the status.
func (s RowStatus) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusSearching:
		return "searching"
	case StatusResolving:
		return "resolving"
	case StatusFetching:
		return "fetching"
	case StatusUploading:
		return "uploading"
	case StatusDone:
		return "done"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Terminal reports whether the status is final.
func (s RowStatus) Terminal() bool {
	return s == StatusDone || s == StatusFailed
}

// FieldStatus describes the outcome of an optional, non-fatal piece of row
// metadata (cover art, lyrics). A missing field degrades the output but never
// fails the row.
type FieldStatus int

const (
	FieldPending FieldStatus = iota
	FieldOK
	FieldMissing
	FieldFailed
)

// QueryRow is one (title, artist) query and its lifecycle state.
//
// Exactly one worker owns a row at a time; ownership transfers when a worker
// claims the row's index from the run cursor. All mutation goes through the
// owning worker (via fetch.RunState), so the fields carry no locking of their
// own.
type QueryRow struct {
	// Index is the row's position in the input list (0-based).
	Index int

	// Title and Artist are the original query strings, kept verbatim for
	// display and tagging. Matching always goes through match.Normalize.
	Title  string
	Artist string

	// Status is the row's current pipeline stage.
	Status RowStatus

	// CoverStatus and LyricStatus track the optional metadata legs.
	CoverStatus FieldStatus
	LyricStatus FieldStatus

	// ResultLocation is where the delivered output ended up: a local file
	// path, an archive name, or a storage gateway URL.
	ResultLocation string

	// Message is the human-readable status detail shown in the UI, typically
	// the failure reason for failed rows.
	Message string
}
