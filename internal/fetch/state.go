package fetch

import (
	"sync"
	"sync/atomic"

	"github.com/fyxsky/songfetch/internal/model"
)

// RunState holds the rows of one run and hands them out to workers.
//
// Claiming goes through an atomic cursor, so each row index is issued to
// exactly one worker. Row mutation goes through the Set* methods; reads
// take a snapshot, so observers (TUI, summary printing) never see a row
// mid-update.
type RunState struct {
	cursor atomic.Int64

	mu   sync.RWMutex
	rows []model.QueryRow
}

// NewRunState creates run state over the parsed query rows.
func NewRunState(rows []model.QueryRow) *RunState {
	return &RunState{rows: rows}
}

// Claim issues the next unclaimed row index. The second return value is
// false once every row has been claimed. Indices are issued in strictly
// increasing order; rows may still complete out of order.
func (s *RunState) Claim() (int, bool) {
	idx := int(s.cursor.Add(1)) - 1
	if idx >= s.Len() {
		return 0, false
	}
	return idx, true
}

// Len returns the number of rows in the run.
func (s *RunState) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.rows)
}

// Row returns a copy of the row at idx.
func (s *RunState) Row(idx int) model.QueryRow {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.rows[idx]
}

// Rows returns a snapshot of all rows.
func (s *RunState) Rows() []model.QueryRow {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.QueryRow, len(s.rows))
	copy(out, s.rows)
	return out
}

// SetStatus advances a row's status. Statuses only move forward: a row
// that already reached a terminal status is never modified again.
func (s *RunState) SetStatus(idx int, status model.RowStatus, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	row := &s.rows[idx]
	if row.Status.Terminal() || status < row.Status {
		return
	}
	row.Status = status
	row.Message = message
}

// SetResult records where a row's output was delivered.
func (s *RunState) SetResult(idx int, location string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows[idx].ResultLocation = location
}

// SetCoverStatus records the outcome of the row's cover-art leg.
func (s *RunState) SetCoverStatus(idx int, status model.FieldStatus) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows[idx].CoverStatus = status
}

// SetLyricStatus records the outcome of the row's lyric leg.
func (s *RunState) SetLyricStatus(idx int, status model.FieldStatus) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows[idx].LyricStatus = status
}

// Summary is a point-in-time count of row outcomes.
type Summary struct {
	Total   int
	Done    int
	Failed  int
	Running int // claimed but not yet terminal
	Pending int
}

// Summary counts the rows by outcome.
func (s *RunState) Summary() Summary {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sum := Summary{Total: len(s.rows)}
	for _, row := range s.rows {
		switch {
		case row.Status == model.StatusDone:
			sum.Done++
		case row.Status == model.StatusFailed:
			sum.Failed++
		case row.Status == model.StatusPending:
			sum.Pending++
		default:
			sum.Running++
		}
	}
	return sum
}
