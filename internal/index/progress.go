// Package index ingests note-change events into the store: it is the
// single writer, parsing each note and installing it atomically.
package index

import (
	"sync"
	"time"
)

// State represents the overall indexing state.
type State string

const (
	// StateIdle indicates no indexing has run yet.
	StateIdle State = "idle"
	// StateScanning indicates a rescan is in progress.
	StateScanning State = "scanning"
	// StateReady indicates indexing is complete and search is available.
	StateReady State = "ready"
	// StateError indicates indexing failed with an error.
	StateError State = "error"
)

// ProgressSnapshot is an immutable snapshot of indexing progress.
type ProgressSnapshot struct {
	State          State   `json:"state"`
	NotesTotal     int     `json:"notes_total"`
	NotesProcessed int     `json:"notes_processed"`
	ProgressPct    float64 `json:"progress_pct"`
	ElapsedSeconds int     `json:"elapsed_seconds"`
	ErrorMessage   string  `json:"error_message,omitempty"`
}

// Progress provides thread-safe tracking of indexing progress.
type Progress struct {
	mu sync.RWMutex

	state        State
	total        int
	processed    int
	startTime    time.Time
	errorMessage string
}

// NewProgress creates a progress tracker in the idle state.
func NewProgress() *Progress {
	return &Progress{state: StateIdle, startTime: time.Now()}
}

// BeginScan marks the start of a rescan over total notes.
func (p *Progress) BeginScan(total int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.state = StateScanning
	p.total = total
	p.processed = 0
	p.errorMessage = ""
	p.startTime = time.Now()
}

// NoteDone increments the processed-note counter.
func (p *Progress) NoteDone() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.processed++
}

// SetReady marks indexing as complete and ready for search.
func (p *Progress) SetReady() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.state = StateReady
}

// SetError marks indexing as failed with an error message.
func (p *Progress) SetError(message string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.state = StateError
	p.errorMessage = message
}

// IsScanning returns true while a rescan is in progress.
func (p *Progress) IsScanning() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()

	return p.state == StateScanning
}

// Snapshot returns an immutable copy of the current progress state.
func (p *Progress) Snapshot() ProgressSnapshot {
	p.mu.RLock()
	defer p.mu.RUnlock()

	var pct float64
	if p.total > 0 {
		pct = float64(p.processed) / float64(p.total) * 100.0
	}

	return ProgressSnapshot{
		State:          p.state,
		NotesTotal:     p.total,
		NotesProcessed: p.processed,
		ProgressPct:    pct,
		ElapsedSeconds: int(time.Since(p.startTime).Seconds()),
		ErrorMessage:   p.errorMessage,
	}
}
