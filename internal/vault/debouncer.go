package vault

import (
	"log/slog"
	"sync"
	"time"
)

// fileOp is a raw filesystem operation before coalescing.
type fileOp int

const (
	opCreate fileOp = iota
	opModify
	opDelete
)

// fileEvent is one raw filesystem event for a note path.
type fileEvent struct {
	path string
	op   fileOp
}

// debouncer coalesces rapid file events to prevent index thrashing.
// Events for the same path within the debounce window merge:
//   - CREATE + MODIFY = CREATE (file is still new)
//   - CREATE + DELETE = nothing (file never really existed)
//   - MODIFY + DELETE = DELETE (file is gone)
//   - DELETE + CREATE = MODIFY (file was replaced)
type debouncer struct {
	window  time.Duration
	mu      sync.Mutex
	pending map[string]*pendingEvent
	output  chan []fileEvent
	timer   *time.Timer
	stopped bool
}

type pendingEvent struct {
	event   fileEvent
	firstOp fileOp
}

func newDebouncer(window time.Duration) *debouncer {
	return &debouncer{
		window:  window,
		pending: make(map[string]*pendingEvent),
		output:  make(chan []fileEvent, 16),
	}
}

// add records an event, coalescing it with any pending event for the same
// path, and (re)arms the flush timer.
func (d *debouncer) add(ev fileEvent) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}

	if existing, ok := d.pending[ev.path]; ok {
		coalesced := coalesce(existing, ev)
		if coalesced == nil {
			delete(d.pending, ev.path)
		} else {
			existing.event = *coalesced
		}
	} else {
		d.pending[ev.path] = &pendingEvent{event: ev, firstOp: ev.op}
	}

	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.window, d.flush)
}

// coalesce merges two events for the same path. Nil means the events
// cancelled each other out.
func coalesce(existing *pendingEvent, next fileEvent) *fileEvent {
	switch existing.firstOp {
	case opCreate:
		switch next.op {
		case opModify:
			return &existing.event
		case opDelete:
			return nil
		default:
			return &next
		}
	case opDelete:
		if next.op == opCreate {
			next.op = opModify
			return &next
		}
		return &next
	default:
		return &next
	}
}

// flush emits all pending events as one batch.
func (d *debouncer) flush() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped || len(d.pending) == 0 {
		return
	}

	events := make([]fileEvent, 0, len(d.pending))
	for _, pe := range d.pending {
		events = append(events, pe.event)
	}
	d.pending = make(map[string]*pendingEvent)

	select {
	case d.output <- events:
	default:
		slog.Warn("debouncer output full, dropping batch", slog.Int("batch_size", len(events)))
	}
}

// Output returns the channel of debounced event batches.
func (d *debouncer) Output() <-chan []fileEvent {
	return d.output
}

// stop halts the debouncer and closes the output channel.
func (d *debouncer) stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}
	d.stopped = true
	if d.timer != nil {
		d.timer.Stop()
	}
	close(d.output)
}
