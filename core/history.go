package core

import (
	"sync"
	"time"
)

const defaultHistoryCapacity = 100

// StepRecord captures one step execution within a run.
type StepRecord struct {
	// RunID identifies the run the step belonged to.
	RunID string

	// SequencerTag is the tag of the owning sequencer, empty if unset.
	SequencerTag string

	// StepTag is the step's own tag, empty if unset.
	StepTag string

	// Animated reports whether the step was applied with animation.
	Animated bool

	// Forced reports whether the step was jumped to its end state by a
	// cancellation or termination rather than played.
	Forced bool

	// StartedAt is when the step application began.
	StartedAt time.Time

	// Duration is the wall-clock time the application took.
	Duration time.Duration
}

// stepHistory is a fixed-capacity ring buffer of step records.
type stepHistory struct {
	mu    sync.Mutex
	items []StepRecord
	head  int
	count int
}

func newStepHistory(capacity int) *stepHistory {
	if capacity < 1 {
		capacity = defaultHistoryCapacity
	}
	return &stepHistory{items: make([]StepRecord, capacity)}
}

func (h *stepHistory) Add(record StepRecord) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if len(h.items) == 0 {
		return
	}

	h.items[h.head] = record
	h.head = (h.head + 1) % len(h.items)
	if h.count < len(h.items) {
		h.count++
	}
}

// Recent returns up to limit records, most recent first. limit <= 0 means
// everything retained.
func (h *stepHistory) Recent(limit int) []StepRecord {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.count == 0 {
		return nil
	}

	if limit <= 0 || limit > h.count {
		limit = h.count
	}

	out := make([]StepRecord, 0, limit)
	for i := 0; i < limit; i++ {
		idx := (h.head - 1 - i + len(h.items)) % len(h.items)
		out = append(out, h.items[idx])
	}
	return out
}

func (h *stepHistory) Last() (StepRecord, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.count == 0 {
		return StepRecord{}, false
	}

	idx := (h.head - 1 + len(h.items)) % len(h.items)
	return h.items[idx], true
}
