// Package telemetry provides duration tracking for file operations.
package telemetry

import (
	"sync"
	"time"

	"file-gateway/src/internal/common"
)

// Tracker records operation durations under a topic/label key.
type Tracker struct {
	mu      sync.Mutex
	records map[string][]time.Duration
	logger  *common.SafeLogger
}

// NewTracker creates an empty tracker
func NewTracker() *Tracker {
	return &Tracker{
		records: make(map[string][]time.Duration),
		logger:  common.FileLogger,
	}
}

// Start begins a timed operation. The returned operation must be stopped
// exactly once; Stop is idempotent so stopping on both the success and the
// failure path is safe.
func (t *Tracker) Start(topic, label string) *TimedOperation {
	return &TimedOperation{
		tracker: t,
		topic:   topic,
		label:   label,
		started: time.Now(),
	}
}

func (t *Tracker) record(topic, label string, elapsed time.Duration) {
	key := topic + "/" + label
	t.mu.Lock()
	t.records[key] = append(t.records[key], elapsed)
	t.mu.Unlock()

	t.logger.Debug("%s took %v", key, elapsed)
}

// Count returns the number of completed operations recorded for topic/label
func (t *Tracker) Count(topic, label string) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.records[topic+"/"+label])
}

// Durations returns the recorded durations for topic/label
func (t *Tracker) Durations(topic, label string) []time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()
	recorded := t.records[topic+"/"+label]
	out := make([]time.Duration, len(recorded))
	copy(out, recorded)
	return out
}

// TimedOperation is an in-flight timed operation.
type TimedOperation struct {
	tracker *Tracker
	topic   string
	label   string
	started time.Time
	once    sync.Once
}

// Stop completes the operation and records its elapsed duration. Calling
// Stop more than once records nothing further.
func (op *TimedOperation) Stop() {
	op.once.Do(func() {
		op.tracker.record(op.topic, op.label, time.Since(op.started))
	})
}
