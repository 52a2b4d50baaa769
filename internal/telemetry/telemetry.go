// Package telemetry provides a JSONL event stream for generation runs. Every
// accepted artifact, skipped attempt and dedup pass is recorded as a
// structured JSON event so a run can be audited after the fact.
package telemetry

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"
)

// FileName is the telemetry file written inside each edition directory.
const FileName = "telemetry.jsonl"

// Event kinds identify the type of telemetry event.
const (
	KindRunStart       = "run_start"
	KindArtifact       = "artifact"
	KindAttemptSkipped = "attempt_skipped"
	KindDedupDone      = "dedup_done"
	KindRunDone        = "run_done"
)

// Event represents a single telemetry record.
type Event struct {
	Timestamp time.Time `json:"ts"`
	Kind      string    `json:"kind"`
	RunID     string    `json:"run,omitempty"`
	Edition   string    `json:"edition,omitempty"`
	Artifact  *int      `json:"artifact,omitempty"`
	Data      any       `json:"data,omitempty"`
}

// Emitter writes telemetry events to a JSONL file. It is safe for concurrent
// use by multiple goroutines. A nil *Emitter is a valid no-op emitter.
type Emitter struct {
	file    *os.File
	enc     *json.Encoder
	mu      sync.Mutex
	runID   string
	edition string
	now     func() time.Time
}

// NewEmitter creates an Emitter appending to path. Every event it writes is
// stamped with runID and edition.
func NewEmitter(path, runID, edition string) (*Emitter, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("telemetry: open %s: %w", path, err)
	}
	return &Emitter{
		file:    f,
		enc:     json.NewEncoder(f),
		runID:   runID,
		edition: edition,
		now:     time.Now,
	}, nil
}

// Emit writes a single event. Missing timestamp, run and edition fields are
// filled in. Calling Emit on a nil Emitter is a no-op.
func (e *Emitter) Emit(evt Event) error {
	if e == nil {
		return nil
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if evt.Timestamp.IsZero() {
		evt.Timestamp = e.now().UTC()
	}
	if evt.RunID == "" {
		evt.RunID = e.runID
	}
	if evt.Edition == "" {
		evt.Edition = e.edition
	}
	if err := e.enc.Encode(evt); err != nil {
		return fmt.Errorf("telemetry: encode event: %w", err)
	}
	return nil
}

// Artifact records an accepted artifact and its metadata row.
func (e *Emitter) Artifact(index int, row map[string]string) error {
	return e.Emit(Event{Kind: KindArtifact, Artifact: &index, Data: row})
}

// Close closes the underlying file. Calling Close on a nil Emitter is a no-op.
func (e *Emitter) Close() error {
	if e == nil {
		return nil
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.file.Close(); err != nil {
		return fmt.Errorf("telemetry: close: %w", err)
	}
	return nil
}
