// Package events writes newline-delimited JSON progress records.
package events

import (
	"encoding/json"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Event types emitted during an analysis run.
const (
	TypeRunStart       = "run-start"
	TypePatternFailed  = "pattern-failed"
	TypeModelFailed    = "model-load-failed"
	TypeModelScored    = "model-scored"
	TypeReportWritten  = "report-written"
	TypeRunFinished    = "run-finished"
	TypeReportSummary  = "report-summary"
	TypeThreatAssessed = "threat-assessed"
)

// Event represents a single NDJSON record.
type Event struct {
	Type      string                 `json:"type"`
	Timestamp time.Time              `json:"timestamp"`
	RunID     string                 `json:"runId,omitempty"`
	Message   string                 `json:"message,omitempty"`
	Fields    map[string]interface{} `json:"fields,omitempty"`
}

// Emitter writes NDJSON events to an io.Writer safely across goroutines.
type Emitter struct {
	writer io.Writer
	runID  string
	mu     sync.Mutex
}

// NewEmitter returns an emitter that stamps every event with a fresh run ID.
func NewEmitter(w io.Writer) *Emitter {
	return &Emitter{writer: w, runID: uuid.NewString()}
}

// RunID returns the identifier stamped on events from this emitter.
func (e *Emitter) RunID() string {
	return e.runID
}

// Emit serializes the event to JSON and appends a newline.
func (e *Emitter) Emit(evt Event) error {
	if evt.Timestamp.IsZero() {
		evt.Timestamp = time.Now().UTC()
	}
	if evt.RunID == "" {
		evt.RunID = e.runID
	}

	payload, err := json.Marshal(evt)
	if err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if _, err := e.writer.Write(append(payload, '\n')); err != nil {
		return err
	}

	return nil
}
