package pkg

import (
	"encoding/json"
	"fmt"
	"log"

	"github.com/nats-io/nats.go"
)

// RunPhase is the coarse state of a chat run as shown in the studio
type RunPhase string

const (
	PhaseSubmitted RunPhase = "submitted"
	PhasePolling   RunPhase = "polling"
	PhaseCompleted RunPhase = "completed"
	PhaseFailed    RunPhase = "failed"
	PhaseTimedOut  RunPhase = "timed_out"
)

// RunProgress is one progress update for a workflow run
type RunProgress struct {
	ExecutionID string   `json:"executionId"`
	Phase       RunPhase `json:"phase"`
	Message     string   `json:"message"`
}

// ProgressFunc is a function that reports progress for a run
type ProgressFunc func(RunProgress)

// ProgressReporter sends run progress updates via NATS
type ProgressReporter struct {
	conn    *nats.Conn
	subject string
	noop    bool
}

// NewProgressReporter creates a new NATS-based progress reporter.
// Best-effort: if NATS connection fails, returns a no-op reporter (never fails the run).
func NewProgressReporter(natsURL, tenantID string, workflowID uint) *ProgressReporter {
	subject := fmt.Sprintf("tenant.%s.run.%d.progress", tenantID, workflowID)

	nc, err := nats.Connect(natsURL)
	if err != nil {
		log.Printf("WARNING: NATS connection failed (%s), progress reporting disabled: %v", natsURL, err)
		return &ProgressReporter{noop: true, subject: subject}
	}

	return &ProgressReporter{
		conn:    nc,
		subject: subject,
	}
}

// Close drains and closes the NATS connection
func (r *ProgressReporter) Close() {
	if r.noop || r.conn == nil {
		return
	}
	if err := r.conn.Drain(); err != nil {
		log.Printf("NATS drain error: %v", err)
	}
}

// ReportFunc returns a ProgressFunc that publishes updates to NATS
func (r *ProgressReporter) ReportFunc() ProgressFunc {
	if r.noop {
		return func(p RunProgress) {
			log.Printf("progress (no-op): execution=%s phase=%s", p.ExecutionID, p.Phase)
		}
	}

	return func(p RunProgress) {
		data, err := json.Marshal(p)
		if err != nil {
			log.Printf("progress marshal error: %v", err)
			return
		}
		if err := r.conn.Publish(r.subject, data); err != nil {
			log.Printf("progress publish error: %v", err)
		}
	}
}
