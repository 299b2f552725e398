package models

import "time"

type RunStatus string

const (
	RunStatusRunning   RunStatus = "running"
	RunStatusCompleted RunStatus = "completed"
	RunStatusFailed    RunStatus = "failed"
	// RunStatusIndeterminate means the polling budget ran out while
	// the engine still reported the execution as in progress. The
	// run may have finished server-side after we stopped looking.
	RunStatusIndeterminate RunStatus = "indeterminate"
)

// WorkflowRun is the history record of one chat execution.
type WorkflowRun struct {
	ID          uint `gorm:"primaryKey"`
	WorkflowID  uint `gorm:"index"`
	ExecutionID string
	SessionID   string
	Query       string
	Status      RunStatus
	Answer      string
	// ErrorKind is the stable taxonomy name of the failure
	// (submission_failed, poll_timeout, ...), Error the raw message.
	ErrorKind  string
	Error      string
	Cost       float64
	DurationMs int64
	StartedAt  time.Time
	FinishedAt *time.Time
}
