package response

import (
	"api/internal/api/models"
	"time"
)

type Run struct {
	ID          uint             `json:"id"`
	WorkflowID  uint             `json:"workflowId"`
	ExecutionID string           `json:"executionId"`
	SessionID   string           `json:"sessionId"`
	Query       string           `json:"query"`
	Status      models.RunStatus `json:"status"`
	Answer      string           `json:"answer"`
	ErrorKind   string           `json:"errorKind,omitempty"`
	Error       string           `json:"error,omitempty"`
	Cost        float64          `json:"cost"`
	DurationMs  int64            `json:"durationMs"`
	StartedAt   time.Time        `json:"startedAt"`
	FinishedAt  *time.Time       `json:"finishedAt,omitempty"`
}
