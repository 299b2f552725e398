// Package engine is the client for the remote workflow execution engine.
// It composes an ExecutionRequest from a workflow graph, submits it,
// polls the execution until it reaches a terminal status and extracts
// the generated answer plus retrieved evidence from the result.
package engine

import (
	"encoding/json"
	"time"
)

// Node kinds the composer needs to recognize. Any other kind passes
// through the composer untouched.
const (
	NodeKindSearch     = "search"
	NodeKindGeneration = "generation"
)

// Parameter keys injected by the composer.
const (
	ParamQuery        = "query"
	ParamStoreID      = "store_id"
	ParamUseMemory    = "use_memory"
	ParamSessionID    = "session_id"
	ParamMemoryWindow = "memory_window"
)

// Position is the canvas position of a node. The engine ignores it but
// the request mirrors what the studio has on screen.
type Position struct {
	X float32 `json:"x"`
	Y float32 `json:"y"`
}

// NodeDescriptor describes one node of the submitted graph. ID must be
// unique within a request.
type NodeDescriptor struct {
	ID         string         `json:"id"`
	Kind       string         `json:"kind"`
	Position   Position       `json:"position"`
	Parameters map[string]any `json:"parameters"`
}

// EdgeDescriptor connects two nodes by id. The engine owns graph
// validity, the client does not check for cycles.
type EdgeDescriptor struct {
	ID     string `json:"id"`
	Source string `json:"source"`
	Target string `json:"target"`
}

// ExecutionRequest is the body of POST /workflows:execute. It is built
// fresh per call and never mutated after submission.
type ExecutionRequest struct {
	Name  string           `json:"name"`
	Nodes []NodeDescriptor `json:"nodes"`
	Edges []EdgeDescriptor `json:"edges"`
}

// ExecutionStatus is the engine-reported state of an execution.
type ExecutionStatus string

const (
	StatusPending   ExecutionStatus = "pending"
	StatusRunning   ExecutionStatus = "running"
	StatusCompleted ExecutionStatus = "completed"
	StatusFailed    ExecutionStatus = "failed"
)

// Terminal reports whether no further polling is meaningful.
func (s ExecutionStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// ExecutionResult is the engine's view of one execution, returned both
// by the submit call and by the polling endpoint. Results only holds
// entries for nodes that actually ran before the execution ended, so
// every lookup has to be defensive.
type ExecutionResult struct {
	ExecutionID string                     `json:"execution_id"`
	Status      ExecutionStatus            `json:"status"`
	Results     map[string]json.RawMessage `json:"results"`
	TotalCost   float64                    `json:"total_cost"`
	DurationMS  int64                      `json:"duration_ms"`
	CompletedAt *time.Time                 `json:"completed_at,omitempty"`
}

// NodeOutput is the slice of a per-node result the client relies on.
// Response and Content are pointers so a present-but-empty string can
// be told apart from a missing field.
type NodeOutput struct {
	Response *string        `json:"response"`
	Content  *string        `json:"content"`
	Results  []EvidenceItem `json:"results"`
}

// EvidenceItem is one retrieved snippet with its relevance score.
type EvidenceItem struct {
	Text  string  `json:"text"`
	Score float64 `json:"score"`
}

// Answer is the extracted outcome of a completed execution.
type Answer struct {
	Text     string
	Cost     float64
	Evidence []EvidenceItem
}
