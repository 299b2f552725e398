package request

// ChatQuery is one question asked against a workflow
type ChatQuery struct {
	Query     string `json:"query" validate:"required"`
	SessionID string `json:"sessionId"`
	UseMemory bool   `json:"useMemory"`
	// MemoryWindow overrides the default history size when > 0
	MemoryWindow int `json:"memoryWindow"`
}
