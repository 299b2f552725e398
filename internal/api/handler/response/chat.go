package response

// Evidence is one retrieved snippet backing an answer
type Evidence struct {
	Text  string  `json:"text"`
	Score float64 `json:"score"`
}

type ChatAnswer struct {
	Text        string     `json:"text"`
	Evidence    []Evidence `json:"evidence"`
	Cost        float64    `json:"cost"`
	ExecutionID string     `json:"executionId"`
	SessionID   string     `json:"sessionId"`
	StoreReady  bool       `json:"storeReady"`
	RunID       uint       `json:"runId"`
}
