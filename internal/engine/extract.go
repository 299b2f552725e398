package engine

import (
	"encoding/json"
	"fmt"
)

// ExtractAnswer pulls the generated text and the retrieved evidence
// out of a terminal ExecutionResult.
//
// A non-completed result fails with ErrExecutionFailed right away; no
// partial extraction is attempted for failed runs. On a completed
// result the generation node must have produced a response or content
// field — an empty string counts as valid output, only a wholly
// missing field is ErrNoGenerationOutput. Evidence comes from the
// search node's output and degrades to an empty list when that output
// is absent or malformed.
func ExtractAnswer(result ExecutionResult, searchNodeID, generationNodeID string) (Answer, error) {
	if result.Status != StatusCompleted {
		return Answer{}, fmt.Errorf("%w: engine reported status %q", ErrExecutionFailed, result.Status)
	}

	raw, ok := result.Results[generationNodeID]
	if !ok {
		return Answer{}, fmt.Errorf("%w: no result for node %s", ErrNoGenerationOutput, generationNodeID)
	}
	var generation NodeOutput
	if err := json.Unmarshal(raw, &generation); err != nil {
		return Answer{}, fmt.Errorf("%w: unreadable result for node %s", ErrNoGenerationOutput, generationNodeID)
	}

	var text string
	switch {
	case generation.Response != nil:
		text = *generation.Response
	case generation.Content != nil:
		text = *generation.Content
	default:
		return Answer{}, fmt.Errorf("%w: node %s has neither response nor content", ErrNoGenerationOutput, generationNodeID)
	}

	evidence := make([]EvidenceItem, 0)
	if raw, ok := result.Results[searchNodeID]; ok {
		var search NodeOutput
		if err := json.Unmarshal(raw, &search); err == nil {
			evidence = append(evidence, search.Results...)
		}
	}

	return Answer{
		Text:     text,
		Cost:     result.TotalCost,
		Evidence: evidence,
	}, nil
}
