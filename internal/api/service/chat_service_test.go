package service

import (
	"api/internal/api/models"
	"api/internal/engine"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chatWorkflow(t *testing.T) models.Workflow {
	t.Helper()

	search := models.Node{Ref: "node-1", Kind: models.NodeKindSearch, Name: "Search", Xpos: 10, Ypos: 20}
	require.NoError(t, search.SetParams(map[string]any{"top_k": float64(5)}))

	generation := models.Node{Ref: "node-2", Kind: models.NodeKindGeneration, Name: "Generate"}

	return models.Workflow{
		ID:    1,
		Name:  "support-bot",
		Nodes: []models.Node{search, generation},
		Edges: []models.Edge{{Ref: "edge-1", SourceRef: "node-1", TargetRef: "node-2"}},
	}
}

func TestGraphDescriptors(t *testing.T) {
	workflow := chatWorkflow(t)

	nodes, edges, err := graphDescriptors(workflow)
	require.NoError(t, err)
	require.Len(t, nodes, 2)
	require.Len(t, edges, 1)

	assert.Equal(t, "node-1", nodes[0].ID)
	assert.Equal(t, "search", nodes[0].Kind)
	assert.Equal(t, float32(10), nodes[0].Position.X)
	assert.Equal(t, float32(20), nodes[0].Position.Y)
	assert.Equal(t, map[string]any{"top_k": float64(5)}, nodes[0].Parameters)

	// A node without stored params still gets a non-nil map
	assert.NotNil(t, nodes[1].Parameters)
	assert.Empty(t, nodes[1].Parameters)

	assert.Equal(t, engine.EdgeDescriptor{ID: "edge-1", Source: "node-1", Target: "node-2"}, edges[0])
}

func TestGraphDescriptors_BrokenParams(t *testing.T) {
	workflow := chatWorkflow(t)
	workflow.Nodes[0].Params = models.NodeParams(`{not json`)

	_, _, err := graphDescriptors(workflow)
	require.Error(t, err)
}

func TestRequiredRefs(t *testing.T) {
	workflow := chatWorkflow(t)

	searchRef, generationRef := requiredRefs(workflow.Nodes)
	assert.Equal(t, "node-1", searchRef)
	assert.Equal(t, "node-2", generationRef)
}

func TestRequiredRefs_FirstOfKindWins(t *testing.T) {
	nodes := []models.Node{
		{Ref: "s1", Kind: models.NodeKindSearch},
		{Ref: "s2", Kind: models.NodeKindSearch},
		{Ref: "g1", Kind: models.NodeKindGeneration},
	}

	searchRef, generationRef := requiredRefs(nodes)
	assert.Equal(t, "s1", searchRef)
	assert.Equal(t, "g1", generationRef)
}

func TestErrorKind(t *testing.T) {
	cases := []struct {
		err  error
		kind string
	}{
		{fmt.Errorf("wrap: %w", engine.ErrMissingRequiredNode), "missing_required_node"},
		{fmt.Errorf("wrap: %w", engine.ErrSubmissionFailed), "submission_failed"},
		{fmt.Errorf("wrap: %w", engine.ErrPollTimeout), "poll_timeout"},
		{fmt.Errorf("wrap: %w", engine.ErrExecutionFailed), "execution_failed"},
		{fmt.Errorf("wrap: %w", engine.ErrNoGenerationOutput), "no_generation_output"},
		{errors.New("database down"), "internal"},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.kind, errorKind(tc.err), "kind for %v", tc.err)
	}
}
