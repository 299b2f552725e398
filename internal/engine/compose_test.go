package engine

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chatGraph() ([]NodeDescriptor, []EdgeDescriptor) {
	nodes := []NodeDescriptor{
		{
			ID:       "s1",
			Kind:     NodeKindSearch,
			Position: Position{X: 100, Y: 200},
			Parameters: map[string]any{
				"top_k": 5,
			},
		},
		{
			ID:       "g1",
			Kind:     NodeKindGeneration,
			Position: Position{X: 400, Y: 200},
			Parameters: map[string]any{
				"model": "gpt-4o-mini",
			},
		},
	}
	edges := []EdgeDescriptor{
		{ID: "e1", Source: "s1", Target: "g1"},
	}
	return nodes, edges
}

func TestComposeRequest_OverlaysSearchAndGeneration(t *testing.T) {
	nodes, edges := chatGraph()

	req, err := ComposeRequest("My workflow", nodes, edges, ComposeParams{
		Query:     "what is a watermark?",
		StoreID:   "kb-42",
		UseMemory: true,
		SessionID: "sess-1",
	})
	require.NoError(t, err)

	require.Len(t, req.Nodes, 2)
	search := req.Nodes[0]
	assert.Equal(t, "what is a watermark?", search.Parameters[ParamQuery])
	assert.Equal(t, "kb-42", search.Parameters[ParamStoreID])
	assert.Equal(t, 5, search.Parameters["top_k"], "existing parameters must survive the overlay")

	generation := req.Nodes[1]
	assert.Equal(t, "what is a watermark?", generation.Parameters[ParamQuery])
	assert.Equal(t, true, generation.Parameters[ParamUseMemory])
	assert.Equal(t, "sess-1", generation.Parameters[ParamSessionID])
	assert.Equal(t, DefaultMemoryWindow, generation.Parameters[ParamMemoryWindow])
	assert.Equal(t, "gpt-4o-mini", generation.Parameters["model"])

	assert.Equal(t, edges, req.Edges)
}

func TestComposeRequest_Deterministic(t *testing.T) {
	nodes, edges := chatGraph()
	params := ComposeParams{Query: "hello", StoreID: "kb-1", SessionID: "s"}

	first, err := ComposeRequest("wf", nodes, edges, params)
	require.NoError(t, err)
	second, err := ComposeRequest("wf", nodes, edges, params)
	require.NoError(t, err)

	assert.Equal(t, first, second)

	firstJSON, err := json.Marshal(first)
	require.NoError(t, err)
	secondJSON, err := json.Marshal(second)
	require.NoError(t, err)
	assert.Equal(t, firstJSON, secondJSON, "serialized requests must be byte-identical")
}

func TestComposeRequest_DoesNotMutateInput(t *testing.T) {
	nodes, edges := chatGraph()

	_, err := ComposeRequest("wf", nodes, edges, ComposeParams{Query: "q", StoreID: "kb-1"})
	require.NoError(t, err)

	assert.NotContains(t, nodes[0].Parameters, ParamQuery)
	assert.NotContains(t, nodes[0].Parameters, ParamStoreID)
	assert.NotContains(t, nodes[1].Parameters, ParamSessionID)
}

func TestComposeRequest_DeclaredStoreIDWins(t *testing.T) {
	nodes, edges := chatGraph()
	nodes[0].Parameters[ParamStoreID] = "kb-pinned"

	for _, resolved := range []string{"kb-other", ""} {
		req, err := ComposeRequest("wf", nodes, edges, ComposeParams{Query: "q", StoreID: resolved})
		require.NoError(t, err)
		assert.Equal(t, "kb-pinned", req.Nodes[0].Parameters[ParamStoreID],
			"resolved store id %q must not overwrite a declared one", resolved)
	}
}

func TestComposeRequest_ResolvedStoreIDFillsGap(t *testing.T) {
	nodes, edges := chatGraph()

	req, err := ComposeRequest("wf", nodes, edges, ComposeParams{Query: "q", StoreID: "kb-7"})
	require.NoError(t, err)
	assert.Equal(t, "kb-7", req.Nodes[0].Parameters[ParamStoreID])
}

func TestComposeRequest_MemoryWindowOverride(t *testing.T) {
	nodes, edges := chatGraph()

	req, err := ComposeRequest("wf", nodes, edges, ComposeParams{Query: "q", MemoryWindow: 25})
	require.NoError(t, err)
	assert.Equal(t, 25, req.Nodes[1].Parameters[ParamMemoryWindow])
}

func TestComposeRequest_MissingGenerationNode(t *testing.T) {
	nodes, edges := chatGraph()
	nodes = nodes[:1] // search only

	_, err := ComposeRequest("wf", nodes, edges, ComposeParams{Query: "q"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMissingRequiredNode)
}

func TestComposeRequest_MissingSearchNode(t *testing.T) {
	nodes, edges := chatGraph()
	nodes = nodes[1:] // generation only

	_, err := ComposeRequest("wf", nodes, edges, ComposeParams{Query: "q"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMissingRequiredNode)
}

func TestComposeRequest_OtherNodesPassThrough(t *testing.T) {
	nodes, edges := chatGraph()
	nodes = append(nodes, NodeDescriptor{
		ID:         "t1",
		Kind:       "transform",
		Parameters: map[string]any{"mode": "upper"},
	})

	req, err := ComposeRequest("wf", nodes, edges, ComposeParams{Query: "q", StoreID: "kb-1"})
	require.NoError(t, err)

	transform := req.Nodes[2]
	assert.Equal(t, map[string]any{"mode": "upper"}, transform.Parameters)
}
