package mapper

import (
	"api/internal/api/handler/request"
	"api/internal/api/models"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateWorkflowToModel(t *testing.T) {
	storeID := uint(4)
	req := request.CreateWorkflow{
		Name:    "support-bot",
		Active:  true,
		StoreID: &storeID,
		Nodes: []request.GraphNode{
			{Ref: "node-1", Kind: "search", Name: "Search", Xpos: 1, Ypos: 2, Params: map[string]any{"top_k": 5}},
			{Ref: "node-2", Kind: "generation", Name: "Generate"},
		},
		Edges: []request.GraphEdge{
			{Ref: "edge-1", Source: "node-1", Target: "node-2"},
		},
	}

	workflow, err := CreateWorkflowToModel(req)
	require.NoError(t, err)

	assert.Equal(t, "support-bot", workflow.Name)
	assert.True(t, workflow.Active)
	require.NotNil(t, workflow.StoreID)
	assert.Equal(t, uint(4), *workflow.StoreID)

	require.Len(t, workflow.Nodes, 2)
	assert.Equal(t, models.NodeKindSearch, workflow.Nodes[0].Kind)
	params, err := workflow.Nodes[0].ParamMap()
	require.NoError(t, err)
	assert.Equal(t, float64(5), params["top_k"])

	// A node sent without params still stores an empty object
	params, err = workflow.Nodes[1].ParamMap()
	require.NoError(t, err)
	assert.Empty(t, params)

	require.Len(t, workflow.Edges, 1)
	assert.Equal(t, "node-1", workflow.Edges[0].SourceRef)
	assert.Equal(t, "node-2", workflow.Edges[0].TargetRef)
}

func TestPatchWorkflow(t *testing.T) {
	name := "renamed"
	active := false
	req := request.UpdateWorkflow{Name: &name, Active: &active}

	patch := PatchWorkflow(req)
	assert.Equal(t, map[string]any{"name": "renamed", "active": false}, patch)

	assert.Empty(t, PatchWorkflow(request.UpdateWorkflow{}))
}

func TestToWorkflowResponseWithGraph(t *testing.T) {
	search := models.Node{ID: 7, Ref: "node-1", Kind: models.NodeKindSearch, Name: "Search"}
	require.NoError(t, search.SetParams(map[string]any{"store_id": "kb-1"}))

	workflow := models.Workflow{
		ID:    3,
		Name:  "support-bot",
		Store: &models.KnowledgeStore{ID: 4, Name: "docs", ExternalID: "kb-1", Ready: true},
		Nodes: []models.Node{search, {ID: 8, Ref: "node-2", Kind: models.NodeKindGeneration}},
		Edges: []models.Edge{{Ref: "edge-1", SourceRef: "node-1", TargetRef: "node-2"}},
	}

	resp := ToWorkflowResponseWithGraph(workflow)
	assert.Equal(t, uint(3), resp.ID)
	require.NotNil(t, resp.Store)
	assert.True(t, resp.Store.Ready)

	require.Len(t, resp.Nodes, 2)
	assert.Equal(t, "kb-1", resp.Nodes[0].Params["store_id"])
	assert.NotNil(t, resp.Nodes[1].Params)

	require.Len(t, resp.Edges, 1)
	assert.Equal(t, "node-1", resp.Edges[0].Source)
}

func TestToWorkflowResponseWithGraph_BrokenParamsDegrade(t *testing.T) {
	workflow := models.Workflow{
		Nodes: []models.Node{{Ref: "node-1", Kind: models.NodeKindSearch, Params: models.NodeParams("{oops")}},
	}

	resp := ToWorkflowResponseWithGraph(workflow)
	require.Len(t, resp.Nodes, 1)
	assert.NotNil(t, resp.Nodes[0].Params)
	assert.Empty(t, resp.Nodes[0].Params)
}
