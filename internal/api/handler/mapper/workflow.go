package mapper

import (
	"api/internal/api/handler/request"
	"api/internal/api/handler/response"
	"api/internal/api/models"
	"api/internal/api/service"
)

// CreateWorkflowToModel converts a create request to a workflow model
// with its graph attached.
func CreateWorkflowToModel(req request.CreateWorkflow) (models.Workflow, error) {
	nodes, err := GraphNodesToModel(req.Nodes)
	if err != nil {
		return models.Workflow{}, err
	}
	return models.Workflow{
		Name:        req.Name,
		Description: req.Description,
		Active:      req.Active,
		StoreID:     req.StoreID,
		Nodes:       nodes,
		Edges:       GraphEdgesToModel(req.Edges),
	}, nil
}

// PatchWorkflow builds the column patch for a partial update
func PatchWorkflow(req request.UpdateWorkflow) map[string]any {
	patch := map[string]any{}
	if req.Name != nil {
		patch["name"] = *req.Name
	}
	if req.Description != nil {
		patch["description"] = *req.Description
	}
	if req.Active != nil {
		patch["active"] = *req.Active
	}
	if req.StoreID != nil {
		patch["store_id"] = *req.StoreID
	}
	return patch
}

func GraphNodesToModel(reqNodes []request.GraphNode) ([]models.Node, error) {
	var nodes []models.Node
	for _, n := range reqNodes {
		node := models.Node{
			Ref:  n.Ref,
			Kind: models.NodeKind(n.Kind),
			Name: n.Name,
			Xpos: n.Xpos,
			Ypos: n.Ypos,
		}
		params := n.Params
		if params == nil {
			params = map[string]any{}
		}
		if err := node.SetParams(params); err != nil {
			return nil, err
		}
		nodes = append(nodes, node)
	}
	return nodes, nil
}

func GraphEdgesToModel(reqEdges []request.GraphEdge) []models.Edge {
	var edges []models.Edge
	for _, e := range reqEdges {
		edges = append(edges, models.Edge{
			Ref:       e.Ref,
			SourceRef: e.Source,
			TargetRef: e.Target,
		})
	}
	return edges
}

func ToWorkflowResponse(w models.Workflow) response.Workflow {
	return response.Workflow{
		ID:          w.ID,
		Name:        w.Name,
		Description: w.Description,
		Active:      w.Active,
		StoreID:     w.StoreID,
		CreatedAt:   w.CreatedAt,
		UpdatedAt:   w.UpdatedAt,
	}
}

func ToWorkflowResponses(entities []models.Workflow) []response.Workflow {
	responses := make([]response.Workflow, len(entities))
	for i, w := range entities {
		responses[i] = ToWorkflowResponse(w)
	}
	return responses
}

// ToWorkflowResponseWithGraph converts a workflow model to a response
// including its nodes and edges.
func ToWorkflowResponseWithGraph(w models.Workflow) response.WorkflowWithGraph {
	resp := response.WorkflowWithGraph{
		ID:          w.ID,
		Name:        w.Name,
		Description: w.Description,
		Active:      w.Active,
		StoreID:     w.StoreID,
		Nodes:       make([]response.Node, 0, len(w.Nodes)),
		Edges:       make([]response.Edge, 0, len(w.Edges)),
		CreatedAt:   w.CreatedAt,
		UpdatedAt:   w.UpdatedAt,
	}

	if w.Store != nil {
		store := ToStoreResponse(*w.Store)
		resp.Store = &store
	}

	for _, n := range w.Nodes {
		// Broken params should not make the whole workflow unreadable
		params, err := n.ParamMap()
		if err != nil {
			params = map[string]any{}
		}
		resp.Nodes = append(resp.Nodes, response.Node{
			ID:     n.ID,
			Ref:    n.Ref,
			Kind:   n.Kind,
			Name:   n.Name,
			Xpos:   n.Xpos,
			Ypos:   n.Ypos,
			Params: params,
		})
	}

	for _, e := range w.Edges {
		resp.Edges = append(resp.Edges, response.Edge{
			Ref:    e.Ref,
			Source: e.SourceRef,
			Target: e.TargetRef,
		})
	}

	return resp
}

func ToStoreResponse(s models.KnowledgeStore) response.Store {
	return response.Store{
		ID:          s.ID,
		Name:        s.Name,
		Description: s.Description,
		ExternalID:  s.ExternalID,
		Ready:       s.Ready,
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
}

func ToStoreResponses(entities []models.KnowledgeStore) []response.Store {
	responses := make([]response.Store, len(entities))
	for i, s := range entities {
		responses[i] = ToStoreResponse(s)
	}
	return responses
}

func ToRunResponse(r models.WorkflowRun) response.Run {
	return response.Run{
		ID:          r.ID,
		WorkflowID:  r.WorkflowID,
		ExecutionID: r.ExecutionID,
		SessionID:   r.SessionID,
		Query:       r.Query,
		Status:      r.Status,
		Answer:      r.Answer,
		ErrorKind:   r.ErrorKind,
		Error:       r.Error,
		Cost:        r.Cost,
		DurationMs:  r.DurationMs,
		StartedAt:   r.StartedAt,
		FinishedAt:  r.FinishedAt,
	}
}

func ToRunResponses(entities []models.WorkflowRun) []response.Run {
	responses := make([]response.Run, len(entities))
	for i, r := range entities {
		responses[i] = ToRunResponse(r)
	}
	return responses
}

func ToChatAnswerResponse(a service.ChatAnswer) response.ChatAnswer {
	evidence := make([]response.Evidence, len(a.Evidence))
	for i, e := range a.Evidence {
		evidence[i] = response.Evidence{Text: e.Text, Score: e.Score}
	}
	return response.ChatAnswer{
		Text:        a.Text,
		Evidence:    evidence,
		Cost:        a.Cost,
		ExecutionID: a.ExecutionID,
		SessionID:   a.SessionID,
		StoreReady:  a.StoreReady,
		RunID:       a.RunID,
	}
}
