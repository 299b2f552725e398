package request

// GraphNode is one canvas node as the frontend sends it
type GraphNode struct {
	Ref    string         `json:"ref" validate:"required"`
	Kind   string         `json:"kind" validate:"required"`
	Name   string         `json:"name"`
	Xpos   float32        `json:"xpos"`
	Ypos   float32        `json:"ypos"`
	Params map[string]any `json:"params"`
}

// GraphEdge connects two nodes by ref
type GraphEdge struct {
	Ref    string `json:"ref"`
	Source string `json:"source" validate:"required"`
	Target string `json:"target" validate:"required"`
}

type CreateWorkflow struct {
	Name        string      `json:"name" validate:"required"`
	Description string      `json:"description"`
	Active      bool        `json:"active"`
	StoreID     *uint       `json:"storeId,omitempty"`
	Nodes       []GraphNode `json:"nodes"`
	Edges       []GraphEdge `json:"edges"`
}

type UpdateWorkflow struct {
	Name        *string     `json:"name,omitempty"`
	Description *string     `json:"description,omitempty"`
	Active      *bool       `json:"active,omitempty"`
	StoreID     *uint       `json:"storeId,omitempty"`
	Nodes       []GraphNode `json:"nodes,omitempty"`
	Edges       []GraphEdge `json:"edges,omitempty"`
}
