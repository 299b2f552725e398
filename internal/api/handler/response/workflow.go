package response

import (
	"api/internal/api/models"
	"time"
)

// Workflow response without the graph (for listing)
type Workflow struct {
	ID          uint      `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Active      bool      `json:"active"`
	StoreID     *uint     `json:"storeId,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// WorkflowWithGraph response with nodes and edges (for single get)
type WorkflowWithGraph struct {
	ID          uint      `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Active      bool      `json:"active"`
	StoreID     *uint     `json:"storeId,omitempty"`
	Store       *Store    `json:"store,omitempty"`
	Nodes       []Node    `json:"nodes"`
	Edges       []Edge    `json:"edges"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type Node struct {
	ID     int             `json:"id"`
	Ref    string          `json:"ref"`
	Kind   models.NodeKind `json:"kind"`
	Name   string          `json:"name"`
	Xpos   float32         `json:"xpos"`
	Ypos   float32         `json:"ypos"`
	Params map[string]any  `json:"params"`
}

type Edge struct {
	Ref    string `json:"ref"`
	Source string `json:"source"`
	Target string `json:"target"`
}
