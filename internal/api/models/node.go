package models

import (
	"encoding/json"
	"errors"
	"fmt"
)

type NodeKind string

const (
	NodeKindSearch     NodeKind = "search"
	NodeKindGeneration NodeKind = "generation"
	NodeKindTransform  NodeKind = "transform"
)

type Node struct {
	ID int `json:"id"`
	// Ref is the canvas-side node id ("node-3"). It is what edges
	// reference and what the execution engine keys its results by,
	// so it must be unique within a workflow.
	Ref string `gorm:"index" json:"ref"`
	// Kind of the node. It has to be immutable
	Kind NodeKind
	Name string
	Xpos float32
	Ypos float32
	// Params holds the node's configuration as raw JSON; the engine
	// interprets it, the studio only stores and overlays it.
	Params NodeParams `json:"params" gorm:"type:jsonb"`

	WorkflowID uint `gorm:"index" json:"workflowId"`
}

// SetParams serializes and stores a parameter map
func (slf *Node) SetParams(params map[string]any) error {
	data, err := json.Marshal(params)
	if err != nil {
		return fmt.Errorf("failed to marshal params: %w", err)
	}
	slf.Params = data
	return nil
}

// ParamMap deserializes the stored JSON into a parameter map. A node
// without params yields an empty, non-nil map.
func (slf Node) ParamMap() (map[string]any, error) {
	if slf.Params == nil {
		return map[string]any{}, nil
	}
	var params map[string]any
	if err := json.Unmarshal(slf.Params, &params); err != nil {
		return nil, fmt.Errorf("failed to unmarshal params of node %s: %w", slf.Ref, err)
	}
	if params == nil {
		params = map[string]any{}
	}
	return params, nil
}

// Validate checks the fields the studio owns; graph semantics stay
// with the engine.
func (slf Node) Validate() error {
	if slf.Ref == "" {
		return errors.New("node ref must not be empty")
	}
	if slf.Kind == "" {
		return errors.New("node kind must not be empty")
	}
	return nil
}
