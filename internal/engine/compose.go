package engine

import "fmt"

// DefaultMemoryWindow is the number of past messages the generation
// node keeps when memory is enabled and the caller does not override it.
const DefaultMemoryWindow = 10

// ComposeParams are the per-call values overlaid onto the graph.
type ComposeParams struct {
	Query     string
	StoreID   string
	UseMemory bool
	SessionID string
	// MemoryWindow overrides DefaultMemoryWindow when > 0.
	MemoryWindow int
}

// ComposeRequest builds the ExecutionRequest for one chat query from
// the workflow's node and edge descriptors.
//
// The search node gets the query and the resolved store id overlaid on
// its parameters. A store id the node already declares wins over the
// resolved one, whatever the resolved value is. The generation node
// gets the query, the memory flag, the session id and the memory
// window. All other nodes pass through unchanged.
//
// The input descriptors are never mutated; calling this twice with the
// same inputs yields identical requests. If the graph has no search
// node or no generation node the composition fails with
// ErrMissingRequiredNode before any network I/O happens.
func ComposeRequest(name string, nodes []NodeDescriptor, edges []EdgeDescriptor, params ComposeParams) (ExecutionRequest, error) {
	if findByKind(nodes, NodeKindSearch) == nil {
		return ExecutionRequest{}, fmt.Errorf("%w: no %s node", ErrMissingRequiredNode, NodeKindSearch)
	}
	if findByKind(nodes, NodeKindGeneration) == nil {
		return ExecutionRequest{}, fmt.Errorf("%w: no %s node", ErrMissingRequiredNode, NodeKindGeneration)
	}

	window := params.MemoryWindow
	if window <= 0 {
		window = DefaultMemoryWindow
	}

	composed := make([]NodeDescriptor, len(nodes))
	for i, node := range nodes {
		switch node.Kind {
		case NodeKindSearch:
			p := cloneParameters(node.Parameters)
			p[ParamQuery] = params.Query
			if _, declared := p[ParamStoreID]; !declared {
				p[ParamStoreID] = params.StoreID
			}
			node.Parameters = p
		case NodeKindGeneration:
			p := cloneParameters(node.Parameters)
			p[ParamQuery] = params.Query
			p[ParamUseMemory] = params.UseMemory
			p[ParamSessionID] = params.SessionID
			p[ParamMemoryWindow] = window
			node.Parameters = p
		}
		composed[i] = node
	}

	return ExecutionRequest{
		Name:  name,
		Nodes: composed,
		Edges: append([]EdgeDescriptor(nil), edges...),
	}, nil
}

func findByKind(nodes []NodeDescriptor, kind string) *NodeDescriptor {
	for i := range nodes {
		if nodes[i].Kind == kind {
			return &nodes[i]
		}
	}
	return nil
}

func cloneParameters(params map[string]any) map[string]any {
	cloned := make(map[string]any, len(params)+4)
	for k, v := range params {
		cloned[k] = v
	}
	return cloned
}
