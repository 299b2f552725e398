package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNodeParamsRoundTrip(t *testing.T) {
	node := Node{Ref: "node-1", Kind: NodeKindSearch}
	require.NoError(t, node.SetParams(map[string]any{"store_id": "kb-7", "top_k": float64(3)}))

	params, err := node.ParamMap()
	require.NoError(t, err)
	assert.Equal(t, "kb-7", params["store_id"])
	assert.Equal(t, float64(3), params["top_k"])
}

func TestNodeParamMap_Empty(t *testing.T) {
	node := Node{Ref: "node-1", Kind: NodeKindSearch}

	params, err := node.ParamMap()
	require.NoError(t, err)
	require.NotNil(t, params)
	assert.Empty(t, params)

	// Stored JSON null behaves the same
	node.Params = NodeParams("null")
	params, err = node.ParamMap()
	require.NoError(t, err)
	require.NotNil(t, params)
	assert.Empty(t, params)
}

func TestNodeParamMap_Broken(t *testing.T) {
	node := Node{Ref: "node-1", Params: NodeParams("{oops")}

	_, err := node.ParamMap()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "node-1")
}

func TestNodeParamsScan(t *testing.T) {
	var params NodeParams
	require.NoError(t, params.Scan([]byte(`{"a":1}`)))
	assert.Equal(t, NodeParams(`{"a":1}`), params)

	require.NoError(t, params.Scan(`{"b":2}`))
	assert.Equal(t, NodeParams(`{"b":2}`), params)

	require.NoError(t, params.Scan(nil))
	assert.Nil(t, params)

	require.Error(t, params.Scan(42))
}

func TestNodeValidate(t *testing.T) {
	assert.Error(t, Node{Kind: NodeKindSearch}.Validate())
	assert.Error(t, Node{Ref: "node-1"}.Validate())
	assert.NoError(t, Node{Ref: "node-1", Kind: NodeKindTransform}.Validate())
}
