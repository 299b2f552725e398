package engine

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(baseURL string) *Client {
	return NewClient(ClientConfig{
		BaseURL: baseURL,
		Timeout: 2 * time.Second,
		Logger:  zerolog.Nop(),
	})
}

func TestClient_ExecuteSubmitsRequest(t *testing.T) {
	var received ExecutionRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/workflows:execute", r.URL.Path)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))

		json.NewEncoder(w).Encode(ExecutionResult{ExecutionID: "e1", Status: StatusRunning})
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	request := ExecutionRequest{
		Name:  "wf",
		Nodes: []NodeDescriptor{{ID: "s1", Kind: NodeKindSearch}},
	}

	result, err := client.Execute(context.Background(), request)
	require.NoError(t, err)

	assert.Equal(t, "e1", result.ExecutionID)
	assert.Equal(t, StatusRunning, result.Status)
	assert.Equal(t, "wf", received.Name)
	require.Len(t, received.Nodes, 1)
	assert.Equal(t, "s1", received.Nodes[0].ID)
}

func TestClient_ExecuteNon2xxIsSubmissionFailed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "invalid graph", http.StatusUnprocessableEntity)
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	_, err := client.Execute(context.Background(), ExecutionRequest{Name: "wf"})
	require.Error(t, err)

	assert.ErrorIs(t, err, ErrSubmissionFailed)
	assert.Contains(t, err.Error(), "422")
	assert.Contains(t, err.Error(), "invalid graph")
}

func TestClient_ExecuteTransportErrorIsSubmissionFailed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // refuse connections

	client := newTestClient(server.URL)
	_, err := client.Execute(context.Background(), ExecutionRequest{Name: "wf"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSubmissionFailed)
}

func TestClient_GetExecution(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodGet, r.Method)
		require.Equal(t, "/executions/e1", r.URL.Path)

		json.NewEncoder(w).Encode(ExecutionResult{
			ExecutionID: "e1",
			Status:      StatusCompleted,
			Results: map[string]json.RawMessage{
				"g1": json.RawMessage(`{"response":"hi"}`),
			},
			TotalCost:  0.12,
			DurationMS: 1500,
		})
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	result, err := client.GetExecution(context.Background(), "e1")
	require.NoError(t, err)

	assert.Equal(t, StatusCompleted, result.Status)
	assert.Equal(t, 0.12, result.TotalCost)
	assert.Equal(t, int64(1500), result.DurationMS)
	assert.Contains(t, result.Results, "g1")
}

func TestClient_GetExecutionErrorIsNotSubmissionFailed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	_, err := client.GetExecution(context.Background(), "e1")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrSubmissionFailed)
}
