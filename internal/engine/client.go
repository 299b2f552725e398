package engine

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

// Client talks to the remote execution engine over its two-endpoint
// HTTP contract: one submit call, one status fetch for polling.
type Client struct {
	baseURL string
	http    *http.Client
	logger  zerolog.Logger
}

type ClientConfig struct {
	BaseURL string
	Timeout time.Duration
	Logger  zerolog.Logger
}

func NewClient(cfg ClientConfig) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL: cfg.BaseURL,
		http:    &http.Client{Timeout: timeout},
		logger:  cfg.Logger,
	}
}

// Execute submits the composed request and returns the engine's
// immediate result, which is already terminal for fast executions and
// pending/running for long ones. It never retries: any transport error
// or non-2xx answer surfaces as ErrSubmissionFailed and the caller
// decides whether to compose and submit again.
func (slf *Client) Execute(ctx context.Context, request ExecutionRequest) (ExecutionResult, error) {
	body, err := json.Marshal(request)
	if err != nil {
		return ExecutionResult{}, fmt.Errorf("%w: marshal request: %v", ErrSubmissionFailed, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		fmt.Sprintf("%s/workflows:execute", slf.baseURL), bytes.NewReader(body))
	if err != nil {
		return ExecutionResult{}, fmt.Errorf("%w: build request: %v", ErrSubmissionFailed, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := slf.http.Do(req)
	if err != nil {
		return ExecutionResult{}, fmt.Errorf("%w: %v", ErrSubmissionFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return ExecutionResult{}, fmt.Errorf("%w: engine returned %d: %s", ErrSubmissionFailed, resp.StatusCode, msg)
	}

	var result ExecutionResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return ExecutionResult{}, fmt.Errorf("%w: decode response: %v", ErrSubmissionFailed, err)
	}

	slf.logger.Debug().
		Str("executionId", result.ExecutionID).
		Str("status", string(result.Status)).
		Msg("Workflow submitted")
	return result, nil
}

// GetExecution fetches the current state of a previously submitted
// execution.
func (slf *Client) GetExecution(ctx context.Context, executionID string) (ExecutionResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		fmt.Sprintf("%s/executions/%s", slf.baseURL, executionID), nil)
	if err != nil {
		return ExecutionResult{}, fmt.Errorf("build request: %w", err)
	}

	resp, err := slf.http.Do(req)
	if err != nil {
		return ExecutionResult{}, fmt.Errorf("fetch execution %s: %w", executionID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return ExecutionResult{}, fmt.Errorf("fetch execution %s: engine returned %d: %s", executionID, resp.StatusCode, msg)
	}

	var result ExecutionResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return ExecutionResult{}, fmt.Errorf("decode execution %s: %w", executionID, err)
	}
	return result, nil
}
