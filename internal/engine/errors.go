package engine

import "errors"

// Every stage of the execution pipeline fails fast with one of these
// sentinels wrapped into its error, so callers can map each kind to a
// distinct user-facing message with errors.Is.
var (
	// ErrMissingRequiredNode means the graph lacks a search or a
	// generation node. Not retryable without reconfiguring the graph.
	ErrMissingRequiredNode = errors.New("workflow is missing a required node")

	// ErrSubmissionFailed means the submit call itself failed
	// (transport error or engine rejection). Retryable by composing
	// and submitting again from scratch.
	ErrSubmissionFailed = errors.New("workflow submission failed")

	// ErrPollTimeout means the polling budget ran out while the
	// execution was still pending or running. The outcome is
	// indeterminate: the job may still finish server-side.
	ErrPollTimeout = errors.New("timed out waiting for the execution to finish")

	// ErrExecutionFailed means the engine reported the execution as
	// failed. Terminal, further polling is pointless.
	ErrExecutionFailed = errors.New("execution failed")

	// ErrNoGenerationOutput means the execution completed but the
	// generation node produced no usable output. This points at a
	// misconfigured graph or engine, not at transport.
	ErrNoGenerationOutput = errors.New("execution completed without generation output")
)
