package engine

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeFetcher replays a scripted sequence of results, then keeps
// returning the last one.
type fakeFetcher struct {
	sequence []ExecutionResult
	err      error
	calls    int
}

func (slf *fakeFetcher) GetExecution(ctx context.Context, executionID string) (ExecutionResult, error) {
	slf.calls++
	if slf.err != nil {
		return ExecutionResult{}, slf.err
	}
	idx := slf.calls - 1
	if idx >= len(slf.sequence) {
		idx = len(slf.sequence) - 1
	}
	return slf.sequence[idx], nil
}

func testPoller(fetcher ExecutionFetcher, maxAttempts int) *Poller {
	return NewPoller(fetcher, time.Millisecond, maxAttempts, zerolog.Nop())
}

func TestPoller_TerminalInitialSkipsPolling(t *testing.T) {
	fetcher := &fakeFetcher{}
	poller := testPoller(fetcher, 5)

	initial := ExecutionResult{ExecutionID: "e1", Status: StatusCompleted}
	result, err := poller.Wait(context.Background(), initial)
	require.NoError(t, err)

	assert.Equal(t, initial, result)
	assert.Zero(t, fetcher.calls, "a terminal result must not trigger a single poll")
}

func TestPoller_ReturnsOnTerminalStatus(t *testing.T) {
	fetcher := &fakeFetcher{sequence: []ExecutionResult{
		{ExecutionID: "e1", Status: StatusRunning},
		{ExecutionID: "e1", Status: StatusRunning},
		{ExecutionID: "e1", Status: StatusCompleted, TotalCost: 0.5},
	}}
	poller := testPoller(fetcher, 10)

	result, err := poller.Wait(context.Background(), ExecutionResult{ExecutionID: "e1", Status: StatusRunning})
	require.NoError(t, err)

	assert.Equal(t, StatusCompleted, result.Status)
	assert.Equal(t, 0.5, result.TotalCost)
	assert.Equal(t, 3, fetcher.calls)
}

func TestPoller_FailedStatusIsTerminal(t *testing.T) {
	fetcher := &fakeFetcher{sequence: []ExecutionResult{
		{ExecutionID: "e1", Status: StatusFailed},
	}}
	poller := testPoller(fetcher, 10)

	result, err := poller.Wait(context.Background(), ExecutionResult{ExecutionID: "e1", Status: StatusPending})
	require.NoError(t, err, "an engine-reported failure is a successful wait, extraction decides what it means")
	assert.Equal(t, StatusFailed, result.Status)
	assert.Equal(t, 1, fetcher.calls)
}

func TestPoller_TimeoutAfterExactBudget(t *testing.T) {
	fetcher := &fakeFetcher{sequence: []ExecutionResult{
		{ExecutionID: "e1", Status: StatusRunning},
	}}
	poller := testPoller(fetcher, 4)

	_, err := poller.Wait(context.Background(), ExecutionResult{ExecutionID: "e1", Status: StatusRunning})
	require.Error(t, err)

	assert.ErrorIs(t, err, ErrPollTimeout)
	assert.Equal(t, 4, fetcher.calls, "the poller must stop at exactly the attempt ceiling")
}

func TestPoller_FetchErrorAbortsWait(t *testing.T) {
	transient := errors.New("connection reset")
	fetcher := &fakeFetcher{err: transient}
	poller := testPoller(fetcher, 10)

	_, err := poller.Wait(context.Background(), ExecutionResult{ExecutionID: "e1", Status: StatusRunning})
	require.Error(t, err)

	assert.ErrorIs(t, err, transient)
	assert.Equal(t, 1, fetcher.calls, "a fetch error must not be retried")
	assert.NotErrorIs(t, err, ErrPollTimeout)
}

func TestPoller_CancelStopsPolling(t *testing.T) {
	fetcher := &fakeFetcher{sequence: []ExecutionResult{
		{ExecutionID: "e1", Status: StatusRunning},
	}}
	poller := NewPoller(fetcher, 50*time.Millisecond, 100, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := poller.Wait(ctx, ExecutionResult{ExecutionID: "e1", Status: StatusRunning})
	require.Error(t, err)

	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, fetcher.calls)
}

func TestPoller_DefaultsApplied(t *testing.T) {
	poller := NewPoller(&fakeFetcher{}, 0, 0, zerolog.Nop())

	assert.Equal(t, DefaultPollInterval, poller.interval)
	assert.Equal(t, DefaultMaxPollAttempts, poller.maxAttempts)
}
