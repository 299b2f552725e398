package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

const (
	DefaultPollInterval    = 2 * time.Second
	DefaultMaxPollAttempts = 60
)

// ExecutionFetcher is the one Client method the poller needs.
type ExecutionFetcher interface {
	GetExecution(ctx context.Context, executionID string) (ExecutionResult, error)
}

// Poller re-fetches an execution until it turns terminal or the
// attempt budget runs out. Polls are strictly sequential: the interval
// is measured from the end of one fetch to the start of the next, so a
// slow engine never tightens the polling rate.
type Poller struct {
	fetcher     ExecutionFetcher
	interval    time.Duration
	maxAttempts int
	logger      zerolog.Logger
}

func NewPoller(fetcher ExecutionFetcher, interval time.Duration, maxAttempts int, logger zerolog.Logger) *Poller {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxPollAttempts
	}
	return &Poller{
		fetcher:     fetcher,
		interval:    interval,
		maxAttempts: maxAttempts,
		logger:      logger,
	}
}

// Wait blocks until the execution behind initial reaches a terminal
// status. A terminal initial result is returned as is without issuing
// a single request. Cancelling ctx stops the wait before the next poll
// goes out; it does not abort a fetch already in flight.
//
// A fetch error aborts the wait instead of being retried. Retrying
// transient errors inside the loop would stretch the wall-clock budget
// without bound; a failed wait can always be restarted from a fresh
// submission. When the budget runs out while the execution is still
// pending or running, Wait returns ErrPollTimeout, which is an
// indeterminate outcome and not an engine failure.
func (slf *Poller) Wait(ctx context.Context, initial ExecutionResult) (ExecutionResult, error) {
	if initial.Status.Terminal() {
		return initial, nil
	}

	last := initial
	for attempt := 1; attempt <= slf.maxAttempts; attempt++ {
		timer := time.NewTimer(slf.interval)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ExecutionResult{}, fmt.Errorf("waiting for execution %s: %w", initial.ExecutionID, ctx.Err())
		case <-timer.C:
		}

		current, err := slf.fetcher.GetExecution(ctx, initial.ExecutionID)
		if err != nil {
			return ExecutionResult{}, fmt.Errorf("waiting for execution %s: %w", initial.ExecutionID, err)
		}
		if current.Status.Terminal() {
			slf.logger.Debug().
				Str("executionId", initial.ExecutionID).
				Str("status", string(current.Status)).
				Int("polls", attempt).
				Msg("Execution reached terminal status")
			return current, nil
		}
		last = current
	}

	return ExecutionResult{}, fmt.Errorf("execution %s still %s after %d polls: %w",
		initial.ExecutionID, last.Status, slf.maxAttempts, ErrPollTimeout)
}
