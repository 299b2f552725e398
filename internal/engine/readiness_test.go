package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReconcileReadiness_FirstCompletedRunFlipsFlag(t *testing.T) {
	transition := ReconcileReadiness(false, ExecutionResult{Status: StatusCompleted})

	assert.True(t, transition.Ready)
	assert.True(t, transition.Changed)
}

func TestReconcileReadiness_FailureLeavesFlagDown(t *testing.T) {
	for _, status := range []ExecutionStatus{StatusPending, StatusRunning, StatusFailed} {
		transition := ReconcileReadiness(false, ExecutionResult{Status: status})

		assert.False(t, transition.Ready, "status %s must not flip readiness", status)
		assert.False(t, transition.Changed)
	}
}

func TestReconcileReadiness_NeverFlipsBack(t *testing.T) {
	for _, status := range []ExecutionStatus{StatusPending, StatusRunning, StatusCompleted, StatusFailed} {
		transition := ReconcileReadiness(true, ExecutionResult{Status: status})

		assert.True(t, transition.Ready, "status %s flipped readiness back to false", status)
		assert.False(t, transition.Changed)
	}
}
