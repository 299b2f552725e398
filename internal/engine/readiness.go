package engine

// ReadinessTransition is the outcome of reconciling the store
// readiness flag against an execution result.
type ReadinessTransition struct {
	Ready   bool
	Changed bool
}

// ReconcileReadiness computes the new value of the "knowledge store is
// initialized" flag. The flag is monotonic: the first completed
// execution flips it to true and nothing ever flips it back. The
// function is pure; persisting a changed flag is the caller's job.
func ReconcileReadiness(current bool, result ExecutionResult) ReadinessTransition {
	if !current && result.Status == StatusCompleted {
		return ReadinessTransition{Ready: true, Changed: true}
	}
	return ReadinessTransition{Ready: current, Changed: false}
}
