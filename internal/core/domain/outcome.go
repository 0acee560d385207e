package domain

// Outcome is what the scheduler did with a node.
type Outcome string

const (
	// OutcomePending indicates the node has not been processed.
	OutcomePending Outcome = "pending"
	// OutcomeCompiled indicates the node was recompiled.
	OutcomeCompiled Outcome = "compiled"
	// OutcomeTouched indicates the node's outputs had their timestamps refreshed.
	OutcomeTouched Outcome = "touched"
	// OutcomeUpToDate indicates the node needed no work.
	OutcomeUpToDate Outcome = "up-to-date"
	// OutcomeFailed indicates the node's compile failed.
	OutcomeFailed Outcome = "failed"
)

// Done reports whether the outcome is terminal and successful.
func (o Outcome) Done() bool {
	switch o {
	case OutcomeCompiled, OutcomeTouched, OutcomeUpToDate:
		return true
	default:
		return false
	}
}
