package gate

import (
	"fmt"

	"video-courier/internal/artifact"
)

// Decision is the outcome of a size check.
type Decision int

const (
	// WithinBudget means the artifact can be shipped as-is.
	WithinBudget Decision = iota
	// NeedsShrink means the artifact exceeds the soft threshold and
	// should go through one compression pass.
	NeedsShrink
	// Reject means the artifact exceeds the hard transport limit and
	// must not be delivered.
	Reject
)

// String returns the decision name for logs.
func (d Decision) String() string {
	switch d {
	case WithinBudget:
		return "within_budget"
	case NeedsShrink:
		return "needs_shrink"
	case Reject:
		return "reject"
	default:
		return fmt.Sprintf("unknown(%d)", int(d))
	}
}

// AfterFetch classifies a freshly fetched artifact against the soft
// threshold. The soft threshold sits below the transport's hard limit to
// leave margin for container overhead, so anything over it gets one
// shrink pass rather than an immediate rejection.
func AfterFetch(a *artifact.Artifact, softLimitBytes int64) (Decision, error) {
	size, err := a.Size()
	if err != nil {
		return Reject, err
	}
	if size <= softLimitBytes {
		return WithinBudget, nil
	}
	return NeedsShrink, nil
}

// BeforeDelivery classifies the final artifact against the transport's
// hard limit. There is no second shrink attempt: exceeding the limit
// here is terminal.
func BeforeDelivery(a *artifact.Artifact, hardLimitBytes int64) (Decision, error) {
	size, err := a.Size()
	if err != nil {
		return Reject, err
	}
	if size > hardLimitBytes {
		return Reject, nil
	}
	return WithinBudget, nil
}
