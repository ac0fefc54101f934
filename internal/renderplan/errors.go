package renderplan

import "fmt"

// InvalidPlanError is a fatal validation failure: the plan cannot be
// scheduled at all (as opposed to a per-segment synthesis failure, which
// is non-fatal and handled downstream with a zero-filled buffer).
type InvalidPlanError struct {
	Reason string
}

func (e *InvalidPlanError) Error() string {
	return fmt.Sprintf("invalid render plan: %s", e.Reason)
}

func invalid(format string, args ...any) *InvalidPlanError {
	return &InvalidPlanError{Reason: fmt.Sprintf(format, args...)}
}
