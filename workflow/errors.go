package workflow

import (
	"fmt"
	"time"
)

// FailureKind discriminates the workflow layer's error taxonomy
// (spec.md §7). Every StepFailure carries exactly one.
type FailureKind int

const (
	FailureLogin FailureKind = iota
	FailureNavigation
	FailureFieldNotFound
	FailureFieldOverflow
	FailureParameterResolution
	FailureAssertion
	FailureSubmitTimeout
	FailureHostError
	FailureStepOrderInvalid
)

func (k FailureKind) String() string {
	switch k {
	case FailureLogin:
		return "LoginFailed"
	case FailureNavigation:
		return "NavigationFailed"
	case FailureFieldNotFound:
		return "FieldNotFound"
	case FailureFieldOverflow:
		return "FieldOverflow"
	case FailureParameterResolution:
		return "ParameterResolutionFailed"
	case FailureAssertion:
		return "AssertionFailed"
	case FailureSubmitTimeout:
		return "SubmitTimeout"
	case FailureHostError:
		return "HostError"
	case FailureStepOrderInvalid:
		return "StepOrderInvalid"
	default:
		return "Unknown"
	}
}

// Retryable reports whether a failure of this kind may be retried per
// spec.md §7's retry policy. ParameterResolutionFailed, FieldOverflow,
// AssertionFailed, and StepOrderInvalid are never retryable: each
// reflects a malformed workflow or data row, not a transient host or
// transport condition, so retrying would just reproduce the same
// failure.
func (k FailureKind) Retryable() bool {
	switch k {
	case FailureParameterResolution, FailureFieldOverflow, FailureAssertion, FailureStepOrderInvalid:
		return false
	default:
		return true
	}
}

// maxScreenTextCapture bounds the ScreenText field carried on a
// StepFailure, so a failing workflow never attaches an unbounded
// diagnostic payload to its result.
const maxScreenTextCapture = 5000

// StepFailure is the single error type the workflow layer produces.
// Every field the spec requires a workflow failure to carry is
// present: the failing step's index and action variant, the error
// kind, a human-readable message, a truncated screen-text snapshot,
// and the elapsed time spent on the step (including retries).
type StepFailure struct {
	StepIndex  int
	Action     string
	Kind       FailureKind
	Message    string
	ScreenText string
	Elapsed    time.Duration

	// Column is populated only for FailureParameterResolution.
	Column string
	// CheckCode is populated only for FailureHostError.
	CheckCode uint16
}

func (f *StepFailure) Error() string {
	return fmt.Sprintf("workflow: step %d (%s) failed: %s: %s", f.StepIndex, f.Action, f.Kind, f.Message)
}

// truncateScreenText caps s to maxScreenTextCapture runes, appending a
// marker when truncation occurred.
func truncateScreenText(s string) string {
	r := []rune(s)
	if len(r) <= maxScreenTextCapture {
		return s
	}
	return string(r[:maxScreenTextCapture]) + "...(truncated)"
}
