// Package workflow implements the workflow execution engine (spec
// component C5): a fixed set of step variants run in sequence against
// a session's screen and protocol engine, with parameter substitution
// from a data row, keyboard-state synchronization around every step
// that touches the wire, artifact collection, and an execution ledger.
package workflow

import "time"

// StepKind discriminates the sealed set of step variants a workflow
// can contain. The engine's dispatch is a type switch over the step
// variants; its default case returns an error naming the unhandled
// kind.
type StepKind int

const (
	StepLogin StepKind = iota
	StepNavigate
	StepFill
	StepSubmit
	StepAssert
	StepCapture
	StepWait
)

func (k StepKind) String() string {
	switch k {
	case StepLogin:
		return "login"
	case StepNavigate:
		return "navigate"
	case StepFill:
		return "fill"
	case StepSubmit:
		return "submit"
	case StepAssert:
		return "assert"
	case StepCapture:
		return "capture"
	case StepWait:
		return "wait"
	default:
		return "unknown"
	}
}

// Step is implemented by exactly the seven step variants below. The
// unexported method seals the set: no package outside workflow can add
// a new variant, so the engine's dispatch switch covers every variant.
type Step interface {
	Kind() StepKind
	stepSealed()
}

// LoginStep opens a session against host:port and waits for the first
// unlocked keyboard, the workflow's entry point (spec.md §4.5 requires
// it be step zero; no other step may precede it).
type LoginStep struct {
	Host               string
	Port               int
	DeviceName         string
	CCSID              int
	TLS                bool
	ConnectTimeout     time.Duration
	NegotiationTimeout time.Duration

	// SignonIndicator, if non-empty, is a substring the post-login
	// screen must contain; the step fails with LoginFailed if it is
	// missing once the keyboard unlocks. Empty skips this check.
	SignonIndicator string
}

func (LoginStep) Kind() StepKind { return StepLogin }
func (LoginStep) stepSealed()    {}

// NavigateStep sends a keystroke sequence — a mix of literal characters
// and bracketed named keys such as [ENTER], [TAB], [PF3] — at the
// current cursor position, not bound to any named field.
type NavigateStep struct {
	Keystrokes   string
	ExpectedText string // optional: substring the screen must contain after the step settles
}

func (NavigateStep) Kind() StepKind { return StepNavigate }
func (NavigateStep) stepSealed()    {}

// FieldBinding pairs a named field with a value template (may contain
// ${data.COLUMN} references) to type into it.
type FieldBinding struct {
	FieldName     string
	ValueTemplate string
}

// FillStep types resolved values into one or more named fields, in
// the given order, without submitting.
type FillStep struct {
	Bindings []FieldBinding
}

func (FillStep) Kind() StepKind { return StepFill }
func (FillStep) stepSealed()    {}

// SubmitStep sends an AID key (by name, e.g. "enter", "pf3") built
// from the field table's current state.
type SubmitStep struct {
	AIDName string
}

func (SubmitStep) Kind() StepKind { return StepSubmit }
func (SubmitStep) stepSealed()    {}

// AssertStep fails the step (AssertionFailed) unless the current
// screen text contains ExpectedText (itself subject to parameter
// substitution).
type AssertStep struct {
	ExpectedText string
}

func (AssertStep) Kind() StepKind { return StepAssert }
func (AssertStep) stepSealed()    {}

// CaptureStep records the current screen text as a named artifact.
type CaptureStep struct {
	ArtifactName string
}

func (CaptureStep) Kind() StepKind { return StepCapture }
func (CaptureStep) stepSealed()    {}

// WaitStep pauses the workflow for a fixed duration, for host
// processing delays no keyboard-state transition captures.
type WaitStep struct {
	Duration time.Duration
}

func (WaitStep) Kind() StepKind { return StepWait }
func (WaitStep) stepSealed()    {}
