package workflow

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rob-gra/tn5250wf/clog"
	"github.com/rob-gra/tn5250wf/codepage"
	"github.com/rob-gra/tn5250wf/datastream"
	"github.com/rob-gra/tn5250wf/screen"
	"github.com/rob-gra/tn5250wf/session"
	"github.com/rob-gra/tn5250wf/telnet"
)

// Engine runs workflows against sessions it opens itself (via a Login
// step), using reg to resolve the codepage a Login step's CCSID names.
type Engine struct {
	reg *codepage.Registry
	log clog.Clog
}

// NewEngine constructs an Engine.
func NewEngine(reg *codepage.Registry, log clog.Clog) *Engine {
	return &Engine{reg: reg, log: log}
}

// ExecutionResult is what Execute returns: whether the workflow ran to
// completion, the failure that stopped it (nil on success), the
// artifacts collected along the way, and total elapsed time.
type ExecutionResult struct {
	Success   bool
	Failure   *StepFailure
	Artifacts []Artifact
	Elapsed   time.Duration
}

// Execute runs steps in order against dataRow, honoring tolerance for
// every keyboard-state wait and retry. artifacts and ledger may be
// nil, in which case an InMemoryArtifactCollector/InMemoryLedger is
// used. Execute always disconnects the session it opened before
// returning, success or failure.
func (e *Engine) Execute(steps []Step, dataRow map[string]string, tolerance ToleranceConfig, artifacts ArtifactCollector, ledger LedgerSink) (*ExecutionResult, error) {
	if err := tolerance.Valid(); err != nil {
		return nil, err
	}
	if err := validateStepOrder(steps); err != nil {
		return nil, err
	}
	if artifacts == nil {
		artifacts = NewInMemoryArtifactCollector()
	}
	if ledger == nil {
		ledger = NewInMemoryLedger()
	}

	r := &run{reg: e.reg, log: e.log, tolerance: tolerance, dataRow: dataRow, artifacts: artifacts}
	defer func() {
		if r.sess != nil {
			r.sess.Disconnect()
		}
	}()

	start := time.Now()
	for idx, step := range steps {
		stepStart := time.Now()
		ledger.Record(LedgerEvent{Kind: EventStepStarted, StepIndex: idx, Action: step.Kind().String(), Timestamp: stepStart})

		failure := r.runWithRetry(idx, step)

		ledger.Record(LedgerEvent{
			Kind:      EventStepEnded,
			StepIndex: idx,
			Action:    step.Kind().String(),
			Timestamp: time.Now(),
			Succeeded: failure == nil,
			Duration:  time.Since(stepStart),
			Failure:   failure,
		})

		if failure != nil {
			return &ExecutionResult{
				Success:   false,
				Failure:   failure,
				Artifacts: artifacts2(artifacts),
				Elapsed:   time.Since(start),
			}, failure
		}
	}

	return &ExecutionResult{
		Success:   true,
		Artifacts: artifacts2(artifacts),
		Elapsed:   time.Since(start),
	}, nil
}

// artifacts2 extracts a snapshot slice from the known concrete
// collector types; a caller-supplied ArtifactCollector that doesn't
// implement it gets an empty result slice on ExecutionResult (the
// caller already has its own handle on the collector it passed in).
func artifacts2(c ArtifactCollector) []Artifact {
	if in, ok := c.(*InMemoryArtifactCollector); ok {
		return in.Artifacts()
	}
	return nil
}

// validateStepOrder enforces the structural invariant the engine cannot
// recover from mid-run: the workflow must open with exactly one Login
// step. That alone also forecloses Submit as the first step, since
// Submit is not StepLogin.
func validateStepOrder(steps []Step) error {
	if len(steps) == 0 {
		return &StepFailure{Kind: FailureStepOrderInvalid, Message: "workflow has no steps"}
	}
	if steps[0].Kind() != StepLogin {
		return &StepFailure{Kind: FailureStepOrderInvalid, Message: "first step must be login"}
	}
	for i := 1; i < len(steps); i++ {
		if steps[i].Kind() == StepLogin {
			return &StepFailure{StepIndex: i, Kind: FailureStepOrderInvalid, Message: "login may only appear as the first step"}
		}
	}
	return nil
}

// run carries one workflow execution's mutable state across steps: the
// session opened by Login, and the shared tolerance/data/artifact
// context every step dispatch needs.
type run struct {
	sess      *session.Session
	reg       *codepage.Registry
	log       clog.Clog
	tolerance ToleranceConfig
	dataRow   map[string]string
	artifacts ArtifactCollector
}

// runWithRetry runs step, retrying on failure up to tolerance.MaxRetryCount
// times with exponential backoff capped at 30s, bounded overall by
// tolerance.MaxTotalStepDuration. A non-retryable failure kind (see
// FailureKind.Retryable) returns immediately regardless of MaxRetryCount.
// Returns nil on eventual success, or the last StepFailure observed.
func (r *run) runWithRetry(idx int, step Step) *StepFailure {
	stepStart := time.Now()
	var failure *StepFailure
	for attempt := 0; ; attempt++ {
		err := r.dispatch(step)
		if err == nil {
			return nil
		}
		failure = toStepFailure(err, idx, step, r.sess, time.Since(stepStart))
		if !failure.Kind.Retryable() {
			return failure
		}
		if attempt >= r.tolerance.MaxRetryCount {
			return failure
		}
		if time.Since(stepStart) > r.tolerance.MaxTotalStepDuration {
			return failure
		}
		time.Sleep(retryBackoff(attempt + 1))
	}
}

// retryBackoff is exponential with a 500ms base, capped at 30s per
// spec.md's retry policy.
func retryBackoff(attempt int) time.Duration {
	d := 500 * time.Millisecond
	for i := 1; i < attempt; i++ {
		d *= 2
		if d >= 30*time.Second {
			return 30 * time.Second
		}
	}
	return d
}

// toStepFailure wraps a step's returned error with the execution
// context a StepFailure must carry: if err is already a *StepFailure
// (e.g. from Substitute), its missing context fields are filled in
// rather than double-wrapping it.
func toStepFailure(err error, idx int, step Step, sess *session.Session, elapsed time.Duration) *StepFailure {
	var screenText string
	if sess != nil {
		screenText = truncateScreenText(sess.Screen().ScreenText())
	}

	if sf, ok := err.(*StepFailure); ok {
		sf.StepIndex = idx
		sf.Action = step.Kind().String()
		sf.Elapsed = elapsed
		if sf.ScreenText == "" {
			sf.ScreenText = screenText
		}
		return sf
	}

	if pe, ok := err.(*ParameterResolutionError); ok {
		return &StepFailure{
			StepIndex:  idx,
			Action:     step.Kind().String(),
			Kind:       FailureParameterResolution,
			Column:     pe.Column,
			Message:    pe.Error(),
			ScreenText: screenText,
			Elapsed:    elapsed,
		}
	}

	kind := FailureKindFor(step.Kind())
	return &StepFailure{
		StepIndex:  idx,
		Action:     step.Kind().String(),
		Kind:       kind,
		Message:    err.Error(),
		ScreenText: screenText,
		Elapsed:    elapsed,
	}
}

// FailureKindFor maps a step variant to the failure kind an
// unrecognized (non-StepFailure) error from it should be reported as.
func FailureKindFor(kind StepKind) FailureKind {
	switch kind {
	case StepLogin:
		return FailureLogin
	case StepNavigate:
		return FailureNavigation
	case StepFill:
		return FailureFieldNotFound
	case StepSubmit:
		return FailureSubmitTimeout
	case StepAssert:
		return FailureAssertion
	default:
		return FailureHostError
	}
}

func (r *run) dispatch(step Step) error {
	switch s := step.(type) {
	case LoginStep:
		return r.login(s)
	case NavigateStep:
		return r.navigate(s)
	case FillStep:
		return r.fill(s)
	case SubmitStep:
		return r.submit(s)
	case AssertStep:
		return r.assert(s)
	case CaptureStep:
		return r.capture(s)
	case WaitStep:
		time.Sleep(s.Duration)
		return nil
	default:
		return fmt.Errorf("workflow: unhandled step kind %v", step.Kind())
	}
}

func (r *run) login(s LoginStep) error {
	cfg := telnet.DefaultConfig()
	cfg.TLS = s.TLS
	if s.ConnectTimeout > 0 {
		cfg.ConnectTimeout = s.ConnectTimeout
	}
	if s.NegotiationTimeout > 0 {
		cfg.NegotiationTimeout = s.NegotiationTimeout
	}

	sess, err := session.Connect(s.Host, s.Port, cfg, s.DeviceName, r.reg, s.CCSID, r.log)
	if err != nil {
		return err
	}

	result := sess.WaitForOIA(context.Background(), screen.Unlocked, r.tolerance.KeyboardUnlockTimeout)
	if result != screen.WaitOK {
		sess.Disconnect()
		return fmt.Errorf("keyboard did not unlock after login: %s", result)
	}

	if s.SignonIndicator != "" && !strings.Contains(sess.Screen().ScreenText(), s.SignonIndicator) {
		sess.Disconnect()
		return &StepFailure{Kind: FailureLogin, Message: "signon indicator not found: " + s.SignonIndicator}
	}

	r.sess = sess
	return nil
}

// navigate sends s.Keystrokes at the current cursor, terminating the
// sequence on the first named AID key (the rest of the sequence, if
// any, is ignored — an AID key ends the operator's input turn). [TAB]
// moves the cursor to the next unprotected field without sending
// anything; [HOME] is accepted and ignored: it neither moves the cursor
// nor sends anything.
func (r *run) navigate(s NavigateStep) error {
	if r.sess == nil {
		return fmt.Errorf("navigate before login")
	}
	text, err := Substitute(s.Keystrokes, r.dataRow)
	if err != nil {
		return err
	}

	parser := r.sess.Parser()
keys:
	for _, k := range ParseKeystrokes(text) {
		if k.Named == "" {
			if err := parser.TypeAtCursor(k.Literal); err != nil {
				return err
			}
			continue
		}
		switch k.Named {
		case "TAB":
			if err := parser.TabToNextField(); err != nil {
				return err
			}
		case "HOME":
			// HOME does not move the cursor; nothing to synchronize.
			continue
		default:
			aid, ok := datastream.ParseAIDName(strings.ToLower(k.Named))
			if !ok {
				return fmt.Errorf("unrecognized keystroke [%s]", k.Named)
			}
			if err := r.sendAIDAndSync(aid); err != nil {
				return err
			}
			break keys
		}
	}

	if s.ExpectedText != "" {
		want, err := Substitute(s.ExpectedText, r.dataRow)
		if err != nil {
			return err
		}
		if !containsText(r.sess.Screen().ScreenText(), want) {
			return &StepFailure{Kind: FailureAssertion, Message: "expected text not found after navigate: " + want}
		}
	}
	return nil
}

func (r *run) fill(s FillStep) error {
	if r.sess == nil {
		return fmt.Errorf("fill before login")
	}
	parser := r.sess.Parser()
	for i, b := range s.Bindings {
		value, err := Substitute(b.ValueTemplate, r.dataRow)
		if err != nil {
			return err
		}
		if err := parser.HomeCursorToField(b.FieldName); err != nil {
			return wrapFieldError(err, FailureFieldNotFound)
		}
		if err := parser.TypeField(b.FieldName, value); err != nil {
			return wrapFieldError(err, fieldErrorKind(err))
		}
		if r.tolerance.InterFieldFillPause > 0 && i < len(s.Bindings)-1 {
			time.Sleep(r.tolerance.InterFieldFillPause)
		}
	}
	return nil
}

// fieldErrorKind maps a datastream field-write sentinel to its
// workflow failure kind. ErrFieldNotNumeric maps to FailureFieldOverflow,
// the same kind as an overflowing value, per spec.md §4.5.1's
// "rejects non-digit content symmetrically" to a length overflow: both
// are a resolved value the field cannot accept, caught before any
// keystroke is sent.
func fieldErrorKind(err error) FailureKind {
	switch err {
	case datastream.ErrFieldOverflow, datastream.ErrFieldNotNumeric:
		return FailureFieldOverflow
	default:
		return FailureFieldNotFound
	}
}

func wrapFieldError(err error, kind FailureKind) error {
	if err == datastream.ErrFieldNotFound || err == datastream.ErrFieldOverflow || err == datastream.ErrFieldNotNumeric {
		return &StepFailure{Kind: kind, Message: err.Error()}
	}
	return err
}

func (r *run) submit(s SubmitStep) error {
	if r.sess == nil {
		return fmt.Errorf("submit before login")
	}
	aid, ok := datastream.ParseAIDName(s.AIDName)
	if !ok {
		return &StepFailure{Kind: FailureSubmitTimeout, Message: "unrecognized AID key: " + s.AIDName}
	}
	return r.sendAIDAndSync(aid)
}

// sendAIDAndSync sends aid and waits out the lock-then-unlock cycle
// the spec requires around every submitted AID key: the host is
// expected to lock the keyboard while it processes the request, then
// unlock it once a response has been applied to the screen. A host
// that never locks (an immediate, already-applied response) is not an
// error; only failing to eventually unlock is.
func (r *run) sendAIDAndSync(aid datastream.AID) error {
	ctx := context.Background()
	if err := r.sess.SubmitAID(ctx, aid); err != nil {
		return err
	}
	r.sess.WaitForOIA(ctx, screen.Locked, r.tolerance.KeyboardLockCycleTimeout)

	result := r.sess.WaitForOIA(ctx, screen.Unlocked, r.tolerance.KeyboardLockCycleTimeout)
	if result != screen.WaitOK {
		return &StepFailure{Kind: FailureSubmitTimeout, Message: "keyboard did not unlock after submit: " + result.String()}
	}
	if oia := r.sess.Screen().OIASnapshot(); oia.IsFatal() {
		return &StepFailure{Kind: FailureHostError, Message: "host reported a communication or program check"}
	}
	return nil
}

func (r *run) assert(s AssertStep) error {
	if r.sess == nil {
		return fmt.Errorf("assert before login")
	}
	want, err := Substitute(s.ExpectedText, r.dataRow)
	if err != nil {
		return err
	}
	text := r.sess.Screen().ScreenText()
	if !containsText(text, want) {
		return &StepFailure{Kind: FailureAssertion, Message: "expected text not found: " + want}
	}
	return nil
}

func (r *run) capture(s CaptureStep) error {
	if r.sess == nil {
		return fmt.Errorf("capture before login")
	}
	name, err := Substitute(s.ArtifactName, r.dataRow)
	if err != nil {
		return err
	}
	r.artifacts.Record(name, []byte(r.sess.Screen().ScreenText()))
	return nil
}

func containsText(haystack, needle string) bool {
	return strings.Contains(haystack, needle)
}
