package workflow

import (
	"net"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/rob-gra/tn5250wf/clog"
	"github.com/rob-gra/tn5250wf/codepage"
	"github.com/rob-gra/tn5250wf/datastream"
	"github.com/rob-gra/tn5250wf/screen"
	"github.com/rob-gra/tn5250wf/telnet"
)

// startFakeHost5250 accepts any number of connections, completing just
// enough telnet negotiation on each for the client's required-option
// check to pass, then writing wtdRecord (if any, already IAC-EOR
// framed) after the negotiation deadline elapses.
func startFakeHost5250(t *testing.T, wtdRecord []byte) string {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { ln.Close() })

	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			go serveFakeHostConn(conn, wtdRecord)
		}
	}()

	return ln.Addr().String()
}

func serveFakeHostConn(conn net.Conn, wtdRecord []byte) {
	defer conn.Close()

	reply := []byte{
		telnet.IAC, telnet.WILL, telnet.OptBinary,
		telnet.IAC, telnet.DO, telnet.OptBinary,
		telnet.IAC, telnet.WILL, telnet.OptEOR,
		telnet.IAC, telnet.DO, telnet.OptEOR,
		telnet.IAC, telnet.DO, telnet.OptTermType,
		telnet.IAC, telnet.DO, telnet.OptNewEnviron,
	}
	conn.Write(reply)

	if wtdRecord != nil {
		time.Sleep(1200 * time.Millisecond)
		conn.Write(wtdRecord)
	}

	// Drain anything the client sends so its writer goroutine never
	// blocks on a full TCP send buffer.
	buf := make([]byte, 4096)
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	for {
		if _, err := conn.Read(buf); err != nil {
			return
		}
	}
}

func splitAddr(t *testing.T, addr string) (string, int) {
	t.Helper()
	host, portStr, err := net.SplitHostPort(addr)
	require.NoError(t, err)
	port, err := strconv.Atoi(portStr)
	require.NoError(t, err)
	return host, port
}

func testFastTolerance() ToleranceConfig {
	return ToleranceConfig{
		KeyboardUnlockTimeout:    2 * time.Second,
		KeyboardLockCycleTimeout: 500 * time.Millisecond,
		OIAPollInterval:          20 * time.Millisecond,
		MaxTotalStepDuration:     3 * time.Second,
	}
}

func frameRecord5250(payload []byte) []byte {
	out := make([]byte, 0, len(payload)+2)
	for _, b := range payload {
		if b == telnet.IAC {
			out = append(out, telnet.IAC, telnet.IAC)
		} else {
			out = append(out, b)
		}
	}
	out = append(out, telnet.IAC, telnet.EOR)
	return out
}

func testEngine(t *testing.T) *Engine {
	t.Helper()
	reg, err := codepage.NewRegistry()
	require.NoError(t, err)
	return NewEngine(reg, clog.NewLogger("test"))
}

func TestValidateStepOrderRequiresLoginFirst(t *testing.T) {
	err := validateStepOrder([]Step{NavigateStep{Keystrokes: "[ENTER]"}})
	var sf *StepFailure
	require.ErrorAs(t, err, &sf)
	require.Equal(t, FailureStepOrderInvalid, sf.Kind)
}

func TestValidateStepOrderRejectsSecondLogin(t *testing.T) {
	err := validateStepOrder([]Step{
		LoginStep{Host: "x"},
		LoginStep{Host: "y"},
	})
	var sf *StepFailure
	require.ErrorAs(t, err, &sf)
	require.Equal(t, FailureStepOrderInvalid, sf.Kind)
	require.Equal(t, 1, sf.StepIndex)
}

func TestValidateStepOrderRejectsEmptyWorkflow(t *testing.T) {
	err := validateStepOrder(nil)
	require.Error(t, err)
}

func TestExecuteLoginThenAssertOnBlankScreen(t *testing.T) {
	addr := startFakeHost5250(t, nil)
	host, port := splitAddr(t, addr)

	steps := []Step{
		LoginStep{Host: host, Port: port, DeviceName: "QPADEV0001", CCSID: 37},
		AssertStep{ExpectedText: ""},
	}

	result, err := testEngine(t).Execute(steps, nil, testFastTolerance(), nil, nil)
	require.NoError(t, err)
	require.True(t, result.Success)
}

func TestExecuteFillAndSubmitSendsAssembledResponse(t *testing.T) {
	// Defines one unprotected field at row 1 col 1, length 5, via
	// Write-to-Display SBA+SF order pairs, so a Fill step has somewhere
	// to type: SBA positions the buffer pointer, SF then writes the
	// field-attribute byte at that position and starts the field.
	record := []byte{byte(datastream.CmdWriteToDisplay), 0x00, 0x00}
	hi, lo := encodeAddr5250(1, 1)
	record = append(record, byte(datastream.OrderSBA), hi, lo, byte(datastream.OrderSF), 0x00)
	hi, lo = encodeAddr5250(1, 7)
	record = append(record, byte(datastream.OrderSBA), hi, lo, byte(datastream.OrderSF), byte(screen.FieldProtected)) // bounds field_0 at length 5

	framed := frameRecord5250(record)
	addr := startFakeHost5250(t, framed)
	host, port := splitAddr(t, addr)

	steps := []Step{
		LoginStep{Host: host, Port: port, DeviceName: "QPADEV0001", CCSID: 37, NegotiationTimeout: 1 * time.Second},
		WaitStep{Duration: 1500 * time.Millisecond}, // let the delayed WTD record land before Fill
		FillStep{Bindings: []FieldBinding{{FieldName: "field_0", ValueTemplate: "${data.NAME}"}}},
		SubmitStep{AIDName: "enter"},
	}

	tolerance := testFastTolerance()
	ledger := NewInMemoryLedger()
	result, err := testEngine(t).Execute(steps, map[string]string{"NAME": "ABCDE"}, tolerance, nil, ledger)
	require.NoError(t, err)
	require.True(t, result.Success)

	events := ledger.Events()
	require.True(t, len(events) >= 6)
	require.Equal(t, EventStepStarted, events[0].Kind)
	require.Equal(t, "login", events[0].Action)
}

func TestExecuteReportsParameterResolutionFailure(t *testing.T) {
	addr := startFakeHost5250(t, nil)
	host, port := splitAddr(t, addr)

	steps := []Step{
		LoginStep{Host: host, Port: port, DeviceName: "QPADEV0001", CCSID: 37},
		AssertStep{ExpectedText: "${data.MISSING}"},
	}

	result, err := testEngine(t).Execute(steps, map[string]string{}, testFastTolerance(), nil, nil)
	require.Error(t, err)
	require.False(t, result.Success)
	require.Equal(t, FailureParameterResolution, result.Failure.Kind)
	require.Equal(t, "MISSING", result.Failure.Column)
	require.Equal(t, 1, result.Failure.StepIndex)
}

func TestExecuteNonRetryableFailureSkipsRetryBackoff(t *testing.T) {
	addr := startFakeHost5250(t, nil)
	host, port := splitAddr(t, addr)

	steps := []Step{
		LoginStep{Host: host, Port: port, DeviceName: "QPADEV0001", CCSID: 37},
		AssertStep{ExpectedText: "${data.MISSING}"},
	}

	tolerance := testFastTolerance()
	tolerance.MaxRetryCount = 5

	result, err := testEngine(t).Execute(steps, map[string]string{}, tolerance, nil, nil)
	require.Error(t, err)
	require.False(t, result.Success)
	require.Equal(t, FailureParameterResolution, result.Failure.Kind)
	// retryBackoff(1) alone is 500ms; a single retry would already blow
	// past this, so a non-retryable failure must return well under it.
	// Failure.Elapsed covers the failing step only, not Login's
	// negotiation wait.
	require.Less(t, result.Failure.Elapsed, 400*time.Millisecond)
}

func TestExecuteCapturesArtifact(t *testing.T) {
	addr := startFakeHost5250(t, nil)
	host, port := splitAddr(t, addr)

	steps := []Step{
		LoginStep{Host: host, Port: port, DeviceName: "QPADEV0001", CCSID: 37},
		CaptureStep{ArtifactName: "login-screen"},
	}

	artifacts := NewInMemoryArtifactCollector()
	result, err := testEngine(t).Execute(steps, nil, testFastTolerance(), artifacts, nil)
	require.NoError(t, err)
	require.True(t, result.Success)
	require.Len(t, result.Artifacts, 1)
	require.Equal(t, "login-screen", result.Artifacts[0].Name)
}

// encodeAddr5250 mirrors datastream's unexported 12-bit buffer-address
// codec for a 24x80 screen, duplicated here since workflow tests build
// raw WTD records without importing datastream's internals.
func encodeAddr5250(row, col int) (byte, byte) {
	pos := (row-1)*80 + (col - 1)
	return byte(pos >> 6), byte(pos & 0x3F)
}
