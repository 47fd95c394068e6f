// Package session wires transport (C2), protocol engine (C3), and
// screen model (C4) into one running terminal session: an inbound
// reader goroutine that frames and applies records in arrival order, an
// outbound writer goroutine that serializes queued responses, and a
// thin API surface for the workflow engine (C5) and direct library
// callers.
package session

import (
	"context"
	"errors"
	"time"

	"github.com/rob-gra/tn5250wf/clog"
	"github.com/rob-gra/tn5250wf/codepage"
	"github.com/rob-gra/tn5250wf/datastream"
	"github.com/rob-gra/tn5250wf/screen"
	"github.com/rob-gra/tn5250wf/telnet"
)

// QueueCapacity is the default bound on the inbound and outbound record
// queues, providing backpressure per spec.md §5.
const QueueCapacity = 25

// State is the session's connection state machine.
type State int

const (
	StateDisconnected State = iota
	StateConnecting
	StateNegotiating
	StateBound
	StateDisconnecting
	StateError
)

func (s State) String() string {
	switch s {
	case StateDisconnected:
		return "disconnected"
	case StateConnecting:
		return "connecting"
	case StateNegotiating:
		return "negotiating"
	case StateBound:
		return "bound"
	case StateDisconnecting:
		return "disconnecting"
	case StateError:
		return "error"
	default:
		return "unknown"
	}
}

// Session is one TCP or TLS connection to an IBM i plus the logical
// workstation bound to it. Construct with Connect; tear down with
// Disconnect. Safe for concurrent use by any number of goroutines: the
// screen model has its own mutex, Send enqueues onto a buffered
// channel, and state is only ever written by the session's own reader
// goroutine.
type Session struct {
	transport *telnet.Transport
	scr       *screen.Screen
	parser    *datastream.Parser
	log       clog.Clog

	outbound chan []byte
	done     chan struct{}
	cancel   context.CancelFunc

	stateCh chan State
	lastErr error
}

// Connect dials host:port, completes telnet negotiation, constructs a
// screen model sized per cfg.ScreenSize, and starts the reader/writer
// goroutines. deviceName is the base name; Connect itself retries
// negotiation through telnet.DialWithDeviceNameRetry, appending a
// numeric suffix (telnet.nextDeviceName) each time deviceNameInUse
// judges the rejection to be a name conflict rather than some other
// negotiation failure.
func Connect(host string, port int, cfg telnet.Config, deviceName string, reg *codepage.Registry, ccsid int, log clog.Clog) (*Session, error) {
	transport, err := telnet.DialWithDeviceNameRetry(host, port, cfg, deviceName, deviceNameInUse, log)
	if err != nil {
		return nil, err
	}

	cp, ok := reg.Lookup(ccsid)
	if !ok {
		cp = reg.MustLookup(37)
	}
	var dbcs *codepage.DBCSCodepage
	if d, ok := reg.LookupDBCS(codepage.DBCS930); ok {
		dbcs = d
	}

	rows, cols := cfg.ScreenSize.Dimensions()
	scr := screen.New(rows, cols, cp)
	parser := datastream.NewParser(scr, cp, dbcs, log)

	ctx, cancel := context.WithCancel(context.Background())
	s := &Session{
		transport: transport,
		scr:       scr,
		parser:    parser,
		log:       log,
		outbound:  make(chan []byte, QueueCapacity),
		done:      make(chan struct{}),
		cancel:    cancel,
		stateCh:   make(chan State, 1),
	}
	s.stateCh <- StateBound

	go s.readLoop(ctx)
	go s.writeLoop(ctx)

	return s, nil
}

// deviceNameInUse judges whether a Dial failure is the host refusing
// the requested device name, worth retrying under a new one, versus
// some other negotiation problem (a required option the host never
// supports, a dead link) that retrying with a different name cannot
// fix. TN5250E has no dedicated "name in use" telnet reply; a
// conflicting DEVNAME surfaces the same way as any other required-
// option rejection, as telnet.NegotiationFailed.
func deviceNameInUse(err error) bool {
	var nf *telnet.NegotiationFailed
	return errors.As(err, &nf)
}

// Screen returns the session's screen model, for direct read access.
func (s *Session) Screen() *screen.Screen { return s.scr }

// Parser returns the session's protocol engine, the workflow engine's
// (C5) only path for simulating keyboard input: C5 never mutates the
// screen model directly, only through Parser.TypeField/TypeAtCursor/
// TabToNextField/HomeCursorToField.
func (s *Session) Parser() *datastream.Parser { return s.parser }

// SubmitAID assembles the current field-table response for aid and
// sends it, the outbound half of an operator pressing an AID key.
func (s *Session) SubmitAID(ctx context.Context, aid datastream.AID) error {
	return s.Send(ctx, s.parser.AssembleKeyResponse(aid))
}

// Send enqueues an outbound record (an AID key response, assembled by
// datastream.Parser.AssembleKeyResponse or datastream.AssembleBareKey)
// for the writer goroutine. Blocks if the outbound queue is full
// (backpressure), honoring ctx cancellation.
func (s *Session) Send(ctx context.Context, record []byte) error {
	select {
	case s.outbound <- record:
		return nil
	case <-s.done:
		return &telnet.ConnectionClosed{}
	case <-ctx.Done():
		return ctx.Err()
	}
}

// WaitForOIA blocks until the screen's OIA satisfies predicate, times
// out, or the session is cancelled/closed.
func (s *Session) WaitForOIA(ctx context.Context, predicate func(screen.OIA) bool, timeout time.Duration) screen.WaitResult {
	return s.scr.WaitForOIA(ctx, predicate, timeout)
}

// CursorPosition is a convenience forward to the screen model.
func (s *Session) CursorPosition() (row, col int) {
	return s.scr.CursorPosition()
}

// LastError returns the diagnostic context recorded when the session
// entered StateError, if any.
func (s *Session) LastError() error { return s.lastErr }

// Disconnect cancels the session's goroutines, closes the transport,
// and releases the screen model's waiters. Idempotent.
//
// The transport is closed before waiting on the read loop to exit: a
// cancelled context alone cannot interrupt a goroutine blocked inside a
// socket read, but closing the underlying connection does.
func (s *Session) Disconnect() {
	s.cancel()
	s.transport.Close()
	<-s.done
	s.scr.Close()
}

func (s *Session) readLoop(ctx context.Context) {
	defer close(s.done)
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		record, err := s.transport.ReadRecord()
		if err != nil {
			s.lastErr = err
			s.log.Error("session: read loop stopping: %v", err)
			return
		}

		response, err := s.parser.Apply(record)
		if err != nil {
			s.log.Debug("session: record skipped: %v", err)
			continue
		}
		if response != nil {
			select {
			case s.outbound <- response:
			case <-ctx.Done():
				return
			}
		}
	}
}

func (s *Session) writeLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case record := <-s.outbound:
			if err := s.transport.WriteRecord(record); err != nil {
				s.lastErr = err
				s.log.Error("session: write loop stopping: %v", err)
				return
			}
		}
	}
}
