package telnet

import "fmt"

// ConnectionFailed reports a DNS or TCP-level dial failure. Retryable at
// the workflow level.
type ConnectionFailed struct {
	Host string
	Port int
	Err  error
}

func (e *ConnectionFailed) Error() string {
	return fmt.Sprintf("telnet: connect %s:%d: %v", e.Host, e.Port, e.Err)
}
func (e *ConnectionFailed) Unwrap() error { return e.Err }

// NegotiationFailed reports that a required telnet option was refused or
// the negotiation exchange timed out. Retryable at the workflow level.
type NegotiationFailed struct {
	Reason string
}

func (e *NegotiationFailed) Error() string { return "telnet: negotiation failed: " + e.Reason }

// TLSHandshakeFailed reports a certificate or protocol error establishing
// TLS. Retryable at the workflow level.
type TLSHandshakeFailed struct {
	Err error
}

func (e *TLSHandshakeFailed) Error() string { return fmt.Sprintf("telnet: tls handshake: %v", e.Err) }
func (e *TLSHandshakeFailed) Unwrap() error { return e.Err }

// ReadError reports a failure reading framed records from an established
// connection.
type ReadError struct{ Err error }

func (e *ReadError) Error() string { return fmt.Sprintf("telnet: read: %v", e.Err) }
func (e *ReadError) Unwrap() error  { return e.Err }

// WriteError reports a failure writing a framed record.
type WriteError struct{ Err error }

func (e *WriteError) Error() string { return fmt.Sprintf("telnet: write: %v", e.Err) }
func (e *WriteError) Unwrap() error { return e.Err }

// ConnectionClosed reports that the peer closed the connection, or that
// the local side closed it first (Disconnect is idempotent on either).
type ConnectionClosed struct{}

func (e *ConnectionClosed) Error() string { return "telnet: connection closed" }
