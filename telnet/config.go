// Package telnet implements the TN5250E transport (spec component C2):
// telnet option negotiation, TLS wrapping, and end-of-record framing over
// a TCP connection. It does not parse 5250 data-stream content — that is
// the protocol engine's job (package datastream); this package only
// delivers framed byte records in arrival order.
package telnet

import (
	"errors"
	"time"
)

// ScreenSize selects the workstation geometry advertised during terminal
// type negotiation.
type ScreenSize int

const (
	// Screen24x80 advertises terminal type IBM-3179-2.
	Screen24x80 ScreenSize = iota
	// Screen27x132 advertises terminal type IBM-3477-FC.
	Screen27x132
)

// defines the acceptable range for each timeout/limit the transport
// honors; out-of-range values are rejected at Config.Valid, mirroring
// the bounds a real TN5250E client enforces on its control parameters.
const (
	ConnectTimeoutMin = 1 * time.Second
	ConnectTimeoutMax = 300 * time.Second

	NegotiationTimeoutMin = 1 * time.Second
	NegotiationTimeoutMax = 60 * time.Second

	DeviceNameRetryMin = 1
	DeviceNameRetryMax = 100
)

// Config defines a TN5250E transport configuration. The default is
// applied for each unspecified (zero) value, via Valid.
type Config struct {
	// ConnectTimeout bounds TCP (and, if enabled, TLS handshake) setup.
	// Default 10s.
	ConnectTimeout time.Duration

	// NegotiationTimeout bounds the telnet option negotiation exchange.
	// Default 5s.
	NegotiationTimeout time.Duration

	// ScreenSize selects the terminal type offered in negotiation.
	ScreenSize ScreenSize

	// DeviceName is not read by Dial or DialWithDeviceNameRetry; both
	// take the device name to request as an argument.
	DeviceName string

	// DeviceNameRetryLimit bounds the device-name disambiguation retry
	// loop. Default 10.
	DeviceNameRetryLimit int

	// TLS enables wrapping the socket in a TLS client connection before
	// telnet negotiation begins.
	TLS bool

	// TLSTrustStorePEM, if non-empty, overrides the system trust roots
	// with a custom PEM-encoded certificate pool. A self-signed
	// certificate not covered by either source is never accepted.
	TLSTrustStorePEM []byte

	// TLSServerName overrides SNI/hostname verification; if empty, the
	// dialed host is used.
	TLSServerName string
}

// Valid applies the default for each unspecified value and rejects
// out-of-range values.
func (c *Config) Valid() error {
	if c == nil {
		return errors.New("telnet: invalid pointer")
	}

	if c.ConnectTimeout == 0 {
		c.ConnectTimeout = 10 * time.Second
	} else if c.ConnectTimeout < ConnectTimeoutMin || c.ConnectTimeout > ConnectTimeoutMax {
		return errors.New("telnet: ConnectTimeout out of range")
	}

	if c.NegotiationTimeout == 0 {
		c.NegotiationTimeout = 5 * time.Second
	} else if c.NegotiationTimeout < NegotiationTimeoutMin || c.NegotiationTimeout > NegotiationTimeoutMax {
		return errors.New("telnet: NegotiationTimeout out of range")
	}

	if c.DeviceNameRetryLimit == 0 {
		c.DeviceNameRetryLimit = 10
	} else if c.DeviceNameRetryLimit < DeviceNameRetryMin || c.DeviceNameRetryLimit > DeviceNameRetryMax {
		return errors.New("telnet: DeviceNameRetryLimit out of range")
	}

	return nil
}

// DefaultConfig returns a Config with every value at its default.
func DefaultConfig() Config {
	return Config{
		ConnectTimeout:       10 * time.Second,
		NegotiationTimeout:   5 * time.Second,
		ScreenSize:           Screen24x80,
		DeviceNameRetryLimit: 10,
	}
}
