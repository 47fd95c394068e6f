package telnet

import (
	"bufio"
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"net"
	"time"

	"github.com/rob-gra/tn5250wf/clog"
)

// Transport carries 5250 records over a negotiated telnet connection
// (spec component C2). It does not interpret record contents; it only
// frames inbound bytes by IAC-EOR and escapes/unescapes embedded IAC
// bytes per RFC rules.
type Transport struct {
	conn    net.Conn
	reader  *bufio.Reader
	cfg     Config
	opts    *optionSet
	devname string
	log     clog.Clog
}

// Dial opens a TCP (optionally TLS) connection to host:port, wraps it in
// TLS if configured, and completes telnet negotiation. deviceName is the
// device name requested; Dial does not retry. DialWithDeviceNameRetry
// retries under nextDeviceName-derived names up to cfg.DeviceNameRetryLimit.
func Dial(host string, port int, cfg Config, deviceName string, log clog.Clog) (*Transport, error) {
	if err := cfg.Valid(); err != nil {
		return nil, err
	}

	addr := fmt.Sprintf("%s:%d", host, port)
	rawConn, err := net.DialTimeout("tcp", addr, cfg.ConnectTimeout)
	if err != nil {
		return nil, &ConnectionFailed{Host: host, Port: port, Err: err}
	}

	conn := rawConn
	if cfg.TLS {
		tlsConn, err := wrapTLS(rawConn, host, cfg)
		if err != nil {
			rawConn.Close()
			return nil, err
		}
		conn = tlsConn
	}

	reader := bufio.NewReaderSize(conn, 4096)
	opts, err := negotiate(conn, reader, cfg, deviceName, log)
	if err != nil {
		conn.Close()
		return nil, err
	}

	return &Transport{
		conn:    conn,
		reader:  reader,
		cfg:     cfg,
		opts:    opts,
		devname: deviceName,
		log:     log,
	}, nil
}

// DialWithDeviceNameRetry retries Dial with an incrementing device-name
// suffix when the host rejects the chosen name as already in use,
// bounded by cfg.DeviceNameRetryLimit (SPEC_FULL.md device-name
// sequencer).
func DialWithDeviceNameRetry(host string, port int, cfg Config, baseDeviceName string, nameInUse func(error) bool, log clog.Clog) (*Transport, error) {
	if err := cfg.Valid(); err != nil {
		return nil, err
	}
	name := baseDeviceName
	var lastErr error
	for attempt := 0; attempt <= cfg.DeviceNameRetryLimit; attempt++ {
		t, err := Dial(host, port, cfg, name, log)
		if err == nil {
			return t, nil
		}
		lastErr = err
		if nameInUse == nil || !nameInUse(err) {
			return nil, err
		}
		name = nextDeviceName(baseDeviceName, attempt+1)
	}
	return nil, lastErr
}

// AcceptedOptions reports which telnet options the host agreed to.
func (t *Transport) AcceptedOptions() []byte {
	var out []byte
	for _, opt := range requiredOptions {
		if t.opts.accepted(opt) {
			out = append(out, opt)
		}
	}
	return out
}

// DeviceName returns the negotiated device name.
func (t *Transport) DeviceName() string { return t.devname }

// ReadRecord blocks until one complete IAC-EOR-terminated record has
// arrived, unescaping embedded IAC IAC pairs, and returns its payload.
func (t *Transport) ReadRecord() ([]byte, error) {
	var record []byte
	for {
		b, err := t.reader.ReadByte()
		if err != nil {
			return nil, &ReadError{Err: err}
		}
		if b != IAC {
			record = append(record, b)
			continue
		}
		next, err := t.reader.ReadByte()
		if err != nil {
			return nil, &ReadError{Err: err}
		}
		switch next {
		case EOR:
			return record, nil
		case IAC:
			record = append(record, IAC)
		default:
			// Unexpected telnet command mid-record (e.g. a keepalive
			// NOP); drop it and keep framing the record.
			t.log.Debug("telnet: dropped mid-record command %d", next)
		}
	}
}

// WriteRecord escapes embedded IAC bytes and terminates the record with
// IAC EOR.
func (t *Transport) WriteRecord(payload []byte) error {
	out := make([]byte, 0, len(payload)+4)
	for _, b := range payload {
		if b == IAC {
			out = append(out, IAC, IAC)
		} else {
			out = append(out, b)
		}
	}
	out = append(out, IAC, EOR)
	if _, err := t.conn.Write(out); err != nil {
		return &WriteError{Err: err}
	}
	return nil
}

// Close closes the underlying connection. Idempotent: closing an already
// closed Transport returns nil.
func (t *Transport) Close() error {
	if t.conn == nil {
		return nil
	}
	err := t.conn.Close()
	t.conn = nil
	if err != nil {
		return &WriteError{Err: err}
	}
	return nil
}

func wrapTLS(conn net.Conn, host string, cfg Config) (net.Conn, error) {
	tlsCfg := &tls.Config{
		ServerName:         host,
		InsecureSkipVerify: false, // a self-signed certificate is never accepted silently
	}
	if cfg.TLSServerName != "" {
		tlsCfg.ServerName = cfg.TLSServerName
	}
	if len(cfg.TLSTrustStorePEM) > 0 {
		pool := x509.NewCertPool()
		if !pool.AppendCertsFromPEM(cfg.TLSTrustStorePEM) {
			return nil, &TLSHandshakeFailed{Err: fmt.Errorf("invalid custom trust store PEM")}
		}
		tlsCfg.RootCAs = pool
	}

	client := tls.Client(conn, tlsCfg)
	deadline := time.Now().Add(cfg.ConnectTimeout)
	if err := client.SetDeadline(deadline); err != nil {
		return nil, &TLSHandshakeFailed{Err: err}
	}
	if err := client.Handshake(); err != nil {
		return nil, &TLSHandshakeFailed{Err: err}
	}
	_ = client.SetDeadline(time.Time{})
	return client, nil
}
