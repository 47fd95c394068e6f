package telnet

import (
	"bufio"
	"fmt"
	"net"
	"time"

	"github.com/rob-gra/tn5250wf/clog"
)

// negotiate drives the client side of the telnet option exchange
// described in spec.md §4.2: binary, end-of-record, terminal type, and
// new-environ (for device-name association). It returns the set of
// options the host actually agreed to, or a NegotiationFailed if a
// required option did not make it in.
//
// r must be the same *bufio.Reader the Transport goes on to use for
// ReadRecord: negotiation and record framing share one buffered reader
// so that any host bytes arriving in the same TCP segment as the
// negotiation reply, but not needed by negotiation, are not silently
// dropped.
func negotiate(conn net.Conn, r *bufio.Reader, cfg Config, deviceName string, log clog.Clog) (*optionSet, error) {
	opts := newOptionSet()

	hello := []byte{
		IAC, WILL, OptBinary,
		IAC, DO, OptBinary,
		IAC, WILL, OptEOR,
		IAC, DO, OptEOR,
		IAC, WILL, OptTermType,
		IAC, WILL, OptNewEnviron,
	}
	if err := conn.SetWriteDeadline(time.Now().Add(cfg.NegotiationTimeout)); err != nil {
		return nil, &NegotiationFailed{Reason: err.Error()}
	}
	if _, err := conn.Write(hello); err != nil {
		return nil, &NegotiationFailed{Reason: err.Error()}
	}

	deadline := time.Now().Add(cfg.NegotiationTimeout)
	state := stateIdle
	var sbOption byte
	var sbData []byte

	for {
		if time.Now().After(deadline) {
			break
		}
		if err := conn.SetReadDeadline(deadline); err != nil {
			return nil, &NegotiationFailed{Reason: err.Error()}
		}
		b, err := r.ReadByte()
		if err != nil {
			break // timeout or EOF: negotiate with whatever was collected
		}

		switch state {
		case stateIdle:
			if b == IAC {
				state = negIAC
			}
		case negIAC:
			switch b {
			case WILL:
				state = negWill
			case WONT:
				state = negWont
			case DO:
				state = negDo
			case DONT:
				state = negDont
			case SB:
				state = negSB
			default:
				state = stateIdle
			}
		case negWill:
			opts.theyWill[b] = true
			if b == OptTermType || b == OptNewEnviron {
				log.Debug("telnet: peer WILL option %d", b)
			}
			state = stateIdle
		case negWont:
			opts.theyWill[b] = false
			state = stateIdle
		case negDo:
			opts.weWill[b] = true
			state = stateIdle
		case negDont:
			opts.weWill[b] = false
			state = stateIdle
		case negSB:
			sbOption = b
			sbData = sbData[:0]
			state = negSBData
		case negSBData:
			if b == IAC {
				state = negSBIAC
			} else {
				sbData = append(sbData, b)
			}
		case negSBIAC:
			if b == SE {
				if err := handleSubnegotiation(conn, sbOption, sbData, cfg, deviceName); err != nil {
					return nil, err
				}
				state = stateIdle
			} else if b == IAC {
				sbData = append(sbData, IAC)
				state = negSBData
			} else {
				state = stateIdle
			}
		default:
			state = stateIdle
		}
	}
	_ = conn.SetReadDeadline(time.Time{})
	_ = conn.SetWriteDeadline(time.Time{})

	for _, opt := range requiredOptions {
		if !opts.accepted(opt) {
			return nil, &NegotiationFailed{Reason: fmt.Sprintf("required option %d not accepted by host", opt)}
		}
	}
	return opts, nil
}

// Additional negotiation sub-states, kept distinct from the
// negotiationState values in options.go since they are an implementation
// refinement of stateWillOrWont/stateDoOrDont/stateSubneg.
const (
	negIAC negotiationState = iota + 100
	negWill
	negWont
	negDo
	negDont
	negSB
	negSBData
	negSBIAC
)

// handleSubnegotiation answers TERM-TYPE SEND and NEW-ENVIRON SEND
// requests from the host.
func handleSubnegotiation(conn net.Conn, option byte, data []byte, cfg Config, deviceName string) error {
	switch option {
	case OptTermType:
		if len(data) >= 1 && data[0] == termTypeSend {
			reply := append([]byte{IAC, SB, OptTermType, termTypeIs}, []byte(cfg.ScreenSize.TerminalType())...)
			reply = append(reply, IAC, SE)
			if _, err := conn.Write(reply); err != nil {
				return &NegotiationFailed{Reason: err.Error()}
			}
		}
	case OptNewEnviron:
		if len(data) >= 1 && data[0] == termTypeSend {
			reply := []byte{IAC, SB, OptNewEnviron, envVarValue}
			reply = append(reply, envUserVar)
			reply = append(reply, []byte("DEVNAME")...)
			reply = append(reply, envVarValue)
			reply = append(reply, []byte(deviceName)...)
			reply = append(reply, IAC, SE)
			if _, err := conn.Write(reply); err != nil {
				return &NegotiationFailed{Reason: err.Error()}
			}
		}
	}
	return nil
}
