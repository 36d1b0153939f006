package telopts

import (
	"fmt"

	telnet "github.com/hwuhlig/gotelnet"
)

const (
	statusIs   = 0
	statusSend = 1
)

// StatusMessage is the STATUS subnegotiation payload. A Send message has no
// entries and requests the peer report its option state; an Is message
// reports it.
type StatusMessage struct {
	Send    bool
	Entries []StatusOption
}

// StatusOption is one reported option's state in both directions.
type StatusOption struct {
	Option      telnet.Option
	LocalIsWill bool // true: this side has the option WILL'd; false: WONT'd
	RemoteIsDo  bool // true: the peer has the option DO'd; false: DONT'd
}

// EncodeStatus expects value to be a StatusMessage.
func EncodeStatus(value any) ([]byte, error) {
	msg, ok := value.(StatusMessage)
	if !ok {
		return nil, fmt.Errorf("telopts: STATUS payload must be telopts.StatusMessage, got %T", value)
	}

	if msg.Send {
		return []byte{statusSend}, nil
	}

	payload := make([]byte, 0, 1+4*len(msg.Entries))
	payload = append(payload, statusIs)
	for _, e := range msg.Entries {
		localCmd, remoteCmd := telnet.WONT, telnet.DONT
		if e.LocalIsWill {
			localCmd = telnet.WILL
		}
		if e.RemoteIsDo {
			remoteCmd = telnet.DO
		}
		payload = append(payload, localCmd, byte(e.Option), remoteCmd, byte(e.Option))
	}
	return payload, nil
}

// DecodeStatus parses the SEND/IS subnegotiation format. An IS payload is a
// repeating sequence of (command, option, command, option) quads, pairing
// this side's report of its own local state with its report of the peer's
// remote state for the same option.
func DecodeStatus(payload []byte) (any, error) {
	if len(payload) == 0 {
		return nil, fmt.Errorf("telopts: empty STATUS payload")
	}

	switch payload[0] {
	case statusSend:
		return StatusMessage{Send: true}, nil
	case statusIs:
		rest := payload[1:]
		if len(rest)%4 != 0 {
			return nil, fmt.Errorf("telopts: STATUS IS payload length %d is not a multiple of 4", len(rest))
		}

		entries := make([]StatusOption, 0, len(rest)/4)
		for i := 0; i+4 <= len(rest); i += 4 {
			localCmd, localOpt, remoteCmd, remoteOpt := rest[i], rest[i+1], rest[i+2], rest[i+3]
			if localOpt != remoteOpt {
				return nil, fmt.Errorf("telopts: STATUS entry option mismatch (%d != %d)", localOpt, remoteOpt)
			}
			entries = append(entries, StatusOption{
				Option:      telnet.Option(localOpt),
				LocalIsWill: localCmd == telnet.WILL,
				RemoteIsDo:  remoteCmd == telnet.DO,
			})
		}
		return StatusMessage{Entries: entries}, nil
	default:
		return nil, fmt.Errorf("telopts: unsupported STATUS subnegotiation code %d", payload[0])
	}
}

// RegisterStatus registers the STATUS codec pair on registry.
func RegisterStatus(registry *telnet.PayloadCodecRegistry) {
	registry.Register(telnet.OptionStatus, EncodeStatus, DecodeStatus)
}
