package telopts

import (
	"fmt"
	"strings"

	telnet "github.com/hwuhlig/gotelnet"
)

const (
	msspVar = 1
	msspVal = 2
)

// ServerStatus is the MSSP (Mud Server Status Protocol) subnegotiation
// payload: a list of variables, each with one or more values.
type ServerStatus map[string][]string

// EncodeMSSP expects value to be a ServerStatus. Unlike the implementation
// this package descends from, which silently dropped any NUL, IAC,
// MSSP-VAR, or MSSP-VAL byte found in a key or value, this encoder rejects
// outright: a variable or value containing one of the four reserved bytes
// cannot be represented on the wire at all, and silently mangling it is
// worse than failing loudly.
func EncodeMSSP(value any) ([]byte, error) {
	status, ok := value.(ServerStatus)
	if !ok {
		return nil, fmt.Errorf("telopts: MSSP payload must be telopts.ServerStatus, got %T", value)
	}

	var buf []byte
	for name, values := range status {
		if err := checkMSSPToken(name); err != nil {
			return nil, fmt.Errorf("telopts: MSSP variable %q: %w", name, err)
		}
		buf = append(buf, msspVar)
		buf = append(buf, []byte(name)...)

		for _, v := range values {
			if err := checkMSSPToken(v); err != nil {
				return nil, fmt.Errorf("telopts: MSSP value %q for variable %q: %w", v, name, err)
			}
			buf = append(buf, msspVal)
			buf = append(buf, []byte(v)...)
		}
	}
	return buf, nil
}

func checkMSSPToken(s string) error {
	if strings.IndexByte(s, telnet.IAC) >= 0 {
		return fmt.Errorf("contains IAC")
	}
	if strings.IndexByte(s, 0) >= 0 {
		return fmt.Errorf("contains NUL")
	}
	if strings.IndexByte(s, msspVar) >= 0 {
		return fmt.Errorf("contains MSSP-VAR")
	}
	if strings.IndexByte(s, msspVal) >= 0 {
		return fmt.Errorf("contains MSSP-VAL")
	}
	return nil
}

// DecodeMSSP parses a sequence of VAR name (VAL value)* groups.
func DecodeMSSP(payload []byte) (any, error) {
	status := make(ServerStatus)

	i := 0
	for i < len(payload) {
		if payload[i] != msspVar {
			return nil, fmt.Errorf("telopts: MSSP expected VAR at offset %d, got 0x%02X", i, payload[i])
		}
		i++

		start := i
		for i < len(payload) && payload[i] != msspVar && payload[i] != msspVal {
			i++
		}
		name := string(payload[start:i])

		var values []string
		for i < len(payload) && payload[i] == msspVal {
			i++
			valStart := i
			for i < len(payload) && payload[i] != msspVar && payload[i] != msspVal {
				i++
			}
			values = append(values, string(payload[valStart:i]))
		}

		status[name] = values
	}

	return status, nil
}

// RegisterMSSP registers the MSSP codec pair on registry.
func RegisterMSSP(registry *telnet.PayloadCodecRegistry) {
	registry.Register(telnet.OptionMSSP, EncodeMSSP, DecodeMSSP)
}
