// Package telopts implements PayloadEncoder/PayloadDecoder pairs for the
// telnet package's PayloadCodecRegistry extension point: one file per
// option, each translating a typed Go value to and from the raw
// subnegotiation bytes that option's RFC defines.
package telopts

import (
	"encoding/binary"
	"fmt"

	telnet "github.com/hwuhlig/gotelnet"
)

// WindowSize is the NAWS (RFC 1073) subnegotiation payload: the terminal's
// width and height in character cells.
type WindowSize struct {
	Width  uint16
	Height uint16
}

// EncodeNAWS expects value to be a WindowSize.
func EncodeNAWS(value any) ([]byte, error) {
	size, ok := value.(WindowSize)
	if !ok {
		return nil, fmt.Errorf("telopts: NAWS payload must be telopts.WindowSize, got %T", value)
	}

	payload := make([]byte, 4)
	binary.BigEndian.PutUint16(payload[0:2], size.Width)
	binary.BigEndian.PutUint16(payload[2:4], size.Height)
	return payload, nil
}

// DecodeNAWS requires exactly 4 payload bytes, per RFC 1073.
func DecodeNAWS(payload []byte) (any, error) {
	if len(payload) != 4 {
		return nil, fmt.Errorf("telopts: NAWS payload must be 4 bytes, got %d", len(payload))
	}

	return WindowSize{
		Width:  binary.BigEndian.Uint16(payload[0:2]),
		Height: binary.BigEndian.Uint16(payload[2:4]),
	}, nil
}

// RegisterNAWS registers the NAWS codec pair on registry.
func RegisterNAWS(registry *telnet.PayloadCodecRegistry) {
	registry.Register(telnet.OptionNAWS, EncodeNAWS, DecodeNAWS)
}
