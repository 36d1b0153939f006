package telopts

import (
	"fmt"

	telnet "github.com/hwuhlig/gotelnet"
)

const (
	ttypeIs   = 0
	ttypeSend = 1
)

// TerminalType is the TERMINAL-TYPE (RFC 1091) subnegotiation payload. A
// Send message carries no name; an Is message carries the terminal type
// string being reported.
type TerminalType struct {
	Send bool
	Name string
}

// EncodeTTYPE expects value to be a TerminalType.
func EncodeTTYPE(value any) ([]byte, error) {
	tt, ok := value.(TerminalType)
	if !ok {
		return nil, fmt.Errorf("telopts: TERMINAL-TYPE payload must be telopts.TerminalType, got %T", value)
	}

	if tt.Send {
		return []byte{ttypeSend}, nil
	}
	return append([]byte{ttypeIs}, []byte(tt.Name)...), nil
}

// DecodeTTYPE parses the IS/SEND subnegotiation format.
func DecodeTTYPE(payload []byte) (any, error) {
	if len(payload) == 0 {
		return nil, fmt.Errorf("telopts: empty TERMINAL-TYPE payload")
	}

	switch payload[0] {
	case ttypeIs:
		return TerminalType{Name: string(payload[1:])}, nil
	case ttypeSend:
		return TerminalType{Send: true}, nil
	default:
		return nil, fmt.Errorf("telopts: unsupported TERMINAL-TYPE subnegotiation code %d", payload[0])
	}
}

// RegisterTTYPE registers the TERMINAL-TYPE codec pair on registry.
func RegisterTTYPE(registry *telnet.PayloadCodecRegistry) {
	registry.Register(telnet.OptionTerminalType, EncodeTTYPE, DecodeTTYPE)
}

// Cycle answers successive SEND requests the RFC 1091 way: a client
// advertises a list of terminal types and replies with the next one on the
// list each time the server asks again, wrapping back to the first once it
// reaches the last (the common convention -- RFC 1091 itself leaves the
// wraparound behavior to the client).
type Cycle struct {
	names []string
	next  int
}

// NewCycle creates a Cycle that will report names in order, starting over
// once exhausted. An empty Cycle reports "UNKNOWN" forever.
func NewCycle(names ...string) *Cycle {
	return &Cycle{names: names}
}

// Name returns the next terminal type name in the cycle.
func (c *Cycle) Name() string {
	if len(c.names) == 0 {
		return "UNKNOWN"
	}
	name := c.names[c.next%len(c.names)]
	c.next++
	return name
}
