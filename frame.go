package telnet

import "fmt"

// Kind identifies which variant of Frame is populated. A Frame is an
// immutable, fully-decoded unit of the Telnet stream: either a single byte
// of application data, one of the single-byte commands, a negotiation
// command (DO/DONT/WILL/WONT), or a subnegotiation payload.
type Kind byte

const (
	KindData Kind = iota
	KindNoOperation
	KindDataMark
	KindBreak
	KindInterruptProcess
	KindAbortOutput
	KindAreYouThere
	KindEraseCharacter
	KindEraseLine
	KindGoAhead
	KindEndOfRecord
	KindDo
	KindDont
	KindWill
	KindWont
	KindSubnegotiate
)

var kindNames = map[Kind]string{
	KindData:             "Data",
	KindNoOperation:      "NoOperation",
	KindDataMark:         "DataMark",
	KindBreak:            "Break",
	KindInterruptProcess: "InterruptProcess",
	KindAbortOutput:      "AbortOutput",
	KindAreYouThere:      "AreYouThere",
	KindEraseCharacter:   "EraseCharacter",
	KindEraseLine:        "EraseLine",
	KindGoAhead:          "GoAhead",
	KindEndOfRecord:      "EndOfRecord",
	KindDo:               "Do",
	KindDont:             "Dont",
	KindWill:             "Will",
	KindWont:             "Wont",
	KindSubnegotiate:     "Subnegotiate",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "Invalid"
}

// Frame is a single immutable unit produced by Decode or consumed by Encode.
// Only the fields relevant to Kind are meaningful: Byte for KindData,
// Option for the four negotiation kinds, and both Option and Payload for
// KindSubnegotiate.
type Frame struct {
	Kind    Kind
	Byte    byte
	Option  Option
	Payload []byte
}

// DataFrame wraps a single byte of application data.
func DataFrame(b byte) Frame {
	return Frame{Kind: KindData, Byte: b}
}

// CommandFrame builds one of the argument-free single-byte commands
// (NOP, DM, BRK, IP, AO, AYT, EC, EL, GA, EOR). Passing any other kind panics,
// since those require an Option or Payload.
func CommandFrame(kind Kind) Frame {
	switch kind {
	case KindNoOperation, KindDataMark, KindBreak, KindInterruptProcess,
		KindAbortOutput, KindAreYouThere, KindEraseCharacter, KindEraseLine, KindGoAhead, KindEndOfRecord:
		return Frame{Kind: kind}
	default:
		panic(fmt.Sprintf("telnet: %s is not an argument-free command", kind))
	}
}

// DoFrame, DontFrame, WillFrame, and WontFrame build the four negotiation
// frames directed at a single option.
func DoFrame(opt Option) Frame   { return Frame{Kind: KindDo, Option: opt} }
func DontFrame(opt Option) Frame { return Frame{Kind: KindDont, Option: opt} }
func WillFrame(opt Option) Frame { return Frame{Kind: KindWill, Option: opt} }
func WontFrame(opt Option) Frame { return Frame{Kind: KindWont, Option: opt} }

// SubnegotiateFrame wraps a subnegotiation payload for the given option.
// payload is retained, not copied; callers should not mutate it afterward.
func SubnegotiateFrame(opt Option, payload []byte) Frame {
	return Frame{Kind: KindSubnegotiate, Option: opt, Payload: payload}
}

// IsNegotiation reports whether the frame is one of the four
// DO/DONT/WILL/WONT negotiation commands.
func (f Frame) IsNegotiation() bool {
	switch f.Kind {
	case KindDo, KindDont, KindWill, KindWont:
		return true
	default:
		return false
	}
}

// String renders the frame the way a debug log would show it on the wire,
// e.g. "IAC WILL ECHO" or "IAC SB NAWS [...] IAC SE".
func (f Frame) String() string {
	switch f.Kind {
	case KindData:
		return fmt.Sprintf("DATA 0x%02X", f.Byte)
	case KindNoOperation:
		return "IAC NOP"
	case KindDataMark:
		return "IAC DM"
	case KindBreak:
		return "IAC BRK"
	case KindInterruptProcess:
		return "IAC IP"
	case KindAbortOutput:
		return "IAC AO"
	case KindAreYouThere:
		return "IAC AYT"
	case KindEraseCharacter:
		return "IAC EC"
	case KindEraseLine:
		return "IAC EL"
	case KindGoAhead:
		return "IAC GA"
	case KindEndOfRecord:
		return "IAC EOR"
	case KindDo:
		return fmt.Sprintf("IAC DO %s", f.Option)
	case KindDont:
		return fmt.Sprintf("IAC DONT %s", f.Option)
	case KindWill:
		return fmt.Sprintf("IAC WILL %s", f.Option)
	case KindWont:
		return fmt.Sprintf("IAC WONT %s", f.Option)
	case KindSubnegotiate:
		return fmt.Sprintf("IAC SB %s %+v IAC SE", f.Option, f.Payload)
	default:
		return "INVALID FRAME"
	}
}
