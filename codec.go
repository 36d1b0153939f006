package telnet

type decoderState byte

const (
	decodeNormalData decoderState = iota
	decodeInterpretAsCommand
	decodeNegotiateDo
	decodeNegotiateDont
	decodeNegotiateWill
	decodeNegotiateWont
	decodeSubnegotiate
	decodeSubnegotiateArgument
	decodeSubnegotiateArgumentIAC
)

// Decoder is a pure, streaming state machine that turns a byte stream into
// a sequence of Frames. It holds no I/O of its own: bytes arrive via Push
// and complete frames are pulled one at a time via Decode. Decode never
// blocks and works correctly no matter how the underlying transport splits
// reads across calls to Push, including splitting in the middle of an IAC
// escape sequence or a subnegotiation payload.
type Decoder struct {
	pending byteQueue
	state   decoderState

	subOption  Option
	subPayload []byte

	maxSubnegotiation int
}

// NewDecoder creates a Decoder. maxSubnegotiation bounds the number of
// payload bytes buffered for a single subnegotiation before Decode reports
// a DecodeError, per spec §5's resource policy; 0 means unbounded.
func NewDecoder(maxSubnegotiation int) *Decoder {
	return &Decoder{
		pending:           *newByteQueue(64),
		state:             decodeNormalData,
		maxSubnegotiation: maxSubnegotiation,
	}
}

// Push appends newly-arrived bytes to the decoder's internal buffer.
func (d *Decoder) Push(data []byte) {
	d.pending.Push(data...)
}

// Pending reports how many undecoded bytes are currently buffered.
func (d *Decoder) Pending() int {
	return d.pending.Len()
}

// Decode consumes as many buffered bytes as needed to produce the next
// complete Frame. It returns ok=false, with a nil error, when the buffer is
// exhausted before a full frame could be assembled; the caller should Push
// more data and call Decode again. A non-nil error indicates a malformed
// command byte (an IAC followed by something that is neither a known
// command nor SE inside a subnegotiation) or a subnegotiation payload that
// exceeds the configured maximum; the decoder recovers to
// decodeNormalData and can continue decoding whatever follows.
func (d *Decoder) Decode() (Frame, bool, error) {
	for d.pending.Len() > 0 {
		b := d.pending.Pop()

		switch d.state {
		case decodeNormalData:
			if b == IAC {
				d.state = decodeInterpretAsCommand
				continue
			}
			return DataFrame(b), true, nil

		case decodeInterpretAsCommand:
			switch b {
			case NOP:
				d.state = decodeNormalData
				return CommandFrame(KindNoOperation), true, nil
			case DM:
				d.state = decodeNormalData
				return CommandFrame(KindDataMark), true, nil
			case BRK:
				d.state = decodeNormalData
				return CommandFrame(KindBreak), true, nil
			case IP:
				d.state = decodeNormalData
				return CommandFrame(KindInterruptProcess), true, nil
			case AO:
				d.state = decodeNormalData
				return CommandFrame(KindAbortOutput), true, nil
			case AYT:
				d.state = decodeNormalData
				return CommandFrame(KindAreYouThere), true, nil
			case EC:
				d.state = decodeNormalData
				return CommandFrame(KindEraseCharacter), true, nil
			case EL:
				d.state = decodeNormalData
				return CommandFrame(KindEraseLine), true, nil
			case GA:
				d.state = decodeNormalData
				return CommandFrame(KindGoAhead), true, nil
			case EOR:
				d.state = decodeNormalData
				return CommandFrame(KindEndOfRecord), true, nil
			case IAC:
				d.state = decodeNormalData
				return DataFrame(IAC), true, nil
			case DO:
				d.state = decodeNegotiateDo
			case DONT:
				d.state = decodeNegotiateDont
			case WILL:
				d.state = decodeNegotiateWill
			case WONT:
				d.state = decodeNegotiateWont
			case SB:
				d.state = decodeSubnegotiate
			default:
				d.state = decodeNormalData
				return Frame{}, false, newUnknownCommandError(b)
			}

		case decodeNegotiateDo:
			d.state = decodeNormalData
			return DoFrame(Option(b)), true, nil
		case decodeNegotiateDont:
			d.state = decodeNormalData
			return DontFrame(Option(b)), true, nil
		case decodeNegotiateWill:
			d.state = decodeNormalData
			return WillFrame(Option(b)), true, nil
		case decodeNegotiateWont:
			d.state = decodeNormalData
			return WontFrame(Option(b)), true, nil

		case decodeSubnegotiate:
			d.subOption = Option(b)
			d.subPayload = d.subPayload[:0]
			d.state = decodeSubnegotiateArgument

		case decodeSubnegotiateArgument:
			if b == IAC {
				d.state = decodeSubnegotiateArgumentIAC
				continue
			}
			if err := d.appendSubPayload(b); err != nil {
				d.state = decodeNormalData
				return Frame{}, false, err
			}

		case decodeSubnegotiateArgumentIAC:
			switch b {
			case IAC:
				d.state = decodeSubnegotiateArgument
				if err := d.appendSubPayload(IAC); err != nil {
					d.state = decodeNormalData
					return Frame{}, false, err
				}
			case SE:
				d.state = decodeNormalData
				payload := make([]byte, len(d.subPayload))
				copy(payload, d.subPayload)
				return SubnegotiateFrame(d.subOption, payload), true, nil
			default:
				d.state = decodeNormalData
				return Frame{}, false, newUnknownCommandError(b)
			}
		}
	}

	return Frame{}, false, nil
}

func (d *Decoder) appendSubPayload(b byte) error {
	if d.maxSubnegotiation > 0 && len(d.subPayload) >= d.maxSubnegotiation {
		return &DecodeError{Reason: "subnegotiation payload exceeds configured maximum"}
	}
	d.subPayload = append(d.subPayload, b)
	return nil
}

// Encode serializes a Frame to wire bytes, escaping IAC as IAC IAC wherever
// it occurs in application data or a subnegotiation payload. Encode never
// fails: every value a Frame constructor can produce has a well-formed wire
// representation.
func Encode(f Frame) []byte {
	switch f.Kind {
	case KindData:
		if f.Byte == IAC {
			return []byte{IAC, IAC}
		}
		return []byte{f.Byte}
	case KindNoOperation:
		return []byte{IAC, NOP}
	case KindDataMark:
		return []byte{IAC, DM}
	case KindBreak:
		return []byte{IAC, BRK}
	case KindInterruptProcess:
		return []byte{IAC, IP}
	case KindAbortOutput:
		return []byte{IAC, AO}
	case KindAreYouThere:
		return []byte{IAC, AYT}
	case KindEraseCharacter:
		return []byte{IAC, EC}
	case KindEraseLine:
		return []byte{IAC, EL}
	case KindGoAhead:
		return []byte{IAC, GA}
	case KindEndOfRecord:
		return []byte{IAC, EOR}
	case KindDo:
		return []byte{IAC, DO, byte(f.Option)}
	case KindDont:
		return []byte{IAC, DONT, byte(f.Option)}
	case KindWill:
		return []byte{IAC, WILL, byte(f.Option)}
	case KindWont:
		return []byte{IAC, WONT, byte(f.Option)}
	case KindSubnegotiate:
		out := make([]byte, 0, 5+len(f.Payload)*2)
		out = append(out, IAC, SB, byte(f.Option))
		for _, b := range f.Payload {
			if b == IAC {
				out = append(out, IAC)
			}
			out = append(out, b)
		}
		out = append(out, IAC, SE)
		return out
	default:
		return nil
	}
}
