package telopts

import (
	"fmt"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/ianaindex"

	telnet "github.com/hwuhlig/gotelnet"
)

const (
	charsetRequest  = 1
	charsetAccepted = 2
	charsetRejected = 3
)

// CharsetMessageKind identifies which CHARSET subnegotiation variant a
// CharsetMessage carries. TTABLE-IS/TTABLE-REJECTED/TTABLE-ACK/TTABLE-NAK
// (RFC 2066's translation-table extension) are not implemented.
type CharsetMessageKind byte

const (
	CharsetRequest CharsetMessageKind = iota + 1
	CharsetAccepted
	CharsetRejected
)

// CharsetMessage is the CHARSET (RFC 2066) subnegotiation payload.
type CharsetMessage struct {
	Kind CharsetMessageKind
	// Sep is the separator byte between candidate names, for Request.
	Sep byte
	// Charsets is the ordered list of candidate charset names, for Request.
	Charsets []string
	// Accepted is the chosen charset name, for Accepted.
	Accepted string
}

// EncodeCharsetMessage expects value to be a CharsetMessage.
func EncodeCharsetMessage(value any) ([]byte, error) {
	msg, ok := value.(CharsetMessage)
	if !ok {
		return nil, fmt.Errorf("telopts: CHARSET payload must be telopts.CharsetMessage, got %T", value)
	}

	switch msg.Kind {
	case CharsetRequest:
		sep := msg.Sep
		if sep == 0 {
			sep = ';'
		}
		return append([]byte{charsetRequest, sep}, []byte(strings.Join(msg.Charsets, string(sep)))...), nil
	case CharsetAccepted:
		return append([]byte{charsetAccepted}, []byte(msg.Accepted)...), nil
	case CharsetRejected:
		return []byte{charsetRejected}, nil
	default:
		return nil, fmt.Errorf("telopts: unsupported CHARSET message kind %d", msg.Kind)
	}
}

// DecodeCharsetMessage parses the REQUEST/ACCEPTED/REJECTED subnegotiation
// formats.
func DecodeCharsetMessage(payload []byte) (any, error) {
	if len(payload) == 0 {
		return nil, fmt.Errorf("telopts: empty CHARSET payload")
	}

	switch payload[0] {
	case charsetRequest:
		if len(payload) < 2 {
			return nil, fmt.Errorf("telopts: CHARSET REQUEST missing separator byte")
		}
		sep := payload[1]
		var charsets []string
		if rest := payload[2:]; len(rest) > 0 {
			charsets = strings.Split(string(rest), string(sep))
		}
		return CharsetMessage{Kind: CharsetRequest, Sep: sep, Charsets: charsets}, nil
	case charsetAccepted:
		return CharsetMessage{Kind: CharsetAccepted, Accepted: string(payload[1:])}, nil
	case charsetRejected:
		return CharsetMessage{Kind: CharsetRejected}, nil
	default:
		return nil, fmt.Errorf("telopts: unsupported CHARSET subnegotiation code %d", payload[0])
	}
}

// RegisterCharset registers the CHARSET codec pair on registry.
func RegisterCharset(registry *telnet.PayloadCodecRegistry) {
	registry.Register(telnet.OptionCharset, EncodeCharsetMessage, DecodeCharsetMessage)
}

type namedCodec struct {
	name    string
	encoder *encoding.Encoder
	decoder *encoding.Decoder
}

// Charset tracks the default and negotiated character sets for one side of
// an NVT, per RFC 2066: a connection starts out using a default charset
// (UTF-8 since 2008, US-ASCII before) until the CHARSET telopt negotiates
// another. Usage decides whether the negotiated charset replaces the
// default outright or only while TRANSMIT-BINARY is active.
//
// Unlike the facade this type is descended from, Charset carries no
// internal locking and is not safe for concurrent use; the NVT facade
// does not hold a Charset itself.
type Charset struct {
	usage      telnet.CharsetUsage
	def        namedCodec
	negotiated namedCodec
}

// NewCharset builds a Charset whose default (and, until negotiated
// otherwise, active) charset is defaultName.
func NewCharset(defaultName string, usage telnet.CharsetUsage) (*Charset, error) {
	def, err := buildNamedCodec(defaultName)
	if err != nil {
		return nil, err
	}
	return &Charset{usage: usage, def: def, negotiated: def}, nil
}

func buildNamedCodec(name string) (namedCodec, error) {
	if strings.EqualFold(name, "utf-8") {
		// The Replacement encoding passes valid UTF-8 through untouched and
		// substitutes the replacement character for anything that isn't.
		return namedCodec{
			name:    "UTF-8",
			encoder: encoding.Replacement.NewEncoder(),
			decoder: encoding.Replacement.NewDecoder(),
		}, nil
	}

	enc, err := ianaindex.IANA.Encoding(name)
	if err != nil {
		return namedCodec{}, err
	}
	if enc == nil {
		return namedCodec{}, fmt.Errorf("telopts: unsupported charset %q", name)
	}
	canonical, err := ianaindex.IANA.Name(enc)
	if err != nil {
		return namedCodec{}, err
	}

	return namedCodec{name: canonical, encoder: enc.NewEncoder(), decoder: enc.NewDecoder()}, nil
}

// DefaultName returns the connection's default charset name.
func (c *Charset) DefaultName() string { return c.def.name }

// NegotiatedName returns the charset name CHARSET last negotiated, or the
// default name if CHARSET has not negotiated one yet.
func (c *Charset) NegotiatedName() string { return c.negotiated.name }

func (c *Charset) active(binary bool) namedCodec {
	if c.usage == telnet.CharsetUsageAlways || binary {
		return c.negotiated
	}
	return c.def
}

// EncodeText converts UTF-8 text to wire bytes in the currently active
// charset. binary should reflect whether TRANSMIT-BINARY is enabled in the
// outbound direction.
func (c *Charset) EncodeText(text string, binary bool) ([]byte, error) {
	return c.active(binary).encoder.Bytes([]byte(text))
}

// DecodeText converts wire bytes in the currently active charset to UTF-8
// text. binary should reflect whether TRANSMIT-BINARY is enabled in the
// inbound direction.
func (c *Charset) DecodeText(data []byte, binary bool) (string, error) {
	out, err := c.active(binary).decoder.Bytes(data)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// Negotiate picks the first name in candidates this side can also build a
// codec for, adopts it as the negotiated charset, and returns it. It
// reports ok=false if none of candidates could be built, in which case the
// caller should reply with a CharsetMessage{Kind: CharsetRejected}.
func (c *Charset) Negotiate(candidates []string) (chosen string, ok bool) {
	for _, name := range candidates {
		codec, err := buildNamedCodec(name)
		if err != nil {
			continue
		}
		c.negotiated = codec
		return codec.name, true
	}
	return "", false
}

// Accept applies a charset name this side's own REQUEST was accepted with.
func (c *Charset) Accept(name string) error {
	codec, err := buildNamedCodec(name)
	if err != nil {
		return err
	}
	c.negotiated = codec
	return nil
}
