package telnet

import "fmt"

// PayloadEncoder turns an application-level value into the bytes of a
// subnegotiation payload for one option. PayloadDecoder is its inverse.
// The core treats subnegotiation payloads as opaque []byte; these function
// types are the extension point it exposes so collaborator packages (see
// the telopts package) can layer per-option payload semantics on top
// without the core needing to know about MSDP, MSSP, NAWS, or any other
// concrete option.
type PayloadEncoder func(value any) ([]byte, error)
type PayloadDecoder func(payload []byte) (any, error)

// PayloadCodecRegistry maps option codes to the PayloadEncoder/PayloadDecoder
// pair that knows how to serialize that option's subnegotiation payloads.
type PayloadCodecRegistry struct {
	encoders map[Option]PayloadEncoder
	decoders map[Option]PayloadDecoder
}

// NewPayloadCodecRegistry creates an empty registry.
func NewPayloadCodecRegistry() *PayloadCodecRegistry {
	return &PayloadCodecRegistry{
		encoders: make(map[Option]PayloadEncoder),
		decoders: make(map[Option]PayloadDecoder),
	}
}

// Register associates opt with an encoder/decoder pair. Either may be nil
// if only one direction is needed.
func (r *PayloadCodecRegistry) Register(opt Option, encode PayloadEncoder, decode PayloadDecoder) {
	if encode != nil {
		r.encoders[opt] = encode
	}
	if decode != nil {
		r.decoders[opt] = decode
	}
}

// Encode serializes value into a subnegotiation payload for opt using the
// registered encoder; it fails if no encoder was registered for opt.
func (r *PayloadCodecRegistry) Encode(opt Option, value any) ([]byte, error) {
	encode, ok := r.encoders[opt]
	if !ok {
		return nil, fmt.Errorf("telnet: no payload encoder registered for %s", opt)
	}
	return encode(value)
}

// Decode parses a raw subnegotiation payload for opt using the registered
// decoder. If no decoder is registered, the raw payload is returned
// unparsed so callers always get something usable.
func (r *PayloadCodecRegistry) Decode(opt Option, payload []byte) (any, error) {
	decode, ok := r.decoders[opt]
	if !ok {
		return payload, nil
	}
	return decode(payload)
}
