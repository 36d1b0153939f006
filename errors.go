package telnet

import "fmt"

// DecodeError reports a malformed byte sequence encountered by Decode.
// It mirrors original_source's codec::error::DecodeError, split into a
// concrete struct rather than a Rust-style enum so callers can use
// errors.As against a single type.
type DecodeError struct {
	// Command is the offending byte following IAC, or 0 if not applicable.
	Command byte
	Reason  string
}

func (e *DecodeError) Error() string {
	if e.Command != 0 {
		return fmt.Sprintf("telnet: decode error: %s (IAC %s)", e.Reason, commandName(e.Command))
	}
	return fmt.Sprintf("telnet: decode error: %s", e.Reason)
}

func newUnknownCommandError(command byte) error {
	return &DecodeError{Command: command, Reason: "unknown command"}
}

// EncodeError reports that a Frame could not be serialized. The codec's
// Encode function does not itself produce these (any well-formed Frame
// encodes successfully); it exists so that downstream sinks writing the
// encoded bytes have a matching error type to wrap, matching the pairing
// of DecodeError/EncodeError in original_source/src/codec/error.rs.
type EncodeError struct {
	Frame Frame
	Err   error
}

func (e *EncodeError) Error() string {
	return fmt.Sprintf("telnet: encode error for %s: %v", e.Frame, e.Err)
}

func (e *EncodeError) Unwrap() error { return e.Err }

// NegotiationError reports a Q-method protocol violation or a contradictory
// local request queued against the engine (spec §4.3/§7). Unlike
// DecodeError/EncodeError, a NegotiationError never aborts the connection:
// the engine always has a well-defined next state, and the error is
// reported through the facade's error hook rather than returned to the
// caller of Decode/Poll.
type NegotiationError struct {
	Option    Option
	Direction Direction
	Reason    string
}

func (e *NegotiationError) Error() string {
	return fmt.Sprintf("telnet: negotiation error for %s (%s): %s", e.Option, e.Direction, e.Reason)
}

// ErrOptionNotEnabled is returned by EmitSubnegotiation when the caller
// tries to send a subnegotiation payload for an option whose local
// direction is not in the Yes state.
type ErrOptionNotEnabled struct {
	Option    Option
	Direction Direction
}

func (e *ErrOptionNotEnabled) Error() string {
	return fmt.Sprintf("telnet: option %s is not enabled for %s", e.Option, e.Direction)
}
