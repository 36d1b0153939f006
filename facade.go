package telnet

import (
	"context"
	"errors"
	"io"
)

// ByteChannel is the abstract duplex byte channel the NVT facade operates
// over (spec §1). Anything satisfying io.Reader and io.Writer works: a
// net.Conn, a tls.Conn, an in-memory pipe for tests.
type ByteChannel interface {
	io.Reader
	io.Writer
}

// OutputKind identifies which variant of TerminalOutput is populated.
type OutputKind byte

const (
	OutputData OutputKind = iota
	OutputCommand
	OutputSubnegotiation
)

// TerminalOutput is what the NVT hands to its output hook for each decoded
// Frame that reaches the application layer. Negotiation frames never
// appear here -- they're fully consumed by the negotiation engine, and an
// OptionStateChange is fired instead when they turn an option on or off.
type TerminalOutput struct {
	Kind OutputKind
	// Frame is the underlying decoded frame: Byte is meaningful for
	// OutputData, Kind/Option/Payload for OutputCommand/OutputSubnegotiation.
	Frame Frame
	// Value holds the PayloadCodecRegistry-decoded value for
	// OutputSubnegotiation, or the raw payload if no codec was registered.
	Value any
	// PromptEnd is set on an OutputCommand whose Frame.Kind is configured
	// (via PromptCommands) to mark the end of a prompt line.
	PromptEnd bool
}

// NVT is the thin facade composing the Decoder, OptionTable, and Engine
// into the single cooperative surface spec §5 describes: a caller drives
// it by calling Poll when the channel is readable, and by calling the
// Send*/Request* methods to produce outbound traffic. The facade performs
// no concurrency of its own -- the only points at which a call may block
// are the underlying ByteChannel's Read and Write.
type NVT struct {
	channel ByteChannel
	decoder *Decoder
	table   *OptionTable
	engine  *Engine
	codecs  *PayloadCodecRegistry
	side    Side

	promptCommands PromptCommands

	readBuf []byte

	outputHooks      *EventPublisher[TerminalOutput]
	outboundHooks    *EventPublisher[Frame]
	errorHooks       *EventPublisher[error]
	optionStateHooks *EventPublisher[OptionStateChange]
}

// NewNVT builds an NVT over channel per config, seeds the option table,
// and immediately requests every option configured at PolicyEnabled --
// mirroring the teacher's NewTerminalFromPipes kicking off telopt
// negotiation by writing requests for the telopts it was configured with.
func NewNVT(channel ByteChannel, config NVTConfig) (*NVT, error) {
	table := NewOptionTable()
	for _, oc := range config.Options {
		table.SetLocalPolicy(oc.Option, oc.LocalPolicy)
		table.SetRemotePolicy(oc.Option, oc.RemotePolicy)
	}

	codecs := config.Codecs
	if codecs == nil {
		codecs = NewPayloadCodecRegistry()
	}

	nvt := &NVT{
		channel: channel,
		decoder: NewDecoder(config.MaxSubnegotiationPayload),
		table:   table,
		engine:  NewEngine(table),
		codecs:  codecs,
		side:    config.Side,

		promptCommands: defaultPromptCommands(),

		readBuf: make([]byte, 4096),

		outputHooks:      NewPublisher(config.EventHooks.Output),
		outboundHooks:    NewPublisher(config.EventHooks.Outbound),
		errorHooks:       NewPublisher(config.EventHooks.EncounteredError),
		optionStateHooks: NewPublisher(config.EventHooks.OptionState),
	}

	if err := nvt.RequestStartupOptions(); err != nil {
		return nil, err
	}

	return nvt, nil
}

// Table returns the NVT's OptionTable, for inspecting negotiated state.
func (n *NVT) Table() *OptionTable { return n.table }

// Side returns whether this NVT is playing the client or server role.
func (n *NVT) Side() Side { return n.side }

// RequestStartupOptions sends an initial negotiation request for every
// option configured at PolicyEnabled, in both directions. NewNVT calls
// this once automatically; it is exported so an application can re-seed
// additional options and request them after construction.
func (n *NVT) RequestStartupOptions() error {
	for code := 0; code < 256; code++ {
		opt := Option(code)
		if n.table.PolicyFor(opt, DirectionLocal) == PolicyEnabled {
			if err := n.RequestEnableLocal(opt); err != nil {
				return err
			}
		}
		if n.table.PolicyFor(opt, DirectionRemote) == PolicyEnabled {
			if err := n.RequestEnableRemote(opt); err != nil {
				return err
			}
		}
	}
	return nil
}

// RequestEnableLocal, RequestDisableLocal, RequestEnableRemote, and
// RequestDisableRemote drive the negotiation engine's local-intent
// operations, writing whatever Frame results. A contradictory request
// against an in-flight negotiation is reported through the error hook,
// not returned, since it does not abort processing.
func (n *NVT) RequestEnableLocal(opt Option) error {
	return n.intent(n.engine.EnableLocal(opt))
}

func (n *NVT) RequestDisableLocal(opt Option) error {
	return n.intent(n.engine.DisableLocal(opt))
}

func (n *NVT) RequestEnableRemote(opt Option) error {
	return n.intent(n.engine.EnableRemote(opt))
}

func (n *NVT) RequestDisableRemote(opt Option) error {
	return n.intent(n.engine.DisableRemote(opt))
}

func (n *NVT) intent(frames []Frame, err error) error {
	for _, f := range frames {
		if writeErr := n.writeFrame(f); writeErr != nil {
			return writeErr
		}
	}

	if err != nil {
		var negErr *NegotiationError
		if errors.As(err, &negErr) {
			n.errorHooks.Fire(n, err)
			return nil
		}
		return err
	}

	return nil
}

// SendBytes writes application data to the wire, escaping any IAC byte as
// IAC IAC. It bypasses Frame/Encode for bulk data since per-byte framing
// would be wasteful for anything beyond a handful of bytes; semantically
// it is equivalent to encoding one DataFrame per byte and concatenating.
func (n *NVT) SendBytes(data []byte) error {
	out := make([]byte, 0, len(data))
	for _, b := range data {
		if b == IAC {
			out = append(out, IAC, IAC)
		} else {
			out = append(out, b)
		}
	}

	if _, err := n.channel.Write(out); err != nil {
		return &EncodeError{Frame: DataFrame(0), Err: err}
	}
	return nil
}

// SendCommand writes one of the argument-free single-byte commands.
func (n *NVT) SendCommand(kind Kind) error {
	return n.writeFrame(CommandFrame(kind))
}

// SendSubnegotiation encodes value via the registered PayloadEncoder for
// opt and writes it as a subnegotiation, failing with *ErrOptionNotEnabled
// if opt's local-direction state is not Yes (spec §4.3's delivery rule for
// outbound subnegotiations).
func (n *NVT) SendSubnegotiation(opt Option, value any) error {
	payload, err := n.codecs.Encode(opt, value)
	if err != nil {
		return err
	}

	frame, err := n.engine.EmitSubnegotiation(opt, payload)
	if err != nil {
		return err
	}

	return n.writeFrame(frame)
}

func (n *NVT) writeFrame(f Frame) error {
	data := Encode(f)
	if _, err := n.channel.Write(data); err != nil {
		return &EncodeError{Frame: f, Err: err}
	}
	n.outboundHooks.Fire(n, f)
	return nil
}

// Poll performs a single cooperative step: it issues one Read against the
// underlying channel, decodes every complete Frame that Read produced, and
// dispatches each to the appropriate hook. Poll is the only method besides
// Send*/Request* that may block, and only on the channel's Read. The
// caller is expected to drive an event loop that calls Poll whenever the
// channel is known (or believed) to be readable.
func (n *NVT) Poll() error {
	count, readErr := n.channel.Read(n.readBuf)
	if count > 0 {
		n.decoder.Push(n.readBuf[:count])
		if err := n.drainDecoder(); err != nil {
			return err
		}
	}
	return readErr
}

// Run repeatedly calls Poll until it returns an error or ctx is done. It is
// a convenience for simple consumers (see cmd/nvtclient); it introduces no
// additional concurrency; Poll is still called synchronously in a loop.
func (n *NVT) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := n.Poll(); err != nil {
			return err
		}
	}
}

func (n *NVT) drainDecoder() error {
	for {
		frame, ok, err := n.decoder.Decode()
		if err != nil {
			n.errorHooks.Fire(n, err)
			continue
		}
		if !ok {
			return nil
		}
		if err := n.dispatch(frame); err != nil {
			return err
		}
	}
}

func (n *NVT) dispatch(f Frame) error {
	switch {
	case f.Kind == KindData:
		n.outputHooks.Fire(n, TerminalOutput{Kind: OutputData, Frame: f})
		return nil
	case f.IsNegotiation():
		return n.dispatchNegotiation(f)
	case f.Kind == KindSubnegotiate:
		return n.dispatchSubnegotiation(f)
	default:
		n.outputHooks.Fire(n, TerminalOutput{Kind: OutputCommand, Frame: f, PromptEnd: n.promptCommands.marks(f.Kind)})
		return nil
	}
}

// SetPromptCommand and ClearPromptCommand adjust which commands
// TerminalOutput.PromptEnd reports for, e.g. switching from GA to EOR once
// the EOR option negotiates enabled.
func (n *NVT) SetPromptCommand(flag PromptCommands)   { n.promptCommands |= flag }
func (n *NVT) ClearPromptCommand(flag PromptCommands) { n.promptCommands &^= flag }

func (n *NVT) dispatchNegotiation(f Frame) error {
	dir := DirectionLocal
	if f.Kind == KindWill || f.Kind == KindWont {
		dir = DirectionRemote
	}

	before := n.table.stateFor(f.Option, dir)

	frames, recvErr := n.engine.ReceiveFrame(f)
	for _, out := range frames {
		if err := n.writeFrame(out); err != nil {
			return err
		}
	}

	after := n.table.stateFor(f.Option, dir)
	if wasEnabled, isEnabled := before == qYes, after == qYes; wasEnabled != isEnabled {
		n.optionStateHooks.Fire(n, OptionStateChange{Option: f.Option, Direction: dir, Enabled: isEnabled})
	}

	if recvErr != nil {
		var negErr *NegotiationError
		if errors.As(recvErr, &negErr) {
			n.errorHooks.Fire(n, recvErr)
			return nil
		}
		return recvErr
	}

	return nil
}

func (n *NVT) dispatchSubnegotiation(f Frame) error {
	if !n.engine.AdmitSubnegotiation(f.Option) {
		return nil
	}

	value, err := n.codecs.Decode(f.Option, f.Payload)
	if err != nil {
		n.errorHooks.Fire(n, err)
		return nil
	}

	n.outputHooks.Fire(n, TerminalOutput{Kind: OutputSubnegotiation, Frame: f, Value: value})
	return nil
}

// RegisterOutputHook registers a callback for every TerminalOutput the
// facade produces as it processes incoming bytes.
func (n *NVT) RegisterOutputHook(h OutputHandler) {
	n.outputHooks.Register(EventHook[TerminalOutput](h))
}

// RegisterOutboundHook registers a callback for every Frame written to the
// wire, whether application- or engine-originated.
func (n *NVT) RegisterOutboundHook(h OutboundHandler) {
	n.outboundHooks.Register(EventHook[Frame](h))
}

// RegisterErrorHook registers a callback for decode errors and negotiation
// violations that do not abort processing.
func (n *NVT) RegisterErrorHook(h ErrorHandler) {
	n.errorHooks.Register(EventHook[error](h))
}

// RegisterOptionStateHook registers a callback fired whenever an option's
// state enters or leaves Yes in either direction.
func (n *NVT) RegisterOptionStateHook(h OptionStateHandler) {
	n.optionStateHooks.Register(EventHook[OptionStateChange](h))
}
