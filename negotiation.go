package telnet

// Engine implements the RFC 1143 "Q method" option negotiation state
// machine described in spec §4.3, over an OptionTable. It tracks, per
// option and per direction, one of six states (No, Yes, WantYes, WantNo,
// WantYes/Opposite, WantNo/Opposite) and guarantees at most one
// outstanding negotiation per (option, direction) pair at a time -- the
// property that makes the Q method immune to the negotiation loops a
// naive DO/WILL handshake is prone to.
//
// Engine never performs I/O. Every method returns the Frames the caller
// should hand to Encode and write to the wire; the caller drives Poll/Send
// at the facade layer.
type Engine struct {
	table *OptionTable
}

// NewEngine creates an Engine bound to table. The table is not copied;
// mutations the Engine makes to option state are visible through it.
func NewEngine(table *OptionTable) *Engine {
	return &Engine{table: table}
}

// wireOf returns the opcode this side sends to propose/confirm "on" for
// dir, and the opcode for "off". For DirectionLocal (we perform the
// option), that's WILL/WONT; for DirectionRemote (the peer performs it),
// that's DO/DONT.
func wireOf(dir Direction) (onCode, offCode Kind) {
	if dir == DirectionRemote {
		return KindDo, KindDont
	}
	return KindWill, KindWont
}

func frameFor(dir Direction, opt Option, on bool) Frame {
	onKind, offKind := wireOf(dir)
	if on {
		return Frame{Kind: onKind, Option: opt}
	}
	return Frame{Kind: offKind, Option: opt}
}

// EnableLocal and EnableRemote express local intent to turn an option on
// in the given direction; DisableLocal/DisableRemote express intent to
// turn it off. They return the Frame to send, if any, and a
// *NegotiationError if the request contradicts one already in flight (the
// request is still recorded -- see spec §4.3 -- it just won't resolve
// until the in-flight negotiation completes).
func (e *Engine) EnableLocal(opt Option) ([]Frame, error) {
	return e.localIntent(DirectionLocal, opt, true)
}

func (e *Engine) DisableLocal(opt Option) ([]Frame, error) {
	return e.localIntent(DirectionLocal, opt, false)
}

func (e *Engine) EnableRemote(opt Option) ([]Frame, error) {
	return e.localIntent(DirectionRemote, opt, true)
}

func (e *Engine) DisableRemote(opt Option) ([]Frame, error) {
	return e.localIntent(DirectionRemote, opt, false)
}

// localIntent implements spec §4.3's local-intent transition table. The
// "enable" and "disable" columns are mirror images of each other (Yes<->No,
// WantYes<->WantNo), so both are expressed here rather than duplicated.
func (e *Engine) localIntent(dir Direction, opt Option, enable bool) ([]Frame, error) {
	state := e.table.stateFor(opt, dir)

	settled, wanted, wantedOpposite, contraWant, contraWantOpposite := qYes, qWantYes, qWantYesOpposite, qWantNo, qWantNoOpposite
	unsettled := qNo
	if !enable {
		settled, wanted, wantedOpposite, contraWant, contraWantOpposite = qNo, qWantNo, qWantNoOpposite, qWantYes, qWantYesOpposite
		unsettled = qYes
	}

	switch state {
	case unsettled:
		// Nothing in flight: start a fresh negotiation.
		e.table.setStateFor(opt, dir, wanted)
		return []Frame{frameFor(dir, opt, enable)}, nil
	case settled:
		// Already in the requested state.
		return nil, nil
	case wanted:
		// Already negotiating toward the requested state.
		return nil, nil
	case wantedOpposite:
		// An opposite request was queued behind an in-flight negotiation
		// toward what we now want again; cancel the queued opposite and
		// fall back to the plain in-flight state. No frame: the original
		// request is still outstanding.
		e.table.setStateFor(opt, dir, wanted)
		return nil, nil
	case contraWant:
		// A negotiation toward the opposite outcome is in flight; queue
		// this request behind it rather than sending a second frame for
		// the same option/direction while one is still outstanding.
		e.table.setStateFor(opt, dir, contraWantOpposite)
		return nil, &NegotiationError{Option: opt, Direction: dir, Reason: "contradictory request queued against in-flight negotiation"}
	default: // contraWantOpposite
		// Already queued; nothing further to do.
		return nil, nil
	}
}

// ReceiveFrame processes a decoded negotiation Frame (one of
// KindDo/KindDont/KindWill/KindWont) against the engine, returning any
// reply Frame(s) to send and an error if the peer's frame was a protocol
// violation (a positive reply while this side's disable request was
// outstanding). An unsolicited positive frame that the policy doesn't
// permit is refused with a negative reply and no error. Calling ReceiveFrame with a
// non-negotiation Frame panics; callers should check Frame.IsNegotiation
// first.
func (e *Engine) ReceiveFrame(f Frame) ([]Frame, error) {
	var dir Direction
	var positive bool

	switch f.Kind {
	case KindWill:
		dir, positive = DirectionRemote, true
	case KindWont:
		dir, positive = DirectionRemote, false
	case KindDo:
		dir, positive = DirectionLocal, true
	case KindDont:
		dir, positive = DirectionLocal, false
	default:
		panic("telnet: ReceiveFrame requires a negotiation frame")
	}

	if positive {
		return e.receivePositive(dir, f.Option)
	}
	return e.receiveNegative(dir, f.Option)
}

func (e *Engine) receivePositive(dir Direction, opt Option) ([]Frame, error) {
	state := e.table.stateFor(opt, dir)
	policy := e.table.PolicyFor(opt, dir)

	switch state {
	case qNo:
		if policy != PolicyAllowed && policy != PolicyEnabled {
			e.table.setStateFor(opt, dir, qNo)
			return []Frame{frameFor(dir, opt, false)}, nil
		}
		e.table.setStateFor(opt, dir, qYes)
		return []Frame{frameFor(dir, opt, true)}, nil
	case qYes:
		return nil, nil
	case qWantYes:
		e.table.setStateFor(opt, dir, qYes)
		return nil, nil
	case qWantYesOpposite:
		e.table.setStateFor(opt, dir, qWantNo)
		return []Frame{frameFor(dir, opt, false)}, nil
	case qWantNo:
		e.table.setStateFor(opt, dir, qNo)
		return nil, &NegotiationError{Option: opt, Direction: dir, Reason: "peer confirmed enable while a disable was outstanding"}
	case qWantNoOpposite:
		e.table.setStateFor(opt, dir, qYes)
		return nil, &NegotiationError{Option: opt, Direction: dir, Reason: "peer confirmed enable while a disable-then-enable was queued"}
	default:
		return nil, nil
	}
}

func (e *Engine) receiveNegative(dir Direction, opt Option) ([]Frame, error) {
	state := e.table.stateFor(opt, dir)

	switch state {
	case qNo:
		return nil, nil
	case qYes:
		e.table.setStateFor(opt, dir, qNo)
		return []Frame{frameFor(dir, opt, false)}, nil
	case qWantYes:
		e.table.setStateFor(opt, dir, qNo)
		return nil, nil
	case qWantYesOpposite:
		e.table.setStateFor(opt, dir, qNo)
		return nil, nil
	case qWantNo:
		e.table.setStateFor(opt, dir, qNo)
		return nil, nil
	case qWantNoOpposite:
		e.table.setStateFor(opt, dir, qYes)
		return []Frame{frameFor(dir, opt, true)}, nil
	default:
		return nil, nil
	}
}

// AdmitSubnegotiation reports whether a subnegotiation payload received
// for opt should be delivered to the application: only once the option's
// remote-direction state has reached Yes. Earlier or stray subnegotiation
// frames (e.g. sent before negotiation completed, or for an option that
// was refused) are silently dropped per spec §4.3.
func (e *Engine) AdmitSubnegotiation(opt Option) bool {
	return e.table.stateFor(opt, DirectionRemote) == qYes
}

// EmitSubnegotiation builds the Frame to send a subnegotiation payload for
// opt, failing with *ErrOptionNotEnabled if the option's local-direction
// state is not Yes -- an application cannot send a payload for an option
// it hasn't successfully enabled locally.
func (e *Engine) EmitSubnegotiation(opt Option, payload []byte) (Frame, error) {
	if e.table.stateFor(opt, DirectionLocal) != qYes {
		return Frame{}, &ErrOptionNotEnabled{Option: opt, Direction: DirectionLocal}
	}
	return SubnegotiateFrame(opt, payload), nil
}
