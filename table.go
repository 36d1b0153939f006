package telnet

import "fmt"

// Direction distinguishes the two independent option-state tracks defined
// by RFC 1143: whether WE perform an option (local) or whether the PEER
// performs it (remote). Every option has one state machine per direction.
type Direction byte

const (
	DirectionLocal Direction = iota
	DirectionRemote
)

func (d Direction) String() string {
	if d == DirectionRemote {
		return "remote"
	}
	return "local"
}

// Policy expresses how willing this side is to negotiate a given option in
// a given direction, independent of whether it is currently active.
type Policy byte

const (
	// PolicyUnsupported means this option is not implemented; AllowLocal/
	// AllowRemote are no-ops, and any request from the peer is refused.
	PolicyUnsupported Policy = iota
	// PolicySupported means this option is implemented but will not be
	// proposed or accepted until promoted to Allowed.
	PolicySupported
	// PolicyAllowed means this option will be accepted if the peer
	// requests it, but this side will not initiate negotiation itself.
	PolicyAllowed
	// PolicyEnabled means this side should proactively request the option
	// at startup, in addition to accepting it if the peer requests it.
	PolicyEnabled
)

func (p Policy) String() string {
	switch p {
	case PolicyUnsupported:
		return "unsupported"
	case PolicySupported:
		return "supported"
	case PolicyAllowed:
		return "allowed"
	case PolicyEnabled:
		return "enabled"
	default:
		return fmt.Sprintf("policy(%d)", byte(p))
	}
}

// qstate is the six-state RFC 1143 "Q method" state for one option in one
// direction. It is unexported: callers observe it only through the
// table's IsEnabledLocal/IsEnabledRemote surface, never by poking the table's
// internal negotiation bookkeeping directly.
type qstate byte

const (
	qNo qstate = iota
	qYes
	qWantYes
	qWantNo
	qWantYesOpposite
	qWantNoOpposite
)

func (s qstate) String() string {
	switch s {
	case qNo:
		return "No"
	case qYes:
		return "Yes"
	case qWantYes:
		return "WantYes"
	case qWantNo:
		return "WantNo"
	case qWantYesOpposite:
		return "WantYes/Opposite"
	case qWantNoOpposite:
		return "WantNo/Opposite"
	default:
		return "Invalid"
	}
}

type optionEntry struct {
	localPolicy  Policy
	remotePolicy Policy
	localState   qstate
	remoteState  qstate
}

// OptionTable is the fixed 256-entry per-direction policy+state table
// described in spec §4.2. It is a plain array keyed by the option's byte
// code, not a map, so every one of the 256 possible option codes has a
// well-defined (if Unsupported) entry without an existence check.
type OptionTable struct {
	entries [256]optionEntry
}

// NewOptionTable creates a table with every option's policy at
// PolicyUnsupported in both directions.
func NewOptionTable() *OptionTable {
	return &OptionTable{}
}

func (t *OptionTable) entry(opt Option) *optionEntry {
	return &t.entries[opt]
}

// SetLocalPolicy and SetRemotePolicy seed an option's policy directly; they
// are how an embedding application marks an option Supported (or Enabled)
// before negotiation begins.
func (t *OptionTable) SetLocalPolicy(opt Option, p Policy) {
	t.entry(opt).localPolicy = p
}

func (t *OptionTable) SetRemotePolicy(opt Option, p Policy) {
	t.entry(opt).remotePolicy = p
}

// PolicyFor returns the current policy for opt in the given direction.
func (t *OptionTable) PolicyFor(opt Option, dir Direction) Policy {
	if dir == DirectionRemote {
		return t.entry(opt).remotePolicy
	}
	return t.entry(opt).localPolicy
}

// AllowLocal and AllowRemote permit negotiation from the policy side: an
// Unsupported option stays Unsupported (negotiation never begins for an
// option nobody implements), but Supported is promoted to Allowed so the
// engine will accept (though not initiate) negotiation for it.
func (t *OptionTable) AllowLocal(opt Option) {
	e := t.entry(opt)
	if e.localPolicy == PolicySupported {
		e.localPolicy = PolicyAllowed
	}
}

func (t *OptionTable) AllowRemote(opt Option) {
	e := t.entry(opt)
	if e.remotePolicy == PolicySupported {
		e.remotePolicy = PolicyAllowed
	}
}

// IsEnabledLocal and IsEnabledRemote report whether the Q-method state for
// opt is currently Yes in the given direction -- i.e. whether the option is
// actually active, as opposed to merely permitted by policy.
func (t *OptionTable) IsEnabledLocal(opt Option) bool {
	return t.entry(opt).localState == qYes
}

func (t *OptionTable) IsEnabledRemote(opt Option) bool {
	return t.entry(opt).remoteState == qYes
}

func (t *OptionTable) stateFor(opt Option, dir Direction) qstate {
	if dir == DirectionRemote {
		return t.entry(opt).remoteState
	}
	return t.entry(opt).localState
}

func (t *OptionTable) setStateFor(opt Option, dir Direction, s qstate) {
	e := t.entry(opt)
	if dir == DirectionRemote {
		e.remoteState = s
	} else {
		e.localState = s
	}
}
