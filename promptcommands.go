package telnet

// PromptCommands tracks which single-byte commands should be treated as a
// signal that the peer just finished sending a prompt, the way MUDs and
// BBSs use IAC GA (or, less often, IAC EOR once the EOR option is enabled)
// to mark where the client's cursor belongs. GA predates any telopt and is
// the default; an application that negotiates EOR typically wants to
// recognize EOR instead of (or in addition to) GA.
//
// Unlike the facade this type is descended from, PromptCommands carries no
// atomic/CAS machinery: the NVT that owns it is driven single-threaded by
// Poll, so a plain read-modify-write is sufficient.
type PromptCommands uint8

const (
	PromptCommandGA PromptCommands = 1 << iota
	PromptCommandEOR
)

func defaultPromptCommands() PromptCommands {
	return PromptCommandGA
}

func (p PromptCommands) marks(kind Kind) bool {
	switch kind {
	case KindGoAhead:
		return p&PromptCommandGA != 0
	case KindEndOfRecord:
		return p&PromptCommandEOR != 0
	default:
		return false
	}
}
