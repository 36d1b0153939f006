package telnet

// Side indicates whether this engine represents a client or a server.
// Telnet itself is peer-to-peer (RFC 854 speaks of "local" and "remote",
// not client and server), but a handful of options (CHARSET chief among
// them) specify different behavior for each side.
type Side byte

const (
	SideUnknown Side = iota
	SideClient
	SideServer
)

func (s Side) String() string {
	switch s {
	case SideClient:
		return "client"
	case SideServer:
		return "server"
	default:
		return "unknown"
	}
}

// CharsetUsage indicates when a charset negotiated via the CHARSET telopt
// should be used in place of the connection's default charset. RFC 2066
// specifies the negotiated charset should only apply in BINARY mode, but
// not every peer honors that, so both behaviors are offered.
type CharsetUsage byte

const (
	CharsetUsageBinary CharsetUsage = iota
	CharsetUsageAlways
)

// OptionConfig seeds one option's starting policy in both directions. An
// option with no OptionConfig entry defaults to PolicyUnsupported in both
// directions, i.e. it is rejected outright if the peer proposes it.
type OptionConfig struct {
	Option       Option
	LocalPolicy  Policy
	RemotePolicy Policy
}

// NVTConfig carries everything an embedding application supplies when
// constructing an NVT: which side it plays, the per-option policy table to
// seed, resource limits, payload codecs for the options it understands,
// and hooks to pre-register. No file-based config loader is in scope here;
// NVTConfig is built by the embedding application, same as the teacher's
// TerminalConfig.
type NVTConfig struct {
	// Side indicates whether this engine is a client or a server.
	Side Side

	// Options seeds the OptionTable's starting policy for each option the
	// application understands. Options not listed stay PolicyUnsupported.
	Options []OptionConfig

	// MaxSubnegotiationPayload bounds how many bytes the decoder will
	// buffer for a single subnegotiation before reporting a DecodeError
	// (spec §5's resource policy). 0 means unbounded.
	MaxSubnegotiationPayload int

	// Codecs registers PayloadEncoder/PayloadDecoder pairs for the option
	// codes this application knows how to serialize subnegotiation
	// payloads for (see payloadcodec.go and the telopts package). May be
	// nil, in which case subnegotiation payloads are delivered as raw bytes.
	Codecs *PayloadCodecRegistry

	// EventHooks is a set of callbacks the NVT will call for the relevant
	// event as soon as it is constructed. Additional hooks can be added
	// after construction with NVT.Register* methods.
	EventHooks EventHooks
}
