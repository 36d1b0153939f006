package telopts

import telnet "github.com/hwuhlig/gotelnet"

// RegisterAll registers every payload codec this package implements
// (CHARSET, NAWS, TERMINAL-TYPE, STATUS, NAOCRD, MSDP, MSSP) on registry.
// An application that only wants a subset should call the individual
// RegisterXxx functions instead.
func RegisterAll(registry *telnet.PayloadCodecRegistry) {
	RegisterCharset(registry)
	RegisterNAWS(registry)
	RegisterTTYPE(registry)
	RegisterStatus(registry)
	RegisterNAOCRD(registry)
	RegisterMSDP(registry)
	RegisterMSSP(registry)
}
