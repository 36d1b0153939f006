package telopts

import (
	"fmt"

	telnet "github.com/hwuhlig/gotelnet"
)

const (
	naocrdDS = 0 // sender disposition
	naocrdDR = 1 // receiver disposition request
)

// CarriageReturnDisposition is the NAOCRD (RFC 652) subnegotiation payload:
// one side telling the other how it handles the character following a
// carriage return. Sender describes this side's own output; Receiver
// requests a disposition from the peer.
type CarriageReturnDisposition struct {
	IsReceiver bool
	Value      byte
}

// EncodeNAOCRD expects value to be a CarriageReturnDisposition. The
// original implementation this package is descended from wrote the DS
// (sender-disposition) tag for both Sender and Receiver messages --
// effectively never sending a DR (receiver-disposition request) at all.
// That bug is fixed here: Sender writes DS, Receiver writes DR.
func EncodeNAOCRD(value any) ([]byte, error) {
	d, ok := value.(CarriageReturnDisposition)
	if !ok {
		return nil, fmt.Errorf("telopts: NAOCRD payload must be telopts.CarriageReturnDisposition, got %T", value)
	}

	tag := byte(naocrdDS)
	if d.IsReceiver {
		tag = naocrdDR
	}
	return []byte{tag, d.Value}, nil
}

// DecodeNAOCRD parses the two-byte DS/DR-tagged payload.
func DecodeNAOCRD(payload []byte) (any, error) {
	if len(payload) != 2 {
		return nil, fmt.Errorf("telopts: NAOCRD payload must be 2 bytes, got %d", len(payload))
	}

	return CarriageReturnDisposition{
		IsReceiver: payload[0] == naocrdDR,
		Value:      payload[1],
	}, nil
}

// RegisterNAOCRD registers the NAOCRD codec pair on registry.
func RegisterNAOCRD(registry *telnet.PayloadCodecRegistry) {
	registry.Register(telnet.OptionOutputCRDisposition, EncodeNAOCRD, DecodeNAOCRD)
}
