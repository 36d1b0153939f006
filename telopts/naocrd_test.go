package telopts

import "testing"

func TestNAOCRDSenderWritesDSReceiverWritesDR(t *testing.T) {
	// Regression test: the implementation this package descends from wrote
	// the DS tag for both Sender and Receiver messages. Sender must write
	// DS (0); Receiver must write DR (1).
	payload, err := EncodeNAOCRD(CarriageReturnDisposition{IsReceiver: false, Value: 7})
	if err != nil {
		t.Fatalf("EncodeNAOCRD: %v", err)
	}
	if payload[0] != naocrdDS {
		t.Fatalf("Sender tag = %d, want DS (%d)", payload[0], naocrdDS)
	}

	payload, err = EncodeNAOCRD(CarriageReturnDisposition{IsReceiver: true, Value: 7})
	if err != nil {
		t.Fatalf("EncodeNAOCRD: %v", err)
	}
	if payload[0] != naocrdDR {
		t.Fatalf("Receiver tag = %d, want DR (%d)", payload[0], naocrdDR)
	}

	if naocrdDS == naocrdDR {
		t.Fatalf("DS and DR must be distinct tags")
	}
}

func TestNAOCRDRoundTrip(t *testing.T) {
	want := CarriageReturnDisposition{IsReceiver: true, Value: 3}
	payload, err := EncodeNAOCRD(want)
	if err != nil {
		t.Fatalf("EncodeNAOCRD: %v", err)
	}

	got, err := DecodeNAOCRD(payload)
	if err != nil {
		t.Fatalf("DecodeNAOCRD: %v", err)
	}
	if got != want {
		t.Fatalf("DecodeNAOCRD = %+v, want %+v", got, want)
	}
}
