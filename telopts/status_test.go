package telopts

import (
	"reflect"
	"testing"

	telnet "github.com/hwuhlig/gotelnet"
)

func TestStatusSendRoundTrip(t *testing.T) {
	payload, err := EncodeStatus(StatusMessage{Send: true})
	if err != nil {
		t.Fatalf("EncodeStatus: %v", err)
	}

	got, err := DecodeStatus(payload)
	if err != nil {
		t.Fatalf("DecodeStatus: %v", err)
	}
	if !reflect.DeepEqual(got, StatusMessage{Send: true}) {
		t.Fatalf("DecodeStatus = %+v, want Send=true", got)
	}
}

func TestStatusIsRoundTrip(t *testing.T) {
	want := StatusMessage{
		Entries: []StatusOption{
			{Option: telnet.OptionEcho, LocalIsWill: true, RemoteIsDo: false},
			{Option: telnet.OptionSuppressGoAhead, LocalIsWill: false, RemoteIsDo: true},
		},
	}

	payload, err := EncodeStatus(want)
	if err != nil {
		t.Fatalf("EncodeStatus: %v", err)
	}

	got, err := DecodeStatus(payload)
	if err != nil {
		t.Fatalf("DecodeStatus: %v", err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("DecodeStatus = %+v, want %+v", got, want)
	}
}

func TestStatusRejectsMismatchedOptionInQuad(t *testing.T) {
	payload := []byte{statusIs, telnet.WILL, byte(telnet.OptionEcho), telnet.DO, byte(telnet.OptionSuppressGoAhead)}
	if _, err := DecodeStatus(payload); err == nil {
		t.Fatalf("DecodeStatus accepted a quad with mismatched option codes")
	}
}
