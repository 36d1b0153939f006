package telopts

import (
	"reflect"
	"testing"
)

func TestMSDPFlatRoundTrip(t *testing.T) {
	want := MSDPTable{"NAME": "Bob", "HP": "100"}

	payload, err := EncodeMSDP(want)
	if err != nil {
		t.Fatalf("EncodeMSDP: %v", err)
	}

	got, err := DecodeMSDP(payload)
	if err != nil {
		t.Fatalf("DecodeMSDP: %v", err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("DecodeMSDP = %+v, want %+v", got, want)
	}
}

func TestMSDPArrayRoundTrip(t *testing.T) {
	want := MSDPTable{
		"ROOM_EXITS": []MSDPValue{"north", "south", "east"},
	}

	payload, err := EncodeMSDP(want)
	if err != nil {
		t.Fatalf("EncodeMSDP: %v", err)
	}

	got, err := DecodeMSDP(payload)
	if err != nil {
		t.Fatalf("DecodeMSDP: %v", err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("DecodeMSDP = %+v, want %+v", got, want)
	}
}

func TestMSDPNestedTableRoundTrip(t *testing.T) {
	want := MSDPTable{
		"CONFIGURABLE_VARIABLES": MSDPTable{
			"XTERM_256_COLORS": "1",
			"UTF_8":            "1",
		},
	}

	payload, err := EncodeMSDP(want)
	if err != nil {
		t.Fatalf("EncodeMSDP: %v", err)
	}

	got, err := DecodeMSDP(payload)
	if err != nil {
		t.Fatalf("DecodeMSDP: %v", err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("DecodeMSDP = %+v, want %+v", got, want)
	}
}

func TestMSDPDecodeRejectsMalformedInput(t *testing.T) {
	// A VAL with no preceding VAR.
	if _, err := DecodeMSDP([]byte{msdpVal, 'x'}); err == nil {
		t.Fatalf("DecodeMSDP accepted payload starting with VAL")
	}

	// An array missing its ARRAY_CLOSE.
	if _, err := DecodeMSDP([]byte{msdpVar, 'a', msdpVal, msdpArrayOpen, msdpVal, 'x'}); err == nil {
		t.Fatalf("DecodeMSDP accepted an unterminated array")
	}
}
