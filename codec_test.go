package telnet

import (
	"bytes"
	"errors"
	"reflect"
	"testing"
)

// frameEqual compares two Frames field-by-field. Frame embeds a []byte
// Payload, so it isn't comparable with == /!=; every test in this package
// that needs to assert on a whole Frame goes through this instead.
func frameEqual(a, b Frame) bool {
	return a.Kind == b.Kind && a.Byte == b.Byte && a.Option == b.Option && bytes.Equal(a.Payload, b.Payload)
}

func TestEncodeDataEscapesIAC(t *testing.T) {
	got := Encode(DataFrame(IAC))
	want := []byte{IAC, IAC}
	if !bytes.Equal(got, want) {
		t.Fatalf("Encode(DataFrame(IAC)) = %v, want %v", got, want)
	}

	got = Encode(DataFrame('x'))
	want = []byte{'x'}
	if !bytes.Equal(got, want) {
		t.Fatalf("Encode(DataFrame('x')) = %v, want %v", got, want)
	}
}

func TestEncodeSubnegotiationEscapesPayloadIAC(t *testing.T) {
	frame := SubnegotiateFrame(OptionNAWS, []byte{0, IAC, 80})
	got := Encode(frame)
	want := []byte{IAC, SB, byte(OptionNAWS), 0, IAC, IAC, 80, IAC, SE}
	if !bytes.Equal(got, want) {
		t.Fatalf("Encode(subnegotiation) = %v, want %v", got, want)
	}
}

func TestEncodeNegotiationFrames(t *testing.T) {
	cases := []struct {
		frame Frame
		want  []byte
	}{
		{DoFrame(OptionEcho), []byte{IAC, DO, byte(OptionEcho)}},
		{DontFrame(OptionEcho), []byte{IAC, DONT, byte(OptionEcho)}},
		{WillFrame(OptionEcho), []byte{IAC, WILL, byte(OptionEcho)}},
		{WontFrame(OptionEcho), []byte{IAC, WONT, byte(OptionEcho)}},
		{CommandFrame(KindGoAhead), []byte{IAC, GA}},
		{CommandFrame(KindEndOfRecord), []byte{IAC, EOR}},
	}

	for _, c := range cases {
		got := Encode(c.frame)
		if !bytes.Equal(got, c.want) {
			t.Errorf("Encode(%v) = %v, want %v", c.frame, got, c.want)
		}
	}
}

func TestDecodeRoundTrip(t *testing.T) {
	frames := []Frame{
		DataFrame('h'),
		DataFrame('i'),
		DataFrame(IAC),
		CommandFrame(KindGoAhead),
		CommandFrame(KindEndOfRecord),
		DoFrame(OptionEcho),
		WillFrame(OptionSuppressGoAhead),
		SubnegotiateFrame(OptionNAWS, []byte{0, 80, 0, IAC, 24}),
	}

	var wire []byte
	for _, f := range frames {
		wire = append(wire, Encode(f)...)
	}

	d := NewDecoder(0)
	d.Push(wire)

	var got []Frame
	for {
		f, ok, err := d.Decode()
		if err != nil {
			t.Fatalf("Decode returned error: %v", err)
		}
		if !ok {
			break
		}
		got = append(got, f)
	}

	if !reflect.DeepEqual(got, frames) {
		t.Fatalf("round-tripped frames = %+v, want %+v", got, frames)
	}
}

// TestDecodeResumableAcrossArbitrarySplits pushes the same wire bytes to
// the decoder split at every possible byte boundary and checks the
// decoded frames are identical regardless of where reads were split --
// the core guarantee of a streaming decoder over a transport that can
// fragment a read anywhere, including mid-IAC-escape or mid-payload.
func TestDecodeResumableAcrossArbitrarySplits(t *testing.T) {
	frames := []Frame{
		DataFrame('a'),
		WillFrame(OptionEcho),
		SubnegotiateFrame(OptionCharset, []byte{1, ';', 'U', 'T', 'F', '-', '8'}),
		DataFrame(IAC),
		CommandFrame(KindNoOperation),
	}

	var wire []byte
	for _, f := range frames {
		wire = append(wire, Encode(f)...)
	}

	for split := 0; split <= len(wire); split++ {
		d := NewDecoder(0)
		d.Push(wire[:split])

		var got []Frame
		drain := func() {
			for {
				f, ok, err := d.Decode()
				if err != nil {
					t.Fatalf("split %d: Decode returned error: %v", split, err)
				}
				if !ok {
					return
				}
				got = append(got, f)
			}
		}
		drain()
		d.Push(wire[split:])
		drain()

		if !reflect.DeepEqual(got, frames) {
			t.Fatalf("split %d: decoded %+v, want %+v", split, got, frames)
		}
	}
}

func TestDecodeUnknownCommandRecovers(t *testing.T) {
	// IAC 0x01 is not a recognized command; the decoder should report an
	// error for it and then resume decoding normal data.
	d := NewDecoder(0)
	d.Push([]byte{IAC, 0x01, 'x'})

	_, _, err := d.Decode()
	var decodeErr *DecodeError
	if !errors.As(err, &decodeErr) {
		t.Fatalf("expected *DecodeError for unknown command, got %v", err)
	}

	f, ok, err := d.Decode()
	if err != nil || !ok {
		t.Fatalf("Decode after recovery = %v, %v, %v", f, ok, err)
	}
	if !frameEqual(f, DataFrame('x')) {
		t.Fatalf("Decode after recovery = %v, want DataFrame('x')", f)
	}
}

func TestDecodeMaxSubnegotiationEnforced(t *testing.T) {
	d := NewDecoder(2)
	d.Push([]byte{IAC, SB, byte(OptionNAWS), 1, 2, 3})

	_, _, err := d.Decode()
	var decodeErr *DecodeError
	if !errors.As(err, &decodeErr) {
		t.Fatalf("expected *DecodeError for oversized subnegotiation, got %v", err)
	}
}

func TestDecodePendingReflectsBufferedBytes(t *testing.T) {
	d := NewDecoder(0)
	d.Push([]byte{'a', 'b', 'c'})
	if got := d.Pending(); got != 3 {
		t.Fatalf("Pending() = %d, want 3", got)
	}

	if _, ok, err := d.Decode(); err != nil || !ok {
		t.Fatalf("Decode() = _, %v, %v", ok, err)
	}
	if got := d.Pending(); got != 2 {
		t.Fatalf("Pending() after one Decode = %d, want 2", got)
	}
}
