package telnet

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"testing"
)

type fakeChannel struct {
	in  *bytes.Buffer
	out *bytes.Buffer
}

func (f *fakeChannel) Read(p []byte) (int, error)  { return f.in.Read(p) }
func (f *fakeChannel) Write(p []byte) (int, error) { return f.out.Write(p) }

func drain(t *testing.T, nvt *NVT) {
	t.Helper()
	for {
		err := nvt.Poll()
		if errors.Is(err, io.EOF) {
			return
		}
		if err != nil {
			t.Fatalf("Poll: %v", err)
		}
	}
}

func TestNewNVTSendsStartupRequests(t *testing.T) {
	ch := &fakeChannel{in: &bytes.Buffer{}, out: &bytes.Buffer{}}

	nvt, err := NewNVT(ch, NVTConfig{
		Options: []OptionConfig{
			{Option: OptionEcho, LocalPolicy: PolicyEnabled},
			{Option: OptionSuppressGoAhead, RemotePolicy: PolicyEnabled},
		},
	})
	if err != nil {
		t.Fatalf("NewNVT: %v", err)
	}
	_ = nvt

	want := append(Encode(WillFrame(OptionEcho)), Encode(DoFrame(OptionSuppressGoAhead))...)
	got := ch.out.Bytes()

	// RequestStartupOptions iterates option codes 0..255 rather than the
	// Options slice, so ECHO(1) precedes SUPPRESS-GO-AHEAD(3).
	if !bytes.Equal(got, want) {
		t.Fatalf("startup writes = %v, want %v", got, want)
	}
}

func TestNVTCompletesNegotiationHandshake(t *testing.T) {
	ch := &fakeChannel{in: &bytes.Buffer{}, out: &bytes.Buffer{}}

	var changes []OptionStateChange
	nvt, err := NewNVT(ch, NVTConfig{
		Options: []OptionConfig{{Option: OptionEcho, LocalPolicy: PolicyEnabled}},
		EventHooks: EventHooks{
			OptionState: []OptionStateHandler{
				func(_ *NVT, change OptionStateChange) { changes = append(changes, change) },
			},
		},
	})
	if err != nil {
		t.Fatalf("NewNVT: %v", err)
	}

	ch.in.Write(Encode(DoFrame(OptionEcho)))
	drain(t, nvt)

	if !nvt.Table().IsEnabledLocal(OptionEcho) {
		t.Fatalf("IsEnabledLocal(ECHO) = false after peer confirmed, want true")
	}
	if len(changes) != 1 || changes[0] != (OptionStateChange{Option: OptionEcho, Direction: DirectionLocal, Enabled: true}) {
		t.Fatalf("option state changes = %+v, want one enable for ECHO/local", changes)
	}
}

func TestNVTRefusesUnsupportedOption(t *testing.T) {
	ch := &fakeChannel{in: &bytes.Buffer{}, out: &bytes.Buffer{}}

	nvt, err := NewNVT(ch, NVTConfig{})
	if err != nil {
		t.Fatalf("NewNVT: %v", err)
	}

	ch.in.Write(Encode(WillFrame(OptionEcho)))
	drain(t, nvt)

	want := Encode(DontFrame(OptionEcho))
	if !bytes.Equal(ch.out.Bytes(), want) {
		t.Fatalf("response to unsolicited WILL = %v, want %v", ch.out.Bytes(), want)
	}
}

func TestNVTDeliversDataAndCommandOutput(t *testing.T) {
	ch := &fakeChannel{in: &bytes.Buffer{}, out: &bytes.Buffer{}}

	var outputs []TerminalOutput
	nvt, err := NewNVT(ch, NVTConfig{
		EventHooks: EventHooks{
			Output: []OutputHandler{
				func(_ *NVT, o TerminalOutput) { outputs = append(outputs, o) },
			},
		},
	})
	if err != nil {
		t.Fatalf("NewNVT: %v", err)
	}

	ch.in.Write(Encode(DataFrame('h')))
	ch.in.Write(Encode(DataFrame('i')))
	ch.in.Write(Encode(CommandFrame(KindGoAhead)))
	drain(t, nvt)

	if len(outputs) != 3 {
		t.Fatalf("len(outputs) = %d, want 3", len(outputs))
	}
	if outputs[0].Kind != OutputData || outputs[0].Frame.Byte != 'h' {
		t.Fatalf("outputs[0] = %+v, want data 'h'", outputs[0])
	}
	if outputs[2].Kind != OutputCommand || !outputs[2].PromptEnd {
		t.Fatalf("outputs[2] = %+v, want command GA with PromptEnd", outputs[2])
	}
}

func TestNVTSubnegotiationDeliveredOnlyOnceEnabled(t *testing.T) {
	ch := &fakeChannel{in: &bytes.Buffer{}, out: &bytes.Buffer{}}

	codecs := NewPayloadCodecRegistry()
	type dims struct{ w, h int }
	codecs.Register(OptionNAWS,
		func(v any) ([]byte, error) {
			d := v.(dims)
			return []byte{byte(d.w), byte(d.h)}, nil
		},
		func(p []byte) (any, error) {
			if len(p) != 2 {
				return nil, fmt.Errorf("bad NAWS payload")
			}
			return dims{w: int(p[0]), h: int(p[1])}, nil
		},
	)

	var outputs []TerminalOutput
	nvt, err := NewNVT(ch, NVTConfig{
		Codecs: codecs,
		EventHooks: EventHooks{
			Output: []OutputHandler{
				func(_ *NVT, o TerminalOutput) { outputs = append(outputs, o) },
			},
		},
	})
	if err != nil {
		t.Fatalf("NewNVT: %v", err)
	}

	// Sent before negotiation completes: must be dropped.
	ch.in.Write(Encode(SubnegotiateFrame(OptionNAWS, []byte{80, 24})))
	drain(t, nvt)
	if len(outputs) != 0 {
		t.Fatalf("outputs before negotiation = %+v, want none", outputs)
	}

	nvt.Table().SetRemotePolicy(OptionNAWS, PolicyAllowed)
	ch.in.Write(Encode(WillFrame(OptionNAWS)))
	ch.in.Write(Encode(SubnegotiateFrame(OptionNAWS, []byte{80, 24})))
	drain(t, nvt)

	if len(outputs) != 1 || outputs[0].Kind != OutputSubnegotiation {
		t.Fatalf("outputs after negotiation = %+v, want one subnegotiation", outputs)
	}
	if outputs[0].Value.(dims) != (dims{80, 24}) {
		t.Fatalf("decoded value = %+v, want {80 24}", outputs[0].Value)
	}
}

func TestNVTErrorHookFiresOnDecodeError(t *testing.T) {
	ch := &fakeChannel{in: &bytes.Buffer{}, out: &bytes.Buffer{}}

	var errs []error
	nvt, err := NewNVT(ch, NVTConfig{
		EventHooks: EventHooks{
			EncounteredError: []ErrorHandler{
				func(_ *NVT, e error) { errs = append(errs, e) },
			},
		},
	})
	if err != nil {
		t.Fatalf("NewNVT: %v", err)
	}

	ch.in.Write([]byte{IAC, 0x01, 'x'})
	drain(t, nvt)

	if len(errs) != 1 {
		t.Fatalf("len(errs) = %d, want 1", len(errs))
	}
	var decodeErr *DecodeError
	if !errors.As(errs[0], &decodeErr) {
		t.Fatalf("errs[0] = %v, want *DecodeError", errs[0])
	}
}

func TestNVTSendBytesEscapesIAC(t *testing.T) {
	ch := &fakeChannel{in: &bytes.Buffer{}, out: &bytes.Buffer{}}

	nvt, err := NewNVT(ch, NVTConfig{})
	if err != nil {
		t.Fatalf("NewNVT: %v", err)
	}
	ch.out.Reset()

	if err := nvt.SendBytes([]byte{'a', IAC, 'b'}); err != nil {
		t.Fatalf("SendBytes: %v", err)
	}

	want := []byte{'a', IAC, IAC, 'b'}
	if !bytes.Equal(ch.out.Bytes(), want) {
		t.Fatalf("SendBytes wrote %v, want %v", ch.out.Bytes(), want)
	}
}

func TestNVTEmitSubnegotiationRequiresLocalEnabled(t *testing.T) {
	ch := &fakeChannel{in: &bytes.Buffer{}, out: &bytes.Buffer{}}

	codecs := NewPayloadCodecRegistry()
	codecs.Register(OptionNAWS,
		func(v any) ([]byte, error) { return []byte("x"), nil },
		nil,
	)

	nvt, err := NewNVT(ch, NVTConfig{Codecs: codecs})
	if err != nil {
		t.Fatalf("NewNVT: %v", err)
	}

	err = nvt.SendSubnegotiation(OptionNAWS, struct{}{})
	var notEnabled *ErrOptionNotEnabled
	if !errors.As(err, &notEnabled) {
		t.Fatalf("SendSubnegotiation err = %v, want *ErrOptionNotEnabled", err)
	}
}
