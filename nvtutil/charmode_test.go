package nvtutil

import (
	"bytes"
	"errors"
	"io"
	"testing"

	telnet "github.com/hwuhlig/gotelnet"
)

type fakeChannel struct {
	in  *bytes.Buffer
	out *bytes.Buffer
}

func (f *fakeChannel) Read(p []byte) (int, error)  { return f.in.Read(p) }
func (f *fakeChannel) Write(p []byte) (int, error) { return f.out.Write(p) }

func drain(t *testing.T, nvt *telnet.NVT) {
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

func newTestNVT(t *testing.T) (*telnet.NVT, *fakeChannel) {
	t.Helper()
	ch := &fakeChannel{in: &bytes.Buffer{}, out: &bytes.Buffer{}}
	nvt, err := telnet.NewNVT(ch, telnet.NVTConfig{
		Options: []telnet.OptionConfig{
			{Option: telnet.OptionEcho, RemotePolicy: telnet.PolicyAllowed},
			{Option: telnet.OptionSuppressGoAhead, RemotePolicy: telnet.PolicyAllowed},
		},
	})
	if err != nil {
		t.Fatalf("NewNVT: %v", err)
	}
	return nvt, ch
}

func TestCharacterModeFalseBeforeNegotiation(t *testing.T) {
	nvt, _ := newTestNVT(t)
	tracker := NewCharacterModeTracker(nvt)

	if tracker.IsCharacterMode() {
		t.Fatalf("IsCharacterMode() = true before any negotiation, want false")
	}
}

func TestCharacterModeRequiresBothOptions(t *testing.T) {
	nvt, ch := newTestNVT(t)
	tracker := NewCharacterModeTracker(nvt)

	ch.in.Write(telnet.Encode(telnet.WillFrame(telnet.OptionEcho)))
	drain(t, nvt)

	if tracker.IsCharacterMode() {
		t.Fatalf("IsCharacterMode() = true with only ECHO active, want false")
	}

	ch.in.Write(telnet.Encode(telnet.WillFrame(telnet.OptionSuppressGoAhead)))
	drain(t, nvt)

	if !tracker.IsCharacterMode() {
		t.Fatalf("IsCharacterMode() = false with both ECHO and SUPPRESS-GO-AHEAD active, want true")
	}
}

func TestCharacterModeFalseAfterEitherOptionDrops(t *testing.T) {
	nvt, ch := newTestNVT(t)
	tracker := NewCharacterModeTracker(nvt)

	ch.in.Write(telnet.Encode(telnet.WillFrame(telnet.OptionEcho)))
	ch.in.Write(telnet.Encode(telnet.WillFrame(telnet.OptionSuppressGoAhead)))
	drain(t, nvt)
	if !tracker.IsCharacterMode() {
		t.Fatalf("IsCharacterMode() = false after both WILLs, want true")
	}

	ch.in.Write(telnet.Encode(telnet.WontFrame(telnet.OptionEcho)))
	drain(t, nvt)

	if tracker.IsCharacterMode() {
		t.Fatalf("IsCharacterMode() = true after ECHO dropped, want false")
	}
}
