// Command nvtclient is a minimal interactive telnet client built on the
// NVT facade, in the same spirit as the teacher's bbsclient example: dial
// a host, put the local terminal in raw mode, and pump bytes in both
// directions until the connection closes or the process receives SIGINT,
// SIGTERM, or SIGHUP. In raw mode a typed Ctrl-C is forwarded to the remote
// end as an ordinary byte rather than raising SIGINT.
//
// Unlike the teacher's client, there is no local line-editing buffer or
// keyboard-scanning goroutine: the NVT facade is a thin cooperative
// protocol engine, not a terminal UI, so raw keystrokes are forwarded to
// the wire as-is and it's up to the remote end (or a future layer built on
// top of NVT) to do any editing.
package main

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"sync"
	"sync/atomic"
	"syscall"

	"github.com/charmbracelet/lipgloss/v2"
	"github.com/charmbracelet/x/term"

	telnet "github.com/hwuhlig/gotelnet"
	"github.com/hwuhlig/gotelnet/debuglog"
	"github.com/hwuhlig/gotelnet/nvtutil"
	"github.com/hwuhlig/gotelnet/telopts"
)

var statusStyle = lipgloss.NewStyle().
	Foreground(lipgloss.Color("15")).
	Background(lipgloss.Color("4")).
	Padding(0, 1)

func main() {
	if len(os.Args) != 2 {
		log.Fatalln("syntax: nvtclient <host>:<port>")
	}

	addr, err := net.ResolveTCPAddr("tcp", os.Args[1])
	if err != nil {
		log.Fatalln(err)
	}

	conn, err := net.DialTCP("tcp", nil, addr)
	if err != nil {
		log.Fatalln(err)
	}
	defer conn.Close()

	stdin := os.Stdin
	lipgloss.EnableLegacyWindowsANSI(os.Stdout)
	lipgloss.EnableLegacyWindowsANSI(stdin)

	state, err := term.MakeRaw(stdin.Fd())
	if err != nil {
		log.Fatalln(err)
	}
	defer func() {
		_ = term.Restore(stdin.Fd(), state)
	}()

	codecs := telnet.NewPayloadCodecRegistry()
	telopts.RegisterAll(codecs)

	charset, err := newCharsetSession("UTF-8", telnet.CharsetUsageAlways)
	if err != nil {
		log.Fatalln(err)
	}
	inbound := &lineBuffer{}

	nvt, err := telnet.NewNVT(conn, telnet.NVTConfig{
		Side: telnet.SideClient,
		Options: []telnet.OptionConfig{
			{Option: telnet.OptionBinaryTransmission, LocalPolicy: telnet.PolicyEnabled, RemotePolicy: telnet.PolicyEnabled},
			{Option: telnet.OptionEcho, RemotePolicy: telnet.PolicyAllowed},
			{Option: telnet.OptionSuppressGoAhead, LocalPolicy: telnet.PolicyEnabled, RemotePolicy: telnet.PolicyEnabled},
			{Option: telnet.OptionTerminalType, LocalPolicy: telnet.PolicyEnabled},
			{Option: telnet.OptionNAWS, LocalPolicy: telnet.PolicyEnabled},
			{Option: telnet.OptionCharset, LocalPolicy: telnet.PolicyEnabled, RemotePolicy: telnet.PolicyAllowed},
			{Option: telnet.OptionEndOfRecord, LocalPolicy: telnet.PolicyAllowed, RemotePolicy: telnet.PolicyAllowed},
			{Option: telnet.OptionMSDP, RemotePolicy: telnet.PolicyAllowed},
			{Option: telnet.OptionMSSP, RemotePolicy: telnet.PolicyAllowed},
		},
		Codecs: codecs,
		EventHooks: telnet.EventHooks{
			Output: []telnet.OutputHandler{
				func(nvt *telnet.NVT, output telnet.TerminalOutput) {
					switch output.Kind {
					case telnet.OutputData:
						inbound.feed(output.Frame.Byte)
					case telnet.OutputCommand, telnet.OutputSubnegotiation:
						inbound.flush(charset)
					}
				},
			},
		},
	})
	if err != nil {
		log.Fatalln(err)
	}

	charMode := nvtutil.NewCharacterModeTracker(nvt)
	var characterMode atomic.Bool

	ttypeCycle := telopts.NewCycle("NVTCLIENT", "ANSI")
	nvt.RegisterOutputHook(func(nvt *telnet.NVT, output telnet.TerminalOutput) {
		if output.Kind != telnet.OutputSubnegotiation {
			return
		}
		switch output.Frame.Option {
		case telnet.OptionTerminalType:
			req, ok := output.Value.(telopts.TerminalType)
			if !ok || !req.Send {
				return
			}
			_ = nvt.SendSubnegotiation(telnet.OptionTerminalType, telopts.TerminalType{Name: ttypeCycle.Name()})
		case telnet.OptionCharset:
			handleCharsetSubnegotiation(nvt, charset, output.Value)
		}
	})
	nvt.RegisterOptionStateHook(func(nvt *telnet.NVT, change telnet.OptionStateChange) {
		switch {
		case change.Option == telnet.OptionNAWS && change.Direction == telnet.DirectionLocal && change.Enabled:
			w, h := termSize(stdin)
			_ = nvt.SendSubnegotiation(telnet.OptionNAWS, telopts.WindowSize{Width: w, Height: h})
		case change.Option == telnet.OptionCharset && change.Direction == telnet.DirectionLocal && change.Enabled:
			_ = nvt.SendSubnegotiation(telnet.OptionCharset, telopts.CharsetMessage{
				Kind:     telopts.CharsetRequest,
				Charsets: []string{"UTF-8", "ISO-8859-1", "US-ASCII"},
			})
		case change.Option == telnet.OptionEcho || change.Option == telnet.OptionSuppressGoAhead:
			// Recomputed here, on the same goroutine that owns the
			// OptionTable, and published for pumpKeyboard to read lock-free.
			characterMode.Store(charMode.IsCharacterMode())
		}
	})

	logHandler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo})
	debuglog.New(nvt, slog.New(logHandler), debuglog.Config{
		EncounteredErrorLevel:  slog.LevelError,
		IncomingDataLevel:      debuglog.LevelNone,
		IncomingCommandLevel:   slog.LevelDebug,
		IncomingSubnegotiation: slog.LevelDebug,
		OutboundFrameLevel:     debuglog.LevelNone,
		OptionStateLevel:       slog.LevelInfo,
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigs := make(chan os.Signal, 1)
		signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
		<-sigs
		cancel()
	}()

	go pumpKeyboard(ctx, nvt, stdin, charset, &characterMode, cancel)

	runErr := nvt.Run(ctx)
	inbound.flush(charset)
	if runErr != nil && ctx.Err() == nil {
		fmt.Fprintln(os.Stderr, statusStyle.Render("connection closed:"), runErr)
	}
}

// handleCharsetSubnegotiation drives the CHARSET (RFC 2066) side of the
// connection: it answers a peer's REQUEST by picking (and committing to)
// the first mutually usable charset, and applies whatever charset the peer
// confirms in response to a REQUEST this client sent.
func handleCharsetSubnegotiation(nvt *telnet.NVT, charset *charsetSession, value any) {
	msg, ok := value.(telopts.CharsetMessage)
	if !ok {
		return
	}

	switch msg.Kind {
	case telopts.CharsetRequest:
		chosen, ok := charset.negotiate(msg.Charsets)
		if !ok {
			_ = nvt.SendSubnegotiation(telnet.OptionCharset, telopts.CharsetMessage{Kind: telopts.CharsetRejected})
			return
		}
		_ = nvt.SendSubnegotiation(telnet.OptionCharset, telopts.CharsetMessage{Kind: telopts.CharsetAccepted, Accepted: chosen})
	case telopts.CharsetAccepted:
		_ = charset.accept(msg.Accepted)
	case telopts.CharsetRejected:
		// Peer couldn't agree on a charset; keep using the connection default.
	}
}

// charsetSession wraps a telopts.Charset with a mutex. Charset itself
// carries none (see telopts/charset.go). This client
// splits reading the connection (nvt.Run, which decodes CHARSET
// subnegotiations and calls decode) from reading the keyboard
// (pumpKeyboard, which calls encode) across two goroutines, so it needs
// its own guard around the one piece of mutable state that crosses that
// boundary, the same way the teacher kept cross-goroutine guards (e.g.
// keyboard_lock.go) in the application layer rather than inside its
// domain types.
type charsetSession struct {
	mu sync.Mutex
	cs *telopts.Charset
}

func newCharsetSession(defaultName string, usage telnet.CharsetUsage) (*charsetSession, error) {
	cs, err := telopts.NewCharset(defaultName, usage)
	if err != nil {
		return nil, err
	}
	return &charsetSession{cs: cs}, nil
}

func (s *charsetSession) encode(text string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cs.EncodeText(text, false)
}

func (s *charsetSession) decode(data []byte) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cs.DecodeText(data, false)
}

func (s *charsetSession) negotiate(candidates []string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cs.Negotiate(candidates)
}

func (s *charsetSession) accept(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cs.Accept(name)
}

// lineBuffer accumulates incoming OutputData bytes between command/
// subnegotiation boundaries (which, on a typical MUD/BBS server, mark the
// end of a line or prompt) so they can be handed to the negotiated charset
// as a whole run of bytes rather than one at a time.
type lineBuffer struct {
	buf bytes.Buffer
}

func (b *lineBuffer) feed(c byte) { b.buf.WriteByte(c) }

func (b *lineBuffer) flush(charset *charsetSession) {
	if b.buf.Len() == 0 {
		return
	}
	text, err := charset.decode(b.buf.Bytes())
	if err != nil {
		text = b.buf.String()
	}
	os.Stdout.WriteString(text)
	b.buf.Reset()
}

// pumpKeyboard reads raw keystrokes, encodes them in the negotiated
// charset, and forwards them to the wire. It runs in its own goroutine
// alongside nvt.Run's read pump; NVT performs no locking of its own around
// SendBytes, but a net.TCPConn's Read and Write may be called concurrently
// from different goroutines, so this is safe the same way the teacher's
// separate reader/writer goroutines were.
func pumpKeyboard(ctx context.Context, nvt *telnet.NVT, stdin *os.File, charset *charsetSession, characterMode *atomic.Bool, cancel context.CancelFunc) {
	defer cancel()

	buf := make([]byte, 256)
	for {
		if ctx.Err() != nil {
			return
		}

		n, err := stdin.Read(buf)
		if n > 0 {
			typed := buf[:n]

			// In character mode the remote end (which has ECHO) echoes
			// every keystroke itself; outside of it, nobody will, so this
			// client echoes locally to keep the line visible as it's typed.
			if !characterMode.Load() {
				os.Stdout.Write(typed)
			}

			encoded, encErr := charset.encode(string(typed))
			if encErr != nil {
				encoded = typed
			}
			if sendErr := nvt.SendBytes(encoded); sendErr != nil {
				return
			}
		}
		if err != nil {
			return
		}
	}
}

func termSize(f *os.File) (width, height uint16) {
	w, h, err := term.GetSize(f.Fd())
	if err != nil || w <= 0 || h <= 0 {
		return 80, 24
	}
	return uint16(w), uint16(h)
}
