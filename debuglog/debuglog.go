// Package debuglog wires an NVT's event hooks to structured log/slog
// output, one record per category, with an independently configurable
// level per category -- the same shape as the teacher's own DebugLog, just
// rebound to the NVT facade's Output/Outbound/EncounteredError/OptionState
// hooks instead of a Terminal's printer/keyboard/telopt hooks.
package debuglog

import (
	"context"
	"log/slog"

	telnet "github.com/hwuhlig/gotelnet"
)

// LevelNone disables a category: no slog.Logger level sits below it, so a
// record logged at LevelNone is filtered by any handler with a real level.
const LevelNone slog.Level = -8

// Config sets the slog.Level used for each category of event DebugLog
// subscribes to. Set a field to LevelNone to silence that category.
type Config struct {
	EncounteredErrorLevel  slog.Level
	IncomingDataLevel      slog.Level
	IncomingCommandLevel   slog.Level
	IncomingSubnegotiation slog.Level
	OutboundFrameLevel     slog.Level
	OptionStateLevel       slog.Level
}

// DebugLog subscribes to every hook surface an NVT exposes and logs one
// slog record per event, at the level Config assigns that event's category.
type DebugLog struct {
	logger *slog.Logger
	config Config
}

// New creates a DebugLog and registers it against nvt's hooks.
func New(nvt *telnet.NVT, logger *slog.Logger, config Config) *DebugLog {
	log := &DebugLog{logger: logger, config: config}

	nvt.RegisterErrorHook(log.logError)
	nvt.RegisterOutputHook(log.logOutput)
	nvt.RegisterOutboundHook(log.logOutbound)
	nvt.RegisterOptionStateHook(log.logOptionState)

	return log
}

func (l *DebugLog) logError(_ *telnet.NVT, err error) {
	l.logger.LogAttrs(context.Background(), l.config.EncounteredErrorLevel, "encountered error", slog.Any("error", err))
}

func (l *DebugLog) logOutput(_ *telnet.NVT, output telnet.TerminalOutput) {
	switch output.Kind {
	case telnet.OutputData:
		l.logger.LogAttrs(context.Background(), l.config.IncomingDataLevel, "received data", slog.String("byte", output.Frame.String()))
	case telnet.OutputCommand:
		l.logger.LogAttrs(context.Background(), l.config.IncomingCommandLevel, "received command",
			slog.String("command", output.Frame.String()),
			slog.Bool("promptEnd", output.PromptEnd),
		)
	case telnet.OutputSubnegotiation:
		l.logger.LogAttrs(context.Background(), l.config.IncomingSubnegotiation, "received subnegotiation",
			slog.String("option", output.Frame.Option.String()),
			slog.Any("value", output.Value),
		)
	}
}

func (l *DebugLog) logOutbound(_ *telnet.NVT, frame telnet.Frame) {
	l.logger.LogAttrs(context.Background(), l.config.OutboundFrameLevel, "sent frame", slog.String("frame", frame.String()))
}

func (l *DebugLog) logOptionState(_ *telnet.NVT, change telnet.OptionStateChange) {
	l.logger.LogAttrs(context.Background(), l.config.OptionStateLevel, "option state change",
		slog.String("option", change.Option.String()),
		slog.String("direction", change.Direction.String()),
		slog.Bool("enabled", change.Enabled),
	)
}
