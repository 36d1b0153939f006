package telnet

import "sync"

// EventHook is a type for function pointers that are registered to receive
// events from an NVT.
type EventHook[T any] func(nvt *NVT, data T)

// EventPublisher is a type used to register and fire arbitrary events. It
// backs every one of the NVT's hook surfaces (output, outbound frames,
// errors, option state changes).
type EventPublisher[U any] struct {
	lock sync.Mutex

	registeredHooks []EventHook[U]
}

// NewPublisher creates a new EventPublisher. A slice of hooks can be passed
// in, in which case they are registered to receive events from the
// publisher immediately; otherwise nil can be passed in.
func NewPublisher[U any, T ~func(nvt *NVT, data U)](hooks []T) *EventPublisher[U] {
	var convertedHooks []EventHook[U]

	for _, hook := range hooks {
		convertedHooks = append(convertedHooks, EventHook[U](hook))
	}

	return &EventPublisher[U]{
		registeredHooks: convertedHooks,
	}
}

// Register registers a single EventHook to receive events from this publisher.
func (e *EventPublisher[U]) Register(hook EventHook[U]) {
	e.lock.Lock()
	defer e.lock.Unlock()

	e.registeredHooks = append(e.registeredHooks, hook)
}

// Fire calls the event for all EventHook instances registered to this
// publisher with the provided parameters.
func (e *EventPublisher[U]) Fire(nvt *NVT, eventData U) {
	e.lock.Lock()
	defer e.lock.Unlock()

	for _, hook := range e.registeredHooks {
		hook(nvt, eventData)
	}
}

// ErrorHandler receives decode errors and negotiation violations that
// don't abort processing (spec §7).
type ErrorHandler func(nvt *NVT, err error)

// OutputHandler receives each TerminalOutput the facade produces as it
// processes incoming bytes.
type OutputHandler func(nvt *NVT, output TerminalOutput)

// OutboundHandler receives each Frame the facade writes to the wire,
// whether it originated from the application or from the negotiation
// engine's own replies.
type OutboundHandler func(nvt *NVT, frame Frame)

// OptionStateHandler receives a notification whenever an option's Q-method
// state, in one direction, actually enters or leaves Yes -- i.e. the option
// really turned on or off, as opposed to merely landing on some other
// state (e.g. a negotiation that was never accepted settling back to No).
type OptionStateHandler func(nvt *NVT, change OptionStateChange)

// OptionStateChange describes one option, in one direction, actually
// turning on (Enabled: true) or off (Enabled: false).
type OptionStateChange struct {
	Option    Option
	Direction Direction
	Enabled   bool
}

// EventHooks is used to pass in a set of pre-registered event hooks when
// calling NewNVT. See NVTConfig for more info.
type EventHooks struct {
	EncounteredError []ErrorHandler
	Output           []OutputHandler
	Outbound         []OutboundHandler
	OptionState      []OptionStateHandler
}
