package capture

import (
	"context"

	"github.com/google/uuid"

	"github.com/whisprhq/keybind/internal/log"
	"github.com/whisprhq/keybind/internal/pubsub"
)

// State is the capture session state.
type State int

const (
	// StateReady means no capture is in progress.
	StateReady State = iota
	// StateListening means the session is actively consuming raw key signals.
	StateListening
	// StatePreview means a combination was captured and awaits a
	// save/retry/cancel decision.
	StatePreview
)

func (s State) String() string {
	switch s {
	case StateReady:
		return "ready"
	case StateListening:
		return "listening"
	case StatePreview:
		return "preview"
	default:
		return "unknown"
	}
}

// Subscription is the scoped raw-input handle held by a session while it is
// listening. It is acquired exactly on entering the listening state and
// released exactly on leaving it, on every exit path.
type Subscription struct {
	cancel context.CancelFunc
	C      <-chan pubsub.Event[RawKey]
}

func newSubscription(broker *pubsub.Broker[RawKey]) *Subscription {
	ctx, cancel := context.WithCancel(context.Background())
	return &Subscription{
		cancel: cancel,
		C:      broker.Subscribe(ctx),
	}
}

// Release cancels the underlying broker subscription. Safe to call twice.
func (s *Subscription) Release() {
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}

// Session is one edit attempt for a single command, from listening through to
// commit or cancel. Sessions are created by the Controller, never directly.
type Session struct {
	id         string
	commandKey string
	state      State
	combo      Combination
	sub        *Subscription
	broker     *pubsub.Broker[RawKey]
	onExit     func(*Session)
}

// ID returns the session's unique id.
func (s *Session) ID() string { return s.id }

// CommandKey returns the command being edited.
func (s *Session) CommandKey() string { return s.commandKey }

// State returns the current session state.
func (s *Session) State() State { return s.state }

// Combination returns the working combination. Zero until a non-modifier key
// has been captured.
func (s *Session) Combination() Combination { return s.combo }

// Subscription returns the raw-input handle, or nil outside listening.
func (s *Session) Subscription() *Subscription { return s.sub }

func (s *Session) enterListening() {
	s.combo = Combination{}
	s.sub = newSubscription(s.broker)
	s.state = StateListening
}

func (s *Session) leaveListening() {
	if s.sub != nil {
		s.sub.Release()
		s.sub = nil
	}
}

// Press feeds a raw key signal into a listening session. Bare modifier
// presses are swallowed and produce no state change. A non-modifier key
// freezes the held modifiers into the working combination and advances the
// session to preview. Returns true when the state advanced.
func (s *Session) Press(raw RawKey) bool {
	if s.state != StateListening {
		return false
	}
	if IsModifierKey(raw.Key) {
		return false
	}

	s.combo = Freeze(raw)
	s.leaveListening()
	s.state = StatePreview
	log.Debug(log.CatCapture, "captured combination", "session", s.id, "command", s.commandKey, "key", s.combo.Key)
	return true
}

// Retry discards the previewed combination and re-enters capture.
func (s *Session) Retry() {
	if s.state != StatePreview {
		return
	}
	s.enterListening()
	log.Debug(log.CatCapture, "retrying capture", "session", s.id, "command", s.commandKey)
}

// Cancel discards the session from any active state and returns it to ready.
func (s *Session) Cancel() {
	if s.state == StateReady {
		return
	}
	s.leaveListening()
	s.combo = Combination{}
	s.state = StateReady
	log.Debug(log.CatCapture, "session cancelled", "session", s.id, "command", s.commandKey)
	if s.onExit != nil {
		s.onExit(s)
	}
}

// Finish closes the session after a successful commit. Only valid from
// preview; the registry write itself happens upstream before Finish is called.
func (s *Session) Finish() {
	if s.state != StatePreview {
		return
	}
	s.combo = Combination{}
	s.state = StateReady
	log.Debug(log.CatCapture, "session committed", "session", s.id, "command", s.commandKey)
	if s.onExit != nil {
		s.onExit(s)
	}
}

// Controller owns the single active capture session and the raw-key broker.
// At most one session is active across the whole registry at any instant:
// starting a session for another command implicitly cancels the current one.
type Controller struct {
	broker *pubsub.Broker[RawKey]
	active *Session
}

// NewController creates a capture controller with its own raw-key broker.
func NewController() *Controller {
	return &Controller{broker: pubsub.NewBroker[RawKey]()}
}

// Broker exposes the raw-key broker for observers (debug overlays, tests).
func (c *Controller) Broker() *pubsub.Broker[RawKey] { return c.broker }

// Active returns the in-flight session, or nil when ready.
func (c *Controller) Active() *Session { return c.active }

// Start begins a capture session for the given command, implicitly cancelling
// any session already in flight.
func (c *Controller) Start(commandKey string) *Session {
	if c.active != nil {
		log.Debug(log.CatCapture, "implicit cancel of previous session", "command", c.active.commandKey)
		c.active.Cancel()
	}

	s := &Session{
		id:         uuid.NewString(),
		commandKey: commandKey,
		broker:     c.broker,
		onExit: func(done *Session) {
			if c.active == done {
				c.active = nil
			}
		},
	}
	s.enterListening()
	c.active = s
	log.Debug(log.CatCapture, "session started", "session", s.id, "command", commandKey)
	return s
}

// Dispatch routes a raw key signal: it is published on the broker for any
// observers and fed synchronously into the active session when listening.
func (c *Controller) Dispatch(raw RawKey) {
	c.broker.Publish(pubsub.EventRawKey, raw)
	if c.active != nil && c.active.state == StateListening {
		c.active.Press(raw)
	}
}

// Close releases the broker and any in-flight session.
func (c *Controller) Close() {
	if c.active != nil {
		c.active.Cancel()
	}
	c.broker.Close()
}
