// internal/dtmf/state.go
package dtmf

import (
	"errors"
	"time"
)

var (
	// ErrInvalidHoldBlocks indicates hold blocks must be at least 1
	ErrInvalidHoldBlocks = errors.New("hold blocks must be at least 1")
	// ErrInvalidSpacingBlocks indicates spacing blocks must be non-negative
	ErrInvalidSpacingBlocks = errors.New("spacing blocks must be non-negative")
)

// EventType distinguishes press and release events.
type EventType int

const (
	// KeyPressed is emitted once when a held tone reaches the hold threshold.
	KeyPressed EventType = iota
	// KeyReleased is emitted once when a confirmed tone ends or changes.
	KeyReleased
)

// String returns the event type name.
func (t EventType) String() string {
	switch t {
	case KeyPressed:
		return "pressed"
	case KeyReleased:
		return "released"
	default:
		return "unknown"
	}
}

// KeyEvent is a discrete keypad event produced by the state machine.
type KeyEvent struct {
	// Type is KeyPressed or KeyReleased
	Type EventType
	// Symbol is the keypad symbol the event refers to
	Symbol rune
	// Timestamp is when the event was emitted
	Timestamp time.Time
}

// StateConfig holds the temporal behaviour of the state machine.
// All values should come from the application config file.
type StateConfig struct {
	// HoldBlocks is the number of consecutive matching blocks required before
	// a candidate symbol is confirmed as a key press (from config: hold_blocks).
	// Trades detection latency against rejection of transient noise spikes.
	HoldBlocks int
	// SpacingBlocks is the minimum number of blocks between a release and the
	// next confirmable press (from config: spacing_blocks). Prevents one
	// slightly ragged tone from registering as repeated presses. 0 disables.
	SpacingBlocks int
}

// machine phases. A candidate symbol first accumulates in holding; once it
// has persisted for HoldBlocks it is confirmed and a press is emitted
// exactly once. Leaving confirmed emits the matching release.
type phase int

const (
	phaseIdle phase = iota
	phaseHolding
	phaseConfirmed
)

// StateMachine debounces per-block symbol decisions into key press/release
// events. It owns the only persistent state in the pipeline and is not safe
// for concurrent use; callers must serialize Advance calls.
type StateMachine struct {
	config StateConfig

	phase        phase
	symbol       rune // candidate or confirmed symbol, NoSymbol when idle
	count        int  // consecutive blocks the candidate has been seen
	lastEmitted  rune // symbol of the most recent press, NoSymbol before any
	sinceRelease int  // blocks since the last release, saturating
}

// NewStateMachine creates a state machine in the idle state.
func NewStateMachine(cfg StateConfig) (*StateMachine, error) {
	if cfg.HoldBlocks < 1 {
		return nil, ErrInvalidHoldBlocks
	}
	if cfg.SpacingBlocks < 0 {
		return nil, ErrInvalidSpacingBlocks
	}
	m := &StateMachine{config: cfg}
	m.Reset()
	return m, nil
}

// Advance consumes one block's candidate symbol (NoSymbol for none) and
// returns the events emitted for that block: at most one release, followed
// by at most one press.
func (m *StateMachine) Advance(s rune) []KeyEvent {
	if m.sinceRelease < m.config.SpacingBlocks {
		m.sinceRelease++
	}

	var events []KeyEvent
	now := time.Now()

	switch m.phase {
	case phaseIdle:
		if s != NoSymbol {
			m.startHolding(s)
			events = m.maybeConfirm(events, now)
		}

	case phaseHolding:
		switch s {
		case m.symbol:
			m.count++
			events = m.maybeConfirm(events, now)
		case NoSymbol:
			// Candidate never reached the threshold: no event.
			m.phase = phaseIdle
			m.symbol = NoSymbol
			m.count = 0
		default:
			m.startHolding(s)
			events = m.maybeConfirm(events, now)
		}

	case phaseConfirmed:
		if s == m.symbol {
			// Tone still held down; nothing to re-emit.
			break
		}
		events = append(events, KeyEvent{Type: KeyReleased, Symbol: m.symbol, Timestamp: now})
		m.sinceRelease = 0
		if s != NoSymbol {
			m.startHolding(s)
			events = m.maybeConfirm(events, now)
		} else {
			m.phase = phaseIdle
			m.symbol = NoSymbol
			m.count = 0
		}
	}

	return events
}

// startHolding begins a new candidate run.
func (m *StateMachine) startHolding(s rune) {
	m.phase = phaseHolding
	m.symbol = s
	m.count = 1
}

// maybeConfirm promotes a held candidate to confirmed once it has met the
// hold threshold and the inter-symbol spacing has elapsed, emitting the
// press exactly once.
func (m *StateMachine) maybeConfirm(events []KeyEvent, now time.Time) []KeyEvent {
	if m.count < m.config.HoldBlocks {
		return events
	}
	if m.sinceRelease < m.config.SpacingBlocks {
		return events
	}
	m.phase = phaseConfirmed
	m.lastEmitted = m.symbol
	return append(events, KeyEvent{Type: KeyPressed, Symbol: m.symbol, Timestamp: now})
}

// Held returns the confirmed symbol, or NoSymbol when no press is active.
func (m *StateMachine) Held() rune {
	if m.phase == phaseConfirmed {
		return m.symbol
	}
	return NoSymbol
}

// Idle reports whether the machine is in the idle state.
func (m *StateMachine) Idle() bool {
	return m.phase == phaseIdle
}

// LastEmitted returns the symbol of the most recent press, or NoSymbol.
func (m *StateMachine) LastEmitted() rune {
	return m.lastEmitted
}

// Config returns the current configuration
func (m *StateMachine) Config() StateConfig {
	return m.config
}

// Reset returns the machine to the idle state, e.g. on stream restart.
// A confirmed press is abandoned without a release event.
func (m *StateMachine) Reset() {
	m.phase = phaseIdle
	m.symbol = NoSymbol
	m.count = 0
	m.lastEmitted = NoSymbol
	m.sinceRelease = m.config.SpacingBlocks
}
