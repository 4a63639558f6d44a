// Package playback owns the reading position: a state machine over the
// token stream plus the engine that drives it from timer ticks.
package playback

import "github.com/satriapamudji/glidereader/internal/model"

// State is the playback lifecycle state.
type State int

const (
	// Idle means no tokens are loaded.
	Idle State = iota
	// Ready means tokens are loaded at index 0 and playback is stopped.
	Ready
	// Playing means ticks advance the index.
	Playing
	// Paused means playback is suspended at the current index.
	Paused
	// Scrubbing means the user is seeking directly to token indices.
	Scrubbing
	// Complete means the final token's duration elapsed during playback.
	Complete
)

// String returns the lowercase state name.
func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Ready:
		return "ready"
	case Playing:
		return "playing"
	case Paused:
		return "paused"
	case Scrubbing:
		return "scrubbing"
	case Complete:
		return "complete"
	default:
		return "unknown"
	}
}

// Machine tracks the current token index and play state for one session.
// It has no clock of its own; the engine feeds it ticks. Methods are not
// safe for concurrent use; the engine serializes access.
type Machine struct {
	tokens      []model.Token
	index       int
	state       State
	playedToEnd bool
	wasPlaying  bool
}

// NewMachine returns a machine in the Idle state.
func NewMachine() *Machine {
	return &Machine{state: Idle}
}

// Load replaces the token stream and resets to Ready at index 0 from any
// state. An empty stream is a valid degenerate load: the machine stays
// Ready and Play becomes a no-op.
func (m *Machine) Load(tokens []model.Token) {
	m.tokens = tokens
	m.index = 0
	m.state = Ready
	m.playedToEnd = false
	m.wasPlaying = false
}

// State returns the current lifecycle state.
func (m *Machine) State() State { return m.state }

// Index returns the current token index, clamped to the stream.
func (m *Machine) Index() int { return m.index }

// Count returns the number of loaded tokens.
func (m *Machine) Count() int { return len(m.tokens) }

// Current returns the token at the current index, or false when the
// stream is empty.
func (m *Machine) Current() (model.Token, bool) {
	if len(m.tokens) == 0 {
		return model.Token{}, false
	}
	return m.tokens[m.index], true
}

// Play starts playback from Ready or Paused. It is a no-op with no
// tokens, from Complete, or when already playing.
func (m *Machine) Play() bool {
	if len(m.tokens) == 0 {
		return false
	}
	if m.state != Ready && m.state != Paused {
		return false
	}
	m.state = Playing
	return true
}

// Pause suspends playback. Only Playing can pause.
func (m *Machine) Pause() bool {
	if m.state != Playing {
		return false
	}
	m.state = Paused
	return true
}

// Tick consumes one elapsed token duration while Playing: it advances
// the index, or transitions to Complete when the final token's duration
// has elapsed. Reaching the last index via Skip or scrubbing never sets
// Complete; only a tick does.
func (m *Machine) Tick() bool {
	if m.state != Playing {
		return false
	}
	if m.index >= len(m.tokens)-1 {
		m.state = Complete
		m.playedToEnd = true
		return true
	}
	m.index++
	return true
}

// Skip moves the index by delta, clamped to [0, count-1]. Rewinding out
// of Complete un-completes the session and leaves it Paused.
func (m *Machine) Skip(delta int) bool {
	if len(m.tokens) == 0 || m.state == Scrubbing {
		return false
	}
	m.index = m.clamp(m.index + delta)
	if delta < 0 && m.state == Complete {
		m.state = Paused
		m.playedToEnd = false
	}
	return true
}

// ScrubStart suspends normal advancement for direct seeking, remembering
// whether playback was active.
func (m *Machine) ScrubStart() bool {
	if m.state != Playing && m.state != Paused {
		return false
	}
	m.wasPlaying = m.state == Playing
	m.state = Scrubbing
	return true
}

// ScrubMove seeks directly to index, clamped, while scrubbing.
func (m *Machine) ScrubMove(index int) bool {
	if m.state != Scrubbing {
		return false
	}
	m.index = m.clamp(index)
	return true
}

// ScrubEnd resumes the pre-scrub play state.
func (m *Machine) ScrubEnd() bool {
	if m.state != Scrubbing {
		return false
	}
	if m.wasPlaying {
		m.state = Playing
	} else {
		m.state = Paused
	}
	return true
}

// Restart rewinds to index 0 and returns to Ready from any state.
func (m *Machine) Restart() {
	m.index = 0
	m.state = Ready
	m.playedToEnd = false
	m.wasPlaying = false
}

// PlayedToEnd reports whether the machine reached Complete through
// natural tick-driven playback and has not been rewound since.
func (m *Machine) PlayedToEnd() bool { return m.playedToEnd }

func (m *Machine) clamp(index int) int {
	if index < 0 {
		return 0
	}
	if index > len(m.tokens)-1 {
		return len(m.tokens) - 1
	}
	return index
}
