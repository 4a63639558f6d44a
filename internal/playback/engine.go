package playback

import (
	"context"
	"sync"
	"time"

	"github.com/satriapamudji/glidereader/internal/metrics"
	"github.com/satriapamudji/glidereader/internal/model"
	"github.com/satriapamudji/glidereader/internal/timing"
)

// persistEvery is how often position and progress writes go to the sink.
const persistEvery = 3 * time.Second

// ProgressSink receives best-effort persistence writes from the engine.
// Implementations must swallow failures; the engine never waits on the
// sink and never learns about its errors.
type ProgressSink interface {
	SavePosition(ctx context.Context, tokenIndex int)
	SaveProgress(ctx context.Context, tokenIndex, wpm int, isPause, isRewind bool)
}

// Event is a position update emitted after every state-changing command
// or tick.
type Event struct {
	Index    int
	State    State
	WPM      int
	Complete bool
}

// Engine drives one reading session: it owns a Machine, a Scheduler and
// a metrics Aggregator, converts ticks into index advances, and emits
// events for a renderer to consume. Sessions never share an Engine; a
// second simultaneous session needs its own instance.
type Engine struct {
	mu       sync.Mutex
	machine  *Machine
	sched    *timing.Scheduler
	agg      *metrics.Aggregator
	wpm      int
	interval time.Duration
	shown    bool
	base     int

	sink        ProgressSink
	lastPersist time.Time

	events chan Event
}

// NewEngine returns an engine at the configured start speed, clamped to
// the model speed bounds. The sink may be nil for sessions that should
// not persist (tests, previews).
func NewEngine(startWPM int, sink ProgressSink) *Engine {
	return &Engine{
		machine: NewMachine(),
		sched:   timing.NewScheduler(),
		agg:     metrics.NewAggregator(clampWPM(startWPM)),
		wpm:     clampWPM(startWPM),
		sink:    sink,
		events:  make(chan Event, 128),
	}
}

// Events returns the position update stream. Sends never block the tick
// path; events are dropped when the consumer falls behind.
func (e *Engine) Events() <-chan Event { return e.events }

// Load installs a token stream and positions at startIndex. The resume
// position becomes the baseline for the session's tokens-read count, so
// resumed sessions report only what they actually advanced through.
func (e *Engine) Load(tokens []model.Token, startIndex int) {
	e.sched.Stop()
	e.mu.Lock()
	e.machine.Load(tokens)
	if startIndex > 0 {
		e.machine.Skip(startIndex)
	}
	e.base = e.machine.Index()
	e.agg.Advance(e.machine.Index() - e.base)
	e.emitLocked()
	e.mu.Unlock()
}

// Play begins or resumes tick-driven playback.
func (e *Engine) Play() {
	e.mu.Lock()
	if !e.machine.Play() {
		e.mu.Unlock()
		return
	}
	e.agg.AddSample(time.Now(), float64(e.wpm))
	e.mu.Unlock()
	e.arm()
}

// Pause suspends playback and records the pause.
func (e *Engine) Pause() {
	e.sched.Stop()
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.machine.Pause() {
		return
	}
	e.agg.RecordPause()
	e.persistLocked(true, false)
	e.emitLocked()
}

// TogglePlay pauses when playing, plays otherwise.
func (e *Engine) TogglePlay() {
	if e.State() == Playing {
		e.Pause()
	} else {
		e.Play()
	}
}

// Skip moves the index by delta, rewinds out of Complete when negative,
// and realigns the tick chain with the new token's duration.
func (e *Engine) Skip(delta int) {
	e.sched.Stop()
	e.mu.Lock()
	if !e.machine.Skip(delta) {
		e.mu.Unlock()
		return
	}
	if delta < 0 {
		e.agg.RecordRewind()
	}
	e.agg.Advance(e.machine.Index() - e.base)
	playing := e.machine.State() == Playing
	if !playing {
		e.persistLocked(false, delta < 0)
		e.emitLocked()
	}
	e.mu.Unlock()
	if playing {
		e.arm()
	}
}

// ScrubStart enters direct-seek mode.
func (e *Engine) ScrubStart() {
	e.sched.Stop()
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.machine.ScrubStart() {
		return
	}
	e.emitLocked()
}

// ScrubMove seeks to index while scrubbing.
func (e *Engine) ScrubMove(index int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	prev := e.machine.Index()
	if !e.machine.ScrubMove(index) {
		return
	}
	if e.machine.Index() < prev {
		e.agg.RecordRewind()
	}
	e.agg.Advance(e.machine.Index() - e.base)
	e.emitLocked()
}

// ScrubEnd leaves direct-seek mode, resuming playback if it was active
// before the scrub began.
func (e *Engine) ScrubEnd() {
	e.mu.Lock()
	if !e.machine.ScrubEnd() {
		e.mu.Unlock()
		return
	}
	playing := e.machine.State() == Playing
	if !playing {
		e.persistLocked(false, false)
		e.emitLocked()
	}
	e.mu.Unlock()
	if playing {
		e.arm()
	}
}

// Restart rewinds to the beginning, stopped.
func (e *Engine) Restart() {
	e.sched.Stop()
	e.mu.Lock()
	defer e.mu.Unlock()
	e.machine.Restart()
	e.emitLocked()
}

// AdjustWPM shifts the speed by delta, clamped to the model bounds, and
// restarts the tick chain at the new rate.
func (e *Engine) AdjustWPM(delta int) {
	e.mu.Lock()
	next := clampWPM(e.wpm + delta)
	if next == e.wpm {
		e.mu.Unlock()
		return
	}
	e.wpm = next
	e.agg.AddSample(time.Now(), float64(e.wpm))
	playing := e.machine.State() == Playing
	if !playing {
		e.emitLocked()
	}
	e.mu.Unlock()
	if playing {
		e.sched.Stop()
		e.arm()
	}
}

// WPM returns the current speed.
func (e *Engine) WPM() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.wpm
}

// Index returns the current token index.
func (e *Engine) Index() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.machine.Index()
}

// State returns the machine state.
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.machine.State()
}

// Current returns the token under the cursor.
func (e *Engine) Current() (model.Token, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.machine.Current()
}

// Drift exposes the scheduler's last measured drift for diagnostics.
func (e *Engine) Drift() time.Duration { return e.sched.Drift() }

// Finalize stops the tick chain and freezes the session statistics.
func (e *Engine) Finalize(totalTokens int, chapters []model.Chapter) model.SessionMetrics {
	e.sched.Stop()
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.agg.Finalize(e.machine.Index(), totalTokens, chapters)
}

// arm starts the scheduler for the current token's duration. Must be
// called without the engine lock held: the scheduler's synchronous
// first tick re-enters onTick, where it is consumed as the display tick
// for the token already under the cursor; later ticks advance.
func (e *Engine) arm() {
	e.mu.Lock()
	tok, ok := e.machine.Current()
	if !ok || e.machine.State() != Playing {
		e.mu.Unlock()
		return
	}
	e.interval = timing.Duration(e.wpm, tok.PauseMultiplier)
	e.shown = false
	interval := e.interval
	e.mu.Unlock()
	e.sched.Start(interval, e.onTick)
}

func (e *Engine) onTick() {
	e.mu.Lock()
	if !e.shown {
		e.shown = true
		e.emitLocked()
		e.mu.Unlock()
		return
	}
	if !e.machine.Tick() {
		e.mu.Unlock()
		return
	}
	e.agg.AddSample(time.Now(), float64(e.wpm))
	if e.machine.State() == Complete {
		e.persistLocked(false, false)
		e.emitLocked()
		e.mu.Unlock()
		e.sched.Stop()
		return
	}
	e.agg.Advance(e.machine.Index() - e.base)
	e.persistLocked(false, false)
	tok, _ := e.machine.Current()
	next := timing.Duration(e.wpm, tok.PauseMultiplier)
	if next == e.interval {
		e.emitLocked()
		e.mu.Unlock()
		return
	}
	// The scheduler cannot retarget an in-flight interval; restart it
	// for the new duration. Its synchronous first tick doubles as this
	// token's display tick.
	e.mu.Unlock()
	e.sched.Stop()
	e.arm()
}

// emitLocked posts a position event without ever blocking the tick path.
func (e *Engine) emitLocked() {
	ev := Event{
		Index:    e.machine.Index(),
		State:    e.machine.State(),
		WPM:      e.wpm,
		Complete: e.machine.State() == Complete,
	}
	select {
	case e.events <- ev:
	default:
	}
}

// persistLocked forwards progress to the sink at most every few seconds
// (always for pauses, rewinds and completion), fire-and-forget.
func (e *Engine) persistLocked(isPause, isRewind bool) {
	if e.sink == nil {
		return
	}
	now := time.Now()
	forced := isPause || isRewind || e.machine.State() == Complete
	if !forced && now.Sub(e.lastPersist) < persistEvery {
		return
	}
	e.lastPersist = now
	index := e.machine.Index()
	wpm := e.wpm
	sink := e.sink
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		sink.SavePosition(ctx, index)
		sink.SaveProgress(ctx, index, wpm, isPause, isRewind)
	}()
}

func clampWPM(wpm int) int {
	if wpm < model.MinWPM {
		return model.MinWPM
	}
	if wpm > model.MaxWPM {
		return model.MaxWPM
	}
	return wpm
}
