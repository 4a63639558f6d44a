package playback

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/satriapamudji/glidereader/internal/model"
)

type recordingSink struct {
	mu        sync.Mutex
	positions []int
	pauses    int
	rewinds   int
}

func (r *recordingSink) SavePosition(_ context.Context, tokenIndex int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.positions = append(r.positions, tokenIndex)
}

func (r *recordingSink) SaveProgress(_ context.Context, _, _ int, isPause, isRewind bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if isPause {
		r.pauses++
	}
	if isRewind {
		r.rewinds++
	}
}

func waitForState(t *testing.T, e *Engine, want State, timeout time.Duration) Event {
	t.Helper()
	deadline := time.After(timeout)
	for {
		select {
		case ev := <-e.Events():
			if ev.State == want {
				return ev
			}
		case <-deadline:
			t.Fatalf("engine never reached %v (state %v, index %d)", want, e.State(), e.Index())
		}
	}
}

func TestEnginePlaysToCompletion(t *testing.T) {
	e := NewEngine(900, nil)
	e.Load(makeTokens(4), 0)
	e.Play()
	ev := waitForState(t, e, Complete, 5*time.Second)
	if ev.Index != 3 || !ev.Complete {
		t.Fatalf("completion event = %+v", ev)
	}
	final := e.Finalize(4, nil)
	if final.TokensRead != 4 {
		t.Fatalf("tokens read = %d, want 4", final.TokensRead)
	}
	if final.CompletionChapter != 1.0 {
		t.Fatalf("chapter completion = %v, want 1", final.CompletionChapter)
	}
}

func TestEngineSteadySessionCreditsSustainedSpeed(t *testing.T) {
	e := NewEngine(900, nil)
	e.Load(makeTokens(4), 0)
	e.Play()
	waitForState(t, e, Complete, 5*time.Second)
	final := e.Finalize(4, nil)
	if final.BestSustainedWPM != 900 {
		t.Fatalf("best sustained = %d, want 900", final.BestSustainedWPM)
	}
	// Held speed, full completion: every score component maxes out.
	if final.GlideScore != 100 {
		t.Fatalf("glide score = %d, want 100", final.GlideScore)
	}
}

func TestEngineResumedSessionCountsOnlyNewTokens(t *testing.T) {
	e := NewEngine(900, nil)
	e.Load(makeTokens(60), 50)
	e.Play()
	waitForState(t, e, Complete, 5*time.Second)
	final := e.Finalize(60, nil)
	if final.TokensRead != 10 {
		t.Fatalf("tokens read = %d, want 10", final.TokensRead)
	}
}

func TestEngineVariableDurations(t *testing.T) {
	tokens := []model.Token{
		{Text: "a", AnchorIndex: 0},
		{Text: "b,", AnchorIndex: 0, PauseMultiplier: 0.4},
		{Text: "c.", AnchorIndex: 0, PauseMultiplier: 1.2},
		{Text: "d", AnchorIndex: 0},
	}
	e := NewEngine(900, nil)
	e.Load(tokens, 0)
	e.Play()
	waitForState(t, e, Complete, 5*time.Second)
}

func TestEngineRewindUncompletes(t *testing.T) {
	e := NewEngine(900, nil)
	e.Load(makeTokens(3), 0)
	e.Play()
	waitForState(t, e, Complete, 5*time.Second)
	e.Skip(-1)
	if got := e.State(); got != Paused {
		t.Fatalf("state after rewind = %v, want paused", got)
	}
}

func TestEngineEmptyStream(t *testing.T) {
	e := NewEngine(300, nil)
	e.Load(nil, 0)
	e.Play()
	if got := e.State(); got != Ready {
		t.Fatalf("state after play on empty stream = %v, want ready", got)
	}
}

func TestEngineClampsWPM(t *testing.T) {
	e := NewEngine(50, nil)
	if got := e.WPM(); got != model.MinWPM {
		t.Fatalf("start wpm = %d, want %d", got, model.MinWPM)
	}
	e.AdjustWPM(100000)
	if got := e.WPM(); got != model.MaxWPM {
		t.Fatalf("adjusted wpm = %d, want %d", got, model.MaxWPM)
	}
	e.AdjustWPM(-100000)
	if got := e.WPM(); got != model.MinWPM {
		t.Fatalf("adjusted wpm = %d, want %d", got, model.MinWPM)
	}
}

func TestEngineScrubRestoresPlayback(t *testing.T) {
	e := NewEngine(200, nil)
	e.Load(makeTokens(50), 0)
	e.Play()
	e.ScrubStart()
	if got := e.State(); got != Scrubbing {
		t.Fatalf("state = %v, want scrubbing", got)
	}
	e.ScrubMove(20)
	if got := e.Index(); got != 20 {
		t.Fatalf("index = %d, want 20", got)
	}
	e.ScrubEnd()
	if got := e.State(); got != Playing {
		t.Fatalf("state after scrub end = %v, want playing", got)
	}
	e.Pause()
}

func TestEnginePersistsPausesAndRewinds(t *testing.T) {
	sink := &recordingSink{}
	e := NewEngine(300, sink)
	e.Load(makeTokens(10), 0)
	e.Play()
	e.Pause()
	e.Skip(-1)

	// Sink writes are fire-and-forget; give them a moment to land.
	deadline := time.Now().Add(2 * time.Second)
	for {
		sink.mu.Lock()
		done := sink.pauses >= 1 && sink.rewinds >= 1
		sink.mu.Unlock()
		if done {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("sink never saw pause/rewind: %+v", sink)
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestEngineFinalizeStopsTicks(t *testing.T) {
	e := NewEngine(900, nil)
	e.Load(makeTokens(100), 0)
	e.Play()
	time.Sleep(150 * time.Millisecond)
	e.Finalize(100, nil)
	idx := e.Index()
	time.Sleep(200 * time.Millisecond)
	if got := e.Index(); got != idx {
		t.Fatalf("index advanced after finalize: %d -> %d", idx, got)
	}
}
