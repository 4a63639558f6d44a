// Package metrics derives live and final session statistics from the
// playback stream without retaining every tick.
package metrics

import (
	"math"
	"time"

	"github.com/satriapamudji/glidereader/internal/model"
)

const sustainedWindow = 60 * time.Second

// Aggregator accumulates statistics for one reading session. It is not
// safe for concurrent use; the engine serializes access.
type Aggregator struct {
	avgWPM      float64
	samples     int
	window      []model.SpeedSample
	tokensRead  int
	pauseCount  int
	rewindCount int
	finalized   bool
	final       model.SessionMetrics
}

// NewAggregator seeds the running average with the configured default
// speed, which holds until the first real sample arrives.
func NewAggregator(defaultWPM int) *Aggregator {
	return &Aggregator{avgWPM: float64(defaultWPM)}
}

// AddSample records a speed observation and evicts window entries older
// than 60 seconds relative to the newest sample.
func (a *Aggregator) AddSample(at time.Time, wpm float64) {
	if a.finalized {
		return
	}
	a.avgWPM = (a.avgWPM*float64(a.samples) + wpm) / float64(a.samples+1)
	a.samples++
	a.window = append(a.window, model.SpeedSample{At: at, WPM: wpm})
	cutoff := at.Add(-sustainedWindow)
	trim := 0
	for trim < len(a.window) && a.window[trim].At.Before(cutoff) {
		trim++
	}
	a.window = a.window[trim:]
}

// Advance records the furthest token position reached so far.
func (a *Aggregator) Advance(tokenIndex int) {
	if a.finalized {
		return
	}
	if tokenIndex+1 > a.tokensRead {
		a.tokensRead = tokenIndex + 1
	}
}

// RecordPause counts one user pause.
func (a *Aggregator) RecordPause() {
	if !a.finalized {
		a.pauseCount++
	}
}

// RecordRewind counts one backwards seek.
func (a *Aggregator) RecordRewind() {
	if !a.finalized {
		a.rewindCount++
	}
}

// AverageWPM returns the running weighted mean speed.
func (a *Aggregator) AverageWPM() float64 { return a.avgWPM }

// PauseCount returns the number of recorded pauses.
func (a *Aggregator) PauseCount() int { return a.pauseCount }

// RewindCount returns the number of recorded rewinds.
func (a *Aggregator) RewindCount() int { return a.rewindCount }

// BestSustainedWPM scans every sample's forward 60-second window and
// returns the highest window average, rounded to the nearest integer.
// Windows holding a single sample carry no signal and are skipped.
// Quadratic over the buffer, which the 60-second eviction keeps small.
func (a *Aggregator) BestSustainedWPM() int {
	best := 0.0
	found := false
	for i, s := range a.window {
		end := s.At.Add(sustainedWindow)
		sum := 0.0
		count := 0
		for _, other := range a.window[i:] {
			if other.At.After(end) {
				break
			}
			sum += other.WPM
			count++
		}
		if count < 2 {
			continue
		}
		avg := sum / float64(count)
		if !found || avg > best {
			best = avg
			found = true
		}
	}
	if !found {
		return 0
	}
	return int(math.Round(best))
}

// CompletionOverall returns tokenIndex/totalTokens in [0, 1].
func CompletionOverall(tokenIndex, totalTokens int) float64 {
	if totalTokens <= 0 {
		return 0
	}
	ratio := float64(tokenIndex) / float64(totalTokens)
	if ratio < 0 {
		return 0
	}
	if ratio > 1 {
		return 1
	}
	return ratio
}

// CompletionChapter returns the completion ratio within whichever
// chapter range contains tokenIndex. When no chapter contains the index
// the ratio is 0 during play; finalization treats an un-chaptered
// position as fully complete instead.
func CompletionChapter(tokenIndex int, chapters []model.Chapter, finalizing bool) float64 {
	for _, ch := range chapters {
		if tokenIndex < ch.StartToken || tokenIndex >= ch.EndToken {
			continue
		}
		span := ch.EndToken - ch.StartToken
		if span <= 0 {
			continue
		}
		return float64(tokenIndex-ch.StartToken) / float64(span)
	}
	if finalizing {
		return 1.0
	}
	return 0
}

// Finalize freezes the session statistics. Further mutations no-op and
// repeated calls return the same snapshot.
func (a *Aggregator) Finalize(tokenIndex, totalTokens int, chapters []model.Chapter) model.SessionMetrics {
	if a.finalized {
		return a.final
	}
	a.finalized = true
	completion := CompletionOverall(tokenIndex, totalTokens)
	best := a.BestSustainedWPM()
	a.final = model.SessionMetrics{
		TokensRead:        a.tokensRead,
		AverageWPM:        a.avgWPM,
		BestSustainedWPM:  best,
		PauseCount:        a.pauseCount,
		RewindCount:       a.rewindCount,
		CompletionOverall: completion,
		CompletionChapter: CompletionChapter(tokenIndex, chapters, true),
		GlideScore:        GlideScore(a.avgWPM, float64(best), completion),
	}
	return a.final
}
