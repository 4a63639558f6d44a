// Package model defines shared data structures.
package model

import "time"

// Token is one display unit of an RSVP stream. Immutable once produced.
type Token struct {
	Text            string
	AnchorIndex     int
	PauseMultiplier float64
}

// PauseProfile maps punctuation classes to duration multipliers.
// Paragraph is expected to be the largest value in any sane profile.
type PauseProfile struct {
	Name        string
	Comma       float64
	Semicolon   float64
	Colon       float64
	Period      float64
	Exclamation float64
	Question    float64
	Paragraph   float64
}

// The single shared profile table. Nothing else in the module defines
// pause multipliers.
var pauseProfiles = []PauseProfile{
	{Name: "fast", Comma: 0.2, Semicolon: 0.2, Colon: 0.3, Period: 0.6, Exclamation: 0.6, Question: 0.6, Paragraph: 1.2},
	{Name: "normal", Comma: 0.4, Semicolon: 0.4, Colon: 0.6, Period: 1.2, Exclamation: 1.2, Question: 1.2, Paragraph: 2.2},
	{Name: "slow", Comma: 0.8, Semicolon: 0.8, Colon: 1.0, Period: 2.0, Exclamation: 2.0, Question: 2.0, Paragraph: 3.6},
}

// ProfileByName returns the named pause profile, or false if unknown.
func ProfileByName(name string) (PauseProfile, bool) {
	for _, p := range pauseProfiles {
		if p.Name == name {
			return p, true
		}
	}
	return PauseProfile{}, false
}

// ProfileNames lists the available pause profile names in order.
func ProfileNames() []string {
	names := make([]string, 0, len(pauseProfiles))
	for _, p := range pauseProfiles {
		names = append(names, p.Name)
	}
	return names
}

// Speed bounds for the WPM control. The playback engine clamps to these.
const (
	MinWPM     = 200
	MaxWPM     = 900
	DefaultWPM = 300
)

// Document is a stored text plus its token count and reading position.
type Document struct {
	ID           int64
	Title        string
	SourceType   string
	ContentHash  string
	Text         string
	TotalTokens  int
	LastPosition int
	Finished     bool
	CreatedAt    time.Time
}

// Chapter is a half-open token range [StartToken, EndToken) within a document.
type Chapter struct {
	Title      string
	StartToken int
	EndToken   int
}

// SpeedSample is one point of the trailing speed window.
type SpeedSample struct {
	At  time.Time
	WPM float64
}

// SessionMetrics holds the statistics accumulated over one reading session.
type SessionMetrics struct {
	TokensRead        int
	AverageWPM        float64
	BestSustainedWPM  int
	PauseCount        int
	RewindCount       int
	CompletionOverall float64
	CompletionChapter float64
	GlideScore        int
}

// SessionRecord is a persisted reading session (possibly still open).
type SessionRecord struct {
	ID               int64
	DocumentID       int64
	StartedAt        time.Time
	EndedAt          time.Time
	StartWPM         int
	AverageWPM       float64
	BestSustainedWPM int
	TokensRead       int
	PauseCount       int
	RewindCount      int
	Completion       float64
	GlideScore       int
	Finalized        bool
}

// Config defines reading settings resolved from flags and the config file.
type Config struct {
	WPM       int
	Profile   string
	FromStart bool
}

// StatsConfig defines filters and options for stats output.
type StatsConfig struct {
	Since       *time.Time
	Last        int
	CurveWindow int
}
