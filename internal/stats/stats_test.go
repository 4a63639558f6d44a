package stats

import (
	"strings"
	"testing"
	"time"

	"github.com/satriapamudji/glidereader/internal/model"
)

func TestSummarize(t *testing.T) {
	sessions := []model.SessionRecord{
		{AverageWPM: 300, BestSustainedWPM: 320, TokensRead: 100, Completion: 0.5, GlideScore: 60},
		{AverageWPM: 400, BestSustainedWPM: 450, TokensRead: 200, Completion: 1.0, GlideScore: 80},
	}
	s := Summarize(sessions)
	if s.Sessions != 2 || s.TotalTokens != 300 {
		t.Fatalf("unexpected counts: %+v", s)
	}
	if s.AvgWPM != 350 || s.BestSustained != 450 {
		t.Fatalf("unexpected speeds: %+v", s)
	}
	if s.AvgGlideScore != 70 || s.AvgCompletion != 0.75 {
		t.Fatalf("unexpected averages: %+v", s)
	}
}

func TestSummarizeEmpty(t *testing.T) {
	s := Summarize(nil)
	if s.Sessions != 0 || s.AvgWPM != 0 || s.BestSustained != 0 {
		t.Fatalf("empty summary should be zero, got %+v", s)
	}
}

func TestMovingAverage(t *testing.T) {
	values := []float64{1, 2, 3, 4, 5}
	out := MovingAverage(values, 2)
	want := []float64{1, 1.5, 2.5, 3.5, 4.5}
	if len(out) != len(want) {
		t.Fatalf("expected %d values, got %d", len(want), len(out))
	}
	for i := range want {
		if out[i] != want[i] {
			t.Fatalf("at %d: expected %v, got %v", i, want[i], out[i])
		}
	}
}

func TestMovingAverageWindowOne(t *testing.T) {
	values := []float64{3, 1, 4}
	out := MovingAverage(values, 1)
	for i := range values {
		if out[i] != values[i] {
			t.Fatalf("window 1 should be identity, got %v", out)
		}
	}
}

func TestSparkline(t *testing.T) {
	line := Sparkline([]float64{0, 50, 100})
	if len(line) != 3 {
		t.Fatalf("expected 3 chars, got %q", line)
	}
	if line[0] != ' ' || line[2] != '@' {
		t.Fatalf("expected full range markers, got %q", line)
	}
	flat := Sparkline([]float64{5, 5, 5})
	if flat != strings.Repeat(string(sparkChars[len(sparkChars)/2]), 3) {
		t.Fatalf("flat series should use the midpoint char, got %q", flat)
	}
	if Sparkline(nil) != "" {
		t.Fatalf("empty series should produce empty sparkline")
	}
}

func TestRenderSummaryEmpty(t *testing.T) {
	var b strings.Builder
	if err := RenderSummary(&b, nil); err != nil {
		t.Fatalf("render summary: %v", err)
	}
	if !strings.Contains(b.String(), "No sessions found.") {
		t.Fatalf("expected empty notice, got %q", b.String())
	}
}

func TestRenderSessionTable(t *testing.T) {
	sessions := []model.SessionRecord{
		{
			DocumentID:       1,
			StartedAt:        time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC),
			AverageWPM:       312.4,
			BestSustainedWPM: 340,
			TokensRead:       1500,
			Completion:       0.82,
			GlideScore:       71,
		},
	}
	var b strings.Builder
	if err := RenderSessionTable(&b, sessions, map[int64]string{1: "My Book"}); err != nil {
		t.Fatalf("render table: %v", err)
	}
	out := b.String()
	if !strings.Contains(out, "My Book") {
		t.Fatalf("expected document title, got %q", out)
	}
	if !strings.Contains(out, "312") || !strings.Contains(out, "82%") {
		t.Fatalf("expected session numbers, got %q", out)
	}
}
