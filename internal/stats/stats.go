// Package stats contains statistics calculations and reporting.
package stats

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/satriapamudji/glidereader/internal/model"
)

const sparkChars = " .:-=+*#%@"

// Summary aggregates finalized sessions into headline numbers.
type Summary struct {
	Sessions      int
	TotalTokens   int
	AvgWPM        float64
	BestSustained int
	AvgGlideScore float64
	AvgCompletion float64
}

// Summarize computes headline numbers over the given sessions.
func Summarize(sessions []model.SessionRecord) Summary {
	s := Summary{Sessions: len(sessions)}
	if len(sessions) == 0 {
		return s
	}
	var wpmSum, scoreSum, completionSum float64
	for _, rec := range sessions {
		s.TotalTokens += rec.TokensRead
		wpmSum += rec.AverageWPM
		scoreSum += float64(rec.GlideScore)
		completionSum += rec.Completion
		if rec.BestSustainedWPM > s.BestSustained {
			s.BestSustained = rec.BestSustainedWPM
		}
	}
	count := float64(len(sessions))
	s.AvgWPM = wpmSum / count
	s.AvgGlideScore = scoreSum / count
	s.AvgCompletion = completionSum / count
	return s
}

// MovingAverage computes a rolling mean over the provided window size.
func MovingAverage(values []float64, window int) []float64 {
	if window <= 1 || len(values) == 0 {
		out := make([]float64, len(values))
		copy(out, values)
		return out
	}
	out := make([]float64, len(values))
	var sum float64
	for i := 0; i < len(values); i++ {
		sum += values[i]
		if i >= window {
			sum -= values[i-window]
		}
		den := float64(i + 1)
		if i >= window {
			den = float64(window)
		}
		out[i] = sum / den
	}
	return out
}

// Sparkline renders a single-line ASCII sparkline for the values.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	minVal := values[0]
	maxVal := values[0]
	for _, v := range values[1:] {
		if v < minVal {
			minVal = v
		}
		if v > maxVal {
			maxVal = v
		}
	}
	if math.Abs(maxVal-minVal) < 1e-9 {
		return strings.Repeat(string(sparkChars[len(sparkChars)/2]), len(values))
	}
	var b strings.Builder
	for _, v := range values {
		pos := (v - minVal) / (maxVal - minVal)
		idx := int(math.Round(pos * float64(len(sparkChars)-1)))
		if idx < 0 {
			idx = 0
		}
		if idx >= len(sparkChars) {
			idx = len(sparkChars) - 1
		}
		b.WriteByte(sparkChars[idx])
	}
	return b.String()
}

// RenderSummary prints a summary block for sessions.
func RenderSummary(w io.Writer, sessions []model.SessionRecord) error {
	if len(sessions) == 0 {
		_, err := fmt.Fprintln(w, "No sessions found.")
		return err
	}
	s := Summarize(sessions)
	if _, err := fmt.Fprintln(w, "Summary"); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Sessions: %d\n", s.Sessions); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Tokens read: %d\n", s.TotalTokens); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Avg WPM: %.1f\n", s.AvgWPM); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Best sustained WPM: %d\n", s.BestSustained); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Avg completion: %.0f%%\n", s.AvgCompletion*100); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Avg glide score: %.1f\n", s.AvgGlideScore); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w, ""); err != nil {
		return err
	}
	return nil
}

// RenderCurves prints speed and score curves over the sessions.
func RenderCurves(w io.Writer, sessions []model.SessionRecord, window int) error {
	return RenderCurvesWithSize(w, sessions, window, 0, 10)
}

// RenderCurvesWithSize prints speed and score curves sized to a given
// total width.
func RenderCurvesWithSize(w io.Writer, sessions []model.SessionRecord, window, totalWidth, height int) error {
	if len(sessions) == 0 {
		return nil
	}
	wpms := make([]float64, len(sessions))
	scores := make([]float64, len(sessions))
	for i, rec := range sessions {
		wpms[i] = rec.AverageWPM
		scores[i] = float64(rec.GlideScore)
	}
	wpms = MovingAverage(wpms, window)
	scores = MovingAverage(scores, window)

	width := 0
	if totalWidth > 0 {
		width = PlotWidthFor(totalWidth)
	}
	return PlotSeries(w, "Reading Curves", []Series{
		{Name: "WPM", Values: wpms},
		{Name: "Glide Score", Values: scores},
	}, width, height)
}

// RenderSessionTable prints one row per session, oldest first.
func RenderSessionTable(w io.Writer, sessions []model.SessionRecord, titles map[int64]string) error {
	if len(sessions) == 0 {
		return nil
	}
	headers := []string{"Date", "Document", "WPM", "Best 60s", "Tokens", "Done", "Score"}
	rows := make([][]string, 0, len(sessions))
	for _, rec := range sessions {
		title := titles[rec.DocumentID]
		if title == "" {
			title = fmt.Sprintf("#%d", rec.DocumentID)
		}
		rows = append(rows, []string{
			rec.StartedAt.Format("2006-01-02 15:04"),
			title,
			fmt.Sprintf("%.0f", rec.AverageWPM),
			fmt.Sprintf("%d", rec.BestSustainedWPM),
			fmt.Sprintf("%d", rec.TokensRead),
			fmt.Sprintf("%.0f%%", rec.Completion*100),
			fmt.Sprintf("%d", rec.GlideScore),
		})
	}
	rightAlign := map[int]bool{2: true, 3: true, 4: true, 5: true, 6: true}
	if _, err := fmt.Fprintln(w, "Sessions"); err != nil {
		return err
	}
	for _, line := range formatTable(headers, rows, rightAlign) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintln(w, ""); err != nil {
		return err
	}
	return nil
}
