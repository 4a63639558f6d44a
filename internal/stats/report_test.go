package stats

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/satriapamudji/glidereader/internal/model"
	"github.com/satriapamudji/glidereader/internal/store"
)

func TestBuildReport(t *testing.T) {
	dir := t.TempDir()
	st, err := store.Open(filepath.Join(dir, "glide.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})

	ctx := context.Background()
	doc, err := st.CreateDocument(ctx, model.Document{
		Title:       "Report Book",
		SourceType:  "txt",
		ContentHash: "report-hash",
		Text:        "text",
		TotalTokens: 100,
	}, nil)
	if err != nil {
		t.Fatalf("create document: %v", err)
	}

	var ids []int64
	for i := 0; i < 3; i++ {
		id, err := st.CreateSession(ctx, doc.ID, 300)
		if err != nil {
			t.Fatalf("create session: %v", err)
		}
		if err := st.FinalizeSession(ctx, id, model.SessionMetrics{
			TokensRead:        (i + 1) * 10,
			AverageWPM:        300 + float64(i)*10,
			BestSustainedWPM:  320,
			CompletionOverall: 0.5,
			GlideScore:        60,
		}); err != nil {
			t.Fatalf("finalize session: %v", err)
		}
		ids = append(ids, id)
	}

	report, err := BuildReport(ctx, st, model.StatsConfig{Last: 2, CurveWindow: 2})
	if err != nil {
		t.Fatalf("build report: %v", err)
	}
	if len(report.Sessions) != 2 {
		t.Fatalf("expected 2 sessions, got %d", len(report.Sessions))
	}
	if report.Sessions[0].ID != ids[1] || report.Sessions[1].ID != ids[2] {
		t.Fatalf("unexpected session ids: %+v", report.Sessions)
	}
	if report.DocumentTitles[doc.ID] != "Report Book" {
		t.Fatalf("expected document title mapping, got %+v", report.DocumentTitles)
	}

	var b strings.Builder
	if err := Render(&b, report, model.StatsConfig{CurveWindow: 2}); err != nil {
		t.Fatalf("render report: %v", err)
	}
	out := b.String()
	if !strings.Contains(out, "Summary") || !strings.Contains(out, "Report Book") {
		t.Fatalf("expected summary and table in output, got %q", out)
	}
}
