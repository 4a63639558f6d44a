// Package stats contains statistics calculations and reporting.
package stats

import (
	"context"
	"io"

	"github.com/satriapamudji/glidereader/internal/model"
	"github.com/satriapamudji/glidereader/internal/store"
)

// Report contains precomputed data for stats rendering.
type Report struct {
	Sessions       []model.SessionRecord
	Documents      []model.Document
	DocumentTitles map[int64]string
}

// BuildReport loads and prepares data for stats rendering.
func BuildReport(ctx context.Context, st *store.Store, cfg model.StatsConfig) (Report, error) {
	sessions, err := st.ListSessions(ctx, cfg)
	if err != nil {
		return Report{}, err
	}
	docs, err := st.ListDocuments(ctx)
	if err != nil {
		return Report{}, err
	}
	titles := make(map[int64]string, len(docs))
	for _, doc := range docs {
		titles[doc.ID] = doc.Title
	}
	return Report{
		Sessions:       sessions,
		Documents:      docs,
		DocumentTitles: titles,
	}, nil
}

// Render writes the full textual stats report.
func Render(w io.Writer, report Report, cfg model.StatsConfig) error {
	if err := RenderSummary(w, report.Sessions); err != nil {
		return err
	}
	if err := RenderCurves(w, report.Sessions, cfg.CurveWindow); err != nil {
		return err
	}
	return RenderSessionTable(w, report.Sessions, report.DocumentTitles)
}
