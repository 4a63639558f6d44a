package store

import "context"

// Sink adapts a Store to the playback engine's persistence interface
// for one document/session pair. Writes are best-effort; playback never
// sees storage failures.
type Sink struct {
	store      *Store
	documentID int64
	sessionID  int64
}

// NewSink creates a sink for the given document and session.
func NewSink(s *Store, documentID, sessionID int64) *Sink {
	return &Sink{store: s, documentID: documentID, sessionID: sessionID}
}

// SavePosition stores the current reading position on the document.
func (s *Sink) SavePosition(ctx context.Context, tokenIndex int) {
	if err := s.store.UpdateDocumentPosition(ctx, s.documentID, tokenIndex); err != nil {
		// Best-effort position write.
		_ = err
	}
}

// SaveProgress records incremental session progress.
func (s *Sink) SaveProgress(ctx context.Context, tokenIndex, wpm int, isPause, isRewind bool) {
	if err := s.store.UpdateSessionProgress(ctx, s.sessionID, tokenIndex, wpm, isPause, isRewind); err != nil {
		// Best-effort progress write.
		_ = err
	}
}
