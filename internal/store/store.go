// Package store handles SQLite persistence for documents and sessions.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/satriapamudji/glidereader/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

// finishedThreshold is the consumed-token ratio at which a document
// counts as read. Deliberately below 1.0 to tolerate trailing artifacts.
const finishedThreshold = 0.95

// Store wraps SQLite access for documents, chapters and sessions.
type Store struct {
	db *sql.DB
}

// Open opens or creates the SQLite database and applies migrations.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS documents (
			id INTEGER PRIMARY KEY,
			title TEXT NOT NULL,
			source_type TEXT NOT NULL,
			content_hash TEXT NOT NULL UNIQUE,
			text TEXT NOT NULL,
			total_tokens INTEGER NOT NULL,
			last_position INTEGER NOT NULL DEFAULT 0,
			finished INTEGER NOT NULL DEFAULT 0,
			created_at TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS chapters (
			document_id INTEGER NOT NULL,
			seq INTEGER NOT NULL,
			title TEXT NOT NULL,
			start_token INTEGER NOT NULL,
			end_token INTEGER NOT NULL,
			PRIMARY KEY (document_id, seq)
		);`,
		`CREATE TABLE IF NOT EXISTS sessions (
			id INTEGER PRIMARY KEY,
			document_id INTEGER NOT NULL,
			started_at TEXT NOT NULL,
			ended_at TEXT NOT NULL DEFAULT '',
			start_wpm INTEGER NOT NULL,
			avg_wpm REAL NOT NULL DEFAULT 0,
			best_sustained_wpm INTEGER NOT NULL DEFAULT 0,
			tokens_read INTEGER NOT NULL DEFAULT 0,
			pause_count INTEGER NOT NULL DEFAULT 0,
			rewind_count INTEGER NOT NULL DEFAULT 0,
			completion REAL NOT NULL DEFAULT 0,
			glide_score INTEGER NOT NULL DEFAULT 0,
			finalized INTEGER NOT NULL DEFAULT 0
		);`,
		`CREATE INDEX IF NOT EXISTS idx_sessions_document ON sessions(document_id);`,
		`CREATE INDEX IF NOT EXISTS idx_sessions_started_at ON sessions(started_at);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// CreateDocument stores a document with its chapter ranges and returns
// it with the assigned ID.
func (s *Store) CreateDocument(ctx context.Context, src model.Document, chapters []model.Chapter) (model.Document, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return model.Document{}, err
	}
	defer func() {
		if err != nil {
			if rerr := tx.Rollback(); rerr != nil {
				// Best-effort rollback.
				_ = rerr
			}
		}
	}()

	createdAt := src.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}
	res, err := tx.ExecContext(ctx,
		`INSERT INTO documents (title, source_type, content_hash, text, total_tokens, last_position, finished, created_at)
		 VALUES (?, ?, ?, ?, ?, 0, 0, ?)`,
		src.Title, src.SourceType, src.ContentHash, src.Text, src.TotalTokens,
		createdAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return model.Document{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.Document{}, err
	}

	if len(chapters) > 0 {
		var stmt *sql.Stmt
		stmt, err = tx.PrepareContext(ctx,
			`INSERT INTO chapters (document_id, seq, title, start_token, end_token) VALUES (?, ?, ?, ?, ?)`)
		if err != nil {
			return model.Document{}, err
		}
		defer func() {
			if cerr := stmt.Close(); cerr != nil {
				// Best-effort statement close.
				_ = cerr
			}
		}()
		for i, ch := range chapters {
			if _, err = stmt.ExecContext(ctx, id, i, ch.Title, ch.StartToken, ch.EndToken); err != nil {
				return model.Document{}, err
			}
		}
	}

	if err = tx.Commit(); err != nil {
		return model.Document{}, err
	}
	doc := src
	doc.ID = id
	doc.CreatedAt = createdAt
	doc.LastPosition = 0
	doc.Finished = false
	return doc, nil
}

// FindDocumentByHash returns the stored document with the given content
// hash, or false when none exists.
func (s *Store) FindDocumentByHash(ctx context.Context, hash string) (model.Document, bool, error) {
	doc, err := s.scanDocument(s.db.QueryRowContext(ctx,
		`SELECT id, title, source_type, content_hash, text, total_tokens, last_position, finished, created_at
		 FROM documents WHERE content_hash = ?`, hash))
	if err == sql.ErrNoRows {
		return model.Document{}, false, nil
	}
	if err != nil {
		return model.Document{}, false, err
	}
	return doc, true, nil
}

// GetDocument returns the document with the given ID.
func (s *Store) GetDocument(ctx context.Context, id int64) (model.Document, error) {
	doc, err := s.scanDocument(s.db.QueryRowContext(ctx,
		`SELECT id, title, source_type, content_hash, text, total_tokens, last_position, finished, created_at
		 FROM documents WHERE id = ?`, id))
	if err != nil {
		return model.Document{}, err
	}
	return doc, nil
}

// LatestDocument returns the most recently read document, or false when
// the library is empty.
func (s *Store) LatestDocument(ctx context.Context) (model.Document, bool, error) {
	doc, err := s.scanDocument(s.db.QueryRowContext(ctx,
		`SELECT d.id, d.title, d.source_type, d.content_hash, d.text, d.total_tokens, d.last_position, d.finished, d.created_at
		 FROM documents d
		 LEFT JOIN sessions s ON s.document_id = d.id
		 GROUP BY d.id
		 ORDER BY COALESCE(MAX(s.started_at), d.created_at) DESC
		 LIMIT 1`))
	if err == sql.ErrNoRows {
		return model.Document{}, false, nil
	}
	if err != nil {
		return model.Document{}, false, err
	}
	return doc, true, nil
}

// ListDocuments returns all documents, most recently created first,
// without their stored text.
func (s *Store) ListDocuments(ctx context.Context) ([]model.Document, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, title, source_type, content_hash, '', total_tokens, last_position, finished, created_at
		 FROM documents ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var docs []model.Document
	for rows.Next() {
		doc, err := s.scanDocument(rows)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return docs, nil
}

// ListChapters returns the chapter ranges for a document in order.
func (s *Store) ListChapters(ctx context.Context, documentID int64) ([]model.Chapter, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT title, start_token, end_token FROM chapters WHERE document_id = ? ORDER BY seq ASC`, documentID)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var chapters []model.Chapter
	for rows.Next() {
		var ch model.Chapter
		if err := rows.Scan(&ch.Title, &ch.StartToken, &ch.EndToken); err != nil {
			return nil, err
		}
		chapters = append(chapters, ch)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return chapters, nil
}

// UpdateDocumentPosition stores the reading position and flips the
// finished flag once the consumed-token ratio crosses the threshold.
// Updating a deleted document is a silent no-op.
func (s *Store) UpdateDocumentPosition(ctx context.Context, id int64, tokenIndex int) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE documents
		 SET last_position = ?,
		     finished = CASE WHEN total_tokens > 0 AND (CAST(? AS REAL) + 1) / total_tokens >= ? THEN 1 ELSE finished END
		 WHERE id = ?`,
		tokenIndex, tokenIndex, finishedThreshold, id)
	return err
}

// CreateSession opens a session row for a document.
func (s *Store) CreateSession(ctx context.Context, documentID int64, startWPM int) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO sessions (document_id, started_at, start_wpm) VALUES (?, ?, ?)`,
		documentID, time.Now().Format(time.RFC3339Nano), startWPM)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// UpdateSessionProgress records incremental progress. A session that no
// longer exists (or was already finalized) is a silent no-op; losing a
// progress write must never surface into playback.
func (s *Store) UpdateSessionProgress(ctx context.Context, sessionID int64, tokenIndex, wpm int, isPause, isRewind bool) error {
	pause := 0
	if isPause {
		pause = 1
	}
	rewind := 0
	if isRewind {
		rewind = 1
	}
	_, err := s.db.ExecContext(ctx,
		`UPDATE sessions
		 SET tokens_read = MAX(tokens_read, ? + 1),
		     pause_count = pause_count + ?,
		     rewind_count = rewind_count + ?
		 WHERE id = ? AND finalized = 0`,
		tokenIndex, pause, rewind, sessionID)
	return err
}

// FinalizeSession freezes a session with its final statistics. Missing
// rows are a silent no-op.
func (s *Store) FinalizeSession(ctx context.Context, sessionID int64, final model.SessionMetrics) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE sessions
		 SET ended_at = ?, avg_wpm = ?, best_sustained_wpm = ?, tokens_read = ?,
		     pause_count = ?, rewind_count = ?, completion = ?, glide_score = ?, finalized = 1
		 WHERE id = ? AND finalized = 0`,
		time.Now().Format(time.RFC3339Nano),
		final.AverageWPM, final.BestSustainedWPM, final.TokensRead,
		final.PauseCount, final.RewindCount, final.CompletionOverall, final.GlideScore,
		sessionID)
	return err
}

// ListSessions returns finalized sessions filtered by stats config,
// oldest first.
func (s *Store) ListSessions(ctx context.Context, cfg model.StatsConfig) ([]model.SessionRecord, error) {
	clauses := []string{"finalized = 1"}
	args := []any{}
	if cfg.Since != nil {
		clauses = append(clauses, "started_at >= ?")
		args = append(args, cfg.Since.Format(time.RFC3339Nano))
	}
	query := fmt.Sprintf(`SELECT id, document_id, started_at, ended_at, start_wpm, avg_wpm, best_sustained_wpm,
			tokens_read, pause_count, rewind_count, completion, glide_score
		FROM sessions
		WHERE %s
		ORDER BY started_at ASC`, strings.Join(clauses, " AND "))
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var sessions []model.SessionRecord
	for rows.Next() {
		var rec model.SessionRecord
		var startedAt, endedAt string
		if err := rows.Scan(&rec.ID, &rec.DocumentID, &startedAt, &endedAt, &rec.StartWPM,
			&rec.AverageWPM, &rec.BestSustainedWPM, &rec.TokensRead,
			&rec.PauseCount, &rec.RewindCount, &rec.Completion, &rec.GlideScore); err != nil {
			return nil, err
		}
		rec.Finalized = true
		if rec.StartedAt, err = time.Parse(time.RFC3339Nano, startedAt); err != nil {
			return nil, err
		}
		if endedAt != "" {
			if rec.EndedAt, err = time.Parse(time.RFC3339Nano, endedAt); err != nil {
				return nil, err
			}
		}
		sessions = append(sessions, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if cfg.Last > 0 && len(sessions) > cfg.Last {
		sessions = sessions[len(sessions)-cfg.Last:]
	}
	return sessions, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (s *Store) scanDocument(row rowScanner) (model.Document, error) {
	var doc model.Document
	var finished int
	var createdAt string
	if err := row.Scan(&doc.ID, &doc.Title, &doc.SourceType, &doc.ContentHash, &doc.Text,
		&doc.TotalTokens, &doc.LastPosition, &finished, &createdAt); err != nil {
		return model.Document{}, err
	}
	doc.Finished = finished != 0
	parsed, err := time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return model.Document{}, err
	}
	doc.CreatedAt = parsed
	return doc, nil
}
