package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// FeedbackParams holds the fields for one feedback row. The id and
// created_at columns are assigned by the store.
type FeedbackParams struct {
	Email       string
	University  string
	Program     string
	ResumeNotes string
	SOPNotes    string
	LORNotes    string
}

// FeedbackNotes is the note triple of one feedback row. An invalid field
// means the column was NULL; the zero value means no row matched at all.
type FeedbackNotes struct {
	Resume sql.NullString
	SOP    sql.NullString
	LOR    sql.NullString
}

// HasAny reports whether at least one note field holds non-empty text.
// A row whose notes are all empty is indistinguishable from no row, which
// mirrors how the review workflow picks initial vs re-evaluation mode.
func (n FeedbackNotes) HasAny() bool {
	for _, f := range []sql.NullString{n.Resume, n.SOP, n.LOR} {
		if f.Valid && f.String != "" {
			return true
		}
	}
	return false
}

// InsertFeedback appends a new feedback row. Rows are never updated or
// deleted; history for a key is the ordered set of its rows.
func (s *Store) InsertFeedback(ctx context.Context, p FeedbackParams) (int64, error) {
	res, err := s.ExecContext(ctx, `
		INSERT INTO feedback (email, university, program, created_at, resume_improvements, sop_improvements, lor_improvements)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		p.Email, p.University, p.Program,
		time.Now().UTC().Format(time.RFC3339),
		p.ResumeNotes, p.SOPNotes, p.LORNotes,
	)
	if err != nil {
		return 0, fmt.Errorf("insert feedback: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("feedback row id: %w", err)
	}
	return id, nil
}

// LatestFeedback returns the note triple of the highest-id row for the
// exact (email, university, program) key. Ordering is by id, not
// created_at: row ids are monotonic while timestamps are not guaranteed
// to be. Returns the zero value when no row matches.
func (s *Store) LatestFeedback(ctx context.Context, email, university, program string) (FeedbackNotes, error) {
	var notes FeedbackNotes
	err := s.QueryRowContext(ctx, `
		SELECT resume_improvements, sop_improvements, lor_improvements
		FROM feedback
		WHERE email = ? AND university = ? AND program = ?
		ORDER BY id DESC LIMIT 1`,
		email, university, program,
	).Scan(&notes.Resume, &notes.SOP, &notes.LOR)
	if errors.Is(err, sql.ErrNoRows) {
		return FeedbackNotes{}, nil
	}
	if err != nil {
		return FeedbackNotes{}, fmt.Errorf("query latest feedback: %w", err)
	}
	return notes, nil
}

// CountFeedback returns the total number of feedback rows.
func (s *Store) CountFeedback(ctx context.Context) (int64, error) {
	var count int64
	if err := s.QueryRowContext(ctx, "SELECT COUNT(*) FROM feedback").Scan(&count); err != nil {
		return 0, fmt.Errorf("count feedback: %w", err)
	}
	return count, nil
}
