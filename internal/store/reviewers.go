package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// CreateReviewer saves a study guide for userID and returns its id.
// The saved-at time is taken from the store clock.
func (s *Store) CreateReviewer(ctx context.Context, userID int64, title, content string) (int64, error) {
	db, err := s.handle()
	if err != nil {
		return 0, err
	}
	if err := validateInput(newReviewer{UserID: userID, Title: title, Content: content}); err != nil {
		return 0, err
	}

	result, err := db.ExecContext(ctx,
		"INSERT INTO saved_reviewers (user_id, title, content, date_saved) VALUES (?, ?, ?, ?)",
		userID, title, content, s.timestamp(),
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return 0, fmt.Errorf("%w: %d", ErrUnknownUser, userID)
		}
		return 0, storageError("creating reviewer", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, storageError("reading reviewer id", err)
	}

	s.logger.Info("reviewer saved", "id", id, "user_id", userID)
	return id, nil
}

// ListReviewers returns the user's reviewers, most recently saved first.
func (s *Store) ListReviewers(ctx context.Context, userID int64) ([]Reviewer, error) {
	db, err := s.handle()
	if err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx,
		`SELECT id, user_id, title, content, date_saved FROM saved_reviewers
		 WHERE user_id = ? ORDER BY date_saved DESC, id DESC`,
		userID,
	)
	if err != nil {
		return nil, storageError("listing reviewers", err)
	}
	defer rows.Close()

	reviewers := []Reviewer{}
	for rows.Next() {
		var r Reviewer
		if err := rows.Scan(&r.ID, &r.UserID, &r.Title, &r.Content, &r.DateSaved); err != nil {
			return nil, storageError("scanning reviewer", err)
		}
		reviewers = append(reviewers, r)
	}
	if err := rows.Err(); err != nil {
		return nil, storageError("iterating reviewers", err)
	}
	return reviewers, nil
}

// ListReviewerSummaries is ListReviewers without the content column.
func (s *Store) ListReviewerSummaries(ctx context.Context, userID int64) ([]ReviewerSummary, error) {
	db, err := s.handle()
	if err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx,
		`SELECT id, title, date_saved FROM saved_reviewers
		 WHERE user_id = ? ORDER BY date_saved DESC, id DESC`,
		userID,
	)
	if err != nil {
		return nil, storageError("listing reviewer summaries", err)
	}
	defer rows.Close()

	summaries := []ReviewerSummary{}
	for rows.Next() {
		var r ReviewerSummary
		if err := rows.Scan(&r.ID, &r.Title, &r.DateSaved); err != nil {
			return nil, storageError("scanning reviewer summary", err)
		}
		summaries = append(summaries, r)
	}
	if err := rows.Err(); err != nil {
		return nil, storageError("iterating reviewer summaries", err)
	}
	return summaries, nil
}

// GetReviewerForUser returns reviewer id only if userID owns it.
// A reviewer owned by someone else is reported the same as a missing one: nil.
func (s *Store) GetReviewerForUser(ctx context.Context, id, userID int64) (*Reviewer, error) {
	db, err := s.handle()
	if err != nil {
		return nil, err
	}

	var r Reviewer
	err = db.QueryRowContext(ctx,
		"SELECT id, user_id, title, content, date_saved FROM saved_reviewers WHERE id = ? AND user_id = ?",
		id, userID,
	).Scan(&r.ID, &r.UserID, &r.Title, &r.Content, &r.DateSaved)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil //nolint:nilnil // not found is not an error
	}
	if err != nil {
		return nil, storageError("getting reviewer", err)
	}
	return &r, nil
}

// GetReviewerContent returns only the content of an owned reviewer.
// found is false when the reviewer is missing or owned by another user.
func (s *Store) GetReviewerContent(ctx context.Context, id, userID int64) (content string, found bool, err error) {
	db, err := s.handle()
	if err != nil {
		return "", false, err
	}

	err = db.QueryRowContext(ctx,
		"SELECT content FROM saved_reviewers WHERE id = ? AND user_id = ?",
		id, userID,
	).Scan(&content)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, storageError("getting reviewer content", err)
	}
	return content, true, nil
}

// DeleteReviewerForUser removes reviewer id if userID owns it and reports
// whether a row was deleted.
func (s *Store) DeleteReviewerForUser(ctx context.Context, id, userID int64) (bool, error) {
	db, err := s.handle()
	if err != nil {
		return false, err
	}

	result, err := db.ExecContext(ctx,
		"DELETE FROM saved_reviewers WHERE id = ? AND user_id = ?",
		id, userID,
	)
	if err != nil {
		return false, storageError("deleting reviewer", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return false, storageError("reading deleted rows", err)
	}
	if n == 0 {
		return false, nil
	}

	s.logger.Info("reviewer deleted", "id", id, "user_id", userID)
	return true, nil
}
