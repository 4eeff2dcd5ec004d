package store

import (
	"context"
	"fmt"
)

// CreateQuizResult records a quiz attempt and returns its id.
// Percentage must be within 0..100; it is not checked against Score.
// Date is normalised to UTC so results sort newest first.
func (s *Store) CreateQuizResult(ctx context.Context, q NewQuizResult) (int64, error) {
	db, err := s.handle()
	if err != nil {
		return 0, err
	}
	if err := validateInput(q); err != nil {
		return 0, err
	}
	takenAt, err := ParseTimestamp(q.Date)
	if err != nil {
		return 0, err
	}

	result, err := db.ExecContext(ctx,
		"INSERT INTO quiz_results (user_id, title, score, percentage, date) VALUES (?, ?, ?, ?, ?)",
		q.UserID, q.Title, q.Score, q.Percentage, FormatTimestamp(takenAt),
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return 0, fmt.Errorf("%w: %d", ErrUnknownUser, q.UserID)
		}
		return 0, storageError("creating quiz result", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, storageError("reading quiz result id", err)
	}

	s.logger.Info("quiz result saved", "id", id, "user_id", q.UserID, "percentage", q.Percentage)
	return id, nil
}

// ListQuizResults returns the user's quiz results, newest first.
func (s *Store) ListQuizResults(ctx context.Context, userID int64) ([]QuizResult, error) {
	db, err := s.handle()
	if err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx,
		`SELECT id, user_id, title, score, percentage, date FROM quiz_results
		 WHERE user_id = ? ORDER BY date DESC, id DESC`,
		userID,
	)
	if err != nil {
		return nil, storageError("listing quiz results", err)
	}
	defer rows.Close()

	results := []QuizResult{}
	for rows.Next() {
		var q QuizResult
		if err := rows.Scan(&q.ID, &q.UserID, &q.Title, &q.Score, &q.Percentage, &q.Date); err != nil {
			return nil, storageError("scanning quiz result", err)
		}
		results = append(results, q)
	}
	if err := rows.Err(); err != nil {
		return nil, storageError("iterating quiz results", err)
	}
	return results, nil
}
