package influxdb

import (
	"strconv"
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api/write"
)

// Measurement names.
const (
	measurementQuizScores    = "quiz_scores"
	measurementStudyActivity = "study_activity"
)

// Study activity actions.
const (
	ActionReviewerSaved   = "reviewer_saved"
	ActionReviewerDeleted = "reviewer_deleted"
)

// WriteQuizScore records one quiz attempt as a quiz_scores point.
//
// takenAt is the attempt's stored date, so the point lines up with the
// quiz history the app shows.
func (c *Client) WriteQuizScore(userID int64, title string, percentage int, takenAt time.Time) {
	if c.closed.Load() {
		return
	}
	c.points.WritePoint(quizScorePoint(userID, title, percentage, takenAt))
}

// WriteStudyActivity records a reviewer save or delete for a user.
func (c *Client) WriteStudyActivity(userID int64, action string) {
	if c.closed.Load() {
		return
	}
	c.points.WritePoint(studyActivityPoint(userID, action, time.Now()))
}

// quizScorePoint builds the point written by WriteQuizScore.
// The quiz title is a field, not a tag, to keep series cardinality bounded.
func quizScorePoint(userID int64, title string, percentage int, takenAt time.Time) *write.Point {
	return write.NewPoint(
		measurementQuizScores,
		map[string]string{
			"user_id": strconv.FormatInt(userID, 10),
		},
		map[string]interface{}{
			"percentage": percentage,
			"title":      title,
		},
		takenAt,
	)
}

// studyActivityPoint builds the point written by WriteStudyActivity.
func studyActivityPoint(userID int64, action string, at time.Time) *write.Point {
	return write.NewPoint(
		measurementStudyActivity,
		map[string]string{
			"user_id": strconv.FormatInt(userID, 10),
			"action":  action,
		},
		map[string]interface{}{
			"count": 1,
		},
		at,
	)
}
