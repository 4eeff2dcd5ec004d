package store

import (
	"fmt"
	"time"
)

// timestampLayout is the text form of every timestamp the store writes,
// including quiz dates supplied by callers, which are normalised on insert.
// Fixed width and UTC, so lexical order equals chronological order.
const timestampLayout = "2006-01-02T15:04:05.000Z"

// User is a signed-up account. JSON tags match the column names and are
// the field names of the export file.
type User struct {
	ID              int64   `json:"id"`
	FirstName       string  `json:"firstName"`
	LastName        string  `json:"lastName"`
	AuthAccount     string  `json:"authAccount"`
	Password        string  `json:"password"`
	FieldOfInterest *string `json:"fieldOfInterest"`
	SchoolLevel     *string `json:"schoolLevel"`
	SignupDate      string  `json:"signupDate"`
}

// NewUser holds the fields supplied at signup.
// FieldOfInterest and SchoolLevel are optional; empty values are stored as NULL.
type NewUser struct {
	FirstName       string `json:"firstName" validate:"required"`
	LastName        string `json:"lastName" validate:"required"`
	AuthAccount     string `json:"authAccount" validate:"required"`
	Password        string `json:"password" validate:"required"`
	FieldOfInterest string `json:"fieldOfInterest,omitempty"`
	SchoolLevel     string `json:"schoolLevel,omitempty"`
	SignupDate      string `json:"signupDate" validate:"required"`
}

// Reviewer is a saved study guide.
type Reviewer struct {
	ID        int64  `json:"id"`
	UserID    int64  `json:"userId"`
	Title     string `json:"title"`
	Content   string `json:"content"`
	DateSaved string `json:"dateSaved"`
}

// ReviewerSummary is a Reviewer without its content, for pickers and lists.
type ReviewerSummary struct {
	ID        int64  `json:"id"`
	Title     string `json:"title"`
	DateSaved string `json:"dateSaved"`
}

// newReviewer is the validated input of CreateReviewer.
type newReviewer struct {
	UserID  int64  `json:"userId"`
	Title   string `json:"title" validate:"required"`
	Content string `json:"content" validate:"required"`
}

// QuizResult is one completed quiz attempt.
// Score ("7/10") and Percentage are stored independently; the store never
// derives one from the other.
type QuizResult struct {
	ID         int64  `json:"id"`
	UserID     int64  `json:"userId"`
	Title      string `json:"title"`
	Score      string `json:"score"`
	Percentage int    `json:"percentage"`
	Date       string `json:"date"`
}

// NewQuizResult holds the fields of a quiz submission.
// Date is an RFC 3339 timestamp (any offset or precision) or a bare
// YYYY-MM-DD date; it is stored in the store's UTC layout.
type NewQuizResult struct {
	UserID     int64  `json:"userId"`
	Title      string `json:"title" validate:"required"`
	Score      string `json:"score" validate:"required"`
	Percentage int    `json:"percentage" validate:"gte=0,lte=100"`
	Date       string `json:"date" validate:"required"`
}

// FormatTimestamp renders t in the layout the store uses for saved-at dates.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(timestampLayout)
}

// ParseTimestamp reads an RFC 3339 timestamp or a bare date (midnight UTC).
func ParseTimestamp(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: date %q is not an RFC 3339 timestamp", ErrInvalidInput, s)
	}
	return t, nil
}
