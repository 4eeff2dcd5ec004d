package api

import (
	"net/http"
	"time"

	"github.com/nerrad567/studyaid-core/internal/infrastructure/mqtt"
	"github.com/nerrad567/studyaid-core/internal/store"
)

// quizResultRequest is the body of POST /users/{userID}/quiz-results.
// Date defaults to the time of the request when omitted. It is stored in UTC,
// and the same instant is sent to analytics.
type quizResultRequest struct {
	Title      string `json:"title"`
	Score      string `json:"score"`
	Percentage int    `json:"percentage"`
	Date       string `json:"date"`
}

func (s *Server) handleCreateQuizResult(w http.ResponseWriter, r *http.Request) {
	userID, ok := int64Param(w, r, "userID")
	if !ok {
		return
	}

	var req quizResultRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	takenAt := time.Now()
	if req.Date != "" {
		t, err := store.ParseTimestamp(req.Date)
		if err != nil {
			writeError(w, http.StatusBadRequest, ErrCodeValidation, "date must be an RFC 3339 timestamp or YYYY-MM-DD")
			return
		}
		takenAt = t
	}

	id, err := s.store.CreateQuizResult(r.Context(), store.NewQuizResult{
		UserID:     userID,
		Title:      req.Title,
		Score:      req.Score,
		Percentage: req.Percentage,
		Date:       store.FormatTimestamp(takenAt),
	})
	if err != nil {
		s.writeStoreError(w, r, "create quiz result", err)
		return
	}

	s.publish(mqtt.EventQuizRecorded, mqtt.Event{ID: id, UserID: userID})
	if s.scores != nil {
		s.scores.WriteQuizScore(userID, req.Title, req.Percentage, takenAt)
	}
	writeJSON(w, http.StatusCreated, map[string]any{"id": id})
}

func (s *Server) handleListQuizResults(w http.ResponseWriter, r *http.Request) {
	userID, ok := int64Param(w, r, "userID")
	if !ok {
		return
	}

	results, err := s.store.ListQuizResults(r.Context(), userID)
	if err != nil {
		s.writeStoreError(w, r, "list quiz results", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"results": results,
		"count":   len(results),
	})
}
