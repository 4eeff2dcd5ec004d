package api

import (
	"net/http"

	"github.com/nerrad567/studyaid-core/internal/infrastructure/influxdb"
	"github.com/nerrad567/studyaid-core/internal/infrastructure/mqtt"
)

// reviewerRequest is the body of POST /users/{userID}/reviewers.
type reviewerRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

func (s *Server) handleCreateReviewer(w http.ResponseWriter, r *http.Request) {
	userID, ok := int64Param(w, r, "userID")
	if !ok {
		return
	}

	var req reviewerRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	id, err := s.store.CreateReviewer(r.Context(), userID, req.Title, req.Content)
	if err != nil {
		s.writeStoreError(w, r, "create reviewer", err)
		return
	}

	s.publish(mqtt.EventReviewerSaved, mqtt.Event{ID: id, UserID: userID})
	if s.scores != nil {
		s.scores.WriteStudyActivity(userID, influxdb.ActionReviewerSaved)
	}
	writeJSON(w, http.StatusCreated, map[string]any{"id": id})
}

func (s *Server) handleListReviewers(w http.ResponseWriter, r *http.Request) {
	userID, ok := int64Param(w, r, "userID")
	if !ok {
		return
	}

	reviewers, err := s.store.ListReviewers(r.Context(), userID)
	if err != nil {
		s.writeStoreError(w, r, "list reviewers", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"reviewers": reviewers,
		"count":     len(reviewers),
	})
}

func (s *Server) handleListReviewerSummaries(w http.ResponseWriter, r *http.Request) {
	userID, ok := int64Param(w, r, "userID")
	if !ok {
		return
	}

	summaries, err := s.store.ListReviewerSummaries(r.Context(), userID)
	if err != nil {
		s.writeStoreError(w, r, "list reviewer summaries", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"reviewers": summaries,
		"count":     len(summaries),
	})
}

// handleGetReviewer returns a reviewer only when it belongs to the user in the path.
func (s *Server) handleGetReviewer(w http.ResponseWriter, r *http.Request) {
	userID, ok := int64Param(w, r, "userID")
	if !ok {
		return
	}
	id, ok := int64Param(w, r, "id")
	if !ok {
		return
	}

	reviewer, err := s.store.GetReviewerForUser(r.Context(), id, userID)
	if err != nil {
		s.writeStoreError(w, r, "get reviewer", err)
		return
	}
	if reviewer == nil {
		writeNotFound(w, "reviewer not found")
		return
	}

	writeJSON(w, http.StatusOK, reviewer)
}

// handleGetReviewerContent returns just the markdown body, for opening a
// reviewer picked from the summaries list.
func (s *Server) handleGetReviewerContent(w http.ResponseWriter, r *http.Request) {
	userID, ok := int64Param(w, r, "userID")
	if !ok {
		return
	}
	id, ok := int64Param(w, r, "id")
	if !ok {
		return
	}

	content, found, err := s.store.GetReviewerContent(r.Context(), id, userID)
	if err != nil {
		s.writeStoreError(w, r, "get reviewer content", err)
		return
	}
	if !found {
		writeNotFound(w, "reviewer not found")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"id":      id,
		"content": content,
	})
}

func (s *Server) handleDeleteReviewer(w http.ResponseWriter, r *http.Request) {
	userID, ok := int64Param(w, r, "userID")
	if !ok {
		return
	}
	id, ok := int64Param(w, r, "id")
	if !ok {
		return
	}

	deleted, err := s.store.DeleteReviewerForUser(r.Context(), id, userID)
	if err != nil {
		s.writeStoreError(w, r, "delete reviewer", err)
		return
	}
	if !deleted {
		writeNotFound(w, "reviewer not found")
		return
	}

	s.publish(mqtt.EventReviewerDeleted, mqtt.Event{ID: id, UserID: userID})
	if s.scores != nil {
		s.scores.WriteStudyActivity(userID, influxdb.ActionReviewerDeleted)
	}
	w.WriteHeader(http.StatusNoContent)
}
