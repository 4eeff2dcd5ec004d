package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nerrad567/studyaid-core/internal/infrastructure/influxdb"
	"github.com/nerrad567/studyaid-core/internal/infrastructure/mqtt"
)

func TestCreateUser(t *testing.T) {
	env := newTestEnv(t)

	assert.Equal(t, int64(1), signup(t, env, "ana@example.com"))
	assert.Equal(t, int64(2), signup(t, env, "09171234567"))

	t.Run("duplicate account", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/api/v1/users", map[string]any{
			"firstName":   "Other",
			"lastName":    "Person",
			"authAccount": "ana@example.com",
			"password":    "different",
			"signupDate":  "2024-05-06",
		})
		assert.Equal(t, http.StatusConflict, rec.Code)
		assert.Equal(t, ErrCodeConflict, decodeBody(t, rec)["code"])
	})

	t.Run("missing required field", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/api/v1/users", map[string]any{
			"lastName":    "Cruz",
			"authAccount": "new@example.com",
			"password":    "pw",
			"signupDate":  "2024-05-06",
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		body := decodeBody(t, rec)
		assert.Equal(t, ErrCodeValidation, body["code"])
		assert.Contains(t, body["message"], "firstName")
	})

	t.Run("invalid JSON", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/api/v1/users", "{not json")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("oversized body", func(t *testing.T) {
		big := fmt.Sprintf(`{"firstName":"%s"}`, strings.Repeat("x", maxRequestBodySize))
		rec := env.do(t, http.MethodPost, "/api/v1/users", big)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	assert.Equal(t, []string{mqtt.EventUserCreated, mqtt.EventUserCreated}, env.events.Kinds())
}

func TestLogin(t *testing.T) {
	env := newTestEnv(t)
	id := signup(t, env, "ana@example.com")

	tests := []struct {
		name     string
		account  string
		password string
		want     int
	}{
		{"exact match", "ana@example.com", "pw1", http.StatusOK},
		{"wrong password", "ana@example.com", "pw2", http.StatusUnauthorized},
		{"case differs", "ANA@example.com", "pw1", http.StatusUnauthorized},
		{"unknown account", "bob@example.com", "pw1", http.StatusUnauthorized},
		{"missing password", "ana@example.com", "", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := env.do(t, http.MethodPost, "/api/v1/auth/login", map[string]string{
				"authAccount": tt.account,
				"password":    tt.password,
			})
			assert.Equal(t, tt.want, rec.Code)
		})
	}

	rec := env.do(t, http.MethodPost, "/api/v1/auth/login", map[string]string{
		"authAccount": "ana@example.com",
		"password":    "pw1",
	})
	body := decodeBody(t, rec)
	assert.InDelta(t, id, body["id"], 0)
	assert.Equal(t, "Ana", body["firstName"])
	assert.NotContains(t, body, "password")
	assert.Nil(t, body["fieldOfInterest"])
}

func TestReviewers(t *testing.T) {
	env := newTestEnv(t)
	ana := signup(t, env, "ana@example.com")
	bob := signup(t, env, "bob@example.com")
	anaPath := fmt.Sprintf("/api/v1/users/%d/reviewers", ana)
	bobPath := fmt.Sprintf("/api/v1/users/%d/reviewers", bob)

	rec := env.do(t, http.MethodPost, anaPath, map[string]string{"title": "Biology", "content": "# Cells"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	first := int64(decodeBody(t, rec)["id"].(float64))

	rec = env.do(t, http.MethodPost, anaPath, map[string]string{"title": "Chemistry", "content": "# Atoms"})
	require.Equal(t, http.StatusCreated, rec.Code)

	t.Run("list is scoped and newest first", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, anaPath, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		body := decodeBody(t, rec)
		assert.InDelta(t, 2, body["count"], 0)
		list := body["reviewers"].([]any)
		assert.Equal(t, "Chemistry", list[0].(map[string]any)["title"])

		rec = env.do(t, http.MethodGet, bobPath, nil)
		assert.InDelta(t, 0, decodeBody(t, rec)["count"], 0)
	})

	t.Run("summaries omit content", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, anaPath+"/summaries", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		list := decodeBody(t, rec)["reviewers"].([]any)
		require.Len(t, list, 2)
		assert.NotContains(t, list[0].(map[string]any), "content")
	})

	t.Run("get requires ownership", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, fmt.Sprintf("%s/%d", anaPath, first), nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "# Cells", decodeBody(t, rec)["content"])

		rec = env.do(t, http.MethodGet, fmt.Sprintf("%s/%d", bobPath, first), nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("content only", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, fmt.Sprintf("%s/%d/content", anaPath, first), nil)
		require.Equal(t, http.StatusOK, rec.Code)
		body := decodeBody(t, rec)
		assert.Equal(t, "# Cells", body["content"])
		assert.InDelta(t, first, body["id"], 0)
		assert.NotContains(t, body, "title")

		rec = env.do(t, http.MethodGet, fmt.Sprintf("%s/%d/content", bobPath, first), nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("delete by another user is not found", func(t *testing.T) {
		rec := env.do(t, http.MethodDelete, fmt.Sprintf("%s/%d", bobPath, first), nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("delete once", func(t *testing.T) {
		rec := env.do(t, http.MethodDelete, fmt.Sprintf("%s/%d", anaPath, first), nil)
		assert.Equal(t, http.StatusNoContent, rec.Code)

		rec = env.do(t, http.MethodDelete, fmt.Sprintf("%s/%d", anaPath, first), nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("unknown user", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/api/v1/users/999/reviewers", map[string]string{"title": "T", "content": "C"})
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("empty title", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, anaPath, map[string]string{"title": "", "content": "C"})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("bad ids", func(t *testing.T) {
		assert.Equal(t, http.StatusBadRequest, env.do(t, http.MethodGet, "/api/v1/users/abc/reviewers", nil).Code)
		assert.Equal(t, http.StatusBadRequest, env.do(t, http.MethodGet, anaPath+"/0", nil).Code)
	})

	assert.Equal(t, []string{
		influxdb.ActionReviewerSaved,
		influxdb.ActionReviewerSaved,
		influxdb.ActionReviewerDeleted,
	}, env.scores.activities)
}

func TestQuizResults(t *testing.T) {
	env := newTestEnv(t)
	ana := signup(t, env, "ana@example.com")
	path := fmt.Sprintf("/api/v1/users/%d/quiz-results", ana)

	rec := env.do(t, http.MethodPost, path, map[string]any{
		"title":      "Cells",
		"score":      "7/10",
		"percentage": 70,
		"date":       "2024-05-01T10:00:00Z",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = env.do(t, http.MethodPost, path, map[string]any{
		"title":      "Atoms",
		"score":      "3/4",
		"percentage": 75,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	t.Run("percentage out of range", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, path, map[string]any{
			"title":      "Bad",
			"score":      "11/10",
			"percentage": 110,
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("unknown user", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/api/v1/users/42/quiz-results", map[string]any{
			"title": "T", "score": "1/1", "percentage": 100,
		})
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	rec = env.do(t, http.MethodGet, path, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.InDelta(t, 2, body["count"], 0)
	results := body["results"].([]any)
	assert.Equal(t, "Atoms", results[0].(map[string]any)["title"])
	assert.Equal(t, "7/10", results[1].(map[string]any)["score"])

	assert.Equal(t, []int{70, 75}, env.scores.quiz)
}

func TestExportUsers(t *testing.T) {
	t.Run("local only", func(t *testing.T) {
		env := newTestEnv(t)
		signup(t, env, "ana@example.com")

		rec := env.do(t, http.MethodPost, "/api/v1/export/users", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		body := decodeBody(t, rec)
		path := body["path"].(string)
		assert.NotContains(t, body, "object_key")

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Contains(t, string(data), `"password": "pw1"`)
		assert.Contains(t, env.events.Kinds(), mqtt.EventUsersExported)
	})

	t.Run("mirrored", func(t *testing.T) {
		mirror := &fakeMirror{}
		env := newUninitialisedEnv(t, mirror)
		require.NoError(t, env.store.Initialize(context.Background()))

		rec := env.do(t, http.MethodPost, "/api/v1/export/users", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		body := decodeBody(t, rec)
		assert.Equal(t, "studyaid-test", body["bucket"])
		assert.Equal(t, "exports/users-20240101T000000Z.json", body["object_key"])
		assert.Equal(t, []string{body["path"].(string)}, mirror.uploaded)
	})

	t.Run("mirror failure keeps local export", func(t *testing.T) {
		env := newUninitialisedEnv(t, &fakeMirror{err: errors.New("access denied")})
		require.NoError(t, env.store.Initialize(context.Background()))

		rec := env.do(t, http.MethodPost, "/api/v1/export/users", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		body := decodeBody(t, rec)
		assert.Equal(t, "access denied", body["mirror_error"])
		assert.FileExists(t, body["path"].(string))
	})

	t.Run("not initialised", func(t *testing.T) {
		env := newUninitialisedEnv(t, nil)
		rec := env.do(t, http.MethodPost, "/api/v1/export/users", nil)
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	})
}

func TestQuizResultDates(t *testing.T) {
	env := newTestEnv(t)
	ana := signup(t, env, "ana@example.com")
	path := fmt.Sprintf("/api/v1/users/%d/quiz-results", ana)

	post := func(title, date string) *httptest.ResponseRecorder {
		return env.do(t, http.MethodPost, path, map[string]any{
			"title": title, "score": "1/1", "percentage": 100, "date": date,
		})
	}

	// "older" is 20:00Z written with a +05:00 offset.
	require.Equal(t, http.StatusCreated, post("older", "2024-01-02T01:00:00+05:00").Code)
	require.Equal(t, http.StatusCreated, post("newer", "2024-01-01T22:00:00.000Z").Code)

	t.Run("unparseable date is rejected", func(t *testing.T) {
		rec := post("bad", "next tuesday")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, ErrCodeValidation, decodeBody(t, rec)["code"])
	})

	rec := env.do(t, http.MethodGet, path, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	results := decodeBody(t, rec)["results"].([]any)
	require.Len(t, results, 2)
	first := results[0].(map[string]any)
	second := results[1].(map[string]any)
	assert.Equal(t, "newer", first["title"])
	assert.Equal(t, "older", second["title"])
	assert.Equal(t, "2024-01-01T20:00:00.000Z", second["date"])

	require.Len(t, env.scores.takenAt, 2)
	assert.True(t, env.scores.takenAt[0].Equal(time.Date(2024, 1, 1, 20, 0, 0, 0, time.UTC)))
}
