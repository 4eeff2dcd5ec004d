package store

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateQuizResult_StoresScoreAsGiven(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	userID := createTestUser(t, s, "ana@x.com")

	// Score and percentage disagree on purpose; the store keeps both.
	id, err := s.CreateQuizResult(ctx, NewQuizResult{
		UserID: userID, Title: "Cells", Score: "7/10", Percentage: 65, Date: "2024-03-01T10:00:00.000Z",
	})
	require.NoError(t, err)

	results, err := s.ListQuizResults(ctx, userID)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, QuizResult{
		ID: id, UserID: userID, Title: "Cells", Score: "7/10", Percentage: 65, Date: "2024-03-01T10:00:00.000Z",
	}, results[0])
}

func TestCreateQuizResult_PercentageBounds(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	userID := createTestUser(t, s, "ana@x.com")

	tests := []struct {
		name       string
		percentage int
		wantErr    error
	}{
		{"zero", 0, nil},
		{"hundred", 100, nil},
		{"negative", -1, ErrInvalidInput},
		{"over hundred", 101, ErrInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.CreateQuizResult(ctx, NewQuizResult{
				UserID: userID, Title: "Quiz", Score: "0/1", Percentage: tt.percentage, Date: "2024-01-01",
			})
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Contains(t, err.Error(), "percentage")
		})
	}
}

func TestCreateQuizResult_UnknownUser(t *testing.T) {
	s := newTestStore(t)

	_, err := s.CreateQuizResult(context.Background(), NewQuizResult{
		UserID: 404, Title: "Quiz", Score: "1/1", Percentage: 100, Date: "2024-01-01",
	})
	assert.ErrorIs(t, err, ErrUnknownUser)
}

func TestListQuizResults_NewestFirst(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	userID := createTestUser(t, s, "ana@x.com")
	otherID := createTestUser(t, s, "other@x.com")

	for _, date := range []string{"2024-01-02T00:00:00.000Z", "2024-01-03T00:00:00.000Z", "2024-01-01T00:00:00.000Z"} {
		_, err := s.CreateQuizResult(ctx, NewQuizResult{UserID: userID, Title: date, Score: "1/2", Percentage: 50, Date: date})
		require.NoError(t, err)
	}
	_, err := s.CreateQuizResult(ctx, NewQuizResult{UserID: otherID, Title: "other", Score: "2/2", Percentage: 100, Date: "2024-01-04T00:00:00.000Z"})
	require.NoError(t, err)

	results, err := s.ListQuizResults(ctx, userID)
	require.NoError(t, err)
	require.Len(t, results, 3)
	assert.Equal(t, "2024-01-03T00:00:00.000Z", results[0].Date)
	assert.Equal(t, "2024-01-02T00:00:00.000Z", results[1].Date)
	assert.Equal(t, "2024-01-01T00:00:00.000Z", results[2].Date)

	empty, err := s.ListQuizResults(ctx, 999)
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)
}

func TestListQuizResults_Mock(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery("SELECT .+ FROM quiz_results .+ ORDER BY date DESC, id DESC").
		WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "title", "score", "percentage", "date"}).
			AddRow(2, 3, "B", "2/2", 100, "2024-01-02").
			AddRow(1, 3, "A", "1/2", 50, "2024-01-01"))

	results, err := s.ListQuizResults(context.Background(), 3)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "B", results[0].Title)
	assert.Equal(t, 50, results[1].Percentage)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateQuizResult_StorageError(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectExec("INSERT INTO quiz_results").WillReturnError(errors.New("disk full"))

	_, err := s.CreateQuizResult(context.Background(), NewQuizResult{
		UserID: 1, Title: "Quiz", Score: "1/1", Percentage: 100, Date: "2024-01-01",
	})
	assert.ErrorIs(t, err, ErrStorage)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateQuizResult_NormalisesDates(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	userID := createTestUser(t, s, "ana@x.com")

	// 20:00Z on Jan 1, written with a +05:00 offset.
	_, err := s.CreateQuizResult(ctx, NewQuizResult{
		UserID: userID, Title: "older", Score: "1/2", Percentage: 50, Date: "2024-01-02T01:00:00+05:00",
	})
	require.NoError(t, err)
	_, err = s.CreateQuizResult(ctx, NewQuizResult{
		UserID: userID, Title: "newer", Score: "2/2", Percentage: 100, Date: "2024-01-01T22:00:00.000Z",
	})
	require.NoError(t, err)
	// Half a second after "newer"; a second-precision form of "newer" would sort after it as text.
	_, err = s.CreateQuizResult(ctx, NewQuizResult{
		UserID: userID, Title: "newest", Score: "2/2", Percentage: 100, Date: "2024-01-01T22:00:00.5Z",
	})
	require.NoError(t, err)
	_, err = s.CreateQuizResult(ctx, NewQuizResult{
		UserID: userID, Title: "date only", Score: "0/2", Percentage: 0, Date: "2023-12-31",
	})
	require.NoError(t, err)

	results, err := s.ListQuizResults(ctx, userID)
	require.NoError(t, err)
	require.Len(t, results, 4)

	titles := []string{results[0].Title, results[1].Title, results[2].Title, results[3].Title}
	assert.Equal(t, []string{"newest", "newer", "older", "date only"}, titles)
	assert.Equal(t, "2024-01-01T22:00:00.500Z", results[0].Date)
	assert.Equal(t, "2024-01-01T20:00:00.000Z", results[2].Date)
	assert.Equal(t, "2023-12-31T00:00:00.000Z", results[3].Date)
}

func TestCreateQuizResult_RejectsUnparseableDate(t *testing.T) {
	s := newTestStore(t)
	userID := createTestUser(t, s, "ana@x.com")

	for _, date := range []string{"yesterday", "01/02/2024", "2024-13-01"} {
		_, err := s.CreateQuizResult(context.Background(), NewQuizResult{
			UserID: userID, Title: "Quiz", Score: "1/1", Percentage: 100, Date: date,
		})
		assert.ErrorIs(t, err, ErrInvalidInput, date)
	}
}

func TestParseTimestamp(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"2024-05-05T23:08:09.010Z", "2024-05-05T23:08:09.010Z"},
		{"2024-05-05T23:08:09Z", "2024-05-05T23:08:09.000Z"},
		{"2024-05-06T01:08:09+02:00", "2024-05-05T23:08:09.000Z"},
		{"2024-05-05", "2024-05-05T00:00:00.000Z"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseTimestamp(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, FormatTimestamp(got))
		})
	}
}
