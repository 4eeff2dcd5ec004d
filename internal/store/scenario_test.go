package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestSignupSaveDeleteFlow walks one user through signup, login, saving a
// reviewer and deleting it again.
func TestSignupSaveDeleteFlow(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	userID, err := s.CreateUser(ctx, NewUser{
		FirstName:   "Ana",
		LastName:    "Cruz",
		AuthAccount: "ana@x.com",
		Password:    "p1",
		SignupDate:  "2024-01-01",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), userID)

	u, err := s.FindUserByCredentials(ctx, "ana@x.com", "p1")
	require.NoError(t, err)
	require.NotNil(t, u)
	assert.Equal(t, User{
		ID: 1, FirstName: "Ana", LastName: "Cruz", AuthAccount: "ana@x.com", Password: "p1", SignupDate: "2024-01-01",
	}, *u)

	reviewerID, err := s.CreateReviewer(ctx, 1, "Chapter 1", "Notes...")
	require.NoError(t, err)
	assert.Equal(t, int64(1), reviewerID)

	reviewers, err := s.ListReviewers(ctx, 1)
	require.NoError(t, err)
	require.Len(t, reviewers, 1)
	assert.Equal(t, int64(1), reviewers[0].ID)
	assert.Equal(t, "Chapter 1", reviewers[0].Title)
	assert.Equal(t, "Notes...", reviewers[0].Content)

	deleted, err := s.DeleteReviewerForUser(ctx, 1, 1)
	require.NoError(t, err)
	assert.True(t, deleted)

	reviewers, err = s.ListReviewers(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, []Reviewer{}, reviewers)
}
