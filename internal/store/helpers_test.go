package store

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"github.com/nerrad567/studyaid-core/internal/infrastructure/database"
)

// testConfig points a store at files inside a fresh temp directory.
func testConfig(t *testing.T) Config {
	t.Helper()
	dir := t.TempDir()
	return Config{
		Database: database.Config{
			Path:        filepath.Join(dir, "user.db"),
			WALMode:     true,
			BusyTimeout: 5,
		},
		ExportPath: filepath.Join(dir, "export", "users.json"),
	}
}

// newTestStore returns an initialised store backed by a temp SQLite file.
func newTestStore(t *testing.T) *Store {
	t.Helper()
	s := New(testConfig(t))
	require.NoError(t, s.Initialize(context.Background()))
	t.Cleanup(func() { s.Close() }) //nolint:errcheck // Test cleanup
	return s
}

// newMockStore returns a ready store whose handle is a sqlmock connection.
func newMockStore(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() }) //nolint:errcheck // Test cleanup

	s := New(Config{ExportPath: filepath.Join(t.TempDir(), "users.json")})
	s.db.Store(database.Wrap(sqlDB, "sqlmock"))
	return s, mock
}

// steppingClock returns a clock that advances by step on every call.
func steppingClock(start time.Time, step time.Duration) func() time.Time {
	var mu sync.Mutex
	next := start
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		now := next
		next = next.Add(step)
		return now
	}
}

func createTestUser(t *testing.T, s *Store, account string) int64 {
	t.Helper()
	id, err := s.CreateUser(context.Background(), NewUser{
		FirstName:   "Test",
		LastName:    "User",
		AuthAccount: account,
		Password:    "secret",
		SignupDate:  "2024-01-01",
	})
	require.NoError(t, err)
	return id
}
