package testutil

import (
	"context"
	"testing"

	"github.com/99designs/keyring"

	"github.com/nhle/dayplan/internal/model"
	"github.com/nhle/dayplan/internal/prefs"
	"github.com/nhle/dayplan/internal/store"
)

// NewTestStore creates an in-memory SQLiteStore with all migrations applied.
// It automatically closes the store when the test completes.
func NewTestStore(t *testing.T) *store.SQLiteStore {
	t.Helper()

	s, err := store.NewSQLiteStore(":memory:")
	if err != nil {
		t.Fatalf("creating test store: %v", err)
	}

	t.Cleanup(func() {
		if err := s.Close(); err != nil {
			t.Errorf("closing test store: %v", err)
		}
	})

	return s
}

// NewTestPrefs returns a preferences store backed by an in-memory keyring.
func NewTestPrefs(t *testing.T) *prefs.Store {
	t.Helper()
	return prefs.New(keyring.NewArrayKeyring(nil))
}

// MustAddTask inserts a task and returns it with its assigned id.
func MustAddTask(t *testing.T, s store.Store, title, date string, status model.TaskStatus) model.Task {
	t.Helper()

	task := model.Task{Title: title, CreationDate: date, Status: status}
	id, err := s.AddTask(context.Background(), task)
	if err != nil {
		t.Fatalf("adding task %q: %v", title, err)
	}
	task.ID = id
	task.Active = 1
	return task
}
