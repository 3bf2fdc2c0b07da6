package store

import (
	"context"
	"errors"

	"github.com/nhle/dayplan/internal/model"
)

// ErrTaskNotFound is returned by lookups for an id that has no row.
var ErrTaskNotFound = errors.New("task not found")

// Store defines the persistence interface for planned tasks and the
// locally scheduled notifications.
type Store interface {
	// === Tasks ===

	AddTask(ctx context.Context, task model.Task) (int64, error)
	UpdateTask(ctx context.Context, task model.Task) error
	GetTaskByID(ctx context.Context, id int64) (*model.Task, error)
	GetTasks(ctx context.Context) ([]model.Task, error)
	GetTasksByDate(ctx context.Context, date string) ([]model.Task, error)
	DeleteTaskByID(ctx context.Context, id int64) error
	DeleteAllTasks(ctx context.Context) error
	DeleteTasksByDate(ctx context.Context, date string) error
	ReplaceAllTasks(ctx context.Context, tasks []model.Task) error

	// === Day lifecycle ===

	GetMostRecentDateWithTasks(ctx context.Context, excludeDate string) (string, bool, error)
	CopyUndoneTasksFromDateToToday(ctx context.Context, fromDate, today string) (int, error)
	CopyAllTasksFromDateToToday(ctx context.Context, fromDate, today string) (int, error)
	MarkPreviousIncompleteTasksAsOverdue(ctx context.Context, beforeDate string) (int64, error)
	MarkIncompleteTasksForDateAsOverdue(ctx context.Context, date string) (int64, error)

	// === Scheduled notifications ===

	UpsertNotifications(ctx context.Context, ns []model.Notification) error
	DeleteNotifications(ctx context.Context, ids []int) error
	GetNotifications(ctx context.Context) ([]model.Notification, error)
	MarkNotificationFired(ctx context.Context, id int, date string) error
}
