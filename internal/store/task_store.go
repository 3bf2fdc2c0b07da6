package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"

	"github.com/nhle/dayplan/internal/model"
)

// taskColumns is the projection every task query scans into model.Task.
var taskColumns = []string{
	"id",
	"title",
	"COALESCE(description, '') AS description",
	"COALESCE(status, 1) AS status",
	"COALESCE(creation_date, '') AS creation_date",
	"COALESCE(active, 1) AS active",
}

// execer is satisfied by both *sqlx.DB and *sqlx.Tx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// AddTask sanitizes and inserts a task, returning the assigned id.
func (s *SQLiteStore) AddTask(ctx context.Context, task model.Task) (int64, error) {
	task, err := model.SanitizeTask(task)
	if err != nil {
		return 0, err
	}
	return insertTask(ctx, s.db, task)
}

func insertTask(ctx context.Context, db execer, task model.Task) (int64, error) {
	query, args, err := sq.Insert("tasks").
		Columns("title", "description", "status", "creation_date", "active").
		Values(task.Title, task.Description, int(task.Status), task.CreationDate, task.Active).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("building task insert: %w", err)
	}

	result, err := db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("inserting task: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading inserted task id: %w", err)
	}
	if id == 0 {
		return 0, fmt.Errorf("inserting task: no id returned")
	}
	return id, nil
}

// UpdateTask overwrites title, description and status of the task with
// the same id. An id with no row is not an error.
func (s *SQLiteStore) UpdateTask(ctx context.Context, task model.Task) error {
	clean, err := model.SanitizeContent(task)
	if err != nil {
		return err
	}

	query, args, err := sq.Update("tasks").
		Set("title", clean.Title).
		Set("description", clean.Description).
		Set("status", int(clean.Status)).
		Where(sq.Eq{"id": task.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("building task update: %w", err)
	}

	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("updating task %d: %w", task.ID, err)
	}
	return nil
}

// GetTaskByID retrieves a single task by its id.
func (s *SQLiteStore) GetTaskByID(ctx context.Context, id int64) (*model.Task, error) {
	query, args, err := sq.Select(taskColumns...).
		From("tasks").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("building task lookup: %w", err)
	}

	var task model.Task
	if err := s.db.GetContext(ctx, &task, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("getting task %d: %w", id, ErrTaskNotFound)
		}
		return nil, fmt.Errorf("getting task %d: %w", id, err)
	}
	return &task, nil
}

// GetTasks returns every task ordered by id.
func (s *SQLiteStore) GetTasks(ctx context.Context) ([]model.Task, error) {
	return s.selectTasks(ctx, s.db, sq.Select(taskColumns...).From("tasks").OrderBy("id"))
}

// GetTasksByDate returns the tasks whose planning day is exactly date.
func (s *SQLiteStore) GetTasksByDate(ctx context.Context, date string) ([]model.Task, error) {
	return s.selectTasks(ctx, s.db, sq.Select(taskColumns...).
		From("tasks").
		Where(sq.Eq{"creation_date": date}).
		OrderBy("id"))
}

func (s *SQLiteStore) selectTasks(ctx context.Context, q sqlx.QueryerContext, b sq.SelectBuilder) ([]model.Task, error) {
	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("building task query: %w", err)
	}

	tasks := []model.Task{}
	if err := sqlx.SelectContext(ctx, q, &tasks, query, args...); err != nil {
		return nil, fmt.Errorf("querying tasks: %w", err)
	}
	return tasks, nil
}

// DeleteTaskByID removes one task.
func (s *SQLiteStore) DeleteTaskByID(ctx context.Context, id int64) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM tasks WHERE id = ?", id); err != nil {
		return fmt.Errorf("deleting task %d: %w", id, err)
	}
	return nil
}

// DeleteAllTasks empties the tasks table.
func (s *SQLiteStore) DeleteAllTasks(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM tasks"); err != nil {
		return fmt.Errorf("deleting all tasks: %w", err)
	}
	return nil
}

// DeleteTasksByDate removes every task of one planning day.
func (s *SQLiteStore) DeleteTasksByDate(ctx context.Context, date string) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM tasks WHERE creation_date = ?", date); err != nil {
		return fmt.Errorf("deleting tasks for %s: %w", date, err)
	}
	return nil
}

// ReplaceAllTasks swaps the whole table for tasks, keeping their ids.
// Tasks without an id get a fresh one.
func (s *SQLiteStore) ReplaceAllTasks(ctx context.Context, tasks []model.Task) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM tasks"); err != nil {
		return fmt.Errorf("clearing tasks: %w", err)
	}

	for _, t := range tasks {
		clean, err := model.SanitizeTask(t)
		if err != nil {
			return fmt.Errorf("importing task %d: %w", t.ID, err)
		}
		if t.ID == 0 {
			if _, err := insertTask(ctx, tx, clean); err != nil {
				return err
			}
			continue
		}
		query, args, err := sq.Insert("tasks").
			Columns("id", "title", "description", "status", "creation_date", "active").
			Values(t.ID, clean.Title, clean.Description, int(clean.Status), clean.CreationDate, clean.Active).
			ToSql()
		if err != nil {
			return fmt.Errorf("building task insert: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("importing task %d: %w", t.ID, err)
		}
	}

	return tx.Commit()
}

// GetMostRecentDateWithTasks returns the greatest planning day that has
// tasks, skipping excludeDate when it is not empty.
func (s *SQLiteStore) GetMostRecentDateWithTasks(ctx context.Context, excludeDate string) (string, bool, error) {
	b := sq.Select("MAX(creation_date)").From("tasks").Where(sq.NotEq{"creation_date": nil})
	if excludeDate != "" {
		b = b.Where(sq.NotEq{"creation_date": excludeDate})
	}
	query, args, err := b.ToSql()
	if err != nil {
		return "", false, fmt.Errorf("building most recent date query: %w", err)
	}

	var date sql.NullString
	if err := s.db.GetContext(ctx, &date, query, args...); err != nil {
		return "", false, fmt.Errorf("querying most recent date: %w", err)
	}
	if !date.Valid || date.String == "" {
		return "", false, nil
	}
	return date.String, true, nil
}

// CopyUndoneTasksFromDateToToday re-creates every task of fromDate that is
// not Done under today, reset to Open. The originals are untouched.
func (s *SQLiteStore) CopyUndoneTasksFromDateToToday(ctx context.Context, fromDate, today string) (int, error) {
	return s.copyTasks(ctx, fromDate, today, true)
}

// CopyAllTasksFromDateToToday re-creates every task of fromDate under today,
// keeping its status.
func (s *SQLiteStore) CopyAllTasksFromDateToToday(ctx context.Context, fromDate, today string) (int, error) {
	return s.copyTasks(ctx, fromDate, today, false)
}

// copyTasks runs the whole copy in one transaction so a failure leaves no
// partial set behind.
func (s *SQLiteStore) copyTasks(ctx context.Context, fromDate, today string, undoneOnly bool) (int, error) {
	if _, err := model.ParseDate(today); err != nil {
		return 0, err
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	tasks, err := s.selectTasks(ctx, tx, sq.Select(taskColumns...).
		From("tasks").
		Where(sq.Eq{"creation_date": fromDate}).
		OrderBy("id"))
	if err != nil {
		return 0, err
	}

	copied := 0
	for _, t := range tasks {
		if undoneOnly {
			if t.IsDone() {
				continue
			}
			t.Status = model.StatusOpen
		}
		t.ID = 0
		t.CreationDate = today
		t.Active = 1
		if _, err := insertTask(ctx, tx, t); err != nil {
			return 0, fmt.Errorf("copying tasks from %s: %w", fromDate, err)
		}
		copied++
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing task copy: %w", err)
	}
	return copied, nil
}

// MarkPreviousIncompleteTasksAsOverdue flags every Open task planned before
// beforeDate as Overdue and returns how many rows changed.
func (s *SQLiteStore) MarkPreviousIncompleteTasksAsOverdue(ctx context.Context, beforeDate string) (int64, error) {
	return s.markOverdue(ctx, sq.Lt{"creation_date": beforeDate})
}

// MarkIncompleteTasksForDateAsOverdue flags the Open tasks of one planning
// day as Overdue.
func (s *SQLiteStore) MarkIncompleteTasksForDateAsOverdue(ctx context.Context, date string) (int64, error) {
	return s.markOverdue(ctx, sq.Eq{"creation_date": date})
}

// markOverdue leaves Done and already-Overdue rows alone, so repeating it
// reports zero changes.
func (s *SQLiteStore) markOverdue(ctx context.Context, datePred sq.Sqlizer) (int64, error) {
	query, args, err := sq.Update("tasks").
		Set("status", int(model.StatusOverdue)).
		Where(datePred).
		Where(sq.NotEq{"status": []int{int(model.StatusDone), int(model.StatusOverdue)}}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("building overdue update: %w", err)
	}

	result, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("marking tasks overdue: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("reading affected rows: %w", err)
	}
	return n, nil
}
