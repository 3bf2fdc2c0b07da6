package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/nhle/dayplan/internal/model"
)

// UpsertNotifications inserts or updates a batch of scheduled notifications
// keyed by id. An updated row keeps its fire record so rescheduling during
// the day does not repeat a notification that already fired.
func (s *SQLiteStore) UpsertNotifications(ctx context.Context, ns []model.Notification) error {
	if len(ns) == 0 {
		return nil
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	const query = `
		INSERT INTO scheduled_notifications (
			id, category, title, body, hour, minute, fire_at
		) VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			category = excluded.category,
			title    = excluded.title,
			body     = excluded.body,
			hour     = excluded.hour,
			minute   = excluded.minute,
			fire_at  = excluded.fire_at`

	stmt, err := tx.PreparexContext(ctx, query)
	if err != nil {
		return fmt.Errorf("preparing notification upsert: %w", err)
	}
	defer stmt.Close()

	for _, n := range ns {
		var fireAt sql.NullString
		if n.At != nil {
			fireAt = sql.NullString{String: n.At.Format(time.RFC3339), Valid: true}
		}
		_, err := stmt.ExecContext(ctx,
			n.ID, string(n.Category), n.Title, n.Body, n.Hour, n.Minute, fireAt,
		)
		if err != nil {
			return fmt.Errorf("upserting notification %d: %w", n.ID, err)
		}
	}

	return tx.Commit()
}

// DeleteNotifications cancels the notifications with the given ids.
func (s *SQLiteStore) DeleteNotifications(ctx context.Context, ids []int) error {
	if len(ids) == 0 {
		return nil
	}
	query, args, err := sq.Delete("scheduled_notifications").Where(sq.Eq{"id": ids}).ToSql()
	if err != nil {
		return fmt.Errorf("building notification delete: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("deleting notifications: %w", err)
	}
	return nil
}

// GetNotifications returns every pending notification ordered by id.
func (s *SQLiteStore) GetNotifications(ctx context.Context) ([]model.Notification, error) {
	rows, err := s.db.QueryxContext(ctx, `
		SELECT id, category, title, body, hour, minute, fire_at, last_fired_date
		FROM scheduled_notifications ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("querying notifications: %w", err)
	}
	defer rows.Close()

	var ns []model.Notification
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, err
		}
		ns = append(ns, n)
	}
	return ns, rows.Err()
}

// MarkNotificationFired records that notification id fired on date.
func (s *SQLiteStore) MarkNotificationFired(ctx context.Context, id int, date string) error {
	_, err := s.db.ExecContext(ctx,
		"UPDATE scheduled_notifications SET last_fired_date = ? WHERE id = ?", date, id,
	)
	if err != nil {
		return fmt.Errorf("marking notification %d fired: %w", id, err)
	}
	return nil
}

// scanNotification scans a scheduled_notifications row.
func scanNotification(rows interface{ Scan(dest ...any) error }) (model.Notification, error) {
	var (
		n        model.Notification
		category string
		fireAt   sql.NullString
	)

	err := rows.Scan(
		&n.ID, &category, &n.Title, &n.Body, &n.Hour, &n.Minute, &fireAt, &n.LastFiredDate,
	)
	if err != nil {
		return model.Notification{}, fmt.Errorf("scanning notification row: %w", err)
	}

	n.Category = model.NotificationCategory(category)
	if fireAt.Valid && fireAt.String != "" {
		at, err := time.Parse(time.RFC3339, fireAt.String)
		if err != nil {
			return model.Notification{}, fmt.Errorf("parsing fire_at of notification %d: %w", n.ID, err)
		}
		at = at.Local()
		n.At = &at
	}

	return n, nil
}
