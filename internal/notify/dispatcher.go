package notify

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/nhle/dayplan/internal/day"
	"github.com/nhle/dayplan/internal/model"
)

// fireWindow is how late a notification may still be delivered.
const fireWindow = 5 * time.Minute

// Dispatcher finds stored notifications that are due.
type Dispatcher struct {
	store NotificationStore
	log   *slog.Logger
}

// NewDispatcher creates a dispatcher. A nil logger discards output.
func NewDispatcher(s NotificationStore, log *slog.Logger) *Dispatcher {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Dispatcher{store: s, log: log.With("component", "dispatcher")}
}

// Due returns the notifications to deliver at now and records them.
// A repeating notification fires at most once per day, within fireWindow
// of its time. A one-shot notification is removed once its time passes;
// it is returned only if it is no more than fireWindow late.
func (d *Dispatcher) Due(ctx context.Context, now time.Time) ([]model.Notification, error) {
	pending, err := d.store.GetNotifications(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading pending notifications: %w", err)
	}

	today := day.Today(now)
	var (
		due     []model.Notification
		expired []int
	)
	for _, n := range pending {
		at := nextFire(n, now)
		if now.Before(at) {
			continue
		}
		inWindow := now.Sub(at) <= fireWindow

		if !n.Repeating() {
			expired = append(expired, n.ID)
			if inWindow {
				due = append(due, n)
			}
			continue
		}

		if !inWindow || n.LastFiredDate == today {
			continue
		}
		if err := d.store.MarkNotificationFired(ctx, n.ID, today); err != nil {
			return nil, err
		}
		due = append(due, n)
	}

	if err := d.store.DeleteNotifications(ctx, expired); err != nil {
		return nil, err
	}
	for _, n := range due {
		d.log.Debug("notification due", "id", n.ID, "category", n.Category)
	}
	return due, nil
}
