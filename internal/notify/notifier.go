package notify

import (
	"context"

	"github.com/nhle/dayplan/internal/model"
)

// NotificationStore is the persistence used by StoreNotifier.
type NotificationStore interface {
	UpsertNotifications(ctx context.Context, ns []model.Notification) error
	DeleteNotifications(ctx context.Context, ids []int) error
	GetNotifications(ctx context.Context) ([]model.Notification, error)
	MarkNotificationFired(ctx context.Context, id int, date string) error
}

// StoreNotifier keeps scheduled notifications in the database. The
// terminal app delivers them itself through a Dispatcher.
type StoreNotifier struct {
	store   NotificationStore
	allowed bool
}

// NewStoreNotifier returns a notifier backed by s. allowed is the
// permission answer given to RequestPermission.
func NewStoreNotifier(s NotificationStore, allowed bool) *StoreNotifier {
	return &StoreNotifier{store: s, allowed: allowed}
}

func (n *StoreNotifier) RequestPermission(context.Context) (bool, error) {
	return n.allowed, nil
}

func (n *StoreNotifier) Schedule(ctx context.Context, ns []model.Notification) error {
	return n.store.UpsertNotifications(ctx, ns)
}

func (n *StoreNotifier) Cancel(ctx context.Context, ids []int) error {
	return n.store.DeleteNotifications(ctx, ids)
}

func (n *StoreNotifier) Pending(ctx context.Context) ([]model.Notification, error) {
	return n.store.GetNotifications(ctx)
}
