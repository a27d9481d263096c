package notification

import "context"

type Repository interface {
	Create(ctx context.Context, n *Notification) error
	ListByUserID(ctx context.Context, userID string) ([]Notification, error)
	GetByNotificationID(ctx context.Context, notificationID string) (*Notification, error)
	Save(ctx context.Context, n *Notification) error
}
