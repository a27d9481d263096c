package notificationmock

import (
	"context"

	domain "lendpeer-backend/internal/domain/notification"
)

// Repo is a function-backed mock that satisfies domain.Repository.
type Repo struct {
	CreateFn              func(ctx context.Context, n *domain.Notification) error
	ListByUserIDFn        func(ctx context.Context, userID string) ([]domain.Notification, error)
	GetByNotificationIDFn func(ctx context.Context, notificationID string) (*domain.Notification, error)
	SaveFn                func(ctx context.Context, n *domain.Notification) error
}

func (m *Repo) Create(ctx context.Context, n *domain.Notification) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, n)
	}
	return nil
}

func (m *Repo) ListByUserID(ctx context.Context, userID string) ([]domain.Notification, error) {
	if m.ListByUserIDFn != nil {
		return m.ListByUserIDFn(ctx, userID)
	}
	return nil, nil
}

func (m *Repo) GetByNotificationID(ctx context.Context, notificationID string) (*domain.Notification, error) {
	if m.GetByNotificationIDFn != nil {
		return m.GetByNotificationIDFn(ctx, notificationID)
	}
	return nil, context.Canceled
}

func (m *Repo) Save(ctx context.Context, n *domain.Notification) error {
	if m.SaveFn != nil {
		return m.SaveFn(ctx, n)
	}
	return nil
}
