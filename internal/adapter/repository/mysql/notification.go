package mysql

import (
	"context"

	"gorm.io/gorm"

	notifDomain "lendpeer-backend/internal/domain/notification"
)

type NotificationRepository struct{ db *gorm.DB }

func NewNotificationRepository(db *gorm.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

func (r *NotificationRepository) Create(ctx context.Context, n *notifDomain.Notification) error {
	return r.db.WithContext(ctx).Create(n).Error
}

func (r *NotificationRepository) Save(ctx context.Context, n *notifDomain.Notification) error {
	return r.db.WithContext(ctx).Save(n).Error
}

func (r *NotificationRepository) GetByNotificationID(ctx context.Context, notificationID string) (*notifDomain.Notification, error) {
	var out notifDomain.Notification
	res := r.db.WithContext(ctx).Where("notification_id = ?", notificationID).First(&out)
	return &out, res.Error
}

func (r *NotificationRepository) ListByUserID(ctx context.Context, userID string) ([]notifDomain.Notification, error) {
	var out []notifDomain.Notification
	res := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&out)
	return out, res.Error
}
