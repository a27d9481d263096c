package notification

import (
	"context"
	"errors"

	"gorm.io/gorm"

	domainNotification "lendpeer-backend/internal/domain/notification"
)

var ErrNotOwner = errors.New("notification does not belong to this user")

type Usecase struct {
	repo domainNotification.Repository
}

func NewUsecase(r domainNotification.Repository) *Usecase { return &Usecase{repo: r} }

func (u *Usecase) ListForUser(ctx context.Context, userID string) ([]domainNotification.Notification, error) {
	return u.repo.ListByUserID(ctx, userID)
}

// MarkRead is the only mutation users get on notifications.
func (u *Usecase) MarkRead(ctx context.Context, actorUserID, notificationID string) (*domainNotification.Notification, error) {
	n, err := u.repo.GetByNotificationID(ctx, notificationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainNotification.ErrNotFound
		}
		return nil, err
	}
	if n.UserID != actorUserID {
		return nil, ErrNotOwner
	}
	if n.IsRead {
		return n, nil
	}
	n.IsRead = true
	if err := u.repo.Save(ctx, n); err != nil {
		return nil, err
	}
	return n, nil
}
