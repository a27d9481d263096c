package notification

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	domainNotification "lendpeer-backend/internal/domain/notification"
	"lendpeer-backend/internal/testutil/notificationmock"
)

var userID = strings.Repeat("a", 32)

func TestMarkRead(t *testing.T) {
	n := &domainNotification.Notification{
		NotificationID: strings.Repeat("c", 32),
		UserID:         userID,
	}
	saves := 0
	repo := &notificationmock.Repo{
		GetByNotificationIDFn: func(_ context.Context, id string) (*domainNotification.Notification, error) {
			if id == n.NotificationID {
				return n, nil
			}
			return nil, gorm.ErrRecordNotFound
		},
		SaveFn: func(_ context.Context, _ *domainNotification.Notification) error {
			saves++
			return nil
		},
	}
	uc := NewUsecase(repo)

	got, err := uc.MarkRead(context.Background(), userID, n.NotificationID)
	require.NoError(t, err)
	assert.True(t, got.IsRead)
	assert.Equal(t, 1, saves)

	// Re-marking is a no-op.
	_, err = uc.MarkRead(context.Background(), userID, n.NotificationID)
	require.NoError(t, err)
	assert.Equal(t, 1, saves)

	_, err = uc.MarkRead(context.Background(), strings.Repeat("9", 32), n.NotificationID)
	require.ErrorIs(t, err, ErrNotOwner)

	_, err = uc.MarkRead(context.Background(), userID, strings.Repeat("0", 32))
	require.ErrorIs(t, err, domainNotification.ErrNotFound)
}
