package notification

import (
	"errors"
	"time"
)

var ErrNotFound = errors.New("notification not found")

type Type string

const (
	TypePaymentConfirmed Type = "PAYMENT_CONFIRMED"
	TypePaymentDisputed  Type = "PAYMENT_DISPUTED"
	TypePaymentProof     Type = "PAYMENT_PROOF"
	TypeLoanOverdue      Type = "LOAN_OVERDUE"
)

// Notification is append-only; settlement side effects create them, users
// only flip IsRead.
type Notification struct {
	ID             uint64    `gorm:"primaryKey;column:id" json:"-"`
	NotificationID string    `gorm:"size:32;uniqueIndex:ux_notifications_id" json:"notification_id"`
	UserID         string    `gorm:"size:32;index:idx_notifications_user" json:"user_id"`
	LoanID         string    `gorm:"size:32" json:"loan_id"`
	Type           Type      `gorm:"size:32" json:"type"`
	Message        string    `gorm:"type:text" json:"message"`
	IsRead         bool      `json:"is_read"`
	CreatedAt      time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (Notification) TableName() string { return "notifications" }
