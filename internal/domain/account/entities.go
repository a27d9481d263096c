package account

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"lendpeer-backend/internal/domain/payment"
)

var (
	ErrNotFound        = errors.New("payment account not found")
	ErrDuplicateHandle = errors.New("handle already linked to an account")
)

// Account is a user's registered source/destination for one rail.
type Account struct {
	ID          uint64         `gorm:"primaryKey;column:id" json:"-"`
	AccountID   string         `gorm:"size:32;uniqueIndex:ux_accounts_account_id" json:"account_id"`
	UserID      string         `gorm:"size:32;index:idx_accounts_user" json:"user_id"`
	AccountType payment.Method `gorm:"size:32;index:idx_accounts_user" json:"account_type"`
	// Handle is the rail-specific identifier: $cashtag, Zelle contact, or
	// payout-network email.
	Handle     string         `gorm:"size:191;uniqueIndex:ux_accounts_handle" json:"handle"`
	Nickname   string         `gorm:"size:191" json:"nickname"`
	IsDefault  bool           `json:"is_default"`
	IsVerified bool           `json:"is_verified"`
	CreatedAt  time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Account) TableName() string { return "payment_accounts" }
