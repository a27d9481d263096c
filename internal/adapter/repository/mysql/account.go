package mysql

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	accountDomain "lendpeer-backend/internal/domain/account"
	paymentDomain "lendpeer-backend/internal/domain/payment"
)

type AccountRepository struct{ db *gorm.DB }

func NewAccountRepository(db *gorm.DB) *AccountRepository { return &AccountRepository{db: db} }

func (r *AccountRepository) Create(ctx context.Context, a *accountDomain.Account) error {
	err := r.db.WithContext(ctx).Create(a).Error
	if err != nil && isDuplicateKey(err) {
		return accountDomain.ErrDuplicateHandle
	}
	return err
}

func (r *AccountRepository) Save(ctx context.Context, a *accountDomain.Account) error {
	return r.db.WithContext(ctx).Save(a).Error
}

func (r *AccountRepository) Delete(ctx context.Context, a *accountDomain.Account) error {
	return r.db.WithContext(ctx).Delete(a).Error
}

func (r *AccountRepository) GetByAccountID(ctx context.Context, accountID string) (*accountDomain.Account, error) {
	var out accountDomain.Account
	res := r.db.WithContext(ctx).Where("account_id = ?", accountID).First(&out)
	return &out, res.Error
}

func (r *AccountRepository) GetByID(ctx context.Context, id uint64) (*accountDomain.Account, error) {
	var out accountDomain.Account
	res := r.db.WithContext(ctx).Where("id = ?", id).First(&out)
	return &out, res.Error
}

// GetDefault resolves the account settlement initiates against; an
// unverified default is as unusable as a missing one.
func (r *AccountRepository) GetDefault(ctx context.Context, userID string, t paymentDomain.Method) (*accountDomain.Account, error) {
	var out accountDomain.Account
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND account_type = ? AND is_default = ? AND is_verified = ?", userID, t, true, true).
		First(&out)
	return &out, res.Error
}

func (r *AccountRepository) ListByUserID(ctx context.Context, userID string) ([]accountDomain.Account, error) {
	var out []accountDomain.Account
	res := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("is_default DESC").
		Find(&out)
	return out, res.Error
}

func (r *AccountRepository) ListVerifiedByUserID(ctx context.Context, userID string) ([]accountDomain.Account, error) {
	var out []accountDomain.Account
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND is_verified = ?", userID, true).
		Find(&out)
	return out, res.Error
}

func (r *AccountRepository) ClearDefault(ctx context.Context, userID string, t paymentDomain.Method, exceptID uint64) error {
	return r.db.WithContext(ctx).
		Model(&accountDomain.Account{}).
		Where("user_id = ? AND account_type = ? AND id <> ?", userID, t, exceptID).
		Update("is_default", false).Error
}

func isDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	// mysql driver surfaces 1062 without a sentinel in older gorm versions
	return strings.Contains(err.Error(), "Duplicate entry") ||
		strings.Contains(err.Error(), "UNIQUE constraint failed")
}
