package account

import (
	"context"

	"lendpeer-backend/internal/domain/payment"
)

type Repository interface {
	Create(ctx context.Context, a *Account) error
	GetByAccountID(ctx context.Context, accountID string) (*Account, error)
	// GetByID resolves the numeric primary key stored on payment rows.
	GetByID(ctx context.Context, id uint64) (*Account, error)
	// GetDefault resolves the user's default account for a rail.
	GetDefault(ctx context.Context, userID string, t payment.Method) (*Account, error)
	ListByUserID(ctx context.Context, userID string) ([]Account, error)
	ListVerifiedByUserID(ctx context.Context, userID string) ([]Account, error)
	Save(ctx context.Context, a *Account) error
	Delete(ctx context.Context, a *Account) error
	// ClearDefault unsets the default flag on every account of the given
	// (user, type) pair except the one passed; must run in the same
	// transaction as the Save that sets the new default.
	ClearDefault(ctx context.Context, userID string, t payment.Method, exceptID uint64) error
}
