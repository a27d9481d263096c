package accountmock

import (
	"context"

	domain "lendpeer-backend/internal/domain/account"
	domainPayment "lendpeer-backend/internal/domain/payment"
)

// Repo is a function-backed mock that satisfies domain.Repository.
type Repo struct {
	CreateFn               func(ctx context.Context, a *domain.Account) error
	GetByAccountIDFn       func(ctx context.Context, accountID string) (*domain.Account, error)
	GetByIDFn              func(ctx context.Context, id uint64) (*domain.Account, error)
	GetDefaultFn           func(ctx context.Context, userID string, t domainPayment.Method) (*domain.Account, error)
	ListByUserIDFn         func(ctx context.Context, userID string) ([]domain.Account, error)
	ListVerifiedByUserIDFn func(ctx context.Context, userID string) ([]domain.Account, error)
	SaveFn                 func(ctx context.Context, a *domain.Account) error
	DeleteFn               func(ctx context.Context, a *domain.Account) error
	ClearDefaultFn         func(ctx context.Context, userID string, t domainPayment.Method, exceptID uint64) error
}

func (m *Repo) Create(ctx context.Context, a *domain.Account) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, a)
	}
	return nil
}

func (m *Repo) GetByAccountID(ctx context.Context, accountID string) (*domain.Account, error) {
	if m.GetByAccountIDFn != nil {
		return m.GetByAccountIDFn(ctx, accountID)
	}
	return nil, context.Canceled
}

func (m *Repo) GetByID(ctx context.Context, id uint64) (*domain.Account, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	return nil, context.Canceled
}

func (m *Repo) GetDefault(ctx context.Context, userID string, t domainPayment.Method) (*domain.Account, error) {
	if m.GetDefaultFn != nil {
		return m.GetDefaultFn(ctx, userID, t)
	}
	return nil, context.Canceled
}

func (m *Repo) ListByUserID(ctx context.Context, userID string) ([]domain.Account, error) {
	if m.ListByUserIDFn != nil {
		return m.ListByUserIDFn(ctx, userID)
	}
	return nil, nil
}

func (m *Repo) ListVerifiedByUserID(ctx context.Context, userID string) ([]domain.Account, error) {
	if m.ListVerifiedByUserIDFn != nil {
		return m.ListVerifiedByUserIDFn(ctx, userID)
	}
	return nil, nil
}

func (m *Repo) Save(ctx context.Context, a *domain.Account) error {
	if m.SaveFn != nil {
		return m.SaveFn(ctx, a)
	}
	return nil
}

func (m *Repo) Delete(ctx context.Context, a *domain.Account) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, a)
	}
	return nil
}

func (m *Repo) ClearDefault(ctx context.Context, userID string, t domainPayment.Method, exceptID uint64) error {
	if m.ClearDefaultFn != nil {
		return m.ClearDefaultFn(ctx, userID, t, exceptID)
	}
	return nil
}
