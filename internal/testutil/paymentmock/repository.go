package paymentmock

import (
	"context"

	domain "lendpeer-backend/internal/domain/payment"
)

// Repo is a function-backed mock that satisfies domain.Repository.
type Repo struct {
	CreateFn                  func(ctx context.Context, p *domain.Payment) error
	GetByPaymentIDFn          func(ctx context.Context, paymentID string) (*domain.Payment, error)
	GetByPaymentIDForUpdateFn func(ctx context.Context, paymentID string) (*domain.Payment, error)
	GetByProviderIntentIDFn   func(ctx context.Context, intentID string) (*domain.Payment, error)
	SaveFn                    func(ctx context.Context, p *domain.Payment) error
	ListByLoanIDFn            func(ctx context.Context, loanNumericID uint64) ([]domain.Payment, error)
	SumConfirmedRepaymentsFn  func(ctx context.Context, loanNumericID uint64) (float64, error)
}

func (m *Repo) Create(ctx context.Context, p *domain.Payment) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, p)
	}
	return nil
}

func (m *Repo) GetByPaymentID(ctx context.Context, paymentID string) (*domain.Payment, error) {
	if m.GetByPaymentIDFn != nil {
		return m.GetByPaymentIDFn(ctx, paymentID)
	}
	return nil, context.Canceled
}

func (m *Repo) GetByPaymentIDForUpdate(ctx context.Context, paymentID string) (*domain.Payment, error) {
	if m.GetByPaymentIDForUpdateFn != nil {
		return m.GetByPaymentIDForUpdateFn(ctx, paymentID)
	}
	return nil, context.Canceled
}

func (m *Repo) GetByProviderIntentID(ctx context.Context, intentID string) (*domain.Payment, error) {
	if m.GetByProviderIntentIDFn != nil {
		return m.GetByProviderIntentIDFn(ctx, intentID)
	}
	return nil, context.Canceled
}

func (m *Repo) Save(ctx context.Context, p *domain.Payment) error {
	if m.SaveFn != nil {
		return m.SaveFn(ctx, p)
	}
	return nil
}

func (m *Repo) ListByLoanID(ctx context.Context, loanNumericID uint64) ([]domain.Payment, error) {
	if m.ListByLoanIDFn != nil {
		return m.ListByLoanIDFn(ctx, loanNumericID)
	}
	return nil, nil
}

func (m *Repo) SumConfirmedRepayments(ctx context.Context, loanNumericID uint64) (float64, error) {
	if m.SumConfirmedRepaymentsFn != nil {
		return m.SumConfirmedRepaymentsFn(ctx, loanNumericID)
	}
	return 0, nil
}
