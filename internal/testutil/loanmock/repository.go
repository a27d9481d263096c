package loanmock

import (
	"context"
	"time"

	domain "lendpeer-backend/internal/domain/loan"
)

// Repo is a function-backed mock that satisfies domain.Repository.
// Fill in the fields a test needs; unfilled getters fail fast.
type Repo struct {
	CreateFn               func(ctx context.Context, l *domain.Loan) error
	GetByLoanIDFn          func(ctx context.Context, loanID string) (*domain.Loan, error)
	GetByLoanIDForUpdateFn func(ctx context.Context, loanID string) (*domain.Loan, error)
	SaveFn                 func(ctx context.Context, l *domain.Loan) error
	ListByLenderIDFn       func(ctx context.Context, lenderID string) ([]domain.Loan, error)
	ListByBorrowerIDFn     func(ctx context.Context, borrowerID string) ([]domain.Loan, error)
	ListFundedPastDueFn    func(ctx context.Context, now time.Time) ([]domain.Loan, error)
	ListOverdueFn          func(ctx context.Context) ([]domain.Loan, error)
	FindOpenByTermFn       func(ctx context.Context, lenderID, borrowerID, termID string) (*domain.Loan, error)
}

func (m *Repo) Create(ctx context.Context, l *domain.Loan) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, l)
	}
	return nil
}

func (m *Repo) GetByLoanID(ctx context.Context, loanID string) (*domain.Loan, error) {
	if m.GetByLoanIDFn != nil {
		return m.GetByLoanIDFn(ctx, loanID)
	}
	return nil, context.Canceled
}

func (m *Repo) GetByLoanIDForUpdate(ctx context.Context, loanID string) (*domain.Loan, error) {
	if m.GetByLoanIDForUpdateFn != nil {
		return m.GetByLoanIDForUpdateFn(ctx, loanID)
	}
	return nil, context.Canceled
}

func (m *Repo) Save(ctx context.Context, l *domain.Loan) error {
	if m.SaveFn != nil {
		return m.SaveFn(ctx, l)
	}
	return nil
}

func (m *Repo) ListByLenderID(ctx context.Context, lenderID string) ([]domain.Loan, error) {
	if m.ListByLenderIDFn != nil {
		return m.ListByLenderIDFn(ctx, lenderID)
	}
	return nil, nil
}

func (m *Repo) ListByBorrowerID(ctx context.Context, borrowerID string) ([]domain.Loan, error) {
	if m.ListByBorrowerIDFn != nil {
		return m.ListByBorrowerIDFn(ctx, borrowerID)
	}
	return nil, nil
}

func (m *Repo) ListFundedPastDue(ctx context.Context, now time.Time) ([]domain.Loan, error) {
	if m.ListFundedPastDueFn != nil {
		return m.ListFundedPastDueFn(ctx, now)
	}
	return nil, nil
}

func (m *Repo) ListOverdue(ctx context.Context) ([]domain.Loan, error) {
	if m.ListOverdueFn != nil {
		return m.ListOverdueFn(ctx)
	}
	return nil, nil
}

func (m *Repo) FindOpenByTerm(ctx context.Context, lenderID, borrowerID, termID string) (*domain.Loan, error) {
	if m.FindOpenByTermFn != nil {
		return m.FindOpenByTermFn(ctx, lenderID, borrowerID, termID)
	}
	return nil, context.Canceled
}
