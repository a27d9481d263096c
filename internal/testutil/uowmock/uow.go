package uowmock

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"lendpeer-backend/internal/domain/loan"
	"lendpeer-backend/internal/domain/uow"
)

// Ensure compile-time compliance
var _ uow.UnitOfWork = (*UoW)(nil)

var errUnimplemented = errors.New("uowmock: method not implemented")

// UoW is a function-backed mock that satisfies uow.UnitOfWork.
// Fill in the function fields you need in a test; unfilled ones return
// errUnimplemented.
type UoW struct {
	WithinTxFn     func(ctx context.Context, fn func(r uow.Repos) error) error
	WithinLoanTxFn func(ctx context.Context, loanID string, fn func(r uow.Repos, l *loan.Loan) error) error
}

func New() *UoW { return &UoW{} }

// Passthrough builds a UoW that runs closures directly against the given
// repo bundle with no real transaction, locking the loan returned by
// getLoan. An unknown loan maps to loan.ErrNotFound exactly as the gorm
// unit of work does. Most usecase tests want exactly this.
func Passthrough(repos uow.Repos, getLoan func(ctx context.Context, loanID string) (*loan.Loan, error)) *UoW {
	return &UoW{
		WithinTxFn: func(ctx context.Context, fn func(r uow.Repos) error) error {
			return fn(repos)
		},
		WithinLoanTxFn: func(ctx context.Context, loanID string, fn func(r uow.Repos, l *loan.Loan) error) error {
			l, err := getLoan(ctx, loanID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return loan.ErrNotFound
				}
				return err
			}
			return fn(repos, l)
		},
	}
}

func (m *UoW) WithinTx(ctx context.Context, fn func(r uow.Repos) error) error {
	if m.WithinTxFn != nil {
		return m.WithinTxFn(ctx, fn)
	}
	return errUnimplemented
}

func (m *UoW) WithinLoanTx(ctx context.Context, loanID string, fn func(r uow.Repos, l *loan.Loan) error) error {
	if m.WithinLoanTxFn != nil {
		return m.WithinLoanTxFn(ctx, loanID, fn)
	}
	return errUnimplemented
}
