package uow

import (
	"context"

	"lendpeer-backend/internal/domain/account"
	"lendpeer-backend/internal/domain/loan"
	"lendpeer-backend/internal/domain/notification"
	"lendpeer-backend/internal/domain/payment"
	"lendpeer-backend/internal/domain/relationship"
	"lendpeer-backend/internal/domain/term"
	"lendpeer-backend/internal/domain/user"
)

// Repos bundles every repository bound to one transaction.
type Repos struct {
	Users         user.Repository
	Loans         loan.Repository
	Payments      payment.Repository
	Accounts      account.Repository
	Terms         term.Repository
	Relationships relationship.Repository
	Notifications notification.Repository
}

type UnitOfWork interface {
	// WithinTx runs fn in a single transaction.
	WithinTx(ctx context.Context, fn func(r Repos) error) error
	// WithinLoanTx locks the loan row first, then passes it in. Every
	// settlement decision that reads payment aggregates and conditionally
	// transitions the loan must go through this: the row lock is the
	// per-loan serialization scope.
	WithinLoanTx(ctx context.Context, loanID string, fn func(r Repos, l *loan.Loan) error) error
}
