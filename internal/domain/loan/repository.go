package loan

import (
	"context"
	"time"
)

type Repository interface {
	Create(ctx context.Context, l *Loan) error
	GetByLoanID(ctx context.Context, loanID string) (*Loan, error)
	// GetByLoanIDForUpdate locks the row (SELECT ... FOR UPDATE); only
	// meaningful inside a transaction.
	GetByLoanIDForUpdate(ctx context.Context, loanID string) (*Loan, error)
	Save(ctx context.Context, l *Loan) error
	ListByLenderID(ctx context.Context, lenderID string) ([]Loan, error)
	ListByBorrowerID(ctx context.Context, borrowerID string) ([]Loan, error)
	// ListFundedPastDue feeds the overdue sweep's first pass.
	ListFundedPastDue(ctx context.Context, now time.Time) ([]Loan, error)
	ListOverdue(ctx context.Context) ([]Loan, error)
	// FindOpenByTerm reports an existing loan between the parties under the
	// given term, used to enforce single-loan terms.
	FindOpenByTerm(ctx context.Context, lenderID, borrowerID, termID string) (*Loan, error)
}
