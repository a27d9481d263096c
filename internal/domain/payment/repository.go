package payment

import "context"

type Repository interface {
	Create(ctx context.Context, p *Payment) error
	GetByPaymentID(ctx context.Context, paymentID string) (*Payment, error)
	// GetByPaymentIDForUpdate locks the payment row; only meaningful inside
	// a transaction.
	GetByPaymentIDForUpdate(ctx context.Context, paymentID string) (*Payment, error)
	// GetByProviderIntentID looks a payment up by the remote intent/payment
	// reference stored at initiation; confirm callbacks only carry that.
	GetByProviderIntentID(ctx context.Context, intentID string) (*Payment, error)
	Save(ctx context.Context, p *Payment) error
	ListByLoanID(ctx context.Context, loanNumericID uint64) ([]Payment, error)
	// SumConfirmedRepayments recomputes the repaid total as a fresh aggregate
	// over confirmed borrower→lender payments. The loan never carries a
	// running-total column; this query is the source of truth.
	SumConfirmedRepayments(ctx context.Context, loanNumericID uint64) (float64, error)
}
