// Package rail holds the payment rail adapters. Each rail is an explicitly
// constructed client handle injected into the settlement engine; nothing is
// looked up from ambient scope.
package rail

import (
	"context"

	"lendpeer-backend/internal/domain/payment"
)

// Error is a remote rail failure. The message is surfaced verbatim to the
// caller; the settlement engine marks the payment FAILED and leaves the loan
// untouched.
type Error struct {
	Message string
}

func (e *Error) Error() string { return e.Message }

type InitiateRequest struct {
	LoanID       string
	PaymentID    string
	Amount       float64
	Method       payment.Method
	PayerRole    payment.Role
	ReceiverRole payment.Role
	// FromHandle/ToHandle are the rail-specific account identifiers of the
	// payer and receiver ($cashtag, payout email, ...).
	FromHandle string
	ToHandle   string
}

type InitiateResult struct {
	// TransactionID is set when the rail produced a final reference already.
	TransactionID string
	// ProviderPaymentID is the remote intent/payment id used by the confirm
	// phase of two-phase rails.
	ProviderPaymentID string
	// ClientSecret lets the client complete a card-processor intent.
	ClientSecret string
	// ApprovalURL sends the payer to the payout network's approval page.
	ApprovalURL string
	// RequiresAction: the caller must drive a second phase.
	RequiresAction bool
	// RequiresManualConfirmation: settlement continues via dual attestation.
	RequiresManualConfirmation bool
}

type ConfirmResult struct {
	TransactionID string
	Status        string
}

// Adapter is the contract every rail exposes to the settlement engine.
type Adapter interface {
	Initiate(ctx context.Context, req InitiateRequest) (*InitiateResult, error)
}

// Provider is the two-phase card-processor contract: initiate creates a
// pending intent, Confirm retrieves it and is authoritative only when the
// remote status is terminal success.
type Provider interface {
	Adapter
	Confirm(ctx context.Context, intentID string) (*ConfirmResult, error)
}

// PayoutNetwork is the create → execute → payout contract of the external
// e-wallet rail.
type PayoutNetwork interface {
	Adapter
	Execute(ctx context.Context, providerPaymentID, payerID string) (*ConfirmResult, error)
	Payout(ctx context.Context, amount float64, recipientHandle, loanID string) (*ConfirmResult, error)
}
