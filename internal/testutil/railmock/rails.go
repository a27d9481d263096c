package railmock

import (
	"context"

	"lendpeer-backend/internal/rail"
)

var (
	_ rail.Adapter       = (*Adapter)(nil)
	_ rail.Provider      = (*Provider)(nil)
	_ rail.PayoutNetwork = (*PayoutNetwork)(nil)
)

// Adapter is a function-backed rail.Adapter.
type Adapter struct {
	InitiateFn func(ctx context.Context, req rail.InitiateRequest) (*rail.InitiateResult, error)
}

func (m *Adapter) Initiate(ctx context.Context, req rail.InitiateRequest) (*rail.InitiateResult, error) {
	if m.InitiateFn != nil {
		return m.InitiateFn(ctx, req)
	}
	return &rail.InitiateResult{}, nil
}

// Provider is a function-backed rail.Provider.
type Provider struct {
	Adapter
	ConfirmFn func(ctx context.Context, intentID string) (*rail.ConfirmResult, error)
}

func (m *Provider) Confirm(ctx context.Context, intentID string) (*rail.ConfirmResult, error) {
	if m.ConfirmFn != nil {
		return m.ConfirmFn(ctx, intentID)
	}
	return &rail.ConfirmResult{Status: "succeeded"}, nil
}

// PayoutNetwork is a function-backed rail.PayoutNetwork.
type PayoutNetwork struct {
	Adapter
	ExecuteFn func(ctx context.Context, providerPaymentID, payerID string) (*rail.ConfirmResult, error)
	PayoutFn  func(ctx context.Context, amount float64, recipientHandle, loanID string) (*rail.ConfirmResult, error)
}

func (m *PayoutNetwork) Execute(ctx context.Context, providerPaymentID, payerID string) (*rail.ConfirmResult, error) {
	if m.ExecuteFn != nil {
		return m.ExecuteFn(ctx, providerPaymentID, payerID)
	}
	return &rail.ConfirmResult{Status: "approved"}, nil
}

func (m *PayoutNetwork) Payout(ctx context.Context, amount float64, recipientHandle, loanID string) (*rail.ConfirmResult, error) {
	if m.PayoutFn != nil {
		return m.PayoutFn(ctx, amount, recipientHandle, loanID)
	}
	return &rail.ConfirmResult{Status: "SUCCESS"}, nil
}
