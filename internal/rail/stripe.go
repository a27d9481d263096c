package rail

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
)

// StripeRail is the two-phase card-processor rail. Initiate creates a
// payment intent and hands back the client secret; Confirm retrieves the
// intent and succeeds only when the remote status is "succeeded".
type StripeRail struct {
	api *client.API
}

func NewStripeRail(secretKey string) *StripeRail {
	api := &client.API{}
	api.Init(secretKey, nil)
	return &StripeRail{api: api}
}

var _ Provider = (*StripeRail)(nil)

func (r *StripeRail) Initiate(ctx context.Context, req InitiateRequest) (*InitiateResult, error) {
	params := &stripe.PaymentIntentParams{
		Params:   stripe.Params{Context: ctx},
		Amount:   stripe.Int64(int64(math.Round(req.Amount * 100))),
		Currency: stripe.String(string(stripe.CurrencyUSD)),
		Description: stripe.String(fmt.Sprintf("%s to %s - From: %s To: %s",
			req.PayerRole, req.ReceiverRole, orNA(req.FromHandle), orNA(req.ToHandle))),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}
	params.AddMetadata("loan_id", req.LoanID)
	params.AddMetadata("payer_role", string(req.PayerRole))
	params.AddMetadata("receiver_role", string(req.ReceiverRole))
	params.AddMetadata("method", string(req.Method))

	pi, err := r.api.PaymentIntents.New(params)
	if err != nil {
		return nil, remoteError(err)
	}
	return &InitiateResult{
		ProviderPaymentID: pi.ID,
		TransactionID:     pi.ID,
		ClientSecret:      pi.ClientSecret,
		RequiresAction:    true,
	}, nil
}

func (r *StripeRail) Confirm(ctx context.Context, intentID string) (*ConfirmResult, error) {
	pi, err := r.api.PaymentIntents.Get(intentID, &stripe.PaymentIntentParams{
		Params: stripe.Params{Context: ctx},
	})
	if err != nil {
		return nil, remoteError(err)
	}
	if pi.Status != stripe.PaymentIntentStatusSucceeded {
		return nil, &Error{Message: fmt.Sprintf("payment status: %s", pi.Status)}
	}
	return &ConfirmResult{TransactionID: pi.ID, Status: string(pi.Status)}, nil
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}

// remoteError keeps the processor's own message so the caller sees it
// verbatim.
func remoteError(err error) error {
	var se *stripe.Error
	if errors.As(err, &se) && se.Msg != "" {
		return &Error{Message: se.Msg}
	}
	return &Error{Message: err.Error()}
}
