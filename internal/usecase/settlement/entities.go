package settlement

import (
	"errors"
	"fmt"
	"strings"
	"time"

	domainPayment "lendpeer-backend/internal/domain/payment"
)

var (
	ErrSameRole         = errors.New("payer and receiver roles must differ")
	ErrActorNotParty    = errors.New("user is not a party to this loan")
	ErrActorNotPayer    = errors.New("user is not the paying party of this payment")
	ErrLoanNotFunded    = errors.New("loan is not in a repayable state")
	ErrNotManual        = errors.New("payment is not on a manually confirmed method")
	ErrAlreadyConfirmed = errors.New("payment is already confirmed")
)

// AccountMissingError: the party has no default account registered for the
// requested method. Carries the role so the handler can tell the client
// which side must add one.
type AccountMissingError struct {
	Role   domainPayment.Role
	Method domainPayment.Method
}

func (e *AccountMissingError) Error() string {
	return fmt.Sprintf("%s has no default %s account", strings.ToLower(string(e.Role)), e.Method)
}

type InitiateInput struct {
	ActorUserID  string
	LoanID       string
	Amount       float64
	Method       domainPayment.Method
	PayerRole    domainPayment.Role
	ReceiverRole domainPayment.Role
}

// InitiateOutput carries the created payment plus whatever the rail needs
// the client to do next: nothing (wallet), a client-side intent completion
// (card), an approval redirect (payout network), or a manual transfer.
type InitiateOutput struct {
	Payment                    *PaymentDTO `json:"payment"`
	ClientSecret               string      `json:"client_secret,omitempty"`
	ApprovalURL                string      `json:"approval_url,omitempty"`
	RequiresAction             bool        `json:"requires_action"`
	RequiresManualConfirmation bool        `json:"requires_manual_confirmation"`
}

type ConfirmProviderInput struct {
	ActorUserID      string
	ProviderIntentID string
	PaymentID        string
}

type ConfirmPayoutInput struct {
	ActorUserID       string
	ProviderPaymentID string
	PayerID           string
	PaymentID         string
}

type SubmitProofInput struct {
	ActorUserID   string
	PaymentID     string
	TransactionID string
	Note          string
	ScreenshotRef string
}

type ConfirmManualInput struct {
	ActorUserID string
	PaymentID   string
	Confirmed   bool
	Note        string
}

type PaymentDTO struct {
	PaymentID         string                       `json:"payment_id"`
	LoanID            string                       `json:"loan_id"`
	Amount            float64                      `json:"amount"`
	Method            domainPayment.Method         `json:"method"`
	PayerRole         domainPayment.Role           `json:"payer_role"`
	ReceiverRole      domainPayment.Role           `json:"receiver_role"`
	PaymentDate       time.Time                    `json:"payment_date"`
	Confirmed         bool                         `json:"confirmed"`
	TransferStatus    domainPayment.TransferStatus `json:"transfer_status"`
	ManualStatus      domainPayment.ManualStatus   `json:"manual_confirmation_status"`
	LenderConfirmed   bool                         `json:"lender_confirmed"`
	BorrowerConfirmed bool                         `json:"borrower_confirmed"`
	TransactionID     string                       `json:"transaction_id,omitempty"`
	ConfirmationNote  string                       `json:"confirmation_note,omitempty"`
	ScreenshotRef     string                       `json:"screenshot_ref,omitempty"`
	CreatedAt         time.Time                    `json:"created_at"`
}

func toDTO(p *domainPayment.Payment) *PaymentDTO {
	return &PaymentDTO{
		PaymentID:         p.PaymentID,
		LoanID:            p.LoanPublicID,
		Amount:            p.Amount,
		Method:            p.Method,
		PayerRole:         p.PayerRole,
		ReceiverRole:      p.ReceiverRole,
		PaymentDate:       p.PaymentDate,
		Confirmed:         p.Confirmed,
		TransferStatus:    p.TransferStatus,
		ManualStatus:      p.ManualStatus,
		LenderConfirmed:   p.LenderConfirmed,
		BorrowerConfirmed: p.BorrowerConfirmed,
		TransactionID:     p.TransactionID,
		ConfirmationNote:  p.ConfirmationNote,
		ScreenshotRef:     p.ScreenshotRef,
		CreatedAt:         p.CreatedAt,
	}
}
