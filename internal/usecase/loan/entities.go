package loan

import (
	"errors"
	"time"

	domainLoan "lendpeer-backend/internal/domain/loan"
)

var (
	ErrMissingFields     = errors.New("amount and payback days are required")
	ErrNoRelationship    = errors.New("no confirmed relationship between lender and borrower")
	ErrTermNotOwned      = errors.New("lender term does not belong to this lender")
	ErrAmountTooLarge    = errors.New("amount exceeds the term's maximum loan amount")
	ErrBadMultiple       = errors.New("amount is not a multiple of the term's loan multiple")
	ErrPaybackTooLong    = errors.New("payback period exceeds the term's maximum")
	ErrOpenLoanExists    = errors.New("an open loan already exists under this term")
	ErrNoMatchingAccount = errors.New("borrower holds no verified account matching the term's preferred methods")
	ErrNotLender         = errors.New("user is not the lender of this loan")
	ErrNotParty          = errors.New("user is not a party to this loan")
)

type CreateInput struct {
	ActorUserID string // the borrower
	LenderID    string
	TermID      string // optional
	Amount      float64
	PaybackDays int
	SignedBy    string
	Method      string // optional agreed payment method
}

type LoanDTO struct {
	LoanID          string            `json:"loan_id"`
	LenderID        string            `json:"lender_id"`
	BorrowerID      string            `json:"borrower_id"`
	TermID          string            `json:"term_id,omitempty"`
	Amount          float64           `json:"amount"`
	FeeAmount       float64           `json:"fee_amount"`
	TotalPayable    float64           `json:"total_payable"`
	DateBorrowed    time.Time         `json:"date_borrowed"`
	PaybackDate     time.Time         `json:"payback_date"`
	Status          domainLoan.Status `json:"status"`
	Health          domainLoan.Health `json:"health"`
	SignedBy        string            `json:"signed_by"`
	AgreedMethod    string            `json:"agreed_payment_method,omitempty"`
	StatusUpdatedAt time.Time         `json:"status_updated_at"`
	CreatedAt       time.Time         `json:"created_at"`
}

func toDTO(l *domainLoan.Loan) *LoanDTO {
	dto := &LoanDTO{
		LoanID:          l.LoanID,
		LenderID:        l.LenderID,
		BorrowerID:      l.BorrowerID,
		Amount:          l.Amount,
		FeeAmount:       l.FeeAmount,
		TotalPayable:    l.TotalPayable,
		DateBorrowed:    l.DateBorrowed,
		PaybackDate:     l.PaybackDate,
		Status:          l.Status,
		Health:          l.Health,
		SignedBy:        l.SignedBy,
		StatusUpdatedAt: l.StatusUpdatedAt,
		CreatedAt:       l.CreatedAt,
	}
	if l.TermID != nil {
		dto.TermID = *l.TermID
	}
	if l.AgreedPaymentMethod != nil {
		dto.AgreedMethod = *l.AgreedPaymentMethod
	}
	return dto
}
