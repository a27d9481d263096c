package term

import (
	"errors"
	"time"

	domainPayment "lendpeer-backend/internal/domain/payment"
	domainTerm "lendpeer-backend/internal/domain/term"
)

var (
	ErrNotOwner      = errors.New("term does not belong to this lender")
	ErrBadLimits     = errors.New("term limits must be positive")
	ErrUnknownMethod = errors.New("unknown preferred payment method")
)

type CreateInput struct {
	ActorUserID           string
	MaxLoanAmount         float64
	LoanMultiple          float64
	MaxPaybackDays        int
	FeePer10Short         float64
	FeePer10Long          float64
	AllowMultipleLoans    bool
	PreferredMethods      []string
	RequireMatchingMethod bool
}

type UpdateInput struct {
	ActorUserID        string
	TermID             string
	MaxLoanAmount      *float64
	LoanMultiple       *float64
	MaxPaybackDays     *int
	FeePer10Short      *float64
	FeePer10Long       *float64
	AllowMultipleLoans *bool
}

type PreferencesInput struct {
	ActorUserID           string
	TermID                string
	PreferredMethods      []string
	RequireMatchingMethod bool
}

type TermDTO struct {
	TermID                string    `json:"term_id"`
	LenderID              string    `json:"lender_id"`
	MaxLoanAmount         float64   `json:"max_loan_amount"`
	LoanMultiple          float64   `json:"loan_multiple"`
	MaxPaybackDays        int       `json:"max_payback_days"`
	FeePer10Short         float64   `json:"fee_per_10_short"`
	FeePer10Long          float64   `json:"fee_per_10_long"`
	AllowMultipleLoans    bool      `json:"allow_multiple_loans"`
	InviteToken           string    `json:"invite_token"`
	PreferredMethods      []string  `json:"preferred_methods,omitempty"`
	RequireMatchingMethod bool      `json:"require_matching_method"`
	CreatedAt             time.Time `json:"created_at"`
}

func toDTO(t *domainTerm.LenderTerm) *TermDTO {
	dto := &TermDTO{
		TermID:                t.TermID,
		LenderID:              t.LenderID,
		MaxLoanAmount:         t.MaxLoanAmount,
		LoanMultiple:          t.LoanMultiple,
		MaxPaybackDays:        t.MaxPaybackDays,
		FeePer10Short:         t.FeePer10Short,
		FeePer10Long:          t.FeePer10Long,
		AllowMultipleLoans:    t.AllowMultipleLoans,
		InviteToken:           t.InviteToken,
		RequireMatchingMethod: t.RequireMatchingMethod,
		CreatedAt:             t.CreatedAt,
	}
	for _, m := range t.PreferredMethodList() {
		dto.PreferredMethods = append(dto.PreferredMethods, string(m))
	}
	return dto
}

func validateMethods(methods []string) error {
	for _, m := range methods {
		if !domainPayment.Method(m).Valid() {
			return ErrUnknownMethod
		}
	}
	return nil
}
