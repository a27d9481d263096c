package term

import (
	"encoding/json"
	"errors"
	"time"

	"gorm.io/gorm"

	"lendpeer-backend/internal/domain/payment"
)

var ErrNotFound = errors.New("lender term not found")

// LenderTerm is a lender's reusable loan policy. The invite token is a
// capability: possession grants borrowing access under these terms.
type LenderTerm struct {
	ID                 uint64  `gorm:"primaryKey;column:id" json:"-"`
	TermID             string  `gorm:"size:32;uniqueIndex:ux_terms_term_id" json:"term_id"`
	LenderID           string  `gorm:"size:32;index:idx_terms_lender" json:"lender_id"`
	MaxLoanAmount      float64 `gorm:"type:decimal(18,2)" json:"max_loan_amount"`
	LoanMultiple       float64 `gorm:"type:decimal(18,2);default:10" json:"loan_multiple"`
	MaxPaybackDays     int     `json:"max_payback_days"`
	FeePer10Short      float64 `gorm:"type:decimal(6,2)" json:"fee_per_10_short"`
	FeePer10Long       float64 `gorm:"type:decimal(6,2)" json:"fee_per_10_long"`
	AllowMultipleLoans bool    `json:"allow_multiple_loans"`
	InviteToken        string  `gorm:"size:64;uniqueIndex:ux_terms_invite_token" json:"invite_token"`
	// PreferredMethods is a JSON array of payment methods; empty means all
	// methods are acceptable.
	PreferredMethods      string         `gorm:"type:text" json:"preferred_methods,omitempty"`
	RequireMatchingMethod bool           `json:"require_matching_method"`
	CreatedAt             time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt             time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt             gorm.DeletedAt `gorm:"index" json:"-"`
}

func (LenderTerm) TableName() string { return "lender_terms" }

// FeePer10 picks the short or long rate: paybacks of a week or less use the
// short rate.
func (t *LenderTerm) FeePer10(paybackDays int) float64 {
	if paybackDays <= 7 {
		return t.FeePer10Short
	}
	return t.FeePer10Long
}

// PreferredMethodList decodes the stored JSON array; a malformed or empty
// value means no preference.
func (t *LenderTerm) PreferredMethodList() []payment.Method {
	if t.PreferredMethods == "" {
		return nil
	}
	var out []payment.Method
	if err := json.Unmarshal([]byte(t.PreferredMethods), &out); err != nil {
		return nil
	}
	return out
}
