package payment

import (
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"
)

var (
	ErrNotFound      = errors.New("payment not found")
	ErrNotCompleted  = errors.New("payment transfer is not completed")
	ErrUnknownMethod = errors.New("unknown payment method")
)

// Role is the side of the loan a payment party sits on.
type Role string

const (
	RoleLender   Role = "LENDER"
	RoleBorrower Role = "BORROWER"
)

func (r Role) Valid() bool { return r == RoleLender || r == RoleBorrower }

// Opposite returns the counterparty role.
func (r Role) Opposite() Role {
	if r == RoleLender {
		return RoleBorrower
	}
	return RoleLender
}

// Method identifies the rail a payment moves on.
type Method string

const (
	MethodCashApp        Method = "CASHAPP"
	MethodZelle          Method = "ZELLE"
	MethodPayPal         Method = "PAYPAL"
	MethodCard           Method = "CARD"
	MethodInternalWallet Method = "INTERNAL_WALLET"
)

func (m Method) Valid() bool {
	switch m {
	case MethodCashApp, MethodZelle, MethodPayPal, MethodCard, MethodInternalWallet:
		return true
	}
	return false
}

// AccountBacked reports whether the method settles against a registered
// payment account (so defaults must be resolved at initiation).
func (m Method) AccountBacked() bool {
	return m == MethodCashApp || m == MethodZelle || m == MethodPayPal
}

// Manual reports whether the method settles by human dual-attestation
// rather than a remote provider call.
func (m Method) Manual() bool { return m == MethodCashApp || m == MethodZelle }

type TransferStatus string

const (
	TransferPending    TransferStatus = "PENDING"
	TransferProcessing TransferStatus = "PROCESSING"
	TransferCompleted  TransferStatus = "COMPLETED"
	TransferFailed     TransferStatus = "FAILED"
)

// ManualStatus tracks the dual-attestation protocol for manual rails.
type ManualStatus string

const (
	ManualNone                ManualStatus = "NONE"
	ManualPendingUpload       ManualStatus = "PENDING_UPLOAD"
	ManualPendingConfirmation ManualStatus = "PENDING_CONFIRMATION"
	ManualConfirmed           ManualStatus = "CONFIRMED"
	ManualDisputed            ManualStatus = "DISPUTED"
)

type Payment struct {
	ID             uint64         `gorm:"primaryKey;column:id" json:"-"`
	PaymentID      string         `gorm:"size:32;uniqueIndex:ux_payments_payment_id" json:"payment_id"`
	LoanID         uint64         `gorm:"not null;index:idx_payments_loan" json:"-"`
	LoanPublicID   string         `gorm:"size:32;index:idx_payments_loan_public" json:"loan_id"`
	Amount         float64        `gorm:"type:decimal(18,2)" json:"amount"`
	Method         Method         `gorm:"size:32" json:"method"`
	PayerRole      Role           `gorm:"size:16" json:"payer_role"`
	ReceiverRole   Role           `gorm:"size:16" json:"receiver_role"`
	PaymentDate    time.Time      `json:"payment_date"`
	Confirmed      bool           `json:"confirmed"`
	TransferStatus TransferStatus `gorm:"size:16;default:'PENDING'" json:"transfer_status"`
	ManualStatus   ManualStatus   `gorm:"column:manual_confirmation_status;size:32;default:'NONE'" json:"manual_confirmation_status"`

	LenderConfirmed   bool `json:"lender_confirmed"`
	BorrowerConfirmed bool `json:"borrower_confirmed"`

	// Remote references. ProviderIntentID holds the card processor's intent
	// id or the payout network's payment id; TransactionID holds the final
	// external transaction / payout batch reference.
	ProviderIntentID string `gorm:"size:191;index:idx_payments_intent" json:"provider_intent_id,omitempty"`
	TransactionID    string `gorm:"size:191" json:"transaction_id,omitempty"`

	ConfirmationNote string `gorm:"type:text" json:"confirmation_note,omitempty"`
	ScreenshotRef    string `gorm:"size:255" json:"screenshot_ref,omitempty"`

	FromAccountID *uint64 `json:"-"`
	ToAccountID   *uint64 `json:"-"`

	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Payment) TableName() string { return "payments" }

// Settled reports terminal success: the state that drives loan transitions.
func (p *Payment) Settled() bool {
	return p.Confirmed && p.TransferStatus == TransferCompleted
}

// IsFunding reports a lender→borrower disbursement.
func (p *Payment) IsFunding() bool {
	return p.PayerRole == RoleLender && p.ReceiverRole == RoleBorrower
}

// IsRepayment reports a borrower→lender repayment.
func (p *Payment) IsRepayment() bool {
	return p.PayerRole == RoleBorrower && p.ReceiverRole == RoleLender
}

// AppendNote adds a role-tagged line to the cumulative confirmation note.
// Notes are only ever appended, never overwritten.
func (p *Payment) AppendNote(role Role, note string) {
	note = strings.TrimSpace(note)
	if note == "" {
		return
	}
	line := string(role) + ": " + note
	if p.ConfirmationNote == "" {
		p.ConfirmationNote = line
		return
	}
	p.ConfirmationNote = p.ConfirmationNote + "\n" + line
}

// SetConfirmerFlag records the stored per-party attestation boolean.
func (p *Payment) SetConfirmerFlag(role Role, confirmed bool) {
	if role == RoleLender {
		p.LenderConfirmed = confirmed
	} else {
		p.BorrowerConfirmed = confirmed
	}
}

// CounterpartyFlag returns the other party's stored attestation boolean.
func (p *Payment) CounterpartyFlag(role Role) bool {
	if role == RoleLender {
		return p.BorrowerConfirmed
	}
	return p.LenderConfirmed
}
