package loan

import (
	"errors"
	"time"

	"gorm.io/gorm"
)

var (
	ErrNotFound          = errors.New("loan not found")
	ErrInvalidTransition = errors.New("illegal loan status transition")
	ErrNotPending        = errors.New("loan is not pending")
	ErrAlreadyCompleted  = errors.New("loan is already completed")
)

type Status string

const (
	StatusPending   Status = "PENDING"
	StatusFunded    Status = "FUNDED"
	StatusDenied    Status = "DENIED"
	StatusOverdue   Status = "OVERDUE"
	StatusCompleted Status = "COMPLETED"
)

// transitions is the closed set of legal status moves. Self-transitions are
// handled in Transition as idempotent no-ops.
var transitions = map[Status][]Status{
	StatusPending: {StatusFunded, StatusDenied},
	StatusFunded:  {StatusOverdue, StatusCompleted},
	StatusOverdue: {StatusCompleted},
}

func (s Status) CanTransition(to Status) bool {
	for _, next := range transitions[s] {
		if next == to {
			return true
		}
	}
	return false
}

type Health string

const (
	HealthGood      Health = "GOOD"
	HealthBehind    Health = "BEHIND"
	HealthFailing   Health = "FAILING"
	HealthDefaulted Health = "DEFAULTED"
)

var healthRank = map[Health]int{
	HealthGood:      0,
	HealthBehind:    1,
	HealthFailing:   2,
	HealthDefaulted: 3,
}

// HealthForDaysLate grades delinquency: >30 DEFAULTED, >14 FAILING, else BEHIND.
func HealthForDaysLate(daysLate int) Health {
	switch {
	case daysLate > 30:
		return HealthDefaulted
	case daysLate > 14:
		return HealthFailing
	default:
		return HealthBehind
	}
}

type Loan struct {
	ID                     uint64         `gorm:"primaryKey;column:id" json:"-"`
	LoanID                 string         `gorm:"size:32;uniqueIndex:ux_loans_loan_id_active" json:"loan_id"`
	LenderID               string         `gorm:"size:32;index:idx_loans_lender" json:"lender_id"`
	BorrowerID             string         `gorm:"size:32;index:idx_loans_borrower" json:"borrower_id"`
	TermID                 *string        `gorm:"size:32" json:"term_id,omitempty"`
	Amount                 float64        `gorm:"type:decimal(18,2)" json:"amount"`
	FeeAmount              float64        `gorm:"type:decimal(18,2)" json:"fee_amount"`
	TotalPayable           float64        `gorm:"type:decimal(18,2)" json:"total_payable"`
	DateBorrowed           time.Time      `json:"date_borrowed"`
	PaybackDate            time.Time      `gorm:"index:idx_loans_payback" json:"payback_date"`
	Status                 Status         `gorm:"type:enum('PENDING','FUNDED','DENIED','OVERDUE','COMPLETED');default:'PENDING';index:idx_loans_status" json:"status"`
	Health                 Health         `gorm:"type:enum('GOOD','BEHIND','FAILING','DEFAULTED');default:'GOOD'" json:"health"`
	SignedBy               string         `gorm:"size:191" json:"signed_by"`
	AgreedPaymentMethod    *string        `gorm:"size:32" json:"agreed_payment_method,omitempty"`
	AgreedPaymentAccountID *string        `gorm:"size:32" json:"agreed_payment_account_id,omitempty"`
	StatusUpdatedAt        time.Time      `gorm:"autoCreateTime" json:"status_updated_at"`
	CreatedAt              time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt              time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt              gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Loan) TableName() string { return "loans" }

// Transition moves the loan to the given status after checking the table.
// Moving to the current status is an idempotent no-op: a second confirmed
// funding payment must not error and must not bump StatusUpdatedAt.
func (l *Loan) Transition(to Status, now time.Time) error {
	if l.Status == to {
		return nil
	}
	if !l.Status.CanTransition(to) {
		return ErrInvalidTransition
	}
	l.Status = to
	l.StatusUpdatedAt = now
	return nil
}

// Degrade worsens the health grade. Health never improves once degraded.
func (l *Loan) Degrade(to Health) {
	if healthRank[to] > healthRank[l.Health] {
		l.Health = to
	}
}

// DaysLate is whole days past the payback date, zero when not yet due.
func (l *Loan) DaysLate(now time.Time) int {
	if !now.After(l.PaybackDate) {
		return 0
	}
	return int(now.Sub(l.PaybackDate).Hours() / 24)
}
