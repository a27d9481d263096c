package mysql

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	loanDomain "lendpeer-backend/internal/domain/loan"
)

type LoanRepository struct{ db *gorm.DB }

func NewLoanRepository(db *gorm.DB) *LoanRepository { return &LoanRepository{db: db} }

func (r *LoanRepository) Create(ctx context.Context, l *loanDomain.Loan) error {
	return r.db.WithContext(ctx).Create(l).Error
}

func (r *LoanRepository) Save(ctx context.Context, l *loanDomain.Loan) error {
	return r.db.WithContext(ctx).Save(l).Error
}

func (r *LoanRepository) GetByLoanID(ctx context.Context, loanID string) (*loanDomain.Loan, error) {
	var out loanDomain.Loan
	res := r.db.WithContext(ctx).Where("loan_id = ?", loanID).First(&out)
	return &out, res.Error
}

// GetByLoanIDForUpdate takes a row lock; combined with the UoW transaction it
// serializes all settlement on one loan.
func (r *LoanRepository) GetByLoanIDForUpdate(ctx context.Context, loanID string) (*loanDomain.Loan, error) {
	var out loanDomain.Loan
	res := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("loan_id = ?", loanID).
		First(&out)
	return &out, res.Error
}

func (r *LoanRepository) ListByLenderID(ctx context.Context, lenderID string) ([]loanDomain.Loan, error) {
	var out []loanDomain.Loan
	res := r.db.WithContext(ctx).
		Where("lender_id = ?", lenderID).
		Order("created_at DESC").
		Find(&out)
	return out, res.Error
}

func (r *LoanRepository) ListByBorrowerID(ctx context.Context, borrowerID string) ([]loanDomain.Loan, error) {
	var out []loanDomain.Loan
	res := r.db.WithContext(ctx).
		Where("borrower_id = ?", borrowerID).
		Order("created_at DESC").
		Find(&out)
	return out, res.Error
}

func (r *LoanRepository) ListFundedPastDue(ctx context.Context, now time.Time) ([]loanDomain.Loan, error) {
	var out []loanDomain.Loan
	res := r.db.WithContext(ctx).
		Where("status = ? AND payback_date < ?", loanDomain.StatusFunded, now).
		Find(&out)
	return out, res.Error
}

func (r *LoanRepository) ListOverdue(ctx context.Context) ([]loanDomain.Loan, error) {
	var out []loanDomain.Loan
	res := r.db.WithContext(ctx).
		Where("status = ?", loanDomain.StatusOverdue).
		Find(&out)
	return out, res.Error
}

func (r *LoanRepository) FindOpenByTerm(ctx context.Context, lenderID, borrowerID, termID string) (*loanDomain.Loan, error) {
	var out loanDomain.Loan
	res := r.db.WithContext(ctx).
		Where("lender_id = ? AND borrower_id = ? AND term_id = ? AND status NOT IN ?",
			lenderID, borrowerID, termID,
			[]loanDomain.Status{loanDomain.StatusCompleted, loanDomain.StatusDenied}).
		Order("created_at DESC").
		First(&out)
	return &out, res.Error
}
