package mysql

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	paymentDomain "lendpeer-backend/internal/domain/payment"
)

type PaymentRepository struct{ db *gorm.DB }

func NewPaymentRepository(db *gorm.DB) *PaymentRepository { return &PaymentRepository{db: db} }

func (r *PaymentRepository) Create(ctx context.Context, p *paymentDomain.Payment) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *PaymentRepository) Save(ctx context.Context, p *paymentDomain.Payment) error {
	return r.db.WithContext(ctx).Save(p).Error
}

func (r *PaymentRepository) GetByPaymentID(ctx context.Context, paymentID string) (*paymentDomain.Payment, error) {
	var out paymentDomain.Payment
	res := r.db.WithContext(ctx).Where("payment_id = ?", paymentID).First(&out)
	return &out, res.Error
}

func (r *PaymentRepository) GetByPaymentIDForUpdate(ctx context.Context, paymentID string) (*paymentDomain.Payment, error) {
	var out paymentDomain.Payment
	res := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("payment_id = ?", paymentID).
		First(&out)
	return &out, res.Error
}

func (r *PaymentRepository) GetByProviderIntentID(ctx context.Context, intentID string) (*paymentDomain.Payment, error) {
	var out paymentDomain.Payment
	res := r.db.WithContext(ctx).Where("provider_intent_id = ?", intentID).First(&out)
	return &out, res.Error
}

func (r *PaymentRepository) ListByLoanID(ctx context.Context, loanNumericID uint64) ([]paymentDomain.Payment, error) {
	var out []paymentDomain.Payment
	res := r.db.WithContext(ctx).
		Where("loan_id = ?", loanNumericID).
		Order("created_at DESC").
		Find(&out)
	return out, res.Error
}

// SumConfirmedRepayments recomputes the repaid aggregate from payment rows
// every time; nothing incremental, so late or out-of-order confirmations
// can never skew the total.
func (r *PaymentRepository) SumConfirmedRepayments(ctx context.Context, loanNumericID uint64) (float64, error) {
	var total float64
	res := r.db.WithContext(ctx).
		Model(&paymentDomain.Payment{}).
		Select("COALESCE(SUM(amount), 0)").
		Where("loan_id = ? AND confirmed = ? AND payer_role = ? AND receiver_role = ?",
			loanNumericID, true, paymentDomain.RoleBorrower, paymentDomain.RoleLender).
		Scan(&total)
	return total, res.Error
}
