package mysql

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"lendpeer-backend/internal/domain/loan"
	"lendpeer-backend/internal/domain/uow"
)

type GormUoW struct{ db *gorm.DB }

func NewGormUoW(db *gorm.DB) *GormUoW { return &GormUoW{db: db} }

func reposFor(tx *gorm.DB) uow.Repos {
	return uow.Repos{
		Users:         &UserRepository{db: tx},
		Loans:         &LoanRepository{db: tx},
		Payments:      &PaymentRepository{db: tx},
		Accounts:      &AccountRepository{db: tx},
		Terms:         &TermRepository{db: tx},
		Relationships: &RelationshipRepository{db: tx},
		Notifications: &NotificationRepository{db: tx},
	}
}

func (u *GormUoW) WithinTx(ctx context.Context, fn func(r uow.Repos) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(reposFor(tx))
	})
}

func (u *GormUoW) WithinLoanTx(ctx context.Context, loanID string, fn func(r uow.Repos, l *loan.Loan) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		r := reposFor(tx)
		// lock the loan row up-front so concurrent settlements serialize
		l, err := r.Loans.GetByLoanIDForUpdate(ctx, loanID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return loan.ErrNotFound
			}
			return err
		}
		return fn(r, l)
	})
}
