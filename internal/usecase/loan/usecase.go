// Package loan covers loan origination and the lender's fund/deny calls.
// Fee math happens once, at creation: totalPayable is immutable afterwards.
package loan

import (
	"context"
	"errors"
	"math"
	"time"

	"gorm.io/gorm"

	"lendpeer-backend/internal/audit"
	domainLoan "lendpeer-backend/internal/domain/loan"
	domainPayment "lendpeer-backend/internal/domain/payment"
	domainTerm "lendpeer-backend/internal/domain/term"
	"lendpeer-backend/internal/domain/uow"
	"lendpeer-backend/pkg/id"
)

// Default fee rates per 10 units when the loan is created without a term.
const (
	DefaultFeePer10Short = 1.0
	DefaultFeePer10Long  = 2.0
)

type Usecase struct {
	loanRepo domainLoan.Repository
	uow      uow.UnitOfWork
	audit    audit.Logger
	now      func() time.Time
}

func NewUsecase(loans domainLoan.Repository, tx uow.UnitOfWork, sink audit.Logger) *Usecase {
	return &Usecase{loanRepo: loans, uow: tx, audit: sink, now: time.Now}
}

// quote computes the fee for one loan request. Paybacks of a week or less
// use the short rate.
func quote(amount float64, paybackDays int, t *domainTerm.LenderTerm) (feeAmount, totalPayable float64) {
	feePer10 := DefaultFeePer10Long
	if paybackDays <= 7 {
		feePer10 = DefaultFeePer10Short
	}
	if t != nil {
		feePer10 = t.FeePer10(paybackDays)
	}
	feeAmount = (amount / 10) * feePer10
	totalPayable = amount + feeAmount
	return feeAmount, totalPayable
}

// Create originates a PENDING loan for the acting borrower. Requires a
// CONFIRMED lender↔borrower relationship; when a term is named, the request
// must fit inside it.
func (u *Usecase) Create(ctx context.Context, in CreateInput) (*LoanDTO, error) {
	if in.Amount <= 0 || in.PaybackDays <= 0 {
		return nil, ErrMissingFields
	}
	if in.Method != "" && !domainPayment.Method(in.Method).Valid() {
		return nil, domainPayment.ErrUnknownMethod
	}

	var dto *LoanDTO
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		if _, err := r.Relationships.GetConfirmed(ctx, in.LenderID, in.ActorUserID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNoRelationship
			}
			return err
		}

		var t *domainTerm.LenderTerm
		if in.TermID != "" {
			found, err := r.Terms.GetByTermID(ctx, in.TermID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return domainTerm.ErrNotFound
				}
				return err
			}
			if found.LenderID != in.LenderID {
				return ErrTermNotOwned
			}
			if err := checkTermFit(found, in.Amount, in.PaybackDays); err != nil {
				return err
			}
			if !found.AllowMultipleLoans {
				if _, err := r.Loans.FindOpenByTerm(ctx, in.LenderID, in.ActorUserID, found.TermID); err == nil {
					return ErrOpenLoanExists
				} else if !errors.Is(err, gorm.ErrRecordNotFound) {
					return err
				}
			}
			if err := checkMethodFit(ctx, r, found, in.ActorUserID); err != nil {
				return err
			}
			t = found
		}

		feeAmount, totalPayable := quote(in.Amount, in.PaybackDays, t)
		now := u.now().UTC()

		l := &domainLoan.Loan{
			LoanID:          id.NewID32(),
			LenderID:        in.LenderID,
			BorrowerID:      in.ActorUserID,
			Amount:          in.Amount,
			FeeAmount:       feeAmount,
			TotalPayable:    totalPayable,
			DateBorrowed:    now,
			PaybackDate:     now.AddDate(0, 0, in.PaybackDays),
			Status:          domainLoan.StatusPending,
			Health:          domainLoan.HealthGood,
			SignedBy:        in.SignedBy,
			StatusUpdatedAt: now,
		}
		if t != nil {
			l.TermID = &t.TermID
		}
		if in.Method != "" {
			l.AgreedPaymentMethod = &in.Method
		}
		if err := r.Loans.Create(ctx, l); err != nil {
			return err
		}
		dto = toDTO(l)
		return nil
	})
	if err != nil {
		return nil, err
	}

	u.audit.Record(ctx, in.ActorUserID, audit.ActionLoanCreated, map[string]any{
		"loan_id": dto.LoanID,
		"amount":  in.Amount,
	})
	return dto, nil
}

// Fund records the lender's out-of-band disbursement and moves the loan to
// FUNDED. A confirmed funding payment row backs the transition so loan
// history stays re-derivable from payments.
func (u *Usecase) Fund(ctx context.Context, actorUserID, loanID string) (*LoanDTO, error) {
	var dto *LoanDTO
	err := u.uow.WithinLoanTx(ctx, loanID, func(r uow.Repos, l *domainLoan.Loan) error {
		if l.LenderID != actorUserID {
			return ErrNotLender
		}
		if l.Status != domainLoan.StatusPending {
			return domainLoan.ErrNotPending
		}

		method := domainPayment.MethodInternalWallet
		if l.AgreedPaymentMethod != nil {
			method = domainPayment.Method(*l.AgreedPaymentMethod)
		}
		p := &domainPayment.Payment{
			PaymentID:       id.NewID32(),
			LoanID:          l.ID,
			LoanPublicID:    l.LoanID,
			Amount:          l.Amount,
			Method:          method,
			PayerRole:       domainPayment.RoleLender,
			ReceiverRole:    domainPayment.RoleBorrower,
			PaymentDate:     u.now().UTC(),
			Confirmed:       true,
			TransferStatus:  domainPayment.TransferCompleted,
			ManualStatus:    domainPayment.ManualConfirmed,
			LenderConfirmed: true,
		}
		if err := r.Payments.Create(ctx, p); err != nil {
			return err
		}

		if err := l.Transition(domainLoan.StatusFunded, u.now().UTC()); err != nil {
			return err
		}
		if err := r.Loans.Save(ctx, l); err != nil {
			return err
		}
		dto = toDTO(l)
		return nil
	})
	if err != nil {
		return nil, err
	}

	u.audit.Record(ctx, actorUserID, audit.ActionLoanFunded, map[string]any{"loan_id": loanID})
	return dto, nil
}

// Deny rejects a PENDING loan. Terminal: a denied loan never reopens.
func (u *Usecase) Deny(ctx context.Context, actorUserID, loanID string) (*LoanDTO, error) {
	var dto *LoanDTO
	err := u.uow.WithinLoanTx(ctx, loanID, func(r uow.Repos, l *domainLoan.Loan) error {
		if l.LenderID != actorUserID {
			return ErrNotLender
		}
		if l.Status != domainLoan.StatusPending {
			return domainLoan.ErrNotPending
		}
		if err := l.Transition(domainLoan.StatusDenied, u.now().UTC()); err != nil {
			return err
		}
		if err := r.Loans.Save(ctx, l); err != nil {
			return err
		}
		dto = toDTO(l)
		return nil
	})
	if err != nil {
		return nil, err
	}

	u.audit.Record(ctx, actorUserID, audit.ActionLoanDenied, map[string]any{"loan_id": loanID})
	return dto, nil
}

func (u *Usecase) Get(ctx context.Context, actorUserID, loanID string) (*LoanDTO, error) {
	l, err := u.loanRepo.GetByLoanID(ctx, loanID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainLoan.ErrNotFound
		}
		return nil, err
	}
	if l.LenderID != actorUserID && l.BorrowerID != actorUserID {
		// Obscured as not-found so outsiders cannot probe loan ids.
		return nil, domainLoan.ErrNotFound
	}
	return toDTO(l), nil
}

func (u *Usecase) ListForLender(ctx context.Context, lenderID string) ([]LoanDTO, error) {
	rows, err := u.loanRepo.ListByLenderID(ctx, lenderID)
	if err != nil {
		return nil, err
	}
	return toDTOs(rows), nil
}

func (u *Usecase) ListForBorrower(ctx context.Context, borrowerID string) ([]LoanDTO, error) {
	rows, err := u.loanRepo.ListByBorrowerID(ctx, borrowerID)
	if err != nil {
		return nil, err
	}
	return toDTOs(rows), nil
}

func toDTOs(rows []domainLoan.Loan) []LoanDTO {
	out := make([]LoanDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *toDTO(&rows[i]))
	}
	return out
}

func checkTermFit(t *domainTerm.LenderTerm, amount float64, paybackDays int) error {
	if amount > t.MaxLoanAmount {
		return ErrAmountTooLarge
	}
	if t.LoanMultiple > 0 {
		if rem := math.Mod(amount, t.LoanMultiple); rem > 1e-9 && t.LoanMultiple-rem > 1e-9 {
			return ErrBadMultiple
		}
	}
	if paybackDays > t.MaxPaybackDays {
		return ErrPaybackTooLong
	}
	return nil
}

// checkMethodFit enforces the term's payment-method preference: when the
// lender requires a match, the borrower must hold a verified account on one
// of the preferred rails.
func checkMethodFit(ctx context.Context, r uow.Repos, t *domainTerm.LenderTerm, borrowerID string) error {
	if !t.RequireMatchingMethod {
		return nil
	}
	preferred := t.PreferredMethodList()
	if len(preferred) == 0 {
		return nil
	}
	accounts, err := r.Accounts.ListVerifiedByUserID(ctx, borrowerID)
	if err != nil {
		return err
	}
	for _, a := range accounts {
		for _, m := range preferred {
			if a.AccountType == m {
				return nil
			}
		}
	}
	return ErrNoMatchingAccount
}
