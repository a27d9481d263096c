// Package settlement is the payment settlement and loan-state reconciliation
// engine. Every confirmed payment funnels through a single loan-locked
// transaction that records the payment outcome and re-derives the loan
// status from fresh aggregates, so concurrent confirmations on one loan
// serialize on the row lock and can never double-apply a transition.
package settlement

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"lendpeer-backend/internal/audit"
	domainAccount "lendpeer-backend/internal/domain/account"
	domainLoan "lendpeer-backend/internal/domain/loan"
	domainPayment "lendpeer-backend/internal/domain/payment"
	"lendpeer-backend/internal/domain/uow"
	"lendpeer-backend/internal/rail"
	"lendpeer-backend/pkg/id"
)

// Rails bundles the four settlement rails the engine dispatches on.
type Rails struct {
	Wallet rail.Adapter
	Card   rail.Provider
	Payout rail.PayoutNetwork
	Manual rail.Adapter
}

type Usecase struct {
	paymentRepo domainPayment.Repository
	loanRepo    domainLoan.Repository
	accountRepo domainAccount.Repository
	uow         uow.UnitOfWork
	rails       Rails
	audit       audit.Logger
	now         func() time.Time
}

func NewUsecase(payments domainPayment.Repository, loans domainLoan.Repository, accounts domainAccount.Repository, tx uow.UnitOfWork, rails Rails, sink audit.Logger) *Usecase {
	return &Usecase{
		paymentRepo: payments,
		loanRepo:    loans,
		accountRepo: accounts,
		uow:         tx,
		rails:       rails,
		audit:       sink,
		now:         time.Now,
	}
}

// Initiate opens a payment on the requested rail. The whole flow runs under
// the loan row lock: party checks, default-account resolution, the rail
// call, the payment insert, and any synchronous loan transition commit or
// roll back together.
func (u *Usecase) Initiate(ctx context.Context, in InitiateInput) (*InitiateOutput, error) {
	if !in.Method.Valid() {
		return nil, domainPayment.ErrUnknownMethod
	}
	if !in.PayerRole.Valid() || !in.ReceiverRole.Valid() {
		return nil, ErrSameRole
	}
	if in.PayerRole == in.ReceiverRole {
		return nil, ErrSameRole
	}

	var out *InitiateOutput
	err := u.uow.WithinLoanTx(ctx, in.LoanID, func(r uow.Repos, l *domainLoan.Loan) error {
		payerID := partyID(l, in.PayerRole)
		receiverID := partyID(l, in.ReceiverRole)
		if in.ActorUserID != payerID {
			return ErrActorNotPayer
		}

		// Funding goes against a pending loan; repayments against a live one.
		if in.PayerRole == domainPayment.RoleLender {
			if l.Status != domainLoan.StatusPending {
				return domainLoan.ErrNotPending
			}
		} else {
			if l.Status == domainLoan.StatusCompleted {
				return domainLoan.ErrAlreadyCompleted
			}
			if l.Status != domainLoan.StatusFunded && l.Status != domainLoan.StatusOverdue {
				return ErrLoanNotFunded
			}
		}

		p := &domainPayment.Payment{
			PaymentID:      id.NewID32(),
			LoanID:         l.ID,
			LoanPublicID:   l.LoanID,
			Amount:         in.Amount,
			Method:         in.Method,
			PayerRole:      in.PayerRole,
			ReceiverRole:   in.ReceiverRole,
			PaymentDate:    u.now().UTC(),
			TransferStatus: domainPayment.TransferPending,
			ManualStatus:   domainPayment.ManualNone,
		}
		if in.Method.Manual() {
			p.ManualStatus = domainPayment.ManualPendingUpload
		}

		req := rail.InitiateRequest{
			LoanID:       l.LoanID,
			PaymentID:    p.PaymentID,
			Amount:       in.Amount,
			Method:       in.Method,
			PayerRole:    in.PayerRole,
			ReceiverRole: in.ReceiverRole,
		}
		if in.Method.AccountBacked() {
			from, err := r.Accounts.GetDefault(ctx, payerID, in.Method)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return &AccountMissingError{Role: in.PayerRole, Method: in.Method}
				}
				return err
			}
			to, err := r.Accounts.GetDefault(ctx, receiverID, in.Method)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return &AccountMissingError{Role: in.ReceiverRole, Method: in.Method}
				}
				return err
			}
			p.FromAccountID = &from.ID
			p.ToAccountID = &to.ID
			req.FromHandle = from.Handle
			req.ToHandle = to.Handle
		}

		res, err := u.dispatch(in.Method).Initiate(ctx, req)
		if err != nil {
			// Rail refused: nothing is persisted, loan untouched.
			return err
		}

		p.ProviderIntentID = res.ProviderPaymentID
		switch {
		case res.RequiresManualConfirmation:
			// Manual rails settle by attestation later, but a lender funding
			// over one hands the money off outside the system now, so the
			// loan goes FUNDED at initiation.
			if p.IsFunding() {
				if err := l.Transition(domainLoan.StatusFunded, u.now().UTC()); err != nil {
					return err
				}
				if err := r.Loans.Save(ctx, l); err != nil {
					return err
				}
			}
		case res.TransactionID != "" && !res.RequiresAction:
			// Instant rail: settled synchronously.
			p.Confirmed = true
			p.TransferStatus = domainPayment.TransferCompleted
			p.TransactionID = res.TransactionID
		}

		if err := r.Payments.Create(ctx, p); err != nil {
			return err
		}
		if p.Settled() {
			u.applyLoanTransition(ctx, r, l, p)
		}

		out = &InitiateOutput{
			Payment:                    toDTO(p),
			ClientSecret:               res.ClientSecret,
			ApprovalURL:                res.ApprovalURL,
			RequiresAction:             res.RequiresAction,
			RequiresManualConfirmation: res.RequiresManualConfirmation,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	u.audit.Record(ctx, in.ActorUserID, audit.ActionPaymentCreated, map[string]any{
		"payment_id": out.Payment.PaymentID,
		"loan_id":    in.LoanID,
		"method":     string(in.Method),
		"amount":     in.Amount,
	})
	return out, nil
}

// Get returns one payment by public id.
func (u *Usecase) Get(ctx context.Context, paymentID string) (*PaymentDTO, error) {
	p, err := u.paymentRepo.GetByPaymentID(ctx, paymentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainPayment.ErrNotFound
		}
		return nil, err
	}
	return toDTO(p), nil
}

// ListByLoan returns the loan's payments, newest first.
func (u *Usecase) ListByLoan(ctx context.Context, loanID string) ([]PaymentDTO, error) {
	l, err := u.loanRepo.GetByLoanID(ctx, loanID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainLoan.ErrNotFound
		}
		return nil, err
	}
	rows, err := u.paymentRepo.ListByLoanID(ctx, l.ID)
	if err != nil {
		return nil, err
	}
	out := make([]PaymentDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *toDTO(&rows[i]))
	}
	return out, nil
}

func (u *Usecase) dispatch(m domainPayment.Method) rail.Adapter {
	switch m {
	case domainPayment.MethodInternalWallet:
		return u.rails.Wallet
	case domainPayment.MethodCard:
		return u.rails.Card
	case domainPayment.MethodPayPal:
		return u.rails.Payout
	default:
		return u.rails.Manual
	}
}

func partyID(l *domainLoan.Loan, role domainPayment.Role) string {
	if role == domainPayment.RoleLender {
		return l.LenderID
	}
	return l.BorrowerID
}

// partyRole maps an acting user to their side of the loan.
func partyRole(l *domainLoan.Loan, userID string) (domainPayment.Role, error) {
	switch userID {
	case l.LenderID:
		return domainPayment.RoleLender, nil
	case l.BorrowerID:
		return domainPayment.RoleBorrower, nil
	default:
		return "", ErrActorNotParty
	}
}
