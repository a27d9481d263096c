package settlement

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"lendpeer-backend/internal/audit"
	domainLoan "lendpeer-backend/internal/domain/loan"
	domainNotification "lendpeer-backend/internal/domain/notification"
	domainPayment "lendpeer-backend/internal/domain/payment"
	"lendpeer-backend/internal/domain/uow"
)

// ConfirmProvider closes a card-processor payment. The remote intent is
// retrieved first (outside any lock; the processor is authoritative and the
// call is read-only), then the payment finalizes under the loan lock.
func (u *Usecase) ConfirmProvider(ctx context.Context, in ConfirmProviderInput) (*PaymentDTO, error) {
	p, err := u.lookupRemote(ctx, in.ProviderIntentID, in.PaymentID)
	if err != nil {
		return nil, err
	}
	if p.Settled() {
		return toDTO(p), nil
	}

	res, err := u.rails.Card.Confirm(ctx, in.ProviderIntentID)
	if err != nil {
		u.markFailed(ctx, p.PaymentID)
		return nil, err
	}

	dto, err := u.finalizeRemote(ctx, in.ActorUserID, p.PaymentID, p.LoanPublicID, res.TransactionID)
	if err != nil {
		return nil, err
	}
	return dto, nil
}

// ConfirmPayout closes a payout-network payment after the payer approved it:
// execute the approved payment, then (for funding) push the payout on to the
// borrower's registered handle. Only after both remote legs succeed does the
// payment finalize under the loan lock.
func (u *Usecase) ConfirmPayout(ctx context.Context, in ConfirmPayoutInput) (*PaymentDTO, error) {
	p, err := u.lookupRemote(ctx, in.ProviderPaymentID, in.PaymentID)
	if err != nil {
		return nil, err
	}
	if p.Settled() {
		return toDTO(p), nil
	}

	execRes, err := u.rails.Payout.Execute(ctx, in.ProviderPaymentID, in.PayerID)
	if err != nil {
		u.markFailed(ctx, p.PaymentID)
		return nil, err
	}
	txnID := execRes.TransactionID

	// The executed payment landed in the platform's network account; forward
	// it to the receiver's handle. For funding this leg is mandatory — the
	// borrower has not been paid until the payout lands.
	if p.ToAccountID != nil {
		to, err := u.accountRepo.GetByID(ctx, *p.ToAccountID)
		if err == nil {
			payoutRes, perr := u.rails.Payout.Payout(ctx, p.Amount, to.Handle, p.LoanPublicID)
			switch {
			case perr == nil:
				txnID = payoutRes.TransactionID
			case p.IsFunding():
				u.markFailed(ctx, p.PaymentID)
				return nil, perr
			default:
				// Repayment already reached the platform account; the
				// forward to the lender can be retried by operators.
				u.anomalyOutsideTx(ctx, p, "repayment payout leg failed: "+perr.Error())
			}
		} else if p.IsFunding() {
			u.markFailed(ctx, p.PaymentID)
			return nil, err
		}
	}

	dto, err := u.finalizeRemote(ctx, in.ActorUserID, p.PaymentID, p.LoanPublicID, txnID)
	if err != nil {
		return nil, err
	}
	return dto, nil
}

// finalizeRemote records terminal success for a remote rail under the loan
// lock and re-derives the loan status. Re-confirming an already settled
// payment is a no-op returning current state.
func (u *Usecase) finalizeRemote(ctx context.Context, actorID, paymentID, loanID, txnID string) (*PaymentDTO, error) {
	var dto *PaymentDTO
	err := u.uow.WithinLoanTx(ctx, loanID, func(r uow.Repos, l *domainLoan.Loan) error {
		p, err := r.Payments.GetByPaymentIDForUpdate(ctx, paymentID)
		if err != nil {
			return err
		}
		if p.Settled() {
			dto = toDTO(p)
			return nil
		}

		p.Confirmed = true
		p.TransferStatus = domainPayment.TransferCompleted
		if txnID != "" {
			p.TransactionID = txnID
		}
		if err := r.Payments.Save(ctx, p); err != nil {
			return err
		}

		u.applyLoanTransition(ctx, r, l, p)

		receiverID := partyID(l, p.ReceiverRole)
		notify(ctx, r, receiverID, l.LoanID, domainNotification.TypePaymentConfirmed,
			fmt.Sprintf("Payment of $%.2f via %s completed.", p.Amount, p.Method))

		dto = toDTO(p)
		return nil
	})
	if err != nil {
		return nil, err
	}

	u.audit.Record(ctx, actorID, audit.ActionPaymentConfirmed, map[string]any{
		"payment_id": paymentID,
		"loan_id":    loanID,
	})
	return dto, nil
}

// lookupRemote resolves a payment from the remote reference, falling back
// to the public payment id when the reference was never stored (a client
// retrying after a crashed initiation response).
func (u *Usecase) lookupRemote(ctx context.Context, remoteRef, paymentID string) (*domainPayment.Payment, error) {
	p, err := u.paymentRepo.GetByProviderIntentID(ctx, remoteRef)
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if paymentID == "" {
		return nil, domainPayment.ErrNotFound
	}
	p, err = u.paymentRepo.GetByPaymentID(ctx, paymentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainPayment.ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

// markFailed records a terminal rail failure on its own transaction. The
// loan is deliberately untouched.
func (u *Usecase) markFailed(ctx context.Context, paymentID string) {
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		p, err := r.Payments.GetByPaymentIDForUpdate(ctx, paymentID)
		if err != nil {
			return err
		}
		if p.Settled() {
			return nil
		}
		p.TransferStatus = domainPayment.TransferFailed
		return r.Payments.Save(ctx, p)
	})
	if err != nil {
		u.audit.Record(ctx, "", audit.ActionReconciliationAnomaly, map[string]any{
			"payment_id": paymentID,
			"detail":     "failed to mark payment FAILED: " + err.Error(),
		})
	}
}

func (u *Usecase) anomalyOutsideTx(ctx context.Context, p *domainPayment.Payment, detail string) {
	u.audit.Record(ctx, "", audit.ActionReconciliationAnomaly, map[string]any{
		"loan_id":    p.LoanPublicID,
		"payment_id": p.PaymentID,
		"detail":     detail,
	})
}
