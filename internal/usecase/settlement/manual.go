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

// SubmitProof attaches the payer's evidence of an off-platform transfer and
// moves the attestation to PENDING_CONFIRMATION. Re-submission overwrites
// the proof fields (a corrected screenshot replaces the old one) while the
// note history only ever grows.
func (u *Usecase) SubmitProof(ctx context.Context, in SubmitProofInput) (*PaymentDTO, error) {
	var dto *PaymentDTO
	var loanPublicID string

	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		p, err := r.Payments.GetByPaymentIDForUpdate(ctx, in.PaymentID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domainPayment.ErrNotFound
			}
			return err
		}
		if !p.Method.Manual() {
			return ErrNotManual
		}
		if p.ManualStatus == domainPayment.ManualConfirmed {
			return ErrAlreadyConfirmed
		}

		l, err := r.Loans.GetByLoanID(ctx, p.LoanPublicID)
		if err != nil {
			return err
		}
		role, err := partyRole(l, in.ActorUserID)
		if err != nil {
			return err
		}
		if role != p.PayerRole {
			return ErrActorNotPayer
		}

		p.TransactionID = in.TransactionID
		p.ScreenshotRef = in.ScreenshotRef
		p.AppendNote(role, in.Note)
		p.ManualStatus = domainPayment.ManualPendingConfirmation
		if err := r.Payments.Save(ctx, p); err != nil {
			return err
		}

		loanPublicID = l.LoanID
		notify(ctx, r, partyID(l, role.Opposite()), l.LoanID, domainNotification.TypePaymentProof,
			fmt.Sprintf("Transfer proof submitted for a $%.2f %s payment. Please confirm receipt.", p.Amount, p.Method))

		dto = toDTO(p)
		return nil
	})
	if err != nil {
		return nil, err
	}

	u.audit.Record(ctx, in.ActorUserID, audit.ActionPaymentProofSubmitted, map[string]any{
		"payment_id": in.PaymentID,
		"loan_id":    loanPublicID,
	})
	return dto, nil
}

// ConfirmManual applies one party's attestation to a manual payment:
//
//	dispute              → DISPUTED, payment unconfirmed, loan untouched
//	counterparty agreed  → CONFIRMED, transfer completed
//	receiver attests     → CONFIRMED (the receiver knows the money arrived)
//	payer attests alone  → stays PENDING_CONFIRMATION
//
// A dispute wins over any earlier confirmation. Everything runs under the
// loan lock so a confirm and a dispute racing on the same payment serialize.
func (u *Usecase) ConfirmManual(ctx context.Context, in ConfirmManualInput) (*PaymentDTO, error) {
	seed, err := u.paymentRepo.GetByPaymentID(ctx, in.PaymentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainPayment.ErrNotFound
		}
		return nil, err
	}

	var dto *PaymentDTO
	action := audit.ActionPaymentConfirmed

	err = u.uow.WithinLoanTx(ctx, seed.LoanPublicID, func(r uow.Repos, l *domainLoan.Loan) error {
		p, err := r.Payments.GetByPaymentIDForUpdate(ctx, in.PaymentID)
		if err != nil {
			return err
		}
		if !p.Method.Manual() {
			return ErrNotManual
		}
		if p.ManualStatus == domainPayment.ManualConfirmed {
			// Re-confirming a settled payment is a no-op.
			dto = toDTO(p)
			return nil
		}

		role, err := partyRole(l, in.ActorUserID)
		if err != nil {
			return err
		}
		counterpartyID := partyID(l, role.Opposite())

		p.AppendNote(role, in.Note)
		p.SetConfirmerFlag(role, in.Confirmed)

		finalize := false
		switch {
		case !in.Confirmed:
			p.ManualStatus = domainPayment.ManualDisputed
			p.Confirmed = false
		case p.CounterpartyFlag(role):
			finalize = true
		case role == p.ReceiverRole:
			// Receiver fast-path: the party the money went to is
			// authoritative about having received it.
			finalize = true
		default:
			p.ManualStatus = domainPayment.ManualPendingConfirmation
		}
		if finalize {
			p.ManualStatus = domainPayment.ManualConfirmed
			p.Confirmed = true
			p.TransferStatus = domainPayment.TransferCompleted
		}

		if err := r.Payments.Save(ctx, p); err != nil {
			return err
		}

		switch {
		case !in.Confirmed:
			action = audit.ActionPaymentDisputed
			notify(ctx, r, counterpartyID, l.LoanID, domainNotification.TypePaymentDisputed,
				fmt.Sprintf("A $%.2f %s payment was disputed. Review the transfer details.", p.Amount, p.Method))
		case finalize:
			u.applyLoanTransition(ctx, r, l, p)
			msg := fmt.Sprintf("Payment of $%.2f via %s confirmed by both parties.", p.Amount, p.Method)
			notify(ctx, r, l.LenderID, l.LoanID, domainNotification.TypePaymentConfirmed, msg)
			notify(ctx, r, l.BorrowerID, l.LoanID, domainNotification.TypePaymentConfirmed, msg)
		default:
			notify(ctx, r, counterpartyID, l.LoanID, domainNotification.TypePaymentConfirmed,
				fmt.Sprintf("A $%.2f %s payment awaits your confirmation.", p.Amount, p.Method))
		}

		dto = toDTO(p)
		return nil
	})
	if err != nil {
		return nil, err
	}

	u.audit.Record(ctx, in.ActorUserID, action, map[string]any{
		"payment_id": in.PaymentID,
		"loan_id":    seed.LoanPublicID,
		"confirmed":  in.Confirmed,
	})
	return dto, nil
}
