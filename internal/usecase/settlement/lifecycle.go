package settlement

import (
	"context"
	"log"

	"lendpeer-backend/internal/audit"
	domainLoan "lendpeer-backend/internal/domain/loan"
	domainNotification "lendpeer-backend/internal/domain/notification"
	domainPayment "lendpeer-backend/internal/domain/payment"
	"lendpeer-backend/internal/domain/uow"
	"lendpeer-backend/pkg/id"
)

// amountEpsilon absorbs float drift when comparing repaid totals against
// the payable amount.
const amountEpsilon = 0.005

// applyLoanTransition re-derives the loan status from the payment that just
// settled. Must run inside the same loan-locked transaction that saved the
// payment. Lifecycle failures never unwind the payment: the money moved, so
// the confirmation stands and the mismatch is recorded as a reconciliation
// anomaly for operators instead.
func (u *Usecase) applyLoanTransition(ctx context.Context, r uow.Repos, l *domainLoan.Loan, p *domainPayment.Payment) {
	if !p.Settled() {
		return
	}
	now := u.now().UTC()

	switch {
	case p.IsFunding():
		// Idempotent: a FUNDED loan stays FUNDED on a repeat confirmation.
		if err := l.Transition(domainLoan.StatusFunded, now); err != nil {
			u.anomaly(ctx, l, p, "funding confirmed but loan cannot move to FUNDED: "+err.Error())
			return
		}
		if err := r.Loans.Save(ctx, l); err != nil {
			u.anomaly(ctx, l, p, "loan save after funding failed: "+err.Error())
		}

	case p.IsRepayment():
		// Fresh aggregate over confirmed repayments; the loan row never
		// carries a running total.
		total, err := r.Payments.SumConfirmedRepayments(ctx, l.ID)
		if err != nil {
			u.anomaly(ctx, l, p, "repaid aggregate failed: "+err.Error())
			return
		}
		if total < l.TotalPayable-amountEpsilon {
			return
		}
		if err := l.Transition(domainLoan.StatusCompleted, now); err != nil {
			u.anomaly(ctx, l, p, "repaid in full but loan cannot move to COMPLETED: "+err.Error())
			return
		}
		if err := r.Loans.Save(ctx, l); err != nil {
			u.anomaly(ctx, l, p, "loan save after completion failed: "+err.Error())
			return
		}
		u.audit.Record(ctx, "", audit.ActionLoanCompleted, map[string]any{
			"loan_id":       l.LoanID,
			"repaid":        total,
			"total_payable": l.TotalPayable,
		})
	}
}

func (u *Usecase) anomaly(ctx context.Context, l *domainLoan.Loan, p *domainPayment.Payment, detail string) {
	log.Printf("settlement: reconciliation anomaly on loan %s payment %s: %s", l.LoanID, p.PaymentID, detail)
	u.audit.Record(ctx, "", audit.ActionReconciliationAnomaly, map[string]any{
		"loan_id":    l.LoanID,
		"payment_id": p.PaymentID,
		"status":     string(l.Status),
		"detail":     detail,
	})
}

// notify inserts a notification inside the current transaction. Failures
// are logged and swallowed: a lost notification must not fail settlement.
func notify(ctx context.Context, r uow.Repos, userID, loanID string, t domainNotification.Type, msg string) {
	n := &domainNotification.Notification{
		NotificationID: id.NewID32(),
		UserID:         userID,
		LoanID:         loanID,
		Type:           t,
		Message:        msg,
	}
	if err := r.Notifications.Create(ctx, n); err != nil {
		log.Printf("settlement: drop %s notification for user %s: %v", t, userID, err)
	}
}
