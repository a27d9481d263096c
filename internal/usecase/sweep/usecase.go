// Package sweep is the daily overdue pass. A single timer drives Run; the
// queries are idempotent so an overlapping or repeated run changes nothing
// it has already changed.
package sweep

import (
	"context"
	"fmt"
	"log"
	"time"

	domainLoan "lendpeer-backend/internal/domain/loan"
	domainUser "lendpeer-backend/internal/domain/user"
	"lendpeer-backend/internal/domain/uow"
	"lendpeer-backend/internal/infrastructure/mail"
)

type Usecase struct {
	loanRepo domainLoan.Repository
	userRepo domainUser.Repository
	uow      uow.UnitOfWork
	mailer   mail.Sender
	now      func() time.Time
}

func NewUsecase(loans domainLoan.Repository, users domainUser.Repository, tx uow.UnitOfWork, mailer mail.Sender) *Usecase {
	return &Usecase{loanRepo: loans, userRepo: users, uow: tx, mailer: mailer, now: time.Now}
}

// Run executes both passes: mark FUNDED loans past their payback date
// OVERDUE with a degraded health grade, then remind every OVERDUE loan's
// parties. Per-loan failures are logged and skipped; one bad loan must not
// stall the sweep.
func (u *Usecase) Run(ctx context.Context) error {
	now := u.now().UTC()

	marked, err := u.markOverdue(ctx, now)
	if err != nil {
		return err
	}
	reminded, err := u.remind(ctx, now)
	if err != nil {
		return err
	}
	log.Printf("sweep: marked %d loans overdue, sent %d reminders", marked, reminded)
	return nil
}

func (u *Usecase) markOverdue(ctx context.Context, now time.Time) (int, error) {
	due, err := u.loanRepo.ListFundedPastDue(ctx, now)
	if err != nil {
		return 0, err
	}
	marked := 0
	for i := range due {
		loanID := due[i].LoanID
		err := u.uow.WithinLoanTx(ctx, loanID, func(r uow.Repos, l *domainLoan.Loan) error {
			// Re-check under the lock: a repayment may have completed the
			// loan between the list query and here.
			if l.Status != domainLoan.StatusFunded || !now.After(l.PaybackDate) {
				return nil
			}
			l.Degrade(domainLoan.HealthForDaysLate(l.DaysLate(now)))
			if err := l.Transition(domainLoan.StatusOverdue, now); err != nil {
				return err
			}
			if err := r.Loans.Save(ctx, l); err != nil {
				return err
			}
			marked++
			return nil
		})
		if err != nil {
			log.Printf("sweep: mark overdue %s: %v", loanID, err)
		}
	}
	return marked, nil
}

func (u *Usecase) remind(ctx context.Context, now time.Time) (int, error) {
	overdue, err := u.loanRepo.ListOverdue(ctx)
	if err != nil {
		return 0, err
	}
	reminded := 0
	for i := range overdue {
		l := &overdue[i]

		// Health keeps degrading while the loan sits overdue.
		health := domainLoan.HealthForDaysLate(l.DaysLate(now))
		if health != l.Health {
			err := u.uow.WithinLoanTx(ctx, l.LoanID, func(r uow.Repos, locked *domainLoan.Loan) error {
				if locked.Status != domainLoan.StatusOverdue {
					return nil
				}
				locked.Degrade(health)
				return r.Loans.Save(ctx, locked)
			})
			if err != nil {
				log.Printf("sweep: degrade %s: %v", l.LoanID, err)
			}
		}

		if err := u.sendReminders(ctx, l, now); err != nil {
			log.Printf("sweep: remind %s: %v", l.LoanID, err)
			continue
		}
		reminded++
	}
	return reminded, nil
}

// sendReminders emails both parties, every run, no de-duplication.
func (u *Usecase) sendReminders(ctx context.Context, l *domainLoan.Loan, now time.Time) error {
	lender, err := u.userRepo.GetByUserID(ctx, l.LenderID)
	if err != nil {
		return err
	}
	borrower, err := u.userRepo.GetByUserID(ctx, l.BorrowerID)
	if err != nil {
		return err
	}
	daysLate := l.DaysLate(now)

	subject := fmt.Sprintf("Loan overdue: $%.2f, %d days late", l.TotalPayable, daysLate)
	if err := u.mailer.Send(borrower.Email, subject,
		reminderHTML(borrower.FullName, l, daysLate, "Your repayment is overdue. Please settle the outstanding balance."),
		reminderText(borrower.FullName, l, daysLate)); err != nil {
		return err
	}
	return u.mailer.Send(lender.Email, subject,
		reminderHTML(lender.FullName, l, daysLate, "A loan you funded is overdue."),
		reminderText(lender.FullName, l, daysLate))
}

func reminderHTML(name string, l *domainLoan.Loan, daysLate int, lead string) string {
	return fmt.Sprintf(
		`<p>Hi %s,</p><p>%s</p><ul><li>Amount: $%.2f</li><li>Total payable: $%.2f</li><li>Payback date: %s</li><li>Days late: %d</li></ul>`,
		name, lead, l.Amount, l.TotalPayable, l.PaybackDate.Format("Jan 2, 2006"), daysLate)
}

func reminderText(name string, l *domainLoan.Loan, daysLate int) string {
	return fmt.Sprintf("Hi %s, loan of $%.2f (total payable $%.2f) was due %s and is %d days late.",
		name, l.Amount, l.TotalPayable, l.PaybackDate.Format("Jan 2, 2006"), daysLate)
}
