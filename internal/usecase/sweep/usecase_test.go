package sweep

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainLoan "lendpeer-backend/internal/domain/loan"
	domainUser "lendpeer-backend/internal/domain/user"
	"lendpeer-backend/internal/domain/uow"
	"lendpeer-backend/internal/testutil/loanmock"
	"lendpeer-backend/internal/testutil/uowmock"
	"lendpeer-backend/internal/testutil/usermock"
)

var (
	lenderID   = strings.Repeat("a", 32)
	borrowerID = strings.Repeat("b", 32)
)

type sentMail struct {
	to      string
	subject string
}

// mailRecorder satisfies mail.Sender.
type mailRecorder struct {
	mu   sync.Mutex
	sent []sentMail
}

func (m *mailRecorder) Send(to, subject, htmlBody, textBody string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, sentMail{to: to, subject: subject})
	return nil
}

func overdueBy(days int, now time.Time) *domainLoan.Loan {
	return &domainLoan.Loan{
		ID:           1,
		LoanID:       strings.Repeat("c", 32),
		LenderID:     lenderID,
		BorrowerID:   borrowerID,
		Amount:       50,
		TotalPayable: 55,
		Status:       domainLoan.StatusFunded,
		Health:       domainLoan.HealthGood,
		PaybackDate:  now.Add(-time.Duration(days) * 24 * time.Hour),
	}
}

func newSweep(loans *loanmock.Repo, users *usermock.Repo, mailer *mailRecorder, now time.Time) *Usecase {
	repos := uow.Repos{Loans: loans, Users: users}
	tx := uowmock.Passthrough(repos, func(ctx context.Context, loanID string) (*domainLoan.Loan, error) {
		return loans.GetByLoanID(ctx, loanID)
	})
	uc := NewUsecase(loans, users, tx, mailer)
	uc.now = func() time.Time { return now }
	return uc
}

func stockUsers() *usermock.Repo {
	return &usermock.Repo{
		GetByUserIDFn: func(_ context.Context, userID string) (*domainUser.User, error) {
			return &domainUser.User{UserID: userID, Email: userID[:4] + "@example.com", FullName: "Party " + userID[:4]}, nil
		},
	}
}

func TestRun_MarksOverdueWithHealthGrade(t *testing.T) {
	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name       string
		daysLate   int
		wantHealth domainLoan.Health
	}{
		{"just past due", 3, domainLoan.HealthBehind},
		{"two weeks and more", 20, domainLoan.HealthFailing},
		{"over a month", 31, domainLoan.HealthDefaulted},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := overdueBy(tt.daysLate, now)
			loans := &loanmock.Repo{
				ListFundedPastDueFn: func(_ context.Context, _ time.Time) ([]domainLoan.Loan, error) {
					return []domainLoan.Loan{*l}, nil
				},
				GetByLoanIDFn: func(_ context.Context, _ string) (*domainLoan.Loan, error) { return l, nil },
			}
			mailer := &mailRecorder{}
			uc := newSweep(loans, stockUsers(), mailer, now)

			require.NoError(t, uc.Run(context.Background()))
			assert.Equal(t, domainLoan.StatusOverdue, l.Status)
			assert.Equal(t, tt.wantHealth, l.Health)
		})
	}
}

func TestRun_SkipsLoanCompletedUnderTheLock(t *testing.T) {
	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	l := overdueBy(5, now)

	loans := &loanmock.Repo{
		ListFundedPastDueFn: func(_ context.Context, _ time.Time) ([]domainLoan.Loan, error) {
			// The list query saw the loan FUNDED and past due...
			return []domainLoan.Loan{*l}, nil
		},
		GetByLoanIDFn: func(_ context.Context, _ string) (*domainLoan.Loan, error) {
			// ...but a repayment completed it before the lock was taken.
			l.Status = domainLoan.StatusCompleted
			return l, nil
		},
	}
	mailer := &mailRecorder{}
	uc := newSweep(loans, stockUsers(), mailer, now)

	require.NoError(t, uc.Run(context.Background()))
	assert.Equal(t, domainLoan.StatusCompleted, l.Status)
	assert.Equal(t, domainLoan.HealthGood, l.Health)
}

func TestRun_RemindsEveryOverdueLoanEachRun(t *testing.T) {
	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	l := overdueBy(5, now)
	l.Status = domainLoan.StatusOverdue
	l.Health = domainLoan.HealthBehind

	loans := &loanmock.Repo{
		ListOverdueFn: func(_ context.Context) ([]domainLoan.Loan, error) {
			return []domainLoan.Loan{*l}, nil
		},
		GetByLoanIDFn: func(_ context.Context, _ string) (*domainLoan.Loan, error) { return l, nil },
	}
	mailer := &mailRecorder{}
	uc := newSweep(loans, stockUsers(), mailer, now)

	require.NoError(t, uc.Run(context.Background()))
	require.NoError(t, uc.Run(context.Background()))

	// Both parties, both runs: reminders are unconditional.
	require.Len(t, mailer.sent, 4)
	var borrowerMails, lenderMails int
	for _, m := range mailer.sent {
		assert.Contains(t, m.subject, "5 days late")
		switch m.to {
		case borrowerID[:4] + "@example.com":
			borrowerMails++
		case lenderID[:4] + "@example.com":
			lenderMails++
		}
	}
	assert.Equal(t, 2, borrowerMails)
	assert.Equal(t, 2, lenderMails)
}

func TestRun_DegradesHealthWhileOverdue(t *testing.T) {
	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	l := overdueBy(20, now)
	l.Status = domainLoan.StatusOverdue
	l.Health = domainLoan.HealthBehind

	loans := &loanmock.Repo{
		ListOverdueFn: func(_ context.Context) ([]domainLoan.Loan, error) {
			return []domainLoan.Loan{*l}, nil
		},
		GetByLoanIDFn: func(_ context.Context, _ string) (*domainLoan.Loan, error) { return l, nil },
	}
	uc := newSweep(loans, stockUsers(), &mailRecorder{}, now)

	require.NoError(t, uc.Run(context.Background()))
	assert.Equal(t, domainLoan.HealthFailing, l.Health)
	assert.Equal(t, domainLoan.StatusOverdue, l.Status)
}
