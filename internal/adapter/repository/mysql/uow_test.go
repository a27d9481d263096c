package mysql

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	gormmysql "gorm.io/driver/mysql"
	"gorm.io/gorm"

	loanDomain "lendpeer-backend/internal/domain/loan"
	"lendpeer-backend/internal/domain/uow"
	"lendpeer-backend/pkg/id"
)

func TestWithinTx_Commit(t *testing.T) {
	db := openTestDB(t)
	u := NewGormUoW(db)
	ctx := context.Background()

	loanID := id.NewID32()
	err := u.WithinTx(ctx, func(r uow.Repos) error {
		return r.Loans.Create(ctx, makeLoan(loanID, id.NewID32(), id.NewID32()))
	})
	if err != nil {
		t.Fatalf("WithinTx commit: %v", err)
	}

	if _, err := NewLoanRepository(db).GetByLoanID(ctx, loanID); err != nil {
		t.Fatalf("GetByLoanID after commit: %v", err)
	}
}

func TestWithinTx_Rollback(t *testing.T) {
	db := openTestDB(t)
	u := NewGormUoW(db)
	ctx := context.Background()

	loanID := id.NewID32()
	wantErr := errors.New("boom")

	err := u.WithinTx(ctx, func(r uow.Repos) error {
		if err := r.Loans.Create(ctx, makeLoan(loanID, id.NewID32(), id.NewID32())); err != nil {
			return err
		}
		return wantErr // force rollback
	})
	if !errors.Is(err, wantErr) {
		t.Fatalf("WithinTx returned %v, want %v", err, wantErr)
	}

	_, err = NewLoanRepository(db).GetByLoanID(ctx, loanID)
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected not found after rollback, got %v", err)
	}
}

// WithinLoanTx takes a SELECT ... FOR UPDATE row lock, so these run against
// sqlmock with the mysql dialector rather than sqlite.
func openMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { sqlDB.Close() })

	gdb, err := gorm.Open(gormmysql.New(gormmysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{})
	if err != nil {
		t.Fatalf("gorm.Open: %v", err)
	}
	return gdb, mock
}

func TestWithinLoanTx_LocksAndPassesLoan(t *testing.T) {
	gdb, mock := openMockDB(t)
	u := NewGormUoW(gdb)
	ctx := context.Background()

	loanID := "cccccccccccccccccccccccccccccccc"
	mock.ExpectBegin()
	mock.ExpectQuery("SELECT(.*)FOR UPDATE").
		WillReturnRows(sqlmock.NewRows([]string{"id", "loan_id", "status", "health"}).
			AddRow(7, loanID, "FUNDED", "GOOD"))
	mock.ExpectCommit()

	err := u.WithinLoanTx(ctx, loanID, func(r uow.Repos, l *loanDomain.Loan) error {
		if l.ID != 7 || l.LoanID != loanID || l.Status != loanDomain.StatusFunded {
			t.Errorf("unexpected locked loan: %+v", l)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("WithinLoanTx: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestWithinLoanTx_UnknownLoanMapsToDomainNotFound(t *testing.T) {
	gdb, mock := openMockDB(t)
	u := NewGormUoW(gdb)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT(.*)FOR UPDATE").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectRollback()

	called := false
	err := u.WithinLoanTx(context.Background(), "eeeeeeeeeeeeeeeeeeeeeeeeeeeeeeee",
		func(r uow.Repos, l *loanDomain.Loan) error {
			called = true
			return nil
		})
	if !errors.Is(err, loanDomain.ErrNotFound) {
		t.Fatalf("expected loan.ErrNotFound, got %v", err)
	}
	if called {
		t.Fatalf("callback must not run for an unknown loan")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
