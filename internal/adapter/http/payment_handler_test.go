package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"lendpeer-backend/internal/audit"
	domainAccount "lendpeer-backend/internal/domain/account"
	domainLoan "lendpeer-backend/internal/domain/loan"
	domainPayment "lendpeer-backend/internal/domain/payment"
	"lendpeer-backend/internal/domain/uow"
	"lendpeer-backend/internal/rail"
	"lendpeer-backend/internal/testutil/accountmock"
	"lendpeer-backend/internal/testutil/loanmock"
	"lendpeer-backend/internal/testutil/notificationmock"
	"lendpeer-backend/internal/testutil/paymentmock"
	"lendpeer-backend/internal/testutil/railmock"
	"lendpeer-backend/internal/testutil/uowmock"
	"lendpeer-backend/internal/usecase/settlement"
)

var (
	testLenderID   = strings.Repeat("a", 32)
	testBorrowerID = strings.Repeat("b", 32)
	testLoanID     = strings.Repeat("c", 32)
)

// settlementFixture backs a real settlement usecase with in-memory repos.
type settlementFixture struct {
	loan     *domainLoan.Loan
	payments map[string]*domainPayment.Payment
	accounts map[string]*domainAccount.Account
	uc       *settlement.Usecase
}

func newSettlementFixture() *settlementFixture {
	f := &settlementFixture{
		loan: &domainLoan.Loan{
			ID:           1,
			LoanID:       testLoanID,
			LenderID:     testLenderID,
			BorrowerID:   testBorrowerID,
			Amount:       50,
			TotalPayable: 55,
			Status:       domainLoan.StatusPending,
			Health:       domainLoan.HealthGood,
		},
		payments: map[string]*domainPayment.Payment{},
		accounts: map[string]*domainAccount.Account{},
	}

	payments := &paymentmock.Repo{
		CreateFn: func(_ context.Context, p *domainPayment.Payment) error {
			f.payments[p.PaymentID] = p
			return nil
		},
		GetByPaymentIDFn: func(_ context.Context, pid string) (*domainPayment.Payment, error) {
			if p, ok := f.payments[pid]; ok {
				return p, nil
			}
			return nil, gorm.ErrRecordNotFound
		},
		GetByPaymentIDForUpdateFn: func(_ context.Context, pid string) (*domainPayment.Payment, error) {
			if p, ok := f.payments[pid]; ok {
				return p, nil
			}
			return nil, gorm.ErrRecordNotFound
		},
		SaveFn: func(_ context.Context, p *domainPayment.Payment) error {
			f.payments[p.PaymentID] = p
			return nil
		},
	}
	loans := &loanmock.Repo{
		GetByLoanIDFn: func(_ context.Context, loanID string) (*domainLoan.Loan, error) {
			if f.loan.LoanID == loanID {
				return f.loan, nil
			}
			return nil, gorm.ErrRecordNotFound
		},
		SaveFn: func(_ context.Context, l *domainLoan.Loan) error {
			f.loan = l
			return nil
		},
	}
	accounts := &accountmock.Repo{
		GetDefaultFn: func(_ context.Context, userID string, m domainPayment.Method) (*domainAccount.Account, error) {
			if a, ok := f.accounts[userID+"|"+string(m)]; ok {
				return a, nil
			}
			return nil, gorm.ErrRecordNotFound
		},
	}

	repos := uow.Repos{Loans: loans, Payments: payments, Accounts: accounts, Notifications: &notificationmock.Repo{}}
	tx := uowmock.Passthrough(repos, loans.GetByLoanID)

	rails := settlement.Rails{
		Wallet: &railmock.Adapter{
			InitiateFn: func(_ context.Context, req rail.InitiateRequest) (*rail.InitiateResult, error) {
				return &rail.InitiateResult{TransactionID: "internal_1"}, nil
			},
		},
		Manual: &railmock.Adapter{
			InitiateFn: func(_ context.Context, req rail.InitiateRequest) (*rail.InitiateResult, error) {
				return &rail.InitiateResult{RequiresManualConfirmation: true}, nil
			},
		},
	}
	f.uc = settlement.NewUsecase(payments, loans, accounts, tx, rails, audit.Nop{})
	return f
}

func (f *settlementFixture) addAccount(userID string, m domainPayment.Method, handle string) {
	f.accounts[userID+"|"+string(m)] = &domainAccount.Account{
		ID: uint64(len(f.accounts) + 1), UserID: userID, AccountType: m,
		Handle: handle, IsDefault: true, IsVerified: true,
	}
}

func doJSON(t *testing.T, h echo.HandlerFunc, actorID, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	e := echo.New()
	e.Validator = NewValidator()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("auth_user_id", actorID)

	require.NoError(t, h(c))

	var out map[string]any
	if len(rec.Body.Bytes()) > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	}
	return rec, out
}

func TestPaymentInitiate_WalletFundingCreated(t *testing.T) {
	f := newSettlementFixture()
	h := NewPaymentHandler(f.uc)

	rec, body := doJSON(t, h.Initiate, testLenderID,
		`{"loanId":"`+testLoanID+`","amount":50,"method":"INTERNAL_WALLET","payerRole":"LENDER","receiverRole":"BORROWER"}`)

	require.Equal(t, http.StatusCreated, rec.Code)
	payment := body["payment"].(map[string]any)
	assert.Equal(t, true, payment["confirmed"])
	assert.Equal(t, "COMPLETED", payment["transfer_status"])
	assert.Equal(t, domainLoan.StatusFunded, f.loan.Status)
}

func TestPaymentInitiate_MissingAccount(t *testing.T) {
	f := newSettlementFixture()
	f.addAccount(testLenderID, domainPayment.MethodCashApp, "$lender")
	h := NewPaymentHandler(f.uc)

	rec, body := doJSON(t, h.Initiate, testLenderID,
		`{"loanId":"`+testLoanID+`","amount":50,"method":"CASHAPP","payerRole":"LENDER","receiverRole":"BORROWER"}`)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "borrower", body["requiresAccount"])
}

func TestPaymentInitiate_ValidationErrors(t *testing.T) {
	h := NewPaymentHandler(newSettlementFixture().uc)

	rec, body := doJSON(t, h.Initiate, testLenderID,
		`{"loanId":"short","amount":-5,"method":"CASHAPP","payerRole":"OWNER","receiverRole":"BORROWER"}`)

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "validation failed", body["error"])
	assert.NotEmpty(t, body["details"])
}

func TestPaymentInitiate_UnknownLoanNotFound(t *testing.T) {
	h := NewPaymentHandler(newSettlementFixture().uc)

	rec, body := doJSON(t, h.Initiate, testLenderID,
		`{"loanId":"`+strings.Repeat("e", 32)+`","amount":50,"method":"INTERNAL_WALLET","payerRole":"LENDER","receiverRole":"BORROWER"}`)

	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "loan not found", body["error"])
}

func TestConfirmManualPayment_Flow(t *testing.T) {
	f := newSettlementFixture()
	f.addAccount(testLenderID, domainPayment.MethodCashApp, "$lender")
	f.addAccount(testBorrowerID, domainPayment.MethodCashApp, "$borrower")
	h := NewPaymentHandler(f.uc)

	rec, body := doJSON(t, h.Initiate, testLenderID,
		`{"loanId":"`+testLoanID+`","amount":50,"method":"CASHAPP","payerRole":"LENDER","receiverRole":"BORROWER"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, true, body["requires_manual_confirmation"])
	paymentID := body["payment"].(map[string]any)["payment_id"].(string)

	rec, body = doJSON(t, h.SubmitManualProof, testLenderID,
		`{"paymentId":"`+paymentID+`","transactionId":"CA-123","note":"sent","screenshotPath":"uploads/p.png"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "PENDING_CONFIRMATION", body["payment"].(map[string]any)["manual_confirmation_status"])

	rec, body = doJSON(t, h.ConfirmManualPayment, testBorrowerID,
		`{"paymentId":"`+paymentID+`","confirmed":true,"userRole":"BORROWER"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "CONFIRMED", body["payment"].(map[string]any)["manual_confirmation_status"])
}

func TestConfirmManualPayment_RoleComesFromToken(t *testing.T) {
	f := newSettlementFixture()
	f.addAccount(testLenderID, domainPayment.MethodCashApp, "$lender")
	f.addAccount(testBorrowerID, domainPayment.MethodCashApp, "$borrower")
	h := NewPaymentHandler(f.uc)

	rec, body := doJSON(t, h.Initiate, testLenderID,
		`{"loanId":"`+testLoanID+`","amount":50,"method":"CASHAPP","payerRole":"LENDER","receiverRole":"BORROWER"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	paymentID := body["payment"].(map[string]any)["payment_id"].(string)

	// The payer claims to be the receiver. If the role came from the body
	// this would settle via the receiver's confirmation; it must not.
	rec, body = doJSON(t, h.ConfirmManualPayment, testLenderID,
		`{"paymentId":"`+paymentID+`","confirmed":true,"userRole":"BORROWER"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "PENDING_CONFIRMATION", body["payment"].(map[string]any)["manual_confirmation_status"])
}

func TestConfirmManualPayment_RequiresConfirmedField(t *testing.T) {
	h := NewPaymentHandler(newSettlementFixture().uc)

	rec, _ := doJSON(t, h.ConfirmManualPayment, testBorrowerID,
		`{"paymentId":"`+strings.Repeat("d", 32)+`"}`)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}
