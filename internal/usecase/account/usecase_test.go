package account

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	domainAccount "lendpeer-backend/internal/domain/account"
	domainPayment "lendpeer-backend/internal/domain/payment"
	"lendpeer-backend/internal/domain/uow"
	"lendpeer-backend/internal/testutil/accountmock"
	"lendpeer-backend/internal/testutil/uowmock"
)

var userID = strings.Repeat("a", 32)

func newAccountUC(accounts *accountmock.Repo) *Usecase {
	repos := uow.Repos{Accounts: accounts}
	tx := uowmock.Passthrough(repos, nil)
	return NewUsecase(accounts, tx)
}

func TestCreate_FirstOfTypeBecomesDefault(t *testing.T) {
	var created *domainAccount.Account
	var clearedExcept uint64
	accounts := &accountmock.Repo{
		ListByUserIDFn: func(_ context.Context, _ string) ([]domainAccount.Account, error) {
			return nil, nil
		},
		CreateFn: func(_ context.Context, a *domainAccount.Account) error {
			a.ID = 5
			created = a
			return nil
		},
		ClearDefaultFn: func(_ context.Context, _ string, _ domainPayment.Method, exceptID uint64) error {
			clearedExcept = exceptID
			return nil
		},
	}
	uc := newAccountUC(accounts)

	dto, err := uc.Create(context.Background(), CreateInput{
		ActorUserID: userID,
		AccountType: "CASHAPP",
		Handle:      "$alex_b",
		Nickname:    "main",
	})
	require.NoError(t, err)

	assert.True(t, dto.IsDefault, "first account of a rail defaults itself")
	assert.True(t, dto.IsVerified)
	require.NotNil(t, created)
	assert.Equal(t, uint64(5), clearedExcept, "other defaults cleared in the same tx")
}

func TestCreate_SecondStaysNonDefault(t *testing.T) {
	accounts := &accountmock.Repo{
		ListByUserIDFn: func(_ context.Context, _ string) ([]domainAccount.Account, error) {
			return []domainAccount.Account{{AccountType: domainPayment.MethodCashApp, IsDefault: true}}, nil
		},
		CreateFn: func(_ context.Context, a *domainAccount.Account) error { return nil },
	}
	uc := newAccountUC(accounts)

	dto, err := uc.Create(context.Background(), CreateInput{
		ActorUserID: userID,
		AccountType: "CASHAPP",
		Handle:      "$backup",
	})
	require.NoError(t, err)
	assert.False(t, dto.IsDefault)
}

func TestCreate_HandleValidation(t *testing.T) {
	tests := []struct {
		name        string
		accountType string
		handle      string
		wantErr     error
	}{
		{"cashapp cashtag ok", "CASHAPP", "$alex_b", nil},
		{"cashapp bare name rejected", "CASHAPP", "alex_b", ErrBadHandle},
		{"paypal email ok", "PAYPAL", "alex@example.com", nil},
		{"paypal junk rejected", "PAYPAL", "not-an-email", ErrBadHandle},
		{"zelle email ok", "ZELLE", "alex@example.com", nil},
		{"zelle phone ok", "ZELLE", "+15551234567", nil},
		{"zelle junk rejected", "ZELLE", "@!#", ErrBadHandle},
		{"card takes no accounts", "CARD", "4242", ErrUnsupported},
		{"wallet takes no accounts", "INTERNAL_WALLET", "w1", ErrUnsupported},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := newAccountUC(&accountmock.Repo{
				ListByUserIDFn: func(_ context.Context, _ string) ([]domainAccount.Account, error) { return nil, nil },
				CreateFn:       func(_ context.Context, _ *domainAccount.Account) error { return nil },
				ClearDefaultFn: func(_ context.Context, _ string, _ domainPayment.Method, _ uint64) error { return nil },
			})
			_, err := uc.Create(context.Background(), CreateInput{
				ActorUserID: userID,
				AccountType: tt.accountType,
				Handle:      tt.handle,
			})
			if tt.wantErr == nil {
				require.NoError(t, err)
			} else {
				require.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func ownedAccount() *domainAccount.Account {
	return &domainAccount.Account{
		ID:          5,
		AccountID:   strings.Repeat("c", 32),
		UserID:      userID,
		AccountType: domainPayment.MethodCashApp,
		Handle:      "$alex_b",
		IsVerified:  true,
	}
}

func TestUpdate_PromoteToDefaultClearsOthers(t *testing.T) {
	a := ownedAccount()
	cleared := false
	accounts := &accountmock.Repo{
		GetByAccountIDFn: func(_ context.Context, _ string) (*domainAccount.Account, error) { return a, nil },
		SaveFn:           func(_ context.Context, _ *domainAccount.Account) error { return nil },
		ClearDefaultFn: func(_ context.Context, _ string, _ domainPayment.Method, exceptID uint64) error {
			cleared = true
			assert.Equal(t, a.ID, exceptID)
			return nil
		},
	}
	uc := newAccountUC(accounts)

	def := true
	dto, err := uc.Update(context.Background(), UpdateInput{
		ActorUserID: userID,
		AccountID:   a.AccountID,
		IsDefault:   &def,
	})
	require.NoError(t, err)
	assert.True(t, dto.IsDefault)
	assert.True(t, cleared)
}

func TestUpdate_OwnershipEnforced(t *testing.T) {
	a := ownedAccount()
	accounts := &accountmock.Repo{
		GetByAccountIDFn: func(_ context.Context, _ string) (*domainAccount.Account, error) { return a, nil },
	}
	uc := newAccountUC(accounts)

	nick := "x"
	_, err := uc.Update(context.Background(), UpdateInput{
		ActorUserID: strings.Repeat("9", 32),
		AccountID:   a.AccountID,
		Nickname:    &nick,
	})
	require.ErrorIs(t, err, ErrNotOwner)
}

func TestGet_ObscuresOtherUsersAccounts(t *testing.T) {
	a := ownedAccount()
	accounts := &accountmock.Repo{
		GetByAccountIDFn: func(_ context.Context, id string) (*domainAccount.Account, error) {
			if id == a.AccountID {
				return a, nil
			}
			return nil, gorm.ErrRecordNotFound
		},
	}
	uc := newAccountUC(accounts)

	_, err := uc.Get(context.Background(), userID, a.AccountID)
	require.NoError(t, err)

	_, err = uc.Get(context.Background(), strings.Repeat("9", 32), a.AccountID)
	require.ErrorIs(t, err, domainAccount.ErrNotFound)

	_, err = uc.Get(context.Background(), userID, strings.Repeat("0", 32))
	require.ErrorIs(t, err, domainAccount.ErrNotFound)
}

func TestDelete(t *testing.T) {
	a := ownedAccount()
	deleted := false
	accounts := &accountmock.Repo{
		GetByAccountIDFn: func(_ context.Context, _ string) (*domainAccount.Account, error) { return a, nil },
		DeleteFn: func(_ context.Context, _ *domainAccount.Account) error {
			deleted = true
			return nil
		},
	}
	uc := newAccountUC(accounts)

	require.NoError(t, uc.Delete(context.Background(), userID, a.AccountID))
	assert.True(t, deleted)

	require.ErrorIs(t, uc.Delete(context.Background(), strings.Repeat("9", 32), a.AccountID), ErrNotOwner)
}
