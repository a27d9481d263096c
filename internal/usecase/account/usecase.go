// Package account manages a user's payment accounts. Default-flag moves are
// transactional: promoting one account clears every other default of the
// same (user, rail) pair in the same transaction, so at most one default
// per rail can ever be observed.
package account

import (
	"context"
	"errors"
	"net/mail"
	"regexp"
	"strings"
	"time"

	"gorm.io/gorm"

	domainAccount "lendpeer-backend/internal/domain/account"
	domainPayment "lendpeer-backend/internal/domain/payment"
	"lendpeer-backend/internal/domain/uow"
	"lendpeer-backend/pkg/id"
)

var (
	ErrNotOwner    = errors.New("payment account does not belong to this user")
	ErrBadHandle   = errors.New("handle does not match the rail's identifier format")
	ErrUnsupported = errors.New("method does not take registered accounts")
)

var cashtagRe = regexp.MustCompile(`^\$[A-Za-z][A-Za-z0-9_]{0,19}$`)
var phoneRe = regexp.MustCompile(`^\+?[0-9]{7,15}$`)

type CreateInput struct {
	ActorUserID string
	AccountType string
	Handle      string
	Nickname    string
	IsDefault   bool
}

type UpdateInput struct {
	ActorUserID string
	AccountID   string
	Nickname    *string
	IsDefault   *bool
}

type AccountDTO struct {
	AccountID   string    `json:"account_id"`
	AccountType string    `json:"account_type"`
	Handle      string    `json:"handle"`
	Nickname    string    `json:"nickname,omitempty"`
	IsDefault   bool      `json:"is_default"`
	IsVerified  bool      `json:"is_verified"`
	CreatedAt   time.Time `json:"created_at"`
}

type Usecase struct {
	accountRepo domainAccount.Repository
	uow         uow.UnitOfWork
}

func NewUsecase(accounts domainAccount.Repository, tx uow.UnitOfWork) *Usecase {
	return &Usecase{accountRepo: accounts, uow: tx}
}

func (u *Usecase) Create(ctx context.Context, in CreateInput) (*AccountDTO, error) {
	method := domainPayment.Method(in.AccountType)
	if !method.AccountBacked() {
		return nil, ErrUnsupported
	}
	handle := strings.TrimSpace(in.Handle)
	if err := validateHandle(method, handle); err != nil {
		return nil, err
	}

	var dto *AccountDTO
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		existing, err := r.Accounts.ListByUserID(ctx, in.ActorUserID)
		if err != nil {
			return err
		}
		firstOfType := true
		for _, a := range existing {
			if a.AccountType == method {
				firstOfType = false
				break
			}
		}

		a := &domainAccount.Account{
			AccountID:   id.NewID32(),
			UserID:      in.ActorUserID,
			AccountType: method,
			Handle:      handle,
			Nickname:    in.Nickname,
			IsDefault:   in.IsDefault || firstOfType,
			IsVerified:  true,
		}
		if err := r.Accounts.Create(ctx, a); err != nil {
			return err
		}
		if a.IsDefault {
			if err := r.Accounts.ClearDefault(ctx, in.ActorUserID, method, a.ID); err != nil {
				return err
			}
		}
		dto = toDTO(a)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return dto, nil
}

func (u *Usecase) Update(ctx context.Context, in UpdateInput) (*AccountDTO, error) {
	var dto *AccountDTO
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		a, err := u.owned(ctx, r, in.ActorUserID, in.AccountID)
		if err != nil {
			return err
		}
		if in.Nickname != nil {
			a.Nickname = *in.Nickname
		}
		if in.IsDefault != nil {
			a.IsDefault = *in.IsDefault
		}
		if err := r.Accounts.Save(ctx, a); err != nil {
			return err
		}
		if a.IsDefault {
			if err := r.Accounts.ClearDefault(ctx, a.UserID, a.AccountType, a.ID); err != nil {
				return err
			}
		}
		dto = toDTO(a)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return dto, nil
}

func (u *Usecase) Delete(ctx context.Context, actorUserID, accountID string) error {
	return u.uow.WithinTx(ctx, func(r uow.Repos) error {
		a, err := u.owned(ctx, r, actorUserID, accountID)
		if err != nil {
			return err
		}
		return r.Accounts.Delete(ctx, a)
	})
}

func (u *Usecase) List(ctx context.Context, userID string) ([]AccountDTO, error) {
	rows, err := u.accountRepo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := make([]AccountDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *toDTO(&rows[i]))
	}
	return out, nil
}

func (u *Usecase) Get(ctx context.Context, actorUserID, accountID string) (*AccountDTO, error) {
	a, err := u.accountRepo.GetByAccountID(ctx, accountID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainAccount.ErrNotFound
		}
		return nil, err
	}
	if a.UserID != actorUserID {
		return nil, domainAccount.ErrNotFound
	}
	return toDTO(a), nil
}

func (u *Usecase) owned(ctx context.Context, r uow.Repos, actorUserID, accountID string) (*domainAccount.Account, error) {
	a, err := r.Accounts.GetByAccountID(ctx, accountID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainAccount.ErrNotFound
		}
		return nil, err
	}
	if a.UserID != actorUserID {
		return nil, ErrNotOwner
	}
	return a, nil
}

// validateHandle enforces the rail-specific identifier shape: $cashtag for
// CashApp, an email for PayPal, email or phone for Zelle.
func validateHandle(m domainPayment.Method, handle string) error {
	if handle == "" {
		return ErrBadHandle
	}
	switch m {
	case domainPayment.MethodCashApp:
		if !cashtagRe.MatchString(handle) {
			return ErrBadHandle
		}
	case domainPayment.MethodPayPal:
		if _, err := mail.ParseAddress(handle); err != nil {
			return ErrBadHandle
		}
	case domainPayment.MethodZelle:
		if _, err := mail.ParseAddress(handle); err != nil && !phoneRe.MatchString(handle) {
			return ErrBadHandle
		}
	}
	return nil
}

func toDTO(a *domainAccount.Account) *AccountDTO {
	return &AccountDTO{
		AccountID:   a.AccountID,
		AccountType: string(a.AccountType),
		Handle:      a.Handle,
		Nickname:    a.Nickname,
		IsDefault:   a.IsDefault,
		IsVerified:  a.IsVerified,
		CreatedAt:   a.CreatedAt,
	}
}
