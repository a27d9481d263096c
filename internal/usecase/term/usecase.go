// Package term manages a lender's reusable loan policies. Creating a first
// term is how a plain borrower becomes a lender: the role upgrades to BOTH
// in the same transaction.
package term

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"gorm.io/gorm"

	"lendpeer-backend/internal/audit"
	domainTerm "lendpeer-backend/internal/domain/term"
	domainUser "lendpeer-backend/internal/domain/user"
	"lendpeer-backend/internal/domain/uow"
	"lendpeer-backend/pkg/id"
)

type Usecase struct {
	termRepo domainTerm.Repository
	uow      uow.UnitOfWork
	audit    audit.Logger
	now      func() time.Time
}

func NewUsecase(terms domainTerm.Repository, tx uow.UnitOfWork, sink audit.Logger) *Usecase {
	return &Usecase{termRepo: terms, uow: tx, audit: sink, now: time.Now}
}

func (u *Usecase) Create(ctx context.Context, in CreateInput) (*TermDTO, error) {
	if in.MaxLoanAmount <= 0 || in.MaxPaybackDays <= 0 || in.FeePer10Short <= 0 || in.FeePer10Long <= 0 {
		return nil, ErrBadLimits
	}
	if err := validateMethods(in.PreferredMethods); err != nil {
		return nil, err
	}

	var dto *TermDTO
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		usr, err := r.Users.GetByUserID(ctx, in.ActorUserID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domainUser.ErrNotFound
			}
			return err
		}
		if usr.Role == domainUser.RoleBorrower {
			usr.Role = domainUser.RoleBoth
			if err := r.Users.Save(ctx, usr); err != nil {
				return err
			}
		}

		t := &domainTerm.LenderTerm{
			TermID:                id.NewID32(),
			LenderID:              in.ActorUserID,
			MaxLoanAmount:         in.MaxLoanAmount,
			LoanMultiple:          in.LoanMultiple,
			MaxPaybackDays:        in.MaxPaybackDays,
			FeePer10Short:         in.FeePer10Short,
			FeePer10Long:          in.FeePer10Long,
			AllowMultipleLoans:    in.AllowMultipleLoans,
			InviteToken:           id.NewInviteToken(),
			RequireMatchingMethod: in.RequireMatchingMethod,
		}
		if t.LoanMultiple <= 0 {
			t.LoanMultiple = 10
		}
		if len(in.PreferredMethods) > 0 {
			raw, err := json.Marshal(in.PreferredMethods)
			if err != nil {
				return err
			}
			t.PreferredMethods = string(raw)
		}
		if err := r.Terms.Create(ctx, t); err != nil {
			return err
		}
		dto = toDTO(t)
		return nil
	})
	if err != nil {
		return nil, err
	}

	u.audit.Record(ctx, in.ActorUserID, audit.ActionTermCreated, map[string]any{"term_id": dto.TermID})
	return dto, nil
}

func (u *Usecase) Update(ctx context.Context, in UpdateInput) (*TermDTO, error) {
	t, err := u.owned(ctx, in.ActorUserID, in.TermID)
	if err != nil {
		return nil, err
	}

	if in.MaxLoanAmount != nil {
		t.MaxLoanAmount = *in.MaxLoanAmount
	}
	if in.LoanMultiple != nil {
		t.LoanMultiple = *in.LoanMultiple
	}
	if in.MaxPaybackDays != nil {
		t.MaxPaybackDays = *in.MaxPaybackDays
	}
	if in.FeePer10Short != nil {
		t.FeePer10Short = *in.FeePer10Short
	}
	if in.FeePer10Long != nil {
		t.FeePer10Long = *in.FeePer10Long
	}
	if in.AllowMultipleLoans != nil {
		t.AllowMultipleLoans = *in.AllowMultipleLoans
	}
	if t.MaxLoanAmount <= 0 || t.MaxPaybackDays <= 0 || t.FeePer10Short <= 0 || t.FeePer10Long <= 0 {
		return nil, ErrBadLimits
	}

	if err := u.termRepo.Save(ctx, t); err != nil {
		return nil, err
	}
	u.audit.Record(ctx, in.ActorUserID, audit.ActionTermUpdated, map[string]any{"term_id": t.TermID})
	return toDTO(t), nil
}

// UpdatePreferences replaces the term's payment-method preference list.
func (u *Usecase) UpdatePreferences(ctx context.Context, in PreferencesInput) (*TermDTO, error) {
	if err := validateMethods(in.PreferredMethods); err != nil {
		return nil, err
	}
	t, err := u.owned(ctx, in.ActorUserID, in.TermID)
	if err != nil {
		return nil, err
	}

	t.PreferredMethods = ""
	if len(in.PreferredMethods) > 0 {
		raw, err := json.Marshal(in.PreferredMethods)
		if err != nil {
			return nil, err
		}
		t.PreferredMethods = string(raw)
	}
	t.RequireMatchingMethod = in.RequireMatchingMethod

	if err := u.termRepo.Save(ctx, t); err != nil {
		return nil, err
	}
	u.audit.Record(ctx, in.ActorUserID, audit.ActionTermUpdated, map[string]any{"term_id": t.TermID})
	return toDTO(t), nil
}

func (u *Usecase) List(ctx context.Context, lenderID string) ([]TermDTO, error) {
	rows, err := u.termRepo.ListByLenderID(ctx, lenderID)
	if err != nil {
		return nil, err
	}
	out := make([]TermDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *toDTO(&rows[i]))
	}
	return out, nil
}

func (u *Usecase) Get(ctx context.Context, actorUserID, termID string) (*TermDTO, error) {
	t, err := u.owned(ctx, actorUserID, termID)
	if err != nil {
		return nil, err
	}
	return toDTO(t), nil
}

func (u *Usecase) owned(ctx context.Context, actorUserID, termID string) (*domainTerm.LenderTerm, error) {
	t, err := u.termRepo.GetByTermID(ctx, termID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainTerm.ErrNotFound
		}
		return nil, err
	}
	if t.LenderID != actorUserID {
		return nil, ErrNotOwner
	}
	return t, nil
}
