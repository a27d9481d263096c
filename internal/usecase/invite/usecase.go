// Package invite resolves term invite tokens and manages the lender↔borrower
// relationships they create. The token is a capability: anyone holding it may
// pair with the lender, no approval step.
package invite

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"lendpeer-backend/internal/audit"
	domainRel "lendpeer-backend/internal/domain/relationship"
	domainTerm "lendpeer-backend/internal/domain/term"
	domainUser "lendpeer-backend/internal/domain/user"
	"lendpeer-backend/internal/domain/uow"
	"lendpeer-backend/pkg/id"
)

var (
	ErrInviteNotFound = errors.New("invite token not recognized")
	ErrOwnInvite      = errors.New("cannot accept your own invite")
	ErrBlocked        = errors.New("relationship is blocked")
	ErrNotInPair      = errors.New("user is not part of this relationship")
)

type InviteDTO struct {
	LenderID       string  `json:"lender_id"`
	LenderName     string  `json:"lender_name"`
	TermID         string  `json:"term_id"`
	MaxLoanAmount  float64 `json:"max_loan_amount"`
	MaxPaybackDays int     `json:"max_payback_days"`
	FeePer10Short  float64 `json:"fee_per_10_short"`
	FeePer10Long   float64 `json:"fee_per_10_long"`
}

type RelationshipDTO struct {
	RelationshipID string           `json:"relationship_id"`
	LenderID       string           `json:"lender_id"`
	BorrowerID     string           `json:"borrower_id"`
	Status         domainRel.Status `json:"status"`
	CreatedAt      time.Time        `json:"created_at"`
}

type Usecase struct {
	termRepo domainTerm.Repository
	userRepo domainUser.Repository
	relRepo  domainRel.Repository
	uow      uow.UnitOfWork
	audit    audit.Logger
}

func NewUsecase(terms domainTerm.Repository, users domainUser.Repository, rels domainRel.Repository, tx uow.UnitOfWork, sink audit.Logger) *Usecase {
	return &Usecase{termRepo: terms, userRepo: users, relRepo: rels, uow: tx, audit: sink}
}

// Lookup shows the inviting lender and the headline terms before acceptance.
func (u *Usecase) Lookup(ctx context.Context, token string) (*InviteDTO, error) {
	t, err := u.termRepo.GetByInviteToken(ctx, token)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInviteNotFound
		}
		return nil, err
	}
	lender, err := u.userRepo.GetByUserID(ctx, t.LenderID)
	if err != nil {
		return nil, err
	}
	return &InviteDTO{
		LenderID:       lender.UserID,
		LenderName:     lender.FullName,
		TermID:         t.TermID,
		MaxLoanAmount:  t.MaxLoanAmount,
		MaxPaybackDays: t.MaxPaybackDays,
		FeePer10Short:  t.FeePer10Short,
		FeePer10Long:   t.FeePer10Long,
	}, nil
}

// Accept pairs the acting user with the inviting lender. Idempotent: an
// existing CONFIRMED pairing is returned as-is; a BLOCKED one refuses.
func (u *Usecase) Accept(ctx context.Context, token, actorUserID string) (*RelationshipDTO, error) {
	var dto *RelationshipDTO
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		t, err := r.Terms.GetByInviteToken(ctx, token)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrInviteNotFound
			}
			return err
		}
		if t.LenderID == actorUserID {
			return ErrOwnInvite
		}

		existing, err := r.Relationships.GetByParties(ctx, t.LenderID, actorUserID)
		switch {
		case err == nil:
			if existing.Status == domainRel.StatusBlocked {
				return ErrBlocked
			}
			dto = toRelDTO(existing)
			return nil
		case !errors.Is(err, gorm.ErrRecordNotFound):
			return err
		}

		rel := &domainRel.Relationship{
			RelationshipID: id.NewID32(),
			LenderID:       t.LenderID,
			BorrowerID:     actorUserID,
			Status:         domainRel.StatusConfirmed,
		}
		if err := r.Relationships.Create(ctx, rel); err != nil {
			return err
		}
		dto = toRelDTO(rel)
		return nil
	})
	if err != nil {
		return nil, err
	}

	u.audit.Record(ctx, actorUserID, audit.ActionRelationshipUpdated, map[string]any{
		"relationship_id": dto.RelationshipID,
		"status":          string(dto.Status),
	})
	return dto, nil
}

// SetStatus lets either party flip the pairing between CONFIRMED and BLOCKED.
func (u *Usecase) SetStatus(ctx context.Context, actorUserID, relationshipID string, status domainRel.Status) (*RelationshipDTO, error) {
	if !status.Valid() {
		return nil, errors.New("unknown relationship status")
	}
	rel, err := u.relRepo.GetByRelationshipID(ctx, relationshipID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainRel.ErrNotFound
		}
		return nil, err
	}
	if rel.LenderID != actorUserID && rel.BorrowerID != actorUserID {
		return nil, ErrNotInPair
	}

	rel.Status = status
	if err := u.relRepo.Save(ctx, rel); err != nil {
		return nil, err
	}
	u.audit.Record(ctx, actorUserID, audit.ActionRelationshipUpdated, map[string]any{
		"relationship_id": rel.RelationshipID,
		"status":          string(status),
	})
	return toRelDTO(rel), nil
}

// ListForUser returns pairings where the user sits on either side.
func (u *Usecase) ListForUser(ctx context.Context, userID string) ([]RelationshipDTO, error) {
	asLender, err := u.relRepo.ListByLenderID(ctx, userID)
	if err != nil {
		return nil, err
	}
	asBorrower, err := u.relRepo.ListByBorrowerID(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := make([]RelationshipDTO, 0, len(asLender)+len(asBorrower))
	for i := range asLender {
		out = append(out, *toRelDTO(&asLender[i]))
	}
	for i := range asBorrower {
		out = append(out, *toRelDTO(&asBorrower[i]))
	}
	return out, nil
}

func toRelDTO(rel *domainRel.Relationship) *RelationshipDTO {
	return &RelationshipDTO{
		RelationshipID: rel.RelationshipID,
		LenderID:       rel.LenderID,
		BorrowerID:     rel.BorrowerID,
		Status:         rel.Status,
		CreatedAt:      rel.CreatedAt,
	}
}
