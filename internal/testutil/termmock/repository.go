package termmock

import (
	"context"

	domain "lendpeer-backend/internal/domain/term"
)

// Repo is a function-backed mock that satisfies domain.Repository.
type Repo struct {
	CreateFn           func(ctx context.Context, t *domain.LenderTerm) error
	GetByTermIDFn      func(ctx context.Context, termID string) (*domain.LenderTerm, error)
	GetByInviteTokenFn func(ctx context.Context, token string) (*domain.LenderTerm, error)
	ListByLenderIDFn   func(ctx context.Context, lenderID string) ([]domain.LenderTerm, error)
	SaveFn             func(ctx context.Context, t *domain.LenderTerm) error
}

func (m *Repo) Create(ctx context.Context, t *domain.LenderTerm) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, t)
	}
	return nil
}

func (m *Repo) GetByTermID(ctx context.Context, termID string) (*domain.LenderTerm, error) {
	if m.GetByTermIDFn != nil {
		return m.GetByTermIDFn(ctx, termID)
	}
	return nil, context.Canceled
}

func (m *Repo) GetByInviteToken(ctx context.Context, token string) (*domain.LenderTerm, error) {
	if m.GetByInviteTokenFn != nil {
		return m.GetByInviteTokenFn(ctx, token)
	}
	return nil, context.Canceled
}

func (m *Repo) ListByLenderID(ctx context.Context, lenderID string) ([]domain.LenderTerm, error) {
	if m.ListByLenderIDFn != nil {
		return m.ListByLenderIDFn(ctx, lenderID)
	}
	return nil, nil
}

func (m *Repo) Save(ctx context.Context, t *domain.LenderTerm) error {
	if m.SaveFn != nil {
		return m.SaveFn(ctx, t)
	}
	return nil
}
