package relationshipmock

import (
	"context"

	domain "lendpeer-backend/internal/domain/relationship"
)

// Repo is a function-backed mock that satisfies domain.Repository.
type Repo struct {
	CreateFn              func(ctx context.Context, r *domain.Relationship) error
	GetByRelationshipIDFn func(ctx context.Context, relationshipID string) (*domain.Relationship, error)
	GetConfirmedFn        func(ctx context.Context, lenderID, borrowerID string) (*domain.Relationship, error)
	GetByPartiesFn        func(ctx context.Context, lenderID, borrowerID string) (*domain.Relationship, error)
	ListByLenderIDFn      func(ctx context.Context, lenderID string) ([]domain.Relationship, error)
	ListByBorrowerIDFn    func(ctx context.Context, borrowerID string) ([]domain.Relationship, error)
	SaveFn                func(ctx context.Context, r *domain.Relationship) error
}

func (m *Repo) Create(ctx context.Context, r *domain.Relationship) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, r)
	}
	return nil
}

func (m *Repo) GetByRelationshipID(ctx context.Context, relationshipID string) (*domain.Relationship, error) {
	if m.GetByRelationshipIDFn != nil {
		return m.GetByRelationshipIDFn(ctx, relationshipID)
	}
	return nil, context.Canceled
}

func (m *Repo) GetConfirmed(ctx context.Context, lenderID, borrowerID string) (*domain.Relationship, error) {
	if m.GetConfirmedFn != nil {
		return m.GetConfirmedFn(ctx, lenderID, borrowerID)
	}
	return nil, context.Canceled
}

func (m *Repo) GetByParties(ctx context.Context, lenderID, borrowerID string) (*domain.Relationship, error) {
	if m.GetByPartiesFn != nil {
		return m.GetByPartiesFn(ctx, lenderID, borrowerID)
	}
	return nil, context.Canceled
}

func (m *Repo) ListByLenderID(ctx context.Context, lenderID string) ([]domain.Relationship, error) {
	if m.ListByLenderIDFn != nil {
		return m.ListByLenderIDFn(ctx, lenderID)
	}
	return nil, nil
}

func (m *Repo) ListByBorrowerID(ctx context.Context, borrowerID string) ([]domain.Relationship, error) {
	if m.ListByBorrowerIDFn != nil {
		return m.ListByBorrowerIDFn(ctx, borrowerID)
	}
	return nil, nil
}

func (m *Repo) Save(ctx context.Context, r *domain.Relationship) error {
	if m.SaveFn != nil {
		return m.SaveFn(ctx, r)
	}
	return nil
}
