package term

import "context"

type Repository interface {
	Create(ctx context.Context, t *LenderTerm) error
	GetByTermID(ctx context.Context, termID string) (*LenderTerm, error)
	GetByInviteToken(ctx context.Context, token string) (*LenderTerm, error)
	ListByLenderID(ctx context.Context, lenderID string) ([]LenderTerm, error)
	Save(ctx context.Context, t *LenderTerm) error
}
