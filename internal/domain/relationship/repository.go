package relationship

import "context"

type Repository interface {
	Create(ctx context.Context, r *Relationship) error
	GetByRelationshipID(ctx context.Context, relationshipID string) (*Relationship, error)
	// GetConfirmed returns the CONFIRMED pairing between the two parties,
	// ErrNotFound (wrapped record-not-found) otherwise.
	GetConfirmed(ctx context.Context, lenderID, borrowerID string) (*Relationship, error)
	GetByParties(ctx context.Context, lenderID, borrowerID string) (*Relationship, error)
	ListByLenderID(ctx context.Context, lenderID string) ([]Relationship, error)
	ListByBorrowerID(ctx context.Context, borrowerID string) ([]Relationship, error)
	Save(ctx context.Context, r *Relationship) error
}
