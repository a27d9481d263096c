package mysql

import (
	"context"

	"gorm.io/gorm"

	relDomain "lendpeer-backend/internal/domain/relationship"
)

type RelationshipRepository struct{ db *gorm.DB }

func NewRelationshipRepository(db *gorm.DB) *RelationshipRepository {
	return &RelationshipRepository{db: db}
}

func (r *RelationshipRepository) Create(ctx context.Context, rel *relDomain.Relationship) error {
	return r.db.WithContext(ctx).Create(rel).Error
}

func (r *RelationshipRepository) Save(ctx context.Context, rel *relDomain.Relationship) error {
	return r.db.WithContext(ctx).Save(rel).Error
}

func (r *RelationshipRepository) GetByRelationshipID(ctx context.Context, relationshipID string) (*relDomain.Relationship, error) {
	var out relDomain.Relationship
	res := r.db.WithContext(ctx).Where("relationship_id = ?", relationshipID).First(&out)
	return &out, res.Error
}

func (r *RelationshipRepository) GetConfirmed(ctx context.Context, lenderID, borrowerID string) (*relDomain.Relationship, error) {
	var out relDomain.Relationship
	res := r.db.WithContext(ctx).
		Where("lender_id = ? AND borrower_id = ? AND status = ?",
			lenderID, borrowerID, relDomain.StatusConfirmed).
		First(&out)
	return &out, res.Error
}

func (r *RelationshipRepository) GetByParties(ctx context.Context, lenderID, borrowerID string) (*relDomain.Relationship, error) {
	var out relDomain.Relationship
	res := r.db.WithContext(ctx).
		Where("lender_id = ? AND borrower_id = ?", lenderID, borrowerID).
		First(&out)
	return &out, res.Error
}

func (r *RelationshipRepository) ListByLenderID(ctx context.Context, lenderID string) ([]relDomain.Relationship, error) {
	var out []relDomain.Relationship
	res := r.db.WithContext(ctx).
		Where("lender_id = ?", lenderID).
		Order("created_at DESC").
		Find(&out)
	return out, res.Error
}

func (r *RelationshipRepository) ListByBorrowerID(ctx context.Context, borrowerID string) ([]relDomain.Relationship, error) {
	var out []relDomain.Relationship
	res := r.db.WithContext(ctx).
		Where("borrower_id = ?", borrowerID).
		Order("created_at DESC").
		Find(&out)
	return out, res.Error
}
