package mysql

import (
	"context"

	"gorm.io/gorm"

	termDomain "lendpeer-backend/internal/domain/term"
)

type TermRepository struct{ db *gorm.DB }

func NewTermRepository(db *gorm.DB) *TermRepository { return &TermRepository{db: db} }

func (r *TermRepository) Create(ctx context.Context, t *termDomain.LenderTerm) error {
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *TermRepository) Save(ctx context.Context, t *termDomain.LenderTerm) error {
	return r.db.WithContext(ctx).Save(t).Error
}

func (r *TermRepository) GetByTermID(ctx context.Context, termID string) (*termDomain.LenderTerm, error) {
	var out termDomain.LenderTerm
	res := r.db.WithContext(ctx).Where("term_id = ?", termID).First(&out)
	return &out, res.Error
}

func (r *TermRepository) GetByInviteToken(ctx context.Context, token string) (*termDomain.LenderTerm, error) {
	var out termDomain.LenderTerm
	res := r.db.WithContext(ctx).Where("invite_token = ?", token).First(&out)
	return &out, res.Error
}

func (r *TermRepository) ListByLenderID(ctx context.Context, lenderID string) ([]termDomain.LenderTerm, error) {
	var out []termDomain.LenderTerm
	res := r.db.WithContext(ctx).
		Where("lender_id = ?", lenderID).
		Order("created_at DESC").
		Find(&out)
	return out, res.Error
}
