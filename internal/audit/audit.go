// Package audit is the append-only activity sink. Writes are fire-and-forget:
// a failed audit insert is logged and never fails the triggering operation.
package audit

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"gorm.io/gorm"

	"lendpeer-backend/pkg/id"
)

type Action string

const (
	ActionLoanCreated           Action = "LOAN_CREATED"
	ActionLoanFunded            Action = "LOAN_FUNDED"
	ActionLoanDenied            Action = "LOAN_DENIED"
	ActionLoanCompleted         Action = "LOAN_COMPLETED"
	ActionPaymentCreated        Action = "PAYMENT_CREATED"
	ActionPaymentProofSubmitted Action = "PAYMENT_PROOF_SUBMITTED"
	ActionPaymentConfirmed      Action = "PAYMENT_CONFIRMED"
	ActionPaymentDisputed       Action = "PAYMENT_DISPUTED"
	ActionTermCreated           Action = "TERM_CREATED"
	ActionTermUpdated           Action = "TERM_UPDATED"
	ActionRelationshipUpdated   Action = "RELATIONSHIP_UPDATED"
	ActionReconciliationAnomaly Action = "RECONCILIATION_ANOMALY"
)

type Entry struct {
	ID        uint64    `gorm:"primaryKey;column:id"`
	EntryID   string    `gorm:"size:32;uniqueIndex:ux_audit_entry_id"`
	UserID    string    `gorm:"size:32;index:idx_audit_user"`
	Action    Action    `gorm:"size:64"`
	Details   string    `gorm:"type:text"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

func (Entry) TableName() string { return "audit_logs" }

// Logger records actions. Implementations must never propagate failures.
type Logger interface {
	Record(ctx context.Context, userID string, action Action, details map[string]any)
}

type GormLogger struct{ db *gorm.DB }

func NewGormLogger(db *gorm.DB) *GormLogger { return &GormLogger{db: db} }

func (g *GormLogger) Record(ctx context.Context, userID string, action Action, details map[string]any) {
	payload, err := json.Marshal(details)
	if err != nil {
		payload = []byte(`{}`)
	}
	e := &Entry{
		EntryID: id.NewID32(),
		UserID:  userID,
		Action:  action,
		Details: string(payload),
	}
	if err := g.db.WithContext(ctx).Create(e).Error; err != nil {
		log.Printf("audit: drop %s for user %s: %v", action, userID, err)
	}
}

// Nop is used by tests and by wiring paths where auditing is disabled.
type Nop struct{}

func (Nop) Record(context.Context, string, Action, map[string]any) {}
