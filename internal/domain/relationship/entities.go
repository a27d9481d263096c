package relationship

import (
	"errors"
	"time"

	"gorm.io/gorm"
)

var ErrNotFound = errors.New("relationship not found")

type Status string

const (
	StatusConfirmed Status = "CONFIRMED"
	StatusBlocked   Status = "BLOCKED"
)

func (s Status) Valid() bool { return s == StatusConfirmed || s == StatusBlocked }

// Relationship pairs one lender with one borrower. Loans may only be created
// across a CONFIRMED pairing.
type Relationship struct {
	ID             uint64         `gorm:"primaryKey;column:id" json:"-"`
	RelationshipID string         `gorm:"size:32;uniqueIndex:ux_relationships_id" json:"relationship_id"`
	LenderID       string         `gorm:"size:32;uniqueIndex:ux_relationships_pair" json:"lender_id"`
	BorrowerID     string         `gorm:"size:32;uniqueIndex:ux_relationships_pair" json:"borrower_id"`
	Status         Status         `gorm:"type:enum('CONFIRMED','BLOCKED');default:'CONFIRMED'" json:"status"`
	CreatedAt      time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Relationship) TableName() string { return "relationships" }
