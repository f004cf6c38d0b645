package family

import (
	"time"

	"github.com/google/uuid"
)

// Kid belongs to exactly one Parent. PointsBalance is materialized by the
// ledger: every change goes through a point transaction committed in the same
// database transaction, and the column is never allowed to go negative.
type Kid struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ParentID      uuid.UUID `gorm:"type:uuid;index;not null" json:"parent_id"`
	Parent        *Parent   `gorm:"foreignKey:ParentID;references:ID" json:"parent,omitempty"`
	DisplayName   string    `gorm:"not null;column:display_name" json:"display_name"`
	PointsBalance int       `gorm:"not null;default:0;column:points_balance" json:"points_balance"`
	CreatedAt     time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt     time.Time `gorm:"not null" json:"updated_at"`
}

func (Kid) TableName() string { return "kid" }
